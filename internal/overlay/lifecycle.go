package overlay

import (
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Better-Minimap/internal/draw"
	"github.com/Garsondee/Better-Minimap/internal/logger"
	"github.com/Garsondee/Better-Minimap/internal/ui"
)

// AttachState is the overlay element's attachment state.
type AttachState int

const (
	Detached AttachState = iota
	Attached
)

func (s AttachState) String() string {
	if s == Attached {
		return "attached"
	}
	return "detached"
}

// overlayActor keeps the overlay over the widget's base child and forwards
// drawing to the Feature.
type overlayActor struct {
	draw func(c draw.Canvas, bounds draw.Rect)
}

func (o overlayActor) Act(n *ui.Node, dt float64) {
	p := n.Parent()
	if p == nil {
		return
	}
	if base := p.Child(0); base != nil && base != n {
		n.Bounds = base.Bounds
	}
}

func (o overlayActor) Draw(n *ui.Node, c draw.Canvas) {
	if o.draw != nil {
		o.draw(c, n.Bounds)
	}
}

// Attacher places the overlay element as the top-most child of the host
// minimap widget and puts it back whenever the widget is rebuilt.
type Attacher struct {
	state   AttachState
	overlay *ui.Node
	log     *logrus.Entry

	// Attaches counts successful attachments.
	Attaches int
}

// NewAttacher builds the overlay element; drawFn receives the element's
// bounds every draw.
func NewAttacher(drawFn func(c draw.Canvas, bounds draw.Rect)) *Attacher {
	n := ui.NewNode(OverlayName)
	n.Touchable = false
	n.Actor = overlayActor{draw: drawFn}
	return &Attacher{overlay: n, log: logger.For("overlay.lifecycle")}
}

// State is the result of the last Check.
func (a *Attacher) State() AttachState { return a.state }

// Check attaches the overlay when the HUD has a populated minimap widget,
// the host minimap is enabled, and no overlay is already under the widget.
// It reports whether an attachment happened. Calling it repeatedly never
// creates a second overlay.
func (a *Attacher) Check(hud *ui.Node, hostMinimapOn bool) bool {
	if hud == nil || !hostMinimapOn {
		a.state = Detached
		return false
	}
	widget := hud.Find(MinimapWidgetName)
	if widget == nil || widget.ChildCount() == 0 {
		a.state = Detached
		return false
	}
	if widget.Find(OverlayName) != nil {
		a.state = Attached
		return false
	}

	if base := widget.Child(0); base != nil {
		a.overlay.Bounds = base.Bounds
	}
	widget.AddChild(a.overlay)
	a.overlay.ToFront()
	a.state = Attached
	a.Attaches++
	a.log.WithField("attaches", a.Attaches).Debug("Overlay attached to minimap widget.")
	return true
}

// RemoveStale removes every overlay element found under hud, including
// ones left by a previous instance. It returns the number removed.
func (a *Attacher) RemoveStale(hud *ui.Node) int {
	if hud == nil {
		return 0
	}
	removed := 0
	for {
		n := hud.Find(OverlayName)
		if n == nil || !n.Remove() {
			break
		}
		removed++
	}
	if removed > 0 {
		a.state = Detached
		a.log.WithField("removed", removed).Info("Removed stale overlay elements.")
	}
	return removed
}
