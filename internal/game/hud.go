package game

import (
	"image/color"

	"golang.org/x/image/colornames"

	"github.com/Garsondee/Better-Minimap/internal/draw"
	"github.com/Garsondee/Better-Minimap/internal/overlay"
	"github.com/Garsondee/Better-Minimap/internal/ui"
)

const (
	minimapSize   = 256
	minimapMargin = 16
	baseName      = "minimap-base"
)

var (
	minimapBg    = color.RGBA{R: 12, G: 14, B: 18, A: 220}
	minimapFrame = color.RGBA{R: 60, G: 64, B: 72, A: 255}
	fullMapBg    = color.RGBA{R: 8, G: 10, B: 14, A: 240}
)

// minimapBase is the host's own minimap: a plain backdrop the overlay draws
// over.
type minimapBase struct{}

func (minimapBase) Act(*ui.Node, float64) {}

func (minimapBase) Draw(n *ui.Node, c draw.Canvas) {
	b := n.Bounds
	c.FillRect(b.X+b.W/2, b.Y+b.H/2, b.W+4, b.H+4, minimapFrame)
	c.FillRect(b.X+b.W/2, b.Y+b.H/2, b.W, b.H, minimapBg)
}

// newHUD builds the HUD tree for a screen of the given width: a root and a
// minimap widget in the top-right corner with its base child.
func newHUD(screenW int) (hud, widget *ui.Node) {
	hud = ui.NewNode("hud")
	hud.Bounds = draw.Rect{W: float64(screenW)}

	widget = ui.NewNode(overlay.MinimapWidgetName)
	widget.Bounds = minimapRect(screenW)
	base := ui.NewNode(baseName)
	base.Bounds = widget.Bounds
	base.Actor = minimapBase{}
	widget.AddChild(base)
	hud.AddChild(widget)
	return hud, widget
}

func minimapRect(screenW int) draw.Rect {
	return draw.Rect{
		X: float64(screenW - minimapSize - minimapMargin),
		Y: minimapMargin,
		W: minimapSize,
		H: minimapSize,
	}
}

// drawFullMap draws the full-screen map the host shows instead of the
// minimap. The overlay stays off while it is open.
func drawFullMap(c draw.Canvas, g *Game) {
	w, h := float64(g.width), float64(g.height)
	c.FillRect(w/2, h/2, w, h, fullMapBg)

	ww := float64(g.world.Width()) * g.world.TileSize()
	wh := float64(g.world.Height()) * g.world.TileSize()
	s := min((w-40)/ww, (h-40)/wh)
	ox, oy := (w-ww*s)/2, (h-wh*s)/2
	c.FillRect(w/2, h/2, ww*s, wh*s, minimapBg)
	for _, u := range g.world.Units() {
		if u.Valid() {
			c.FillCircle(ox+u.X*s, oy+u.Y*s, 1.5, u.Team.Color())
		}
	}
	for _, b := range g.world.Buildings() {
		if b.Valid() {
			c.FillRect(ox+b.X*s, oy+b.Y*s, 3, 3, draw.Alpha(b.Team.Color(), 0.7))
		}
	}
	cx, cy := g.cam.Position()
	c.FillCircle(ox+cx*s, oy+cy*s, 3, colornames.White)
}
