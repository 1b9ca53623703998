package draw

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// OpKind names a recorded drawing call.
type OpKind int

const (
	OpFillCircle OpKind = iota
	OpStrokeCircle
	OpFillRect
	OpIcon
)

func (k OpKind) String() string {
	switch k {
	case OpFillCircle:
		return "fill_circle"
	case OpStrokeCircle:
		return "stroke_circle"
	case OpFillRect:
		return "fill_rect"
	case OpIcon:
		return "icon"
	default:
		return "unknown"
	}
}

// Op is one recorded drawing call, with the transform active at the time.
type Op struct {
	Kind      OpKind
	X, Y      float64
	W, H      float64 // rect/icon size; W is the radius for circles
	Stroke    float64
	Rotation  float64
	Color     color.RGBA
	Icon      image.Image
	Transform ebiten.GeoM
}

// Recorder is a Canvas that records calls instead of drawing. It is used
// by tests and the headless report.
type Recorder struct {
	Ops []Op

	// RejectClip makes every ClipBegin fail.
	RejectClip bool

	geo           ebiten.GeoM
	clipDepth     int
	SetTransforms int // number of SetTransform calls
	ClipBegins    int
}

// NewRecorder returns a recorder whose transform starts at base.
func NewRecorder(base ebiten.GeoM) *Recorder {
	return &Recorder{geo: base}
}

// Reset drops recorded ops and counters, keeping the transform.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
	r.SetTransforms = 0
	r.ClipBegins = 0
}

// ClipDepth is the number of open clips.
func (r *Recorder) ClipDepth() int { return r.clipDepth }

// Count returns how many ops of kind were recorded.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

func (r *Recorder) Transform() ebiten.GeoM { return r.geo }

func (r *Recorder) SetTransform(m ebiten.GeoM) {
	r.geo = m
	r.SetTransforms++
}

func (r *Recorder) ClipBegin(Rect) bool {
	r.ClipBegins++
	if r.RejectClip {
		return false
	}
	r.clipDepth++
	return true
}

func (r *Recorder) ClipEnd() {
	if r.clipDepth > 0 {
		r.clipDepth--
	}
}

func (r *Recorder) FillCircle(x, y, radius float64, c color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpFillCircle, X: x, Y: y, W: radius, Color: c, Transform: r.geo})
}

func (r *Recorder) StrokeCircle(x, y, radius, width float64, c color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpStrokeCircle, X: x, Y: y, W: radius, Stroke: width, Color: c, Transform: r.geo})
}

func (r *Recorder) FillRect(cx, cy, w, h float64, c color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpFillRect, X: cx, Y: cy, W: w, H: h, Color: c, Transform: r.geo})
}

func (r *Recorder) DrawIcon(icon image.Image, cx, cy, w, h, rotation float64, tint color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpIcon, X: cx, Y: cy, W: w, H: h, Rotation: rotation, Color: tint, Icon: icon, Transform: r.geo})
}
