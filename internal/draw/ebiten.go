package draw

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Ebiten draws onto an *ebiten.Image. Clips are implemented with
// sub-images, which share the parent's coordinate space.
type Ebiten struct {
	dst   *ebiten.Image
	geo   ebiten.GeoM
	clips []*ebiten.Image

	// Icons that are not already *ebiten.Image are uploaded once.
	icons map[image.Image]*ebiten.Image
}

// NewEbiten returns a canvas over dst with an identity transform.
func NewEbiten(dst *ebiten.Image) *Ebiten {
	return &Ebiten{dst: dst, icons: make(map[image.Image]*ebiten.Image)}
}

// Retarget points the canvas at a new destination, keeping the icon cache.
// The transform is reset and any open clips are discarded.
func (e *Ebiten) Retarget(dst *ebiten.Image) {
	e.dst = dst
	e.geo = ebiten.GeoM{}
	e.clips = e.clips[:0]
}

func (e *Ebiten) Transform() ebiten.GeoM     { return e.geo }
func (e *Ebiten) SetTransform(m ebiten.GeoM) { e.geo = m }

func (e *Ebiten) target() *ebiten.Image {
	if n := len(e.clips); n > 0 {
		return e.clips[n-1]
	}
	return e.dst
}

func (e *Ebiten) ClipBegin(r Rect) bool {
	x0, y0 := e.geo.Apply(r.X, r.Y)
	x1, y1 := e.geo.Apply(r.X+r.W, r.Y+r.H)
	screen := image.Rect(
		int(math.Floor(math.Min(x0, x1))),
		int(math.Floor(math.Min(y0, y1))),
		int(math.Ceil(math.Max(x0, x1))),
		int(math.Ceil(math.Max(y0, y1))),
	)
	parent := e.target()
	screen = screen.Intersect(parent.Bounds())
	if screen.Empty() {
		return false
	}
	sub, ok := parent.SubImage(screen).(*ebiten.Image)
	if !ok {
		return false
	}
	e.clips = append(e.clips, sub)
	return true
}

func (e *Ebiten) ClipEnd() {
	if n := len(e.clips); n > 0 {
		e.clips = e.clips[:n-1]
	}
}

// scales returns the length of the transformed unit x and y vectors.
func (e *Ebiten) scales() (float64, float64) {
	a, b := e.geo.Element(0, 0), e.geo.Element(0, 1)
	c, d := e.geo.Element(1, 0), e.geo.Element(1, 1)
	return math.Hypot(a, c), math.Hypot(b, d)
}

func (e *Ebiten) FillCircle(x, y, radius float64, c color.RGBA) {
	sx, sy := e.scales()
	px, py := e.geo.Apply(x, y)
	vector.FillCircle(e.target(), float32(px), float32(py), float32(radius*(sx+sy)/2), c, true)
}

func (e *Ebiten) StrokeCircle(x, y, radius, width float64, c color.RGBA) {
	sx, sy := e.scales()
	s := (sx + sy) / 2
	px, py := e.geo.Apply(x, y)
	vector.StrokeCircle(e.target(), float32(px), float32(py), float32(radius*s), float32(width*s), c, true)
}

func (e *Ebiten) FillRect(cx, cy, w, h float64, c color.RGBA) {
	x0, y0 := e.geo.Apply(cx-w/2, cy-h/2)
	x1, y1 := e.geo.Apply(cx+w/2, cy+h/2)
	left, top := math.Min(x0, x1), math.Min(y0, y1)
	vector.FillRect(e.target(), float32(left), float32(top),
		float32(math.Abs(x1-x0)), float32(math.Abs(y1-y0)), c, false)
}

func (e *Ebiten) DrawIcon(icon image.Image, cx, cy, w, h, rotation float64, tint color.RGBA) {
	img := e.iconImage(icon)
	if img == nil {
		return
	}
	b := img.Bounds()
	iw, ih := float64(b.Dx()), float64(b.Dy())
	if iw == 0 || ih == 0 {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(-iw/2, -ih/2)
	op.GeoM.Scale(w/iw, h/ih)
	op.GeoM.Rotate(rotation * math.Pi / 180)
	op.GeoM.Translate(cx, cy)
	op.GeoM.Concat(e.geo)
	op.ColorScale.ScaleWithColor(tint)
	op.Filter = ebiten.FilterLinear
	e.target().DrawImage(img, &op)
}

func (e *Ebiten) iconImage(icon image.Image) *ebiten.Image {
	if icon == nil {
		return nil
	}
	if img, ok := icon.(*ebiten.Image); ok {
		return img
	}
	if img, ok := e.icons[icon]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(icon)
	e.icons[icon] = img
	return img
}
