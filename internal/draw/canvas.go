// Package draw is the drawing surface the overlay renders through: a Canvas
// interface with an affine transform, an ebiten-backed implementation, and
// a Recorder for headless use.
package draw

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Rect is an axis-aligned rectangle with its origin at (X, Y).
type Rect struct {
	X, Y, W, H float64
}

// Contains is a closed containment test: points on the edge are inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Canvas is a 2D drawing target. Coordinates passed to drawing calls are
// mapped through the current transform.
type Canvas interface {
	Transform() ebiten.GeoM
	SetTransform(m ebiten.GeoM)

	// ClipBegin restricts drawing to r (in current-transform space).
	// It returns false when the clip is empty; ClipEnd must then not be
	// called.
	ClipBegin(r Rect) bool
	ClipEnd()

	FillCircle(x, y, radius float64, c color.RGBA)
	StrokeCircle(x, y, radius, width float64, c color.RGBA)
	// FillRect fills a w×h rectangle centred on (cx, cy).
	FillRect(cx, cy, w, h float64, c color.RGBA)
	// DrawIcon draws icon scaled to w×h, centred on (cx, cy), rotated by
	// rotation degrees and multiplied by tint.
	DrawIcon(icon image.Image, cx, cy, w, h, rotation float64, tint color.RGBA)
}

// Alpha scales a colour by a in [0, 1]. color.RGBA is alpha-premultiplied,
// so every channel is scaled.
func Alpha(c color.RGBA, a float64) color.RGBA {
	if a <= 0 {
		return color.RGBA{}
	}
	if a > 1 {
		a = 1
	}
	return color.RGBA{
		R: uint8(float64(c.R)*a + 0.5),
		G: uint8(float64(c.G)*a + 0.5),
		B: uint8(float64(c.B)*a + 0.5),
		A: uint8(float64(c.A)*a + 0.5),
	}
}
