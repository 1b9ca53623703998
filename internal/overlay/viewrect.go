package overlay

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Better-Minimap/internal/draw"
)

// BaseHalfSizeTiles is the minimap half-extent in tiles at zoom 1.
const BaseHalfSizeTiles = 16.0

// ViewRect is the world-space rectangle the minimap shows.
type ViewRect struct {
	X, Y, Width, Height float64
}

// Contains is a closed containment test.
func (v ViewRect) Contains(x, y float64) bool {
	return x >= v.X && x <= v.X+v.Width && y >= v.Y && y <= v.Y+v.Height
}

// Empty reports a rectangle with no area.
func (v ViewRect) Empty() bool {
	return !(v.Width > 0) || !(v.Height > 0)
}

// ComputeViewRect derives the minimap view from the camera position (world
// units), minimap zoom and world size (tiles). The camera centre is clamped
// so the rectangle stays inside the world; on an axis where the world is
// smaller than the view the half-extent shrinks to half the world.
func ComputeViewRect(camX, camY, zoom float64, worldW, worldH int, tileSize float64) ViewRect {
	if !(zoom > 0) || math.IsInf(zoom, 0) {
		zoom = 1
	}
	if !(tileSize > 0) {
		return ViewRect{}
	}
	ww, wh := float64(max(worldW, 0)), float64(max(worldH, 0))
	half := BaseHalfSizeTiles * zoom
	hx, hy := math.Min(half, ww/2), math.Min(half, wh/2)

	cx := clampCentre(camX/tileSize, hx, ww-hx)
	cy := clampCentre(camY/tileSize, hy, wh-hy)

	return ViewRect{
		X:      (cx - hx) * tileSize,
		Y:      (cy - hy) * tileSize,
		Width:  2 * hx * tileSize,
		Height: 2 * hy * tileSize,
	}
}

func clampCentre(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ComputeTransform maps world coordinates into the overlay's screen bounds.
// Points are first shifted by half a tile, then by -view origin, scaled by
// bounds/view and moved to the bounds origin; base is applied last.
func ComputeTransform(base ebiten.GeoM, bounds draw.Rect, view ViewRect, tileSize float64) ebiten.GeoM {
	sx, sy := viewScale(bounds, view)
	var m ebiten.GeoM
	m.Translate(tileSize/2, tileSize/2)
	m.Translate(-view.X, -view.Y)
	m.Scale(sx, sy)
	m.Translate(bounds.X, bounds.Y)
	m.Concat(base)
	return m
}

// MinimapScale is the uniform screen-pixels-per-world-unit factor used for
// icon sizing: the smaller of the two axis scales.
func MinimapScale(bounds draw.Rect, view ViewRect) float64 {
	sx, sy := viewScale(bounds, view)
	return math.Min(sx, sy)
}

func viewScale(bounds draw.Rect, view ViewRect) (float64, float64) {
	if view.Empty() {
		return 0, 0
	}
	return bounds.W / view.Width, bounds.H / view.Height
}
