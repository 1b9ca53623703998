package game

import "math"

const (
	zoomMin, zoomMax       = 0.5, 4.0
	mapZoomMin, mapZoomMax = 0.25, 4.0
	panSpeed               = 6.0
)

// Camera is the world camera. Zoom scales the main view; MapZoom is the
// host minimap's zoom, read by the overlay.
type Camera struct {
	X, Y    float64
	Zoom    float64
	MapZoom float64
}

// NewCamera centres a camera on (x, y) at unit zoom.
func NewCamera(x, y float64) *Camera {
	return &Camera{X: x, Y: y, Zoom: 1, MapZoom: 1}
}

// Position is the camera centre in world units.
func (c *Camera) Position() (float64, float64) { return c.X, c.Y }

// MinimapZoom is the host minimap zoom.
func (c *Camera) MinimapZoom() float64 { return c.MapZoom }

// Pan moves the camera, slower when zoomed in.
func (c *Camera) Pan(dx, dy float64) {
	c.X += dx * panSpeed / c.Zoom
	c.Y += dy * panSpeed / c.Zoom
}

// ZoomBy multiplies the view zoom, clamped.
func (c *Camera) ZoomBy(f float64) {
	c.Zoom = clampf(c.Zoom*f, zoomMin, zoomMax)
}

// MapZoomBy multiplies the minimap zoom, clamped.
func (c *Camera) MapZoomBy(f float64) {
	c.MapZoom = clampf(c.MapZoom*f, mapZoomMin, mapZoomMax)
}

// Clamp keeps the camera centre inside a world of w x h units.
func (c *Camera) Clamp(w, h float64) {
	c.X = clampf(c.X, 0, w)
	c.Y = clampf(c.Y, 0, h)
}

// WheelZoom applies a mouse wheel delta.
func (c *Camera) WheelZoom(wy float64) {
	if wy != 0 {
		c.ZoomBy(math.Pow(1.12, wy))
	}
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
