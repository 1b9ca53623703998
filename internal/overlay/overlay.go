// Package overlay draws unit clusters and building markers on top of the
// host's minimap widget.
//
// Each frame the Feature gates on host state, derives the world-space
// rectangle the minimap shows, maps it onto the widget with an affine
// transform, and draws from a visible-entity cache that is refreshed on a
// fixed cadence rather than every frame.
package overlay

import (
	"github.com/Garsondee/Better-Minimap/internal/ui"
	"github.com/Garsondee/Better-Minimap/internal/world"
)

// World is the live entity set the overlay reads.
type World interface {
	Width() int  // tiles
	Height() int // tiles
	TileSize() float64
	Generating() bool
	InGame() bool
	// LocalTeam returns false when no player is bound.
	LocalTeam() (world.Team, bool)
	EachUnit(fn func(*world.Unit))
	EachBuilding(fn func(*world.Building))
}

// Camera is the host camera. Position is in world units.
type Camera interface {
	Position() (x, y float64)
	MinimapZoom() float64
}

// Host is the game the overlay is embedded in. World and Camera must
// return a nil interface, not a typed nil, when unavailable.
type Host interface {
	// HUD is the root of the host element tree, or nil before it exists.
	HUD() *ui.Node
	HUDShown() bool
	FullMinimapShown() bool
	// MinimapReady reports whether the minimap has a region to sample.
	MinimapReady() bool
	World() World
	Camera() Camera
}

// Reserved element names.
const (
	MinimapWidgetName = "minimap"
	OverlayName       = "betterminimap-overlay"
)
