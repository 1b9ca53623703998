package overlay

import (
	"image/color"
	"math"

	"golang.org/x/image/colornames"

	"github.com/Garsondee/Better-Minimap/internal/draw"
	"github.com/Garsondee/Better-Minimap/internal/settings"
	"github.com/Garsondee/Better-Minimap/internal/world"
)

var (
	friendlyColor = colornames.Gray
	iconColor     = colornames.White
	outlineColor  = colornames.Black
)

const (
	glowAlpha     = 0.20
	glowRadius    = 0.62
	outlineAlpha  = 0.20
	outlineRadius = 0.58
	minOutline    = 0.5
	minIconSize   = 0.001
	iconBgFactor  = 1.08
	iconHeading   = 90 // icons face +y
)

// relationColor is gray for the local team and the team colour otherwise.
func relationColor(team, local world.Team) color.RGBA {
	if team == local {
		return friendlyColor
	}
	return team.Color()
}

// drawClusters draws one marker per cluster: a faint glow, the unit icon
// turned to the cluster heading, and a thin outline. Sizes are divided by
// the minimap scale so markers keep a constant on-screen size. It returns
// the number of markers drawn.
func drawClusters(c draw.Canvas, clusters []Cluster, local world.Team, cfg settings.Config, invScale float64) int {
	drawn := 0
	a := cfg.UnitAlpha
	stroke := math.Max(minOutline, invScale)
	for i := range clusters {
		cl := &clusters[i]
		if cl.Count <= 0 || cl.Type == nil {
			continue
		}
		size := cfg.UnitSizePx * invScale * SizeScale(cl.Count)
		if size <= minIconSize {
			continue
		}
		col := relationColor(cl.Team, local)

		c.FillCircle(cl.X, cl.Y, size*glowRadius, draw.Alpha(col, a*glowAlpha))
		c.DrawIcon(cl.Type.Icon, cl.X, cl.Y, size, size, cl.Rotation()-iconHeading, draw.Alpha(iconColor, a))
		c.StrokeCircle(cl.X, cl.Y, size*outlineRadius, stroke, draw.Alpha(outlineColor, outlineAlpha*a))
		drawn++
	}
	return drawn
}

// drawBuildings draws block icons at their half-tile snapped centres, over
// an optional team-tinted square. Buildings destroyed since the last
// refresh are skipped. It returns the number of icons drawn.
func drawBuildings(c draw.Canvas, buildings []*world.Building, local world.Team, cfg settings.Config, tileSize float64) int {
	drawn := 0
	for _, b := range buildings {
		if !b.Valid() {
			continue
		}
		s := math.Max(tileSize, float64(b.Block.Size)*tileSize) * cfg.BuildingScale
		bx := snapHalfTile(b.X, tileSize)
		by := snapHalfTile(b.Y, tileSize)

		if cfg.TintBuildingIcons {
			bg := s * iconBgFactor
			c.FillRect(bx, by, bg, bg, draw.Alpha(relationColor(b.Team, local), cfg.IconBgAlpha))
		}
		c.DrawIcon(b.Block.Icon, bx, by, s, s, 0, draw.Alpha(iconColor, cfg.IconAlpha))
		drawn++
	}
	return drawn
}

// snapHalfTile rounds v to the nearest multiple of half a tile.
func snapHalfTile(v, tileSize float64) float64 {
	step := tileSize / 2
	if step <= 0 {
		return v
	}
	return math.Floor(v/step+0.5) * step
}
