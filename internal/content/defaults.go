package content

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/colornames"
	"golang.org/x/image/vector"
)

// iconSize is the edge length of generated icons in pixels.
const iconSize = 32

type unitDef struct {
	name, display string
	fill          color.RGBA
	air           bool
}

type blockDef struct {
	name, display string
	size          int
	building      bool
	fill          color.RGBA
}

var defaultUnits = []unitDef{
	{"dagger", "Dagger", colornames.Lightgray, false},
	{"mace", "Mace", colornames.Darkorange, false},
	{"fortress", "Fortress", colornames.Rosybrown, false},
	{"nova", "Nova", colornames.Lightskyblue, false},
	{"crawler", "Crawler", colornames.Yellowgreen, false},
	{"flare", "Flare", colornames.Khaki, true},
	{"horizon", "Horizon", colornames.Peru, true},
	{"zenith", "Zenith", colornames.Slategray, true},
	{"mono", "Mono", colornames.Lightsteelblue, true},
	{"poly", "Poly", colornames.Palegreen, true},
}

var defaultBlocks = []blockDef{
	{"air", "Air", 1, false, colornames.Black},
	{"stone", "Stone", 1, false, colornames.Dimgray},
	{"conveyor", "Conveyor", 1, true, colornames.Darkgray},
	{"duo", "Duo", 1, true, colornames.Goldenrod},
	{"scatter", "Scatter", 2, true, colornames.Darkkhaki},
	{"lancer", "Lancer", 2, true, colornames.Skyblue},
	{"mechanical-drill", "Mechanical Drill", 2, true, colornames.Tan},
	{"ground-factory", "Ground Factory", 3, true, colornames.Lightslategray},
	{"core-shard", "Core: Shard", 3, true, colornames.Orange},
	{"core-foundation", "Core: Foundation", 4, true, colornames.Darkorange},
}

// Default returns a registry populated with a small built-in set of unit
// and block types with generated icons.
func Default() *Registry {
	r := NewRegistry()
	for _, d := range defaultUnits {
		var icon image.Image
		if d.air {
			icon = ArrowIcon(d.fill)
		} else {
			icon = TriangleIcon(d.fill)
		}
		// Names are unique by construction.
		_, _ = r.AddUnit(d.name, d.display, icon)
	}
	for _, d := range defaultBlocks {
		_, _ = r.AddBlock(d.name, d.display, d.size, d.building, BlockIcon(d.fill))
	}
	return r
}

// TriangleIcon renders a filled triangle pointing toward +y. Unit icons face
// +y (a heading of 90 degrees); the renderer rotates them by
// (rotation - 90) degrees.
func TriangleIcon(fill color.RGBA) *image.RGBA {
	s := float32(iconSize)
	z := vector.NewRasterizer(iconSize, iconSize)
	z.MoveTo(s*0.5, s*0.92)
	z.LineTo(s*0.92, s*0.1)
	z.LineTo(s*0.08, s*0.1)
	z.ClosePath()
	return rasterize(z, fill)
}

// ArrowIcon renders a chevron, used for air units.
func ArrowIcon(fill color.RGBA) *image.RGBA {
	s := float32(iconSize)
	z := vector.NewRasterizer(iconSize, iconSize)
	z.MoveTo(s*0.5, s*0.95)
	z.LineTo(s*0.95, s*0.05)
	z.LineTo(s*0.5, s*0.3)
	z.LineTo(s*0.05, s*0.05)
	z.ClosePath()
	return rasterize(z, fill)
}

// BlockIcon renders a square with a darker inset.
func BlockIcon(fill color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
	inset := color.RGBA{R: fill.R / 2, G: fill.G / 2, B: fill.B / 2, A: 255}
	draw.Draw(img, image.Rect(6, 6, iconSize-6, iconSize-6), image.NewUniform(inset), image.Point{}, draw.Src)
	return img
}

func rasterize(z *vector.Rasterizer, fill color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))
	z.Draw(img, img.Bounds(), image.NewUniform(fill), image.Point{})
	return img
}
