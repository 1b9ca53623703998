// Package game is a small ebiten host that plays the part of the RTS
// client: it owns a world, a camera and a HUD with a minimap widget, and
// runs the minimap overlay on top of it.
package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Better-Minimap/internal/content"
	"github.com/Garsondee/Better-Minimap/internal/draw"
	"github.com/Garsondee/Better-Minimap/internal/logger"
	"github.com/Garsondee/Better-Minimap/internal/overlay"
	"github.com/Garsondee/Better-Minimap/internal/settings"
	"github.com/Garsondee/Better-Minimap/internal/ui"
	"github.com/Garsondee/Better-Minimap/internal/world"
)

const (
	screenW = 1280
	screenH = 720
	tickDt  = 1.0 / 60
)

var (
	groundColor = color.RGBA{R: 28, G: 32, B: 30, A: 255}
	hudText     = color.RGBA{R: 220, G: 220, B: 220, A: 255}
)

// Options configures a Game.
type Options struct {
	SettingsPath string
	Units        int
	Buildings    int
	Seed         int64
}

// Game implements ebiten.Game and overlay.Host.
type Game struct {
	width, height int
	opts          Options

	reg   *content.Registry
	world *world.World
	cam   *Camera
	store *settings.Store

	hud    *ui.Node
	widget *ui.Node
	canvas *draw.Ebiten
	face   *text.GoXFace

	feature *overlay.Feature

	showHUD     bool
	fullMinimap bool
	prevKeys    map[ebiten.Key]bool
	unitCursor  int
	blockCursor int
	status      string
	seed        int64

	log *logrus.Entry
}

// New builds the host and loads the overlay. A settings file that cannot
// be read is logged and replaced by defaults.
func New(opts Options) (*Game, error) {
	g := &Game{
		width:    screenW,
		height:   screenH,
		opts:     opts,
		showHUD:  true,
		prevKeys: map[ebiten.Key]bool{},
		seed:     opts.Seed,
		reg:      content.Default(),
		log:      logger.For("host"),
	}

	store, err := settings.Load(opts.SettingsPath)
	if err != nil {
		g.log.WithError(err).Warn("Settings unreadable, starting from defaults.")
	}
	g.store = store

	g.world = g.newWorld()
	g.cam = g.centredCamera()
	g.hud, g.widget = newHUD(g.width)

	g.feature = overlay.New(g, g.store, g.reg)
	if err := g.feature.Load(); err != nil {
		return nil, fmt.Errorf("load overlay: %w", err)
	}
	g.status = "ready"
	g.log.WithFields(logrus.Fields{
		"units":     len(g.world.Units()),
		"buildings": len(g.world.Buildings()),
		"seed":      g.seed,
		"settings":  g.store.Path(),
		"keys":      len(g.store.Keys()),
	}).Info("Host started.")
	return g, nil
}

func (g *Game) newWorld() *world.World {
	return world.New(
		world.WithRegistry(g.reg),
		world.WithSeed(g.seed),
		world.WithRandomUnits(g.opts.Units, world.TeamSharded, world.TeamCrux, world.TeamMalis),
		world.WithRandomBuildings(g.opts.Buildings, world.TeamSharded, world.TeamCrux),
	)
}

func (g *Game) centredCamera() *Camera {
	return NewCamera(
		float64(g.world.Width())*g.world.TileSize()/2,
		float64(g.world.Height())*g.world.TileSize()/2,
	)
}

// HUD returns the HUD root.
func (g *Game) HUD() *ui.Node { return g.hud }

// HUDShown reports whether the HUD is visible.
func (g *Game) HUDShown() bool { return g.showHUD }

// FullMinimapShown reports whether the full-screen map is open.
func (g *Game) FullMinimapShown() bool { return g.fullMinimap }

// MinimapReady reports whether the minimap widget has been built.
func (g *Game) MinimapReady() bool {
	return g.widget != nil && g.widget.Parent() != nil && g.widget.ChildCount() > 0
}

// World returns the current world, or a nil interface between worlds.
func (g *Game) World() overlay.World {
	if g.world == nil {
		return nil
	}
	return g.world
}

// Camera returns the camera, or a nil interface before one exists.
func (g *Game) Camera() overlay.Camera {
	if g.cam == nil {
		return nil
	}
	return g.cam
}

// Feature is the running overlay.
func (g *Game) Feature() *overlay.Feature { return g.feature }

// Update advances the world, the HUD and the overlay by one tick.
func (g *Game) Update() error {
	g.handleInput()
	g.world.Step()
	g.world.Prune()
	g.cam.Clamp(float64(g.world.Width())*g.world.TileSize(), float64(g.world.Height())*g.world.TileSize())

	g.hud.Visible = g.showHUD
	g.hud.Act(tickDt)
	g.feature.Update(tickDt)
	return nil
}

// Draw renders the world, then the HUD tree with the attached overlay.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(groundColor)
	if g.canvas == nil {
		g.canvas = draw.NewEbiten(screen)
	} else {
		g.canvas.Retarget(screen)
	}

	if g.fullMinimap {
		g.canvas.SetTransform(ebiten.GeoM{})
		drawFullMap(g.canvas, g)
		g.drawText(screen)
		return
	}

	g.canvas.SetTransform(g.worldTransform())
	g.drawWorld(g.canvas)

	g.canvas.SetTransform(ebiten.GeoM{})
	g.hud.Draw(g.canvas)
	g.drawText(screen)
}

// Layout fixes the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

// Save persists the settings store.
func (g *Game) Save() error {
	if err := g.store.Save(); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (g *Game) worldTransform() ebiten.GeoM {
	var m ebiten.GeoM
	m.Translate(-g.cam.X, -g.cam.Y)
	m.Scale(g.cam.Zoom, g.cam.Zoom)
	m.Translate(float64(g.width)/2, float64(g.height)/2)
	return m
}

// visibleWorld is the world-space rectangle under the main view.
func (g *Game) visibleWorld() draw.Rect {
	w := float64(g.width) / g.cam.Zoom
	h := float64(g.height) / g.cam.Zoom
	return draw.Rect{X: g.cam.X - w/2, Y: g.cam.Y - h/2, W: w, H: h}
}

func (g *Game) drawWorld(c draw.Canvas) {
	view := g.visibleWorld()
	ts := g.world.TileSize()
	g.world.EachBuilding(func(b *world.Building) {
		if !view.Contains(b.X, b.Y) {
			return
		}
		s := float64(max(b.Block.Size, 1)) * ts
		c.FillRect(b.X, b.Y, s, s, draw.Alpha(b.Team.Color(), 0.5))
		if b.Block.Icon != nil {
			c.DrawIcon(b.Block.Icon, b.X, b.Y, s*0.8, s*0.8, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	})
	g.world.EachUnit(func(u *world.Unit) {
		if !view.Contains(u.X, u.Y) {
			return
		}
		if u.Type.Icon != nil {
			c.DrawIcon(u.Type.Icon, u.X, u.Y, ts, ts, u.Rotation-90, u.Team.Color())
		}
	})
}

func (g *Game) drawText(screen *ebiten.Image) {
	if !g.showHUD {
		return
	}
	if g.face == nil {
		g.face = text.NewGoXFace(basicfont.Face7x13)
	}
	for i, line := range g.hudLines() {
		op := &text.DrawOptions{}
		op.GeoM.Translate(12, float64(12+i*16))
		op.ColorScale.ScaleWithColor(hudText)
		text.Draw(screen, line, g.face, op)
	}
}

func (g *Game) hudLines() []string {
	cfg := g.feature.Config()
	st := g.feature.Stats()
	lines := []string{
		fmt.Sprintf("overlay=%v attach=%s zoom=%.2fx map_zoom=%.2fx", cfg.Enabled, g.feature.AttachState(), g.cam.Zoom, g.cam.MapZoom),
		fmt.Sprintf("visible units=%d buildings=%d clusters=%d markers=%d",
			st.VisibleUnits, st.VisibleBuildings, st.Clusters, st.ClusterMarkers+st.BuildingMarkers),
	}
	if !st.Drawn && st.SkipReason != "" {
		lines = append(lines, "skipped: "+st.SkipReason)
	}
	if e, ok := g.feature.Events().LastOf("filter", "rebuild"); ok {
		lines = append(lines, fmt.Sprintf("filter rebuilt at frame %d (%s)", e.Frame, e.Value))
	}
	lines = append(lines,
		"status: "+g.status,
		"[O] overlay [H] HUD [M] map [U/B] next unit/block filter [I] invert units",
		"[F] copy settings [K] kill unit [R] new world [+/-] map zoom [WASD] pan",
	)
	return lines
}
