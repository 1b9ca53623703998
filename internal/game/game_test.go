package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Better-Minimap/internal/draw"
	"github.com/Garsondee/Better-Minimap/internal/logger"
	"github.com/Garsondee/Better-Minimap/internal/overlay"
	"github.com/Garsondee/Better-Minimap/internal/settings"
)

func TestMain(m *testing.M) {
	logger.Silence()
	os.Exit(m.Run())
}

func newTestGame(t *testing.T) (*Game, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	g, err := New(Options{SettingsPath: path, Units: 300, Buildings: 60, Seed: 3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g, path
}

// frame runs one host tick and draw without touching the GPU or keyboard.
func frame(g *Game) *draw.Recorder {
	g.feature.Update(tickDt)
	g.hud.Act(tickDt)
	rec := draw.NewRecorder(ebiten.GeoM{})
	g.hud.Draw(rec)
	return rec
}

func TestNew_HostReady(t *testing.T) {
	g, path := newTestGame(t)
	if !g.HUDShown() || g.FullMinimapShown() || !g.MinimapReady() {
		t.Fatal("expected a shown HUD with a ready minimap")
	}
	if g.World() == nil || g.Camera() == nil {
		t.Fatal("expected world and camera")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected seeded settings saved on first load: %v", err)
	}
	if g.store.Path() != path || len(g.store.Keys()) == 0 {
		t.Fatalf("expected the seeded store at %s, got %s with %d keys", path, g.store.Path(), len(g.store.Keys()))
	}
}

func TestHost_NilWorldAndCameraAreNilInterfaces(t *testing.T) {
	g := &Game{}
	if g.World() != nil || g.Camera() != nil {
		t.Fatal("expected nil interfaces, not typed nils")
	}
	if g.MinimapReady() {
		t.Fatal("no widget, no minimap")
	}
}

func TestToggleOverlay_PersistsAndApplies(t *testing.T) {
	g, path := newTestGame(t)
	g.ToggleOverlay()
	if !g.feature.Config().Enabled {
		t.Fatal("expected the overlay enabled immediately")
	}
	s, err := settings.Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !s.Bool(settings.KeyEnabled, false) {
		t.Fatal("expected overlay-enabled saved")
	}
	if !strings.Contains(g.status, "on") {
		t.Fatalf("unexpected status %q", g.status)
	}
}

func TestFrame_OverlayDrawsOverMinimap(t *testing.T) {
	g, _ := newTestGame(t)
	frame(g)
	if st := g.feature.Stats(); st.Drawn || st.SkipReason != overlay.SkipDisabled {
		t.Fatalf("expected a disabled skip, got %+v", st)
	}

	g.ToggleOverlay()
	rec := frame(g)
	st := g.feature.Stats()
	if !st.Drawn {
		t.Fatalf("expected a drawn frame, skip=%s", st.SkipReason)
	}
	if g.feature.AttachState() != overlay.Attached {
		t.Fatal("expected the overlay attached to the minimap widget")
	}
	if rec.Count(draw.OpFillRect) < 2 {
		t.Fatal("expected the minimap backdrop drawn under the overlay")
	}
	if rec.ClipDepth() != 0 {
		t.Fatal("clip left open after the frame")
	}
}

func TestFrame_HiddenHUDOrFullMapSkips(t *testing.T) {
	g, _ := newTestGame(t)
	g.ToggleOverlay()
	frame(g)

	g.fullMinimap = true
	frame(g)
	if g.feature.Stats().SkipReason != overlay.SkipFullMinimap {
		t.Fatalf("expected full map skip, got %q", g.feature.Stats().SkipReason)
	}
	g.fullMinimap = false
	g.showHUD = false
	frame(g)
	if g.feature.Stats().SkipReason != overlay.SkipHUDHidden {
		t.Fatalf("expected hidden HUD skip, got %q", g.feature.Stats().SkipReason)
	}
}

func TestCycleUnitFilter_TogglesInRegistryOrder(t *testing.T) {
	g, _ := newTestGame(t)
	names := g.world.Registry().UnitNames()
	if !g.feature.UnitFilter().IsEnabled(names[0]) {
		t.Fatal("expected unit list seeded with every unit")
	}
	g.CycleUnitFilter()
	g.CycleUnitFilter()
	if g.feature.UnitFilter().IsEnabled(names[0]) || g.feature.UnitFilter().IsEnabled(names[1]) {
		t.Fatal("expected the first two unit types disabled")
	}
	if !g.feature.UnitFilter().IsEnabled(names[2]) {
		t.Fatal("third unit type untouched")
	}
}

func TestCycleBlockFilter_EnablesFromEmpty(t *testing.T) {
	g, _ := newTestGame(t)
	names := g.world.Registry().BuildingBlockNames()
	g.CycleBlockFilter()
	if !g.feature.BlockFilter().IsEnabled(names[0]) {
		t.Fatalf("expected %s enabled", names[0])
	}
	if !strings.HasPrefix(g.status, "block "+names[0]) {
		t.Fatalf("unexpected status %q", g.status)
	}
}

func TestRegenerate_NewWorldAndCacheReset(t *testing.T) {
	g, _ := newTestGame(t)
	g.ToggleOverlay()
	frame(g)
	old := g.world

	g.Regenerate()
	if g.world == old || g.seed != 4 {
		t.Fatal("expected a new world with the next seed")
	}
	if g.world.Registry() != g.reg || old.Registry() != g.reg {
		t.Fatal("expected every world to share the host registry")
	}
	if g.feature.Events().Count("cache", "world_load") != 1 {
		t.Fatal("expected the overlay told about the new world")
	}
	if u, b := g.feature.Visible(); len(u) != 0 || len(b) != 0 {
		t.Fatal("expected visible caches cleared")
	}
	frame(g)
	if !g.feature.Stats().Refreshed {
		t.Fatal("expected a refresh on the first frame after regeneration")
	}
}

func TestCamera_ZoomAndClamp(t *testing.T) {
	c := NewCamera(10, 10)
	c.ZoomBy(100)
	if c.Zoom != zoomMax {
		t.Fatalf("expected zoom clamped to %v, got %v", zoomMax, c.Zoom)
	}
	c.MapZoomBy(0.001)
	if c.MinimapZoom() != mapZoomMin {
		t.Fatalf("expected map zoom clamped to %v, got %v", mapZoomMin, c.MinimapZoom())
	}
	c.Pan(-100, 0)
	c.Clamp(1600, 1600)
	if x, _ := c.Position(); x != 0 {
		t.Fatalf("expected x clamped to 0, got %v", x)
	}
	c.WheelZoom(0)
	if c.Zoom != zoomMax {
		t.Fatal("zero wheel delta must not zoom")
	}
}

func TestHUDLines_ShowSkipReason(t *testing.T) {
	g, _ := newTestGame(t)
	frame(g)
	joined := strings.Join(g.hudLines(), "\n")
	if !strings.Contains(joined, "skipped: "+overlay.SkipDisabled) {
		t.Fatalf("expected the skip reason in the HUD:\n%s", joined)
	}
}

func TestHUDLines_ShowLastFilterRebuild(t *testing.T) {
	g, _ := newTestGame(t)
	g.ToggleOverlay()
	frame(g)
	joined := strings.Join(g.hudLines(), "\n")
	if !strings.Contains(joined, "filter rebuilt at frame 1") {
		t.Fatalf("expected the first frame's bitmap rebuild in the HUD:\n%s", joined)
	}
}
