package overlay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Garsondee/Better-Minimap/internal/draw"
	"github.com/Garsondee/Better-Minimap/internal/settings"
	"github.com/Garsondee/Better-Minimap/internal/ui"
	"github.com/Garsondee/Better-Minimap/internal/world"
)

func drawScene() *world.World {
	return world.New(
		world.WithUnit("dagger", world.TeamSharded, 800, 800, 0),
		world.WithUnit("dagger", world.TeamSharded, 805, 800, 90),
		world.WithUnit("mace", world.TeamCrux, 900, 900, 0),
		world.WithUnit("dagger", world.TeamSharded, 100, 100, 0),
		world.WithBuilding("duo", world.TeamSharded, 100, 100),
		world.WithBuilding("duo", world.TeamCrux, 5, 5),
	)
}

func TestDrawOverlay_DrawsAndRestoresTransform(t *testing.T) {
	f, _, _ := newScene(t, drawScene())
	f.BlockFilter().Enable("duo")
	base := baseTransform()
	rec := draw.NewRecorder(base)

	f.DrawOverlay(rec, minimapBounds)

	st := f.Stats()
	if !st.Drawn || st.SkipReason != "" {
		t.Fatalf("expected a drawn frame, got %+v", st)
	}
	if st.VisibleUnits != 3 || st.Clusters != 2 || st.ClusterMarkers != 2 {
		t.Fatalf("unexpected unit stats %+v", st)
	}
	if st.VisibleBuildings != 1 || st.BuildingMarkers != 1 {
		t.Fatalf("unexpected building stats %+v", st)
	}
	if rec.Transform() != base || rec.ClipDepth() != 0 {
		t.Fatal("transform and clip must be restored after drawing")
	}
	if rec.SetTransforms != 2 {
		t.Fatalf("expected one set and one restore, got %d", rec.SetTransforms)
	}
	want := ComputeTransform(base, minimapBounds, st.View, 8)
	for _, op := range rec.Ops {
		if op.Transform != want {
			t.Fatalf("op %s drawn with the wrong transform", op.Kind)
		}
	}
}

func TestDrawOverlay_CountInvariant(t *testing.T) {
	w := world.New(world.WithSeed(11))
	w.Populate(3000, 0)
	f, _, _ := newScene(t, w)
	f.DrawOverlay(draw.NewRecorder(baseTransform()), minimapBounds)

	units, _ := f.Visible()
	total := 0
	for _, c := range f.Clusters() {
		total += c.Count
	}
	if total != len(units) {
		t.Fatalf("clusters hold %d units, %d visible", total, len(units))
	}
	if (len(units) >= IndexThreshold) != f.Stats().Indexed {
		t.Fatalf("index use should follow the threshold (visible=%d)", len(units))
	}
}

func TestDrawOverlay_GatesLeaveCanvasUntouched(t *testing.T) {
	cases := []struct {
		name   string
		reason string
		setup  func(f *Feature, h *fakeHost, s *settings.Store, w *world.World, rec *draw.Recorder)
	}{
		{"disabled", SkipDisabled, func(f *Feature, h *fakeHost, s *settings.Store, w *world.World, rec *draw.Recorder) {
			s.PutBool(settings.KeyEnabled, false)
			f.ReloadSettings()
		}},
		{"hud hidden", SkipHUDHidden, func(f *Feature, h *fakeHost, s *settings.Store, w *world.World, rec *draw.Recorder) {
			h.hudShown = false
		}},
		{"full minimap", SkipFullMinimap, func(f *Feature, h *fakeHost, s *settings.Store, w *world.World, rec *draw.Recorder) {
			h.fullMinimap = true
		}},
		{"no minimap", SkipNoMinimap, func(f *Feature, h *fakeHost, s *settings.Store, w *world.World, rec *draw.Recorder) {
			h.minimapReady = false
		}},
		{"no world", SkipNoWorld, func(f *Feature, h *fakeHost, s *settings.Store, w *world.World, rec *draw.Recorder) {
			h.world = nil
		}},
		{"not in game", SkipNotInGame, func(f *Feature, h *fakeHost, s *settings.Store, w *world.World, rec *draw.Recorder) {
			w.SetInGame(false)
		}},
		{"generating", SkipGenerating, func(f *Feature, h *fakeHost, s *settings.Store, w *world.World, rec *draw.Recorder) {
			w.SetGenerating(true)
		}},
		{"no camera", SkipNoCamera, func(f *Feature, h *fakeHost, s *settings.Store, w *world.World, rec *draw.Recorder) {
			h.cam = nil
		}},
		{"clip rejected", SkipClip, func(f *Feature, h *fakeHost, s *settings.Store, w *world.World, rec *draw.Recorder) {
			rec.RejectClip = true
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := drawScene()
			f, host, store := newScene(t, w)
			base := baseTransform()
			rec := draw.NewRecorder(base)
			tc.setup(f, host, store, w, rec)

			f.DrawOverlay(rec, minimapBounds)

			if got := f.Stats().SkipReason; got != tc.reason {
				t.Fatalf("expected skip %q, got %q", tc.reason, got)
			}
			if rec.Transform() != base || rec.SetTransforms != 0 || len(rec.Ops) != 0 || rec.ClipDepth() != 0 {
				t.Fatal("gated frame must leave the canvas untouched")
			}
		})
	}
}

func TestDrawOverlay_DegenerateBoundsSkipped(t *testing.T) {
	f, _, _ := newScene(t, drawScene())
	rec := draw.NewRecorder(baseTransform())
	f.DrawOverlay(rec, draw.Rect{X: 10, Y: 10})
	if f.Stats().SkipReason != SkipDegenerate || rec.ClipBegins != 0 {
		t.Fatalf("expected degenerate skip before clipping, got %+v", f.Stats())
	}
}

func TestDrawOverlay_SkipEventOnlyOnChange(t *testing.T) {
	f, host, _ := newScene(t, drawScene())
	host.hudShown = false
	rec := draw.NewRecorder(baseTransform())
	for i := 0; i < 5; i++ {
		f.DrawOverlay(rec, minimapBounds)
	}
	if n := f.Events().Count("gate", "skip"); n != 1 {
		t.Fatalf("expected one skip event for a steady reason, got %d", n)
	}
}

type panicWorld struct {
	*world.World
}

func (panicWorld) EachUnit(func(*world.Unit)) { panic("unit list torn down") }

func TestDrawOverlay_RecoversPanicAndRestores(t *testing.T) {
	w := drawScene()
	f, host, _ := newScene(t, w)
	host.world = panicWorld{w}
	base := baseTransform()
	rec := draw.NewRecorder(base)

	f.DrawOverlay(rec, minimapBounds)

	if f.Stats().SkipReason != SkipPanic || f.Stats().Drawn {
		t.Fatalf("expected panic skip, got %+v", f.Stats())
	}
	if rec.Transform() != base || rec.ClipDepth() != 0 {
		t.Fatal("transform and clip must be restored after a panic")
	}
	if f.Events().Count("frame", "panic") != 1 {
		t.Fatal("expected the panic recorded")
	}
}

func TestDrawOverlay_NoLocalTeamDrawsNothing(t *testing.T) {
	w := drawScene()
	w.UnbindPlayer()
	f, _, _ := newScene(t, w)
	rec := draw.NewRecorder(baseTransform())
	f.DrawOverlay(rec, minimapBounds)
	if !f.Stats().Drawn || f.Stats().VisibleUnits != 0 || len(rec.Ops) != 0 {
		t.Fatalf("expected an empty frame, got %+v with %d ops", f.Stats(), len(rec.Ops))
	}
}

func TestDrawOverlay_RefreshCadence(t *testing.T) {
	f, _, _ := newScene(t, drawScene())
	rec := draw.NewRecorder(baseTransform())

	f.DrawOverlay(rec, minimapBounds)
	if !f.Stats().Refreshed {
		t.Fatal("first frame should refresh the visible cache")
	}
	f.Update(0.1)
	f.DrawOverlay(rec, minimapBounds)
	if f.Stats().Refreshed {
		t.Fatal("refresh before the period elapsed")
	}
	f.Update(0.2)
	f.DrawOverlay(rec, minimapBounds)
	if !f.Stats().Refreshed {
		t.Fatal("expected refresh once 0.25s elapsed")
	}
}

func TestUnitFilter_CommitRefreshesAndPersists(t *testing.T) {
	f, _, store := newScene(t, drawScene())
	rec := draw.NewRecorder(baseTransform())
	f.DrawOverlay(rec, minimapBounds)

	f.UnitFilter().Disable("dagger")
	f.DrawOverlay(rec, minimapBounds)

	units, _ := f.Visible()
	if len(units) != 1 || units[0].Type.Name != "mace" {
		t.Fatalf("expected only the mace after disabling daggers, got %d units", len(units))
	}
	list, err := store.StringSet(settings.KeyUnitAllowList)
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range list {
		if n == "dagger" {
			t.Fatal("dagger should be gone from the persisted allow-list")
		}
	}
}

func TestBlockFilter_ListsOnlyBuildingBlocks(t *testing.T) {
	f, _, _ := newScene(t, drawScene())
	for _, c := range f.BlockFilter().Search("") {
		if c.Name == "air" || c.Name == "stone" {
			t.Fatalf("terrain block %s should not be a filter candidate", c.Name)
		}
	}
	if len(f.UnitFilter().Search("")) != f.reg.UnitCount() {
		t.Fatal("every unit type should be a candidate")
	}
}

func TestFilterBitmap_GrowsWithRegistry(t *testing.T) {
	w := drawScene()
	f, _, _ := newScene(t, w)
	f.UnitFilter().Enable("quasar")
	rec := draw.NewRecorder(baseTransform())
	f.DrawOverlay(rec, minimapBounds)
	rebuilds := f.bits.Rebuilds

	if _, err := w.Registry().AddUnit("quasar", "Quasar", nil); err != nil {
		t.Fatal(err)
	}
	w.AddUnit("quasar", world.TeamSharded, 850, 850, 0)
	f.Update(VisiblePeriod)
	f.DrawOverlay(rec, minimapBounds)

	if f.bits.Rebuilds == rebuilds {
		t.Fatal("expected the unit bitmap rebuilt after the registry grew")
	}
	if got := len(f.bits.Units()); got != w.Registry().UnitCount() {
		t.Fatalf("bitmap length %d, registry %d", got, w.Registry().UnitCount())
	}
	units, _ := f.Visible()
	found := false
	for _, u := range units {
		found = found || u.Type.Name == "quasar"
	}
	if !found {
		t.Fatal("allowed new type should be visible")
	}
}

func TestOnWorldLoad_ClearsCaches(t *testing.T) {
	f, _, _ := newScene(t, drawScene())
	rec := draw.NewRecorder(baseTransform())
	f.DrawOverlay(rec, minimapBounds)
	if units, _ := f.Visible(); len(units) == 0 {
		t.Fatal("expected visible units before the load")
	}

	f.OnWorldLoad()
	units, blds := f.Visible()
	if len(units) != 0 || len(blds) != 0 || len(f.Clusters()) != 0 {
		t.Fatal("expected caches cleared")
	}
	f.DrawOverlay(rec, minimapBounds)
	if !f.Stats().Refreshed {
		t.Fatal("first frame after a world load should refresh")
	}
}

func TestUpdate_AttachIsIdempotent(t *testing.T) {
	f, host, _ := newScene(t, drawScene())
	f.Update(0)
	if f.AttachState() != Attached {
		t.Fatal("expected attached after the first check")
	}
	widget := host.hud.Find(MinimapWidgetName)
	for i := 0; i < 4; i++ {
		f.Update(AttachPeriod)
	}
	overlays := 0
	for _, c := range widget.Children() {
		if c.Name == OverlayName {
			overlays++
		}
	}
	if overlays != 1 || f.OverlayAttacher().Attaches != 1 {
		t.Fatalf("expected exactly one overlay, found %d (attaches=%d)", overlays, f.OverlayAttacher().Attaches)
	}
	if widget.Child(widget.ChildCount()-1).Name != OverlayName {
		t.Fatal("overlay should be the top-most child")
	}
	if widget.Find(OverlayName).Touchable {
		t.Fatal("overlay must not take input")
	}
}

func TestUpdate_ReattachesToReplacedWidget(t *testing.T) {
	f, host, _ := newScene(t, drawScene())
	f.Update(0)
	host.hud.Find(MinimapWidgetName).Remove()

	f.Update(AttachPeriod)
	if f.AttachState() != Detached {
		t.Fatal("expected detached while the widget is missing")
	}

	widget := ui.NewNode(MinimapWidgetName)
	base := ui.NewNode("minimap-base")
	base.Bounds = draw.Rect{X: 50, Y: 60, W: 120, H: 120}
	widget.AddChild(base)
	host.hud.AddChild(widget)

	f.Update(AttachPeriod)
	if f.AttachState() != Attached || widget.Find(OverlayName) == nil {
		t.Fatal("expected the overlay attached to the new widget")
	}
	if f.OverlayAttacher().Attaches != 2 {
		t.Fatalf("expected 2 attaches, got %d", f.OverlayAttacher().Attaches)
	}
}

func TestUpdate_HostMinimapOffDetaches(t *testing.T) {
	f, _, store := newScene(t, drawScene())
	store.PutBool(settings.KeyHostMinimap, false)
	f.Update(0)
	if f.AttachState() != Detached {
		t.Fatal("overlay must not attach while the host minimap is off")
	}
}

func TestOverlayElement_FollowsBaseAndDraws(t *testing.T) {
	f, host, _ := newScene(t, drawScene())
	f.Update(0)
	widget := host.hud.Find(MinimapWidgetName)
	widget.Child(0).Bounds = draw.Rect{X: 30, Y: 40, W: 150, H: 150}

	host.hud.Act(1.0 / 60)
	ov := widget.Find(OverlayName)
	if ov.Bounds != widget.Child(0).Bounds {
		t.Fatalf("overlay bounds %+v should follow the base %+v", ov.Bounds, widget.Child(0).Bounds)
	}

	rec := draw.NewRecorder(baseTransform())
	host.hud.Draw(rec)
	if !f.Stats().Drawn || len(rec.Ops) == 0 {
		t.Fatal("drawing the HUD should draw the overlay")
	}
}

func TestLoad_RemovesStaleOverlayAndSeeds(t *testing.T) {
	hud, widget := newHUD()
	stale := ui.NewNode(OverlayName)
	widget.AddChild(stale)

	w := drawScene()
	host := &fakeHost{hud: hud, hudShown: true, minimapReady: true, world: w, cam: &fakeCamera{zoom: 1}}
	path := filepath.Join(t.TempDir(), "overlay.json")
	store := settings.NewStore(path)
	f := New(host, store, w.Registry())
	if err := f.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	if hud.Find(OverlayName) != nil {
		t.Fatal("stale overlay should be removed")
	}
	if !store.Bool(settings.KeyFilterInit, false) {
		t.Fatal("expected filter-init marker")
	}
	if len(f.UnitFilter().All()) != w.Registry().UnitCount() {
		t.Fatal("unit allow-list should be seeded with every unit")
	}
	if len(f.BlockFilter().All()) != 0 {
		t.Fatal("block allow-list should start empty")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("seeded store should be saved: %v", err)
	}
}

func TestLoad_KeepsSavedAllowLists(t *testing.T) {
	w := drawScene()
	hud, _ := newHUD()
	host := &fakeHost{hud: hud, world: w}
	store := settings.NewStore("")
	store.PutBool(settings.KeyFilterInit, true)
	store.PutStringSet(settings.KeyUnitAllowList, []string{"mace"})
	store.PutStringSet(settings.KeyBlockAllowList, []string{"duo"})

	f := New(host, store, w.Registry())
	if err := f.Load(); err != nil {
		t.Fatal(err)
	}
	if !f.UnitFilter().IsEnabled("mace") || f.UnitFilter().IsEnabled("dagger") {
		t.Fatalf("unexpected unit list %v", f.UnitFilter().All())
	}
	if !f.BlockFilter().IsEnabled("duo") {
		t.Fatal("expected duo allowed")
	}
}
