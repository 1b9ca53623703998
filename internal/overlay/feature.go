package overlay

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Better-Minimap/internal/content"
	"github.com/Garsondee/Better-Minimap/internal/draw"
	"github.com/Garsondee/Better-Minimap/internal/filter"
	"github.com/Garsondee/Better-Minimap/internal/logger"
	"github.com/Garsondee/Better-Minimap/internal/settings"
	"github.com/Garsondee/Better-Minimap/internal/world"
)

// Skip reasons recorded when a frame is not drawn.
const (
	SkipDisabled    = "disabled"
	SkipHUDHidden   = "hud_hidden"
	SkipFullMinimap = "full_minimap"
	SkipNoMinimap   = "no_minimap"
	SkipNoWorld     = "no_world"
	SkipNotInGame   = "not_in_game"
	SkipGenerating  = "generating"
	SkipNoCamera    = "no_camera"
	SkipDegenerate  = "degenerate_view"
	SkipClip        = "clip_rejected"
	SkipPanic       = "panic"
)

// FrameStats describes the last DrawOverlay call.
type FrameStats struct {
	Frame      int
	Drawn      bool
	SkipReason string

	View             ViewRect
	MinimapScale     float64
	Refreshed        bool
	Indexed          bool
	VisibleUnits     int
	VisibleBuildings int
	Clusters         int
	ClusterMarkers   int
	BuildingMarkers  int
}

// Feature is the minimap overlay. The host constructs one, calls Load once
// its HUD exists, then Update every tick and lets the attached overlay
// element call DrawOverlay every frame.
type Feature struct {
	host  Host
	store *settings.Store
	reg   *content.Registry

	cfg   settings.Config
	clock *Interval

	unitAllow   *filter.AllowList
	blockAllow  *filter.AllowList
	bits        *filter.Cache
	unitEditor  *filter.Editor
	blockEditor *filter.Editor

	attacher *Attacher

	units     []*world.Unit
	buildings []*world.Building
	clusters  []Cluster
	index     *ClusterIndex

	frame    int
	stats    FrameStats
	lastSkip string
	events   *EventLog
	log      *logrus.Entry
}

// eventLimit bounds the in-memory event log.
const eventLimit = 4096

// New wires a Feature to its host, settings store and content registry.
func New(host Host, store *settings.Store, reg *content.Registry) *Feature {
	f := &Feature{
		host:       host,
		store:      store,
		reg:        reg,
		cfg:        settings.LoadConfig(store),
		clock:      NewInterval(slotCount),
		unitAllow:  filter.NewAllowList(),
		blockAllow: filter.NewAllowList(),
		index:      NewClusterIndex(),
		events:     NewEventLog(eventLimit),
		log:        logger.For("overlay"),
	}
	f.bits = filter.NewCache(reg, f.unitAllow, f.blockAllow)
	f.attacher = NewAttacher(f.DrawOverlay)

	f.unitEditor = filter.NewEditor(f.unitAllow, settings.KeyUnitAllowList, store,
		f.unitCandidates, content.Matches, func() { f.filterChanged("units") })
	f.blockEditor = filter.NewEditor(f.blockAllow, settings.KeyBlockAllowList, store,
		f.blockCandidates, content.Matches, func() { f.filterChanged("blocks") })
	return f
}

// Load seeds the default allow-lists on first run, reads both lists and
// the options, and removes any overlay element left in the HUD by a
// previous instance.
func (f *Feature) Load() error {
	seeded := settings.EnsureDefaultFilterLists(f.store, f.reg.UnitNames())

	f.unitAllow.Reset(f.readList(settings.KeyUnitAllowList)...)
	f.blockAllow.Reset(f.readList(settings.KeyBlockAllowList)...)
	f.bits.InvalidateUnits()
	f.bits.InvalidateBlocks()
	f.refreshSettings()

	if n := f.attacher.RemoveStale(f.host.HUD()); n > 0 {
		f.events.Add(f.frame, "lifecycle", "remove_stale", fmt.Sprintf("removed=%d", n), float64(n))
	}

	f.log.WithFields(logrus.Fields{
		"units_allowed":  f.unitAllow.Len(),
		"blocks_allowed": f.blockAllow.Len(),
		"seeded":         seeded,
	}).Info("Minimap overlay loaded.")

	if seeded {
		if err := f.store.Save(); err != nil {
			return fmt.Errorf("save seeded filter lists: %w", err)
		}
	}
	return nil
}

func (f *Feature) readList(key string) []string {
	names, err := f.store.StringSet(key)
	if err != nil && !errors.Is(err, settings.ErrNotSet) {
		f.log.WithError(err).WithField("key", key).Warn("Unreadable allow-list, using an empty one.")
	}
	return names
}

// Update advances the frame clock and runs the periodic settings refresh
// and attachment check.
func (f *Feature) Update(dt float64) {
	f.clock.Tick(dt)
	if f.clock.Check(slotSettings, SettingsPeriod) {
		f.refreshSettings()
	}
	if f.clock.Check(slotAttach, AttachPeriod) {
		if f.attacher.Check(f.host.HUD(), f.store.Bool(settings.KeyHostMinimap, true)) {
			f.events.Add(f.frame, "lifecycle", "attach", fmt.Sprintf("attaches=%d", f.attacher.Attaches), float64(f.attacher.Attaches))
		}
	}
}

func (f *Feature) refreshSettings() {
	f.cfg = settings.LoadConfig(f.store)
}

// OnWorldLoad drops the visible caches, which may point into the previous
// world, and forces a refresh on the next frame.
func (f *Feature) OnWorldLoad() {
	clear(f.units)
	clear(f.buildings)
	f.units = f.units[:0]
	f.buildings = f.buildings[:0]
	f.clusters = f.clusters[:0]
	f.clock.Reset(slotVisible)
	f.events.Add(f.frame, "cache", "world_load", "", 0)
	f.log.Debug("World loaded, visible caches cleared.")
}

// DrawOverlay draws the overlay into bounds on c. Every gate is checked
// before the canvas is touched; once the transform is saved it is restored
// on every path. Panics are recovered here and the frame is skipped.
func (f *Feature) DrawOverlay(c draw.Canvas, bounds draw.Rect) {
	defer f.recoverFrame()

	f.frame++
	f.stats = FrameStats{Frame: f.frame}

	w, cam, reason := f.gate()
	if reason != "" {
		f.skip(reason)
		return
	}

	cx, cy := cam.Position()
	view := ComputeViewRect(cx, cy, cam.MinimapZoom(), w.Width(), w.Height(), w.TileSize())
	f.stats.View = view
	if view.Empty() || !(bounds.W > 0) || !(bounds.H > 0) {
		f.skip(SkipDegenerate)
		return
	}

	if !c.ClipBegin(bounds) {
		f.skip(SkipClip)
		return
	}
	defer c.ClipEnd()

	saved := c.Transform()
	defer c.SetTransform(saved)

	scale := MinimapScale(bounds, view)
	invScale := 1 / scale
	c.SetTransform(ComputeTransform(saved, bounds, view, w.TileSize()))
	f.stats.MinimapScale = scale

	if f.clock.Check(slotVisible, VisiblePeriod) {
		f.refreshVisible(w, view)
	}
	f.stats.VisibleUnits = len(f.units)
	f.stats.VisibleBuildings = len(f.buildings)
	f.stats.Drawn = true
	f.lastSkip = ""

	local, ok := w.LocalTeam()
	if !ok {
		return
	}
	if f.cfg.UnitsEnabled {
		f.buildClusters(scale)
		f.stats.Clusters = len(f.clusters)
		f.stats.ClusterMarkers = drawClusters(c, f.clusters, local, f.cfg, invScale)
	}
	if f.cfg.BuildingsEnabled {
		f.stats.BuildingMarkers = drawBuildings(c, f.buildings, local, f.cfg, w.TileSize())
	}
}

// gate returns the world and camera to draw with, or the first reason not
// to draw.
func (f *Feature) gate() (World, Camera, string) {
	switch {
	case !f.cfg.Enabled:
		return nil, nil, SkipDisabled
	case !f.host.HUDShown():
		return nil, nil, SkipHUDHidden
	case f.host.FullMinimapShown():
		return nil, nil, SkipFullMinimap
	case !f.host.MinimapReady():
		return nil, nil, SkipNoMinimap
	}
	w := f.host.World()
	switch {
	case w == nil:
		return nil, nil, SkipNoWorld
	case !w.InGame():
		return nil, nil, SkipNotInGame
	case w.Generating():
		return nil, nil, SkipGenerating
	}
	cam := f.host.Camera()
	if cam == nil {
		return nil, nil, SkipNoCamera
	}
	return w, cam, ""
}

// skip records why a frame was not drawn. The event log only gets an entry
// when the reason changes.
func (f *Feature) skip(reason string) {
	f.stats.SkipReason = reason
	if reason != f.lastSkip {
		f.events.Add(f.frame, "gate", "skip", reason, 0)
		f.lastSkip = reason
	}
}

func (f *Feature) recoverFrame() {
	r := recover()
	if r == nil {
		return
	}
	f.stats.Drawn = false
	f.stats.SkipReason = SkipPanic
	f.lastSkip = SkipPanic
	f.events.Add(f.frame, "frame", "panic", fmt.Sprint(r), 0)
	f.log.WithFields(logrus.Fields{
		"frame": f.frame,
		"panic": r,
	}).Warn("Recovered from panic while drawing minimap overlay, frame skipped.")
}

func (f *Feature) refreshVisible(w World, view ViewRect) {
	opts := FilterOptions{
		Units:             f.cfg.UnitsEnabled,
		Buildings:         f.cfg.BuildingsEnabled,
		FriendlyUnits:     f.cfg.ShowFriendlyUnits,
		EnemyUnits:        f.cfg.ShowEnemyUnits,
		FriendlyBuildings: f.cfg.ShowFriendlyBuildings,
		EnemyBuildings:    f.cfg.ShowEnemyBuildings,
	}
	rebuilds := f.bits.Rebuilds
	unitBits, blockBits := f.bits.Units(), f.bits.Blocks()
	if f.bits.Rebuilds != rebuilds {
		f.events.Add(f.frame, "filter", "rebuild", fmt.Sprintf("units=%d blocks=%d", len(unitBits), len(blockBits)), float64(f.bits.Rebuilds-rebuilds))
		f.log.WithFields(logrus.Fields{
			"unit_types":  len(unitBits),
			"block_types": len(blockBits),
		}).Debug("Filter bitmaps rebuilt.")
	}

	f.units, f.buildings = RefreshVisible(w, view, unitBits, blockBits, opts, f.units, f.buildings)
	f.stats.Refreshed = true
	f.events.Add(f.frame, "cache", "refresh",
		fmt.Sprintf("units=%d buildings=%d", len(f.units), len(f.buildings)),
		float64(len(f.units)+len(f.buildings)))
}

func (f *Feature) buildClusters(scale float64) {
	if len(f.units) >= IndexThreshold {
		f.clusters = f.index.Build(f.units, scale, f.cfg.UnitClusterPx, f.clusters)
		f.stats.Indexed = true
		return
	}
	f.clusters = BuildClusters(f.units, scale, f.cfg.UnitClusterPx, f.clusters)
}

func (f *Feature) filterChanged(which string) {
	switch which {
	case "units":
		f.bits.InvalidateUnits()
	case "blocks":
		f.bits.InvalidateBlocks()
	}
	f.clock.Reset(slotVisible)
	f.events.Add(f.frame, "filter", "commit", which, 0)
	if err := f.store.Save(); err != nil {
		f.log.WithError(err).WithField("filter", which).Warn("Failed to save allow-list.")
	}
}

func (f *Feature) unitCandidates() []filter.Candidate {
	types := f.reg.Units()
	out := make([]filter.Candidate, 0, len(types))
	for _, t := range types {
		out = append(out, filter.Candidate{Name: t.Name, DisplayName: t.DisplayName})
	}
	return out
}

func (f *Feature) blockCandidates() []filter.Candidate {
	var out []filter.Candidate
	for _, b := range f.reg.Blocks() {
		if b.HasBuilding {
			out = append(out, filter.Candidate{Name: b.Name, DisplayName: b.DisplayName})
		}
	}
	return out
}

// UnitFilter edits the unit allow-list.
func (f *Feature) UnitFilter() *filter.Editor { return f.unitEditor }

// BlockFilter edits the block allow-list. Only blocks that have buildings
// are candidates.
func (f *Feature) BlockFilter() *filter.Editor { return f.blockEditor }

// Config is the current options snapshot.
func (f *Feature) Config() settings.Config { return f.cfg }

// ReloadSettings re-reads the options immediately instead of waiting for
// the next periodic refresh.
func (f *Feature) ReloadSettings() { f.refreshSettings() }

// AttachState reports whether the overlay element is attached.
func (f *Feature) AttachState() AttachState { return f.attacher.State() }

// OverlayAttacher manages the overlay element.
func (f *Feature) OverlayAttacher() *Attacher { return f.attacher }

// Stats describes the last DrawOverlay call.
func (f *Feature) Stats() FrameStats { return f.stats }

// Events is the overlay event log.
func (f *Feature) Events() *EventLog { return f.events }

// Visible returns the cached visible units and buildings. The slices are
// reused by the next refresh.
func (f *Feature) Visible() ([]*world.Unit, []*world.Building) { return f.units, f.buildings }

// Clusters returns the clusters built on the last drawn frame.
func (f *Feature) Clusters() []Cluster { return f.clusters }
