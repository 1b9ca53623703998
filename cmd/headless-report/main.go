package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gookit/color"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/shirou/gopsutil/v3/process"
	"golang.org/x/term"

	"github.com/Garsondee/Better-Minimap/internal/draw"
	"github.com/Garsondee/Better-Minimap/internal/logger"
	"github.com/Garsondee/Better-Minimap/internal/overlay"
	"github.com/Garsondee/Better-Minimap/internal/settings"
	"github.com/Garsondee/Better-Minimap/internal/ui"
	"github.com/Garsondee/Better-Minimap/internal/world"
)

const (
	defaultWidth = 80
	maxRule      = 100
	frameDt      = 1.0 / 60
)

var (
	headStyle = color.Style{color.FgCyan, color.OpBold}
	runStyle  = color.Style{color.FgYellow, color.OpBold}
	keyStyle  = color.Style{color.FgGray}
	warnStyle = color.Style{color.FgRed, color.OpBold}
)

type scenario struct {
	frames    int
	units     int
	buildings int
	clusterPx int
	zoom      float64
	killEvery int
	dumpLog   bool
}

type runStats struct {
	runIndex int
	seed     int64

	frames      int
	drawnFrames int
	refreshes   int
	indexed     int
	kills       int
	attaches    int
	skips       map[string]int

	visibleSum  int
	clusterSum  int
	buildingSum int
	markerSum   int
	opsSum      int
	maxVisible  int
	maxClusters int

	drawTotal time.Duration
	drawMax   time.Duration
	drawTimes []time.Duration

	events        map[string]int
	eventsDropped int
	lastSkip      string
	eventLog      string
}

// headlessHost is a host with a fixed HUD, always-ready minimap and a
// camera that orbits the world centre.
type headlessHost struct {
	hud   *ui.Node
	world *world.World
	cam   *orbitCamera
}

func (h *headlessHost) HUD() *ui.Node          { return h.hud }
func (h *headlessHost) HUDShown() bool         { return true }
func (h *headlessHost) FullMinimapShown() bool { return false }
func (h *headlessHost) MinimapReady() bool     { return true }
func (h *headlessHost) World() overlay.World   { return h.world }
func (h *headlessHost) Camera() overlay.Camera { return h.cam }

type orbitCamera struct {
	x, y float64
	zoom float64
}

func (c *orbitCamera) Position() (float64, float64) { return c.x, c.y }
func (c *orbitCamera) MinimapZoom() float64         { return c.zoom }

// orbit places the camera on a circle of a third of the world around its
// centre, one revolution per run.
func (c *orbitCamera) orbit(frame, frames int, worldW, worldH float64) {
	a := 2 * math.Pi * float64(frame) / float64(max(frames, 1))
	r := math.Min(worldW, worldH) / 3
	c.x = worldW/2 + r*math.Cos(a)
	c.y = worldH/2 + r*math.Sin(a)
}

func main() {
	var runs int
	var seedBase int64
	var seedStep int64
	var copyOut bool
	var noColor bool
	var logLevel string
	sc := scenario{}

	flag.IntVar(&runs, "runs", 3, "number of headless runs")
	flag.IntVar(&sc.frames, "frames", 600, "frames per run")
	flag.IntVar(&sc.units, "units", 2000, "random units per world")
	flag.IntVar(&sc.buildings, "buildings", 400, "random buildings per world")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.IntVar(&sc.clusterPx, "cluster-px", 12, "unit cluster radius in minimap pixels")
	flag.Float64Var(&sc.zoom, "zoom", 1, "minimap zoom")
	flag.IntVar(&sc.killEvery, "kill-every", 30, "kill a random unit every N frames (0 disables)")
	flag.BoolVar(&sc.dumpLog, "events", false, "print each run's overlay event log")
	flag.BoolVar(&copyOut, "copy", false, "copy the plain report to the clipboard")
	flag.BoolVar(&noColor, "no-color", false, "disable coloured output")
	flag.StringVar(&logLevel, "log-level", "warn", "log level")
	flag.Parse()

	logger.Init()
	if err := logger.SetLevel(logLevel); err != nil {
		fmt.Printf("error: bad -log-level %q: %v\n", logLevel, err)
		return
	}
	if noColor {
		color.Disable()
	}

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if sc.frames <= 0 {
		fmt.Println("error: -frames must be > 0")
		return
	}
	if sc.units < 0 || sc.buildings < 0 {
		fmt.Println("error: -units and -buildings must be >= 0")
		return
	}

	var out strings.Builder
	rule := strings.Repeat("=", ruleWidth(terminalWidth()))
	fmt.Fprintln(&out, headStyle.Sprintf("=== Headless Minimap Overlay Report ==="))
	fmt.Fprintf(&out, "runs=%d frames=%d units=%d buildings=%d cluster_px=%d zoom=%.2f kill_every=%d seed_base=%d seed_step=%d\n",
		runs, sc.frames, sc.units, sc.buildings, sc.clusterPx, sc.zoom, sc.killEvery, seedBase, seedStep)
	fmt.Fprintln(&out, rule)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		rs, err := runScenario(i+1, seed, sc)
		if err != nil {
			fmt.Fprintln(&out, warnStyle.Sprintf("run %d failed: %v", i+1, err))
			continue
		}
		all = append(all, rs)
		printRun(&out, rs)
	}

	fmt.Fprintln(&out, rule)
	printAggregate(&out, all)
	printMemory(&out)

	report := out.String()
	fmt.Print(report)
	if copyOut {
		if err := clipboard.WriteAll(color.ClearCode(report)); err != nil {
			logger.Log.WithError(err).Warn("Could not copy the report to the clipboard.")
		}
	}
}

func runScenario(runIndex int, seed int64, sc scenario) (runStats, error) {
	w := world.New(
		world.WithSeed(seed),
		world.WithRandomUnits(sc.units, world.TeamSharded, world.TeamCrux, world.TeamMalis),
		world.WithRandomBuildings(sc.buildings, world.TeamSharded, world.TeamCrux),
	)
	worldW := float64(w.Width()) * w.TileSize()
	worldH := float64(w.Height()) * w.TileSize()

	hud := ui.NewNode("hud")
	widget := ui.NewNode(overlay.MinimapWidgetName)
	base := ui.NewNode("minimap-base")
	base.Bounds = draw.Rect{X: 8, Y: 8, W: 240, H: 240}
	widget.AddChild(base)
	hud.AddChild(widget)

	host := &headlessHost{hud: hud, world: w, cam: &orbitCamera{zoom: sc.zoom}}
	store := settings.NewStore("")
	store.PutBool(settings.KeyEnabled, true)
	store.PutInt(settings.KeyUnitClusterPx, sc.clusterPx)

	f := overlay.New(host, store, w.Registry())
	if err := f.Load(); err != nil {
		return runStats{}, fmt.Errorf("load overlay: %w", err)
	}
	f.BlockFilter().EnableAll()

	rs := runStats{
		runIndex:  runIndex,
		seed:      seed,
		skips:     map[string]int{},
		drawTimes: make([]time.Duration, 0, sc.frames),
	}
	rec := draw.NewRecorder(ebiten.GeoM{})

	for i := 0; i < sc.frames; i++ {
		w.Step()
		if sc.killEvery > 0 && i > 0 && i%sc.killEvery == 0 && w.KillRandomUnit() {
			rs.kills++
		}
		host.cam.orbit(i, sc.frames, worldW, worldH)

		f.Update(frameDt)
		hud.Act(frameDt)

		rec.Reset()
		start := time.Now()
		hud.Draw(rec)
		elapsed := time.Since(start)

		st := f.Stats()
		rs.frames++
		rs.drawTotal += elapsed
		rs.drawMax = max(rs.drawMax, elapsed)
		rs.drawTimes = append(rs.drawTimes, elapsed)
		if !st.Drawn {
			rs.skips[st.SkipReason]++
			continue
		}
		rs.drawnFrames++
		if st.Refreshed {
			rs.refreshes++
		}
		if st.Indexed {
			rs.indexed++
		}
		rs.visibleSum += st.VisibleUnits
		rs.buildingSum += st.VisibleBuildings
		rs.clusterSum += st.Clusters
		rs.markerSum += st.ClusterMarkers + st.BuildingMarkers
		rs.opsSum += len(rec.Ops)
		rs.maxVisible = max(rs.maxVisible, st.VisibleUnits)
		rs.maxClusters = max(rs.maxClusters, st.Clusters)
	}
	rs.attaches = f.OverlayAttacher().Attaches

	log := f.Events()
	rs.events = eventCounts(log.Entries())
	rs.eventsDropped = log.Dropped()
	if e, ok := log.LastOf("gate", "skip"); ok {
		rs.lastSkip = fmt.Sprintf("%s@%d", e.Value, e.Frame)
	}
	if sc.dumpLog {
		rs.eventLog = log.Format()
	}
	return rs, nil
}

func printRun(out *strings.Builder, rs runStats) {
	fmt.Fprintln(out, runStyle.Sprintf("--- Run %d (seed=%d) ---", rs.runIndex, rs.seed))
	fmt.Fprintf(out, "%s drawn=%d/%d attaches=%d kills=%d skips=%s\n",
		keyStyle.Sprintf("frames:"), rs.drawnFrames, rs.frames, rs.attaches, rs.kills, joinCounts(rs.skips))
	fmt.Fprintf(out, "%s avg_units=%.1f max_units=%d avg_buildings=%.1f\n",
		keyStyle.Sprintf("visible:"), avg(rs.visibleSum, rs.drawnFrames), rs.maxVisible, avg(rs.buildingSum, rs.drawnFrames))
	fmt.Fprintf(out, "%s avg=%.1f max=%d compression=%.2fx indexed_frames=%d\n",
		keyStyle.Sprintf("clusters:"), avg(rs.clusterSum, rs.drawnFrames), rs.maxClusters, compression(rs.visibleSum, rs.clusterSum), rs.indexed)
	fmt.Fprintf(out, "%s refreshes=%d avg_markers=%.1f avg_ops=%.1f\n",
		keyStyle.Sprintf("render:"), rs.refreshes, avg(rs.markerSum, rs.drawnFrames), avg(rs.opsSum, rs.drawnFrames))
	fmt.Fprintf(out, "%s avg=%s p95=%s max=%s\n",
		keyStyle.Sprintf("draw_time:"), formatDuration(avgDuration(rs.drawTotal, rs.frames)), formatDuration(percentile(rs.drawTimes, 95)), formatDuration(rs.drawMax))
	fmt.Fprintf(out, "%s %s dropped=%d last_skip=%s\n",
		keyStyle.Sprintf("events:"), joinCounts(rs.events), rs.eventsDropped, orNone(rs.lastSkip))
	if rs.eventLog != "" {
		fmt.Fprint(out, rs.eventLog)
	}
	fmt.Fprintln(out)
}

func printAggregate(out *strings.Builder, all []runStats) {
	fmt.Fprintln(out, headStyle.Sprintf("=== Aggregate ==="))
	fmt.Fprintf(out, "runs=%d\n", len(all))
	if len(all) == 0 {
		return
	}

	var frames, drawn, visible, clusters, refreshes, indexed int
	var total time.Duration
	var worst time.Duration
	var times []time.Duration
	skips := map[string]int{}
	events := map[string]int{}
	for _, rs := range all {
		frames += rs.frames
		drawn += rs.drawnFrames
		visible += rs.visibleSum
		clusters += rs.clusterSum
		refreshes += rs.refreshes
		indexed += rs.indexed
		total += rs.drawTotal
		worst = max(worst, rs.drawMax)
		times = append(times, rs.drawTimes...)
		for k, v := range rs.skips {
			skips[k] += v
		}
		for k, v := range rs.events {
			events[k] += v
		}
	}

	fmt.Fprintf(out, "avg_per_run: drawn=%.1f refreshes=%.1f indexed_frames=%.1f\n",
		avg(drawn, len(all)), avg(refreshes, len(all)), avg(indexed, len(all)))
	fmt.Fprintf(out, "avg_per_frame: units=%.1f clusters=%.1f compression=%.2fx\n",
		avg(visible, drawn), avg(clusters, drawn), compression(visible, clusters))
	fmt.Fprintf(out, "draw_time: avg=%s p50=%s p95=%s max=%s\n",
		formatDuration(avgDuration(total, frames)), formatDuration(percentile(times, 50)),
		formatDuration(percentile(times, 95)), formatDuration(worst))
	fmt.Fprintf(out, "skips: %s\n", joinCounts(skips))
	fmt.Fprintf(out, "events: %s\n", joinCounts(events))
}

func printMemory(out *strings.Builder) {
	p, err := process.NewProcess(int32(os.Getpid())) // #nosec G115 -- pid fits in int32
	if err != nil {
		fmt.Fprintf(out, "rss=n/a (%v)\n", err)
		return
	}
	mi, err := p.MemoryInfo()
	if err != nil {
		fmt.Fprintf(out, "rss=n/a (%v)\n", err)
		return
	}
	fmt.Fprintf(out, "rss=%.1fMiB\n", float64(mi.RSS)/(1<<20))
}

// terminalWidth returns the stdout width, or defaultWidth when stdout is
// not a terminal.
func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

func ruleWidth(w int) int {
	if w <= 0 {
		return defaultWidth
	}
	return min(w, maxRule)
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgDuration(total time.Duration, n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return total / time.Duration(n)
}

// compression is units per cluster; 1 means no merging.
func compression(units, clusters int) float64 {
	if clusters <= 0 {
		return 0
	}
	return float64(units) / float64(clusters)
}

// percentile returns the nearest-rank percentile of vals without
// reordering them.
func percentile(vals []time.Duration, p float64) time.Duration {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), vals...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	rank := int(math.Ceil(p / 100 * float64(len(sorted))))
	rank = min(max(rank, 1), len(sorted))
	return sorted[rank-1]
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.1fus", float64(d)/float64(time.Microsecond))
	}
	return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
}

// eventCounts tallies overlay events by category/key.
func eventCounts(entries []overlay.Event) map[string]int {
	counts := map[string]int{}
	for _, e := range entries {
		counts[e.Category+"/"+e.Key]++
	}
	return counts
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func joinCounts(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, ",")
}
