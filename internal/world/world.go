// Package world is an in-memory live-entity world: units, buildings, a
// local player team and the game-state flags the overlay gates on. The cmd
// binaries and tests build scenes with functional options:
//
//	w := world.New(
//		world.WithSize(200, 200),
//		world.WithUnit("dagger", world.TeamSharded, 80, 80, 90),
//	)
package world

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Better-Minimap/internal/content"
	"github.com/Garsondee/Better-Minimap/internal/logger"
)

// DefaultTileSize is the world-unit size of one tile.
const DefaultTileSize = 8.0

// World holds the live entity set.
type World struct {
	width, height int // tiles
	tileSize      float64

	registry  *content.Registry
	units     []*Unit
	buildings []*Building

	playerTeam Team
	hasPlayer  bool
	generating bool
	inGame     bool

	rng    *rand.Rand
	nextID int
	log    *logrus.Entry
}

// optionKind controls the pass in which an option is applied.
type optionKind int

const (
	optInfra  optionKind = iota // size, seed, registry, player; applied first
	optEntity                   // units and buildings; applied after infra
)

// Option configures a World during New.
type Option struct {
	kind optionKind
	fn   func(*World)
}

// WithSize sets the world dimensions in tiles.
func WithSize(w, h int) Option {
	return Option{optInfra, func(wd *World) {
		wd.width = w
		wd.height = h
	}}
}

// WithTileSize sets the world-unit size of a tile.
func WithTileSize(s float64) Option {
	return Option{optInfra, func(wd *World) { wd.tileSize = s }}
}

// WithSeed sets the RNG seed used by random placement and Populate.
func WithSeed(seed int64) Option {
	return Option{optInfra, func(wd *World) {
		wd.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- scene generation only
	}}
}

// WithRegistry replaces the default content registry.
func WithRegistry(r *content.Registry) Option {
	return Option{optInfra, func(wd *World) { wd.registry = r }}
}

// WithPlayerTeam binds the local player to team.
func WithPlayerTeam(t Team) Option {
	return Option{optInfra, func(wd *World) {
		wd.playerTeam = t
		wd.hasPlayer = true
	}}
}

// WithoutPlayer leaves the local player unbound.
func WithoutPlayer() Option {
	return Option{optInfra, func(wd *World) { wd.hasPlayer = false }}
}

// WithGenerating marks the world as still being generated.
func WithGenerating(g bool) Option {
	return Option{optInfra, func(wd *World) { wd.generating = g }}
}

// WithUnit adds a stationary unit at world position (x, y) facing rot degrees.
func WithUnit(typeName string, team Team, x, y, rot float64) Option {
	return Option{optEntity, func(wd *World) {
		wd.AddUnit(typeName, team, x, y, rot)
	}}
}

// WithPatrolUnit adds a unit that walks back and forth between (sx, sy)
// and (tx, ty).
func WithPatrolUnit(typeName string, team Team, sx, sy, tx, ty float64) Option {
	return Option{optEntity, func(wd *World) {
		u := wd.AddUnit(typeName, team, sx, sy, 0)
		if u == nil {
			return
		}
		u.start = [2]float64{sx, sy}
		u.end = [2]float64{tx, ty}
		u.goingToEnd = true
		u.patrols = true
	}}
}

// WithBuilding places a building of the named block at tile (tx, ty).
func WithBuilding(blockName string, team Team, tx, ty int) Option {
	return Option{optEntity, func(wd *World) {
		wd.AddBuilding(blockName, team, tx, ty)
	}}
}

// WithRandomUnits scatters n patrolling units of random types across the
// given teams.
func WithRandomUnits(n int, teams ...Team) Option {
	return Option{optEntity, func(wd *World) {
		wd.Populate(n, 0, teams...)
	}}
}

// WithRandomBuildings scatters n buildings of random building blocks.
func WithRandomBuildings(n int, teams ...Team) Option {
	return Option{optEntity, func(wd *World) {
		wd.Populate(0, n, teams...)
	}}
}

// New constructs a World in two ordered passes: infrastructure, then
// entities. The default is a 200x200 tile world in game, with the player
// on the sharded team.
func New(opts ...Option) *World {
	w := &World{
		width:      200,
		height:     200,
		tileSize:   DefaultTileSize,
		playerTeam: TeamSharded,
		hasPlayer:  true,
		inGame:     true,
		rng:        rand.New(rand.NewSource(1)), // #nosec G404 -- scene default
		log:        logger.For("world"),
	}
	for _, o := range opts {
		if o.kind == optInfra {
			o.fn(w)
		}
	}
	if w.registry == nil {
		w.registry = content.Default()
	}
	for _, o := range opts {
		if o.kind == optEntity {
			o.fn(w)
		}
	}
	return w
}

// Width is the world width in tiles.
func (w *World) Width() int { return w.width }

// Height is the world height in tiles.
func (w *World) Height() int { return w.height }

// TileSize is the world-unit size of a tile.
func (w *World) TileSize() float64 { return w.tileSize }

// Registry is the content registry entities are typed from.
func (w *World) Registry() *content.Registry { return w.registry }

// Generating reports whether the world is still being generated.
func (w *World) Generating() bool { return w.generating }

// SetGenerating toggles the generating flag.
func (w *World) SetGenerating(g bool) { w.generating = g }

// InGame reports whether a game is active.
func (w *World) InGame() bool { return w.inGame }

// SetInGame toggles the active-game flag.
func (w *World) SetInGame(v bool) { w.inGame = v }

// LocalTeam returns the local player's team, or false when no player is bound.
func (w *World) LocalTeam() (Team, bool) {
	return w.playerTeam, w.hasPlayer
}

// SetPlayerTeam binds the local player to t.
func (w *World) SetPlayerTeam(t Team) {
	w.playerTeam = t
	w.hasPlayer = true
}

// UnbindPlayer removes the local player.
func (w *World) UnbindPlayer() { w.hasPlayer = false }

// EachUnit calls fn for every unit, dead ones included.
func (w *World) EachUnit(fn func(*Unit)) {
	for _, u := range w.units {
		fn(u)
	}
}

// EachBuilding calls fn for every building, removed ones included.
func (w *World) EachBuilding(fn func(*Building)) {
	for _, b := range w.buildings {
		fn(b)
	}
}

// Units returns the unit slice. It must not be modified.
func (w *World) Units() []*Unit { return w.units }

// Buildings returns the building slice. It must not be modified.
func (w *World) Buildings() []*Building { return w.buildings }

// AddUnit spawns a unit of the named type. Unknown names are logged and
// yield nil.
func (w *World) AddUnit(typeName string, team Team, x, y, rot float64) *Unit {
	t, ok := w.registry.Unit(typeName)
	if !ok {
		w.log.WithField("unit_type", typeName).Warn("Unknown unit type, not spawned.")
		return nil
	}
	u := &Unit{ID: w.nextID, Type: t, Team: team, X: x, Y: y, Rotation: normDeg(rot)}
	w.nextID++
	w.units = append(w.units, u)
	return u
}

// AddBuilding places a building of the named block at tile (tx, ty).
func (w *World) AddBuilding(blockName string, team Team, tx, ty int) *Building {
	blk, ok := w.registry.Block(blockName)
	if !ok {
		w.log.WithField("block", blockName).Warn("Unknown block, not placed.")
		return nil
	}
	off := blockOffset(blk.Size, w.tileSize)
	b := &Building{
		ID:    w.nextID,
		Block: blk,
		Team:  team,
		X:     float64(tx)*w.tileSize + off,
		Y:     float64(ty)*w.tileSize + off,
	}
	w.nextID++
	w.buildings = append(w.buildings, b)
	return b
}

// Populate scatters units and buildings at random positions. Teams default
// to sharded and crux.
func (w *World) Populate(units, buildings int, teams ...Team) {
	if len(teams) == 0 {
		teams = []Team{TeamSharded, TeamCrux}
	}
	unitTypes := w.registry.UnitNames()
	blockTypes := w.registry.BuildingBlockNames()
	ww := float64(w.width) * w.tileSize
	wh := float64(w.height) * w.tileSize

	for i := 0; i < units && len(unitTypes) > 0; i++ {
		name := unitTypes[w.rng.Intn(len(unitTypes))]
		team := teams[w.rng.Intn(len(teams))]
		sx, sy := w.rng.Float64()*ww, w.rng.Float64()*wh
		tx, ty := w.rng.Float64()*ww, w.rng.Float64()*wh
		u := w.AddUnit(name, team, sx, sy, w.rng.Float64()*360)
		u.start = [2]float64{sx, sy}
		u.end = [2]float64{tx, ty}
		u.goingToEnd = true
		u.patrols = true
	}
	for i := 0; i < buildings && len(blockTypes) > 0; i++ {
		name := blockTypes[w.rng.Intn(len(blockTypes))]
		team := teams[w.rng.Intn(len(teams))]
		w.AddBuilding(name, team, w.rng.Intn(w.width), w.rng.Intn(w.height))
	}
}

// Step advances every patrolling unit by one tick.
func (w *World) Step() {
	for _, u := range w.units {
		u.step()
	}
}

// Prune drops dead units and removed buildings from the world. References
// held elsewhere stay readable but report !Valid.
func (w *World) Prune() {
	units := w.units[:0]
	for _, u := range w.units {
		if u.Valid() {
			units = append(units, u)
		}
	}
	for i := len(units); i < len(w.units); i++ {
		w.units[i] = nil
	}
	w.units = units

	blds := w.buildings[:0]
	for _, b := range w.buildings {
		if b.Valid() {
			blds = append(blds, b)
		}
	}
	for i := len(blds); i < len(w.buildings); i++ {
		w.buildings[i] = nil
	}
	w.buildings = blds
}

// KillRandomUnit kills one random live unit, returning false when none is alive.
func (w *World) KillRandomUnit() bool {
	var alive []*Unit
	for _, u := range w.units {
		if u.Valid() {
			alive = append(alive, u)
		}
	}
	if len(alive) == 0 {
		return false
	}
	alive[w.rng.Intn(len(alive))].Kill()
	return true
}
