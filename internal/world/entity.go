package world

import (
	"image/color"
	"math"

	"golang.org/x/image/colornames"

	"github.com/Garsondee/Better-Minimap/internal/content"
)

// Team identifies a faction. The zero value is the derelict team.
type Team int

const (
	TeamDerelict Team = iota
	TeamSharded
	TeamCrux
	TeamMalis
	teamCount
)

var teamColors = [teamCount]color.RGBA{
	TeamDerelict: colornames.Dimgray,
	TeamSharded:  colornames.Gold,
	TeamCrux:     colornames.Crimson,
	TeamMalis:    colornames.Mediumpurple,
}

var teamNames = [teamCount]string{"derelict", "sharded", "crux", "malis"}

// Color is the team's display colour.
func (t Team) Color() color.RGBA {
	if t < 0 || t >= teamCount {
		return colornames.White
	}
	return teamColors[t]
}

func (t Team) String() string {
	if t < 0 || t >= teamCount {
		return "unknown"
	}
	return teamNames[t]
}

const (
	unitSpeed    = 0.9 // world units per tick
	unitTurnRate = 6.0 // degrees per tick
)

// Unit is a live mobile entity. Position is in world units, Rotation in
// degrees (0 = +x, counter-clockwise).
type Unit struct {
	ID       int
	Type     *content.UnitType
	Team     Team
	X, Y     float64
	Rotation float64

	dead bool

	// Patrol: the unit bounces between start and end.
	start, end [2]float64
	goingToEnd bool
	patrols    bool
}

// Valid reports whether the unit is alive and typed.
func (u *Unit) Valid() bool {
	return u != nil && !u.dead && u.Type != nil
}

// Kill marks the unit dead. Dead units stay in the world until Prune.
func (u *Unit) Kill() { u.dead = true }

// step advances a patrolling unit by one tick: turn toward the current
// target at a bounded rate, then move forward.
func (u *Unit) step() {
	if !u.patrols || u.dead {
		return
	}
	target := u.start
	if u.goingToEnd {
		target = u.end
	}
	dx := target[0] - u.X
	dy := target[1] - u.Y
	dist := math.Hypot(dx, dy)
	if dist < unitSpeed*2 {
		u.goingToEnd = !u.goingToEnd
		return
	}
	want := math.Atan2(dy, dx) * 180 / math.Pi
	u.Rotation = turnToward(u.Rotation, want, unitTurnRate)
	rad := u.Rotation * math.Pi / 180
	u.X += math.Cos(rad) * unitSpeed
	u.Y += math.Sin(rad) * unitSpeed
}

// turnToward rotates from toward to by at most rate degrees, returning a
// result normalised to [0, 360).
func turnToward(from, to, rate float64) float64 {
	diff := math.Mod(to-from+540, 360) - 180
	if math.Abs(diff) <= rate {
		return normDeg(to)
	}
	if diff > 0 {
		return normDeg(from + rate)
	}
	return normDeg(from - rate)
}

func normDeg(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// Building is a static structure occupying Block.Size² tiles. X and Y are
// the world-space centre.
type Building struct {
	ID    int
	Block *content.BlockType
	Team  Team
	X, Y  float64

	removed bool
}

// Valid reports whether the building still exists.
func (b *Building) Valid() bool {
	return b != nil && !b.removed && b.Block != nil
}

// Remove marks the building destroyed.
func (b *Building) Remove() { b.removed = true }

// blockOffset is the centre offset for a block of the given size: even
// sizes sit between tiles.
func blockOffset(size int, tileSize float64) float64 {
	if size%2 == 0 {
		return tileSize / 2
	}
	return 0
}
