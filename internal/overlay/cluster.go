package overlay

import (
	"math"

	"github.com/Garsondee/Better-Minimap/internal/content"
	"github.com/Garsondee/Better-Minimap/internal/world"
)

const (
	minMinimapScale    = 0.0001
	minClusterRadius   = 0.1
	headingEpsilon     = 0.0001
	clusterGrowth      = 0.22
	maxClusterSizeMult = 2.8
)

// Cluster is a group of nearby units of one type and team drawn as a
// single icon.
type Cluster struct {
	Type *content.UnitType
	Team world.Team

	// Running mean of member positions.
	X, Y float64

	// Sum of member heading unit vectors.
	DirX, DirY float64

	// Raw rotation of the last member added, used when the heading
	// vectors cancel out.
	FallbackRotation float64

	Count int
}

// NewCluster starts a single-member cluster at u.
func NewCluster(u *world.Unit) Cluster {
	c := Cluster{Type: u.Type, Team: u.Team, X: u.X, Y: u.Y}
	c.Add(u)
	return c
}

// Add joins u to the cluster.
func (c *Cluster) Add(u *world.Unit) {
	c.Count++
	n := float64(c.Count)
	c.X += (u.X - c.X) / n
	c.Y += (u.Y - c.Y) / n

	rad := u.Rotation * math.Pi / 180
	c.DirX += math.Cos(rad)
	c.DirY += math.Sin(rad)
	c.FallbackRotation = u.Rotation
}

// Rotation is the mean heading in degrees, in [0, 360).
func (c *Cluster) Rotation() float64 {
	if math.Abs(c.DirX)+math.Abs(c.DirY) < headingEpsilon {
		return c.FallbackRotation
	}
	a := math.Atan2(c.DirY, c.DirX) * 180 / math.Pi
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a -= 360
	}
	return a
}

// SizeScale is the icon size multiplier for a cluster of count members.
func SizeScale(count int) float64 {
	if count <= 1 {
		return 1
	}
	s := 1 + clusterGrowth*math.Sqrt(float64(count-1))
	return math.Max(1, math.Min(maxClusterSizeMult, s))
}

// ClusterRadiusWorld converts a screen-pixel clustering radius into world
// units at the given minimap scale.
func ClusterRadiusWorld(minimapScale, radiusPx float64) float64 {
	scale := math.Max(minMinimapScale, minimapScale)
	return math.Max(minClusterRadius, radiusPx/scale)
}

// BuildClusters groups units in input order. Each unit joins the nearest
// cluster of the same type and team whose centroid lies within the radius;
// equal distances go to the earlier cluster. Otherwise it starts a new
// cluster. Invalid units are skipped. The result is appended to out[:0].
func BuildClusters(units []*world.Unit, minimapScale, radiusPx float64, out []Cluster) []Cluster {
	out = out[:0]
	r := ClusterRadiusWorld(minimapScale, radiusPx)
	r2 := r * r

	for _, u := range units {
		if !u.Valid() {
			continue
		}
		best := -1
		bestD2 := math.Inf(1)
		for i := range out {
			c := &out[i]
			if c.Type != u.Type || c.Team != u.Team {
				continue
			}
			d2 := dist2(u, c)
			if d2 <= r2 && d2 < bestD2 {
				best, bestD2 = i, d2
			}
		}
		if best < 0 {
			out = append(out, NewCluster(u))
			continue
		}
		out[best].Add(u)
	}
	return out
}

func dist2(u *world.Unit, c *Cluster) float64 {
	dx := u.X - c.X
	dy := u.Y - c.Y
	return dx*dx + dy*dy
}
