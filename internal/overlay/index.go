package overlay

import (
	"math"

	"github.com/Garsondee/Better-Minimap/internal/world"
)

// IndexThreshold is the visible-unit count from which the Feature clusters
// through a ClusterIndex instead of the linear scan.
const IndexThreshold = 128

type clusterCell struct {
	typ  int
	team world.Team
	x, y int
}

// ClusterIndex buckets cluster centroids on a grid keyed by type, team and
// cell so each unit only inspects nearby clusters of its own kind. Build
// returns exactly what BuildClusters returns for the same input: same
// clusters, same order, same tie-breaks.
type ClusterIndex struct {
	cellSize float64
	buckets  map[clusterCell][]int
}

// NewClusterIndex returns an empty index. It is reused across builds.
func NewClusterIndex() *ClusterIndex {
	return &ClusterIndex{buckets: make(map[clusterCell][]int)}
}

// Build is the grid-accelerated BuildClusters.
func (ix *ClusterIndex) Build(units []*world.Unit, minimapScale, radiusPx float64, out []Cluster) []Cluster {
	out = out[:0]
	clear(ix.buckets)

	r := ClusterRadiusWorld(minimapScale, radiusPx)
	r2 := r * r
	// Cells twice the radius wide keep every in-range centroid within the
	// 3x3 neighbourhood even with rounding at cell edges.
	ix.cellSize = 2 * r

	for _, u := range units {
		if !u.Valid() {
			continue
		}
		home := ix.cellOf(u.Type.ID, u.Team, u.X, u.Y)

		best := -1
		bestD2 := math.Inf(1)
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				k := home
				k.x += dx
				k.y += dy
				for _, i := range ix.buckets[k] {
					c := &out[i]
					if c.Type != u.Type || c.Team != u.Team {
						continue
					}
					d2 := dist2(u, c)
					if d2 > r2 {
						continue
					}
					if d2 < bestD2 || (d2 == bestD2 && i < best) {
						best, bestD2 = i, d2
					}
				}
			}
		}

		if best < 0 {
			out = append(out, NewCluster(u))
			ix.insert(home, len(out)-1)
			continue
		}

		c := &out[best]
		before := ix.cellOf(u.Type.ID, c.Team, c.X, c.Y)
		c.Add(u)
		if after := ix.cellOf(u.Type.ID, c.Team, c.X, c.Y); after != before {
			ix.remove(before, best)
			ix.insert(after, best)
		}
	}
	return out
}

func (ix *ClusterIndex) cellOf(typ int, team world.Team, x, y float64) clusterCell {
	return clusterCell{
		typ:  typ,
		team: team,
		x:    int(math.Floor(x / ix.cellSize)),
		y:    int(math.Floor(y / ix.cellSize)),
	}
}

func (ix *ClusterIndex) insert(k clusterCell, i int) {
	ix.buckets[k] = append(ix.buckets[k], i)
}

func (ix *ClusterIndex) remove(k clusterCell, i int) {
	b := ix.buckets[k]
	for j, v := range b {
		if v == i {
			last := len(b) - 1
			b[j] = b[last]
			ix.buckets[k] = b[:last]
			return
		}
	}
}
