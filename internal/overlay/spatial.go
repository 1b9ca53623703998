package overlay

import (
	"github.com/Garsondee/Better-Minimap/internal/filter"
	"github.com/Garsondee/Better-Minimap/internal/world"
)

// FilterOptions are the category and relation toggles applied by
// RefreshVisible.
type FilterOptions struct {
	Units     bool
	Buildings bool

	FriendlyUnits     bool
	EnemyUnits        bool
	FriendlyBuildings bool
	EnemyBuildings    bool
}

// RefreshVisible clears units and buildings and refills them with the
// entities of w that are alive, have an enabled type, pass the
// friend/enemy toggles and lie inside view. The slices are reused. With no
// local team both results are empty.
func RefreshVisible(w World, view ViewRect, unitBits, blockBits filter.Bitmap, opts FilterOptions,
	units []*world.Unit, buildings []*world.Building) ([]*world.Unit, []*world.Building) {
	units = units[:0]
	buildings = buildings[:0]

	team, ok := w.LocalTeam()
	if !ok {
		return units, buildings
	}

	if opts.Units {
		w.EachUnit(func(u *world.Unit) {
			if !u.Valid() || !unitBits.Enabled(u.Type.ID) {
				return
			}
			if !relationShown(u.Team == team, opts.FriendlyUnits, opts.EnemyUnits) {
				return
			}
			if !view.Contains(u.X, u.Y) {
				return
			}
			units = append(units, u)
		})
	}

	if opts.Buildings {
		w.EachBuilding(func(b *world.Building) {
			if !b.Valid() || !blockBits.Enabled(b.Block.ID) {
				return
			}
			if !relationShown(b.Team == team, opts.FriendlyBuildings, opts.EnemyBuildings) {
				return
			}
			if !view.Contains(b.X, b.Y) {
				return
			}
			buildings = append(buildings, b)
		})
	}

	return units, buildings
}

func relationShown(friendly, showFriendly, showEnemy bool) bool {
	if friendly {
		return showFriendly
	}
	return showEnemy
}
