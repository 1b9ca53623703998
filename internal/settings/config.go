package settings

// Setting keys.
const (
	KeyEnabled               = "overlay-enabled"
	KeyUnitsEnabled          = "units-enabled"
	KeyBuildingsEnabled      = "buildings-enabled"
	KeyShowFriendlyUnits     = "show-friendly-units"
	KeyShowEnemyUnits        = "show-enemy-units"
	KeyShowFriendlyBuildings = "show-friendly-buildings"
	KeyShowEnemyBuildings    = "show-enemy-buildings"
	KeyTintBuildingIcons     = "tint-building-icons"

	KeyUnitScale      = "unit-scale"
	KeyUnitSizeLegacy = "unit-size"
	KeyUnitAlpha      = "unit-alpha"
	KeyUnitClusterPx  = "unit-cluster-px"
	KeyBuildingScale  = "building-scale"
	KeyIconAlpha      = "icon-alpha"
	KeyIconBgAlpha    = "icon-bg-alpha"

	KeyUnitAllowList  = "unit-allow-list"
	KeyBlockAllowList = "block-allow-list"
	KeyFilterInit     = "filter-init"

	// KeyHostMinimap is the host's own minimap toggle; the overlay only
	// attaches while it is on.
	KeyHostMinimap = "minimap"
)

// baseUnitSizePx is the unit icon edge at 100% scale.
const baseUnitSizePx = 6.0

// Config is a clamped snapshot of the overlay options.
type Config struct {
	Enabled          bool
	UnitsEnabled     bool
	BuildingsEnabled bool

	ShowFriendlyUnits     bool
	ShowEnemyUnits        bool
	ShowFriendlyBuildings bool
	ShowEnemyBuildings    bool
	TintBuildingIcons     bool

	UnitSizePx    float64 // unit icon edge in screen pixels
	UnitAlpha     float64 // 0..1
	UnitClusterPx float64 // 2..80
	BuildingScale float64 // 0.1..10
	IconAlpha     float64 // 0..1
	IconBgAlpha   float64 // 0..1
}

// DefaultConfig is the snapshot of an empty store.
func DefaultConfig() Config {
	return LoadConfig(NewStore(""))
}

// LoadConfig reads and clamps every option from s. When unit-scale is
// absent the legacy unit-size pixel value is honoured.
func LoadConfig(s *Store) Config {
	c := Config{
		Enabled:               s.Bool(KeyEnabled, false),
		UnitsEnabled:          s.Bool(KeyUnitsEnabled, true),
		BuildingsEnabled:      s.Bool(KeyBuildingsEnabled, true),
		ShowFriendlyUnits:     s.Bool(KeyShowFriendlyUnits, true),
		ShowEnemyUnits:        s.Bool(KeyShowEnemyUnits, true),
		ShowFriendlyBuildings: s.Bool(KeyShowFriendlyBuildings, true),
		ShowEnemyBuildings:    s.Bool(KeyShowEnemyBuildings, true),
		TintBuildingIcons:     s.Bool(KeyTintBuildingIcons, true),
	}

	if s.Has(KeyUnitScale) {
		scale := clamp(float64(s.Int(KeyUnitScale, 100))/100, 0.1, 10)
		c.UnitSizePx = baseUnitSizePx * scale
	} else {
		c.UnitSizePx = max(1, float64(s.Int(KeyUnitSizeLegacy, int(baseUnitSizePx))))
	}
	c.UnitAlpha = clamp(float64(s.Int(KeyUnitAlpha, 90))/100, 0, 1)
	c.UnitClusterPx = clamp(float64(s.Int(KeyUnitClusterPx, 12)), 2, 80)
	c.BuildingScale = clamp(float64(s.Int(KeyBuildingScale, 120))/100, 0.1, 10)
	c.IconAlpha = clamp(float64(s.Int(KeyIconAlpha, 90))/100, 0, 1)
	c.IconBgAlpha = clamp(float64(s.Int(KeyIconBgAlpha, 35))/100, 0, 1)
	return c
}

// EnsureDefaultFilterLists seeds the allow-lists once per store: the unit
// list gets every unit name when empty, the block list is created empty.
// Returns true when it changed the store.
func EnsureDefaultFilterLists(s *Store, unitNames []string) bool {
	if s.Bool(KeyFilterInit, false) {
		return false
	}
	units, _ := s.StringSet(KeyUnitAllowList)
	if len(units) == 0 {
		s.PutStringSet(KeyUnitAllowList, append([]string(nil), unitNames...))
	}
	if !s.Has(KeyBlockAllowList) {
		s.PutStringSet(KeyBlockAllowList, nil)
	}
	s.PutBool(KeyFilterInit, true)
	return true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
