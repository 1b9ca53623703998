package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Garsondee/Better-Minimap/internal/logger"
)

func init() {
	logger.Silence()
}

func TestDefaultConfig_MatchesDocumentedDefaults(t *testing.T) {
	c := DefaultConfig()
	if c.Enabled {
		t.Fatal("overlay must default to disabled")
	}
	if !c.UnitsEnabled || !c.BuildingsEnabled || !c.TintBuildingIcons {
		t.Fatal("category toggles and tint default to true")
	}
	if !c.ShowFriendlyUnits || !c.ShowEnemyUnits || !c.ShowFriendlyBuildings || !c.ShowEnemyBuildings {
		t.Fatal("relation toggles default to true")
	}
	checks := []struct {
		name      string
		got, want float64
	}{
		{"unit size", c.UnitSizePx, 6},
		{"unit alpha", c.UnitAlpha, 0.9},
		{"cluster px", c.UnitClusterPx, 12},
		{"building scale", c.BuildingScale, 1.2},
		{"icon alpha", c.IconAlpha, 0.9},
		{"icon bg alpha", c.IconBgAlpha, 0.35},
	}
	for _, ch := range checks {
		if diff := ch.got - ch.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("%s: expected %.3f, got %.3f", ch.name, ch.want, ch.got)
		}
	}
}

func TestLoadConfig_Clamps(t *testing.T) {
	s := NewStore("")
	s.PutInt(KeyUnitScale, 5000)
	s.PutInt(KeyUnitClusterPx, 1)
	s.PutInt(KeyBuildingScale, 1)
	s.PutInt(KeyUnitAlpha, 250)
	s.PutInt(KeyIconBgAlpha, -10)
	c := LoadConfig(s)
	if c.UnitSizePx != 60 {
		t.Fatalf("unit scale clamps to 10x → 60px, got %.2f", c.UnitSizePx)
	}
	if c.UnitClusterPx != 2 {
		t.Fatalf("cluster px clamps to 2, got %.2f", c.UnitClusterPx)
	}
	if c.BuildingScale != 0.1 {
		t.Fatalf("building scale clamps to 0.1, got %.2f", c.BuildingScale)
	}
	if c.UnitAlpha != 1 || c.IconBgAlpha != 0 {
		t.Fatalf("alphas clamp to [0,1], got %.2f / %.2f", c.UnitAlpha, c.IconBgAlpha)
	}
}

func TestLoadConfig_LegacyUnitSize(t *testing.T) {
	s := NewStore("")
	s.PutInt(KeyUnitSizeLegacy, 9)
	if got := LoadConfig(s).UnitSizePx; got != 9 {
		t.Fatalf("legacy unit-size should be used when unit-scale absent, got %.2f", got)
	}
	s.PutInt(KeyUnitSizeLegacy, 0)
	if got := LoadConfig(s).UnitSizePx; got != 1 {
		t.Fatalf("legacy unit-size floors at 1, got %.2f", got)
	}
	s.PutInt(KeyUnitScale, 200)
	if got := LoadConfig(s).UnitSizePx; got != 12 {
		t.Fatalf("unit-scale wins over legacy key, got %.2f", got)
	}
}

func TestStore_WrongTypeReadsDefault(t *testing.T) {
	s := NewStore("")
	s.PutStringSet(KeyEnabled, []string{"x"})
	if s.Bool(KeyEnabled, true) != true {
		t.Fatal("mistyped value should read as default")
	}
	if s.Int(KeyEnabled, 7) != 7 {
		t.Fatal("mistyped value should read as default")
	}
}

func TestStore_StringSetNotSet(t *testing.T) {
	s := NewStore("")
	if _, err := s.StringSet(KeyUnitAllowList); !errors.Is(err, ErrNotSet) {
		t.Fatalf("expected ErrNotSet, got %v", err)
	}
	s.PutStringSet(KeyUnitAllowList, nil)
	v, err := s.StringSet(KeyUnitAllowList)
	if err != nil || v == nil || len(v) != 0 {
		t.Fatalf("nil list should round-trip as empty, got %v err=%v", v, err)
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	s := NewStore(path)
	s.PutBool(KeyEnabled, true)
	s.PutInt(KeyUnitAlpha, 40)
	s.PutStringSet(KeyBlockAllowList, []string{"duo", "lancer"})
	if err := s.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.Bool(KeyEnabled, false) || got.Int(KeyUnitAlpha, 0) != 40 {
		t.Fatal("primitive values did not survive save/load")
	}
	blocks, err := got.StringSet(KeyBlockAllowList)
	if err != nil || len(blocks) != 2 || blocks[0] != "duo" {
		t.Fatalf("unexpected block list %v err=%v", blocks, err)
	}
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(s.Keys()) != 0 {
		t.Fatal("expected empty store")
	}
}

func TestLoad_CorruptFileYieldsEmptyStoreAndError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err == nil {
		t.Fatal("expected decode error")
	}
	if s == nil || len(s.Keys()) != 0 {
		t.Fatal("expected usable empty store alongside the error")
	}
}

func TestEnsureDefaultFilterLists_OneShot(t *testing.T) {
	s := NewStore("")
	if !EnsureDefaultFilterLists(s, []string{"dagger", "mace"}) {
		t.Fatal("first call should seed")
	}
	units, _ := s.StringSet(KeyUnitAllowList)
	if len(units) != 2 {
		t.Fatalf("expected all units allowed, got %v", units)
	}
	blocks, err := s.StringSet(KeyBlockAllowList)
	if err != nil || len(blocks) != 0 {
		t.Fatalf("expected empty block list, got %v err=%v", blocks, err)
	}

	s.PutStringSet(KeyUnitAllowList, nil)
	if EnsureDefaultFilterLists(s, []string{"dagger", "mace"}) {
		t.Fatal("second call must not reseed")
	}
	units, _ = s.StringSet(KeyUnitAllowList)
	if len(units) != 0 {
		t.Fatal("user-cleared list must be left alone after init")
	}
}

func TestEnsureDefaultFilterLists_KeepsExistingUnitList(t *testing.T) {
	s := NewStore("")
	s.PutStringSet(KeyUnitAllowList, []string{"flare"})
	EnsureDefaultFilterLists(s, []string{"dagger", "flare"})
	units, _ := s.StringSet(KeyUnitAllowList)
	if len(units) != 1 || units[0] != "flare" {
		t.Fatalf("existing non-empty list must be kept, got %v", units)
	}
}
