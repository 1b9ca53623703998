package content

import "testing"

func TestRegistry_IDsFollowRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	a, err := r.AddUnit("a", "A", nil)
	if err != nil {
		t.Fatalf("add a: %v", err)
	}
	b, err := r.AddUnit("b", "B", nil)
	if err != nil {
		t.Fatalf("add b: %v", err)
	}
	if a.ID != 0 || b.ID != 1 {
		t.Fatalf("expected ids 0,1 got %d,%d", a.ID, b.ID)
	}
	if r.UnitCount() != 2 {
		t.Fatalf("expected 2 units, got %d", r.UnitCount())
	}
}

func TestRegistry_DuplicateNameRejected(t *testing.T) {
	r := NewRegistry()
	if _, err := r.AddBlock("duo", "Duo", 1, true, nil); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if _, err := r.AddBlock("duo", "Duo", 1, true, nil); err == nil {
		t.Fatal("expected duplicate block name to be rejected")
	}
	if r.BlockCount() != 1 {
		t.Fatalf("duplicate must not change count, got %d", r.BlockCount())
	}
}

func TestRegistry_BlockSizeFloor(t *testing.T) {
	r := NewRegistry()
	b, _ := r.AddBlock("tiny", "Tiny", 0, true, nil)
	if b.Size != 1 {
		t.Fatalf("expected size floored to 1, got %d", b.Size)
	}
}

func TestDefault_BuildingBlocksExcludeTerrain(t *testing.T) {
	r := Default()
	for _, name := range r.BuildingBlockNames() {
		if name == "air" || name == "stone" {
			t.Fatalf("terrain block %q listed as building", name)
		}
	}
	if len(r.UnitNames()) != r.UnitCount() {
		t.Fatal("UnitNames length mismatch")
	}
	dagger, ok := r.Unit("dagger")
	if !ok || dagger.Icon == nil {
		t.Fatal("expected dagger with a generated icon")
	}
}

func TestMatches(t *testing.T) {
	if !Matches("", "dagger", "Dagger") {
		t.Fatal("empty query should match")
	}
	if !Matches("  DAG ", "dagger", "Dagger") {
		t.Fatal("query should be trimmed and case-insensitive")
	}
	if !Matches("shard", "core-shard", "Core: Shard") {
		t.Fatal("expected name match")
	}
	if Matches("zzz", "dagger", "Dagger") {
		t.Fatal("unexpected match")
	}
}
