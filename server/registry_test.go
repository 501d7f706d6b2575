package server

import (
	"testing"

	"tanks/world"
)

func TestRegistryApplyOverwrites(t *testing.T) {
	r := NewRegistry()
	r.Apply(world.PlayerState{ID: 1, Timestamp: 10, X: 1})
	// no ordering check on the relay: an older timestamp still wins when it arrives last
	r.Apply(world.PlayerState{ID: 1, Timestamp: 5, X: 2})

	got, ok := r.Get(1)
	if !ok || got.X != 2 || got.Timestamp != 5 {
		t.Fatalf("Get(1) = %+v, %v, want ts=5 x=2", got, ok)
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistrySnapshotExcluding(t *testing.T) {
	r := NewRegistry()
	for _, ID := range []int64{3, 1, 2} {
		r.Apply(world.PlayerState{ID: ID, Timestamp: ID})
	}

	roster := r.SnapshotExcluding(2)
	if len(roster) != 2 || roster[0].ID != 1 || roster[1].ID != 3 {
		t.Fatalf("SnapshotExcluding(2) = %+v, want [1 3]", roster)
	}
	if all := r.Snapshot(); len(all) != 3 {
		t.Fatalf("Snapshot() has %d entries, want 3", len(all))
	}
	if roster := r.SnapshotExcluding(9); len(roster) != 3 {
		t.Fatalf("SnapshotExcluding(9) has %d entries, want 3", len(roster))
	}
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry()
	r.Apply(world.PlayerState{ID: 1, Timestamp: 1})
	r.Remove(1)
	r.Remove(42)
	if _, ok := r.Get(1); ok || r.Len() != 0 {
		t.Fatalf("entry 1 survived Remove")
	}
	if roster := r.Snapshot(); roster == nil || len(roster) != 0 {
		t.Fatalf("Snapshot() of empty registry = %v, want empty", roster)
	}
}
