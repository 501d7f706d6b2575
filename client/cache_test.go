package client

import (
	"testing"

	"tanks/world"
)

type recordingListener struct {
	joined []int64
	left   []int64
}

func (l *recordingListener) OnNewRemoteParticipant(ID int64) {
	l.joined = append(l.joined, ID)
}

func (l *recordingListener) OnParticipantGone(ID int64) {
	l.left = append(l.left, ID)
}

var fallback = world.PlayerState{X: 800, Y: 600, Color: world.RGB(235, 235, 235)}

func newTestCache(self int64) (*Cache, *recordingListener) {
	c := NewCache(self, fallback)
	l := &recordingListener{}
	c.SetListener(l)
	return c, l
}

func TestMergeNewParticipantSignalsOnce(t *testing.T) {
	c, l := newTestCache(1)
	c.Merge(world.Roster{{ID: 2, Timestamp: 50, X: 3}})
	c.Merge(world.Roster{{ID: 2, Timestamp: 60, X: 4}})
	c.Merge(world.Roster{{ID: 2, Timestamp: 70, X: 5}})
	if len(l.joined) != 1 || l.joined[0] != 2 {
		t.Fatalf("joined = %v, want [2]", l.joined)
	}
	if got := c.Read(2); got.X != 5 || got.Timestamp != 70 {
		t.Fatalf("Read(2) = %+v, want the ts=70 record", got)
	}
	if got := c.Phase(2); got != PhaseActive {
		t.Fatalf("Phase(2) = %v, want active", got)
	}
}

func TestMergeIgnoresStaleAndDuplicate(t *testing.T) {
	c, l := newTestCache(1)
	c.Merge(world.Roster{{ID: 2, Timestamp: 50, X: 3}})

	c.Merge(world.Roster{{ID: 2, Timestamp: 50, X: 99}})
	c.Merge(world.Roster{{ID: 2, Timestamp: 49, X: 98}})

	if got := c.Read(2); got.X != 3 || got.Timestamp != 50 {
		t.Fatalf("Read(2) = %+v, want unchanged ts=50 x=3", got)
	}
	if len(l.joined) != 1 {
		t.Fatalf("joined = %v, want one signal", l.joined)
	}
}

func TestMergeSkipsSelf(t *testing.T) {
	c, l := newTestCache(1)
	c.Merge(world.Roster{{ID: 1, Timestamp: 5}})
	if c.Len() != 0 || len(l.joined) != 0 {
		t.Fatalf("own record was cached: len=%d joined=%v", c.Len(), l.joined)
	}
}

func TestMergeDeparture(t *testing.T) {
	c, l := newTestCache(1)
	c.Merge(world.Roster{{ID: 2, Timestamp: 50}, {ID: 3, Timestamp: 40}})
	c.Merge(world.Roster{world.Departure(2, 0), {ID: 3, Timestamp: 41}})

	if len(l.left) != 1 || l.left[0] != 2 {
		t.Fatalf("left = %v, want [2]", l.left)
	}
	if got := c.Phase(2); got != PhaseGone {
		t.Fatalf("Phase(2) = %v, want gone", got)
	}
	if got := c.Read(2); got.X != fallback.X || got.Y != fallback.Y || got.ID != 2 {
		t.Fatalf("Read(2) after departure = %+v, want fallback", got)
	}
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
}

func TestDepartureOfUnknownIsIgnored(t *testing.T) {
	c, l := newTestCache(1)
	c.Merge(world.Roster{world.Departure(9, 0)})
	c.ObserveDeparture(9)
	if len(l.left) != 0 || len(l.joined) != 0 {
		t.Fatalf("signals for unknown participant: joined=%v left=%v", l.joined, l.left)
	}
	if got := c.Phase(9); got != PhaseUnknown {
		t.Fatalf("Phase(9) = %v, want unknown", got)
	}
}

func TestReappearanceIsNewParticipant(t *testing.T) {
	c, l := newTestCache(1)
	c.Merge(world.Roster{{ID: 2, Timestamp: 50}})
	c.ObserveDeparture(2)
	c.Merge(world.Roster{{ID: 2, Timestamp: 10, X: 7}})

	if len(l.joined) != 2 {
		t.Fatalf("joined = %v, want two signals", l.joined)
	}
	if got := c.Read(2); got.X != 7 || got.Timestamp != 10 {
		t.Fatalf("Read(2) = %+v, want fresh ts=10 record", got)
	}
	if got := c.Phase(2); got != PhaseActive {
		t.Fatalf("Phase(2) = %v, want active", got)
	}
}

func TestReadFallback(t *testing.T) {
	c, _ := newTestCache(1)
	got := c.Read(5)
	want := fallback
	want.ID = 5
	if got != want {
		t.Fatalf("Read(5) = %+v, want %+v", got, want)
	}
}

func TestForEachParticipant(t *testing.T) {
	c, _ := newTestCache(1)
	c.Merge(world.Roster{{ID: 2, Timestamp: 1}, {ID: 3, Timestamp: 1}})
	seen := make(map[int64]bool)
	c.ForEachParticipant(func(ID int64, p world.PlayerState) {
		seen[ID] = p.ID == ID
	})
	if len(seen) != 2 || !seen[2] || !seen[3] {
		t.Fatalf("ForEachParticipant saw %v", seen)
	}
}
