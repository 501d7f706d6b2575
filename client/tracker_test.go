package client

import (
	"sync"
	"testing"
	"time"

	"tanks/world"
)

type fakePresenter struct {
	mu       sync.Mutex
	added    []int64
	removed  []int64
	captured map[int64]world.PlayerState
}

func newFakePresenter() *fakePresenter {
	return &fakePresenter{captured: make(map[int64]world.PlayerState)}
}

func (p *fakePresenter) AddRemote(ID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.added = append(p.added, ID)
}

func (p *fakePresenter) CaptureRemote(ID int64, state world.PlayerState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.captured[ID] = state
}

func (p *fakePresenter) RemoveRemote(ID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removed = append(p.removed, ID)
	delete(p.captured, ID)
}

func (p *fakePresenter) last(ID int64) (world.PlayerState, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.captured[ID]
	return s, ok
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestTrackerFollowsCache(t *testing.T) {
	c := NewCache(1, fallback)
	p := newFakePresenter()
	tr := NewTracker(c, p, 5*time.Millisecond)
	defer tr.Close()

	c.Merge(world.Roster{{ID: 2, Timestamp: 10, X: 3}})
	if !tr.Tracking(2) {
		t.Fatalf("Tracking(2) = false after join")
	}
	waitFor(t, "first capture", func() bool {
		s, ok := p.last(2)
		return ok && s.X == 3
	})

	c.Merge(world.Roster{{ID: 2, Timestamp: 11, X: 8}})
	waitFor(t, "updated capture", func() bool {
		s, ok := p.last(2)
		return ok && s.X == 8
	})

	c.Merge(world.Roster{world.Departure(2, 0)})
	if tr.Tracking(2) {
		t.Fatalf("Tracking(2) = true after departure")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.added) != 1 || len(p.removed) != 1 {
		t.Fatalf("added=%v removed=%v, want one each", p.added, p.removed)
	}
}

func TestTrackerIgnoresRepeatedJoin(t *testing.T) {
	c := NewCache(1, fallback)
	p := newFakePresenter()
	tr := NewTracker(c, p, time.Hour)
	defer tr.Close()

	tr.OnNewRemoteParticipant(4)
	tr.OnNewRemoteParticipant(4)
	tr.OnParticipantGone(5)

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.added) != 1 || len(p.removed) != 0 {
		t.Fatalf("added=%v removed=%v, want [4] and none", p.added, p.removed)
	}
}

func TestTrackerClose(t *testing.T) {
	c := NewCache(1, fallback)
	p := newFakePresenter()
	tr := NewTracker(c, p, time.Millisecond)

	c.Merge(world.Roster{{ID: 2, Timestamp: 1}, {ID: 3, Timestamp: 1}})
	tr.Close()
	if tr.Tracking(2) || tr.Tracking(3) {
		t.Fatalf("tasks still tracked after Close")
	}

	c.Merge(world.Roster{{ID: 6, Timestamp: 1}})
	if tr.Tracking(6) {
		t.Fatalf("Close did not stop new tasks")
	}
}
