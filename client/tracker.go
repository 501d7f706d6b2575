package client

import (
	"context"
	"log"
	"sync"
	"time"

	"tanks/world"
)

// Presenter is the presentation side of remote participants: it creates a
// representation when one appears, receives its state at the polling cadence and
// drops it when it leaves.
type Presenter interface {
	AddRemote(ID int64)
	CaptureRemote(ID int64, state world.PlayerState)
	RemoveRemote(ID int64)
}

// Tracker runs one polling task per active remote participant. A task starts on
// the new-participant signal and is cancelled on the departure signal; it only
// ever reads the cache.
type Tracker struct {
	cache     *Cache
	presenter Presenter
	interval  time.Duration

	mu    sync.Mutex
	tasks map[int64]context.CancelFunc
	wg    sync.WaitGroup
	ctx   context.Context
	stop  context.CancelFunc
}

// NewTracker wires itself as the cache's listener.
func NewTracker(cache *Cache, presenter Presenter, interval time.Duration) *Tracker {
	ctx, stop := context.WithCancel(context.Background())
	t := &Tracker{
		cache:     cache,
		presenter: presenter,
		interval:  interval,
		tasks:     make(map[int64]context.CancelFunc),
		ctx:       ctx,
		stop:      stop,
	}
	cache.SetListener(t)
	return t
}

func (t *Tracker) OnNewRemoteParticipant(ID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.tasks[ID]; ok || t.ctx.Err() != nil {
		return
	}
	log.Printf("player %d joined", ID)
	t.presenter.AddRemote(ID)

	ctx, cancel := context.WithCancel(t.ctx)
	t.tasks[ID] = cancel
	t.wg.Add(1)
	go t.poll(ctx, ID)
}

func (t *Tracker) OnParticipantGone(ID int64) {
	t.mu.Lock()
	cancel, ok := t.tasks[ID]
	delete(t.tasks, ID)
	t.mu.Unlock()
	if !ok {
		return
	}
	cancel()
	log.Printf("player %d left", ID)
	t.presenter.RemoveRemote(ID)
}

func (t *Tracker) poll(ctx context.Context, ID int64) {
	defer t.wg.Done()
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.presenter.CaptureRemote(ID, t.cache.Read(ID))
	for {
		select {
		case <-ticker.C:
			t.presenter.CaptureRemote(ID, t.cache.Read(ID))
		case <-ctx.Done():
			return
		}
	}
}

// Tracking reports whether a polling task is running for ID.
func (t *Tracker) Tracking(ID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.tasks[ID]
	return ok
}

// Close cancels every task and waits for them to return.
func (t *Tracker) Close() {
	t.mu.Lock()
	t.stop()
	t.tasks = make(map[int64]context.CancelFunc)
	t.mu.Unlock()
	t.wg.Wait()
}
