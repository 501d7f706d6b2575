package client

import (
	"sync"

	"tanks/world"
)

// Phase is where a remote participant is in its life as seen from this client.
type Phase int

const (
	PhaseUnknown Phase = iota
	PhaseActive
	PhaseGone
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseGone:
		return "gone"
	}
	return "unknown"
}

// Listener is told about participants appearing and leaving. It is called after
// the cache has been updated and without the cache lock held.
type Listener interface {
	OnNewRemoteParticipant(ID int64)
	OnParticipantGone(ID int64)
}

// Cache keeps the newest accepted state of every remote participant.
type Cache struct {
	mu       sync.RWMutex
	self     int64
	states   map[int64]world.PlayerState
	gone     map[int64]struct{}
	fallback world.PlayerState
	listener Listener
}

// NewCache returns a cache for the client playing as self. fallback is what Read
// reports for a participant with no state yet.
func NewCache(self int64, fallback world.PlayerState) *Cache {
	return &Cache{
		self:     self,
		states:   make(map[int64]world.PlayerState),
		gone:     make(map[int64]struct{}),
		fallback: fallback,
	}
}

// SetListener must be called before the first Merge.
func (c *Cache) SetListener(l Listener) {
	c.listener = l
}

type event struct {
	ID  int64
	new bool
}

// Merge applies a roster reply. An unseen participant is stored and announced, a
// known one is overwritten only by a strictly newer timestamp, and a departure
// notice for a known participant removes it.
func (c *Cache) Merge(roster world.Roster) {
	var events []event

	c.mu.Lock()
	for _, record := range roster {
		if record.ID == c.self {
			continue
		}
		cached, ok := c.states[record.ID]
		switch {
		case record.Departing():
			if ok {
				c.observeDepartureLocked(record.ID)
				events = append(events, event{ID: record.ID})
			}
		case !ok:
			c.states[record.ID] = record
			delete(c.gone, record.ID)
			events = append(events, event{ID: record.ID, new: true})
		case record.Timestamp > cached.Timestamp:
			c.states[record.ID] = record
		}
	}
	c.mu.Unlock()

	c.notify(events)
}

// ObserveDeparture forgets ID and tells the listener, if ID was active.
func (c *Cache) ObserveDeparture(ID int64) {
	c.mu.Lock()
	_, ok := c.states[ID]
	if ok {
		c.observeDepartureLocked(ID)
	}
	c.mu.Unlock()

	if ok {
		c.notify([]event{{ID: ID}})
	}
}

func (c *Cache) observeDepartureLocked(ID int64) {
	delete(c.states, ID)
	c.gone[ID] = struct{}{}
}

func (c *Cache) notify(events []event) {
	if c.listener == nil {
		return
	}
	for _, e := range events {
		if e.new {
			c.listener.OnNewRemoteParticipant(e.ID)
		} else {
			c.listener.OnParticipantGone(e.ID)
		}
	}
}

// Read returns the cached state of ID, or the fallback carrying ID when nothing
// has been recorded.
func (c *Cache) Read(ID int64) world.PlayerState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if p, ok := c.states[ID]; ok {
		return p
	}
	p := c.fallback
	p.ID = ID
	return p
}

func (c *Cache) Phase(ID int64) Phase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, ok := c.states[ID]; ok {
		return PhaseActive
	}
	if _, ok := c.gone[ID]; ok {
		return PhaseGone
	}
	return PhaseUnknown
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.states)
}

func (c *Cache) ForEachParticipant(callback func(int64, world.PlayerState)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for ID, p := range c.states {
		callback(ID, p)
	}
}
