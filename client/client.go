package client

import (
	"context"
	"errors"
	"log"
	"time"

	"tanks/world"
)

// Client is the local participant's side of the protocol: one exchange at a time
// on a dedicated worker, results merged into the cache. Pending and
// SubmitLocalState belong to the single goroutine driving the exchange tick.
type Client struct {
	ID        int64
	exchanger *Exchanger
	cache     *Cache
	timeout   time.Duration
	clock     *world.Clock
	busy      chan struct{}
	lastSent  *world.PlayerState
}

func NewClient(ID int64, exchanger *Exchanger, cache *Cache) *Client {
	return &Client{
		ID:        ID,
		exchanger: exchanger,
		cache:     cache,
		timeout:   exchanger.timeout,
		clock:     world.NewClock(),
		busy:      make(chan struct{}, 1),
	}
}

func (c *Client) Cache() *Cache {
	return c.cache
}

// Pending returns state if its pose differs from the last state the relay
// answered, and nil if there is nothing new to send.
func (c *Client) Pending(state world.PlayerState) *world.PlayerState {
	if c.lastSent != nil && c.lastSent.SamePose(&state) {
		return nil
	}
	return &state
}

// SubmitLocalState sends state and waits at most the reply timeout for the
// roster, which is merged into the cache and returned. A nil state is a no-op.
// If the previous exchange is still running the call is dropped. A timeout, a
// transport error or a malformed reply all yield an empty roster.
func (c *Client) SubmitLocalState(ctx context.Context, state *world.PlayerState) world.Roster {
	if state == nil {
		return nil
	}
	select {
	case c.busy <- struct{}{}:
	default:
		return nil
	}
	sent := *state

	result := make(chan world.Roster, 1)
	go func() {
		roster, err := c.exchanger.Exchange(ctx, sent)
		if err != nil && !errors.Is(err, ErrExchangeTimeout) {
			log.Println(err)
		}
		<-c.busy
		result <- roster
	}()

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()
	select {
	case roster := <-result:
		if roster != nil {
			c.lastSent = &sent
		}
		c.cache.Merge(roster)
		return roster
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return nil
	}
}

// SendDeparture tells the relay this participant is leaving. It does not wait
// for a reply or for an exchange still in flight, and errors are only logged.
func (c *Client) SendDeparture(ctx context.Context, color world.Color) {
	if _, err := c.exchanger.Exchange(ctx, world.Departure(c.ID, color)); err != nil {
		log.Println(err)
	}
}

// Tick is one exchange tick: if local moved since the last answered update it is
// stamped and submitted.
func (c *Client) Tick(ctx context.Context, local world.PlayerState) world.Roster {
	state := c.Pending(local)
	if state == nil {
		return nil
	}
	state.ID = c.ID
	state.Timestamp = c.clock.Next()
	return c.SubmitLocalState(ctx, state)
}

// Run calls Tick every interval with the current local state until ctx is done.
func (c *Client) Run(ctx context.Context, interval time.Duration, local func() world.PlayerState) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.Tick(ctx, local())
		case <-ctx.Done():
			return
		}
	}
}
