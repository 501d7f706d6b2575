package world

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/segmentio/ksuid"
)

// DepartureTick is the reserved timestamp of a departure notice.
const DepartureTick int64 = 0

// Color is an opaque packed 0xAARRGGBB value. Only the presentation layer looks inside it.
type Color uint32

func RGB(r, g, b uint8) Color {
	return Color(0xFF000000 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

func (c Color) RGBA() (r, g, b, a uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c), uint8(c >> 24)
}

// PlayerState is one participant's position as sent over the wire and stored by the
// registry and the cache.
type PlayerState struct {
	ID        int64
	Timestamp int64
	X, Y      float32
	Rotation  float32
	Heading   float32
	Speed     float32
	Color     Color
}

// Departing reports whether the record is a departure notice rather than an update.
func (p *PlayerState) Departing() bool {
	return p.Timestamp == DepartureTick
}

// SamePose compares everything the owner can change by moving, ignoring id, time and color.
func (p *PlayerState) SamePose(o *PlayerState) bool {
	return p.X == o.X && p.Y == o.Y && p.Rotation == o.Rotation && p.Heading == o.Heading && p.Speed == o.Speed
}

func Departure(ID int64, c Color) PlayerState {
	return PlayerState{
		ID:        ID,
		Timestamp: DepartureTick,
		Color:     c,
	}
}

// NewPlayerID draws a fresh session KSUID and folds its random payload into a
// non-negative 64-bit id. The KSUID is returned so it can label logs.
func NewPlayerID() (int64, ksuid.KSUID) {
	id := ksuid.New()
	n := int64(binary.BigEndian.Uint64(id.Payload()[:8]) &^ (1 << 63))
	if n == 0 {
		n = int64(id.Timestamp())
	}
	return n, id
}

// Clock hands out update timestamps: wall-clock milliseconds, strictly increasing
// and never DepartureTick.
type Clock struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Now}
}

func (c *Clock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now
	if now == nil {
		now = time.Now
	}
	tick := now().UnixNano() / int64(time.Millisecond)
	if tick <= c.last {
		tick = c.last + 1
	}
	if tick == DepartureTick {
		tick++
	}
	c.last = tick
	return tick
}
