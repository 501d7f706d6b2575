package world

import (
	"encoding"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const (
	// RecordSize is the size of one encoded PlayerState.
	RecordSize = 40
	// RosterHeaderSize is the signed 32-bit count in front of a roster reply.
	RosterHeaderSize = 4
	// DefaultReceiveBuffer is the datagram buffer a client reads replies into.
	DefaultReceiveBuffer = 500
)

var (
	ErrMalformedPacket = errors.New("malformed packet")
	ErrRosterOverflow  = errors.New("roster does not fit the receive buffer")
)

var (
	_ encoding.BinaryMarshaler   = PlayerState{}
	_ encoding.BinaryUnmarshaler = (*PlayerState)(nil)
)

// MaxRosterRecords is the largest roster a receiver with a bufferSize-byte datagram
// buffer can take in one reply.
func MaxRosterRecords(bufferSize int) int {
	if bufferSize < RosterHeaderSize {
		return 0
	}
	return (bufferSize - RosterHeaderSize) / RecordSize
}

// AppendRecord appends the 40-byte big-endian encoding of p to b.
func AppendRecord(b []byte, p PlayerState) []byte {
	var buf [RecordSize]byte
	binary.BigEndian.PutUint64(buf[0:8], uint64(p.ID))
	binary.BigEndian.PutUint64(buf[8:16], uint64(p.Timestamp))
	binary.BigEndian.PutUint32(buf[16:20], math.Float32bits(p.X))
	binary.BigEndian.PutUint32(buf[20:24], math.Float32bits(p.Y))
	binary.BigEndian.PutUint32(buf[24:28], math.Float32bits(p.Rotation))
	binary.BigEndian.PutUint32(buf[28:32], math.Float32bits(p.Heading))
	binary.BigEndian.PutUint32(buf[32:36], math.Float32bits(p.Speed))
	binary.BigEndian.PutUint32(buf[36:40], uint32(p.Color))
	return append(b, buf[:]...)
}

func (p PlayerState) MarshalBinary() ([]byte, error) {
	return AppendRecord(make([]byte, 0, RecordSize), p), nil
}

// UnmarshalBinary decodes the first RecordSize bytes of data. Trailing bytes are ignored.
func (p *PlayerState) UnmarshalBinary(data []byte) error {
	if len(data) < RecordSize {
		return fmt.Errorf("%w: record needs %d bytes, have %d", ErrMalformedPacket, RecordSize, len(data))
	}
	p.ID = int64(binary.BigEndian.Uint64(data[0:8]))
	p.Timestamp = int64(binary.BigEndian.Uint64(data[8:16]))
	p.X = math.Float32frombits(binary.BigEndian.Uint32(data[16:20]))
	p.Y = math.Float32frombits(binary.BigEndian.Uint32(data[20:24]))
	p.Rotation = math.Float32frombits(binary.BigEndian.Uint32(data[24:28]))
	p.Heading = math.Float32frombits(binary.BigEndian.Uint32(data[28:32]))
	p.Speed = math.Float32frombits(binary.BigEndian.Uint32(data[32:36]))
	p.Color = Color(binary.BigEndian.Uint32(data[36:40]))
	return nil
}

func EncodeUpdate(p PlayerState) []byte {
	b, _ := p.MarshalBinary()
	return b
}

func DecodeUpdate(data []byte) (PlayerState, error) {
	var p PlayerState
	err := p.UnmarshalBinary(data)
	return p, err
}

// Roster is the list of other participants carried by one server reply.
type Roster []PlayerState

// Encode writes the count header and records. It refuses rosters that a receiver
// with a bufferSize-byte buffer could not read whole; bufferSize <= 0 means unbounded.
func (r Roster) Encode(bufferSize int) ([]byte, error) {
	if bufferSize > 0 && len(r) > MaxRosterRecords(bufferSize) {
		return nil, fmt.Errorf("%w: %d records, limit %d for %d bytes",
			ErrRosterOverflow, len(r), MaxRosterRecords(bufferSize), bufferSize)
	}
	b := make([]byte, RosterHeaderSize, RosterHeaderSize+len(r)*RecordSize)
	binary.BigEndian.PutUint32(b, uint32(int32(len(r))))
	for _, p := range r {
		b = AppendRecord(b, p)
	}
	return b, nil
}

// Truncate returns the prefix of r that fits a bufferSize-byte buffer.
func (r Roster) Truncate(bufferSize int) Roster {
	if limit := MaxRosterRecords(bufferSize); len(r) > limit {
		return r[:limit]
	}
	return r
}

func DecodeRoster(data []byte) (Roster, error) {
	if len(data) < RosterHeaderSize {
		return nil, fmt.Errorf("%w: roster header needs %d bytes, have %d", ErrMalformedPacket, RosterHeaderSize, len(data))
	}
	count := int32(binary.BigEndian.Uint32(data))
	if count < 0 {
		return nil, fmt.Errorf("%w: negative roster count %d", ErrMalformedPacket, count)
	}
	body := data[RosterHeaderSize:]
	if int64(count)*RecordSize > int64(len(body)) {
		return nil, fmt.Errorf("%w: roster count %d overruns %d bytes", ErrMalformedPacket, count, len(body))
	}
	roster := make(Roster, count)
	for i := range roster {
		if err := roster[i].UnmarshalBinary(body[i*RecordSize:]); err != nil {
			return nil, err
		}
	}
	return roster, nil
}
