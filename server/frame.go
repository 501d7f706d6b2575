package server

import (
	"errors"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"tanks/world"
)

// Observer frames use the protobuf wire format:
//
//	message Frame  { uint64 sequence = 1; repeated Player players = 2; }
//	message Player { sfixed64 id = 1; sfixed64 timestamp = 2; float x = 3; float y = 4;
//	                 float rotation = 5; float heading = 6; float speed = 7; fixed32 color = 8; }
const (
	frameSequence protowire.Number = 1
	framePlayers  protowire.Number = 2

	playerID        protowire.Number = 1
	playerTimestamp protowire.Number = 2
	playerX         protowire.Number = 3
	playerY         protowire.Number = 4
	playerRotation  protowire.Number = 5
	playerHeading   protowire.Number = 6
	playerSpeed     protowire.Number = 7
	playerColor     protowire.Number = 8
)

var errBadFrame = errors.New("bad observer frame")

type Frame struct {
	Sequence uint64
	Players  world.Roster
}

func appendFloat(b []byte, num protowire.Number, f float32) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed32Type)
	return protowire.AppendFixed32(b, math.Float32bits(f))
}

func appendPlayer(b []byte, p world.PlayerState) []byte {
	b = protowire.AppendTag(b, playerID, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, uint64(p.ID))
	b = protowire.AppendTag(b, playerTimestamp, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, uint64(p.Timestamp))
	b = appendFloat(b, playerX, p.X)
	b = appendFloat(b, playerY, p.Y)
	b = appendFloat(b, playerRotation, p.Rotation)
	b = appendFloat(b, playerHeading, p.Heading)
	b = appendFloat(b, playerSpeed, p.Speed)
	b = protowire.AppendTag(b, playerColor, protowire.Fixed32Type)
	return protowire.AppendFixed32(b, uint32(p.Color))
}

func (f *Frame) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, frameSequence, protowire.VarintType)
	b = protowire.AppendVarint(b, f.Sequence)
	var player []byte
	for _, p := range f.Players {
		player = appendPlayer(player[:0], p)
		b = protowire.AppendTag(b, framePlayers, protowire.BytesType)
		b = protowire.AppendBytes(b, player)
	}
	return b
}

func UnmarshalFrame(b []byte) (*Frame, error) {
	f := &Frame{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == frameSequence && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			f.Sequence = v
			b = b[n:]
		case num == framePlayers && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			p, err := unmarshalPlayer(v)
			if err != nil {
				return nil, err
			}
			f.Players = append(f.Players, p)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return f, nil
}

func unmarshalPlayer(b []byte) (world.PlayerState, error) {
	var p world.PlayerState
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return p, protowire.ParseError(n)
		}
		b = b[n:]
		switch typ {
		case protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return p, protowire.ParseError(n)
			}
			switch num {
			case playerID:
				p.ID = int64(v)
			case playerTimestamp:
				p.Timestamp = int64(v)
			}
			b = b[n:]
		case protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return p, protowire.ParseError(n)
			}
			switch num {
			case playerX:
				p.X = math.Float32frombits(v)
			case playerY:
				p.Y = math.Float32frombits(v)
			case playerRotation:
				p.Rotation = math.Float32frombits(v)
			case playerHeading:
				p.Heading = math.Float32frombits(v)
			case playerSpeed:
				p.Speed = math.Float32frombits(v)
			case playerColor:
				p.Color = world.Color(v)
			}
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return p, errBadFrame
			}
			b = b[n:]
		}
	}
	return p, nil
}
