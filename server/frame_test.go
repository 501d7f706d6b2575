package server

import (
	"testing"

	"google.golang.org/protobuf/encoding/protowire"

	"tanks/world"
)

func TestFrameRoundTrip(t *testing.T) {
	f := &Frame{
		Sequence: 300,
		Players: world.Roster{
			{ID: -4, Timestamp: 99, X: 1.5, Y: -2, Rotation: 3, Heading: 0.25, Speed: 2, Color: world.RGB(1, 2, 3)},
			{ID: 7, Timestamp: 1},
		},
	}
	got, err := UnmarshalFrame(f.Marshal())
	if err != nil {
		t.Fatal(err)
	}
	if got.Sequence != f.Sequence || len(got.Players) != 2 {
		t.Fatalf("UnmarshalFrame = %+v, want %+v", got, f)
	}
	for i := range f.Players {
		if got.Players[i] != f.Players[i] {
			t.Fatalf("player %d = %+v, want %+v", i, got.Players[i], f.Players[i])
		}
	}
}

func TestFrameSkipsUnknownFields(t *testing.T) {
	b := (&Frame{Sequence: 1}).Marshal()
	b = protowire.AppendTag(b, 15, protowire.BytesType)
	b = protowire.AppendString(b, "future")

	got, err := UnmarshalFrame(b)
	if err != nil {
		t.Fatal(err)
	}
	if got.Sequence != 1 || len(got.Players) != 0 {
		t.Fatalf("UnmarshalFrame = %+v", got)
	}
}

func TestFrameTruncated(t *testing.T) {
	b := (&Frame{Sequence: 1, Players: world.Roster{{ID: 1}}}).Marshal()
	if _, err := UnmarshalFrame(b[:len(b)-3]); err == nil {
		t.Fatalf("UnmarshalFrame of a truncated frame succeeded")
	}
}
