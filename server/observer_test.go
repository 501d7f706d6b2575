package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nhooyr.io/websocket"

	"tanks/world"
)

func TestObserverStreamsFrames(t *testing.T) {
	s := NewServer(world.DefaultReceiveBuffer)
	o := s.Observe(nil)
	ts := httptest.NewServer(o)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close(websocket.StatusNormalClosure, "")

	for o.Subscribers() == 0 {
		if ctx.Err() != nil {
			t.Fatalf("subscriber never registered")
		}
		time.Sleep(2 * time.Millisecond)
	}

	handle(t, s, world.PlayerState{ID: 3, Timestamp: 7, X: 1})
	handle(t, s, world.PlayerState{ID: 4, Timestamp: 8, X: 2})

	var frame *Frame
	for i := 0; i < 2; i++ {
		typ, b, err := c.Read(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if typ != websocket.MessageBinary {
			t.Fatalf("message type = %v, want binary", typ)
		}
		if frame, err = UnmarshalFrame(b); err != nil {
			t.Fatal(err)
		}
	}
	if frame.Sequence != 2 || len(frame.Players) != 2 || frame.Players[1].ID != 4 {
		t.Fatalf("second frame = %+v", frame)
	}
}

func TestObserverStats(t *testing.T) {
	s := NewServer(world.DefaultReceiveBuffer)
	ts := httptest.NewServer(s.Observe(nil))
	defer ts.Close()

	handle(t, s, world.PlayerState{ID: 1, Timestamp: 1})
	handle(t, s, world.PlayerState{ID: 2, Timestamp: 1})

	resp, err := http.Get(ts.URL + "/stats")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var st statsSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	if st.Players != 2 {
		t.Fatalf("players = %d, want 2", st.Players)
	}
}
