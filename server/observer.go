package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/pprof"
	"sync"

	"nhooyr.io/websocket"
)

const subscriberQueue = 64

type subscriber struct {
	frames chan []byte
	c      *websocket.Conn
}

// Observer streams registry frames to read-only websocket spectators. Frames are
// produced by the receive loop; the observer never touches the registry.
type Observer struct {
	subscribers    map[*subscriber]struct{}
	mu             sync.RWMutex
	serveMux       http.ServeMux
	originPatterns []string
	stats          *stats
}

func NewObserver(originPatterns []string, st *stats) *Observer {
	o := &Observer{
		subscribers:    make(map[*subscriber]struct{}),
		originPatterns: originPatterns,
		stats:          st,
	}
	o.serveMux.HandleFunc("/", o.onConnection)
	o.serveMux.HandleFunc("/stats", o.onStats)
	o.serveMux.HandleFunc("/debug/pprof/", pprof.Index)
	o.serveMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	o.serveMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	o.serveMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	o.serveMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return o
}

func (o *Observer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	o.serveMux.ServeHTTP(w, r)
}

func (o *Observer) addSubscriber(sub *subscriber) {
	o.mu.Lock()
	o.subscribers[sub] = struct{}{}
	o.mu.Unlock()
}

func (o *Observer) removeSubscriber(sub *subscriber) {
	o.mu.Lock()
	delete(o.subscribers, sub)
	o.mu.Unlock()
}

func (o *Observer) Subscribers() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.subscribers)
}

func (o *Observer) onStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(o.stats.snapshot()); err != nil {
		log.Println(err)
	}
}

func (o *Observer) onConnection(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: o.originPatterns,
	})
	if err != nil {
		log.Println(err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "")

	log.Printf("observer connected: %s", r.RemoteAddr)
	err = o.handleConnection(r.Context(), c)
	log.Printf("observer disconnected: %s: %v", r.RemoteAddr, err)
}

func (o *Observer) handleConnection(ctx context.Context, c *websocket.Conn) error {
	sub := &subscriber{
		frames: make(chan []byte, subscriberQueue),
		c:      c,
	}
	o.addSubscriber(sub)
	defer o.removeSubscriber(sub)

	// Spectators never send; CloseRead handles control frames and ends ctx on close.
	ctx = c.CloseRead(ctx)
	for {
		select {
		case frame := <-sub.frames:
			if err := c.Write(ctx, websocket.MessageBinary, frame); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Publish hands frame to every subscriber without blocking. A subscriber that
// cannot keep up is disconnected.
func (o *Observer) Publish(frame []byte) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	for sub := range o.subscribers {
		select {
		case sub.frames <- frame:
		default:
			go sub.c.Close(websocket.StatusPolicyViolation, "observer too slow")
		}
	}
}
