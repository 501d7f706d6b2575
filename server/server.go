package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"tanks/utils"
	"tanks/world"
)

// Datagrams longer than this are cut short by the socket; only the first
// world.RecordSize bytes are read anyway.
const receiveBuffer = 512

// Server answers each update datagram with the roster of everybody else. All
// registry access happens on the goroutine running Serve, one datagram at a time.
type Server struct {
	registry    *Registry
	replyBuffer int
	stats       *stats
	observer    *Observer
	sequence    uint64
}

// NewServer returns a server whose replies never exceed replyBuffer bytes, the
// receive buffer size clients read them into.
func NewServer(replyBuffer int) *Server {
	if replyBuffer < world.RosterHeaderSize {
		replyBuffer = world.DefaultReceiveBuffer
	}
	return &Server{
		registry:    NewRegistry(),
		replyBuffer: replyBuffer,
		stats:       &stats{},
	}
}

// Observe attaches a spectator feed that receives a frame after every processed update.
func (s *Server) Observe(originPatterns []string) *Observer {
	s.observer = NewObserver(originPatterns, s.stats)
	return s.observer
}

func (s *Server) Registry() *Registry {
	return s.registry
}

// Handle applies one update datagram and builds the reply. The roster is taken
// after the update is applied and before a departing sender is removed, so a
// departure is acknowledged with everybody else still listed.
func (s *Server) Handle(datagram []byte) ([]byte, error) {
	update, err := world.DecodeUpdate(datagram)
	if err != nil {
		return nil, err
	}

	s.registry.Apply(update)
	roster := s.registry.SnapshotExcluding(update.ID)
	reply, err := roster.Encode(s.replyBuffer)
	if errors.Is(err, world.ErrRosterOverflow) {
		log.Printf("%v: replying to %d with the first %d", err, update.ID, world.MaxRosterRecords(s.replyBuffer))
		s.stats.add(&s.stats.truncated)
		reply, err = roster.Truncate(s.replyBuffer).Encode(s.replyBuffer)
	}
	if err != nil {
		return nil, err
	}

	if update.Departing() {
		s.registry.Remove(update.ID)
		s.stats.add(&s.stats.departures)
		log.Printf("player %d left", update.ID)
	}
	s.stats.setPlayers(s.registry.Len())
	s.publish()
	return reply, nil
}

func (s *Server) publish() {
	if s.observer == nil {
		return
	}
	s.sequence++
	frame := &Frame{
		Sequence: s.sequence,
		Players:  s.registry.Snapshot(),
	}
	s.observer.Publish(frame.Marshal())
}

// Serve runs the receive loop on conn until ctx is done or conn is closed.
func (s *Server) Serve(ctx context.Context, conn net.PacketConn) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	buf := make([]byte, receiveBuffer)
	for {
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			log.Println(err)
			continue
		}
		s.stats.add(&s.stats.datagrams)

		reply, err := s.Handle(buf[:n])
		if err != nil {
			s.stats.add(&s.stats.malformed)
			log.Printf("dropping datagram from %v: %v", addr, err)
			continue
		}
		if _, err := conn.WriteTo(reply, addr); err != nil {
			s.stats.add(&s.stats.sendErrors)
			log.Printf("reply to %v: %v", addr, err)
			continue
		}
		s.stats.recordReply(len(reply))
	}
}

// Run starts the relay. args[1], if present, is the listen port.
func Run(args []string) error {
	log.SetFlags(log.LstdFlags | log.Llongfile)
	cfg := utils.LoadConfig(utils.ConfigFile)
	cfg.ApplyServerArgs(args)

	conn, err := net.ListenPacket("udp", fmt.Sprintf(":%d", cfg.Server.Port))
	if err != nil {
		return err
	}
	log.Printf("Listening on udp://%v", conn.LocalAddr())
	server := NewServer(cfg.Server.ReplyBuffer)

	var observer *http.Server
	if cfg.Server.ObserveAddr != "" {
		l, err := net.Listen("tcp", cfg.Server.ObserveAddr)
		if err != nil {
			conn.Close()
			return err
		}
		log.Printf("Observer on http://%v", l.Addr())
		observer = &http.Server{
			Handler:     server.Observe(cfg.Server.OriginPatterns),
			ReadTimeout: 10 * time.Second,
		}
		go func() {
			if err := observer.Serve(l); err != nil && err != http.ErrServerClosed {
				log.Println(err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errc := make(chan error, 1)
	go func() {
		errc <- server.Serve(ctx, conn)
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	select {
	case err := <-errc:
		log.Println(err)
	case sig := <-sigs:
		log.Printf("terminating: %v", sig)
		cancel()
		<-errc
	}

	log.Println("Shutting down.")
	if observer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return observer.Shutdown(ctx)
	}
	return nil
}
