package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"tanks/world"
)

var ErrExchangeTimeout = errors.New("exchange timed out")

// Exchanger performs one request/reply round trip with the relay. Each call uses
// its own socket, so a reply that arrives after its caller gave up can never be
// read by a later exchange.
type Exchanger struct {
	addr          *net.UDPAddr
	timeout       time.Duration
	receiveBuffer int
}

func NewExchanger(addr *net.UDPAddr, timeout time.Duration, receiveBuffer int) *Exchanger {
	if receiveBuffer < world.RosterHeaderSize {
		receiveBuffer = world.DefaultReceiveBuffer
	}
	return &Exchanger{
		addr:          addr,
		timeout:       timeout,
		receiveBuffer: receiveBuffer,
	}
}

func (e *Exchanger) Addr() *net.UDPAddr {
	return e.addr
}

// Exchange sends state and, unless it is a departure notice, waits up to the
// timeout for the roster reply. A departure returns as soon as it is sent.
func (e *Exchanger) Exchange(ctx context.Context, state world.PlayerState) (world.Roster, error) {
	conn, err := net.DialUDP("udp", nil, e.addr)
	if err != nil {
		return nil, fmt.Errorf("dial %v: %w", e.addr, err)
	}
	defer conn.Close()

	if _, err := conn.Write(world.EncodeUpdate(state)); err != nil {
		return nil, fmt.Errorf("send to %v: %w", e.addr, err)
	}
	if state.Departing() {
		return nil, nil
	}

	deadline := time.Now().Add(e.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}

	buf := make([]byte, e.receiveBuffer)
	n, err := conn.Read(buf)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, ErrExchangeTimeout
		}
		return nil, fmt.Errorf("receive from %v: %w", e.addr, err)
	}
	return world.DecodeRoster(buf[:n])
}
