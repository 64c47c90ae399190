// Package ws implements the persistent live channel carrying new chat
// messages for one chat.
package ws

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"discorde/domain"
	"discorde/errors"
	"discorde/observability"

	"github.com/gorilla/websocket"
)

const handshakeTimeout = 10 * time.Second

// State tracks the channel lifecycle. There is no reconnect: once Closed or
// Errored, a channel is finished and a new one must be dialed.
type State int32

const (
	Open State = iota
	Closed
	Errored
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Closed:
		return "closed"
	case Errored:
		return "errored"
	}
	return "unknown"
}

// Channel is one duplex connection scoped to a single chat. Incoming() is
// closed on teardown or drop; a drop additionally records a terminal error
// retrievable via Err() instead of stalling silently.
type Channel struct {
	conn    *websocket.Conn
	monitor *observability.Monitor
	log     *slog.Logger

	incoming chan domain.Message
	state    atomic.Int32

	stop     chan struct{}
	stopOnce sync.Once

	writeMu   sync.Mutex
	closeOnce sync.Once

	errMu sync.Mutex
	err   error
}

// Dial opens the channel. The backend identifies the caller through the
// handshake subprotocols: a fixed protocol name followed by the username
// (same weak-credential scheme as the REST bearer).
func Dial(ctx context.Context, url, username string, monitor *observability.Monitor, log *slog.Logger) (*Channel, error) {
	dialer := websocket.Dialer{
		Subprotocols:     []string{"realProtocol", username},
		HandshakeTimeout: handshakeTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}

	c := &Channel{
		conn:     conn,
		monitor:  monitor,
		log:      log,
		incoming: make(chan domain.Message, 64),
		stop:     make(chan struct{}),
	}
	c.state.Store(int32(Open))
	log.Info("live channel open", "url", url)

	go c.readLoop()
	return c, nil
}

func (c *Channel) State() State {
	return State(c.state.Load())
}

// Incoming delivers messages as they arrive, until the channel is torn down.
func (c *Channel) Incoming() <-chan domain.Message {
	return c.incoming
}

// Err reports why the channel stopped, or nil after a deliberate Close.
func (c *Channel) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

// Send serializes one envelope onto the channel. No acknowledgment and no
// retry; a write failure moves the channel to Errored.
func (c *Channel) Send(env domain.Envelope) error {
	if c.State() != Open {
		return errors.ErrChannelClosed
	}
	c.writeMu.Lock()
	err := c.conn.WriteJSON(env)
	c.writeMu.Unlock()
	if err != nil {
		c.fail(err)
		return fmt.Errorf("%w: %v", errors.ErrChannelClosed, err)
	}
	c.monitor.IncrMessagesSent()
	return nil
}

// Close releases the channel. Safe to call more than once; the first call
// sends a close frame and tears the connection down.
func (c *Channel) Close() error {
	c.closeOnce.Do(func() {
		if c.State() == Open {
			c.state.Store(int32(Closed))
		}
		c.halt()
		c.writeMu.Lock()
		_ = c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.writeMu.Unlock()
		_ = c.conn.Close()
		c.log.Info("live channel closed")
	})
	return nil
}

func (c *Channel) readLoop() {
	defer close(c.incoming)
	for {
		var env domain.Envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			switch {
			case c.State() != Open:
				// deliberate teardown, the read failure is expected
			case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
				c.state.Store(int32(Closed))
				c.log.Info("live channel closed by peer")
			default:
				c.fail(err)
			}
			return
		}
		c.monitor.IncrMessagesReceived()
		select {
		case c.incoming <- env.Message.ToMessage():
		case <-c.stop:
			// Consumer walked away mid-teardown; drop the message so the
			// reader can exit instead of blocking on the full buffer.
			return
		}
	}
}

func (c *Channel) fail(cause error) {
	c.errMu.Lock()
	if c.err == nil {
		c.err = fmt.Errorf("%w: %v", errors.ErrChannelClosed, cause)
	}
	c.errMu.Unlock()

	c.state.Store(int32(Errored))
	c.monitor.IncrChannelErrors()
	c.log.Warn("live channel dropped", "cause", cause)
	c.halt()
	_ = c.conn.Close()
}

// halt releases a reader blocked on delivery. Close and fail may both get
// here; only the first closes the channel.
func (c *Channel) halt() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}
