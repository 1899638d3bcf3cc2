// Package ws carries lockstep frames over a WebSocket connection.
// Each transport frame is one binary WebSocket message.
package ws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/lockstep-pong/internal/transport"
)

// MaxFrameSize bounds inbound messages. The largest frame is a snapshot.
const MaxFrameSize = 4096

// Options tunes a connection. Zero values fall back to defaults.
type Options struct {
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	ReadTimeout      time.Duration
	PingInterval     time.Duration
	SendQueue        int
	Logger           *log.Logger
}

func (o Options) withDefaults() Options {
	if o.HandshakeTimeout <= 0 {
		o.HandshakeTimeout = 5 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 5 * time.Second
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = 30 * time.Second
	}
	if o.PingInterval <= 0 {
		o.PingInterval = o.ReadTimeout / 3
	}
	if o.SendQueue <= 0 {
		o.SendQueue = 256
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// Conn implements transport.Transport over a WebSocket.
type Conn struct {
	ws     *websocket.Conn
	opts   Options
	logger *log.Logger
	remote string

	inbox *transport.Inbox
	out   chan []byte
	done  chan struct{}

	mu      sync.Mutex
	open    bool
	err     error
	closeWG sync.WaitGroup
}

func newConn(c *websocket.Conn, opts Options) *Conn {
	conn := &Conn{
		ws:     c,
		opts:   opts,
		logger: opts.Logger,
		remote: c.RemoteAddr().String(),
		inbox:  transport.NewInbox(transport.DefaultInboxSize),
		out:    make(chan []byte, opts.SendQueue),
		done:   make(chan struct{}),
		open:   true,
	}

	c.SetReadLimit(MaxFrameSize)
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(opts.ReadTimeout))
	})

	conn.closeWG.Add(2)
	go conn.readLoop()
	go conn.writeLoop()
	return conn
}

// Dial connects to a WebSocket endpoint such as ws://host:7777/ws.
func Dial(ctx context.Context, rawURL string, opts Options) (*Conn, error) {
	opts = opts.withDefaults()

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, transport.NewError(transport.KindInvalidConfig, "bad url", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, transport.NewError(transport.KindInvalidConfig,
			fmt.Sprintf("unsupported scheme %q (want ws or wss)", u.Scheme), nil)
	}

	dialer := websocket.Dialer{HandshakeTimeout: opts.HandshakeTimeout}
	c, resp, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		reason := u.Host
		if resp != nil {
			reason = fmt.Sprintf("%s: %s", u.Host, resp.Status)
		}
		return nil, transport.NewError(transport.KindConnectionFailed, reason, err)
	}

	opts.Logger.Info("connected", "url", u.String())
	return newConn(c, opts), nil
}

func (c *Conn) readLoop() {
	defer c.closeWG.Done()

	for {
		_ = c.ws.SetReadDeadline(time.Now().Add(c.opts.ReadTimeout))
		typ, msg, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn("read failed", "remote", c.remote, "err", err)
			}
			c.shutdown(err)
			return
		}
		if typ != websocket.BinaryMessage {
			c.logger.Debug("ignoring non-binary message", "remote", c.remote, "type", typ)
			continue
		}
		if !c.inbox.Push(msg) {
			return
		}
	}
}

func (c *Conn) writeLoop() {
	defer c.closeWG.Done()

	ticker := time.NewTicker(c.opts.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return

		case frame := <-c.out:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				c.logger.Warn("write failed", "remote", c.remote, "err", err)
				c.shutdown(err)
				return
			}

		case <-ticker.C:
			deadline := time.Now().Add(c.opts.WriteTimeout)
			if err := c.ws.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				c.shutdown(err)
				return
			}
		}
	}
}

// shutdown tears the connection down once. cause is nil for a local Close.
func (c *Conn) shutdown(cause error) bool {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return false
	}
	c.open = false
	c.err = cause
	close(c.done)
	c.mu.Unlock()

	if cause == nil {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")
		_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	}
	_ = c.ws.Close()
	c.inbox.Close()
	c.logger.Info("disconnected", "remote", c.remote)
	return true
}

// Send implements transport.Transport. Frames are queued for the writer
// goroutine; a full queue is reported as a send failure.
func (c *Conn) Send(frame []byte) error {
	c.mu.Lock()
	open := c.open
	c.mu.Unlock()
	if !open {
		return transport.ErrNotConnected
	}

	f := make([]byte, len(frame))
	copy(f, frame)

	select {
	case c.out <- f:
		return nil
	case <-c.done:
		return transport.ErrNotConnected
	default:
		return transport.NewError(transport.KindSendFailed, "send queue full", nil)
	}
}

// IsOpen implements transport.Transport.
func (c *Conn) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Close implements transport.Transport.
func (c *Conn) Close() error {
	if !c.shutdown(nil) {
		return transport.ErrAlreadyClosed
	}
	c.closeWG.Wait()
	return nil
}

// Status implements transport.Transport.
func (c *Conn) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.open:
		return "Connected (WebSocket " + c.remote + ")"
	case c.err != nil && !isNormalClose(c.err):
		return "Disconnected (WebSocket " + c.remote + "): " + c.err.Error()
	default:
		return "Disconnected (WebSocket " + c.remote + ")"
	}
}

// Inbound implements transport.Transport.
func (c *Conn) Inbound() <-chan []byte {
	return c.inbox.C()
}

// Done is closed when the connection is gone.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() string {
	return c.remote
}

func isNormalClose(err error) bool {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Code == websocket.CloseNormalClosure || ce.Code == websocket.CloseGoingAway
	}
	return false
}

var _ transport.Transport = (*Conn)(nil)
