// Package transport defines the byte-frame transport the lockstep layer
// sends through, plus in-memory implementations for tests and local play.
//
// Inbound frames are delivered on a channel instead of a registered callback.
// Frames that arrive before anyone reads stay queued in arrival order, and
// the channel is closed once the transport closes.
package transport

import (
	"fmt"
	"sync"
)

// Transport sends and receives opaque frames to and from one remote peer.
type Transport interface {
	// Send transmits one frame. Fails with ErrNotConnected when closed.
	Send(frame []byte) error

	// IsOpen reports whether Send can currently succeed.
	IsOpen() bool

	// Close shuts the transport down. Fails with ErrAlreadyClosed the second time.
	Close() error

	// Status is a human-readable connection state for diagnostics.
	Status() string

	// Inbound yields received frames in arrival order and is closed when
	// the transport closes.
	Inbound() <-chan []byte
}

// Kind classifies transport failures.
type Kind uint8

const (
	KindNotConnected Kind = iota + 1
	KindSendFailed
	KindConnectionFailed
	KindInvalidConfig
	KindAlreadyClosed
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNotConnected:
		return "NotConnected"
	case KindSendFailed:
		return "SendFailed"
	case KindConnectionFailed:
		return "ConnectionFailed"
	case KindInvalidConfig:
		return "InvalidConfig"
	case KindAlreadyClosed:
		return "AlreadyClosed"
	default:
		return "Unknown"
	}
}

// Error is a transport failure. errors.Is matches any *Error of the same
// Kind against the sentinels below, regardless of Reason.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

// Sentinels for errors.Is.
var (
	ErrNotConnected     = &Error{Kind: KindNotConnected}
	ErrSendFailed       = &Error{Kind: KindSendFailed}
	ErrConnectionFailed = &Error{Kind: KindConnectionFailed}
	ErrInvalidConfig    = &Error{Kind: KindInvalidConfig}
	ErrAlreadyClosed    = &Error{Kind: KindAlreadyClosed}
)

// NewError builds an error of the given kind. err may be nil.
func NewError(kind Kind, reason string, err error) *Error {
	return &Error{Kind: kind, Reason: reason, Err: err}
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindNotConnected:
		msg = "transport: not connected"
	case KindSendFailed:
		msg = "transport: send failed"
	case KindConnectionFailed:
		msg = "transport: connection failed"
	case KindInvalidConfig:
		msg = "transport: invalid configuration"
	case KindAlreadyClosed:
		msg = "transport: already closed"
	default:
		msg = "transport: error"
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Is matches on Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// DefaultInboxSize is the inbound queue depth of the in-memory transports.
const DefaultInboxSize = 256

// Inbox is an inbound frame queue that can be closed while producers are
// blocked on it. Transport implementations embed one to back Inbound.
type Inbox struct {
	ch     chan []byte
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
	once   sync.Once
}

// NewInbox creates an inbox holding up to size undelivered frames.
func NewInbox(size int) *Inbox {
	return &Inbox{
		ch:   make(chan []byte, size),
		done: make(chan struct{}),
	}
}

// Push queues a frame, blocking while the queue is full.
// It reports false when the inbox was closed before the frame was queued.
func (in *Inbox) Push(frame []byte) bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if in.closed {
		return false
	}
	select {
	case in.ch <- frame:
		return true
	case <-in.done:
		return false
	}
}

// TryPush queues a frame without blocking. It reports false when the
// inbox is full or closed.
func (in *Inbox) TryPush(frame []byte) bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if in.closed {
		return false
	}
	select {
	case in.ch <- frame:
		return true
	default:
		return false
	}
}

// C returns the receive side. Frames queued before Close remain readable.
func (in *Inbox) C() <-chan []byte {
	return in.ch
}

// Close stops further pushes and closes the channel. Safe to call repeatedly.
func (in *Inbox) Close() {
	in.once.Do(func() {
		close(in.done)
		in.mu.Lock()
		in.closed = true
		close(in.ch)
		in.mu.Unlock()
	})
}

// Done is closed when the inbox is closed.
func (in *Inbox) Done() <-chan struct{} {
	return in.done
}

func cloneFrame(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
