package lockstep

import "fmt"

// Kind classifies lockstep failures.
type Kind uint8

const (
	KindTransport Kind = iota + 1
	KindSerialization
	KindInvalidMessage
	KindNotRunning
	KindSync
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "Transport"
	case KindSerialization:
		return "Serialization"
	case KindInvalidMessage:
		return "InvalidMessage"
	case KindNotRunning:
		return "NotRunning"
	case KindSync:
		return "Sync"
	default:
		return "Unknown"
	}
}

// Error is returned by every fallible Lockstep operation. The lockstep never
// retries or ends a session on its own; callers decide whether an error is
// fatal or recoverable with a snapshot. Err holds the transport or wire
// cause, so errors.Is(err, wire.ErrInvalidData) and
// errors.Is(err, transport.ErrNotConnected) work through it.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

// Sentinels for errors.Is; they match any *Error of the same Kind.
var (
	ErrTransport      = &Error{Kind: KindTransport}
	ErrSerialization  = &Error{Kind: KindSerialization}
	ErrInvalidMessage = &Error{Kind: KindInvalidMessage}
	ErrNotRunning     = &Error{Kind: KindNotRunning}
	ErrSync           = &Error{Kind: KindSync}
)

func (e *Error) Error() string {
	msg := "lockstep: " + e.Kind.String()
	if e.Kind == KindNotRunning {
		msg = "lockstep: not running"
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

func transportErr(err error) *Error {
	return &Error{Kind: KindTransport, Err: err}
}

func serializationErr(err error) *Error {
	return &Error{Kind: KindSerialization, Err: err}
}

func syncErr(format string, args ...any) *Error {
	return &Error{Kind: KindSync, Reason: fmt.Sprintf(format, args...)}
}
