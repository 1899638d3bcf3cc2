package transport

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func TestMockBasicOperations(t *testing.T) {
	m := NewMock()

	if !m.IsOpen() {
		t.Fatal("new mock should be open")
	}
	if got := m.Status(); got != "Connected (Mock)" {
		t.Errorf("Status() = %q, expected %q", got, "Connected (Mock)")
	}
	if err := m.Send([]byte("hello")); err != nil {
		t.Errorf("Send() error = %v", err)
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if m.IsOpen() {
		t.Error("mock should be closed")
	}
	if got := m.Status(); got != "Disconnected (Mock)" {
		t.Errorf("Status() = %q, expected %q", got, "Disconnected (Mock)")
	}
	if err := m.Send([]byte("world")); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Send() error = %v, expected %v", err, ErrNotConnected)
	}
	if err := m.Close(); !errors.Is(err, ErrAlreadyClosed) {
		t.Errorf("Close() error = %v, expected %v", err, ErrAlreadyClosed)
	}
	if _, ok := <-m.Inbound(); ok {
		t.Error("Inbound() should be closed after Close()")
	}
}

func TestMockSendFailure(t *testing.T) {
	m := NewRecording()
	m.SetFailSend(true)

	err := m.Send([]byte("test"))
	if !errors.Is(err, ErrSendFailed) {
		t.Fatalf("Send() error = %v, expected %v", err, ErrSendFailed)
	}
	var terr *Error
	if !errors.As(err, &terr) || terr.Reason != "mock failure" {
		t.Errorf("Send() error = %#v, expected reason %q", err, "mock failure")
	}
	if len(m.Sent()) != 0 {
		t.Errorf("len(Sent()) = %d, expected 0", len(m.Sent()))
	}
}

func TestClosedMock(t *testing.T) {
	m := NewClosedMock()
	if m.IsOpen() {
		t.Error("closed mock should not be open")
	}
	if err := m.Send([]byte{1}); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Send() error = %v, expected %v", err, ErrNotConnected)
	}
	m.SetOpen(true)
	if err := m.Send([]byte{1}); err != nil {
		t.Errorf("Send() after SetOpen error = %v", err)
	}
}

func TestRecording(t *testing.T) {
	m := NewRecording()

	if got := m.Status(); got != "Connected (Recording Mock)" {
		t.Errorf("Status() = %q, expected %q", got, "Connected (Recording Mock)")
	}

	frame := []byte("hello")
	if err := m.Send(frame); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	frame[0] = 'j'
	if err := m.Send([]byte("world")); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	sent := m.Sent()
	if len(sent) != 2 {
		t.Fatalf("len(Sent()) = %d, expected 2", len(sent))
	}
	if string(sent[0]) != "hello" || string(sent[1]) != "world" {
		t.Errorf("Sent() = %q, expected [hello world]", sent)
	}

	first, ok := m.PopSent()
	if !ok || string(first) != "hello" {
		t.Errorf("PopSent() = %q, %v, expected hello, true", first, ok)
	}
	if len(m.Sent()) != 1 {
		t.Errorf("len(Sent()) = %d, expected 1", len(m.Sent()))
	}

	m.ClearSent()
	if _, ok := m.PopSent(); ok {
		t.Error("PopSent() after ClearSent() should be empty")
	}
}

func TestMockDeliverOrder(t *testing.T) {
	m := NewMock()

	// Frames delivered before anyone reads stay queued in order.
	for i := range 5 {
		if !m.Deliver([]byte{byte(i)}) {
			t.Fatalf("Deliver(%d) = false", i)
		}
	}
	for i := range 5 {
		select {
		case f := <-m.Inbound():
			if f[0] != byte(i) {
				t.Errorf("frame %d = %v, expected [%d]", i, f, i)
			}
		default:
			t.Fatalf("frame %d missing", i)
		}
	}

	_ = m.Close()
	if m.Deliver([]byte{9}) {
		t.Error("Deliver() after Close() should report false")
	}
}

func TestErrorMatching(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		target   error
		expected bool
		text     string
	}{
		{"same kind", NewError(KindSendFailed, "boom", nil), ErrSendFailed, true, "transport: send failed: boom"},
		{"other kind", NewError(KindSendFailed, "boom", nil), ErrNotConnected, false, "transport: send failed: boom"},
		{"sentinel", ErrAlreadyClosed, ErrAlreadyClosed, true, "transport: already closed"},
		{"invalid config", NewError(KindInvalidConfig, "bad url", nil), ErrInvalidConfig, true, "transport: invalid configuration: bad url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.expected {
				t.Errorf("errors.Is() = %v, expected %v", got, tt.expected)
			}
			if got := tt.err.Error(); got != tt.text {
				t.Errorf("Error() = %q, expected %q", got, tt.text)
			}
		})
	}

	cause := errors.New("dial refused")
	wrapped := NewError(KindConnectionFailed, "", cause)
	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is() should reach the cause")
	}
	if got := wrapped.Error(); got != "transport: connection failed: dial refused" {
		t.Errorf("Error() = %q", got)
	}
}

func TestPipe(t *testing.T) {
	a, b := Pipe()

	if err := a.Send([]byte("ping")); err != nil {
		t.Fatalf("a.Send() error = %v", err)
	}
	if err := b.Send([]byte("pong")); err != nil {
		t.Fatalf("b.Send() error = %v", err)
	}

	if got := <-b.Inbound(); string(got) != "ping" {
		t.Errorf("b received %q, expected ping", got)
	}
	if got := <-a.Inbound(); string(got) != "pong" {
		t.Errorf("a received %q, expected pong", got)
	}

	if got := a.Status(); got != "Connected (Pipe A)" {
		t.Errorf("Status() = %q", got)
	}

	if err := b.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if a.IsOpen() {
		t.Error("closing one end should close the other")
	}
	if err := a.Send([]byte("x")); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Send() error = %v, expected %v", err, ErrNotConnected)
	}
	if err := a.Close(); !errors.Is(err, ErrAlreadyClosed) {
		t.Errorf("Close() error = %v, expected %v", err, ErrAlreadyClosed)
	}
	if _, ok := <-a.Inbound(); ok {
		t.Error("a.Inbound() should be closed")
	}
}

func TestPipeLatency(t *testing.T) {
	const latency = 20 * time.Millisecond
	a, b := Pipe(WithLatency(latency))
	defer a.Close()

	start := time.Now()
	for i := range 3 {
		if err := a.Send([]byte{byte(i)}); err != nil {
			t.Fatalf("Send() error = %v", err)
		}
	}

	for i := range 3 {
		select {
		case f := <-b.Inbound():
			if !bytes.Equal(f, []byte{byte(i)}) {
				t.Errorf("frame %d = %v", i, f)
			}
		case <-time.After(time.Second):
			t.Fatalf("frame %d not delivered", i)
		}
	}
	if elapsed := time.Since(start); elapsed < latency {
		t.Errorf("frames arrived after %v, expected at least %v", elapsed, latency)
	}
}
