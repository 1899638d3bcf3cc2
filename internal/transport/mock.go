package transport

import "sync"

// Mock is an in-memory transport for tests. Sends go nowhere unless the
// mock was created with NewRecording; inbound frames are injected with Deliver.
type Mock struct {
	mu       sync.Mutex
	open     bool
	failSend bool
	record   bool
	label    string
	sent     [][]byte
	inbox    *Inbox
}

// NewMock creates an open mock that discards sent frames.
func NewMock() *Mock {
	return newMock(true, false, "Mock")
}

// NewClosedMock creates a mock that starts disconnected.
func NewClosedMock() *Mock {
	return newMock(false, false, "Mock")
}

// NewRecording creates an open mock that keeps every sent frame.
func NewRecording() *Mock {
	return newMock(true, true, "Recording Mock")
}

func newMock(open, record bool, label string) *Mock {
	return &Mock{
		open:   open,
		record: record,
		label:  label,
		inbox:  NewInbox(DefaultInboxSize),
	}
}

// Send implements Transport.
func (m *Mock) Send(frame []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open {
		return ErrNotConnected
	}
	if m.failSend {
		return NewError(KindSendFailed, "mock failure", nil)
	}
	if m.record {
		m.sent = append(m.sent, cloneFrame(frame))
	}
	return nil
}

// IsOpen implements Transport.
func (m *Mock) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// Close implements Transport. It also closes the inbound channel.
func (m *Mock) Close() error {
	m.mu.Lock()
	if !m.open {
		m.mu.Unlock()
		return ErrAlreadyClosed
	}
	m.open = false
	m.mu.Unlock()

	m.inbox.Close()
	return nil
}

// Status implements Transport.
func (m *Mock) Status() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.open {
		return "Connected (" + m.label + ")"
	}
	return "Disconnected (" + m.label + ")"
}

// Inbound implements Transport.
func (m *Mock) Inbound() <-chan []byte {
	return m.inbox.C()
}

// SetFailSend makes subsequent sends fail with KindSendFailed.
func (m *Mock) SetFailSend(fail bool) {
	m.mu.Lock()
	m.failSend = fail
	m.mu.Unlock()
}

// SetOpen flips the connection state without closing the inbound channel.
func (m *Mock) SetOpen(open bool) {
	m.mu.Lock()
	m.open = open
	m.mu.Unlock()
}

// Deliver simulates a frame arriving from the remote peer.
// It reports false if the mock has been closed.
func (m *Mock) Deliver(frame []byte) bool {
	return m.inbox.Push(cloneFrame(frame))
}

// Sent returns copies of all recorded frames, oldest first.
func (m *Mock) Sent() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.sent))
	for i, f := range m.sent {
		out[i] = cloneFrame(f)
	}
	return out
}

// PopSent removes and returns the oldest recorded frame.
func (m *Mock) PopSent() ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return nil, false
	}
	f := m.sent[0]
	m.sent = m.sent[1:]
	return f, true
}

// ClearSent drops all recorded frames.
func (m *Mock) ClearSent() {
	m.mu.Lock()
	m.sent = nil
	m.mu.Unlock()
}

var _ Transport = (*Mock)(nil)
