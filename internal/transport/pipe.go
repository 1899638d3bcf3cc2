package transport

import (
	"sync"
	"time"
)

// PipeOption configures Pipe.
type PipeOption func(*pipeConfig)

type pipeConfig struct {
	latency   time.Duration
	inboxSize int
}

// WithLatency delays every frame by d in both directions. Ordering is kept.
func WithLatency(d time.Duration) PipeOption {
	return func(c *pipeConfig) { c.latency = d }
}

// WithInboxSize sets the inbound queue depth of each end.
func WithInboxSize(n int) PipeOption {
	return func(c *pipeConfig) { c.inboxSize = n }
}

// pipeState is shared by both ends; closing either end closes both.
type pipeState struct {
	mu     sync.Mutex
	open   bool
	closed chan struct{}
	wg     sync.WaitGroup
}

// PipeEnd is one side of an in-memory transport pair.
type PipeEnd struct {
	name    string
	state   *pipeState
	inbox   *Inbox
	latency time.Duration
	out     chan delayedFrame // nil without latency
	peer    *PipeEnd
}

type delayedFrame struct {
	at    time.Time
	frame []byte
}

// Pipe returns two connected transports: frames sent on a arrive on
// b.Inbound() and vice versa.
func Pipe(opts ...PipeOption) (a, b *PipeEnd) {
	cfg := pipeConfig{inboxSize: DefaultInboxSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	state := &pipeState{open: true, closed: make(chan struct{})}
	a = &PipeEnd{name: "A", state: state, inbox: NewInbox(cfg.inboxSize)}
	b = &PipeEnd{name: "B", state: state, inbox: NewInbox(cfg.inboxSize)}
	a.peer, b.peer = b, a

	if cfg.latency > 0 {
		for _, end := range []*PipeEnd{a, b} {
			end.latency = cfg.latency
			end.out = make(chan delayedFrame, cfg.inboxSize)
			state.wg.Add(1)
			go end.deliverLoop()
		}
	}
	return a, b
}

// deliverLoop forwards this end's outgoing frames to the peer once their
// delivery time has passed.
func (p *PipeEnd) deliverLoop() {
	defer p.state.wg.Done()

	for {
		select {
		case <-p.state.closed:
			return
		case df := <-p.out:
			if wait := time.Until(df.at); wait > 0 {
				timer := time.NewTimer(wait)
				select {
				case <-timer.C:
				case <-p.state.closed:
					timer.Stop()
					return
				}
			}
			p.peer.inbox.Push(df.frame)
		}
	}
}

// Send implements Transport.
func (p *PipeEnd) Send(frame []byte) error {
	p.state.mu.Lock()
	open := p.state.open
	p.state.mu.Unlock()
	if !open {
		return ErrNotConnected
	}

	f := cloneFrame(frame)
	if p.out == nil {
		if !p.peer.inbox.Push(f) {
			return ErrNotConnected
		}
		return nil
	}

	select {
	case p.out <- delayedFrame{at: time.Now().Add(p.latency), frame: f}:
		return nil
	case <-p.state.closed:
		return ErrNotConnected
	}
}

// IsOpen implements Transport.
func (p *PipeEnd) IsOpen() bool {
	p.state.mu.Lock()
	defer p.state.mu.Unlock()
	return p.state.open
}

// Close implements Transport. Both ends are closed.
func (p *PipeEnd) Close() error {
	p.state.mu.Lock()
	if !p.state.open {
		p.state.mu.Unlock()
		return ErrAlreadyClosed
	}
	p.state.open = false
	close(p.state.closed)
	p.state.mu.Unlock()

	p.inbox.Close()
	p.peer.inbox.Close()
	p.state.wg.Wait()
	return nil
}

// Status implements Transport.
func (p *PipeEnd) Status() string {
	if p.IsOpen() {
		return "Connected (Pipe " + p.name + ")"
	}
	return "Disconnected (Pipe " + p.name + ")"
}

// Inbound implements Transport.
func (p *PipeEnd) Inbound() <-chan []byte {
	return p.inbox.C()
}

var _ Transport = (*PipeEnd)(nil)
