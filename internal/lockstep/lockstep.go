// Package lockstep keeps two peers' simulations in agreement. Each peer
// buffers its own and the remote input per tick and advances the simulation
// only once both inputs for the current tick are present. Snapshots resync a
// peer and ping/pong measures the round trip.
//
// A Lockstep is single-threaded: it starts no goroutines and takes no locks.
// Callers that share one between goroutines must serialize access.
package lockstep

import (
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lockstep-pong/internal/pong"
	"github.com/vovakirdan/lockstep-pong/internal/transport"
	"github.com/vovakirdan/lockstep-pong/internal/wire"
)

// Simulation is the game surface the lockstep drives. *pong.Game implements it.
type Simulation interface {
	Step(pong.InputPair) (pong.Event, error)
	View() pong.View
	Snapshot() pong.Snapshot
	Restore(pong.Snapshot)
	CurrentTick() pong.Tick
}

// Options configures a Lockstep.
type Options struct {
	Side           pong.Side
	Timekeeper     bool
	TickHz         uint32
	BufferCapacity int
	Logger         *log.Logger
	Clock          func() time.Time
}

// Lockstep is one peer's end of the synchronization protocol.
type Lockstep struct {
	sim    Simulation
	tr     transport.Transport
	opts   Options
	logger *log.Logger
	clock  func() time.Time
	epoch  time.Time

	current pong.Tick
	local   *inputRing
	remote  *inputRing
	running bool

	lastPing    time.Time
	pingPending bool
	pingFirst   uint32 // oldest unanswered ping timestamp
	pingLast    uint32 // newest ping timestamp
	lastRTT     time.Duration
}

// New creates a stopped lockstep around sim and tr.
func New(sim Simulation, tr transport.Transport, opts Options) *Lockstep {
	if opts.BufferCapacity <= 0 {
		opts.BufferCapacity = DefaultBufferCapacity
	}
	if opts.TickHz == 0 {
		opts.TickHz = 60
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return &Lockstep{
		sim:     sim,
		tr:      tr,
		opts:    opts,
		logger:  opts.Logger.With("side", opts.Side),
		clock:   opts.Clock,
		epoch:   opts.Clock(),
		current: sim.CurrentTick(),
		local:   newInputRing(opts.BufferCapacity),
		remote:  newInputRing(opts.BufferCapacity),
	}
}

// Start begins a session from the simulation's current tick.
func (l *Lockstep) Start() error {
	if !l.tr.IsOpen() {
		return transportErr(transport.ErrNotConnected)
	}
	l.running = true
	l.current = l.sim.CurrentTick()
	l.local.clear()
	l.remote.clear()
	l.logger.Debug("started", "tick", l.current, "timekeeper", l.opts.Timekeeper)
	return nil
}

// Stop ends the session. Every operation except Start then fails with
// KindNotRunning.
func (l *Lockstep) Stop() {
	l.running = false
	l.local.clear()
	l.remote.clear()
	l.pingPending = false
}

// OnLocalInput buffers this peer's input for the current tick and sends it.
// The pair on the wire carries the input in this side's slot and a zero
// input in the other. A second input for a tick that already has one is
// ignored, so a rewound tick replays what was sent before.
func (l *Lockstep) OnLocalInput(axis int8, buttons uint8) error {
	if !l.running {
		return ErrNotRunning
	}

	in := pong.Input{AxisY: axis, Buttons: buttons}
	if !l.local.put(l.current, in) {
		return nil
	}

	var pair pong.InputPair
	if l.opts.Side == pong.Left {
		pair = pong.NewInputPair(l.current, in, pong.Input{})
	} else {
		pair = pong.NewInputPair(l.current, pong.Input{}, in)
	}
	return l.send(wire.InputPairMsg{Pair: pair})
}

// OnNetMessage handles one frame from the peer. Frames that fail to decode
// are returned as KindSerialization errors, never dropped silently.
func (l *Lockstep) OnNetMessage(frame []byte) ([]Event, error) {
	if !l.running {
		return nil, ErrNotRunning
	}

	msg, err := wire.Decode(frame)
	if err != nil {
		return nil, serializationErr(err)
	}

	switch m := msg.(type) {
	case wire.InputPairMsg:
		return nil, l.onRemoteInput(m.Pair)

	case wire.SnapshotMsg:
		snap, err := m.Snapshot()
		if err != nil {
			return nil, serializationErr(err)
		}
		l.applySnapshot(snap)
		return []Event{SnapshotReceived{Tick: snap.Tick}}, nil

	case wire.PingMsg:
		return nil, l.send(wire.PongMsg(m))

	case wire.PongMsg:
		if !l.pingPending || m.Timestamp-l.pingFirst > l.pingLast-l.pingFirst {
			return nil, &Error{Kind: KindInvalidMessage, Reason: "pong without outstanding ping"}
		}
		// Pongs arrive in ping order, so older pings are answered or lost.
		if m.Timestamp == l.pingLast {
			l.pingPending = false
		} else {
			l.pingFirst = m.Timestamp + 1
		}
		l.lastRTT = l.rttSince(m.Timestamp)
		return []Event{PongReceived{RTT: l.lastRTT}}, nil

	default:
		return nil, &Error{Kind: KindInvalidMessage, Reason: "unhandled message " + msg.Type().String()}
	}
}

func (l *Lockstep) onRemoteInput(pair pong.InputPair) error {
	in := pair.Get(l.opts.Side.Opposite())
	tick := pair.Tick

	if tick < l.current {
		if used, ok := l.remote.lookup(tick); ok && used != in {
			return syncErr("conflicting input for tick %d (current %d)", tick, l.current)
		}
		l.logger.Debug("stale input ignored", "tick", tick, "current", l.current)
		return nil
	}

	window := pong.Tick(l.remote.capacity())
	if tick-l.current >= window {
		return syncErr("input for tick %d outside window [%d, %d)", tick, l.current, l.current+window)
	}

	if !l.remote.put(tick, in) {
		if prev, _ := l.remote.lookup(tick); prev != in {
			return syncErr("conflicting input for tick %d", tick)
		}
	}
	return nil
}

func (l *Lockstep) applySnapshot(snap pong.Snapshot) {
	prev := l.current
	l.sim.Restore(snap)
	l.current = snap.Tick
	l.local.rewind(snap.Tick, prev)
	l.remote.rewind(snap.Tick, prev)
	l.logger.Info("snapshot applied", "tick", snap.Tick, "status", snap.Status)
}

// Tick advances the simulation by exactly one step when both inputs for the
// current tick are buffered. Otherwise nothing changes and no events are
// returned; the faster peer waits here for the slower one.
func (l *Lockstep) Tick() ([]Event, error) {
	if !l.running {
		return nil, ErrNotRunning
	}

	localIn, ok := l.local.lookup(l.current)
	if !ok {
		return nil, nil
	}
	remoteIn, ok := l.remote.lookup(l.current)
	if !ok {
		return nil, nil
	}

	var pair pong.InputPair
	if l.opts.Side == pong.Left {
		pair = pong.NewInputPair(l.current, localIn, remoteIn)
	} else {
		pair = pong.NewInputPair(l.current, remoteIn, localIn)
	}

	evt, err := l.sim.Step(pair)
	if err != nil {
		return nil, &Error{Kind: KindSync, Reason: "simulation rejected step", Err: err}
	}

	l.local.consume(l.current)
	l.remote.consume(l.current)
	tick := l.current
	l.current++

	if evt == nil {
		return nil, nil
	}
	return []Event{GameAdvanced{Tick: tick, Events: []pong.Event{evt}}}, nil
}

// RequestSnapshot sends the local simulation state to the peer, which
// replaces its own state with it.
func (l *Lockstep) RequestSnapshot() error {
	if !l.running {
		return ErrNotRunning
	}
	snap := l.sim.Snapshot()
	l.logger.Debug("sending snapshot", "tick", snap.Tick)
	return l.send(wire.NewSnapshotMsg(snap))
}

// Ping sends a timestamped ping. The answering Pong produces PongReceived.
func (l *Lockstep) Ping() error {
	if !l.running {
		return ErrNotRunning
	}
	now := l.clock()
	ts := l.millis(now)
	if err := l.send(wire.PingMsg{Timestamp: ts}); err != nil {
		return err
	}
	if !l.pingPending {
		l.pingFirst = ts
	}
	l.lastPing = now
	l.pingLast = ts
	l.pingPending = true
	return nil
}

// OnDisconnect stops the session after the transport went away.
func (l *Lockstep) OnDisconnect() []Event {
	l.Stop()
	l.logger.Info("peer disconnected", "tick", l.current)
	return []Event{PeerDisconnected{}}
}

func (l *Lockstep) send(m wire.Message) error {
	if err := l.tr.Send(wire.Encode(m)); err != nil {
		return transportErr(err)
	}
	return nil
}

// millis is the wire timestamp: milliseconds since this lockstep was created,
// wrapping at 32 bits.
func (l *Lockstep) millis(t time.Time) uint32 {
	return uint32(t.Sub(l.epoch).Milliseconds())
}

func (l *Lockstep) rttSince(ts uint32) time.Duration {
	elapsed := l.millis(l.clock()) - ts
	return time.Duration(elapsed) * time.Millisecond
}

// IsWaitingForRemote reports whether the current tick has local input but
// no remote input yet.
func (l *Lockstep) IsWaitingForRemote() bool {
	if !l.running {
		return false
	}
	_, haveLocal := l.local.lookup(l.current)
	_, haveRemote := l.remote.lookup(l.current)
	return haveLocal && !haveRemote
}

// BufferInfo returns the number of buffered, not yet consumed local and
// remote inputs.
func (l *Lockstep) BufferInfo() (local, remote int) {
	return l.local.pendingCount(l.current), l.remote.pendingCount(l.current)
}

// View returns the simulation view.
func (l *Lockstep) View() pong.View {
	return l.sim.View()
}

// CurrentTick returns the next tick to be simulated.
func (l *Lockstep) CurrentTick() pong.Tick {
	return l.current
}

// LocalSide returns which paddle this peer controls.
func (l *Lockstep) LocalSide() pong.Side {
	return l.opts.Side
}

// IsTimekeeper reports whether this peer bootstraps and resyncs the other.
func (l *Lockstep) IsTimekeeper() bool {
	return l.opts.Timekeeper
}

// IsRunning reports whether Start succeeded and Stop has not been called.
func (l *Lockstep) IsRunning() bool {
	return l.running
}

// TickHz returns the configured tick rate.
func (l *Lockstep) TickHz() uint32 {
	return l.opts.TickHz
}

// LastPing returns when the last ping was sent, if any.
func (l *Lockstep) LastPing() (time.Time, bool) {
	return l.lastPing, !l.lastPing.IsZero()
}

// LastRTT returns the most recent measured round trip, or 0.
func (l *Lockstep) LastRTT() time.Duration {
	return l.lastRTT
}

// TransportStatus returns the transport's diagnostic status.
func (l *Lockstep) TransportStatus() string {
	return l.tr.Status()
}

// IsConnected reports whether the transport is open.
func (l *Lockstep) IsConnected() bool {
	return l.tr.IsOpen()
}

// IsSyncError reports whether err asks for a snapshot resync.
func IsSyncError(err error) bool {
	return errors.Is(err, ErrSync)
}
