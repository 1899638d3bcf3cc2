package multiplayer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lockstep-pong/internal/input"
	"github.com/vovakirdan/lockstep-pong/internal/lockstep"
	"github.com/vovakirdan/lockstep-pong/internal/pong"
	"github.com/vovakirdan/lockstep-pong/internal/transport"
)

// InputSource picks the local input for the next tick from the current view.
// *input.Tracker implements it.
type InputSource interface {
	Input(v pong.View) pong.Input
}

// InputFunc adapts a function to InputSource.
type InputFunc func(v pong.View) pong.Input

// Input calls f.
func (f InputFunc) Input(v pong.View) pong.Input {
	return f(v)
}

// PeerConfig configures a Peer.
type PeerConfig struct {
	Side       pong.Side
	Timekeeper bool
	Game       pong.Config

	// Source drives the local paddle. When nil, the peer shapes key presses
	// sent through Press and Ready with InputMode.
	Source    InputSource
	InputMode input.Mode
	HoldTicks int

	BufferCapacity int
	PingInterval   int           // ticks between pings, 0 disables
	TickInterval   time.Duration // wall time per tick, 0 means 1s / Game.TickHz

	StopOnGameOver bool      // Run returns once the match is over
	StopAtTick     pong.Tick // Run returns once this tick is reached, 0 disables

	Logger *log.Logger
}

// controlKind is a request from the UI goroutine to the match loop.
type controlKind uint8

const (
	controlPress controlKind = iota
	controlRelease
	controlReady
	controlRematch
)

type control struct {
	kind controlKind
	dir  input.Direction
}

// Peer runs one side of an online lockstep match. Run owns the game and the
// lockstep; other goroutines interact through Press, Ready, Rematch, View,
// Stats and the session's event channel.
type Peer struct {
	id      SessionID
	cfg     PeerConfig
	game    *pong.Game
	ls      *lockstep.Lockstep
	tr      transport.Transport
	shaper  *input.Shaper
	session *ChannelSession
	logger  *log.Logger

	controls chan control

	// loop-owned
	over      bool
	sincePing int

	mu    sync.RWMutex
	view  pong.View
	stats Stats
}

// NewPeer creates a peer for the given transport. The game config is
// validated here so both sides fail before any frame is exchanged.
func NewPeer(tr transport.Transport, cfg PeerConfig) (*Peer, error) {
	if err := cfg.Game.Validate(); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second / time.Duration(cfg.Game.TickHz)
	}

	id := NewSessionID()
	logger := cfg.Logger.With("session", id.Short())
	game := pong.New(cfg.Game)

	p := &Peer{
		id:      id,
		cfg:     cfg,
		game:    game,
		tr:      tr,
		session: NewChannelSession(id, DefaultEventBuffer),
		logger:  logger,
		ls: lockstep.New(game, tr, lockstep.Options{
			Side:           cfg.Side,
			Timekeeper:     cfg.Timekeeper,
			TickHz:         cfg.Game.TickHz,
			BufferCapacity: cfg.BufferCapacity,
			Logger:         logger,
		}),
		controls: make(chan control, 64),
		view:     game.View(),
	}
	if cfg.Source == nil {
		p.shaper = input.NewShaper(cfg.InputMode, cfg.HoldTicks)
	}
	return p, nil
}

// ID returns the peer's session ID.
func (p *Peer) ID() SessionID {
	return p.id
}

// Side returns the paddle this peer controls.
func (p *Peer) Side() pong.Side {
	return p.cfg.Side
}

// IsTimekeeper reports whether this peer bootstraps and resyncs the match.
func (p *Peer) IsTimekeeper() bool {
	return p.cfg.Timekeeper
}

// Session returns the event stream of this peer.
func (p *Peer) Session() *ChannelSession {
	return p.session
}

// Press registers a key press in direction d.
func (p *Peer) Press(d input.Direction) {
	p.sendControl(control{kind: controlPress, dir: d})
}

// Release drops a held direction.
func (p *Peer) Release(d input.Direction) {
	p.sendControl(control{kind: controlRelease, dir: d})
}

// Ready presses the ready button.
func (p *Peer) Ready() {
	p.sendControl(control{kind: controlReady})
}

// Rematch restarts a finished match. Only the timekeeper can restart; the
// other side follows the snapshot it sends.
func (p *Peer) Rematch() {
	p.sendControl(control{kind: controlRematch})
}

func (p *Peer) sendControl(c control) {
	select {
	case p.controls <- c:
	default:
		p.logger.Debug("control dropped", "kind", c.kind)
	}
}

// View returns the most recently published game view.
func (p *Peer) View() pong.View {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.view
}

// Stats returns the most recently published diagnostics.
func (p *Peer) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stats
}

// Run plays the match until it ends, ctx is cancelled, or the transport
// closes. It does not close the transport.
func (p *Peer) Run(ctx context.Context) (res MatchResult, err error) {
	defer func() {
		p.ls.Stop()
		p.publish()
		p.session.Send(MatchEndedEvent{Result: res, Err: err})
		p.session.Close()
		p.logger.Info("match ended", "reason", res.Reason, "tick", res.Ticks, "score", res.Score)
	}()

	if err := p.ls.Start(); err != nil {
		return p.result(MatchEndReasonError), err
	}
	p.logger.Info("match started", "side", p.cfg.Side, "timekeeper", p.cfg.Timekeeper)
	p.session.Send(MatchStartedEvent{SessionID: p.id, Side: p.cfg.Side, Timekeeper: p.cfg.Timekeeper})

	if p.cfg.Timekeeper {
		if err := p.ls.RequestSnapshot(); err != nil {
			return p.result(MatchEndReasonError), fmt.Errorf("bootstrap snapshot: %w", err)
		}
	}
	p.publish()

	ticker := time.NewTicker(p.cfg.TickInterval)
	defer ticker.Stop()

	inbound := p.tr.Inbound()
	for {
		select {
		case <-ctx.Done():
			return p.result(MatchEndReasonCancelled), nil

		case frame, ok := <-inbound:
			if !ok {
				p.ls.OnDisconnect()
				return p.result(MatchEndReasonDisconnect), nil
			}
			evts, err := p.ls.OnNetMessage(frame)
			if err := p.handleErr(err); err != nil {
				return p.fail(err)
			}
			if done := p.handleEvents(evts); done {
				return p.result(MatchEndReasonCompleted), nil
			}
			// Advance as soon as the missing remote input arrives.
			if done, err := p.advance(); err != nil || done {
				return p.endOf(err)
			}

		case c := <-p.controls:
			if err := p.applyControl(c); err != nil {
				return p.fail(err)
			}

		case <-ticker.C:
			if done, err := p.step(); err != nil || done {
				return p.endOf(err)
			}
		}
	}
}

// step runs once per wall tick: submit local input, try to advance, ping.
func (p *Peer) step() (bool, error) {
	v := p.ls.View()
	in := p.localInput(v)
	if err := p.handleErr(p.ls.OnLocalInput(in.AxisY, in.Buttons)); err != nil {
		return false, err
	}
	if p.shaper != nil {
		p.shaper.Update()
	}

	done, err := p.advance()
	if err != nil || done {
		return done, err
	}

	if p.cfg.PingInterval > 0 {
		p.sincePing++
		if p.sincePing >= p.cfg.PingInterval {
			p.sincePing = 0
			if err := p.handleErr(p.ls.Ping()); err != nil {
				return false, err
			}
		}
	}
	return false, nil
}

// advance steps the simulation once if both inputs for the current tick are
// buffered, and publishes the result.
func (p *Peer) advance() (bool, error) {
	evts, err := p.ls.Tick()
	if err := p.handleErr(err); err != nil {
		return false, err
	}
	done := p.handleEvents(evts)
	p.publish()

	if p.cfg.StopAtTick > 0 && p.ls.CurrentTick() >= p.cfg.StopAtTick {
		return true, nil
	}
	return done, nil
}

func (p *Peer) endOf(err error) (MatchResult, error) {
	if err != nil {
		return p.fail(err)
	}
	return p.result(MatchEndReasonCompleted), nil
}

// fail ends the match on a fatal error. A send that failed because the
// transport closed underneath is reported as a disconnect.
func (p *Peer) fail(err error) (MatchResult, error) {
	if !p.tr.IsOpen() {
		p.ls.OnDisconnect()
		return p.result(MatchEndReasonDisconnect), nil
	}
	return p.result(MatchEndReasonError), err
}

func (p *Peer) localInput(v pong.View) pong.Input {
	if p.cfg.Source != nil {
		return p.cfg.Source.Input(v)
	}
	if v.Status.Kind != pong.StatusLobby {
		p.shaper.ClearReady()
	}
	return p.shaper.Input()
}

func (p *Peer) applyControl(c control) error {
	switch c.kind {
	case controlPress:
		if p.shaper != nil {
			p.shaper.Press(c.dir)
		}
	case controlRelease:
		if p.shaper != nil {
			p.shaper.Release(c.dir)
		}
	case controlReady:
		if p.shaper != nil {
			p.shaper.Ready()
		}
	case controlRematch:
		return p.rematch()
	}
	return nil
}

// rematch resets the game on the timekeeper and pushes the fresh state to
// the peer.
func (p *Peer) rematch() error {
	if !p.cfg.Timekeeper {
		p.logger.Debug("rematch ignored, not the timekeeper")
		return nil
	}
	if _, over := p.game.Winner(); !over {
		return nil
	}

	p.game.ResetMatch()
	if err := p.ls.Start(); err != nil {
		return err
	}
	if err := p.ls.RequestSnapshot(); err != nil {
		return err
	}
	p.over = false
	if p.shaper != nil {
		p.shaper.Reset()
	}
	p.logger.Info("rematch")
	p.session.Send(RematchEvent{})
	p.publish()
	return nil
}

// handleErr sorts lockstep errors into recoverable ones, which are logged,
// and fatal ones, which are returned.
func (p *Peer) handleErr(err error) error {
	switch {
	case err == nil:
		return nil

	case lockstep.IsSyncError(err):
		if !p.cfg.Timekeeper {
			p.logger.Warn("desync, waiting for timekeeper", "err", err)
			return nil
		}
		p.logger.Warn("desync, sending snapshot", "err", err)
		if err := p.ls.RequestSnapshot(); err != nil {
			return p.handleErr(err)
		}
		p.mu.Lock()
		p.stats.Resyncs++
		p.mu.Unlock()
		return nil

	case errors.Is(err, lockstep.ErrTransport):
		if p.tr.IsOpen() {
			p.logger.Warn("send failed", "err", err)
			return nil
		}
		return err

	case errors.Is(err, lockstep.ErrSerialization), errors.Is(err, lockstep.ErrInvalidMessage):
		p.logger.Warn("bad frame from peer", "err", err)
		return nil

	default:
		return err
	}
}

// handleEvents forwards lockstep events to the session. It reports whether
// the match is over and the peer should stop.
func (p *Peer) handleEvents(evts []lockstep.Event) bool {
	for _, evt := range evts {
		switch e := evt.(type) {
		case lockstep.GameAdvanced:
			for _, ge := range e.Events {
				if sc, ok := ge.(pong.ScoredEvent); ok {
					p.logger.Info("point", "scorer", sc.Scorer, "score", sc.Score, "tick", e.Tick)
					p.session.Send(PointScoredEvent{Tick: e.Tick, Scorer: sc.Scorer, Score: sc.Score})
				}
			}

		case lockstep.SnapshotReceived:
			p.mu.Lock()
			p.stats.Snapshots++
			p.mu.Unlock()
			// A snapshot can roll a finished match back into play.
			_, p.over = p.game.Winner()
			p.session.Send(ResyncEvent{Tick: e.Tick})

		case lockstep.PongReceived:
			p.session.Send(LatencyEvent{RTT: e.RTT})
		}
	}

	winner, over := p.game.Winner()
	if over && !p.over {
		p.over = true
		score := p.game.Score()
		p.logger.Info("game over", "winner", winner, "score", score)
		p.session.Send(GameOverEvent{Winner: winner, Score: score})
		return p.cfg.StopOnGameOver
	}
	return false
}

func (p *Peer) publish() {
	view := p.ls.View()
	local, remote := p.ls.BufferInfo()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.view = view
	p.stats.Tick = p.ls.CurrentTick()
	p.stats.Waiting = p.ls.IsWaitingForRemote()
	p.stats.LocalBuffered = local
	p.stats.RemoteBuffered = remote
	p.stats.RTT = p.ls.LastRTT()
	p.stats.Connected = p.ls.IsConnected()
	p.stats.TransportStatus = p.ls.TransportStatus()
}

func (p *Peer) result(reason MatchEndReason) MatchResult {
	return resultFrom(p.id, reason, p.ls.View())
}
