package multiplayer

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lockstep-pong/internal/lockstep"
	"github.com/vovakirdan/lockstep-pong/internal/pong"
	"github.com/vovakirdan/lockstep-pong/internal/transport"
)

// Local is a hotseat match: both players share one process, but each side
// still runs its own game and lockstep over an in-memory pipe, so every
// step goes through the same protocol an online match uses. Local is
// driven synchronously by Step and is not safe for concurrent use.
type Local struct {
	id     SessionID
	games  [2]*pong.Game
	peers  [2]*lockstep.Lockstep
	ends   [2]*transport.PipeEnd
	logger *log.Logger
}

// NewLocal creates a hotseat match. Left is the timekeeper.
func NewLocal(cfg pong.Config, logger *log.Logger) (*Local, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	id := NewSessionID()
	m := &Local{id: id, logger: logger.With("session", id.Short())}
	a, b := transport.Pipe()
	m.ends = [2]*transport.PipeEnd{a, b}

	for _, side := range []pong.Side{pong.Left, pong.Right} {
		i := side.Index()
		m.games[i] = pong.New(cfg)
		m.peers[i] = lockstep.New(m.games[i], m.ends[i], lockstep.Options{
			Side:       side,
			Timekeeper: side == pong.Left,
			TickHz:     cfg.TickHz,
			Logger:     m.logger,
		})
	}

	if err := m.start(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Local) start() error {
	for _, ls := range m.peers {
		if err := ls.Start(); err != nil {
			return err
		}
	}
	if err := m.peers[pong.Left.Index()].RequestSnapshot(); err != nil {
		return err
	}
	return m.pump()
}

// ID returns the match session ID.
func (m *Local) ID() SessionID {
	return m.id
}

// Step submits both players' inputs for the current tick, exchanges the
// frames and advances both sides. It returns the events of the step and
// fails if the two sides no longer agree.
func (m *Local) Step(left, right pong.Input) ([]pong.Event, error) {
	inputs := [2]pong.Input{left, right}
	for i, ls := range m.peers {
		if err := ls.OnLocalInput(inputs[i].AxisY, inputs[i].Buttons); err != nil {
			return nil, err
		}
	}
	if err := m.pump(); err != nil {
		return nil, err
	}

	var events []pong.Event
	for i, ls := range m.peers {
		evts, err := ls.Tick()
		if err != nil {
			return nil, err
		}
		if i != pong.Left.Index() {
			continue
		}
		for _, evt := range evts {
			if adv, ok := evt.(lockstep.GameAdvanced); ok {
				events = append(events, adv.Events...)
			}
		}
	}

	if !m.InSync() {
		tick := m.peers[0].CurrentTick()
		m.logger.Error("hotseat desync", "tick", tick)
		return events, fmt.Errorf("hotseat desync at tick %d", tick)
	}
	return events, nil
}

// pump delivers every frame queued on either end to the other side.
func (m *Local) pump() error {
	for i, ls := range m.peers {
		inbound := m.ends[i].Inbound()
		for done := false; !done; {
			select {
			case frame, ok := <-inbound:
				if !ok {
					return transport.ErrNotConnected
				}
				if _, err := ls.OnNetMessage(frame); err != nil {
					return err
				}
			default:
				done = true
			}
		}
	}
	return nil
}

// View returns the left side's view. Both sides agree after every Step.
func (m *Local) View() pong.View {
	return m.peers[pong.Left.Index()].View()
}

// InSync reports whether both sides hold identical state.
func (m *Local) InSync() bool {
	return m.games[0].Snapshot() == m.games[1].Snapshot()
}

// Winner returns the winner once the match is over.
func (m *Local) Winner() (pong.Side, bool) {
	return m.games[pong.Left.Index()].Winner()
}

// Rematch resets both sides to a fresh lobby.
func (m *Local) Rematch() error {
	for _, g := range m.games {
		g.ResetMatch()
	}
	m.logger.Info("rematch")
	return m.start()
}

// Close shuts the pipe down.
func (m *Local) Close() error {
	for _, ls := range m.peers {
		ls.Stop()
	}
	return m.ends[0].Close()
}
