package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/lockstep-pong/internal/input"
	"github.com/vovakirdan/lockstep-pong/internal/multiplayer"
	"github.com/vovakirdan/lockstep-pong/internal/pong"
)

// OnlineModel renders one side of an online match. The peer runs in its own
// goroutine; the model forwards key presses to it and redraws from its
// published view.
type OnlineModel struct {
	peer   *multiplayer.Peer
	cancel func()
	tickHz uint32
	names  [2]string

	keys   OnlineKeyMap
	help   help.Model
	theme  Theme
	canvas *Canvas
	width  int
	height int

	lastEvent string
	result    *multiplayer.MatchResult
	quitting  bool
}

// NewOnlineModel creates a model for peer. cancel stops the peer's Run and
// is called when the user quits.
func NewOnlineModel(peer *multiplayer.Peer, cancel func(), tickHz uint32, width, height int) OnlineModel {
	names := [2]string{"Left", "Right"}
	names[peer.Side().Index()] = "You"

	m := OnlineModel{
		peer:   peer,
		cancel: cancel,
		tickHz: tickHz,
		names:  names,
		keys:   DefaultOnlineKeyMap(),
		help:   help.New(),
		theme:  DefaultTheme(),
		width:  width,
		height: height,
	}
	m.canvas = NewCanvas(width, max(height-1, 0))
	m.help.Width = width
	return m
}

// Init starts the redraw loop and the event listener.
func (m OnlineModel) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.tickHz), m.waitForEvent())
}

// waitForEvent returns a command that waits for the next peer event.
func (m OnlineModel) waitForEvent() tea.Cmd {
	events := m.peer.Session().Events()
	done := m.peer.Session().Done()
	return func() tea.Msg {
		select {
		case evt := <-events:
			return evt
		case <-done:
			// Drain what was queued before the session closed.
			select {
			case evt := <-events:
				return evt
			default:
				return nil
			}
		}
	}
}

// Update handles messages.
func (m OnlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.canvas.Resize(m.width, max(m.height-1, 0))
		m.help.Width = m.width
		return m, nil

	case TickMsg:
		return m, tickCmd(m.tickHz)

	case multiplayer.SessionEvent:
		m.applyEvent(msg)
		if m.result != nil {
			return m, nil
		}
		return m, m.waitForEvent()
	}
	return m, nil
}

func (m *OnlineModel) applyEvent(evt multiplayer.SessionEvent) {
	switch e := evt.(type) {
	case multiplayer.MatchStartedEvent:
		m.lastEvent = fmt.Sprintf("Playing %s", e.Side)
	case multiplayer.PointScoredEvent:
		m.lastEvent = fmt.Sprintf("Point %s (%d - %d)", m.names[e.Scorer.Index()], e.Score[0], e.Score[1])
	case multiplayer.GameOverEvent:
		m.lastEvent = fmt.Sprintf("%s won %d - %d", m.names[e.Winner.Index()], e.Score[0], e.Score[1])
	case multiplayer.ResyncEvent:
		m.lastEvent = fmt.Sprintf("Resynced at tick %d", e.Tick)
	case multiplayer.RematchEvent:
		m.lastEvent = "Rematch"
	case multiplayer.LatencyEvent:
		// shown from Stats
	case multiplayer.MatchEndedEvent:
		res := e.Result
		m.result = &res
		m.lastEvent = res.Reason.String()
		if e.Err != nil {
			m.lastEvent += ": " + e.Err.Error()
		}
	}
}

func (m OnlineModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Ready):
		m.peer.Ready()
	case key.Matches(msg, m.keys.Rematch):
		if m.peer.IsTimekeeper() {
			m.peer.Rematch()
		} else {
			m.lastEvent = "Only the host can start a rematch"
		}
	default:
		if d := direction(msg, m.keys.Up, m.keys.Down); d != input.None {
			m.peer.Press(d)
		}
	}
	return m, nil
}

// View renders the current state to a string for display.
func (m OnlineModel) View() string {
	if m.quitting {
		return ""
	}

	stats := m.peer.Stats()
	status := fmt.Sprintf(" Tick %d | RTT %s | %s", stats.Tick, stats.RTT, stats.TransportStatus)
	if stats.Waiting {
		status += " | waiting for peer"
	}
	if m.lastEvent != "" {
		status += " | " + m.lastEvent
	}

	rematch := ""
	if m.peer.IsTimekeeper() {
		rematch = "r: rematch"
	}
	DrawMatch(m.canvas, m.peer.View(), HUD{
		LeftName:    m.names[pong.Left.Index()],
		RightName:   m.names[pong.Right.Index()],
		TickHz:      m.tickHz,
		Status:      status,
		ReadyHint:   "space: ready",
		RematchHint: rematch,
	})
	return m.canvas.Render(m.theme) + "\n" + m.help.View(m.keys)
}

// Result returns the match result once the peer stopped.
func (m OnlineModel) Result() (multiplayer.MatchResult, bool) {
	if m.result == nil {
		return multiplayer.MatchResult{}, false
	}
	return *m.result, true
}

// RunOnline shows peer in the current terminal until the user quits.
func RunOnline(peer *multiplayer.Peer, cancel func(), tickHz uint32, width, height int) error {
	p := tea.NewProgram(NewOnlineModel(peer, cancel, tickHz, width, height), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
