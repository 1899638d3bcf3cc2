// Package tui provides the Bubble Tea terminal client: a hotseat model, an
// online model driving a multiplayer.Peer, and an SSH server that serves
// hotseat matches via Wish.
package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lockstep-pong/internal/input"
	"github.com/vovakirdan/lockstep-pong/internal/multiplayer"
	"github.com/vovakirdan/lockstep-pong/internal/pong"
)

// LocalOptions configures a hotseat model.
type LocalOptions struct {
	Mode      input.Mode
	HoldTicks int
	Width     int
	Height    int
	Theme     *Theme
	Logger    *log.Logger
}

// LocalModel is the Bubble Tea model for a hotseat match: two players on
// one keyboard, both sides simulated through multiplayer.Local.
type LocalModel struct {
	match   *multiplayer.Local
	shapers [2]*input.Shaper
	tickHz  uint32

	keys   KeyMap
	help   help.Model
	theme  Theme
	canvas *Canvas
	width  int
	height int

	lastEvent string
	err       error
	quitting  bool
}

// NewLocalModel creates a hotseat model for cfg.
func NewLocalModel(cfg pong.Config, opts LocalOptions) (LocalModel, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	match, err := multiplayer.NewLocal(cfg, logger)
	if err != nil {
		return LocalModel{}, err
	}

	theme := DefaultTheme()
	if opts.Theme != nil {
		theme = *opts.Theme
	}

	m := LocalModel{
		match: match,
		shapers: [2]*input.Shaper{
			input.NewShaper(opts.Mode, opts.HoldTicks),
			input.NewShaper(opts.Mode, opts.HoldTicks),
		},
		tickHz: cfg.TickHz,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		theme:  theme,
		width:  opts.Width,
		height: opts.Height,
	}
	m.canvas = NewCanvas(m.width, max(m.height-1, 0))
	m.help.Width = m.width
	return m, nil
}

// Init starts the tick loop.
func (m LocalModel) Init() tea.Cmd {
	return tickCmd(m.tickHz)
}

// Update handles messages and updates the model state.
func (m LocalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.canvas.Resize(m.width, max(m.height-1, 0))
		m.help.Width = m.width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

func (m LocalModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		_ = m.match.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.LeftReady):
		m.shapers[pong.Left.Index()].Ready()

	case key.Matches(msg, m.keys.RightReady):
		m.shapers[pong.Right.Index()].Ready()

	case key.Matches(msg, m.keys.Rematch):
		if _, over := m.match.Winner(); over {
			if err := m.match.Rematch(); err != nil {
				m.err = err
				return m, nil
			}
			for _, s := range m.shapers {
				s.Reset()
			}
			m.lastEvent = "Rematch"
		}

	default:
		if d := direction(msg, m.keys.LeftUp, m.keys.LeftDown); d != input.None {
			m.shapers[pong.Left.Index()].Press(d)
		}
		if d := direction(msg, m.keys.RightUp, m.keys.RightDown); d != input.None {
			m.shapers[pong.Right.Index()].Press(d)
		}
	}
	return m, nil
}

func (m LocalModel) handleTick() (tea.Model, tea.Cmd) {
	if m.err != nil {
		return m, tickCmd(m.tickHz)
	}

	lobby := m.match.View().Status.Kind == pong.StatusLobby
	var inputs [2]pong.Input
	for i, s := range m.shapers {
		if !lobby {
			s.ClearReady()
		}
		inputs[i] = s.Input()
		s.Update()
	}

	events, err := m.match.Step(inputs[0], inputs[1])
	if err != nil {
		m.err = err
	}
	for _, evt := range events {
		if sc, ok := evt.(pong.ScoredEvent); ok {
			m.lastEvent = fmt.Sprintf("Point %s (%d - %d)", sc.Scorer, sc.Score[0], sc.Score[1])
		}
	}
	return m, tickCmd(m.tickHz)
}

// View renders the current state to a string for display.
func (m LocalModel) View() string {
	if m.quitting {
		return ""
	}

	status := fmt.Sprintf(" Tick %d | %s | %s", m.match.View().Tick, m.shapers[0].Mode().Description(), m.lastEvent)
	if m.err != nil {
		status = " Error: " + m.err.Error()
	}

	DrawMatch(m.canvas, m.match.View(), HUD{
		LeftName:    "Left",
		RightName:   "Right",
		TickHz:      m.tickHz,
		Status:      status,
		ReadyHint:   "space: left ready  |  enter: right ready",
		RematchHint: "r: rematch",
	})
	return m.canvas.Render(m.theme) + "\n" + m.help.View(m.keys)
}

// Match returns the underlying hotseat match.
func (m LocalModel) Match() *multiplayer.Local {
	return m.match
}

// Err returns the error that stopped the match, if any.
func (m LocalModel) Err() error {
	return m.err
}

// RunLocal starts a hotseat match in the current terminal.
func RunLocal(cfg pong.Config, opts LocalOptions) error {
	model, err := NewLocalModel(cfg, opts)
	if err != nil {
		return err
	}
	defer func() { _ = model.match.Close() }()

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
