package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/lockstep-pong/internal/input"
)

// KeyMap holds the hotseat bindings: the left player uses w/s and space,
// the right player the arrow keys and enter.
type KeyMap struct {
	LeftUp     key.Binding
	LeftDown   key.Binding
	LeftReady  key.Binding
	RightUp    key.Binding
	RightDown  key.Binding
	RightReady key.Binding
	Rematch    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the hotseat bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		LeftUp:     key.NewBinding(key.WithKeys("w", "W"), key.WithHelp("w", "left up")),
		LeftDown:   key.NewBinding(key.WithKeys("s", "S"), key.WithHelp("s", "left down")),
		LeftReady:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "left ready")),
		RightUp:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "right up")),
		RightDown:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "right down")),
		RightReady: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "right ready")),
		Rematch:    key.NewBinding(key.WithKeys("r", "R"), key.WithHelp("r", "rematch")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.LeftReady, k.RightReady, k.Rematch, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.LeftUp, k.LeftDown, k.LeftReady},
		{k.RightUp, k.RightDown, k.RightReady},
		{k.Rematch, k.Help, k.Quit},
	}
}

// OnlineKeyMap holds the bindings of a single online player, who may use
// either key set.
type OnlineKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Ready   key.Binding
	Rematch key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultOnlineKeyMap returns the online bindings.
func DefaultOnlineKeyMap() OnlineKeyMap {
	return OnlineKeyMap{
		Up:      key.NewBinding(key.WithKeys("w", "W", "up", "k"), key.WithHelp("w/↑", "up")),
		Down:    key.NewBinding(key.WithKeys("s", "S", "down", "j"), key.WithHelp("s/↓", "down")),
		Ready:   key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "ready")),
		Rematch: key.NewBinding(key.WithKeys("r", "R"), key.WithHelp("r", "rematch")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k OnlineKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Ready, k.Rematch, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k OnlineKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Ready},
		{k.Rematch, k.Help, k.Quit},
	}
}

// direction returns the paddle direction a key press asks for.
func direction(msg tea.KeyMsg, up, down key.Binding) input.Direction {
	switch {
	case key.Matches(msg, up):
		return input.Up
	case key.Matches(msg, down):
		return input.Down
	default:
		return input.None
	}
}
