package tui

import "github.com/charmbracelet/lipgloss"

// Theme holds the lipgloss styles of the match screen.
type Theme struct {
	Default lipgloss.Style
	Dim     lipgloss.Style
	Left    lipgloss.Style
	Right   lipgloss.Style
	Ball    lipgloss.Style
	Banner  lipgloss.Style
	Accent  lipgloss.Style
	Error   lipgloss.Style

	StatusBar lipgloss.Style
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		Default: lipgloss.NewStyle(),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")), // Dim gray
		Left:    lipgloss.NewStyle().Foreground(lipgloss.Color("51")),  // Bright cyan
		Right:   lipgloss.NewStyle().Foreground(lipgloss.Color("205")), // Hot pink
		Ball:    lipgloss.NewStyle().Foreground(lipgloss.Color("226")), // Bright yellow
		Banner:  lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("46")), // Lime green
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),

		StatusBar: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// MonochromeTheme returns a theme without colors.
func MonochromeTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Default:   plain,
		Dim:       plain,
		Left:      plain,
		Right:     plain,
		Ball:      plain,
		Banner:    plain.Bold(true),
		Accent:    plain,
		Error:     plain.Bold(true),
		StatusBar: plain,
	}
}

// Style returns the style for a canvas color.
func (t Theme) Style(c Color) lipgloss.Style {
	switch c {
	case ColorDim:
		return t.Dim
	case ColorLeft:
		return t.Left
	case ColorRight:
		return t.Right
	case ColorBall:
		return t.Ball
	case ColorBanner:
		return t.Banner
	case ColorAccent:
		return t.Accent
	case ColorError:
		return t.Error
	default:
		return t.Default
	}
}
