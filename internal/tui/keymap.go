package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Navigation
	Up   key.Binding
	Down key.Binding

	// Period
	PrevMonth key.Binding
	NextMonth key.Binding
	ThisMonth key.Binding

	// View modes
	ToggleView key.Binding
	ToggleType key.Binding
	ToggleHelp key.Binding

	// Application
	Refresh   key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),

		PrevMonth: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("←/h", "previous month"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("→/l", "next month"),
		),
		ThisMonth: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "this month"),
		),

		ToggleView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "cycle views"),
		),
		ToggleType: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "income/expense"),
		),
		ToggleHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),

		Refresh: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q/Esc", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "force quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleView, k.PrevMonth, k.NextMonth, k.ToggleHelp, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.PrevMonth, k.NextMonth, k.ThisMonth},
		{k.ToggleView, k.ToggleType, k.Refresh},
		{k.ToggleHelp, k.Quit},
	}
}
