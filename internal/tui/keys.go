package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the focus screen
type KeyMap struct {
	Up   key.Binding
	Down key.Binding

	Select   key.Binding
	Toggle   key.Binding
	Reset    key.Binding
	Continue key.Binding
	Dismiss  key.Binding
	Theme    key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "focus on task"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space", "start/pause"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Continue: key.NewBinding(
			key.WithKeys("enter", "c"),
			key.WithHelp("enter", "next phase"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc", "d"),
			key.WithHelp("esc", "back to tasks"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "theme"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.Theme, k.Quit}
}

// FullHelp returns all bindings grouped by column
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Toggle, k.Reset, k.Continue, k.Dismiss},
		{k.Theme, k.Quit},
	}
}
