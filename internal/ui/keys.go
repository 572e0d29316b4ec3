package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keyboard bindings for the goal screens.
type KeyMap struct {
	Quit          key.Binding
	NextTimeframe key.Binding
	PrevTimeframe key.Binding
	Up            key.Binding
	Down          key.Binding
	Add           key.Binding
	Edit          key.Binding
	Toggle        key.Binding
	Delete        key.Binding
	Search        key.Binding
	CycleCategory key.Binding
	ClearFilters  key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		NextTimeframe: key.NewBinding(
			key.WithKeys("tab", "l"),
			key.WithHelp("tab", "next timeframe"),
		),
		PrevTimeframe: key.NewBinding(
			key.WithKeys("shift+tab", "h"),
			key.WithHelp("shift+tab", "prev timeframe"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add goal"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit goal"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "toggle done"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete goal"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		CycleCategory: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "category filter"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear filters"),
		),
	}
}
