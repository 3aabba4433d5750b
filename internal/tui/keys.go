package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for both screens.
type KeyMap struct {
	// List screen.
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding

	// Shared focus movement.
	Next     key.Binding
	Previous key.Binding
	Cancel   key.Binding

	// Editor screen.
	Submit         key.Binding
	Back           key.Binding
	AddWaypoint    key.Binding
	RemoveWaypoint key.Binding

	ForceQuit key.Binding
}

var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open / add"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next field"),
	),
	Previous: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("S-tab", "previous field"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "leave form"),
	),
	Submit: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("C-s", "submit"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back to list"),
	),
	AddWaypoint: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("C-n", "add waypoint"),
	),
	RemoveWaypoint: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("C-x", "remove waypoint"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "quit"),
	),
}
