package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the terminal client.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding

	// Screen switching. Number keys work whenever no text input has
	// focus; Tab cycling works everywhere.
	NextScreen     key.Binding
	PrevScreen     key.Binding
	ScreenHome     key.Binding
	ScreenSearch   key.Binding
	ScreenFriends  key.Binding
	ScreenRequests key.Binding

	// Friend request actions.
	Accept key.Binding
	Reject key.Binding

	PageUp   key.Binding
	PageDown key.Binding

	Quit key.Binding
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
		key.WithHelp("Enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "back"),
	),
	NextScreen: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "next screen"),
	),
	PrevScreen: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-Tab", "previous screen"),
	),
	ScreenHome: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "chats"),
	),
	ScreenSearch: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "search"),
	),
	ScreenFriends: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "friends"),
	),
	ScreenRequests: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "requests"),
	),
	Accept: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "accept"),
	),
	Reject: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "reject"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("PgUp", "scroll up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("PgDn", "scroll down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "quit"),
	),
}
