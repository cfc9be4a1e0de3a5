package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the browser. Move targets are bound to
// digits from the configuration and are not part of it.
type KeyMap struct {
	// General
	Help key.Binding
	Quit key.Binding

	// Navigation
	Left  key.Binding
	Right key.Binding

	// Filtering
	Search      key.Binding
	ClearSearch key.Binding

	// Actions
	Rename key.Binding
	Move   key.Binding
	Undo   key.Binding
	Redo   key.Binding

	// Input modes
	Accept key.Binding
	Cancel key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev")),
		Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),

		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		ClearSearch: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear search")),

		Rename: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		Move:   key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "move")),
		Undo:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Redo:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "redo")),

		Accept: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "accept")),
		Cancel: key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Search, k.Rename, k.Move, k.Undo, k.Redo, k.Quit, k.Help}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right},
		{k.Search, k.ClearSearch},
		{k.Rename, k.Move, k.Undo, k.Redo},
		{k.Help, k.Quit},
	}
}
