package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	toggle key.Binding
	next   key.Binding
	remove key.Binding
	clear  key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		toggle: key.NewBinding(key.WithKeys("tab", "enter", " "), key.WithHelp("tab", "playlist")),
		next:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		remove: key.NewBinding(key.WithKeys("x", "d", "backspace"), key.WithHelp("x", "remove")),
		clear:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.next, k.toggle, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.toggle},
		{k.next, k.remove, k.clear},
		{k.quit},
	}
}
