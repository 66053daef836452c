package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global key bindings. View-local keys live in the views.
type KeyMap struct {
	Escape  key.Binding
	Quit    key.Binding
	Help    key.Binding
	Search  key.Binding
	Profile key.Binding
	Theme   key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "voltar"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "sair"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "ajuda"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "buscar"),
		),
		Profile: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "perfil"),
		),
		Theme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "trocar tema"),
		),
	}
}

// bindings lists the global keys in help order
func (k KeyMap) bindings() []key.Binding {
	return []key.Binding{k.Search, k.Profile, k.Theme, k.Help, k.Escape, k.Quit}
}
