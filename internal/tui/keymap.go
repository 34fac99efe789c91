package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the key bindings of the watch screen. It implements
// help.KeyMap.
type KeyMap struct {
	Reload key.Binding
	Mode   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Reload: key.NewBinding(key.WithKeys("r", "f5"), key.WithHelp("r", "reload")),
		Mode:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "toggle mode")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Reload, k.Mode, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the expanded footer.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Reload, k.Mode}, {k.Help, k.Quit}}
}
