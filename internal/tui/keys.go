package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down             key.Binding
	Enter, Edit, Quit    key.Binding
	PreviewUp, PreviewDn key.Binding
	PageUp, PageDown     key.Binding
}

// statusBindings are the bindings advertised in the status bar.
func (k keyMap) statusBindings() []key.Binding {
	return []key.Binding{k.Up, k.PreviewDn, k.Enter, k.Edit, k.Quit}
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "ctrl+k"), key.WithHelp("up/dn", "navigate")),
	Down:      key.NewBinding(key.WithKeys("down", "ctrl+j")),
	Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "copy")),
	Edit:      key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("C-o", "edit")),
	Quit:      key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("Esc", "quit")),
	PreviewUp: key.NewBinding(key.WithKeys("ctrl+u")),
	PreviewDn: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("C-u/C-d", "preview")),
	PageUp:    key.NewBinding(key.WithKeys("pgup")),
	PageDown:  key.NewBinding(key.WithKeys("pgdown")),
}
