package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	Login      key.Binding
	Next       key.Binding
	Prev       key.Binding
	Save       key.Binding
	Reload     key.Binding
	Export     key.Binding
	Config     key.Binding
	Logout     key.Binding
	Disconnect key.Binding
	Cancel     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Login:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open record")),
		Next:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:       key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous")),
		Save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Reload:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		Export:     key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "download csv")),
		Config:     key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "spreadsheet")),
		Logout:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "log out")),
		Disconnect: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "disconnect")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// bindings adapts a flat list of bindings to help.KeyMap.
type bindings []key.Binding

func (b bindings) ShortHelp() []key.Binding  { return b }
func (b bindings) FullHelp() [][]key.Binding { return [][]key.Binding{b} }

func (k keyMap) helpFor(s screen, modal modalKind) bindings {
	switch {
	case modal == modalConfig:
		return bindings{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "connect")),
			k.Disconnect,
			k.Cancel,
		}
	case modal != modalNone:
		return nil
	case s == screenForm:
		return bindings{k.Next, k.Prev, k.Save, k.Reload, k.Export, k.Config, k.Logout}
	default:
		return bindings{k.Login, k.Reload, k.Export, k.Config, k.Quit}
	}
}
