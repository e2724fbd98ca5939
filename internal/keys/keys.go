// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// FormKeyMap defines the keybindings of the registration form. Printable
// keys go to the focused text input, so actions use tab, space and ctrl.
type FormKeyMap struct {
	NextField key.Binding
	PrevField key.Binding
	PrevTab   key.Binding
	NextTab   key.Binding
	Toggle    key.Binding
	Activate  key.Binding

	AddLink    key.Binding
	RemoveLink key.Binding
	ClearPhoto key.Binding

	Submit key.Binding
	Reset  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// Form is the default form keymap.
var Form = FormKeyMap{
	NextField: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab/↓", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab/↑", "previous field"),
	),
	PrevTab: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "photographer"),
	),
	NextTab: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("→", "editor"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "toggle"),
	),
	Activate: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	AddLink: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("ctrl+n", "add portfolio link"),
	),
	RemoveLink: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "remove link"),
	),
	ClearPhoto: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("ctrl+x", "clear photo"),
	),
	Submit: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "submit"),
	),
	Reset: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "reset form"),
	),
	Help: key.NewBinding(
		key.WithKeys("f1"),
		key.WithHelp("f1", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// ShortHelp returns keybindings for the short help view.
func (k FormKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Toggle, k.Submit, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k FormKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextField, k.PrevField, k.PrevTab, k.NextTab},
		{k.Toggle, k.Activate, k.AddLink, k.RemoveLink},
		{k.ClearPhoto, k.Submit, k.Reset},
		{k.Help, k.Quit},
	}
}
