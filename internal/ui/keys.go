package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap describes the normal-mode keys for the help bar. Dispatch happens
// in the input modes; these bindings only carry the help text.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	top       key.Binding
	bottom    key.Binding
	toggle    key.Binding
	all       key.Binding
	visible   key.Binding
	remove    key.Binding
	filter    key.Binding
	clear     key.Binding
	sort      key.Binding
	pager     key.Binding
	accept    key.Binding
	help      key.Binding
	quit      key.Binding
	cycleKind key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("gg", "top"),
		),
		bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "bottom"),
		),
		toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		all: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "all/none"),
		),
		visible: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "select shown"),
		),
		remove: key.NewBinding(
			key.WithKeys("d", "x"),
			key.WithHelp("d", "remove"),
		),
		filter: key.NewBinding(
			key.WithKeys("/", "f"),
			key.WithHelp("/", "filter"),
		),
		clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear"),
		),
		sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		pager: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "view selected"),
		),
		accept: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "accept"),
		),
		help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		cycleKind: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "filter kind"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.toggle, k.filter, k.sort, k.accept, k.help, k.quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.top, k.bottom},
		{k.toggle, k.all, k.visible, k.remove},
		{k.filter, k.cycleKind, k.clear, k.sort},
		{k.pager, k.accept, k.help, k.quit},
	}
}
