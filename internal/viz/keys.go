package viz

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Regroup key.Binding
	Pause   key.Binding
	Theme   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Regroup: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "regroup"),
	),
	Pause: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "pause"),
	),
	Theme: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "theme"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Regroup, k.Pause, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Regroup, k.Pause},
		{k.Theme, k.Help, k.Quit},
	}
}
