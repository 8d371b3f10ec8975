package state

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Select   key.Binding
	Settings key.Binding
	Refresh  key.Binding
	Snapshot key.Binding
	Purge    key.Binding
	Reboot   key.Binding
	Help     key.Binding
	Quit     key.Binding

	Toggle key.Binding
	Save   key.Binding
	Back   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "["),
			key.WithHelp("←/[", "prev group"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "]"),
			key.WithHelp("→/]", "next group"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Settings: key.NewBinding(
			key.WithKeys("s", "S"),
			key.WithHelp("s", "settings"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "R"),
			key.WithHelp("r", "refresh"),
		),
		Snapshot: key.NewBinding(
			key.WithKeys("i", "I"),
			key.WithHelp("i", "snapshot"),
		),
		Purge: key.NewBinding(
			key.WithKeys("p", "P"),
			key.WithHelp("p", "purge"),
		),
		Reboot: key.NewBinding(
			key.WithKeys("h", "H"),
			key.WithHelp("h", "REBOOT"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "Q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "toggle"),
		),
		Save: key.NewBinding(
			key.WithKeys("s", "S"),
			key.WithHelp("s", "save"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// mainHelp is the key help for the snapshot columns. The reboot binding only
// shows while a reboot is pending.
type mainHelp struct {
	keys   keyMap
	reboot bool
}

func (h mainHelp) ShortHelp() []key.Binding {
	bindings := []key.Binding{h.keys.Up, h.keys.Left, h.keys.Select, h.keys.Settings, h.keys.Refresh, h.keys.Snapshot, h.keys.Purge}
	if h.reboot {
		bindings = append(bindings, h.keys.Reboot)
	}
	return append(bindings, h.keys.Help, h.keys.Quit)
}

func (h mainHelp) FullHelp() [][]key.Binding {
	actions := []key.Binding{h.keys.Select, h.keys.Snapshot, h.keys.Purge}
	if h.reboot {
		actions = append(actions, h.keys.Reboot)
	}
	return [][]key.Binding{
		{h.keys.Up, h.keys.Down, h.keys.Left, h.keys.Right},
		actions,
		{h.keys.Settings, h.keys.Refresh, h.keys.Help, h.keys.Quit},
	}
}

type settingsHelp struct {
	keys keyMap
}

func (h settingsHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.keys.Up, h.keys.Down, h.keys.Select, h.keys.Toggle, h.keys.Back, h.keys.Save}
}

func (h settingsHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}

var (
	_ help.KeyMap = mainHelp{}
	_ help.KeyMap = settingsHelp{}
)
