package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the TUI.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Next     key.Binding
	Prev     key.Binding
	Tab      key.Binding
	Add      key.Binding
	AddTask  key.Binding
	Delete   key.Binding
	Edit     key.Binding
	PlanEdit key.Binding
	Status   key.Binding
	SaveNow  key.Binding
	AutoSave key.Binding
	Yank     key.Binding
	Export   key.Binding
	Reload   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "nudge up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "nudge down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "nudge left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "nudge right"),
		),
		Next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next element"),
		),
		Prev: key.NewBinding(
			key.WithKeys("N", "p"),
			key.WithHelp("N", "prev element"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch view"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add element"),
		),
		AddTask: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "add task to topic"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit fields"),
		),
		PlanEdit: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "edit plan goal"),
		),
		Status: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "cycle status"),
		),
		SaveNow: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save now"),
		),
		AutoSave: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "toggle auto-save"),
		),
		Yank: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy plan JSON"),
		),
		Export: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "export PNG"),
		),
		Reload: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reload"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the footer help text.
func (k KeyMap) ShortHelp() string {
	return "↑↓←→ nudge  n next  a add  t task  e edit  g goal  space status  d delete  tab view  s save  ? help"
}

// FullHelp returns all key bindings for the help modal.
func (k KeyMap) FullHelp() [][]string {
	return [][]string{
		{"↑/↓/←/→", "Nudge selected element (or drag with the mouse)"},
		{"n / N", "Select next / previous element"},
		{"tab", "Switch view (canvas / timeline / dashboard)"},
		{"a", "Add element (then 1-8 to pick a type)"},
		{"t", "Add task under the selected topic"},
		{"e", "Edit fields (tab next field, enter apply, esc close)"},
		{"g", "Edit plan title, goal, and timeline"},
		{"space", "Cycle status: not started → in progress → completed"},
		{"d", "Delete element (with confirmation)"},
		{"s", "Save immediately"},
		{"S", "Toggle auto-save"},
		{"y", "Copy plan JSON to clipboard"},
		{"x", "Export canvas to PNG"},
		{"R", "Reload from filesystem"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
}
