package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap contains all key bindings for the TUI
type KeyMap struct {
	// Clock
	TogglePause key.Binding
	Switch      key.Binding
	Reset       key.Binding
	Bank1       key.Binding
	Bank2       key.Binding
	Configure   key.Binding

	// Configure form
	NextField key.Binding
	PrevField key.Binding
	Preset    key.Binding
	Save      key.Binding
	Cancel    key.Binding

	// Global
	Theme key.Binding
	Help  key.Binding
	Quit  key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		TogglePause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		Switch: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "switch"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Bank1: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "bank 1"),
		),
		Bank2: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "bank 2"),
		),
		Configure: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "configure"),
		),

		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Preset: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "next preset"),
		),
		Save: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
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
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ClockHelp adapts the clock bindings to bubbles/help.
type ClockHelp struct {
	Keys KeyMap
}

func (h ClockHelp) ShortHelp() []key.Binding {
	k := h.Keys
	return []key.Binding{k.TogglePause, k.Switch, k.Reset, k.Configure, k.Help, k.Quit}
}

func (h ClockHelp) FullHelp() [][]key.Binding {
	k := h.Keys
	return [][]key.Binding{
		{k.TogglePause, k.Switch, k.Bank1, k.Bank2},
		{k.Reset, k.Configure, k.Theme},
		{k.Help, k.Quit},
	}
}

// FormHelp adapts the configure form bindings to bubbles/help.
type FormHelp struct {
	Keys KeyMap
}

func (h FormHelp) ShortHelp() []key.Binding {
	k := h.Keys
	return []key.Binding{k.NextField, k.Preset, k.Save, k.Cancel}
}

func (h FormHelp) FullHelp() [][]key.Binding {
	k := h.Keys
	return [][]key.Binding{
		{k.NextField, k.PrevField},
		{k.Preset, k.Save, k.Cancel},
	}
}
