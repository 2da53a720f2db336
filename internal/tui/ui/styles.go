package ui

import (
	"github.com/charmbracelet/lipgloss"
	tint "github.com/lrstanley/bubbletint"
)

// Styles contains all the styles used in the TUI
type Styles struct {
	App   lipgloss.Style
	Title lipgloss.Style

	// Bank cards
	BankActive   lipgloss.Style
	BankInactive lipgloss.Style
	BankLabel    lipgloss.Style
	BankTime     lipgloss.Style
	BankExpired  lipgloss.Style
	BankHint     lipgloss.Style

	// Status line
	StatusRunning lipgloss.Style
	StatusPaused  lipgloss.Style
	Muted         lipgloss.Style

	// Configure form
	FormLabel    lipgloss.Style
	Input        lipgloss.Style
	InputFocused lipgloss.Style
	PresetName   lipgloss.Style

	// Help overlay
	Dialog lipgloss.Style

	Error   lipgloss.Style
	Warning lipgloss.Style
}

// NewStylesFromRegistry creates a Styles struct using colors from a bubbletint registry.
// Theme colors map to UI roles as follows:
// - Primary (Purple): titles, the active bank, focused inputs
// - Secondary (Cyan): bank times, preset names
// - Muted (BrightBlack): inactive bank, hints
// - Green/Yellow/Red: running, warnings, errors and expired banks
func NewStylesFromRegistry(r *tint.Registry) Styles {
	primary := r.Purple()
	secondary := r.Cyan()
	muted := r.BrightBlack()
	success := r.Green()
	warning := r.Yellow()
	errorColor := r.Red()
	fg := r.Fg()

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 3).
		Width(26).
		Align(lipgloss.Center)

	return Styles{
		App: lipgloss.NewStyle().Padding(1, 2),
		Title: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true).
			MarginBottom(1),

		BankActive: card.
			BorderForeground(primary),
		BankInactive: card.
			BorderForeground(muted).
			Foreground(muted),
		BankLabel: lipgloss.NewStyle().
			Bold(true),
		BankTime: lipgloss.NewStyle().
			Foreground(secondary).
			Bold(true),
		BankExpired: lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true),
		BankHint: lipgloss.NewStyle().
			Foreground(muted),

		StatusRunning: lipgloss.NewStyle().
			Foreground(success).
			Bold(true),
		StatusPaused: lipgloss.NewStyle().
			Foreground(warning).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(muted),

		FormLabel: lipgloss.NewStyle().
			Foreground(fg).
			Width(10),
		Input: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(muted).
			Padding(0, 1),
		InputFocused: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(primary).
			Padding(0, 1),
		PresetName: lipgloss.NewStyle().
			Foreground(secondary),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(1, 2).
			Width(50),

		Error: lipgloss.NewStyle().
			Foreground(errorColor),
		Warning: lipgloss.NewStyle().
			Foreground(warning),
	}
}
