package ui

import (
	tint "github.com/lrstanley/bubbletint"
	"github.com/xolan/breakruptcy/internal/config"
)

// DefaultTheme is the theme used when no theme is configured
const DefaultTheme = config.DefaultTheme

// ThemeProvider manages TUI themes using bubbletint
type ThemeProvider struct {
	registry *tint.Registry
}

// NewThemeProvider creates a ThemeProvider showing initialTheme.
// Unknown or empty theme ids fall back to DefaultTheme.
func NewThemeProvider(initialTheme string) *ThemeProvider {
	all := tint.DefaultTints()

	var fallback tint.Tint
	for _, t := range all {
		if t.ID() == DefaultTheme {
			fallback = t
			break
		}
	}
	if fallback == nil && len(all) > 0 {
		fallback = all[0]
	}

	registry := tint.NewRegistry(fallback, all...)
	if initialTheme != "" {
		registry.SetTintID(initialTheme)
	}
	return &ThemeProvider{registry: registry}
}

// SetTheme switches to the theme with the given id.
// Returns false if no such theme exists.
func (tp *ThemeProvider) SetTheme(id string) bool {
	return tp.registry.SetTintID(id)
}

// NextTheme cycles to the next theme and returns its id.
func (tp *ThemeProvider) NextTheme() string {
	tp.registry.NextTint()
	return tp.registry.ID()
}

// CurrentName returns the id of the current theme.
func (tp *ThemeProvider) CurrentName() string {
	return tp.registry.ID()
}

// CurrentDisplayName returns the human-readable name of the current theme.
func (tp *ThemeProvider) CurrentDisplayName() string {
	return tp.registry.DisplayName()
}

// Styles returns the styles for the current theme.
func (tp *ThemeProvider) Styles() Styles {
	return NewStylesFromRegistry(tp.registry)
}
