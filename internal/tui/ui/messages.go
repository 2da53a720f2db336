package ui

import "github.com/xolan/breakruptcy/internal/timer"

// ThemeChangedMsg is broadcast to all views when the theme changes.
type ThemeChangedMsg struct {
	ThemeName string
	Styles    Styles
}

// OpenConfigureMsg asks the root model to show the configure form.
type OpenConfigureMsg struct {
	State timer.State
}

// ConfigAppliedMsg is sent by the configure form after a successful save.
type ConfigAppliedMsg struct {
	State timer.State
}

// ConfigCanceledMsg is sent when the configure form is dismissed.
type ConfigCanceledMsg struct{}
