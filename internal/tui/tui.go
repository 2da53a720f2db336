// Package tui provides the Terminal User Interface for breakruptcy.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	hclog "github.com/hashicorp/go-hclog"
	"github.com/xolan/breakruptcy/internal/logging"
	"github.com/xolan/breakruptcy/internal/service"
	"github.com/xolan/breakruptcy/internal/tui/ui"
	"github.com/xolan/breakruptcy/internal/tui/views"
)

// defaultTickInterval is used when the configured interval is unusable.
const defaultTickInterval = 100 * time.Millisecond

// Mode is the screen currently shown
type Mode int

const (
	ModeClock Mode = iota
	ModeConfigure
)

// Model is the root TUI model
type Model struct {
	services *service.Services
	logger   hclog.Logger

	// UI state
	mode     Mode
	width    int
	height   int
	showHelp bool

	// View models
	clockView     views.ClockModel
	configureView views.ConfigureModel
	help          help.Model

	// Theme and styles
	themeProvider *ui.ThemeProvider
	styles        ui.Styles
	keys          ui.KeyMap
}

// New creates a new TUI model
func New(services *service.Services) Model {
	cfg := services.Config.Get()
	themeProvider := ui.NewThemeProvider(cfg.Theme)
	styles := themeProvider.Styles()
	keys := ui.DefaultKeyMap()
	logger := logging.OrNull(services.Logger).Named("tui")

	interval := defaultTickInterval
	if intervals, err := cfg.Intervals(); err == nil {
		interval = intervals.Tick
	} else {
		logger.Warn("invalid tick interval, using default", "error", err)
	}

	return Model{
		services:      services,
		logger:        logger,
		mode:          ModeClock,
		clockView:     views.NewClockModel(services.Session, styles, keys, interval),
		configureView: views.NewConfigureModel(services.Session, styles, keys),
		help:          help.New(),
		themeProvider: themeProvider,
		styles:        styles,
		keys:          keys,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.clockView.Init()
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		// The form captures every other key while it is open.
		if m.mode == ModeConfigure {
			m.configureView, cmd = m.configureView.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.Theme):
			return m.changeTheme()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		contentHeight := m.height - 4 // title and help line
		m.clockView.SetSize(m.width, contentHeight)
		m.configureView.SetSize(m.width, contentHeight)
		return m, nil

	case views.TickMsg:
		// The countdown keeps running behind the form.
		m.clockView, cmd = m.clockView.Update(msg)
		return m, cmd

	case ui.OpenConfigureMsg:
		m.mode = ModeConfigure
		m.showHelp = false
		m.configureView, cmd = m.configureView.Open(msg.State)
		return m, cmd

	case ui.ConfigAppliedMsg:
		m.mode = ModeClock
		m.logger.Debug("configuration saved from form")
		m.clockView, cmd = m.clockView.Update(msg)
		return m, cmd

	case ui.ConfigCanceledMsg:
		m.mode = ModeClock
		return m, nil
	}

	switch m.mode {
	case ModeClock:
		m.clockView, cmd = m.clockView.Update(msg)
	case ModeConfigure:
		m.configureView, cmd = m.configureView.Update(msg)
	}
	return m, cmd
}

// changeTheme cycles to the next theme, restyles every view and persists the
// choice.
func (m Model) changeTheme() (tea.Model, tea.Cmd) {
	newTheme := m.themeProvider.NextTheme()
	m.styles = m.themeProvider.Styles()

	themeMsg := ui.ThemeChangedMsg{
		ThemeName: newTheme,
		Styles:    m.styles,
	}
	m.clockView, _ = m.clockView.Update(themeMsg)
	m.configureView, _ = m.configureView.Update(themeMsg)

	return m, m.saveThemeConfig(newTheme)
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	title := "breakruptcy"
	if m.themeProvider != nil {
		title += m.styles.Muted.Render("  " + m.themeProvider.CurrentDisplayName())
	}
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n")

	switch m.mode {
	case ModeClock:
		b.WriteString(m.clockView.View())
	case ModeConfigure:
		b.WriteString(m.configureView.View())
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderHelpLine())

	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.styles.App.Render(b.String())
}

func (m Model) renderHelpLine() string {
	if m.mode == ModeConfigure {
		return m.help.ShortHelpView(ui.FormHelp{Keys: m.keys}.ShortHelp())
	}
	return m.help.ShortHelpView(ui.ClockHelp{Keys: m.keys}.ShortHelp())
}

// renderHelpOverlay renders the full key list in a dialog
func (m Model) renderHelpOverlay() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(m.help.FullHelpView(ui.ClockHelp{Keys: m.keys}.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(m.styles.FormLabel.Render("Configure:"))
	b.WriteString("\n")
	b.WriteString(m.help.FullHelpView(ui.FormHelp{Keys: m.keys}.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Muted.Render("Press ? to close"))

	dialog := m.styles.Dialog.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
	}
	return m.styles.App.Render(dialog)
}

// saveThemeConfig saves the theme to the config file
func (m Model) saveThemeConfig(themeName string) tea.Cmd {
	services := m.services
	logger := m.logger
	return func() tea.Msg {
		if err := services.Config.SetTheme(themeName); err != nil {
			logger.Warn("failed to save theme", "theme", themeName, "error", err)
		}
		return nil
	}
}

// Mode returns the screen currently shown.
func (m Model) Mode() Mode {
	return m.mode
}

// Run starts the TUI application. The session is flushed and its saver
// stopped when the program exits.
func Run(services *service.Services) error {
	model := New(services)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	if closeErr := services.Session.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
