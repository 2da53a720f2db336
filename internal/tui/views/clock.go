package views

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xolan/breakruptcy/internal/service"
	"github.com/xolan/breakruptcy/internal/timer"
	"github.com/xolan/breakruptcy/internal/timeutil"
	"github.com/xolan/breakruptcy/internal/tui/ui"
)

// ConfigureLockedHint is shown while the session can no longer be configured.
const ConfigureLockedHint = "Reset timer to configure settings"

// TickMsg drives the countdown while the session runs. Gen identifies the
// tick loop that scheduled it; ticks from an earlier loop are dropped.
type TickMsg struct {
	Gen  int
	Time time.Time
}

// ClockModel is the model for the two bank cards
type ClockModel struct {
	session  *service.SessionService
	styles   ui.Styles
	keys     ui.KeyMap
	interval time.Duration

	state   timer.State
	gen     int
	ticking bool
	notice  string

	width  int
	height int
}

// NewClockModel creates a clock view over session. interval is the tick
// period used while the session runs.
func NewClockModel(session *service.SessionService, styles ui.Styles, keys ui.KeyMap, interval time.Duration) ClockModel {
	m := ClockModel{
		session:  session,
		styles:   styles,
		keys:     keys,
		interval: interval,
		state:    session.CurrentState(),
	}
	// A session restored while running resumes ticking right away.
	if !m.state.IsPaused {
		m.gen = 1
		m.ticking = true
	}
	return m
}

// Init implements tea.Model
func (m ClockModel) Init() tea.Cmd {
	if m.ticking {
		return m.tick()
	}
	return nil
}

// Update implements tea.Model
func (m ClockModel) Update(msg tea.Msg) (ClockModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		if msg.Gen != m.gen || !m.ticking {
			return m, nil
		}
		var cmd tea.Cmd
		m, cmd = m.sync(m.session.Tick())
		if m.ticking {
			cmd = m.tick()
		}
		return m, cmd

	case ui.ConfigAppliedMsg:
		m.notice = ""
		return m.sync(msg.State)

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		return m, nil
	}

	return m, nil
}

func (m ClockModel) handleKey(msg tea.KeyMsg) (ClockModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.TogglePause):
		m.notice = ""
		return m.sync(m.session.TogglePause())
	case key.Matches(msg, m.keys.Switch):
		return m.sync(m.session.SwitchActiveBank())
	case key.Matches(msg, m.keys.Bank1):
		return m.sync(m.session.SelectBank(timer.Bank1))
	case key.Matches(msg, m.keys.Bank2):
		return m.sync(m.session.SelectBank(timer.Bank2))
	case key.Matches(msg, m.keys.Reset):
		m.notice = ""
		return m.sync(m.session.Reset())
	case key.Matches(msg, m.keys.Configure):
		if !m.state.IsConfigurable {
			m.notice = ConfigureLockedHint
			return m, nil
		}
		state := m.state
		return m, func() tea.Msg { return ui.OpenConfigureMsg{State: state} }
	}
	return m, nil
}

// sync adopts next and starts or stops the tick loop to match it. Every
// pause bumps the generation so an in-flight tick is ignored. A loop that is
// already running is left alone; only a TickMsg schedules its next tick.
func (m ClockModel) sync(next timer.State) (ClockModel, tea.Cmd) {
	m.state = next
	switch {
	case next.IsPaused && m.ticking:
		m.ticking = false
		m.gen++
	case !next.IsPaused && !m.ticking:
		m.ticking = true
		m.gen++
		return m, m.tick()
	}
	return m, nil
}

func (m ClockModel) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return TickMsg{Gen: gen, Time: t}
	})
}

// View implements tea.Model
func (m ClockModel) View() string {
	var b strings.Builder

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderBank(timer.Bank1),
		"  ",
		m.renderBank(timer.Bank2),
	)
	b.WriteString(cards)
	b.WriteString("\n\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")

	switch {
	case m.notice != "":
		b.WriteString(m.styles.Warning.Render(m.notice))
	case !m.state.IsConfigurable:
		b.WriteString(m.styles.Muted.Render(ConfigureLockedHint))
	default:
		b.WriteString(m.styles.Muted.Render("Press c to configure"))
	}

	if m.width > 0 {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, b.String())
	}
	return b.String()
}

func (m ClockModel) renderBank(k timer.BankKey) string {
	bank := m.state.Bank(k)

	timeStyle := m.styles.BankTime
	if bank.Remaining == 0 {
		timeStyle = m.styles.BankExpired
	}

	var hint string
	if k == timer.Bank1 {
		hint = "[1]"
	} else {
		hint = "[2]"
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		m.styles.BankLabel.Render(bank.Label),
		"",
		timeStyle.Render(timeutil.FormatTime(bank.Remaining)),
		"",
		m.styles.BankHint.Render(hint),
	)

	if bank.IsActive {
		return m.styles.BankActive.Render(content)
	}
	return m.styles.BankInactive.Render(content)
}

func (m ClockModel) renderStatus() string {
	if m.state.IsPaused {
		status := m.styles.StatusPaused.Render("❚❚ " + m.state.StatusText())
		if m.state.Expired() {
			status += "  " + m.styles.BankExpired.Render(m.state.ActiveBank().Label+" time is up")
		}
		return status
	}
	return m.styles.StatusRunning.Render("● " + m.state.StatusText())
}

// SetSize sets the view dimensions
func (m *ClockModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// State returns the snapshot currently on screen.
func (m ClockModel) State() timer.State {
	return m.state
}

// Ticking reports whether a tick loop is scheduled.
func (m ClockModel) Ticking() bool {
	return m.ticking
}
