package views

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xolan/breakruptcy/internal/service"
	"github.com/xolan/breakruptcy/internal/timer"
	"github.com/xolan/breakruptcy/internal/timeutil"
	"github.com/xolan/breakruptcy/internal/tui/ui"
)

// Form fields in focus order.
const (
	fieldLabel1 = iota
	fieldHours1
	fieldMinutes1
	fieldSeconds1
	fieldLabel2
	fieldHours2
	fieldMinutes2
	fieldSeconds2
	fieldCount
)

// ConfigureModel is the form that edits both bank durations and labels
type ConfigureModel struct {
	session *service.SessionService
	presets []timer.Preset
	styles  ui.Styles
	keys    ui.KeyMap

	inputs []textinput.Model
	focus  int
	preset int

	bankErrs [2]string
	err      string

	width  int
	height int
}

// NewConfigureModel creates the configure form. Call Open to seed it.
func NewConfigureModel(session *service.SessionService, styles ui.Styles, keys ui.KeyMap) ConfigureModel {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = ""
		if isNumericField(i) {
			ti.CharLimit = 2
			ti.Width = 2
			ti.Placeholder = "00"
		} else {
			ti.CharLimit = 40
			ti.Width = 20
		}
		inputs[i] = ti
	}

	return ConfigureModel{
		session: session,
		presets: session.Presets(),
		styles:  styles,
		keys:    keys,
		inputs:  inputs,
		preset:  -1,
	}
}

// Open seeds the form from the configuration of state and focuses the first
// field.
func (m ConfigureModel) Open(state timer.State) (ConfigureModel, tea.Cmd) {
	cfg := state.Config
	m.inputs[fieldLabel1].SetValue(cfg.Bank1Label)
	m.inputs[fieldLabel2].SetValue(cfg.Bank2Label)
	m.setTimeInput(timer.Bank1, timeutil.ToTimeInput(cfg.Bank1Duration))
	m.setTimeInput(timer.Bank2, timeutil.ToTimeInput(cfg.Bank2Duration))

	m.preset = -1
	m.bankErrs = [2]string{}
	m.err = ""
	m = m.focusField(fieldLabel1)
	return m, textinput.Blink
}

// Update implements tea.Model
func (m ConfigureModel) Update(msg tea.Msg) (ConfigureModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			return m, func() tea.Msg { return ui.ConfigCanceledMsg{} }
		case key.Matches(msg, m.keys.Save):
			return m.submit()
		case key.Matches(msg, m.keys.NextField):
			return m.focusField((m.focus + 1) % fieldCount), nil
		case key.Matches(msg, m.keys.PrevField):
			return m.focusField((m.focus - 1 + fieldCount) % fieldCount), nil
		case key.Matches(msg, m.keys.Preset) && isNumericField(m.focus):
			return m.nextPreset(), nil
		}

		if isNumericField(m.focus) && msg.Type == tea.KeyRunes && !allDigits(msg.Runes) {
			return m, nil
		}

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if isNumericField(m.focus) {
		m.clampField(m.focus)
	}
	return m, cmd
}

// submit validates the form and applies it to the session.
func (m ConfigureModel) submit() (ConfigureModel, tea.Cmd) {
	cfg := m.Config()
	state, err := m.session.ApplyConfiguration(cfg, false)

	m.bankErrs = [2]string{}
	m.err = ""
	if err != nil {
		var cfgErr *timer.ConfigError
		if errors.As(err, &cfgErr) {
			for i, k := range []timer.BankKey{timer.Bank1, timer.Bank2} {
				if e := cfgErr.For(k); e != nil {
					m.bankErrs[i] = e.Error()
				}
			}
		} else {
			m.err = err.Error()
		}
		return m, nil
	}

	return m, func() tea.Msg { return ui.ConfigAppliedMsg{State: state} }
}

// Config returns the configuration the form currently describes.
func (m ConfigureModel) Config() timer.Config {
	return timer.Config{
		Bank1Duration: m.timeInput(timer.Bank1).Duration(),
		Bank2Duration: m.timeInput(timer.Bank2).Duration(),
		Bank1Label:    m.inputs[fieldLabel1].Value(),
		Bank2Label:    m.inputs[fieldLabel2].Value(),
	}
}

// nextPreset fills both durations from the next preset. Labels are kept.
func (m ConfigureModel) nextPreset() ConfigureModel {
	if len(m.presets) == 0 {
		return m
	}
	m.preset = (m.preset + 1) % len(m.presets)
	p := m.presets[m.preset]
	m.setTimeInput(timer.Bank1, p.Bank1)
	m.setTimeInput(timer.Bank2, p.Bank2)
	m.bankErrs = [2]string{}
	m.err = ""
	return m
}

func (m ConfigureModel) focusField(field int) ConfigureModel {
	for i := range m.inputs {
		if i == field {
			m.inputs[i].Focus()
			m.inputs[i].CursorEnd()
		} else {
			m.inputs[i].Blur()
		}
	}
	m.focus = field
	return m
}

// clampField rewrites an out-of-range numeric field to its maximum.
func (m *ConfigureModel) clampField(field int) {
	v := fieldValue(m.inputs[field])
	if max := fieldMax(field); v > max {
		m.inputs[field].SetValue(strconv.Itoa(max))
	}
}

func (m ConfigureModel) timeInput(k timer.BankKey) timeutil.TimeInput {
	base := fieldHours1
	if k == timer.Bank2 {
		base = fieldHours2
	}
	return timeutil.TimeInput{
		Hours:   fieldValue(m.inputs[base]),
		Minutes: fieldValue(m.inputs[base+1]),
		Seconds: fieldValue(m.inputs[base+2]),
	}.Clamp()
}

func (m *ConfigureModel) setTimeInput(k timer.BankKey, in timeutil.TimeInput) {
	base := fieldHours1
	if k == timer.Bank2 {
		base = fieldHours2
	}
	m.inputs[base].SetValue(pad2(in.Hours))
	m.inputs[base+1].SetValue(pad2(in.Minutes))
	m.inputs[base+2].SetValue(pad2(in.Seconds))
}

// View implements tea.Model
func (m ConfigureModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Configure"))
	b.WriteString("\n")

	for i, k := range []timer.BankKey{timer.Bank1, timer.Bank2} {
		labelField, hoursField := fieldLabel1, fieldHours1
		if k == timer.Bank2 {
			labelField, hoursField = fieldLabel2, fieldHours2
		}

		b.WriteString(m.styles.BankLabel.Render("Bank " + strconv.Itoa(i+1)))
		b.WriteString("\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
			m.styles.FormLabel.Render("Label"),
			m.renderInput(labelField),
		))
		b.WriteString("\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
			m.styles.FormLabel.Render("Time"),
			m.renderInput(hoursField),
			" : ",
			m.renderInput(hoursField+1),
			" : ",
			m.renderInput(hoursField+2),
		))
		b.WriteString("\n")
		if m.bankErrs[i] != "" {
			b.WriteString(m.styles.Error.Render(m.bankErrs[i]))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.preset >= 0 && m.preset < len(m.presets) {
		b.WriteString(m.styles.Muted.Render("Preset: "))
		b.WriteString(m.styles.PresetName.Render(m.presets[m.preset].Name))
	} else {
		b.WriteString(m.styles.Muted.Render("Press p in a time field to cycle presets"))
	}
	b.WriteString("\n")

	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render("Error: " + m.err))
		b.WriteString("\n")
	}

	return b.String()
}

func (m ConfigureModel) renderInput(field int) string {
	if field == m.focus {
		return m.styles.InputFocused.Render(m.inputs[field].View())
	}
	return m.styles.Input.Render(m.inputs[field].View())
}

// SetSize sets the view dimensions
func (m *ConfigureModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// BankError returns the validation message shown under a bank, if any.
func (m ConfigureModel) BankError(k timer.BankKey) string {
	if k == timer.Bank2 {
		return m.bankErrs[1]
	}
	return m.bankErrs[0]
}

// Err returns the form-level error message, if any.
func (m ConfigureModel) Err() string {
	return m.err
}

func isNumericField(field int) bool {
	return field != fieldLabel1 && field != fieldLabel2
}

func fieldMax(field int) int {
	switch field {
	case fieldHours1, fieldHours2:
		return timeutil.MaxHours
	case fieldMinutes1, fieldMinutes2:
		return timeutil.MaxMinutes
	}
	return timeutil.MaxSeconds
}

// fieldValue parses a numeric field. Empty or non-numeric input is 0.
func fieldValue(ti textinput.Model) int {
	v, err := strconv.Atoi(strings.TrimSpace(ti.Value()))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func allDigits(runes []rune) bool {
	for _, r := range runes {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func pad2(v int) string {
	if v < 10 {
		return "0" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}
