package timer

import (
	"strings"

	"github.com/xolan/breakruptcy/internal/timeutil"
)

// Preset is a named pair of bank durations offered by the configure form.
type Preset struct {
	Name  string
	Bank1 timeutil.TimeInput
	Bank2 timeutil.TimeInput
}

// BuiltinPresets returns the presets shipped with the application.
func BuiltinPresets() []Preset {
	return []Preset{
		{
			Name:  "Tim's Workday (4 Hr/4 Hr)",
			Bank1: timeutil.TimeInput{Hours: 4},
			Bank2: timeutil.TimeInput{Hours: 4},
		},
		{
			Name:  "Pomodoro (25/5)",
			Bank1: timeutil.TimeInput{Minutes: 25},
			Bank2: timeutil.TimeInput{Minutes: 5},
		},
		{
			Name:  "Work Block (50/10)",
			Bank1: timeutil.TimeInput{Minutes: 50},
			Bank2: timeutil.TimeInput{Minutes: 10},
		},
		{
			Name:  "Deep Work (90/15)",
			Bank1: timeutil.TimeInput{Hours: 1, Minutes: 30},
			Bank2: timeutil.TimeInput{Minutes: 15},
		},
		{
			Name:  "Quick Sprint (15/3)",
			Bank1: timeutil.TimeInput{Minutes: 15},
			Bank2: timeutil.TimeInput{Minutes: 3},
		},
	}
}

// Apply returns cfg with the preset's durations. Labels are kept.
func (p Preset) Apply(cfg Config) Config {
	cfg.Bank1Duration = p.Bank1.Duration()
	cfg.Bank2Duration = p.Bank2.Duration()
	return cfg
}

// FindPreset looks up a preset by name, case-insensitively. A unique prefix
// also matches, so "pomo" finds "Pomodoro (25/5)".
func FindPreset(presets []Preset, name string) (Preset, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Preset{}, false
	}

	for _, p := range presets {
		if strings.ToLower(p.Name) == name {
			return p, true
		}
	}

	var match Preset
	matches := 0
	for _, p := range presets {
		if strings.HasPrefix(strings.ToLower(p.Name), name) {
			match = p
			matches++
		}
	}
	if matches == 1 {
		return match, true
	}
	return Preset{}, false
}
