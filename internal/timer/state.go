// Package timer implements the dual-bank countdown state machine.
//
// A State is an immutable value: every transition takes the current state and
// the current wall-clock time and returns a new state. Nothing in this package
// performs I/O or reads the clock itself.
package timer

import (
	"strings"
	"time"

	"github.com/xolan/breakruptcy/internal/timeutil"
)

const (
	// DefaultBank1Label is used when bank 1 has no label
	DefaultBank1Label = "Work"
	// DefaultBank2Label is used when bank 2 has no label
	DefaultBank2Label = "Break"
	// DefaultBank1Duration is the bank 1 duration of a fresh install (25 minutes)
	DefaultBank1Duration = 25 * time.Minute
	// DefaultBank2Duration is the bank 2 duration of a fresh install (5 minutes)
	DefaultBank2Duration = 5 * time.Minute
)

// BankKey identifies one of the two banks.
type BankKey int

const (
	// Bank1 is the first bank, active in a fresh session
	Bank1 BankKey = iota + 1
	// Bank2 is the second bank
	Bank2
)

// String returns "bank1" or "bank2".
func (k BankKey) String() string {
	switch k {
	case Bank1:
		return "bank1"
	case Bank2:
		return "bank2"
	}
	return "unknown"
}

// Other returns the opposite bank.
func (k BankKey) Other() BankKey {
	if k == Bank1 {
		return Bank2
	}
	return Bank1
}

// Bank is one of the two timer slots.
type Bank struct {
	Remaining time.Duration
	Label     string
	IsActive  bool
}

// Config holds the durations and labels a session starts from.
type Config struct {
	Bank1Duration time.Duration
	Bank2Duration time.Duration
	Bank1Label    string
	Bank2Label    string
}

// DefaultConfig returns the 25/5 Work/Break configuration.
func DefaultConfig() Config {
	return Config{
		Bank1Duration: DefaultBank1Duration,
		Bank2Duration: DefaultBank2Duration,
		Bank1Label:    DefaultBank1Label,
		Bank2Label:    DefaultBank2Label,
	}
}

// Normalize trims labels and substitutes the defaults for empty ones.
func (c Config) Normalize() Config {
	c.Bank1Label = strings.TrimSpace(c.Bank1Label)
	if c.Bank1Label == "" {
		c.Bank1Label = DefaultBank1Label
	}
	c.Bank2Label = strings.TrimSpace(c.Bank2Label)
	if c.Bank2Label == "" {
		c.Bank2Label = DefaultBank2Label
	}
	return c
}

// Validate checks both durations. The returned error, if any, is a *ConfigError.
func (c Config) Validate() error {
	cfgErr := &ConfigError{
		Bank1: timeutil.ValidateDuration(c.Bank1Duration),
		Bank2: timeutil.ValidateDuration(c.Bank2Duration),
	}
	if cfgErr.Bank1 == nil && cfgErr.Bank2 == nil {
		return nil
	}
	return cfgErr
}

// Duration returns the configured duration of the given bank.
func (c Config) Duration(key BankKey) time.Duration {
	if key == Bank2 {
		return c.Bank2Duration
	}
	return c.Bank1Duration
}

// Label returns the configured label of the given bank.
func (c Config) Label(key BankKey) string {
	if key == Bank2 {
		return c.Bank2Label
	}
	return c.Bank1Label
}

// State is a complete session snapshot.
type State struct {
	Bank1          Bank
	Bank2          Bank
	IsPaused       bool
	LastTick       time.Time
	Config         Config
	IsConfigurable bool
}

// NewState builds a fresh session from cfg: both banks full, bank 1 active,
// paused and configurable.
func NewState(cfg Config, now time.Time) State {
	return State{
		Bank1: Bank{
			Remaining: cfg.Bank1Duration,
			Label:     cfg.Bank1Label,
			IsActive:  true,
		},
		Bank2: Bank{
			Remaining: cfg.Bank2Duration,
			Label:     cfg.Bank2Label,
			IsActive:  false,
		},
		IsPaused:       true,
		LastTick:       now,
		Config:         cfg,
		IsConfigurable: true,
	}
}

// Bank returns a copy of the bank for key.
func (s State) Bank(key BankKey) Bank {
	if key == Bank2 {
		return s.Bank2
	}
	return s.Bank1
}

// ActiveKey returns the key of the bank currently counting down.
func (s State) ActiveKey() BankKey {
	if s.Bank1.IsActive {
		return Bank1
	}
	return Bank2
}

// ActiveBank returns a copy of the active bank.
func (s State) ActiveBank() Bank {
	return s.Bank(s.ActiveKey())
}

// Expired reports whether the active bank has run out.
func (s State) Expired() bool {
	return s.ActiveBank().Remaining == 0
}

// AtInitialValues reports whether both banks still hold their configured
// durations.
func (s State) AtInitialValues() bool {
	return timeutil.IsAtInitialValue(s.Bank1.Remaining, s.Config.Bank1Duration) &&
		timeutil.IsAtInitialValue(s.Bank2.Remaining, s.Config.Bank2Duration)
}

// StatusText returns "Paused" or "<label> Active".
func (s State) StatusText() string {
	if s.IsPaused {
		return "Paused"
	}
	return s.ActiveBank().Label + " Active"
}

// withBank returns a copy of s with the bank for key replaced.
func (s State) withBank(key BankKey, b Bank) State {
	if key == Bank2 {
		s.Bank2 = b
	} else {
		s.Bank1 = b
	}
	return s
}
