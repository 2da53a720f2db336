// Package persist maps timer state and configuration to durable records and
// schedules when they are written.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/xolan/breakruptcy/internal/timer"
	"github.com/xolan/breakruptcy/internal/timeutil"
)

// Storage keys.
const (
	SessionKey = "breakruptcy-timer-state"
	ConfigKey  = "breakruptcy-timer-config"
)

// ErrNotObject is returned when a record decodes to something other than a
// JSON object.
var ErrNotObject = errors.New("record is not a JSON object")

// ErrDurationRange is returned when a persisted duration cannot be a valid
// bank duration.
var ErrDurationRange = errors.New("duration out of range")

// maxMillis bounds every persisted millisecond value.
const maxMillis = int64(timeutil.MaxDuration / time.Millisecond)

// BankRecord is the persisted form of a bank. Remaining is in milliseconds.
// Every field is optional on read.
type BankRecord struct {
	Remaining *int64  `json:"remaining,omitempty"`
	Label     *string `json:"label,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

// SessionRecord is the persisted session snapshot. LastTick is Unix
// milliseconds. The configuration is stored separately under ConfigKey.
type SessionRecord struct {
	Bank1          *BankRecord `json:"bank1,omitempty"`
	Bank2          *BankRecord `json:"bank2,omitempty"`
	IsPaused       *bool       `json:"isPaused,omitempty"`
	LastTick       *int64      `json:"lastTick,omitempty"`
	IsConfigurable *bool       `json:"isConfigurable,omitempty"`
}

// ConfigRecord is the persisted configuration. Durations are milliseconds.
type ConfigRecord struct {
	Bank1Duration *int64  `json:"bank1Duration,omitempty"`
	Bank2Duration *int64  `json:"bank2Duration,omitempty"`
	Bank1Label    *string `json:"bank1Label,omitempty"`
	Bank2Label    *string `json:"bank2Label,omitempty"`
}

// NewSessionRecord captures every field of s.
func NewSessionRecord(s timer.State) SessionRecord {
	return SessionRecord{
		Bank1:          newBankRecord(s.Bank1),
		Bank2:          newBankRecord(s.Bank2),
		IsPaused:       ptr(s.IsPaused),
		LastTick:       ptr(s.LastTick.UnixMilli()),
		IsConfigurable: ptr(s.IsConfigurable),
	}
}

func newBankRecord(b timer.Bank) *BankRecord {
	return &BankRecord{
		Remaining: ptr(b.Remaining.Milliseconds()),
		Label:     ptr(b.Label),
		IsActive:  ptr(b.IsActive),
	}
}

// NewConfigRecord captures every field of cfg.
func NewConfigRecord(cfg timer.Config) ConfigRecord {
	return ConfigRecord{
		Bank1Duration: ptr(cfg.Bank1Duration.Milliseconds()),
		Bank2Duration: ptr(cfg.Bank2Duration.Milliseconds()),
		Bank1Label:    ptr(cfg.Bank1Label),
		Bank2Label:    ptr(cfg.Bank2Label),
	}
}

// Config overlays the record onto def field by field. A duration outside
// 0..MaxDuration yields ErrDurationRange.
func (r ConfigRecord) Config(def timer.Config) (timer.Config, error) {
	cfg := def
	for _, f := range []struct {
		name string
		ms   *int64
		dst  *time.Duration
	}{
		{"bank1Duration", r.Bank1Duration, &cfg.Bank1Duration},
		{"bank2Duration", r.Bank2Duration, &cfg.Bank2Duration},
	} {
		if f.ms == nil {
			continue
		}
		if *f.ms < 0 || *f.ms > maxMillis {
			return def, fmt.Errorf("%s %d: %w", f.name, *f.ms, ErrDurationRange)
		}
		*f.dst = millis(*f.ms)
	}
	if r.Bank1Label != nil {
		cfg.Bank1Label = *r.Bank1Label
	}
	if r.Bank2Label != nil {
		cfg.Bank2Label = *r.Bank2Label
	}
	return cfg, nil
}

// State rebuilds a session from the record. Missing fields come from a
// fresh session built on cfg. The result is not yet rehydrated; see
// Adapter.Load.
func (r SessionRecord) State(cfg timer.Config, now time.Time) timer.State {
	s := timer.NewState(cfg, now)
	s.Bank1 = r.Bank1.bank(s.Bank1)
	s.Bank2 = r.Bank2.bank(s.Bank2)
	if r.IsPaused != nil {
		s.IsPaused = *r.IsPaused
	}
	if r.LastTick != nil {
		s.LastTick = time.UnixMilli(*r.LastTick)
	}
	if r.IsConfigurable != nil {
		s.IsConfigurable = *r.IsConfigurable
	}
	return s
}

func (r *BankRecord) bank(def timer.Bank) timer.Bank {
	if r == nil {
		return def
	}
	b := def
	// Small negatives are kept for rehydrate to clamp and report. Anything
	// beyond the representable range falls back to def.
	if r.Remaining != nil && *r.Remaining >= -maxMillis && *r.Remaining <= maxMillis {
		b.Remaining = millis(*r.Remaining)
	}
	if r.Label != nil && *r.Label != "" {
		b.Label = *r.Label
	}
	if r.IsActive != nil {
		b.IsActive = *r.IsActive
	}
	return b
}

// decodeObject unmarshals data into v and rejects non-object JSON such as
// null, numbers or arrays.
func decodeObject(data []byte, v any) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe == nil {
		return ErrNotObject
	}
	return json.Unmarshal(data, v)
}

func millis(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func ptr[T any](v T) *T {
	return &v
}
