package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/xolan/breakruptcy/internal/logging"
	"github.com/xolan/breakruptcy/internal/storage"
	"github.com/xolan/breakruptcy/internal/timer"
)

// RecordStatus describes what Load found under a key.
type RecordStatus int

const (
	// RecordMissing means the key had no value
	RecordMissing RecordStatus = iota
	// RecordLoaded means the record was read and used
	RecordLoaded
	// RecordDiscarded means the record was unreadable or invalid and was deleted
	RecordDiscarded
)

func (s RecordStatus) String() string {
	switch s {
	case RecordMissing:
		return "missing"
	case RecordLoaded:
		return "loaded"
	case RecordDiscarded:
		return "discarded"
	}
	return "unknown"
}

// LoadReport summarizes a Load.
type LoadReport struct {
	Config  RecordStatus
	Session RecordStatus
	// Repairs lists fields of the session record that had to be corrected.
	Repairs []string
}

// Resumed reports whether a saved session was restored.
func (r LoadReport) Resumed() bool {
	return r.Session == RecordLoaded
}

// Adapter reads and writes session and configuration records.
type Adapter struct {
	store  storage.Store
	logger hclog.Logger
}

// NewAdapter returns an adapter over store.
func NewAdapter(store storage.Store, logger hclog.Logger) *Adapter {
	return &Adapter{store: store, logger: logging.OrNull(logger)}
}

// Load restores the session at startup. It never fails: unreadable or invalid
// records are logged, deleted and replaced by defaults.
//
// The configuration record is read first and falls back to
// timer.DefaultConfig. The session record is then layered over a fresh
// session for that configuration. A restored session always has LastTick set
// to now, so time spent while the program was not running is never charged,
// and IsConfigurable is recomputed from IsPaused and the bank values.
func (a *Adapter) Load(ctx context.Context, now time.Time) (timer.State, LoadReport) {
	var report LoadReport

	cfg, status := a.LoadConfig(ctx)
	report.Config = status

	data, err := a.store.Get(ctx, SessionKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			a.logger.Warn("session record unreadable, starting fresh", "key", SessionKey, "error", err)
			report.Session = RecordDiscarded
		}
		return timer.NewState(cfg, now), report
	}

	var rec SessionRecord
	if err := decodeObject(data, &rec); err != nil {
		a.logger.Warn("discarded corrupt record", "key", SessionKey, "error", err)
		a.discard(ctx, SessionKey)
		report.Session = RecordDiscarded
		return timer.NewState(cfg, now), report
	}

	s, repairs := rehydrate(rec.State(cfg, now), now)
	for _, r := range repairs {
		a.logger.Warn("repaired session record", "key", SessionKey, "field", r)
	}
	report.Session = RecordLoaded
	report.Repairs = repairs
	a.logger.Debug("session restored", "active", s.ActiveKey(), "paused", s.IsPaused,
		"bank1", s.Bank1.Remaining, "bank2", s.Bank2.Remaining)
	return s, report
}

// LoadConfig reads the configuration record. A missing, corrupt or invalid
// record yields timer.DefaultConfig.
func (a *Adapter) LoadConfig(ctx context.Context) (timer.Config, RecordStatus) {
	def := timer.DefaultConfig()

	data, err := a.store.Get(ctx, ConfigKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return def, RecordMissing
		}
		a.logger.Warn("config record unreadable, using defaults", "key", ConfigKey, "error", err)
		return def, RecordDiscarded
	}

	var rec ConfigRecord
	if err := decodeObject(data, &rec); err != nil {
		a.logger.Warn("discarded corrupt record", "key", ConfigKey, "error", err)
		a.discard(ctx, ConfigKey)
		return def, RecordDiscarded
	}

	cfg, err := rec.Config(def)
	if err == nil {
		cfg = cfg.Normalize()
		err = cfg.Validate()
	}
	if err != nil {
		a.logger.Warn("discarded invalid config record", "key", ConfigKey, "error", err)
		a.discard(ctx, ConfigKey)
		return def, RecordDiscarded
	}
	return cfg, RecordLoaded
}

// SaveNow writes the session record immediately.
func (a *Adapter) SaveNow(ctx context.Context, s timer.State) error {
	data, err := json.Marshal(NewSessionRecord(s))
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := a.store.Set(ctx, SessionKey, data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// ClearSession deletes the session record, so the next Load starts fresh.
func (a *Adapter) ClearSession(ctx context.Context) error {
	if err := a.store.Delete(ctx, SessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// SaveConfig writes the configuration record.
func (a *Adapter) SaveConfig(ctx context.Context, cfg timer.Config) error {
	data, err := json.Marshal(NewConfigRecord(cfg))
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := a.store.Set(ctx, ConfigKey, data); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

func (a *Adapter) discard(ctx context.Context, key string) {
	if err := a.store.Delete(ctx, key); err != nil {
		a.logger.Error("failed to delete record", "key", key, "error", err)
	}
}

// rehydrate applies the restart rules to a decoded session and returns the
// names of the fields it had to correct.
func rehydrate(s timer.State, now time.Time) (timer.State, []string) {
	var repairs []string

	if s.Bank1.Remaining < 0 {
		s.Bank1.Remaining = 0
		repairs = append(repairs, "bank1.remaining")
	}
	if s.Bank2.Remaining < 0 {
		s.Bank2.Remaining = 0
		repairs = append(repairs, "bank2.remaining")
	}
	if s.Bank1.IsActive == s.Bank2.IsActive {
		s.Bank1.IsActive = true
		s.Bank2.IsActive = false
		repairs = append(repairs, "isActive")
	}

	s.LastTick = now
	s.IsConfigurable = s.IsPaused && s.AtInitialValues()
	return s, repairs
}
