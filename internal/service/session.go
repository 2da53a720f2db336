package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/xolan/breakruptcy/internal/clock"
	"github.com/xolan/breakruptcy/internal/logging"
	"github.com/xolan/breakruptcy/internal/persist"
	"github.com/xolan/breakruptcy/internal/storage"
	"github.com/xolan/breakruptcy/internal/timer"
)

// ErrUnknownPreset is returned by ApplyPreset when no preset matches.
var ErrUnknownPreset = errors.New("unknown preset")

// persistTimeout bounds synchronous record writes.
const persistTimeout = 5 * time.Second

// SessionOptions configures a SessionService. Zero values use defaults.
type SessionOptions struct {
	Clock   clock.Clock
	Logger  hclog.Logger
	Presets []timer.Preset
	Saver   persist.SaverOptions
}

// SessionService owns the running session. It restores the session from the
// store on creation, applies transitions under a mutex and hands every new
// snapshot to the saver. Close must be called to stop the saver and flush.
type SessionService struct {
	mu      sync.Mutex
	state   timer.State
	closed  bool
	clock   clock.Clock
	logger  hclog.Logger
	presets []timer.Preset
	adapter *persist.Adapter
	saver   *persist.Saver
	report  persist.LoadReport
}

// NewSessionService restores the session held in store.
func NewSessionService(ctx context.Context, store storage.Store, opts SessionOptions) *SessionService {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	logger := logging.OrNull(opts.Logger)
	if opts.Presets == nil {
		opts.Presets = timer.BuiltinPresets()
	}

	adapter := persist.NewAdapter(store, logger.Named("persist"))
	state, report := adapter.Load(ctx, opts.Clock.Now())
	logger.Info("session loaded", "config", report.Config, "session", report.Session, "status", state.StatusText())

	saverOpts := opts.Saver
	if saverOpts.Logger == nil {
		saverOpts.Logger = logger.Named("persist")
	}

	return &SessionService{
		state:   state,
		clock:   opts.Clock,
		logger:  logger,
		presets: opts.Presets,
		adapter: adapter,
		saver:   persist.NewSaver(adapter, state, saverOpts),
		report:  report,
	}
}

// CurrentState returns the current snapshot.
func (s *SessionService) CurrentState() timer.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LoadReport describes what was restored at startup.
func (s *SessionService) LoadReport() persist.LoadReport {
	return s.report
}

// Presets returns the presets offered for this session.
func (s *SessionService) Presets() []timer.Preset {
	return s.presets
}

// Tick charges elapsed time to the active bank. A paused session is left
// alone and nothing is saved.
func (s *SessionService) Tick() timer.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.IsPaused {
		return s.state
	}
	next := timer.Tick(s.state, s.clock.Now())
	if next.IsPaused {
		s.logger.Info("bank expired", "bank", next.ActiveKey(), "label", next.ActiveBank().Label)
	}
	return s.commitLocked(next)
}

// TogglePause starts or pauses the session. Time elapsed while running is
// charged before pausing; if that exhausts the active bank, the session is
// already paused and the toggle is not applied again.
func (s *SessionService) TogglePause() timer.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if !s.state.IsPaused {
		settled := timer.Tick(s.state, now)
		if settled.IsPaused {
			return s.commitLocked(settled)
		}
		s.state = settled
	}

	next := timer.TogglePause(s.state, now)
	s.logger.Debug("toggled", "paused", next.IsPaused, "active", next.ActiveKey())
	return s.commitLocked(next)
}

// SwitchActiveBank hands the countdown to the other bank.
func (s *SessionService) SwitchActiveBank() timer.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	next := timer.SwitchActiveBank(s.settleLocked(now), now)
	s.logger.Debug("switched", "active", next.ActiveKey())
	return s.commitLocked(next)
}

// SelectBank switches to key if it is inactive and the session is running.
func (s *SessionService) SelectBank(key timer.BankKey) timer.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	next := timer.SelectBank(s.settleLocked(now), key, now)
	if next == s.state {
		return s.state
	}
	return s.commitLocked(next)
}

// Reset starts over from the current configuration and clears the saved
// session.
func (s *SessionService) Reset() timer.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := timer.Reset(s.state, s.clock.Now())
	s.state = next
	s.saver.Discard(next)
	s.logger.Info("session reset")
	return next
}

// ApplyConfiguration replaces the configuration and starts a fresh session
// from it. Unless force is set, the session must still be configurable.
// Validation failures return a *timer.ConfigError and leave the state as is.
func (s *SessionService) ApplyConfiguration(cfg timer.Config, force bool) (timer.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !force && !s.state.IsConfigurable {
		return s.state, timer.ErrNotConfigurable
	}

	next, err := timer.ApplyConfiguration(s.state, cfg, s.clock.Now())
	if err != nil {
		return s.state, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.adapter.SaveConfig(ctx, next.Config); err != nil {
		return s.state, fmt.Errorf("failed to save configuration: %w", err)
	}

	s.state = next
	s.saver.Discard(next)
	s.logger.Info("configuration applied",
		"bank1", next.Config.Bank1Duration, "bank2", next.Config.Bank2Duration,
		"label1", next.Config.Bank1Label, "label2", next.Config.Bank2Label)
	return next, nil
}

// ApplyPreset applies the named preset's durations, keeping the current labels.
func (s *SessionService) ApplyPreset(name string, force bool) (timer.State, timer.Preset, error) {
	preset, ok := timer.FindPreset(s.presets, name)
	if !ok {
		return s.CurrentState(), timer.Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	cfg := preset.Apply(s.CurrentState().Config)
	state, err := s.ApplyConfiguration(cfg, force)
	return state, preset, err
}

// Close stops the saver after a final flush. The session stays readable.
func (s *SessionService) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	state := s.state
	s.mu.Unlock()

	err := s.saver.Close()
	s.logger.Info("session closed", "status", state.StatusText())
	return err
}

// settleLocked charges elapsed time before a user transition so the
// transition starts from an up-to-date state.
func (s *SessionService) settleLocked(now time.Time) timer.State {
	if s.state.IsPaused {
		return s.state
	}
	return timer.Tick(s.state, now)
}

// commitLocked stores next as the current state and schedules a save.
func (s *SessionService) commitLocked(next timer.State) timer.State {
	s.state = next
	if !s.closed {
		s.saver.Save(next)
	}
	return next
}
