package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xolan/breakruptcy/internal/clock"
	"github.com/xolan/breakruptcy/internal/persist"
	"github.com/xolan/breakruptcy/internal/storage"
	"github.com/xolan/breakruptcy/internal/timer"
	"github.com/xolan/breakruptcy/internal/timeutil"
)

var t0 = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

// newTestSession returns a session over an in-memory store whose saver only
// writes on Close.
func newTestSession(t *testing.T, store storage.Store) (*SessionService, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(t0)
	return newTestSessionWithClock(t, store, clk), clk
}

func newTestSessionWithClock(t *testing.T, store storage.Store, clk *clock.Manual) *SessionService {
	t.Helper()
	svc := NewSessionService(context.Background(), store, SessionOptions{
		Clock: clk,
		Saver: persist.SaverOptions{Debounce: time.Hour, Interval: time.Hour},
	})
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func smallConfig() timer.Config {
	return timer.Config{Bank1Duration: 5 * time.Second, Bank2Duration: 3 * time.Second, Bank1Label: "A", Bank2Label: "B"}
}

func TestSessionService_FreshStart(t *testing.T) {
	svc, _ := newTestSession(t, storage.NewMemoryStore())

	s := svc.CurrentState()
	if !s.IsPaused || !s.IsConfigurable || s.ActiveKey() != timer.Bank1 {
		t.Errorf("fresh session = %+v", s)
	}
	if s.Config != timer.DefaultConfig() {
		t.Errorf("Config = %+v, expected defaults", s.Config)
	}
	if svc.LoadReport().Resumed() {
		t.Error("fresh start should not report a resumed session")
	}
}

func TestSessionService_ChessClockScenario(t *testing.T) {
	svc, clk := newTestSession(t, storage.NewMemoryStore())
	if _, err := svc.ApplyConfiguration(smallConfig(), false); err != nil {
		t.Fatalf("ApplyConfiguration() unexpected error: %v", err)
	}

	svc.TogglePause()
	clk.Advance(2 * time.Second)
	s := svc.Tick()
	if s.Bank1.Remaining != 3*time.Second {
		t.Fatalf("Bank1.Remaining = %v, expected 3s", s.Bank1.Remaining)
	}

	s = svc.SwitchActiveBank()
	if s.ActiveKey() != timer.Bank2 {
		t.Fatalf("ActiveKey() = %v, expected bank2", s.ActiveKey())
	}

	clk.Advance(4 * time.Second)
	s = svc.Tick()
	if s.Bank2.Remaining != 0 || !s.IsPaused {
		t.Errorf("bank2 should expire and pause, got %v paused=%v", s.Bank2.Remaining, s.IsPaused)
	}
	if s.Bank1.Remaining != 3*time.Second {
		t.Errorf("inactive bank changed: %v", s.Bank1.Remaining)
	}
}

func TestSessionService_TickWhilePausedIsNoOp(t *testing.T) {
	svc, clk := newTestSession(t, storage.NewMemoryStore())
	before := svc.CurrentState()

	clk.Advance(time.Minute)
	if after := svc.Tick(); after != before {
		t.Errorf("Tick() while paused changed state: %+v", after)
	}
}

func TestSessionService_PauseChargesElapsedTime(t *testing.T) {
	svc, clk := newTestSession(t, storage.NewMemoryStore())

	svc.TogglePause()
	clk.Advance(1500 * time.Millisecond)
	s := svc.TogglePause()

	if !s.IsPaused {
		t.Fatal("expected paused")
	}
	if s.Bank1.Remaining != timer.DefaultBank1Duration-1500*time.Millisecond {
		t.Errorf("Bank1.Remaining = %v, expected elapsed time charged", s.Bank1.Remaining)
	}
	if s.IsConfigurable {
		t.Error("a started session should not be configurable")
	}
}

func TestSessionService_PauseAfterExpiryStaysPaused(t *testing.T) {
	svc, clk := newTestSession(t, storage.NewMemoryStore())
	_, _ = svc.ApplyConfiguration(smallConfig(), false)

	svc.TogglePause()
	clk.Advance(10 * time.Second)
	s := svc.TogglePause()

	if !s.IsPaused || s.Bank1.Remaining != 0 {
		t.Errorf("expected expired and paused, got %v paused=%v", s.Bank1.Remaining, s.IsPaused)
	}
}

func TestSessionService_SwitchChargesOutgoingBank(t *testing.T) {
	svc, clk := newTestSession(t, storage.NewMemoryStore())

	svc.TogglePause()
	clk.Advance(10 * time.Second)
	s := svc.SwitchActiveBank()

	if s.Bank1.Remaining != timer.DefaultBank1Duration-10*time.Second {
		t.Errorf("Bank1.Remaining = %v, expected 10s charged before switching", s.Bank1.Remaining)
	}
	if s.ActiveKey() != timer.Bank2 {
		t.Errorf("ActiveKey() = %v, expected bank2", s.ActiveKey())
	}

	clk.Advance(time.Second)
	s = svc.Tick()
	if s.Bank2.Remaining != timer.DefaultBank2Duration-time.Second {
		t.Errorf("Bank2.Remaining = %v, expected 1s charged", s.Bank2.Remaining)
	}
}

func TestSessionService_SelectBank(t *testing.T) {
	svc, _ := newTestSession(t, storage.NewMemoryStore())

	// Paused: no-op.
	if s := svc.SelectBank(timer.Bank2); s.ActiveKey() != timer.Bank1 {
		t.Error("SelectBank while paused should not switch")
	}

	svc.TogglePause()
	if s := svc.SelectBank(timer.Bank1); s.ActiveKey() != timer.Bank1 {
		t.Error("selecting the active bank should not switch")
	}
	if s := svc.SelectBank(timer.Bank2); s.ActiveKey() != timer.Bank2 {
		t.Error("selecting the inactive bank while running should switch")
	}
}

func TestSessionService_Reset(t *testing.T) {
	store := storage.NewMemoryStore()
	svc, clk := newTestSession(t, store)

	svc.TogglePause()
	clk.Advance(time.Minute)
	svc.SwitchActiveBank()
	s := svc.Reset()

	if s != timer.NewState(timer.DefaultConfig(), clk.Now()) {
		t.Errorf("Reset() = %+v, expected a fresh state", s)
	}
	if _, err := store.Get(context.Background(), persist.SessionKey); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Reset should clear the saved session, Get() error = %v", err)
	}
}

func TestSessionService_ApplyConfiguration(t *testing.T) {
	store := storage.NewMemoryStore()
	svc, _ := newTestSession(t, store)

	s, err := svc.ApplyConfiguration(timer.Config{Bank1Duration: time.Hour, Bank2Duration: 10 * time.Minute, Bank1Label: " Focus "}, false)
	if err != nil {
		t.Fatalf("ApplyConfiguration() unexpected error: %v", err)
	}
	if s.Bank1.Label != "Focus" || s.Bank2.Label != timer.DefaultBank2Label {
		t.Errorf("labels = %q/%q", s.Bank1.Label, s.Bank2.Label)
	}
	if s.Bank1.Remaining != time.Hour || !s.IsConfigurable {
		t.Errorf("expected a fresh configurable session, got %+v", s)
	}

	cfg, status := persist.NewAdapter(store, nil).LoadConfig(context.Background())
	if status != persist.RecordLoaded || cfg.Bank1Duration != time.Hour {
		t.Errorf("persisted config = %+v (%v)", cfg, status)
	}
}

func TestSessionService_ApplyConfigurationInvalid(t *testing.T) {
	svc, _ := newTestSession(t, storage.NewMemoryStore())
	before := svc.CurrentState()

	_, err := svc.ApplyConfiguration(timer.Config{Bank1Duration: 0, Bank2Duration: 100 * time.Hour}, false)

	var cfgErr *timer.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *timer.ConfigError, got %v", err)
	}
	if !errors.Is(cfgErr.Bank1, timeutil.ErrZeroDuration) {
		t.Errorf("Bank1 error = %v, expected zero duration", cfgErr.Bank1)
	}
	if !errors.Is(cfgErr.Bank2, timeutil.ErrInvalidTimeInput) {
		t.Errorf("Bank2 error = %v, expected invalid input", cfgErr.Bank2)
	}
	if svc.CurrentState() != before {
		t.Error("invalid configuration must not change the state")
	}
}

func TestSessionService_ApplyConfigurationRequiresConfigurable(t *testing.T) {
	svc, _ := newTestSession(t, storage.NewMemoryStore())
	svc.TogglePause()

	if _, err := svc.ApplyConfiguration(smallConfig(), false); !errors.Is(err, timer.ErrNotConfigurable) {
		t.Errorf("ApplyConfiguration() on a started session error = %v, expected ErrNotConfigurable", err)
	}

	s, err := svc.ApplyConfiguration(smallConfig(), true)
	if err != nil {
		t.Fatalf("forced ApplyConfiguration() unexpected error: %v", err)
	}
	if s.Bank1.Remaining != 5*time.Second || !s.IsPaused {
		t.Errorf("forced configuration should start fresh, got %+v", s)
	}
}

func TestSessionService_ApplyPreset(t *testing.T) {
	svc, _ := newTestSession(t, storage.NewMemoryStore())
	_, _ = svc.ApplyConfiguration(timer.Config{Bank1Duration: time.Minute, Bank2Duration: time.Minute, Bank1Label: "Code", Bank2Label: "Rest"}, false)

	s, preset, err := svc.ApplyPreset("deep", false)
	if err != nil {
		t.Fatalf("ApplyPreset() unexpected error: %v", err)
	}
	if preset.Name != "Deep Work (90/15)" {
		t.Errorf("preset = %q", preset.Name)
	}
	if s.Config.Bank1Duration != 90*time.Minute || s.Config.Bank2Duration != 15*time.Minute {
		t.Errorf("durations = %v/%v", s.Config.Bank1Duration, s.Config.Bank2Duration)
	}
	if s.Config.Bank1Label != "Code" || s.Config.Bank2Label != "Rest" {
		t.Errorf("labels should be kept, got %q/%q", s.Config.Bank1Label, s.Config.Bank2Label)
	}

	if _, _, err := svc.ApplyPreset("nope", false); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("ApplyPreset(nope) error = %v, expected ErrUnknownPreset", err)
	}
}

func TestSessionService_CloseFlushesAndRestores(t *testing.T) {
	store := storage.NewMemoryStore()
	svc, clk := newTestSession(t, store)

	svc.TogglePause()
	clk.Advance(30 * time.Second)
	svc.Tick()
	if err := svc.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}

	// A later process picks up where this one stopped, without charging downtime.
	clk.Advance(time.Hour)
	restored := newTestSessionWithClock(t, store, clk)
	s := restored.CurrentState()

	if !restored.LoadReport().Resumed() {
		t.Fatal("expected the session to be resumed")
	}
	if s.Bank1.Remaining != timer.DefaultBank1Duration-30*time.Second {
		t.Errorf("Bank1.Remaining = %v, expected 30s charged", s.Bank1.Remaining)
	}
	if s.IsPaused {
		t.Error("a running session should resume running")
	}
	if !s.LastTick.Equal(clk.Now()) {
		t.Errorf("LastTick = %v, expected %v", s.LastTick, clk.Now())
	}
}

func TestSessionService_ClockBackwardsIsNotCharged(t *testing.T) {
	svc, clk := newTestSession(t, storage.NewMemoryStore())

	svc.TogglePause()
	clk.Advance(-time.Minute)
	s := svc.Tick()

	if s.Bank1.Remaining != timer.DefaultBank1Duration {
		t.Errorf("Bank1.Remaining = %v, expected no change", s.Bank1.Remaining)
	}
}
