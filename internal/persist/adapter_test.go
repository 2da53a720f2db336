package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/xolan/breakruptcy/internal/logging"
	"github.com/xolan/breakruptcy/internal/storage"
	"github.com/xolan/breakruptcy/internal/timer"
)

var (
	t0  = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	ctx = context.Background()
)

func newTestAdapter(t *testing.T) (*Adapter, *storage.MemoryStore, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	store := storage.NewMemoryStore()
	return NewAdapter(store, logging.NewWithWriter(&logs, hclog.Debug, false)), store, &logs
}

func putRaw(t *testing.T, store storage.Store, key, value string) {
	t.Helper()
	if err := store.Set(ctx, key, []byte(value)); err != nil {
		t.Fatalf("Set(%s) unexpected error: %v", key, err)
	}
}

func TestLoad_EmptyStore(t *testing.T) {
	a, _, _ := newTestAdapter(t)

	s, report := a.Load(ctx, t0)

	want := timer.NewState(timer.DefaultConfig(), t0)
	if s != want {
		t.Errorf("Load() on empty store = %+v, expected fresh default state", s)
	}
	if report.Config != RecordMissing || report.Session != RecordMissing {
		t.Errorf("report = %+v, expected both missing", report)
	}
	if report.Resumed() {
		t.Error("Resumed() should be false")
	}
}

func TestSaveNow_WritesDocumentedFormat(t *testing.T) {
	a, store, _ := newTestAdapter(t)
	s := timer.NewState(timer.DefaultConfig(), t0)
	s.Bank1.Remaining = 90 * time.Second

	if err := a.SaveNow(ctx, s); err != nil {
		t.Fatalf("SaveNow() unexpected error: %v", err)
	}

	data, _ := store.Get(ctx, SessionKey)
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("record is not JSON: %v", err)
	}
	for _, key := range []string{"bank1", "bank2", "isPaused", "lastTick", "isConfigurable"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("record missing %q: %s", key, data)
		}
	}
	bank1 := raw["bank1"].(map[string]any)
	if bank1["remaining"] != float64(90000) {
		t.Errorf("bank1.remaining = %v, expected 90000", bank1["remaining"])
	}
	if bank1["label"] != "Work" || bank1["isActive"] != true {
		t.Errorf("bank1 = %v", bank1)
	}
	if raw["lastTick"] != float64(t0.UnixMilli()) {
		t.Errorf("lastTick = %v, expected %d", raw["lastTick"], t0.UnixMilli())
	}
	// Inactive bank keeps an explicit false.
	if raw["bank2"].(map[string]any)["isActive"] != false {
		t.Errorf("bank2.isActive should be false: %s", data)
	}
}

func TestSaveConfig_WritesDocumentedFormat(t *testing.T) {
	a, store, _ := newTestAdapter(t)
	cfg := timer.Config{Bank1Duration: 5 * time.Second, Bank2Duration: 3 * time.Second, Bank1Label: "A", Bank2Label: "B"}

	if err := a.SaveConfig(ctx, cfg); err != nil {
		t.Fatalf("SaveConfig() unexpected error: %v", err)
	}
	data, _ := store.Get(ctx, ConfigKey)
	expected := `{"bank1Duration":5000,"bank2Duration":3000,"bank1Label":"A","bank2Label":"B"}`
	if string(data) != expected {
		t.Errorf("config record = %s, expected %s", data, expected)
	}
}

func TestLoad_RoundTripRestoresBanks(t *testing.T) {
	a, _, _ := newTestAdapter(t)
	cfg := timer.Config{Bank1Duration: 5 * time.Second, Bank2Duration: 3 * time.Second, Bank1Label: "A", Bank2Label: "B"}
	_ = a.SaveConfig(ctx, cfg)

	s := timer.NewState(cfg, t0)
	s = timer.TogglePause(s, t0)
	s = timer.Tick(s, t0.Add(2*time.Second))
	s = timer.SwitchActiveBank(s, t0.Add(2*time.Second))
	_ = a.SaveNow(ctx, s)

	restart := t0.Add(time.Hour)
	got, report := a.Load(ctx, restart)

	if !report.Resumed() || report.Config != RecordLoaded {
		t.Fatalf("report = %+v", report)
	}
	if got.Bank1.Remaining != 3*time.Second || got.Bank2.Remaining != 3*time.Second {
		t.Errorf("banks = %v/%v, expected 3s/3s", got.Bank1.Remaining, got.Bank2.Remaining)
	}
	if got.ActiveKey() != timer.Bank2 {
		t.Errorf("ActiveKey() = %v, expected bank2", got.ActiveKey())
	}
	if got.IsPaused {
		t.Error("running session should stay running")
	}
	if !got.LastTick.Equal(restart) {
		t.Errorf("LastTick = %v, expected reset to %v", got.LastTick, restart)
	}
	if got.Config != cfg {
		t.Errorf("Config = %+v, expected %+v", got.Config, cfg)
	}
}

func TestLoad_DowntimeIsNotCharged(t *testing.T) {
	a, _, _ := newTestAdapter(t)
	s := timer.TogglePause(timer.NewState(timer.DefaultConfig(), t0), t0)
	_ = a.SaveNow(ctx, s)

	restart := t0.Add(24 * time.Hour)
	got, _ := a.Load(ctx, restart)
	got = timer.Tick(got, restart.Add(time.Second))

	if got.Bank1.Remaining != timer.DefaultBank1Duration-time.Second {
		t.Errorf("Bank1.Remaining = %v, expected only 1s charged", got.Bank1.Remaining)
	}
}

func TestLoad_CorruptSessionFallsBackToFresh(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: `{"bank1":`},
		{name: "null", raw: `null`},
		{name: "array", raw: `[1,2,3]`},
		{name: "wrong type", raw: `{"isPaused":"yes"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, store, logs := newTestAdapter(t)
			putRaw(t, store, SessionKey, tt.raw)

			s, report := a.Load(ctx, t0)

			if s != timer.NewState(timer.DefaultConfig(), t0) {
				t.Errorf("Load() = %+v, expected fresh state", s)
			}
			if report.Session != RecordDiscarded {
				t.Errorf("report.Session = %v, expected discarded", report.Session)
			}
			if _, err := store.Get(ctx, SessionKey); !errors.Is(err, storage.ErrNotFound) {
				t.Errorf("corrupt record should be deleted, Get() error = %v", err)
			}
			if !strings.Contains(logs.String(), "[WARN]") {
				t.Errorf("expected a warning in the log, got: %s", logs.String())
			}
		})
	}
}

func TestLoad_CorruptConfigFallsBackToDefaults(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: `bank1Duration=5`},
		{name: "zero duration", raw: `{"bank1Duration":0,"bank2Duration":3000}`},
		{name: "over maximum", raw: `{"bank1Duration":360000000,"bank2Duration":3000}`},
		{name: "wraps to small value", raw: `{"bank1Duration":18446744078709,"bank2Duration":3000}`},
		{name: "negative", raw: `{"bank1Duration":5000,"bank2Duration":-18446744078709}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, store, _ := newTestAdapter(t)
			putRaw(t, store, ConfigKey, tt.raw)

			cfg, status := a.LoadConfig(ctx)
			if cfg != timer.DefaultConfig() {
				t.Errorf("LoadConfig() = %+v, expected defaults", cfg)
			}
			if status != RecordDiscarded {
				t.Errorf("status = %v, expected discarded", status)
			}
		})
	}
}

func TestLoad_PartialRecordsFallBackPerField(t *testing.T) {
	a, store, _ := newTestAdapter(t)
	putRaw(t, store, ConfigKey, `{"bank1Duration":600000,"bank2Label":"  "}`)
	putRaw(t, store, SessionKey, `{"bank1":{"remaining":120000},"isPaused":true}`)

	s, report := a.Load(ctx, t0)

	if s.Config.Bank1Duration != 10*time.Minute {
		t.Errorf("Bank1Duration = %v, expected 10m", s.Config.Bank1Duration)
	}
	if s.Config.Bank2Duration != timer.DefaultBank2Duration {
		t.Errorf("Bank2Duration = %v, expected default", s.Config.Bank2Duration)
	}
	if s.Config.Bank2Label != timer.DefaultBank2Label {
		t.Errorf("blank label should normalize to default, got %q", s.Config.Bank2Label)
	}
	if s.Bank1.Remaining != 2*time.Minute {
		t.Errorf("Bank1.Remaining = %v, expected 2m", s.Bank1.Remaining)
	}
	if s.Bank1.Label != timer.DefaultBank1Label {
		t.Errorf("Bank1.Label = %q, expected config label", s.Bank1.Label)
	}
	if s.Bank2.Remaining != timer.DefaultBank2Duration {
		t.Errorf("missing bank2 should be full, got %v", s.Bank2.Remaining)
	}
	if s.ActiveKey() != timer.Bank1 {
		t.Errorf("ActiveKey() = %v, expected bank1", s.ActiveKey())
	}
	if s.IsConfigurable {
		t.Error("partially spent session should not be configurable")
	}
	if len(report.Repairs) != 0 {
		t.Errorf("Repairs = %v, expected none", report.Repairs)
	}
}

func TestLoad_HugeRemainingFallsBackToFull(t *testing.T) {
	a, store, _ := newTestAdapter(t)
	putRaw(t, store, SessionKey,
		`{"bank1":{"remaining":18446744078709,"isActive":true},"bank2":{"remaining":-18446744078709},"isPaused":true}`)

	s, _ := a.Load(ctx, t0)

	if s.Bank1.Remaining != timer.DefaultBank1Duration {
		t.Errorf("Bank1.Remaining = %v, expected %v", s.Bank1.Remaining, timer.DefaultBank1Duration)
	}
	if s.Bank2.Remaining != timer.DefaultBank2Duration {
		t.Errorf("Bank2.Remaining = %v, expected %v", s.Bank2.Remaining, timer.DefaultBank2Duration)
	}
}

func TestLoad_Repairs(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantRepair string
		wantBank1  time.Duration
		wantActive timer.BankKey
	}{
		{
			name:       "negative remaining clamped",
			raw:        `{"bank1":{"remaining":-500,"isActive":true},"bank2":{"isActive":false},"isPaused":true}`,
			wantRepair: "bank1.remaining",
			wantBank1:  0,
			wantActive: timer.Bank1,
		},
		{
			name:       "both active",
			raw:        `{"bank1":{"isActive":true},"bank2":{"isActive":true},"isPaused":true}`,
			wantRepair: "isActive",
			wantBank1:  timer.DefaultBank1Duration,
			wantActive: timer.Bank1,
		},
		{
			name:       "neither active",
			raw:        `{"bank1":{"isActive":false},"bank2":{"isActive":false},"isPaused":true}`,
			wantRepair: "isActive",
			wantBank1:  timer.DefaultBank1Duration,
			wantActive: timer.Bank1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, store, _ := newTestAdapter(t)
			putRaw(t, store, SessionKey, tt.raw)

			s, report := a.Load(ctx, t0)

			if s.Bank1.Remaining != tt.wantBank1 {
				t.Errorf("Bank1.Remaining = %v, expected %v", s.Bank1.Remaining, tt.wantBank1)
			}
			if s.ActiveKey() != tt.wantActive || s.Bank1.IsActive == s.Bank2.IsActive {
				t.Errorf("active flags = %v/%v", s.Bank1.IsActive, s.Bank2.IsActive)
			}
			found := false
			for _, r := range report.Repairs {
				if r == tt.wantRepair {
					found = true
				}
			}
			if !found {
				t.Errorf("Repairs = %v, expected %q", report.Repairs, tt.wantRepair)
			}
		})
	}
}

func TestLoad_RecomputesConfigurable(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected bool
	}{
		{
			name:     "paused at initial values",
			raw:      `{"bank1":{"remaining":1500000,"isActive":true},"bank2":{"remaining":300000,"isActive":false},"isPaused":true,"isConfigurable":false}`,
			expected: true,
		},
		{
			name:     "running at initial values",
			raw:      `{"bank1":{"remaining":1500000,"isActive":true},"bank2":{"remaining":300000,"isActive":false},"isPaused":false,"isConfigurable":true}`,
			expected: false,
		},
		{
			name:     "paused after spending time",
			raw:      `{"bank1":{"remaining":1499000,"isActive":true},"bank2":{"remaining":300000,"isActive":false},"isPaused":true,"isConfigurable":true}`,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, store, _ := newTestAdapter(t)
			putRaw(t, store, SessionKey, tt.raw)

			s, _ := a.Load(ctx, t0)
			if s.IsConfigurable != tt.expected {
				t.Errorf("IsConfigurable = %v, expected %v", s.IsConfigurable, tt.expected)
			}
		})
	}
}

func TestClearSession(t *testing.T) {
	a, store, _ := newTestAdapter(t)
	_ = a.SaveNow(ctx, timer.NewState(timer.DefaultConfig(), t0))

	if err := a.ClearSession(ctx); err != nil {
		t.Fatalf("ClearSession() unexpected error: %v", err)
	}
	if _, err := store.Get(ctx, SessionKey); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("session record should be gone, Get() error = %v", err)
	}
	// Clearing twice is fine.
	if err := a.ClearSession(ctx); err != nil {
		t.Errorf("second ClearSession() unexpected error: %v", err)
	}
}

func TestRecordStatus_String(t *testing.T) {
	if RecordDiscarded.String() != "discarded" || RecordMissing.String() != "missing" || RecordLoaded.String() != "loaded" {
		t.Error("unexpected RecordStatus strings")
	}
}
