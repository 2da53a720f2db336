package timer

import "time"

// Tick charges the time elapsed since the last tick to the active bank.
//
// A paused state is returned unchanged. Elapsed time is clamped at zero when
// the clock has moved backwards, and the active bank is clamped at zero. When
// the active bank reaches zero the session pauses on the same transition.
// The inactive bank is never touched.
func Tick(s State, now time.Time) State {
	if s.IsPaused {
		return s
	}

	elapsed := now.Sub(s.LastTick)
	if elapsed < 0 {
		elapsed = 0
	}

	key := s.ActiveKey()
	bank := s.Bank(key)
	bank.Remaining -= elapsed
	if bank.Remaining < 0 {
		bank.Remaining = 0
	}

	s = s.withBank(key, bank)
	s.LastTick = now
	if bank.Remaining == 0 {
		s.IsPaused = true
	}
	return s
}

// TogglePause starts or pauses the session and restarts elapsed-time
// accounting from now. Once toggled, the session is no longer configurable
// until it is reset.
func TogglePause(s State, now time.Time) State {
	s.IsPaused = !s.IsPaused
	s.LastTick = now
	s.IsConfigurable = false
	return s
}

// SwitchActiveBank flips which bank is active. Both flags flip together so
// exactly one bank stays active. Works while paused or running; configurability
// is left as is.
func SwitchActiveBank(s State, now time.Time) State {
	s.Bank1.IsActive = !s.Bank1.IsActive
	s.Bank2.IsActive = !s.Bank2.IsActive
	s.LastTick = now
	return s
}

// SelectBank is the bank-click gesture: it switches to key only if that bank
// is inactive and the session is running. Anything else is a no-op.
func SelectBank(s State, key BankKey, now time.Time) State {
	if s.Bank(key).IsActive || s.IsPaused {
		return s
	}
	return SwitchActiveBank(s, now)
}

// Reset rebuilds a fresh session from the current configuration.
func Reset(s State, now time.Time) State {
	return NewState(s.Config, now)
}

// ApplyConfiguration validates cfg and, if both durations are valid, returns a
// fresh session built from it. Labels are normalized first. On failure the
// original state is returned together with a *ConfigError.
func ApplyConfiguration(s State, cfg Config, now time.Time) (State, error) {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return s, err
	}
	return NewState(cfg, now), nil
}
