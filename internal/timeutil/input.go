package timeutil

import (
	"errors"
	"fmt"
	"time"
)

// Field limits for a TimeInput.
const (
	MaxHours   = 99
	MaxMinutes = 59
	MaxSeconds = 59
)

// MaxDuration is the largest duration a TimeInput can express (99:59:59).
const MaxDuration = MaxHours*time.Hour + MaxMinutes*time.Minute + MaxSeconds*time.Second

var (
	// ErrInvalidTimeInput is matched by every validation failure.
	ErrInvalidTimeInput = errors.New("invalid time input")
	// ErrZeroDuration is returned when hours, minutes and seconds are all zero.
	ErrZeroDuration = fmt.Errorf("%w: duration must be greater than zero", ErrInvalidTimeInput)
)

// TimeInput is the hours/minutes/seconds triple edited in the configure form.
// It is never persisted.
type TimeInput struct {
	Hours   int
	Minutes int
	Seconds int
}

// RangeError reports a TimeInput field outside its allowed range.
type RangeError struct {
	Field string
	Value int
	Max   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s must be between 0 and %d (got %d)", e.Field, e.Max, e.Value)
}

// Is lets errors.Is(err, ErrInvalidTimeInput) match a *RangeError.
func (e *RangeError) Is(target error) bool {
	return target == ErrInvalidTimeInput
}

// ToTimeInput splits d into whole hours, minutes and seconds.
// Sub-second remainders are dropped (floor). Negative durations yield zero.
func ToTimeInput(d time.Duration) TimeInput {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return TimeInput{
		Hours:   total / 3600,
		Minutes: (total % 3600) / 60,
		Seconds: total % 60,
	}
}

// Duration converts the input back into a duration.
func (in TimeInput) Duration() time.Duration {
	return time.Duration(in.Hours)*time.Hour +
		time.Duration(in.Minutes)*time.Minute +
		time.Duration(in.Seconds)*time.Second
}

// Validate checks each field's range, then rejects an all-zero input.
// Range failures are reported before the zero check.
func (in TimeInput) Validate() error {
	if in.Hours < 0 || in.Hours > MaxHours {
		return &RangeError{Field: "hours", Value: in.Hours, Max: MaxHours}
	}
	if in.Minutes < 0 || in.Minutes > MaxMinutes {
		return &RangeError{Field: "minutes", Value: in.Minutes, Max: MaxMinutes}
	}
	if in.Seconds < 0 || in.Seconds > MaxSeconds {
		return &RangeError{Field: "seconds", Value: in.Seconds, Max: MaxSeconds}
	}
	if in.Hours == 0 && in.Minutes == 0 && in.Seconds == 0 {
		return ErrZeroDuration
	}
	return nil
}

// Clamp forces each field into its allowed range, the way the form treats
// typed values.
func (in TimeInput) Clamp() TimeInput {
	return TimeInput{
		Hours:   clamp(in.Hours, MaxHours),
		Minutes: clamp(in.Minutes, MaxMinutes),
		Seconds: clamp(in.Seconds, MaxSeconds),
	}
}

// ValidateDuration validates a configured duration by way of its TimeInput.
func ValidateDuration(d time.Duration) error {
	if d > MaxDuration {
		return &RangeError{Field: "hours", Value: int(d / time.Hour), Max: MaxHours}
	}
	return ToTimeInput(d).Validate()
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
