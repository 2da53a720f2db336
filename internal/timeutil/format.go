// Package timeutil converts between durations, the hour/minute/second form
// fields, and the strings shown on a bank display.
package timeutil

import (
	"fmt"
	"time"
)

// FormatTime renders a remaining duration for a bank display.
// The value is rounded up to the next whole second so the display never shows
// 00:00 while time remains. Returns MM:SS when there are no whole hours,
// HH:MM:SS otherwise. Negative values render as 00:00.
//
// Examples: 61s -> "01:01", 1h1m1s -> "01:01:01", 999ms -> "00:01"
func FormatTime(d time.Duration) string {
	totalSeconds := ceilSeconds(d)

	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours == 0 {
		return fmt.Sprintf("%02d:%02d", minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// FormatDurationShort formats a duration as a compact label such as "25m",
// "1h30m" or "4h". Used for preset names and CLI output.
func FormatDurationShort(d time.Duration) string {
	in := ToTimeInput(d)
	var s string
	if in.Hours > 0 {
		s += fmt.Sprintf("%dh", in.Hours)
	}
	if in.Minutes > 0 {
		s += fmt.Sprintf("%dm", in.Minutes)
	}
	if in.Seconds > 0 || s == "" {
		s += fmt.Sprintf("%ds", in.Seconds)
	}
	return s
}

// IsAtInitialValue reports whether a bank still holds exactly its configured
// duration. There is no tolerance.
func IsAtInitialValue(remaining, configured time.Duration) bool {
	return remaining == configured
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64((d + time.Second - 1) / time.Second)
}
