package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// clockPattern matches HH:MM:SS or MM:SS (e.g., "1:30:00", "25:00")
var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{1,2})(?::(\d{1,2}))?$`)

// unitPattern matches unit durations such as "1h30m", "45m", "90s", "1h2m3s"
var unitPattern = regexp.MustCompile(`^(?:(\d+)h)?(?:(\d+)m)?(?:(\d+)s)?$`)

// ParseTimeInput parses a duration typed on the command line or in a preset
// definition and returns the validated TimeInput.
//
// Valid inputs: "25m", "1h30m", "90s", "1h2m3s", "25:00", "1:30:00"
// Invalid inputs: "", "abc", "0m", "100h", "25:61"
//
// Unit strings are normalized, so "90m" becomes 1h30m and "90s" 1m30s.
func ParseTimeInput(input string) (TimeInput, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return TimeInput{}, fmt.Errorf("%w: duration cannot be empty", ErrInvalidTimeInput)
	}

	if m := clockPattern.FindStringSubmatch(input); m != nil {
		fields := m[1:3]
		if m[3] != "" {
			fields = m[1:4]
		}
		vals, err := atois(fields)
		if err != nil {
			return TimeInput{}, err
		}
		in := TimeInput{Minutes: vals[0], Seconds: vals[1]}
		if len(vals) == 3 {
			in = TimeInput{Hours: vals[0], Minutes: vals[1], Seconds: vals[2]}
		}
		if err := in.Validate(); err != nil {
			return TimeInput{}, err
		}
		return in, nil
	}

	m := unitPattern.FindStringSubmatch(input)
	if m == nil {
		return TimeInput{}, fmt.Errorf("%w: expected a format like 25m, 1h30m, 90s or 25:00, got %q", ErrInvalidTimeInput, input)
	}

	vals, err := atois(m[1:4])
	if err != nil {
		return TimeInput{}, err
	}
	h, mins, secs := vals[0], vals[1], vals[2]

	// Bound each unit before summing so the total cannot overflow.
	const maxTotal = int(MaxDuration / time.Second)
	switch {
	case h > MaxHours:
		return TimeInput{}, &RangeError{Field: "hours", Value: h, Max: MaxHours}
	case mins > maxTotal/60:
		return TimeInput{}, &RangeError{Field: "minutes", Value: mins, Max: maxTotal / 60}
	case secs > maxTotal:
		return TimeInput{}, &RangeError{Field: "seconds", Value: secs, Max: maxTotal}
	}
	total := h*3600 + mins*60 + secs
	if total > maxTotal {
		return TimeInput{}, &RangeError{Field: "hours", Value: total / 3600, Max: MaxHours}
	}

	in := ToTimeInput(time.Duration(total) * time.Second)
	if err := in.Validate(); err != nil {
		return TimeInput{}, err
	}
	return in, nil
}

// atois converts regexp captures, treating an empty capture as zero.
func atois(captures []string) ([]int, error) {
	out := make([]int, len(captures))
	for i, s := range captures {
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is out of range", ErrInvalidTimeInput, s)
		}
		out[i] = n
	}
	return out, nil
}
