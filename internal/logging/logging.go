// Package logging builds the application's hclog logger.
//
// The TUI owns the terminal, so log output always goes to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	hclog "github.com/hashicorp/go-hclog"
)

// Name is the root logger name.
const Name = "breakruptcy"

// Options configures New.
type Options struct {
	// Path is the log file. Empty disables logging.
	Path string
	// Level is an hclog level name: trace, debug, info, warn, error, off.
	Level string
	// JSON switches the output to one JSON object per line.
	JSON bool
}

// New returns a logger writing to opts.Path, and the closer for that file.
// The closer is never nil.
func New(opts Options) (hclog.Logger, io.Closer, error) {
	if opts.Path == "" {
		return hclog.NewNullLogger(), io.NopCloser(nil), nil
	}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(opts.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := NewWithWriter(f, level, opts.JSON)
	return logger, f, nil
}

// NewWithWriter returns a logger writing to w. Used by tests.
func NewWithWriter(w io.Writer, level hclog.Level, json bool) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:       Name,
		Level:      level,
		Output:     w,
		JSONFormat: json,
	})
}

// ParseLevel maps a level name to an hclog.Level. An empty name means info.
func ParseLevel(name string) (hclog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return hclog.Info, nil
	}
	level := hclog.LevelFromString(name)
	if level == hclog.NoLevel {
		return hclog.NoLevel, fmt.Errorf("invalid log level %q (valid: trace, debug, info, warn, error, off)", name)
	}
	return level, nil
}

// OrNull returns l, or a null logger if l is nil.
func OrNull(l hclog.Logger) hclog.Logger {
	if l == nil {
		return hclog.NewNullLogger()
	}
	return l
}
