package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/xolan/breakruptcy/internal/osutil"
	"github.com/xolan/breakruptcy/internal/storage"
	"github.com/xolan/breakruptcy/internal/timer"
	"github.com/xolan/breakruptcy/internal/timeutil"
)

const (
	// ConfigFile is the name of the TOML configuration file
	ConfigFile = "config.toml"
	// LogFile is the default log file name inside the data directory
	LogFile = "breakruptcy.log"
	// DefaultTheme is the bubbletint theme used when none is configured
	DefaultTheme = "dracula"
)

// Limits on the configurable intervals.
const (
	MinTickInterval = 10 * time.Millisecond
	MaxTickInterval = 999 * time.Millisecond
	MinSaveInterval = time.Second
)

var validLogLevels = []string{"trace", "debug", "info", "warn", "error", "off"}

// Config represents the application configuration
type Config struct {
	// TickInterval is how often a running bank is polled (Go duration, sub-second)
	TickInterval string `toml:"tick_interval"`
	// SaveInterval is the cadence of the periodic save
	SaveInterval string `toml:"save_interval"`
	// SaveDebounce is the quiet period before a requested save is written
	SaveDebounce string `toml:"save_debounce"`
	// StorageBackend selects where session records live: file, sqlite or memory
	StorageBackend string `toml:"storage_backend"`
	// DataDir overrides the directory for records and logs (default: config dir)
	DataDir string `toml:"data_dir"`
	// Theme is the bubbletint theme id
	Theme string `toml:"theme"`
	// LogLevel is one of trace, debug, info, warn, error, off
	LogLevel string `toml:"log_level"`
	// LogFile overrides the log file path
	LogFile string `toml:"log_file"`
	// LogJSON writes log lines as JSON
	LogJSON bool `toml:"log_json"`
	// Presets are user presets shown after the built-in ones
	Presets []PresetConfig `toml:"presets"`
}

// PresetConfig is a [[presets]] table. Durations use the same syntax as the
// CLI flags ("25m", "1h30m", "25:00").
type PresetConfig struct {
	Name  string `toml:"name"`
	Bank1 string `toml:"bank1"`
	Bank2 string `toml:"bank2"`
}

// Intervals are the parsed timing settings.
type Intervals struct {
	Tick         time.Duration
	Save         time.Duration
	SaveDebounce time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
// - tick_interval: 100ms
// - save_interval: 10s
// - save_debounce: 1s
// - storage_backend: file
// - theme: dracula
// - log_level: info
func DefaultConfig() Config {
	return Config{
		TickInterval:   "100ms",
		SaveInterval:   "10s",
		SaveDebounce:   "1s",
		StorageBackend: storage.BackendFile,
		Theme:          DefaultTheme,
		LogLevel:       "info",
	}
}

// GetConfigPath returns the path to the config file.
// Uses os.UserConfigDir() for cross-platform XDG-compliant config directory.
// Creates the config directory if it doesn't exist.
func GetConfigPath() (string, error) {
	return osutil.AppFile(ConfigFile)
}

// Load reads and validates the config file at path.
// Fields missing from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadOrDefault loads the config file, returning defaults if it doesn't exist.
// An existing but invalid file is an error.
func LoadOrDefault(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, err
	}
	return Load(path)
}

// Normalize trims values and lower-cases the enumerations.
// Empty values fall back to their defaults.
func (c *Config) Normalize() {
	def := DefaultConfig()

	c.TickInterval = orDefault(c.TickInterval, def.TickInterval)
	c.SaveInterval = orDefault(c.SaveInterval, def.SaveInterval)
	c.SaveDebounce = orDefault(c.SaveDebounce, def.SaveDebounce)
	c.StorageBackend = strings.ToLower(orDefault(c.StorageBackend, def.StorageBackend))
	c.Theme = orDefault(c.Theme, def.Theme)
	c.LogLevel = strings.ToLower(orDefault(c.LogLevel, def.LogLevel))
	c.DataDir = strings.TrimSpace(c.DataDir)
	c.LogFile = strings.TrimSpace(c.LogFile)

	for i := range c.Presets {
		c.Presets[i].Name = strings.TrimSpace(c.Presets[i].Name)
	}
}

// Validate checks that the configuration is valid.
func (c Config) Validate() error {
	var errs []error

	if _, err := c.Intervals(); err != nil {
		errs = append(errs, err)
	}

	switch c.StorageBackend {
	case storage.BackendFile, storage.BackendSQLite, storage.BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("invalid storage_backend %q: must be %s, %s or %s",
			c.StorageBackend, storage.BackendFile, storage.BackendSQLite, storage.BackendMemory))
	}

	if !contains(validLogLevels, c.LogLevel) {
		errs = append(errs, fmt.Errorf("invalid log_level %q: must be one of %s", c.LogLevel, strings.Join(validLogLevels, ", ")))
	}

	if _, err := c.UserPresets(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Intervals parses the timing settings.
func (c Config) Intervals() (Intervals, error) {
	tick, err := time.ParseDuration(c.TickInterval)
	if err != nil {
		return Intervals{}, fmt.Errorf("invalid tick_interval %q: %w", c.TickInterval, err)
	}
	if tick < MinTickInterval || tick > MaxTickInterval {
		return Intervals{}, fmt.Errorf("invalid tick_interval %q: must be between %v and %v", c.TickInterval, MinTickInterval, MaxTickInterval)
	}

	save, err := time.ParseDuration(c.SaveInterval)
	if err != nil {
		return Intervals{}, fmt.Errorf("invalid save_interval %q: %w", c.SaveInterval, err)
	}
	if save < MinSaveInterval {
		return Intervals{}, fmt.Errorf("invalid save_interval %q: must be at least %v", c.SaveInterval, MinSaveInterval)
	}

	debounce, err := time.ParseDuration(c.SaveDebounce)
	if err != nil {
		return Intervals{}, fmt.Errorf("invalid save_debounce %q: %w", c.SaveDebounce, err)
	}
	if debounce <= 0 || debounce > save {
		return Intervals{}, fmt.Errorf("invalid save_debounce %q: must be positive and no longer than save_interval", c.SaveDebounce)
	}

	return Intervals{Tick: tick, Save: save, SaveDebounce: debounce}, nil
}

// UserPresets converts the [[presets]] tables.
func (c Config) UserPresets() ([]timer.Preset, error) {
	presets := make([]timer.Preset, 0, len(c.Presets))
	for i, p := range c.Presets {
		if p.Name == "" {
			return nil, fmt.Errorf("preset %d: name is required", i+1)
		}
		bank1, err := timeutil.ParseTimeInput(p.Bank1)
		if err != nil {
			return nil, fmt.Errorf("preset %q: bank1: %w", p.Name, err)
		}
		bank2, err := timeutil.ParseTimeInput(p.Bank2)
		if err != nil {
			return nil, fmt.Errorf("preset %q: bank2: %w", p.Name, err)
		}
		presets = append(presets, timer.Preset{Name: p.Name, Bank1: bank1, Bank2: bank2})
	}
	return presets, nil
}

// AllPresets returns the built-in presets followed by the user presets.
// Invalid user presets are skipped; Validate reports them.
func (c Config) AllPresets() []timer.Preset {
	presets := timer.BuiltinPresets()
	user, err := c.UserPresets()
	if err == nil {
		presets = append(presets, user...)
	}
	return presets
}

// ResolveDataDir returns the directory for session records and logs.
func (c Config) ResolveDataDir() (string, error) {
	if c.DataDir == "" {
		return osutil.AppDir()
	}
	dir, err := expandHome(c.DataDir)
	if err != nil {
		return "", err
	}
	if err := osutil.Provider.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// ResolveLogFile returns the log file path, or "" when logging is off.
func (c Config) ResolveLogFile(dataDir string) (string, error) {
	if c.LogLevel == "off" {
		return "", nil
	}
	if c.LogFile == "" {
		return filepath.Join(dataDir, LogFile), nil
	}
	return expandHome(c.LogFile)
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func orDefault(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
