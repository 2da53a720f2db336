package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// GenerateSampleConfig returns a commented config file listing every option
// with its default value.
func GenerateSampleConfig() string {
	def := DefaultConfig()
	return fmt.Sprintf(`# breakruptcy configuration file

# How often a running bank is polled (sub-second Go duration)
tick_interval = %q

# Periodic save cadence, and the quiet period before a requested save
save_interval = %q
save_debounce = %q

# Where session records live: "file", "sqlite" or "memory"
storage_backend = %q

# Directory for records and logs (default: this file's directory)
# data_dir = "~/.local/share/breakruptcy"

# Theme id (see 'breakruptcy tui' then press 't' to cycle)
theme = %q

# Logging: trace, debug, info, warn, error or off
log_level = %q
# log_file = "/tmp/breakruptcy.log"
# log_json = false

# Extra presets shown after the built-in ones
# [[presets]]
# name = "Long Haul (2h/20m)"
# bank1 = "2h"
# bank2 = "20m"
`, def.TickInterval, def.SaveInterval, def.SaveDebounce, def.StorageBackend, def.Theme, def.LogLevel)
}

// Write encodes cfg as TOML to path, replacing the file atomically.
func Write(path string, cfg Config) error {
	var buf bytes.Buffer
	buf.WriteString("# breakruptcy configuration file\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, buf.Bytes(), 0644); err != nil {
		return err
	}
	return os.Rename(tmpFile, path)
}
