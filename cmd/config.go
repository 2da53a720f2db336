package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xolan/breakruptcy/internal/config"
	"github.com/xolan/breakruptcy/internal/service"
	"github.com/xolan/breakruptcy/internal/timeutil"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display or manage configuration settings",
	Long: `Display the current configuration: application settings from config.toml
and the bank durations and labels of the timer.

breakruptcy works without a configuration file. Application defaults:
  - tick_interval: 100ms
  - save_interval: 10s
  - save_debounce: 1s
  - storage_backend: file
  - theme: dracula
  - log_level: info

Examples:
  breakruptcy config                                  Show all current settings
  breakruptcy config init                             Write a commented config.toml
  breakruptcy config set --bank1 50m --bank2 10m      Change bank durations
  breakruptcy config set --label1 Focus --label2 Rest Change bank labels

Configuration file location:
  ~/.config/breakruptcy/config.toml          Linux
  ~/Library/Application Support/breakruptcy  macOS
  %APPDATA%\breakruptcy\config.toml          Windows`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		showConfig()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		showConfig()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a sample config.toml",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		initConfig()
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change bank durations and labels",
	Long: `Change the bank durations and labels and reset the timer.

Durations accept 25m, 1h30m, 90s, 25:00 or 1:30:00 (max 99:59:59).
Flags that are not given keep their current value. The session must not have
been started since the last reset unless --force is given.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		opts := setConfigOptions{}
		opts.bank1, _ = cmd.Flags().GetString("bank1")
		opts.bank2, _ = cmd.Flags().GetString("bank2")
		opts.label1, _ = cmd.Flags().GetString("label1")
		opts.label2, _ = cmd.Flags().GetString("label2")
		opts.force, _ = cmd.Flags().GetBool("force")
		setConfig(opts)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)

	configSetCmd.Flags().String("bank1", "", "Bank 1 duration (e.g., 25m, 1h30m, 25:00)")
	configSetCmd.Flags().String("bank2", "", "Bank 2 duration (e.g., 5m, 90s, 05:00)")
	configSetCmd.Flags().String("label1", "", "Bank 1 label")
	configSetCmd.Flags().String("label2", "", "Bank 2 label")
	configSetCmd.Flags().Bool("force", false, "Apply even if the session has already started")
}

// setConfigOptions are the flags of 'config set'
type setConfigOptions struct {
	bank1  string
	bank2  string
	label1 string
	label2 string
	force  bool
}

func (o setConfigOptions) empty() bool {
	return o.bank1 == "" && o.bank2 == "" && o.label1 == "" && o.label2 == ""
}

// showConfig displays the current effective configuration
func showConfig() {
	services, ok := openServices()
	if !ok {
		return
	}
	defer closeServices(services)

	cfg := services.Config.Get()
	configPath := services.Config.GetPath()
	fileExists := services.Config.Exists()

	_, _ = fmt.Fprintln(deps.Stdout, "Configuration for breakruptcy")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 60))
	_, _ = fmt.Fprintln(deps.Stdout)

	_, _ = fmt.Fprintf(deps.Stdout, "Config file:     %s\n", configPath)
	if fileExists {
		_, _ = fmt.Fprintln(deps.Stdout, "Status:          File exists (using custom configuration)")
	} else {
		_, _ = fmt.Fprintln(deps.Stdout, "Status:          No config file (using defaults)")
	}
	_, _ = fmt.Fprintln(deps.Stdout)

	_, _ = fmt.Fprintln(deps.Stdout, "Application Settings:")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 60))
	_, _ = fmt.Fprintf(deps.Stdout, "Tick Interval:   %s\n", cfg.TickInterval)
	_, _ = fmt.Fprintf(deps.Stdout, "Save Interval:   %s\n", cfg.SaveInterval)
	_, _ = fmt.Fprintf(deps.Stdout, "Save Debounce:   %s\n", cfg.SaveDebounce)
	_, _ = fmt.Fprintf(deps.Stdout, "Storage:         %s\n", cfg.StorageBackend)
	_, _ = fmt.Fprintf(deps.Stdout, "Theme:           %s\n", cfg.Theme)
	_, _ = fmt.Fprintf(deps.Stdout, "Log Level:       %s\n", cfg.LogLevel)
	if len(cfg.Presets) > 0 {
		_, _ = fmt.Fprintf(deps.Stdout, "User Presets:    %d\n", len(cfg.Presets))
	}
	_, _ = fmt.Fprintln(deps.Stdout)

	timerCfg := services.Session.CurrentState().Config
	_, _ = fmt.Fprintln(deps.Stdout, "Timer:")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 60))
	_, _ = fmt.Fprintf(deps.Stdout, "Bank 1:          %s (%s)\n", timerCfg.Bank1Label, timeutil.FormatTime(timerCfg.Bank1Duration))
	_, _ = fmt.Fprintf(deps.Stdout, "Bank 2:          %s (%s)\n", timerCfg.Bank2Label, timeutil.FormatTime(timerCfg.Bank2Duration))
	_, _ = fmt.Fprintln(deps.Stdout)

	if !fileExists {
		_, _ = fmt.Fprintln(deps.Stdout, "Tip: Run 'breakruptcy config init' to create a config.toml with all options.")
		_, _ = fmt.Fprintln(deps.Stdout)
	}
}

// initConfig writes the sample config file
func initConfig() {
	configPath, err := deps.ConfigPath()
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to determine config file location")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Check that your home directory is accessible")
		deps.Exit(1)
		return
	}

	svc := service.NewConfigService(configPath, config.DefaultConfig())
	if err := svc.Init(); err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to create config file")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Created config file: %s\n", configPath)
}

// setConfig applies new bank durations and labels
func setConfig(opts setConfigOptions) {
	if opts.empty() {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: At least one of --bank1, --bank2, --label1 or --label2 is required")
		_, _ = fmt.Fprintln(deps.Stderr, "Usage:")
		_, _ = fmt.Fprintln(deps.Stderr, "  breakruptcy config set --bank1 50m --bank2 10m")
		_, _ = fmt.Fprintln(deps.Stderr, "  breakruptcy config set --label1 Focus --label2 Rest")
		deps.Exit(1)
		return
	}

	services, ok := openServices()
	if !ok {
		return
	}
	defer closeServices(services)

	cfg := services.Session.CurrentState().Config
	for _, f := range []struct {
		flag  string
		value string
		set   func(timeutil.TimeInput)
	}{
		{"--bank1", opts.bank1, func(in timeutil.TimeInput) { cfg.Bank1Duration = in.Duration() }},
		{"--bank2", opts.bank2, func(in timeutil.TimeInput) { cfg.Bank2Duration = in.Duration() }},
	} {
		if f.value == "" {
			continue
		}
		in, err := timeutil.ParseTimeInput(f.value)
		if err != nil {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid duration '%s' for %s\n", f.value, f.flag)
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: Use a format like 25m, 1h30m, 90s or 25:00 (max 99:59:59)")
			deps.Exit(1)
			return
		}
		f.set(in)
	}
	if opts.label1 != "" {
		cfg.Bank1Label = opts.label1
	}
	if opts.label2 != "" {
		cfg.Bank2Label = opts.label2
	}

	state, err := services.Session.ApplyConfiguration(cfg, opts.force)
	if err != nil {
		reportConfigError(err)
		return
	}

	_, _ = fmt.Fprintln(deps.Stdout, "Configuration saved")
	printBanks(state)
}
