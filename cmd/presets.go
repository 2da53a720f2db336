package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xolan/breakruptcy/internal/service"
	"github.com/xolan/breakruptcy/internal/timer"
	"github.com/xolan/breakruptcy/internal/timeutil"
)

// presetsCmd represents the presets command
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List or apply duration presets",
	Long: `List the built-in presets and the ones defined in config.toml, or apply
one to the timer.

A preset sets both bank durations; the bank labels are kept. Presets can be
named by a unique prefix, case-insensitively.

Examples:
  breakruptcy presets                   List presets
  breakruptcy presets apply pomodoro    Use 25/5
  breakruptcy presets apply deep --force`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		listPresets()
	},
}

var presetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available presets",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		listPresets()
	},
}

var presetsApplyCmd = &cobra.Command{
	Use:   "apply <name>",
	Short: "Apply a preset to the timer",
	Long: `Apply a preset's durations to the timer and reset it.

The session must not have been started since the last reset unless --force
is given.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		force, _ := cmd.Flags().GetBool("force")
		applyPreset(strings.Join(args, " "), force)
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
	presetsCmd.AddCommand(presetsListCmd)
	presetsCmd.AddCommand(presetsApplyCmd)

	presetsApplyCmd.Flags().Bool("force", false, "Apply even if the session has already started")
}

// listPresets prints every preset with its durations
func listPresets() {
	services, ok := openServices()
	if !ok {
		return
	}
	defer closeServices(services)

	presets := services.Session.Presets()
	nameWidth := 0
	for _, p := range presets {
		nameWidth = max(nameWidth, len(p.Name))
	}

	_, _ = fmt.Fprintln(deps.Stdout, "Presets:")
	for _, p := range presets {
		_, _ = fmt.Fprintf(deps.Stdout, "  %-*s  %s / %s\n",
			nameWidth,
			p.Name,
			timeutil.FormatDurationShort(p.Bank1.Duration()),
			timeutil.FormatDurationShort(p.Bank2.Duration()))
	}
}

// applyPreset applies the named preset to the session
func applyPreset(name string, force bool) {
	services, ok := openServices()
	if !ok {
		return
	}
	defer closeServices(services)

	state, preset, err := services.Session.ApplyPreset(name, force)
	if err != nil {
		if errors.Is(err, service.ErrUnknownPreset) {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: No preset matches '%s'\n", name)
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: List presets with 'breakruptcy presets list'")
			deps.Exit(1)
			return
		}
		reportConfigError(err)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Applied preset: %s\n", preset.Name)
	printBanks(state)
}

// reportConfigError prints a failed ApplyConfiguration and exits
func reportConfigError(err error) {
	var cfgErr *timer.ConfigError
	switch {
	case errors.Is(err, timer.ErrNotConfigurable):
		_, _ = fmt.Fprintln(deps.Stderr, "Error: The timer has already been started")
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Run 'breakruptcy reset' first, or pass --force to discard the session")
	case errors.As(err, &cfgErr):
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Invalid durations")
		for _, k := range []timer.BankKey{timer.Bank1, timer.Bank2} {
			if e := cfgErr.For(k); e != nil {
				_, _ = fmt.Fprintf(deps.Stderr, "Details: %s: %v\n", k, e)
			}
		}
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Each bank takes between 1 second and 99:59:59")
	default:
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to apply the configuration")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
	}
	deps.Exit(1)
}
