package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xolan/breakruptcy/internal/service"
)

var rootCmd = &cobra.Command{
	Use:   "breakruptcy",
	Short: "A two-bank chess-clock timer for work and breaks",
	Long: `breakruptcy is a chess-clock style timer with two time banks, usually
one for work and one for breaks. Exactly one bank counts down at a time;
switching hands the clock to the other bank.

Usage:
  breakruptcy                                   Launch the interactive timer
  breakruptcy status                            Show both banks
  breakruptcy reset                             Start over from the configuration
  breakruptcy config set --bank1 50m --bank2 10m
  breakruptcy presets apply pomodoro

The session is saved as it runs and restored on the next start.

Duration format: HH:MM:SS, MM:SS, or 1h30m style (max 99:59:59)`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runTUI()
	},
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(version, commit, date string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(
		"breakruptcy version {{.Version}}\n" +
			"commit: " + commit + "\n" +
			"built: " + date + "\n",
	)
}

// Execute runs the root command with args (usually os.Args[1:])
func Execute(args []string) error {
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// openServices loads configuration and the saved session. On failure it
// reports the error and exits; the caller must return when ok is false.
func openServices() (svcs *service.Services, ok bool) {
	svcs, err := deps.Services()
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to load the timer")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Check your config file with 'breakruptcy config show'")
		deps.Exit(1)
		return nil, false
	}
	return svcs, true
}

// closeServices flushes the session and reports a failed save.
func closeServices(svcs *service.Services) {
	if err := svcs.Close(); err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Warning: Failed to save the timer state")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
	}
}
