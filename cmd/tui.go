package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	Long: `Launch the interactive timer. This is also what running breakruptcy
without a command does.

Keyboard shortcuts:
  - space: Start or pause the active bank
  - s: Switch to the other bank
  - 1/2: Select a bank while running
  - r: Reset both banks
  - c: Configure durations and labels (before the session starts)
  - p: Cycle presets in the configure form
  - t: Next theme
  - ?: Show help
  - q: Quit`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runTUI()
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// runTUI initializes and runs the TUI application
func runTUI() {
	services, ok := openServices()
	if !ok {
		return
	}

	err := deps.RunTUI(services)
	closeServices(services)
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error running TUI: %v\n", err)
		deps.Exit(1)
	}
}
