package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset both banks to their configured durations",
	Long: `Reset both banks to their configured durations. Bank 1 becomes active,
the session is paused, and settings can be changed again.

Examples:
  breakruptcy reset`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		resetSession()
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

// resetSession starts the session over from the current configuration
func resetSession() {
	services, ok := openServices()
	if !ok {
		return
	}
	defer closeServices(services)

	state := services.Session.Reset()

	_, _ = fmt.Fprintln(deps.Stdout, "Timer reset")
	printBanks(state)
}
