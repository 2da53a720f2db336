package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xolan/breakruptcy/internal/timer"
	"github.com/xolan/breakruptcy/internal/timeutil"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show both time banks",
	Long: `Show the remaining time of both banks, which one is active, and whether
the session can still be configured.

Examples:
  breakruptcy status`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		showStatus()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// showStatus displays the current session
func showStatus() {
	services, ok := openServices()
	if !ok {
		return
	}
	defer closeServices(services)

	state := services.Session.CurrentState()
	report := services.Session.LoadReport()

	_, _ = fmt.Fprintf(deps.Stdout, "Status: %s\n", state.StatusText())
	printBanks(state)

	if state.IsConfigurable {
		_, _ = fmt.Fprintln(deps.Stdout, "Configurable: yes (change settings with 'breakruptcy config set')")
	} else {
		_, _ = fmt.Fprintln(deps.Stdout, "Configurable: no (run 'breakruptcy reset' to configure settings)")
	}

	if state.Expired() {
		_, _ = fmt.Fprintf(deps.Stdout, "%s time is up\n", state.ActiveBank().Label)
	}
	if len(report.Repairs) > 0 {
		_, _ = fmt.Fprintf(deps.Stderr, "Warning: Repaired saved session (%s)\n", strings.Join(report.Repairs, ", "))
	}
}

// printBanks prints one line per bank, marking the active one
func printBanks(state timer.State) {
	labelWidth := max(len(state.Bank1.Label), len(state.Bank2.Label))

	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 40))
	for _, k := range []timer.BankKey{timer.Bank1, timer.Bank2} {
		bank := state.Bank(k)
		marker := " "
		if bank.IsActive {
			marker = "*"
		}
		_, _ = fmt.Fprintf(deps.Stdout, "%s %-*s  %s / %s\n",
			marker,
			labelWidth,
			bank.Label,
			timeutil.FormatTime(bank.Remaining),
			timeutil.FormatTime(state.Config.Duration(k)))
	}
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 40))
}
