package main

import (
	"fmt"
	"os"

	"github.com/xolan/breakruptcy/cmd"
	"github.com/xolan/breakruptcy/internal/config"
)

// Version information injected by GoReleaser via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// exitFunc is os.Exit, replaceable in tests.
var exitFunc = os.Exit

func main() {
	exitFunc(run(os.Args[1:]))
}

// run executes the CLI and returns the process exit code.
func run(args []string) int {
	cmd.SetVersionInfo(version, commit, date)

	if _, err := config.GetConfigPath(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error: Failed to determine config file location")
		_, _ = fmt.Fprintf(os.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(os.Stderr, "Hint: Check that your home directory is accessible")
		return 1
	}

	if err := cmd.Execute(args); err != nil {
		return 1
	}
	return 0
}
