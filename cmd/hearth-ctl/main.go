// Hearth-ctl is a command line utility for B6R-H wifi fireplace modules.
//
// It sends one-shot commands (power, flame height, second burner) directly
// to the fireplace over TCP and can watch the live status in a terminal UI.
// The module accepts a single controller at a time, so do not run hearth-ctl
// against a device that a hearth-server daemon is already driving.
//
// Usage:
//
//	hearth-ctl [command] [flags]
//
// Running without arguments launches the watch view.
// See 'hearth-ctl --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hearthlink/hearth/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hearth-ctl",
	Short: "Fireplace control utility",
	Long: `A command line utility for controlling B6R-H wifi fireplace modules.

Sends framed commands directly to the fireplace over TCP: power, flame
height, second burner, and raw payloads for protocol work.

If no command is specified, the live watch view will launch automatically.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: watch the fireplace when no subcommand provided
		return runWatch(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hearth-ctl %s (commit: %s)\n", version.Version, version.Commit)
	},
}
