// Hearth-server is an HTTP control daemon for B6R-H wifi fireplace modules.
//
// It talks the fireplace's framed hex protocol over TCP and exposes a small
// JSON API plus a WebSocket status stream on top of it. One daemon fronts
// one fireplace: the device module accepts a single controller and garbles
// concurrent exchanges, so every command funnels through the daemon's
// serialized executor.
//
// Usage:
//
//	hearth-server serve [flags]
//
// See 'hearth-server serve --help' for available options.
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
	Use:   "hearth-server",
	Short: "Fireplace control daemon",
	Long: `A control daemon for B6R-H wifi fireplace modules.

The daemon keeps a single serialized command queue to the fireplace and
exposes an HTTP JSON API plus a WebSocket status stream.

Note: for one-shot commands from the terminal, use the separate
'hearth-ctl' utility.`,
	Version: version.Version,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initConfigCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hearth-server %s (commit: %s)\n", version.Version, version.Commit)
	},
}
