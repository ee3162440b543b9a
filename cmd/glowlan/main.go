// Glowlan is a LAN-side transport for controlling and monitoring smart
// devices over UDP.
//
// It discovers devices on the local network via multicast scan
// broadcasts, pushes control commands to specific devices via unicast
// datagrams, and correlates asynchronous status replies back to the
// right device - replacing the vendor cloud round-trip for supported
// models.
//
// Usage:
//
//	glowlan [command] [flags]
//
// See 'glowlan --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glowlan/glowlan/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "glowlan",
	Short: "LAN discovery and control for smart devices",
	Long: `A LAN-side transport for smart devices that support local control.

Discovers devices via UDP multicast scanning, sends control commands
directly over the local network, and streams correlated status updates -
no cloud account or internet connectivity required.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
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
		fmt.Printf("glowlan %s (commit: %s)\n", version.Version, version.Commit)
	},
}
