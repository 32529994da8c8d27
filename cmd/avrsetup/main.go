// Avrsetup is a pairing utility for Denon and Marantz network receivers.
//
// It provides receiver discovery, an interactive setup wizard, and a flow
// API server that exposes the same pairing steps to remote frontends.
// Pairing talks to receivers over HTTP and records the result in a local
// entries file.
//
// Usage:
//
//	avrsetup [command] [flags]
//
// Running without arguments launches the interactive wizard.
// See 'avrsetup --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dalymople/avrsetup/internal/logging"
	"github.com/dalymople/avrsetup/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "avrsetup",
	Short: "Denon/Marantz receiver setup utility",
	Long: `A standalone utility for pairing Denon and Marantz network receivers.

Provides receiver discovery, an interactive setup wizard, entries file
management, and a flow API server for headless pairing.

If no command is specified, the interactive wizard will launch automatically.`,
	Version: version.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Empty level falls back to AVRSETUP_LOG_LEVEL, then silent
		return logging.Initialize(logLevel)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run wizard when no subcommand provided
		return runWizard(cmd, args)
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
		fmt.Printf("avrsetup %s (commit: %s)\n", version.Version, version.Commit)
	},
}
