package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dalymople/avrsetup/internal/flow"
	"github.com/dalymople/avrsetup/internal/logging"
	"github.com/dalymople/avrsetup/internal/server"
)

// Serve command flags
var (
	serveHost string
	servePort int
	noPassive bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the setup API server",
	Long: `Start the HTTP server that drives setup flows over a JSON API.

The server exposes the same pairing steps as the wizard: create a flow,
submit each step, get back the next form or the finished entry. A
WebSocket event stream at /ws publishes flow results and passive
discovery announcements as they happen.

While running, the server also listens for SSDP announcements and opens
a pending flow for each unconfigured receiver it hears, so clients can
pick up pairing without a scan.

The server binds loopback by default. Bind a LAN address only on
networks you trust; the API carries no authentication.`,
	Example: `  # Start on the default loopback address
  avrsetup serve

  # Bind a LAN address on a custom port
  avrsetup serve --host 0.0.0.0 --port 9000

  # Disable passive discovery
  avrsetup serve --no-passive --log-level debug`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Address to bind")
	serveCmd.Flags().IntVar(&servePort, "port", 8099, "Server port (receivers themselves use 8080)")
	serveCmd.Flags().BoolVar(&noPassive, "no-passive", false, "Disable passive SSDP discovery")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("failed to open entries file: %w", err)
	}

	manager := flow.NewManager(store)

	// A silent server helps nobody; default to info unless the flag or
	// environment chose a level.
	level := logLevel
	if level == "" && os.Getenv(logging.LogLevelEnvVar) == "" {
		level = "info"
	}

	config := &server.Config{
		Host:     serveHost,
		Port:     servePort,
		LogLevel: level,
		Passive:  !noPassive,
	}

	srv, err := server.New(config, manager, store)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
