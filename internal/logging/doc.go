// Package logging provides structured logging for avrsetup.
//
// It wraps a zap logger behind package-level functions plus a few helpers
// for the event shapes the tool logs repeatedly (API requests, stream
// frames, receiver probes).
//
// # Levels
//
//   - Debug: endpoint probes, SSDP payloads, stream frame content
//   - Info: flow results, entries created, server requests
//   - Warn: MAC lookup misses, stalled stream subscribers
//   - Error: startup failures, entries file write errors
//
// # Silence by default
//
// The wizard and the step runner own the terminal, so logging stays off
// unless asked for. Set AVRSETUP_LOG_LEVEL or pass --log-level:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// The serve command resolves its default level to "info" instead.
//
// # Fields
//
// All helpers log structured fields, console-encoded to stdout:
//
//	logging.Info("Entry created",
//	    zap.String("unique_id", "AVR-X1500H-ABH1234567"),
//	    zap.String("host", "192.168.1.100"),
//	)
//
// Everything here is safe for concurrent use.
package logging
