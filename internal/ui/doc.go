// Package ui renders styled terminal output for one-shot avrsetup
// commands: discover, entries, resolve-mac. The interactive wizard has its
// own Bubble Tea program; this package covers everything that prints and
// exits.
//
// # Components
//
//   - Header: command banner showing the operation and its parameters
//   - Tracker: step list with status markers and an overall progress bar
//   - Result: success, failure and warning boxes with detail rows
//   - OutputBox: frame for raw payloads such as an entry's YAML
//   - Printer: writes any of the above to a chosen io.Writer
//
// Runner ties them together for commands with observable phases:
//
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:      "RESOLVE MAC ADDRESS",
//	    Command:    "avrsetup resolve-mac",
//	    Params:     map[string]string{"Host": host},
//	    TotalSteps: 2,
//	    StepNames:  []string{"Look up by IP address", "Look up by hostname"},
//	})
//
//	err := runner.Run(ctx, func(onStep ui.StepCallback) error {
//	    onStep(1, "", ui.StepRunning, "")
//	    // ... work ...
//	    onStep(1, "", ui.StepComplete, "aa:bb:cc:dd:ee:ff")
//	    return nil
//	})
//
// Single-phase commands print components directly through the package
// helpers (PrintSuccess, PrintOutputBox, PrintPleaseWait).
//
// # Logging
//
// Output here is the curated command surface; zap logging stays silent
// unless AVRSETUP_LOG_LEVEL or --log-level enables it, so boxes and log
// lines never interleave by accident.
//
// # Confirmation
//
// ConfirmDangerousOperation gates destructive commands behind a typed
// confirmation word. The entries delete command uses it through
// DeleteEntryConfirmation.
package ui
