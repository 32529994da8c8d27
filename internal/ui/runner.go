package ui

import (
	"context"
	"fmt"
	"io"
	"time"
)

// RunnerConfig describes the command a Runner narrates.
type RunnerConfig struct {
	Title      string            // e.g. "RESOLVE MAC ADDRESS"
	Command    string            // e.g. "avrsetup resolve-mac"
	Params     map[string]string // shown in the banner
	TotalSteps int
	StepNames  []string
	Output     io.Writer // defaults to os.Stdout
}

// Runner renders the banner, streams step progress, and closes with a
// success or failure box. The operation itself only reports steps; all
// presentation lives here.
type Runner struct {
	config  RunnerConfig
	printer *Printer
	tracker *Tracker
	started time.Time
}

// Operation does the work and reports progress through the callback.
type Operation func(onStep StepCallback) error

// NewRunner creates a runner for one command invocation.
func NewRunner(config RunnerConfig) *Runner {
	printer := NewPrinter(config.Output)

	var tracker *Tracker
	if config.TotalSteps > 0 {
		tracker = NewTracker(config.TotalSteps, config.StepNames)
		tracker.SetWidth(printer.Width())
	}

	return &Runner{config: config, printer: printer, tracker: tracker}
}

// Run executes the operation and renders its outcome.
func (r *Runner) Run(ctx context.Context, operation Operation) error {
	_, err := r.execute(ctx, func(onStep StepCallback) (map[string]string, error) {
		return nil, operation(onStep)
	})
	return err
}

// RunWithResult executes the operation and renders the details it returns
// as rows of the success box.
func (r *Runner) RunWithResult(ctx context.Context, operation func(onStep StepCallback) (map[string]string, error)) (map[string]string, error) {
	return r.execute(ctx, operation)
}

func (r *Runner) execute(ctx context.Context, operation func(onStep StepCallback) (map[string]string, error)) (map[string]string, error) {
	r.started = time.Now()
	r.printer.PrintHeader(r.config.Title, r.config.Command, r.config.Params)

	details, err := operation(r.stepCallback())
	elapsed := time.Since(r.started).Round(time.Millisecond)

	if err != nil {
		r.printer.PrintError(r.config.Title+" failed", err, []string{
			"Check the receiver is powered on and connected to your network",
			"Confirm this machine is on the same subnet as the receiver",
			"Try: avrsetup discover",
			"Run with --log-level debug for request details",
		})
		return details, err
	}

	if details == nil {
		details = make(map[string]string)
	}
	details["Duration"] = elapsed.String()
	r.printer.PrintSuccess(r.config.Title+" complete", details)
	return details, nil
}

// stepCallback bridges operation progress into tracker updates and printed
// lines. Running steps end with \r so the settled line replaces them in
// place.
func (r *Runner) stepCallback() StepCallback {
	return func(stepNumber int, name string, status StepStatus, message string) {
		if r.tracker == nil {
			return
		}
		if name != "" {
			r.tracker.Rename(stepNumber, name)
		}
		r.tracker.Set(stepNumber, status, message)

		switch status {
		case StepComplete, StepFailed, StepSkipped:
			r.printer.Println(r.tracker.Line(stepNumber))
		case StepRunning:
			_, _ = fmt.Fprint(r.printer.out, r.tracker.Line(stepNumber)+"\r")
		}
	}
}
