package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// StepStatus is the state of one step in a multi-step operation.
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepComplete
	StepFailed
	StepSkipped
)

// StepCallback reports step progress. Operations call it as they work;
// an empty name keeps the name the step already has.
type StepCallback func(stepNumber int, name string, status StepStatus, message string)

// Step is one line in the step list.
type Step struct {
	Name    string
	Status  StepStatus
	Message string // short note shown after the marker, e.g. "3 found"
}

// Tracker holds the step list for a multi-step operation and renders it,
// optionally with an overall progress bar.
type Tracker struct {
	Steps []Step
	width int
	bar   progress.Model
}

// NewTracker creates a tracker with the given step names. Total controls
// the step count; extra names are ignored, missing ones stay blank until
// the operation renames them.
func NewTracker(total int, names []string) *Tracker {
	steps := make([]Step, total)
	for i := range steps {
		if i < len(names) {
			steps[i].Name = names[i]
		}
	}
	return &Tracker{
		Steps: steps,
		width: TerminalWidth(),
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

// SetWidth overrides the rendering width and resizes the bar to fit.
func (t *Tracker) SetWidth(width int) *Tracker {
	t.width = width
	barWidth := width - 20
	if barWidth < 20 {
		barWidth = 20
	}
	if barWidth > 50 {
		barWidth = 50
	}
	t.bar = progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth))
	return t
}

// Set updates one step. Step numbers are 1-based; out-of-range numbers are
// ignored so callbacks cannot panic the display.
func (t *Tracker) Set(stepNumber int, status StepStatus, message string) {
	if stepNumber < 1 || stepNumber > len(t.Steps) {
		return
	}
	t.Steps[stepNumber-1].Status = status
	t.Steps[stepNumber-1].Message = message
}

// Rename replaces a step's name.
func (t *Tracker) Rename(stepNumber int, name string) {
	if stepNumber < 1 || stepNumber > len(t.Steps) {
		return
	}
	t.Steps[stepNumber-1].Name = name
}

// current returns the 1-based number of the running step, or the count of
// settled steps when nothing is running.
func (t *Tracker) current() int {
	settled := 0
	for i, s := range t.Steps {
		switch s.Status {
		case StepRunning:
			return i + 1
		case StepComplete, StepFailed, StepSkipped:
			settled++
		}
	}
	return settled
}

// percent returns overall completion, counting skipped steps as done.
func (t *Tracker) percent() float64 {
	if len(t.Steps) == 0 {
		return 0
	}
	done := 0
	for _, s := range t.Steps {
		if s.Status == StepComplete || s.Status == StepSkipped {
			done++
		}
	}
	return float64(done) / float64(len(t.Steps))
}

// Line renders one step as a single line: number, name, status marker and
// the optional note.
func (t *Tracker) Line(stepNumber int) string {
	if stepNumber < 1 || stepNumber > len(t.Steps) {
		return ""
	}
	step := t.Steps[stepNumber-1]
	glyph, style := statusGlyph(step.Status)

	var b strings.Builder
	fmt.Fprintf(&b, "  [%d/%d] ", stepNumber, len(t.Steps))
	b.WriteString(style.Render(step.Name))

	// Push the marker to a fixed column so the list scans vertically
	if pad := 46 - lipgloss.Width(step.Name); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	} else {
		b.WriteString(" ")
	}
	b.WriteString(style.Render(glyph))

	if step.Message != "" {
		b.WriteString("  ")
		b.WriteString(noteStyle.Render("(" + step.Message + ")"))
	}
	return b.String()
}

// Render returns the full display: progress bar with counters, then the
// step list.
func (t *Tracker) Render() string {
	var b strings.Builder

	bar := fmt.Sprintf("%s  %3.0f%%  [%d/%d]",
		t.bar.ViewAs(t.percent()), t.percent()*100, t.current(), len(t.Steps))
	b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(bar))
	b.WriteString("\n\n")

	for i := range t.Steps {
		b.WriteString(t.Line(i + 1))
		if i < len(t.Steps)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// statusGlyph maps a status to its marker and color.
func statusGlyph(status StepStatus) (string, lipgloss.Style) {
	switch status {
	case StepComplete:
		return "✓", stepDoneStyle
	case StepRunning:
		return "●", stepLiveStyle
	case StepFailed:
		return "✗", failureText
	case StepSkipped:
		return "⊘", stepIdleStyle
	default:
		return "·", stepIdleStyle
	}
}
