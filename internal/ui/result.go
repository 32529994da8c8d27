package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ResultKind selects the banner and border of a result box.
type ResultKind int

const (
	ResultSuccess ResultKind = iota
	ResultFailure
	ResultWarning
)

// Result is the closing box of a command: a SUCCESS, FAILED or WARNING
// banner with detail rows, and for failures the error plus troubleshooting
// tips.
type Result struct {
	Kind            ResultKind
	Title           string
	Details         map[string]string
	Err             error
	Troubleshooting []string
	Width           int
}

// NewSuccessResult creates a success box with optional detail rows.
func NewSuccessResult(title string, details map[string]string) *Result {
	return &Result{Kind: ResultSuccess, Title: title, Details: details, Width: TerminalWidth()}
}

// NewFailureResult creates a failure box with the error and tips.
func NewFailureResult(title string, err error, tips []string) *Result {
	return &Result{Kind: ResultFailure, Title: title, Err: err, Troubleshooting: tips, Width: TerminalWidth()}
}

// NewWarningResult creates a warning box with optional detail rows.
func NewWarningResult(title string, details map[string]string) *Result {
	return &Result{Kind: ResultWarning, Title: title, Details: details, Width: TerminalWidth()}
}

// SetWidth overrides the rendering width.
func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

// Render returns the bordered result box.
func (r *Result) Render() string {
	width := r.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	var color lipgloss.Color
	var banner string
	switch r.Kind {
	case ResultFailure:
		color = ErrorColor
		banner = failureTitle.Render(fmt.Sprintf("   ✗  FAILED  ─  %s", r.Title))
	case ResultWarning:
		color = WarningColor
		banner = warningTitle.Render(fmt.Sprintf("   ⚠  WARNING  ─  %s", r.Title))
	default:
		color = SuccessColor
		banner = successTitle.Render(fmt.Sprintf("   ✓  SUCCESS  ─  %s", r.Title))
	}

	body := []string{"", banner, ""}
	if r.Kind == ResultFailure {
		if r.Err != nil {
			body = append(body, failureText.Render("   Error: "+r.Err.Error()), "")
		}
		if len(r.Troubleshooting) > 0 {
			body = append(body, r.renderTips(width), "")
		}
	} else {
		body = append(body, r.detailRows()...)
		body = append(body, "")
	}

	return box(lipgloss.DoubleBorder(), color, width).
		Padding(0, 2).
		Render(strings.Join(body, "\n"))
}

// detailRows renders "   Key:  value" rows in stable key order, with the
// key column sized to the longest key.
func (r *Result) detailRows() []string {
	keys := make([]string, 0, len(r.Details))
	longest := 0
	for key := range r.Details {
		keys = append(keys, key)
		if len(key) > longest {
			longest = len(key)
		}
	}
	sort.Strings(keys)

	aligned := subtleStyle.Width(longest + 5)
	rows := make([]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, aligned.Render("   "+key+":")+" "+valueStyle.Render(r.Details[key]))
	}
	return rows
}

// renderTips renders the indented troubleshooting box.
func (r *Result) renderTips(width int) string {
	lines := []string{subtleStyle.Bold(true).Render("Troubleshooting:"), ""}
	for _, tip := range r.Troubleshooting {
		lines = append(lines, subtleStyle.Render("  • "+tip))
	}
	return box(lipgloss.RoundedBorder(), MutedColor, width-6).
		Padding(0, 1).
		MarginLeft(3).
		Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (r *Result) String() string {
	return r.Render()
}
