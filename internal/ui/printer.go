package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes UI components to one destination. Commands print through
// it so tests can target a buffer instead of os.Stdout.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a printer for w. A nil writer means os.Stdout.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{out: w, width: TerminalWidth()}
}

// Width returns the width components will render at.
func (p *Printer) Width() int {
	return p.width
}

// Println writes one line.
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline writes an empty line.
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command banner followed by a blank line.
func (p *Printer) PrintHeader(title, command string, params map[string]string) {
	p.Println(NewHeader(title, command, params).SetWidth(p.width).Render())
	p.Newline()
}

// PrintSuccess prints a success box.
func (p *Printer) PrintSuccess(title string, details map[string]string) {
	p.Newline()
	p.Println(NewSuccessResult(title, details).SetWidth(p.width).Render())
}

// PrintError prints a failure box with troubleshooting tips.
func (p *Printer) PrintError(title string, err error, tips []string) {
	p.Newline()
	p.Println(NewFailureResult(title, err, tips).SetWidth(p.width).Render())
}

// PrintWarning prints a warning box.
func (p *Printer) PrintWarning(title string, details map[string]string) {
	p.Newline()
	p.Println(NewWarningResult(title, details).SetWidth(p.width).Render())
}

// PrintOutputBox prints raw content inside a frame.
func (p *Printer) PrintOutputBox(title, content string) {
	p.Newline()
	p.Println(NewOutputBox(title, content).SetWidth(p.width).Render())
}

// Package-level helpers for commands that print straight to stdout.

// PrintCommandHeader prints a command banner.
func PrintCommandHeader(title, command string, params map[string]string) {
	NewPrinter(nil).PrintHeader(title, command, params)
}

// PrintSuccess prints a success box.
func PrintSuccess(title string, details map[string]string) {
	NewPrinter(nil).PrintSuccess(title, details)
}

// PrintFailure prints a failure box with troubleshooting tips.
func PrintFailure(title string, err error, tips []string) {
	NewPrinter(nil).PrintError(title, err, tips)
}

// PrintWarning prints a warning box.
func PrintWarning(title string, details map[string]string) {
	NewPrinter(nil).PrintWarning(title, details)
}

// PrintOutputBox prints raw content inside a frame.
func PrintOutputBox(title, content string) {
	NewPrinter(nil).PrintOutputBox(title, content)
}

// PrintPleaseWait announces a blocking operation; the hint sets the
// expectation, e.g. "up to 5 seconds".
func PrintPleaseWait(message string, durationHint string) {
	wait := lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true).PaddingLeft(2)
	line := wait.Render("⏳ " + message)
	if durationHint != "" {
		line += " " + noteStyle.Render("("+durationHint+")")
	}
	line += wait.Render("...")

	p := NewPrinter(nil)
	p.Newline()
	p.Println(line)
	p.Newline()
}
