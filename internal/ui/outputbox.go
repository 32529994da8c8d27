package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// OutputBox frames raw preformatted text: an entry's YAML, a description
// document excerpt, or similar payloads.
type OutputBox struct {
	Title    string
	Content  string
	Width    int
	MaxLines int // 0 shows everything
}

// NewOutputBox creates a box sized to the current terminal.
func NewOutputBox(title, content string) *OutputBox {
	return &OutputBox{Title: title, Content: content, Width: TerminalWidth()}
}

// SetWidth overrides the rendering width.
func (o *OutputBox) SetWidth(width int) *OutputBox {
	o.Width = width
	return o
}

// SetMaxLines truncates the content after max lines.
func (o *OutputBox) SetMaxLines(max int) *OutputBox {
	o.MaxLines = max
	return o
}

// Render returns the framed content.
func (o *OutputBox) Render() string {
	width := o.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	content := o.Content
	if o.MaxLines > 0 {
		lines := strings.Split(content, "\n")
		if len(lines) > o.MaxLines {
			content = strings.Join(lines[:o.MaxLines], "\n") + "\n... (output truncated)"
		}
	}

	inner := lipgloss.JoinVertical(lipgloss.Left,
		subtleStyle.Bold(true).Render(o.Title),
		"",
		valueStyle.Render(content),
	)

	return box(lipgloss.RoundedBorder(), MutedColor, width-2).
		Padding(0, 1).
		MarginLeft(2).
		Render(inner)
}

// String implements fmt.Stringer
func (o *OutputBox) String() string {
	return o.Render()
}
