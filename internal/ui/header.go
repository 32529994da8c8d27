package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Header is the banner printed at the top of one-shot commands: the
// operation in caps, the invocation underneath, and any parameters below
// a rule.
type Header struct {
	Title   string
	Command string
	Params  map[string]string
	Width   int
}

// NewHeader creates a header sized to the current terminal.
func NewHeader(title, command string, params map[string]string) *Header {
	return &Header{
		Title:   title,
		Command: command,
		Params:  params,
		Width:   TerminalWidth(),
	}
}

// SetWidth overrides the rendering width.
func (h *Header) SetWidth(width int) *Header {
	h.Width = width
	return h
}

// Render returns the bordered banner.
func (h *Header) Render() string {
	width := h.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	sections := []string{
		titleStyle.Render(strings.ToUpper(h.Title)),
		keyStyle.Render(h.Command),
	}

	if len(h.Params) > 0 {
		sections = append(sections, divider(width-6), h.renderParams())
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return box(lipgloss.RoundedBorder(), PrimaryColor, width).Render(content)
}

// renderParams renders one aligned "Key:  value" line per parameter, in
// stable key order.
func (h *Header) renderParams() string {
	keys := make([]string, 0, len(h.Params))
	longest := 0
	for key := range h.Params {
		keys = append(keys, key)
		if len(key) > longest {
			longest = len(key)
		}
	}
	sort.Strings(keys)

	aligned := keyStyle.Width(longest + 4)
	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, aligned.Render(key+":")+" "+valueStyle.Render(h.Params[key]))
	}
	return strings.Join(lines, "\n")
}

// String implements fmt.Stringer
func (h *Header) String() string {
	return h.Render()
}
