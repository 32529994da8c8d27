package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette shared by every command surface.
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // purple, banners and borders
	SuccessColor = lipgloss.Color("#43BF6D") // green
	ErrorColor   = lipgloss.Color("#FF5555") // red
	WarningColor = lipgloss.Color("#FFA500") // orange
	MutedColor   = lipgloss.Color("#626262") // gray, secondary text
	TextColor    = lipgloss.Color("#FFFFFF") // white, primary text
)

// Rendering bounds. Below MinTerminalWidth the boxes stop fitting and we
// render at the minimum anyway; above MaxContentWidth long lines read badly.
const (
	MinTerminalWidth = 60
	MaxContentWidth  = 100
)

// Text styles used across the package.
var (
	titleStyle    = lipgloss.NewStyle().Foreground(TextColor).Bold(true).PaddingLeft(2)
	subtleStyle   = lipgloss.NewStyle().Foreground(MutedColor)
	keyStyle      = lipgloss.NewStyle().Foreground(MutedColor).PaddingLeft(2)
	valueStyle    = lipgloss.NewStyle().Foreground(TextColor)
	noteStyle     = lipgloss.NewStyle().Foreground(MutedColor).Italic(true)
	stepDoneStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	stepLiveStyle = lipgloss.NewStyle().Foreground(WarningColor)
	stepIdleStyle = lipgloss.NewStyle().Foreground(MutedColor)
	successTitle  = lipgloss.NewStyle().Foreground(SuccessColor).Bold(true)
	warningTitle  = lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
	failureTitle  = lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
	failureText   = lipgloss.NewStyle().Foreground(ErrorColor)
)

// box returns a bordered container style sized for the given terminal width.
func box(border lipgloss.Border, color lipgloss.Color, width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(border).
		BorderForeground(color).
		Width(width - 2)
}

// divider renders a horizontal rule in the primary color.
func divider(width int) string {
	if width < 10 {
		width = 10
	}
	return subtleStyle.Foreground(PrimaryColor).Render(strings.Repeat("─", width))
}

// TerminalWidth returns the usable output width, clamped to the bounds.
// Falls back to the minimum when stdout is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}
