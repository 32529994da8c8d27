package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dalymople/avrsetup/internal/version"
)

// Application chrome
const (
	AppName   = "AVR SETUP WIZARD"
	GitHubURL = "github.com/dalymople/avrsetup"
)

// AppVersion returns the version stamped into the build.
func AppVersion() string {
	return version.Version
}

// Width bounds for the wizard panel.
const (
	MinTerminalWidth = 72
	MaxContentWidth  = 120
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // purple
	SecondaryColor = lipgloss.Color("#43BF6D") // green
	WarningColor   = lipgloss.Color("#FFA500") // orange
	ErrorColor     = lipgloss.Color("#FF0000") // red
	TextColor      = lipgloss.Color("#FFFFFF") // white
	SubtleColor    = lipgloss.Color("#626262") // gray
	BorderColor    = PrimaryColor
	HighlightColor = SecondaryColor
)

// Screen styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			Padding(1, 0).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	MenuItemStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			PaddingLeft(4)

	SelectedMenuItemStyle = lipgloss.NewStyle().
				Foreground(HighlightColor).
				Bold(true).
				PaddingLeft(2)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	FocusedInputStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	// Result screens
	SuccessBoxStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	ErrorBoxStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ErrorColor).
			Padding(1, 2)
)

// RenderTitle renders a screen title.
func RenderTitle(text string) string {
	return TitleStyle.Render(text)
}

// RenderSubtitle renders secondary text under a title.
func RenderSubtitle(text string) string {
	return SubtitleStyle.Render(text)
}

// FormatToggle returns the checkbox marker for a boolean setting.
func FormatToggle(enabled bool) string {
	if enabled {
		return "[x] Enabled"
	}
	return "[ ] Disabled"
}

// RenderApplicationContainer wraps a screen in the wizard's shared frame:
// the app header (name, version, repo), the screen content, and a
// context-sensitive footer inside one full-terminal border.
//
// Every screen renders through it:
//
//	func (m Model) View() string {
//	    content := m.buildContent()
//	    return RenderApplicationContainer(content, m.Help.View(m.Keys), m.Width, m.Height)
//	}
func RenderApplicationContainer(content string, footerText string, terminalWidth int, terminalHeight int) string {
	inner := terminalWidth - 4 // inside the outer border and its padding

	title := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " v" + AppVersion())
	repo := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(GitHubURL)

	header := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(inner).
		Padding(0, 1).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, title, " ", repo))

	footer := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Width(inner).
		Padding(0, 1).
		Render(lipgloss.NewStyle().Foreground(SubtleColor).Render(footerText))

	// Content keeps no padding of its own, so screens own their margins and
	// inner is the true usable width.
	body := lipgloss.NewStyle().Width(inner).Render(content)

	// The outer border spans the full terminal so the panel keeps a stable
	// frame regardless of content height.
	panel := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		Height(terminalHeight - 2).
		AlignVertical(lipgloss.Top).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, body, footer))

	return lipgloss.Place(terminalWidth, terminalHeight, lipgloss.Left, lipgloss.Top, panel)
}
