package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dalymople/avrsetup/internal/flow"
)

// Settings form rows, top to bottom
const (
	rowTimeout = iota
	rowShowAllSources
	rowZone2
	rowZone3
	rowConnect
)

// settingsKeyMap defines key bindings for the settings screen
type settingsKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Quit  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k settingsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k settingsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter, k.Quit},
	}
}

// editKeyMap defines key bindings while the timeout field is being edited
type editKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (e editKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{e.Confirm, e.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (e editKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{e.Confirm, e.Cancel},
	}
}

// SettingsModel represents the connection settings screen state
type SettingsModel struct {
	// Receiver under setup (shown in the subtitle, may be empty)
	Host string

	// Form state
	TimeoutInput   textinput.Model
	Timeout        int
	ShowAllSources bool
	Zone2          bool
	Zone3          bool

	Cursor         int // Which row is focused
	EditingTimeout bool
	FieldError     string

	// Submission handoff, read by the app model after each update
	Submitted bool

	// UI state
	Width    int
	Height   int
	Help     help.Model
	Keys     settingsKeyMap
	EditKeys editKeyMap
}

// NewSettingsModel creates a settings screen prefilled with the given values
func NewSettingsModel(host string, defaults flow.SettingsInput) SettingsModel {
	timeoutInput := textinput.New()
	timeoutInput.Placeholder = strconv.Itoa(flow.DefaultTimeout)
	timeoutInput.CharLimit = 3
	timeoutInput.Width = 10

	h := help.New()

	keys := settingsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "edit/toggle"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}

	editKeys := editKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}

	return SettingsModel{
		Host:           host,
		TimeoutInput:   timeoutInput,
		Timeout:        defaults.Timeout,
		ShowAllSources: defaults.ShowAllSources,
		Zone2:          defaults.Zone2,
		Zone3:          defaults.Zone3,
		Cursor:         rowTimeout,
		Help:           h,
		Keys:           keys,
		EditKeys:       editKeys,
	}
}

// Init initializes the settings model
func (m SettingsModel) Init() tea.Cmd {
	return nil
}

// Input returns the settings as a form submission
func (m SettingsModel) Input() flow.SettingsInput {
	return flow.SettingsInput{
		Timeout:        m.Timeout,
		ShowAllSources: m.ShowAllSources,
		Zone2:          m.Zone2,
		Zone3:          m.Zone3,
	}
}

// Update handles messages and updates the model
func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.EditingTimeout {
			return m.updateTimeoutEditor(msg)
		}
		return m.updateNormalMode(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
	}

	return m, nil
}

// updateNormalMode handles keyboard input while navigating the form
func (m SettingsModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit

	case "up", "k":
		m.Cursor--
		if m.Cursor < rowTimeout {
			m.Cursor = rowConnect
		}

	case "down", "j":
		m.Cursor++
		if m.Cursor > rowConnect {
			m.Cursor = rowTimeout
		}

	case "enter", " ":
		switch m.Cursor {
		case rowTimeout:
			m.EditingTimeout = true
			m.TimeoutInput.SetValue(strconv.Itoa(m.Timeout))
			m.TimeoutInput.Focus()
			return m, textinput.Blink

		case rowShowAllSources:
			m.ShowAllSources = !m.ShowAllSources

		case rowZone2:
			m.Zone2 = !m.Zone2

		case rowZone3:
			m.Zone3 = !m.Zone3

		case rowConnect:
			m.FieldError = ""
			m.Submitted = true
		}
	}

	return m, nil
}

// updateTimeoutEditor handles keyboard input while editing the timeout field
func (m SettingsModel) updateTimeoutEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "esc":
		// Cancel editing without saving
		m.EditingTimeout = false
		m.TimeoutInput.Blur()
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.TimeoutInput.Value())
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			m.FieldError = "Timeout must be at least 1 second"
			return m, nil
		}
		m.Timeout = n
		m.FieldError = ""
		m.EditingTimeout = false
		m.TimeoutInput.Blur()
		return m, nil
	}

	m.TimeoutInput, cmd = m.TimeoutInput.Update(msg)
	return m, cmd
}

// View renders the settings screen
func (m SettingsModel) View() string {
	var b strings.Builder

	b.WriteString(RenderTitle("Connection Settings"))
	b.WriteString("\n")

	if m.Host != "" {
		b.WriteString(RenderSubtitle("Receiver: " + m.Host))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.renderRow(rowTimeout, "Timeout", m.renderTimeoutValue()))
	b.WriteString("\n")
	b.WriteString(m.renderRow(rowShowAllSources, "Show all sources", FormatToggle(m.ShowAllSources)))
	b.WriteString("\n")
	b.WriteString(m.renderRow(rowZone2, "Zone 2", FormatToggle(m.Zone2)))
	b.WriteString("\n")
	b.WriteString(m.renderRow(rowZone3, "Zone 3", FormatToggle(m.Zone3)))
	b.WriteString("\n\n")

	b.WriteString(m.renderRow(rowConnect, "[ Connect ]", ""))
	b.WriteString("\n")

	if m.FieldError != "" {
		warningStyle := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
		b.WriteString("\n  ")
		b.WriteString(warningStyle.Render("⚠ " + m.FieldError))
		b.WriteString("\n")
	}

	var helpText string
	if m.EditingTimeout {
		helpText = m.Help.View(m.EditKeys)
	} else {
		helpText = m.Help.View(m.Keys)
	}

	return RenderApplicationContainer(b.String(), helpText, m.Width, m.Height)
}

// renderTimeoutValue renders the timeout cell, inline editor included
func (m SettingsModel) renderTimeoutValue() string {
	if m.EditingTimeout {
		return m.TimeoutInput.View()
	}
	unit := "seconds"
	if m.Timeout == 1 {
		unit = "second"
	}
	return fmt.Sprintf("%d %s", m.Timeout, unit)
}

// renderRow renders one form row with a selection indicator
func (m SettingsModel) renderRow(row int, label, value string) string {
	text := label
	if value != "" {
		text = fmt.Sprintf("%-18s %s", label, value)
	}

	if m.Cursor == row && !m.EditingTimeout {
		return SelectedMenuItemStyle.Render("→ " + text)
	}
	if m.Cursor == row {
		return FocusedInputStyle.Render("  " + text)
	}
	return MenuItemStyle.Render("  " + text)
}
