package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dalymople/avrsetup/internal/entries"
	"github.com/dalymople/avrsetup/internal/flow"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenHost     Screen = "host"
	ScreenSelect   Screen = "select"
	ScreenSettings Screen = "settings"
	ScreenConnect  Screen = "connect"
	ScreenDone     Screen = "done"
	ScreenAborted  Screen = "aborted"
)

// stepResultMsg carries the outcome of a flow step back into the update loop
type stepResultMsg struct {
	result flow.Result
}

// doneKeyMap defines key bindings for the done screen
type doneKeyMap struct {
	Another key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k doneKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Another, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k doneKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Another, k.Quit},
	}
}

// abortedKeyMap defines key bindings for the aborted screen
type abortedKeyMap struct {
	Retry key.Binding
	Quit  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k abortedKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Retry, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k abortedKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Retry, k.Quit},
	}
}

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	// Current screen state
	CurrentScreen Screen

	// Screen models
	HostModel     HostModel
	SelectModel   SelectModel
	SettingsModel SettingsModel
	ConnectModel  ConnectModel

	// Wizard state
	Manager *flow.Manager
	Store   *entries.Store
	Flow    *flow.Flow

	// Result state
	CreatedEntry *entries.Entry
	AbortReason  string

	// UI state
	Width  int
	Height int

	// Help
	Help        help.Model
	DoneKeys    doneKeyMap
	AbortedKeys abortedKeyMap
}

// NewAppModel creates a new application model with a fresh setup flow
func NewAppModel(manager *flow.Manager, store *entries.Store) AppModel {
	h := help.New()

	doneKeys := doneKeyMap{
		Another: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add another"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}

	abortedKeys := abortedKeyMap{
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "try again"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}

	model := AppModel{
		CurrentScreen: ScreenHost,
		Manager:       manager,
		Store:         store,
		Flow:          manager.NewFlow(),
		HostModel:     NewHostModel(),
		Help:          h,
		DoneKeys:      doneKeys,
		AbortedKeys:   abortedKeys,
	}

	return model
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	return m.HostModel.Init()
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		// Record dimensions on the inactive screens; the active screen
		// receives the message itself and can resize its components.
		m.HostModel.Width, m.HostModel.Height = msg.Width, msg.Height
		m.SelectModel.Width, m.SelectModel.Height = msg.Width, msg.Height
		m.SettingsModel.Width, m.SettingsModel.Height = msg.Width, msg.Height
		m.ConnectModel.Width, m.ConnectModel.Height = msg.Width, msg.Height
		return m.updateCurrentScreen(msg)

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case stepResultMsg:
		return m.applyResult(msg.result)
	}

	// Route to current screen
	return m.updateCurrentScreen(msg)
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenHost:
		updated, c := m.HostModel.Update(msg)
		m.HostModel = updated.(HostModel)
		cmd = c

		// Submission runs the user step in the background
		if m.HostModel.SubmitRequested {
			m.HostModel.SubmitRequested = false
			input := flow.UserInput{Host: m.HostModel.SubmittedHost}
			return m, tea.Batch(cmd, submitUserCmd(m.Flow, input))
		}

		// Esc exits the wizard from the host screen
		if !m.HostModel.Scanning {
			if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
				return m, tea.Quit
			}
		}

	case ScreenSelect:
		updated, c := m.SelectModel.Update(msg)
		m.SelectModel = updated.(SelectModel)
		cmd = c

		if m.SelectModel.RescanRequested {
			return m.startRescan()
		}

		if m.SelectModel.Selected {
			host := m.SelectModel.ChosenHost()
			m.SelectModel.Selected = false
			if host != "" {
				return m, tea.Batch(cmd, submitSelectCmd(m.Flow, flow.SelectInput{SelectHost: host}))
			}
		}

	case ScreenSettings:
		updated, c := m.SettingsModel.Update(msg)
		m.SettingsModel = updated.(SettingsModel)
		cmd = c

		if m.SettingsModel.Submitted {
			// Show the connect screen while the flow validates the receiver
			m.CurrentScreen = ScreenConnect
			m.ConnectModel = NewConnectModel(m.Flow.Host())
			m.ConnectModel.Width, m.ConnectModel.Height = m.Width, m.Height
			input := m.SettingsModel.Input()
			return m, tea.Batch(cmd, m.ConnectModel.Init(), submitSettingsCmd(m.Flow, input))
		}

	case ScreenConnect:
		updated, c := m.ConnectModel.Update(msg)
		m.ConnectModel = updated.(ConnectModel)
		cmd = c

	case ScreenDone:
		return m.handleDoneScreen(msg)

	case ScreenAborted:
		return m.handleAbortedScreen(msg)
	}

	return m, cmd
}

// applyResult transitions the UI to match a flow step outcome
func (m AppModel) applyResult(res flow.Result) (tea.Model, tea.Cmd) {
	switch r := res.(type) {
	case flow.ShowForm:
		return m.showForm(r)

	case flow.Abort:
		m.AbortReason = r.Reason
		m.CurrentScreen = ScreenAborted
		m.Manager.Dispose(m.Flow.ID)
		return m, nil

	case flow.Created:
		m.CreatedEntry = r.Entry
		m.CurrentScreen = ScreenDone
		m.Manager.Dispose(m.Flow.ID)
		return m, nil
	}

	return m, nil
}

// showForm presents the screen for a form result
func (m AppModel) showForm(r flow.ShowForm) (tea.Model, tea.Cmd) {
	switch r.Step {
	case flow.StepUser:
		m.HostModel = NewHostModel()
		m.HostModel.Width, m.HostModel.Height = m.Width, m.Height
		m.HostModel.FieldError = fieldErrorMessage(r.Errors["base"])
		m.CurrentScreen = ScreenHost
		return m, m.HostModel.Init()

	case flow.StepSelect:
		if m.CurrentScreen == ScreenSelect {
			// Re-shown after an invalid choice; keep the list state
			m.SelectModel.FieldError = fieldErrorMessage(r.Errors["select_host"])
			return m, nil
		}
		m.SelectModel = NewSelectModel(m.Flow.Candidates())
		if m.Width > 0 {
			m.SelectModel.SetSize(m.Width, m.Height)
		}
		m.CurrentScreen = ScreenSelect
		return m, nil

	case flow.StepSettings:
		if m.CurrentScreen == ScreenConnect || m.CurrentScreen == ScreenSettings {
			// Re-shown with a validation error; keep the user's values
			m.SettingsModel.FieldError = fieldErrorMessage(r.Errors["timeout"])
			m.SettingsModel.Submitted = false
			m.CurrentScreen = ScreenSettings
			return m, nil
		}
		m.SettingsModel = NewSettingsModel(m.Flow.Host(), m.settingsDefaults())
		m.SettingsModel.Width, m.SettingsModel.Height = m.Width, m.Height
		m.CurrentScreen = ScreenSettings
		return m, nil
	}

	return m, nil
}

// settingsDefaults returns the settings form prefill, honoring the stored
// default timeout preference.
func (m AppModel) settingsDefaults() flow.SettingsInput {
	defaults := flow.DefaultSettings()
	if m.Store != nil {
		if t := m.Store.Preferences().DefaultTimeout; t > 0 {
			defaults.Timeout = t
		}
	}
	return defaults
}

// startRescan returns to the host screen and runs discovery again
func (m AppModel) startRescan() (tea.Model, tea.Cmd) {
	m.CurrentScreen = ScreenHost
	m.HostModel = NewHostModel()
	m.HostModel.Width, m.HostModel.Height = m.Width, m.Height

	updated, cmd := m.HostModel.startScan()
	m.HostModel = updated
	return m, tea.Batch(cmd, submitUserCmd(m.Flow, flow.UserInput{}))
}

// restartFlow abandons the current flow and starts the wizard over
func (m AppModel) restartFlow() (tea.Model, tea.Cmd) {
	m.Manager.Dispose(m.Flow.ID)
	m.Flow = m.Manager.NewFlow()
	m.CreatedEntry = nil
	m.AbortReason = ""

	m.HostModel = NewHostModel()
	m.HostModel.Width, m.HostModel.Height = m.Width, m.Height
	m.CurrentScreen = ScreenHost
	return m, m.HostModel.Init()
}

// handleDoneScreen handles user input on the done screen
func (m AppModel) handleDoneScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "a", "d":
			// Pair another receiver
			return m.restartFlow()

		case "q", "enter", "esc":
			return m, tea.Quit
		}
	}

	return m, nil
}

// handleAbortedScreen handles user input on the aborted screen
func (m AppModel) handleAbortedScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "r":
			return m.restartFlow()

		case "q", "esc":
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the current screen
// Each screen handles its own container using RenderApplicationContainer()
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenHost:
		return m.HostModel.View()
	case ScreenSelect:
		return m.SelectModel.View()
	case ScreenSettings:
		return m.SettingsModel.View()
	case ScreenConnect:
		return m.ConnectModel.View()
	case ScreenDone:
		return m.renderDoneScreen()
	case ScreenAborted:
		return m.renderAbortedScreen()
	default:
		return "Unknown screen"
	}
}

// renderDoneScreen renders the entry-created result screen
func (m AppModel) renderDoneScreen() string {
	content := m.buildDoneContent()
	helpText := m.Help.View(m.DoneKeys)
	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

// buildDoneContent builds the done screen content
func (m AppModel) buildDoneContent() string {
	var b strings.Builder

	b.WriteString(RenderTitle("✓ Receiver Configured!"))
	b.WriteString("\n\n")

	if m.CreatedEntry != nil {
		entry := m.CreatedEntry

		b.WriteString(SuccessBoxStyle.Render("Saved entry:"))
		b.WriteString("\n\n")

		summary := fmt.Sprintf("  Name:      %s\n", entry.Title)
		summary += fmt.Sprintf("  Host:      %s\n", entry.Data.Host)
		summary += fmt.Sprintf("  Model:     %s\n", entry.Data.Model)
		summary += fmt.Sprintf("  Unique ID: %s\n", entry.UniqueID)
		summary += fmt.Sprintf("  Zone 2:    %s\n", FormatToggle(entry.Data.Zone2))
		summary += fmt.Sprintf("  Zone 3:    %s", FormatToggle(entry.Data.Zone3))

		b.WriteString(summary)
		b.WriteString("\n\n")
	}

	if m.Store != nil {
		b.WriteString(SubtitleStyle.Render("Entries file: " + m.Store.Path()))
		b.WriteString("\n\n")
	}

	b.WriteString("What would you like to do next?\n\n")

	b.WriteString(MenuItemStyle.Render("  a - Add another receiver"))
	b.WriteString("\n")
	b.WriteString(MenuItemStyle.Render("  q - Exit application"))
	b.WriteString("\n")

	return b.String()
}

// renderAbortedScreen renders the aborted result screen
func (m AppModel) renderAbortedScreen() string {
	content := m.buildAbortedContent()
	helpText := m.Help.View(m.AbortedKeys)
	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

// buildAbortedContent builds the aborted screen content
func (m AppModel) buildAbortedContent() string {
	var b strings.Builder

	b.WriteString(RenderTitle("✗ Setup Did Not Complete"))
	b.WriteString("\n\n")

	errorBox := ErrorBoxStyle.Render(abortDetail(m.AbortReason))
	b.WriteString(errorBox)
	b.WriteString("\n\n")

	b.WriteString("Troubleshooting:\n")
	for _, tip := range abortTroubleshooting(m.AbortReason) {
		b.WriteString("  • " + tip + "\n")
	}
	b.WriteString("\n")

	b.WriteString("What would you like to do?\n\n")

	b.WriteString(MenuItemStyle.Render("  r - Try again"))
	b.WriteString("\n")
	b.WriteString(MenuItemStyle.Render("  q - Exit application"))
	b.WriteString("\n")

	return b.String()
}

// abortDetail maps an abort reason to a human-readable message
func abortDetail(reason string) string {
	switch reason {
	case flow.AbortAlreadyConfigured:
		return "This receiver is already configured."
	case flow.AbortConnectionError:
		return "Could not connect to the receiver."
	case flow.AbortNoMAC:
		return "The receiver reported no serial number and its MAC address could not be determined."
	case flow.AbortWrongManufacturer:
		return "The announced device is not a Denon or Marantz receiver."
	case flow.AbortMissingDetails:
		return "The device announcement is missing the model name or serial number."
	default:
		return "The setup flow failed unexpectedly."
	}
}

// abortTroubleshooting returns tips for an abort reason
func abortTroubleshooting(reason string) []string {
	switch reason {
	case flow.AbortAlreadyConfigured:
		return []string{
			"List configured receivers with 'avrsetup entries list'",
			"Remove the old record with 'avrsetup entries delete' to pair it again",
		}
	case flow.AbortConnectionError:
		return []string{
			"Check the receiver is powered on and connected to your network",
			"Confirm the host is correct and reachable",
			"Try a longer timeout in the connection settings",
		}
	case flow.AbortNoMAC:
		return []string{
			"Use an IP address on the local subnet instead of a hostname",
			"Check the receiver answers on its web interface",
		}
	default:
		return []string{
			"Run with --log-level debug for request details",
		}
	}
}

// fieldErrorMessage maps a form field error code to a human-readable message
func fieldErrorMessage(code string) string {
	switch code {
	case "":
		return ""
	case flow.ErrorDiscovery:
		return "No receivers found on your network"
	case flow.ErrorInvalidHost:
		return "Select one of the discovered receivers"
	case flow.ErrorInvalidTimeout:
		return "Timeout must be at least 1 second"
	default:
		return code
	}
}

// submitUserCmd runs the host form submission in the background
func submitUserCmd(f *flow.Flow, input flow.UserInput) tea.Cmd {
	return func() tea.Msg {
		return stepResultMsg{result: f.HandleUser(context.Background(), input)}
	}
}

// submitSelectCmd runs the select form submission in the background
func submitSelectCmd(f *flow.Flow, input flow.SelectInput) tea.Cmd {
	return func() tea.Msg {
		return stepResultMsg{result: f.HandleSelect(context.Background(), input)}
	}
}

// submitSettingsCmd runs the settings form submission in the background
func submitSettingsCmd(f *flow.Flow, input flow.SettingsInput) tea.Cmd {
	return func() tea.Msg {
		return stepResultMsg{result: f.HandleSettings(context.Background(), input)}
	}
}

// Run starts the interactive setup wizard and blocks until the user exits
func Run(manager *flow.Manager, store *entries.Store) error {
	app := NewAppModel(manager, store)
	program := tea.NewProgram(app, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
