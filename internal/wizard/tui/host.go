package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// hostKeyMap defines key bindings for the host entry screen
type hostKeyMap struct {
	Submit key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k hostKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k hostKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Quit},
	}
}

// scanningKeyMap defines key bindings while discovery is running
type scanningKeyMap struct {
	Quit key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (s scanningKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{s.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (s scanningKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{s.Quit},
	}
}

// HostModel represents the host entry screen state
type HostModel struct {
	// Form state
	HostInput  textinput.Model
	FieldError string

	// Scan state
	Scanning      bool
	ScanStartTime time.Time
	ScanSeconds   int

	// Submission handoff, read by the app model after each update
	SubmitRequested bool
	SubmittedHost   string

	// UI state
	Width        int
	Height       int
	Spinner      spinner.Model
	ProgressBar  progress.Model
	Help         help.Model
	Keys         hostKeyMap
	ScanningKeys scanningKeyMap
}

// NewHostModel creates a new host entry screen model
func NewHostModel() HostModel {
	hostInput := textinput.New()
	hostInput.Placeholder = "192.168.1.100"
	hostInput.CharLimit = 253 // Max length for a hostname
	hostInput.Width = 40
	hostInput.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.Width = 40

	h := help.New()

	keys := hostKeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "continue (empty host scans the network)"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "quit"),
		),
	}

	scanningKeys := scanningKeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}

	return HostModel{
		HostInput:    hostInput,
		ScanSeconds:  5,
		Spinner:      s,
		ProgressBar:  progressBar,
		Help:         h,
		Keys:         keys,
		ScanningKeys: scanningKeys,
	}
}

// Init initializes the host model
func (m HostModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model
func (m HostModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Scanning {
			// Input is ignored until the scan finishes
			return m, nil
		}

		if msg.String() == "enter" {
			value := m.HostInput.Value()
			m.SubmitRequested = true
			m.SubmittedHost = value
			if value == "" {
				return m.startScan()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case spinner.TickMsg:
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	// Pass remaining keystrokes to the input field
	if !m.Scanning {
		m.HostInput, cmd = m.HostInput.Update(msg)
	}

	return m, cmd
}

// startScan switches the screen into its scanning state
func (m HostModel) startScan() (HostModel, tea.Cmd) {
	m.Scanning = true
	m.ScanStartTime = time.Now()
	m.FieldError = ""
	m.HostInput.Blur()
	return m, m.Spinner.Tick
}

// View renders the host screen
func (m HostModel) View() string {
	width := m.Width
	if width == 0 {
		width = 72
	}

	var content string
	if m.Scanning {
		content = m.renderScanning(width)
	} else {
		content = m.renderForm()
	}

	var helpText string
	if m.Scanning {
		helpText = m.Help.View(m.ScanningKeys)
	} else {
		helpText = m.Help.View(m.Keys)
	}

	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

// renderForm renders the host entry form
func (m HostModel) renderForm() string {
	var b strings.Builder

	b.WriteString(RenderTitle("Pair a Receiver"))
	b.WriteString("\n")

	b.WriteString(RenderSubtitle("Enter the IP address or hostname of your Denon or Marantz receiver."))
	b.WriteString("\n\n")

	b.WriteString("  Host: ")
	b.WriteString(m.HostInput.View())
	b.WriteString("\n\n")

	if m.FieldError != "" {
		warningStyle := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
		b.WriteString("  ")
		b.WriteString(warningStyle.Render("⚠ " + m.FieldError))
		b.WriteString("\n\n")

		b.WriteString("  Troubleshooting:\n")
		b.WriteString("    • Ensure the receiver is powered on\n")
		b.WriteString("    • Check this machine is on the same network as the receiver\n")
		b.WriteString("    • Multicast traffic must be allowed for discovery to work\n")
		b.WriteString("    • Or enter the receiver's IP address directly\n")
		b.WriteString("\n")
	} else {
		b.WriteString(SubtitleStyle.Render("  Leave the field empty and press Enter to scan the network instead."))
		b.WriteString("\n")
	}

	return b.String()
}

// renderScanning renders a centered scanning progress display
func (m HostModel) renderScanning(width int) string {
	elapsed := time.Since(m.ScanStartTime)
	elapsedSec := int(elapsed.Seconds())

	// Simulated progress over the expected scan duration
	progressPercent := min(100, (elapsedSec*100)/m.ScanSeconds)
	progressFloat := float64(progressPercent) / 100.0

	title := fmt.Sprintf("%s SEARCHING FOR RECEIVERS", m.Spinner.View())
	subtitle := "Scanning your network for Denon and Marantz receivers..."

	progressBar := m.ProgressBar.ViewAs(progressFloat)
	elapsedText := fmt.Sprintf("Elapsed: %ds", elapsedSec)

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		TitleStyle.Render(title),
		"",
		SubtitleStyle.Render(subtitle),
		"",
		progressBar,
		"",
		SubtitleStyle.Render(elapsedText),
		"",
	)

	return lipgloss.Place(width, 0, lipgloss.Center, lipgloss.Top, content)
}

// min returns the minimum of two integers
func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
