package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConnectModel represents the waiting screen shown while the flow validates
// the receiver and writes the entry.
type ConnectModel struct {
	Host      string
	StartTime time.Time

	// UI state
	Width   int
	Height  int
	Spinner spinner.Model
}

// NewConnectModel creates a connect screen for the given host
func NewConnectModel(host string) ConnectModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return ConnectModel{
		Host:      host,
		StartTime: time.Now(),
		Spinner:   s,
	}
}

// Init starts the spinner
func (m ConnectModel) Init() tea.Cmd {
	return m.Spinner.Tick
}

// Update handles messages and updates the model
func (m ConnectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case spinner.TickMsg:
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the connect screen
func (m ConnectModel) View() string {
	width := m.Width
	if width == 0 {
		width = 72
	}

	elapsed := int(time.Since(m.StartTime).Seconds())

	title := fmt.Sprintf("%s CONNECTING TO RECEIVER", m.Spinner.View())

	subtitle := "Validating the receiver and reading its identity..."
	if m.Host != "" {
		subtitle = fmt.Sprintf("Validating %s and reading its identity...", m.Host)
	}

	elapsedText := fmt.Sprintf("Elapsed: %ds", elapsed)

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		TitleStyle.Render(title),
		"",
		SubtitleStyle.Render(subtitle),
		"",
		SubtitleStyle.Render(elapsedText),
		"",
	)

	placed := lipgloss.Place(width, 0, lipgloss.Center, lipgloss.Top, content)
	return RenderApplicationContainer(placed, "please wait...", m.Width, m.Height)
}
