package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dalymople/avrsetup/internal/avr"
)

// selectKeyMap defines key bindings for the receiver selection screen
type selectKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Rescan key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k selectKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Rescan, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k selectKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Rescan, k.Quit},
	}
}

// receiverItem wraps a discovered receiver for use with bubbles/list
type receiverItem struct {
	device avr.DiscoveredDevice
}

// Implement list.Item interface
func (r receiverItem) FilterValue() string {
	return r.device.FriendlyName + " " + r.device.Host + " " + r.device.ModelName
}

// Title returns the receiver name for list display
func (r receiverItem) Title() string {
	if r.device.FriendlyName != "" {
		return r.device.FriendlyName
	}
	if r.device.ModelName != "" {
		return r.device.ModelName
	}
	return r.device.Host
}

// Description returns receiver details for list display
func (r receiverItem) Description() string {
	return fmt.Sprintf("%s • %s", r.device.Host, r.device.ModelName)
}

// receiverDelegate is a custom list delegate for rendering receiver cards
type receiverDelegate struct {
	width int
}

func (d receiverDelegate) Height() int { return 9 } // Card height including borders

func (d receiverDelegate) Spacing() int { return 1 } // Spacing between cards

func (d receiverDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d receiverDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	receiver, ok := item.(receiverItem)
	if !ok {
		return
	}

	device := receiver.device
	selected := index == m.Index()

	name := receiver.Title()

	model := device.ModelName
	if model == "" {
		model = "Unknown"
	}
	manufacturer := device.Manufacturer
	if manufacturer == "" {
		manufacturer = "Unknown"
	}

	// Build content lines
	var content strings.Builder

	// Selection indicator on the name line
	if selected {
		content.WriteString(SelectedMenuItemStyle.Render("→ " + name))
	} else {
		content.WriteString("  " + name)
	}
	content.WriteString("\n\n")

	content.WriteString(fmt.Sprintf("  Host:         %s\n", device.Host))
	content.WriteString(fmt.Sprintf("  Model:        %s\n", model))
	content.WriteString(fmt.Sprintf("  Manufacturer: %s", manufacturer))

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(1, 2).
		MarginLeft(2)

	// Calculate card width (leave room for margins and borders)
	cardWidth := d.width - 6
	if cardWidth < MinTerminalWidth-6 {
		cardWidth = MinTerminalWidth - 6
	}
	if cardWidth > MaxContentWidth-6 {
		cardWidth = MaxContentWidth - 6
	}

	cardStyle = cardStyle.Width(cardWidth)

	// Highlight selected card
	if selected {
		cardStyle = cardStyle.BorderForeground(HighlightColor)
	}

	fmt.Fprint(w, cardStyle.Render(content.String()))
}

// SelectModel represents the receiver selection screen state
type SelectModel struct {
	ReceiverList list.Model
	FieldError   string

	// Selection handoff, read by the app model after each update
	Selected        bool
	RescanRequested bool

	// UI state
	Width  int
	Height int
	Help   help.Model
	Keys   selectKeyMap
}

// NewSelectModel creates a selection screen for the discovered receivers
func NewSelectModel(devices []avr.DiscoveredDevice) SelectModel {
	items := make([]list.Item, len(devices))
	for i, dev := range devices {
		items[i] = receiverItem{device: dev}
	}

	delegate := receiverDelegate{width: MinTerminalWidth}
	receiverList := list.New(items, delegate, 0, 0)
	receiverList.Title = "Discovered Receivers"
	receiverList.SetShowStatusBar(false)
	receiverList.SetFilteringEnabled(true)
	receiverList.Styles.Title = TitleStyle

	h := help.New()

	keys := selectKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "configure"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}

	return SelectModel{
		ReceiverList: receiverList,
		Help:         h,
		Keys:         keys,
	}
}

// SetSize updates the screen dimensions
func (m *SelectModel) SetSize(width, height int) {
	m.Width = width
	m.Height = height
	m.ReceiverList.SetWidth(width - 4)
	m.ReceiverList.SetHeight(height - 10) // Leave room for header/footer
}

// Init initializes the select model
func (m SelectModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m SelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit

		case "enter", " ":
			if m.ReceiverList.SelectedItem() != nil {
				m.Selected = true
				return m, nil
			}

		case "r":
			m.RescanRequested = true
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}

	// Let the list handle navigation and filtering
	m.ReceiverList, cmd = m.ReceiverList.Update(msg)
	return m, cmd
}

// ChosenHost returns the host of the currently highlighted receiver
func (m SelectModel) ChosenHost() string {
	if item, ok := m.ReceiverList.SelectedItem().(receiverItem); ok {
		return item.device.Host
	}
	return ""
}

// View renders the selection screen
func (m SelectModel) View() string {
	var b strings.Builder

	b.WriteString("\n")

	if m.FieldError != "" {
		warningStyle := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
		b.WriteString("  ")
		b.WriteString(warningStyle.Render("⚠ " + m.FieldError))
		b.WriteString("\n\n")
	}

	b.WriteString(m.ReceiverList.View())

	helpText := m.Help.View(m.Keys)
	return RenderApplicationContainer(b.String(), helpText, m.Width, m.Height)
}
