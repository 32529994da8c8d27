// Package tui implements the terminal user interface for the receiver setup
// wizard.
//
// This package provides an interactive, full-screen TUI for pairing Denon and
// Marantz network receivers. Built using the Bubble Tea framework, it follows
// the Elm architecture with immutable state updates and a clean
// Model-Update-View pattern.
//
// # Architecture
//
// The TUI walks the screens of a setup flow:
//   - Host: Enter a receiver address, or leave it empty to scan the network
//   - Select: Pick one of the discovered receivers
//   - Settings: Adjust timeout, source visibility, and zone options
//   - Connect: Wait while the receiver is validated
//   - Done/Aborted: Display the outcome
//
// All screens use a unified container pattern (RenderApplicationContainer) for
// consistent layout with header, content area, and context-sensitive footer.
//
// The screens themselves hold no pairing logic. Each submission is handed to
// the flow engine in a background command, and the resulting form, abort, or
// created entry decides the next screen. The same engine drives the HTTP
// server, so the wizard and the API cannot drift apart.
//
// # Framework Components
//
// The TUI leverages Bubble Tea framework components throughout:
//   - bubbles/spinner: Loading indicators during scans and connects
//   - bubbles/textinput: Host and timeout entry with cursor handling
//   - bubbles/progress: Progress bar during network scans
//   - bubbles/list: Receiver selection cards with filtering
//   - bubbles/help: Context-aware key binding help
//   - lipgloss: Styling and layout
//
// # Usage Example
//
//	store, err := entries.OpenDefault()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	manager := flow.NewManager(store)
//	if err := tui.Run(manager, store); err != nil {
//	    log.Fatal(err)
//	}
//
// # Screen Flow
//
// The typical user flow through the wizard:
//
//  1. Host Screen:
//     - User types the receiver address, or submits an empty field
//     - An empty submission scans the network and shows progress
//     - A single discovery result skips straight to settings
//
//  2. Select Screen (only when several receivers were found):
//     - Receivers are displayed as cards with host, model, and manufacturer
//     - Filtering narrows long lists, 'r' rescans
//
//  3. Settings Screen:
//     - Timeout in seconds (inline edit), minimum 1
//     - Show-all-sources, zone 2, and zone 3 toggles
//     - The Connect row submits the form
//
//  4. Connect Screen:
//     - Spinner while the receiver is contacted and identified
//
//  5. Done/Aborted Screen:
//     - Done shows the saved entry and the entries file location
//     - Aborted explains the failure with troubleshooting hints
//     - Options to add another receiver, retry, or exit
//
// # Key Bindings
//
// Each screen has context-aware key bindings:
//   - Host: Enter submit (empty scans), esc quit
//   - Select: ↑/↓ navigate, Enter configure, r rescan, q quit
//   - Settings: ↑/↓ navigate rows, Enter edit/toggle/connect, q quit
//   - Done/Aborted: a add another, r try again, q quit
//
// Help text automatically updates based on screen state (e.g., while editing
// the timeout field).
//
// # State Management
//
// The TUI maintains immutable state with explicit updates:
//   - Models contain all state (no global variables)
//   - Update() returns new model + commands
//   - View() is pure function of model state
//   - Commands represent async operations (discovery, connecting)
//
// # Thread Safety
//
// The Bubble Tea framework ensures thread safety through message passing.
// All model updates occur in a single goroutine; flow steps run inside
// commands and report back via messages.
package tui
