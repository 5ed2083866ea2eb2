// Package tui is the terminal front end: an output log, an input line and a
// panel showing intercepted log records.
package tui

import tea "github.com/charmbracelet/bubbletea"

// Panel is a composable TUI region with its own state, update logic, and view.
type Panel interface {
	Update(tea.Msg) (Panel, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// LogLineMsg carries a single log line from the logger writer.
type LogLineMsg struct{ Line string }

// InputSubmitMsg is emitted when the user presses Enter in the input panel.
type InputSubmitMsg struct{ Text string }

// HostCommandMsg carries an inbound payload from a host link or the
// scheduler.
type HostCommandMsg struct {
	Source  string
	Payload string
}
