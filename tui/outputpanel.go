package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// OutputPanel shows the log buffer owned by the active component. It is the
// widget.Display and widget.Scroller for that component.
type OutputPanel struct {
	viewport viewport.Model
	text     string
}

// NewOutputPanel creates an empty output panel.
func NewOutputPanel() *OutputPanel {
	vp := viewport.New(0, 0)
	vp.SetContent("")
	return &OutputPanel{viewport: vp}
}

func (p *OutputPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func (p *OutputPanel) View() string {
	return p.viewport.View()
}

func (p *OutputPanel) SetSize(width, height int) {
	p.viewport.Width = width
	p.viewport.Height = height
}

func (p *OutputPanel) Text() string { return p.text }

func (p *OutputPanel) SetText(text string) {
	p.text = text
	p.viewport.SetContent(text)
}

// Layout re-measures the content against the current viewport size.
func (p *OutputPanel) Layout() {
	p.viewport.SetContent(p.text)
}

func (p *OutputPanel) ScrollToBottom() {
	p.viewport.GotoBottom()
}

// AtBottom reports whether the last line is visible.
func (p *OutputPanel) AtBottom() bool {
	return p.viewport.AtBottom()
}
