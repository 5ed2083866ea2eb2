package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/linanwx/uibridge/textlog"
)

const defaultMaxLogLines = 500

var logLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // dim gray

// LogPanel displays intercepted log records, capped to the newest lines.
type LogPanel struct {
	viewport viewport.Model
	text     string
	maxLines int
}

// NewLogPanel creates a log panel.
func NewLogPanel() *LogPanel {
	vp := viewport.New(0, 0)
	vp.SetContent("")
	return &LogPanel{
		viewport: vp,
		maxLines: defaultMaxLogLines,
	}
}

func (p *LogPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	if msg, ok := msg.(LogLineMsg); ok {
		line := strings.TrimRight(msg.Line, "\n")
		p.text = textlog.KeepLast(textlog.AppendLine(p.text, logLineStyle.Render(line)), p.maxLines)
		p.viewport.SetContent(p.text)
		p.viewport.GotoBottom()
		return p, nil
	}
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func (p *LogPanel) View() string {
	return p.viewport.View()
}

func (p *LogPanel) SetSize(width, height int) {
	p.viewport.Width = width
	p.viewport.Height = height
}

// Lines returns the number of retained log lines.
func (p *LogPanel) Lines() int {
	return len(textlog.Lines(p.text))
}
