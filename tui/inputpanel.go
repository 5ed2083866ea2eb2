package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// InputPanel is a single-line input. It also serves as the widget.Input the
// components read and reset.
type InputPanel struct {
	input         textinput.Model
	width, height int
}

// NewInputPanel creates a focused input panel with the given prompt.
func NewInputPanel(prompt string) *InputPanel {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Focus()
	return &InputPanel{input: ti}
}

func (p *InputPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEnter {
		text := p.input.Value()
		return p, func() tea.Msg { return InputSubmitMsg{Text: text} }
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *InputPanel) View() string {
	return p.input.View()
}

func (p *InputPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = max(width-len(p.input.Prompt)-1, 1)
}

func (p *InputPanel) Text() string { return p.input.Value() }

func (p *InputPanel) SetText(text string) {
	p.input.SetValue(text)
	p.input.CursorEnd()
}

func (p *InputPanel) Focus() { p.input.Focus() }
