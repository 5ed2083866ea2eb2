package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/linanwx/uibridge/appender"
	"github.com/linanwx/uibridge/bridge"
	"github.com/linanwx/uibridge/config"
	"github.com/linanwx/uibridge/logger"
)

const defaultLogRatio = 0.3

var (
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
)

// Options configures the root model.
type Options struct {
	Mode     string
	Prompt   string
	LogRatio float64
	Appender appender.Options
	Bridge   bridge.Options
	Host     bridge.Host
}

// App is the root bubbletea model. Its Update loop is the only goroutine
// that touches the components and their widgets.
type App struct {
	mode       string
	logPanel   *LogPanel
	output     *OutputPanel
	inputPanel *InputPanel

	appender *appender.Appender
	bridge   *bridge.Bridge

	width, height int
	logRatio      float64
}

// NewApp creates the root model and binds the selected component to its
// panels.
func NewApp(opts Options) *App {
	if opts.Prompt == "" {
		opts.Prompt = "> "
	}
	if opts.LogRatio <= 0 || opts.LogRatio >= 1 {
		opts.LogRatio = defaultLogRatio
	}

	m := &App{
		mode:       opts.Mode,
		logPanel:   NewLogPanel(),
		output:     NewOutputPanel(),
		inputPanel: NewInputPanel(opts.Prompt),
		logRatio:   opts.LogRatio,
	}

	switch opts.Mode {
	case config.ModeAppender:
		m.appender = appender.New(m.inputPanel, m.output, m.output, opts.Appender)
	default:
		m.mode = config.ModeBridge
		m.bridge = bridge.New(m.inputPanel, m.output, opts.Host, opts.Bridge)
	}
	return m
}

// Bridge returns the bridge, or nil in appender mode.
func (m *App) Bridge() *bridge.Bridge { return m.bridge }

// Appender returns the appender, or nil in bridge mode.
func (m *App) Appender() *appender.Appender { return m.appender }

// Output returns the output panel.
func (m *App) Output() *OutputPanel { return m.output }

// Input returns the input panel.
func (m *App) Input() *InputPanel { return m.inputPanel }

func (m *App) Init() tea.Cmd {
	return nil
}

func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyPgUp, tea.KeyPgDown:
			_, cmd := m.output.Update(msg)
			return m, cmd
		}
		_, cmd := m.inputPanel.Update(msg)
		cmds = append(cmds, cmd)

	case InputSubmitMsg:
		m.submit(msg.Text)

	case HostCommandMsg:
		m.handleCommand(msg)

	case LogLineMsg:
		_, cmd := m.logPanel.Update(msg)
		cmds = append(cmds, cmd)

	case tea.MouseMsg:
		_, cmd := m.output.Update(msg)
		cmds = append(cmds, cmd)

	default:
		_, cmd := m.inputPanel.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *App) submit(text string) {
	if m.appender != nil {
		m.appender.OnSubmit(text)
		return
	}
	m.bridge.SendClicked()
}

func (m *App) handleCommand(msg HostCommandMsg) {
	if m.bridge == nil {
		logger.Debug("host command ignored in appender mode", "source", msg.Source)
		return
	}
	m.bridge.HandleCommand(msg.Payload)
}

func (m *App) View() string {
	if m.width == 0 || m.height == 0 {
		return "initializing..."
	}

	sep := separatorStyle.Render(strings.Repeat("─", m.width))

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.mode),
		m.output.View(),
		sep,
		m.logPanel.View(),
		sep,
		m.inputPanel.View(),
	)
}

func (m *App) recalcLayout() {
	const inputH = 1
	const titleH = 1
	const sepLines = 2

	usable := max(m.height-inputH-titleH-sepLines, 2)
	logH := max(int(float64(usable)*m.logRatio), 1)
	outH := max(usable-logH, 1)

	m.output.SetSize(m.width, outH)
	m.logPanel.SetSize(m.width, logH)
	m.inputPanel.SetSize(m.width, inputH)
	m.output.Layout()
}
