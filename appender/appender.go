// Package appender copies submitted input text into an on-screen log.
package appender

import (
	"strings"

	"github.com/linanwx/uibridge/logger"
	"github.com/linanwx/uibridge/textlog"
	"github.com/linanwx/uibridge/widget"
)

// Options controls appender behaviour.
type Options struct {
	ClearAfterAdd bool
	MaxLines      int // 0 = unlimited
}

// DefaultOptions matches the stock scene setup: clear after add, no cap.
func DefaultOptions() Options {
	return Options{ClearAfterAdd: true}
}

// Appender appends trimmed input lines to an output display. Any binding
// may be nil; missing input or output turns every call into a no-op.
type Appender struct {
	Input    widget.Input
	Output   widget.Display
	Viewport widget.Scroller

	opts Options
}

// New creates an appender bound to the given widgets. viewport may be nil.
func New(input widget.Input, output widget.Display, viewport widget.Scroller, opts Options) *Appender {
	return &Appender{
		Input:    input,
		Output:   output,
		Viewport: viewport,
		opts:     opts,
	}
}

// Options returns the current options.
func (a *Appender) Options() Options { return a.opts }

// OnSubmit handles the field's confirm key. The submitted text is ignored;
// the field is re-read so button and keyboard paths behave the same.
func (a *Appender) OnSubmit(string) {
	a.AppendFromInput()
}

// OnClick handles the add button.
func (a *Appender) OnClick() {
	a.AppendFromInput()
}

// AppendFromInput appends the trimmed input text as a new output line.
// Blank input is ignored.
func (a *Appender) AppendFromInput() {
	if a.Input == nil || a.Output == nil {
		return
	}

	text := a.Input.Text()
	if textlog.IsBlank(text) {
		return
	}
	line := strings.TrimSpace(text)

	out := textlog.AppendLine(a.Output.Text(), line)
	out = textlog.KeepLast(out, a.opts.MaxLines)
	a.Output.SetText(out)
	logger.Debug("appended line", "len", len(line), "maxLines", a.opts.MaxLines)

	if a.opts.ClearAfterAdd {
		a.Input.SetText("")
		a.Input.Focus()
	}

	if a.Viewport != nil {
		a.Viewport.Layout()
		a.Viewport.ScrollToBottom()
	}
}
