// Package bridge connects an input field, a send button and an output log to
// an embedding host application through a small JSON command protocol.
package bridge

import (
	"context"
	"time"

	"github.com/linanwx/uibridge/logger"
	"github.com/linanwx/uibridge/textlog"
	"github.com/linanwx/uibridge/widget"
)

const defaultSendTimeout = 5 * time.Second

// Host delivers outbound payloads to the embedding application.
type Host interface {
	SendMessage(ctx context.Context, payload string) error
}

// HostFunc adapts a function to Host.
type HostFunc func(ctx context.Context, payload string) error

func (f HostFunc) SendMessage(ctx context.Context, payload string) error { return f(ctx, payload) }

// Options controls bridge behaviour.
type Options struct {
	ClearInputAfterSend bool
	NotifyHost          bool
	SendTimeout         time.Duration
}

// DefaultOptions clears the input after a send and notifies the host.
func DefaultOptions() Options {
	return Options{
		ClearInputAfterSend: true,
		NotifyHost:          true,
		SendTimeout:         defaultSendTimeout,
	}
}

// Bridge owns no state besides its bindings. All methods must be called
// from the goroutine that owns the widgets.
type Bridge struct {
	Input  widget.Input
	Output widget.Display

	host Host
	opts Options
}

// New creates a bridge. host may be nil and set later with SetHost.
func New(input widget.Input, output widget.Display, host Host, opts Options) *Bridge {
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = defaultSendTimeout
	}
	return &Bridge{
		Input:  input,
		Output: output,
		host:   host,
		opts:   opts,
	}
}

// SetHost replaces the host link. nil disconnects it.
func (b *Bridge) SetHost(h Host) { b.host = h }

// Options returns the current options.
func (b *Bridge) Options() Options { return b.opts }

// SendClicked is the local send trigger: echo the input into the output,
// notify the host, then reset the input.
func (b *Bridge) SendClicked() {
	text := ""
	if b.Input != nil {
		text = b.Input.Text()
	}

	b.appendOutput(text)

	if b.opts.NotifyHost {
		b.Notify(Submitted(text))
	}

	if b.Input == nil {
		return
	}
	if b.opts.ClearInputAfterSend {
		b.Input.SetText("")
	}
	b.Input.Focus()
}

// Notify sends ev to the host. A missing host or a failed send is logged
// and otherwise ignored.
func (b *Bridge) Notify(ev Event) {
	if b.host == nil {
		logger.Warn("host bridge not available, event dropped", "event", ev.Name)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.opts.SendTimeout)
	defer cancel()
	if err := b.host.SendMessage(ctx, ev.Encode()); err != nil {
		logger.Warn("host send failed", "event", ev.Name, "err", err)
	}
}

// HandleCommand decodes and applies one inbound payload. Errors never reach
// the caller.
func (b *Bridge) HandleCommand(payload string) {
	cmd, err := Decode(payload)
	if err != nil {
		logger.Warn("command parse error", "err", err, "payload", payload)
		return
	}
	if cmd == nil {
		logger.Debug("empty command ignored")
		return
	}
	b.Apply(*cmd)
}

// Apply executes a decoded command.
func (b *Bridge) Apply(cmd Command) {
	switch cmd.Kind {
	case KindSetText:
		if b.Input != nil {
			b.Input.SetText(cmd.Value)
		}
	case KindAppendOutput:
		b.appendOutput(cmd.Value)
	case KindClearOutput:
		if b.Output != nil {
			b.Output.SetText("")
		}
	case KindSubmit:
		if b.Input != nil && cmd.Value != "" {
			b.Input.SetText(cmd.Value)
		}
		b.SendClicked()
	case KindUnknown:
		logger.Info("unknown command", "cmd", cmd.Tag)
	}
}

func (b *Bridge) appendOutput(line string) {
	if b.Output == nil || line == "" {
		return
	}
	b.Output.SetText(textlog.AppendLine(b.Output.Text(), line))
}
