// Package console is the plain front end used when stdin is not a terminal
// or is owned by the host link. Every trigger goes through a bus so the
// components only ever run on one goroutine.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/linanwx/uibridge/appender"
	"github.com/linanwx/uibridge/bridge"
	"github.com/linanwx/uibridge/bus"
	"github.com/linanwx/uibridge/config"
	"github.com/linanwx/uibridge/logger"
	"github.com/linanwx/uibridge/textlog"
	"github.com/linanwx/uibridge/widget"
)

const (
	// SourceSchedule marks payloads fired by the scheduler.
	SourceSchedule = "schedule"

	busBufferSize = 256
)

// Options configures a console.
type Options struct {
	Mode         string
	Prompt       string
	ScrollBottom float64
	Appender     appender.Options
	Bridge       bridge.Options
	Host         bridge.Host

	// In supplies local input lines. nil disables local input.
	In io.Reader
	// Out receives output log changes. nil discards them.
	Out io.Writer
	// KeepRunning keeps the console alive after In reaches EOF, for when
	// host links still feed it. /exit and /quit always stop it.
	KeepRunning bool
}

// Console binds one component to headless widgets and drives it from a bus.
type Console struct {
	bus    *bus.Bus
	input  *widget.Field
	output *widget.Label
	scroll *widget.ScrollRegion

	appender *appender.Appender
	bridge   *bridge.Bridge

	in          io.Reader
	out         io.Writer
	prompt      string
	keepRunning bool
	shown       string
}

// New creates a console. Call Run to start processing.
func New(opts Options) *Console {
	c := &Console{
		bus:    bus.NewBus(busBufferSize),
		input:  widget.NewField(""),
		output: widget.NewLabel(""),
		scroll: widget.NewScrollRegion(opts.ScrollBottom),
		in:     opts.In,
		out:    opts.Out,
		prompt: opts.Prompt,

		keepRunning: opts.KeepRunning,
	}
	if c.out == nil {
		c.out = io.Discard
	}

	switch opts.Mode {
	case config.ModeAppender:
		c.appender = appender.New(c.input, c.output, c.scroll, opts.Appender)
	default:
		c.bridge = bridge.New(c.input, c.output, opts.Host, opts.Bridge)
	}

	c.bus.Handle(bus.EventInputSubmitted, c.onInput)
	c.bus.Handle(bus.EventHostCommand, c.onCommand)
	c.bus.Handle(bus.EventScheduled, c.onCommand)
	return c
}

// Deliver queues an inbound payload, waiting while the queue is full. It
// returns without queueing once the console has stopped. Safe for
// concurrent use.
func (c *Console) Deliver(source, payload string) {
	eventType := bus.EventHostCommand
	if source == SourceSchedule {
		eventType = bus.EventScheduled
	}
	c.bus.PublishWait(context.Background(), bus.NewEvent(eventType, source, payload))
}

// Submit queues text as if typed into the input and confirmed.
func (c *Console) Submit(text string) {
	c.submit(context.Background(), text)
}

func (c *Console) submit(ctx context.Context, text string) {
	c.bus.PublishWait(ctx, bus.NewEvent(bus.EventInputSubmitted, "local", text))
}

// Output returns the current output log.
func (c *Console) Output() *widget.Label { return c.output }

// Input returns the input field.
func (c *Console) Input() *widget.Field { return c.input }

// Close stops the console after queued events are processed.
func (c *Console) Close() {
	c.bus.Close()
}

// Run processes events until ctx is cancelled, Close is called, or local
// input ends.
func (c *Console) Run(ctx context.Context) error {
	defer c.Close()
	if c.in != nil {
		go c.readInput(ctx)
	}
	c.bus.Run(ctx)
	return nil
}

func (c *Console) readInput(ctx context.Context) {
	scanner := bufio.NewScanner(c.in)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if c.prompt != "" {
			fmt.Fprint(c.out, c.prompt)
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				logger.Warn("console input error", "err", err)
			}
			if !c.keepRunning {
				c.Close()
			}
			return
		}
		text := scanner.Text()
		switch strings.TrimSpace(text) {
		case "/exit", "/quit":
			c.Close()
			return
		}
		c.submit(ctx, text)
	}
}

func (c *Console) onInput(_ context.Context, e *bus.Event) {
	c.input.SetText(e.Payload)
	if c.appender != nil {
		c.appender.OnSubmit(e.Payload)
	} else {
		c.bridge.SendClicked()
	}
	c.render()
}

func (c *Console) onCommand(_ context.Context, e *bus.Event) {
	if c.bridge == nil {
		logger.Debug("host command ignored in appender mode", "source", e.Source)
		return
	}
	c.bridge.HandleCommand(e.Payload)
	c.render()
}

// render prints the newest output line whenever the log changes.
func (c *Console) render() {
	text := c.output.Text()
	if text == c.shown {
		return
	}
	c.shown = text
	if text == "" {
		logger.Info("output cleared")
		return
	}
	lines := textlog.Lines(text)
	fmt.Fprintln(c.out, lines[len(lines)-1])
}
