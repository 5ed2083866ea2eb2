package tui

import (
	"bytes"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

const logQueueSize = 256

// Sender injects messages into a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// LogWriter forwards each written line to the log panel. Lines are queued
// and sent from a separate goroutine, since components log from inside
// Update and Program.Send blocks until the update loop reads.
type LogWriter struct {
	program Sender
	lines   chan string

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewLogWriter returns a writer suitable for logger.Intercept. Close it
// after logger.Restore.
func NewLogWriter(p Sender) *LogWriter {
	w := &LogWriter{
		program: p,
		lines:   make(chan string, logQueueSize),
		done:    make(chan struct{}),
	}
	go w.pump()
	return w
}

func (w *LogWriter) pump() {
	defer close(w.done)
	for line := range w.lines {
		w.program.Send(LogLineMsg{Line: line})
	}
}

// Write queues every non-empty line. Lines are dropped when the queue is
// full or the writer is closed.
func (w *LogWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return len(p), nil
	}
	for _, line := range bytes.Split(p, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		select {
		case w.lines <- string(line):
		default:
		}
	}
	return len(p), nil
}

// Close stops the pump after queued lines are sent.
func (w *LogWriter) Close() error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.lines)
	}
	w.mu.Unlock()
	<-w.done
	return nil
}
