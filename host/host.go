// Package host implements the links between the bridge and its embedding
// application. Transports only move payload strings; decoding happens in
// package bridge.
package host

import (
	"context"
	"errors"
	"sync"

	"github.com/linanwx/uibridge/logger"
)

// ErrNotConnected is returned by SendMessage when no host is attached.
var ErrNotConnected = errors.New("host: not connected")

// Dispatch receives one inbound payload. Implementations must not block
// for long; they normally enqueue onto the UI loop.
type Dispatch func(payload string)

// Link is anything that can carry an outbound payload to the host.
type Link interface {
	SendMessage(ctx context.Context, payload string) error
}

// Multi fans outbound payloads out to every link.
type Multi []Link

// SendMessage sends to all links and joins their errors.
func (m Multi) SendMessage(ctx context.Context, payload string) error {
	var errs []error
	for _, link := range m {
		if err := link.SendMessage(ctx, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps every outbound payload in memory.
type Recorder struct {
	mu       sync.Mutex
	payloads []string
}

func (r *Recorder) SendMessage(_ context.Context, payload string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payloads = append(r.payloads, payload)
	return nil
}

// Payloads returns a copy of the recorded payloads.
func (r *Recorder) Payloads() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.payloads))
	copy(out, r.payloads)
	return out
}

// Echo writes outbound payloads to the log instead of a real host.
type Echo struct{}

func (Echo) SendMessage(_ context.Context, payload string) error {
	logger.Info("outbound event", "payload", payload)
	return nil
}
