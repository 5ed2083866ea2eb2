// Package bus serialises UI triggers onto a single goroutine when no
// terminal front end owns the event loop.
package bus

import (
	"context"
	"sync"

	"github.com/linanwx/uibridge/logger"
)

const defaultBufferSize = 100

// Handler handles one event. Handlers run on the goroutine calling Run.
type Handler func(ctx context.Context, event *Event)

// Bus is a FIFO queue with one consumer. Publishing is safe from any
// goroutine; handlers never run concurrently with each other.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType]Handler

	eventChan chan *Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewBus creates a bus with the given queue size.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Bus{
		handlers:  make(map[EventType]Handler),
		eventChan: make(chan *Event, bufferSize),
		done:      make(chan struct{}),
	}
}

// Handle registers the handler for eventType, replacing any previous one.
func (b *Bus) Handle(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = handler
	logger.Debug("bus handler registered", "eventType", eventType)
}

// Publish enqueues an event without blocking. It reports false when the
// event was dropped.
func (b *Bus) Publish(event *Event) bool {
	select {
	case <-b.done:
		logger.Warn("bus closed, event dropped", "type", event.Type)
		return false
	default:
	}

	select {
	case b.eventChan <- event:
		logger.Debug("event published", "type", event.Type, "source", event.Source)
		return true
	default:
		logger.Warn("event buffer full, event dropped", "type", event.Type)
		return false
	}
}

// PublishWait enqueues an event, waiting for room in the queue. It reports
// false when the bus is closed or ctx ends first.
func (b *Bus) PublishWait(ctx context.Context, event *Event) bool {
	select {
	case <-b.done:
		logger.Warn("bus closed, event dropped", "type", event.Type)
		return false
	default:
	}

	select {
	case b.eventChan <- event:
		logger.Debug("event published", "type", event.Type, "source", event.Source)
		return true
	case <-b.done:
		logger.Warn("bus closed, event dropped", "type", event.Type)
		return false
	case <-ctx.Done():
		return false
	}
}

// Close stops accepting events. Run drains what is queued and returns.
func (b *Bus) Close() {
	b.closeOnce.Do(func() { close(b.done) })
}

// Run dispatches events until ctx is cancelled or Close is called.
func (b *Bus) Run(ctx context.Context) {
	for {
		select {
		case event := <-b.eventChan:
			b.dispatch(ctx, event)
		case <-ctx.Done():
			b.drain(ctx)
			return
		case <-b.done:
			b.drain(ctx)
			return
		}
	}
}

func (b *Bus) drain(ctx context.Context) {
	for {
		select {
		case event := <-b.eventChan:
			b.dispatch(ctx, event)
		default:
			return
		}
	}
}

func (b *Bus) dispatch(ctx context.Context, event *Event) {
	b.mu.RLock()
	h := b.handlers[event.Type]
	b.mu.RUnlock()

	if h == nil {
		logger.Debug("no handler for event", "type", event.Type)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("handler panic", "type", event.Type, "id", event.ID, "panic", r)
		}
	}()
	h(ctx, event)
}
