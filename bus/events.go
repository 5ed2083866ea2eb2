package bus

import (
	"fmt"
	"sync/atomic"
	"time"
)

// EventType represents the type of event.
type EventType string

const (
	// EventInputSubmitted carries text entered in the local input.
	EventInputSubmitted EventType = "input.submitted"
	// EventHostCommand carries a raw inbound payload from a host link.
	EventHostCommand EventType = "host.command"
	// EventScheduled carries a raw inbound payload fired by the scheduler.
	EventScheduled EventType = "schedule.fired"
)

// Event is one trigger for the UI loop.
type Event struct {
	ID        string
	Type      EventType
	Source    string
	Timestamp time.Time
	Payload   string
}

// NewEvent creates an event stamped with the current time.
func NewEvent(eventType EventType, source, payload string) *Event {
	return &Event{
		ID:        generateEventID(),
		Type:      eventType,
		Source:    source,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

var eventCounter atomic.Int64

func generateEventID() string {
	n := eventCounter.Add(1)
	return fmt.Sprintf("evt-%d-%d", time.Now().UnixMilli(), n)
}
