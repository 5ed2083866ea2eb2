package bridge

import "strings"

// EventSubmitted is the only outbound event name.
const EventSubmitted = "submitted"

// Event is an outbound notification to the host.
type Event struct {
	Name  string
	Value string
}

// Submitted returns the event announcing that value was sent from the input.
func Submitted(value string) Event {
	return Event{Name: EventSubmitted, Value: value}
}

// escaper only touches backslash and double quote. Newlines and control
// characters are written verbatim.
var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Escape applies the outbound string escaping.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Encode renders the event as {"event":"...","value":"..."}.
func (e Event) Encode() string {
	var b strings.Builder
	b.Grow(len(e.Name) + len(e.Value) + 24)
	b.WriteString(`{"event":"`)
	b.WriteString(Escape(e.Name))
	b.WriteString(`","value":"`)
	b.WriteString(Escape(e.Value))
	b.WriteString(`"}`)
	return b.String()
}
