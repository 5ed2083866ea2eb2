// Package widget defines the UI collaborators the appender and the bridge
// operate on, plus headless implementations used when no terminal is
// attached and in tests.
package widget

// Input is an editable text field.
type Input interface {
	Text() string
	SetText(string)
	// Focus returns keyboard focus to the field.
	Focus()
}

// Display is a read-only text region showing a log buffer.
type Display interface {
	Text() string
	SetText(string)
}

// Scroller is a scrollable viewport wrapping a Display.
type Scroller interface {
	// Layout forces pending content changes to be measured before scrolling.
	Layout()
	ScrollToBottom()
}

// Field is a headless Input.
type Field struct {
	text    string
	focused bool
}

// NewField returns a field holding text.
func NewField(text string) *Field {
	return &Field{text: text}
}

func (f *Field) Text() string        { return f.text }
func (f *Field) SetText(text string) { f.text = text }
func (f *Field) Focus()              { f.focused = true }

// Blur drops focus, as a click elsewhere would.
func (f *Field) Blur() { f.focused = false }

// Focused reports whether the field currently holds focus.
func (f *Field) Focused() bool { return f.focused }

// Label is a headless Display.
type Label struct {
	text string
}

func NewLabel(text string) *Label { return &Label{text: text} }

func (l *Label) Text() string        { return l.text }
func (l *Label) SetText(text string) { l.text = text }

// ScrollRegion is a headless Scroller using a normalized vertical position.
// Toolkits disagree on which end 0 refers to, so the position that means
// "bottom" is configurable.
type ScrollRegion struct {
	BottomPosition float64

	position float64
	layouts  int
}

// NewScrollRegion returns a region scrolled to the top.
func NewScrollRegion(bottom float64) *ScrollRegion {
	return &ScrollRegion{BottomPosition: bottom, position: 1 - bottom}
}

func (s *ScrollRegion) Layout() { s.layouts++ }

func (s *ScrollRegion) ScrollToBottom() { s.position = s.BottomPosition }

// Position returns the current normalized vertical position.
func (s *ScrollRegion) Position() float64 { return s.position }

// SetPosition scrolls to p, as a user drag would.
func (s *ScrollRegion) SetPosition(p float64) { s.position = p }

// AtBottom reports whether the region is scrolled to the bottom.
func (s *ScrollRegion) AtBottom() bool { return s.position == s.BottomPosition }

// Layouts returns how many layout passes have been forced.
func (s *ScrollRegion) Layouts() int { return s.layouts }
