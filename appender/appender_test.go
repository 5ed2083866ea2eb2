package appender

import (
	"fmt"
	"strings"
	"testing"

	"github.com/linanwx/uibridge/textlog"
	"github.com/linanwx/uibridge/widget"
)

func newTestAppender(opts Options) (*Appender, *widget.Field, *widget.Label, *widget.ScrollRegion) {
	in := widget.NewField("")
	out := widget.NewLabel("")
	vp := widget.NewScrollRegion(0)
	return New(in, out, vp, opts), in, out, vp
}

func TestAppendFromInputTrimsAndAppends(t *testing.T) {
	a, in, out, _ := newTestAppender(DefaultOptions())

	in.SetText("  first  ")
	a.AppendFromInput()
	in.SetText("\tsecond\n")
	a.AppendFromInput()

	if got := out.Text(); got != "first\nsecond" {
		t.Fatalf("output = %q, want %q", got, "first\nsecond")
	}
}

func TestAppendFromInputIgnoresBlank(t *testing.T) {
	a, in, out, vp := newTestAppender(DefaultOptions())
	out.SetText("kept")

	for _, blank := range []string{"", "   ", "\t\n"} {
		in.SetText(blank)
		a.AppendFromInput()
		if got := out.Text(); got != "kept" {
			t.Fatalf("blank input %q changed output to %q", blank, got)
		}
		if in.Text() != blank {
			t.Fatalf("blank input %q was cleared", blank)
		}
	}
	if vp.Layouts() != 0 {
		t.Fatalf("blank input scrolled viewport %d times", vp.Layouts())
	}
}

func TestAppendFromInputCapsLines(t *testing.T) {
	const max = 3
	a, in, out, _ := newTestAppender(Options{MaxLines: max})

	for i := 1; i <= 7; i++ {
		in.SetText(fmt.Sprintf("entry %d", i))
		a.AppendFromInput()

		lines := textlog.Lines(out.Text())
		if len(lines) > max {
			t.Fatalf("after %d appends: %d lines, want <= %d", i, len(lines), max)
		}
		if last := lines[len(lines)-1]; last != fmt.Sprintf("entry %d", i) {
			t.Fatalf("after %d appends: last line = %q", i, last)
		}
	}
	if got := out.Text(); got != "entry 5\nentry 6\nentry 7" {
		t.Fatalf("output = %q", got)
	}
}

func TestAppendFromInputClearAndFocus(t *testing.T) {
	a, in, _, _ := newTestAppender(Options{ClearAfterAdd: true})
	in.SetText("hello")
	a.AppendFromInput()
	if in.Text() != "" {
		t.Fatalf("input = %q, want cleared", in.Text())
	}
	if !in.Focused() {
		t.Fatal("input should regain focus after add")
	}

	b, in2, _, _ := newTestAppender(Options{ClearAfterAdd: false})
	in2.SetText("hello")
	b.AppendFromInput()
	if in2.Text() != "hello" {
		t.Fatalf("input = %q, want untouched", in2.Text())
	}
	if in2.Focused() {
		t.Fatal("input focused although ClearAfterAdd is off")
	}
}

func TestAppendFromInputScrollsToBottom(t *testing.T) {
	a, in, _, vp := newTestAppender(DefaultOptions())
	vp.SetPosition(0.7)

	in.SetText("x")
	a.AppendFromInput()

	if !vp.AtBottom() {
		t.Fatalf("viewport position = %v, want bottom", vp.Position())
	}
	if vp.Layouts() != 1 {
		t.Fatalf("Layouts() = %d, want 1", vp.Layouts())
	}
}

func TestAppendFromInputMissingBindings(t *testing.T) {
	out := widget.NewLabel("x")
	New(nil, out, nil, DefaultOptions()).AppendFromInput()
	if out.Text() != "x" {
		t.Fatalf("output changed without input: %q", out.Text())
	}

	in := widget.NewField("y")
	New(in, nil, nil, DefaultOptions()).AppendFromInput()
	if in.Text() != "y" {
		t.Fatalf("input changed without output: %q", in.Text())
	}

	a := New(widget.NewField("z"), widget.NewLabel(""), nil, DefaultOptions())
	a.AppendFromInput()
	if a.Output.Text() != "z" {
		t.Fatalf("output = %q, want %q", a.Output.Text(), "z")
	}
}

func TestSubmitAndClickShareEntryPoint(t *testing.T) {
	a, in, out, _ := newTestAppender(DefaultOptions())

	in.SetText("typed")
	a.OnSubmit("ignored argument")
	in.SetText("clicked")
	a.OnClick()

	if got := out.Text(); got != "typed\nclicked" {
		t.Fatalf("output = %q", got)
	}
	if strings.Contains(out.Text(), "ignored") {
		t.Fatal("OnSubmit used its argument instead of the field text")
	}
}
