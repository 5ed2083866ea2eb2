package bridge

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/linanwx/uibridge/logger"
	"github.com/linanwx/uibridge/widget"
)

type recordingHost struct {
	payloads []string
	err      error
}

func (h *recordingHost) SendMessage(_ context.Context, payload string) error {
	h.payloads = append(h.payloads, payload)
	return h.err
}

func newTestBridge(opts Options) (*Bridge, *widget.Field, *widget.Label, *recordingHost) {
	in := widget.NewField("")
	out := widget.NewLabel("")
	host := &recordingHost{}
	return New(in, out, host, opts), in, out, host
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.Intercept(&buf)
	t.Cleanup(logger.Restore)
	return &buf
}

func TestSetText(t *testing.T) {
	b, in, _, _ := newTestBridge(DefaultOptions())
	b.HandleCommand(`{"cmd":"setText","value":"hi"}`)
	if in.Text() != "hi" {
		t.Fatalf("input = %q, want %q", in.Text(), "hi")
	}
	b.HandleCommand(`{"cmd":"setText"}`)
	if in.Text() != "" {
		t.Fatalf("input = %q, want empty after setText without value", in.Text())
	}
}

func TestAppendOutput(t *testing.T) {
	b, _, out, _ := newTestBridge(DefaultOptions())
	b.HandleCommand(`{"cmd":"appendOutput","value":"x"}`)
	if out.Text() != "x" {
		t.Fatalf("output = %q, want %q", out.Text(), "x")
	}
	b.HandleCommand(`{"cmd":"appendOutput","value":"y"}`)
	if out.Text() != "x\ny" {
		t.Fatalf("output = %q, want %q", out.Text(), "x\ny")
	}
	b.HandleCommand(`{"cmd":"appendOutput","value":""}`)
	b.HandleCommand(`{"cmd":"appendOutput"}`)
	if out.Text() != "x\ny" {
		t.Fatalf("empty appendOutput changed output to %q", out.Text())
	}
}

func TestClearOutput(t *testing.T) {
	b, _, out, _ := newTestBridge(DefaultOptions())
	out.SetText("a\nb\nc")
	b.HandleCommand(`{"cmd":"clearOutput"}`)
	if out.Text() != "" {
		t.Fatalf("output = %q, want empty", out.Text())
	}
}

func TestSubmitSetsTextNotifiesAndAppends(t *testing.T) {
	b, in, out, host := newTestBridge(DefaultOptions())
	b.HandleCommand(`{"cmd":"submit","value":"go"}`)

	if out.Text() != "go" {
		t.Fatalf("output = %q, want %q", out.Text(), "go")
	}
	if len(host.payloads) != 1 || host.payloads[0] != `{"event":"submitted","value":"go"}` {
		t.Fatalf("host payloads = %q", host.payloads)
	}
	if in.Text() != "" {
		t.Fatalf("input = %q, want cleared after send", in.Text())
	}
}

func TestSubmitWithoutValueSendsCurrentInput(t *testing.T) {
	opts := DefaultOptions()
	opts.ClearInputAfterSend = false
	b, in, out, host := newTestBridge(opts)
	in.SetText("typed")

	b.HandleCommand(`{"cmd":"submit"}`)

	if in.Text() != "typed" {
		t.Fatalf("input = %q, want %q", in.Text(), "typed")
	}
	if out.Text() != "typed" {
		t.Fatalf("output = %q", out.Text())
	}
	if len(host.payloads) != 1 || !strings.Contains(host.payloads[0], `"value":"typed"`) {
		t.Fatalf("host payloads = %q", host.payloads)
	}
}

func TestSendClickedNotifyDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.NotifyHost = false
	b, in, out, host := newTestBridge(opts)
	in.SetText("local only")

	b.SendClicked()

	if out.Text() != "local only" {
		t.Fatalf("output = %q", out.Text())
	}
	if len(host.payloads) != 0 {
		t.Fatalf("host received %q with notify disabled", host.payloads)
	}
	if !in.Focused() {
		t.Fatal("input should regain focus after send")
	}
}

func TestSendClickedEmptyInputStillNotifies(t *testing.T) {
	b, _, out, host := newTestBridge(DefaultOptions())
	b.SendClicked()

	if out.Text() != "" {
		t.Fatalf("output = %q, want empty", out.Text())
	}
	if len(host.payloads) != 1 || host.payloads[0] != `{"event":"submitted","value":""}` {
		t.Fatalf("host payloads = %q", host.payloads)
	}
}

func TestSendClickedDoesNotTrimOrCap(t *testing.T) {
	b, in, out, _ := newTestBridge(DefaultOptions())
	for _, s := range []string{" a ", "b", "c", "d"} {
		in.SetText(s)
		b.SendClicked()
	}
	if out.Text() != " a \nb\nc\nd" {
		t.Fatalf("output = %q", out.Text())
	}
}

func TestSendClickedWithoutHostLogsWarning(t *testing.T) {
	logs := captureLogs(t)
	in := widget.NewField("hello")
	out := widget.NewLabel("")
	b := New(in, out, nil, DefaultOptions())

	b.SendClicked()

	if out.Text() != "hello" {
		t.Fatalf("output = %q", out.Text())
	}
	if !strings.Contains(logs.String(), "host bridge not available") {
		t.Fatalf("logs = %q, want missing host warning", logs.String())
	}
}

func TestHostErrorIsSwallowed(t *testing.T) {
	logs := captureLogs(t)
	b, in, out, host := newTestBridge(DefaultOptions())
	host.err = errors.New("pipe closed")
	in.SetText("x")

	b.SendClicked()

	if out.Text() != "x" || in.Text() != "" {
		t.Fatalf("state after failed send: output=%q input=%q", out.Text(), in.Text())
	}
	if !strings.Contains(logs.String(), "pipe closed") {
		t.Fatalf("logs = %q, want host error", logs.String())
	}
}

func TestMalformedPayloadChangesNothing(t *testing.T) {
	logs := captureLogs(t)
	b, in, out, host := newTestBridge(DefaultOptions())
	in.SetText("keep")
	out.SetText("log")

	b.HandleCommand(`{"cmd":"setText","value":`)

	if in.Text() != "keep" || out.Text() != "log" || len(host.payloads) != 0 {
		t.Fatalf("malformed payload changed state: input=%q output=%q host=%q", in.Text(), out.Text(), host.payloads)
	}
	if !strings.Contains(logs.String(), "command parse error") || !strings.Contains(logs.String(), "setText") {
		t.Fatalf("logs = %q, want parse error with payload", logs.String())
	}
}

func TestUnknownCommandIsLogged(t *testing.T) {
	logs := captureLogs(t)
	b, in, out, _ := newTestBridge(DefaultOptions())
	in.SetText("keep")

	b.HandleCommand(`{"cmd":"launchRockets","value":"now"}`)

	if in.Text() != "keep" || out.Text() != "" {
		t.Fatalf("unknown command changed state: input=%q output=%q", in.Text(), out.Text())
	}
	if !strings.Contains(logs.String(), "launchRockets") {
		t.Fatalf("logs = %q, want unknown command tag", logs.String())
	}
}

func TestNullPayloadIsSilent(t *testing.T) {
	logs := captureLogs(t)
	b, in, _, _ := newTestBridge(DefaultOptions())
	in.SetText("keep")

	b.HandleCommand(`null`)

	if in.Text() != "keep" {
		t.Fatalf("input = %q", in.Text())
	}
	if strings.Contains(logs.String(), "level=WARN") {
		t.Fatalf("null payload produced warning: %q", logs.String())
	}
}

func TestMissingBindingsAreNoOps(t *testing.T) {
	host := &recordingHost{}
	b := New(nil, nil, host, DefaultOptions())

	b.HandleCommand(`{"cmd":"setText","value":"a"}`)
	b.HandleCommand(`{"cmd":"appendOutput","value":"a"}`)
	b.HandleCommand(`{"cmd":"clearOutput"}`)
	b.HandleCommand(`{"cmd":"submit","value":"a"}`)

	if len(host.payloads) != 1 || host.payloads[0] != `{"event":"submitted","value":""}` {
		t.Fatalf("host payloads = %q", host.payloads)
	}
}

func TestSetHostAndHostFunc(t *testing.T) {
	b, in, _, _ := newTestBridge(DefaultOptions())
	var got string
	b.SetHost(HostFunc(func(_ context.Context, payload string) error {
		got = payload
		return nil
	}))
	in.SetText(`say "cheese"`)
	b.SendClicked()
	if got != `{"event":"submitted","value":"say \"cheese\""}` {
		t.Fatalf("payload = %s", got)
	}
}
