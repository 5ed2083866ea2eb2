package bridge

import "testing"

func TestDecodeKnownKinds(t *testing.T) {
	cases := []struct {
		payload string
		kind    Kind
		value   string
	}{
		{`{"cmd":"setText","value":"hi"}`, KindSetText, "hi"},
		{`{"cmd":"appendOutput","value":"x"}`, KindAppendOutput, "x"},
		{`{"cmd":"clearOutput"}`, KindClearOutput, ""},
		{`{"cmd":"submit","value":"go"}`, KindSubmit, "go"},
		{`{"cmd":"setText","value":null}`, KindSetText, ""},
		{`{"cmd":"explode","value":"boom"}`, KindUnknown, "boom"},
		{`{"cmd":"SETTEXT"}`, KindUnknown, ""},
		{`{"cmd":"submit","value":"a","extra":1}`, KindSubmit, "a"},
	}
	for _, tc := range cases {
		cmd, err := Decode(tc.payload)
		if err != nil {
			t.Fatalf("Decode(%s) error = %v", tc.payload, err)
		}
		if cmd == nil {
			t.Fatalf("Decode(%s) = nil", tc.payload)
		}
		if cmd.Kind != tc.kind || cmd.Value != tc.value {
			t.Fatalf("Decode(%s) = {%v %q}, want {%v %q}", tc.payload, cmd.Kind, cmd.Value, tc.kind, tc.value)
		}
	}
}

func TestDecodeEmptyCommands(t *testing.T) {
	for _, payload := range []string{`null`, `{}`, `{"cmd":""}`, `{"cmd":null,"value":"x"}`} {
		cmd, err := Decode(payload)
		if err != nil {
			t.Fatalf("Decode(%s) error = %v", payload, err)
		}
		if cmd != nil {
			t.Fatalf("Decode(%s) = %+v, want nil", payload, cmd)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, payload := range []string{``, `{`, `not json`, `{"cmd":1}`, `{"cmd":"setText","value":3}`, `[]`} {
		if _, err := Decode(payload); err == nil {
			t.Fatalf("Decode(%q) error = nil, want error", payload)
		}
	}
}

func TestKindStringRoundTrip(t *testing.T) {
	for _, k := range []Kind{KindSetText, KindAppendOutput, KindClearOutput, KindSubmit} {
		if got := ParseKind(k.String()); got != k {
			t.Fatalf("ParseKind(%q) = %v, want %v", k.String(), got, k)
		}
	}
	if KindUnknown.String() != "unknown" {
		t.Fatalf("KindUnknown.String() = %q", KindUnknown.String())
	}
}
