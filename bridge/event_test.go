package bridge

import "testing"

func TestEncodeSubmitted(t *testing.T) {
	got := Submitted("go").Encode()
	want := `{"event":"submitted","value":"go"}`
	if got != want {
		t.Fatalf("Encode() = %s, want %s", got, want)
	}
}

func TestEscapeQuotesAndBackslashes(t *testing.T) {
	got := Escape(`He said "hi"\path`)
	want := `He said \"hi\"\\path`
	if got != want {
		t.Fatalf("Escape() = %s, want %s", got, want)
	}

	enc := Submitted(`He said "hi"\path`).Encode()
	if enc != `{"event":"submitted","value":"He said \"hi\"\\path"}` {
		t.Fatalf("Encode() = %s", enc)
	}
}

func TestEscapeLeavesControlCharacters(t *testing.T) {
	in := "a\nb\tc"
	if got := Escape(in); got != in {
		t.Fatalf("Escape(%q) = %q, want unchanged", in, got)
	}
}

func TestEscapeBackslashBeforeQuote(t *testing.T) {
	// A literal \" must become \\\" and not \\\\".
	if got := Escape(`\"`); got != `\\\"` {
		t.Fatalf(`Escape(\") = %s, want \\\"`, got)
	}
}
