package textlog

import (
	"fmt"
	"strings"
	"testing"
)

func TestAppendLineSeparatesOnlyNonEmpty(t *testing.T) {
	got := AppendLine("", "x")
	if got != "x" {
		t.Fatalf("AppendLine(\"\", x) = %q, want %q", got, "x")
	}
	got = AppendLine(got, "y")
	if got != "x\ny" {
		t.Fatalf("AppendLine(x, y) = %q, want %q", got, "x\ny")
	}
}

func TestIsBlank(t *testing.T) {
	for _, s := range []string{"", " ", "\t\n", "  "} {
		if !IsBlank(s) {
			t.Fatalf("IsBlank(%q) = false, want true", s)
		}
	}
	if IsBlank(" a ") {
		t.Fatal("IsBlank(\" a \") = true, want false")
	}
}

func TestKeepLastUnlimited(t *testing.T) {
	text := "a\nb\nc"
	for _, max := range []int{0, -1} {
		if got := KeepLast(text, max); got != text {
			t.Fatalf("KeepLast(%q, %d) = %q, want unchanged", text, max, got)
		}
	}
}

func TestKeepLastRetainsMostRecentInOrder(t *testing.T) {
	for max := 1; max <= 5; max++ {
		text := ""
		for i := 1; i <= 12; i++ {
			text = KeepLast(AppendLine(text, fmt.Sprintf("line-%d", i)), max)

			lines := Lines(text)
			if len(lines) > max {
				t.Fatalf("max=%d after %d appends: %d lines", max, i, len(lines))
			}
			first := i - len(lines) + 1
			for j, line := range lines {
				if want := fmt.Sprintf("line-%d", first+j); line != want {
					t.Fatalf("max=%d after %d appends: line %d = %q, want %q", max, i, j, line, want)
				}
			}
		}
	}
}

func TestKeepLastCountsEmbeddedNewlines(t *testing.T) {
	text := AppendLine("one", "two\nthree")
	if got := KeepLast(text, 2); got != "two\nthree" {
		t.Fatalf("KeepLast() = %q, want %q", got, "two\nthree")
	}
	if got := strings.Count(KeepLast(text, 1), "\n"); got != 0 {
		t.Fatalf("KeepLast(text, 1) has %d separators, want 0", got)
	}
}

func TestLinesEmpty(t *testing.T) {
	if got := Lines(""); got != nil {
		t.Fatalf("Lines(\"\") = %v, want nil", got)
	}
}
