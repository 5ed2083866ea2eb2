// Package textlog implements the newline-joined text buffers shown in the
// output panels: append-as-line, blank detection and keep-last-N truncation.
package textlog

import "strings"

const separator = "\n"

// IsBlank reports whether s is empty or whitespace only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// AppendLine returns text with line appended as a new line. A separator is
// inserted only when text is non-empty.
func AppendLine(text, line string) string {
	if text == "" {
		return line
	}
	return text + separator + line
}

// KeepLast returns the trailing max lines of text. A max of zero or less
// means unlimited and returns text unchanged.
func KeepLast(text string, max int) string {
	if max <= 0 {
		return text
	}
	lines := strings.Split(text, separator)
	if len(lines) <= max {
		return text
	}
	return strings.Join(lines[len(lines)-max:], separator)
}

// Lines splits text into its lines. The empty buffer has no lines.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, separator)
}
