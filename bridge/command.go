package bridge

import (
	"encoding/json"
	"fmt"
)

// Kind identifies an inbound command.
type Kind int

const (
	KindUnknown Kind = iota
	KindSetText
	KindAppendOutput
	KindClearOutput
	KindSubmit
)

var kindNames = map[Kind]string{
	KindSetText:      "setText",
	KindAppendOutput: "appendOutput",
	KindClearOutput:  "clearOutput",
	KindSubmit:       "submit",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind maps a wire tag to its Kind. Tags are case-sensitive.
func ParseKind(tag string) Kind {
	for k, name := range kindNames {
		if name == tag {
			return k
		}
	}
	return KindUnknown
}

// Command is a decoded inbound command.
type Command struct {
	Kind Kind
	// Tag is the raw "cmd" field, kept for logging unknown commands.
	Tag   string
	Value string
}

type wireCommand struct {
	Cmd   *string `json:"cmd"`
	Value *string `json:"value"`
}

// Decode parses an inbound payload. A JSON null payload or a missing/empty
// "cmd" decodes to a nil command and a nil error.
func Decode(payload string) (*Command, error) {
	var w *wireCommand
	if err := json.Unmarshal([]byte(payload), &w); err != nil {
		return nil, fmt.Errorf("decode command: %w", err)
	}
	if w == nil || w.Cmd == nil || *w.Cmd == "" {
		return nil, nil
	}

	cmd := &Command{
		Kind: ParseKind(*w.Cmd),
		Tag:  *w.Cmd,
	}
	if w.Value != nil {
		cmd.Value = *w.Value
	}
	return cmd, nil
}
