package chat

import (
	"strings"
	"time"
)

// Message is one block of an exported chat transcript: a header line
// ("[10/13/25, 1:23 PM] Alice: ...") plus the body lines that follow it.
type Message struct {
	Timestamp time.Time // wall clock as printed in the transcript, no zone
	Author    string
	Content   string
	Line      int // 1-based line of the header in the input
}

// Lines returns the content split into its physical lines.
func (m Message) Lines() []string {
	if m.Content == "" {
		return nil
	}
	return strings.Split(m.Content, "\n")
}
