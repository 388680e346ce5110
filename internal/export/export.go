// Package export writes parsed messages in a few plain formats.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Zuo-Peng/daily-games-bot/internal/chat"
	"gopkg.in/yaml.v3"
)

// Formats lists the accepted format names.
var Formats = []string{"text", "json", "yaml"}

const timeLayout = "2006-01-02T15:04:05"

type record struct {
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Author    string `json:"author" yaml:"author"`
	Content   string `json:"content" yaml:"content"`
	Line      int    `json:"line" yaml:"line"`
}

func toRecords(msgs []chat.Message) []record {
	out := make([]record, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, record{
			Timestamp: m.Timestamp.Format(timeLayout),
			Author:    m.Author,
			Content:   m.Content,
			Line:      m.Line,
		})
	}
	return out
}

// Write encodes msgs to w in the named format.
func Write(w io.Writer, format string, msgs []chat.Message) error {
	switch strings.ToLower(format) {
	case "text", "":
		return writeText(w, msgs)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(toRecords(msgs))
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(toRecords(msgs)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// writeText lays messages out as transcript lines. Content the parser
// produced parses back to the same message; a content line that is itself a
// header would split the message.
func writeText(w io.Writer, msgs []chat.Message) error {
	for _, m := range msgs {
		layout := "1/2/06, 3:04:05 PM"
		if m.Timestamp.Second() == 0 {
			layout = "1/2/06, 3:04 PM"
		}
		stamp := m.Timestamp.Format(layout)

		var err error
		if strings.HasPrefix(m.Content, "\n") {
			// a blank first line cannot ride on the header line
			_, err = fmt.Fprintf(w, "[%s] %s:\n%s\n", stamp, m.Author, m.Content)
		} else {
			_, err = fmt.Fprintf(w, "[%s] %s: %s\n", stamp, m.Author, m.Content)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
