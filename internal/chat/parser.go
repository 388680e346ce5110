// Package chat parses WhatsApp-style plain-text chat exports into messages.
//
// A transcript is a sequence of message blocks. Each block starts with a
// header line of the form
//
//	[10/13/25, 1:23:45 PM] Alice: first line of the body
//
// and continues with every following line up to the next header. Lines
// before the first header are dropped.
package chat

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// narrowNoBreakSpace is printed by some locales between the time and AM/PM.
const narrowNoBreakSpace = "\u202f"

var headerPattern = regexp.MustCompile(
	`^\s*\[\s*(?P<date>\d{1,2}/\d{1,2}/\d{2})\s*,\s*` +
		`(?P<time>\d{1,2}:\d{2}(?::\d{2})?)\s*` +
		`(?P<ampm>AM|PM)\s*\]\s*` +
		`(?P<author>[^:]+): ?` +
		`(?P<body>.*)$`)

// timestampLayouts are tried in order; the first that parses wins.
var timestampLayouts = []string{
	"1/2/06 3:04:05 PM",
	"1/2/06 3:04 PM",
}

// Parser turns raw transcript text into messages. It carries no state
// between calls and is safe for concurrent use.
type Parser struct {
	header  *regexp.Regexp
	layouts []string

	dateIdx, timeIdx, ampmIdx, authorIdx, bodyIdx int
}

// NewParser returns a Parser for the WhatsApp export layout.
func NewParser() *Parser {
	p := &Parser{header: headerPattern, layouts: timestampLayouts}
	p.dateIdx = p.header.SubexpIndex("date")
	p.timeIdx = p.header.SubexpIndex("time")
	p.ampmIdx = p.header.SubexpIndex("ampm")
	p.authorIdx = p.header.SubexpIndex("author")
	p.bodyIdx = p.header.SubexpIndex("body")
	return p
}

var defaultParser = NewParser()

// Parse parses raw with the default parser.
func Parse(raw string) ([]Message, error) {
	return defaultParser.Parse(raw)
}

// ParseReader reads r to the end and parses the result.
func ParseReader(r io.Reader) ([]Message, error) {
	return defaultParser.ParseReader(r)
}

// ParseReader reads r to the end and parses the result.
func (p *Parser) ParseReader(r io.Reader) ([]Message, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	return p.Parse(string(raw))
}

// Parse splits raw into messages in header order. Lines that do not look
// like a header are folded into the open message. A header whose timestamp
// cannot be read fails the whole parse with a *TimestampError and no
// messages are returned.
func (p *Parser) Parse(raw string) ([]Message, error) {
	if raw == "" {
		return nil, nil
	}

	var messages []Message
	var s state
	for i, line := range splitLines(raw) {
		next, emitted, err := p.step(s, line, i+1)
		if err != nil {
			return nil, err
		}
		if emitted != nil {
			messages = append(messages, *emitted)
		}
		s = next
	}
	if s.open {
		messages = append(messages, s.finish())
	}
	return messages, nil
}

// header holds the fields taken from a matched header line.
type header struct {
	timestamp time.Time
	author    string
	line      int
}

// state is either "no open message" (open == false) or an open message
// with its header and the body lines gathered so far.
type state struct {
	open   bool
	header header
	body   []string
}

// finish builds the message for an open state.
func (s state) finish() Message {
	body := s.body
	for len(body) > 0 && body[len(body)-1] == "" {
		body = body[:len(body)-1]
	}
	return Message{
		Timestamp: s.header.timestamp,
		Author:    s.header.author,
		Content:   strings.Join(body, "\n"),
		Line:      s.header.line,
	}
}

// step feeds one normalized line (numbered from 1) into the fold. It returns
// the next state and, when line starts a new message while another one is
// open, the finished previous message.
func (p *Parser) step(s state, line string, n int) (state, *Message, error) {
	h, body, ok, err := p.matchHeader(line, n)
	if err != nil {
		return s, nil, err
	}
	if !ok {
		if s.open {
			s.body = append(s.body, line)
		}
		return s, nil, nil
	}

	var emitted *Message
	if s.open {
		m := s.finish()
		emitted = &m
	}
	next := state{open: true, header: h}
	if body != "" {
		next.body = []string{body}
	}
	return next, emitted, nil
}

// matchHeader reports whether line is a header. The body text after the
// author's colon is returned separately.
func (p *Parser) matchHeader(line string, n int) (header, string, bool, error) {
	m := p.header.FindStringSubmatch(line)
	if m == nil {
		return header{}, "", false, nil
	}
	author := strings.TrimSpace(m[p.authorIdx])
	if author == "" {
		return header{}, "", false, nil
	}
	ts, err := p.parseTimestamp(m[p.dateIdx], m[p.timeIdx], m[p.ampmIdx], n)
	if err != nil {
		return header{}, "", false, err
	}
	return header{timestamp: ts, author: author, line: n}, m[p.bodyIdx], true, nil
}

func (p *Parser) parseTimestamp(date, clock, ampm string, n int) (time.Time, error) {
	text := date + " " + clock + " " + ampm
	// the layouts' hour field also takes 0 and 00; a 12-hour clock does not
	hour, _, _ := strings.Cut(clock, ":")
	if h, err := strconv.Atoi(hour); err != nil || h < 1 || h > 12 {
		return time.Time{}, &TimestampError{Line: n, Text: text}
	}
	for _, layout := range p.layouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &TimestampError{Line: n, Text: text}
}

// splitLines normalizes line endings and narrow no-break spaces.
func splitLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		lines[i] = strings.ReplaceAll(line, narrowNoBreakSpace, " ")
	}
	return lines
}
