package render

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode/utf8"

	"github.com/Zuo-Peng/daily-games-bot/internal/index"
	"github.com/mattn/go-runewidth"
)

const (
	colorReset   = "\033[0m"
	colorDim     = "\033[2m"
	colorHit     = "\033[43m"   // yellow background
	colorBoldRed = "\033[1;31m" // bold red for keyword highlights
)

// authorColors is the palette authors are hashed onto.
var authorColors = []string{
	"\033[1;34m", // bold blue
	"\033[1;32m", // bold green
	"\033[1;35m", // bold magenta
	"\033[1;36m", // bold cyan
	"\033[1;33m", // bold yellow
}

type Options struct {
	HitMessageID int
	Context      int    // messages before/after hit to show
	Width        int    // wrap width (0 = no wrap)
	Query        string // search query for keyword highlighting
}

// ftsOperators are FTS5 operators that should not be highlighted as keywords.
var ftsOperators = map[string]bool{"AND": true, "OR": true, "NOT": true}

// authorColor picks a stable color per author.
func authorColor(author string) string {
	h := fnv.New32a()
	h.Write([]byte(author))
	return authorColors[h.Sum32()%uint32(len(authorColors))]
}

// highlightKeywords wraps case-insensitive matches of query terms in bold red ANSI codes.
func highlightKeywords(text, query string) string {
	if query == "" {
		return text
	}
	var filtered []string
	for _, t := range strings.Fields(query) {
		t = strings.Trim(t, `"`)
		if t != "" && !ftsOperators[t] {
			filtered = append(filtered, t)
		}
	}
	for _, term := range filtered {
		lower := strings.ToLower(term)
		i := 0
		for i < len(text) {
			idx := strings.Index(strings.ToLower(text[i:]), lower)
			if idx < 0 {
				break
			}
			pos := i + idx
			if pos+len(term) > len(text) {
				break
			}
			orig := text[pos : pos+len(term)]
			replacement := colorBoldRed + orig + colorReset
			text = text[:pos] + replacement + text[pos+len(term):]
			i = pos + len(replacement)
		}
	}
	return text
}

// indentLines prepends each line of text with the given prefix.
func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, correctly skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// check for ANSI escape sequence: ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++ // include 'm'
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth && visW > 0 {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}

	if len(result) == 0 {
		return []string{""}
	}
	return result
}

// RenderTranscript renders a transcript and returns the content,
// the 0-based line number of the hit message header (-1 if no hit), and any error.
func RenderTranscript(db *index.DB, key string, opts Options) (string, int, error) {
	if opts.Context == 0 {
		opts.Context = 10
	}
	if opts.Context < 0 {
		opts.Context = 1000000 // no limit
	}

	tr, err := db.GetTranscriptByKey(key)
	if err != nil {
		return "", -1, fmt.Errorf("get transcript: %w", err)
	}
	if tr == nil {
		return "", -1, fmt.Errorf("transcript not found: %s", key)
	}

	msgs, hitIdx, startPos, totalCount, err := db.GetMessagesWindow(key, opts.HitMessageID, opts.Context)
	if err != nil {
		return "", -1, fmt.Errorf("get messages: %w", err)
	}

	if totalCount == 0 {
		return "(empty transcript)", -1, nil
	}

	skipAfter := totalCount - startPos - len(msgs)

	var b strings.Builder
	hitLine := -1
	lineCount := 0
	separator := colorDim + "--------------------------------------------------" + colorReset
	wrapW := opts.Width

	// helper to track line count; wraps long lines if Width is set
	writeLine := func(s string) {
		wrapped := wrapLine(s, wrapW)
		for _, wl := range wrapped {
			b.WriteString(wl)
			b.WriteString("\n")
			lineCount++
		}
	}

	writeLine(fmt.Sprintf("%s--- %s [%s] ---%s", colorDim, key, tr.Participants, colorReset))

	if startPos > 0 {
		writeLine(fmt.Sprintf("%s... (%d messages before) ...%s", colorDim, startPos, colorReset))
	}

	for i, m := range msgs {
		isHit := i == hitIdx

		if i > 0 {
			writeLine(separator)
		}

		if isHit {
			hitLine = lineCount
			writeLine(fmt.Sprintf("%s>> %s > %s <<%s", colorHit, m.Author, m.Ts, colorReset))
		} else {
			writeLine(fmt.Sprintf("%s%s >%s %s%s%s", authorColor(m.Author), m.Author, colorReset, colorDim, m.Ts, colorReset))
		}

		if m.Content != "" {
			text := highlightKeywords(m.Content, opts.Query)
			for _, tl := range strings.Split(indentLines(text, "  "), "\n") {
				writeLine(tl)
			}
		}
		writeLine("") // blank line after message
	}

	if skipAfter > 0 {
		writeLine(fmt.Sprintf("%s... (%d messages after) ...%s", colorDim, skipAfter, colorReset))
	}

	return b.String(), hitLine, nil
}
