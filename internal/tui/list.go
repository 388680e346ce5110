package tui

import (
	"strings"

	"github.com/Zuo-Peng/daily-games-bot/internal/search"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// linesPerItem is the number of terminal lines each result occupies.
const linesPerItem = 2

// renderList draws the visible slice of results, padded to height.
func (m model) renderList(width, height int) string {
	if len(m.results) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			styleSnippet.Render(m.emptyText()))
	}

	lines := make([]string, 0, height)
	for i := m.listOffset; i < len(m.results) && len(lines)+linesPerItem <= height; i++ {
		lines = append(lines, formatResultLine(m.results[i], width, i == m.cursor)...)
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func (m model) emptyText() string {
	switch {
	case m.mode == modeList && m.query == "":
		return "No transcripts indexed"
	case m.query == "":
		return "Type to search messages"
	default:
		return "No messages match"
	}
}

var snippetCleaner = strings.NewReplacer("\n", " ", "\t", " ", ">>>", "", "<<<", "")

// formatResultLine returns the two lines of one list entry: timestamp, author
// and transcript key, then the match snippet. Transcript listings show the
// participants instead of an author.
func formatResultLine(r search.Result, width int, selected bool) []string {
	stamp := shortStamp(r.Timestamp)
	who := r.Author
	if r.MessageID < 0 {
		who = r.Participants
	}
	room := width - runewidth.StringWidth(stamp) - runewidth.StringWidth(r.TranscriptKey) - 6
	who = fit(strings.ReplaceAll(who, "\n", " "), max(room, 4))

	marker := "  "
	if selected {
		marker = styleListSelected.Render("> ")
	}
	head := marker + stamp + " " + styleAuthor.Render(who) + " " +
		styleTranscript.Render("("+r.TranscriptKey+")")
	body := "    " + styleSnippet.Render(fit(snippetCleaner.Replace(r.Snippet), max(width-4, 0)))
	return []string{head, body}
}

func fit(s string, w int) string {
	if runewidth.StringWidth(s) <= w {
		return s
	}
	return runewidth.Truncate(s, w, "")
}

// shortStamp turns "2025-10-13T09:07:00" into "10-13 09:07".
func shortStamp(ts string) string {
	if len(ts) < 16 {
		return ts
	}
	return ts[5:10] + " " + ts[11:16]
}

// adjustListScroll moves listOffset so the cursor row is inside a list of
// listHeight lines.
func (m *model) adjustListScroll(listHeight int) {
	rows := max(listHeight/linesPerItem, 1)
	m.listOffset = min(m.listOffset, m.cursor)
	m.listOffset = max(m.listOffset, m.cursor-rows+1)
}
