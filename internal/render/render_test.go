package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Zuo-Peng/daily-games-bot/internal/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapLine(t *testing.T) {
	assert.Equal(t, []string{"abcd", "ef"}, wrapLine("abcdef", 4))
	assert.Equal(t, []string{"abcdef"}, wrapLine("abcdef", 0))
	assert.Equal(t, []string{""}, wrapLine("", 4))
	assert.Equal(t, []string{"晚饭", "好了"}, wrapLine("晚饭好了", 4))
	assert.Equal(t,
		[]string{"\033[1mabcd\033[0m", "ef"},
		wrapLine("\033[1mabcd\033[0mef", 4))
}

func TestHighlightKeywords(t *testing.T) {
	assert.Equal(t,
		colorBoldRed+"Framed"+colorReset+" #1311",
		highlightKeywords("Framed #1311", "framed OR angle"))
	assert.Equal(t, "plain", highlightKeywords("plain", ""))
	assert.Equal(t,
		"a "+colorBoldRed+"b"+colorReset+" "+colorBoldRed+"b"+colorReset,
		highlightKeywords("a b b", `"b"`))
}

func TestIndentLines(t *testing.T) {
	assert.Equal(t, "  a\n  b", indentLines("a\nb", "  "))
}

func TestAuthorColorStable(t *testing.T) {
	assert.Equal(t, authorColor("Alice"), authorColor("Alice"))
	assert.Contains(t, authorColors, authorColor("Bob"))
}

func setupDB(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.OpenDB(filepath.Join(t.TempDir(), "dgb.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	root := t.TempDir()
	raw := "[10/13/25, 9:01 AM] Alice: one\ntwo\n[10/13/25, 9:02 AM] Bob: three\n[10/13/25, 9:03 AM] Carol: four\n"
	path := filepath.Join(root, "games.txt")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))
	_, err = index.IndexFile(db, root, path)
	require.NoError(t, err)
	return db
}

func TestRenderTranscript(t *testing.T) {
	db := setupDB(t)

	out, hitLine, err := RenderTranscript(db, "games", Options{HitMessageID: 1})
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Equal(t, 6, hitLine)
	assert.Contains(t, lines[0], "games [Alice, Bob, Carol]")
	assert.Equal(t, "  one", lines[2])
	assert.Equal(t, "  two", lines[3])
	assert.Contains(t, lines[hitLine], ">> Bob > 2025-10-13T09:02:00 <<")
	assert.Contains(t, out, "  four")
}

func TestRenderTranscriptWindow(t *testing.T) {
	db := setupDB(t)

	out, hitLine, err := RenderTranscript(db, "games", Options{HitMessageID: 2, Context: 1, Query: "four"})
	require.NoError(t, err)
	assert.Contains(t, out, "(1 messages before)")
	assert.NotContains(t, out, "one")
	assert.Contains(t, out, colorBoldRed+"four"+colorReset)
	assert.Greater(t, hitLine, 0)
}

func TestRenderTranscriptUnknown(t *testing.T) {
	db := setupDB(t)
	_, _, err := RenderTranscript(db, "nope", Options{HitMessageID: -1})
	assert.Error(t, err)
}
