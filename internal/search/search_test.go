package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Zuo-Peng/daily-games-bot/internal/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const games = `[10/13/25, 9:01 AM] Alice: Framed #1311
🎥 🟩 ⬛ ⬛ ⬛ ⬛ ⬛
https://framed.wtf
[10/13/25, 9:07 AM] Bob: Framed #1311
🎥 🟥 🟥 🟩 ⬛ ⬛ ⬛
[10/14/25, 9:08 AM] Alice: I solved the daily Clues by Sam (Oct 14th 2025) in 02:59
`

const family = `[10/20/25, 8:00 PM] Mum: dinner at 7
[10/20/25, 8:02 PM] Dad: 晚饭好了
`

func setup(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.OpenDB(filepath.Join(t.TempDir(), "dgb.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "games.txt"), []byte(games), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "family.txt"), []byte(family), 0o644))

	stats, err := index.IndexAll(db, root)
	require.NoError(t, err)
	require.Equal(t, 2, stats.Updated)
	return db
}

func TestSearchFTS(t *testing.T) {
	db := setup(t)

	results, err := Search(db, Options{Query: "Framed #1311"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, "games", r.TranscriptKey)
		assert.Contains(t, r.Snippet, ">>>Framed<<<")
		assert.Equal(t, "Alice, Bob", r.Participants)
	}

	results, err = Search(db, Options{Query: "framed", Author: "Bob"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Bob", results[0].Author)
	assert.Equal(t, 1, results[0].MessageID)
	assert.Equal(t, "2025-10-13T09:07:00", results[0].Timestamp)
}

func TestSearchFilters(t *testing.T) {
	db := setup(t)

	results, err := Search(db, Options{Query: "Sam OR dinner"})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = Search(db, Options{Query: "Sam OR dinner", Transcript: "family"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Mum", results[0].Author)

	results, err = Search(db, Options{Query: "Framed", Since: "2025-10-14"})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = Search(db, Options{Query: "Framed", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearchLikeFallback(t *testing.T) {
	db := setup(t)

	results, err := Search(db, Options{Query: "🟥"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Bob", results[0].Author)
	assert.Contains(t, results[0].Snippet, ">>>🟥<<<")

	results, err = Search(db, Options{Query: "晚饭"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Dad", results[0].Author)
}

func TestSearchEmptyQuery(t *testing.T) {
	db := setup(t)
	results, err := Search(db, Options{Query: "  "})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestListAll(t *testing.T) {
	db := setup(t)

	results, err := ListAll(db, Options{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "family", results[0].TranscriptKey)
	assert.Equal(t, "games", results[1].TranscriptKey)
	assert.Equal(t, -1, results[0].MessageID)
	assert.Equal(t, "3 messages", results[1].Snippet)

	results, err = ListAll(db, Options{Since: "2025-10-15"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "family", results[0].TranscriptKey)
}

func TestFTSQuery(t *testing.T) {
	assert.Equal(t, `"Framed" "#1311"`, ftsQuery("Framed #1311"))
	assert.Equal(t, `"angle" OR "clues"`, ftsQuery("angle OR clues"))
	assert.Equal(t, `"say" """hi"""`, ftsQuery(`say "hi"`))
	assert.Equal(t, `"a""b"`, ftsQuery(`a"b`))
}

func TestNeedsLike(t *testing.T) {
	assert.False(t, needsLike("Framed #1311"))
	assert.False(t, needsLike("X/4"))
	assert.True(t, needsLike("🟩"))
	assert.True(t, needsLike("晚饭"))
}

func TestMakeSnippet(t *testing.T) {
	assert.Equal(t, "...cd>>>EF<<<gh...", makeSnippet("abcdEFghij", "ef", 2))
	assert.Equal(t, "abcd...", makeSnippet("abcdefgh", "zz", 2))
	assert.Equal(t, "ab", makeSnippet("ab", "zz", 2))
}
