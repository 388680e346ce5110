package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const games = `[10/13/25, 9:01 AM] Alice: Framed #1311
🎥 🟩 ⬛ ⬛ ⬛ ⬛ ⬛
[10/13/25, 9:07 AM] Bob: #Angle #1210 X/4
⬆️⬇️⬇️⬆️: 1° off
[10/13/25, 9:08 AM] Alice: nice
[10/13/25, 9:10 AM] Carol: kindahard.golf 10/13
`

const family = `[10/14/25, 8:00 PM] Mum: dinner at 7
[10/14/25, 8:02 PM] Dad: ok
`

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "state", "dgb.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func writeTranscript(t *testing.T, root, name, content string) string {
	t.Helper()
	path := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIndexAll(t *testing.T) {
	db := openTestDB(t)
	root := t.TempDir()
	gamesPath := writeTranscript(t, root, "games.txt", games)
	familyPath := writeTranscript(t, root, "family/_chat.txt", family)

	stats, err := IndexAll(db, root)
	require.NoError(t, err)
	assert.Equal(t, Stats{Scanned: 2, Updated: 2}, stats)

	n, err := db.TranscriptCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = db.MessageCount()
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	fts, err := db.FTSCount()
	require.NoError(t, err)
	assert.Equal(t, 6, fts)

	tr, err := db.GetTranscriptByKey("games")
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.Equal(t, gamesPath, tr.FilePath)
	assert.Equal(t, "2025-10-13T09:01:00", tr.CreatedAt)
	assert.Equal(t, "2025-10-13T09:10:00", tr.UpdatedAt)
	assert.Equal(t, "Alice, Bob, Carol", tr.Participants)
	assert.Equal(t, 4, tr.MessageCount)

	msgs, err := db.GetMessages("games")
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	assert.Equal(t, "Bob", msgs[1].Author)
	assert.Equal(t, "#Angle #1210 X/4\n⬆️⬇️⬇️⬆️: 1° off", msgs[1].Content)
	assert.Equal(t, 3, msgs[1].LineNumber)
	assert.Equal(t, "2025-10-13T09:07:00", msgs[1].Ts)

	// unchanged files are skipped
	stats, err = IndexAll(db, root)
	require.NoError(t, err)
	assert.Equal(t, Stats{Scanned: 2, Skipped: 2}, stats)

	// changed file is re-indexed
	writeTranscript(t, root, "games.txt", games+"[10/13/25, 9:30 AM] Dave: late\n")
	stats, err = IndexAll(db, root)
	require.NoError(t, err)
	assert.Equal(t, Stats{Scanned: 2, Updated: 1, Skipped: 1}, stats)
	msgs, err = db.GetMessages("games")
	require.NoError(t, err)
	assert.Len(t, msgs, 5)

	// removed file is pruned
	require.NoError(t, os.Remove(familyPath))
	stats, err = IndexAll(db, root)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Pruned)
	tr, err = db.GetTranscriptByKey("family/_chat")
	require.NoError(t, err)
	assert.Nil(t, tr)

	fts, err = db.FTSCount()
	require.NoError(t, err)
	n, err = db.MessageCount()
	require.NoError(t, err)
	assert.Equal(t, n, fts)
}

func TestIndexAllCountsParseErrors(t *testing.T) {
	db := openTestDB(t)
	root := t.TempDir()
	writeTranscript(t, root, "games.txt", games)
	writeTranscript(t, root, "bad.txt", "[13/99/25, 1:23 PM] X: y\n")

	stats, err := IndexAll(db, root)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Errors)
	assert.Equal(t, 1, stats.Updated)

	tr, err := db.GetTranscriptByKey("bad")
	require.NoError(t, err)
	assert.Nil(t, tr)
}

func TestIndexFileOutsideRootSurvivesPrune(t *testing.T) {
	db := openTestDB(t)
	root := t.TempDir()
	elsewhere := writeTranscript(t, t.TempDir(), "export.txt", family)

	res, err := IndexFile(db, root, elsewhere)
	require.NoError(t, err)
	assert.Len(t, res.Messages, 2)

	stats, err := IndexAll(db, root)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Pruned)

	tr, err := db.GetTranscriptByKey(res.Meta.Key)
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.Equal(t, 2, tr.MessageCount)
}

func TestIndexFileReplacesMessages(t *testing.T) {
	db := openTestDB(t)
	root := t.TempDir()
	path := writeTranscript(t, root, "games.txt", games)

	_, err := IndexFile(db, root, path)
	require.NoError(t, err)
	writeTranscript(t, root, "games.txt", family)
	_, err = IndexFile(db, root, path)
	require.NoError(t, err)

	msgs, err := db.GetMessages("games")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Mum", msgs[0].Author)
}

func TestGetMessagesWindow(t *testing.T) {
	db := openTestDB(t)
	root := t.TempDir()
	path := writeTranscript(t, root, "games.txt", games)
	_, err := IndexFile(db, root, path)
	require.NoError(t, err)

	msgs, hitIdx, startPos, total, err := db.GetMessagesWindow("games", 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Equal(t, 1, startPos)
	require.Len(t, msgs, 3)
	assert.Equal(t, 1, hitIdx)
	assert.Equal(t, 2, msgs[hitIdx].MessageID)

	msgs, hitIdx, startPos, total, err = db.GetMessagesWindow("games", -1, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Equal(t, 0, startPos)
	assert.Len(t, msgs, 4)
	assert.Equal(t, -1, hitIdx)

	m, err := db.GetMessage("games", 3)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "Carol", m.Author)

	m, err = db.GetMessage("games", 99)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestOpenDBReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dgb.db")
	db, err := OpenDB(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	var ver string
	require.NoError(t, db.Raw().QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&ver))
	assert.Equal(t, schemaVersion, ver)
}
