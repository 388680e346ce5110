package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/Zuo-Peng/daily-games-bot/internal/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const games = `[10/13/25, 9:01 AM] Alice: Framed #1311
🎥 🟩 ⬛ ⬛ ⬛ ⬛ ⬛
[10/13/25, 9:07 AM] Bob: Framed #1311
🎥 🟥 🟥 🟩 ⬛ ⬛ ⬛
[10/13/25, 9:08 AM] Alice: nice
`

// testEnv points config and state at a temp dir and returns it.
func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("DGB_CONFIG", filepath.Join(dir, "config.toml"))
	t.Setenv("DGB_DB_PATH", filepath.Join(dir, "dgb.db"))
	t.Setenv("DGB_TRANSCRIPT_ROOT", filepath.Join(dir, "transcripts"))
	t.Setenv("DGB_TOKEN", "")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "transcripts"), 0o755))
	return dir
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestIngest(t *testing.T) {
	dir := testEnv(t)
	path := writeFile(t, filepath.Join(dir, "transcripts", "games.txt"), games)

	out, _, err := run(t, "ingest", path)
	require.NoError(t, err)
	assert.Equal(t, "parsed 3 messages from "+path+"\n", out)
	assert.FileExists(t, filepath.Join(dir, "dgb.db"))

	out, _, err = run(t, "preview", "games", "--hit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, ">> Bob > 2025-10-13T09:07:00 <<")
}

func TestIngestAndIndexShareKeysWithRelativeRoot(t *testing.T) {
	dir := testEnv(t)
	t.Setenv("DGB_TRANSCRIPT_ROOT", "transcripts")
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "transcripts", "games.txt"), games)

	_, _, err := run(t, "index")
	require.NoError(t, err)
	_, _, err = run(t, "ingest", filepath.Join("transcripts", "games.txt"))
	require.NoError(t, err)

	db, err := index.OpenDB(filepath.Join(dir, "dgb.db"))
	require.NoError(t, err)
	defer db.Close()

	n, err := db.TranscriptCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	tr, err := db.GetTranscriptByKey("games")
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.True(t, filepath.IsAbs(tr.FilePath))
}

func TestIngestDryRun(t *testing.T) {
	dir := testEnv(t)
	path := writeFile(t, filepath.Join(dir, "games.txt"), games)

	out, _, err := run(t, "ingest", "--dry-run", path)
	require.NoError(t, err)
	assert.Equal(t, "parsed 3 messages from "+path+"\n", out)
	assert.NoFileExists(t, filepath.Join(dir, "dgb.db"))
}

func TestIngestEmptyFile(t *testing.T) {
	dir := testEnv(t)
	path := writeFile(t, filepath.Join(dir, "empty.txt"), "")

	out, _, err := run(t, "ingest", "--dry-run", path)
	require.NoError(t, err)
	assert.Equal(t, "parsed 0 messages from "+path+"\n", out)
}

func TestIngestNotFound(t *testing.T) {
	dir := testEnv(t)
	path := filepath.Join(dir, "missing.txt")

	_, _, err := run(t, "ingest", path)
	require.Error(t, err)
	assert.Equal(t, exitNotFound, exitCode(err))
	assert.Contains(t, err.Error(), "file not found: "+path)
}

func TestIngestParseError(t *testing.T) {
	dir := testEnv(t)
	path := writeFile(t, filepath.Join(dir, "bad.txt"), games+"[13/99/25, 1:23 PM] X: y\n")

	_, _, err := run(t, "ingest", path)
	require.Error(t, err)
	assert.Equal(t, exitParse, exitCode(err))
	assert.Contains(t, err.Error(), path)
	assert.Contains(t, err.Error(), `"13/99/25 1:23 PM"`)
	assert.Contains(t, err.Error(), "line 6")
}

func TestIngestArgs(t *testing.T) {
	testEnv(t)

	_, _, err := run(t, "ingest")
	require.Error(t, err)
	assert.Equal(t, exitGeneric, exitCode(err))

	_, _, err = run(t, "ingest", "")
	require.Error(t, err)
	assert.Equal(t, exitGeneric, exitCode(err))

	_, _, err = run(t, "nope")
	assert.Equal(t, exitGeneric, exitCode(err))
}

func TestParseFormats(t *testing.T) {
	dir := testEnv(t)
	path := writeFile(t, filepath.Join(dir, "games.txt"), games)

	out, _, err := run(t, "parse", path, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"author": "Bob"`)

	out, _, err = run(t, "parse", path, "-f", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "author: Alice")

	_, _, err = run(t, "parse", path, "--format", "csv")
	assert.ErrorContains(t, err, "unknown format")

	_, _, err = run(t, "parse", filepath.Join(dir, "missing.txt"))
	assert.Equal(t, exitNotFound, exitCode(err))
}

func TestIndexAndSearch(t *testing.T) {
	dir := testEnv(t)
	writeFile(t, filepath.Join(dir, "transcripts", "games.txt"), games)

	_, errOut, err := run(t, "index")
	require.NoError(t, err)
	assert.Contains(t, errOut, "updated=1")

	// stdout is a buffer, not a terminal, so search prints TSV
	out, _, err := run(t, "search", "nice")
	require.NoError(t, err)
	assert.Contains(t, out, "games\t2\t")
	assert.Contains(t, out, "Alice")

	out, _, err = run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "games\t2025-10-13T09:08:00\t3 messages\tAlice, Bob")

	out, _, err = run(t, "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "Status: OK (synced)")
	assert.Contains(t, out, "Transcript files: 1")
}

func TestThreadAdvance(t *testing.T) {
	dir := testEnv(t)
	cfgPath := filepath.Join(dir, "config.toml")
	writeFile(t, cfgPath, "[bot]\nforum_channel_id = 7\ncurrent_post_number = 4\n")

	out, _, err := run(t, "thread")
	require.NoError(t, err)
	assert.Contains(t, out, "(#4)")
	assert.Contains(t, out, "Share your scores")

	out, _, err = run(t, "thread", "--advance")
	require.NoError(t, err)
	assert.Contains(t, out, "channel 7:")

	var saved struct {
		Bot struct {
			CurrentPostNumber int `toml:"current_post_number"`
		} `toml:"bot"`
	}
	_, err = toml.DecodeFile(cfgPath, &saved)
	require.NoError(t, err)
	assert.Equal(t, 5, saved.Bot.CurrentPostNumber)
}

func TestBotRequiresConfig(t *testing.T) {
	testEnv(t)
	_, _, err := run(t, "bot")
	assert.EqualError(t, err, "missing configuration fields: [forum_channel_id guild_id token]")
}
