package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// TimeLayout is how message and transcript timestamps are stored. Transcript
// times carry no zone, so neither does the stored text.
const TimeLayout = "2006-01-02T15:04:05"

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA cache_size = -64000;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS transcripts (
    transcript_key TEXT PRIMARY KEY,
    file_path      TEXT NOT NULL,
    created_at     TEXT NOT NULL DEFAULT '',
    updated_at     TEXT NOT NULL DEFAULT '',
    participants   TEXT NOT NULL DEFAULT '',
    summary        TEXT NOT NULL DEFAULT '',
    message_count  INTEGER NOT NULL DEFAULT 0,
    mtime          INTEGER NOT NULL DEFAULT 0,
    size           INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS messages (
    transcript_key TEXT NOT NULL,
    message_id     INTEGER NOT NULL,
    ts             TEXT NOT NULL DEFAULT '',
    author         TEXT NOT NULL,
    content        TEXT NOT NULL,
    line_number    INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (transcript_key, message_id)
);

CREATE INDEX IF NOT EXISTS messages_author ON messages(author);

CREATE VIRTUAL TABLE IF NOT EXISTS messages_fts USING fts5(
    content,
    content=messages,
    content_rowid=rowid,
    tokenize='unicode61'
);

-- triggers to keep FTS in sync
CREATE TRIGGER IF NOT EXISTS messages_ai AFTER INSERT ON messages BEGIN
    INSERT INTO messages_fts(rowid, content) VALUES (new.rowid, new.content);
END;

CREATE TRIGGER IF NOT EXISTS messages_ad AFTER DELETE ON messages BEGIN
    INSERT INTO messages_fts(messages_fts, rowid, content) VALUES('delete', old.rowid, old.content);
END;

CREATE TRIGGER IF NOT EXISTS messages_au AFTER UPDATE ON messages BEGIN
    INSERT INTO messages_fts(messages_fts, rowid, content) VALUES('delete', old.rowid, old.content);
    INSERT INTO messages_fts(rowid, content) VALUES (new.rowid, new.content);
END;

CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);
`

type DB struct {
	db *sql.DB
}

func OpenDB(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	d := &DB{db: db}
	if err := d.migrateSchemaVersion(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return d, nil
}

// schemaVersion should be bumped whenever message parsing changes
// to force a full re-index.
const schemaVersion = "1"

func (d *DB) migrateSchemaVersion() error {
	var ver string
	err := d.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&ver)
	if err != nil && err != sql.ErrNoRows {
		return err
	}
	if ver == schemaVersion {
		return nil
	}
	// force re-index by resetting all transcript mtime/size to 0
	if _, err := d.db.Exec("UPDATE transcripts SET mtime = 0, size = 0"); err != nil {
		return err
	}
	_, err = d.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion)
	return err
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Raw() *sql.DB {
	return d.db
}

type TranscriptInfo struct {
	Mtime int64
	Size  int64
}

// GetTranscriptInfo returns nil, nil when the transcript is not indexed.
func (d *DB) GetTranscriptInfo(key string) (*TranscriptInfo, error) {
	var info TranscriptInfo
	err := d.db.QueryRow(
		"SELECT mtime, size FROM transcripts WHERE transcript_key = ?",
		key,
	).Scan(&info.Mtime, &info.Size)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// AllTranscriptPaths maps every indexed transcript key to its file path.
func (d *DB) AllTranscriptPaths() (map[string]string, error) {
	rows, err := d.db.Query("SELECT transcript_key, file_path FROM transcripts")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	paths := make(map[string]string)
	for rows.Next() {
		var k, p string
		if err := rows.Scan(&k, &p); err != nil {
			return nil, err
		}
		paths[k] = p
	}
	return paths, rows.Err()
}

func (d *DB) DeleteTranscript(key string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM messages WHERE transcript_key = ?", key); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM transcripts WHERE transcript_key = ?", key); err != nil {
		return err
	}
	return tx.Commit()
}

func (d *DB) TranscriptCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM transcripts").Scan(&n)
	return n, err
}

func (d *DB) MessageCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM messages").Scan(&n)
	return n, err
}

func (d *DB) FTSCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM messages_fts").Scan(&n)
	return n, err
}

type TranscriptRow struct {
	Key          string
	FilePath     string
	CreatedAt    string
	UpdatedAt    string
	Participants string
	Summary      string
	MessageCount int
}

// GetTranscriptByKey returns nil, nil when the key is unknown.
func (d *DB) GetTranscriptByKey(key string) (*TranscriptRow, error) {
	var t TranscriptRow
	err := d.db.QueryRow(
		`SELECT transcript_key, file_path, created_at, updated_at, participants, summary, message_count
		 FROM transcripts WHERE transcript_key = ?`,
		key,
	).Scan(&t.Key, &t.FilePath, &t.CreatedAt, &t.UpdatedAt, &t.Participants, &t.Summary, &t.MessageCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type MessageRow struct {
	TranscriptKey string
	MessageID     int
	Ts            string
	Author        string
	Content       string
	LineNumber    int
}

const messageColumns = "transcript_key, message_id, ts, author, content, line_number"

func scanMessage(rows *sql.Rows) (MessageRow, error) {
	var m MessageRow
	err := rows.Scan(&m.TranscriptKey, &m.MessageID, &m.Ts, &m.Author, &m.Content, &m.LineNumber)
	return m, err
}

func (d *DB) GetMessages(key string) ([]MessageRow, error) {
	rows, err := d.db.Query(
		"SELECT "+messageColumns+" FROM messages WHERE transcript_key = ? ORDER BY message_id",
		key,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []MessageRow
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// GetMessage returns nil, nil when the message does not exist.
func (d *DB) GetMessage(key string, messageID int) (*MessageRow, error) {
	var m MessageRow
	err := d.db.QueryRow(
		"SELECT "+messageColumns+" FROM messages WHERE transcript_key = ? AND message_id = ?",
		key, messageID,
	).Scan(&m.TranscriptKey, &m.MessageID, &m.Ts, &m.Author, &m.Content, &m.LineNumber)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMessagesWindow returns a window of messages around a hit message.
// Message IDs are dense (0..n-1), so the window is a plain ID range.
// startPos is the number of messages before the returned window.
// totalCount is the total number of messages in the transcript.
func (d *DB) GetMessagesWindow(key string, hitID, context int) (msgs []MessageRow, hitIdx int, startPos int, totalCount int, err error) {
	err = d.db.QueryRow(
		"SELECT COUNT(*) FROM messages WHERE transcript_key = ?", key,
	).Scan(&totalCount)
	if err != nil {
		return nil, -1, 0, 0, err
	}

	startPos = 0
	limit := totalCount
	if hitID >= 0 && hitID < totalCount {
		startPos = hitID - context
		if startPos < 0 {
			startPos = 0
		}
		endPos := hitID + context + 1
		if endPos > totalCount {
			endPos = totalCount
		}
		limit = endPos - startPos
	}

	rows, err := d.db.Query(
		"SELECT "+messageColumns+" FROM messages WHERE transcript_key = ? ORDER BY message_id LIMIT ? OFFSET ?",
		key, limit, startPos,
	)
	if err != nil {
		return nil, -1, 0, 0, err
	}
	defer rows.Close()

	localHitIdx := -1
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, -1, 0, 0, err
		}
		if m.MessageID == hitID {
			localHitIdx = len(msgs)
		}
		msgs = append(msgs, m)
	}
	return msgs, localHitIdx, startPos, totalCount, rows.Err()
}
