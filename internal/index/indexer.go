package index

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Zuo-Peng/daily-games-bot/internal/scan"
	"github.com/Zuo-Peng/daily-games-bot/internal/transcript"
)

type Stats struct {
	Scanned int
	Updated int
	Skipped int
	Pruned  int
	Errors  int
}

func (s Stats) String() string {
	return fmt.Sprintf("scanned=%d updated=%d skipped=%d pruned=%d errors=%d",
		s.Scanned, s.Updated, s.Skipped, s.Pruned, s.Errors)
}

// IndexAll brings the index in line with the transcripts under root.
// Unchanged files are skipped, files that fail to parse are counted and
// logged, and transcripts whose file disappeared are pruned.
func IndexAll(db *DB, root string) (Stats, error) {
	var stats Stats

	files, err := scan.ScanRoot(root)
	if err != nil {
		return stats, fmt.Errorf("scan: %w", err)
	}
	stats.Scanned = len(files)

	// track which files we see, for pruning
	seenKeys := make(map[string]struct{})

	for _, fi := range files {
		key := transcript.Key(root, fi.Path)
		seenKeys[key] = struct{}{}

		needs, err := needsUpdate(db, key, fi.Mtime, fi.Size)
		if err != nil {
			stats.Errors++
			slog.Warn("check transcript", "path", fi.Path, "err", err)
			continue
		}
		if !needs {
			stats.Skipped++
			continue
		}

		result, err := transcript.ParseFile(fi.Path, root)
		if err != nil {
			stats.Errors++
			slog.Warn("parse transcript", "path", fi.Path, "err", err)
			continue
		}

		if err := indexTranscript(db, result); err != nil {
			stats.Errors++
			slog.Warn("index transcript", "path", fi.Path, "err", err)
			continue
		}
		slog.Debug("indexed transcript", "key", key, "messages", len(result.Messages))
		stats.Updated++
	}

	pruned, err := pruneTranscripts(db, seenKeys)
	if err != nil {
		return stats, fmt.Errorf("prune: %w", err)
	}
	stats.Pruned = pruned

	return stats, nil
}

// IndexFile parses a single transcript and replaces its indexed messages.
// Parse errors are returned unchanged so callers can tell a missing file
// from an unsupported one.
func IndexFile(db *DB, root, path string) (*transcript.ParseResult, error) {
	result, err := transcript.ParseFile(path, root)
	if err != nil {
		return nil, err
	}
	if err := indexTranscript(db, result); err != nil {
		return nil, fmt.Errorf("index %s: %w", path, err)
	}
	return result, nil
}

func needsUpdate(db *DB, key string, mtime, size int64) (bool, error) {
	info, err := db.GetTranscriptInfo(key)
	if err != nil {
		return false, err
	}
	if info == nil {
		return true, nil // new transcript
	}
	return info.Mtime != mtime || info.Size != size, nil
}

func formatTime(r *transcript.ParseResult, i int) string {
	if len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[i].Timestamp.Format(TimeLayout)
}

func indexTranscript(db *DB, result *transcript.ParseResult) error {
	tx, err := db.Raw().Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	key := result.Meta.Key
	if _, err := tx.Exec("DELETE FROM messages WHERE transcript_key = ?", key); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM transcripts WHERE transcript_key = ?", key); err != nil {
		return err
	}

	_, err = tx.Exec(
		`INSERT INTO transcripts (transcript_key, file_path, created_at, updated_at, participants, summary, message_count, mtime, size)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		key,
		result.Meta.FilePath,
		formatTime(result, 0),
		formatTime(result, len(result.Messages)-1),
		strings.Join(result.Meta.Participants, ", "),
		result.Meta.Summary,
		len(result.Messages),
		result.Meta.Mtime.Unix(),
		result.Meta.Size,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO messages (transcript_key, message_id, ts, author, content, line_number)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, m := range result.Messages {
		_, err := stmt.Exec(
			key,
			i,
			m.Timestamp.Format(TimeLayout),
			m.Author,
			m.Content,
			m.Line,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// pruneTranscripts drops transcripts that were not seen under root and
// whose file is gone. Files ingested from outside root survive.
func pruneTranscripts(db *DB, seenKeys map[string]struct{}) (int, error) {
	all, err := db.AllTranscriptPaths()
	if err != nil {
		return 0, err
	}

	pruned := 0
	for key, path := range all {
		if _, ok := seenKeys[key]; ok {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := db.DeleteTranscript(key); err != nil {
			return pruned, err
		}
		pruned++
	}
	return pruned, nil
}
