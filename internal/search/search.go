package search

import (
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"github.com/Zuo-Peng/daily-games-bot/internal/index"
)

type Result struct {
	TranscriptKey string
	MessageID     int // -1 for transcript listings
	Timestamp     string
	Author        string
	Participants  string
	Summary       string
	Snippet       string
	Rank          float64
}

type Options struct {
	Query      string
	Author     string // "" = all
	Transcript string // "" = all transcripts
	Since      string // "" = no filter, e.g. "2025-10-01"
	Limit      int
}

// ftsOperators pass through to FTS5 unquoted.
var ftsOperators = map[string]bool{"AND": true, "OR": true, "NOT": true}

// ftsQuery quotes every term so that chat text like "Framed #1311" or
// "X/4" is not read as FTS5 syntax.
func ftsQuery(q string) string {
	terms := strings.Fields(q)
	for i, t := range terms {
		if ftsOperators[t] {
			continue
		}
		terms[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return strings.Join(terms, " ")
}

// needsLike reports whether the query holds runes the unicode61 tokenizer
// cannot match: CJK ideographs (no word breaks) and symbols such as the
// emoji squares of game results.
func needsLike(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) || unicode.IsSymbol(r) {
			return true
		}
	}
	return false
}

// makeSnippet extracts a snippet around the first occurrence of query in text.
func makeSnippet(text, query string, contextChars int) string {
	lower := strings.ToLower(text)
	qLower := strings.ToLower(query)
	idx := strings.Index(lower, qLower)
	if idx < 0 || len(lower) != len(text) {
		// no match (or case folding moved offsets), return head
		if len([]rune(text)) > contextChars*2 {
			return string([]rune(text)[:contextChars*2]) + "..."
		}
		return text
	}
	runes := []rune(text)
	qRunes := []rune(query)
	// find rune position of idx
	runePos := len([]rune(text[:idx]))
	start := runePos - contextChars
	if start < 0 {
		start = 0
	}
	end := runePos + len(qRunes) + contextChars
	if end > len(runes) {
		end = len(runes)
	}
	prefix := ""
	suffix := ""
	if start > 0 {
		prefix = "..."
	}
	if end < len(runes) {
		suffix = "..."
	}
	// wrap the matched part with markers
	snippet := string(runes[start:runePos]) +
		">>>" + string(runes[runePos:runePos+len(qRunes)]) + "<<<" +
		string(runes[runePos+len(qRunes):end])
	return prefix + snippet + suffix
}

func Search(db *index.DB, opts Options) ([]Result, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}
	if strings.TrimSpace(opts.Query) == "" {
		return nil, nil
	}
	if needsLike(opts.Query) {
		return searchLike(db, opts)
	}
	return searchFTS(db, opts)
}

// filters returns the shared WHERE conditions for author, transcript and since.
func filters(opts Options) ([]string, []interface{}) {
	var conditions []string
	var args []interface{}

	if opts.Author != "" {
		conditions = append(conditions, "m.author = ?")
		args = append(args, opts.Author)
	}
	if opts.Transcript != "" {
		conditions = append(conditions, "m.transcript_key = ?")
		args = append(args, opts.Transcript)
	}
	if opts.Since != "" {
		conditions = append(conditions, "m.ts >= ?")
		args = append(args, opts.Since)
	}
	return conditions, args
}

func searchFTS(db *index.DB, opts Options) ([]Result, error) {
	conditions := []string{"messages_fts MATCH ?"}
	args := []interface{}{ftsQuery(opts.Query)}

	more, moreArgs := filters(opts)
	conditions = append(conditions, more...)
	args = append(args, moreArgs...)

	query := fmt.Sprintf(`
		SELECT
			m.transcript_key,
			m.message_id,
			m.ts,
			m.author,
			t.participants,
			t.summary,
			snippet(messages_fts, 0, '>>>','<<<', '...', 40) as snip,
			bm25(messages_fts) as rank
		FROM messages_fts
		JOIN messages m ON messages_fts.rowid = m.rowid
		JOIN transcripts t ON m.transcript_key = t.transcript_key
		WHERE %s
		ORDER BY rank
		LIMIT ?
	`, strings.Join(conditions, " AND "))

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

func searchLike(db *index.DB, opts Options) ([]Result, error) {
	conditions := []string{"m.content LIKE ?"}
	args := []interface{}{"%" + opts.Query + "%"}

	more, moreArgs := filters(opts)
	conditions = append(conditions, more...)
	args = append(args, moreArgs...)

	query := fmt.Sprintf(`
		SELECT
			m.transcript_key,
			m.message_id,
			m.ts,
			m.author,
			t.participants,
			t.summary,
			m.content
		FROM messages m
		JOIN transcripts t ON m.transcript_key = t.transcript_key
		WHERE %s
		ORDER BY m.ts DESC
		LIMIT ?
	`, strings.Join(conditions, " AND "))

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var content string
		if err := rows.Scan(
			&r.TranscriptKey, &r.MessageID, &r.Timestamp,
			&r.Author, &r.Participants, &r.Summary,
			&content,
		); err != nil {
			return nil, err
		}
		r.Snippet = makeSnippet(content, opts.Query, 30)
		results = append(results, r)
	}
	return results, rows.Err()
}

// ListAll returns indexed transcripts, most recently active first.
func ListAll(db *index.DB, opts Options) ([]Result, error) {
	var conditions []string
	var args []interface{}

	if opts.Since != "" {
		conditions = append(conditions, "updated_at >= ?")
		args = append(args, opts.Since)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT transcript_key, updated_at, participants, summary, message_count
		FROM transcripts
		%s
		ORDER BY updated_at DESC
	`, where)
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var count int
		if err := rows.Scan(&r.TranscriptKey, &r.Timestamp, &r.Participants, &r.Summary, &count); err != nil {
			return nil, err
		}
		r.MessageID = -1
		r.Snippet = fmt.Sprintf("%d messages", count)
		results = append(results, r)
	}
	return results, rows.Err()
}

func scanResults(rows *sql.Rows) ([]Result, error) {
	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(
			&r.TranscriptKey, &r.MessageID, &r.Timestamp,
			&r.Author, &r.Participants, &r.Summary,
			&r.Snippet, &r.Rank,
		); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
