// Package transcript reads exported chat transcript files from disk and
// turns them into messages plus the metadata the index keeps per file.
package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/Zuo-Peng/daily-games-bot/internal/chat"
)

const Ext = ".txt"

const maxSummarySize = 200

// ParseFile reads and parses the transcript at filePath. A missing file
// yields an error matching fs.ErrNotExist; an unreadable timestamp yields
// one matching chat.ErrUnsupportedTimestamp.
func ParseFile(filePath, root string) (*ParseResult, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", filePath)
	}

	msgs, err := chat.ParseReader(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}

	result := &ParseResult{
		Meta: Meta{
			Key:      Key(root, filePath),
			FilePath: absPath(filePath),
			Mtime:    info.ModTime(),
			Size:     info.Size(),
		},
		Messages: msgs,
	}

	if len(msgs) > 0 {
		result.Meta.CreatedAt = msgs[0].Timestamp
		result.Meta.UpdatedAt = msgs[len(msgs)-1].Timestamp
		result.Meta.Summary = summarize(msgs[0].Content)
	}
	result.Meta.Participants = participants(msgs)

	return result, nil
}

// Key derives the transcript key from its path: the path relative to root
// without extension, or the absolute path when the file lies outside root.
// Relative paths are resolved against the working directory first.
func Key(root, filePath string) string {
	p := filePath
	if root != "" {
		p = absPath(filePath)
		if rel, err := filepath.Rel(absPath(root), p); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			p = rel
		}
	}
	return filepath.ToSlash(strings.TrimSuffix(p, Ext))
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func participants(msgs []chat.Message) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range msgs {
		if _, ok := seen[m.Author]; ok {
			continue
		}
		seen[m.Author] = struct{}{}
		out = append(out, m.Author)
	}
	return out
}

func summarize(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxSummarySize {
		return s
	}
	s = s[:maxSummarySize]
	// drop a rune cut in half
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}
