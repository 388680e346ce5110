package open

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Zuo-Peng/daily-games-bot/internal/index"
)

// OpenMessage opens the transcript file in $EDITOR positioned at the header
// line of the given message. messageID < 0 opens at the top.
func OpenMessage(db *index.DB, key string, messageID int) error {
	tr, err := db.GetTranscriptByKey(key)
	if err != nil {
		return fmt.Errorf("get transcript: %w", err)
	}
	if tr == nil {
		return fmt.Errorf("transcript not found: %s", key)
	}

	filePath := tr.FilePath
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file not found: %s", filePath)
	}

	lineNum := 1
	if messageID >= 0 {
		m, err := db.GetMessage(key, messageID)
		if err == nil && m != nil && m.LineNumber > 0 {
			lineNum = m.LineNumber
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "less"
	}

	return openInEditor(editor, filePath, lineNum)
}

// editorArgs builds the argument list that puts editor on lineNum.
func editorArgs(editor, filePath string, lineNum int) []string {
	switch {
	case strings.Contains(editor, "vim") || strings.Contains(editor, "nano"):
		return []string{"+" + strconv.Itoa(lineNum), filePath}
	case strings.Contains(editor, "code"):
		return []string{"--goto", filePath + ":" + strconv.Itoa(lineNum)}
	case strings.Contains(editor, "less"):
		return []string{"+" + strconv.Itoa(lineNum), filePath}
	default:
		return []string{filePath}
	}
}

func openInEditor(editor, filePath string, lineNum int) error {
	cmd := exec.Command(editor, editorArgs(editor, filePath, lineNum)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
