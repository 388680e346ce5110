package scan

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Zuo-Peng/daily-games-bot/internal/transcript"
)

type FileInfo struct {
	Path  string
	Mtime int64
	Size  int64
}

// ScanRoot returns every transcript export (*.txt) below root. A missing
// root is not an error.
func ScanRoot(root string) ([]FileInfo, error) {
	if root == "" {
		return nil, nil
	}

	var files []FileInfo
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable dirs
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), transcript.Ext) {
			return nil
		}
		files = append(files, FileInfo{
			Path:  path,
			Mtime: info.ModTime().Unix(),
			Size:  info.Size(),
		})
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return files, nil
}
