package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/Zuo-Peng/daily-games-bot/internal/chat"
	"github.com/Zuo-Peng/daily-games-bot/internal/config"
	"github.com/Zuo-Peng/daily-games-bot/internal/index"
	"github.com/Zuo-Peng/daily-games-bot/internal/transcript"
	"github.com/spf13/cobra"
)

// classify maps transcript read failures onto exit statuses.
func classify(path string, err error) error {
	var te *chat.TimestampError
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &exitError{code: exitNotFound, err: fmt.Errorf("file not found: %s", path)}
	case errors.As(err, &te):
		return &exitError{code: exitParse, err: fmt.Errorf("unsupported transcript format in %s: line %d: bad timestamp %q", path, te.Line, te.Text)}
	default:
		return err
	}
}

func ingestCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "ingest <path>",
		Short: "Parse a transcript file and store its messages in the index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if path == "" {
				return fmt.Errorf("path must not be empty")
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			var result *transcript.ParseResult
			if dryRun {
				result, err = transcript.ParseFile(path, cfg.TranscriptRoot)
			} else {
				db, dbErr := index.OpenDB(cfg.DBPath)
				if dbErr != nil {
					return fmt.Errorf("open db: %w", dbErr)
				}
				defer db.Close()
				abs, absErr := filepath.Abs(path)
				if absErr != nil {
					return absErr
				}
				result, err = index.IndexFile(db, cfg.TranscriptRoot, abs)
			}
			if err != nil {
				return classify(path, err)
			}

			slog.Debug("ingested transcript", "key", result.Meta.Key, "participants", len(result.Meta.Participants))
			fmt.Fprintf(cmd.OutOrStdout(), "parsed %d messages from %s\n", len(result.Messages), path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse only, do not write to the index")

	return cmd
}
