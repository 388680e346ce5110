package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Zuo-Peng/daily-games-bot/internal/config"
	"github.com/Zuo-Peng/daily-games-bot/internal/index"
	"github.com/Zuo-Peng/daily-games-bot/internal/scan"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify config, transcript root, DB and FTS5, and show stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			fmt.Fprintln(out, "=== Config ===")
			fmt.Fprintf(out, "  File: %s\n", cfg.Path())
			checkDir(out, "Transcripts", cfg.TranscriptRoot)

			fmt.Fprintln(out, "\n=== File Scan ===")
			files, err := scan.ScanRoot(cfg.TranscriptRoot)
			if err != nil {
				fmt.Fprintf(out, "  scan error: %v\n", err)
			} else {
				var total int64
				for _, f := range files {
					total += f.Size
				}
				fmt.Fprintf(out, "  Transcript files: %d (%s)\n", len(files), humanize.Bytes(uint64(total)))
			}

			fmt.Fprintln(out, "\n=== Bot ===")
			if err := cfg.Bot.Validate(); err != nil {
				fmt.Fprintf(out, "  Status: %v\n", err)
			} else {
				fmt.Fprintln(out, "  Status: OK")
			}
			if next, err := nextPost(cfg); err != nil {
				fmt.Fprintf(out, "  Schedule: %v\n", err)
			} else {
				fmt.Fprintf(out, "  Next post #%d: %s (%s)\n", cfg.Bot.CurrentPostNumber,
					next.Format("2006-01-02 15:04 MST"), humanize.Time(next))
			}

			fmt.Fprintln(out, "\n=== Database ===")
			fmt.Fprintf(out, "  Path: %s\n", cfg.DBPath)
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Fprintln(out, "  Status: NOT FOUND (run 'dgb index' first)")
				return nil
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			transcriptCount, err := db.TranscriptCount()
			if err != nil {
				return fmt.Errorf("count transcripts: %w", err)
			}

			messageCount, err := db.MessageCount()
			if err != nil {
				return fmt.Errorf("count messages: %w", err)
			}

			fmt.Fprintf(out, "  Transcripts: %s\n", humanize.Comma(int64(transcriptCount)))
			fmt.Fprintf(out, "  Messages:    %s\n", humanize.Comma(int64(messageCount)))

			fmt.Fprintln(out, "\n=== FTS5 ===")
			ftsCount, err := db.FTSCount()
			if err != nil {
				fmt.Fprintf(out, "  FTS5 error: %v\n", err)
			} else {
				fmt.Fprintf(out, "  FTS5 entries: %s\n", humanize.Comma(int64(ftsCount)))
				if ftsCount == messageCount {
					fmt.Fprintln(out, "  Status: OK (synced)")
				} else {
					fmt.Fprintf(out, "  Status: MISMATCH (messages=%d, fts=%d)\n", messageCount, ftsCount)
				}
			}

			if info, err := os.Stat(cfg.DBPath); err == nil {
				fmt.Fprintf(out, "\n=== DB Size: %s ===\n", humanize.Bytes(uint64(info.Size())))
			}

			return nil
		},
	}
}

func checkDir(w io.Writer, name, path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Fprintf(w, "  %s: %s (NOT FOUND)\n", name, path)
	} else if !info.IsDir() {
		fmt.Fprintf(w, "  %s: %s (NOT A DIRECTORY)\n", name, path)
	} else {
		fmt.Fprintf(w, "  %s: %s (OK)\n", name, path)
	}
}
