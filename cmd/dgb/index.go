package main

import (
	"fmt"

	"github.com/Zuo-Peng/daily-games-bot/internal/index"
	"github.com/spf13/cobra"
)

func indexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Scan the transcript root and index new or changed exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openIndex()
			if err != nil {
				return err
			}
			defer db.Close()

			fmt.Fprintf(cmd.ErrOrStderr(), "Scanning %s...\n", cfg.TranscriptRoot)

			stats, err := index.IndexAll(db, cfg.TranscriptRoot)
			if err != nil {
				return fmt.Errorf("index: %w", err)
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Done. %s\n", stats)
			return nil
		},
	}
}
