package main

import (
	"fmt"
	"os"

	"github.com/Zuo-Peng/daily-games-bot/internal/search"
	"github.com/Zuo-Peng/daily-games-bot/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func listCmd() *cobra.Command {
	var since string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Browse indexed transcripts by latest activity",
		Long:  `Opens a TUI panel listing indexed transcripts, most recently active first. Type to search their messages. Piped output is TSV.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openIndex()
			if err != nil {
				return err
			}
			defer db.Close()

			refreshIndex(db, cfg.TranscriptRoot)

			opts := search.Options{
				Since: since,
				Limit: limit,
			}

			if term.IsTerminal(int(os.Stdout.Fd())) {
				return tui.RunList(db, opts)
			}

			results, err := search.ListAll(db, opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range results {
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\n",
					r.TranscriptKey, r.Timestamp, r.Snippet, tsvField(r.Participants))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&since, "since", "", "Filter transcripts active since date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results (0 = no limit)")

	return cmd
}
