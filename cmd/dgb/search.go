package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Zuo-Peng/daily-games-bot/internal/index"
	"github.com/Zuo-Peng/daily-games-bot/internal/search"
	"github.com/Zuo-Peng/daily-games-bot/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	sColorReset   = "\033[0m"
	sColorBoldRed = "\033[1;31m"
	sColorGreen   = "\033[1;32m"
	sColorDim     = "\033[2m"
)

func colorizeSnippet(snippet string) string {
	snippet = strings.ReplaceAll(snippet, ">>>", sColorBoldRed)
	snippet = strings.ReplaceAll(snippet, "<<<", sColorReset)
	return snippet
}

// tsvField flattens tabs and newlines so a value stays in one column.
func tsvField(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// refreshIndex brings the index up to date before a read; failures only log.
func refreshIndex(db *index.DB, root string) {
	stats, err := index.IndexAll(db, root)
	if err != nil {
		slog.Warn("refresh index", "root", root, "err", err)
		return
	}
	slog.Debug("refreshed index", "stats", stats.String())
}

func searchCmd() *cobra.Command {
	var author, transcriptKey, since string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across indexed chat messages",
		Long: `Search indexed messages using FTS5 (emoji and CJK queries fall back to substring match).
On a terminal this opens the interactive browser. Piped output is TSV for fzf:
  transcriptKey, messageId, timestamp, author, participants, snippet

Recommended shell function:
  dgbf() {
    dgb search "$*" | fzf \
      --ansi \
      --delimiter='\t' --with-nth=3.. \
      --preview 'dgb preview {1} --hit {2} --context 5 --query {q}' \
      --preview-window=right:60%:wrap \
      --bind 'enter:execute(dgb open {1} --hit {2})'
  }`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openIndex()
			if err != nil {
				return err
			}
			defer db.Close()

			refreshIndex(db, cfg.TranscriptRoot)

			opts := search.Options{
				Author:     author,
				Transcript: transcriptKey,
				Since:      since,
				Limit:      limit,
			}

			if term.IsTerminal(int(os.Stdout.Fd())) {
				return tui.Run(db, args[0], opts)
			}

			opts.Query = args[0]
			results, err := search.Search(db, opts)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "No results found.")
				return nil
			}

			out := cmd.OutOrStdout()
			for _, r := range results {
				// first two fields (transcriptKey, messageID) stay plain for fzf {1} {2}
				fmt.Fprintf(out, "%s\t%d\t%s%s%s\t%s%s%s\t%s\t%s\n",
					r.TranscriptKey,
					r.MessageID,
					sColorDim, r.Timestamp, sColorReset,
					sColorGreen, tsvField(r.Author), sColorReset,
					tsvField(r.Participants),
					colorizeSnippet(tsvField(r.Snippet)),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "Filter by message author")
	cmd.Flags().StringVar(&transcriptKey, "transcript", "", "Restrict to one transcript key")
	cmd.Flags().StringVar(&since, "since", "", "Filter messages sent since date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Max results")

	return cmd
}
