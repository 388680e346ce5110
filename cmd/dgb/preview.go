package main

import (
	"fmt"

	"github.com/Zuo-Peng/daily-games-bot/internal/render"
	"github.com/spf13/cobra"
)

func previewCmd() *cobra.Command {
	var hit, context, width int
	var query string

	cmd := &cobra.Command{
		Use:   "preview <transcriptKey>",
		Short: "Preview a transcript with context around a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openIndex()
			if err != nil {
				return err
			}
			defer db.Close()

			out, _, err := render.RenderTranscript(db, args[0], render.Options{
				HitMessageID: hit,
				Context:      context,
				Width:        width,
				Query:        query,
			})
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().IntVar(&hit, "hit", -1, "Message ID to highlight")
	cmd.Flags().IntVar(&context, "context", 10, "Messages before/after hit to show (-1 = all)")
	cmd.Flags().IntVar(&width, "width", 0, "Wrap width (0 = no wrap)")
	cmd.Flags().StringVar(&query, "query", "", "Search query for keyword highlighting")

	return cmd
}
