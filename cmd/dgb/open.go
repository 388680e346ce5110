package main

import (
	"github.com/Zuo-Peng/daily-games-bot/internal/open"
	"github.com/spf13/cobra"
)

func openCmd() *cobra.Command {
	var hit int

	cmd := &cobra.Command{
		Use:   "open <transcriptKey>",
		Short: "Open the transcript file in $EDITOR at a message's header line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openIndex()
			if err != nil {
				return err
			}
			defer db.Close()

			return open.OpenMessage(db, args[0], hit)
		},
	}

	cmd.Flags().IntVar(&hit, "hit", -1, "Message ID to jump to")

	return cmd
}
