package main

import (
	"fmt"
	"time"

	"github.com/Zuo-Peng/daily-games-bot/internal/config"
	"github.com/Zuo-Peng/daily-games-bot/internal/thread"
	"github.com/spf13/cobra"
)

// nextPost returns when the scheduler would next post, in the bot's timezone.
func nextPost(cfg *config.Config) (time.Time, error) {
	loc, err := cfg.Bot.Location()
	if err != nil {
		return time.Time{}, err
	}
	return thread.NextRun(cfg.Bot.PostCron, time.Now().In(loc))
}

func threadCmd() *cobra.Command {
	var advance bool

	cmd := &cobra.Command{
		Use:   "thread",
		Short: "Print the next daily thread post",
		Long:  `Print the title and body of the next daily thread. With --advance the post is published to stdout and the post counter is incremented and saved.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			poster, err := thread.NewPoster(cfg, thread.WriterPublisher{W: cmd.OutOrStdout()})
			if err != nil {
				return err
			}

			if advance {
				post, err := poster.PostOnce(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "posted #%d, next is #%d\n", post.Number, cfg.Bot.CurrentPostNumber)
				return nil
			}

			post := poster.Builder.Build(cfg.Bot.CurrentPostNumber, time.Now())
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", post.Body)
			return nil
		},
	}

	cmd.Flags().BoolVar(&advance, "advance", false, "Publish the post and advance the counter")

	return cmd
}
