package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Zuo-Peng/daily-games-bot/internal/config"
	"github.com/Zuo-Peng/daily-games-bot/internal/thread"
	"github.com/spf13/cobra"
)

func botCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the daily thread scheduler",
		Long:  `Post the daily thread on every tick of bot.post_cron until interrupted. Posts are written to stdout.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.Bot.Validate(); err != nil {
				return err
			}

			poster, err := thread.NewPoster(cfg, thread.WriterPublisher{W: cmd.OutOrStdout()})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return poster.Run(ctx, cfg.Bot.PostCron)
		},
	}
}
