package thread

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Zuo-Peng/daily-games-bot/internal/config"
)

// Publisher creates a thread in a forum channel.
type Publisher interface {
	Publish(ctx context.Context, channelID int64, post Post) error
}

// WriterPublisher prints posts instead of sending them anywhere.
type WriterPublisher struct {
	W io.Writer
}

func (p WriterPublisher) Publish(ctx context.Context, channelID int64, post Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(p.W, "channel %d: %s\n\n%s\n", channelID, post.Title, post.Body)
	return err
}

// Poster publishes the daily thread and advances the post counter.
type Poster struct {
	Config    *config.Config
	Publisher Publisher
	Builder   Builder
	Now       func() time.Time

	// wait blocks for d or until ctx is done; tests replace it.
	wait func(ctx context.Context, d time.Duration) error
}

func NewPoster(cfg *config.Config, pub Publisher) (*Poster, error) {
	loc, err := cfg.Bot.Location()
	if err != nil {
		return nil, err
	}
	return &Poster{
		Config:    cfg,
		Publisher: pub,
		Builder:   Builder{Location: loc},
		Now:       time.Now,
	}, nil
}

func (p *Poster) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// PostOnce publishes the post for the current counter. The counter only
// advances, and is only persisted, when publishing succeeds.
func (p *Poster) PostOnce(ctx context.Context) (Post, error) {
	bot := &p.Config.Bot
	post := p.Builder.Build(bot.CurrentPostNumber, p.now())

	slog.Info("posting daily thread", "number", post.Number, "title", post.Title)
	if err := p.Publisher.Publish(ctx, bot.ForumChannelID, post); err != nil {
		return post, fmt.Errorf("publish thread #%d: %w", post.Number, err)
	}

	bot.CurrentPostNumber++
	if err := p.Config.Save(); err != nil {
		return post, fmt.Errorf("persist post counter: %w", err)
	}
	return post, nil
}

// Run posts on every tick of cron until ctx is done. Failed posts are
// logged and retried on the next tick.
func (p *Poster) Run(ctx context.Context, cron string) error {
	if cron == "" {
		cron = DefaultCron
	}
	if _, err := NextRun(cron, p.now()); err != nil {
		return err
	}
	wait := p.wait
	if wait == nil {
		wait = sleep
	}

	slog.Info("thread scheduler started", "cron", cron, "tz", p.Builder.loc().String())
	for {
		now := p.now().In(p.Builder.loc())
		next, err := NextRun(cron, now)
		if err != nil {
			slog.Error("next tick failed", "cron", cron, "err", err)
			if err := wait(ctx, 30*time.Second); err != nil {
				return nil
			}
			continue
		}

		slog.Debug("waiting for next tick", "next", next)
		if err := wait(ctx, next.Sub(now)); err != nil {
			slog.Info("thread scheduler stopping")
			return nil
		}

		if _, err := p.PostOnce(ctx); err != nil {
			slog.Error("daily thread failed", "err", err)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		d = time.Second
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
