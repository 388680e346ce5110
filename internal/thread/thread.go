// Package thread builds the daily games forum thread and schedules it.
package thread

import (
	"fmt"
	"strings"
	"time"

	"github.com/adhocore/gronx"
)

const (
	DefaultCron = "0 12 * * *"

	promptScores = "Share your scores for Clues by Sam, kindahard.golf, angle.wtf, and more!"
	promptPaste  = "Paste your result text blocks directly below. The bot will parse them soon™."
)

type Post struct {
	Number int
	Title  string
	Body   string
}

// Builder renders thread text for a timezone. A nil Location means UTC.
type Builder struct {
	Location *time.Location
}

func (b Builder) loc() *time.Location {
	if b.Location == nil {
		return time.UTC
	}
	return b.Location
}

// Title is "Daily Games YYYY-MM-DD (#n)", dated in the builder's timezone.
func (b Builder) Title(n int, now time.Time) string {
	return fmt.Sprintf("Daily Games %s (#%d)", now.In(b.loc()).Format("2006-01-02"), n)
}

func (b Builder) Body(title string) string {
	return strings.Join([]string{title, promptScores, promptPaste}, "\n\n")
}

func (b Builder) Build(n int, now time.Time) Post {
	title := b.Title(n, now)
	return Post{Number: n, Title: title, Body: b.Body(title)}
}

// NextRun returns the first tick of cron strictly after after, evaluated in
// after's location.
func NextRun(cron string, after time.Time) (time.Time, error) {
	if !gronx.IsValid(cron) {
		return time.Time{}, fmt.Errorf("invalid post cron expression: %q", cron)
	}
	next, err := gronx.NextTickAfter(cron, after, false)
	if err != nil {
		return time.Time{}, fmt.Errorf("next tick for %q: %w", cron, err)
	}
	return next, nil
}
