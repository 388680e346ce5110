package transcript

import (
	"time"

	"github.com/Zuo-Peng/daily-games-bot/internal/chat"
)

type Meta struct {
	Key          string
	FilePath     string
	CreatedAt    time.Time // first message
	UpdatedAt    time.Time // last message
	Participants []string  // distinct authors, first-seen order
	Summary      string
	Mtime        time.Time
	Size         int64
}

type ParseResult struct {
	Meta     Meta
	Messages []chat.Message
}
