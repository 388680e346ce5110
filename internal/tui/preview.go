package tui

import (
	"github.com/Zuo-Peng/daily-games-bot/internal/index"
	"github.com/Zuo-Peng/daily-games-bot/internal/render"
	"github.com/Zuo-Peng/daily-games-bot/internal/search"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type previewRenderedMsg struct {
	transcriptKey string
	messageID     int
	content       string
	hitLine       int
	err           error
}

// loadPreviewCmd renders the whole transcript around r off the update loop.
func loadPreviewCmd(db *index.DB, r search.Result, query string, width int) tea.Cmd {
	return func() tea.Msg {
		content, hitLine, err := render.RenderTranscript(db, r.TranscriptKey, render.Options{
			HitMessageID: r.MessageID,
			Context:      -1,
			Width:        width,
			Query:        query,
		})
		return previewRenderedMsg{
			transcriptKey: r.TranscriptKey,
			messageID:     r.MessageID,
			content:       content,
			hitLine:       hitLine,
			err:           err,
		}
	}
}

func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}
