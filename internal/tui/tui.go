package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Zuo-Peng/daily-games-bot/internal/index"
	"github.com/Zuo-Peng/daily-games-bot/internal/open"
	"github.com/Zuo-Peng/daily-games-bot/internal/search"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const debounceDelay = 200 * time.Millisecond

type tuiMode int

const (
	modeSearch tuiMode = iota
	modeList
)

type selectAction int

const (
	actionCopy selectAction = iota
	actionEdit
)

type searchResultMsg struct {
	query   string
	results []search.Result
	err     error
}

type debounceTickMsg struct {
	query string
}

type model struct {
	db          *index.DB
	searchOpts  search.Options
	mode        tuiMode
	query       string
	results     []search.Result
	cursor      int
	listOffset  int
	filterInput textinput.Model
	preview     viewport.Model
	previewKey  string // key of the rendered preview, see previewCacheKey
	width       int
	height      int
	ready       bool
	quitting    bool
	selected    *search.Result
	action      selectAction
}

func initialModel(db *index.DB, query string, opts search.Options) model {
	ti := textinput.New()
	ti.Placeholder = "Search messages..."
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256
	ti.SetValue(query)
	ti.Focus()

	return model{
		db:          db,
		searchOpts:  opts,
		query:       query,
		filterInput: ti,
		preview:     viewport.New(0, 0),
	}
}

// Run opens the browser on message search results for query.
// Enter copies the selected message to the clipboard, C-o opens it in $EDITOR.
func Run(db *index.DB, query string, opts search.Options) error {
	return run(db, initialModel(db, query, opts))
}

// RunList opens the browser on the transcript listing. Typing switches to
// message search.
func RunList(db *index.DB, opts search.Options) error {
	m := initialModel(db, "", opts)
	m.mode = modeList
	m.filterInput.Placeholder = "Filter..."
	return run(db, m)
}

func run(db *index.DB, m model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	fm := finalModel.(model)
	if fm.selected == nil {
		return nil
	}
	r := fm.selected
	if fm.action == actionEdit {
		return open.OpenMessage(db, r.TranscriptKey, r.MessageID)
	}
	return copySelection(db, *r, os.Stdout)
}

// clipText returns what Enter copies: "author: content" for a message,
// the file path for a transcript listing.
func clipText(db *index.DB, r search.Result) (string, error) {
	if r.MessageID < 0 {
		tr, err := db.GetTranscriptByKey(r.TranscriptKey)
		if err != nil {
			return "", fmt.Errorf("get transcript: %w", err)
		}
		if tr == nil {
			return "", fmt.Errorf("transcript not found: %s", r.TranscriptKey)
		}
		return tr.FilePath, nil
	}

	msg, err := db.GetMessage(r.TranscriptKey, r.MessageID)
	if err != nil {
		return "", fmt.Errorf("get message: %w", err)
	}
	if msg == nil {
		return "", fmt.Errorf("message not found: %s#%d", r.TranscriptKey, r.MessageID)
	}
	return fmt.Sprintf("%s: %s", msg.Author, msg.Content), nil
}

// copySelection writes the selection to the clipboard, or to w when no
// clipboard is available.
func copySelection(db *index.DB, r search.Result, w io.Writer) error {
	text, err := clipText(db, r)
	if err != nil {
		return err
	}
	if err := clipboard.WriteAll(text); err != nil {
		fmt.Fprintf(w, "%s\n", text)
		return nil
	}
	fmt.Fprintf(w, "Copied to clipboard: %s\n", firstLine(text))
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}

func (m model) Init() tea.Cmd {
	if m.mode == modeList || m.query != "" {
		return tea.Batch(textinput.Blink, m.fetch(m.query))
	}
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height, m.ready = msg.Width, msg.Height, true
		m.preview = newViewport(m.previewWidth(), m.panelHeight())
		m.previewKey = ""
		return m, m.loadCurrentPreview()

	case tea.KeyMsg:
		return m.onKey(msg)

	case tea.MouseMsg:
		return m.onMouse(msg)

	case debounceTickMsg:
		// stale ticks are dropped; only the last keystroke fetches
		if msg.query != m.query {
			return m, nil
		}
		return m, m.fetch(msg.query)

	case searchResultMsg:
		return m.onResults(msg)

	case previewRenderedMsg:
		return m.onPreview(msg), nil
	}
	return m, nil
}

func (m model) current() (search.Result, bool) {
	if m.cursor < 0 || m.cursor >= len(m.results) {
		return search.Result{}, false
	}
	return m.results[m.cursor], true
}

func (m model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	half := m.panelHeight() / 2

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
		r, ok := m.current()
		if !ok {
			return m, nil
		}
		m.selected = &r
		if key.Matches(msg, keys.Edit) {
			m.action = actionEdit
		}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		return m.moveCursor(-1)

	case key.Matches(msg, keys.Down):
		return m.moveCursor(1)

	case key.Matches(msg, keys.PreviewUp):
		m.preview.LineUp(half)
		return m, nil

	case key.Matches(msg, keys.PreviewDn):
		m.preview.LineDown(half)
		return m, nil

	case key.Matches(msg, keys.PageUp):
		m.preview.LineUp(m.panelHeight())
		return m, nil

	case key.Matches(msg, keys.PageDown):
		m.preview.LineDown(m.panelHeight())
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	if q := m.filterInput.Value(); q != m.query {
		m.query = q
		return m, tea.Batch(cmd, debounce(q))
	}
	return m, cmd
}

// moveCursor moves the selection by delta and loads its preview.
func (m model) moveCursor(delta int) (tea.Model, tea.Cmd) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.results) {
		return m, nil
	}
	m.cursor = next
	m.adjustListScroll(m.panelHeight())
	return m, m.loadCurrentPreview()
}

func (m model) onMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.ready || len(m.results) == 0 {
		return m, nil
	}

	region, item := m.hitTest(msg.X, msg.Y)
	wheel := msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown

	switch region {
	case regionList:
		switch {
		case msg.Button == tea.MouseButtonWheelUp && m.listOffset > 0:
			m.listOffset--
		case msg.Button == tea.MouseButtonWheelDown && m.listOffset < m.maxListOffset():
			m.listOffset++
		case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			if item < len(m.results) && item != m.cursor {
				return m.moveCursor(item - m.cursor)
			}
		}
	case regionPreview:
		if wheel {
			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m model) maxListOffset() int {
	n := len(m.results) - m.panelHeight()/linesPerItem
	if n < 0 {
		return 0
	}
	return n
}

func (m model) onResults(msg searchResultMsg) (tea.Model, tea.Cmd) {
	if msg.query != m.query {
		return m, nil
	}
	m.cursor, m.listOffset, m.previewKey = 0, 0, ""
	if msg.err != nil {
		m.results = nil
		m.preview.SetContent("Error: " + msg.err.Error())
		return m, nil
	}
	m.results = msg.results
	if len(m.results) == 0 {
		m.preview.SetContent("")
		return m, nil
	}
	return m, m.loadCurrentPreview()
}

func (m model) onPreview(msg previewRenderedMsg) model {
	k := previewCacheKey(msg.transcriptKey, msg.messageID)
	if r, ok := m.current(); !ok || k == m.previewKey || k != previewCacheKey(r.TranscriptKey, r.MessageID) {
		return m
	}
	if msg.err != nil {
		m.preview.SetContent("Preview error: " + msg.err.Error())
	} else {
		m.preview.SetContent(msg.content)
		if msg.hitLine > 0 {
			m.preview.SetYOffset(msg.hitLine)
		} else {
			m.preview.GotoTop()
		}
	}
	m.previewKey = k
	return m
}

func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}
	listW, previewW, panelH := m.listWidth(), m.previewWidth(), m.panelHeight()

	list := stylePanelBorder.Width(listW).Height(panelH).Render(m.renderList(listW, panelH))

	m.preview.Width, m.preview.Height = previewW, panelH
	preview := styleActiveBorder.Width(previewW).Height(panelH).Render(m.preview.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.filterInput.View(),
		lipgloss.JoinHorizontal(lipgloss.Top, list, preview),
		m.statusBar(),
	)
}

// The list takes 40% of the width and the preview the rest; 4 columns per
// panel go to borders and padding.
func (m model) listWidth() int    { return panelWidth(m.width, 40, 40) }
func (m model) previewWidth() int { return panelWidth(m.width, 60, 60) }

func panelWidth(total, percent, fallback int) int {
	if total <= 0 {
		return fallback
	}
	return max(total*percent/100-4, 20)
}

// panelHeight leaves room for the input row, the status bar and borders.
func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	return max(m.height-6, 5)
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionPreview
)

// hitTest maps terminal coordinates to a panel region and list item index.
func (m model) hitTest(x, y int) (mouseRegion, int) {
	const top = 2 // input row + top border
	if y < top || y >= top+m.panelHeight() {
		return regionNone, -1
	}

	lw := m.listWidth()
	switch {
	case x >= 1 && x <= lw:
		return regionList, m.listOffset + (y-top)/linesPerItem
	case x > lw+2:
		return regionPreview, -1
	}
	return regionNone, -1
}

func (m model) statusBar() string {
	noun := "messages"
	if m.mode == modeList && m.query == "" {
		noun = "transcripts"
	}
	parts := []string{fmt.Sprintf("%d %s", len(m.results), noun)}
	for _, b := range keys.statusBindings() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return styleStatusBar.Render(strings.Join(parts, " | "))
}

// fetch loads results for q: the transcript listing when in list mode with
// no input, message search otherwise.
func (m model) fetch(q string) tea.Cmd {
	db, opts, listing := m.db, m.searchOpts, m.mode == modeList && q == ""
	opts.Query = q
	return func() tea.Msg {
		if listing {
			results, err := search.ListAll(db, opts)
			return searchResultMsg{query: q, results: results, err: err}
		}
		if q == "" {
			return searchResultMsg{query: q}
		}
		results, err := search.Search(db, opts)
		return searchResultMsg{query: q, results: results, err: err}
	}
}

func debounce(q string) tea.Cmd {
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceTickMsg{query: q}
	})
}

func (m model) loadCurrentPreview() tea.Cmd {
	r, ok := m.current()
	if !ok || previewCacheKey(r.TranscriptKey, r.MessageID) == m.previewKey {
		return nil
	}
	return loadPreviewCmd(m.db, r, m.query, m.previewWidth())
}

func previewCacheKey(transcriptKey string, messageID int) string {
	return fmt.Sprintf("%s:%d", transcriptKey, messageID)
}
