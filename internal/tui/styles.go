package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("12")  // bright blue
	colorAuthor = lipgloss.Color("10")  // bright green
	colorDim    = lipgloss.Color("240") // gray
	colorCursor = lipgloss.Color("11")  // bright yellow
	colorBorder = lipgloss.Color("238") // dark gray

	styleInput       = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	styleInputPrompt = styleInput

	styleListSelected = lipgloss.NewStyle().Foreground(colorCursor).Bold(true)
	styleAuthor       = lipgloss.NewStyle().Foreground(colorAuthor)
	styleTranscript   = lipgloss.NewStyle().Foreground(colorDim)
	styleSnippet      = lipgloss.NewStyle().Foreground(colorDim)

	stylePanelBorder  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder)
	styleActiveBorder = stylePanelBorder.BorderForeground(colorAccent)

	styleStatusBar = lipgloss.NewStyle().Foreground(colorDim).Padding(0, 1)
)
