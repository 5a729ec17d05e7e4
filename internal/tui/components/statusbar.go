package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/butce/internal/tui/theme"
)

// RenderStatusBar renders the bottom bar: key hints on the left, the save
// state on the right and an optional flash message between them.
func RenderStatusBar(width int, hints, flash string, flashErr bool, right string) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	flashStyle := lipgloss.NewStyle().Foreground(t.Inflow).Background(t.Surface).Bold(true)
	if flashErr {
		flashStyle = flashStyle.Foreground(t.Outflow)
	}

	left := base.Render(" " + hints)
	if flash != "" {
		left += base.Render("  ") + flashStyle.Render(flash)
	}
	rightR := base.Render(right + " ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(rightR)
	if gap < 1 {
		gap = 1
	}
	return left + base.Render(strings.Repeat(" ", gap)) + rightR
}
