package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/butce/internal/tui/theme"
)

// ColorForSpend grades how much of a budget is used up: green while
// there is room, then yellow, orange and red as it runs out.
func ColorForSpend(share float64) lipgloss.Color {
	t := theme.Active
	switch {
	case share >= 1:
		return t.Outflow
	case share >= 0.85:
		return t.Warning
	case share >= 0.6:
		return t.Archived
	default:
		return t.Inflow
	}
}

// ShareBar renders a labeled bar for share (0..1) with its percentage.
func ShareBar(label string, share float64, color lipgloss.Color, labelW, barWidth int) string {
	t := theme.Active
	share = max(0, min(share, 1))

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		space + bar.ViewAs(share) + space +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", share*100))
}

// PaidBar shows how many of the month's bills are paid.
func PaidBar(paid, total, labelW, barWidth int) string {
	share := 0.0
	if total > 0 {
		share = float64(paid) / float64(total)
	}
	color := theme.Active.Warning
	if paid == total {
		color = theme.Active.Inflow
	}
	return ShareBar(fmt.Sprintf("Ödenen %d/%d", paid, total), share, color, labelW, barWidth)
}
