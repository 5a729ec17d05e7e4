package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/butce/internal/tui/theme"
)

// column describes one list column. A zero width takes what the fixed
// columns leave over.
type column struct {
	title string
	width int
	right bool
}

// listRow is one line of a list. color, when set, applies to the last cell.
type listRow struct {
	cells []string
	color lipgloss.Color
	muted bool
}

// renderList draws a header and the rows around cursor that fit in visible
// lines, innerW columns wide.
func renderList(cols []column, rows []listRow, cursor, innerW, visible int) string {
	t := theme.Active
	widths := columnWidths(cols, innerW)

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	var b strings.Builder
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
	}
	b.WriteString(renderCells(titles, cols, widths, func(int) lipgloss.Style { return headerStyle }))

	visible = max(visible, 1)
	offset := max(0, cursor-visible+1)
	end := min(len(rows), offset+visible)
	for i := offset; i < end; i++ {
		r := rows[i]
		bg := t.Surface
		if i == cursor {
			bg = t.Highlight
		}
		fg := t.TextPrimary
		if r.muted {
			fg = t.TextMuted
		}
		base := lipgloss.NewStyle().Foreground(fg).Background(bg)
		if i == cursor {
			base = base.Bold(true)
		}
		last := len(cols) - 1
		b.WriteString("\n")
		b.WriteString(renderCells(r.cells, cols, widths, func(col int) lipgloss.Style {
			if col == last && r.color != "" {
				return base.Foreground(r.color)
			}
			return base
		}))
	}
	if len(rows) > visible {
		more := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
		b.WriteString("\n" + more.Render(strings.Repeat(" ", 2)+posLabel(offset, end, len(rows))))
	}
	return b.String()
}

func posLabel(from, to, total int) string {
	return fmt.Sprintf("↕ %d-%d / %d", from+1, to, total)
}

func columnWidths(cols []column, innerW int) []int {
	widths := make([]int, len(cols))
	fixed, flex := 0, 0
	for i, c := range cols {
		widths[i] = c.width
		fixed += c.width
		if c.width == 0 {
			flex++
		}
	}
	// One space between columns.
	free := innerW - fixed - (len(cols) - 1)
	if flex > 0 {
		each := max(free/flex, 4)
		for i := range widths {
			if widths[i] == 0 {
				widths[i] = each
			}
		}
	}
	return widths
}

func renderCells(cells []string, cols []column, widths []int, style func(col int) lipgloss.Style) string {
	var b strings.Builder
	for i := range cols {
		text := ""
		if i < len(cells) {
			text = truncStr(cells[i], widths[i])
		}
		gap := max(0, widths[i]-lipgloss.Width(text))
		if cols[i].right {
			text = strings.Repeat(" ", gap) + text
		} else {
			text += strings.Repeat(" ", gap)
		}
		s := style(i)
		if i > 0 {
			b.WriteString(lipgloss.NewStyle().Background(s.GetBackground()).Render(" "))
		}
		b.WriteString(s.Render(text))
	}
	return b.String()
}
