package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/butce/internal/tui/theme"
)

var (
	riseBlocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	dropBlocks = []rune{' ', '▔', '▔', '▀', '▀', '▀', '█', '█', '█'}
)

// Sparkline renders values as one line of block characters scaled between
// the series minimum and maximum.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := 1 + int((v-lo)/span*7)
		b.WriteRune(riseBlocks[max(1, min(idx, 8))])
	}
	return lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface).Render(b.String())
}

// BarChart renders a signed column chart around a zero axis: positive
// values rise in the inflow color, negative ones hang below in the outflow
// color. labels, when given, must match values one to one.
func BarChart(values []float64, labels []string, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active
	if width < 15 || height < 3 {
		return Sparkline(values, t.Accent)
	}

	top, bottom := 0.0, 0.0
	for _, v := range values {
		top = math.Max(top, v)
		bottom = math.Max(bottom, -v)
	}
	span := top + bottom
	if span == 0 {
		top, span = 1, 1
	}

	// Rows above and below the axis, at least one on each side that has data.
	upRows := int(math.Round(float64(height) * top / span))
	if top > 0 {
		upRows = max(upRows, 1)
	}
	if bottom > 0 {
		upRows = min(upRows, height-1)
	}
	downRows := height - upRows

	topLabel, bottomLabel := FormatChartLabel(top), FormatChartLabel(-bottom)
	labelW := max(lipgloss.Width(topLabel), lipgloss.Width(bottomLabel), 1) + 1

	n := len(values)
	chartW := width - labelW - 1
	barW := max(1, min(6, (chartW-(n-1))/n))
	axisLen := n*barW + n - 1

	surface := lipgloss.NewStyle().Background(t.Surface)
	axis := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	rise := lipgloss.NewStyle().Foreground(t.Inflow).Background(t.Surface)
	drop := lipgloss.NewStyle().Foreground(t.Outflow).Background(t.Surface)

	cell := func(blocks []rune, style lipgloss.Style, v, lo, hi float64) string {
		switch {
		case v >= hi:
			return style.Render(strings.Repeat("█", barW))
		case v > lo:
			idx := int((v - lo) / (hi - lo) * 8)
			return style.Render(strings.Repeat(string(blocks[max(1, min(idx, 8))]), barW))
		default:
			return surface.Render(strings.Repeat(" ", barW))
		}
	}
	row := func(label string, render func(v float64) string) string {
		var b strings.Builder
		b.WriteString(axis.Render(fmt.Sprintf("%*s│", labelW, label)))
		for i, v := range values {
			if i > 0 {
				b.WriteString(surface.Render(" "))
			}
			b.WriteString(render(v))
		}
		return b.String()
	}

	lines := make([]string, 0, height+2)
	for r := upRows; r >= 1; r-- {
		hi := top * float64(r) / float64(upRows)
		lo := top * float64(r-1) / float64(upRows)
		label := ""
		if r == upRows {
			label = topLabel
		}
		lines = append(lines, row(label, func(v float64) string { return cell(riseBlocks, rise, v, lo, hi) }))
	}
	lines = append(lines, axis.Render(fmt.Sprintf("%*s┼%s", labelW, "0", strings.Repeat("─", axisLen))))
	for r := 1; r <= downRows && bottom > 0; r++ {
		lo := bottom * float64(r-1) / float64(downRows)
		hi := bottom * float64(r) / float64(downRows)
		label := ""
		if r == downRows {
			label = bottomLabel
		}
		lines = append(lines, row(label, func(v float64) string { return cell(dropBlocks, drop, -v, lo, hi) }))
	}

	if len(labels) == n {
		lines = append(lines, axis.Render(strings.Repeat(" ", labelW+1)+axisLabels(labels, barW, axisLen)))
	}
	return strings.Join(lines, "\n")
}

// axisLabels places each label under its bar, skipping any that would
// collide with the previous one.
func axisLabels(labels []string, barW, axisLen int) string {
	buf := []rune(strings.Repeat(" ", axisLen))
	next := 0
	for i, lbl := range labels {
		pos := i * (barW + 1)
		r := []rune(lbl)
		if pos < next || pos+len(r) > axisLen {
			continue
		}
		copy(buf[pos:], r)
		next = pos + len(r) + 1
	}
	return strings.TrimRight(string(buf), " ")
}

// FormatChartLabel abbreviates an axis value: 1500 -> "1.5k", -2000000 -> "-2M".
func FormatChartLabel(v float64) string {
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	unit := ""
	switch {
	case v >= 1e6:
		v, unit = v/1e6, "M"
	case v >= 1e3:
		v, unit = v/1e3, "k"
	}
	if v == math.Trunc(v) {
		return fmt.Sprintf("%s%.0f%s", sign, v, unit)
	}
	return fmt.Sprintf("%s%.1f%s", sign, v, unit)
}
