package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/butce/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	if shortLines >= tallLines {
		t.Fatal("short card should be shorter than tall card")
	}

	lines := strings.Split(CardRow([]string{tallCard, shortCard}), "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}
	for i, line := range lines {
		if lipgloss.Width(line) != 44 {
			t.Errorf("line %d width = %d, want 44", i, lipgloss.Width(line))
		}
		if i >= shortLines && !strings.Contains(line, "\x1b[") {
			t.Errorf("padding line %d has no styling", i)
		}
	}
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for _, total := range []int{80, 81, 119, 180} {
		for n := 1; n <= 5; n++ {
			sum := 0
			for _, w := range LayoutRow(total, n) {
				sum += w
			}
			if sum != total {
				t.Errorf("LayoutRow(%d, %d) sums to %d", total, n, sum)
			}
		}
	}
	if LayoutRow(80, 0) != nil {
		t.Error("LayoutRow with no items should be nil")
	}
}

func TestTabVisualWidthMatchesRender(t *testing.T) {
	for active := range Tabs {
		want := len(Tabs) - 1
		for i, tab := range Tabs {
			want += TabVisualWidth(tab, i == active)
		}
		if got := lipgloss.Width(RenderTabBar(active, 0)); got != want {
			t.Errorf("active=%d: rendered width %d, want %d", active, got, want)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if got := TabIdxByKey('1'); got != 0 {
		t.Errorf("TabIdxByKey('1') = %d", got)
	}
	if got := TabIdxByKey('6'); got != 5 {
		t.Errorf("TabIdxByKey('6') = %d", got)
	}
	if got := TabIdxByKey('x'); got != -1 {
		t.Errorf("TabIdxByKey('x') = %d", got)
	}
}

func TestFormatChartLabel(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{950, "950"},
		{1500, "1.5k"},
		{20000, "20k"},
		{-2000000, "-2M"},
		{-1300, "-1.3k"},
	}
	for _, tt := range tests {
		if got := FormatChartLabel(tt.in); got != tt.want {
			t.Errorf("FormatChartLabel(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBarChartSplitsAroundZero(t *testing.T) {
	out := BarChart([]float64{100, -50}, []string{"Eki", "Kas"}, 40, 6)
	lines := strings.Split(out, "\n")
	// 4 rows above the axis, the axis, 2 rows below and the labels.
	if len(lines) != 8 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[4], "┼") {
		t.Errorf("line 4 should be the axis: %q", lines[4])
	}
	if !strings.Contains(lines[7], "Eki") || !strings.Contains(lines[7], "Kas") {
		t.Errorf("labels missing: %q", lines[7])
	}
}

func TestBarChartPositiveOnlyHasNoRowsBelowAxis(t *testing.T) {
	lines := strings.Split(BarChart([]float64{10, 20, 30}, nil, 40, 5), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6", len(lines))
	}
	if !strings.Contains(lines[5], "┼") {
		t.Errorf("last line should be the axis: %q", lines[5])
	}
}

func TestAxisLabelsUseDisplayColumns(t *testing.T) {
	if got := axisLabels([]string{"Şub", "Mar"}, 3, 7); got != "Şub Mar" {
		t.Errorf("axisLabels = %q", got)
	}
	// Labels that run past the axis are dropped.
	if got := axisLabels([]string{"Ağustos", "Eyl"}, 2, 5); got != "" {
		t.Errorf("axisLabels = %q, want overflow dropped", got)
	}
}
