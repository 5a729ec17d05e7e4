package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/butce/internal/tui/theme"
)

// Tab is one entry of the tab bar, selected with its number key.
type Tab struct {
	Name string
	Key  rune
}

// Tabs are the screens of the budget TUI, in display order.
var Tabs = []Tab{
	{Name: "Özet", Key: '1'},
	{Name: "Sabit", Key: '2'},
	{Name: "Günlük", Key: '3'},
	{Name: "Kart", Key: '4'},
	{Name: "Geçmiş", Key: '5'},
	{Name: "Ayarlar", Key: '6'},
}

// TabVisualWidth is the rendered width of a tab, without the separator.
// Inactive tabs carry their key hint.
func TabVisualWidth(tab Tab, active bool) int {
	w := lipgloss.Width(tab.Name) + 2
	if !active {
		w += 3
	}
	return w
}

// RenderTabBar renders the tab bar on one line with the given tab active.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Highlight).
		Bold(true).
		Padding(0, 1)
	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)
	keyStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface)
	sepStyle := lipgloss.NewStyle().
		Background(t.Surface)

	parts := make([]string, 0, len(Tabs))
	for i, tab := range Tabs {
		if i == activeIdx {
			parts = append(parts, activeStyle.Render(tab.Name))
			continue
		}
		parts = append(parts, inactiveStyle.Render(" "+tab.Name)+
			keyStyle.Render("["+string(tab.Key)+"]")+
			inactiveStyle.Render(" "))
	}

	bar := strings.Join(parts, sepStyle.Render(" "))
	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(bar)
}

// TabIdxByKey returns the tab index bound to key, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
