// Package theme defines the color themes of the butce TUI.
package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Theme maps the roles the budget screens draw with to colors.
type Theme struct {
	Name         string
	Background   lipgloss.Color
	Surface      lipgloss.Color // cards and bars
	Highlight    lipgloss.Color // selected row, active tab
	Border       lipgloss.Color
	BorderAccent lipgloss.Color // focused card, overlays
	TextDim      lipgloss.Color
	TextMuted    lipgloss.Color
	TextPrimary  lipgloss.Color
	Accent       lipgloss.Color
	AccentBright lipgloss.Color
	Inflow       lipgloss.Color // income, payments, positive balances
	Outflow      lipgloss.Color // bills, spends, charges, deficits
	Warning      lipgloss.Color // unpaid bills, low balance
	Planned      lipgloss.Color // projected months
	Archived     lipgloss.Color // read-only history months
}

// Amount picks the color for a signed amount.
func (t Theme) Amount(d decimal.Decimal) lipgloss.Color {
	switch d.Sign() {
	case 1:
		return t.Inflow
	case -1:
		return t.Outflow
	default:
		return t.TextMuted
	}
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default, a warm paper-inspired dark palette.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	Highlight:    lipgloss.Color("#343331"),
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Inflow:       lipgloss.Color("#879A39"),
	Outflow:      lipgloss.Color("#D14D41"),
	Warning:      lipgloss.Color("#DA702C"),
	Planned:      lipgloss.Color("#4385BE"),
	Archived:     lipgloss.Color("#D0A215"),
}

// CatppuccinMocha is a soft pastel palette.
var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	Background:   lipgloss.Color("#1E1E2E"),
	Surface:      lipgloss.Color("#313244"),
	Highlight:    lipgloss.Color("#585B70"),
	Border:       lipgloss.Color("#585B70"),
	BorderAccent: lipgloss.Color("#89B4FA"),
	TextDim:      lipgloss.Color("#6C7086"),
	TextMuted:    lipgloss.Color("#A6ADC8"),
	TextPrimary:  lipgloss.Color("#CDD6F4"),
	Accent:       lipgloss.Color("#89B4FA"),
	AccentBright: lipgloss.Color("#B4D0FB"),
	Inflow:       lipgloss.Color("#A6E3A1"),
	Outflow:      lipgloss.Color("#F38BA8"),
	Warning:      lipgloss.Color("#FAB387"),
	Planned:      lipgloss.Color("#94E2D5"),
	Archived:     lipgloss.Color("#F9E2AF"),
}

// TokyoNight is a cool blue and purple palette.
var TokyoNight = Theme{
	Name:         "tokyo-night",
	Background:   lipgloss.Color("#1A1B26"),
	Surface:      lipgloss.Color("#24283B"),
	Highlight:    lipgloss.Color("#414868"),
	Border:       lipgloss.Color("#565F89"),
	BorderAccent: lipgloss.Color("#7AA2F7"),
	TextDim:      lipgloss.Color("#565F89"),
	TextMuted:    lipgloss.Color("#A9B1D6"),
	TextPrimary:  lipgloss.Color("#C0CAF5"),
	Accent:       lipgloss.Color("#7AA2F7"),
	AccentBright: lipgloss.Color("#A9C1FF"),
	Inflow:       lipgloss.Color("#9ECE6A"),
	Outflow:      lipgloss.Color("#F7768E"),
	Warning:      lipgloss.Color("#FF9E64"),
	Planned:      lipgloss.Color("#7DCFFF"),
	Archived:     lipgloss.Color("#E0AF68"),
}

// Terminal sticks to the 16 ANSI colors.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	Highlight:    lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	Inflow:       lipgloss.Color("2"),
	Outflow:      lipgloss.Color("1"),
	Warning:      lipgloss.Color("3"),
	Planned:      lipgloss.Color("4"),
	Archived:     lipgloss.Color("5"),
}

// All available themes.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// Names lists the theme names in display order.
func Names() []string {
	out := make([]string, len(All))
	for i, t := range All {
		out[i] = t.Name
	}
	return out
}

// ByName returns the named theme, or FlexokiDark.
func ByName(name string) (Theme, bool) {
	for _, t := range All {
		if t.Name == name {
			return t, true
		}
	}
	return FlexokiDark, false
}

// SetActive switches the active theme; unknown names fall back to the default.
func SetActive(name string) {
	Active, _ = ByName(name)
}
