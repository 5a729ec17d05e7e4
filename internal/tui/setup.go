package tui

import (
	"errors"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/butce/internal/cli"
	"github.com/theirongolddev/butce/internal/config"
	"github.com/theirongolddev/butce/internal/ledger"
	"github.com/theirongolddev/butce/internal/model"
	"github.com/theirongolddev/butce/internal/month"
	"github.com/theirongolddev/butce/internal/tui/components"
	"github.com/theirongolddev/butce/internal/tui/theme"
)

// SetupValues are the answers of the first-run form.
type SetupValues struct {
	Income   string
	YKIncome string
	Theme    string
	Months   int
}

var monthChoices = []int{3, 6, 12}

// NewSetupValues prefills the form from cfg.
func NewSetupValues(cfg config.Config) *SetupValues {
	income, yk := cfg.Budget.Seed()
	v := &SetupValues{
		Theme:  cfg.Appearance.Theme,
		Months: cfg.General.DefaultMonths,
	}
	if !income.IsZero() {
		v.Income = income.String()
	}
	if !yk.IsZero() {
		v.YKIncome = yk.String()
	}
	if v.Theme == "" {
		v.Theme = theme.FlexokiDark.Name
	}
	if v.Months <= 0 {
		v.Months = 6
	}
	return v
}

func optionalAmount(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return validAmount(s)
}

// NewSetupForm asks for the monthly incomes, theme and forecast length.
func NewSetupForm(v *SetupValues) *huh.Form {
	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themes = append(themes, huh.NewOption(name, name))
	}
	months := make([]huh.Option[int], 0, len(monthChoices))
	for _, n := range monthChoices {
		months = append(months, huh.NewOption(strconv.Itoa(n)+" ay", n))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Bütçe'ye hoş geldiniz").
				Description("Aylık gelirlerinizi girin; her yeni ay bu rakamlarla başlar.\nBoş bırakırsanız daha sonra Özet sekmesinden girebilirsiniz."),
			huh.NewInput().Title("Aylık nakit gelir (₺)").Value(&v.Income).Validate(optionalAmount),
			huh.NewInput().Title("Aylık yemek kartı geliri (₺)").Value(&v.YKIncome).Validate(optionalAmount),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Renk teması").Options(themes...).Value(&v.Theme),
			huh.NewSelect[int]().Title("Plan ekranında kaç ay gösterilsin?").Options(months...).Value(&v.Months),
		),
	).WithKeyMap(formKeyMap()).WithShowHelp(true).WithWidth(64)
}

// Apply stores the answers in cfg. It returns the parsed incomes so a
// fresh ledger can be seeded with them.
func (v SetupValues) Apply(cfg config.Config) (config.Config, decimal.Decimal, decimal.Decimal, error) {
	income, err := parseOptional(v.Income)
	if err != nil {
		return cfg, decimal.Zero, decimal.Zero, err
	}
	yk, err := parseOptional(v.YKIncome)
	if err != nil {
		return cfg, decimal.Zero, decimal.Zero, err
	}

	cfg.Budget.DefaultIncome = floatPtr(income)
	cfg.Budget.DefaultYKIncome = floatPtr(yk)
	if _, ok := theme.ByName(v.Theme); ok {
		cfg.Appearance.Theme = v.Theme
	}
	if v.Months > 0 {
		cfg.General.DefaultMonths = v.Months
	}
	return cfg, income, yk, nil
}

func parseOptional(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	d, err := cli.ParseAmount(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, errors.New("income must not be negative")
	}
	return d, nil
}

func floatPtr(d decimal.Decimal) *float64 {
	if d.IsZero() {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}

// seedIncomes fills in the live month's incomes when the ledger has none.
func seedIncomes(income, yk decimal.Decimal) func(model.BudgetState, month.Month) (model.BudgetState, error) {
	return func(s model.BudgetState, _ month.Month) (model.BudgetState, error) {
		if s.Income.IsZero() && !income.IsZero() {
			s = ledger.SetIncome(s, income)
		}
		if s.YKIncome.IsZero() && !yk.IsZero() {
			s = ledger.SetYKIncome(s, yk)
		}
		return s, nil
	}
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateAborted:
		a.setupForm, a.needSetup = nil, false
		return a, nil
	case huh.StateCompleted:
		a.setupForm, a.needSetup = nil, false
		return a.finishSetup()
	}
	return a, cmd
}

func (a App) finishSetup() (tea.Model, tea.Cmd) {
	cfg, income, yk, err := a.setupVals.Apply(a.cfg)
	if err != nil {
		a.setFlash(err.Error(), true)
		return a, nil
	}
	a.cfg = cfg
	theme.SetActive(cfg.Appearance.Theme)
	if a.saveConfig != nil {
		if err := a.saveConfig(cfg); err != nil {
			a.setFlash("Ayarlar kaydedilemedi: "+err.Error(), true)
		}
	}
	if income.IsZero() && yk.IsZero() {
		return a, nil
	}
	return a.apply(seedIncomes(income, yk), "Kurulum tamamlandı")
}

func (a App) viewSetup() string {
	t := theme.Active
	logo := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true).Render("◈ butce")
	sub := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(" · aylık bütçe")
	return components.FocusedCard("", logo+sub+"\n\n"+a.setupForm.View(), min(a.width-4, 76))
}
