package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/butce/internal/cli"
	"github.com/theirongolddev/butce/internal/config"
	"github.com/theirongolddev/butce/internal/model"
	"github.com/theirongolddev/butce/internal/tui/components"
	"github.com/theirongolddev/butce/internal/tui/theme"
)

const (
	settingsFieldTheme = iota
	settingsFieldMonths
	settingsFieldBackups
	settingsFieldIncome
	settingsFieldYKIncome
	settingsFieldCount
)

// settingsState tracks the settings tab state.
type settingsState struct {
	editing bool
	input   textinput.Model
	saved   bool
	saveErr error
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 40
	return ti
}

func (a App) updateSettingsKey(key string) (tea.Model, tea.Cmd) {
	if key != "enter" && key != "e" {
		return a, nil
	}
	a.settings.editing = true
	a.settings.saved = false

	ti := newSettingsInput()
	cfg := a.cfg
	switch a.cursors[tabSettings] {
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(cfg.Appearance.Theme)
	case settingsFieldMonths:
		ti.Placeholder = "6"
		ti.SetValue(strconv.Itoa(cfg.General.DefaultMonths))
	case settingsFieldBackups:
		ti.Placeholder = "50 (0: hepsini sakla)"
		ti.SetValue(strconv.Itoa(cfg.General.KeepBackups))
	case settingsFieldIncome:
		ti.Placeholder = "boş bırakılırsa silinir"
		ti.SetValue(optionalValue(cfg.Budget.DefaultIncome))
	case settingsFieldYKIncome:
		ti.Placeholder = "boş bırakılırsa silinir"
		ti.SetValue(optionalValue(cfg.Budget.DefaultYKIncome))
	}
	ti.Focus()
	a.settings.input = ti
	return a, textinput.Blink
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settings.editing = false
		cfg, err := applySetting(a.cfg, a.cursors[tabSettings], a.settings.input.Value())
		if err == nil && a.saveConfig != nil {
			err = a.saveConfig(cfg)
		}
		a.settings.saveErr = err
		a.settings.saved = err == nil
		if err == nil {
			a.cfg = cfg
			theme.SetActive(cfg.Appearance.Theme)
		}
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// applySetting parses raw into the config field at idx.
func applySetting(cfg config.Config, idx int, raw string) (config.Config, error) {
	val := strings.TrimSpace(raw)
	switch idx {
	case settingsFieldTheme:
		if _, ok := theme.ByName(val); !ok {
			return cfg, fmt.Errorf("unknown theme %q", val)
		}
		cfg.Appearance.Theme = val
	case settingsFieldMonths:
		n, err := strconv.Atoi(val)
		if err != nil || n < 1 || n > 36 {
			return cfg, errors.New("months must be between 1 and 36")
		}
		cfg.General.DefaultMonths = n
	case settingsFieldBackups:
		n, err := strconv.Atoi(val)
		if err != nil || n < 0 {
			return cfg, errors.New("backup count must be zero or more")
		}
		cfg.General.KeepBackups = n
	case settingsFieldIncome, settingsFieldYKIncome:
		d, err := parseOptional(val)
		if err != nil {
			return cfg, err
		}
		if idx == settingsFieldIncome {
			cfg.Budget.DefaultIncome = floatPtr(d)
		} else {
			cfg.Budget.DefaultYKIncome = floatPtr(d)
		}
	}
	return cfg, nil
}

func optionalValue(f *float64) string {
	if f == nil {
		return ""
	}
	return decimal.NewFromFloat(*f).String()
}

func optionalMoney(f *float64) string {
	if f == nil {
		return "(yok)"
	}
	return cli.FormatMoney(decimal.NewFromFloat(*f))
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := a.cfg
	innerW := components.CardInnerWidth(cw)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Highlight).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Highlight).Bold(true)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Highlight)

	fields := []struct{ label, value string }{
		{"Tema", cfg.Appearance.Theme},
		{"Plan ay sayısı", strconv.Itoa(cfg.General.DefaultMonths)},
		{"Saklanan yedek", strconv.Itoa(cfg.General.KeepBackups)},
		{"Varsayılan gelir", optionalMoney(cfg.Budget.DefaultIncome)},
		{"Varsayılan YK", optionalMoney(cfg.Budget.DefaultYKIncome)},
	}

	var form strings.Builder
	cursor := a.cursors[tabSettings]
	for i, f := range fields {
		switch {
		case a.settings.editing && i == cursor:
			form.WriteString(markerStyle.Render("▸ "))
			form.WriteString(selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			form.WriteString(a.settings.input.View())
		case i == cursor:
			line := markerStyle.Render("▸ ") +
				selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")) +
				selectedStyle.Render(f.value)
			if pad := innerW - lipgloss.Width(line); pad > 0 {
				line += lipgloss.NewStyle().Background(t.Highlight).Render(strings.Repeat(" ", pad))
			}
			form.WriteString(line)
		default:
			form.WriteString(labelStyle.Render("  " + fmt.Sprintf("%-18s ", f.label+":")))
			form.WriteString(valueStyle.Render(f.value))
		}
		form.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		form.WriteString("\n" + lipgloss.NewStyle().Foreground(t.Outflow).Background(t.Surface).
			Render("Kaydedilemedi: "+a.settings.saveErr.Error()))
	} else if a.settings.saved {
		form.WriteString("\n" + lipgloss.NewStyle().Foreground(t.Inflow).Background(t.Surface).Render("Kaydedildi"))
	}

	s := a.book.State()
	info := labelStyle.Render("Veritabanı:   ") + valueStyle.Render(a.dbPath) + "\n" +
		labelStyle.Render("Ayar dosyası: ") + valueStyle.Render(config.ConfigPath()) + "\n" +
		labelStyle.Render("Şema sürümü:  ") + valueStyle.Render(strconv.Itoa(model.SchemaVersion)) + "\n" +
		labelStyle.Render("Arşiv:        ") + valueStyle.Render(fmt.Sprintf("%d ay", len(s.History))) + "\n" +
		labelStyle.Render("Plan verisi:  ") + valueStyle.Render(fmt.Sprintf("%d ay", len(s.FutureData)))

	return components.ContentCard("Ayarlar", strings.TrimRight(form.String(), "\n"), cw) + "\n" +
		components.ContentCard("Genel", info, cw)
}
