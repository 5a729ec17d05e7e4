package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/butce/internal/cli"
	"github.com/theirongolddev/butce/internal/ledger"
	"github.com/theirongolddev/butce/internal/model"
	"github.com/theirongolddev/butce/internal/projection"
	"github.com/theirongolddev/butce/internal/tui/components"
	"github.com/theirongolddev/butce/internal/tui/theme"
)

const amountWidth = 14

// listCard wraps a list in a card; chrome is the number of lines the
// card needs besides the rows themselves.
func listCard(title string, cols []column, rows []listRow, cursor, cw, h, chrome int, footer string) string {
	t := theme.Active
	if len(rows) == 0 {
		empty := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("Kayıt yok. [a] ile ekleyin.")
		return components.ContentCard(title, empty, cw)
	}
	body := renderList(cols, rows, cursor, components.CardInnerWidth(cw), h-chrome)
	if footer != "" {
		body += "\n\n" + footer
	}
	return components.ContentCard(title, body, cw)
}

func gapCard(cw int) string {
	t := theme.Active
	msg := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
		Render("Bu ay için arşivlenmiş kayıt yok.\n[t] ile güncel aya, [ ] ile diğer aylara geçin.")
	return components.ContentCard("", msg, cw)
}

func footerKV(pairs ...string) string {
	t := theme.Active
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	gap := lipgloss.NewStyle().Background(t.Surface).Render("   ")
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, label.Render(pairs[i]+" ")+value.Render(pairs[i+1]))
	}
	return strings.Join(parts, gap)
}

func (a App) renderFixedTab(v projection.View, cw, h int) string {
	if v.Kind == projection.Gap {
		return gapCard(cw)
	}
	t := theme.Active
	list := v.State.FixedExpenses
	sum := ledger.Summarize(v.State)

	rows := make([]listRow, len(list))
	for i, f := range list {
		mark := "○"
		if f.IsPaid {
			mark = "✓"
		}
		title := f.Title
		if f.IsCardCarry() {
			title += " · kart"
		}
		color := t.Warning
		if f.IsPaid {
			color = t.Inflow
		}
		rows[i] = listRow{
			cells: []string{mark, title, cli.FormatMoney(f.Amount)},
			color: color,
			muted: f.IsPaid,
		}
	}

	cols := []column{{title: "", width: 1}, {title: "Açıklama"}, {title: "Tutar", width: amountWidth, right: true}}
	barW := max(10, components.CardInnerWidth(cw)/3)
	footer := footerKV("Toplam", cli.FormatMoney(sum.FixedTotal), "Ödenmemiş", cli.FormatMoney(sum.FixedUnpaid)) +
		"\n" + components.PaidBar(sum.PaidCount, sum.FixedCount, 14, barW)
	return listCard(fmt.Sprintf("Sabit Giderler (%d)", len(list)), cols, rows, a.cursors[tabFixed], cw, h, 8, footer)
}

func walletLabel(tp model.ExpenseType) string {
	if tp == model.MealCard {
		return "YK"
	}
	return "Nakit"
}

func (a App) renderDailyTab(v projection.View, cw, h int) string {
	if v.Kind == projection.Gap {
		return gapCard(cw)
	}
	t := theme.Active
	list := v.State.DailyExpenses
	sum := ledger.Summarize(v.State)

	rows := make([]listRow, len(list))
	for i, d := range list {
		rows[i] = listRow{
			cells: []string{cli.FormatDay(d.Date.Time), d.Description, walletLabel(d.Type), cli.FormatMoney(d.Amount)},
			color: t.Amount(d.Amount),
		}
	}

	cols := []column{
		{title: "Tarih", width: 10},
		{title: "Açıklama"},
		{title: "Cüzdan", width: 6},
		{title: "Tutar", width: amountWidth, right: true},
	}
	footer := footerKV(
		"Nakit", fmt.Sprintf("+%s / -%s", cli.FormatMoney(sum.CashIn), cli.FormatMoney(sum.CashOut)),
		"YK", fmt.Sprintf("+%s / -%s", cli.FormatMoney(sum.YKIn), cli.FormatMoney(sum.YKOut)),
	)
	return listCard(fmt.Sprintf("Günlük Harcamalar (%d)", len(list)), cols, rows, a.cursors[tabDaily], cw, h, 7, footer)
}

func (a App) renderCardTab(v projection.View, cw, h int) string {
	if v.Kind == projection.Gap {
		return gapCard(cw)
	}
	t := theme.Active
	list := v.State.CCDebts
	sum := ledger.Summarize(v.State)

	installments := ""
	if len(v.State.Installments) > 0 {
		installments = renderInstallments(v.State.Installments, cw)
	}
	listH := h - lipgloss.Height(installments)

	rows := make([]listRow, len(list))
	for i, d := range list {
		part := ""
		if d.TotalInstallments > 0 {
			part = fmt.Sprintf("%d/%d", d.CurrentInstallment, d.TotalInstallments)
		}
		rows[i] = listRow{
			cells: []string{d.Description, part, cli.FormatMoney(d.Amount)},
			color: t.Amount(d.Amount),
		}
	}
	cols := []column{
		{title: "Açıklama"},
		{title: "Taksit", width: 6, right: true},
		{title: "Tutar", width: amountWidth, right: true},
	}
	footer := footerKV(
		"Ekstre", cli.FormatMoney(sum.CardTotal),
		"Harcama", cli.FormatMoney(sum.CardCharges),
		"Ödeme", cli.FormatMoney(sum.CardPayments),
	)
	out := listCard(fmt.Sprintf("Kredi Kartı (%d)", len(list)), cols, rows, a.cursors[tabCard], cw, listH, 7, footer)
	if installments != "" {
		out += "\n" + installments
	}
	return out
}

func renderInstallments(list []model.Installment, cw int) string {
	rows := make([]listRow, len(list))
	for i, in := range list {
		rows[i] = listRow{
			cells: []string{
				in.Description,
				fmt.Sprintf("%d/%d", in.RemainingInstallments, in.InstallmentCount),
				cli.FormatMoney(in.TotalAmount),
				cli.FormatMoney(in.MonthlyAmount),
			},
			color: theme.Active.Outflow,
		}
	}
	cols := []column{
		{title: "Taksitler"},
		{title: "Kalan", width: 6, right: true},
		{title: "Toplam", width: amountWidth, right: true},
		{title: "Aylık", width: amountWidth, right: true},
	}
	return components.ContentCard("", renderList(cols, rows, -1, components.CardInnerWidth(cw), len(rows)), cw)
}
