package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/butce/internal/cli"
	"github.com/theirongolddev/butce/internal/ledger"
	"github.com/theirongolddev/butce/internal/model"
	"github.com/theirongolddev/butce/internal/pipeline"
	"github.com/theirongolddev/butce/internal/projection"
	"github.com/theirongolddev/butce/internal/tui/components"
	"github.com/theirongolddev/butce/internal/tui/theme"
)

const defaultForecastMonths = 6

func (a App) renderOverviewTab(v projection.View, cw int) string {
	if v.Kind == projection.Gap {
		return gapCard(cw)
	}
	t := theme.Active
	sum := ledger.Summarize(v.State)

	// Row 1: balances
	fixedNote := fmt.Sprintf("%d/%d ödendi", sum.PaidCount, sum.FixedCount)
	cards := []components.Metric{
		{Label: "Kalan Nakit", Value: cli.FormatMoney(sum.RemainingCash), Color: t.Amount(sum.RemainingCash),
			Note: "devir " + cli.FormatMoney(sum.Rollover)},
		{Label: "Kalan YK", Value: cli.FormatMoney(sum.RemainingYK), Color: t.Amount(sum.RemainingYK),
			Note: "devir " + cli.FormatMoney(sum.YKRollover)},
		{Label: "Sabit Giderler", Value: cli.FormatMoney(sum.FixedTotal), Note: fixedNote},
		{Label: "Kart Borcu", Value: cli.FormatMoney(sum.CardTotal), Color: t.Outflow,
			Note: fmt.Sprintf("%d taksit", len(v.State.Installments))},
	}
	out := components.MetricCardRow(cards, cw)

	// Row 2: incomes next to where the money went
	widths := components.LayoutRow(cw, 2)
	out += "\n" + components.CardRow([]string{
		components.ContentCard("Gelirler", incomeBody(sum), widths[0]),
		components.ContentCard("Harcama Durumu", spendBody(sum, components.CardInnerWidth(widths[1])), widths[1]),
	})

	// Row 3: forecast
	n := a.cfg.General.DefaultMonths
	if n <= 0 {
		n = defaultForecastMonths
	}
	rows := pipeline.Series(a.book.State(), v.Month, n)
	values := make([]float64, len(rows))
	labels := make([]string, len(rows))
	for i, r := range rows {
		values[i] = r.Summary.RemainingCash.InexactFloat64()
		labels[i] = shortMonth(r.Summary.Month)
	}
	chartW := components.CardInnerWidth(cw)
	chart := components.BarChart(values, labels, chartW, 8)
	out += "\n" + components.ContentCard(fmt.Sprintf("Kalan Nakit · %d ay", n), chart, cw)
	return out
}

func incomeBody(sum model.MonthSummary) string {
	t := theme.Active
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	lines := []struct {
		k string
		v decimal.Decimal
	}{
		{"Nakit gelir", sum.Income},
		{"Devreden", sum.Rollover},
		{"Yemek kartı", sum.YKIncome},
		{"YK devir", sum.YKRollover},
	}
	body := ""
	for i, l := range lines {
		if i > 0 {
			body += "\n"
		}
		body += label.Render(fmt.Sprintf("%-13s", l.k)) + value.Render(cli.FormatMoney(l.v))
	}
	return body
}

// spendBody shows the share of each wallet already spent.
func spendBody(sum model.MonthSummary, innerW int) string {
	barW := max(8, innerW-22)
	cashPool := sum.Income.Add(sum.Rollover).Add(sum.CashIn)
	ykPool := sum.YKIncome.Add(sum.YKRollover).Add(sum.YKIn)

	cash := usedShare(cashPool, sum.RemainingCash)
	yk := usedShare(ykPool, sum.RemainingYK)
	return components.ShareBar("Nakit", cash, components.ColorForSpend(cash), 14, barW) + "\n" +
		components.ShareBar("Yemek kartı", yk, components.ColorForSpend(yk), 14, barW) + "\n" +
		components.PaidBar(sum.PaidCount, sum.FixedCount, 14, barW)
}

func usedShare(pool, remaining decimal.Decimal) float64 {
	if !pool.IsPositive() {
		if remaining.IsNegative() {
			return 1
		}
		return 0
	}
	return pool.Sub(remaining).Div(pool).InexactFloat64()
}
