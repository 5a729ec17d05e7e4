package tui

import (
	"fmt"

	"github.com/theirongolddev/butce/internal/cli"
	"github.com/theirongolddev/butce/internal/pipeline"
	"github.com/theirongolddev/butce/internal/tui/components"
	"github.com/theirongolddev/butce/internal/tui/theme"
)

func (a App) renderHistoryTab(cw, h int) string {
	t := theme.Active
	rows := pipeline.HistoryRows(a.book.State())

	list := make([]listRow, len(rows))
	for i, r := range rows {
		s := r.Summary
		list[i] = listRow{
			cells: []string{
				cli.FormatMonth(s.Month),
				cli.FormatMoney(s.Income),
				cli.FormatMoney(s.FixedTotal),
				fmt.Sprintf("%d/%d", s.PaidCount, s.FixedCount),
				cli.FormatMoney(s.CardTotal),
				cli.FormatMoney(s.RemainingCash),
			},
			color: t.Amount(s.RemainingCash),
		}
	}
	cols := []column{
		{title: "Ay"},
		{title: "Gelir", width: amountWidth, right: true},
		{title: "Sabit", width: amountWidth, right: true},
		{title: "Ödenen", width: 6, right: true},
		{title: "Kart", width: amountWidth, right: true},
		{title: "Kalan", width: amountWidth, right: true},
	}
	if len(list) == 0 {
		return components.ContentCard("Geçmiş", "Henüz arşivlenmiş ay yok.", cw)
	}

	tot := pipeline.Total(rows)
	footer := footerKV("Gelir", cli.FormatMoney(tot.Income), "Sabit", cli.FormatMoney(tot.Fixed), "Kart", cli.FormatMoney(tot.Card))
	return listCard(fmt.Sprintf("Geçmiş (%d ay)", len(list)), cols, list, a.cursors[tabHistory], cw, h, 6, footer)
}
