package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/butce/internal/cli"
	"github.com/theirongolddev/butce/internal/ledger"
	"github.com/theirongolddev/butce/internal/model"
	"github.com/theirongolddev/butce/internal/projection"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a month: balances, bills, spending and card statement",
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	v := s.book.View()
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("BÜTÇE  %s", cli.FormatMonth(v.Month))))
	fmt.Printf("  %s\n\n", cli.RenderBadge(kindLabel(v.Kind)))

	if v.Kind == projection.Gap {
		fmt.Println("  No record for this month.")
		return nil
	}

	fmt.Print(renderSummary(ledger.Summarize(v.State)))
	fmt.Println()
	fmt.Print(renderFixed(v.State.FixedExpenses))
	if len(v.State.DailyExpenses) > 0 {
		fmt.Print(renderDaily(v.State.DailyExpenses))
	}
	if len(v.State.CCDebts) > 0 {
		fmt.Print(renderDebts(v.State.CCDebts))
	}
	if v.Kind == projection.Current && len(v.State.Installments) > 0 {
		fmt.Print(renderInstallments(v.State.Installments))
	}
	return nil
}

func kindLabel(k projection.Kind) string {
	switch k {
	case projection.Current:
		return "güncel ay"
	case projection.History:
		return "geçmiş · salt okunur"
	case projection.Projected:
		return "plan · tahmini"
	default:
		return "kayıt yok"
	}
}

func renderSummary(sum model.MonthSummary) string {
	paid := cli.RenderProgressBar(sum.PaidCount, sum.FixedCount, 20)
	if paid == "" {
		paid = cli.RenderMuted("sabit gider yok")
	}
	return cli.RenderKV([]cli.KV{
		{Label: "Gelir (Nakit)", Value: cli.FormatMoney(sum.Income)},
		{Label: "Devreden (Nakit)", Value: cli.FormatMoney(sum.Rollover)},
		{Label: "Yemek Kartı", Value: fmt.Sprintf("%s + %s devreden", cli.FormatMoney(sum.YKIncome), cli.FormatMoney(sum.YKRollover))},
		{Label: "Sabit Giderler", Value: fmt.Sprintf("%s (ödenmemiş %s)", cli.FormatMoney(sum.FixedTotal), cli.FormatMoney(sum.FixedUnpaid))},
		{Label: "Ödenen", Value: paid},
		{Label: "Günlük Nakit", Value: fmt.Sprintf("+%s / -%s", cli.FormatMoney(sum.CashIn), cli.FormatMoney(sum.CashOut))},
		{Label: "Günlük YK", Value: fmt.Sprintf("+%s / -%s", cli.FormatMoney(sum.YKIn), cli.FormatMoney(sum.YKOut))},
		{Label: "Kart Ekstresi", Value: cli.FormatMoney(sum.CardTotal)},
		{Label: "Kalan Nakit", Value: cli.RenderMoney(sum.RemainingCash)},
		{Label: "Kalan YK", Value: cli.RenderMoney(sum.RemainingYK)},
	})
}

func renderFixed(list []model.FixedExpense) string {
	rows := make([][]string, 0, len(list)+2)
	for _, f := range list {
		rows = append(rows, []string{f.Title, shortID(f.ID), cli.FormatMoney(f.Amount), cli.FormatPaid(f.IsPaid)})
	}
	rows = append(rows, []string{cli.Separator}, []string{"Toplam", "", cli.FormatMoney(ledger.FixedTotal(list).Neg()), ""})
	return cli.RenderTable(cli.Table{
		Title:   "Sabit Giderler",
		Headers: []string{"Başlık", "ID", "Tutar", "Ödendi"},
		Rows:    rows,
	})
}

func renderDaily(list []model.DailyExpense) string {
	rows := make([][]string, 0, len(list))
	for _, d := range list {
		rows = append(rows, []string{d.Description, shortID(d.ID), cli.FormatDay(d.Date.Time), string(d.Type), cli.FormatMoney(d.Amount)})
	}
	return cli.RenderTable(cli.Table{
		Title:   "Günlük Harcamalar",
		Headers: []string{"Açıklama", "ID", "Tarih", "Tür", "Tutar"},
		Rows:    rows,
	})
}

func renderDebts(list []model.CCDebt) string {
	rows := make([][]string, 0, len(list)+2)
	for _, d := range list {
		rows = append(rows, []string{d.Description, shortID(d.ID), cli.FormatMoney(d.Amount)})
	}
	rows = append(rows, []string{cli.Separator}, []string{"Ekstre", "", cli.FormatMoney(ledger.CardTotal(list))})
	return cli.RenderTable(cli.Table{
		Title:   "Kredi Kartı",
		Headers: []string{"Açıklama", "ID", "Tutar"},
		Rows:    rows,
	})
}

func renderInstallments(list []model.Installment) string {
	rows := make([][]string, 0, len(list))
	for _, in := range list {
		rows = append(rows, []string{
			in.Description,
			shortID(in.ID),
			cli.FormatMoney(in.MonthlyAmount),
			fmt.Sprintf("%d/%d", in.RemainingInstallments, in.InstallmentCount),
			cli.FormatMoney(in.TotalAmount),
		})
	}
	return cli.RenderTable(cli.Table{
		Title:   "Taksitler",
		Headers: []string{"Açıklama", "ID", "Aylık", "Kalan", "Toplam"},
		Rows:    rows,
	})
}
