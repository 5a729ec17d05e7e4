package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/butce/internal/cli"
	"github.com/theirongolddev/butce/internal/pipeline"
	"github.com/theirongolddev/butce/internal/projection"
)

var flagProjectMonths int

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"plan", "forecast"},
	Short:   "Forecast the months ahead of the viewed month",
	Args:    cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		n := flagProjectMonths
		if n <= 0 {
			n = appCfg.General.DefaultMonths
		}
		if n <= 0 {
			n = 6
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		rows := pipeline.Series(s.book.State(), s.book.ViewMonth(), n)
		fmt.Println()
		fmt.Println(cli.RenderTitle(fmt.Sprintf("PLAN  %d ay", n)))
		fmt.Println()
		fmt.Print(renderSeries(rows))

		spark := make([]float64, len(rows))
		for i, r := range rows {
			spark[i] = r.Summary.RemainingCash.InexactFloat64()
		}
		t := pipeline.Total(rows)
		fmt.Printf("  Kalan nakit  %s\n\n", cli.RenderSparkline(spark))
		fmt.Print(cli.RenderKV([]cli.KV{
			{Label: "Toplam Gelir", Value: cli.FormatMoney(t.Income)},
			{Label: "Toplam Sabit", Value: cli.FormatMoney(t.Fixed)},
			{Label: "Toplam Kart", Value: cli.FormatMoney(t.Card)},
			{Label: "Dönem Sonu", Value: cli.RenderMoney(t.EndingCash)},
		}))
		fmt.Println()
		return nil
	},
}

func init() {
	projectCmd.Flags().IntVarP(&flagProjectMonths, "months", "n", 0, "Number of months to forecast (default from config)")
	rootCmd.AddCommand(projectCmd)
}

func renderSeries(rows []pipeline.MonthRow) string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		sum := r.Summary
		label := cli.FormatMonth(sum.Month)
		if r.Kind == projection.Projected {
			label += " *"
		}
		out = append(out, []string{
			label,
			cli.FormatMoney(sum.Income.Add(sum.Rollover)),
			cli.FormatMoney(sum.FixedTotal),
			cli.FormatMoney(sum.CardTotal),
			cli.RenderMoney(sum.RemainingCash),
			cli.RenderMoney(sum.RemainingYK),
		})
	}
	return cli.RenderTable(cli.Table{
		Headers: []string{"Ay", "Gelir+Devir", "Sabit", "Kart", "Kalan Nakit", "Kalan YK"},
		Rows:    out,
	})
}
