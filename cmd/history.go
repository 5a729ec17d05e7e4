package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/butce/internal/budget"
	"github.com/theirongolddev/butce/internal/cli"
	"github.com/theirongolddev/butce/internal/migrate"
	"github.com/theirongolddev/butce/internal/model"
	"github.com/theirongolddev/butce/internal/month"
	"github.com/theirongolddev/butce/internal/pipeline"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved versions of the ledger",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		s, err := openSessionWith(pipeline.Options{SkipRollover: true})
		if err != nil {
			return err
		}
		defer s.Close()

		backups, err := s.st.Backups(model.StorageKey, flagHistoryLimit)
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			fmt.Println("  No saved versions yet.")
			return nil
		}
		rows := make([][]string, 0, len(backups))
		for _, b := range backups {
			rows = append(rows, []string{
				strconv.FormatInt(b.ID, 10),
				b.CreatedAt.Local().Format("2006-01-02 15:04"),
				b.Reason,
				"v" + strconv.Itoa(b.Version),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Kayıtlar",
			Headers: []string{"ID", "Zaman", "Neden", "Şema"},
			Rows:    rows,
		}))
		return nil
	},
}

var historyRestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Replace the ledger with a saved version",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid backup id %q", args[0])
		}
		s, err := openSessionWith(pipeline.Options{SkipRollover: true})
		if err != nil {
			return err
		}
		defer s.Close()

		b, err := s.st.Backup(id)
		if err != nil {
			return err
		}
		state, err := migrate.Decode(b.Value, month.Now())
		if err != nil {
			return err
		}
		if !flagNoRollover {
			state, _ = budget.CheckAndRollover(state, month.Now())
		}
		s.book.Replace(state)
		if err := s.save(pipeline.ReasonRestore); err != nil {
			return err
		}
		fmt.Printf("  Restored version %d (%s, %s).\n", b.ID, b.Reason, cli.FormatMonth(state.CurrentMonth))
		return nil
	},
}

var historyMonthsCmd = &cobra.Command{
	Use:   "months",
	Short: "Summarize every archived month",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		rows := pipeline.HistoryRows(s.book.State())
		if len(rows) == 0 {
			fmt.Println("  No archived months yet.")
			return nil
		}
		fmt.Print(renderSeries(rows))

		peak := 0.0
		for _, r := range rows {
			peak = max(peak, r.Summary.FixedTotal.InexactFloat64())
		}
		fmt.Println("  Sabit giderler")
		for _, r := range rows {
			label := fmt.Sprintf("%-14s", cli.FormatMonth(r.Summary.Month))
			fmt.Println(cli.RenderHorizontalBar(label, r.Summary.FixedTotal.InexactFloat64(), peak, 30))
		}
		fmt.Println()
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "Number of versions to list")
	historyCmd.AddCommand(historyRestoreCmd, historyMonthsCmd)
	rootCmd.AddCommand(historyCmd)
}
