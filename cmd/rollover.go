package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/butce/internal/cli"
	"github.com/theirongolddev/butce/internal/ledger"
	"github.com/theirongolddev/butce/internal/month"
	"github.com/theirongolddev/butce/internal/pipeline"
)

var flagRolloverTo string

var rolloverCmd = &cobra.Command{
	Use:   "rollover",
	Short: "Close the live month and carry balances into the next",
	Long: `Rollover normally happens on its own the first time the ledger is opened
in a new month. Run it by hand to bring a ledger opened with --no-rollover
up to date, or with --to to close months up to a given month.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		wall := month.Now()
		if flagRolloverTo != "" {
			m, err := month.Parse(flagRolloverTo)
			if err != nil {
				return err
			}
			if m.After(wall) {
				return fmt.Errorf("--to %s is after the current month %s", m, wall)
			}
			wall = m
		}

		s, err := openSessionWith(pipeline.Options{Wall: wall, SkipRollover: true})
		if err != nil {
			return err
		}
		defer s.Close()

		state := s.book.State()
		from := state.CurrentMonth
		next, rolled := ledger.CheckAndRollover(state, wall)
		if !rolled {
			fmt.Printf("  Ledger is already at %s.\n", cli.FormatMonth(from))
			return nil
		}
		s.book.Replace(next)
		if err := s.save(pipeline.ReasonRollover); err != nil {
			return err
		}

		fmt.Printf("  Rolled over %s → %s\n", cli.FormatMonth(from), cli.FormatMonth(next.CurrentMonth))
		fmt.Printf("  Carried cash %s, meal card %s\n", cli.FormatMoney(next.Rollover), cli.FormatMoney(next.YKRollover))
		if len(next.CCDebts) > 0 {
			fmt.Printf("  New statement opens with %d installment line(s)\n", len(next.CCDebts))
		}
		return nil
	},
}

func init() {
	rolloverCmd.Flags().StringVar(&flagRolloverTo, "to", "", "Roll forward to this month (YYYY-MM, default: now)")
	rootCmd.AddCommand(rolloverCmd)
}
