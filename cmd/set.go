package cmd

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/butce/internal/budget"
	"github.com/theirongolddev/butce/internal/cli"
	"github.com/theirongolddev/butce/internal/model"
	"github.com/theirongolddev/butce/internal/month"
)

type setter func(model.BudgetState, month.Month, decimal.Decimal) (model.BudgetState, error)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the month's incomes and carried balances",
}

func setField(use, short string, fn setter) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <amount>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			v, err := cli.ParseAmount(args[0])
			if err != nil {
				return err
			}
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()
			return s.apply(func(st model.BudgetState, view month.Month) (model.BudgetState, error) {
				return fn(st, view, v)
			})
		},
	}
}

func init() {
	setCmd.AddCommand(
		setField("income", "Cash income (plans a future month with --month)", budget.SetIncome),
		setField("yk-income", "Meal card income (plans a future month with --month)", budget.SetYKIncome),
		setField("rollover", "Cash carried in from last month (live month only)", budget.SetRollover),
		setField("yk-rollover", "Meal card balance carried in (live month only)", budget.SetYKRollover),
	)
	rootCmd.AddCommand(setCmd)
}
