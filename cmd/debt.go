package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/butce/internal/budget"
	"github.com/theirongolddev/butce/internal/cli"
	"github.com/theirongolddev/butce/internal/model"
	"github.com/theirongolddev/butce/internal/month"
)

var (
	flagDebtDesc   string
	flagDebtAmount string
)

var debtCmd = &cobra.Command{
	Use:     "card",
	Aliases: []string{"debt", "cc"},
	Short:   "Manage the month's credit-card statement",
	RunE: func(_ *cobra.Command, _ []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()
		fmt.Print(renderDebts(s.book.View().State.CCDebts))
		return nil
	},
}

// cardLine builds a statement line command; store decides the sign.
func cardLine(use, short string, store func(model.BudgetState, month.Month, model.CCDebt) (model.BudgetState, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <description> <amount>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			amount, err := cli.ParseAmount(args[1])
			if err != nil {
				return err
			}
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()

			d := model.CCDebt{Description: args[0], Amount: amount}
			return s.apply(func(st model.BudgetState, view month.Month) (model.BudgetState, error) {
				return store(st, view, d)
			})
		},
	}
}

var debtEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a statement line; the amount keeps its charge or payment sign",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		d, err := findDebt(s, args[0])
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("description") {
			d.Description = flagDebtDesc
		}
		if cmd.Flags().Changed("amount") {
			amount, err := cli.ParseAmount(flagDebtAmount)
			if err != nil {
				return err
			}
			if d.Amount.IsNegative() {
				amount = model.Outflow(amount)
			} else {
				amount = model.Inflow(amount)
			}
			d.Amount = amount
		}
		return s.apply(func(st model.BudgetState, view month.Month) (model.BudgetState, error) {
			return budget.UpdateCCDebt(st, view, d)
		})
	},
}

var debtRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Remove a statement line",
	Args:    cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		d, err := findDebt(s, args[0])
		if err != nil {
			return err
		}
		return s.apply(func(st model.BudgetState, view month.Month) (model.BudgetState, error) {
			return budget.DeleteCCDebt(st, view, d.ID)
		})
	},
}

func init() {
	debtEditCmd.Flags().StringVar(&flagDebtDesc, "description", "", "New description")
	debtEditCmd.Flags().StringVar(&flagDebtAmount, "amount", "", "New amount")

	debtCmd.AddCommand(
		cardLine("charge", "Add a card charge", budget.AddCCCharge),
		cardLine("pay", "Add a card payment", budget.AddCCPayment),
		debtEditCmd,
		debtRmCmd,
	)
	rootCmd.AddCommand(debtCmd)
}

func findDebt(s *session, prefix string) (model.CCDebt, error) {
	list := s.book.View().State.CCDebts
	id, err := resolveID(prefix, debtIDs(list))
	if err != nil {
		return model.CCDebt{}, err
	}
	for _, d := range list {
		if d.ID == id {
			return d, nil
		}
	}
	return model.CCDebt{}, fmt.Errorf("no statement line with id %q", prefix)
}
