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
	flagFixedTitle  string
	flagFixedAmount string
	flagFixedPaid   bool
)

var fixedCmd = &cobra.Command{
	Use:     "fixed",
	Aliases: []string{"bill"},
	Short:   "Manage recurring monthly bills",
	RunE: func(_ *cobra.Command, _ []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()
		fmt.Print(renderFixed(s.book.View().State.FixedExpenses))
		return nil
	},
}

var fixedAddCmd = &cobra.Command{
	Use:   "add <title> <amount>",
	Short: "Add a bill to the viewed month and every month after it",
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

		f := model.FixedExpense{Title: args[0], Amount: amount, IsPaid: flagFixedPaid}
		return s.apply(func(st model.BudgetState, view month.Month) (model.BudgetState, error) {
			return budget.AddFixedExpense(st, view, f)
		})
	},
}

var fixedEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a bill's title or amount",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		f, err := findFixed(s, args[0])
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("title") {
			f.Title = flagFixedTitle
		}
		if cmd.Flags().Changed("amount") {
			if f.Amount, err = cli.ParseAmount(flagFixedAmount); err != nil {
				return err
			}
		}
		return s.apply(func(st model.BudgetState, view month.Month) (model.BudgetState, error) {
			return budget.UpdateFixedExpense(st, view, f)
		})
	},
}

var fixedRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Remove a bill",
	Args:    cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		f, err := findFixed(s, args[0])
		if err != nil {
			return err
		}
		return s.apply(func(st model.BudgetState, view month.Month) (model.BudgetState, error) {
			return budget.DeleteFixedExpense(st, view, f.ID)
		})
	},
}

var fixedToggleCmd = &cobra.Command{
	Use:     "toggle <id>",
	Aliases: []string{"pay"},
	Short:   "Flip a bill between paid and unpaid",
	Args:    cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		f, err := findFixed(s, args[0])
		if err != nil {
			return err
		}
		return s.apply(func(st model.BudgetState, view month.Month) (model.BudgetState, error) {
			return budget.ToggleFixedExpense(st, view, f.ID)
		})
	},
}

func init() {
	fixedAddCmd.Flags().BoolVar(&flagFixedPaid, "paid", false, "Mark as already paid")
	fixedEditCmd.Flags().StringVar(&flagFixedTitle, "title", "", "New title")
	fixedEditCmd.Flags().StringVar(&flagFixedAmount, "amount", "", "New amount")

	fixedCmd.AddCommand(fixedAddCmd, fixedEditCmd, fixedRmCmd, fixedToggleCmd)
	rootCmd.AddCommand(fixedCmd)
}

// findFixed looks a bill up in the viewed month, including the card carry line.
func findFixed(s *session, prefix string) (model.FixedExpense, error) {
	list := s.book.View().State.FixedExpenses
	id, err := resolveID(prefix, fixedIDs(list))
	if err != nil {
		return model.FixedExpense{}, err
	}
	for _, f := range list {
		if f.ID == id {
			return f, nil
		}
	}
	return model.FixedExpense{}, fmt.Errorf("no bill with id %q", prefix)
}
