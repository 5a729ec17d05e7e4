package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/butce/internal/budget"
	"github.com/theirongolddev/butce/internal/cli"
	"github.com/theirongolddev/butce/internal/model"
	"github.com/theirongolddev/butce/internal/month"
)

var (
	flagInstTotal   string
	flagInstMonthly string
	flagInstCount   int
)

var installmentCmd = &cobra.Command{
	Use:     "installment",
	Aliases: []string{"taksit", "inst"},
	Short:   "Manage multi-month card installment plans",
	RunE: func(_ *cobra.Command, _ []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()
		list := s.book.View().State.Installments
		if len(list) == 0 {
			fmt.Println("  No active installment plans.")
			return nil
		}
		fmt.Print(renderInstallments(list))
		fmt.Printf("  Still to be billed after this month: %s\n\n", cli.FormatMoney(remainingDebt(list)))
		return nil
	},
}

var installmentAddCmd = &cobra.Command{
	Use:   "add <description>",
	Short: "Start a plan and bill its first installment this month",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if flagInstCount < 1 {
			return errors.New("--count must be at least 1")
		}
		in := model.Installment{
			Description:      args[0],
			InstallmentCount: flagInstCount,
			StartDate:        model.NewDay(time.Now()),
		}
		var err error
		switch {
		case flagInstTotal != "":
			in.TotalAmount, err = cli.ParseAmount(flagInstTotal)
		case flagInstMonthly != "":
			in.MonthlyAmount, err = cli.ParseAmount(flagInstMonthly)
		default:
			return errors.New("one of --total or --monthly is required")
		}
		if err != nil {
			return err
		}
		if in.TotalAmount.IsZero() && in.MonthlyAmount.IsZero() {
			return errors.New("installment amount must not be zero")
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()
		return s.apply(func(st model.BudgetState, view month.Month) (model.BudgetState, error) {
			return budget.AddInstallment(st, view, in)
		})
	},
}

var installmentRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Cancel a plan and drop its line from this month's statement",
	Args:    cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		id, err := resolveID(args[0], installmentIDs(s.book.State().Installments))
		if err != nil {
			return err
		}
		return s.apply(func(st model.BudgetState, view month.Month) (model.BudgetState, error) {
			return budget.DeleteInstallment(st, view, id)
		})
	},
}

func init() {
	installmentAddCmd.Flags().StringVar(&flagInstTotal, "total", "", "Total amount of the plan")
	installmentAddCmd.Flags().StringVar(&flagInstMonthly, "monthly", "", "Monthly amount (instead of --total)")
	installmentAddCmd.Flags().IntVarP(&flagInstCount, "count", "n", 1, "Number of monthly installments")
	installmentAddCmd.MarkFlagsMutuallyExclusive("total", "monthly")

	installmentCmd.AddCommand(installmentAddCmd, installmentRmCmd)
	rootCmd.AddCommand(installmentCmd)
}

// remainingDebt is what the plans will still bill after this month.
func remainingDebt(list []model.Installment) decimal.Decimal {
	total := decimal.Zero
	for _, in := range list {
		left := in.RemainingInstallments - 1
		if left > 0 {
			total = total.Add(in.MonthlyAmount.Mul(decimal.NewFromInt(int64(left))))
		}
	}
	return total
}
