package cmd

import (
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
	flagDailyMealCard bool
	flagDailyIncome   bool
	flagDailyDate     string
	flagDailyDesc     string
	flagDailyAmount   string
)

var dailyCmd = &cobra.Command{
	Use:     "daily",
	Aliases: []string{"spend"},
	Short:   "Record day-to-day cash and meal-card transactions",
	RunE: func(_ *cobra.Command, _ []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()
		list := s.book.View().State.DailyExpenses
		if len(list) == 0 {
			fmt.Println("  No daily entries.")
			return nil
		}
		fmt.Print(renderDaily(list))
		return nil
	},
}

var dailyAddCmd = &cobra.Command{
	Use:   "add <description> <amount>",
	Short: "Record a spend (or income with --income)",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		amount, err := cli.ParseAmount(args[1])
		if err != nil {
			return err
		}
		day, err := dailyDate(flagDailyDate)
		if err != nil {
			return err
		}
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		d := model.DailyExpense{
			Date:        day,
			Description: args[0],
			Amount:      signed(amount, flagDailyIncome),
			Type:        wallet(flagDailyMealCard),
		}
		return s.apply(func(st model.BudgetState, view month.Month) (model.BudgetState, error) {
			return budget.AddDailyExpense(st, view, d)
		})
	},
}

var dailyEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a daily entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		d, err := findDaily(s, args[0])
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("description") {
			d.Description = flagDailyDesc
		}
		if flags.Changed("amount") {
			amount, err := cli.ParseAmount(flagDailyAmount)
			if err != nil {
				return err
			}
			d.Amount = signed(amount, flagDailyIncome)
		} else if flags.Changed("income") {
			d.Amount = signed(d.Amount, flagDailyIncome)
		}
		if flags.Changed("yk") {
			d.Type = wallet(flagDailyMealCard)
		}
		if flags.Changed("date") {
			if d.Date, err = dailyDate(flagDailyDate); err != nil {
				return err
			}
		}
		return s.apply(func(st model.BudgetState, view month.Month) (model.BudgetState, error) {
			return budget.UpdateDailyExpense(st, view, d)
		})
	},
}

var dailyRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Remove a daily entry",
	Args:    cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		d, err := findDaily(s, args[0])
		if err != nil {
			return err
		}
		return s.apply(func(st model.BudgetState, view month.Month) (model.BudgetState, error) {
			return budget.DeleteDailyExpense(st, view, d.ID)
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{dailyAddCmd, dailyEditCmd} {
		c.Flags().BoolVar(&flagDailyMealCard, "yk", false, "Meal card (Yemek Kartı) instead of cash")
		c.Flags().BoolVar(&flagDailyIncome, "income", false, "Money coming in rather than a spend")
		c.Flags().StringVar(&flagDailyDate, "date", "", "Date (YYYY-MM-DD, default: today)")
	}
	dailyEditCmd.Flags().StringVar(&flagDailyDesc, "description", "", "New description")
	dailyEditCmd.Flags().StringVar(&flagDailyAmount, "amount", "", "New amount")

	dailyCmd.AddCommand(dailyAddCmd, dailyEditCmd, dailyRmCmd)
	rootCmd.AddCommand(dailyCmd)
}

func signed(amount decimal.Decimal, income bool) decimal.Decimal {
	if income {
		return model.Inflow(amount)
	}
	return model.Outflow(amount)
}

func wallet(mealCard bool) model.ExpenseType {
	if mealCard {
		return model.MealCard
	}
	return model.Cash
}

func dailyDate(s string) (model.Day, error) {
	if s == "" {
		return model.NewDay(time.Now()), nil
	}
	return model.ParseDay(s)
}

func findDaily(s *session, prefix string) (model.DailyExpense, error) {
	list := s.book.View().State.DailyExpenses
	id, err := resolveID(prefix, dailyIDs(list))
	if err != nil {
		return model.DailyExpense{}, err
	}
	for _, d := range list {
		if d.ID == id {
			return d, nil
		}
	}
	return model.DailyExpense{}, fmt.Errorf("no daily entry with id %q", prefix)
}
