package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/butce/internal/model"
)

// RemainingCash is the cash left at month end: income, carry and cash
// inflows minus every bill and every cash spend, floored at zero. Bills
// count whether paid or not.
func RemainingCash(s model.BudgetState) decimal.Decimal {
	in, out := walletFlows(s.DailyExpenses, model.Cash)
	left := s.Income.Add(s.Rollover).Add(in).Sub(FixedTotal(s.FixedExpenses)).Sub(out)
	return decimal.Max(left, decimal.Zero)
}

// RemainingYK is the meal-card balance left at month end, floored at zero.
func RemainingYK(s model.BudgetState) decimal.Decimal {
	in, out := walletFlows(s.DailyExpenses, model.MealCard)
	left := s.YKIncome.Add(s.YKRollover).Add(in).Sub(out)
	return decimal.Max(left, decimal.Zero)
}

// CardTotal is what the statement says is owed: the negated sum of its lines.
// Payments reduce it; an overpaid statement reports zero.
func CardTotal(debts []model.CCDebt) decimal.Decimal {
	sum := decimal.Zero
	for _, d := range debts {
		sum = sum.Add(d.Amount)
	}
	return decimal.Max(sum.Neg(), decimal.Zero)
}

// FixedTotal sums bill amounts as a positive figure.
func FixedTotal(list []model.FixedExpense) decimal.Decimal {
	sum := decimal.Zero
	for _, f := range list {
		sum = sum.Add(f.Amount.Abs())
	}
	return sum
}

func walletFlows(daily []model.DailyExpense, wallet model.ExpenseType) (in, out decimal.Decimal) {
	in, out = decimal.Zero, decimal.Zero
	for _, d := range daily {
		if d.Type != wallet {
			continue
		}
		if d.Amount.IsPositive() {
			in = in.Add(d.Amount)
		} else {
			out = out.Add(d.Amount.Abs())
		}
	}
	return in, out
}

// Summarize derives the month totals shown for a state or a view of one.
func Summarize(s model.BudgetState) model.MonthSummary {
	sum := model.MonthSummary{
		Month:         s.CurrentMonth,
		Income:        s.Income,
		Rollover:      s.Rollover,
		YKIncome:      s.YKIncome,
		YKRollover:    s.YKRollover,
		FixedTotal:    FixedTotal(s.FixedExpenses),
		FixedPaid:     decimal.Zero,
		FixedUnpaid:   decimal.Zero,
		FixedCount:    len(s.FixedExpenses),
		CardTotal:     CardTotal(s.CCDebts),
		CardCharges:   decimal.Zero,
		CardPayments:  decimal.Zero,
		RemainingCash: RemainingCash(s),
		RemainingYK:   RemainingYK(s),
	}
	for _, f := range s.FixedExpenses {
		if f.IsPaid {
			sum.PaidCount++
			sum.FixedPaid = sum.FixedPaid.Add(f.Amount.Abs())
		} else {
			sum.FixedUnpaid = sum.FixedUnpaid.Add(f.Amount.Abs())
		}
	}
	for _, d := range s.CCDebts {
		if d.Amount.IsPositive() {
			sum.CardPayments = sum.CardPayments.Add(d.Amount)
		} else {
			sum.CardCharges = sum.CardCharges.Add(d.Amount.Abs())
		}
	}
	sum.CashIn, sum.CashOut = walletFlows(s.DailyExpenses, model.Cash)
	sum.YKIn, sum.YKOut = walletFlows(s.DailyExpenses, model.MealCard)
	return sum
}
