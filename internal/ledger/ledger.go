// Package ledger implements the state transitions of the live current month.
// Every function is total and returns a new state; inputs are never modified.
package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/butce/internal/model"
)

// NewID returns a fresh identifier for a user-created entry.
func NewID() string {
	return uuid.NewString()
}

func ensureID(id string) string {
	if id == "" {
		return NewID()
	}
	return id
}

// SetIncome sets the month's cash income.
func SetIncome(s model.BudgetState, v decimal.Decimal) model.BudgetState {
	out := s.Clone()
	out.Income = v
	return out
}

// SetRollover sets the cash carried into the month.
func SetRollover(s model.BudgetState, v decimal.Decimal) model.BudgetState {
	out := s.Clone()
	out.Rollover = v
	return out
}

// SetYKIncome sets the month's meal-card income.
func SetYKIncome(s model.BudgetState, v decimal.Decimal) model.BudgetState {
	out := s.Clone()
	out.YKIncome = v
	return out
}

// SetYKRollover sets the meal-card balance carried into the month.
func SetYKRollover(s model.BudgetState, v decimal.Decimal) model.BudgetState {
	out := s.Clone()
	out.YKRollover = v
	return out
}

// AddFixedExpense appends an unpaid bill. The amount is stored as an outflow.
func AddFixedExpense(s model.BudgetState, f model.FixedExpense) model.BudgetState {
	out := s.Clone()
	out.FixedExpenses = append(out.FixedExpenses, NormalizeFixed(f))
	return out
}

// UpdateFixedExpense replaces the bill with the same ID.
func UpdateFixedExpense(s model.BudgetState, f model.FixedExpense) model.BudgetState {
	out := s.Clone()
	out.FixedExpenses = ReplaceFixed(out.FixedExpenses, NormalizeFixed(f))
	return out
}

// DeleteFixedExpense removes the bill with the given ID.
func DeleteFixedExpense(s model.BudgetState, id string) model.BudgetState {
	out := s.Clone()
	out.FixedExpenses = filter(out.FixedExpenses, func(f model.FixedExpense) bool { return f.ID != id })
	return out
}

// ToggleFixedExpense flips the paid flag of the bill with the given ID.
func ToggleFixedExpense(s model.BudgetState, id string) model.BudgetState {
	out := s.Clone()
	out.FixedExpenses = ToggleFixed(out.FixedExpenses, id)
	return out
}

// ResetPaid marks every bill unpaid.
func ResetPaid(s model.BudgetState) model.BudgetState {
	out := s.Clone()
	out.FixedExpenses = Unpaid(out.FixedExpenses)
	return out
}

// AddDailyExpense appends a wallet transaction. Amounts keep their sign.
func AddDailyExpense(s model.BudgetState, d model.DailyExpense) model.BudgetState {
	out := s.Clone()
	out.DailyExpenses = append(out.DailyExpenses, normalizeDaily(d))
	return out
}

// UpdateDailyExpense replaces the transaction with the same ID.
func UpdateDailyExpense(s model.BudgetState, d model.DailyExpense) model.BudgetState {
	out := s.Clone()
	d = normalizeDaily(d)
	for i := range out.DailyExpenses {
		if out.DailyExpenses[i].ID == d.ID {
			out.DailyExpenses[i] = d
		}
	}
	return out
}

// DeleteDailyExpense removes the transaction with the given ID.
func DeleteDailyExpense(s model.BudgetState, id string) model.BudgetState {
	out := s.Clone()
	out.DailyExpenses = filter(out.DailyExpenses, func(d model.DailyExpense) bool { return d.ID != id })
	return out
}

// AddCCDebt appends a statement line. Charges are negative, payments positive.
func AddCCDebt(s model.BudgetState, d model.CCDebt) model.BudgetState {
	out := s.Clone()
	d.ID = ensureID(d.ID)
	out.CCDebts = append(out.CCDebts, d)
	return out
}

// UpdateCCDebt replaces the statement line with the same ID.
func UpdateCCDebt(s model.BudgetState, d model.CCDebt) model.BudgetState {
	out := s.Clone()
	out.CCDebts = ReplaceDebt(out.CCDebts, d)
	return out
}

// DeleteCCDebt removes the statement line with the given ID.
func DeleteCCDebt(s model.BudgetState, id string) model.BudgetState {
	out := s.Clone()
	out.CCDebts = filter(out.CCDebts, func(d model.CCDebt) bool { return d.ID != id })
	return out
}

// AddInstallment registers a plan and bills its first instalment this month.
func AddInstallment(s model.BudgetState, in model.Installment) model.BudgetState {
	in = NormalizeInstallment(in)
	out := s.Clone()
	out.Installments = append(out.Installments, in)
	if in.InstallmentCount > 0 {
		out.CCDebts = append(out.CCDebts, in.LineFor(1, LineID(in.ID, s.CurrentMonth), in.AmountFor(1)))
	}
	return out
}

// DeleteInstallment drops a plan together with its lines on the live
// statement and any planning overrides for it. Archived lines stay.
func DeleteInstallment(s model.BudgetState, id string) model.BudgetState {
	out := s.Clone()
	out.Installments = filter(out.Installments, func(in model.Installment) bool { return in.ID != id })
	out.CCDebts = filter(out.CCDebts, func(d model.CCDebt) bool { return d.InstallmentID != id })
	for m, f := range out.FutureData {
		if _, ok := f.InstallmentOverrides[id]; ok {
			delete(f.InstallmentOverrides, id)
			out.FutureData[m] = f
		}
	}
	return out
}

// NormalizeFixed assigns an ID and stores the amount as an outflow.
func NormalizeFixed(f model.FixedExpense) model.FixedExpense {
	f.ID = ensureID(f.ID)
	f.Amount = model.Outflow(f.Amount)
	return f
}

// NormalizeInstallment fills derived amounts and resets the countdown.
// A monthly amount derived from the total is rounded to cents; the
// remainder lands on the last installment.
func NormalizeInstallment(in model.Installment) model.Installment {
	in.ID = ensureID(in.ID)
	in.TotalAmount = model.Outflow(in.TotalAmount)
	in.MonthlyAmount = model.Outflow(in.MonthlyAmount)
	if in.InstallmentCount < 0 {
		in.InstallmentCount = 0
	}
	if in.InstallmentCount > 0 {
		count := decimal.NewFromInt(int64(in.InstallmentCount))
		switch {
		case in.MonthlyAmount.IsZero():
			in.MonthlyAmount = in.TotalAmount.DivRound(count, 2)
		case in.TotalAmount.IsZero():
			in.TotalAmount = in.MonthlyAmount.Mul(count)
		}
	}
	in.RemainingInstallments = in.InstallmentCount
	return in
}

func normalizeDaily(d model.DailyExpense) model.DailyExpense {
	d.ID = ensureID(d.ID)
	if d.Type != model.MealCard {
		d.Type = model.Cash
	}
	return d
}

// ReplaceFixed returns list with the entry matching f.ID replaced by f.
func ReplaceFixed(list []model.FixedExpense, f model.FixedExpense) []model.FixedExpense {
	out := make([]model.FixedExpense, len(list))
	for i, e := range list {
		if e.ID == f.ID {
			e = f
		}
		out[i] = e
	}
	return out
}

// ToggleFixed returns list with the paid flag of id flipped.
func ToggleFixed(list []model.FixedExpense, id string) []model.FixedExpense {
	out := make([]model.FixedExpense, len(list))
	for i, e := range list {
		if e.ID == id {
			e.IsPaid = !e.IsPaid
		}
		out[i] = e
	}
	return out
}

// Unpaid returns list with every paid flag cleared.
func Unpaid(list []model.FixedExpense) []model.FixedExpense {
	out := make([]model.FixedExpense, len(list))
	for i, e := range list {
		e.IsPaid = false
		out[i] = e
	}
	return out
}

// ReplaceDebt returns list with the entry matching d.ID replaced by d.
func ReplaceDebt(list []model.CCDebt, d model.CCDebt) []model.CCDebt {
	out := make([]model.CCDebt, len(list))
	for i, e := range list {
		if e.ID == d.ID {
			e = d
		}
		out[i] = e
	}
	return out
}

func filter[T any](in []T, keep func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
