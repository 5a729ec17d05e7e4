// Package projection derives read-only views of any month from the ledger:
// the live month as is, past months from the archive, and future months by
// simulating each intervening month with the user's planning overrides.
package projection

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/butce/internal/ledger"
	"github.com/theirongolddev/butce/internal/model"
	"github.com/theirongolddev/butce/internal/month"
)

// Kind says how a view was derived.
type Kind string

// View kinds.
const (
	Current   Kind = "current"
	History   Kind = "history"
	Projected Kind = "projected"
	// Gap is a past month with no archive entry. Its state is empty.
	Gap Kind = "gap"
)

// View is a month's numbers in ledger shape. State.CurrentMonth is the
// viewed month.
type View struct {
	Kind  Kind              `json:"kind"`
	Month month.Month       `json:"month"`
	State model.BudgetState `json:"state"`
	// Overrides is the planning bucket applied to a projected month.
	Overrides model.FutureMonthData `json:"overrides"`
	// Elapsed is the number of months between the live month and this one.
	Elapsed int `json:"elapsed"`
	// CardCarried is the previous month's simulated statement total, the
	// base of a projected month's card carry line.
	CardCarried decimal.Decimal `json:"cardCarried"`
}

// Editable reports whether edits to the view reach the ledger.
func (v View) Editable() bool {
	return v.Kind == Current || v.Kind == Projected
}

// Project derives the view of m. It never modifies s.
func Project(s model.BudgetState, m month.Month) View {
	switch {
	case m == s.CurrentMonth:
		return View{Kind: Current, Month: m, State: s}
	case m.Before(s.CurrentMonth):
		return archived(s, m)
	default:
		return simulate(s, m)
	}
}

func archived(s model.BudgetState, m month.Month) View {
	view := model.Empty(m)
	view.Version = s.Version
	h, ok := s.FindHistory(m)
	if !ok {
		return View{Kind: Gap, Month: m, State: view, Elapsed: month.Diff(s.CurrentMonth, m)}
	}
	view.Income = h.Income
	view.Rollover = h.Rollover
	view.YKIncome = h.YKIncome
	view.YKRollover = h.YKRollover
	view.FixedExpenses = append(view.FixedExpenses, h.FixedExpenses...)
	view.DailyExpenses = append(view.DailyExpenses, h.DailyExpenses...)
	view.CCDebts = append(view.CCDebts, h.CCDebts...)
	return View{Kind: History, Month: m, State: view, Elapsed: month.Diff(s.CurrentMonth, m)}
}

// simulate steps month by month from the live month's closing balances.
// A month's rollover is the running balance before its own income and bills.
func simulate(s model.BudgetState, target month.Month) View {
	template := Template(s.FixedExpenses)
	cash := ledger.RemainingCash(s)
	yk := ledger.RemainingYK(s)
	card := ledger.CardTotal(s.CCDebts)

	for m := s.CurrentMonth.Add(1); ; m = m.Add(1) {
		over := s.FutureData[m]
		income := pick(over.Income, s.Income)
		ykIncome := pick(over.YKIncome, s.YKIncome)
		fixed := fixedFor(template, over, m, card)
		debts := debtsFor(s, over, m)

		if m == target {
			view := model.Empty(m)
			view.Version = s.Version
			view.Income = income
			view.Rollover = cash
			view.YKIncome = ykIncome
			view.YKRollover = yk
			view.FixedExpenses = fixed
			view.CCDebts = debts
			view.Installments = installmentsAt(s, m)
			return View{
				Kind:        Projected,
				Month:       m,
				State:       view,
				Overrides:   over.Clone(),
				Elapsed:     month.Diff(s.CurrentMonth, m),
				CardCarried: card,
			}
		}

		cash = decimal.Max(cash.Add(income).Sub(ledger.FixedTotal(fixed)), decimal.Zero)
		yk = decimal.Max(yk.Add(ykIncome), decimal.Zero)
		card = ledger.CardTotal(debts)
	}
}

// Template is the bill list future months start from: the live list
// without the card carry line, all unpaid.
func Template(fixed []model.FixedExpense) []model.FixedExpense {
	out := make([]model.FixedExpense, 0, len(fixed))
	for _, f := range fixed {
		if f.IsCardCarry() {
			continue
		}
		f.IsPaid = false
		out = append(out, f)
	}
	return out
}

// baseFixed is the stored part of a future month's bills.
func baseFixed(template []model.FixedExpense, over model.FutureMonthData) []model.FixedExpense {
	src := template
	if over.FixedExpenses != nil {
		src = over.FixedExpenses
	}
	return append([]model.FixedExpense{}, src...)
}

// carryAmount is the synthesized card line for m: last month's statement
// plus the user's adjustment, as an outflow. Zero or positive means no line.
func carryAmount(over model.FutureMonthData, prevCard decimal.Decimal) decimal.Decimal {
	amount := prevCard.Neg()
	if over.CCDebtAdjustment != nil {
		amount = amount.Add(*over.CCDebtAdjustment)
	}
	return amount
}

func fixedFor(template []model.FixedExpense, over model.FutureMonthData, m month.Month, prevCard decimal.Decimal) []model.FixedExpense {
	fixed := baseFixed(template, over)
	if amount := carryAmount(over, prevCard); amount.IsNegative() {
		fixed = append(fixed, model.FixedExpense{
			ID:     ledger.CarryID(m),
			Title:  model.CardCarryTitle,
			Amount: amount,
		})
	}
	return fixed
}

func debtsFor(s model.BudgetState, over model.FutureMonthData, m month.Month) []model.CCDebt {
	elapsed := month.Diff(s.CurrentMonth, m)
	debts := []model.CCDebt{}
	for _, in := range s.Installments {
		left := in.RemainingInstallments - elapsed
		if left <= 0 {
			continue
		}
		n := in.InstallmentCount - left + 1
		amount := in.AmountFor(n)
		if v, ok := over.InstallmentOverrides[in.ID]; ok {
			amount = v
		}
		debts = append(debts, in.LineFor(n, ledger.LineID(in.ID, m), amount))
	}
	return append(debts, over.CCDebts...)
}

func installmentsAt(s model.BudgetState, m month.Month) []model.Installment {
	elapsed := month.Diff(s.CurrentMonth, m)
	out := []model.Installment{}
	for _, in := range s.Installments {
		in.RemainingInstallments -= elapsed
		if in.RemainingInstallments > 0 {
			out = append(out, in)
		}
	}
	return out
}

func pick(override *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if override != nil {
		return *override
	}
	return fallback
}
