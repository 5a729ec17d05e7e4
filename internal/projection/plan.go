package projection

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/butce/internal/ledger"
	"github.com/theirongolddev/butce/internal/model"
	"github.com/theirongolddev/butce/internal/month"
)

var (
	// ErrNotFuture is returned when a planning edit targets a month that is not after the live one.
	ErrNotFuture = errors.New("projection: month is not in the future")
	// ErrSynthesizedLine is returned for edits a derived line cannot take.
	ErrSynthesizedLine = errors.New("projection: line is derived and cannot be changed this way")
)

// Planning edits never touch the live month. They write into the override
// bucket of m, using the projected view of m as the base.

// PlanIncome overrides m's cash income.
func PlanIncome(s model.BudgetState, m month.Month, v decimal.Decimal) (model.BudgetState, error) {
	return edit(s, m, func(_ View, f *model.FutureMonthData) error {
		f.Income = &v
		return nil
	})
}

// PlanYKIncome overrides m's meal-card income.
func PlanYKIncome(s model.BudgetState, m month.Month, v decimal.Decimal) (model.BudgetState, error) {
	return edit(s, m, func(_ View, f *model.FutureMonthData) error {
		f.YKIncome = &v
		return nil
	})
}

// PlanAddFixed adds a bill to m only.
func PlanAddFixed(s model.BudgetState, m month.Month, e model.FixedExpense) (model.BudgetState, error) {
	return edit(s, m, func(v View, f *model.FutureMonthData) error {
		f.FixedExpenses = append(storedFixed(v, m), ledger.NormalizeFixed(e))
		return nil
	})
}

// PlanUpdateFixed edits a bill of m. Editing the card carry line stores the
// difference between the new amount and the carried statement as an
// adjustment, so later changes to earlier months still flow through.
func PlanUpdateFixed(s model.BudgetState, m month.Month, e model.FixedExpense) (model.BudgetState, error) {
	return edit(s, m, func(v View, f *model.FutureMonthData) error {
		if e.ID == ledger.CarryID(m) {
			setAdjustment(f, model.Outflow(e.Amount).Add(v.CardCarried))
			return nil
		}
		f.FixedExpenses = ledger.ReplaceFixed(storedFixed(v, m), ledger.NormalizeFixed(e))
		return nil
	})
}

// PlanDeleteFixed removes a bill from m. Deleting the card carry line
// cancels it through the adjustment.
func PlanDeleteFixed(s model.BudgetState, m month.Month, id string) (model.BudgetState, error) {
	return edit(s, m, func(v View, f *model.FutureMonthData) error {
		if id == ledger.CarryID(m) {
			setAdjustment(f, v.CardCarried)
			return nil
		}
		stored := storedFixed(v, m)
		out := make([]model.FixedExpense, 0, len(stored))
		for _, e := range stored {
			if e.ID != id {
				out = append(out, e)
			}
		}
		f.FixedExpenses = out
		return nil
	})
}

// PlanToggleFixed flips a bill's paid flag in m.
func PlanToggleFixed(s model.BudgetState, m month.Month, id string) (model.BudgetState, error) {
	return edit(s, m, func(v View, f *model.FutureMonthData) error {
		if id == ledger.CarryID(m) {
			return fmt.Errorf("toggling %s: %w", id, ErrSynthesizedLine)
		}
		f.FixedExpenses = ledger.ToggleFixed(storedFixed(v, m), id)
		return nil
	})
}

// PlanResetPaid marks every stored bill of m unpaid.
func PlanResetPaid(s model.BudgetState, m month.Month) (model.BudgetState, error) {
	return edit(s, m, func(v View, f *model.FutureMonthData) error {
		f.FixedExpenses = ledger.Unpaid(storedFixed(v, m))
		return nil
	})
}

// PlanAddCCDebt adds a one-off statement line to m.
func PlanAddCCDebt(s model.BudgetState, m month.Month, d model.CCDebt) (model.BudgetState, error) {
	return edit(s, m, func(_ View, f *model.FutureMonthData) error {
		if d.ID == "" {
			d.ID = ledger.NewID()
		}
		f.CCDebts = append(f.CCDebts, d)
		return nil
	})
}

// PlanUpdateCCDebt edits a statement line of m. A projected installment
// line records a per-month amount override for its plan.
func PlanUpdateCCDebt(s model.BudgetState, m month.Month, d model.CCDebt) (model.BudgetState, error) {
	return edit(s, m, func(v View, f *model.FutureMonthData) error {
		if id, ok := installmentLine(v, d.ID); ok {
			if f.InstallmentOverrides == nil {
				f.InstallmentOverrides = map[string]decimal.Decimal{}
			}
			f.InstallmentOverrides[id] = model.Outflow(d.Amount)
			return nil
		}
		f.CCDebts = ledger.ReplaceDebt(f.CCDebts, d)
		return nil
	})
}

// PlanDeleteCCDebt removes a one-off statement line from m.
func PlanDeleteCCDebt(s model.BudgetState, m month.Month, id string) (model.BudgetState, error) {
	return edit(s, m, func(v View, f *model.FutureMonthData) error {
		if _, ok := installmentLine(v, id); ok {
			return fmt.Errorf("deleting %s: %w", id, ErrSynthesizedLine)
		}
		out := make([]model.CCDebt, 0, len(f.CCDebts))
		for _, d := range f.CCDebts {
			if d.ID != id {
				out = append(out, d)
			}
		}
		f.CCDebts = out
		return nil
	})
}

// edit applies fn to a copy of m's bucket and stores it in a copy of s.
// Buckets left without any override are removed.
func edit(s model.BudgetState, m month.Month, fn func(View, *model.FutureMonthData) error) (model.BudgetState, error) {
	if !m.After(s.CurrentMonth) {
		return s, fmt.Errorf("planning %s with live month %s: %w", m, s.CurrentMonth, ErrNotFuture)
	}
	view := Project(s, m)
	out := s.Clone()
	bucket := out.FutureData[m]
	if err := fn(view, &bucket); err != nil {
		return s, err
	}
	if bucket.IsEmpty() {
		delete(out.FutureData, m)
	} else {
		out.FutureData[m] = bucket
	}
	return out, nil
}

// storedFixed is the displayed bill list of m minus the synthesized line.
func storedFixed(v View, m month.Month) []model.FixedExpense {
	out := make([]model.FixedExpense, 0, len(v.State.FixedExpenses))
	for _, f := range v.State.FixedExpenses {
		if f.ID == ledger.CarryID(m) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// setAdjustment stores the adjustment on top of the carried statement.
// The displayed line is always the carried total negated plus this value.
func setAdjustment(f *model.FutureMonthData, v decimal.Decimal) {
	if v.IsZero() {
		f.CCDebtAdjustment = nil
		return
	}
	f.CCDebtAdjustment = &v
}

// installmentLine resolves a projected installment line ID to its plan.
func installmentLine(v View, id string) (string, bool) {
	for _, d := range v.State.CCDebts {
		if d.ID == id && d.InstallmentID != "" {
			return d.InstallmentID, true
		}
	}
	return "", false
}
