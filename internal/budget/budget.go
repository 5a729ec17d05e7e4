// Package budget is the engine's call surface: load and save, projection,
// rollover, and mutations routed by the month being viewed. Edits to the
// live month change the ledger; edits to a future month become planning
// overrides; past months are read-only.
package budget

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/butce/internal/ledger"
	"github.com/theirongolddev/butce/internal/migrate"
	"github.com/theirongolddev/butce/internal/model"
	"github.com/theirongolddev/butce/internal/month"
	"github.com/theirongolddev/butce/internal/projection"
)

var (
	// ErrHistoryReadOnly is returned for edits to an archived month.
	ErrHistoryReadOnly = errors.New("budget: past months are read-only")
	// ErrNotPlannable is returned for edits that only the live month accepts.
	ErrNotPlannable = errors.New("budget: only the current month accepts this change")
)

// Load upgrades a persisted blob; it never fails.
func Load(blob []byte, now month.Month) model.BudgetState { return migrate.Load(blob, now) }

// Save serializes the ledger.
func Save(s model.BudgetState) ([]byte, error) { return migrate.Save(s) }

// Project derives the view of m.
func Project(s model.BudgetState, m month.Month) projection.View { return projection.Project(s, m) }

// CheckAndRollover advances the ledger to the wall-clock month if needed.
func CheckAndRollover(s model.BudgetState, wall month.Month) (model.BudgetState, bool) {
	return ledger.CheckAndRollover(s, wall)
}

type regime int

const (
	live regime = iota
	planned
)

func route(s model.BudgetState, view month.Month) (regime, error) {
	switch {
	case view == s.CurrentMonth:
		return live, nil
	case view.After(s.CurrentMonth):
		return planned, nil
	default:
		return 0, fmt.Errorf("editing %s: %w", view, ErrHistoryReadOnly)
	}
}

// liveOnly runs fn when view is the live month.
func liveOnly(s model.BudgetState, view month.Month, what string, fn func(model.BudgetState) model.BudgetState) (model.BudgetState, error) {
	r, err := route(s, view)
	if err != nil {
		return s, err
	}
	if r == planned {
		return s, fmt.Errorf("%s in %s: %w", what, view, ErrNotPlannable)
	}
	return fn(s), nil
}

// SetIncome sets cash income for the viewed month.
func SetIncome(s model.BudgetState, view month.Month, v decimal.Decimal) (model.BudgetState, error) {
	r, err := route(s, view)
	if err != nil {
		return s, err
	}
	if r == planned {
		return projection.PlanIncome(s, view, v)
	}
	return ledger.SetIncome(s, v), nil
}

// SetYKIncome sets meal-card income for the viewed month.
func SetYKIncome(s model.BudgetState, view month.Month, v decimal.Decimal) (model.BudgetState, error) {
	r, err := route(s, view)
	if err != nil {
		return s, err
	}
	if r == planned {
		return projection.PlanYKIncome(s, view, v)
	}
	return ledger.SetYKIncome(s, v), nil
}

// SetRollover sets the live month's carried cash.
func SetRollover(s model.BudgetState, view month.Month, v decimal.Decimal) (model.BudgetState, error) {
	return liveOnly(s, view, "setting rollover", func(s model.BudgetState) model.BudgetState {
		return ledger.SetRollover(s, v)
	})
}

// SetYKRollover sets the live month's carried meal-card balance.
func SetYKRollover(s model.BudgetState, view month.Month, v decimal.Decimal) (model.BudgetState, error) {
	return liveOnly(s, view, "setting meal-card rollover", func(s model.BudgetState) model.BudgetState {
		return ledger.SetYKRollover(s, v)
	})
}

// AddFixedExpense adds a bill to the viewed month.
func AddFixedExpense(s model.BudgetState, view month.Month, f model.FixedExpense) (model.BudgetState, error) {
	r, err := route(s, view)
	if err != nil {
		return s, err
	}
	if r == planned {
		return projection.PlanAddFixed(s, view, f)
	}
	return ledger.AddFixedExpense(s, f), nil
}

// UpdateFixedExpense edits a bill of the viewed month.
func UpdateFixedExpense(s model.BudgetState, view month.Month, f model.FixedExpense) (model.BudgetState, error) {
	r, err := route(s, view)
	if err != nil {
		return s, err
	}
	if r == planned {
		return projection.PlanUpdateFixed(s, view, f)
	}
	return ledger.UpdateFixedExpense(s, f), nil
}

// DeleteFixedExpense removes a bill from the viewed month.
func DeleteFixedExpense(s model.BudgetState, view month.Month, id string) (model.BudgetState, error) {
	r, err := route(s, view)
	if err != nil {
		return s, err
	}
	if r == planned {
		return projection.PlanDeleteFixed(s, view, id)
	}
	return ledger.DeleteFixedExpense(s, id), nil
}

// ToggleFixedExpense flips a bill's paid flag in the viewed month.
func ToggleFixedExpense(s model.BudgetState, view month.Month, id string) (model.BudgetState, error) {
	r, err := route(s, view)
	if err != nil {
		return s, err
	}
	if r == planned {
		return projection.PlanToggleFixed(s, view, id)
	}
	return ledger.ToggleFixedExpense(s, id), nil
}

// ResetPaid marks every bill of the viewed month unpaid.
func ResetPaid(s model.BudgetState, view month.Month) (model.BudgetState, error) {
	r, err := route(s, view)
	if err != nil {
		return s, err
	}
	if r == planned {
		return projection.PlanResetPaid(s, view)
	}
	return ledger.ResetPaid(s), nil
}

// AddDailyExpense records a wallet transaction in the live month.
func AddDailyExpense(s model.BudgetState, view month.Month, d model.DailyExpense) (model.BudgetState, error) {
	return liveOnly(s, view, "adding a daily entry", func(s model.BudgetState) model.BudgetState {
		return ledger.AddDailyExpense(s, d)
	})
}

// UpdateDailyExpense edits a wallet transaction of the live month.
func UpdateDailyExpense(s model.BudgetState, view month.Month, d model.DailyExpense) (model.BudgetState, error) {
	return liveOnly(s, view, "editing a daily entry", func(s model.BudgetState) model.BudgetState {
		return ledger.UpdateDailyExpense(s, d)
	})
}

// DeleteDailyExpense removes a wallet transaction from the live month.
func DeleteDailyExpense(s model.BudgetState, view month.Month, id string) (model.BudgetState, error) {
	return liveOnly(s, view, "deleting a daily entry", func(s model.BudgetState) model.BudgetState {
		return ledger.DeleteDailyExpense(s, id)
	})
}

// AddCCDebt adds a statement line to the viewed month.
func AddCCDebt(s model.BudgetState, view month.Month, d model.CCDebt) (model.BudgetState, error) {
	r, err := route(s, view)
	if err != nil {
		return s, err
	}
	if r == planned {
		return projection.PlanAddCCDebt(s, view, d)
	}
	return ledger.AddCCDebt(s, d), nil
}

// AddCCCharge adds a charge, stored negative whatever sign was entered.
func AddCCCharge(s model.BudgetState, view month.Month, d model.CCDebt) (model.BudgetState, error) {
	d.Amount = model.Outflow(d.Amount)
	return AddCCDebt(s, view, d)
}

// AddCCPayment adds a payment, stored positive whatever sign was entered.
func AddCCPayment(s model.BudgetState, view month.Month, d model.CCDebt) (model.BudgetState, error) {
	d.Amount = model.Inflow(d.Amount)
	return AddCCDebt(s, view, d)
}

// UpdateCCDebt edits a statement line of the viewed month.
func UpdateCCDebt(s model.BudgetState, view month.Month, d model.CCDebt) (model.BudgetState, error) {
	r, err := route(s, view)
	if err != nil {
		return s, err
	}
	if r == planned {
		return projection.PlanUpdateCCDebt(s, view, d)
	}
	return ledger.UpdateCCDebt(s, d), nil
}

// DeleteCCDebt removes a statement line from the viewed month.
func DeleteCCDebt(s model.BudgetState, view month.Month, id string) (model.BudgetState, error) {
	r, err := route(s, view)
	if err != nil {
		return s, err
	}
	if r == planned {
		return projection.PlanDeleteCCDebt(s, view, id)
	}
	return ledger.DeleteCCDebt(s, id), nil
}

// AddInstallment starts a plan in the live month.
func AddInstallment(s model.BudgetState, view month.Month, in model.Installment) (model.BudgetState, error) {
	return liveOnly(s, view, "adding an installment plan", func(s model.BudgetState) model.BudgetState {
		return ledger.AddInstallment(s, in)
	})
}

// DeleteInstallment drops a plan from the live month.
func DeleteInstallment(s model.BudgetState, view month.Month, id string) (model.BudgetState, error) {
	return liveOnly(s, view, "deleting an installment plan", func(s model.BudgetState) model.BudgetState {
		return ledger.DeleteInstallment(s, id)
	})
}
