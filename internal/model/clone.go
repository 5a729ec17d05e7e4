package model

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/butce/internal/month"
)

// Clone returns a copy of s that shares no mutable backing storage with it.
// History entries are immutable and shared.
func (s BudgetState) Clone() BudgetState {
	out := s
	out.FixedExpenses = cloneSlice(s.FixedExpenses)
	out.DailyExpenses = cloneSlice(s.DailyExpenses)
	out.CCDebts = cloneSlice(s.CCDebts)
	out.Installments = cloneSlice(s.Installments)
	out.History = cloneSlice(s.History)
	out.FutureData = make(map[month.Month]FutureMonthData, len(s.FutureData))
	for m, f := range s.FutureData {
		out.FutureData[m] = f.Clone()
	}
	return out
}

// Clone returns a deep copy of the override bucket.
func (f FutureMonthData) Clone() FutureMonthData {
	out := FutureMonthData{
		Income:           clonePtr(f.Income),
		YKIncome:         clonePtr(f.YKIncome),
		CCDebtAdjustment: clonePtr(f.CCDebtAdjustment),
		CCDebts:          cloneSlice(f.CCDebts),
	}
	out.FixedExpenses = cloneSlice(f.FixedExpenses)
	if f.InstallmentOverrides != nil {
		out.InstallmentOverrides = make(map[string]decimal.Decimal, len(f.InstallmentOverrides))
		for k, v := range f.InstallmentOverrides {
			out.InstallmentOverrides[k] = v
		}
	}
	return out
}

// cloneSlice copies a slice. nil stays nil.
func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func clonePtr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
