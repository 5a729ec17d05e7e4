// Package model defines the persisted ledger types and derived summaries.
package model

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/butce/internal/month"
)

// SchemaVersion is the version written by this build.
const SchemaVersion = 6

// StorageKey names the slot the ledger blob is persisted under.
const StorageKey = "budget_app_data"

// CardCarryTitle is the title of the fixed expense that carries last
// month's credit-card statement into the current month.
const CardCarryTitle = "Kredi Kartı Borcu (Geçen Ay)"

func init() {
	// Persisted blobs carry plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// BudgetState is the root of the persisted ledger.
type BudgetState struct {
	Version       int                             `json:"version"`
	CurrentMonth  month.Month                     `json:"currentMonth"`
	Income        decimal.Decimal                 `json:"income"`
	Rollover      decimal.Decimal                 `json:"rollover"`
	YKIncome      decimal.Decimal                 `json:"ykIncome"`
	YKRollover    decimal.Decimal                 `json:"ykRollover"`
	FixedExpenses []FixedExpense                  `json:"fixedExpenses"`
	DailyExpenses []DailyExpense                  `json:"dailyExpenses"`
	CCDebts       []CCDebt                        `json:"ccDebts"`
	Installments  []Installment                   `json:"installments"`
	History       []MonthlyHistory                `json:"history"`
	FutureData    map[month.Month]FutureMonthData `json:"futureData"`
}

// MonthlyHistory is the archived snapshot of a month that has been rolled over.
// Entries are never mutated after creation.
type MonthlyHistory struct {
	Month         month.Month     `json:"month"`
	Income        decimal.Decimal `json:"income"`
	Rollover      decimal.Decimal `json:"rollover"`
	YKIncome      decimal.Decimal `json:"ykIncome"`
	YKRollover    decimal.Decimal `json:"ykRollover"`
	FixedExpenses []FixedExpense  `json:"fixedExpenses"`
	DailyExpenses []DailyExpense  `json:"dailyExpenses"`
	CCDebts       []CCDebt        `json:"ccDebts"`
}

// FutureMonthData holds sparse planning overrides for one future month.
// A nil field means "derive from the current month".
type FutureMonthData struct {
	Income   *decimal.Decimal `json:"income,omitempty"`
	YKIncome *decimal.Decimal `json:"ykIncome,omitempty"`
	// FixedExpenses replaces the template when non-nil, even if empty.
	// It never contains the synthesized card carry line.
	FixedExpenses        []FixedExpense             `json:"fixedExpenses"`
	CCDebts              []CCDebt                   `json:"ccDebts,omitempty"`
	InstallmentOverrides map[string]decimal.Decimal `json:"installmentOverrides,omitempty"`
	CCDebtAdjustment     *decimal.Decimal           `json:"ccDebtAdjustment,omitempty"`
}

// IsEmpty reports whether the bucket carries no override at all.
func (f FutureMonthData) IsEmpty() bool {
	return f.Income == nil && f.YKIncome == nil && f.FixedExpenses == nil &&
		len(f.CCDebts) == 0 && len(f.InstallmentOverrides) == 0 &&
		(f.CCDebtAdjustment == nil || f.CCDebtAdjustment.IsZero())
}

// Empty returns a fresh ledger whose current month is m.
func Empty(m month.Month) BudgetState {
	return BudgetState{
		Version:       SchemaVersion,
		CurrentMonth:  m,
		FixedExpenses: []FixedExpense{},
		DailyExpenses: []DailyExpense{},
		CCDebts:       []CCDebt{},
		Installments:  []Installment{},
		History:       []MonthlyHistory{},
		FutureData:    map[month.Month]FutureMonthData{},
	}
}

// Archive returns the history snapshot of the state's current month.
func (s BudgetState) Archive() MonthlyHistory {
	return MonthlyHistory{
		Month:         s.CurrentMonth,
		Income:        s.Income,
		Rollover:      s.Rollover,
		YKIncome:      s.YKIncome,
		YKRollover:    s.YKRollover,
		FixedExpenses: cloneSlice(s.FixedExpenses),
		DailyExpenses: cloneSlice(s.DailyExpenses),
		CCDebts:       cloneSlice(s.CCDebts),
	}
}

// FindHistory returns the archived entry for m.
func (s BudgetState) FindHistory(m month.Month) (MonthlyHistory, bool) {
	for _, h := range s.History {
		if h.Month == m {
			return h, true
		}
	}
	return MonthlyHistory{}, false
}
