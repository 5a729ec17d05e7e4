package model

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/butce/internal/month"
)

// MonthSummary holds the derived totals for one month view.
// Expense totals are absolute values.
type MonthSummary struct {
	Month month.Month `json:"month"`

	Income     decimal.Decimal `json:"income"`
	Rollover   decimal.Decimal `json:"rollover"`
	YKIncome   decimal.Decimal `json:"yk_income"`
	YKRollover decimal.Decimal `json:"yk_rollover"`

	FixedTotal  decimal.Decimal `json:"fixed_total"`
	FixedPaid   decimal.Decimal `json:"fixed_paid"`
	FixedUnpaid decimal.Decimal `json:"fixed_unpaid"`
	FixedCount  int             `json:"fixed_count"`
	PaidCount   int             `json:"paid_count"`

	CashIn  decimal.Decimal `json:"cash_in"`
	CashOut decimal.Decimal `json:"cash_out"`
	YKIn    decimal.Decimal `json:"yk_in"`
	YKOut   decimal.Decimal `json:"yk_out"`

	CardTotal     decimal.Decimal `json:"card_total"`
	CardCharges   decimal.Decimal `json:"card_charges"`
	CardPayments  decimal.Decimal `json:"card_payments"`
	RemainingCash decimal.Decimal `json:"remaining_cash"`
	RemainingYK   decimal.Decimal `json:"remaining_yk"`
}

// PaidPercent returns the share of fixed expenses already paid, by amount.
func (s MonthSummary) PaidPercent() float64 {
	if s.FixedTotal.IsZero() {
		return 0
	}
	return s.FixedPaid.Div(s.FixedTotal).InexactFloat64()
}
