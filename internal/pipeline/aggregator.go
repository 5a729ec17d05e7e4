package pipeline

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/butce/internal/ledger"
	"github.com/theirongolddev/butce/internal/model"
	"github.com/theirongolddev/butce/internal/month"
	"github.com/theirongolddev/butce/internal/projection"
)

// MonthRow is one month of a series: its view kind and derived totals.
type MonthRow struct {
	Kind    projection.Kind
	Summary model.MonthSummary
}

// Summarize derives the totals of the view of m.
func Summarize(s model.BudgetState, m month.Month) MonthRow {
	v := projection.Project(s, m)
	return MonthRow{Kind: v.Kind, Summary: ledger.Summarize(v.State)}
}

// Series summarizes n consecutive months starting at from.
func Series(s model.BudgetState, from month.Month, n int) []MonthRow {
	months := month.Range(from, n)
	rows := make([]MonthRow, 0, len(months))
	for _, m := range months {
		rows = append(rows, Summarize(s, m))
	}
	return rows
}

// HistoryRows summarizes every archived month, newest first.
func HistoryRows(s model.BudgetState) []MonthRow {
	rows := make([]MonthRow, 0, len(s.History))
	for _, h := range s.History {
		rows = append(rows, Summarize(s, h.Month))
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Summary.Month.After(rows[j].Summary.Month)
	})
	return rows
}

// Totals folds a series of months.
type Totals struct {
	Income     decimal.Decimal
	Fixed      decimal.Decimal
	Card       decimal.Decimal
	EndingCash decimal.Decimal
}

// Total folds a series into income, bills and card totals, with the
// remaining cash of its last month.
func Total(rows []MonthRow) Totals {
	t := Totals{Income: decimal.Zero, Fixed: decimal.Zero, Card: decimal.Zero, EndingCash: decimal.Zero}
	for _, r := range rows {
		t.Income = t.Income.Add(r.Summary.Income)
		t.Fixed = t.Fixed.Add(r.Summary.FixedTotal)
		t.Card = t.Card.Add(r.Summary.CardTotal)
	}
	if len(rows) > 0 {
		t.EndingCash = rows[len(rows)-1].Summary.RemainingCash
	}
	return t
}
