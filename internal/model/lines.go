package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseType says which wallet a daily entry hits.
type ExpenseType string

// Wallets.
const (
	Cash     ExpenseType = "NAKIT"
	MealCard ExpenseType = "YK"
)

// FixedExpense is a recurring monthly bill. Amount is always <= 0.
type FixedExpense struct {
	ID     string          `json:"id"`
	Title  string          `json:"title"`
	Amount decimal.Decimal `json:"amount"`
	IsPaid bool            `json:"isPaid"`
}

// IsCardCarry reports whether the line is the carried credit-card statement.
func (f FixedExpense) IsCardCarry() bool {
	return f.Title == CardCarryTitle
}

// DailyExpense is a dated wallet transaction: positive is income, negative is a spend.
type DailyExpense struct {
	ID          string          `json:"id"`
	Date        Day             `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        ExpenseType     `json:"type"`
}

// CCDebt is one line of the month's credit-card statement:
// negative is a charge, positive is a payment.
type CCDebt struct {
	ID                 string          `json:"id"`
	Description        string          `json:"description"`
	Amount             decimal.Decimal `json:"amount"`
	InstallmentID      string          `json:"installmentId,omitempty"`
	CurrentInstallment int             `json:"currentInstallment,omitempty"`
	TotalInstallments  int             `json:"totalInstallments,omitempty"`
}

// Installment is a multi-month card charge plan. Amounts are always <= 0.
type Installment struct {
	ID                    string          `json:"id"`
	Description           string          `json:"description"`
	TotalAmount           decimal.Decimal `json:"totalAmount"`
	InstallmentCount      int             `json:"installmentCount"`
	RemainingInstallments int             `json:"remainingInstallments"`
	MonthlyAmount         decimal.Decimal `json:"monthlyAmount"`
	StartDate             Day             `json:"startDate"`
}

// AmountFor is the charge for installment n. When MonthlyAmount was
// rounded from TotalAmount, the last installment carries the leftover
// cents so the lines sum to TotalAmount.
func (in Installment) AmountFor(n int) decimal.Decimal {
	if n != in.InstallmentCount || n <= 1 || in.TotalAmount.IsZero() {
		return in.MonthlyAmount
	}
	count := decimal.NewFromInt(int64(n))
	rest := in.TotalAmount.Sub(in.MonthlyAmount.Mul(count))
	if rest.Abs().GreaterThanOrEqual(centsPer.Mul(count)) {
		return in.MonthlyAmount
	}
	return in.MonthlyAmount.Add(rest)
}

var centsPer = decimal.New(1, -2)

// LineFor builds the statement line for the given installment number.
func (in Installment) LineFor(n int, id string, amount decimal.Decimal) CCDebt {
	return CCDebt{
		ID:                 id,
		Description:        fmt.Sprintf("%s (%d/%d)", in.Description, n, in.InstallmentCount),
		Amount:             amount,
		InstallmentID:      in.ID,
		CurrentInstallment: n,
		TotalInstallments:  in.InstallmentCount,
	}
}

// Outflow normalizes d to a non-positive amount.
func Outflow(d decimal.Decimal) decimal.Decimal {
	return d.Abs().Neg()
}

// Inflow normalizes d to a non-negative amount.
func Inflow(d decimal.Decimal) decimal.Decimal {
	return d.Abs()
}

// Day is a calendar date. It decodes both plain dates and full timestamps,
// and encodes as YYYY-MM-DD.
type Day struct {
	time.Time
}

const dayLayout = "2006-01-02"

// NewDay truncates t to its calendar date.
func NewDay(t time.Time) Day {
	return Day{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDay reads YYYY-MM-DD or an RFC 3339 timestamp.
func ParseDay(s string) (Day, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Day{}, nil
	}
	if t, err := time.Parse(dayLayout, s); err == nil {
		return Day{t}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Day{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return NewDay(t), nil
}

func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dayLayout)
}

// MarshalJSON encodes the date as YYYY-MM-DD.
func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a date string, a timestamp string, or null.
func (d *Day) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Day{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("decoding date: %w", err)
	}
	v, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}
