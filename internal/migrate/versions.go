package migrate

import "github.com/shopspring/decimal"

// Persisted shapes, one per historical schema version. Later versions embed
// earlier ones where the layout only grew; versions whose layout did not
// change but whose meaning did are distinct named types.

type fixedV0 struct {
	ID     string          `json:"id"`
	Title  string          `json:"title"`
	Amount decimal.Decimal `json:"amount"`
	IsPaid bool            `json:"isPaid"`
}

type dailyV0 struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
}

type debtV0 struct {
	ID                 string          `json:"id"`
	Description        string          `json:"description"`
	Amount             decimal.Decimal `json:"amount"`
	InstallmentID      string          `json:"installmentId,omitempty"`
	CurrentInstallment int             `json:"currentInstallment,omitempty"`
	TotalInstallments  int             `json:"totalInstallments,omitempty"`
}

// snapshotV0 predates versioning: daily entries were spends only.
type snapshotV0 struct {
	Income        decimal.Decimal `json:"income"`
	Rollover      decimal.Decimal `json:"rollover"`
	YKIncome      decimal.Decimal `json:"ykIncome"`
	YKRollover    decimal.Decimal `json:"ykRollover"`
	FixedExpenses []fixedV0       `json:"fixedExpenses"`
	DailyExpenses []dailyV0       `json:"dailyExpenses"`
	CCDebts       []debtV0        `json:"ccDebts"`
}

// snapshotV1 adds the version tag and signed daily entries.
type snapshotV1 struct {
	Version int `json:"version"`
	snapshotV0
}

type installmentV2 struct {
	ID                    string          `json:"id"`
	Description           string          `json:"description"`
	TotalAmount           decimal.Decimal `json:"totalAmount"`
	InstallmentCount      int             `json:"installmentCount"`
	RemainingInstallments int             `json:"remainingInstallments"`
	MonthlyAmount         decimal.Decimal `json:"monthlyAmount"`
	StartDate             string          `json:"startDate"`
}

type historyV2 struct {
	Month         string          `json:"month"`
	Income        decimal.Decimal `json:"income"`
	Rollover      decimal.Decimal `json:"rollover"`
	YKIncome      decimal.Decimal `json:"ykIncome"`
	YKRollover    decimal.Decimal `json:"ykRollover"`
	FixedExpenses []fixedV0       `json:"fixedExpenses"`
	DailyExpenses []dailyV0       `json:"dailyExpenses"`
	CCDebts       []debtV0        `json:"ccDebts"`
}

// snapshotV2 adds the month pointer, installment plans and the archive.
type snapshotV2 struct {
	snapshotV1
	CurrentMonth string          `json:"currentMonth"`
	Installments []installmentV2 `json:"installments"`
	History      []historyV2     `json:"history"`
}

// snapshotV3 stores card charges and installment amounts as negatives.
type snapshotV3 snapshotV2

type futureV4 struct {
	Income               *decimal.Decimal           `json:"income,omitempty"`
	YKIncome             *decimal.Decimal           `json:"ykIncome,omitempty"`
	FixedExpenses        []fixedV0                  `json:"fixedExpenses"`
	CCDebts              []debtV0                   `json:"ccDebts,omitempty"`
	InstallmentOverrides map[string]decimal.Decimal `json:"installmentOverrides,omitempty"`
	CCDebtAdjustment     *decimal.Decimal           `json:"ccDebtAdjustment,omitempty"`
}

// snapshotV4 adds per-month planning overrides.
type snapshotV4 struct {
	snapshotV3
	FutureData map[string]futureV4 `json:"futureData"`
}

// snapshotV5 holds at most one card carry line.
type snapshotV5 snapshotV4

// snapshotV6 stores every fixed expense as a negative amount.
type snapshotV6 snapshotV5
