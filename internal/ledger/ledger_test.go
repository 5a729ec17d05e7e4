package ledger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/butce/internal/model"
	"github.com/theirongolddev/butce/internal/month"
)

var jan = month.MustParse("2025-01")

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func amountEq(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	if !dec(want).Equal(got) {
		assert.Fail(t, "want "+want+", got "+got.String(), msgAndArgs...)
	}
}

func baseState() model.BudgetState {
	s := model.Empty(jan)
	s.Income = dec("10000")
	return s
}

func TestAddFixedExpense_StoresOutflow(t *testing.T) {
	s := AddFixedExpense(baseState(), model.FixedExpense{Title: "Kira", Amount: dec("3000")})

	require.Len(t, s.FixedExpenses, 1)
	f := s.FixedExpenses[0]
	assert.NotEmpty(t, f.ID)
	assert.False(t, f.IsPaid)
	amountEq(t, "-3000", f.Amount)
}

func TestFixedExpenseLifecycle(t *testing.T) {
	s := AddFixedExpense(baseState(), model.FixedExpense{ID: "f1", Title: "Kira", Amount: dec("-3000")})
	s = AddFixedExpense(s, model.FixedExpense{ID: "f2", Title: "Fatura", Amount: dec("-400")})

	s = ToggleFixedExpense(s, "f1")
	assert.True(t, s.FixedExpenses[0].IsPaid)
	assert.False(t, s.FixedExpenses[1].IsPaid)

	s = UpdateFixedExpense(s, model.FixedExpense{ID: "f2", Title: "Elektrik", Amount: dec("450")})
	assert.Equal(t, "Elektrik", s.FixedExpenses[1].Title)
	amountEq(t, "-450", s.FixedExpenses[1].Amount)

	s = ResetPaid(s)
	for _, f := range s.FixedExpenses {
		assert.False(t, f.IsPaid)
	}

	s = DeleteFixedExpense(s, "f1")
	require.Len(t, s.FixedExpenses, 1)
	assert.Equal(t, "f2", s.FixedExpenses[0].ID)
}

func TestMutationsDoNotTouchInput(t *testing.T) {
	before := AddFixedExpense(baseState(), model.FixedExpense{ID: "f1", Title: "Kira", Amount: dec("-3000")})
	snapshot := before.Clone()

	_ = ToggleFixedExpense(before, "f1")
	_ = UpdateFixedExpense(before, model.FixedExpense{ID: "f1", Title: "X", Amount: dec("-1")})
	_ = DeleteFixedExpense(before, "f1")
	_ = AddDailyExpense(before, model.DailyExpense{Amount: dec("-5")})
	_ = Rollover(before, jan.Add(1))

	assert.Equal(t, snapshot, before)
}

func TestDailyExpenses(t *testing.T) {
	s := AddDailyExpense(baseState(), model.DailyExpense{ID: "d1", Description: "Market", Amount: dec("-120")})
	s = AddDailyExpense(s, model.DailyExpense{ID: "d2", Description: "Yemek", Amount: dec("-40"), Type: model.MealCard})

	require.Len(t, s.DailyExpenses, 2)
	assert.Equal(t, model.Cash, s.DailyExpenses[0].Type, "wallet defaults to cash")

	s = UpdateDailyExpense(s, model.DailyExpense{ID: "d1", Description: "Ikramiye", Amount: dec("500"), Type: model.Cash})
	amountEq(t, "500", s.DailyExpenses[0].Amount)

	s = DeleteDailyExpense(s, "d2")
	require.Len(t, s.DailyExpenses, 1)
}

func TestCCDebts(t *testing.T) {
	s := AddCCDebt(baseState(), model.CCDebt{ID: "c1", Description: "Laptop", Amount: dec("-900")})
	s = AddCCDebt(s, model.CCDebt{Description: "Odeme", Amount: dec("400")})
	amountEq(t, "500", CardTotal(s.CCDebts))

	s = UpdateCCDebt(s, model.CCDebt{ID: "c1", Description: "Laptop", Amount: dec("-1000")})
	amountEq(t, "600", CardTotal(s.CCDebts))

	s = DeleteCCDebt(s, "c1")
	amountEq(t, "0", CardTotal(s.CCDebts), "overpaid statement owes nothing")
}

func TestAddInstallment_BillsFirstMonth(t *testing.T) {
	s := AddInstallment(baseState(), model.Installment{
		ID:               "tel",
		Description:      "Telefon",
		TotalAmount:      dec("-1200"),
		InstallmentCount: 6,
		MonthlyAmount:    dec("-200"),
	})

	require.Len(t, s.CCDebts, 1)
	line := s.CCDebts[0]
	assert.Equal(t, "Telefon (1/6)", line.Description)
	amountEq(t, "-200", line.Amount)
	assert.Equal(t, "tel", line.InstallmentID)
	assert.Equal(t, 1, line.CurrentInstallment)
	assert.Equal(t, 6, line.TotalInstallments)
	require.Len(t, s.Installments, 1)
	assert.Equal(t, 6, s.Installments[0].RemainingInstallments)

	s = Rollover(s, jan.Add(1))
	require.Len(t, s.CCDebts, 1)
	assert.Equal(t, "Telefon (2/6)", s.CCDebts[0].Description)
	amountEq(t, "-200", s.CCDebts[0].Amount)
	assert.Equal(t, 5, s.Installments[0].RemainingInstallments)
}

func TestNormalizeInstallment_DerivesAmounts(t *testing.T) {
	in := NormalizeInstallment(model.Installment{TotalAmount: dec("900"), InstallmentCount: 3})
	amountEq(t, "-300", in.MonthlyAmount)
	amountEq(t, "-900", in.TotalAmount)
	assert.Equal(t, 3, in.RemainingInstallments)

	in = NormalizeInstallment(model.Installment{MonthlyAmount: dec("-50"), InstallmentCount: 4})
	amountEq(t, "-200", in.TotalAmount)
}

func TestInstallmentLinesSumToTotal(t *testing.T) {
	s := AddInstallment(baseState(), model.Installment{ID: "pc", Description: "Bilgisayar", TotalAmount: dec("-1000"), InstallmentCount: 3})
	require.Len(t, s.Installments, 1)
	amountEq(t, "-333.33", s.Installments[0].MonthlyAmount)

	sum := decimal.Zero
	for i := 0; i < 3; i++ {
		require.Len(t, s.CCDebts, 1, "month %d", i+1)
		sum = sum.Add(s.CCDebts[0].Amount)
		s = Rollover(s, s.CurrentMonth.Add(1))
	}
	amountEq(t, "-1000", sum)
	assert.Empty(t, s.Installments)

	in := model.Installment{TotalAmount: dec("-1000"), MonthlyAmount: dec("-333.33"), InstallmentCount: 3}
	amountEq(t, "-333.33", in.AmountFor(2))
	amountEq(t, "-333.34", in.AmountFor(3))
}

func TestDeleteInstallment(t *testing.T) {
	s := AddInstallment(baseState(), model.Installment{ID: "i1", Description: "TV", InstallmentCount: 3, MonthlyAmount: dec("-100")})
	s = AddCCDebt(s, model.CCDebt{ID: "manual", Amount: dec("-10")})
	over := s.Clone()
	over.FutureData[jan.Add(2)] = model.FutureMonthData{InstallmentOverrides: map[string]decimal.Decimal{"i1": dec("-50")}}

	out := DeleteInstallment(over, "i1")

	assert.Empty(t, out.Installments)
	require.Len(t, out.CCDebts, 1)
	assert.Equal(t, "manual", out.CCDebts[0].ID)
	assert.Empty(t, out.FutureData[jan.Add(2)].InstallmentOverrides)
	assert.Len(t, over.FutureData[jan.Add(2)].InstallmentOverrides, 1, "input untouched")
}

func TestRollover_RentScenario(t *testing.T) {
	s := AddFixedExpense(baseState(), model.FixedExpense{Title: "Kira", Amount: dec("-3000")})

	next, rolled := CheckAndRollover(s, jan.Add(1))

	require.True(t, rolled)
	amountEq(t, "7000", next.Rollover)
	require.Len(t, next.FixedExpenses, 1)
	assert.False(t, next.FixedExpenses[0].IsPaid)
	require.Len(t, next.History, 1)
	assert.False(t, next.History[0].FixedExpenses[0].IsPaid)
	assert.Equal(t, jan, next.History[0].Month)
	assert.Equal(t, jan.Add(1), next.CurrentMonth)
}

func TestRollover_CarryScenario(t *testing.T) {
	s := model.Empty(jan)
	s.Income = dec("10000")
	s.YKIncome = dec("2000")
	s.FixedExpenses = []model.FixedExpense{{ID: "1", Title: "Rent", Amount: dec("-5000"), IsPaid: true}}
	s.DailyExpenses = []model.DailyExpense{
		{ID: "1", Description: "Food", Amount: dec("-500"), Type: model.Cash},
		{ID: "2", Description: "Lunch", Amount: dec("-200"), Type: model.MealCard},
	}
	s.CCDebts = []model.CCDebt{{ID: "1", Description: "Shopping", Amount: dec("-1500")}}

	next := Rollover(s, jan.Add(1))

	amountEq(t, "4500", next.Rollover)
	amountEq(t, "1800", next.YKRollover)
	amountEq(t, "10000", next.Income)
	amountEq(t, "2000", next.YKIncome)
	assert.Empty(t, next.DailyExpenses)
	assert.Empty(t, next.CCDebts)
	require.Len(t, next.FixedExpenses, 2)
	carry := next.FixedExpenses[1]
	assert.Equal(t, model.CardCarryTitle, carry.Title)
	amountEq(t, "-1500", carry.Amount)
	assert.Equal(t, CarryID(jan.Add(1)), carry.ID)

	// The carry line is regenerated, never accumulated.
	after := Rollover(next, jan.Add(2))
	var carries int
	for _, f := range after.FixedExpenses {
		if f.IsCardCarry() {
			carries++
		}
	}
	assert.Zero(t, carries, "empty statement carries nothing")
}

func TestRollover_FloorsAtZero(t *testing.T) {
	s := AddFixedExpense(baseState(), model.FixedExpense{Title: "Kira", Amount: dec("-12000")})
	next := Rollover(s, jan.Add(1))
	amountEq(t, "0", next.Rollover)
}

func TestCheckAndRollover_Idempotent(t *testing.T) {
	s := AddFixedExpense(baseState(), model.FixedExpense{Title: "Kira", Amount: dec("-3000")})
	s = AddInstallment(s, model.Installment{Description: "TV", InstallmentCount: 2, MonthlyAmount: dec("-100")})

	for _, wall := range []month.Month{jan.Add(-1), jan, jan.Add(1), jan.Add(4)} {
		once, _ := CheckAndRollover(s, wall)
		twice, rolled := CheckAndRollover(once, wall)
		assert.False(t, rolled, "wall %s", wall)
		assert.Equal(t, once, twice, "wall %s", wall)
	}

	same, rolled := CheckAndRollover(s, jan)
	assert.False(t, rolled)
	assert.Equal(t, s, same)
}

func TestRollover_Conservation(t *testing.T) {
	s := AddFixedExpense(baseState(), model.FixedExpense{ID: "f", Title: "Kira", Amount: dec("-3000")})
	s = ToggleFixedExpense(s, "f")
	s = AddDailyExpense(s, model.DailyExpense{Amount: dec("-10")})
	s = AddCCDebt(s, model.CCDebt{Amount: dec("-99")})

	next := Rollover(s, jan.Add(1))

	require.Len(t, next.History, len(s.History)+1)
	assert.Equal(t, s.Archive(), next.History[len(next.History)-1])
	assert.Empty(t, next.DailyExpenses)
	for _, f := range next.FixedExpenses {
		assert.False(t, f.IsPaid)
	}
}

func TestInstallmentDecay(t *testing.T) {
	const n = 4
	s := AddInstallment(baseState(), model.Installment{ID: "p", Description: "Buzdolabi", InstallmentCount: n, MonthlyAmount: dec("-250")})

	emitted := map[string]bool{}
	collect := func(st model.BudgetState) {
		for _, d := range st.CCDebts {
			if d.InstallmentID == "p" {
				emitted[d.Description] = true
			}
		}
	}
	collect(s)
	for i := 1; i <= n; i++ {
		s = Rollover(s, jan.Add(i))
		collect(s)
		if i < n {
			require.Len(t, s.Installments, 1, "after %d rollovers", i)
			assert.Equal(t, n-i, s.Installments[0].RemainingInstallments)
		}
	}

	assert.Empty(t, s.Installments)
	assert.Len(t, emitted, n)
	for i := 1; i <= n; i++ {
		assert.True(t, emitted["Buzdolabi ("+string(rune('0'+i))+"/4)"], "line %d", i)
	}
	assert.Len(t, s.History, n)
}

func TestRollover_PrunesPastOverrides(t *testing.T) {
	s := baseState()
	inc := dec("1")
	s.FutureData[jan.Add(1)] = model.FutureMonthData{Income: &inc}
	s.FutureData[jan.Add(3)] = model.FutureMonthData{Income: &inc}

	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	t.Cleanup(func() { log.Logger = prev })

	next := Rollover(s, jan.Add(1))

	assert.NotContains(t, next.FutureData, jan.Add(1))
	assert.Contains(t, next.FutureData, jan.Add(3))
	assert.Contains(t, buf.String(), `"month":"2025-02"`)
	assert.Contains(t, buf.String(), "dropping planned overrides")
}

func TestSummarize(t *testing.T) {
	s := baseState()
	s.Rollover = dec("500")
	s.YKIncome = dec("1000")
	s.FixedExpenses = []model.FixedExpense{
		{ID: "a", Title: "Kira", Amount: dec("-3000"), IsPaid: true},
		{ID: "b", Title: "Fatura", Amount: dec("-1000")},
	}
	s.DailyExpenses = []model.DailyExpense{
		{Amount: dec("200"), Type: model.Cash},
		{Amount: dec("-700"), Type: model.Cash},
		{Amount: dec("-300"), Type: model.MealCard},
	}
	s.CCDebts = []model.CCDebt{{Amount: dec("-800")}, {Amount: dec("300")}}

	sum := Summarize(s)

	amountEq(t, "4000", sum.FixedTotal)
	amountEq(t, "3000", sum.FixedPaid)
	amountEq(t, "1000", sum.FixedUnpaid)
	assert.Equal(t, 1, sum.PaidCount)
	amountEq(t, "200", sum.CashIn)
	amountEq(t, "700", sum.CashOut)
	amountEq(t, "300", sum.YKOut)
	amountEq(t, "500", sum.CardTotal)
	amountEq(t, "800", sum.CardCharges)
	amountEq(t, "300", sum.CardPayments)
	amountEq(t, "6000", sum.RemainingCash)
	amountEq(t, "700", sum.RemainingYK)
	assert.InDelta(t, 0.75, sum.PaidPercent(), 1e-9)
}
