package projection

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/butce/internal/ledger"
	"github.com/theirongolddev/butce/internal/model"
	"github.com/theirongolddev/butce/internal/month"
)

var cur = month.MustParse("2025-01")

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func amountEq(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

// ledgerState is a live month with rent, a stale carry line and a
// six-part plan that has already billed its first instalment.
func ledgerState() model.BudgetState {
	s := model.Empty(cur)
	s.Income = dec("10000")
	s.YKIncome = dec("1000")
	s.FixedExpenses = []model.FixedExpense{
		{ID: "rent", Title: "Kira", Amount: dec("-3000"), IsPaid: true},
		{ID: ledger.CarryID(cur), Title: model.CardCarryTitle, Amount: dec("-500")},
	}
	s = ledger.AddInstallment(s, model.Installment{
		ID:               "tel",
		Description:      "Telefon",
		TotalAmount:      dec("-1200"),
		InstallmentCount: 6,
		MonthlyAmount:    dec("-200"),
	})
	return s
}

func fixedTitles(list []model.FixedExpense) []string {
	out := make([]string, 0, len(list))
	for _, f := range list {
		out = append(out, f.Title)
	}
	return out
}

func TestProject_CurrentIsIdentity(t *testing.T) {
	s := ledgerState()
	v := Project(s, cur)
	assert.Equal(t, Current, v.Kind)
	assert.Equal(t, s, v.State)
	assert.True(t, v.Editable())
}

func TestProject_DoesNotMutate(t *testing.T) {
	s := ledgerState()
	inc := dec("1")
	s.FutureData[cur.Add(2)] = model.FutureMonthData{
		Income:               &inc,
		FixedExpenses:        []model.FixedExpense{{ID: "x", Title: "X", Amount: dec("-1")}},
		InstallmentOverrides: map[string]decimal.Decimal{"tel": dec("-5")},
	}
	before := s.Clone()

	for i := 0; i < 3; i++ {
		for _, m := range month.Range(cur.Add(-2), 8) {
			_ = Project(s, m)
		}
	}

	assert.Equal(t, before, s)
}

func TestProject_ThreeMonthsAhead(t *testing.T) {
	s := ledgerState()

	for k := 1; k <= 3; k++ {
		m := cur.Add(k)
		v := Project(s, m)

		require.Equal(t, Projected, v.Kind)
		assert.Equal(t, m, v.State.CurrentMonth)
		assert.Equal(t, k, v.Elapsed)
		assert.Empty(t, v.State.DailyExpenses)

		require.Len(t, v.State.FixedExpenses, 2, "month %s", m)
		rent := v.State.FixedExpenses[0]
		assert.Equal(t, "rent", rent.ID)
		assert.False(t, rent.IsPaid, "template is unpaid")
		carry := v.State.FixedExpenses[1]
		assert.Equal(t, model.CardCarryTitle, carry.Title)
		assert.Equal(t, ledger.CarryID(m), carry.ID)
		amountEq(t, "-200", carry.Amount, "month %s carries last month's instalment", m)

		require.Len(t, v.State.CCDebts, 1)
		want := []string{"", "Telefon (2/6)", "Telefon (3/6)", "Telefon (4/6)"}[k]
		assert.Equal(t, want, v.State.CCDebts[0].Description)
		require.Len(t, v.State.Installments, 1)
		assert.Equal(t, 6-k, v.State.Installments[0].RemainingInstallments)
	}
}

func TestProject_RunningBalances(t *testing.T) {
	s := model.Empty(cur)
	s.Income = dec("10000")
	s.YKIncome = dec("500")
	s.FixedExpenses = []model.FixedExpense{{ID: "rent", Title: "Kira", Amount: dec("-3000")}}

	amountEq(t, "7000", Project(s, cur.Add(1)).State.Rollover)
	amountEq(t, "14000", Project(s, cur.Add(2)).State.Rollover)
	amountEq(t, "21000", Project(s, cur.Add(3)).State.Rollover)
	amountEq(t, "500", Project(s, cur.Add(1)).State.YKRollover)
	amountEq(t, "1500", Project(s, cur.Add(3)).State.YKRollover)
}

func TestProject_AgreesWithRealRollover(t *testing.T) {
	s := ledgerState()
	s = ledger.AddDailyExpense(s, model.DailyExpense{Amount: dec("-750"), Type: model.Cash})
	s = ledger.AddDailyExpense(s, model.DailyExpense{Amount: dec("-100"), Type: model.MealCard})
	s = ledger.AddCCDebt(s, model.CCDebt{ID: "tv", Description: "TV", Amount: dec("-900")})

	next := cur.Add(1)
	projected := Project(s, next).State
	actual := ledger.Rollover(s, next)

	amountEq(t, actual.Rollover.String(), projected.Rollover)
	amountEq(t, actual.YKRollover.String(), projected.YKRollover)
	require.Equal(t, fixedTitles(actual.FixedExpenses), fixedTitles(projected.FixedExpenses))
	for i := range actual.FixedExpenses {
		amountEq(t, actual.FixedExpenses[i].Amount.String(), projected.FixedExpenses[i].Amount)
		assert.Equal(t, actual.FixedExpenses[i].ID, projected.FixedExpenses[i].ID)
	}
	require.Len(t, projected.CCDebts, len(actual.CCDebts))
	assert.Equal(t, actual.CCDebts[0].ID, projected.CCDebts[0].ID)
	assert.Equal(t, actual.CCDebts[0].Description, projected.CCDebts[0].Description)
}

func TestProject_OverridesStayLocal(t *testing.T) {
	s := ledgerState()
	s, err := PlanIncome(s, cur.Add(2), dec("20000"))
	require.NoError(t, err)

	m1 := Project(s, cur.Add(1))
	m2 := Project(s, cur.Add(2))
	m3 := Project(s, cur.Add(3))

	amountEq(t, "10000", m1.State.Income)
	amountEq(t, "20000", m2.State.Income)
	amountEq(t, "10000", m3.State.Income)
	assert.NotNil(t, m2.Overrides.Income)
	assert.Nil(t, m1.Overrides.Income)
	// m3 starts from m2's boosted balance.
	assert.True(t, m3.State.Rollover.GreaterThan(m2.State.Rollover))
	assert.Equal(t, cur, s.CurrentMonth)
	amountEq(t, "10000", s.Income)
}

func TestProject_InstallmentOverride(t *testing.T) {
	s := ledgerState()
	m := cur.Add(2)
	line := Project(s, m).State.CCDebts[0]

	s, err := PlanUpdateCCDebt(s, m, model.CCDebt{ID: line.ID, Description: line.Description, Amount: dec("150")})
	require.NoError(t, err)

	amountEq(t, "-150", Project(s, m).State.CCDebts[0].Amount)
	amountEq(t, "-200", Project(s, m.Add(1)).State.CCDebts[0].Amount)
	amountEq(t, "-150", Project(s, m.Add(1)).State.FixedExpenses[1].Amount, "next month carries the overridden statement")
	amountEq(t, "-200", s.Installments[0].MonthlyAmount)
}

func TestPlan_CardCarryAdjustment(t *testing.T) {
	s := ledgerState()
	m := cur.Add(1)
	carryID := ledger.CarryID(m)

	s, err := PlanUpdateFixed(s, m, model.FixedExpense{ID: carryID, Title: model.CardCarryTitle, Amount: dec("-260")})
	require.NoError(t, err)

	bucket := s.FutureData[m]
	require.NotNil(t, bucket.CCDebtAdjustment)
	amountEq(t, "-60", *bucket.CCDebtAdjustment)
	assert.Nil(t, bucket.FixedExpenses, "carry edits never materialize the bill list")
	amountEq(t, "-260", Project(s, m).State.FixedExpenses[1].Amount)

	// A new charge this month raises the base; the delta stays on top.
	s = ledger.AddCCDebt(s, model.CCDebt{ID: "extra", Amount: dec("-100")})
	amountEq(t, "-360", Project(s, m).State.FixedExpenses[1].Amount)

	// Deleting the line cancels it.
	s, err = PlanDeleteFixed(s, m, carryID)
	require.NoError(t, err)
	for _, f := range Project(s, m).State.FixedExpenses {
		assert.False(t, f.IsCardCarry())
	}

	_, err = PlanToggleFixed(s, m.Add(1), ledger.CarryID(m.Add(1)))
	assert.ErrorIs(t, err, ErrSynthesizedLine)
}

func TestPlan_FixedExpenses(t *testing.T) {
	s := ledgerState()
	m := cur.Add(2)

	s, err := PlanAddFixed(s, m, model.FixedExpense{ID: "tatil", Title: "Tatil", Amount: dec("2500")})
	require.NoError(t, err)
	s, err = PlanToggleFixed(s, m, "rent")
	require.NoError(t, err)

	v := Project(s, m)
	assert.Equal(t, []string{"Kira", "Tatil", model.CardCarryTitle}, fixedTitles(v.State.FixedExpenses))
	assert.True(t, v.State.FixedExpenses[0].IsPaid)
	amountEq(t, "-2500", v.State.FixedExpenses[1].Amount)
	assert.Len(t, s.FutureData[m].FixedExpenses, 2, "stored list excludes the synthesized line")

	assert.Equal(t, []string{"Kira", model.CardCarryTitle}, fixedTitles(Project(s, m.Add(1)).State.FixedExpenses))
	assert.Len(t, s.FixedExpenses, 2, "live month untouched")

	s, err = PlanResetPaid(s, m)
	require.NoError(t, err)
	assert.False(t, Project(s, m).State.FixedExpenses[0].IsPaid)

	s, err = PlanDeleteFixed(s, m, "rent")
	require.NoError(t, err)
	s, err = PlanDeleteFixed(s, m, "tatil")
	require.NoError(t, err)
	assert.NotNil(t, s.FutureData[m].FixedExpenses)
	assert.Equal(t, []string{model.CardCarryTitle}, fixedTitles(Project(s, m).State.FixedExpenses))
}

func TestPlan_CCDebts(t *testing.T) {
	s := ledgerState()
	m := cur.Add(1)

	s, err := PlanAddCCDebt(s, m, model.CCDebt{ID: "bilet", Description: "Bilet", Amount: dec("-300")})
	require.NoError(t, err)
	v := Project(s, m)
	require.Len(t, v.State.CCDebts, 2)
	amountEq(t, "-500", Project(s, m.Add(1)).State.FixedExpenses[1].Amount)

	s, err = PlanUpdateCCDebt(s, m, model.CCDebt{ID: "bilet", Description: "Bilet", Amount: dec("-350")})
	require.NoError(t, err)
	amountEq(t, "-350", Project(s, m).State.CCDebts[1].Amount)

	_, err = PlanDeleteCCDebt(s, m, v.State.CCDebts[0].ID)
	assert.ErrorIs(t, err, ErrSynthesizedLine)

	s, err = PlanDeleteCCDebt(s, m, "bilet")
	require.NoError(t, err)
	assert.NotContains(t, s.FutureData, m, "empty buckets are dropped")
}

func TestPlan_RejectsLiveAndPastMonths(t *testing.T) {
	s := ledgerState()
	for _, m := range []month.Month{cur, cur.Add(-1)} {
		_, err := PlanIncome(s, m, dec("1"))
		assert.ErrorIs(t, err, ErrNotFuture)
	}
}

func TestProject_History(t *testing.T) {
	s := ledgerState()
	s = ledger.AddDailyExpense(s, model.DailyExpense{ID: "d", Amount: dec("-10")})
	rolled := ledger.Rollover(s, cur.Add(1))

	v := Project(rolled, cur)
	require.Equal(t, History, v.Kind)
	assert.False(t, v.Editable())
	assert.Equal(t, cur, v.State.CurrentMonth)
	amountEq(t, "10000", v.State.Income)
	require.Len(t, v.State.DailyExpenses, 1)
	assert.Empty(t, v.State.Installments)
	assert.Empty(t, v.State.FutureData)
	assert.Len(t, v.State.FixedExpenses, 2)
}

func TestProject_HistoryGap(t *testing.T) {
	s := ledgerState()
	v := Project(s, cur.Add(-3))

	assert.Equal(t, Gap, v.Kind)
	assert.Equal(t, cur.Add(-3), v.State.CurrentMonth)
	assert.True(t, v.State.Income.IsZero())
	assert.Empty(t, v.State.FixedExpenses)
	assert.Empty(t, v.State.CCDebts)
}
