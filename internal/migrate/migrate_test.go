package migrate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/butce/internal/model"
	"github.com/theirongolddev/butce/internal/month"
)

var now = month.MustParse("2025-03")

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertAmount(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

func TestLoad_Unversioned(t *testing.T) {
	blob := `{
		"income": 10000, "rollover": 250,
		"limits": {"nakit": 250, "yk": 320},
		"fixedExpenses": [{"id":"f1","title":"Kira","amount":3000,"isPaid":true}],
		"dailyExpenses": [{"id":"d1","date":"2023-01-15T10:00:00.000Z","description":"Market","amount":120,"type":"NAKIT"}],
		"ccDebts": [{"id":"c1","description":"Laptop","amount":900}],
		"gold": {"g22": 1}
	}`

	s := Load([]byte(blob), now)

	assert.Equal(t, model.SchemaVersion, s.Version)
	assert.Equal(t, now, s.CurrentMonth)
	assertAmount(t, "10000", s.Income)
	require.Len(t, s.DailyExpenses, 1)
	assertAmount(t, "-120", s.DailyExpenses[0].Amount, "daily spend forced negative")
	assert.Equal(t, "2023-01-15", s.DailyExpenses[0].Date.String())
	require.Len(t, s.CCDebts, 1)
	assertAmount(t, "-900", s.CCDebts[0].Amount, "card charge negative")
	require.Len(t, s.FixedExpenses, 1)
	assertAmount(t, "-3000", s.FixedExpenses[0].Amount, "fixed expense negative")
	assert.True(t, s.FixedExpenses[0].IsPaid)
	assert.Empty(t, s.Installments)
	assert.Empty(t, s.History)
	assert.NotNil(t, s.FutureData)
}

func TestLoad_V1KeepsSignedDaily(t *testing.T) {
	blob := `{"version":1,"income":500,"dailyExpenses":[
		{"id":"d1","date":"2024-01-02","description":"Maas","amount":300,"type":"NAKIT"},
		{"id":"d2","date":"2024-01-03","description":"Yemek","amount":-40,"type":"YK"}
	]}`

	s := Load([]byte(blob), now)

	require.Len(t, s.DailyExpenses, 2)
	assertAmount(t, "300", s.DailyExpenses[0].Amount)
	assertAmount(t, "-40", s.DailyExpenses[1].Amount)
	assert.Equal(t, model.MealCard, s.DailyExpenses[1].Type)
	assert.Equal(t, now, s.CurrentMonth)
}

func TestLoad_V2NormalizesCardSigns(t *testing.T) {
	blob := `{"version":2,"currentMonth":"2024-11",
		"ccDebts":[{"id":"c1","description":"Telefon (1/6)","amount":200,"installmentId":"i1","currentInstallment":1,"totalInstallments":6}],
		"installments":[{"id":"i1","description":"Telefon","totalAmount":1200,"installmentCount":6,"remainingInstallments":6,"monthlyAmount":200,"startDate":"2024-11-05"}],
		"history":[{"month":"2024-10","income":1000,"ccDebts":[{"id":"h1","description":"Old","amount":50}]}]
	}`

	s := Load([]byte(blob), now)

	assert.Equal(t, month.MustParse("2024-11"), s.CurrentMonth)
	require.Len(t, s.CCDebts, 1)
	assertAmount(t, "-200", s.CCDebts[0].Amount)
	assert.Equal(t, "i1", s.CCDebts[0].InstallmentID)
	require.Len(t, s.Installments, 1)
	assertAmount(t, "-1200", s.Installments[0].TotalAmount)
	assertAmount(t, "-200", s.Installments[0].MonthlyAmount)
	require.Len(t, s.History, 1)
	assertAmount(t, "-50", s.History[0].CCDebts[0].Amount)
}

func TestLoad_V3ResetScenario(t *testing.T) {
	blob := `{"version":3,"currentMonth":"2024-12","income":10000,"rollover":0,"ykIncome":2000,"ykRollover":0,
		"fixedExpenses":[{"id":"1","title":"Rent","amount":5000,"isPaid":true}],
		"dailyExpenses":[
			{"id":"1","date":"2024-12-01","description":"Food","amount":-500,"type":"NAKIT"},
			{"id":"2","date":"2024-12-02","description":"Lunch","amount":-200,"type":"YK"}],
		"ccDebts":[{"id":"1","description":"Shopping","amount":-1500}],
		"installments":[],"history":[]}`

	s := Load([]byte(blob), now)

	assert.Equal(t, month.MustParse("2024-12"), s.CurrentMonth)
	assertAmount(t, "-5000", s.FixedExpenses[0].Amount)
	assertAmount(t, "-1500", s.CCDebts[0].Amount)
	assertAmount(t, "2000", s.YKIncome)
	assert.Empty(t, s.FutureData)
}

func TestLoad_V4DedupesCardCarry(t *testing.T) {
	blob := `{"version":4,"currentMonth":"2025-02","fixedExpenses":[
		{"id":"a","title":"Kredi Kartı Borcu (Geçen Ay)","amount":-100,"isPaid":false},
		{"id":"b","title":"Kira","amount":-3000,"isPaid":false},
		{"id":"c","title":"Kredi Kartı Borcu (Geçen Ay)","amount":-250,"isPaid":false}
	],"futureData":{}}`

	s := Load([]byte(blob), now)

	require.Len(t, s.FixedExpenses, 2)
	assert.Equal(t, "b", s.FixedExpenses[0].ID)
	assert.Equal(t, "c", s.FixedExpenses[1].ID)
	assertAmount(t, "-250", s.FixedExpenses[1].Amount)
}

func TestLoad_V5FutureData(t *testing.T) {
	blob := `{"version":5,"currentMonth":"2025-02","futureData":{
		"2025-04":{"income":12000,"fixedExpenses":[{"id":"x","title":"Aidat","amount":400,"isPaid":false}],"installmentOverrides":{"i1":150},"ccDebtAdjustment":-50},
		"2025-05":{"ykIncome":3000,"fixedExpenses":[]},
		"garbage":{"income":1}
	}}`

	s := Load([]byte(blob), now)

	require.Len(t, s.FutureData, 2)
	apr := s.FutureData[month.MustParse("2025-04")]
	require.NotNil(t, apr.Income)
	assertAmount(t, "12000", *apr.Income)
	require.Len(t, apr.FixedExpenses, 1)
	assertAmount(t, "-400", apr.FixedExpenses[0].Amount)
	assertAmount(t, "-150", apr.InstallmentOverrides["i1"])
	require.NotNil(t, apr.CCDebtAdjustment)
	assertAmount(t, "-50", *apr.CCDebtAdjustment)

	may := s.FutureData[month.MustParse("2025-05")]
	assert.NotNil(t, may.FixedExpenses, "explicit empty override survives")
	assert.Empty(t, may.FixedExpenses)
}

func TestLoad_FutureVersionIsNoop(t *testing.T) {
	blob := `{"version":99,"currentMonth":"2025-01","fixedExpenses":[{"id":"f","title":"Odd","amount":10,"isPaid":false}]}`

	s := Load([]byte(blob), now)

	assert.Equal(t, month.MustParse("2025-01"), s.CurrentMonth)
	assertAmount(t, "10", s.FixedExpenses[0].Amount, "no step runs past the current version")
}

func TestLoad_CorruptFallsBackToEmpty(t *testing.T) {
	for _, blob := range []string{`{not json`, `[1,2,3]`, `"text"`, `{"income":"abc"}`} {
		t.Run(blob, func(t *testing.T) {
			s := Load([]byte(blob), now)
			assert.Equal(t, model.Empty(now), s)

			_, err := Decode([]byte(blob), now)
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestLoad_EmptyBlob(t *testing.T) {
	assert.Equal(t, model.Empty(now), Load(nil, now))
	assert.Equal(t, model.Empty(now), Load([]byte("  \n"), now))
}

func TestLoad_FixedPoint(t *testing.T) {
	blobs := []string{
		`{"income":100,"dailyExpenses":[{"id":"d","date":"2024-01-01","description":"x","amount":5,"type":"YK"}]}`,
		`{"version":2,"currentMonth":"2024-11","ccDebts":[{"id":"c","description":"y","amount":12.5}]}`,
		`{"version":4,"currentMonth":"2025-01","fixedExpenses":[{"id":"a","title":"Kredi Kartı Borcu (Geçen Ay)","amount":-1},{"id":"b","title":"Kredi Kartı Borcu (Geçen Ay)","amount":-2}],"futureData":{"2025-03":{"income":7}}}`,
	}

	for _, blob := range blobs {
		first, err := Save(Load([]byte(blob), now))
		require.NoError(t, err)

		second, err := Save(Load(first, now.Add(5)))
		require.NoError(t, err)

		assert.JSONEq(t, string(first), string(second))
	}
}

func TestStepsAreIdempotent(t *testing.T) {
	v4 := snapshotV4{}
	v4.FixedExpenses = []fixedV0{
		{ID: "a", Title: model.CardCarryTitle, Amount: dec("-1")},
		{ID: "b", Title: model.CardCarryTitle, Amount: dec("-2")},
	}
	once := v4ToV5(v4)
	twice := v4ToV5(snapshotV4(once))
	assert.Equal(t, once.FixedExpenses, twice.FixedExpenses)

	v0 := snapshotV0{DailyExpenses: []dailyV0{{ID: "d", Amount: dec("7")}}}
	a := v0ToV1(v0)
	b := v0ToV1(a.snapshotV0)
	assert.True(t, a.DailyExpenses[0].Amount.Equal(b.DailyExpenses[0].Amount))
}

func TestStepsDoNotMutateInput(t *testing.T) {
	v0 := snapshotV0{DailyExpenses: []dailyV0{{ID: "d", Amount: dec("7")}}}
	_ = v0ToV1(v0)
	assertAmount(t, "7", v0.DailyExpenses[0].Amount)
}

// FuzzLoad checks that arbitrary persisted bytes never panic and always
// come back at the current schema version.
func FuzzLoad(f *testing.F) {
	f.Add([]byte(`{}`))
	f.Add([]byte(`{"version":3,"ccDebts":[{"amount":1}]}`))
	f.Add([]byte(`{"version":5,"futureData":{"2025-01":{"fixedExpenses":null}}}`))
	f.Add([]byte(`{"history":[{"month":"bad"}]}`))
	f.Add([]byte(`{"installments":[{"installmentCount":2,"remainingInstallments":9}]}`))
	f.Add([]byte(`null`))
	f.Add([]byte(`{"version":`))

	f.Fuzz(func(t *testing.T, data []byte) {
		s := Load(data, now)
		if s.Version != model.SchemaVersion {
			t.Fatalf("version = %d, want %d", s.Version, model.SchemaVersion)
		}
		for _, in := range s.Installments {
			if in.RemainingInstallments < 0 || (in.InstallmentCount >= 0 && in.RemainingInstallments > in.InstallmentCount) {
				t.Fatalf("remaining %d out of range for count %d", in.RemainingInstallments, in.InstallmentCount)
			}
		}
	})
}
