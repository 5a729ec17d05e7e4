package exchange

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/butce/internal/model"
	"github.com/theirongolddev/butce/internal/month"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleState() model.BudgetState {
	s := model.Empty(month.MustParse("2025-03"))
	s.Income = dec("45000")
	s.Rollover = dec("1250.5")
	s.YKIncome = dec("3000")
	s.FixedExpenses = []model.FixedExpense{
		{ID: "rent", Title: "Kira", Amount: dec("-15000"), IsPaid: true},
		{ID: "cc-carry-2025-03", Title: model.CardCarryTitle, Amount: dec("-1800")},
	}
	s.DailyExpenses = []model.DailyExpense{
		{ID: "d1", Date: model.NewDay(time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)), Description: "Market", Amount: dec("-420.75"), Type: model.Cash},
		{ID: "d2", Date: model.NewDay(time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)), Description: "Öğle", Amount: dec("-180"), Type: model.MealCard},
	}
	s.CCDebts = []model.CCDebt{
		{ID: "c1", Description: "Telefon (2/6)", Amount: dec("-1000"), InstallmentID: "tel", CurrentInstallment: 2, TotalInstallments: 6},
		{ID: "c2", Description: "Ödeme", Amount: dec("500")},
	}
	s.Installments = []model.Installment{{
		ID: "tel", Description: "Telefon", TotalAmount: dec("-6000"), InstallmentCount: 6,
		RemainingInstallments: 4, MonthlyAmount: dec("-1000"),
		StartDate: model.NewDay(time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)),
	}}
	s.History = []model.MonthlyHistory{
		{
			Month: month.MustParse("2025-02"), Income: dec("45000"), Rollover: dec("0"),
			YKIncome: dec("3000"), YKRollover: dec("0"),
			FixedExpenses: []model.FixedExpense{{ID: "rent", Title: "Kira", Amount: dec("-15000"), IsPaid: true}},
			DailyExpenses: []model.DailyExpense{},
			CCDebts:       []model.CCDebt{{ID: "c0", Description: "Telefon (1/6)", Amount: dec("-1000"), InstallmentID: "tel", CurrentInstallment: 1, TotalInstallments: 6}},
		},
		{
			Month: month.MustParse("2025-01"), Income: dec("40000"), Rollover: dec("0"),
			YKIncome: dec("0"), YKRollover: dec("0"),
			FixedExpenses: []model.FixedExpense{},
			DailyExpenses: []model.DailyExpense{},
			CCDebts:       []model.CCDebt{},
		},
	}
	return s
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestEncode_SheetLayout(t *testing.T) {
	wb := Encode(sampleState())
	require.Len(t, wb.Sheets, 3)
	assert.Equal(t, "Mevcut - 2025-03", wb.Sheets[0].Name)
	assert.Equal(t, "2025-02", wb.Sheets[1].Name)
	assert.Equal(t, "2025-01", wb.Sheets[2].Name)

	cur := wb.Sheets[0].Rows
	assert.Equal(t, SectionGeneral, cur[0][ColSection])
	assert.Equal(t, Row{ColSection: KeyMonth, ColValue: "2025-03"}, cur[1])

	var paid []string
	for _, r := range cur {
		if r[ColType] == TypeFixed {
			paid = append(paid, r[ColIsPaid])
		}
	}
	assert.Equal(t, []string{"Evet", "Hayır"}, paid)

	empty, ok := wb.Sheet("2025-01")
	require.True(t, ok)
	for _, r := range empty.Rows {
		assert.Empty(t, r[ColNote], "history sheets carry no placeholder notes")
	}
}

func TestRoundTripThroughDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "workbook")
	s := sampleState()

	require.NoError(t, WriteDir(dir, Encode(s)))
	wb, err := ReadDir(dir)
	require.NoError(t, err)

	got, rep, err := Decode(wb, month.MustParse("2030-01"))
	require.NoError(t, err)
	assert.Zero(t, rep.Skipped)
	assert.Equal(t, 3, rep.Sheets)
	assert.JSONEq(t, mustJSON(t, s), mustJSON(t, got))
}

func TestDecode_SortsHistoryAndNormalizes(t *testing.T) {
	wb := Workbook{Sheets: []Sheet{
		{Name: "2024-11", Rows: []Row{{ColSection: KeyIncome, ColValue: "100"}}},
		{Name: "Mevcut - 2025-01", Rows: []Row{
			{ColSection: KeyIncome, ColValue: "abc"},
			{ColType: TypeFixed, ColTitle: "Kira", ColAmount: "15000", ColIsPaid: "Hayır"},
			{ColType: TypeInstallment, ColDescription: "TV", ColTotalAmount: "1200", ColInstallmentCount: "3", ColRemaining: "9", ColMonthlyAmount: "400"},
			{ColType: "Gold"},
		}},
		{Name: "2024-12", Rows: nil},
		{Name: "Notlar", Rows: nil},
	}}

	s, rep, err := Decode(wb, month.MustParse("2030-06"))
	require.NoError(t, err)

	assert.Equal(t, "2025-01", s.CurrentMonth.String(), "falls back to the sheet name")
	assert.True(t, s.Income.IsZero())
	require.Len(t, s.FixedExpenses, 1)
	assert.Equal(t, "-15000", s.FixedExpenses[0].Amount.String())
	assert.NotEmpty(t, s.FixedExpenses[0].ID)

	require.Len(t, s.Installments, 1)
	assert.Equal(t, 3, s.Installments[0].RemainingInstallments)
	assert.Equal(t, "-400", s.Installments[0].MonthlyAmount.String())

	require.Len(t, s.History, 2)
	assert.Equal(t, "2024-12", s.History[0].Month.String())
	assert.Equal(t, "2024-11", s.History[1].Month.String())
	assert.Equal(t, "100", s.History[1].Income.String())

	assert.Equal(t, 2, rep.Skipped)
}

func TestDecode_RequiresCurrentSheet(t *testing.T) {
	_, _, err := Decode(Workbook{Sheets: []Sheet{{Name: "2024-11"}}}, month.MustParse("2025-01"))
	assert.ErrorIs(t, err, ErrNoCurrentSheet)
}

func TestReadDir_Empty(t *testing.T) {
	_, err := ReadDir(t.TempDir())
	assert.ErrorIs(t, err, ErrNoSheets)
}

func TestReadDir_HeaderOrderAndBOM(t *testing.T) {
	dir := t.TempDir()
	body := "\ufeffValue,Section\n2025-04,Ay\n5000,Gelir (Nakit)\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Mevcut - 2025-04.csv"), []byte(body), 0o600))

	wb, err := ReadDir(dir)
	require.NoError(t, err)
	s, _, err := Decode(wb, month.MustParse("2020-01"))
	require.NoError(t, err)
	assert.Equal(t, "2025-04", s.CurrentMonth.String())
	assert.Equal(t, "5000", s.Income.String())
}

func TestRoundTripThroughXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName(time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Butce_Yedek_2025-03-20.xlsx", filepath.Base(path))
	s := sampleState()

	require.NoError(t, WriteFile(path, Encode(s)))
	wb, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 3)
	assert.Equal(t, "Mevcut - 2025-03", wb.Sheets[0].Name)

	got, rep, err := Decode(wb, month.MustParse("2030-01"))
	require.NoError(t, err)
	assert.Zero(t, rep.Skipped)
	assert.JSONEq(t, mustJSON(t, s), mustJSON(t, got))
}

// writeLegacyWorkbook lays a file out the way the web app exported it:
// JSON-to-sheet column order, numbers as number cells, placeholder notes.
func writeLegacyWorkbook(t *testing.T, path string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	header := []any{"Section", "Value", "Type", "ID", "Title", "Amount", "IsPaid", "Note",
		"Date", "Description", "ExpenseType", "InstallmentId", "CurrentInstallment",
		"TotalInstallments", "TotalAmount", "InstallmentCount", "RemainingInstallments",
		"MonthlyAmount", "StartDate"}
	sheets := []struct {
		name string
		rows [][]any
	}{
		{"Mevcut - 2025-05", [][]any{
			{"GENEL BİLGİLER", ""},
			{"Ay", "2025-05"},
			{"Gelir (Nakit)", 30000},
			{"Devreden (Nakit)", 1250.5},
			{"Yemek Kartı Geliri", 2500},
			{"Yemek Kartı Devreden", 0},
			{"", ""},
			{"SABİT GİDERLER", ""},
			{nil, nil, "FixedExpense", "rent", "Kira", -12000, "Evet"},
			{"", ""},
			{"GÜNLÜK HARCAMALAR", ""},
			{nil, nil, nil, nil, nil, nil, nil, "Günlük harcama bulunmuyor."},
			{"", ""},
			{"KREDİ KARTI BORÇLARI", ""},
			{nil, nil, "CCDebt", "pc-2025-05", nil, -333.33, nil, nil, nil, "Bilgisayar (2/3)", nil, "pc", 2, 3},
			{"", ""},
			{"TAKSİTLER (Aktif)", ""},
			{nil, nil, "Installment", "pc", nil, nil, nil, nil, nil, "Bilgisayar", nil, nil, nil, nil, -1000, 3, 2, -333.33, "2025-04-02"},
		}},
		{"2025-04", [][]any{
			{"GENEL BİLGİLER", ""},
			{"Ay", "2025-04"},
			{"Gelir (Nakit)", 28000},
			{"", ""},
			{"GÜNLÜK HARCAMALAR", ""},
			{nil, nil, "DailyExpense", "d1", nil, -99.9, nil, nil, "2025-04-03", "Market", nil, nil, nil, nil, nil, nil, nil, nil, nil},
		}},
	}
	for i, sh := range sheets {
		name := sh.name
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		require.NoError(t, f.SetSheetRow(name, "A1", &header))
		for j, row := range sh.rows {
			cell, err := excelize.CoordinatesToCellName(1, j+2)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	require.NoError(t, f.SaveAs(path))
}

func TestReadFile_LegacyLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Butce_Yedek_2025-05-20.xlsx")
	writeLegacyWorkbook(t, path)

	wb, err := ReadFile(path)
	require.NoError(t, err)
	s, rep, err := Decode(wb, month.MustParse("2030-01"))
	require.NoError(t, err)
	assert.Zero(t, rep.Skipped, rep.SkippedRows)
	assert.Equal(t, 2, rep.Sheets)

	assert.Equal(t, "2025-05", s.CurrentMonth.String())
	assert.True(t, s.Income.Equal(dec("30000")))
	assert.True(t, s.Rollover.Equal(dec("1250.5")), s.Rollover.String())
	assert.True(t, s.YKIncome.Equal(dec("2500")))

	require.Len(t, s.FixedExpenses, 1)
	assert.True(t, s.FixedExpenses[0].IsPaid)
	assert.True(t, s.FixedExpenses[0].Amount.Equal(dec("-12000")))
	assert.Empty(t, s.DailyExpenses)

	require.Len(t, s.CCDebts, 1)
	assert.Equal(t, "pc", s.CCDebts[0].InstallmentID)
	assert.Equal(t, 2, s.CCDebts[0].CurrentInstallment)
	assert.True(t, s.CCDebts[0].Amount.Equal(dec("-333.33")), s.CCDebts[0].Amount.String())

	require.Len(t, s.Installments, 1)
	in := s.Installments[0]
	assert.Equal(t, 3, in.InstallmentCount)
	assert.Equal(t, 2, in.RemainingInstallments)
	assert.True(t, in.TotalAmount.Equal(dec("-1000")))
	assert.Equal(t, "2025-04-02", in.StartDate.String())

	require.Len(t, s.History, 1)
	h := s.History[0]
	assert.Equal(t, "2025-04", h.Month.String())
	assert.True(t, h.Income.Equal(dec("28000")))
	require.Len(t, h.DailyExpenses, 1)
	assert.True(t, h.DailyExpenses[0].Amount.Equal(dec("-99.9")))
	assert.Equal(t, "2025-04-03", h.DailyExpenses[0].Date.String())
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "none.xlsx"))
	assert.Error(t, err)
}
