package exchange

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/butce/internal/model"
	"github.com/theirongolddev/butce/internal/month"
)

// Section and key labels.
const (
	SectionGeneral      = "GENEL BİLGİLER"
	SectionFixed        = "SABİT GİDERLER"
	SectionDaily        = "GÜNLÜK HARCAMALAR"
	SectionCard         = "KREDİ KARTI BORÇLARI"
	SectionInstallments = "TAKSİTLER (Aktif)"

	KeyMonth      = "Ay"
	KeyIncome     = "Gelir (Nakit)"
	KeyRollover   = "Devreden (Nakit)"
	KeyYKIncome   = "Yemek Kartı Geliri"
	KeyYKRollover = "Yemek Kartı Devreden"

	currentPrefix = "Mevcut - "
)

// Item row types.
const (
	TypeFixed       = "FixedExpense"
	TypeDaily       = "DailyExpense"
	TypeCard        = "CCDebt"
	TypeInstallment = "Installment"
)

const (
	yes = "Evet"
	no  = "Hayır"
)

// CurrentSheetName names the live month's sheet.
func CurrentSheetName(m month.Month) string {
	return currentPrefix + m.String()
}

// Encode lays the ledger out as a workbook. Planning overrides are not
// exported.
func Encode(s model.BudgetState) Workbook {
	cur := header(s.CurrentMonth, s.Income, s.Rollover, s.YKIncome, s.YKRollover)
	cur = append(cur, fixedRows(s.FixedExpenses, "Sabit gider bulunmuyor.")...)
	cur = append(cur, dailyRows(s.DailyExpenses, "Günlük harcama bulunmuyor.")...)
	cur = append(cur, cardRows(s.CCDebts, "Kredi kartı borcu bulunmuyor.")...)
	cur = append(cur, installmentRows(s.Installments)...)

	wb := Workbook{Sheets: []Sheet{{Name: CurrentSheetName(s.CurrentMonth), Rows: cur}}}
	for _, h := range s.History {
		rows := header(h.Month, h.Income, h.Rollover, h.YKIncome, h.YKRollover)
		rows = append(rows, fixedRows(h.FixedExpenses, "")...)
		rows = append(rows, dailyRows(h.DailyExpenses, "")...)
		rows = append(rows, cardRows(h.CCDebts, "")...)
		wb.Sheets = append(wb.Sheets, Sheet{Name: h.Month.String(), Rows: rows})
	}
	return wb
}

func spacer() Row { return Row{} }

func section(name string) Row { return Row{ColSection: name} }

func header(m month.Month, income, rollover, yk, ykRollover decimal.Decimal) []Row {
	return []Row{
		section(SectionGeneral),
		{ColSection: KeyMonth, ColValue: m.String()},
		{ColSection: KeyIncome, ColValue: income.String()},
		{ColSection: KeyRollover, ColValue: rollover.String()},
		{ColSection: KeyYKIncome, ColValue: yk.String()},
		{ColSection: KeyYKRollover, ColValue: ykRollover.String()},
		spacer(),
	}
}

func note(rows []Row, text string) []Row {
	if len(rows) == 1 && text != "" {
		rows = append(rows, Row{ColNote: text})
	}
	return append(rows, spacer())
}

func fixedRows(list []model.FixedExpense, empty string) []Row {
	rows := []Row{section(SectionFixed)}
	for _, f := range list {
		paid := no
		if f.IsPaid {
			paid = yes
		}
		rows = append(rows, Row{
			ColType:   TypeFixed,
			ColID:     f.ID,
			ColTitle:  f.Title,
			ColAmount: f.Amount.String(),
			ColIsPaid: paid,
		})
	}
	return note(rows, empty)
}

func dailyRows(list []model.DailyExpense, empty string) []Row {
	rows := []Row{section(SectionDaily)}
	for _, d := range list {
		rows = append(rows, Row{
			ColType:        TypeDaily,
			ColID:          d.ID,
			ColDate:        d.Date.String(),
			ColDescription: d.Description,
			ColAmount:      d.Amount.String(),
			ColExpenseType: string(d.Type),
		})
	}
	return note(rows, empty)
}

func cardRows(list []model.CCDebt, empty string) []Row {
	rows := []Row{section(SectionCard)}
	for _, d := range list {
		r := Row{
			ColType:        TypeCard,
			ColID:          d.ID,
			ColDescription: d.Description,
			ColAmount:      d.Amount.String(),
		}
		if d.InstallmentID != "" {
			r[ColInstallmentID] = d.InstallmentID
			r[ColCurrentInstallment] = strconv.Itoa(d.CurrentInstallment)
			r[ColTotalInstallments] = strconv.Itoa(d.TotalInstallments)
		}
		rows = append(rows, r)
	}
	return note(rows, empty)
}

func installmentRows(list []model.Installment) []Row {
	rows := []Row{section(SectionInstallments)}
	for _, in := range list {
		rows = append(rows, Row{
			ColType:             TypeInstallment,
			ColID:               in.ID,
			ColDescription:      in.Description,
			ColTotalAmount:      in.TotalAmount.String(),
			ColInstallmentCount: strconv.Itoa(in.InstallmentCount),
			ColRemaining:        strconv.Itoa(in.RemainingInstallments),
			ColMonthlyAmount:    in.MonthlyAmount.String(),
			ColStartDate:        in.StartDate.String(),
		})
	}
	if len(rows) == 1 {
		rows = append(rows, Row{ColNote: "Aktif taksit bulunmuyor."})
	}
	return rows
}
