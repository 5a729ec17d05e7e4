package exchange

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/butce/internal/ledger"
	"github.com/theirongolddev/butce/internal/model"
	"github.com/theirongolddev/butce/internal/month"
)

// ErrNoCurrentSheet is returned when a workbook has no live-month sheet.
var ErrNoCurrentSheet = errors.New("exchange: workbook has no current month sheet")

var historySheet = regexp.MustCompile(`^\d{4}-\d{2}$`)

// Report counts what an import skipped.
type Report struct {
	Sheets      int
	Skipped     int
	SkippedRows []string
}

func (r *Report) skip(sheet string, row int, why string) {
	r.Skipped++
	r.SkippedRows = append(r.SkippedRows, fmt.Sprintf("%s:%d %s", sheet, row, why))
	log.Warn().Str("sheet", sheet).Int("row", row).Msg(why)
}

// block collects the rows of one sheet.
type block struct {
	month        month.Month
	hasMonth     bool
	income       decimal.Decimal
	rollover     decimal.Decimal
	ykIncome     decimal.Decimal
	ykRollover   decimal.Decimal
	fixed        []model.FixedExpense
	daily        []model.DailyExpense
	debts        []model.CCDebt
	installments []model.Installment
}

// Decode rebuilds a ledger from a workbook. The live month comes from the
// "Ay" row of the current sheet, falling back to the sheet name and then
// now. History is ordered newest first. Amounts that do not parse read as 0.
func Decode(wb Workbook, now month.Month) (model.BudgetState, Report, error) {
	var rep Report
	s := model.Empty(now)
	found := false

	for _, sh := range wb.Sheets {
		switch {
		case strings.HasPrefix(sh.Name, "Mevcut"):
			b := parseSheet(sh, true, &rep)
			rep.Sheets++
			found = true
			switch {
			case b.hasMonth:
				s.CurrentMonth = b.month
			default:
				if m, err := month.Parse(strings.TrimPrefix(sh.Name, currentPrefix)); err == nil {
					s.CurrentMonth = m
				}
			}
			s.Income, s.Rollover = b.income, b.rollover
			s.YKIncome, s.YKRollover = b.ykIncome, b.ykRollover
			s.FixedExpenses = b.fixed
			s.DailyExpenses = b.daily
			s.CCDebts = b.debts
			s.Installments = b.installments
		case historySheet.MatchString(sh.Name):
			m, err := month.Parse(sh.Name)
			if err != nil {
				rep.skip(sh.Name, 0, "sheet name is not a month")
				continue
			}
			b := parseSheet(sh, false, &rep)
			rep.Sheets++
			s.History = append(s.History, model.MonthlyHistory{
				Month:         m,
				Income:        b.income,
				Rollover:      b.rollover,
				YKIncome:      b.ykIncome,
				YKRollover:    b.ykRollover,
				FixedExpenses: b.fixed,
				DailyExpenses: b.daily,
				CCDebts:       b.debts,
			})
		default:
			rep.skip(sh.Name, 0, "unrecognized sheet")
		}
	}

	if !found {
		return model.BudgetState{}, rep, ErrNoCurrentSheet
	}
	sort.SliceStable(s.History, func(i, j int) bool {
		return s.History[i].Month.After(s.History[j].Month)
	})
	return s, rep, nil
}

func parseSheet(sh Sheet, current bool, rep *Report) block {
	b := block{
		income:       decimal.Zero,
		rollover:     decimal.Zero,
		ykIncome:     decimal.Zero,
		ykRollover:   decimal.Zero,
		fixed:        []model.FixedExpense{},
		daily:        []model.DailyExpense{},
		debts:        []model.CCDebt{},
		installments: []model.Installment{},
	}

	// Row numbers are 1-based and count the header line.
	for i, r := range sh.Rows {
		line := i + 2
		switch r[ColSection] {
		case KeyMonth:
			if m, err := month.Parse(r[ColValue]); err == nil {
				b.month, b.hasMonth = m, true
			}
		case KeyIncome:
			b.income = number(r[ColValue])
		case KeyRollover:
			b.rollover = number(r[ColValue])
		case KeyYKIncome:
			b.ykIncome = number(r[ColValue])
		case KeyYKRollover:
			b.ykRollover = number(r[ColValue])
		}

		switch r[ColType] {
		case "":
		case TypeFixed:
			b.fixed = append(b.fixed, model.FixedExpense{
				ID:     id(r),
				Title:  r[ColTitle],
				Amount: model.Outflow(number(r[ColAmount])),
				IsPaid: r[ColIsPaid] == yes,
			})
		case TypeDaily:
			day, err := model.ParseDay(r[ColDate])
			if err != nil {
				rep.skip(sh.Name, line, "unreadable date")
				continue
			}
			typ := model.Cash
			if strings.EqualFold(strings.TrimSpace(r[ColExpenseType]), string(model.MealCard)) {
				typ = model.MealCard
			}
			b.daily = append(b.daily, model.DailyExpense{
				ID:          id(r),
				Date:        day,
				Description: r[ColDescription],
				Amount:      number(r[ColAmount]),
				Type:        typ,
			})
		case TypeCard:
			d := model.CCDebt{
				ID:          id(r),
				Description: r[ColDescription],
				Amount:      number(r[ColAmount]),
			}
			if inst := r[ColInstallmentID]; inst != "" {
				d.InstallmentID = inst
				d.CurrentInstallment = integer(r[ColCurrentInstallment])
				d.TotalInstallments = integer(r[ColTotalInstallments])
			}
			b.debts = append(b.debts, d)
		case TypeInstallment:
			if !current {
				rep.skip(sh.Name, line, "installment plan on a history sheet")
				continue
			}
			b.installments = append(b.installments, installment(r))
		default:
			rep.skip(sh.Name, line, "unknown row type "+strconv.Quote(r[ColType]))
		}
	}
	return b
}

func installment(r Row) model.Installment {
	count := integer(r[ColInstallmentCount])
	if count <= 0 {
		count = 1
	}
	remaining := min(max(integer(r[ColRemaining]), 0), count)
	start, _ := model.ParseDay(r[ColStartDate])
	return model.Installment{
		ID:                    id(r),
		Description:           r[ColDescription],
		TotalAmount:           model.Outflow(number(r[ColTotalAmount])),
		InstallmentCount:      count,
		RemainingInstallments: remaining,
		MonthlyAmount:         model.Outflow(number(r[ColMonthlyAmount])),
		StartDate:             start,
	}
}

func id(r Row) string {
	if v := strings.TrimSpace(r[ColID]); v != "" {
		return v
	}
	return ledger.NewID()
}

func number(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func integer(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
