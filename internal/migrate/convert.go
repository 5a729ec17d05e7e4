package migrate

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/butce/internal/model"
	"github.com/theirongolddev/butce/internal/month"
)

// toModel lifts the latest persisted shape into the typed model. Missing
// arrays become empty and unparsable months or dates are dropped.
func toModel(s snapshotV6, now month.Month) model.BudgetState {
	out := model.Empty(now)
	if cm, err := month.Parse(strings.TrimSpace(s.CurrentMonth)); err == nil {
		out.CurrentMonth = cm
	} else if s.CurrentMonth != "" {
		log.Warn().Str("currentMonth", s.CurrentMonth).Msg("unreadable current month, using today")
	}

	out.Income = s.Income
	out.Rollover = s.Rollover
	out.YKIncome = s.YKIncome
	out.YKRollover = s.YKRollover
	out.FixedExpenses = convertFixed(s.FixedExpenses)
	out.DailyExpenses = convertDaily(s.DailyExpenses)
	out.CCDebts = convertDebts(s.CCDebts)

	for _, in := range s.Installments {
		out.Installments = append(out.Installments, convertInstallment(in))
	}

	for _, h := range s.History {
		m, err := month.Parse(strings.TrimSpace(h.Month))
		if err != nil {
			log.Warn().Str("month", h.Month).Msg("dropping history entry with unreadable month")
			continue
		}
		out.History = append(out.History, model.MonthlyHistory{
			Month:         m,
			Income:        h.Income,
			Rollover:      h.Rollover,
			YKIncome:      h.YKIncome,
			YKRollover:    h.YKRollover,
			FixedExpenses: convertFixed(h.FixedExpenses),
			DailyExpenses: convertDaily(h.DailyExpenses),
			CCDebts:       convertDebts(h.CCDebts),
		})
	}

	for key, f := range s.FutureData {
		m, err := month.Parse(strings.TrimSpace(key))
		if err != nil {
			log.Warn().Str("month", key).Msg("dropping planning overrides with unreadable month")
			continue
		}
		bucket := model.FutureMonthData{
			Income:           f.Income,
			YKIncome:         f.YKIncome,
			CCDebts:          convertDebts(f.CCDebts),
			CCDebtAdjustment: f.CCDebtAdjustment,
		}
		if f.FixedExpenses != nil {
			bucket.FixedExpenses = convertFixed(f.FixedExpenses)
		}
		if len(f.InstallmentOverrides) > 0 {
			bucket.InstallmentOverrides = make(map[string]decimal.Decimal, len(f.InstallmentOverrides))
			for id, amt := range f.InstallmentOverrides {
				bucket.InstallmentOverrides[id] = model.Outflow(amt)
			}
		}
		out.FutureData[m] = bucket
	}
	return out
}

func convertFixed(in []fixedV0) []model.FixedExpense {
	out := make([]model.FixedExpense, 0, len(in))
	for _, f := range in {
		out = append(out, model.FixedExpense{ID: f.ID, Title: f.Title, Amount: f.Amount, IsPaid: f.IsPaid})
	}
	return out
}

func convertDaily(in []dailyV0) []model.DailyExpense {
	out := make([]model.DailyExpense, 0, len(in))
	for _, d := range in {
		out = append(out, model.DailyExpense{
			ID:          d.ID,
			Date:        parseDay(d.Date),
			Description: d.Description,
			Amount:      d.Amount,
			Type:        expenseType(d.Type),
		})
	}
	return out
}

func convertDebts(in []debtV0) []model.CCDebt {
	out := make([]model.CCDebt, 0, len(in))
	for _, d := range in {
		out = append(out, model.CCDebt(d))
	}
	return out
}

func convertInstallment(in installmentV2) model.Installment {
	remaining := min(max(in.RemainingInstallments, 0), max(in.InstallmentCount, 0))
	return model.Installment{
		ID:                    in.ID,
		Description:           in.Description,
		TotalAmount:           in.TotalAmount,
		InstallmentCount:      in.InstallmentCount,
		RemainingInstallments: remaining,
		MonthlyAmount:         in.MonthlyAmount,
		StartDate:             parseDay(in.StartDate),
	}
}

func parseDay(s string) model.Day {
	d, err := model.ParseDay(s)
	if err != nil {
		log.Debug().Str("date", s).Msg("unreadable date, leaving empty")
		return model.Day{}
	}
	return d
}

func expenseType(s string) model.ExpenseType {
	if strings.EqualFold(strings.TrimSpace(s), string(model.MealCard)) {
		return model.MealCard
	}
	return model.Cash
}
