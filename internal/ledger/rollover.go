package ledger

import (
	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/butce/internal/model"
	"github.com/theirongolddev/butce/internal/month"
)

// LineID is the ID of the statement line an installment bills in month m.
func LineID(installmentID string, m month.Month) string {
	return installmentID + "-" + m.String()
}

// CarryID is the ID of the card carry bill in month m.
func CarryID(m month.Month) string {
	return "cc-carry-" + m.String()
}

// CheckAndRollover advances s to wall when wall is strictly later than the
// recorded month. It reports whether a rollover happened; calling it again
// with the same wall month is a no-op.
func CheckAndRollover(s model.BudgetState, wall month.Month) (model.BudgetState, bool) {
	if !wall.After(s.CurrentMonth) {
		return s, false
	}
	return Rollover(s, wall), true
}

// Rollover closes the current month and opens next. The closing month is
// archived, balances carry over, installments advance by one and bills
// start unpaid with a fresh card carry line.
func Rollover(s model.BudgetState, next month.Month) model.BudgetState {
	cash := RemainingCash(s)
	yk := RemainingYK(s)
	card := CardTotal(s.CCDebts)

	out := s.Clone()

	archived := s.Archive()
	out.History = filter(out.History, func(h model.MonthlyHistory) bool { return h.Month != s.CurrentMonth })
	out.History = append(out.History, archived)

	debts := []model.CCDebt{}
	active := []model.Installment{}
	for _, in := range s.Installments {
		if in.RemainingInstallments <= 1 {
			continue
		}
		n := in.InstallmentCount - in.RemainingInstallments + 2
		debts = append(debts, in.LineFor(n, LineID(in.ID, next), in.AmountFor(n)))
		in.RemainingInstallments--
		active = append(active, in)
	}

	fixed := make([]model.FixedExpense, 0, len(s.FixedExpenses)+1)
	for _, f := range s.FixedExpenses {
		if f.IsCardCarry() {
			continue
		}
		f.IsPaid = false
		fixed = append(fixed, f)
	}
	if card.IsPositive() {
		fixed = append(fixed, model.FixedExpense{
			ID:     CarryID(next),
			Title:  model.CardCarryTitle,
			Amount: card.Neg(),
		})
	}

	out.CurrentMonth = next
	out.FixedExpenses = fixed
	out.DailyExpenses = []model.DailyExpense{}
	out.CCDebts = debts
	out.Installments = active
	out.Rollover = cash
	out.YKRollover = yk

	// Overrides only shape forecasts. Once a month is live it is edited
	// directly, so its bucket is dropped along with older ones.
	for m, f := range out.FutureData {
		if m.After(next) {
			continue
		}
		if !f.IsEmpty() {
			log.Debug().Stringer("month", m).Stringer("live", next).Msg("dropping planned overrides for a month no longer in the future")
		}
		delete(out.FutureData, m)
	}
	return out
}
