package migrate

import (
	"github.com/theirongolddev/butce/internal/model"
	"github.com/theirongolddev/butce/internal/month"
)

// Every step is pure and idempotent. Steps copy the slices they touch.

func v0ToV1(s snapshotV0) snapshotV1 {
	s.DailyExpenses = mapSlice(s.DailyExpenses, func(d dailyV0) dailyV0 {
		d.Amount = model.Outflow(d.Amount)
		return d
	})
	return snapshotV1{Version: 1, snapshotV0: s}
}

func v1ToV2(s snapshotV1, now month.Month) snapshotV2 {
	s.Version = 2
	return snapshotV2{
		snapshotV1:   s,
		CurrentMonth: now.String(),
		Installments: []installmentV2{},
		History:      []historyV2{},
	}
}

func v2ToV3(s snapshotV2) snapshotV3 {
	negate := func(d debtV0) debtV0 {
		d.Amount = model.Outflow(d.Amount)
		return d
	}
	s.Version = 3
	s.CCDebts = mapSlice(s.CCDebts, negate)
	s.Installments = mapSlice(s.Installments, func(in installmentV2) installmentV2 {
		in.TotalAmount = model.Outflow(in.TotalAmount)
		in.MonthlyAmount = model.Outflow(in.MonthlyAmount)
		return in
	})
	s.History = mapSlice(s.History, func(h historyV2) historyV2 {
		h.CCDebts = mapSlice(h.CCDebts, negate)
		return h
	})
	return snapshotV3(s)
}

func v3ToV4(s snapshotV3) snapshotV4 {
	s.Version = 4
	return snapshotV4{snapshotV3: s, FutureData: map[string]futureV4{}}
}

// v4ToV5 keeps only the last appended card carry line.
func v4ToV5(s snapshotV4) snapshotV5 {
	s.Version = 5
	s.FixedExpenses = dedupeCarry(s.FixedExpenses)
	return snapshotV5(s)
}

func v5ToV6(s snapshotV5) snapshotV6 {
	negate := func(f fixedV0) fixedV0 {
		f.Amount = model.Outflow(f.Amount)
		return f
	}
	s.Version = 6
	s.FixedExpenses = mapSlice(s.FixedExpenses, negate)
	s.History = mapSlice(s.History, func(h historyV2) historyV2 {
		h.FixedExpenses = mapSlice(h.FixedExpenses, negate)
		return h
	})
	if s.FutureData != nil {
		future := make(map[string]futureV4, len(s.FutureData))
		for k, f := range s.FutureData {
			if f.FixedExpenses != nil {
				f.FixedExpenses = mapSlice(f.FixedExpenses, negate)
			}
			future[k] = f
		}
		s.FutureData = future
	}
	return snapshotV6(s)
}

func dedupeCarry(in []fixedV0) []fixedV0 {
	last := -1
	for i, f := range in {
		if f.Title == model.CardCarryTitle {
			last = i
		}
	}
	out := make([]fixedV0, 0, len(in))
	for i, f := range in {
		if f.Title == model.CardCarryTitle && i != last {
			continue
		}
		out = append(out, f)
	}
	return out
}

func mapSlice[T any](in []T, fn func(T) T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}

// Chains from each version to the latest.

func fromV0(s snapshotV0, now month.Month) snapshotV6 { return fromV1(v0ToV1(s), now) }
func fromV1(s snapshotV1, now month.Month) snapshotV6 { return fromV2(v1ToV2(s, now)) }
func fromV2(s snapshotV2) snapshotV6                  { return fromV3(v2ToV3(s)) }
func fromV3(s snapshotV3) snapshotV6                  { return fromV4(v3ToV4(s)) }
func fromV4(s snapshotV4) snapshotV6                  { return fromV5(v4ToV5(s)) }
func fromV5(s snapshotV5) snapshotV6                  { return v5ToV6(s) }
