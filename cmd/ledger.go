package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/butce/internal/budget"
	"github.com/theirongolddev/butce/internal/cli"
	"github.com/theirongolddev/butce/internal/model"
	"github.com/theirongolddev/butce/internal/month"
	"github.com/theirongolddev/butce/internal/pipeline"
	"github.com/theirongolddev/butce/internal/projection"
	"github.com/theirongolddev/butce/internal/store"
)

// session is one command's handle on the stored ledger.
type session struct {
	st   *store.Store
	load *pipeline.LoadResult
	book *budget.Book
}

func dbPath() string {
	if flagDB != "" {
		return flagDB
	}
	return store.DefaultPath(appCfg.General.DataDir)
}

// openSession loads the ledger through the pipeline and points the book at
// the --month view.
func openSession() (*session, error) {
	return openSessionWith(pipeline.Options{SkipRollover: flagNoRollover})
}

func openSessionWith(opts pipeline.Options) (*session, error) {
	st, err := store.Open(dbPath())
	if err != nil {
		return nil, err
	}

	res, err := pipeline.Load(st, opts)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	state := res.State
	if res.Fresh {
		income, yk := appCfg.Budget.Seed()
		state.Income, state.YKIncome = income, yk
	}

	if !flagQuiet {
		if res.Corrupt {
			fmt.Fprintln(os.Stderr, "  Stored ledger is unreadable; showing an empty one. See `butce history` to restore a backup.")
		}
		if res.RolledOver {
			fmt.Fprintf(os.Stderr, "  Rolled over %s → %s\n", cli.FormatMonth(res.RolledFrom), cli.FormatMonth(state.CurrentMonth))
		}
	}

	book := budget.NewBook(state)
	if flagMonth != "" {
		m, err := month.Parse(flagMonth)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		book.SetView(m)
	}
	return &session{st: st, load: res, book: book}, nil
}

func (s *session) Close() {
	_ = s.st.Close()
}

// apply runs a routed edit against the viewed month and saves the result.
func (s *session) apply(m budget.Mutation) error {
	if err := s.book.Apply(m); err != nil {
		return explain(err)
	}
	return s.save(pipeline.ReasonSave)
}

func (s *session) save(reason string) error {
	if err := pipeline.Persist(s.st, s.book.State(), reason); err != nil {
		return err
	}
	if keep := appCfg.General.KeepBackups; keep > 0 {
		if n, err := s.st.Prune(model.StorageKey, keep); err != nil {
			log.Warn().Err(err).Msg("pruning backups")
		} else if n > 0 {
			log.Debug().Int64("pruned", n).Msg("old backups removed")
		}
	}
	return nil
}

// explain adds a hint to routing errors.
func explain(err error) error {
	switch {
	case errors.Is(err, budget.ErrHistoryReadOnly):
		return fmt.Errorf("%w (archived months cannot be edited)", err)
	case errors.Is(err, budget.ErrNotPlannable):
		return fmt.Errorf("%w (drop --month to edit the live month)", err)
	case errors.Is(err, projection.ErrSynthesizedLine):
		return fmt.Errorf("%w (edit it in the live month instead)", err)
	}
	return err
}

// resolveID matches an exact ID or a unique prefix of one.
func resolveID(prefix string, ids []string) (string, error) {
	var hits []string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			hits = append(hits, id)
		}
	}
	switch len(hits) {
	case 0:
		return "", fmt.Errorf("no entry with id %q", prefix)
	case 1:
		return hits[0], nil
	default:
		return "", fmt.Errorf("id %q is ambiguous (%d matches)", prefix, len(hits))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func fixedIDs(list []model.FixedExpense) []string {
	ids := make([]string, len(list))
	for i, f := range list {
		ids[i] = f.ID
	}
	return ids
}

func dailyIDs(list []model.DailyExpense) []string {
	ids := make([]string, len(list))
	for i, d := range list {
		ids[i] = d.ID
	}
	return ids
}

func debtIDs(list []model.CCDebt) []string {
	ids := make([]string, len(list))
	for i, d := range list {
		ids[i] = d.ID
	}
	return ids
}

func installmentIDs(list []model.Installment) []string {
	ids := make([]string, len(list))
	for i, in := range list {
		ids[i] = in.ID
	}
	return ids
}
