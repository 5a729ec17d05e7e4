// Package pipeline connects storage to the engine: it reads the persisted
// ledger, upgrades it, rolls it to the wall-clock month and writes back
// whatever changed.
package pipeline

import (
	"bytes"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/butce/internal/ledger"
	"github.com/theirongolddev/butce/internal/migrate"
	"github.com/theirongolddev/butce/internal/model"
	"github.com/theirongolddev/butce/internal/month"
)

// Storage is the persistence slot the ledger lives in.
type Storage interface {
	Read(key string) ([]byte, error)
	Write(key string, value []byte, version int, reason string) error
}

// Write reasons recorded alongside backups.
const (
	ReasonSave     = "save"
	ReasonMigrate  = "migrate"
	ReasonRollover = "rollover"
	ReasonImport   = "import"
	ReasonRestore  = "restore"
)

// Options controls Load.
type Options struct {
	// Wall is the wall-clock month; zero means now.
	Wall month.Month
	// SkipRollover leaves a lagging ledger at its recorded month.
	SkipRollover bool
}

// LoadResult holds the ledger and what loading did to it.
type LoadResult struct {
	State       model.BudgetState
	Fresh       bool
	Corrupt     bool
	FromVersion int
	RolledFrom  month.Month
	RolledOver  bool
	Persisted   bool
}

// Load reads the ledger from st and brings it up to date. Corrupt data
// yields an empty ledger rather than an error and is not overwritten; only
// storage failures are returned.
func Load(st Storage, opts Options) (*LoadResult, error) {
	wall := opts.Wall
	if wall == 0 {
		wall = month.Now()
	}

	blob, err := st.Read(model.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}

	result := &LoadResult{
		Fresh:       len(bytes.TrimSpace(blob)) == 0,
		FromVersion: migrate.PeekVersion(blob),
	}
	state := model.Empty(wall)
	reason := ""
	if !result.Fresh {
		decoded, err := migrate.Decode(blob, wall)
		if err != nil {
			// The blob stays in place so it can still be recovered by hand.
			log.Warn().Err(err).Msg("stored ledger unreadable, starting empty")
			result.Corrupt = true
		} else {
			state = decoded
		}
	}
	if !result.Fresh && !result.Corrupt && result.FromVersion < model.SchemaVersion {
		reason = ReasonMigrate
		log.Info().Int("from", result.FromVersion).Int("to", model.SchemaVersion).Msg("ledger upgraded")
	}

	if !opts.SkipRollover {
		prev := state.CurrentMonth
		if next, rolled := ledger.CheckAndRollover(state, wall); rolled {
			state = next
			result.RolledOver = true
			result.RolledFrom = prev
			reason = ReasonRollover
			log.Info().Stringer("from", prev).Stringer("to", wall).Msg("month rolled over")
		}
	}

	result.State = state
	if reason != "" {
		if err := Persist(st, state, reason); err != nil {
			return nil, err
		}
		result.Persisted = true
	}
	return result, nil
}

// Persist writes the ledger to st.
func Persist(st Storage, s model.BudgetState, reason string) error {
	blob, err := migrate.Save(s)
	if err != nil {
		return err
	}
	if err := st.Write(model.StorageKey, blob, model.SchemaVersion, reason); err != nil {
		return fmt.Errorf("writing ledger: %w", err)
	}
	return nil
}
