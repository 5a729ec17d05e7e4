// Package migrate upgrades persisted ledger blobs of any historical schema
// version to the current model.
package migrate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/butce/internal/model"
	"github.com/theirongolddev/butce/internal/month"
)

// ErrCorrupt marks a blob that is not a JSON ledger object.
var ErrCorrupt = errors.New("migrate: corrupt ledger blob")

// Load decodes blob into the current schema. It never fails: an empty blob
// yields a fresh ledger and an unreadable one falls back to the same after
// logging. now seeds currentMonth for blobs that predate it.
func Load(blob []byte, now month.Month) model.BudgetState {
	if len(bytes.TrimSpace(blob)) == 0 {
		return model.Empty(now)
	}
	s, err := Decode(blob, now)
	if err != nil {
		log.Warn().Err(err).Int("bytes", len(blob)).Msg("ledger blob unreadable, starting empty")
		return model.Empty(now)
	}
	return s
}

// Decode is Load without the fallback, for callers that must report bad input.
func Decode(blob []byte, now month.Month) (model.BudgetState, error) {
	var head struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal(blob, &head); err != nil {
		return model.BudgetState{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	version := 0
	if head.Version != nil {
		version = *head.Version
	}

	latest, err := upgrade(blob, version, now)
	if err != nil {
		return model.BudgetState{}, fmt.Errorf("%w: version %d: %w", ErrCorrupt, version, err)
	}
	if version > model.SchemaVersion {
		log.Debug().Int("version", version).Msg("ledger written by a newer build, loading as current")
	}
	return toModel(latest, now), nil
}

// Save encodes s in the current schema.
func Save(s model.BudgetState) ([]byte, error) {
	s.Version = model.SchemaVersion
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding ledger: %w", err)
	}
	return data, nil
}

// upgrade decodes blob with the shape of its own version and runs the
// remaining steps. Unknown future versions decode as the latest shape.
func upgrade(blob []byte, version int, now month.Month) (snapshotV6, error) {
	switch {
	case version <= 0:
		var s snapshotV0
		if err := json.Unmarshal(blob, &s); err != nil {
			return snapshotV6{}, err
		}
		return fromV0(s, now), nil
	case version == 1:
		var s snapshotV1
		if err := json.Unmarshal(blob, &s); err != nil {
			return snapshotV6{}, err
		}
		return fromV1(s, now), nil
	case version == 2:
		var s snapshotV2
		if err := json.Unmarshal(blob, &s); err != nil {
			return snapshotV6{}, err
		}
		return fromV2(s), nil
	case version == 3:
		var s snapshotV3
		if err := json.Unmarshal(blob, &s); err != nil {
			return snapshotV6{}, err
		}
		return fromV3(s), nil
	case version == 4:
		var s snapshotV4
		if err := json.Unmarshal(blob, &s); err != nil {
			return snapshotV6{}, err
		}
		return fromV4(s), nil
	case version == 5:
		var s snapshotV5
		if err := json.Unmarshal(blob, &s); err != nil {
			return snapshotV6{}, err
		}
		return fromV5(s), nil
	default:
		var s snapshotV6
		if err := json.Unmarshal(blob, &s); err != nil {
			return snapshotV6{}, err
		}
		return s, nil
	}
}

// PeekVersion returns the schema version recorded in blob, 0 when absent
// or unreadable.
func PeekVersion(blob []byte) int {
	var head struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal(blob, &head); err != nil || head.Version == nil {
		return 0
	}
	return *head.Version
}
