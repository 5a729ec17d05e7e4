package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/butce/internal/budget"
	"github.com/theirongolddev/butce/internal/cli"
	"github.com/theirongolddev/butce/internal/exchange"
	"github.com/theirongolddev/butce/internal/migrate"
	"github.com/theirongolddev/butce/internal/model"
	"github.com/theirongolddev/butce/internal/month"
	"github.com/theirongolddev/butce/internal/pipeline"
)

var importCmd = &cobra.Command{
	Use:   "import <file.json | file.xlsx | csv-dir>",
	Short: "Replace the ledger with an exported JSON file, workbook or CSV directory",
	Long: `Import accepts a JSON export of any schema version, upgraded on the way
in, an Excel workbook such as Butce_Yedek_2025-06-01.xlsx, or a directory
of CSV sheets as written by "export --format csv". A ledger whose month is
ahead of the calendar is refused. The previous ledger stays available
through "butce history".`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		now := month.Now()
		state, err := readImport(args[0], now)
		if err != nil {
			return err
		}
		if state.CurrentMonth.After(now) {
			return fmt.Errorf("%s is at %s, after the current month %s", args[0], state.CurrentMonth, now)
		}
		if !flagNoRollover {
			state, _ = budget.CheckAndRollover(state, now)
		}

		s, err := openSessionWith(pipeline.Options{SkipRollover: true})
		if err != nil {
			return err
		}
		defer s.Close()

		s.book.Replace(state)
		if err := s.save(pipeline.ReasonImport); err != nil {
			return err
		}
		fmt.Printf("  Imported ledger at %s with %d archived month(s).\n",
			cli.FormatMonth(state.CurrentMonth), len(state.History))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func readImport(path string, now month.Month) (model.BudgetState, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.BudgetState{}, err
	}
	var wb exchange.Workbook
	switch {
	case info.IsDir():
		wb, err = exchange.ReadDir(path)
	case strings.EqualFold(filepath.Ext(path), ".xlsx"):
		wb, err = exchange.ReadFile(path)
	default:
		return readJSONImport(path, now)
	}
	if err != nil {
		return model.BudgetState{}, err
	}
	state, rep, err := exchange.Decode(wb, now)
	if err != nil {
		return model.BudgetState{}, err
	}
	if rep.Skipped > 0 && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  %d row(s) could not be read and were skipped\n", rep.Skipped)
	}
	return state, nil
}

func readJSONImport(path string, now month.Month) (model.BudgetState, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return model.BudgetState{}, err
	}
	state, err := migrate.Decode(blob, now)
	if err != nil {
		return model.BudgetState{}, fmt.Errorf("%s is not a ledger export: %w", path, err)
	}
	return state, nil
}
