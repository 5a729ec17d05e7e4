package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/butce/internal/exchange"
	"github.com/theirongolddev/butce/internal/migrate"
)

var (
	flagExportFormat string
	flagExportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the ledger as JSON, an Excel workbook or CSV sheets",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()
		state := s.book.State()

		switch flagExportFormat {
		case "json":
			blob, err := migrate.Save(state)
			if err != nil {
				return err
			}
			if flagExportOut == "" || flagExportOut == "-" {
				_, err = os.Stdout.Write(append(blob, '\n'))
				return err
			}
			if err := os.WriteFile(flagExportOut, blob, 0o600); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}
		case "xlsx":
			if flagExportOut == "" {
				flagExportOut = exchange.FileName(time.Now())
			}
			if err := exchange.WriteFile(flagExportOut, exchange.Encode(state)); err != nil {
				return err
			}
		case "csv", "sheets":
			if flagExportOut == "" {
				return errors.New("--out <directory> is required for csv")
			}
			wb := exchange.Encode(state)
			if err := exchange.WriteDir(flagExportOut, wb); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown format %q (json, xlsx or csv)", flagExportFormat)
		}
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Exported to %s\n", flagExportOut)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportFormat, "format", "f", "json", "Output format: json, xlsx or csv")
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "Output file (json, xlsx) or directory (csv)")
	rootCmd.AddCommand(exportCmd)
}
