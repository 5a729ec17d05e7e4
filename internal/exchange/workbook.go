// Package exchange converts a ledger to and from a spreadsheet workbook:
// one sheet for the live month plus one per archived month. On disk a
// workbook is a single .xlsx file, or a directory of CSV files.
package exchange

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Column headers, in the order they are written.
const (
	ColSection            = "Section"
	ColValue              = "Value"
	ColType               = "Type"
	ColID                 = "ID"
	ColTitle              = "Title"
	ColDescription        = "Description"
	ColDate               = "Date"
	ColAmount             = "Amount"
	ColIsPaid             = "IsPaid"
	ColExpenseType        = "ExpenseType"
	ColInstallmentID      = "InstallmentId"
	ColCurrentInstallment = "CurrentInstallment"
	ColTotalInstallments  = "TotalInstallments"
	ColTotalAmount        = "TotalAmount"
	ColInstallmentCount   = "InstallmentCount"
	ColRemaining          = "RemainingInstallments"
	ColMonthlyAmount      = "MonthlyAmount"
	ColStartDate          = "StartDate"
	ColNote               = "Note"
)

// Columns is the header row of every sheet.
var Columns = []string{
	ColSection, ColValue, ColType, ColID, ColTitle, ColDescription, ColDate,
	ColAmount, ColIsPaid, ColExpenseType, ColInstallmentID, ColCurrentInstallment,
	ColTotalInstallments, ColTotalAmount, ColInstallmentCount, ColRemaining,
	ColMonthlyAmount, ColStartDate, ColNote,
}

// ErrNoSheets is returned when a workbook holds no sheets.
var ErrNoSheets = errors.New("exchange: workbook has no sheets")

// Row is one sheet row keyed by column header. Missing keys read as "".
type Row map[string]string

// Sheet is a named list of rows.
type Sheet struct {
	Name string
	Rows []Row
}

// Workbook is an ordered set of sheets.
type Workbook struct {
	Sheets []Sheet
}

// Sheet returns the sheet with the given name.
func (w Workbook) Sheet(name string) (Sheet, bool) {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}

// WriteDir writes each sheet to dir as "<name>.csv".
func WriteDir(dir string, wb Workbook) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating workbook dir: %w", err)
	}
	for _, sh := range wb.Sheets {
		if err := writeSheet(filepath.Join(dir, sh.Name+".csv"), sh); err != nil {
			return fmt.Errorf("writing sheet %q: %w", sh.Name, err)
		}
	}
	return nil
}

func writeSheet(path string, sh Sheet) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Columns); err != nil {
		return err
	}
	rec := make([]string, len(Columns))
	for _, r := range sh.Rows {
		for i, c := range Columns {
			rec[i] = r[c]
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// ReadDir reads every "*.csv" file in dir as a sheet, ordered by name.
// Columns are matched by header, so extra or reordered columns are fine.
func ReadDir(dir string) (Workbook, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return Workbook{}, fmt.Errorf("listing sheets: %w", err)
	}
	if len(paths) == 0 {
		return Workbook{}, ErrNoSheets
	}
	sort.Strings(paths)

	var wb Workbook
	for _, p := range paths {
		sh, err := readSheet(p)
		if err != nil {
			return Workbook{}, fmt.Errorf("reading sheet %s: %w", filepath.Base(p), err)
		}
		wb.Sheets = append(wb.Sheets, sh)
	}
	return wb, nil
}

func readSheet(path string) (Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return Sheet{}, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	recs, err := r.ReadAll()
	if err != nil {
		return Sheet{}, err
	}
	return sheetFromRecords(strings.TrimSuffix(filepath.Base(path), ".csv"), recs), nil
}

// sheetFromRecords keys each record after the first by the header row.
func sheetFromRecords(name string, recs [][]string) Sheet {
	sh := Sheet{Name: name}
	if len(recs) == 0 {
		return sh
	}
	header := recs[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for _, rec := range recs[1:] {
		row := Row{}
		for i, v := range rec {
			if i < len(header) && v != "" {
				row[strings.TrimSpace(header[i])] = v
			}
		}
		sh.Rows = append(sh.Rows, row)
	}
	return sh
}
