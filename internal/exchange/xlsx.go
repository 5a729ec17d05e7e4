package exchange

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// defaultSheet is the sheet excelize.NewFile starts with.
const defaultSheet = "Sheet1"

// numericCols are written as number cells so the workbook sums in a
// spreadsheet. Everything else is text.
var numericCols = map[string]bool{
	ColValue:              true,
	ColAmount:             true,
	ColCurrentInstallment: true,
	ColTotalInstallments:  true,
	ColTotalAmount:        true,
	ColInstallmentCount:   true,
	ColRemaining:          true,
	ColMonthlyAmount:      true,
}

// FileName is the default backup name for a workbook written on day t.
func FileName(t time.Time) string {
	return "Butce_Yedek_" + t.Format("2006-01-02") + ".xlsx"
}

// WriteFile saves wb as a single .xlsx file, one worksheet per sheet.
func WriteFile(path string, wb Workbook) error {
	if len(wb.Sheets) == 0 {
		return ErrNoSheets
	}
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	for i, sh := range wb.Sheets {
		if i == 0 {
			err = f.SetSheetName(defaultSheet, sh.Name)
		} else {
			_, err = f.NewSheet(sh.Name)
		}
		if err != nil {
			return fmt.Errorf("adding sheet %q: %w", sh.Name, err)
		}
		if err := writeWorksheet(f, sh, bold); err != nil {
			return fmt.Errorf("writing sheet %q: %w", sh.Name, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func writeWorksheet(f *excelize.File, sh Sheet, headerStyle int) error {
	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sh.Name, "A1", &header); err != nil {
		return err
	}
	if err := f.SetRowStyle(sh.Name, 1, 1, headerStyle); err != nil {
		return err
	}

	for i, r := range sh.Rows {
		if len(r) == 0 {
			continue
		}
		row := make([]any, len(Columns))
		for j, c := range Columns {
			row[j] = cellValue(c, r[c])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sh.Name, cell, &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(sh.Name, "A", "A", 24)
}

func cellValue(col, v string) any {
	if v == "" {
		return nil
	}
	if numericCols[col] {
		if d, err := decimal.NewFromString(v); err == nil {
			f, _ := d.Float64()
			return f
		}
	}
	return v
}

// ReadFile loads every worksheet of an .xlsx file in workbook order.
// Columns are matched by the header row, as in ReadDir.
func ReadFile(path string) (Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Workbook{}, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return Workbook{}, ErrNoSheets
	}
	var wb Workbook
	for _, name := range names {
		recs, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return Workbook{}, fmt.Errorf("reading sheet %q: %w", name, err)
		}
		sh := sheetFromRecords(name, recs)
		for _, r := range sh.Rows {
			for c, v := range r {
				if numericCols[c] {
					r[c] = cleanNumber(v)
				}
			}
		}
		wb.Sheets = append(wb.Sheets, sh)
	}
	return wb, nil
}

// cleanNumber turns a stored double such as "-333.32999999999998" back
// into the amount it was typed as.
func cleanNumber(v string) string {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return v
	}
	return decimal.NewFromFloat(f).String()
}
