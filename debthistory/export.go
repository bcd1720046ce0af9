package debthistory

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Historique"

// ExportFilename names an export of the given format ("csv" or "xlsx").
func ExportFilename(stamp, format string) string {
	return fmt.Sprintf("historique-dettes-%s.%s", stamp, format)
}

// WriteCSV writes a header line then one line per row.
func WriteCSV(w io.Writer, cols []Column, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(headers(cols)); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	if err := writer.WriteAll(rows); err != nil {
		return errors.Wrap(err, "write csv rows")
	}
	return nil
}

// WriteXLSX writes rows to a single-sheet workbook, sizing columns from
// their table widths.
func WriteXLSX(w io.Writer, cols []Column, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return errors.Wrap(err, "name sheet")
	}

	for i, c := range cols {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return errors.Wrap(err, "column name")
		}
		if err := f.SetColWidth(exportSheet, name, name, float64(c.Width)/7); err != nil {
			return errors.Wrap(err, "column width")
		}
	}

	if err := f.SetSheetRow(exportSheet, "A1", toCells(headers(cols))); err != nil {
		return errors.Wrap(err, "write xlsx header")
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "cell name")
		}
		if err := f.SetSheetRow(exportSheet, cell, rowCells(cols, row)); err != nil {
			return errors.Wrap(err, "write xlsx row")
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "write xlsx")
	}
	return nil
}

func headers(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Header
	}
	return out
}

// rowCells converts numeric columns to float64 so spreadsheets can sum them.
// Blank or unreadable amounts stay text.
func rowCells(cols []Column, values []string) *[]interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
		if i >= len(cols) || !cols[i].Numeric {
			continue
		}
		if d, err := decimal.NewFromString(v); err == nil {
			cells[i] = d.InexactFloat64()
		}
	}
	return &cells
}

func toCells(values []string) *[]interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return &cells
}
