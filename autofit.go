package swisskit

import (
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const (
	minColumnWidth = 4
	maxColumnWidth = 60
)

// columnWidths tracks the longest value written to each column (1-based) so
// a sheet can be auto-fitted once all rows are in.
type columnWidths map[int]int

func (w columnWidths) observe(col int, value string) {
	if n := utf8.RuneCountInString(value); n > w[col] {
		w[col] = n
	}
}

func (w columnWidths) observeRow(values []string) {
	for i, v := range values {
		w.observe(i+1, v)
	}
}

// apply sets each observed column's width to fit its longest value.
func (w columnWidths) apply(f *excelize.File, sheet string) error {
	for col, n := range w {
		width := float64(n + 2)
		if width < minColumnWidth {
			width = minColumnWidth
		}
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return fmt.Errorf("column %d: %w", col, err)
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return fmt.Errorf("set width of %s!%s: %w", sheet, name, err)
		}
	}
	return nil
}

// setRow writes string values starting at column A of the given 1-based row.
func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
