package batch

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Defaults for the workbook layout: one sheet of cocktail names under a
// single header cell.
const (
	DefaultSheet  = "Cocktails"
	DefaultColumn = "Name"
	MaxRows       = 10000
)

// ReadNames loads cocktail names from the given column of an Excel workbook.
// The first row is treated as a header row; blank cells are skipped and at
// most maxRows names are returned (MaxRows when maxRows <= 0).
func ReadNames(path, sheet, column string, maxRows int) ([]string, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}
	if column == "" {
		column = DefaultColumn
	}
	if maxRows <= 0 {
		maxRows = MaxRows
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	col := -1
	for i, header := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(header), column) {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("sheet %q has no %q column", sheet, column)
	}

	var names []string
	for _, row := range rows[1:] {
		if col >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[col])
		if name == "" {
			continue
		}
		names = append(names, name)
		if len(names) >= maxRows {
			break
		}
	}
	return names, nil
}
