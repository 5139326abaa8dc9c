// =============================================================================
// csv2mdx - XLSX Table Loader
// =============================================================================
//
// Tables are often maintained in a spreadsheet and exported to CSV by hand.
// This module reads the workbook directly so the export step can be skipped.
// The sheet is treated exactly like a CSV file:
//
//   | key | name  | pci-321-flag |   <- row 1: header, must contain "key"
//   | k1  | Alice | true         |   <- every later row: one document
//
// Cells are read as their formatted text (what the spreadsheet displays).
// Fully empty rows are skipped. A row with more cells than the header is a
// DataError; shorter rows are padded with empty values because excelize drops
// trailing empty cells.
//
// =============================================================================

package xlsxparser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/csv2mdx/internal/types"
)

// ErrNoSheets is wrapped when the workbook has no worksheet to read.
var ErrNoSheets = errors.New("workbook has no sheets")

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads the named sheet of a workbook into a Table. An empty sheetName
// selects the first sheet.
func Parse(path, sheetName string) (*types.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &types.DataError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	table, err := parseFile(f, path, sheetName)
	if err != nil {
		return nil, &types.DataError{Path: path, Op: "parse", Err: err}
	}
	return table, nil
}

// parseFile extracts the table from an open workbook.
func parseFile(f *excelize.File, source, sheetName string) (*types.Table, error) {
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
		if sheetName == "" {
			return nil, ErrNoSheets
		}
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q: table is empty: no header row", sheetName)
	}

	header := rows[0]
	if err := types.CheckHeader(header); err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheetName, err)
	}

	table := types.NewTable(source, header)

	for i := 1; i < len(rows); i++ {
		row := rows[i]

		if isRowEmpty(row) {
			continue
		}

		if len(row) > len(header) {
			return nil, fmt.Errorf("sheet %q row %d: %d cells, header has %d",
				sheetName, i+1, len(row), len(header))
		}

		table.Add(types.NewRow(header, row))
	}

	return table, nil
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
