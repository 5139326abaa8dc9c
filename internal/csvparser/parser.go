// =============================================================================
// csv2mdx - CSV Table Loader
// =============================================================================
//
// This module reads the delimited table file and indexes every record by the
// value of its "key" column.
//
// FORMAT:
//   - First record is the header (column names)
//   - Every following record has exactly as many fields as the header
//   - Comma-and-double-quote quoting, read leniently: stray quotes are
//     kept as text rather than rejecting the table (see recordReader)
//   - Delimiter and source encoding come from CSVSettings
//
// FAILURES (all *types.DataError):
//   - file cannot be opened or decoded
//   - file is empty (no header)
//   - header has no "key" column
//   - a record is malformed or has the wrong number of fields
//
// =============================================================================

package csvparser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/csv2mdx/internal/config"
	"github.com/ginjaninja78/csv2mdx/internal/types"
	"github.com/ginjaninja78/csv2mdx/pkg/utils"
)

// ErrEmptyTable is wrapped when the file has no header record.
var ErrEmptyTable = errors.New("table is empty: no header row")

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a delimited table file and returns it indexed by key.
//
// PARAMETERS:
//   - filePath: The path to the table file.
//   - settings: Delimiter and encoding settings.
//
// RETURNS:
//   - The Table. Cell values are kept exactly as read (no trimming).
//   - A *types.DataError if the file cannot be loaded.
func Parse(filePath string, settings config.CSVSettings) (*types.Table, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, &types.DataError{Path: filePath, Op: "open", Err: err}
	}

	text, err := utils.DecodeText(data, settings.Encoding)
	if err != nil {
		return nil, &types.DataError{Path: filePath, Op: "decode", Err: err}
	}

	table, err := ParseReader(strings.NewReader(text), filePath, settings)
	if err != nil {
		return nil, &types.DataError{Path: filePath, Op: "parse", Err: err}
	}
	return table, nil
}

// ParseReader parses already-decoded table text. source is recorded on the
// Table for reporting.
func ParseReader(r io.Reader, source string, settings config.CSVSettings) (*types.Table, error) {
	comma, err := settings.Comma()
	if err != nil {
		return nil, err
	}
	reader := newRecordReader(r, comma)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyTable
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	if err := types.CheckHeader(header); err != nil {
		return nil, err
	}

	table := types.NewTable(source, header)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) != len(header) {
			return nil, &csv.ParseError{
				StartLine: reader.recordLine,
				Line:      reader.recordLine,
				Err:       csv.ErrFieldCount,
			}
		}
		table.Add(types.NewRow(header, record))
	}

	return table, nil
}
