// =============================================================================
// csv2mdx - Shared Types
// =============================================================================
//
// This package contains the types shared by the loaders, the renderer, the
// file manager and the batch runner. Keeping them here avoids import cycles
// between:
//   - csvparser / xlsxparser (produce Tables)
//   - template (produces Templates)
//   - render, validation, converter (consume both)
//
// =============================================================================

package types

// KeyColumn is the header name of the primary-key column. Its value names the
// output document for the row.
const KeyColumn = "key"

// =============================================================================
// ROW
// =============================================================================

// Row is a single table record: column name -> cell value, in header order.
type Row struct {
	// Columns holds the column names in header order. A header that repeats a
	// name keeps its first position.
	Columns []string

	// Values maps column name to the raw (untrimmed) cell value.
	Values map[string]string
}

// NewRow zips header names with a record's fields. When a header name repeats,
// the later field's value wins.
func NewRow(header, fields []string) *Row {
	row := &Row{
		Columns: make([]string, 0, len(header)),
		Values:  make(map[string]string, len(header)),
	}
	for i, name := range header {
		var value string
		if i < len(fields) {
			value = fields[i]
		}
		row.Set(name, value)
	}
	return row
}

// Set assigns a column value, appending the column if it is new.
func (r *Row) Set(column, value string) {
	if _, exists := r.Values[column]; !exists {
		r.Columns = append(r.Columns, column)
	}
	r.Values[column] = value
}

// Get returns the raw value of a column.
func (r *Row) Get(column string) (string, bool) {
	v, ok := r.Values[column]
	return v, ok
}

// Key returns the row's primary-key value.
func (r *Row) Key() string {
	return r.Values[KeyColumn]
}

// =============================================================================
// TABLE
// =============================================================================

// Table indexes rows by primary key and remembers the key iteration order.
type Table struct {
	// SourceFile is the path the table was loaded from.
	SourceFile string

	// Header is the column list of the source file.
	Header []string

	// Keys lists every distinct key in first-seen order.
	Keys []string

	// Rows maps key -> row. A duplicate key replaces the earlier row but keeps
	// the earlier position in Keys.
	Rows map[string]*Row

	// Duplicates lists keys that appeared more than once, in the order the
	// repeat was seen.
	Duplicates []string

	// RecordCount is the number of data records read, duplicates included.
	RecordCount int
}

// NewTable creates an empty table for the given source and header.
func NewTable(source string, header []string) *Table {
	return &Table{
		SourceFile: source,
		Header:     header,
		Rows:       make(map[string]*Row),
	}
}

// Add indexes a row by its key (last write wins).
func (t *Table) Add(row *Row) {
	key := row.Key()
	t.RecordCount++
	if _, exists := t.Rows[key]; exists {
		t.Duplicates = append(t.Duplicates, key)
	} else {
		t.Keys = append(t.Keys, key)
	}
	t.Rows[key] = row
}

// Len returns the number of distinct keys.
func (t *Table) Len() int {
	return len(t.Keys)
}

// HasColumn reports whether the header contains the named column.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Header {
		if h == name {
			return true
		}
	}
	return false
}

// =============================================================================
// TEMPLATE
// =============================================================================

// Template is the document template text. It is read once and never modified;
// every render starts from Text.
type Template struct {
	// SourceFile is the path the template was loaded from.
	SourceFile string

	// Text is the full template content.
	Text string
}

// CheckHeader verifies that a header can index a Table.
func CheckHeader(header []string) error {
	for _, name := range header {
		if name == KeyColumn {
			return nil
		}
	}
	return ErrMissingKeyColumn
}
