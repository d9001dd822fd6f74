package domain

import "fmt"

// Row maps column name to cell text. Cells are always text at the
// editing layer; any typing is the concern of downstream consumers.
type Row map[string]string

// Table is the tabular variant of a record set: an ordered header
// sequence plus rows keyed by header name. Every row's key set is a
// subset of Headers; inserts back-fill so the invariant holds
// immediately.
type Table struct {
	Headers []string
	Rows    []Row
}

// NewTable builds a table from a header sequence and rows.
func NewTable(headers []string, rows []Row) *Table {
	return &Table{Headers: headers, Rows: rows}
}

// ColumnIndex returns the position of a header, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns the text at (row, column). Missing keys read as "".
func (t *Table) Cell(row int, column string) (string, error) {
	if row < 0 || row >= len(t.Rows) {
		return "", fmt.Errorf("%w: row %d", ErrOutOfBounds, row)
	}
	if t.ColumnIndex(column) < 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	return t.Rows[row][column], nil
}

// SetCell writes raw text verbatim into (row, column).
func (t *Table) SetCell(row int, column, text string) error {
	if row < 0 || row >= len(t.Rows) {
		return fmt.Errorf("%w: row %d", ErrOutOfBounds, row)
	}
	if t.ColumnIndex(column) < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	t.Rows[row][column] = text
	return nil
}

// InsertColumn adds a column at index, back-filling "" into every
// existing row. Duplicate names are rejected so the header sequence
// stays unique.
func (t *Table) InsertColumn(name string, index int) error {
	if name == "" {
		return fmt.Errorf("%w: empty column name", ErrInvalidInput)
	}
	if t.ColumnIndex(name) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
	}
	if index < 0 || index > len(t.Headers) {
		return fmt.Errorf("%w: column index %d", ErrOutOfBounds, index)
	}

	t.Headers = append(t.Headers, "")
	copy(t.Headers[index+1:], t.Headers[index:])
	t.Headers[index] = name

	for _, row := range t.Rows {
		row[name] = ""
	}
	return nil
}

// DeleteColumn removes a header and drops its key from every row.
// Other row data is untouched.
func (t *Table) DeleteColumn(name string) error {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	t.Headers = append(t.Headers[:idx], t.Headers[idx+1:]...)
	for _, row := range t.Rows {
		delete(row, name)
	}
	return nil
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnCount returns the number of headers.
func (t *Table) ColumnCount() int {
	if t == nil {
		return 0
	}
	return len(t.Headers)
}
