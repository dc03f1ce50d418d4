// Package frame provides the in-memory table model shared by every pipeline
// step: an ordered set of named columns, row-major values and an explicit row
// index. All transformations are pure functions returning a new Table; no step
// ever mutates its input.
package frame

import (
	"fmt"
	"strconv"
)

// Field is one labelled fragment of a structured address, e.g. {"road", "grange road"}.
// A column of []Field values is what ExpandFields flattens into real columns.
type Field struct {
	Label string
	Value string
}

// Table is an ordered mapping of column names to row values. The schema is
// dynamic: operations add, rename and drop columns explicitly. The index
// records each row's original position; filtering keeps the surviving rows'
// index values, so positional operations can detect a non-contiguous index.
type Table struct {
	columns []string
	colIdx  map[string]int
	rows    [][]any
	index   []int
}

// New creates an empty table with the given column schema.
func New(columns ...string) *Table {
	t := &Table{
		columns: append([]string(nil), columns...),
		colIdx:  make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		t.colIdx[c] = i
	}
	return t
}

// Append adds one row. The number of values must match the column count.
func (t *Table) Append(values ...any) {
	if len(values) != len(t.columns) {
		panic(fmt.Sprintf("frame: appending %d values to a %d-column table", len(values), len(t.columns)))
	}
	t.rows = append(t.rows, append([]any(nil), values...))
	t.index = append(t.index, len(t.index))
}

// Len returns the row count.
func (t *Table) Len() int {
	return len(t.rows)
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.colIdx[name]
	return ok
}

// At returns the value at row i in the named column. It panics on an unknown
// column; callers validate schemas up front via the operation preconditions.
func (t *Table) At(i int, column string) any {
	idx, ok := t.colIdx[column]
	if !ok {
		panic(fmt.Sprintf("frame: unknown column %q", column))
	}
	return t.rows[i][idx]
}

// Column returns a copy of the named column's values in row order.
func (t *Table) Column(name string) []any {
	idx, ok := t.colIdx[name]
	if !ok {
		panic(fmt.Sprintf("frame: unknown column %q", name))
	}
	out := make([]any, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[idx]
	}
	return out
}

// Index returns a copy of the row index.
func (t *Table) Index() []int {
	return append([]int(nil), t.index...)
}

// build assembles a table from pre-computed parts. Rows and index are owned by
// the new table; callers must not alias them afterwards.
func build(columns []string, rows [][]any, index []int) *Table {
	t := &Table{
		columns: columns,
		colIdx:  make(map[string]int, len(columns)),
		rows:    rows,
		index:   index,
	}
	for i, c := range columns {
		t.colIdx[c] = i
	}
	return t
}

// copyRows deep-copies the row slice so derived tables never alias their input.
func copyRows(rows [][]any) [][]any {
	out := make([][]any, len(rows))
	for i, row := range rows {
		out[i] = append([]any(nil), row...)
	}
	return out
}

// requireColumns verifies that every named column exists, failing with a
// PreconditionError naming the first missing column. Every operation calls
// this before touching any data.
func requireColumns(op string, t *Table, columns []string) error {
	for _, c := range columns {
		if !t.HasColumn(c) {
			return &PreconditionError{Op: op, Column: c}
		}
	}
	return nil
}

// FormatValue renders a cell for text output: nil becomes the empty string,
// floats drop their trailing zeros, everything else goes through fmt.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}
