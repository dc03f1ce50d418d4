package frame

import (
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// CombineColumns joins the text of the named columns with ", " into a new
// column. Column delta: adds toColumn (or overwrites it if present).
func CombineColumns(t *Table, columns []string, toColumn string) (*Table, error) {
	if err := requireColumns("combine_columns", t, columns); err != nil {
		return nil, err
	}
	values := make([]any, t.Len())
	for i := 0; i < t.Len(); i++ {
		parts := make([]string, 0, len(columns))
		for _, c := range columns {
			parts = append(parts, FormatValue(t.At(i, c)))
		}
		values[i] = strings.Join(parts, ", ")
	}
	return withColumn(t, toColumn, values), nil
}

// RenameColumns renames columns according to mapping. Every key must name an
// existing column. Column delta: renames only, order and values unchanged.
func RenameColumns(t *Table, mapping map[string]string) (*Table, error) {
	for from := range mapping {
		if !t.HasColumn(from) {
			return nil, &PreconditionError{Op: "rename_columns", Column: from}
		}
	}
	columns := make([]string, len(t.columns))
	for i, c := range t.columns {
		if to, ok := mapping[c]; ok {
			columns[i] = to
		} else {
			columns[i] = c
		}
	}
	return build(columns, copyRows(t.rows), append([]int(nil), t.index...)), nil
}

// ExtractColumns keeps only the named columns, in the given order.
func ExtractColumns(t *Table, columns []string) (*Table, error) {
	if err := requireColumns("extract_columns", t, columns); err != nil {
		return nil, err
	}
	rows := make([][]any, t.Len())
	for i := 0; i < t.Len(); i++ {
		row := make([]any, len(columns))
		for j, c := range columns {
			row[j] = t.At(i, c)
		}
		rows[i] = row
	}
	return build(append([]string(nil), columns...), rows, append([]int(nil), t.index...)), nil
}

// DropColumns removes the named columns. Column delta: drops exactly columns.
func DropColumns(t *Table, columns []string) (*Table, error) {
	if err := requireColumns("drop_columns", t, columns); err != nil {
		return nil, err
	}
	dropped := make(map[string]bool, len(columns))
	for _, c := range columns {
		dropped[c] = true
	}
	keep := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		if !dropped[c] {
			keep = append(keep, c)
		}
	}
	return ExtractColumns(t, keep)
}

// ResetIndex renumbers the row index to 0..N-1. Required after any filtering
// step and before positional operations such as ExpandFields.
func ResetIndex(t *Table) *Table {
	index := make([]int, t.Len())
	for i := range index {
		index[i] = i
	}
	return build(append([]string(nil), t.columns...), copyRows(t.rows), index)
}

// NormalizeWhitespace collapses runs of whitespace in target to single spaces,
// trims the ends and writes the cleaned text to result (which may equal
// target). Non-string cells are rendered to text first.
func NormalizeWhitespace(t *Table, target, result string) (*Table, error) {
	if err := requireColumns("normalize_whitespace", t, []string{target}); err != nil {
		return nil, err
	}
	values := make([]any, t.Len())
	for i := 0; i < t.Len(); i++ {
		s := whitespaceRe.ReplaceAllString(FormatValue(t.At(i, target)), " ")
		values[i] = strings.TrimSpace(s)
	}
	return withColumn(t, result, values), nil
}

// FilterContains keeps rows whose target column contains substring. Surviving
// rows keep their original index values, so the result's index may be
// non-contiguous.
func FilterContains(t *Table, target, substring string) (*Table, error) {
	if err := requireColumns("filter_contains", t, []string{target}); err != nil {
		return nil, err
	}
	var rows [][]any
	var index []int
	for i := 0; i < t.Len(); i++ {
		if strings.Contains(FormatValue(t.At(i, target)), substring) {
			rows = append(rows, append([]any(nil), t.rows[i]...))
			index = append(index, t.index[i])
		}
	}
	return build(append([]string(nil), t.columns...), rows, index), nil
}

// ReplaceUnmatched writes repl into result for every row whose target value
// does not match re, and the original value otherwise. Used to collapse
// free-form county postcode spellings onto one canonical label.
func ReplaceUnmatched(t *Table, target, result string, re *regexp.Regexp, repl string) (*Table, error) {
	if err := requireColumns("replace_unmatched", t, []string{target}); err != nil {
		return nil, err
	}
	values := make([]any, t.Len())
	for i := 0; i < t.Len(); i++ {
		s := FormatValue(t.At(i, target))
		if re.MatchString(s) {
			values[i] = s
		} else {
			values[i] = repl
		}
	}
	return withColumn(t, result, values), nil
}

// WithColumn returns a new table with the named column set to values, which
// must have one entry per row. The column is appended, or replaced in place if
// it already exists.
func WithColumn(t *Table, name string, values []any) (*Table, error) {
	if len(values) != t.Len() {
		return nil, &PreconditionError{Op: "with_column", Column: name}
	}
	return withColumn(t, name, values), nil
}

func withColumn(t *Table, name string, values []any) *Table {
	rows := copyRows(t.rows)
	if idx, ok := t.colIdx[name]; ok {
		for i := range rows {
			rows[i][idx] = values[i]
		}
		return build(append([]string(nil), t.columns...), rows, append([]int(nil), t.index...))
	}
	columns := append(append([]string(nil), t.columns...), name)
	for i := range rows {
		rows[i] = append(rows[i], values[i])
	}
	return build(columns, rows, append([]int(nil), t.index...))
}
