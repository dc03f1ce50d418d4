package frame

// ExpandFields flattens a column of []Field values into one new column per
// distinct label, positionally aligned by row index. Labels appear in the
// order they are first seen across rows; a row missing a label gets nil. When
// a row repeats a label the last fragment wins.
//
// The table's index must be dense and zero-based, because alignment is
// positional: run ResetIndex first if any upstream step filtered rows.
func ExpandFields(t *Table, source string) (*Table, error) {
	if err := requireColumns("expand_fields", t, []string{source}); err != nil {
		return nil, err
	}
	for i, idx := range t.index {
		if idx != i {
			return nil, &IndexAlignmentError{Op: "expand_fields"}
		}
	}

	var labels []string
	seen := make(map[string]bool)
	perRow := make([]map[string]string, t.Len())
	for i := 0; i < t.Len(); i++ {
		fields, _ := t.At(i, source).([]Field)
		m := make(map[string]string, len(fields))
		for _, f := range fields {
			if !seen[f.Label] {
				seen[f.Label] = true
				labels = append(labels, f.Label)
			}
			m[f.Label] = f.Value
		}
		perRow[i] = m
	}

	out := build(append([]string(nil), t.columns...), copyRows(t.rows), append([]int(nil), t.index...))
	for _, label := range labels {
		values := make([]any, t.Len())
		for i := 0; i < t.Len(); i++ {
			if v, ok := perRow[i][label]; ok {
				values[i] = v
			}
		}
		out = withColumn(out, label, values)
	}
	return out, nil
}
