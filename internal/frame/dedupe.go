package frame

// Dedupe keeps exactly one row per distinct combination of key column values,
// the first encountered in input order. Surviving rows keep their original
// index values, so a Dedupe is typically followed by ResetIndex before any
// positional operation.
func Dedupe(t *Table, keys []string) (*Table, error) {
	if err := requireColumns("dedupe", t, keys); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, t.Len())
	var rows [][]any
	var index []int
	for i := 0; i < t.Len(); i++ {
		key := groupKey(t, i, keys)
		if seen[key] {
			continue
		}
		seen[key] = true
		rows = append(rows, append([]any(nil), t.rows[i]...))
		index = append(index, t.index[i])
	}
	return build(append([]string(nil), t.columns...), rows, index), nil
}
