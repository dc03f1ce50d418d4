package frame

// JoinMode controls which unmatched rows survive a join.
type JoinMode string

const (
	JoinInner JoinMode = "inner"
	JoinLeft  JoinMode = "left"
	JoinOuter JoinMode = "outer"
)

// Cardinality is a declared, validated contract on key multiplicities.
type Cardinality string

const (
	OneToOne   Cardinality = "one_to_one"
	OneToMany  Cardinality = "one_to_many"
	ManyToMany Cardinality = "many_to_many"
)

// Provenance values recorded when a provenance column is requested.
const (
	ProvenanceBoth      = "both"
	ProvenanceLeftOnly  = "left_only"
	ProvenanceRightOnly = "right_only"
)

// JoinOptions configure a Join.
type JoinOptions struct {
	Mode        JoinMode
	Cardinality Cardinality
	// ProvenanceColumn, when non-empty, names an extra column recording which
	// side(s) contributed each output row.
	ProvenanceColumn string
}

// Join merges two tables on the shared key columns. The key columns must
// exist, identically named, on both sides. Non-key columns present on both
// sides are suffixed _left and _right. The declared cardinality is checked
// against the actual key multiplicities before any rows are merged, failing
// with a CardinalityViolation that names the offending side and key. The
// output carries a fresh contiguous index.
func Join(left, right *Table, on []string, opts JoinOptions) (*Table, error) {
	if err := requireColumns("join: left", left, on); err != nil {
		return nil, err
	}
	if err := requireColumns("join: right", right, on); err != nil {
		return nil, err
	}
	if err := checkCardinality(left, right, on, opts.Cardinality); err != nil {
		return nil, err
	}

	onSet := make(map[string]bool, len(on))
	for _, c := range on {
		onSet[c] = true
	}
	leftCols := left.Columns()
	rightCols := right.Columns()

	// Resolve output column names; clashing non-key names get side suffixes.
	rightHas := make(map[string]bool, len(rightCols))
	for _, c := range rightCols {
		rightHas[c] = true
	}
	outCols := make([]string, 0, len(leftCols)+len(rightCols))
	for _, c := range leftCols {
		if !onSet[c] && rightHas[c] {
			outCols = append(outCols, c+"_left")
		} else {
			outCols = append(outCols, c)
		}
	}
	var rightOut []string
	for _, c := range rightCols {
		if onSet[c] {
			continue
		}
		if left.HasColumn(c) {
			rightOut = append(rightOut, c+"_right")
		} else {
			rightOut = append(rightOut, c)
		}
		outCols = append(outCols, rightOut[len(rightOut)-1])
	}
	if opts.ProvenanceColumn != "" {
		outCols = append(outCols, opts.ProvenanceColumn)
	}

	// Index the right side by key, preserving row order within each key.
	rightByKey := make(map[string][]int, right.Len())
	for i := 0; i < right.Len(); i++ {
		key := groupKey(right, i, on)
		rightByKey[key] = append(rightByKey[key], i)
	}
	rightMatched := make([]bool, right.Len())

	var rows [][]any
	emit := func(leftRow, rightRow int, provenance string) {
		row := make([]any, 0, len(outCols))
		for _, c := range leftCols {
			if leftRow >= 0 {
				row = append(row, left.At(leftRow, c))
			} else if onSet[c] {
				row = append(row, right.At(rightRow, c))
			} else {
				row = append(row, nil)
			}
		}
		for _, c := range rightCols {
			if onSet[c] {
				continue
			}
			if rightRow >= 0 {
				row = append(row, right.At(rightRow, c))
			} else {
				row = append(row, nil)
			}
		}
		if opts.ProvenanceColumn != "" {
			row = append(row, provenance)
		}
		rows = append(rows, row)
	}

	for i := 0; i < left.Len(); i++ {
		matches := rightByKey[groupKey(left, i, on)]
		if len(matches) == 0 {
			if opts.Mode == JoinLeft || opts.Mode == JoinOuter {
				emit(i, -1, ProvenanceLeftOnly)
			}
			continue
		}
		for _, j := range matches {
			rightMatched[j] = true
			emit(i, j, ProvenanceBoth)
		}
	}
	if opts.Mode == JoinOuter {
		for j := 0; j < right.Len(); j++ {
			if !rightMatched[j] {
				emit(-1, j, ProvenanceRightOnly)
			}
		}
	}

	index := make([]int, len(rows))
	for i := range index {
		index[i] = i
	}
	return build(outCols, rows, index), nil
}

// checkCardinality validates declared key multiplicities. one_to_one requires
// unique keys on both sides; one_to_many requires unique keys on the left.
func checkCardinality(left, right *Table, on []string, c Cardinality) error {
	switch c {
	case OneToOne:
		if key, dup := firstDuplicateKey(left, on); dup {
			return &CardinalityViolation{Contract: c, Side: "left", Key: key}
		}
		if key, dup := firstDuplicateKey(right, on); dup {
			return &CardinalityViolation{Contract: c, Side: "right", Key: key}
		}
	case OneToMany:
		if key, dup := firstDuplicateKey(left, on); dup {
			return &CardinalityViolation{Contract: c, Side: "left", Key: key}
		}
	case ManyToMany, "":
		// No multiplicity constraint.
	}
	return nil
}

func firstDuplicateKey(t *Table, on []string) (string, bool) {
	seen := make(map[string]bool, t.Len())
	for i := 0; i < t.Len(); i++ {
		key := groupKey(t, i, on)
		if seen[key] {
			return key, true
		}
		seen[key] = true
	}
	return "", false
}
