package frame

import "fmt"

// PreconditionError reports a required column missing from a table's schema.
// It is raised before any transformation work starts, so a failing step never
// partially applies.
type PreconditionError struct {
	Op     string
	Column string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: required column %q is not in the table", e.Op, e.Column)
}

// DataTypeError reports a non-numeric, non-null value in a column that was
// being summed.
type DataTypeError struct {
	Column string
	Value  any
}

func (e *DataTypeError) Error() string {
	return fmt.Sprintf("aggregate: non-numeric value %v in column %q", e.Value, e.Column)
}

// CardinalityViolation reports that the actual key multiplicities of a join
// contradict its declared cardinality contract.
type CardinalityViolation struct {
	Contract Cardinality
	Side     string
	Key      string
}

func (e *CardinalityViolation) Error() string {
	return fmt.Sprintf("join: %s side has duplicate key %q under %s contract", e.Side, e.Key, e.Contract)
}

// IndexAlignmentError reports a positional operation run on a table whose row
// index is not dense and zero-based. Filtering and deduplication keep original
// index values, so an explicit ResetIndex is required before such operations.
type IndexAlignmentError struct {
	Op string
}

func (e *IndexAlignmentError) Error() string {
	return fmt.Sprintf("%s: row index is not contiguous from zero; reset the index first", e.Op)
}
