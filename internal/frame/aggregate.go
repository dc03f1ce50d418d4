package frame

import (
	"strings"

	"github.com/shopspring/decimal"
)

// groupKeySep joins group values into one map key. Unit separator keeps
// composite keys unambiguous for ordinary text data.
const groupKeySep = "\x1f"

func groupKey(t *Table, row int, columns []string) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = FormatValue(t.At(row, c))
	}
	return strings.Join(parts, groupKeySep)
}

// numericValue converts a cell to a decimal for summation. Nil and empty
// strings count as zero; numeric strings are parsed (file sources deliver
// text); any other non-null value is a DataTypeError.
func numericValue(column string, v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, nil
	case float64:
		return decimal.NewFromFloat(x), nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case decimal.Decimal:
		return x, nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, &DataTypeError{Column: column, Value: v}
		}
		return d, nil
	default:
		return decimal.Zero, &DataTypeError{Column: column, Value: v}
	}
}

// Aggregate groups rows by the exact values of groupBy, sums source within
// each group and writes the group sum into target on every row of the group.
// The row count is unchanged; collapsing duplicates is Dedupe's job. Sums use
// decimal arithmetic so metered readings do not accumulate float error.
//
// Column delta: adds target (or overwrites it if present).
func Aggregate(t *Table, groupBy []string, source, target string) (*Table, error) {
	if err := requireColumns("aggregate", t, append(append([]string(nil), groupBy...), source)); err != nil {
		return nil, err
	}

	sums := make(map[string]decimal.Decimal)
	for i := 0; i < t.Len(); i++ {
		d, err := numericValue(source, t.At(i, source))
		if err != nil {
			return nil, err
		}
		key := groupKey(t, i, groupBy)
		sums[key] = sums[key].Add(d)
	}

	values := make([]any, t.Len())
	for i := 0; i < t.Len(); i++ {
		f, _ := sums[groupKey(t, i, groupBy)].Float64()
		values[i] = f
	}
	return withColumn(t, target, values), nil
}
