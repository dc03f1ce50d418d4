// Package standardize abstracts the heavyweight address-normalization
// capability behind a narrow interface: free text in, canonical text or
// labelled fragments out. The production implementation wraps libpostal; a
// rules-based implementation covers tests and hosts without the native
// library.
package standardize

import (
	"github.com/dublin-energylink/internal/frame"
)

// Component is one labelled fragment of a parsed address.
type Component struct {
	Value string
	Label string
}

// Standardizer expands a free-text address into candidate canonical spellings
// and parses a canonical spelling into labelled fragments.
type Standardizer interface {
	// Expand returns candidate canonical forms, best first. Pipelines use the
	// first candidate.
	Expand(address string) []string
	// Parse returns the ordered (fragment, label) pairs of an address. The
	// parser is best-effort; not every label is present for every address.
	Parse(address string) []Component
}

// Canonical returns the first expansion candidate, or the input itself when
// the standardizer produces none.
func Canonical(std Standardizer, address string) string {
	candidates := std.Expand(address)
	if len(candidates) == 0 {
		return address
	}
	return candidates[0]
}

// Column writes the canonical form of each value in the `on` column into the
// `to` column.
func Column(t *frame.Table, std Standardizer, on, to string) (*frame.Table, error) {
	if !t.HasColumn(on) {
		return nil, &frame.PreconditionError{Op: "standardize", Column: on}
	}
	values := make([]any, t.Len())
	for i := 0; i < t.Len(); i++ {
		values[i] = Canonical(std, frame.FormatValue(t.At(i, on)))
	}
	return frame.WithColumn(t, to, values)
}

// ParseColumn parses each value of the target column into labelled fragments,
// stored in the result column as []frame.Field ready for frame.ExpandFields.
func ParseColumn(t *frame.Table, std Standardizer, target, result string) (*frame.Table, error) {
	if !t.HasColumn(target) {
		return nil, &frame.PreconditionError{Op: "parse_address", Column: target}
	}
	values := make([]any, t.Len())
	for i := 0; i < t.Len(); i++ {
		components := std.Parse(frame.FormatValue(t.At(i, target)))
		fields := make([]frame.Field, len(components))
		for j, c := range components {
			fields[j] = frame.Field{Label: c.Label, Value: c.Value}
		}
		values[i] = fields
	}
	return frame.WithColumn(t, result, values)
}
