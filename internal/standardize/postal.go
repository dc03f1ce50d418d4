package standardize

import (
	expand "github.com/openvenues/gopostal/expand"
	parser "github.com/openvenues/gopostal/parser"
)

// Postal standardizes addresses with libpostal via the gopostal bindings.
// Expansion and parsing both run fully in process; libpostal's language data
// must be installed on the host.
type Postal struct{}

// NewPostal returns the libpostal-backed standardizer.
func NewPostal() *Postal {
	return &Postal{}
}

// Expand returns libpostal's expansion candidates for the address.
func (p *Postal) Expand(address string) []string {
	return expand.ExpandAddress(address)
}

// Parse returns libpostal's labelled components for the address.
func (p *Postal) Parse(address string) []Component {
	parsed := parser.ParseAddress(address)
	components := make([]Component, len(parsed))
	for i, c := range parsed {
		components[i] = Component{Value: c.Value, Label: c.Label}
	}
	return components
}
