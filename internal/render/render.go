// Package render is the sink side of the gas-by-postcode pipeline: it turns a
// resolved table with a numeric column and a geometry column into a static
// image artifact. No data flows back into the pipelines.
package render

import (
	"github.com/dublin-energylink/internal/frame"
)

// Renderer consumes a resolved table and produces an image file.
type Renderer interface {
	Render(t *frame.Table, valueColumn, geometryColumn, outPath string) error
}

// Recorder is a Renderer that only records what it was asked to draw. It
// stands in for the real renderer in tests.
type Recorder struct {
	Table          *frame.Table
	ValueColumn    string
	GeometryColumn string
	OutPath        string
	Calls          int
}

func (r *Recorder) Render(t *frame.Table, valueColumn, geometryColumn, outPath string) error {
	r.Table = t
	r.ValueColumn = valueColumn
	r.GeometryColumn = geometryColumn
	r.OutPath = outPath
	r.Calls++
	return nil
}
