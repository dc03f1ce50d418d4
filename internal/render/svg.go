package render

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/dublin-energylink/internal/frame"
)

// SVG renders a choropleth of the table's geometry column shaded by the value
// column. Rows without a geometry (e.g. right-only join rows) are skipped;
// rows with a geometry but no value are drawn unshaded.
type SVG struct {
	Width  int
	Height int
}

// NewSVG returns an SVG renderer with a default viewport.
func NewSVG() *SVG {
	return &SVG{Width: 800, Height: 600}
}

// Render writes the choropleth to outPath.
func (r *SVG) Render(t *frame.Table, valueColumn, geometryColumn, outPath string) error {
	if !t.HasColumn(valueColumn) {
		return &frame.PreconditionError{Op: "render", Column: valueColumn}
	}
	if !t.HasColumn(geometryColumn) {
		return &frame.PreconditionError{Op: "render", Column: geometryColumn}
	}

	type shape struct {
		geometry orb.Geometry
		value    float64
		hasValue bool
	}
	var shapes []shape
	bound := orb.Bound{}
	minVal, maxVal := 0.0, 0.0
	first := true
	for i := 0; i < t.Len(); i++ {
		geometry, ok := t.At(i, geometryColumn).(orb.Geometry)
		if !ok || geometry == nil {
			continue
		}
		s := shape{geometry: geometry}
		if v, ok := numeric(t.At(i, valueColumn)); ok {
			s.value = v
			s.hasValue = true
			if first || v < minVal {
				minVal = v
			}
			if first || v > maxVal {
				maxVal = v
			}
			first = false
		}
		if len(shapes) == 0 {
			bound = geometry.Bound()
		} else {
			bound = bound.Union(geometry.Bound())
		}
		shapes = append(shapes, s)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`+"\n", r.Width, r.Height)
	for _, s := range shapes {
		fill := "#dddddd"
		if s.hasValue {
			fill = heatColor(s.value, minVal, maxVal)
		}
		for _, ring := range rings(s.geometry) {
			fmt.Fprintf(&b, `<path d=%q fill=%q stroke="#333333" stroke-width="0.5"/>`+"\n",
				r.path(ring, bound), fill)
		}
	}
	b.WriteString("</svg>\n")

	if err := os.WriteFile(outPath, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	return nil
}

// path projects one ring into the viewport, flipping Y so north is up.
func (r *SVG) path(ring orb.Ring, bound orb.Bound) string {
	spanX := bound.Max[0] - bound.Min[0]
	spanY := bound.Max[1] - bound.Min[1]
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}
	var b strings.Builder
	for i, pt := range ring {
		x := (pt[0] - bound.Min[0]) / spanX * float64(r.Width)
		y := float64(r.Height) - (pt[1]-bound.Min[1])/spanY*float64(r.Height)
		if i == 0 {
			b.WriteString("M")
		} else {
			b.WriteString("L")
		}
		b.WriteString(strconv.FormatFloat(x, 'f', 1, 64))
		b.WriteString(",")
		b.WriteString(strconv.FormatFloat(y, 'f', 1, 64))
	}
	b.WriteString("Z")
	return b.String()
}

func rings(geometry orb.Geometry) []orb.Ring {
	switch g := geometry.(type) {
	case orb.Polygon:
		return g
	case orb.MultiPolygon:
		var out []orb.Ring
		for _, polygon := range g {
			out = append(out, polygon...)
		}
		return out
	case orb.Ring:
		return []orb.Ring{g}
	default:
		return nil
	}
}

// heatColor maps value onto a dark-violet to yellow ramp.
func heatColor(v, min, max float64) string {
	frac := 0.0
	if max > min {
		frac = (v - min) / (max - min)
	}
	red := int(60 + frac*195)
	green := int(frac * 220)
	blue := int(130 - frac*100)
	return fmt.Sprintf("#%02x%02x%02x", red, green, blue)
}

func numeric(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
