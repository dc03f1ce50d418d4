package render

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb"

	"github.com/dublin-energylink/internal/frame"
)

func TestSVGRender(t *testing.T) {
	tbl := frame.New("Consumption (GWh)", "geometry")
	tbl.Append(10.0, orb.Polygon{orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}}})
	tbl.Append(nil, orb.Polygon{orb.Ring{{1, 1}, {2, 1}, {2, 2}, {1, 1}}})
	tbl.Append(5.0, nil) // right-only join rows carry no geometry

	path := filepath.Join(t.TempDir(), "map.svg")
	if err := NewSVG().Render(tbl, "Consumption (GWh)", "geometry", path); err != nil {
		t.Fatalf("Render: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, "<svg") {
		t.Error("output is not an SVG document")
	}
	if got := strings.Count(content, "<path"); got != 2 {
		t.Errorf("paths = %d, want one per geometry row", got)
	}
	// The valueless shape is drawn unshaded.
	if !strings.Contains(content, "#dddddd") {
		t.Error("missing unshaded fill")
	}
}

func TestSVGRenderMissingColumn(t *testing.T) {
	tbl := frame.New("geometry")
	tbl.Append(nil)

	err := NewSVG().Render(tbl, "Consumption (GWh)", "geometry", filepath.Join(t.TempDir(), "map.svg"))
	var precondition *frame.PreconditionError
	if !errors.As(err, &precondition) {
		t.Fatalf("want PreconditionError, got %v", err)
	}
}
