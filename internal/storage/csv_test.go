package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dublin-energylink/internal/frame"
)

func TestCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meters.csv")

	in := frame.New("standardised_address", "summated_electricity_demand_kwh_year")
	in.Append("peamount hospital newcastle", 150.0)
	in.Append("three seasons dun laoghaire", 7.5)

	if err := WriteCSV(in, path); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	out, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}

	if out.Len() != 2 {
		t.Fatalf("rows = %d, want 2", out.Len())
	}
	// Everything comes back as text; sums serialize without a trailing zero.
	if got := out.At(0, "summated_electricity_demand_kwh_year"); got != "150" {
		t.Errorf("sum = %q, want 150", got)
	}
	if got := out.At(1, "summated_electricity_demand_kwh_year"); got != "7.5" {
		t.Errorf("sum = %q, want 7.5", got)
	}
}

func TestReadCSVNamesBlankHeaders(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "survey.csv")
	content := "District,,Units\nDublin 1,10,GWh\nDublin 2\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if !out.HasColumn("column_1") {
		t.Fatalf("columns = %v, want positional name for blank header", out.Columns())
	}
	if got := out.At(0, "column_1"); got != "10" {
		t.Errorf("column_1 = %q", got)
	}
	// Short records pad with empty cells.
	if got := out.At(1, "Units"); got != "" {
		t.Errorf("padded cell = %q, want empty", got)
	}
}

func TestWriteTableDispatchesAndIsAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	in := frame.New("a")
	in.Append("x")
	if err := WriteTable(in, path); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("temp artifact left behind: %s", e.Name())
		}
	}
	if _, err := ReadTable(path); err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
}

func TestWriteTableRejectsUnknownFormat(t *testing.T) {
	in := frame.New("a")
	if err := WriteTable(in, filepath.Join(t.TempDir(), "out.txt")); err == nil {
		t.Fatal("want error for unsupported format")
	}
}
