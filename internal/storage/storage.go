// Package storage is the file and database boundary of the pipelines. It
// reads raw tabular sources (CSV, parquet, spreadsheet, GeoJSON boundaries)
// into frame.Tables and writes resolved tables back out. Pipeline logic never
// inspects file bytes; everything passes through this package.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dublin-energylink/internal/frame"
)

// ReadTable reads a tabular file, dispatching on the file extension.
func ReadTable(path string) (*frame.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(path)
	case ".parquet":
		return ReadParquet(path)
	case ".xlsx":
		return ReadWorkbook(path, "")
	case ".geojson", ".json":
		return ReadGeoJSON(path)
	default:
		return nil, fmt.Errorf("read %s: unsupported table format", path)
	}
}

// WriteTable writes a table, dispatching on the file extension. The write is
// atomic: content lands in a temporary file in the target directory and is
// renamed into place only once fully written, so a failed run never leaves a
// partial output artifact.
func WriteTable(t *frame.Table, path string) error {
	write := WriteCSV
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
	case ".parquet":
		write = WriteParquet
	default:
		return fmt.Errorf("write %s: unsupported table format", path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp output: %w", err)
	}
	tmpName := tmp.Name()
	tmp.Close()
	if err := write(t, tmpName); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

// columnIsNumeric reports whether every non-nil value in the column is a
// float64, which is how sums and parsed measures are stored.
func columnIsNumeric(t *frame.Table, column string) bool {
	sawFloat := false
	for i := 0; i < t.Len(); i++ {
		switch t.At(i, column).(type) {
		case nil:
		case float64:
			sawFloat = true
		default:
			return false
		}
	}
	return sawFloat
}
