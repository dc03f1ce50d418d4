package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/dublin-energylink/internal/frame"
)

// ReadCSV reads a CSV file into a table. The first record is the header; all
// cells are loaded as strings and short records are padded with empty cells.
func ReadCSV(path string) (*frame.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	t := frame.New(namedColumns(header)...)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		row := make([]any, len(header))
		for i := range header {
			if i < len(record) {
				row[i] = record[i]
			} else {
				row[i] = ""
			}
		}
		t.Append(row...)
	}
	return t, nil
}

// WriteCSV writes a table as CSV with a header record.
func WriteCSV(t *frame.Table, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(t.Columns()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	columns := t.Columns()
	for i := 0; i < t.Len(); i++ {
		record := make([]string, len(columns))
		for j, c := range columns {
			record[j] = frame.FormatValue(t.At(i, c))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// namedColumns gives blank header cells a stable positional name so renames
// can target them, matching how survey spreadsheets arrive with unnamed
// measure columns.
func namedColumns(header []string) []string {
	out := make([]string, len(header))
	for i, c := range header {
		if c == "" {
			out[i] = fmt.Sprintf("column_%d", i)
		} else {
			out[i] = c
		}
	}
	return out
}
