package storage

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/dublin-energylink/internal/frame"
)

// ReadWorkbook reads one sheet of an Excel workbook into a table. An empty
// sheet name selects the first sheet. The first row is the header; blank
// header cells get positional names so later renames can target them. All
// cells load as strings, matching the CSV reader.
func ReadWorkbook(path, sheet string) (*frame.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	header := namedColumns(rows[0])
	t := frame.New(header...)
	for _, record := range rows[1:] {
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
