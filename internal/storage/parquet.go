package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/apache/arrow/go/v7/arrow"
	"github.com/apache/arrow/go/v7/arrow/array"
	"github.com/apache/arrow/go/v7/arrow/memory"
	"github.com/apache/arrow/go/v7/parquet"
	"github.com/apache/arrow/go/v7/parquet/file"
	"github.com/apache/arrow/go/v7/parquet/pqarrow"

	"github.com/dublin-energylink/internal/frame"
)

// WriteParquet writes a table to a parquet file. Columns whose non-nil values
// are all float64 become float64 parquet columns; everything else is rendered
// to text. Nil cells become parquet nulls.
func WriteParquet(t *frame.Table, path string) error {
	columns := t.Columns()
	fields := make([]arrow.Field, len(columns))
	numeric := make([]bool, len(columns))
	for i, c := range columns {
		numeric[i] = columnIsNumeric(t, c)
		if numeric[i] {
			fields[i] = arrow.Field{Name: c, Type: arrow.PrimitiveTypes.Float64, Nullable: true}
		} else {
			fields[i] = arrow.Field{Name: c, Type: arrow.BinaryTypes.String, Nullable: true}
		}
	}
	schema := arrow.NewSchema(fields, nil)

	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()
	for i := 0; i < t.Len(); i++ {
		for j, c := range columns {
			v := t.At(i, c)
			if v == nil {
				builder.Field(j).AppendNull()
				continue
			}
			if numeric[j] {
				builder.Field(j).(*array.Float64Builder).Append(v.(float64))
			} else {
				builder.Field(j).(*array.StringBuilder).Append(frame.FormatValue(v))
			}
		}
	}
	record := builder.NewRecord()
	defer record.Release()
	table := array.NewTableFromRecords(schema, []arrow.Record{record})
	defer table.Release()

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer out.Close()

	chunkSize := int64(t.Len())
	if chunkSize == 0 {
		chunkSize = 1
	}
	if err := pqarrow.WriteTable(table, out, chunkSize, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps()); err != nil {
		return fmt.Errorf("failed to write parquet table: %w", err)
	}
	return nil
}

// ReadParquet reads a parquet file into a table. String and float64 columns
// come back as their native types and nulls as nil; integers widen to
// float64. These are the only types the pipelines write.
func ReadParquet(path string) (*frame.Table, error) {
	rdr, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer rdr.Close()

	arrowRdr, err := pqarrow.NewFileReader(rdr, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare parquet reader: %w", err)
	}
	table, err := arrowRdr.ReadTable(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet table: %w", err)
	}
	defer table.Release()

	columns := make([]string, table.NumCols())
	values := make([][]any, table.NumCols())
	for i := 0; i < int(table.NumCols()); i++ {
		col := table.Column(i)
		columns[i] = col.Name()
		for _, chunk := range col.Data().Chunks() {
			values[i] = append(values[i], chunkValues(chunk)...)
		}
	}

	t := frame.New(columns...)
	for r := 0; r < int(table.NumRows()); r++ {
		row := make([]any, len(columns))
		for c := range columns {
			row[c] = values[c][r]
		}
		t.Append(row...)
	}
	return t, nil
}

func chunkValues(chunk arrow.Array) []any {
	out := make([]any, chunk.Len())
	for i := 0; i < chunk.Len(); i++ {
		if chunk.IsNull(i) {
			continue
		}
		switch arr := chunk.(type) {
		case *array.String:
			out[i] = arr.Value(i)
		case *array.Float64:
			out[i] = arr.Value(i)
		case *array.Int64:
			out[i] = float64(arr.Value(i))
		case *array.Boolean:
			out[i] = fmt.Sprintf("%t", arr.Value(i))
		}
	}
	return out
}
