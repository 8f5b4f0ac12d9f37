package dataset

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/datavet/datavet/internal/table"
)

// ParquetDataSet reads and writes local Parquet files. Rows round-trip
// through JSON, so cells carry the same value shapes as the other
// datasets: float64 for all numerics, string, bool, nil for null.
type ParquetDataSet struct {
	path string
}

// NewParquetDataSet creates a Parquet dataset for the given file path.
func NewParquetDataSet(path string) *ParquetDataSet {
	return &ParquetDataSet{path: path}
}

// Filepath returns the dataset's file path.
func (d *ParquetDataSet) Filepath() string { return d.path }

// Load reads the whole file into a table.
func (d *ParquetDataSet) Load(ctx context.Context) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fr, err := local.NewLocalFileReader(d.path)
	if err != nil {
		return nil, err
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, nil, 1)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", d.path, err)
	}
	defer pr.ReadStop()

	// Leaf field names in schema order; Infos[0] is the root.
	var columns []string
	for _, info := range pr.SchemaHandler.Infos[1:] {
		columns = append(columns, info.ExName)
	}

	num := int(pr.GetNumRows())
	rows, err := pr.ReadByNumber(num)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", d.path, err)
	}

	t := table.New(columns...)
	for _, r := range rows {
		raw, err := json.Marshal(r)
		if err != nil {
			return nil, err
		}
		var rec map[string]any
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, err
		}
		row := make([]any, len(columns))
		for i, c := range columns {
			row[i] = rec[c]
		}
		if err := t.Append(row...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Save writes the table with a schema inferred from the first non-missing
// cell of each column. Columns with no values at all are written as UTF8.
func (d *ParquetDataSet) Save(ctx context.Context, t *table.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fw, err := local.NewLocalFileWriter(d.path)
	if err != nil {
		return err
	}
	defer fw.Close()

	pw, err := writer.NewJSONWriter(buildSchema(t), fw, 1)
	if err != nil {
		return fmt.Errorf("writing %s: %w", d.path, err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for i := range t.Rows {
		raw, err := json.Marshal(t.Record(i))
		if err != nil {
			return err
		}
		if err := pw.Write(string(raw)); err != nil {
			_ = pw.WriteStop()
			return fmt.Errorf("writing %s: %w", d.path, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("writing %s: %w", d.path, err)
	}
	return nil
}

func buildSchema(t *table.Table) string {
	fields := make([]map[string]string, 0, len(t.Columns))
	for ci, c := range t.Columns {
		fields = append(fields, map[string]string{
			"Tag": fmt.Sprintf("name=%s, %s, repetitiontype=OPTIONAL", c, physicalType(t, ci)),
		})
	}
	root := map[string]any{
		"Tag":    "name=parquet_go_root, repetitiontype=REQUIRED",
		"Fields": fields,
	}
	raw, _ := json.Marshal(root)
	return string(raw)
}

func physicalType(t *table.Table, ci int) string {
	for _, row := range t.Rows {
		switch row[ci].(type) {
		case nil:
			continue
		case float64:
			return "type=DOUBLE"
		case bool:
			return "type=BOOLEAN"
		default:
			return "type=BYTE_ARRAY, convertedtype=UTF8"
		}
	}
	return "type=BYTE_ARRAY, convertedtype=UTF8"
}
