// Package dataset adapts catalog entries into load/save implementations.
// It mirrors the pipeline's dataset contract: a dataset knows its file
// path and can load into, or save from, an in-memory table.
package dataset

import (
	"context"
	"fmt"

	"github.com/datavet/datavet/internal/catalog"
	"github.com/datavet/datavet/internal/table"
)

// DataSet is the load/save contract the transformer wraps.
type DataSet interface {
	Load(ctx context.Context) (*table.Table, error)
	Save(ctx context.Context, t *table.Table) error
	Filepath() string
}

// FromEntry resolves a catalog entry into a DataSet by its type key.
func FromEntry(name string, e catalog.Entry) (DataSet, error) {
	path := e.Filepath()
	if path == "" {
		return nil, fmt.Errorf("dataset %s: catalog entry has no filepath", name)
	}
	switch e.Type() {
	case "csv":
		return NewCSVDataSet(path), nil
	case "json":
		return NewJSONDataSet(path), nil
	case "parquet":
		return NewParquetDataSet(path), nil
	default:
		return nil, fmt.Errorf("dataset %s: unsupported type %q", name, e.Type())
	}
}
