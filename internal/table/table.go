// Package table holds the in-memory tabular value passed between dataset
// IO and validation. Cells are JSON-shaped values: string, float64, bool
// or nil for a missing cell.
package table

import "fmt"

// Table is a column-ordered table. Row cells are positional and match the
// Columns slice.
type Table struct {
	Columns []string
	Rows    [][]any
}

// New creates an empty table with the given column order.
func New(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Append adds a row. The row must have one cell per column.
func (t *Table) Append(row ...any) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// NumRows returns the row count.
func (t *Table) NumRows() int { return len(t.Rows) }

// ColumnIndex returns the position of a named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

// Column returns all cells of a named column in row order.
func (t *Table) Column(name string) ([]any, bool) {
	ci, ok := t.ColumnIndex(name)
	if !ok {
		return nil, false
	}
	out := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[ci]
	}
	return out, true
}

// Record returns row i as a column-name keyed map, the shape row
// conditions are evaluated against.
func (t *Table) Record(i int) map[string]any {
	rec := make(map[string]any, len(t.Columns))
	for ci, c := range t.Columns {
		rec[c] = t.Rows[i][ci]
	}
	return rec
}
