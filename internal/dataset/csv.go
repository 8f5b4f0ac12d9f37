package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/datavet/datavet/internal/table"
)

// CSVDataSet reads and writes header-rowed CSV files. Cells are typed by
// JSON-style inference: numbers become float64, true/false become bool,
// empty cells are missing (nil), everything else stays a string.
type CSVDataSet struct {
	path string
}

// NewCSVDataSet creates a CSV dataset for the given file path.
func NewCSVDataSet(path string) *CSVDataSet {
	return &CSVDataSet{path: path}
}

// Filepath returns the dataset's file path.
func (d *CSVDataSet) Filepath() string { return d.path }

// Load reads the whole file into a table.
func (d *CSVDataSet) Load(ctx context.Context) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(d.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", d.path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("reading %s: missing header row", d.path)
	}

	t := table.New(records[0]...)
	for _, rec := range records[1:] {
		row := make([]any, len(rec))
		for i, cell := range rec {
			row[i] = inferCell(cell)
		}
		if err := t.Append(row...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Save writes the table back out, header row first.
func (d *CSVDataSet) Save(ctx context.Context, t *table.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Create(d.path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		rec := make([]string, len(row))
		for i, cell := range row {
			rec[i] = formatCell(cell)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func inferCell(s string) any {
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch s {
	case "true", "True":
		return true
	case "false", "False":
		return false
	}
	return s
}

func formatCell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(c)
	default:
		return fmt.Sprint(c)
	}
}
