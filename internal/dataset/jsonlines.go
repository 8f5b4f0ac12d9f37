package dataset

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/datavet/datavet/internal/table"
)

// JSONDataSet reads and writes JSON-lines files: one object per line.
// Columns are the sorted union of keys across all records; keys absent
// from a record load as missing cells.
type JSONDataSet struct {
	path string
}

// NewJSONDataSet creates a JSON-lines dataset for the given file path.
func NewJSONDataSet(path string) *JSONDataSet {
	return &JSONDataSet{path: path}
}

// Filepath returns the dataset's file path.
func (d *JSONDataSet) Filepath() string { return d.path }

// Load reads the whole file into a table.
func (d *JSONDataSet) Load(ctx context.Context) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(d.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []map[string]any
	keys := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("reading %s line %d: %w", d.path, line, err)
		}
		for k := range rec {
			keys[k] = struct{}{}
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	columns := make([]string, 0, len(keys))
	for k := range keys {
		columns = append(columns, k)
	}
	sort.Strings(columns)

	t := table.New(columns...)
	for _, rec := range records {
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

// Save writes one object per row, omitting missing cells.
func (d *JSONDataSet) Save(ctx context.Context, t *table.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Create(d.path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for i := range t.Rows {
		rec := t.Record(i)
		for k, v := range rec {
			if v == nil {
				delete(rec, k)
			}
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return w.Flush()
}
