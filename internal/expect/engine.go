// Package expect bridges expectation suites to the JSON Schema engine.
// Each expectation's kwargs compile into a schema fragment; the engine
// does the actual checking, and this package aggregates the outcomes
// into full-detail validation results.
package expect

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/datavet/datavet/internal/suite"
	"github.com/datavet/datavet/internal/table"
	"github.com/datavet/datavet/pkg/types"
)

const defaultPartialMax = 20

// Engine evaluates expectation suites against tables. Compiled schema
// fragments are cached across calls.
type Engine struct {
	schemas    *lru.Cache[string, *jsonschema.Schema]
	partialMax int
}

// NewEngine creates an engine. partialMax caps partial_unexpected_list;
// zero or negative means the default of 20.
func NewEngine(partialMax int) (*Engine, error) {
	schemas, err := lru.New[string, *jsonschema.Schema](256)
	if err != nil {
		return nil, err
	}
	if partialMax <= 0 {
		partialMax = defaultPartialMax
	}
	return &Engine{schemas: schemas, partialMax: partialMax}, nil
}

// Validate runs every expectation in the suite against the table with
// full result detail. Expectations that cannot be evaluated (unknown
// type, bad kwargs, missing column) fail with exception info recorded;
// Validate itself never fails.
func (e *Engine) Validate(t *table.Table, s *suite.Suite, runID string) *types.ValidationResult {
	results := make([]types.ExpectationResult, 0, len(s.Expectations))
	for _, cfg := range s.Expectations {
		results = append(results, e.evaluate(t, cfg))
	}

	stats := types.Statistics{Evaluated: len(results), SuccessPercent: 100}
	success := true
	for _, r := range results {
		if r.Success {
			stats.Successful++
		} else {
			stats.Unsuccessful++
			success = false
		}
	}
	if stats.Evaluated > 0 {
		stats.SuccessPercent = 100 * float64(stats.Successful) / float64(stats.Evaluated)
	}

	return &types.ValidationResult{
		Success:    success,
		Results:    results,
		Statistics: stats,
		Meta: types.Meta{
			SuiteName:      s.Name,
			RunID:          runID,
			ValidationTime: time.Now().UTC().Format(time.RFC3339),
		},
	}
}

func (e *Engine) evaluate(t *table.Table, cfg types.ExpectationConfig) types.ExpectationResult {
	switch cfg.Type {
	case "expect_column_to_exist":
		return e.evalColumnExists(t, cfg)
	case "expect_table_row_count_to_be_between":
		return e.evalRowCount(t, cfg)
	case "expect_table_columns_to_match_ordered_list":
		return e.evalOrderedColumns(t, cfg)
	case "expect_column_values_to_be_unique":
		return e.evalUnique(t, cfg)
	}

	fragment, ok := cellFragment(cfg)
	if !ok {
		return exceptionResult(cfg, fmt.Errorf("unrecognized expectation_type %q", cfg.Type))
	}
	return e.evalColumnValues(t, cfg, fragment)
}

// evalColumnValues checks every (row-condition selected) cell of a column
// against the fragment. Missing cells do not count against the column
// except for the not-null expectation.
func (e *Engine) evalColumnValues(t *table.Table, cfg types.ExpectationConfig, fragment map[string]any) types.ExpectationResult {
	col := cfg.Column()
	if col == "" {
		return exceptionResult(cfg, fmt.Errorf("kwargs.column is required for %s", cfg.Type))
	}
	ci, ok := t.ColumnIndex(col)
	if !ok {
		return exceptionResult(cfg, fmt.Errorf("column %q not found", col))
	}
	schema, err := e.compile(fragment)
	if err != nil {
		return exceptionResult(cfg, err)
	}
	rows, err := selectRows(t, cfg)
	if err != nil {
		return exceptionResult(cfg, err)
	}

	checkNulls := cfg.Type == "expect_column_values_to_not_be_null"
	unexpected := roaring.New()
	var partial []any
	missing := 0
	for _, i := range rows {
		cell := t.Rows[i][ci]
		if cell == nil && !checkNulls {
			missing++
			continue
		}
		if schema.Validate(cell) != nil {
			unexpected.Add(uint32(i))
			if len(partial) < e.partialMax {
				partial = append(partial, cell)
			}
		}
	}

	detail := newDetail(len(rows), missing, unexpected, partial)
	return types.ExpectationResult{
		Success: thresholdSuccess(cfg, detail),
		Config:  cfg,
		Result:  detail,
	}
}

func (e *Engine) evalColumnExists(t *table.Table, cfg types.ExpectationConfig) types.ExpectationResult {
	col := cfg.Column()
	if col == "" {
		return exceptionResult(cfg, fmt.Errorf("kwargs.column is required for %s", cfg.Type))
	}
	return e.evalAggregate(t, cfg,
		map[string]any{"type": "array", "contains": map[string]any{"const": col}},
		toAnySlice(t.Columns), t.Columns)
}

func (e *Engine) evalRowCount(t *table.Table, cfg types.ExpectationConfig) types.ExpectationResult {
	fragment := map[string]any{"type": "array"}
	if v, ok := cfg.Kwargs["min_value"]; ok {
		fragment["minItems"] = v
	}
	if v, ok := cfg.Kwargs["max_value"]; ok {
		fragment["maxItems"] = v
	}
	return e.evalAggregate(t, cfg, fragment, make([]any, t.NumRows()), t.NumRows())
}

func (e *Engine) evalOrderedColumns(t *table.Table, cfg types.ExpectationConfig) types.ExpectationResult {
	colList, ok := cfg.Kwargs["column_list"].([]any)
	if !ok {
		return exceptionResult(cfg, fmt.Errorf("kwargs.column_list is required for %s", cfg.Type))
	}
	return e.evalAggregate(t, cfg,
		map[string]any{"const": colList},
		toAnySlice(t.Columns), t.Columns)
}

// evalAggregate validates one derived value against the fragment and
// reports the library's explanation on failure.
func (e *Engine) evalAggregate(t *table.Table, cfg types.ExpectationConfig, fragment map[string]any, instance any, observed any) types.ExpectationResult {
	schema, err := e.compile(fragment)
	if err != nil {
		return exceptionResult(cfg, err)
	}
	res := types.ExpectationResult{
		Success: true,
		Config:  cfg,
		Result:  types.ExpectationDetail{ElementCount: t.NumRows(), ObservedValue: observed},
	}
	if err := schema.Validate(instance); err != nil {
		res.Success = false
		res.Result.Details = validationMessages(err)
	}
	return res
}

// evalUnique checks the whole column (nulls excluded) with uniqueItems and
// reports every duplicated value's row as unexpected.
func (e *Engine) evalUnique(t *table.Table, cfg types.ExpectationConfig) types.ExpectationResult {
	col := cfg.Column()
	if col == "" {
		return exceptionResult(cfg, fmt.Errorf("kwargs.column is required for %s", cfg.Type))
	}
	ci, ok := t.ColumnIndex(col)
	if !ok {
		return exceptionResult(cfg, fmt.Errorf("column %q not found", col))
	}
	schema, err := e.compile(map[string]any{"type": "array", "uniqueItems": true})
	if err != nil {
		return exceptionResult(cfg, err)
	}
	rows, err := selectRows(t, cfg)
	if err != nil {
		return exceptionResult(cfg, err)
	}

	values := make([]any, 0, len(rows))
	missing := 0
	counts := make(map[string]int)
	for _, i := range rows {
		cell := t.Rows[i][ci]
		if cell == nil {
			missing++
			continue
		}
		values = append(values, cell)
		counts[cellKey(cell)]++
	}

	unexpected := roaring.New()
	var partial []any
	if schema.Validate(values) != nil {
		for _, i := range rows {
			cell := t.Rows[i][ci]
			if cell != nil && counts[cellKey(cell)] > 1 {
				unexpected.Add(uint32(i))
				if len(partial) < e.partialMax {
					partial = append(partial, cell)
				}
			}
		}
	}

	detail := newDetail(len(rows), missing, unexpected, partial)
	return types.ExpectationResult{
		Success: thresholdSuccess(cfg, detail),
		Config:  cfg,
		Result:  detail,
	}
}

// compile turns a schema fragment into a compiled schema, caching by the
// fragment's canonical JSON.
func (e *Engine) compile(fragment map[string]any) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(fragment)
	if err != nil {
		return nil, err
	}
	if s, ok := e.schemas.Get(string(raw)); ok {
		return s, nil
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("expectation.json", doc); err != nil {
		return nil, fmt.Errorf("adding expectation schema: %w", err)
	}
	schema, err := compiler.Compile("expectation.json")
	if err != nil {
		return nil, fmt.Errorf("compiling expectation schema: %w", err)
	}
	e.schemas.Add(string(raw), schema)
	return schema, nil
}

func newDetail(element, missing int, unexpected *roaring.Bitmap, partial []any) types.ExpectationDetail {
	detail := types.ExpectationDetail{
		ElementCount:          element,
		MissingCount:          missing,
		UnexpectedCount:       int(unexpected.GetCardinality()),
		PartialUnexpectedList: partial,
	}
	nonMissing := element - missing
	if nonMissing > 0 {
		detail.UnexpectedPercent = 100 * float64(detail.UnexpectedCount) / float64(nonMissing)
	}
	if detail.UnexpectedCount > 0 {
		detail.UnexpectedIndexList = make([]int, 0, detail.UnexpectedCount)
		unexpected.Iterate(func(i uint32) bool {
			detail.UnexpectedIndexList = append(detail.UnexpectedIndexList, int(i))
			return true
		})
	}
	return detail
}

// thresholdSuccess applies the mostly kwarg: the fraction of non-missing
// values that must pass, defaulting to all of them.
func thresholdSuccess(cfg types.ExpectationConfig, detail types.ExpectationDetail) bool {
	mostly := 1.0
	if m, ok := cfg.Kwargs["mostly"].(float64); ok {
		mostly = m
	}
	nonMissing := detail.ElementCount - detail.MissingCount
	if nonMissing <= 0 {
		return true
	}
	passRate := float64(nonMissing-detail.UnexpectedCount) / float64(nonMissing)
	return passRate >= mostly
}

func exceptionResult(cfg types.ExpectationConfig, err error) types.ExpectationResult {
	return types.ExpectationResult{
		Success:   false,
		Config:    cfg,
		Exception: &types.ExceptionInfo{Raised: true, Message: err.Error()},
	}
}

func cellKey(cell any) string {
	raw, err := json.Marshal(cell)
	if err != nil {
		return fmt.Sprintf("%T:%v", cell, cell)
	}
	return string(raw)
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
