// Package types provides shared types for datavet.
// These types are used across multiple packages and are designed for external consumption.
package types

import (
	"path"
	"sort"
)

// AssetName is the three-level name the validation project uses for a data
// location: a datasource, a generator (one per top-level data directory),
// and the asset itself.
type AssetName struct {
	Datasource string `json:"datasource"`
	Generator  string `json:"generator"`
	Asset      string `json:"asset"`
}

// Path returns the slash-joined form used in the project directory layout.
func (a AssetName) Path() string {
	return path.Join(a.Datasource, a.Generator, a.Asset)
}

// ExpectationConfig is one declarative check from an expectation suite.
type ExpectationConfig struct {
	Type   string         `json:"expectation_type"`
	Kwargs map[string]any `json:"kwargs,omitempty"`
}

// Column returns the column kwarg, or "" for table-level expectations.
func (c ExpectationConfig) Column() string {
	col, _ := c.Kwargs["column"].(string)
	return col
}

// ExpectationDetail holds the full-detail outcome of a single expectation.
type ExpectationDetail struct {
	ElementCount          int      `json:"element_count"`
	MissingCount          int      `json:"missing_count"`
	UnexpectedCount       int      `json:"unexpected_count"`
	UnexpectedPercent     float64  `json:"unexpected_percent"`
	PartialUnexpectedList []any    `json:"partial_unexpected_list,omitempty"`
	UnexpectedIndexList   []int    `json:"unexpected_index_list,omitempty"`
	ObservedValue         any      `json:"observed_value,omitempty"`
	Details               []string `json:"details,omitempty"`
}

// ExceptionInfo records an expectation that could not be evaluated.
type ExceptionInfo struct {
	Raised  bool   `json:"raised_exception"`
	Message string `json:"exception_message,omitempty"`
}

// ExpectationResult is the outcome of one expectation against one dataset.
type ExpectationResult struct {
	Success   bool              `json:"success"`
	Config    ExpectationConfig `json:"expectation_config"`
	Result    ExpectationDetail `json:"result"`
	Exception *ExceptionInfo    `json:"exception_info,omitempty"`
}

// Statistics summarizes a validation run.
type Statistics struct {
	Evaluated      int     `json:"evaluated_expectations"`
	Successful     int     `json:"successful_expectations"`
	Unsuccessful   int     `json:"unsuccessful_expectations"`
	SuccessPercent float64 `json:"success_percent"`
}

// Meta ties a validation result back to its suite and run.
type Meta struct {
	SuiteName      string `json:"expectation_suite_name"`
	RunID          string `json:"run_id"`
	ValidationTime string `json:"validation_time"`
}

// ValidationResult is the serialized outcome of validating one dataset
// against one expectation suite.
type ValidationResult struct {
	Success    bool                `json:"success"`
	Results    []ExpectationResult `json:"results"`
	Statistics Statistics          `json:"statistics"`
	Meta       Meta                `json:"meta"`
}

// FailedExpectations maps each failed expectation type to the column it
// targeted ("" for table-level expectations). Used for failure reporting.
func (r *ValidationResult) FailedExpectations() map[string]string {
	failed := make(map[string]string)
	for _, res := range r.Results {
		if !res.Success {
			failed[res.Config.Type] = res.Config.Column()
		}
	}
	return failed
}

// FailedTypes returns the failed expectation types in sorted order.
func (r *ValidationResult) FailedTypes() []string {
	failed := r.FailedExpectations()
	out := make([]string, 0, len(failed))
	for t := range failed {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
