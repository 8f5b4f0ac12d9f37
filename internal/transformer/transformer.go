// Package transformer wraps dataset load/save operations with expectation
// suite validation. Every intercepted call validates the in-memory data,
// persists the result for the run, and either logs or aborts on failure.
package transformer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/datavet/datavet/internal/expect"
	"github.com/datavet/datavet/internal/project"
	"github.com/datavet/datavet/internal/results"
	"github.com/datavet/datavet/internal/suite"
	"github.com/datavet/datavet/internal/table"
	"github.com/datavet/datavet/pkg/types"
)

// LoadFunc is the pipeline's underlying dataset load callable.
type LoadFunc func(context.Context) (*table.Table, error)

// SaveFunc is the pipeline's underlying dataset save callable.
type SaveFunc func(context.Context, *table.Table) error

// FailedValidationError signals a failed validation in strict mode. It
// lists each failed expectation type and the column it targeted.
type FailedValidationError struct {
	DatasetName string
	SuiteName   string
	Failed      map[string]string // expectation type -> column ("" for table-level)
}

func (e *FailedValidationError) Error() string {
	parts := make([]string, 0, len(e.Failed))
	for _, typ := range sortedKeys(e.Failed) {
		if col := e.Failed[typ]; col != "" {
			parts = append(parts, fmt.Sprintf("%s (column %s)", typ, col))
		} else {
			parts = append(parts, typ)
		}
	}
	return fmt.Sprintf("validation of dataset %s against suite %s failed: %s",
		e.DatasetName, e.SuiteName, strings.Join(parts, ", "))
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Config wires an Evaluator.
type Config struct {
	Project *project.Context
	Engine  *expect.Engine
	Store   *results.Store
	Suites  *suite.Cache

	DatasetName string
	DatasetPath string // the dataset's file path, used for asset naming
	SuitePath   string
	RunID       string
	StrictMode  bool // strict raises on failure; non-strict only logs
}

// Evaluator validates one dataset against one expectation suite on every
// load and save.
type Evaluator struct {
	cfg Config
}

// NewEvaluator creates an evaluator for a dataset/suite pair.
func NewEvaluator(cfg Config) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// Load runs the underlying load, then validates the loaded data. The data
// is returned even when non-strict validation fails.
func (e *Evaluator) Load(ctx context.Context, load LoadFunc) (*table.Table, error) {
	data, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if err := e.validate(ctx, data); err != nil {
		return nil, err
	}
	return data, nil
}

// Save runs the underlying save first, then validates the saved data.
func (e *Evaluator) Save(ctx context.Context, save SaveFunc, data *table.Table) error {
	if err := save(ctx, data); err != nil {
		return err
	}
	return e.validate(ctx, data)
}

func (e *Evaluator) validate(ctx context.Context, data *table.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	asset, err := e.cfg.Project.NormalizeAsset(e.cfg.DatasetPath)
	if err != nil {
		return err
	}
	if err := e.copySuite(asset); err != nil {
		return err
	}

	s, err := e.cfg.Suites.Get(e.cfg.SuitePath)
	if err != nil {
		return err
	}

	slog.Info("validating dataset",
		"dataset", e.cfg.DatasetName,
		"suite", filepath.Base(e.cfg.SuitePath),
		"run_id", e.cfg.RunID)

	result := e.cfg.Engine.Validate(data, s, e.cfg.RunID)
	if _, err := e.cfg.Store.Write(e.cfg.RunID, asset, result); err != nil {
		return err
	}
	return e.applyPolicy(result)
}

// copySuite copies the suite file into the project's expectations layout
// for the asset, so results can be reviewed next to their suite.
func (e *Evaluator) copySuite(asset types.AssetName) error {
	dir := e.cfg.Project.ExpectationsPath(asset)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	src, err := os.Open(e.cfg.SuitePath)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, filepath.Base(e.cfg.SuitePath)))
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	return dst.Close()
}

// applyPolicy implements the failure policy: info on success, warn when
// non-strict, FailedValidationError when strict.
func (e *Evaluator) applyPolicy(result *types.ValidationResult) error {
	stats := []any{
		"dataset", e.cfg.DatasetName,
		"evaluated", result.Statistics.Evaluated,
		"successful", result.Statistics.Successful,
		"unsuccessful", result.Statistics.Unsuccessful,
		"success_percent", result.Statistics.SuccessPercent,
	}

	if result.Success {
		slog.Info("validation passed", stats...)
		return nil
	}

	if !e.cfg.StrictMode {
		slog.Warn("validation failed", stats...)
		return nil
	}

	failed := result.FailedExpectations()
	slog.Error("validation failed",
		"dataset", e.cfg.DatasetName,
		"suite", result.Meta.SuiteName,
		"failed_expectations", failed)
	return &FailedValidationError{
		DatasetName: e.cfg.DatasetName,
		SuiteName:   result.Meta.SuiteName,
		Failed:      failed,
	}
}
