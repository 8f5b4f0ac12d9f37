package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datavet/datavet/internal/catalog"
	"github.com/datavet/datavet/internal/expect"
	"github.com/datavet/datavet/internal/project"
	"github.com/datavet/datavet/internal/results"
	"github.com/datavet/datavet/internal/suite"
	"github.com/datavet/datavet/internal/transformer"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newRunner(t *testing.T, strict bool) (*Runner, string) {
	t.Helper()
	base := t.TempDir()
	dataDir := filepath.Join(base, "data")

	writeFile(t, filepath.Join(dataDir, "01_raw", "fruit.csv"),
		"name,price\napple,1.5\ndurian,120\n")
	writeFile(t, filepath.Join(dataDir, "01_raw", "trains.csv"),
		"line,capacity\nA,200\nB,350\n")

	writeFile(t, filepath.Join(base, "suites", "fruit.json"), `{
  "expectation_suite_name": "fruit.strict",
  "expectations": [
    {"expectation_type": "expect_column_values_to_be_between",
     "kwargs": {"column": "price", "max_value": 10}}
  ]
}`)
	writeFile(t, filepath.Join(base, "suites", "trains.json"), `{
  "expectation_suite_name": "trains.basic",
  "expectations": [
    {"expectation_type": "expect_column_to_exist", "kwargs": {"column": "capacity"}}
  ]
}`)

	cat := catalog.Catalog{
		"fruit": catalog.Entry{
			"type":           "csv",
			"filepath":       filepath.Join(dataDir, "01_raw", "fruit.csv"),
			catalog.SuiteKey: filepath.Join(base, "suites", "fruit.json"),
		},
		"trains": catalog.Entry{
			"type":           "csv",
			"filepath":       filepath.Join(dataDir, "01_raw", "trains.csv"),
			catalog.SuiteKey: filepath.Join(base, "suites", "trains.json"),
		},
		"unchecked": catalog.Entry{
			"type":     "csv",
			"filepath": filepath.Join(dataDir, "01_raw", "unchecked.csv"),
		},
	}

	proj, err := project.Ensure(base, dataDir)
	require.NoError(t, err)
	engine, err := expect.NewEngine(0)
	require.NoError(t, err)
	suites, err := suite.NewCache(8)
	require.NoError(t, err)

	return &Runner{
		Catalog:    cat,
		Project:    proj,
		Engine:     engine,
		Store:      results.NewStore(proj),
		Suites:     suites,
		RunID:      "run-9",
		StrictMode: strict,
		Workers:    2,
	}, base
}

func TestRunStrictFailsOnBadDataset(t *testing.T) {
	r, _ := newRunner(t, true)
	_, err := r.Run(context.Background())
	require.Error(t, err)

	var failed *transformer.FailedValidationError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, "fruit", failed.DatasetName)
}

func TestRunNonStrictValidatesEverything(t *testing.T) {
	r, base := newRunner(t, false)
	summary, err := r.Run(context.Background())
	require.NoError(t, err)

	// Both suite-bearing datasets checked; the unchecked dataset skipped.
	assert.Equal(t, []string{"fruit", "trains"}, summary.Validated)
	assert.Empty(t, summary.Failed)

	root := filepath.Join(base, "datavet", "uncommitted", "validations", "run-9")
	assert.FileExists(t, filepath.Join(root, "data", "01_raw", "fruit", "fruit.strict.json"))
	assert.FileExists(t, filepath.Join(root, "data", "01_raw", "trains", "trains.basic.json"))
}

func TestRunRecordsHardErrors(t *testing.T) {
	r, _ := newRunner(t, false)
	r.Catalog["ghost"] = catalog.Entry{
		"type":           "csv",
		"filepath":       "no/such/file.csv",
		catalog.SuiteKey: "no/such/suite.json",
	}

	summary, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ghost"}, summary.Failed)
	assert.Equal(t, []string{"fruit", "trains"}, summary.Validated)
}
