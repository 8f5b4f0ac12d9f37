package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadMergesCatalogFiles(t *testing.T) {
	conf := t.TempDir()
	writeFile(t, filepath.Join(conf, "catalog.yml"), `
trains:
  type: csv
  filepath: data/01_raw/trains.csv
  expectations_suite: suites/trains.json
reviews:
  type: csv
  filepath: data/01_raw/reviews.csv
`)
	writeFile(t, filepath.Join(conf, "catalog_extra", "models.yml"), `
model_input:
  type: parquet
  filepath: data/05_model_input/input.parquet
  expectations_suite: suites/model_input.json
`)
	// Non-catalog config must be ignored.
	writeFile(t, filepath.Join(conf, "parameters.yml"), "lr: 0.1\n")

	cat, err := Load(conf)
	require.NoError(t, err)
	assert.Len(t, cat, 3)
	assert.Equal(t, "csv", cat["trains"].Type())
	assert.Equal(t, "data/05_model_input/input.parquet", cat["model_input"].Filepath())
}

func TestLoadLaterFileWins(t *testing.T) {
	conf := t.TempDir()
	writeFile(t, filepath.Join(conf, "catalog.yml"), `
trains:
  type: csv
  filepath: old.csv
`)
	writeFile(t, filepath.Join(conf, "catalog_local.yml"), `
trains:
  type: csv
  filepath: new.csv
`)
	cat, err := Load(conf)
	require.NoError(t, err)
	assert.Equal(t, "new.csv", cat["trains"].Filepath())
}

func TestSuiteRefs(t *testing.T) {
	cat := Catalog{
		"trains": Entry{
			"type":     "csv",
			"filepath": "data/01_raw/trains.csv",
			SuiteKey:   "suites/trains.json",
		},
		"reviews": Entry{
			"type":     "csv",
			"filepath": "data/01_raw/reviews.csv",
		},
	}

	refs := cat.SuiteRefs()
	assert.Equal(t, map[string]string{"trains": "suites/trains.json"}, refs)
}

func TestStripSuiteKey(t *testing.T) {
	cat := Catalog{
		"trains": Entry{
			"type":     "csv",
			"filepath": "data/01_raw/trains.csv",
			SuiteKey:   "suites/trains.json",
		},
		"reviews": Entry{
			"type":     "csv",
			"filepath": "data/01_raw/reviews.csv",
		},
	}

	stripped := cat.StripSuiteKey()
	for name, entry := range stripped {
		assert.NotContains(t, entry, SuiteKey, "entry %s", name)
	}
	assert.Equal(t, "data/01_raw/trains.csv", stripped["trains"].Filepath())
	assert.Equal(t, "csv", stripped["trains"].Type())
	assert.Len(t, stripped["reviews"], 2)

	// The original catalog is untouched.
	assert.Contains(t, cat["trains"], SuiteKey)
}

func TestNamesSorted(t *testing.T) {
	cat := Catalog{"b": Entry{}, "a": Entry{}, "c": Entry{}}
	assert.Equal(t, []string{"a", "b", "c"}, cat.Names())
}
