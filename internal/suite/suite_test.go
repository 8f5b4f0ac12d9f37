package suite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trainsSuite = `{
  "expectation_suite_name": "trains.warning",
  "expectations": [
    {"expectation_type": "expect_column_to_exist", "kwargs": {"column": "price"}},
    {"expectation_type": "expect_column_values_to_not_be_null", "kwargs": {"column": "price"}}
  ]
}`

func writeSuite(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "suite.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	s, err := Load(writeSuite(t, trainsSuite))
	require.NoError(t, err)
	assert.Equal(t, "trains.warning", s.Name)
	require.Len(t, s.Expectations, 2)
	assert.Equal(t, "expect_column_to_exist", s.Expectations[0].Type)
	assert.Equal(t, "price", s.Expectations[0].Column())
}

func TestLoadRejectsMalformedSuite(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "nope"},
		{name: "missing name", content: `{"expectations": []}`},
		{name: "empty name", content: `{"expectation_suite_name": "", "expectations": []}`},
		{name: "missing expectations", content: `{"expectation_suite_name": "x"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeSuite(t, tc.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestCache(t *testing.T) {
	path := writeSuite(t, trainsSuite)
	cache, err := NewCache(8)
	require.NoError(t, err)

	first, err := cache.Get(path)
	require.NoError(t, err)
	second, err := cache.Get(path)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, cache.Len())
}
