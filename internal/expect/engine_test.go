package expect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datavet/datavet/internal/suite"
	"github.com/datavet/datavet/internal/table"
	"github.com/datavet/datavet/pkg/types"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(0)
	require.NoError(t, err)
	return e
}

func fruitTable(t *testing.T) *table.Table {
	t.Helper()
	tbl := table.New("name", "price", "origin")
	require.NoError(t, tbl.Append("apple", 1.5, "nz"))
	require.NoError(t, tbl.Append("pear", 2.0, "nz"))
	require.NoError(t, tbl.Append("plum", nil, "es"))
	require.NoError(t, tbl.Append("apple", 120.0, "es"))
	return tbl
}

func evalOne(t *testing.T, tbl *table.Table, cfg types.ExpectationConfig) types.ExpectationResult {
	t.Helper()
	e := newEngine(t)
	res := e.Validate(tbl, &suite.Suite{Name: "s", Expectations: []types.ExpectationConfig{cfg}}, "run-1")
	require.Len(t, res.Results, 1)
	return res.Results[0]
}

func TestColumnValuesExpectations(t *testing.T) {
	tests := []struct {
		name            string
		cfg             types.ExpectationConfig
		success         bool
		unexpectedCount int
		missingCount    int
	}{
		{
			name: "not be null fails on the nil cell",
			cfg: types.ExpectationConfig{
				Type:   "expect_column_values_to_not_be_null",
				Kwargs: map[string]any{"column": "price"},
			},
			unexpectedCount: 1,
		},
		{
			name: "not be null passes on full column",
			cfg: types.ExpectationConfig{
				Type:   "expect_column_values_to_not_be_null",
				Kwargs: map[string]any{"column": "name"},
			},
			success: true,
		},
		{
			name: "between skips missing cells",
			cfg: types.ExpectationConfig{
				Type:   "expect_column_values_to_be_between",
				Kwargs: map[string]any{"column": "price", "min_value": 0.0, "max_value": 10.0},
			},
			unexpectedCount: 1, // 120.0
			missingCount:    1,
		},
		{
			name: "between passes within bounds",
			cfg: types.ExpectationConfig{
				Type:   "expect_column_values_to_be_between",
				Kwargs: map[string]any{"column": "price", "min_value": 0.0, "max_value": 200.0},
			},
			success:      true,
			missingCount: 1,
		},
		{
			name: "in set",
			cfg: types.ExpectationConfig{
				Type:   "expect_column_values_to_be_in_set",
				Kwargs: map[string]any{"column": "origin", "value_set": []any{"nz"}},
			},
			unexpectedCount: 2,
		},
		{
			name: "match regex",
			cfg: types.ExpectationConfig{
				Type:   "expect_column_values_to_match_regex",
				Kwargs: map[string]any{"column": "name", "regex": "^[a-z]+$"},
			},
			success: true,
		},
		{
			name: "of type flags strings in a number column",
			cfg: types.ExpectationConfig{
				Type:   "expect_column_values_to_be_of_type",
				Kwargs: map[string]any{"column": "name", "type_": "float"},
			},
			unexpectedCount: 4,
		},
		{
			name: "value lengths",
			cfg: types.ExpectationConfig{
				Type:   "expect_column_value_lengths_to_be_between",
				Kwargs: map[string]any{"column": "name", "min_value": 1.0, "max_value": 4.0},
			},
			unexpectedCount: 2, // apple twice
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := evalOne(t, fruitTable(t), tc.cfg)
			assert.Equal(t, tc.success, res.Success)
			assert.Equal(t, tc.unexpectedCount, res.Result.UnexpectedCount)
			assert.Equal(t, tc.missingCount, res.Result.MissingCount)
			assert.Equal(t, 4, res.Result.ElementCount)
			assert.Nil(t, res.Exception)
		})
	}
}

func TestUnexpectedDetail(t *testing.T) {
	res := evalOne(t, fruitTable(t), types.ExpectationConfig{
		Type:   "expect_column_values_to_be_in_set",
		Kwargs: map[string]any{"column": "origin", "value_set": []any{"nz"}},
	})
	assert.Equal(t, []int{2, 3}, res.Result.UnexpectedIndexList)
	assert.Equal(t, []any{"es", "es"}, res.Result.PartialUnexpectedList)
	assert.InDelta(t, 50.0, res.Result.UnexpectedPercent, 1e-9)
}

func TestMostlyThreshold(t *testing.T) {
	cfg := types.ExpectationConfig{
		Type: "expect_column_values_to_be_between",
		Kwargs: map[string]any{
			"column": "price", "min_value": 0.0, "max_value": 10.0, "mostly": 0.6,
		},
	}
	// 2 of 3 non-missing values pass (0.67 >= 0.6).
	res := evalOne(t, fruitTable(t), cfg)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.Result.UnexpectedCount)

	cfg.Kwargs["mostly"] = 0.9
	res = evalOne(t, fruitTable(t), cfg)
	assert.False(t, res.Success)
}

func TestRowCondition(t *testing.T) {
	res := evalOne(t, fruitTable(t), types.ExpectationConfig{
		Type: "expect_column_values_to_be_between",
		Kwargs: map[string]any{
			"column": "price", "max_value": 10.0,
			"row_condition": `.origin == "nz"`,
		},
	})
	// Only the two nz rows are in scope; both prices are under 10.
	assert.True(t, res.Success)
	assert.Equal(t, 2, res.Result.ElementCount)
}

func TestRowConditionInvalid(t *testing.T) {
	res := evalOne(t, fruitTable(t), types.ExpectationConfig{
		Type: "expect_column_values_to_not_be_null",
		Kwargs: map[string]any{
			"column": "price", "row_condition": ".((",
		},
	})
	assert.False(t, res.Success)
	require.NotNil(t, res.Exception)
	assert.True(t, res.Exception.Raised)
}

func TestUnique(t *testing.T) {
	res := evalOne(t, fruitTable(t), types.ExpectationConfig{
		Type:   "expect_column_values_to_be_unique",
		Kwargs: map[string]any{"column": "name"},
	})
	assert.False(t, res.Success)
	assert.Equal(t, 2, res.Result.UnexpectedCount)
	assert.Equal(t, []int{0, 3}, res.Result.UnexpectedIndexList)

	res = evalOne(t, fruitTable(t), types.ExpectationConfig{
		Type:   "expect_column_values_to_be_unique",
		Kwargs: map[string]any{"column": "price"},
	})
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.Result.MissingCount)
}

func TestTableExpectations(t *testing.T) {
	tbl := fruitTable(t)

	res := evalOne(t, tbl, types.ExpectationConfig{
		Type:   "expect_column_to_exist",
		Kwargs: map[string]any{"column": "price"},
	})
	assert.True(t, res.Success)

	res = evalOne(t, tbl, types.ExpectationConfig{
		Type:   "expect_column_to_exist",
		Kwargs: map[string]any{"column": "weight"},
	})
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Result.Details)

	res = evalOne(t, tbl, types.ExpectationConfig{
		Type:   "expect_table_row_count_to_be_between",
		Kwargs: map[string]any{"min_value": 1.0, "max_value": 10.0},
	})
	assert.True(t, res.Success)
	assert.Equal(t, 4, res.Result.ObservedValue)

	res = evalOne(t, tbl, types.ExpectationConfig{
		Type:   "expect_table_row_count_to_be_between",
		Kwargs: map[string]any{"min_value": 5.0},
	})
	assert.False(t, res.Success)

	res = evalOne(t, tbl, types.ExpectationConfig{
		Type:   "expect_table_columns_to_match_ordered_list",
		Kwargs: map[string]any{"column_list": []any{"name", "price", "origin"}},
	})
	assert.True(t, res.Success)

	res = evalOne(t, tbl, types.ExpectationConfig{
		Type:   "expect_table_columns_to_match_ordered_list",
		Kwargs: map[string]any{"column_list": []any{"price", "name", "origin"}},
	})
	assert.False(t, res.Success)
}

func TestUnknownExpectationType(t *testing.T) {
	res := evalOne(t, fruitTable(t), types.ExpectationConfig{
		Type:   "expect_column_values_to_levitate",
		Kwargs: map[string]any{"column": "name"},
	})
	assert.False(t, res.Success)
	require.NotNil(t, res.Exception)
	assert.Contains(t, res.Exception.Message, "expect_column_values_to_levitate")
}

func TestMissingColumnIsException(t *testing.T) {
	res := evalOne(t, fruitTable(t), types.ExpectationConfig{
		Type:   "expect_column_values_to_not_be_null",
		Kwargs: map[string]any{"column": "weight"},
	})
	assert.False(t, res.Success)
	require.NotNil(t, res.Exception)
	assert.True(t, res.Exception.Raised)
}

func TestStatisticsAndMeta(t *testing.T) {
	e := newEngine(t)
	s := &suite.Suite{
		Name: "fruit.basic",
		Expectations: []types.ExpectationConfig{
			{Type: "expect_column_to_exist", Kwargs: map[string]any{"column": "name"}},
			{Type: "expect_column_values_to_not_be_null", Kwargs: map[string]any{"column": "price"}},
		},
	}
	res := e.Validate(fruitTable(t), s, "run-42")

	assert.False(t, res.Success)
	assert.Equal(t, 2, res.Statistics.Evaluated)
	assert.Equal(t, 1, res.Statistics.Successful)
	assert.Equal(t, 1, res.Statistics.Unsuccessful)
	assert.InDelta(t, 50.0, res.Statistics.SuccessPercent, 1e-9)
	assert.Equal(t, "fruit.basic", res.Meta.SuiteName)
	assert.Equal(t, "run-42", res.Meta.RunID)
	assert.NotEmpty(t, res.Meta.ValidationTime)

	assert.Equal(t, map[string]string{
		"expect_column_values_to_not_be_null": "price",
	}, res.FailedExpectations())
}

func TestEmptySuitePasses(t *testing.T) {
	e := newEngine(t)
	res := e.Validate(fruitTable(t), &suite.Suite{Name: "empty"}, "run-1")
	assert.True(t, res.Success)
	assert.InDelta(t, 100.0, res.Statistics.SuccessPercent, 1e-9)
}
