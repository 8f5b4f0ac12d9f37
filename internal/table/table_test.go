package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendArity(t *testing.T) {
	tbl := New("a", "b")
	require.NoError(t, tbl.Append(1.0, "x"))
	assert.Error(t, tbl.Append(1.0))
	assert.Equal(t, 1, tbl.NumRows())
}

func TestColumn(t *testing.T) {
	tbl := New("name", "price")
	require.NoError(t, tbl.Append("apple", 1.5))
	require.NoError(t, tbl.Append("pear", nil))

	col, ok := tbl.Column("price")
	require.True(t, ok)
	assert.Equal(t, []any{1.5, nil}, col)

	_, ok = tbl.Column("missing")
	assert.False(t, ok)
}

func TestRecord(t *testing.T) {
	tbl := New("name", "price")
	require.NoError(t, tbl.Append("apple", 1.5))
	assert.Equal(t, map[string]any{"name": "apple", "price": 1.5}, tbl.Record(0))
}
