package dataprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable(t *testing.T) {
	tbl := NewTable([]string{"A", "B"}, [][]interface{}{
		{1.0},
		{2.0, "x", "extra"},
	})

	assert.Equal(t, 2, tbl.Rows())
	assert.Equal(t, []string{"A", "B"}, tbl.Columns())
	assert.Nil(t, tbl.Cell(0, 1), "short records are padded")
	assert.Equal(t, []interface{}{2.0, "x"}, tbl.Row(1), "long records are truncated")
}

func TestTable_Empty(t *testing.T) {
	tests := []struct {
		name string
		tbl  *Table
		want bool
	}{
		{"nil", nil, true},
		{"no columns", NewTable(nil, [][]interface{}{{}}), true},
		{"header only", NewTable([]string{"A"}, nil), true},
		{"data", NewTable([]string{"A"}, [][]interface{}{{1.0}}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tbl.Empty())
		})
	}
}

func TestTable_SetColumn(t *testing.T) {
	tbl := NewTable([]string{"A"}, [][]interface{}{{1.0}, {2.0}})

	tbl.SetColumn("B", []interface{}{"x", "y"})
	tbl.SetColumn("A", []interface{}{3.0, 4.0})

	assert.Equal(t, []string{"A", "B"}, tbl.Columns())
	assert.Equal(t, []interface{}{3.0, 4.0}, tbl.Column(0))
	assert.Panics(t, func() { tbl.SetColumn("C", []interface{}{1.0}) })
}

func TestTable_NullChecks(t *testing.T) {
	tbl := NewTable([]string{"Full", "Partial", "Empty", "NaN"}, [][]interface{}{
		{1.0, nil, nil, math.NaN()},
		{2.0, "x", nil, nil},
	})

	assert.False(t, tbl.AnyNull(0))
	assert.True(t, tbl.AnyNull(1))
	assert.False(t, tbl.AllNull(1))
	assert.True(t, tbl.AllNull(2))
	assert.True(t, tbl.AllNull(3), "NaN counts as missing")

	dropped := tbl.DropAllNullColumns()
	assert.Equal(t, []string{"Empty", "NaN"}, dropped)
	assert.Equal(t, []string{"Full", "Partial"}, tbl.Columns())
}

func TestConcat(t *testing.T) {
	t.Run("disjoint columns are unioned in first-seen order", func(t *testing.T) {
		a := NewTable([]string{"Item", "Qty"}, [][]interface{}{{"pen", 2.0}})
		b := NewTable([]string{"Item", "Price"}, [][]interface{}{{"ink", 5.0}, {"cap", 1.0}})

		out := Concat(a, b)

		require.Equal(t, 3, out.Rows())
		assert.Equal(t, []string{"Item", "Qty", "Price"}, out.Columns())
		assert.Equal(t, []interface{}{"pen", 2.0, nil}, out.Row(0))
		assert.Equal(t, []interface{}{"ink", nil, 5.0}, out.Row(1))
		assert.Equal(t, []interface{}{"cap", nil, 1.0}, out.Row(2))
	})

	t.Run("nil and empty tables contribute nothing", func(t *testing.T) {
		a := NewTable([]string{"Item"}, [][]interface{}{{"pen"}})
		empty := NewTable([]string{"Ghost"}, nil)

		out := Concat(nil, empty, a)

		assert.Equal(t, 1, out.Rows())
		assert.Equal(t, []string{"Item"}, out.Columns())
	})

	t.Run("repeated names pair by occurrence", func(t *testing.T) {
		a := NewTable([]string{"X", "X"}, [][]interface{}{{1.0, 2.0}})
		b := NewTable([]string{"X"}, [][]interface{}{{3.0}})

		out := Concat(a, b)

		assert.Equal(t, []string{"X", "X"}, out.Columns())
		assert.Equal(t, []interface{}{3.0, nil}, out.Row(1))
	})

	t.Run("no input", func(t *testing.T) {
		assert.True(t, Concat().Empty())
	})
}

func TestCellString(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{nil, ""},
		{"abc", "abc"},
		{12.5, "12.5"},
		{3.0, "3"},
		{math.Inf(1), "inf"},
		{true, "True"},
		{7, "7"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, cellString(tt.in))
	}
}
