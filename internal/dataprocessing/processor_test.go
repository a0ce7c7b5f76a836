package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGapFillProcessor_FillPartialGaps(t *testing.T) {
	tbl := NewTable(
		[]string{"Numeric", "Text", "Empty", "Full", "Mixed"},
		[][]interface{}{
			{1.0, "a", nil, 1.0, 2.0},
			{nil, nil, nil, 2.0, "x"},
			{3.0, "c", nil, 3.0, nil},
		},
	)

	stats := NewGapFillProcessor().FillPartialGaps(tbl)

	assert.Equal(t, []interface{}{1.0, 0.0, 3.0}, tbl.Column(0))
	assert.Equal(t, []interface{}{"a", MissingTextValue, "c"}, tbl.Column(1))
	assert.Equal(t, []interface{}{nil, nil, nil}, tbl.Column(2), "all-null columns are left for derivation")
	assert.Equal(t, []interface{}{1.0, 2.0, 3.0}, tbl.Column(3))
	assert.Equal(t, []interface{}{2.0, "x", MissingTextValue}, tbl.Column(4), "mixed columns fill as text")

	assert.Equal(t, GapFillStatistics{
		ColumnsScanned: 5,
		NumericFilled:  1,
		TextFilled:     2,
		CellsFilled:    3,
	}, stats)
}

func TestGapFillProcessor_NoGaps(t *testing.T) {
	tbl := NewTable([]string{"A"}, [][]interface{}{{1.0}})

	stats := NewGapFillProcessor().FillPartialGaps(tbl)

	assert.Zero(t, stats.CellsFilled)
	assert.Equal(t, []interface{}{1.0}, tbl.Column(0))
}
