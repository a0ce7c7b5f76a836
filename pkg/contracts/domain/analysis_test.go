package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_KeepsInsertionOrder(t *testing.T) {
	r := NewRecord()
	r.Set("Item", "Pen")
	r.Set("Unit Price", 3.0)
	r.Set("profit", 8.0)
	r.Set("Item", "Ink")

	assert.Equal(t, []string{"Item", "Unit Price", "profit"}, r.Keys())
	assert.Equal(t, 3, r.Len())

	v, ok := r.Get("Item")
	require.True(t, ok)
	assert.Equal(t, "Ink", v)

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"Item":"Ink","Unit Price":3,"profit":8}`, string(out))
}

func TestRecord_ZeroAndNil(t *testing.T) {
	var zero Record
	assert.Empty(t, zero.Keys())
	_, ok := zero.Get("x")
	assert.False(t, ok)

	out, err := json.Marshal(&zero)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(out))

	zero.Set("a", nil)
	assert.Equal(t, []string{"a"}, zero.Keys())

	var missing *Record
	out, err = json.Marshal(missing)
	require.NoError(t, err)
	assert.Equal(t, `null`, string(out))
}

func TestRecord_UnmarshalJSON(t *testing.T) {
	var r Record
	require.NoError(t, json.Unmarshal([]byte(`{"z":1,"a":"x","m":null}`), &r))

	assert.Equal(t, []string{"z", "a", "m"}, r.Keys())
	z, _ := r.Get("z")
	assert.Equal(t, 1.0, z)
	m, ok := r.Get("m")
	assert.True(t, ok)
	assert.Nil(t, m)
}

func TestRecord_UnmarshalJSONRejectsNonObjects(t *testing.T) {
	tests := []string{`[1,2]`, `"text"`, `{"a":}`}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			var r Record
			assert.Error(t, r.UnmarshalJSON([]byte(input)))
		})
	}
}

func TestAnalysisResult_JSON(t *testing.T) {
	totals := NewRecord()
	totals.Set("Qty", 4.0)

	out, err := json.Marshal(AnalysisResult{
		Rows:         1,
		Columns:      []string{"Item", "Qty"},
		ColumnTotals: totals,
		TopItems:     []*Record{},
		DetectedColumns: DetectedColumns{
			Quantity: "Qty",
			Periods:  []string{},
			Mode:     DerivationModeFlat,
			Derived:  []string{},
		},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"rows": 1,
		"columns": ["Item", "Qty"],
		"column_totals": {"Qty": 4},
		"top_items": [],
		"detected_columns": {"quantity": "Qty", "periods": [], "mode": "flat", "derived": []}
	}`, string(out))
}
