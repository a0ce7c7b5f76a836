package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchRole(t *testing.T) {
	tests := []struct {
		name     string
		headers  []string
		keywords []string
		wantIdx  int
		wantOK   bool
	}{
		{"case insensitive substring", []string{"Item", "UNIT PRICE ($)"}, UnitPriceSynonyms, 1, true},
		{"first column wins", []string{"Qty Ordered", "Quantity"}, QuantitySynonyms, 0, true},
		{"broad keyword matches first", []string{"Sales Rep", "Unit Price"}, UnitPriceSynonyms, 0, true},
		{"no match", []string{"Item", "Region"}, CostSynonyms, -1, false},
		{"no headers", nil, QuantitySynonyms, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := MatchRole(tt.headers, tt.keywords)
			assert.Equal(t, tt.wantIdx, idx)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestNumericDetector_IsNumeric(t *testing.T) {
	tests := []struct {
		name   string
		values []interface{}
		want   bool
	}{
		{"three of five", []interface{}{"10", "20kg", "30", "abc", "40"}, true},
		{"one of three", []interface{}{"a", "b", "1"}, false},
		{"only first five sampled", []interface{}{"a", "b", "c", "d", "e", "1", "2", "3"}, false},
		{"nulls skipped", []interface{}{nil, "1", nil, "2", "x"}, true},
		{"all null", []interface{}{nil, nil}, false},
		{"floats", []interface{}{1.5, 2.0}, true},
		{"grouped and signed", []interface{}{"1,234.50", "-7", "$3"}, true},
		{"double minus", []interface{}{"--5", "--6"}, false},
		{"exponent has a letter", []interface{}{"1e5", "2e3"}, false},
		{"symbols only", []interface{}{"$", "%"}, false},
		{"arabic-indic digits", []interface{}{"١٢٣", "٤٥"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNumericColumn(tt.values))
		})
	}
}

func TestNumericDetector_CustomThreshold(t *testing.T) {
	strict := NumericDetector{SampleSize: 3, Threshold: 1.0}

	assert.False(t, strict.IsNumeric([]interface{}{"1", "2", "x"}))
	assert.True(t, strict.IsNumeric([]interface{}{"1", "2", "3", "x"}))
}

func TestClassifier_Classify(t *testing.T) {
	tbl := NewTable(
		[]string{"Product", "Unit Price", "Unit Cost", "Qty", "Discount"},
		[][]interface{}{
			{"Pen", "$2", "1", "10", 0.5},
			{"Ink", "$5", "3", "4", 1.0},
		},
	)

	c := NewClassifier(DefaultNumericDetector).Classify(tbl)

	assert.Equal(t, "Unit Price", c.UnitPrice)
	assert.Equal(t, "Unit Cost", c.Cost)
	assert.Equal(t, "Qty", c.Quantity)
	assert.Equal(t, []int{1, 2, 3}, c.RoleColumns())
	assert.Equal(t, []int{4}, c.Numeric, "role columns are excluded from the generic scan")
}

func TestClassifier_SharedKeyword(t *testing.T) {
	tbl := NewTable([]string{"Rate", "Units"}, [][]interface{}{{"3", "2"}})

	c := NewClassifier(DefaultNumericDetector).Classify(tbl)

	require.True(t, c.HasUnitPrice())
	require.True(t, c.HasCost())
	assert.Equal(t, "Rate", c.UnitPrice)
	assert.Equal(t, "Rate", c.Cost)
	assert.Equal(t, []int{0, 1}, c.RoleColumns(), "a shared column is listed once")

	d := c.Detected()
	assert.Equal(t, "Rate", d.UnitPrice)
	assert.Equal(t, "Units", d.Quantity)
}

func TestClassifier_NoRoles(t *testing.T) {
	tbl := NewTable([]string{"Region", "Visits"}, [][]interface{}{{"North", "12"}})

	c := NewClassifier(DefaultNumericDetector).Classify(tbl)

	assert.False(t, c.HasUnitPrice())
	assert.False(t, c.HasCost())
	assert.False(t, c.HasQuantity())
	assert.Empty(t, c.RoleColumns())
	assert.Equal(t, []int{1}, c.Numeric)
}

func TestRole_String(t *testing.T) {
	assert.Equal(t, "unit_price", RoleUnitPrice.String())
	assert.Equal(t, "cost", RoleCost.String())
	assert.Equal(t, "quantity", RoleQuantity.String())
	assert.Equal(t, "generic", RoleGeneric.String())
}
