package exporter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{name: "missing", input: nil, expected: ""},
		{name: "text", input: "Pen", expected: "Pen"},
		{name: "integer float", input: 123.0, expected: "123"},
		{name: "negative decimal", input: -789.123, expected: "-789.123"},
		{name: "no exponent", input: 1e21, expected: "1000000000000000000000"},
		{name: "nan", input: math.NaN(), expected: ""},
		{name: "positive infinity", input: math.Inf(1), expected: "inf"},
		{name: "negative infinity", input: math.Inf(-1), expected: "-inf"},
		{name: "int", input: 42, expected: "42"},
		{name: "bool", input: true, expected: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatCell(tt.input))
		})
	}
}

func TestSheetCell(t *testing.T) {
	assert.Nil(t, sheetCell(math.NaN()))
	assert.Nil(t, sheetCell(math.Inf(1)))
	assert.Equal(t, 2.5, sheetCell(2.5))
	assert.Equal(t, "x", sheetCell("x"))
}
