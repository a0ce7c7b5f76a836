package dataprocessing

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// NormalizeCell coerces a raw cell into a finite float64. Numbers pass
// through; anything else is stripped down to decimal digits, '.' and '-'
// and parsed. Digits of any script count, so "١٢٣" reads as 123. Missing, empty and unparseable values become 0, as do NaN
// and infinities. Parentheses do not mark negatives.
func NormalizeCell(v interface{}) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		return finite(x)
	case float32:
		return finite(float64(x))
	case int:
		return float64(x)
	case int64:
		return float64(x)
	}

	cleaned := stripNonNumeric(cellString(v))
	if cleaned == "" {
		return 0
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

// CleanColumn normalizes every cell of a column in place. Missing cells become 0.
func (t *Table) CleanColumn(idx int) {
	col := t.data[idx]
	for r, v := range col {
		col[r] = NormalizeCell(v)
	}
}

// stripNonNumeric keeps only decimal digits, '.' and '-'. Non-ASCII
// digits are rewritten to their ASCII form so strconv can parse them.
func stripNonNumeric(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '.' || r == '-':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			if d, ok := digitValue(r); ok {
				b.WriteByte(byte('0' + d))
			}
		}
	}
	return b.String()
}

// digitValue returns the value of a Unicode decimal digit. Every Nd range
// is made of whole runs of ten starting at that script's zero.
func digitValue(r rune) (int, bool) {
	if !unicode.IsDigit(r) {
		return 0, false
	}
	for _, rng := range unicode.Digit.R16 {
		if r >= rune(rng.Lo) && r <= rune(rng.Hi) {
			return int(r-rune(rng.Lo)) % 10, true
		}
	}
	for _, rng := range unicode.Digit.R32 {
		if r >= rune(rng.Lo) && r <= rune(rng.Hi) {
			return int(r-rune(rng.Lo)) % 10, true
		}
	}
	return 0, false
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
