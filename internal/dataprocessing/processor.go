package dataprocessing

// MissingTextValue replaces gaps in partially filled text columns
const MissingTextValue = "none"

// GapFillProcessor fills gaps in partially populated columns. Columns that
// are entirely empty are left alone so the derivation engine can fill them.
type GapFillProcessor struct{}

// NewGapFillProcessor creates a new gap-fill processor
func NewGapFillProcessor() *GapFillProcessor {
	return &GapFillProcessor{}
}

// GapFillStatistics summarises a gap-fill pass
type GapFillStatistics struct {
	ColumnsScanned int
	NumericFilled  int
	TextFilled     int
	CellsFilled    int
}

// FillPartialGaps replaces missing cells with 0 in numeric columns and with
// "none" in text columns, but only in columns that have both values and gaps.
func (p *GapFillProcessor) FillPartialGaps(t *Table) GapFillStatistics {
	stats := GapFillStatistics{ColumnsScanned: len(t.columns)}

	for i := range t.columns {
		if t.AllNull(i) || !t.AnyNull(i) {
			continue
		}

		var fill interface{} = MissingTextValue
		if p.isNumericTyped(t.data[i]) {
			fill = 0.0
			stats.NumericFilled++
		} else {
			stats.TextFilled++
		}

		col := t.data[i]
		for r, v := range col {
			if isNull(v) {
				col[r] = fill
				stats.CellsFilled++
			}
		}
	}
	return stats
}

// isNumericTyped reports whether every present cell is already a number
func (p *GapFillProcessor) isNumericTyped(col []interface{}) bool {
	for _, v := range col {
		if isNull(v) {
			continue
		}
		if _, ok := v.(float64); !ok {
			return false
		}
	}
	return true
}
