package dataprocessing

import (
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"salesinsight/pkg/contracts/domain"
)

// Aggregator produces column totals and the top rows by profit
type Aggregator struct {
	detector NumericDetector
}

// NewAggregator creates an aggregator using the given numeric detector
func NewAggregator(detector NumericDetector) *Aggregator {
	return &Aggregator{detector: detector}
}

// Summary is the aggregated view of a table
type Summary struct {
	Dropped      []string
	Totals       *domain.Record
	ProfitColumn string
	TopItems     []*domain.Record
}

// Aggregate drops empty columns, totals the numeric ones and ranks rows by
// the first column whose header mentions "profit". A negative topN is
// treated as zero.
func (a *Aggregator) Aggregate(t *Table, topN int) Summary {
	s := Summary{
		Dropped:  t.DropAllNullColumns(),
		Totals:   domain.NewRecord(),
		TopItems: []*domain.Record{},
	}

	for i, name := range t.columns {
		if a.detector.IsNumeric(t.data[i]) {
			s.Totals.Set(name, SumColumn(t.data[i]))
		}
	}

	profitIdx, ok := FindProfitColumn(t.columns)
	if !ok {
		return s
	}
	s.ProfitColumn = t.columns[profitIdx]

	for _, r := range TopRows(t.data[profitIdx], topN) {
		s.TopItems = append(s.TopItems, rowRecord(t, r))
	}
	return s
}

// SumColumn adds up a column with decimal arithmetic; missing cells count as 0
func SumColumn(values []interface{}) float64 {
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(decimal.NewFromFloat(NormalizeCell(v)))
	}
	f, _ := sum.Float64()
	return f
}

// FindProfitColumn returns the first column whose header contains "profit", ignoring case
func FindProfitColumn(headers []string) (int, bool) {
	for i, h := range headers {
		if strings.Contains(strings.ToLower(h), "profit") {
			return i, true
		}
	}
	return -1, false
}

// TopRows returns the indexes of the n rows with the largest values,
// largest first. Missing values sort last; ties keep row order.
func TopRows(values []interface{}, n int) []int {
	if n < 0 {
		n = 0
	}
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := values[order[i]], values[order[j]]
		if isNull(b) {
			return !isNull(a)
		}
		if isNull(a) {
			return false
		}
		return NormalizeCell(a) > NormalizeCell(b)
	})
	if n < len(order) {
		order = order[:n]
	}
	return order
}

// rowRecord renders a row as an ordered record keyed by column name
func rowRecord(t *Table, row int) *domain.Record {
	rec := domain.NewRecord()
	for c, name := range t.columns {
		rec.Set(name, jsonCell(t.data[c][row]))
	}
	return rec
}

// jsonCell maps values JSON cannot carry (NaN, infinities) to null
func jsonCell(v interface{}) interface{} {
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return nil
	}
	return v
}
