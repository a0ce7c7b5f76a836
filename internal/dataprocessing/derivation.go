package dataprocessing

import (
	"regexp"
	"strings"
	"unicode"

	"salesinsight/pkg/contracts/domain"
)

// periodHeader matches "<Period> Revenue|Cost|Profit" at the start of a header
var periodHeader = regexp.MustCompile(`(?i)^(\w+)\s+(revenue|cost|profit)`)

// FlatProfitColumn is the column created when no period columns exist
const FlatProfitColumn = "profit"

// DerivationMode selects which rule ladder computes the financial columns.
// It is decided once per table by DetectMode.
type DerivationMode interface {
	Name() domain.DerivationModeName
}

// PeriodMode derives "<Period> Revenue/Cost/Profit" for every detected period
type PeriodMode struct {
	Periods []string
}

// FlatMode derives a single "profit" column from the global roles
type FlatMode struct{}

// NoDerivation is used when the table already reports a profit and has no periods
type NoDerivation struct{}

func (PeriodMode) Name() domain.DerivationModeName   { return domain.DerivationModePeriod }
func (FlatMode) Name() domain.DerivationModeName     { return domain.DerivationModeFlat }
func (NoDerivation) Name() domain.DerivationModeName { return domain.DerivationModeNone }

// DetectPeriods returns the distinct, title-cased period labels found in the
// headers, in the order they first appear.
func DetectPeriods(headers []string) []string {
	var periods []string
	seen := make(map[string]bool)
	for _, h := range headers {
		m := periodHeader.FindStringSubmatch(h)
		if m == nil {
			continue
		}
		p := titleCase(m[1])
		if !seen[p] {
			seen[p] = true
			periods = append(periods, p)
		}
	}
	return periods
}

// DetectMode picks the derivation mode for a table
func DetectMode(t *Table) DerivationMode {
	if periods := DetectPeriods(t.columns); len(periods) > 0 {
		return PeriodMode{Periods: periods}
	}
	for _, h := range t.columns {
		if strings.Contains(strings.ToLower(h), "profit") {
			return NoDerivation{}
		}
	}
	return FlatMode{}
}

// DerivationReport describes what a derivation pass did
type DerivationReport struct {
	Mode    DerivationMode
	Written []string
}

// Periods returns the periods of a period-mode derivation
func (r DerivationReport) Periods() []string {
	if pm, ok := r.Mode.(PeriodMode); ok {
		return pm.Periods
	}
	return nil
}

// Derive fills in missing revenue, cost and profit columns. Columns that
// already hold any value are never overwritten, so running it twice is a
// no-op. Missing roles only mean fewer derived columns.
func Derive(t *Table, c Classification) DerivationReport {
	report := DerivationReport{Mode: DetectMode(t)}
	d := deriver{t: t, c: c, report: &report}

	switch mode := report.Mode.(type) {
	case PeriodMode:
		for _, p := range mode.Periods {
			d.derivePeriod(p)
		}
	case FlatMode:
		d.deriveFlat()
	}
	return report
}

type deriver struct {
	t      *Table
	c      Classification
	report *DerivationReport
}

func (d *deriver) derivePeriod(period string) {
	revenueCol := period + " Revenue"
	costCol := period + " Cost"
	profitCol := period + " Profit"

	if d.c.HasUnitPrice() && d.c.HasQuantity() && d.fillable(revenueCol, false) {
		d.write(revenueCol, product(d.t.data[d.c.unitIdx], d.t.data[d.c.qtyIdx]))
	}
	if d.c.HasCost() && d.c.HasQuantity() && d.fillable(costCol, false) {
		d.write(costCol, product(d.t.data[d.c.costIdx], d.t.data[d.c.qtyIdx]))
	}

	revenue, revenueExists := d.populated(revenueCol)
	cost, costExists := d.populated(costCol)
	if !d.fillable(profitCol, true) {
		return
	}

	switch {
	case revenueExists && costExists:
		d.write(profitCol, rowwise(d.t.rows, func(r int) float64 {
			return NormalizeCell(revenue[r]) - NormalizeCell(cost[r])
		}))
	case revenueExists:
		d.write(profitCol, rowwise(d.t.rows, func(r int) float64 {
			return NormalizeCell(revenue[r])
		}))
	case costExists:
		d.write(profitCol, rowwise(d.t.rows, func(r int) float64 {
			return -NormalizeCell(cost[r])
		}))
	}
}

func (d *deriver) deriveFlat() {
	unit, unitExists := d.role(d.c.unitIdx)
	cost, costExists := d.role(d.c.costIdx)
	qty, qtyExists := d.role(d.c.qtyIdx)

	var values []interface{}
	switch {
	case unitExists && costExists && qtyExists:
		values = rowwise(d.t.rows, func(r int) float64 {
			return (NormalizeCell(unit[r]) - NormalizeCell(cost[r])) * NormalizeCell(qty[r])
		})
	case unitExists && qtyExists:
		values = rowwise(d.t.rows, func(r int) float64 {
			return NormalizeCell(unit[r]) * NormalizeCell(qty[r])
		})
	case costExists && qtyExists:
		values = rowwise(d.t.rows, func(r int) float64 {
			return -(NormalizeCell(cost[r]) * NormalizeCell(qty[r]))
		})
	case unitExists:
		values = rowwise(d.t.rows, func(r int) float64 {
			return NormalizeCell(unit[r])
		})
	default:
		return
	}
	d.write(FlatProfitColumn, values)
}

// fillable reports whether the engine may write the named column: it must be
// entirely null, or, when mayCreate is set, absent.
func (d *deriver) fillable(name string, mayCreate bool) bool {
	idx, ok := d.t.ColumnIndex(name)
	if !ok {
		return mayCreate
	}
	return d.t.AllNull(idx)
}

// populated returns the named column when it exists and holds at least one value
func (d *deriver) populated(name string) ([]interface{}, bool) {
	idx, ok := d.t.ColumnIndex(name)
	if !ok || d.t.AllNull(idx) {
		return nil, false
	}
	return d.t.data[idx], true
}

// role returns a role column when it is assigned and not entirely null
func (d *deriver) role(idx int) ([]interface{}, bool) {
	if idx < 0 || d.t.AllNull(idx) {
		return nil, false
	}
	return d.t.data[idx], true
}

func (d *deriver) write(name string, values []interface{}) {
	d.t.SetColumn(name, values)
	d.report.Written = append(d.report.Written, name)
}

// product multiplies two columns row by row; a missing operand gives a missing result
func product(a, b []interface{}) []interface{} {
	out := make([]interface{}, len(a))
	for r := range a {
		if isNull(a[r]) || isNull(b[r]) {
			continue
		}
		out[r] = NormalizeCell(a[r]) * NormalizeCell(b[r])
	}
	return out
}

func rowwise(rows int, f func(r int) float64) []interface{} {
	out := make([]interface{}, rows)
	for r := 0; r < rows; r++ {
		out[r] = f(r)
	}
	return out
}

// titleCase upper-cases letters that follow a non-letter and lower-cases the rest
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
