package dataprocessing

import (
	"strings"
	"unicode"

	"salesinsight/pkg/contracts/domain"
)

// Role is the semantic meaning assigned to a column
type Role int

const (
	RoleGeneric Role = iota
	RoleUnitPrice
	RoleCost
	RoleQuantity
)

func (r Role) String() string {
	switch r {
	case RoleUnitPrice:
		return "unit_price"
	case RoleCost:
		return "cost"
	case RoleQuantity:
		return "quantity"
	}
	return "generic"
}

// Header keywords per role. "rate" is listed for both unit price and cost;
// each role is searched on its own, so one column can end up with both roles.
var (
	UnitPriceSynonyms = []string{"unit price", "rate", "list price", "price per", "fee", "charge", "tag price", "sale price", "sales"}
	CostSynonyms      = []string{"unit cost", "cost per unit", "cogs", "cost of goods sold", "standard cost", "production cost", "rate"}
	QuantitySynonyms  = []string{"quantity", "qty", "sold", "amount", "units sold", "units"}
)

// roleSynonyms is the ordered rule table consulted by Classify
var roleSynonyms = []struct {
	role     Role
	keywords []string
}{
	{RoleUnitPrice, UnitPriceSynonyms},
	{RoleCost, CostSynonyms},
	{RoleQuantity, QuantitySynonyms},
}

// MatchRole returns the first column, in column order, whose lowercased
// header contains any of the keywords.
func MatchRole(headers []string, keywords []string) (int, bool) {
	for i, h := range headers {
		lower := strings.ToLower(h)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return i, true
			}
		}
	}
	return -1, false
}

// NumericDetector decides whether a column holds numbers by sampling its
// first non-null values in row order.
type NumericDetector struct {
	SampleSize int
	Threshold  float64
}

// DefaultNumericDetector samples five values and needs 60% of them numeric
var DefaultNumericDetector = NumericDetector{SampleSize: 5, Threshold: 0.6}

// IsNumericColumn applies DefaultNumericDetector
func IsNumericColumn(values []interface{}) bool {
	return DefaultNumericDetector.IsNumeric(values)
}

// IsNumeric reports whether enough sampled values look numeric
func (d NumericDetector) IsNumeric(values []interface{}) bool {
	size := d.SampleSize
	if size <= 0 {
		size = DefaultNumericDetector.SampleSize
	}

	sampled, numeric := 0, 0
	for _, v := range values {
		if sampled == size {
			break
		}
		if isNull(v) {
			continue
		}
		sampled++
		if looksNumeric(cellString(v)) {
			numeric++
		}
	}

	denom := sampled
	if denom < 1 {
		denom = 1
	}
	return float64(numeric)/float64(denom) >= d.Threshold
}

// looksNumeric: no letters anywhere, and the digit/'.'/'-' residue is all
// digits once its first '.' and first '-' are removed.
func looksNumeric(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return false
		}
	}
	cleaned := stripNonNumeric(s)
	if cleaned == "" {
		return false
	}
	cleaned = strings.Replace(cleaned, ".", "", 1)
	cleaned = strings.Replace(cleaned, "-", "", 1)
	if cleaned == "" {
		return false
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Classification is the outcome of role matching and numeric detection on a table
type Classification struct {
	UnitPrice string
	Cost      string
	Quantity  string
	// Numeric lists generic (non-role) columns detected as numeric, by index
	Numeric []int

	unitIdx, costIdx, qtyIdx int
}

// HasUnitPrice reports whether a unit price column was found
func (c Classification) HasUnitPrice() bool { return c.unitIdx >= 0 }

// HasCost reports whether a cost column was found
func (c Classification) HasCost() bool { return c.costIdx >= 0 }

// HasQuantity reports whether a quantity column was found
func (c Classification) HasQuantity() bool { return c.qtyIdx >= 0 }

// RoleColumns returns the distinct column indexes holding a role, in role order
func (c Classification) RoleColumns() []int {
	var out []int
	for _, idx := range []int{c.unitIdx, c.costIdx, c.qtyIdx} {
		if idx < 0 {
			continue
		}
		dup := false
		for _, o := range out {
			if o == idx {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, idx)
		}
	}
	return out
}

// Detected converts the role assignment into its response form
func (c Classification) Detected() domain.DetectedColumns {
	return domain.DetectedColumns{
		UnitPrice: c.UnitPrice,
		Cost:      c.Cost,
		Quantity:  c.Quantity,
	}
}

// Classifier assigns roles and finds numeric columns
type Classifier struct {
	detector NumericDetector
}

// NewClassifier creates a classifier using the given numeric detector
func NewClassifier(detector NumericDetector) *Classifier {
	return &Classifier{detector: detector}
}

// Classify matches roles and scans the remaining columns for numeric content
func (cl *Classifier) Classify(t *Table) Classification {
	c := Classification{unitIdx: -1, costIdx: -1, qtyIdx: -1}

	for _, rule := range roleSynonyms {
		idx, ok := MatchRole(t.columns, rule.keywords)
		if !ok {
			continue
		}
		switch rule.role {
		case RoleUnitPrice:
			c.unitIdx, c.UnitPrice = idx, t.columns[idx]
		case RoleCost:
			c.costIdx, c.Cost = idx, t.columns[idx]
		case RoleQuantity:
			c.qtyIdx, c.Quantity = idx, t.columns[idx]
		}
	}

	roles := c.RoleColumns()
	for i := range t.columns {
		if containsInt(roles, i) {
			continue
		}
		if cl.detector.IsNumeric(t.data[i]) {
			c.Numeric = append(c.Numeric, i)
		}
	}
	return c
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
