package domain

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// NoReadableDataMessage is returned to clients when no uploaded file produced rows.
const NoReadableDataMessage = "No readable data found"

// DerivationModeName identifies how financial columns were derived for a table
type DerivationModeName string

const (
	DerivationModePeriod DerivationModeName = "period"
	DerivationModeFlat   DerivationModeName = "flat"
	DerivationModeNone   DerivationModeName = "none"
)

// AnalysisResult is the response payload of a successful analysis
type AnalysisResult struct {
	Rows            int             `json:"rows"`
	Columns         []string        `json:"columns"`
	ColumnTotals    *Record         `json:"column_totals"`
	TopItems        []*Record       `json:"top_items"`
	DetectedColumns DetectedColumns `json:"detected_columns"`
}

// DetectedColumns reports which headers were mapped to semantic roles
type DetectedColumns struct {
	UnitPrice string             `json:"unit_price,omitempty"`
	Cost      string             `json:"cost,omitempty"`
	Quantity  string             `json:"quantity,omitempty"`
	Periods   []string           `json:"periods"`
	Mode      DerivationModeName `json:"mode"`
	Derived   []string           `json:"derived"`
}

// ErrorPayload is the structured body returned when an analysis has nothing to work on
type ErrorPayload struct {
	Error string `json:"error"`
}

// Record is a JSON object whose keys keep insertion order.
// Clients render table headers from Object.keys, so column order matters.
type Record struct {
	fields *orderedmap.OrderedMap[string, interface{}]
}

// NewRecord creates an empty record
func NewRecord() *Record {
	return &Record{fields: orderedmap.New[string, interface{}]()}
}

// Set stores value under key. A repeated key keeps its first position and takes the new value.
func (r *Record) Set(key string, value interface{}) {
	if r.fields == nil {
		r.fields = orderedmap.New[string, interface{}]()
	}
	r.fields.Set(key, value)
}

// Get returns the value stored under key
func (r *Record) Get(key string) (interface{}, bool) {
	if r.fields == nil {
		return nil, false
	}
	return r.fields.Get(key)
}

// Keys returns the keys in insertion order
func (r *Record) Keys() []string {
	out := make([]string, 0, r.Len())
	if r.fields == nil {
		return out
	}
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Len returns the number of keys
func (r *Record) Len() int {
	if r.fields == nil {
		return 0
	}
	return r.fields.Len()
}

// MarshalJSON writes the record as an object with keys in insertion order
func (r *Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	if r.fields == nil {
		return []byte("{}"), nil
	}
	return r.fields.MarshalJSON()
}

// UnmarshalJSON reads an object, keeping the order keys appear in.
// Numbers decode as float64.
func (r *Record) UnmarshalJSON(data []byte) error {
	fields := orderedmap.New[string, interface{}]()
	if err := fields.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	r.fields = fields
	return nil
}
