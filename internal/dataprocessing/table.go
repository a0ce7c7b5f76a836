package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
)

// Table is a rectangular, column-major sheet of untyped cells.
// A cell is nil (missing), a string or a float64. Column names are not
// required to be unique.
type Table struct {
	columns []string
	data    [][]interface{}
	rows    int
}

// NewTable creates a table from a header row and row-major records.
// Short records are padded with nil and long records are truncated.
func NewTable(headers []string, records [][]interface{}) *Table {
	t := &Table{
		columns: append([]string(nil), headers...),
		data:    make([][]interface{}, len(headers)),
		rows:    len(records),
	}
	for c := range headers {
		col := make([]interface{}, len(records))
		for r, rec := range records {
			if c < len(rec) {
				col[r] = rec[c]
			}
		}
		t.data[c] = col
	}
	return t
}

// Rows returns the number of rows
func (t *Table) Rows() int {
	if t == nil {
		return 0
	}
	return t.rows
}

// Columns returns a copy of the column names in order
func (t *Table) Columns() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.columns...)
}

// Empty reports whether the table has no rows or no columns
func (t *Table) Empty() bool {
	return t == nil || t.rows == 0 || len(t.columns) == 0
}

// ColumnIndex returns the position of the first column called name
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// Column returns the cells of the column at idx. The slice is shared with the table.
func (t *Table) Column(idx int) []interface{} {
	return t.data[idx]
}

// Cell returns a single cell
func (t *Table) Cell(row, col int) interface{} {
	return t.data[col][row]
}

// Row returns the cells of a row in column order
func (t *Table) Row(row int) []interface{} {
	out := make([]interface{}, len(t.columns))
	for c := range t.columns {
		out[c] = t.data[c][row]
	}
	return out
}

// ReplaceColumn overwrites the cells of the column at idx
func (t *Table) ReplaceColumn(idx int, values []interface{}) {
	if len(values) != t.rows {
		panic(fmt.Sprintf("dataprocessing: column %q has %d cells, table has %d rows", t.columns[idx], len(values), t.rows))
	}
	t.data[idx] = values
}

// SetColumn replaces the first column called name, or appends it when absent
func (t *Table) SetColumn(name string, values []interface{}) {
	if idx, ok := t.ColumnIndex(name); ok {
		t.ReplaceColumn(idx, values)
		return
	}
	if len(values) != t.rows {
		panic(fmt.Sprintf("dataprocessing: column %q has %d cells, table has %d rows", name, len(values), t.rows))
	}
	t.columns = append(t.columns, name)
	t.data = append(t.data, values)
}

// AllNull reports whether every cell of the column is missing.
// A column on a table with no rows is all-null.
func (t *Table) AllNull(idx int) bool {
	for _, v := range t.data[idx] {
		if !isNull(v) {
			return false
		}
	}
	return true
}

// AnyNull reports whether at least one cell of the column is missing
func (t *Table) AnyNull(idx int) bool {
	for _, v := range t.data[idx] {
		if isNull(v) {
			return true
		}
	}
	return false
}

// DropAllNullColumns removes every column whose cells are all missing
func (t *Table) DropAllNullColumns() []string {
	var dropped []string
	columns := t.columns[:0:0]
	data := t.data[:0:0]
	for i, name := range t.columns {
		if t.AllNull(i) {
			dropped = append(dropped, name)
			continue
		}
		columns = append(columns, name)
		data = append(data, t.data[i])
	}
	t.columns = columns
	t.data = data
	return dropped
}

// Concat stacks tables vertically. Columns are the union of all names in
// first-seen order; repeated names are paired by occurrence. Cells a source
// does not provide are nil. Nil and empty tables contribute nothing.
func Concat(tables ...*Table) *Table {
	out := &Table{}
	type key struct {
		name       string
		occurrence int
	}
	positions := make(map[key]int)

	for _, src := range tables {
		if src.Empty() {
			continue
		}

		seen := make(map[string]int)
		mapping := make([]int, len(src.columns))
		for i, name := range src.columns {
			k := key{name: name, occurrence: seen[name]}
			seen[name]++
			pos, ok := positions[k]
			if !ok {
				pos = len(out.columns)
				positions[k] = pos
				out.columns = append(out.columns, name)
				out.data = append(out.data, make([]interface{}, out.rows))
			}
			mapping[i] = pos
		}

		for c := range out.data {
			out.data[c] = append(out.data[c], make([]interface{}, src.rows)...)
		}
		for i, pos := range mapping {
			copy(out.data[pos][out.rows:], src.data[i])
		}
		out.rows += src.rows
	}
	return out
}

// isNull reports whether a cell counts as missing. NaN is missing, as in the
// spreadsheets this service receives from dataframe-based tools.
func isNull(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	}
	return false
}

// cellString renders a cell the way it is inspected by the numeric detector
func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		switch {
		case math.IsInf(x, 1):
			return "inf"
		case math.IsInf(x, -1):
			return "-inf"
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		if x {
			return "True"
		}
		return "False"
	}
	return fmt.Sprint(v)
}
