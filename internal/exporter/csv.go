package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"salesinsight/internal/dataprocessing"
)

// utf8BOM helps Excel recognize UTF-8 CSV files
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// CSVWriter writes tables as CSV
type CSVWriter struct {
	options WriteOptions
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(options WriteOptions) *CSVWriter {
	return &CSVWriter{options: options}
}

// WriteTable writes the header row followed by every data row
func (w *CSVWriter) WriteTable(out io.Writer, t *dataprocessing.Table) error {
	if w.options.BOMPrefix {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)

	if err := writer.Write(t.Columns()); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	record := make([]string, len(t.Columns()))
	for row := 0; row < t.Rows(); row++ {
		for col := range record {
			record[col] = formatCell(t.Cell(row, col))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", row, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
