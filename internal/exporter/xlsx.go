package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"salesinsight/internal/dataprocessing"
	"salesinsight/pkg/contracts/domain"
)

// Sheet names of exported workbooks
const (
	DataSheet    = "Data"
	SummarySheet = "Summary"
)

// XLSXWriter writes tables as Excel workbooks
type XLSXWriter struct{}

// NewXLSXWriter creates a new workbook writer
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

// WriteTable writes the table to a Data sheet. When result is non-nil a
// Summary sheet with the row count, derivation mode and column totals follows.
func (x *XLSXWriter) WriteTable(out io.Writer, t *dataprocessing.Table, result *domain.AnalysisResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", DataSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeDataSheet(f, t, bold); err != nil {
		return err
	}

	if result != nil {
		if err := writeSummarySheet(f, result, bold); err != nil {
			return err
		}
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeDataSheet(f *excelize.File, t *dataprocessing.Table, headerStyle int) error {
	sw, err := f.NewStreamWriter(DataSheet)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}

	columns := t.Columns()
	header := make([]interface{}, len(columns))
	for i, name := range columns {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: name}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	values := make([]interface{}, len(columns))
	for row := 0; row < t.Rows(); row++ {
		for col := range values {
			values[col] = sheetCell(t.Cell(row, col))
		}
		cell, err := excelize.CoordinatesToCellName(1, row+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("failed to write record %d: %w", row, err)
		}
	}

	return sw.Flush()
}

func writeSummarySheet(f *excelize.File, result *domain.AnalysisResult, headerStyle int) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}

	rows := [][]interface{}{
		{"rows", result.Rows},
		{"mode", string(result.DetectedColumns.Mode)},
		{},
		{"column", "total"},
	}
	if result.ColumnTotals != nil {
		for _, name := range result.ColumnTotals.Keys() {
			total, _ := result.ColumnTotals.Get(name)
			rows = append(rows, []interface{}{name, sheetCell(total)})
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}

	return f.SetCellStyle(SummarySheet, "A4", "B4", headerStyle)
}
