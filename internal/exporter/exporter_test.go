package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salesinsight/internal/dataprocessing"
	"salesinsight/internal/shared/testutil"
	"salesinsight/pkg/contracts/domain"
)

func sampleAnalysis() *dataprocessing.Analysis {
	table := dataprocessing.NewTable(
		[]string{"Item", "Qty", "profit"},
		[][]interface{}{
			{"Pen", 4.0, 8.0},
			{"Cup, large", nil, 2.5},
		},
	)
	totals := domain.NewRecord()
	totals.Set("Qty", 4.0)
	totals.Set("profit", 10.5)
	return &dataprocessing.Analysis{
		Table: table,
		Result: &domain.AnalysisResult{
			Rows:            2,
			Columns:         table.Columns(),
			ColumnTotals:    totals,
			DetectedColumns: domain.DetectedColumns{Mode: domain.DerivationModeFlat},
		},
	}
}

func TestCSVWriter_WriteTable(t *testing.T) {
	tests := []struct {
		name    string
		options WriteOptions
		wantBOM bool
	}{
		{name: "plain", options: WriteOptions{}},
		{name: "with BOM", options: WriteOptions{BOMPrefix: true}, wantBOM: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewCSVWriter(tt.options).WriteTable(&buf, sampleAnalysis().Table))

			data := buf.Bytes()
			assert.Equal(t, tt.wantBOM, bytes.HasPrefix(data, utf8BOM))

			records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM))).ReadAll()
			require.NoError(t, err)
			assert.Equal(t, [][]string{
				{"Item", "Qty", "profit"},
				{"Pen", "4", "8"},
				{"Cup, large", "", "2.5"},
			}, records)
		})
	}
}

func TestXLSXWriter_WriteTable(t *testing.T) {
	var buf bytes.Buffer
	analysis := sampleAnalysis()
	require.NoError(t, NewXLSXWriter().WriteTable(&buf, analysis.Table, analysis.Result))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{DataSheet, SummarySheet}, f.GetSheetList())

	rows, err := f.GetRows(DataSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Item", "Qty", "profit"}, rows[0])
	assert.Equal(t, []string{"Pen", "4", "8"}, rows[1])

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"rows", "2"}, summary[0])
	assert.Equal(t, []string{"mode", "flat"}, summary[1])
	assert.Equal(t, []string{"profit", "10.5"}, summary[5])
}

func TestXLSXWriter_RoundTripThroughReader(t *testing.T) {
	var buf bytes.Buffer
	analysis := sampleAnalysis()
	require.NoError(t, NewXLSXWriter().WriteTable(&buf, analysis.Table, nil))

	table, err := dataprocessing.ReadTable(dataprocessing.FormatXLSX, buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, analysis.Table.Columns(), table.Columns())
	assert.Equal(t, 2, table.Rows())
	assert.Equal(t, 8.0, table.Cell(0, 2))
	assert.Nil(t, table.Cell(1, 1))
}

func TestExporter_ExportFile(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	exp := NewExporter(logger)
	dir := t.TempDir()

	for _, name := range []string{"out.csv", "nested/out.XLSX"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, exp.ExportFile(path, sampleAnalysis()))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}

	testutil.AssertLogAttr(t, logs, "format", FormatXLSX)
}

func TestExporter_Errors(t *testing.T) {
	exp := NewExporter(nil)
	dir := t.TempDir()

	err := exp.ExportFile(filepath.Join(dir, "out.json"), sampleAnalysis())
	assert.ErrorIs(t, err, ErrUnsupportedExportFormat)

	err = exp.Export(&bytes.Buffer{}, FormatCSV, nil)
	assert.Error(t, err)

	err = exp.Export(&bytes.Buffer{}, "pdf", sampleAnalysis())
	assert.ErrorIs(t, err, ErrUnsupportedExportFormat)
}
