package dataprocessing

import (
	"fmt"
	"os"

	"github.com/shakinm/xlsReader/xls"
)

// readXLSRows returns the rows of the first sheet of a legacy BIFF workbook.
// The decoder only opens files by path, so the bytes go through a temp file
// that is removed before returning.
func readXLSRows(data []byte) ([][]string, error) {
	tmp, err := os.CreateTemp("", "upload-*.xls")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	book, err := xls.OpenFile(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	sheet, err := book.GetSheet(0)
	if err != nil || sheet == nil {
		return nil, fmt.Errorf("no sheets found")
	}

	var rows [][]string
	for _, xlsRow := range sheet.GetRows() {
		var row []string
		for _, col := range xlsRow.GetCols() {
			row = append(row, col.GetString())
		}
		rows = append(rows, row)
	}
	return rows, nil
}
