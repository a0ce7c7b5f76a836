package dataprocessing

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// readXLSXRows returns the rows of the first worksheet. When the first sheet
// is empty the first sheet that has any data is used instead.
func readXLSXRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	for _, name := range sheets {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
		for _, row := range rows {
			if !blankRow(row) {
				return rows, nil
			}
		}
	}
	return nil, nil
}
