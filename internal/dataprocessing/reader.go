package dataprocessing

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Supported upload formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatXLS  = "xls"
	FormatPDF  = "pdf"
)

// SupportedFormats lists the extensions ReadTable understands
var SupportedFormats = []string{FormatCSV, FormatXLSX, FormatXLS, FormatPDF}

// missingMarkers are text cells read as missing, matching what spreadsheet
// exports and dataframe tools write for empty values.
var missingMarkers = map[string]bool{
	"": true, "#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true,
	"-1.#QNAN": true, "-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true,
	"<NA>": true, "N/A": true, "NA": true, "NULL": true, "NaN": true, "None": true,
	"n/a": true, "nan": true, "null": true,
}

// plainNumber matches decimal literals without grouping or currency symbols
var plainNumber = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?$`)

// FormatFromFilename returns the lowercased extension of a file name, without the dot
func FormatFromFilename(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// IsSupportedFormat reports whether ext names a readable format
func IsSupportedFormat(ext string) bool {
	for _, f := range SupportedFormats {
		if f == strings.ToLower(ext) {
			return true
		}
	}
	return false
}

// ReadTable decodes a file of the given format into a table. The first row
// is the header. An unknown format yields ErrUnsupportedFormat.
func ReadTable(ext string, data []byte) (*Table, error) {
	var (
		rows [][]string
		err  error
	)

	switch strings.ToLower(ext) {
	case FormatCSV:
		rows, err = readCSVRows(data)
	case FormatXLSX:
		rows, err = readXLSXRows(data)
	case FormatXLS:
		rows, err = readXLSRows(data)
	case FormatPDF:
		rows, err = readPDFRows(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ext, err)
	}
	return tableFromRows(rows), nil
}

// TableReader reads uploaded files and logs the outcome of each one
type TableReader struct {
	logger *slog.Logger
}

// NewTableReader creates a reader. A nil logger falls back to slog.Default.
func NewTableReader(logger *slog.Logger) *TableReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &TableReader{logger: logger.With(slog.String("component", "table_reader"))}
}

// Read decodes a named file. The extension of name selects the format.
func (r *TableReader) Read(name string, data []byte) (*Table, error) {
	ext := FormatFromFilename(name)
	t, err := ReadTable(ext, data)
	if err != nil {
		r.logger.Warn("file could not be read",
			slog.String("file", name),
			slog.String("format", ext),
			slog.String("error", err.Error()))
		return nil, err
	}
	r.logger.Info("file read",
		slog.String("file", name),
		slog.String("format", ext),
		slog.Int("rows", t.Rows()),
		slog.Int("columns", len(t.columns)))
	return t, nil
}

// tableFromRows turns raw text rows into a table: the first non-blank row
// becomes the header and later blank rows are skipped.
func tableFromRows(rows [][]string) *Table {
	start := -1
	for i, row := range rows {
		if !blankRow(row) {
			start = i
			break
		}
	}
	if start < 0 {
		return NewTable(nil, nil)
	}

	width := 0
	for _, row := range rows[start:] {
		if !blankRow(row) && len(row) > width {
			width = len(row)
		}
	}

	headers := normalizeHeaders(rows[start], width)
	var records [][]interface{}
	for _, row := range rows[start+1:] {
		if blankRow(row) {
			continue
		}
		rec := make([]interface{}, width)
		for c, s := range row {
			rec[c] = inferCell(s)
		}
		records = append(records, rec)
	}
	return NewTable(headers, records)
}

// normalizeHeaders pads the header to width, names blank headers
// "Unnamed: <i>" and suffixes repeats with ".1", ".2", ...
func normalizeHeaders(raw []string, width int) []string {
	headers := make([]string, width)
	counts := make(map[string]int)
	for i := 0; i < width; i++ {
		h := ""
		if i < len(raw) {
			h = strings.TrimSpace(raw[i])
		}
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		base := h
		for counts[h] > 0 {
			h = base + "." + strconv.Itoa(counts[base])
			counts[base]++
		}
		counts[h]++
		headers[i] = h
	}
	return headers
}

// inferCell maps missing markers to nil, plain decimal literals to float64
// and leaves everything else as trimmed text.
func inferCell(s string) interface{} {
	s = strings.TrimSpace(s)
	if missingMarkers[s] {
		return nil
	}
	if plainNumber.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
