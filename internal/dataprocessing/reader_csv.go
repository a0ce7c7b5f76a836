package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// readCSVRows decodes CSV text. A UTF-8 BOM is dropped and input that is
// not valid UTF-8 is read as Windows-1252, the usual encoding of
// spreadsheet exports that are not UTF-8.
func readCSVRows(data []byte) ([][]string, error) {
	var src io.Reader = bytes.NewReader(data)
	if utf8.Valid(data) {
		src = transform.NewReader(src, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	} else {
		src = transform.NewReader(src, charmap.Windows1252.NewDecoder())
	}

	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}
