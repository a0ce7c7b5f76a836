package dataprocessing

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// glyphs closer than this many ems belong to the same word
	pdfWordGap = 0.2
	// words closer than this many ems belong to the same cell
	pdfCellGap = 1.0
	// fallback em size for text runs without a font size
	pdfDefaultFontSize = 10.0
	// glyphs whose baselines differ by less than this many points share a line
	pdfLineTolerance = 2.0
)

// pdfCell is a run of text on one line together with its left edge
type pdfCell struct {
	x    float64
	text string
}

// readPDFRows extracts a table from the text layer of a PDF. Glyphs are
// grouped into lines by baseline, wide horizontal gaps split cells, and cells
// are aligned to the columns of the first line that has at least two cells.
// Header lines that repeat on later pages are dropped.
func readPDFRows(data []byte) (rows [][]string, err error) {
	// the pdf package panics on malformed content streams
	defer func() {
		if p := recover(); p != nil {
			rows, err = nil, fmt.Errorf("malformed pdf: %v", p)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var lines [][]pdfCell
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, line := range groupPDFLines(page.Content().Text) {
			if cells := splitPDFCells(line); len(cells) > 0 {
				lines = append(lines, cells)
			}
		}
	}
	return alignPDFLines(lines), nil
}

// groupPDFLines groups glyphs by baseline, top of the page first. Glyphs keep
// their content stream order within a line.
func groupPDFLines(texts []pdf.Text) [][]pdf.Text {
	type line struct {
		y     float64
		texts []pdf.Text
	}

	var lines []line
	for _, t := range texts {
		placed := false
		for i := range lines {
			if math.Abs(lines[i].y-t.Y) < pdfLineTolerance {
				lines[i].texts = append(lines[i].texts, t)
				placed = true
				break
			}
		}
		if !placed {
			lines = append(lines, line{y: t.Y, texts: []pdf.Text{t}})
		}
	}

	sort.SliceStable(lines, func(i, j int) bool { return lines[i].y > lines[j].y })

	out := make([][]pdf.Text, len(lines))
	for i, l := range lines {
		out[i] = l.texts
	}
	return out
}

// splitPDFCells joins the glyphs of one line into cells. A whitespace glyph
// or a gap wider than pdfWordGap separates words; a gap wider than
// pdfCellGap starts a new cell.
func splitPDFCells(texts []pdf.Text) []pdfCell {
	runs := make([]pdf.Text, len(texts))
	copy(runs, texts)
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].X < runs[j].X })

	var (
		cells   []pdfCell
		b       strings.Builder
		x, end  float64
		started bool
		space   bool
	)
	flush := func() {
		if s := strings.TrimSpace(b.String()); s != "" {
			cells = append(cells, pdfCell{x: x, text: s})
		}
		b.Reset()
	}

	for _, t := range runs {
		if strings.TrimSpace(t.S) == "" {
			space = started
			continue
		}

		em := t.FontSize
		if em <= 0 {
			em = pdfDefaultFontSize
		}
		gap := t.X - end
		switch {
		case !started:
			x, end, started = t.X, t.X, true
		case gap > pdfCellGap*em:
			flush()
			x = t.X
		case space || gap > pdfWordGap*em:
			b.WriteByte(' ')
		}
		space = false

		b.WriteString(t.S)
		if e := t.X + t.W; e > end {
			end = e
		}
	}
	flush()
	return cells
}

// alignPDFLines maps every cell to the header column whose left edge is the
// closest one at or before it. Lines before the header are treated as titles.
func alignPDFLines(lines [][]pdfCell) [][]string {
	headerAt := -1
	for i, l := range lines {
		if len(l) >= 2 {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil
	}

	header := lines[headerAt]
	starts := make([]float64, len(header))
	names := make([]string, len(header))
	for i, c := range header {
		starts[i] = c.x
		names[i] = c.text
	}

	out := [][]string{names}
	for _, l := range lines[headerAt+1:] {
		row := make([]string, len(header))
		for _, c := range l {
			col := 0
			for j, s := range starts {
				if c.x+pdfDefaultFontSize*pdfWordGap >= s {
					col = j
				}
			}
			if row[col] != "" {
				row[col] += " "
			}
			row[col] += c.text
		}
		if equalStrings(row, names) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
