package ingest

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/celltrail/internal/debug"
	"github.com/celltrail/internal/normalize"
)

// documentReader parses tables out of carrier PDF exports. Per page it
// first attempts geometry-based table detection from positioned text
// runs; when no table header can be located geometrically it falls back
// to a text heuristic that splits lines on runs of whitespace. Multiple
// tables per page are processed independently and concatenated.
type documentReader struct {
	rows  []*RawRow
	index int
}

func newDocumentReader(data []byte) (*documentReader, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	d := &documentReader{}
	for pno := 1; pno <= r.NumPage(); pno++ {
		page := r.Page(pno)
		if page.V.IsNull() {
			continue
		}
		lines := pageLines(page)
		tables := layoutTables(lines)
		if tables == nil {
			tables = fallbackTables(joinLines(lines))
			if tables != nil {
				debug.Output("pdf page %d: text-heuristic fallback found %d table(s)", pno, len(tables))
			}
		}
		for _, table := range tables {
			d.appendTable(pno, table)
		}
	}
	return d, nil
}

// Next implements RowReader.
func (d *documentReader) Next() (*RawRow, error) {
	if d.index >= len(d.rows) {
		return nil, io.EOF
	}
	row := d.rows[d.index]
	d.index++
	return row, nil
}

// appendTable turns one extracted table (header row first) into raw
// rows. Row refs are 1-based within the table, counting the header.
func (d *documentReader) appendTable(pno int, table [][]string) {
	if len(table) < 2 {
		return
	}
	header := make([]string, len(table[0]))
	for i, label := range table[0] {
		header[i] = strings.TrimSpace(label)
	}
	for ridx, rec := range table[1:] {
		rec = padRow(rec, len(header))
		row := &RawRow{
			Ref:   fmt.Sprintf("page%d row%d", pno, ridx+2),
			Cells: make([]Cell, 0, len(header)),
		}
		for i, label := range header {
			row.Cells = append(row.Cells, Cell{Label: label, Value: strings.TrimSpace(rec[i])})
		}
		d.rows = append(d.rows, row)
	}
}

// textSpan is a horizontally merged run of text on one line.
type textSpan struct {
	x float64
	w float64
	s string
}

// textLine is one visual line of a page, cells ordered left to right.
type textLine struct {
	y     float64
	cells []textSpan
}

// Clustering tolerances, in PDF points.
const (
	lineYTolerance = 2.0
	cellGapMin     = 4.0
	columnSlack    = 2.0
)

// pageLines clusters a page's positioned text runs into lines and
// cells. The pdf library panics on some malformed content streams;
// those pages read as empty.
func pageLines(page pdf.Page) (lines []textLine) {
	defer func() {
		if r := recover(); r != nil {
			debug.Output("pdf content extraction panic recovered: %v", r)
			lines = nil
		}
	}()

	texts := page.Content().Text
	if len(texts) == 0 {
		return nil
	}
	sort.SliceStable(texts, func(i, j int) bool {
		if texts[i].Y != texts[j].Y {
			return texts[i].Y > texts[j].Y // PDF Y grows upward
		}
		return texts[i].X < texts[j].X
	})

	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		if len(lines) == 0 || absFloat(lines[len(lines)-1].y-t.Y) > lineYTolerance {
			lines = append(lines, textLine{y: t.Y})
		}
		line := &lines[len(lines)-1]

		gap := cellGapMin
		if t.FontSize > 0 && t.FontSize*0.6 > gap {
			gap = t.FontSize * 0.6
		}
		if n := len(line.cells); n > 0 && t.X-(line.cells[n-1].x+line.cells[n-1].w) < gap {
			// contiguous run, same cell; keep word spacing when the runs
			// do not touch
			if t.X-(line.cells[n-1].x+line.cells[n-1].w) > 1.0 {
				line.cells[n-1].s += " "
			}
			line.cells[n-1].s += t.S
			line.cells[n-1].w = t.X + t.W - line.cells[n-1].x
		} else {
			line.cells = append(line.cells, textSpan{x: t.X, w: t.W, s: t.S})
		}
	}

	// drop cells that merged into pure whitespace
	for i := range lines {
		kept := lines[i].cells[:0]
		for _, c := range lines[i].cells {
			if strings.TrimSpace(c.s) != "" {
				c.s = strings.TrimSpace(c.s)
				kept = append(kept, c)
			}
		}
		lines[i].cells = kept
	}
	return lines
}

// layoutTables detects tables from cell geometry: a line whose cells
// resolve at least two known header labels opens a table and fixes the
// column X positions; following lines are assigned to columns by
// horizontal position. Returns nil when no header line is found, which
// hands the page to the text fallback.
func layoutTables(lines []textLine) [][][]string {
	var tables [][][]string
	var current [][]string
	var columns []float64

	flush := func() {
		if current != nil {
			tables = append(tables, current)
			current = nil
			columns = nil
		}
	}

	for _, line := range lines {
		if isHeaderLine(line) {
			flush()
			columns = make([]float64, len(line.cells))
			header := make([]string, len(line.cells))
			for i, c := range line.cells {
				columns[i] = c.x
				header[i] = c.s
			}
			current = [][]string{header}
			continue
		}
		if current == nil || len(line.cells) == 0 {
			continue
		}
		rec := make([]string, len(columns))
		for _, c := range line.cells {
			j := columnFor(columns, c.x)
			if rec[j] == "" {
				rec[j] = c.s
			} else {
				rec[j] += " " + c.s
			}
		}
		current = append(current, rec)
	}
	flush()
	return tables
}

// isHeaderLine reports whether at least two cells of the line map to
// canonical header fields.
func isHeaderLine(line textLine) bool {
	mapped := 0
	for _, c := range line.cells {
		if _, ok := normalize.MapHeader(c.s); ok {
			mapped++
		}
	}
	return mapped >= 2
}

// columnFor picks the right-most column starting at or left of x.
func columnFor(columns []float64, x float64) int {
	idx := 0
	for j, colX := range columns {
		if colX-columnSlack <= x {
			idx = j
		}
	}
	return idx
}

// joinLines flattens clustered lines back into plain text for the
// fallback pass.
func joinLines(lines []textLine) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		parts := make([]string, 0, len(line.cells))
		for _, c := range line.cells {
			parts = append(parts, c.s)
		}
		if s := strings.TrimSpace(strings.Join(parts, "  ")); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// fallbackSplitter separates columns in unruled text: runs of two or
// more spaces, or tabs.
var fallbackSplitter = regexp.MustCompile(`\s{2,}|\t+`)

// fallbackTables is the text-heuristic extractor: the first line
// containing any known header synonym becomes the header row; it and
// every following line split into columns on whitespace runs. A later
// header line starts a new table.
func fallbackTables(lines []string) [][][]string {
	var tables [][][]string
	var current [][]string

	for _, line := range lines {
		if normalize.LineHasHeader(line) {
			if current != nil {
				tables = append(tables, current)
			}
			current = [][]string{splitColumns(line)}
			continue
		}
		if current == nil {
			continue
		}
		if cols := splitColumns(line); len(cols) > 0 {
			current = append(current, cols)
		}
	}
	if current != nil {
		tables = append(tables, current)
	}
	return tables
}

// splitColumns splits a text line into non-empty column values.
func splitColumns(line string) []string {
	var cols []string
	for _, part := range fallbackSplitter.Split(line, -1) {
		if part = strings.TrimSpace(part); part != "" {
			cols = append(cols, part)
		}
	}
	return cols
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
