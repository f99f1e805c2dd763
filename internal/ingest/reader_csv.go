package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// delimitedReader parses CSV/TSV/TXT exports. Decoding tolerates a
// UTF-8 byte-order mark and substitutes undecodable bytes; the first
// row is the header, values are trimmed.
type delimitedReader struct {
	reader *csv.Reader
	header []string
	index  int
}

func newDelimitedReader(data []byte, comma rune) (*delimitedReader, error) {
	text := strings.ToValidUTF8(string(data), "�")
	text = strings.TrimPrefix(text, "\ufeff")

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return &delimitedReader{reader: r}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	return &delimitedReader{reader: r, header: header}, nil
}

// Next implements RowReader. Malformed lines are skipped, not fatal.
func (d *delimitedReader) Next() (*RawRow, error) {
	if d.header == nil {
		return nil, io.EOF
	}
	for {
		record, err := d.reader.Read()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			continue
		}
		d.index++
		record = padRow(record, len(d.header))

		row := &RawRow{
			Ref:   fmt.Sprintf("row%d", d.index),
			Cells: make([]Cell, 0, len(d.header)),
		}
		for i, label := range d.header {
			row.Cells = append(row.Cells, Cell{
				Label: label,
				Value: strings.TrimSpace(record[i]),
			})
		}
		return row, nil
	}
}
