package ingest

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// spreadsheetReader parses the first sheet of an XLSX workbook. Empty
// cells read as empty strings; the first row is the header.
type spreadsheetReader struct {
	header []string
	rows   [][]string
	index  int
}

func newSpreadsheetReader(data []byte) (*spreadsheetReader, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return &spreadsheetReader{}, nil
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return &spreadsheetReader{}, nil
	}

	header := make([]string, len(rows[0]))
	for i, label := range rows[0] {
		header[i] = strings.TrimSpace(label)
	}
	return &spreadsheetReader{header: header, rows: rows[1:]}, nil
}

// Next implements RowReader.
func (s *spreadsheetReader) Next() (*RawRow, error) {
	if s.index >= len(s.rows) {
		return nil, io.EOF
	}
	record := padRow(s.rows[s.index], len(s.header))
	s.index++

	row := &RawRow{
		Ref:   fmt.Sprintf("row%d", s.index),
		Cells: make([]Cell, 0, len(s.header)),
	}
	for i, label := range s.header {
		row.Cells = append(row.Cells, Cell{
			Label: label,
			Value: strings.TrimSpace(record[i]),
		})
	}
	return row, nil
}
