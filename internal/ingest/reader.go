package ingest

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned before any row is read when the
// filename extension selects no parser.
var ErrUnsupportedFormat = errors.New("unsupported file format: use CSV / TXT / TSV / XLSX / PDF")

// RowReader is a lazy, finite, non-restartable sequence of raw rows.
// Next returns io.EOF when the source is exhausted.
type RowReader interface {
	Next() (*RawRow, error)
}

// NewRowReader selects the parser variant by filename extension.
func NewRowReader(filename string, data []byte) (RowReader, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "csv", "txt":
		return newDelimitedReader(data, ',')
	case "tsv":
		return newDelimitedReader(data, '\t')
	case "xlsx":
		return newSpreadsheetReader(data)
	case "pdf":
		return newDocumentReader(data)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// padRow right-pads row to width with empty cells, or truncates it.
func padRow(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}
