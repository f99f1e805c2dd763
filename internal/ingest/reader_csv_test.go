package ingest

import (
	"io"
	"testing"
)

func readAll(t *testing.T, r RowReader) []*RawRow {
	t.Helper()
	var rows []*RawRow
	for {
		row, err := r.Next()
		if err == io.EOF {
			return rows
		}
		if err != nil {
			t.Fatal(err)
		}
		rows = append(rows, row)
	}
}

func cellValue(row *RawRow, label string) string {
	for _, c := range row.Cells {
		if c.Label == label {
			return c.Value
		}
	}
	return ""
}

func TestDelimitedReaderCSV(t *testing.T) {
	data := []byte("開始連線時間,基地台地址,方位角\n" +
		"2025/08/30 13:31:22,屏東縣東港鎮新生三路175號,120\n" +
		"2025/08/30 13:45:00,台北市中正區忠孝西路一段49號,240\n")

	rows := readAll(t, mustReader(t, "trace.csv", data))
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Ref != "row1" || rows[1].Ref != "row2" {
		t.Errorf("row refs = %q, %q", rows[0].Ref, rows[1].Ref)
	}
	if got := cellValue(rows[0], "基地台地址"); got != "屏東縣東港鎮新生三路175號" {
		t.Errorf("address = %q", got)
	}
	if got := cellValue(rows[1], "方位角"); got != "240" {
		t.Errorf("azimuth = %q", got)
	}
}

func TestDelimitedReaderBOMAndShortRows(t *testing.T) {
	data := []byte("\xEF\xBB\xBF開始連線時間,基地台地址\n" +
		"2025/08/30 13:31:22\n" + // short row, padded
		"2025/08/30 13:45:00,地址A,overflow\n") // long row, truncated

	rows := readAll(t, mustReader(t, "trace.csv", data))
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	// BOM must not leak into the first header label
	if got := cellValue(rows[0], "開始連線時間"); got != "2025/08/30 13:31:22" {
		t.Errorf("start = %q (BOM leaked into header?)", got)
	}
	if got := cellValue(rows[0], "基地台地址"); got != "" {
		t.Errorf("padded cell = %q, want empty", got)
	}
	if len(rows[1].Cells) != 2 {
		t.Errorf("long row kept %d cells, want 2", len(rows[1].Cells))
	}
}

func TestDelimitedReaderTSV(t *testing.T) {
	data := []byte("開始連線時間\t基地台地址\n2025/08/30 13:31\t屏東縣東港鎮\n")
	rows := readAll(t, mustReader(t, "trace.tsv", data))
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if got := cellValue(rows[0], "基地台地址"); got != "屏東縣東港鎮" {
		t.Errorf("address = %q", got)
	}
}

func TestDelimitedReaderInvalidUTF8(t *testing.T) {
	data := []byte("開始連線時間,基地台地址\n2025/08/30 13:31,\xff\xfe地址\n")
	rows := readAll(t, mustReader(t, "trace.csv", data))
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	// undecodable bytes substitute instead of failing the parse
	if got := cellValue(rows[0], "開始連線時間"); got != "2025/08/30 13:31" {
		t.Errorf("start = %q", got)
	}
}

func TestDelimitedReaderEmpty(t *testing.T) {
	rows := readAll(t, mustReader(t, "trace.csv", nil))
	if len(rows) != 0 {
		t.Fatalf("got %d rows from empty file", len(rows))
	}
}

func TestNewRowReaderUnsupportedExtension(t *testing.T) {
	for _, name := range []string{"trace.docx", "trace", "trace.jpg"} {
		if _, err := NewRowReader(name, []byte("x")); err != ErrUnsupportedFormat {
			t.Errorf("NewRowReader(%q) err = %v, want ErrUnsupportedFormat", name, err)
		}
	}
}

func mustReader(t *testing.T, name string, data []byte) RowReader {
	t.Helper()
	r, err := NewRowReader(name, data)
	if err != nil {
		t.Fatal(err)
	}
	return r
}
