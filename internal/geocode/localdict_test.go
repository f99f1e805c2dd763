package geocode

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDict(t *testing.T, rows string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sites.csv")
	content := "cell_id,address,lat,lng\n" + rows
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSiteDictionaryLookup(t *testing.T) {
	path := writeDict(t,
		"466-92-1234,屏東縣東港鎮新生三路175號,22.4655,120.4538\n"+
			"466-92-5678,臺北市中正區忠孝西路一段49號,25.0478,121.5170\n"+
			"bad-coords,somewhere,not-a-lat,120.0\n")

	dict := NewSiteDictionary(path)

	tests := []struct {
		name   string
		cellID string
		addr   string
		want   Point
		ok     bool
	}{
		{"cell id match", "466-92-1234", "", Point{22.4655, 120.4538}, true},
		{"cell id match is punctuation tolerant", "466 92 1234", "", Point{22.4655, 120.4538}, true},
		{"address match with script variant", "", "台北市中正區忠孝西路一段49號", Point{25.0478, 121.5170}, true},
		{"cell id takes precedence", "466-92-5678", "屏東縣東港鎮新生三路175號", Point{25.0478, 121.5170}, true},
		{"unparseable row skipped", "bad-coords", "", Point{}, false},
		{"unknown", "999", "nowhere", Point{}, false},
		{"empty", "", "", Point{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pt, ok := dict.Lookup(tt.cellID, tt.addr)
			if ok != tt.ok {
				t.Fatalf("Lookup(%q, %q) ok = %v, want %v", tt.cellID, tt.addr, ok, tt.ok)
			}
			if ok && pt != tt.want {
				t.Errorf("Lookup(%q, %q) = %+v, want %+v", tt.cellID, tt.addr, pt, tt.want)
			}
		})
	}
}

func TestSiteDictionaryMissingFile(t *testing.T) {
	dict := NewSiteDictionary("/nonexistent/sites.csv")
	if _, ok := dict.Lookup("466-92-1234", "屏東縣東港鎮"); ok {
		t.Error("missing dictionary file must miss, not error")
	}
}
