package geocode

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/celltrail/internal/debug"
	"github.com/celltrail/internal/normalize"
)

// SiteDictionary is the static cell-site reference table, keyed
// independently by normalized cell id and by normalized address. It is
// loaded once on first use and read-only for the process lifetime, so
// concurrent ingestion calls share it without locking.
type SiteDictionary struct {
	path string

	once     sync.Once
	byCellID map[string]Point
	byAddr   map[string]Point
}

// NewSiteDictionary creates a dictionary backed by the CSV file at path.
// The file is not touched until the first Lookup.
func NewSiteDictionary(path string) *SiteDictionary {
	return &SiteDictionary{path: path}
}

// Lookup resolves by exact cell id match first, then by exact address
// match. A missing or unreadable dictionary file simply misses.
func (d *SiteDictionary) Lookup(cellID, addr string) (Point, bool) {
	d.once.Do(d.load)

	if key := normalize.CanonLabel(cellID); key != "" {
		if pt, ok := d.byCellID[key]; ok {
			return pt, true
		}
	}
	if key := normalize.CanonAddress(addr); key != "" {
		if pt, ok := d.byAddr[key]; ok {
			return pt, true
		}
	}
	return Point{}, false
}

// load reads the dictionary CSV: cell_id, address, lat, lng with a
// header row. Rows with unparseable coordinates are skipped.
func (d *SiteDictionary) load() {
	d.byCellID = make(map[string]Point)
	d.byAddr = make(map[string]Point)

	if d.path == "" {
		return
	}
	file, err := os.Open(d.path)
	if err != nil {
		debug.Output("site dictionary %s not loaded: %v", d.path, err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	// Skip header
	if _, err := reader.Read(); err != nil {
		return
	}

	loaded := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if len(record) < 4 {
			continue
		}
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		lng, lngErr := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
		if latErr != nil || lngErr != nil {
			continue
		}
		pt := Point{Lat: lat, Lng: lng}
		if key := normalize.CanonLabel(record[0]); key != "" {
			d.byCellID[key] = pt
		}
		if key := normalize.CanonAddress(record[1]); key != "" {
			d.byAddr[key] = pt
		}
		loaded++
	}
	debug.Output("site dictionary loaded %d entries from %s", loaded, d.path)
}
