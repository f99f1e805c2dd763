package normalize

import "strings"

// Canonical field keys for a trace row. Everything a parser produces is
// funneled into this vocabulary; unrecognized labels are dropped.
const (
	FieldStartTS    = "start_ts"
	FieldEndTS      = "end_ts"
	FieldCellID     = "cell_id"
	FieldCellAddr   = "cell_addr"
	FieldSectorName = "sector_name"
	FieldSiteCode   = "site_code"
	FieldSectorID   = "sector_id"
	FieldAzimuth    = "azimuth"
)

// headerSynonyms maps raw source labels to canonical keys. Carriers are
// inconsistent about wording and script (基地台 vs 基地臺), so the table
// carries every observed variant. Canonical keys map to themselves,
// which makes MapHeader idempotent.
var headerSynonyms = map[string]string{
	// connection times
	"開始連線時間": FieldStartTS,
	"結束連線時間": FieldEndTS,
	"開始時間":   FieldStartTS,
	"結束時間":   FieldEndTS,
	"起始時間":   FieldStartTS,
	"終止時間":   FieldEndTS,
	// cell site address / identifier
	"基地台地址": FieldCellAddr,
	"基地臺地址": FieldCellAddr,
	"站台地址":  FieldCellAddr,
	"地址":    FieldCellAddr,
	"基地台編號": FieldCellID,
	"基地臺編號": FieldCellID,
	"站台編號":  FieldCellID,
	"站碼":    FieldCellID,
	"cell_id": FieldCellID,
	// sector / site details
	"細胞名稱":  FieldSectorName,
	"小區名稱":  FieldSectorName,
	"台號":    FieldSiteCode,
	"站號":    FieldSiteCode,
	"站名":    FieldSiteCode,
	"細胞":    FieldSectorID,
	"小區":    FieldSectorID,
	"cell":   FieldSectorID,
	"方位":    FieldAzimuth,
	"方位角":   FieldAzimuth,
	// canonical keys are accepted as-is
	FieldStartTS:    FieldStartTS,
	FieldEndTS:      FieldEndTS,
	FieldCellAddr:   FieldCellAddr,
	FieldSectorName: FieldSectorName,
	FieldSiteCode:   FieldSiteCode,
	FieldSectorID:   FieldSectorID,
	FieldAzimuth:    FieldAzimuth,
}

// headerMap is headerSynonyms keyed by the canonical label form.
var headerMap = buildHeaderMap()

func buildHeaderMap() map[string]string {
	m := make(map[string]string, len(headerSynonyms))
	for raw, canonical := range headerSynonyms {
		m[CanonLabel(raw)] = canonical
	}
	return m
}

// MapHeader resolves a raw column label to its canonical field key.
// Matching is case-, width- and punctuation-insensitive. Returns false
// for labels outside the fixed vocabulary; callers drop those silently.
func MapHeader(label string) (string, bool) {
	key, ok := headerMap[CanonLabel(label)]
	return key, ok
}

// LineHasHeader reports whether a line of extracted text contains any
// known header synonym. The PDF text fallback uses it to locate the
// header row in unruled tables.
func LineHasHeader(line string) bool {
	canon := CanonLabel(line)
	if canon == "" {
		return false
	}
	for raw := range headerSynonyms {
		if c := CanonLabel(raw); c != "" && strings.Contains(canon, c) {
			return true
		}
	}
	return false
}
