// Package ingest converts heterogeneous carrier CDR exports (delimited
// text, spreadsheets, PDF tables) into geolocated trace records and
// writes them to the spatial store in one atomic batch per call.
package ingest

import (
	"time"

	"github.com/celltrail/internal/normalize"
)

// Cell is one labelled value from a source row. Label order is
// preserved so that duplicate synonyms dedupe deterministically.
type Cell struct {
	Label string
	Value string
}

// RawRow is a single row as produced by a parser, before any
// normalization. Ref locates the row in its source unit ("row3",
// "page2 row4") for error reporting.
type RawRow struct {
	Ref   string
	Cells []Cell
}

// NormalizedRow holds the raw text of the canonical field set. Labels
// outside the fixed vocabulary are dropped at this boundary; when a
// source carries several synonyms for the same field, the last one wins.
type NormalizedRow struct {
	StartTS    string
	EndTS      string
	CellID     string
	CellAddr   string
	SectorName string
	SiteCode   string
	SectorID   string
	Azimuth    string
}

// NormalizeRow maps a raw row into the canonical vocabulary.
func NormalizeRow(raw *RawRow) NormalizedRow {
	var row NormalizedRow
	for _, cell := range raw.Cells {
		key, ok := normalize.MapHeader(cell.Label)
		if !ok {
			continue
		}
		switch key {
		case normalize.FieldStartTS:
			row.StartTS = cell.Value
		case normalize.FieldEndTS:
			row.EndTS = cell.Value
		case normalize.FieldCellID:
			row.CellID = cell.Value
		case normalize.FieldCellAddr:
			row.CellAddr = cell.Value
		case normalize.FieldSectorName:
			row.SectorName = cell.Value
		case normalize.FieldSiteCode:
			row.SiteCode = cell.Value
		case normalize.FieldSectorID:
			row.SectorID = cell.Value
		case normalize.FieldAzimuth:
			row.Azimuth = cell.Value
		}
	}
	return row
}

// TraceRecord is a fully enriched row ready for persistence. StartTS is
// always set; Lat and Lng are either both present or both nil.
type TraceRecord struct {
	ProjectID  string
	TargetID   string
	StartTS    time.Time
	EndTS      time.Time
	CellID     *string
	CellAddr   *string
	SectorName *string
	SiteCode   *string
	SectorID   *string
	Azimuth    *int
	Lat        *float64
	Lng        *float64
	AccuracyM  int
}

// maxErrors caps the per-call error list; beyond it, further reasons
// are counted but not recorded.
const maxErrors = 50

// IngestResult summarizes one ingestion call.
type IngestResult struct {
	Total    int      `json:"total"`
	Inserted int      `json:"inserted"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// addError records a reason, oldest first, up to the cap.
func (r *IngestResult) addError(msg string) {
	if len(r.Errors) < maxErrors {
		r.Errors = append(r.Errors, msg)
	}
}
