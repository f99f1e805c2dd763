package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// BatchWriter persists enriched records into raw_traces. The whole
// batch goes in as one multi-row INSERT: a single statement is atomic
// on its own, and executing it unnamed (no reusable prepared statement)
// keeps it safe behind connection-multiplexing proxies like pgbouncer.
type BatchWriter struct {
	db *sql.DB
}

// NewBatchWriter creates a batch writer over an open database handle.
func NewBatchWriter(db *sql.DB) *BatchWriter {
	return &BatchWriter{db: db}
}

// columns per record, excluding the derived geom expression
const insertArity = 13

// WriteBatch implements Writer. Geometry derives inline from lng/lat
// when both are present, else null. On failure nothing is committed and
// the caller must resubmit the entire batch.
func (w *BatchWriter) WriteBatch(ctx context.Context, records []TraceRecord) error {
	if len(records) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO raw_traces (
		project_id, target_id, start_ts, end_ts,
		cell_id, cell_addr, sector_name, site_code, sector_id,
		azimuth, lat, lng, accuracy_m, geom
	) VALUES `)

	args := make([]interface{}, 0, len(records)*insertArity)
	for i, rec := range records {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * insertArity
		sb.WriteString(fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, "+
				"CASE WHEN $%d::float8 IS NOT NULL AND $%d::float8 IS NOT NULL "+
				"THEN ST_SetSRID(ST_MakePoint($%d::float8, $%d::float8), 4326) ELSE NULL END)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7,
			base+8, base+9, base+10, base+11, base+12, base+13,
			base+11, base+12, base+12, base+11,
		))
		args = append(args,
			rec.ProjectID, rec.TargetID, rec.StartTS, rec.EndTS,
			rec.CellID, rec.CellAddr, rec.SectorName, rec.SiteCode, rec.SectorID,
			rec.Azimuth, rec.Lat, rec.Lng, rec.AccuracyM,
		)
	}

	if _, err := w.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("failed to insert %d trace records: %w", len(records), err)
	}
	return nil
}
