package ingest

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/celltrail/internal/debug"
	"github.com/celltrail/internal/geocode"
)

// Resolver maps a cell id / address pair to coordinates. A nil point is
// a clean miss; diagnostics describe provider failures that were folded
// into misses.
type Resolver interface {
	Resolve(ctx context.Context, cellID, addr string) (*geocode.Point, []string)
}

// Writer persists one ingestion call's records as a single atomic
// batch. Failure affects the whole batch; there is no partial commit.
type Writer interface {
	WriteBatch(ctx context.Context, records []TraceRecord) error
}

// Pipeline drives one pass over a parsed source: normalize each row,
// coerce fields, resolve coordinates, estimate accuracy, then hand the
// accumulated batch to the writer. Rows are processed synchronously in
// source order.
type Pipeline struct {
	resolver Resolver
	writer   Writer
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(resolver Resolver, writer Writer) *Pipeline {
	return &Pipeline{resolver: resolver, writer: writer}
}

// Ingest parses the uploaded file and persists every acceptable row,
// attaching projectID and targetID verbatim. An unsupported extension
// and a failed batch write are fatal; everything per-row is recorded in
// the result and skipped.
func (p *Pipeline) Ingest(ctx context.Context, projectID, targetID, filename string, data []byte) (*IngestResult, error) {
	defer debug.Timing(fmt.Sprintf("ingest %s", filename))()

	reader, err := NewRowReader(filename, data)
	if err != nil {
		return nil, err
	}

	result := &IngestResult{}
	var batch []TraceRecord

	for {
		raw, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read rows: %w", err)
		}
		result.Total++

		row := NormalizeRow(raw)

		startTS := ParseTimestamp(row.StartTS)
		if startTS == nil {
			result.Skipped++
			result.addError(fmt.Sprintf("%s: missing start time", raw.Ref))
			continue
		}
		endTS := ParseTimestamp(row.EndTS)
		if endTS == nil {
			endTS = startTS
		}

		cellID := trimToNil(row.CellID)
		cellAddr := trimToNil(row.CellAddr)
		if cellID == nil && cellAddr == nil {
			result.Skipped++
			result.addError(fmt.Sprintf("%s: address and cell id both empty, cannot locate", raw.Ref))
			continue
		}

		var lat, lng *float64
		pt, diags := p.resolver.Resolve(ctx, deref(cellID), deref(cellAddr))
		for _, diag := range diags {
			result.addError(fmt.Sprintf("%s: %s", raw.Ref, diag))
		}
		if pt != nil {
			lat, lng = &pt.Lat, &pt.Lng
		}

		batch = append(batch, TraceRecord{
			ProjectID:  projectID,
			TargetID:   targetID,
			StartTS:    *startTS,
			EndTS:      *endTS,
			CellID:     cellID,
			CellAddr:   cellAddr,
			SectorName: trimToNil(row.SectorName),
			SiteCode:   trimToNil(row.SiteCode),
			SectorID:   trimToNil(row.SectorID),
			Azimuth:    ParseInt(row.Azimuth),
			Lat:        lat,
			Lng:        lng,
			AccuracyM:  EstimateAccuracy(deref(cellAddr)),
		})
	}

	if len(batch) > 0 {
		if err := p.writer.WriteBatch(ctx, batch); err != nil {
			return nil, fmt.Errorf("batch insert failed: %w", err)
		}
		result.Inserted = len(batch)
	}
	return result, nil
}

// trimToNil trims a raw value and maps placeholders to nil.
func trimToNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" || IsNA(s) {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
