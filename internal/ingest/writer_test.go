package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func sampleRecord(ts time.Time) TraceRecord {
	return TraceRecord{
		ProjectID: "proj-1",
		TargetID:  "target-9",
		StartTS:   ts,
		EndTS:     ts.Add(4 * time.Minute),
		CellAddr:  strPtr("屏東縣東港鎮新生三路175號"),
		Azimuth:   intPtr(120),
		Lat:       floatPtr(22.4655),
		Lng:       floatPtr(120.4538),
		AccuracyM: 300,
	}
}

func TestWriteBatchSingleStatement(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ts := time.Date(2025, 8, 30, 13, 31, 22, 0, time.FixedZone("UTC+8", 8*3600))
	records := []TraceRecord{sampleRecord(ts), sampleRecord(ts.Add(time.Hour))}

	// two records, one statement, 26 bound args
	mock.ExpectExec("INSERT INTO raw_traces").
		WithArgs(
			"proj-1", "target-9", ts, ts.Add(4*time.Minute),
			nil, records[0].CellAddr, nil, nil, nil,
			records[0].Azimuth, records[0].Lat, records[0].Lng, 300,
			"proj-1", "target-9", ts.Add(time.Hour), ts.Add(time.Hour+4*time.Minute),
			nil, records[1].CellAddr, nil, nil, nil,
			records[1].Azimuth, records[1].Lat, records[1].Lng, 300,
		).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err = NewBatchWriter(db).WriteBatch(context.Background(), records)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteBatchEmptyNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, NewBatchWriter(db).WriteBatch(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet(), "empty batch must not touch the database")
}

func TestWriteBatchGeometryPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ts := time.Date(2025, 8, 30, 13, 31, 22, 0, time.FixedZone("UTC+8", 8*3600))

	// geom is derived from the lat/lng placeholders, never bound separately
	mock.ExpectExec(`ST_SetSRID\(ST_MakePoint\(\$12::float8, \$11::float8\), 4326\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewBatchWriter(db).WriteBatch(context.Background(), []TraceRecord{sampleRecord(ts)})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteBatchErrorWraps(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cause := errors.New("deadlock detected")
	mock.ExpectExec("INSERT INTO raw_traces").WillReturnError(cause)

	ts := time.Date(2025, 8, 30, 13, 31, 22, 0, time.FixedZone("UTC+8", 8*3600))
	err = NewBatchWriter(db).WriteBatch(context.Background(), []TraceRecord{sampleRecord(ts)})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "1 trace records")
}
