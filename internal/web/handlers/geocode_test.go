package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celltrail/internal/geocode"
)

type stubResolver struct {
	pt    *geocode.Point
	diags []string
}

func (s *stubResolver) Resolve(ctx context.Context, cellID, addr string) (*geocode.Point, []string) {
	return s.pt, s.diags
}

func TestGeocodeHit(t *testing.T) {
	h := &GeocodeHandler{Resolver: &stubResolver{pt: &geocode.Point{Lat: 22.4655, Lng: 120.4538}}}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/geocode?address=%E5%B1%8F%E6%9D%B1%E7%B8%A3", nil)
	h.Geocode(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp geocodeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 22.4655, resp.Lat, 1e-9)
	assert.InDelta(t, 120.4538, resp.Lng, 1e-9)
}

func TestGeocodeMiss(t *testing.T) {
	h := &GeocodeHandler{Resolver: &stubResolver{diags: []string{"google lookup failed: timeout"}}}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/geocode?address=nowhere", nil)
	h.Geocode(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp["diagnostics"], 1)
}

func TestGeocodeMissingAddress(t *testing.T) {
	h := &GeocodeHandler{Resolver: &stubResolver{}}
	rec := httptest.NewRecorder()
	h.Geocode(rec, httptest.NewRequest(http.MethodGet, "/api/geocode", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
