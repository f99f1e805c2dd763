package handlers

import (
	"context"
	"net/http"

	"github.com/celltrail/internal/geocode"
)

// AddressResolver runs the layered geocoding chain.
type AddressResolver interface {
	Resolve(ctx context.Context, cellID, addr string) (*geocode.Point, []string)
}

// GeocodeHandler exposes the resolver chain directly, mainly for
// operators checking why an address does or does not locate.
type GeocodeHandler struct {
	Resolver AddressResolver
}

// geocodeResponse is the lookup outcome; diagnostics list provider
// failures that were folded into a miss.
type geocodeResponse struct {
	Query       string   `json:"query"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// Geocode handles GET /api/geocode?address=. A clean chain miss is a
// 404; provider errors ride along as diagnostics either way.
func (h *GeocodeHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if address == "" {
		writeError(w, http.StatusBadRequest, "address parameter is required")
		return
	}

	pt, diags := h.Resolver.Resolve(r.Context(), "", address)
	if pt == nil {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"error":       "address could not be resolved",
			"diagnostics": diags,
		})
		return
	}

	writeJSON(w, http.StatusOK, geocodeResponse{
		Query:       address,
		Lat:         pt.Lat,
		Lng:         pt.Lng,
		Diagnostics: diags,
	})
}
