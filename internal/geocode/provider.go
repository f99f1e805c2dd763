// Package geocode resolves cell-site identifiers and addresses into
// coordinates through a layered chain: static site dictionary, Redis
// cache, then remote geocoders over progressively degraded address
// variants.
package geocode

import "context"

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Status classifies the outcome of a single provider call.
type Status int

const (
	// StatusHit means the provider returned a best-match location.
	StatusHit Status = iota
	// StatusMiss means the provider answered but found nothing (or is
	// not configured).
	StatusMiss
	// StatusError means the call itself failed (network, malformed
	// response). Resolution treats it as a miss; the error is kept for
	// diagnostics.
	StatusError
)

// Result is the explicit per-call outcome of a geocoder request.
// Provider failures never propagate as errors to the caller; they are
// folded into the chain as misses.
type Result struct {
	Status Status
	Point  Point
	Err    error
}

// Hit returns a successful result.
func Hit(lat, lng float64) Result {
	return Result{Status: StatusHit, Point: Point{Lat: lat, Lng: lng}}
}

// Miss returns an empty no-match result.
func Miss() Result {
	return Result{Status: StatusMiss}
}

// Failure returns an error result.
func Failure(err error) Result {
	return Result{Status: StatusError, Err: err}
}

// Provider is a remote geocoding backend queried by free-text address.
type Provider interface {
	// Name identifies the provider in diagnostics.
	Name() string
	// Geocode looks up an address. Implementations must not panic and
	// must map every failure mode into the Result status.
	Geocode(ctx context.Context, address string) Result
}
