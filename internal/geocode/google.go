package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/celltrail/internal/config"
)

// GoogleGeocoder is the primary remote provider. Without an API key it
// is disabled and reports every lookup as a miss.
type GoogleGeocoder struct {
	APIKey   string
	Endpoint string
	Region   string
	Language string

	client *retryablehttp.Client
}

// NewGoogleGeocoder builds the primary geocoder from the environment
// (GOOGLE_MAPS_API_KEY, GOOGLE_GEOCODE_ENDPOINT, GOOGLE_REGION,
// GOOGLE_LANGUAGE).
func NewGoogleGeocoder() *GoogleGeocoder {
	return &GoogleGeocoder{
		APIKey:   config.GetEnv("GOOGLE_MAPS_API_KEY", ""),
		Endpoint: config.GetEnv("GOOGLE_GEOCODE_ENDPOINT", "https://maps.googleapis.com/maps/api/geocode/json"),
		Region:   config.GetEnv("GOOGLE_REGION", "tw"),
		Language: config.GetEnv("GOOGLE_LANGUAGE", "zh-TW"),
		client:   newGeocodeHTTPClient(12 * time.Second),
	}
}

// Name implements Provider.
func (g *GoogleGeocoder) Name() string { return "google" }

// googleResponse is the subset of the Geocoding API response we read.
type googleResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode implements Provider. Non-OK statuses (ZERO_RESULTS,
// REQUEST_DENIED, OVER_QUERY_LIMIT, ...) are misses, not errors.
func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) Result {
	if g.APIKey == "" {
		return Miss()
	}

	params := url.Values{}
	params.Set("address", address)
	params.Set("key", g.APIKey)
	params.Set("region", g.Region)
	params.Set("language", g.Language)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, g.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return Failure(err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return Failure(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Failure(fmt.Errorf("google geocode returned HTTP %d", resp.StatusCode))
	}

	var body googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Failure(fmt.Errorf("google geocode response decode: %w", err))
	}

	if body.Status != "OK" || len(body.Results) == 0 {
		return Miss()
	}
	loc := body.Results[0].Geometry.Location
	return Hit(loc.Lat, loc.Lng)
}

// newGeocodeHTTPClient returns a retryable HTTP client tuned for
// geocoding: a miss must stay cheap, so retries are kept low and the
// client is silent.
func newGeocodeHTTPClient(timeout time.Duration) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 1 * time.Second
	client.HTTPClient.Timeout = timeout
	client.Logger = nil
	return client
}
