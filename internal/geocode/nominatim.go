package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/celltrail/internal/config"
)

// NominatimGeocoder is the fallback provider (OpenStreetMap). It is
// disabled unless GEO_OSM_FALLBACK=1. Nominatim's usage policy asks for
// an identifying User-Agent, an optional contact email and at most one
// request per second, so every call is followed by a blocking courtesy
// delay.
type NominatimGeocoder struct {
	Endpoint     string
	CountryCodes string
	Email        string
	UserAgent    string
	Enabled      bool

	// CourtesyDelay is the pause after every call. Tests shrink it.
	CourtesyDelay time.Duration

	client *retryablehttp.Client
}

// NewNominatimGeocoder builds the fallback geocoder from the environment
// (GEO_OSM_FALLBACK, NOMINATIM_EMAIL, GEO_OSM_COURTESY_DELAY).
func NewNominatimGeocoder() *NominatimGeocoder {
	return &NominatimGeocoder{
		Endpoint:      config.GetEnv("NOMINATIM_ENDPOINT", "https://nominatim.openstreetmap.org/search"),
		CountryCodes:  config.GetEnv("NOMINATIM_COUNTRY_CODES", "tw"),
		Email:         config.GetEnv("NOMINATIM_EMAIL", ""),
		UserAgent:     "celltrail/1.0 (+https://celltrail.netlify.app)",
		Enabled:       config.GetEnvBool("GEO_OSM_FALLBACK", false),
		CourtesyDelay: config.GetEnvDuration("GEO_OSM_COURTESY_DELAY", time.Second),
		client:        newGeocodeHTTPClient(20 * time.Second),
	}
}

// Name implements Provider.
func (n *NominatimGeocoder) Name() string { return "nominatim" }

// nominatimPlace is one entry of the search response; coordinates come
// back as strings.
type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode implements Provider.
func (n *NominatimGeocoder) Geocode(ctx context.Context, address string) Result {
	if !n.Enabled {
		return Miss()
	}
	defer n.pause()

	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("addressdetails", "0")
	params.Set("countrycodes", n.CountryCodes)
	params.Set("dedupe", "1")
	if n.Email != "" {
		params.Set("email", n.Email)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, n.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return Failure(err)
	}
	req.Header.Set("User-Agent", n.UserAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		return Failure(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Failure(fmt.Errorf("nominatim returned HTTP %d", resp.StatusCode))
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return Failure(fmt.Errorf("nominatim response decode: %w", err))
	}
	if len(places) == 0 {
		return Miss()
	}

	lat, latErr := strconv.ParseFloat(places[0].Lat, 64)
	lng, lngErr := strconv.ParseFloat(places[0].Lon, 64)
	if latErr != nil || lngErr != nil {
		return Failure(fmt.Errorf("nominatim returned unparseable coordinates %q,%q", places[0].Lat, places[0].Lon))
	}
	return Hit(lat, lng)
}

// pause blocks for the courtesy delay. It runs after every call,
// successful or not, keeping the chain under Nominatim's rate policy.
func (n *NominatimGeocoder) pause() {
	if n.CourtesyDelay > 0 {
		time.Sleep(n.CourtesyDelay)
	}
}
