package geocode

import (
	"context"
	"errors"
	"testing"
)

// scriptProvider answers from a fixed table and counts calls.
type scriptProvider struct {
	name    string
	results map[string]Result
	calls   int
}

func (p *scriptProvider) Name() string { return p.name }

func (p *scriptProvider) Geocode(ctx context.Context, address string) Result {
	p.calls++
	if res, ok := p.results[address]; ok {
		return res
	}
	return Miss()
}

// mapCache is an in-memory Cache for tests.
type mapCache struct {
	entries map[string]Point
}

func newMapCache() *mapCache { return &mapCache{entries: map[string]Point{}} }

func (c *mapCache) Get(ctx context.Context, addr string) (Point, bool) {
	pt, ok := c.entries[addr]
	return pt, ok
}

func (c *mapCache) Set(ctx context.Context, addr string, pt Point) {
	c.entries[addr] = pt
}

func emptyDict() *SiteDictionary { return NewSiteDictionary("") }

const testAddr = "屏東縣東港鎮新生三路175號4樓頂"

// Degraded variants for testAddr, most to least specific.
const (
	variantFull     = "屏東縣東港鎮新生三路175號"
	variantStreet   = "屏東縣東港鎮新生三路175"
	variantDistrict = "屏東縣東港鎮"
)

func TestResolveCacheHitSkipsProviders(t *testing.T) {
	cache := newMapCache()
	cache.entries[variantFull] = Point{Lat: 22.466, Lng: 120.454}
	primary := &scriptProvider{name: "primary"}
	fallback := &scriptProvider{name: "fallback"}

	r := NewResolver(emptyDict(), cache, primary, fallback)
	pt, diags := r.Resolve(context.Background(), "", testAddr)

	if pt == nil {
		t.Fatal("expected cache hit")
	}
	if pt.Lat != 22.466 || pt.Lng != 120.454 {
		t.Errorf("got %+v", pt)
	}
	if primary.calls != 0 || fallback.calls != 0 {
		t.Errorf("cache hit must not call providers (primary=%d fallback=%d)", primary.calls, fallback.calls)
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
}

// The result of a lookup that only succeeded on the coarsest variant is
// cached under the most specific variant, so a repeat lookup of the same
// raw address resolves with zero provider calls.
func TestResolveDegradedVariantCachedUnderV1(t *testing.T) {
	cache := newMapCache()
	primary := &scriptProvider{name: "primary", results: map[string]Result{
		variantDistrict: Hit(22.4666, 120.4543),
	}}
	fallback := &scriptProvider{name: "fallback"}

	r := NewResolver(emptyDict(), cache, primary, fallback)
	pt, _ := r.Resolve(context.Background(), "", testAddr)
	if pt == nil {
		t.Fatal("expected resolution via degraded variant")
	}
	if _, ok := cache.entries[variantFull]; !ok {
		t.Fatalf("result not cached under most specific variant; cache: %v", cache.entries)
	}
	// v1 and v2 missed on both providers, v3 hit on primary.
	if primary.calls != 3 {
		t.Errorf("primary calls = %d, want 3", primary.calls)
	}
	if fallback.calls != 2 {
		t.Errorf("fallback calls = %d, want 2", fallback.calls)
	}

	primary.calls = 0
	fallback.calls = 0
	pt2, _ := r.Resolve(context.Background(), "", testAddr)
	if pt2 == nil {
		t.Fatal("expected cache hit on second lookup")
	}
	if primary.calls != 0 || fallback.calls != 0 {
		t.Errorf("second lookup must be served from cache (primary=%d fallback=%d)", primary.calls, fallback.calls)
	}
}

func TestResolveFallbackAfterPrimaryMiss(t *testing.T) {
	primary := &scriptProvider{name: "primary"}
	fallback := &scriptProvider{name: "fallback", results: map[string]Result{
		variantFull: Hit(22.46, 120.45),
	}}

	r := NewResolver(emptyDict(), newMapCache(), primary, fallback)
	pt, _ := r.Resolve(context.Background(), "", testAddr)
	if pt == nil {
		t.Fatal("expected fallback hit")
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Errorf("calls primary=%d fallback=%d, want 1/1", primary.calls, fallback.calls)
	}
}

func TestResolveProviderErrorFoldsToMiss(t *testing.T) {
	primary := &scriptProvider{name: "primary", results: map[string]Result{
		variantFull:     Failure(errors.New("connection refused")),
		variantStreet:   Failure(errors.New("connection refused")),
		variantDistrict: Failure(errors.New("connection refused")),
	}}
	fallback := &scriptProvider{name: "fallback"}

	r := NewResolver(emptyDict(), newMapCache(), primary, fallback)
	pt, diags := r.Resolve(context.Background(), "", testAddr)
	if pt != nil {
		t.Fatalf("expected overall miss, got %+v", pt)
	}
	if len(diags) != 3 {
		t.Errorf("expected 3 diagnostics, got %v", diags)
	}
}

func TestResolveEmptyAddressMisses(t *testing.T) {
	primary := &scriptProvider{name: "primary"}
	r := NewResolver(emptyDict(), newMapCache(), primary, nil)
	pt, diags := r.Resolve(context.Background(), "", "")
	if pt != nil || diags != nil {
		t.Errorf("empty address should miss cleanly, got %v %v", pt, diags)
	}
	if primary.calls != 0 {
		t.Errorf("no providers should be called for an empty address")
	}
}
