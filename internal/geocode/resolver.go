package geocode

import (
	"context"
	"fmt"

	"github.com/celltrail/internal/debug"
	"github.com/celltrail/internal/normalize"
)

// Resolver runs the layered resolution chain:
//
//  1. static site dictionary (cell id, then address)
//  2. cache, keyed by the most specific cleaned address variant
//  3. primary then fallback geocoder over each degraded variant
//
// A successful remote lookup is cached under the most specific variant
// regardless of which coarser variant actually answered, so repeat
// lookups of the same raw address short-circuit at the cache.
type Resolver struct {
	dict     *SiteDictionary
	cache    Cache
	primary  Provider
	fallback Provider
}

// NewResolver wires the chain. Any collaborator may be nil-equivalent
// (NopCache, disabled providers); the chain just misses through it.
func NewResolver(dict *SiteDictionary, cache Cache, primary, fallback Provider) *Resolver {
	return &Resolver{dict: dict, cache: cache, primary: primary, fallback: fallback}
}

// Resolve maps a cell id / address pair to coordinates. A nil Point
// means the whole chain missed; that is not an error, the row survives
// without coordinates. The returned diagnostics describe provider-level
// failures that were folded into misses.
func (r *Resolver) Resolve(ctx context.Context, cellID, addr string) (*Point, []string) {
	defer debug.Timing(fmt.Sprintf("resolve cell=%q addr=%q", cellID, addr))()

	if pt, ok := r.dict.Lookup(cellID, addr); ok {
		debug.Output("dictionary hit for cell=%q", cellID)
		return &pt, nil
	}

	variants := normalize.AddressVariants(addr)
	if len(variants) == 0 {
		return nil, nil
	}
	cacheKey := variants[0]

	if pt, ok := r.cache.Get(ctx, cacheKey); ok {
		debug.Output("cache hit for %q", cacheKey)
		return &pt, nil
	}

	var diags []string
	for _, variant := range variants {
		for _, provider := range []Provider{r.primary, r.fallback} {
			if provider == nil {
				continue
			}
			res := provider.Geocode(ctx, variant)
			switch res.Status {
			case StatusHit:
				debug.Output("%s resolved %q to %.6f,%.6f", provider.Name(), variant, res.Point.Lat, res.Point.Lng)
				pt := res.Point
				r.cache.Set(ctx, cacheKey, pt)
				return &pt, diags
			case StatusError:
				diags = append(diags, fmt.Sprintf("%s lookup of %q failed: %v", provider.Name(), variant, res.Err))
			}
		}
	}
	return nil, diags
}
