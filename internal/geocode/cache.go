package geocode

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/celltrail/internal/debug"
)

// CacheTTL is how long a resolved address stays cached.
const CacheTTL = 30 * 24 * time.Hour

// Cache stores resolved coordinates keyed by normalized address. The
// underlying store must provide atomic get/set per key; the resolver
// adds no locking of its own, so two concurrent lookups of the same
// address may both miss and both write. The write is idempotent, so
// that is duplicate work, not a correctness problem.
type Cache interface {
	Get(ctx context.Context, addr string) (Point, bool)
	Set(ctx context.Context, addr string, pt Point)
}

// RedisCache is the production cache.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to the Redis instance at url
// (redis://host:port/db).
func NewRedisCache(url string) (*RedisCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisCache{client: redis.NewClient(opt), ttl: CacheTTL}, nil
}

func cacheKey(addr string) string { return "addr:" + addr }

// Get implements Cache. Stale or undecodable entries read as misses.
func (c *RedisCache) Get(ctx context.Context, addr string) (Point, bool) {
	if addr == "" {
		return Point{}, false
	}
	val, err := c.client.Get(ctx, cacheKey(addr)).Result()
	if err != nil {
		if err != redis.Nil {
			debug.Output("geocode cache get %q: %v", addr, err)
		}
		return Point{}, false
	}
	var pt Point
	if err := json.Unmarshal([]byte(val), &pt); err != nil {
		return Point{}, false
	}
	return pt, true
}

// Set implements Cache. Failures are logged and swallowed; caching is
// best-effort.
func (c *RedisCache) Set(ctx context.Context, addr string, pt Point) {
	if addr == "" {
		return
	}
	payload, err := json.Marshal(pt)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(addr), payload, c.ttl).Err(); err != nil {
		debug.Output("geocode cache set %q: %v", addr, err)
	}
}

// Client exposes the underlying Redis client for collaborators that
// share the connection (usage stats, health checks).
func (c *RedisCache) Client() *redis.Client { return c.client }

// NopCache is used when no REDIS_URL is configured: every lookup misses
// and writes vanish.
type NopCache struct{}

// Get implements Cache.
func (NopCache) Get(ctx context.Context, addr string) (Point, bool) { return Point{}, false }

// Set implements Cache.
func (NopCache) Set(ctx context.Context, addr string, pt Point) {}
