// Package logo caches company logo URLs resolved through the third-party
// logo lookup service. An empty URL is cached too, so a company without a
// logo is not looked up again until its entry expires.
package logo

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a resolved logo stays cached.
const DefaultTTL = 24 * time.Hour

// Cache stores logo URLs keyed by normalized company name.
type Cache interface {
	Get(ctx context.Context, company string) (url string, ok bool)
	Set(ctx context.Context, company, url string)
}

// Key normalizes a company name for use as a cache key.
func Key(company string) string {
	return strings.ToLower(strings.TrimSpace(company))
}

// MemoryCache is an in-process Cache.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memEntry
}

type memEntry struct {
	url     string
	expires time.Time
}

// NewMemoryCache creates an in-process cache with the given TTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now, entries: make(map[string]memEntry)}
}

func (c *MemoryCache) Get(_ context.Context, company string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[Key(company)]
	if !ok {
		return "", false
	}
	if c.now().After(e.expires) {
		delete(c.entries, Key(company))
		return "", false
	}
	return e.url, true
}

func (c *MemoryCache) Set(_ context.Context, company, url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[Key(company)] = memEntry{url: url, expires: c.now().Add(c.ttl)}
}

// RedisCache is a Cache shared between processes through Redis.
// Redis failures are treated as cache misses.
type RedisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisClient connects to Redis at addr.
func NewRedisClient(addr, pass string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       db,
	})
}

// NewRedisCache wraps rdb as a Cache with the given TTL.
func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl, prefix: "hiredesk:logo:"}
}

// Ping checks connectivity.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *RedisCache) Get(ctx context.Context, company string) (string, bool) {
	v, err := c.rdb.Get(ctx, c.prefix+Key(company)).Result()
	if err != nil {
		return "", false
	}
	return v, true
}

func (c *RedisCache) Set(ctx context.Context, company, url string) {
	_ = c.rdb.Set(ctx, c.prefix+Key(company), url, c.ttl).Err()
}

// Close releases the Redis connection pool.
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
