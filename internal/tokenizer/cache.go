package tokenizer

import (
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

const (
	DefaultCacheTTL        = 10 * time.Minute
	DefaultCacheCleanup    = 30 * time.Minute
	DefaultCacheMaxEntries = 4096
)

// CacheOptions bounds a Cache in time and size.
type CacheOptions struct {
	// TTL is how long a painted token stays cached. Zero means no expiry.
	TTL time.Duration
	// CleanupInterval is how often expired entries are purged. Zero disables
	// the janitor.
	CleanupInterval time.Duration
	// MaxEntries flushes the cache once reached. Zero means unbounded.
	MaxEntries int
}

// DefaultCacheOptions returns the bounds used when none are configured.
func DefaultCacheOptions() CacheOptions {
	return CacheOptions{
		TTL:             DefaultCacheTTL,
		CleanupInterval: DefaultCacheCleanup,
		MaxEntries:      DefaultCacheMaxEntries,
	}
}

// CacheStats counts lookups since the cache was created.
type CacheStats struct {
	Hits    uint64
	Misses  uint64
	Flushes uint64
	Entries int
}

// Cache memoizes painted output keyed by token kind and exact raw text. It is
// owned by one painter and safe for concurrent use.
type Cache struct {
	painter Painter
	opts    CacheOptions
	store   *gocache.Cache

	hits    atomic.Uint64
	misses  atomic.Uint64
	flushes atomic.Uint64
}

// NewCache creates a cache in front of p.
func NewCache(p Painter, opts CacheOptions) *Cache {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &Cache{
		painter: p,
		opts:    opts,
		store:   gocache.New(ttl, opts.CleanupInterval),
	}
}

// Painter returns the painter the cache wraps.
func (c *Cache) Painter() Painter { return c.painter }

// Paint returns the painted form of text, painting it on a miss.
func (c *Cache) Paint(kind Kind, text string) string {
	key := kind.String() + "\x00" + text
	if v, ok := c.store.Get(key); ok {
		if s, ok := v.(string); ok {
			c.hits.Add(1)
			return s
		}
	}
	c.misses.Add(1)

	painted := c.painter.Paint(kind, text)
	if c.opts.MaxEntries > 0 && c.store.ItemCount() >= c.opts.MaxEntries {
		log.Debug().Int("entries", c.store.ItemCount()).Msg("tokenizer: cache full, flushing")
		c.store.Flush()
		c.flushes.Add(1)
	}
	c.store.Set(key, painted, gocache.DefaultExpiration)
	return painted
}

// Flush drops every cached entry.
func (c *Cache) Flush() {
	c.store.Flush()
	c.flushes.Add(1)
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Flushes: c.flushes.Load(),
		Entries: c.store.ItemCount(),
	}
}
