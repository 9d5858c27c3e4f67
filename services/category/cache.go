package category

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Store is the key/value backend behind the cache. ok is false on a miss.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

type entry struct {
	value    string
	loadedAt time.Time
}

// Cache remembers the last active service category per device. Reads within ttl
// of the last load are served from memory; older ones go back to the store. The
// cache is advisory: any failure yields the caller's default.
type Cache struct {
	store  Store
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu        sync.Mutex
	entries   map[string]entry
	lastSweep time.Time
}

type Option func(*Cache)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

func NewCache(store Store, ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		store:   store,
		ttl:     ttl,
		logger:  zap.NewNop(),
		now:     time.Now,
		entries: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key builds the cache key of a device inside a shop.
func Key(shopID, deviceID string) string {
	return shopID + ":" + deviceID
}

// sweepLocked drops every entry older than ttl, at most once per ttl.
// c.mu must be held.
func (c *Cache) sweepLocked(now time.Time) {
	if now.Sub(c.lastSweep) < c.ttl {
		return
	}
	for key, e := range c.entries {
		if now.Sub(e.loadedAt) >= c.ttl {
			delete(c.entries, key)
		}
	}
	c.lastSweep = now
}

// Get returns the cached category for key, or def when there is none.
func (c *Cache) Get(ctx context.Context, key, def string) string {
	now := c.now()

	c.mu.Lock()
	c.sweepLocked(now)
	e, ok := c.entries[key]
	if ok && now.Sub(e.loadedAt) >= c.ttl {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()
	if ok {
		return e.value
	}

	value, found, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("category cache: store read failed", zap.String("key", key), zap.Error(err))
		return def
	}
	if !found {
		return def
	}

	c.mu.Lock()
	c.entries[key] = entry{value: value, loadedAt: now}
	c.mu.Unlock()
	return value
}

// Set records value in memory and in the store. A store failure is logged and
// the in-memory value is kept.
func (c *Cache) Set(ctx context.Context, key, value string) {
	now := c.now()
	c.mu.Lock()
	c.sweepLocked(now)
	c.entries[key] = entry{value: value, loadedAt: now}
	c.mu.Unlock()

	if err := c.store.Set(ctx, key, value); err != nil {
		c.logger.Warn("category cache: store write failed", zap.String("key", key), zap.Error(err))
	}
}
