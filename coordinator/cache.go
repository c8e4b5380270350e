package coordinator

import (
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/parkerroan/rlengine/engine"
)

const defaultCacheTTL = 50 * time.Millisecond

// CachedCoordinator wraps another engine.Coordinator with a short-TTL
// read-through cache for TryAcquire decisions. It exists for the case
// where one distributedKey backs a hot local entry: without it, every
// TryRequest against that entry costs a Redis round trip, which caps
// throughput far below the tens-of-millions-of-ops/sec the in-process
// table alone can sustain. Release and Reset always pass through (they
// mutate shared state, so they're never safe to serve from cache) and
// invalidate any cached decision for their key.
type CachedCoordinator struct {
	next engine.Coordinator
	ttl  time.Duration
	c    *ristretto.Cache
}

// CacheOption configures a CachedCoordinator at construction time.
type CacheOption func(*CachedCoordinator)

// WithCacheTTL overrides how long a TryAcquire=true decision is served
// from cache before the next call goes to next again. Default 50ms.
func WithCacheTTL(d time.Duration) CacheOption {
	return func(c *CachedCoordinator) { c.ttl = d }
}

// NewCachedCoordinator wraps next with a ristretto-backed cache.
func NewCachedCoordinator(next engine.Coordinator, opts ...CacheOption) (*CachedCoordinator, error) {
	rc, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e6,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	c := &CachedCoordinator{next: next, ttl: defaultCacheTTL, c: rc}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TryAcquire serves a recent "acquired" decision for key from cache
// without consulting next, within the configured TTL. A "denied" decision
// is never cached, since the whole point of re-checking is to notice the
// distributed budget recovering.
func (c *CachedCoordinator) TryAcquire(key string, maxTokens int64) (bool, error) {
	if _, ok := c.c.Get(key); ok {
		return true, nil
	}

	ok, err := c.next.TryAcquire(key, maxTokens)
	if err != nil {
		return false, err
	}
	if ok {
		c.c.SetWithTTL(key, struct{}{}, 1, c.ttl)
	}
	return ok, nil
}

// Release passes through to next and drops any cached decision for key.
func (c *CachedCoordinator) Release(key string, tokens int64) error {
	c.c.Del(key)
	return c.next.Release(key, tokens)
}

// Reset passes through to next and drops any cached decision for key.
func (c *CachedCoordinator) Reset(key string, maxTokens int64) error {
	c.c.Del(key)
	return c.next.Reset(key, maxTokens)
}
