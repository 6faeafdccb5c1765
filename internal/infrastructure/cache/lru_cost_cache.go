package cache

import (
	"context"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mise/backend/internal/domain/costing"
)

// costEntry wraps a cached costing result with its expiration time
type costEntry struct {
	result    *costing.Result
	expiresAt time.Time
}

func (e *costEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// LRUCostCache is an in-process cost cache with bounded size and TTL.
// Suitable for single-instance deployments; results are not shared
// across processes.
type LRUCostCache struct {
	entries *lru.Cache[int64, *costEntry]
	ttl     time.Duration

	// Stats for monitoring
	hits   int64
	misses int64
}

// NewLRUCostCache creates an in-memory cost cache holding at most size
// entries, each valid for ttl.
func NewLRUCostCache(size int, ttl time.Duration) (*LRUCostCache, error) {
	entries, err := lru.New[int64, *costEntry](size)
	if err != nil {
		return nil, err
	}
	return &LRUCostCache{
		entries: entries,
		ttl:     ttl,
	}, nil
}

// Get retrieves a cached costing result for the recipe
func (c *LRUCostCache) Get(ctx context.Context, recipeID int64) (*costing.Result, bool) {
	entry, ok := c.entries.Get(recipeID)
	if !ok {
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	}
	if entry.isExpired() {
		c.entries.Remove(recipeID)
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	}
	atomic.AddInt64(&c.hits, 1)
	return entry.result, true
}

// Set stores a costing result for the recipe
func (c *LRUCostCache) Set(ctx context.Context, recipeID int64, result *costing.Result) {
	c.entries.Add(recipeID, &costEntry{
		result:    result,
		expiresAt: time.Now().Add(c.ttl),
	})
}

// Invalidate removes the cached result for the recipe
func (c *LRUCostCache) Invalidate(ctx context.Context, recipeID int64) {
	c.entries.Remove(recipeID)
}

// Stats returns hit and miss counts since the cache was created
func (c *LRUCostCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}
