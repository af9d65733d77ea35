package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/couchcryptid/wildfire-threat-service/internal/observability"
)

// Fetcher is the snapshot-assembly contract the cache decorates.
type Fetcher interface {
	Fetch(ctx context.Context, lat, lon float64) (Snapshot, error)
}

// CachedFetcher wraps a Fetcher with an expiring LRU keyed by rounded
// coordinates, so repeated assessments of the same area within the TTL
// reuse one upstream fetch.
type CachedFetcher struct {
	inner   Fetcher
	cache   *expirable.LRU[string, Snapshot]
	metrics *observability.Metrics
}

// NewCachedFetcher creates a cache of at most size entries that expire
// after ttl.
func NewCachedFetcher(inner Fetcher, size int, ttl time.Duration, metrics *observability.Metrics) *CachedFetcher {
	return &CachedFetcher{
		inner:   inner,
		cache:   expirable.NewLRU[string, Snapshot](size, nil, ttl),
		metrics: metrics,
	}
}

// Fetch returns a cached snapshot when one exists for the coordinate,
// otherwise delegates and stores the result. Errors are never cached.
func (c *CachedFetcher) Fetch(ctx context.Context, lat, lon float64) (Snapshot, error) {
	key := cacheKey(lat, lon)
	if snap, ok := c.cache.Get(key); ok {
		c.metrics.FeatureCache.WithLabelValues("hit").Inc()
		return snap, nil
	}
	c.metrics.FeatureCache.WithLabelValues("miss").Inc()

	snap, err := c.inner.Fetch(ctx, lat, lon)
	if err != nil {
		return Snapshot{}, err
	}
	c.cache.Add(key, snap)
	return snap, nil
}

// cacheKey rounds to four decimal places, roughly an 11 m grid, so jittery
// client coordinates for the same site share an entry.
func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("%.4f:%.4f", lat, lon)
}
