package splashapi

import (
	"context"
	"slices"
	"time"

	"github.com/Dory74/STEMX373-SafeToManu/internal/domain"
	"github.com/Dory74/STEMX373-SafeToManu/internal/observability"
	gocache "github.com/patrickmn/go-cache"
)

const leaderboardKey = "leaderboard"

// CachedSource wraps a ScoreSource with a short-lived leaderboard snapshot
// cache. The latest jump is never cached.
type CachedSource struct {
	inner   domain.ScoreSource
	cache   *gocache.Cache
	metrics *observability.Metrics
}

// NewCachedSource creates a cache decorator that keeps a leaderboard snapshot for ttl.
func NewCachedSource(inner domain.ScoreSource, ttl time.Duration, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner:   inner,
		cache:   gocache.New(ttl, 2*ttl),
		metrics: metrics,
	}
}

func (c *CachedSource) LatestJump(ctx context.Context) (domain.ScoreRecord, error) {
	return c.inner.LatestJump(ctx)
}

func (c *CachedSource) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	if v, ok := c.cache.Get(leaderboardKey); ok {
		c.metrics.SnapshotCache.WithLabelValues("hit").Inc()
		return slices.Clone(v.([]domain.LeaderboardEntry)), nil
	}
	c.metrics.SnapshotCache.WithLabelValues("miss").Inc()

	entries, err := c.inner.Leaderboard(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(leaderboardKey, slices.Clone(entries))
	return entries, nil
}

// Invalidate drops the cached snapshot so the next read goes to the service.
func (c *CachedSource) Invalidate() {
	c.cache.Delete(leaderboardKey)
}
