package splashapi

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dory74/STEMX373-SafeToManu/internal/domain"
	"github.com/Dory74/STEMX373-SafeToManu/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for cache tests ---

type countingSource struct {
	latestCalls      int
	leaderboardCalls int
	entries          []domain.LeaderboardEntry
	err              error
}

func (m *countingSource) LatestJump(_ context.Context) (domain.ScoreRecord, error) {
	m.latestCalls++
	return domain.ScoreRecord{Username: "kiri", Score: 40}, nil
}

func (m *countingSource) Leaderboard(_ context.Context) ([]domain.LeaderboardEntry, error) {
	m.leaderboardCalls++
	return m.entries, m.err
}

func TestCachedSource_LeaderboardCacheHit(t *testing.T) {
	inner := &countingSource{entries: []domain.LeaderboardEntry{{Username: "a", Score: 50}}}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedSource(inner, time.Minute, metrics)

	first, err := cached.Leaderboard(context.Background())
	require.NoError(t, err)
	second, err := cached.Leaderboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.leaderboardCalls, "should only call inner once")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SnapshotCache.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SnapshotCache.WithLabelValues("miss")))
}

func TestCachedSource_SnapshotIsNotShared(t *testing.T) {
	inner := &countingSource{entries: []domain.LeaderboardEntry{{Username: "a", Score: 50}}}
	cached := NewCachedSource(inner, time.Minute, observability.NewMetricsForTesting())

	first, err := cached.Leaderboard(context.Background())
	require.NoError(t, err)
	first[0].Username = "mutated"

	second, err := cached.Leaderboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", second[0].Username)
}

func TestCachedSource_ErrorsAreNotCached(t *testing.T) {
	inner := &countingSource{err: errors.New("boom")}
	cached := NewCachedSource(inner, time.Minute, observability.NewMetricsForTesting())

	_, err := cached.Leaderboard(context.Background())
	require.Error(t, err)

	inner.err = nil
	inner.entries = []domain.LeaderboardEntry{{Score: 1}}
	entries, err := cached.Leaderboard(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 2, inner.leaderboardCalls)
}

func TestCachedSource_LatestJumpNeverCached(t *testing.T) {
	inner := &countingSource{}
	cached := NewCachedSource(inner, time.Minute, observability.NewMetricsForTesting())

	_, _ = cached.LatestJump(context.Background())
	_, _ = cached.LatestJump(context.Background())

	assert.Equal(t, 2, inner.latestCalls)
}

func TestCachedSource_Invalidate(t *testing.T) {
	inner := &countingSource{entries: []domain.LeaderboardEntry{{Score: 1}}}
	cached := NewCachedSource(inner, time.Minute, observability.NewMetricsForTesting())

	_, _ = cached.Leaderboard(context.Background())
	cached.Invalidate()
	_, _ = cached.Leaderboard(context.Background())

	assert.Equal(t, 2, inner.leaderboardCalls)
}

func TestCachedSource_Expiry(t *testing.T) {
	inner := &countingSource{entries: []domain.LeaderboardEntry{{Score: 1}}}
	cached := NewCachedSource(inner, 20*time.Millisecond, observability.NewMetricsForTesting())

	_, _ = cached.Leaderboard(context.Background())
	time.Sleep(40 * time.Millisecond)
	_, _ = cached.Leaderboard(context.Background())

	assert.Equal(t, 2, inner.leaderboardCalls)
}
