package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/Dory74/STEMX373-SafeToManu/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	entries []domain.LeaderboardEntry
	err     error
	calls   int
}

func (f *stubFetcher) Leaderboard(_ context.Context) ([]domain.LeaderboardEntry, error) {
	f.calls++
	return f.entries, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func entries(n int) []domain.LeaderboardEntry {
	out := make([]domain.LeaderboardEntry, n)
	for i := range out {
		out[i] = domain.LeaderboardEntry{Username: fmt.Sprintf("rider-%d", i), Score: float64(100 - i)}
	}
	return out
}

func TestBoard_InitiallyIdle(t *testing.T) {
	b := NewBoard(&stubFetcher{}, nil, 40, 400, discardLogger())

	v := b.View()

	assert.Equal(t, StatusIdle, v.Status)
	assert.Empty(t, v.Entries)
}

func TestBoard_LoadTruncatesToTop25(t *testing.T) {
	b := NewBoard(&stubFetcher{entries: entries(40)}, nil, 40, 400, discardLogger())

	require.NoError(t, b.Load(context.Background()))
	v := b.View()

	assert.Equal(t, StatusLoaded, v.Status)
	assert.Len(t, v.Entries, domain.LeaderboardSize)
	assert.Equal(t, "rider-0", v.Entries[0].Username)
	assert.Len(t, v.Podium, 3)
	assert.Equal(t, v.Entries[:3], v.Podium)
	assert.Empty(t, v.Error)
}

func TestBoard_EmptyIsLoadedNotError(t *testing.T) {
	b := NewBoard(&stubFetcher{entries: nil}, nil, 40, 400, discardLogger())

	require.NoError(t, b.Load(context.Background()))
	v := b.View()

	assert.Equal(t, StatusLoaded, v.Status)
	assert.Empty(t, v.Entries)
	assert.Empty(t, v.Podium)
}

func TestBoard_ErrorThenRetry(t *testing.T) {
	f := &stubFetcher{err: fmt.Errorf("%w: leaderboard: status 503", domain.ErrNetworkFailure)}
	b := NewBoard(f, nil, 40, 400, discardLogger())

	err := b.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNetworkFailure))

	v := b.View()
	assert.Equal(t, StatusError, v.Status)
	assert.Equal(t, "Unable to load leaderboard", v.Error, "transport detail stays in the log")

	f.err = nil
	f.entries = entries(2)
	require.NoError(t, b.Retry(context.Background()))

	v = b.View()
	assert.Equal(t, StatusLoaded, v.Status)
	assert.Empty(t, v.Error)
	assert.Len(t, v.Entries, 2)
	assert.Equal(t, 2, f.calls)
}

func TestBoard_ViewIsACopy(t *testing.T) {
	b := NewBoard(&stubFetcher{entries: entries(3)}, nil, 40, 400, discardLogger())
	require.NoError(t, b.Load(context.Background()))

	v := b.View()
	v.Entries[0].Username = "mutated"

	assert.Equal(t, "rider-0", b.View().Entries[0].Username)
}

func TestBoard_LoadResizesScroller(t *testing.T) {
	s := NewScroller(clockwork.NewFakeClock(), 1)
	b := NewBoard(&stubFetcher{entries: entries(12)}, s, 40, 400, discardLogger())

	require.NoError(t, b.Load(context.Background()))

	ticks(s, 61)
	assert.Equal(t, 1, s.Offset(), "12 rows of 40px overflow a 400px viewport")
	assert.Equal(t, 1, b.View().Offset)
}

func TestBoard_FailedReloadStopsScrolling(t *testing.T) {
	s := NewScroller(clockwork.NewFakeClock(), 1)
	f := &stubFetcher{entries: entries(25)}
	b := NewBoard(f, s, 40, 400, discardLogger())
	require.NoError(t, b.Load(context.Background()))
	ticks(s, 70)
	require.Positive(t, s.Offset())

	f.err = fmt.Errorf("%w: leaderboard: status 502", domain.ErrNetworkFailure)
	require.Error(t, b.Load(context.Background()))
	ticks(s, 80)

	v := b.View()
	assert.Equal(t, StatusError, v.Status)
	assert.Empty(t, v.Entries, "stale rows are not kept behind the error")
	assert.Empty(t, v.Podium)
	assert.Zero(t, v.Offset)
}

func TestBoard_HideParksScroller(t *testing.T) {
	s := NewScroller(clockwork.NewFakeClock(), 1)
	b := NewBoard(&stubFetcher{entries: entries(25)}, s, 40, 400, discardLogger())
	require.NoError(t, b.Load(context.Background()))
	ticks(s, 70)

	b.Hide()
	ticks(s, 80)

	v := b.View()
	assert.Equal(t, StatusIdle, v.Status)
	assert.Empty(t, v.Entries)
	assert.Zero(t, v.Offset)
}
