// Package leaderboard holds the browsing view of the remote leaderboard: a
// top-25 snapshot with an explicit load/error state, and the auto-scroll loop
// that pans it when it does not fit the screen.
package leaderboard

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Dory74/STEMX373-SafeToManu/internal/domain"
)

// Status is the load state of the browsing view.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusError   Status = "error"
)

const defaultErrorMessage = "Unable to load leaderboard"

// Fetcher reads the normalized leaderboard.
type Fetcher interface {
	Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error)
}

// View is a copy of the board's state for rendering.
type View struct {
	Status  Status                    `json:"status"`
	Entries []domain.LeaderboardEntry `json:"entries"`
	Podium  []domain.LeaderboardEntry `json:"podium"`
	Error   string                    `json:"error,omitempty"`
	Offset  int                       `json:"offset"`
}

// Board is the standalone leaderboard view. Unlike the jump result path it has
// no fallback: a failed load is shown as an error until Retry succeeds.
type Board struct {
	fetcher    Fetcher
	scroller   *Scroller
	rowPx      int
	viewportPx int
	logger     *slog.Logger

	mu      sync.Mutex
	status  Status
	entries []domain.LeaderboardEntry
	errMsg  string
}

// NewBoard creates a Board. Each loaded row is rowPx tall inside a viewport of
// viewportPx; the scroller is resized to match after every successful load.
func NewBoard(fetcher Fetcher, scroller *Scroller, rowPx, viewportPx int, logger *slog.Logger) *Board {
	return &Board{
		fetcher:    fetcher,
		scroller:   scroller,
		rowPx:      rowPx,
		viewportPx: viewportPx,
		logger:     logger,
		status:     StatusIdle,
	}
}

// Load fetches the leaderboard and keeps the top entries.
func (b *Board) Load(ctx context.Context) error {
	b.mu.Lock()
	b.status = StatusLoading
	b.errMsg = ""
	b.mu.Unlock()

	entries, err := b.fetcher.Leaderboard(ctx)
	if err != nil {
		b.logger.Warn("leaderboard load failed", "error", err)
		b.mu.Lock()
		b.status = StatusError
		b.errMsg = defaultErrorMessage
		b.entries = nil
		b.mu.Unlock()
		b.stopScroll()
		return err
	}

	top := domain.Top(entries, domain.LeaderboardSize)
	b.mu.Lock()
	b.status = StatusLoaded
	b.entries = top
	b.mu.Unlock()

	if b.scroller != nil {
		b.scroller.Resize(len(top)*b.rowPx, b.viewportPx)
	}
	b.logger.Debug("leaderboard loaded", "entries", len(top), "total", len(entries))
	return nil
}

// Hide returns the board to Idle when its view is torn down. The rows are
// dropped and the scroller parked at the top.
func (b *Board) Hide() {
	b.mu.Lock()
	b.status = StatusIdle
	b.errMsg = ""
	b.entries = nil
	b.mu.Unlock()
	b.stopScroll()
}

func (b *Board) stopScroll() {
	if b.scroller != nil {
		b.scroller.Resize(0, b.viewportPx)
	}
}

// Retry re-runs Load after an error.
func (b *Board) Retry(ctx context.Context) error {
	return b.Load(ctx)
}

// View returns a copy of the current state.
func (b *Board) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()

	v := View{
		Status:  b.status,
		Entries: domain.Top(b.entries, domain.LeaderboardSize),
		Error:   b.errMsg,
	}
	v.Podium = domain.Top(v.Entries, 3)
	if b.scroller != nil {
		v.Offset = b.scroller.Offset()
	}
	return v
}
