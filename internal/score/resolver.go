// Package score resolves a jump's score and leaderboard rank.
package score

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Dory74/STEMX373-SafeToManu/internal/domain"
	"github.com/Dory74/STEMX373-SafeToManu/internal/observability"
	"github.com/jonboulle/clockwork"
)

// Fallback ranges used when the latest jump cannot be read.
const (
	fallbackScoreMin = 10
	fallbackScoreMax = 60 // exclusive
	fallbackRankMin  = 1
	fallbackRankMax  = 10 // inclusive
)

// Resolver fetches the latest jump and ranks it against the leaderboard.
type Resolver struct {
	source  domain.ScoreSource
	timeout time.Duration
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics

	mu  sync.Mutex
	rng *rand.Rand
}

// NewResolver creates a Resolver. Each Resolve call is bounded by timeout.
func NewResolver(source domain.ScoreSource, timeout time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Resolver {
	return &Resolver{
		source:  source,
		timeout: timeout,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// SetRand replaces the random source used for degraded results.
func (r *Resolver) SetRand(src rand.Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rng = rand.New(src)
}

// Resolve never fails. If the latest jump cannot be read it returns a degraded
// result with a synthetic score and rank; if only the leaderboard cannot be
// read the score is kept and the rank is left nil.
//
// A resolution abandoned by the caller returns an empty result that is not
// counted or logged as degraded.
func (r *Resolver) Resolve(parent context.Context) domain.JumpResult {
	ctx, cancel := context.WithTimeout(parent, r.timeout)
	defer cancel()

	rec, err := r.source.LatestJump(ctx)
	if parent.Err() != nil {
		return r.abandoned(parent)
	}
	if err != nil {
		r.logger.Warn("latest jump unavailable, using fallback score", "error", err)
		r.metrics.Resolutions.WithLabelValues("degraded").Inc()
		return r.fallback()
	}

	result := domain.JumpResult{
		Username:   rec.Username,
		Score:      rec.Score,
		ResolvedAt: r.clock.Now(),
	}

	entries, err := r.source.Leaderboard(ctx)
	if parent.Err() != nil {
		return r.abandoned(parent)
	}
	if err != nil {
		r.logger.Warn("leaderboard unavailable, rank unresolved", "error", err, "score", rec.Score)
		r.metrics.Resolutions.WithLabelValues("unranked").Inc()
		return result
	}

	rank := domain.Rank(entries, rec.Score)
	result.Rank = &rank
	r.metrics.Resolutions.WithLabelValues("ranked").Inc()
	r.logger.Debug("jump resolved", "username", rec.Username, "score", rec.Score, "rank", rank, "board_size", len(entries))
	return result
}

func (r *Resolver) abandoned(ctx context.Context) domain.JumpResult {
	r.metrics.Resolutions.WithLabelValues("cancelled").Inc()
	r.logger.Debug("jump resolution abandoned", "reason", ctx.Err())
	return domain.JumpResult{ResolvedAt: r.clock.Now()}
}

func (r *Resolver) fallback() domain.JumpResult {
	r.mu.Lock()
	score := float64(fallbackScoreMin + r.rng.IntN(fallbackScoreMax-fallbackScoreMin))
	rank := fallbackRankMin + r.rng.IntN(fallbackRankMax-fallbackRankMin+1)
	r.mu.Unlock()

	return domain.JumpResult{
		Score:      score,
		Rank:       &rank,
		Degraded:   true,
		ResolvedAt: r.clock.Now(),
	}
}
