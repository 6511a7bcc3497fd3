package domain

import "context"

// ScoreSource reads jump data from the remote scoring service.
type ScoreSource interface {
	// LatestJump returns the most recently recorded jump.
	LatestJump(ctx context.Context) (ScoreRecord, error)

	// Leaderboard returns every numeric-score entry, highest score first.
	Leaderboard(ctx context.Context) ([]LeaderboardEntry, error)
}
