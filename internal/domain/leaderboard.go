package domain

import (
	"slices"
)

// LeaderboardSize is the number of entries a snapshot view keeps.
const LeaderboardSize = 25

// LeaderboardEntry is one ranked row of the remote leaderboard.
type LeaderboardEntry struct {
	Username string  `json:"username"`
	Score    float64 `json:"score"`
}

// RawEntry is a leaderboard row as decoded from the wire, before the score is
// known to be numeric.
type RawEntry struct {
	Username string
	Score    any
}

// NormalizeLeaderboard drops entries whose score is not a number and sorts the
// rest by score, highest first. Equal scores keep their wire order.
func NormalizeLeaderboard(raw []RawEntry) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(raw))
	for _, r := range raw {
		score, ok := numericScore(r.Score)
		if !ok {
			continue
		}
		entries = append(entries, LeaderboardEntry{Username: r.Username, Score: score})
	}
	slices.SortStableFunc(entries, func(a, b LeaderboardEntry) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})
	return entries
}

// Top returns at most n leading entries of a normalized leaderboard.
func Top(entries []LeaderboardEntry, n int) []LeaderboardEntry {
	if len(entries) > n {
		entries = entries[:n]
	}
	return slices.Clone(entries)
}

// Rank returns the 1-based insert position of score within a normalized
// leaderboard: the position of the first entry whose score is less than or
// equal to it, or len+1 when every entry is higher (or the board is empty).
func Rank(entries []LeaderboardEntry, score float64) int {
	for i, e := range entries {
		if e.Score <= score {
			return i + 1
		}
	}
	return len(entries) + 1
}

func numericScore(v any) (float64, bool) {
	switch s := v.(type) {
	case float64:
		return s, true
	case int:
		return float64(s), true
	case int64:
		return float64(s), true
	}
	return 0, false
}
