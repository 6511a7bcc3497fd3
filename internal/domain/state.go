package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultUsername is shown for a jump recorded without a username.
const DefaultUsername = "Anonymous"

// ScoreRecord is the latest jump as recorded by the scoring service.
type ScoreRecord struct {
	Username string  `json:"username"`
	Score    float64 `json:"score"`
}

// JumpResult is the resolved outcome of one jump cycle. Rank is nil when the
// score was fetched but the leaderboard could not be.
type JumpResult struct {
	CycleID    uuid.UUID `json:"cycle_id"`
	Generation uint64    `json:"generation"`
	Username   string    `json:"username"`
	Score      float64   `json:"score"`
	Rank       *int      `json:"rank"`
	Degraded   bool      `json:"degraded"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// Ranked reports whether the result carries a rank.
func (r JumpResult) Ranked() bool { return r.Rank != nil }

// State is the controller's observable state, copied out on every read.
type State struct {
	Phase     Phase       `json:"phase"`
	Remaining int         `json:"remaining"`
	Progress  float64     `json:"progress"`
	Loop      bool        `json:"loop"`
	Running   bool        `json:"running"`
	CycleID   uuid.UUID   `json:"cycle_id"`
	Result    *JumpResult `json:"result"`
}

// InitialState is the post-reset state.
func InitialState() State {
	return State{
		Phase:     PhaseIdle,
		Remaining: CountdownStart,
		Progress:  0,
		Loop:      true,
	}
}
