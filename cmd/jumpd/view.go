package main

import (
	"context"

	"github.com/Dory74/STEMX373-SafeToManu/internal/domain"
	"github.com/Dory74/STEMX373-SafeToManu/internal/jump"
	"github.com/Dory74/STEMX373-SafeToManu/internal/leaderboard"
)

// leaderboardView ties the leaderboard view to the leaderboard phase. Entering
// the phase loads the rows and starts the scroll loop; leaving it cancels both
// and hides the board. The observer runs on the controller loop, so closeView
// is never touched concurrently.
func leaderboardView(ctx context.Context, board *leaderboard.Board, scroller *leaderboard.Scroller) jump.Observer {
	var closeView context.CancelFunc
	return func(prev, next domain.State) {
		entering := prev.Phase != domain.PhaseLeaderboard && next.Phase == domain.PhaseLeaderboard
		leaving := prev.Phase == domain.PhaseLeaderboard && next.Phase != domain.PhaseLeaderboard

		switch {
		case entering:
			viewCtx, cancel := context.WithCancel(ctx)
			closeView = cancel
			go func() {
				_ = scroller.Run(viewCtx)
			}()
			go func() {
				_ = board.Load(viewCtx)
				if viewCtx.Err() != nil {
					board.Hide()
				}
			}()
		case leaving:
			if closeView != nil {
				closeView()
				closeView = nil
			}
			board.Hide()
		}
	}
}
