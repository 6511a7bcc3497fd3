// Package domain models the jump event shown on the Manu splash kiosk.
//
// # Jump Cycle
//
// A cycle runs through six phases, always in this order:
//
//	idle → countdown → jump → filling → result → leaderboard → idle
//
// Countdown starts at 5 and drops by one per second; reaching 0 enters jump.
// Jump holds for 3 seconds. Filling animates a droplet from 0 to 100 in
// 60 steps of 50ms; while the loop flag is set the droplet empties and refills,
// and once it is cleared the next crossing of 100 enters result. Result holds
// for 5 seconds while the score is resolved, then the leaderboard is shown
// until the operator goes back or resets.
//
// # Scoring Service Conventions
//
// The remote scoring service owns every score. Two endpoints are read:
//
//	GET /api/latestJump   → {"score": 41.0, "username": "kiri"}
//	GET /api/leaderboard  → [{"username": "kiri", "score": 41.0}, ...]
//
// Scores are JSON numbers (the service rounds them to whole numbers). Rows
// whose score is anything else are dropped. Usernames are optional; a latest
// jump without one is shown as [DefaultUsername].
//
// # Ranking
//
// A new score's rank is its insert position in the leaderboard sorted highest
// first: the 1-based index of the first row scoring less than or equal to it.
// Ties therefore place the new score above existing equal scores. When every
// row is higher, or the board is empty, the rank is len+1. See [Rank].
//
// # Degraded Results
//
// When the latest jump cannot be read the kiosk still shows a result: a score
// drawn from [10, 60) and a rank drawn from [1, 10], marked Degraded. When the
// score is read but the leaderboard is not, the score is kept and Rank is nil.
package domain
