package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dory74/STEMX373-SafeToManu/internal/domain"
	"github.com/Dory74/STEMX373-SafeToManu/internal/leaderboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoringAPI(t *testing.T, board string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			http.Error(w, "down", status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/leaderboard":
			_, _ = w.Write([]byte(board))
		case "/api/latestJump":
			_, _ = w.Write([]byte(`{"username":"kiri","score":30}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := RootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestLeaderboardCommand(t *testing.T) {
	api := scoringAPI(t, `[{"username":"b","score":40},{"username":"a","score":55},{"username":"c","score":"x"}]`, http.StatusOK)

	out, err := execute(t, "", "leaderboard", "--api-url", api.URL)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], " 1. a")
	assert.Contains(t, lines[0], "55.0")
	assert.Contains(t, lines[1], " 2. b")
}

func TestLeaderboardCommand_Empty(t *testing.T) {
	api := scoringAPI(t, `[]`, http.StatusOK)

	out, err := execute(t, "", "leaderboard", "--api-url", api.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "No jumps recorded yet.")
}

func TestLeaderboardCommand_ServiceDown(t *testing.T) {
	api := scoringAPI(t, ``, http.StatusBadGateway)

	_, err := execute(t, "", "leaderboard", "--api-url", api.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load leaderboard")
}

func TestRunCommand_StartThenQuit(t *testing.T) {
	api := scoringAPI(t, `[]`, http.StatusOK)

	out, err := execute(t, "x\ns\nq\n", "run", "--api-url", api.URL)
	require.NoError(t, err)
	assert.Contains(t, out, keyHelp)
}

func TestRunCommand_EOFStops(t *testing.T) {
	api := scoringAPI(t, `[]`, http.StatusOK)

	_, err := execute(t, "", "run", "--api-url", api.URL)
	require.NoError(t, err)
}

func TestDescribe(t *testing.T) {
	rank := 4
	tests := []struct {
		name  string
		state domain.State
		want  string
	}{
		{"idle", domain.InitialState(), "idle"},
		{"countdown", domain.State{Phase: domain.PhaseCountdown, Remaining: 3}, "countdown 3"},
		{"filling buckets progress", domain.State{Phase: domain.PhaseFilling, Progress: 49.9, Loop: true}, "filling  25% loop=true"},
		{"result pending", domain.State{Phase: domain.PhaseResult}, "result (resolving)"},
		{"result ranked", domain.State{Phase: domain.PhaseResult, Result: &domain.JumpResult{Username: "kiri", Score: 41, Rank: &rank}}, "result kiri 41.0 #4"},
		{"leaderboard unranked", domain.State{Phase: domain.PhaseLeaderboard, Result: &domain.JumpResult{Username: "kiri", Score: 41}}, "leaderboard kiri 41.0 unranked"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describe(tt.state))
		})
	}
}

func TestPrintBoard_AlignsRanks(t *testing.T) {
	var out bytes.Buffer
	printBoard(&out, leaderboard.View{Entries: []domain.LeaderboardEntry{
		{Username: "a", Score: 55},
		{Username: "b", Score: 40},
	}})

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], " 1. a "), "rank is right-aligned in two columns: %q", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], " 2. b "))
}
