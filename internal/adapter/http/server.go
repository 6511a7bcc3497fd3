package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/Dory74/STEMX373-SafeToManu/internal/domain"
	"github.com/Dory74/STEMX373-SafeToManu/internal/leaderboard"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const commandTimeout = 2 * time.Second

// JumpController is the operator-facing surface of the jump state machine.
type JumpController interface {
	sharedobs.ReadinessChecker
	Start(ctx context.Context) (domain.State, error)
	Reset(ctx context.Context) (domain.State, error)
	ToggleLoop(ctx context.Context) (domain.State, error)
	Back(ctx context.Context) (domain.State, error)
	State(ctx context.Context) (domain.State, error)
}

// LeaderboardBoard is the browsing view of the leaderboard.
type LeaderboardBoard interface {
	View() leaderboard.View
	Retry(ctx context.Context) error
}

// Server exposes health, readiness, metrics, and the operator endpoints that
// drive the jump display.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, the
// /jump command routes, and the /leaderboard routes.
func NewServer(addr string, ctrl JumpController, board LeaderboardBoard, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ctrl))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /jump/state", s.handleCommand(ctrl.State))
	mux.HandleFunc("POST /jump/start", s.handleCommand(ctrl.Start))
	mux.HandleFunc("POST /jump/reset", s.handleCommand(ctrl.Reset))
	mux.HandleFunc("POST /jump/loop", s.handleCommand(ctrl.ToggleLoop))
	mux.HandleFunc("POST /jump/back", s.handleCommand(ctrl.Back))

	mux.HandleFunc("GET /leaderboard", s.handleLeaderboard(board))
	mux.HandleFunc("POST /leaderboard/retry", s.handleLeaderboardRetry(board))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleCommand adapts one controller command. Commands that are not legal in
// the current phase are no-ops and still answer 200 with the unchanged state.
func (s *Server) handleCommand(cmd func(context.Context) (domain.State, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), commandTimeout)
		defer cancel()

		state, err := cmd(ctx)
		if err != nil {
			s.logger.Warn("jump command failed", "path", r.URL.Path, "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}

func (s *Server) handleLeaderboard(board LeaderboardBoard) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, board.View())
	}
}

func (s *Server) handleLeaderboardRetry(board LeaderboardBoard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := board.Retry(r.Context()); err != nil {
			writeJSON(w, http.StatusBadGateway, board.View())
			return
		}
		writeJSON(w, http.StatusOK, board.View())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
