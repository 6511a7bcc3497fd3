// Command jumpd runs the jump display controller: the phase state machine, the
// leaderboard view with its auto-scroll loop, and the operator HTTP surface.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/Dory74/STEMX373-SafeToManu/internal/adapter/http"
	kafkaadapter "github.com/Dory74/STEMX373-SafeToManu/internal/adapter/kafka"
	"github.com/Dory74/STEMX373-SafeToManu/internal/adapter/splashapi"
	"github.com/Dory74/STEMX373-SafeToManu/internal/config"
	"github.com/Dory74/STEMX373-SafeToManu/internal/domain"
	"github.com/Dory74/STEMX373-SafeToManu/internal/jump"
	"github.com/Dory74/STEMX373-SafeToManu/internal/leaderboard"
	"github.com/Dory74/STEMX373-SafeToManu/internal/observability"
	"github.com/Dory74/STEMX373-SafeToManu/internal/score"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	client, err := splashapi.NewClient(cfg.SplashAPIURL, cfg.SplashAPITimeout, logger, metrics)
	if err != nil {
		logger.Error("failed to create scoring api client", "error", err)
		os.Exit(1)
	}

	var source domain.ScoreSource = client
	if cfg.LeaderboardCacheTTL > 0 {
		source = splashapi.NewCachedSource(client, cfg.LeaderboardCacheTTL, metrics)
		logger.Info("leaderboard cache enabled", "ttl", cfg.LeaderboardCacheTTL)
	}

	resolver := score.NewResolver(source, cfg.SplashAPITimeout, clock, logger, metrics)

	// Result publishing is feature-flagged via KAFKA_ENABLED.
	var publisher jump.Publisher
	var kafkaWriter *kafkaadapter.ResultPublisher
	if cfg.KafkaEnabled {
		kafkaWriter = kafkaadapter.NewResultPublisher(cfg, logger, metrics)
		publisher = kafkaWriter
		logger.Info("result publishing enabled", "topic", cfg.KafkaResultTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("result publishing disabled")
	}

	scroller := leaderboard.NewScroller(clock, cfg.ScrollStepPx)
	board := leaderboard.NewBoard(source, scroller, cfg.LeaderboardRowPx, cfg.LeaderboardViewportPx, logger)

	ctrl := jump.New(resolver, publisher, clock, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctrl.Observe(leaderboardView(ctx, board, scroller))

	srv := httpadapter.NewServer(cfg.HTTPAddr, ctrl, board, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ctrl.Run(gctx) })
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := board.Load(ctx); err != nil {
		logger.Warn("initial leaderboard load failed", "error", err)
	}

	if err := g.Wait(); err != nil {
		logger.Error("jumpd exited with error", "error", err)
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
