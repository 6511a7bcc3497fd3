// Package cmd holds the jumpctl commands: an interactive, terminal-only run of
// the jump display and a one-shot leaderboard dump.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Dory74/STEMX373-SafeToManu/internal/adapter/splashapi"
	"github.com/Dory74/STEMX373-SafeToManu/internal/observability"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/spf13/cobra"
)

type options struct {
	apiURL  string
	timeout time.Duration
	verbose bool
}

// RootCmd is the root Cobra command that gets called from the main func.
// All other sub-commands should be registered here.
func RootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "jumpctl",
		Short:         "jumpctl drives the jump display from a terminal.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", sharedcfg.EnvOrDefault("SPLASH_API_URL", "http://localhost:8000"), "scoring service base URL")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 3*time.Second, "per-request timeout for the scoring service")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")

	cmd.AddCommand(
		runCmd(opts),
		leaderboardCmd(opts),
	)

	return cmd
}

func (o *options) logger(cmd *cobra.Command) *slog.Logger {
	if !o.verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func (o *options) client(logger *slog.Logger, metrics *observability.Metrics) (*splashapi.Client, error) {
	c, err := splashapi.NewClient(o.apiURL, o.timeout, logger, metrics)
	if err != nil {
		return nil, fmt.Errorf("scoring service client: %w", err)
	}
	return c, nil
}
