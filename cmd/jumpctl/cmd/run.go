package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Dory74/STEMX373-SafeToManu/internal/domain"
	"github.com/Dory74/STEMX373-SafeToManu/internal/jump"
	"github.com/Dory74/STEMX373-SafeToManu/internal/observability"
	"github.com/Dory74/STEMX373-SafeToManu/internal/score"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const keyHelp = "keys: s=start r=reset l=toggle loop b=back q=quit"

func runCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Runs the jump display in the terminal.",
		Long:  "Runs the jump display in the terminal, reading one command key per line from stdin.\n" + keyHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := opts.logger(cmd)
			metrics := observability.NewUnregisteredMetrics()
			client, err := opts.client(logger, metrics)
			if err != nil {
				return err
			}

			clock := clockwork.NewRealClock()
			resolver := score.NewResolver(client, opts.timeout, clock, logger, metrics)
			ctrl := jump.New(resolver, nil, clock, logger, metrics)

			// Every line is written by one goroutine; the observer and the key
			// reader only queue.
			out := cmd.OutOrStdout()
			lines := make(chan string, 16)
			ctrl.Observe(func(prev, next domain.State) {
				if describe(prev) == describe(next) {
					return
				}
				select {
				case lines <- describe(next):
				default:
				}
			})

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			fmt.Fprintln(out, keyHelp)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return ctrl.Run(gctx) })
			g.Go(func() error {
				for {
					select {
					case <-gctx.Done():
						return nil
					case line := <-lines:
						fmt.Fprintln(out, line)
					}
				}
			})
			g.Go(func() error {
				defer cancel()
				return readKeys(gctx, cmd.InOrStdin(), ctrl, lines)
			})

			return g.Wait()
		},
	}
}

// readKeys dispatches one command per input line until "q" or EOF.
func readKeys(ctx context.Context, in io.Reader, ctrl *jump.Controller, lines chan<- string) error {
	if err := waitReady(ctx, ctrl); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		var cmd func(context.Context) (domain.State, error)
		switch strings.TrimSpace(scanner.Text()) {
		case "s":
			cmd = ctrl.Start
		case "r":
			cmd = ctrl.Reset
		case "l":
			cmd = ctrl.ToggleLoop
		case "b":
			cmd = ctrl.Back
		case "q":
			return nil
		case "":
			continue
		default:
			select {
			case lines <- keyHelp:
			default:
			}
			continue
		}
		if _, err := cmd(ctx); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func waitReady(ctx context.Context, ctrl *jump.Controller) error {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for ctrl.CheckReadiness(ctx) != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// describe renders the part of the state a terminal user cares about. Fill
// progress is bucketed so the output is not flooded at 20 Hz.
func describe(s domain.State) string {
	switch s.Phase {
	case domain.PhaseCountdown:
		return fmt.Sprintf("countdown %d", s.Remaining)
	case domain.PhaseFilling:
		return fmt.Sprintf("filling %3d%% loop=%t", int(s.Progress)/25*25, s.Loop)
	case domain.PhaseResult, domain.PhaseLeaderboard:
		if s.Result == nil {
			return s.Phase.String() + " (resolving)"
		}
		rank := "unranked"
		if s.Result.Rank != nil {
			rank = fmt.Sprintf("#%d", *s.Result.Rank)
		}
		return fmt.Sprintf("%s %s %.1f %s", s.Phase, s.Result.Username, s.Result.Score, rank)
	default:
		return s.Phase.String()
	}
}
