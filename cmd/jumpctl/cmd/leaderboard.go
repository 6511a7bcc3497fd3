package cmd

import (
	"fmt"
	"io"

	"github.com/Dory74/STEMX373-SafeToManu/internal/leaderboard"
	"github.com/Dory74/STEMX373-SafeToManu/internal/observability"
	"github.com/spf13/cobra"
)

func leaderboardCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Prints the top of the leaderboard.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := opts.logger(cmd)
			client, err := opts.client(logger, observability.NewUnregisteredMetrics())
			if err != nil {
				return err
			}

			board := leaderboard.NewBoard(client, nil, 0, 0, logger)
			if err := board.Load(cmd.Context()); err != nil {
				return fmt.Errorf("load leaderboard: %w", err)
			}
			printBoard(cmd.OutOrStdout(), board.View())
			return nil
		},
	}
}

func printBoard(w io.Writer, v leaderboard.View) {
	if len(v.Entries) == 0 {
		fmt.Fprintln(w, "No jumps recorded yet.")
		return
	}
	for i, e := range v.Entries {
		fmt.Fprintf(w, "%2d. %-20s %6.1f\n", i+1, e.Username, e.Score)
	}
}
