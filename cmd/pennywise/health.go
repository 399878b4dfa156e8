package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/pennywise/internal/health"
)

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show your composite financial health score",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			score, err := health.NewScorer(store).Calculate(ctx, currentUser())
			if err != nil {
				return err
			}

			fmt.Printf("Overall: %d/100 (%s)\n", score.Overall, score.Grade)
			fmt.Printf("%s\n\n", score.Summary)
			for _, factor := range score.Breakdown {
				fmt.Printf("  %-16s %5.0f  %s\n", factor.Name, factor.Score, factor.Label)
			}
			fmt.Printf("\nTop priority: %s\n", score.TopPriority)
			return nil
		},
	}
}
