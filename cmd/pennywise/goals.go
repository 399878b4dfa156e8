package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/pennywise/internal/goals"
)

func goalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Track savings-goal progress and milestones",
	}
	cmd.AddCommand(goalsCheckCmd())
	cmd.AddCommand(goalsMilestonesCmd())
	return cmd
}

func goalsCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check progress on every active goal",
		Long: `Reports progress for each active goal and announces milestones
crossed since the previous check. Re-running without new contributions
reports the same progress but announces nothing new.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			tracker := goals.NewTracker(store, slog.Default())
			progress, events, err := tracker.CheckProgress(ctx, currentUser())
			if err != nil {
				return err
			}

			if len(progress) == 0 {
				fmt.Println("No active goals.")
				return nil
			}

			for _, p := range progress {
				fmt.Printf("%s: $%.0f of $%.0f (%.0f%%)", p.Title, p.CurrentAmount, p.TargetAmount, p.PercentComplete)
				if p.DaysRemaining > 0 {
					fmt.Printf(", %d days left", p.DaysRemaining)
				}
				fmt.Println()
				if !p.IsOnTrack && p.RequiredMonthlyContrib > 0 {
					fmt.Printf("  needs $%.0f/month to finish on time\n", p.RequiredMonthlyContrib)
				}
				fmt.Printf("  %s\n", p.Motivation)
			}

			for _, e := range events {
				fmt.Printf("\n%s\n", e.Message)
				if e.ActionRequired != "" {
					fmt.Printf("  -> %s\n", e.ActionRequired)
				}
			}
			return nil
		},
	}
}

func goalsMilestonesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "milestones <goal-id>",
		Short: "List the fixed milestones for one goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			milestones, err := goals.NewTracker(store, slog.Default()).Milestones(ctx, args[0])
			if err != nil {
				return err
			}

			for _, m := range milestones {
				mark := " "
				if m.Reached {
					mark = "x"
				}
				fmt.Printf("[%s] %s\n", mark, m.Label)
			}
			return nil
		},
	}
}
