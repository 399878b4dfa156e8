package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/pennywise/internal/insights"
)

func insightsCmd() *cobra.Command {
	var weekly bool

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Surface proactive insights from your recent activity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			userID := currentUser()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			gen := insights.NewGenerator(store)

			if weekly {
				summary, sumErr := gen.WeeklySummary(ctx, userID)
				if sumErr != nil {
					return sumErr
				}

				fmt.Printf("Week of %s (%s)\n", summary.WeekStart.Format("Jan 2"), summary.Trend)
				fmt.Printf("  Income   $%.2f (%+.2f)\n", summary.Income, summary.IncomeDelta)
				fmt.Printf("  Expenses $%.2f (%+.2f)\n", summary.Expenses, summary.ExpensesDelta)
				fmt.Printf("  Cashflow $%.2f (%+.2f)\n", summary.CashFlow, summary.CashFlowDelta)
				if len(summary.TopCategories) > 0 {
					fmt.Println("\nTop categories:")
					for _, c := range summary.TopCategories {
						fmt.Printf("  %-16s $%.2f\n", c.Category, c.Amount)
					}
				}
				for _, g := range summary.GoalDeltas {
					fmt.Printf("\n%s: %.0f%% (%+.1f%% this week)\n", g.Title, g.PercentComplete, g.DeltaPercent)
				}
				for _, h := range summary.Highlights {
					fmt.Printf("+ %s\n", h)
				}
				for _, a := range summary.ActionItems {
					fmt.Printf("! %s\n", a)
				}
				return nil
			}

			results, err := gen.Generate(ctx, userID)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Println("Nothing notable in the last 90 days.")
				return nil
			}

			for _, in := range results {
				fmt.Printf("[%s] %s\n", in.Priority, in.Title)
				fmt.Printf("  %s\n", in.Message)
				if in.Actionable != "" {
					fmt.Printf("  -> %s\n", in.Actionable)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&weekly, "weekly", false, "print the week-over-week summary instead")
	return cmd
}
