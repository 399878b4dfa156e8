package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	var (
		income   float64
		expenses float64
		budget   float64
		savings  float64
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Set the monthly aggregate figures for the current user",
		Long: `Stores the aggregate figures every advisory surface reads: monthly
income, monthly expenses, monthly budget, and total savings. Without flags,
prints the stored values.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			userID := currentUser()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if !cmd.Flags().Changed("income") && !cmd.Flags().Changed("expenses") &&
				!cmd.Flags().Changed("budget") && !cmd.Flags().Changed("savings") {
				stats, err := store.GetUserStats(ctx, userID)
				if err != nil {
					return fmt.Errorf("loading stats: %w", err)
				}
				fmt.Printf("Monthly income:   $%.2f\n", stats.MonthlyIncome)
				fmt.Printf("Monthly expenses: $%.2f\n", stats.MonthlyExpenses)
				fmt.Printf("Monthly budget:   $%.2f\n", stats.MonthlyBudget)
				fmt.Printf("Total savings:    $%.2f\n", stats.TotalSavings)
				return nil
			}

			// Partial updates keep the figures not mentioned on the command line.
			current, err := store.GetUserStats(ctx, userID)
			if err != nil {
				return fmt.Errorf("loading stats: %w", err)
			}
			if cmd.Flags().Changed("income") {
				current.MonthlyIncome = income
			}
			if cmd.Flags().Changed("expenses") {
				current.MonthlyExpenses = expenses
			}
			if cmd.Flags().Changed("budget") {
				current.MonthlyBudget = budget
			}
			if cmd.Flags().Changed("savings") {
				current.TotalSavings = savings
			}

			if err := store.UpdateUserStats(ctx, userID, current); err != nil {
				return fmt.Errorf("saving stats: %w", err)
			}

			fmt.Println("Stats updated")
			return nil
		},
	}

	cmd.Flags().Float64Var(&income, "income", 0, "monthly income")
	cmd.Flags().Float64Var(&expenses, "expenses", 0, "monthly expenses")
	cmd.Flags().Float64Var(&budget, "budget", 0, "monthly spending budget")
	cmd.Flags().Float64Var(&savings, "savings", 0, "total savings")
	return cmd
}
