package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Veraticus/pennywise/internal/category"
	"github.com/Veraticus/pennywise/internal/model"
)

func recordCmd() *cobra.Command {
	var (
		amount float64
		txType string
		cat    string
		date   string
	)

	cmd := &cobra.Command{
		Use:   "record <description>",
		Short: "Record a transaction",
		Long: `Saves a transaction for the current user. The category is inferred
from the description unless --category overrides it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			t := model.TransactionType(txType)
			if t != model.TypeIncome && t != model.TypeExpense {
				return fmt.Errorf("type must be income or expense, got %q", txType)
			}
			if amount <= 0 {
				return fmt.Errorf("amount must be positive, got %v", amount)
			}

			when := time.Now()
			if date != "" {
				parsed, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
				}
				when = parsed
			}

			if cat == "" {
				cat = category.Categorize(args[0], amount, t)
			}

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			txn := &model.Transaction{
				ID:          uuid.New().String(),
				UserID:      currentUser(),
				Date:        when,
				Description: args[0],
				Amount:      amount,
				Category:    cat,
				Type:        t,
			}
			if err := store.SaveTransaction(ctx, txn); err != nil {
				return fmt.Errorf("saving transaction: %w", err)
			}

			fmt.Printf("Recorded %s $%.2f as %s\n", txn.Type, txn.Amount, txn.Category)
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "transaction amount")
	cmd.Flags().StringVar(&txType, "type", "expense", "transaction type (income or expense)")
	cmd.Flags().StringVar(&cat, "category", "", "category override (inferred when empty)")
	cmd.Flags().StringVar(&date, "date", "", "transaction date as YYYY-MM-DD (default: today)")
	return cmd
}
