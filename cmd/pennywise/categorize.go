package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/pennywise/internal/category"
	"github.com/Veraticus/pennywise/internal/model"
)

func categorizeCmd() *cobra.Command {
	var (
		amount  float64
		txType  string
		suggest bool
	)

	cmd := &cobra.Command{
		Use:   "categorize <description>",
		Short: "Categorize a transaction description",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			t := model.TransactionType(txType)
			if t != model.TypeIncome && t != model.TypeExpense {
				return fmt.Errorf("type must be income or expense, got %q", txType)
			}

			if suggest {
				for _, s := range category.SuggestCategories(args[0]) {
					fmt.Printf("%s (%s)\n", s.Category, s.Confidence)
				}
				return nil
			}

			fmt.Println(category.Categorize(args[0], amount, t))
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "transaction amount")
	cmd.Flags().StringVar(&txType, "type", "expense", "transaction type (income or expense)")
	cmd.Flags().BoolVar(&suggest, "suggest", false, "show all candidate categories ranked by confidence")
	return cmd
}
