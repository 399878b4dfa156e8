package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/Veraticus/pennywise/internal/config"
	"github.com/Veraticus/pennywise/internal/model"
	"github.com/Veraticus/pennywise/internal/service"
	"github.com/Veraticus/pennywise/internal/storage"
)

// openStorage opens the configured database and runs pending migrations.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return store, nil
}

func currentUser() string {
	return viper.GetString("user")
}

// loadFinancialContext assembles the snapshot the advisory surfaces expect
// from stored stats, recent transactions, and active goals.
func loadFinancialContext(ctx context.Context, store service.Storage, userID string) (*model.UserFinancialContext, error) {
	stats, err := store.GetUserStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading stats: %w", err)
	}
	txns, err := store.ListTransactions(ctx, userID, 30)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}
	goals, err := store.ListGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading goals: %w", err)
	}

	active := 0
	for i := range goals {
		if goals[i].Status == model.GoalActive {
			active++
		}
	}

	return &model.UserFinancialContext{
		TotalSavings:       stats.TotalSavings,
		MonthlyIncome:      stats.MonthlyIncome,
		MonthlyExpenses:    stats.MonthlyExpenses,
		MonthlyBudget:      stats.MonthlyBudget,
		RecentTransactions: txns,
		ActiveGoals:        active,
	}, nil
}
