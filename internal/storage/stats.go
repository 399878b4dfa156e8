package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/pennywise/internal/service"
)

// GetUserStats returns the user's aggregate figures. A user with no stats
// row gets zero values, which downstream scoring treats as a legitimate
// new-user state.
func (s *SQLiteStorage) GetUserStats(ctx context.Context, userID string) (*service.UserStats, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	var stats service.UserStats
	err := s.db.QueryRowContext(ctx, `
		SELECT monthly_income, monthly_expenses, monthly_budget, total_savings
		FROM user_stats WHERE user_id = ?`, userID,
	).Scan(&stats.MonthlyIncome, &stats.MonthlyExpenses, &stats.MonthlyBudget, &stats.TotalSavings)
	if errors.Is(err, sql.ErrNoRows) {
		return &service.UserStats{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}
	return &stats, nil
}

// UpdateUserStats upserts the aggregate figures the host maintains.
func (s *SQLiteStorage) UpdateUserStats(ctx context.Context, userID string, stats *service.UserStats) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if stats == nil {
		return errors.New("stats cannot be nil")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_stats (user_id, monthly_income, monthly_expenses, monthly_budget, total_savings, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id) DO UPDATE SET
			monthly_income = excluded.monthly_income,
			monthly_expenses = excluded.monthly_expenses,
			monthly_budget = excluded.monthly_budget,
			total_savings = excluded.total_savings,
			updated_at = CURRENT_TIMESTAMP`,
		userID, stats.MonthlyIncome, stats.MonthlyExpenses, stats.MonthlyBudget, stats.TotalSavings)
	if err != nil {
		return fmt.Errorf("failed to update user stats: %w", err)
	}
	return nil
}
