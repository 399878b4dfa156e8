package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/pennywise/internal/model"
)

// GetGoal returns a goal by id, or nil when it doesn't exist.
func (s *SQLiteStorage) GetGoal(ctx context.Context, id string) (*model.Goal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var goal model.Goal
	var markAt sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, status, target_amount, current_amount,
		       last_checked_percent, weekly_mark_percent, weekly_mark_at,
		       created_at, target_date
		FROM goals WHERE id = ?`, id,
	).Scan(&goal.ID, &goal.UserID, &goal.Title, &goal.Status,
		&goal.TargetAmount, &goal.CurrentAmount, &goal.LastCheckedPercent,
		&goal.WeeklyMarkPercent, &markAt, &goal.CreatedAt, &goal.TargetDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	if markAt.Valid {
		goal.WeeklyMarkAt = markAt.Time
	}
	return &goal, nil
}

// UpdateGoal upserts a goal.
func (s *SQLiteStorage) UpdateGoal(ctx context.Context, goal *model.Goal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if goal == nil {
		return errors.New("goal cannot be nil")
	}
	if err := validateString(goal.ID, "goal.ID"); err != nil {
		return err
	}
	if err := validateString(goal.UserID, "goal.UserID"); err != nil {
		return err
	}

	var markAt any
	if !goal.WeeklyMarkAt.IsZero() {
		markAt = goal.WeeklyMarkAt
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (id, user_id, title, status, target_amount,
			current_amount, last_checked_percent, weekly_mark_percent,
			weekly_mark_at, created_at, target_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			status = excluded.status,
			target_amount = excluded.target_amount,
			current_amount = excluded.current_amount,
			last_checked_percent = excluded.last_checked_percent,
			weekly_mark_percent = excluded.weekly_mark_percent,
			weekly_mark_at = excluded.weekly_mark_at,
			target_date = excluded.target_date`,
		goal.ID, goal.UserID, goal.Title, goal.Status, goal.TargetAmount,
		goal.CurrentAmount, goal.LastCheckedPercent, goal.WeeklyMarkPercent,
		markAt, goal.CreatedAt, goal.TargetDate)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	return nil
}

// ListGoals returns all of a user's goals, oldest first.
func (s *SQLiteStorage) ListGoals(ctx context.Context, userID string) ([]model.Goal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, status, target_amount, current_amount,
		       last_checked_percent, weekly_mark_percent, weekly_mark_at,
		       created_at, target_date
		FROM goals WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var goals []model.Goal
	for rows.Next() {
		var goal model.Goal
		var markAt sql.NullTime
		if err := rows.Scan(&goal.ID, &goal.UserID, &goal.Title, &goal.Status,
			&goal.TargetAmount, &goal.CurrentAmount, &goal.LastCheckedPercent,
			&goal.WeeklyMarkPercent, &markAt, &goal.CreatedAt, &goal.TargetDate); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		if markAt.Valid {
			goal.WeeklyMarkAt = markAt.Time
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate goals: %w", err)
	}
	return goals, nil
}
