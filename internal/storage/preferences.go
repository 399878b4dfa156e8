package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Veraticus/pennywise/internal/model"
	"github.com/Veraticus/pennywise/internal/service"
)

// GetUserPreferences returns the stored preferences, or nil when the user
// has none yet. The conversation memory travels as a JSON blob.
func (s *SQLiteStorage) GetUserPreferences(ctx context.Context, userID string) (*service.UserPreferences, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	var prefs service.UserPreferences
	var memoryJSON sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, currency, age, memory FROM preferences WHERE user_id = ?`,
		userID,
	).Scan(&prefs.UserID, &prefs.Currency, &prefs.Age, &memoryJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}

	if memoryJSON.Valid && memoryJSON.String != "" {
		var memory model.ConversationMemory
		if err := json.Unmarshal([]byte(memoryJSON.String), &memory); err != nil {
			return nil, fmt.Errorf("failed to decode conversation memory: %w", err)
		}
		prefs.Memory = &memory
	}

	return &prefs, nil
}

// UpdateUserPreferences upserts the preferences row.
func (s *SQLiteStorage) UpdateUserPreferences(ctx context.Context, prefs *service.UserPreferences) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if prefs == nil {
		return errors.New("preferences cannot be nil")
	}
	if err := validateString(prefs.UserID, "userID"); err != nil {
		return err
	}

	var memoryJSON any
	if prefs.Memory != nil {
		data, err := json.Marshal(prefs.Memory)
		if err != nil {
			return fmt.Errorf("failed to encode conversation memory: %w", err)
		}
		memoryJSON = string(data)
	}

	currency := prefs.Currency
	if currency == "" {
		currency = "USD"
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (user_id, currency, age, memory, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id) DO UPDATE SET
			currency = excluded.currency,
			age = excluded.age,
			memory = excluded.memory,
			updated_at = CURRENT_TIMESTAMP`,
		prefs.UserID, currency, prefs.Age, memoryJSON)
	if err != nil {
		return fmt.Errorf("failed to update preferences: %w", err)
	}
	return nil
}
