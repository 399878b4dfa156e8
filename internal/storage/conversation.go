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

// GetConversationState returns the stored chat state, or nil when the user
// has never chatted. History travels as a JSON blob.
func (s *SQLiteStorage) GetConversationState(ctx context.Context, userID string) (*service.ConversationState, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	var state service.ConversationState
	var historyJSON sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, pending_action, history FROM conversation_state WHERE user_id = ?`,
		userID,
	).Scan(&state.UserID, &state.PendingAction, &historyJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation state: %w", err)
	}

	if historyJSON.Valid && historyJSON.String != "" {
		var history []model.ChatMessage
		if err := json.Unmarshal([]byte(historyJSON.String), &history); err != nil {
			return nil, fmt.Errorf("failed to decode conversation history: %w", err)
		}
		state.History = history
	}

	return &state, nil
}

// UpdateConversationState upserts the chat state row.
func (s *SQLiteStorage) UpdateConversationState(ctx context.Context, state *service.ConversationState) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if state == nil {
		return errors.New("conversation state cannot be nil")
	}
	if err := validateString(state.UserID, "userID"); err != nil {
		return err
	}

	var historyJSON any
	if len(state.History) > 0 {
		data, err := json.Marshal(state.History)
		if err != nil {
			return fmt.Errorf("failed to encode conversation history: %w", err)
		}
		historyJSON = string(data)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversation_state (user_id, pending_action, history, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id) DO UPDATE SET
			pending_action = excluded.pending_action,
			history = excluded.history,
			updated_at = CURRENT_TIMESTAMP`,
		state.UserID, state.PendingAction, historyJSON)
	if err != nil {
		return fmt.Errorf("failed to update conversation state: %w", err)
	}
	return nil
}
