// Package testutil provides in-memory test doubles shared across packages.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/Veraticus/pennywise/internal/model"
	"github.com/Veraticus/pennywise/internal/service"
)

// MockStorage is an in-memory service.Storage for tests. Zero value is not
// usable; create it with NewMockStorage.
type MockStorage struct {
	Prefs         map[string]*service.UserPreferences
	Goals         map[string]*model.Goal
	Transactions  map[string][]model.Transaction
	Stats         map[string]*service.UserStats
	Conversations map[string]*service.ConversationState

	// Fail forces every operation to return this error, for exercising
	// failure paths.
	Fail error

	// UpdatePrefsCalls counts preference writes, for idempotence checks.
	UpdatePrefsCalls int

	mu sync.Mutex
}

// NewMockStorage creates an empty mock storage.
func NewMockStorage() *MockStorage {
	return &MockStorage{
		Prefs:         make(map[string]*service.UserPreferences),
		Goals:         make(map[string]*model.Goal),
		Transactions:  make(map[string][]model.Transaction),
		Stats:         make(map[string]*service.UserStats),
		Conversations: make(map[string]*service.ConversationState),
	}
}

// GetUserPreferences returns the stored preferences, or nil when absent.
func (m *MockStorage) GetUserPreferences(_ context.Context, userID string) (*service.UserPreferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	return m.Prefs[userID], nil
}

// UpdateUserPreferences stores the preferences blob.
func (m *MockStorage) UpdateUserPreferences(_ context.Context, prefs *service.UserPreferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	m.UpdatePrefsCalls++
	m.Prefs[prefs.UserID] = prefs
	return nil
}

// GetGoal returns a goal by id.
func (m *MockStorage) GetGoal(_ context.Context, id string) (*model.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	goal, ok := m.Goals[id]
	if !ok {
		return nil, nil
	}
	copied := *goal
	return &copied, nil
}

// UpdateGoal stores a goal.
func (m *MockStorage) UpdateGoal(_ context.Context, goal *model.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	copied := *goal
	m.Goals[goal.ID] = &copied
	return nil
}

// ListGoals returns all goals for a user in insertion-independent order.
func (m *MockStorage) ListGoals(_ context.Context, userID string) ([]model.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	var goals []model.Goal
	for _, g := range m.Goals {
		if g.UserID == userID {
			goals = append(goals, *g)
		}
	}
	return goals, nil
}

// ListTransactions returns the user's transactions within the day window.
func (m *MockStorage) ListTransactions(_ context.Context, userID string, days int) ([]model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	var txns []model.Transaction
	for _, t := range m.Transactions[userID] {
		if !t.Date.Before(cutoff) {
			txns = append(txns, t)
		}
	}
	return txns, nil
}

// GetUserStats returns the aggregate stats, zero-valued when absent.
func (m *MockStorage) GetUserStats(_ context.Context, userID string) (*service.UserStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	if stats, ok := m.Stats[userID]; ok {
		copied := *stats
		return &copied, nil
	}
	return &service.UserStats{}, nil
}

// GetConversationState returns the stored chat state, or nil when absent.
func (m *MockStorage) GetConversationState(_ context.Context, userID string) (*service.ConversationState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	state, ok := m.Conversations[userID]
	if !ok {
		return nil, nil
	}
	copied := *state
	copied.History = append([]model.ChatMessage(nil), state.History...)
	return &copied, nil
}

// UpdateConversationState stores the chat state.
func (m *MockStorage) UpdateConversationState(_ context.Context, state *service.ConversationState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	copied := *state
	copied.History = append([]model.ChatMessage(nil), state.History...)
	m.Conversations[state.UserID] = &copied
	return nil
}

// Migrate is a no-op for the mock.
func (m *MockStorage) Migrate(_ context.Context) error { return nil }

// Close is a no-op for the mock.
func (m *MockStorage) Close() error { return nil }
