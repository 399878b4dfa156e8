// Package service defines the interfaces between the advisory core and its
// collaborators.
package service

import (
	"context"

	"github.com/Veraticus/pennywise/internal/model"
)

// UserPreferences is the per-user settings blob owned by the host
// application. The advisory core reads and writes only the conversation
// memory inside it; everything else passes through untouched.
type UserPreferences struct {
	Memory   *model.ConversationMemory
	UserID   string
	Currency string
	Age      int
}

// UserStats are the aggregate figures the host application maintains for a
// user. Absent values are zero; the core treats all-zero stats as a
// legitimate new-user state, never an error.
type UserStats struct {
	MonthlyIncome   float64
	MonthlyExpenses float64
	MonthlyBudget   float64
	TotalSavings    float64
}

// ConversationState is the durable multi-turn chat context for a user:
// recent history plus any mutating action proposed and awaiting
// confirmation. Persisting it lets one conversation span short-lived
// processes.
type ConversationState struct {
	UserID        string
	PendingAction string
	History       []model.ChatMessage
}

// Storage is the persistence contract consumed by the advisory core.
type Storage interface {
	// Preference operations
	GetUserPreferences(ctx context.Context, userID string) (*UserPreferences, error)
	UpdateUserPreferences(ctx context.Context, prefs *UserPreferences) error

	// Goal operations
	GetGoal(ctx context.Context, id string) (*model.Goal, error)
	UpdateGoal(ctx context.Context, goal *model.Goal) error
	ListGoals(ctx context.Context, userID string) ([]model.Goal, error)

	// Transaction operations
	ListTransactions(ctx context.Context, userID string, days int) ([]model.Transaction, error)

	// Aggregate stats
	GetUserStats(ctx context.Context, userID string) (*UserStats, error)

	// Conversation state
	GetConversationState(ctx context.Context, userID string) (*ConversationState, error)
	UpdateConversationState(ctx context.Context, state *ConversationState) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
