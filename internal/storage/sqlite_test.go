package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/pennywise/internal/common"
	"github.com/Veraticus/pennywise/internal/model"
	"github.com/Veraticus/pennywise/internal/service"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := newTestStorage(t)
	require.NoError(t, store.Migrate(context.Background()))
}

func TestNewSQLiteStorageRejectsEmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("")
	assert.Error(t, err)
}

func TestPreferencesRoundTrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	got, err := store.GetUserPreferences(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got, "unknown users have no preferences")

	prefs := &service.UserPreferences{
		UserID:   "u1",
		Currency: "EUR",
		Age:      34,
		Memory: &model.ConversationMemory{
			FinancialPriorities: []string{"retirement"},
			RiskTolerance:       model.RiskModerate,
		},
	}
	require.NoError(t, store.UpdateUserPreferences(ctx, prefs))

	got, err = store.GetUserPreferences(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "EUR", got.Currency)
	assert.Equal(t, 34, got.Age)
	require.NotNil(t, got.Memory)
	assert.Equal(t, []string{"retirement"}, got.Memory.FinancialPriorities)
	assert.Equal(t, model.RiskModerate, got.Memory.RiskTolerance)
}

func TestPreferencesUpsertMergesMemory(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.UpdateUserPreferences(ctx, &service.UserPreferences{UserID: "u1"}))

	got, err := store.GetUserPreferences(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got.Memory)
	assert.Equal(t, "USD", got.Currency, "currency defaults on first write")

	got.Memory = &model.ConversationMemory{SpendingHabits: []string{"frequent dining"}}
	require.NoError(t, store.UpdateUserPreferences(ctx, got))

	got, err = store.GetUserPreferences(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got.Memory)
	assert.Equal(t, []string{"frequent dining"}, got.Memory.SpendingHabits)
}

func TestGoalRoundTrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	missing, err := store.GetGoal(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	now := time.Now().UTC().Truncate(time.Second)
	goal := &model.Goal{
		ID:            "g1",
		UserID:        "u1",
		Title:         "House fund",
		Status:        model.GoalActive,
		TargetAmount:  10000,
		CurrentAmount: 2500,
		CreatedAt:     now,
		TargetDate:    now.AddDate(1, 0, 0),
	}
	require.NoError(t, store.UpdateGoal(ctx, goal))

	got, err := store.GetGoal(ctx, "g1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "House fund", got.Title)
	assert.Equal(t, 2500.0, got.CurrentAmount)

	// Upsert path: milestone mark and status survive a rewrite.
	got.LastCheckedPercent = 25
	got.Status = model.GoalPaused
	require.NoError(t, store.UpdateGoal(ctx, got))

	got, err = store.GetGoal(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 25.0, got.LastCheckedPercent)
	assert.Equal(t, model.GoalPaused, got.Status)
}

func TestListGoalsFiltersByUser(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, g := range []*model.Goal{
		{ID: "g1", UserID: "u1", Title: "A", Status: model.GoalActive, TargetAmount: 100, CreatedAt: now.AddDate(0, 0, -2), TargetDate: now.AddDate(0, 6, 0)},
		{ID: "g2", UserID: "u1", Title: "B", Status: model.GoalActive, TargetAmount: 200, CreatedAt: now.AddDate(0, 0, -1), TargetDate: now.AddDate(0, 6, 0)},
		{ID: "g3", UserID: "u2", Title: "C", Status: model.GoalActive, TargetAmount: 300, CreatedAt: now, TargetDate: now.AddDate(0, 6, 0)},
	} {
		require.NoError(t, store.UpdateGoal(ctx, g))
	}

	goals, err := store.ListGoals(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, "A", goals[0].Title, "oldest first")
	assert.Equal(t, "B", goals[1].Title)
}

func TestListTransactionsWindow(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, txn := range []*model.Transaction{
		{ID: "t1", UserID: "u1", Date: now.AddDate(0, 0, -5), Description: "groceries", Amount: 80, Category: "Groceries", Type: model.TypeExpense},
		{ID: "t2", UserID: "u1", Date: now.AddDate(0, 0, -45), Description: "old purchase", Amount: 40, Category: "Shopping", Type: model.TypeExpense},
		{ID: "t3", UserID: "u2", Date: now.AddDate(0, 0, -2), Description: "other user", Amount: 10, Category: "Dining", Type: model.TypeExpense},
	} {
		require.NoError(t, store.SaveTransaction(ctx, txn))
	}

	txns, err := store.ListTransactions(ctx, "u1", 30)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "t1", txns[0].ID)

	txns, err = store.ListTransactions(ctx, "u1", 60)
	require.NoError(t, err)
	assert.Len(t, txns, 2)
}

func TestSaveTransactionRejectsDuplicateID(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	txn := &model.Transaction{ID: "t1", UserID: "u1", Date: time.Now(), Description: "coffee", Amount: 4, Type: model.TypeExpense}
	require.NoError(t, store.SaveTransaction(ctx, txn))

	err := store.SaveTransaction(ctx, txn)
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)
}

func TestUserStatsRoundTrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	stats, err := store.GetUserStats(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, stats.MonthlyIncome, "absent stats are zero, not an error")

	require.NoError(t, store.UpdateUserStats(ctx, "u1", &service.UserStats{
		MonthlyIncome:   5000,
		MonthlyExpenses: 3500,
		MonthlyBudget:   3600,
		TotalSavings:    12000,
	}))

	stats, err = store.GetUserStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 5000.0, stats.MonthlyIncome)
	assert.Equal(t, 12000.0, stats.TotalSavings)

	require.NoError(t, store.UpdateUserStats(ctx, "u1", &service.UserStats{MonthlyIncome: 5200}))
	stats, err = store.GetUserStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 5200.0, stats.MonthlyIncome)
}

func TestConversationStateRoundTrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	got, err := store.GetConversationState(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got, "unknown users have no conversation state")

	state := &service.ConversationState{
		UserID:        "u1",
		PendingAction: "create_goal",
		History: []model.ChatMessage{
			{Role: model.RoleUser, Content: "I want to save for a trip to Japan"},
			{Role: model.RoleAssistant, Content: "Want me to set that up?"},
		},
	}
	require.NoError(t, store.UpdateConversationState(ctx, state))

	got, err = store.GetConversationState(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "create_goal", got.PendingAction)
	require.Len(t, got.History, 2)
	assert.Equal(t, model.RoleAssistant, got.History[1].Role)

	// Clearing the pending action leaves the history intact.
	got.PendingAction = ""
	require.NoError(t, store.UpdateConversationState(ctx, got))

	got, err = store.GetConversationState(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.PendingAction)
	assert.Len(t, got.History, 2)
}

func TestAdviceCachePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()
	fc := &model.UserFinancialContext{TotalSavings: 12000, MonthlyIncome: 5000, ActiveGoals: 1}

	store, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	cache := store.AdviceCache(0, 0)

	_, ok := cache.Get("How am I doing?", fc)
	assert.False(t, ok)
	cache.Set("How am I doing?", fc, "Keep saving steadily.", 6)

	// Whitespace and case variants share the entry.
	got, ok := cache.Get("how am I  doing?", fc)
	require.True(t, ok)
	assert.Equal(t, "Keep saving steadily.", got)
	require.NoError(t, store.Close())

	store, err = NewSQLiteStorage(path)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	t.Cleanup(func() { _ = store.Close() })
	cache = store.AdviceCache(0, 0)

	got, ok = cache.Get("How am I doing?", fc)
	require.True(t, ok, "entries survive reopening the database")
	assert.Equal(t, "Keep saving steadily.", got)

	stats := cache.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
}

func TestAdviceCacheEvictsOldestFirst(t *testing.T) {
	store := newTestStorage(t)
	fc := &model.UserFinancialContext{}
	cache := store.AdviceCache(time.Hour, 2)

	cache.Set("first question", fc, "one", 1)
	cache.Set("second question", fc, "two", 1)
	cache.Set("third question", fc, "three", 1)

	_, ok := cache.Get("first question", fc)
	assert.False(t, ok, "oldest insertion is evicted at capacity")

	got, ok := cache.Get("third question", fc)
	require.True(t, ok)
	assert.Equal(t, "three", got)
}
