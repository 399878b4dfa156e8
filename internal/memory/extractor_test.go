package memory

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/Veraticus/pennywise/internal/model"
	"github.com/Veraticus/pennywise/internal/service"
	"github.com/Veraticus/pennywise/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor(storage service.Storage) *Extractor {
	return NewExtractor(storage, slog.Default())
}

func storedMemory(t *testing.T, store *testutil.MockStorage, userID string) *model.ConversationMemory {
	t.Helper()
	prefs := store.Prefs[userID]
	require.NotNil(t, prefs)
	require.NotNil(t, prefs.Memory)
	return prefs.Memory
}

func TestUpdateExtractsPriorities(t *testing.T) {
	store := testutil.NewMockStorage()
	e := newTestExtractor(store)

	e.Update(context.Background(), "u1", "I'm saving for a down payment on a house", "Great plan.")

	mem := storedMemory(t, store, "u1")
	assert.Contains(t, mem.FinancialPriorities, "saving")
	assert.Contains(t, mem.FinancialPriorities, "home purchase")
}

func TestUpdateIsIdempotent(t *testing.T) {
	store := testutil.NewMockStorage()
	e := newTestExtractor(store)
	ctx := context.Background()

	msg := "I want to retire early and I like index funds"
	reply := "Consider maxing your retirement accounts."

	e.Update(ctx, "u1", msg, reply)
	writesAfterFirst := store.UpdatePrefsCalls

	e.Update(ctx, "u1", msg, reply)

	// Identical input a second time yields no new facts and no write.
	assert.Equal(t, writesAfterFirst, store.UpdatePrefsCalls)

	mem := storedMemory(t, store, "u1")
	assert.Len(t, mem.FinancialPriorities, 1)
	assert.Len(t, mem.InvestmentPreferences, 1)
}

func TestUpdateLifeEventCapturesYear(t *testing.T) {
	store := testutil.NewMockStorage()
	e := newTestExtractor(store)

	e.Update(context.Background(), "u1", "We're getting married in 2027 and need to budget", "Congratulations!")

	mem := storedMemory(t, store, "u1")
	require.Len(t, mem.LifeEvents, 1)
	assert.Equal(t, "marriage", mem.LifeEvents[0].Event)
	assert.Equal(t, "2027", mem.LifeEvents[0].Timeframe)
}

func TestUpdateRiskToleranceSetOnce(t *testing.T) {
	store := testutil.NewMockStorage()
	e := newTestExtractor(store)
	ctx := context.Background()

	e.Update(ctx, "u1", "I'm very conservative with money", "Understood.")
	mem := storedMemory(t, store, "u1")
	assert.Equal(t, model.RiskConservative, mem.RiskTolerance)

	// A later aggressive phrase never overwrites the first-seen tolerance.
	e.Update(ctx, "u1", "Actually let's be aggressive, I want high risk bets", "Noted.")
	mem = storedMemory(t, store, "u1")
	assert.Equal(t, model.RiskConservative, mem.RiskTolerance)
}

func TestUpdateLiteracyFromVocabulary(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected model.LiteracyLevel
	}{
		{
			name:     "advanced vocabulary",
			message:  "Should I adjust my asset allocation and do tax-loss harvesting?",
			expected: model.LiteracyAdvanced,
		},
		{
			name:     "intermediate vocabulary",
			message:  "Is compound interest better in an index fund?",
			expected: model.LiteracyIntermediate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewMockStorage()
			e := newTestExtractor(store)

			e.Update(context.Background(), "u1", tt.message, "Here's a thought.")

			mem := storedMemory(t, store, "u1")
			assert.Equal(t, tt.expected, mem.FinancialLiteracy)
		})
	}
}

func TestUpdateLiteracyUpgradesOnLaterEvidence(t *testing.T) {
	store := testutil.NewMockStorage()
	e := newTestExtractor(store)
	ctx := context.Background()

	// A vocabulary-free opener is no evidence; the level stays unset so a
	// later turn can still establish it.
	e.Update(ctx, "u1", "hi, can you help me? I'm saving for a car", "Of course.")
	mem := storedMemory(t, store, "u1")
	assert.Empty(t, mem.FinancialLiteracy)

	e.Update(ctx, "u1", "Is compound interest better in an index fund?", "Usually, yes.")
	mem = storedMemory(t, store, "u1")
	assert.Equal(t, model.LiteracyIntermediate, mem.FinancialLiteracy)

	e.Update(ctx, "u1", "Should I pair tax-loss harvesting with rebalancing my asset allocation?", "You can.")
	mem = storedMemory(t, store, "u1")
	assert.Equal(t, model.LiteracyAdvanced, mem.FinancialLiteracy)

	// Simple later questions never downgrade it.
	e.Update(ctx, "u1", "remind me, what's an emergency fund for?", "Unexpected expenses.")
	mem = storedMemory(t, store, "u1")
	assert.Equal(t, model.LiteracyAdvanced, mem.FinancialLiteracy)
}

func TestUpdateEmotionalStateBounded(t *testing.T) {
	store := testutil.NewMockStorage()
	e := newTestExtractor(store)
	ctx := context.Background()

	e.Update(ctx, "u1", "I'm stressed and anxious, worried and overwhelmed, drowning in bills and can't sleep", "Take a breath.")

	mem := storedMemory(t, store, "u1")
	assert.Len(t, mem.EmotionalState.StressIndicators, 5, "stress list is capped at five")
	assert.False(t, mem.EmotionalState.LastAssessed.IsZero())
}

func TestUpdateAdviceTopicCooldown(t *testing.T) {
	store := testutil.NewMockStorage()
	e := newTestExtractor(store)
	ctx := context.Background()

	now := time.Now()
	e.now = func() time.Time { return now }
	e.Update(ctx, "u1", "help", "Build an emergency fund first.")

	mem := storedMemory(t, store, "u1")
	require.Len(t, mem.AdviceHistory, 1)

	// Same topic three days later is suppressed by the cooldown.
	e.now = func() time.Time { return now.Add(3 * 24 * time.Hour) }
	e.Update(ctx, "u1", "help again", "Keep funding that emergency fund.")
	mem = storedMemory(t, store, "u1")
	assert.Len(t, mem.AdviceHistory, 1)

	// After the cooldown the topic may recur.
	e.now = func() time.Time { return now.Add(8 * 24 * time.Hour) }
	e.Update(ctx, "u1", "help once more", "Your emergency fund is growing.")
	mem = storedMemory(t, store, "u1")
	assert.Len(t, mem.AdviceHistory, 2)
}

func TestUpdateSwallowsStorageFailures(t *testing.T) {
	store := testutil.NewMockStorage()
	store.Fail = assert.AnError
	e := newTestExtractor(store)

	// Must not panic or propagate; the chat turn goes on.
	e.Update(context.Background(), "u1", "I'm saving for a car", "Nice.")
}

func TestContextRendersDirectives(t *testing.T) {
	store := testutil.NewMockStorage()
	e := newTestExtractor(store)
	ctx := context.Background()

	assert.Empty(t, e.Context(ctx, "u1"), "unknown user has no context")

	e.Update(ctx, "u1", "I'm stressed about debt and saving for a down payment", "Focus on the debt first.")

	rendered := e.Context(ctx, "u1")
	assert.Contains(t, rendered, "BE SUPPORTIVE")
	assert.Contains(t, rendered, "FOLLOW UP")
	assert.Contains(t, rendered, "home purchase")
	assert.Contains(t, rendered, "beginner", "unknown literacy renders as beginner")
}
