// Package memory accumulates a durable per-user profile from chat turns.
//
// The extractor is incremental and idempotent: each update derives zero or
// more new facts from the latest turn and writes back only when something
// actually changed. Extraction failures are logged and swallowed; losing a
// personalization signal is preferable to breaking the chat turn.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/pennywise/internal/model"
	"github.com/Veraticus/pennywise/internal/service"
)

// Extractor reads and updates conversation memory in storage.
type Extractor struct {
	storage service.Storage
	logger  *slog.Logger
	now     func() time.Time
}

// NewExtractor creates a memory extractor backed by the given storage.
func NewExtractor(storage service.Storage, logger *slog.Logger) *Extractor {
	return &Extractor{
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// Update derives new profile facts from one chat turn and persists them.
// It never returns an error: failures here must not break the chat turn,
// so they are logged and discarded.
func (e *Extractor) Update(ctx context.Context, userID, userMessage, aiResponse string) {
	if err := e.update(ctx, userID, userMessage, aiResponse); err != nil {
		e.logger.Warn("memory extraction failed, signal dropped",
			"user_id", userID,
			"error", err)
	}
}

func (e *Extractor) update(ctx context.Context, userID, userMessage, aiResponse string) error {
	prefs, err := e.storage.GetUserPreferences(ctx, userID)
	if err != nil {
		return fmt.Errorf("loading preferences: %w", err)
	}
	if prefs == nil {
		prefs = &service.UserPreferences{UserID: userID}
	}

	mem := prefs.Memory
	if mem == nil {
		mem = &model.ConversationMemory{}
	}

	text := strings.ToLower(userMessage + " " + aiResponse)
	now := e.now()

	changed := false
	changed = detectPriorities(mem, text) || changed
	changed = detectInvestmentPreferences(mem, text) || changed
	changed = detectLifeEvents(mem, text) || changed
	changed = detectSpendingHabits(mem, text) || changed
	changed = detectRiskTolerance(mem, text) || changed
	changed = detectLiteracyLevel(mem, text) || changed
	changed = detectEmotionalState(mem, text, now) || changed
	changed = detectAdviceTopics(mem, aiResponse, now) || changed

	if !changed {
		return nil
	}

	prefs.Memory = mem
	if err := e.storage.UpdateUserPreferences(ctx, prefs); err != nil {
		return fmt.Errorf("persisting memory: %w", err)
	}

	e.logger.Debug("conversation memory updated",
		"user_id", userID,
		"priorities", len(mem.FinancialPriorities),
		"life_events", len(mem.LifeEvents),
		"advice_records", len(mem.AdviceHistory))
	return nil
}
