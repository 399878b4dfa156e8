package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/pennywise/internal/model"
)

// Context renders the stored profile as a prompt-insertable paragraph.
// An empty string means nothing is known about the user yet.
func (e *Extractor) Context(ctx context.Context, userID string) string {
	prefs, err := e.storage.GetUserPreferences(ctx, userID)
	if err != nil {
		e.logger.Warn("memory context unavailable",
			"user_id", userID,
			"error", err)
		return ""
	}
	if prefs == nil || prefs.Memory == nil || !prefs.Memory.HasSignals() {
		return ""
	}

	mem := prefs.Memory
	var parts []string

	if len(mem.FinancialPriorities) > 0 {
		parts = append(parts, "Financial priorities: "+strings.Join(mem.FinancialPriorities, ", ")+".")
	}
	if mem.RiskTolerance != "" {
		parts = append(parts, fmt.Sprintf("Risk tolerance: %s.", mem.RiskTolerance))
	}
	literacy := mem.FinancialLiteracy
	if literacy == "" {
		// No vocabulary evidence yet; explain things simply.
		literacy = model.LiteracyBeginner
	}
	parts = append(parts, fmt.Sprintf("Financial literacy: %s; match your explanations to that level.", literacy))
	if len(mem.InvestmentPreferences) > 0 {
		parts = append(parts, "Investment preferences: "+strings.Join(mem.InvestmentPreferences, ", ")+".")
	}
	if len(mem.LifeEvents) > 0 {
		events := make([]string, 0, len(mem.LifeEvents))
		for _, ev := range mem.LifeEvents {
			if ev.Timeframe != "" {
				events = append(events, fmt.Sprintf("%s (%s)", ev.Event, ev.Timeframe))
			} else {
				events = append(events, ev.Event)
			}
		}
		parts = append(parts, "Known life events: "+strings.Join(events, ", ")+".")
	}
	if len(mem.SpendingHabits) > 0 {
		parts = append(parts, "Spending habits: "+strings.Join(mem.SpendingHabits, ", ")+".")
	}
	if mem.PreferredDetailLevel != "" {
		parts = append(parts, fmt.Sprintf("Preferred detail level: %s.", mem.PreferredDetailLevel))
	}

	if len(mem.EmotionalState.StressIndicators) > 0 {
		parts = append(parts, "BE SUPPORTIVE: recent stress signals include "+
			strings.Join(mem.EmotionalState.StressIndicators, "; ")+".")
	}
	if len(mem.EmotionalState.RecentWins) > 0 {
		parts = append(parts, "Recent wins worth acknowledging: "+
			strings.Join(mem.EmotionalState.RecentWins, "; ")+".")
	}

	var pending []string
	for _, rec := range mem.AdviceHistory {
		if rec.Outcome == "" {
			pending = append(pending, fmt.Sprintf("%s (%s)", rec.Topic, rec.Date.Format("Jan 2")))
		}
	}
	if len(pending) > 0 {
		parts = append(parts, "FOLLOW UP on earlier advice still pending: "+strings.Join(pending, ", ")+".")
	}

	return strings.Join(parts, " ")
}
