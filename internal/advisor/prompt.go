package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/pennywise/internal/model"
)

// systemPrompt builds the per-turn system prompt: persona, the numeric
// snapshot, the invocation policy, and the long-term memory paragraph.
func (a *Advisor) systemPrompt(ctx context.Context, userID string, fc *model.UserFinancialContext) string {
	var b strings.Builder

	b.WriteString("You are a warm, practical personal financial advisor. ")
	b.WriteString("Give specific, numeric guidance grounded in the user's actual situation. ")
	b.WriteString("Keep answers short and free of jargon unless the user shows fluency.\n\n")

	b.WriteString("USER SNAPSHOT:\n")
	fmt.Fprintf(&b, "- Total savings: $%.2f\n", fc.TotalSavings)
	fmt.Fprintf(&b, "- Monthly income: $%.2f, monthly expenses: $%.2f (net $%.2f)\n",
		fc.MonthlyIncome, fc.MonthlyExpenses, fc.NetMonthly())
	fmt.Fprintf(&b, "- Savings rate: %.1f%%\n", fc.SavingsRate())
	fmt.Fprintf(&b, "- Emergency fund target (6 months of expenses): $%.2f\n", fc.EmergencyFundTarget())
	fmt.Fprintf(&b, "- Active goals: %d\n", fc.ActiveGoals)
	if fc.MonthlyBudget > 0 {
		fmt.Fprintf(&b, "- Monthly budget: $%.2f\n", fc.MonthlyBudget)
	}
	if len(fc.UpcomingEvents) > 0 {
		b.WriteString("- Upcoming events: ")
		for i, ev := range fc.UpcomingEvents {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s ($%.0f on %s)", ev.Title, ev.EstimatedValue, ev.Date.Format("2006-01-02"))
		}
		b.WriteString("\n")
	}

	if prefs, err := a.storage.GetUserPreferences(ctx, userID); err != nil {
		a.logger.Warn("loading preferences for prompt", "user_id", userID, "error", err)
	} else if prefs != nil && prefs.Age > 0 {
		stocks := 110 - prefs.Age
		if stocks < 0 {
			stocks = 0
		}
		fmt.Fprintf(&b, "- Age %d: a common baseline allocation is %d%% stocks / %d%% bonds; adjust for their stated risk tolerance\n",
			prefs.Age, stocks, 100-stocks)
	}

	b.WriteString("\nTOOL POLICY:\n")
	b.WriteString("- Informational tools (analyze_allocation, payoff_strategy, future_value, retirement_needs) may be used freely for analytical questions.\n")
	b.WriteString("- State-mutating tools (create_goal, create_event, create_group) require a two-step flow: explain what you propose and why, then invoke the tool only after the user explicitly confirms in a later turn.\n")
	b.WriteString("- Logging tools (add_transaction, add_crypto_holding) may fire immediately when the user states a transaction as fact.\n")

	if memCtx := a.memory.Context(ctx, userID); memCtx != "" {
		b.WriteString("\n")
		b.WriteString(memCtx)
		b.WriteString("\n")
	}

	if fc.Language != "" && fc.Language != "en" {
		fmt.Fprintf(&b, "\nRespond in the user's language: %s.\n", fc.Language)
	}

	return b.String()
}
