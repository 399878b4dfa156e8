// Package insights surfaces proactive, typed observations about a user's
// finances.
//
// Each detector is stateless and independent: it sees a 90-day transaction
// window plus the user's goals and stats, and produces zero or more
// insights. Nothing is deduplicated against previously shown insights
// here; suppressing dismissed insights is the caller's responsibility.
package insights

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/pennywise/internal/model"
	"github.com/Veraticus/pennywise/internal/service"
)

// windowDays is the transaction lookback for insight detection.
const windowDays = 90

// idleCashAPY is the modeled high-yield savings rate used to price idle
// cash.
const idleCashAPY = 0.045

// cookingSavingsShare is the modeled share of dining spend a home cook
// keeps.
const cookingSavingsShare = 0.60

// subscriptionKeywords identify recurring subscription charges.
var subscriptionKeywords = []string{
	"netflix", "spotify", "hulu", "disney", "hbo", "youtube",
	"subscription", "membership", "prime", "apple", "audible",
}

// Generator runs the insight detectors.
type Generator struct {
	storage service.Storage
	now     func() time.Time
}

// NewGenerator creates an insight generator backed by the given storage.
func NewGenerator(storage service.Storage) *Generator {
	return &Generator{storage: storage, now: time.Now}
}

// detectorInput is the data every detector sees.
type detectorInput struct {
	now   time.Time
	stats *service.UserStats
	txns  []model.Transaction
	goals []model.Goal
}

// Generate runs every detector and returns the insights ordered by
// priority, high first.
func (g *Generator) Generate(ctx context.Context, userID string) ([]model.ProactiveInsight, error) {
	txns, err := g.storage.ListTransactions(ctx, userID, windowDays)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}
	goals, err := g.storage.ListGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading goals: %w", err)
	}
	stats, err := g.storage.GetUserStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading user stats: %w", err)
	}
	if stats == nil {
		stats = &service.UserStats{}
	}

	in := detectorInput{now: g.now(), stats: stats, txns: txns, goals: goals}

	detectors := []func(detectorInput) []model.ProactiveInsight{
		detectLargeTransactions,
		detectCategoryConcentration,
		detectSubscriptionBundle,
		detectDiningSpend,
		detectIdleCash,
		detectGoalDeadlines,
		detectHalfwayGoals,
		detectBudgetOverrun,
		detectSavingsStreak,
	}

	var results []model.ProactiveInsight
	for _, detect := range detectors {
		results = append(results, detect(in)...)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Priority.Before(results[j].Priority)
	})
	return results, nil
}

// newInsight fills the boilerplate fields.
func newInsight(now time.Time, typ model.InsightType, priority model.InsightPriority, title, message, actionable string, data map[string]any) model.ProactiveInsight {
	return model.ProactiveInsight{
		ID:         uuid.New().String(),
		Type:       typ,
		Priority:   priority,
		Title:      title,
		Message:    message,
		Actionable: actionable,
		Data:       data,
		CreatedAt:  now,
	}
}

// expensesSince filters expenses on or after the cutoff.
func expensesSince(txns []model.Transaction, cutoff time.Time) []model.Transaction {
	var out []model.Transaction
	for _, t := range txns {
		if t.Type == model.TypeExpense && !t.Date.Before(cutoff) {
			out = append(out, t)
		}
	}
	return out
}

// detectLargeTransactions flags single expenses more than three times the
// seven-day average and over $100.
func detectLargeTransactions(in detectorInput) []model.ProactiveInsight {
	recent := expensesSince(in.txns, in.now.AddDate(0, 0, -7))
	if len(recent) < 2 {
		return nil
	}

	total := 0.0
	for _, t := range recent {
		total += t.Amount
	}
	average := total / float64(len(recent))

	var out []model.ProactiveInsight
	for _, t := range recent {
		if t.Amount > average*3 && t.Amount > 100 {
			out = append(out, newInsight(in.now,
				model.InsightSpendingAnomaly, model.PriorityHigh,
				"Unusually large transaction",
				fmt.Sprintf("$%.2f on \"%s\" is over three times your recent average of $%.2f.", t.Amount, t.Description, average),
				"Confirm this was intentional, and check for duplicate charges.",
				map[string]any{"transaction_id": t.ID, "amount": t.Amount, "average": average},
			))
		}
	}
	return out
}

// detectCategoryConcentration flags a single non-housing category eating
// more than 30% of monthly income over the last 30 days.
func detectCategoryConcentration(in detectorInput) []model.ProactiveInsight {
	if in.stats.MonthlyIncome <= 0 {
		return nil
	}

	byCategory := make(map[string]float64)
	for _, t := range expensesSince(in.txns, in.now.AddDate(0, 0, -30)) {
		byCategory[t.Category] += t.Amount
	}

	var out []model.ProactiveInsight
	for cat, amount := range byCategory {
		lower := strings.ToLower(cat)
		if strings.Contains(lower, "housing") || strings.Contains(lower, "rent") || strings.Contains(lower, "mortgage") {
			continue
		}
		share := amount / in.stats.MonthlyIncome * 100
		if share > 30 {
			out = append(out, newInsight(in.now,
				model.InsightSpendingAnomaly, model.PriorityMedium,
				fmt.Sprintf("%s is dominating your spending", cat),
				fmt.Sprintf("%.0f%% of your monthly income went to %s in the last 30 days.", share, cat),
				fmt.Sprintf("Set a %s cap for next month and track against it.", cat),
				map[string]any{"category": cat, "amount": amount, "share": share},
			))
		}
	}
	return out
}

// detectSubscriptionBundle fires when three or more subscription-looking
// charges recur in the last 30 days.
func detectSubscriptionBundle(in detectorInput) []model.ProactiveInsight {
	seen := make(map[string]float64)
	for _, t := range expensesSince(in.txns, in.now.AddDate(0, 0, -30)) {
		lower := strings.ToLower(t.Description)
		for _, kw := range subscriptionKeywords {
			if strings.Contains(lower, kw) {
				seen[kw] += t.Amount
				break
			}
		}
	}
	if len(seen) < 3 {
		return nil
	}

	total := 0.0
	for _, amount := range seen {
		total += amount
	}
	return []model.ProactiveInsight{newInsight(in.now,
		model.InsightSavingsOpportunity, model.PriorityMedium,
		"Subscriptions are stacking up",
		fmt.Sprintf("You paid %d separate subscriptions totaling $%.2f this month.", len(seen), total),
		"Cancel the ones you haven't used in 30 days, or switch to a bundle.",
		map[string]any{"count": len(seen), "total": total},
	)}
}

// detectDiningSpend flags monthly dining spend past $500, with a modeled
// cooking-at-home savings estimate.
func detectDiningSpend(in detectorInput) []model.ProactiveInsight {
	dining := 0.0
	for _, t := range expensesSince(in.txns, in.now.AddDate(0, 0, -30)) {
		if strings.EqualFold(t.Category, "Dining") {
			dining += t.Amount
		}
	}
	if dining <= 500 {
		return nil
	}

	savings := dining * cookingSavingsShare
	return []model.ProactiveInsight{newInsight(in.now,
		model.InsightSavingsOpportunity, model.PriorityMedium,
		"Dining out is a big line item",
		fmt.Sprintf("You spent $%.2f on dining in the last 30 days.", dining),
		fmt.Sprintf("Cooking most of those meals could keep roughly $%.0f/month in your pocket.", savings),
		map[string]any{"dining": dining, "estimated_savings": savings},
	)}
}

// detectIdleCash prices savings above $10k at a high-yield APY.
func detectIdleCash(in detectorInput) []model.ProactiveInsight {
	if in.stats.TotalSavings <= 10000 {
		return nil
	}

	annual := in.stats.TotalSavings * idleCashAPY
	return []model.ProactiveInsight{newInsight(in.now,
		model.InsightSavingsOpportunity, model.PriorityLow,
		"Your cash could be earning more",
		fmt.Sprintf("$%.0f in savings would earn about $%.0f/year at %.1f%% APY.", in.stats.TotalSavings, annual, idleCashAPY*100),
		"Move cash beyond your emergency fund into a high-yield account.",
		map[string]any{"savings": in.stats.TotalSavings, "annual_yield": annual},
	)}
}

// detectGoalDeadlines warns about goals with 30 or fewer days left,
// including those due today or already past due, that are under 90%
// complete.
func detectGoalDeadlines(in detectorInput) []model.ProactiveInsight {
	var out []model.ProactiveInsight
	for i := range in.goals {
		goal := &in.goals[i]
		if goal.Status != model.GoalActive {
			continue
		}
		days := goal.DaysRemaining(in.now)
		pct := goal.PercentComplete()
		if days > 30 || pct >= 90 {
			continue
		}
		gap := goal.TargetAmount - goal.CurrentAmount
		message := fmt.Sprintf("%d days left and you're at %.0f%%, with $%.0f still to save.", days, pct, gap)
		if days == 0 {
			message = fmt.Sprintf("The target date is here and you're at %.0f%%, with $%.0f still to save.", pct, gap)
		}
		out = append(out, newInsight(in.now,
			model.InsightGoalDeadline, model.PriorityHigh,
			fmt.Sprintf("\"%s\" deadline is close", goal.Title),
			message,
			"Either boost contributions or push the target date out.",
			map[string]any{"goal_id": goal.ID, "days_remaining": days, "gap": gap},
		))
	}
	return out
}

// detectHalfwayGoals nudges goals sitting near the halfway mark.
func detectHalfwayGoals(in detectorInput) []model.ProactiveInsight {
	var out []model.ProactiveInsight
	for i := range in.goals {
		goal := &in.goals[i]
		if goal.Status != model.GoalActive {
			continue
		}
		pct := goal.PercentComplete()
		if pct < 45 || pct > 55 {
			continue
		}
		out = append(out, newInsight(in.now,
			model.InsightAchievement, model.PriorityLow,
			fmt.Sprintf("\"%s\" is almost halfway", goal.Title),
			fmt.Sprintf("You're at %.0f%% — the halfway milestone is within reach.", pct),
			"A single extra contribution would push you over the top.",
			map[string]any{"goal_id": goal.ID, "percent": pct},
		))
	}
	return out
}

// detectBudgetOverrun flags 30-day spending past 1.2 times the budget
// estimate.
func detectBudgetOverrun(in detectorInput) []model.ProactiveInsight {
	if in.stats.MonthlyBudget <= 0 {
		return nil
	}

	actual := 0.0
	for _, t := range expensesSince(in.txns, in.now.AddDate(0, 0, -30)) {
		actual += t.Amount
	}
	if actual <= in.stats.MonthlyBudget*1.2 {
		return nil
	}

	return []model.ProactiveInsight{newInsight(in.now,
		model.InsightBudgetWarning, model.PriorityHigh,
		"You're well past budget",
		fmt.Sprintf("Spending hit $%.2f against a $%.0f budget this month.", actual, in.stats.MonthlyBudget),
		"Freeze discretionary spending for the rest of the month.",
		map[string]any{"actual": actual, "budget": in.stats.MonthlyBudget},
	)}
}

// detectSavingsStreak celebrates three consecutive 30-day windows with a
// savings rate of at least 15%.
func detectSavingsStreak(in detectorInput) []model.ProactiveInsight {
	for window := 0; window < 3; window++ {
		end := in.now.AddDate(0, 0, -30*window)
		start := in.now.AddDate(0, 0, -30*(window+1))

		var income, expenses float64
		for _, t := range in.txns {
			if t.Date.Before(start) || t.Date.After(end) {
				continue
			}
			if t.Type == model.TypeIncome {
				income += t.Amount
			} else {
				expenses += t.Amount
			}
		}
		if income <= 0 {
			return nil
		}
		if (income-expenses)/income*100 < 15 {
			return nil
		}
	}

	return []model.ProactiveInsight{newInsight(in.now,
		model.InsightAchievement, model.PriorityMedium,
		"Three-month savings streak",
		"You've kept your savings rate at 15% or better for three months straight.",
		"Consider sweeping the surplus into investments automatically.",
		map[string]any{"months": 3},
	)}
}
