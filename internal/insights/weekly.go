package insights

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Veraticus/pennywise/internal/model"
)

// trendMargin is the cash-flow change, as a share of prior-week income,
// separating "stable" from "improving" or "declining".
const trendMargin = 0.05

// WeeklySummary compares the current seven-day window against the prior
// one: income, expenses, cash flow, top spending categories, and per-goal
// progress deltas. Goal deltas are measured from each goal's weekly mark,
// which this call advances once it is at least seven days old.
func (g *Generator) WeeklySummary(ctx context.Context, userID string) (*model.WeeklySummary, error) {
	txns, err := g.storage.ListTransactions(ctx, userID, 14)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}
	goals, err := g.storage.ListGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading goals: %w", err)
	}

	now := g.now()
	weekStart := now.AddDate(0, 0, -7)
	priorStart := now.AddDate(0, 0, -14)

	var current, prior windowTotals
	categories := make(map[string]float64)
	for _, t := range txns {
		switch {
		case !t.Date.Before(weekStart):
			current.add(t)
			if t.Type == model.TypeExpense {
				categories[t.Category] += t.Amount
			}
		case !t.Date.Before(priorStart):
			prior.add(t)
		}
	}

	summary := &model.WeeklySummary{
		WeekStart:     weekStart,
		WeekEnd:       now,
		Income:        current.income,
		Expenses:      current.expenses,
		CashFlow:      current.cashFlow(),
		IncomeDelta:   current.income - prior.income,
		ExpensesDelta: current.expenses - prior.expenses,
		CashFlowDelta: current.cashFlow() - prior.cashFlow(),
		Trend:         trend(current, prior),
		TopCategories: topCategories(categories, 3),
	}

	for i := range goals {
		goal := &goals[i]
		if goal.Status != model.GoalActive {
			continue
		}
		pct := goal.PercentComplete()
		// The first summary has no baseline, so the delta starts at zero.
		baseline := pct
		if !goal.WeeklyMarkAt.IsZero() {
			baseline = goal.WeeklyMarkPercent
		}
		summary.GoalDeltas = append(summary.GoalDeltas, model.GoalDelta{
			GoalID:          goal.ID,
			Title:           goal.Title,
			PercentComplete: pct,
			DeltaPercent:    pct - baseline,
		})

		if goal.WeeklyMarkAt.IsZero() || now.Sub(goal.WeeklyMarkAt) >= 7*24*time.Hour {
			goal.WeeklyMarkPercent = pct
			goal.WeeklyMarkAt = now
			if err := g.storage.UpdateGoal(ctx, goal); err != nil {
				return nil, fmt.Errorf("advancing weekly mark for goal %s: %w", goal.ID, err)
			}
		}
	}

	summary.Highlights = highlights(summary)
	summary.ActionItems = actionItems(summary)
	return summary, nil
}

type windowTotals struct {
	income   float64
	expenses float64
}

func (w *windowTotals) add(t model.Transaction) {
	if t.Type == model.TypeIncome {
		w.income += t.Amount
	} else {
		w.expenses += t.Amount
	}
}

func (w windowTotals) cashFlow() float64 {
	return w.income - w.expenses
}

// trend labels the week-over-week cash-flow change. With no prior income
// to normalize against, the sign of the current cash flow decides.
func trend(current, prior windowTotals) string {
	delta := current.cashFlow() - prior.cashFlow()
	if prior.income <= 0 {
		switch {
		case current.cashFlow() > 0:
			return "improving"
		case current.cashFlow() < 0:
			return "declining"
		default:
			return "stable"
		}
	}
	switch {
	case delta > prior.income*trendMargin:
		return "improving"
	case delta < -prior.income*trendMargin:
		return "declining"
	default:
		return "stable"
	}
}

func topCategories(totals map[string]float64, limit int) []model.CategorySpend {
	ranked := make([]model.CategorySpend, 0, len(totals))
	for cat, amount := range totals {
		ranked = append(ranked, model.CategorySpend{Category: cat, Amount: amount})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Amount != ranked[j].Amount {
			return ranked[i].Amount > ranked[j].Amount
		}
		return ranked[i].Category < ranked[j].Category
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func highlights(s *model.WeeklySummary) []string {
	var out []string
	if s.CashFlow > 0 {
		out = append(out, fmt.Sprintf("You kept $%.0f more than you spent this week.", s.CashFlow))
	}
	if s.ExpensesDelta < 0 {
		out = append(out, fmt.Sprintf("Spending dropped $%.0f from last week.", -s.ExpensesDelta))
	}
	if s.IncomeDelta > 0 {
		out = append(out, fmt.Sprintf("Income was up $%.0f over last week.", s.IncomeDelta))
	}
	for _, delta := range s.GoalDeltas {
		if delta.DeltaPercent > 0 {
			out = append(out, fmt.Sprintf("\"%s\" moved forward %.1f%% this week.", delta.Title, delta.DeltaPercent))
		}
	}
	if len(out) == 0 {
		out = append(out, "A quiet week. Showing up is half the work.")
	}
	return out
}

func actionItems(s *model.WeeklySummary) []string {
	var out []string
	if s.CashFlow < 0 {
		out = append(out, fmt.Sprintf("You spent $%.0f more than you earned; plan next week's spending before it starts.", -s.CashFlow))
	}
	if s.ExpensesDelta > 0 && s.Expenses > 0 {
		out = append(out, fmt.Sprintf("Spending rose $%.0f week over week; check the top categories below.", s.ExpensesDelta))
	}
	if len(s.TopCategories) > 0 && s.Expenses > 0 {
		top := s.TopCategories[0]
		if top.Amount/s.Expenses > 0.5 {
			out = append(out, fmt.Sprintf("%s was over half your spending; set a cap for next week.", top.Category))
		}
	}
	return out
}
