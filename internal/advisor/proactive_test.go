package advisor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/pennywise/internal/llm"
	"github.com/Veraticus/pennywise/internal/model"
)

func TestProactiveInsightDecisionList(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name     string
		fc       *model.UserFinancialContext
		contains string
	}{
		{
			name:     "overspending is the urgent case",
			fc:       &model.UserFinancialContext{MonthlyIncome: 4000, MonthlyExpenses: 4600, TotalSavings: 2000},
			contains: "more than you earn",
		},
		{
			name:     "zero savings gets the starter nudge",
			fc:       &model.UserFinancialContext{MonthlyIncome: 4000, MonthlyExpenses: 3000, TotalSavings: 0},
			contains: "start with $25",
		},
		{
			name:     "thin emergency fund gets a funding plan",
			fc:       &model.UserFinancialContext{MonthlyIncome: 4000, MonthlyExpenses: 3000, TotalSavings: 5000},
			contains: "emergency fund",
		},
		{
			name: "spending spike outranks later rules",
			fc: &model.UserFinancialContext{
				MonthlyIncome: 4000, MonthlyExpenses: 3000, TotalSavings: 15000,
				RecentTransactions: []model.Transaction{
					{Date: now, Amount: 20, Type: model.TypeExpense, Category: "Groceries"},
					{Date: now, Amount: 30, Type: model.TypeExpense, Category: "Groceries"},
					{Date: now, Amount: 25, Type: model.TypeExpense, Category: "Transportation"},
					{Date: now, Amount: 25, Type: model.TypeExpense, Category: "Dining"},
					{Date: now, Amount: 900, Type: model.TypeExpense, Category: "Shopping"},
				},
			},
			contains: "above your usual spending",
		},
		{
			name: "dominant category gets a cap suggestion",
			fc: &model.UserFinancialContext{
				MonthlyIncome: 4000, MonthlyExpenses: 3000, TotalSavings: 15000,
				RecentTransactions: []model.Transaction{
					{Date: now, Amount: 700, Type: model.TypeExpense, Category: "Dining"},
					{Date: now, Amount: 600, Type: model.TypeExpense, Category: "Dining"},
				},
			},
			contains: "Dining",
		},
		{
			name:     "full emergency fund and strong rate means invest",
			fc:       &model.UserFinancialContext{MonthlyIncome: 6000, MonthlyExpenses: 3000, TotalSavings: 20000},
			contains: "investments",
		},
		{
			name:     "decent rate gets the optimization tip",
			fc:       &model.UserFinancialContext{MonthlyIncome: 4000, MonthlyExpenses: 3000, TotalSavings: 10000, ActiveGoals: 1},
			contains: "solid",
		},
		{
			name:     "saving with no goals gets the goal nudge",
			fc:       &model.UserFinancialContext{MonthlyIncome: 4000, MonthlyExpenses: 3600, TotalSavings: 15000, ActiveGoals: 0},
			contains: "Naming a goal",
		},
		{
			name:     "too many goals gets the focus nudge",
			fc:       &model.UserFinancialContext{MonthlyIncome: 4000, MonthlyExpenses: 3600, TotalSavings: 15000, ActiveGoals: 4},
			contains: "4 goals",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adv, _ := newTestAdvisor(nil)
			got := adv.ProactiveInsight(context.Background(), tt.fc)
			assert.Contains(t, got, tt.contains)
		})
	}
}

func TestDominantCategoryPicksLargest(t *testing.T) {
	now := time.Now()
	fc := &model.UserFinancialContext{
		MonthlyIncome: 4000,
		RecentTransactions: []model.Transaction{
			{Date: now, Amount: 1300, Type: model.TypeExpense, Category: "Dining"},
			{Date: now, Amount: 1400, Type: model.TypeExpense, Category: "Shopping"},
			{Date: now, Amount: 200, Type: model.TypeExpense, Category: "Groceries"},
		},
	}

	// Both Dining and Shopping clear 30% of income; the larger one wins
	// regardless of map iteration order.
	assert.Equal(t, "Shopping", dominantCategory(fc))
}

// A snapshot no deterministic rule matches: 10% savings rate, emergency
// fund past half target, one goal, no transactions.
func quietSnapshot() *model.UserFinancialContext {
	return &model.UserFinancialContext{
		MonthlyIncome:   4000,
		MonthlyExpenses: 3600,
		TotalSavings:    15000,
		ActiveGoals:     1,
	}
}

func TestProactiveInsightFallsBackToModel(t *testing.T) {
	client := &llm.MockClient{Response: textResponse("Round up every purchase into savings.")}
	adv, _ := newTestAdvisor(client)
	ctx := context.Background()

	got := adv.ProactiveInsight(ctx, quietSnapshot())
	assert.Equal(t, "Round up every purchase into savings.", got)

	// The tip is served from cache on the next render.
	got = adv.ProactiveInsight(ctx, quietSnapshot())
	assert.Equal(t, "Round up every purchase into savings.", got)
	assert.Equal(t, 1, client.CallCount())
}

func TestProactiveInsightDegradesWithoutClient(t *testing.T) {
	adv, _ := newTestAdvisor(nil)

	got := adv.ProactiveInsight(context.Background(), quietSnapshot())
	assert.Equal(t, insightUnavailable, got)
}

func TestProactiveInsightDegradesOnModelFailure(t *testing.T) {
	client := &llm.MockClient{Err: context.DeadlineExceeded}
	adv, _ := newTestAdvisor(client)

	got := adv.ProactiveInsight(context.Background(), quietSnapshot())
	assert.Equal(t, insightUnavailable, got)
}
