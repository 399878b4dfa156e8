package health

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/pennywise/internal/model"
	"github.com/Veraticus/pennywise/internal/service"
	"github.com/Veraticus/pennywise/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateGettingStarted(t *testing.T) {
	store := testutil.NewMockStorage()
	scorer := NewScorer(store)

	// No transactions, no income signal, no goals: the weighted formula
	// is bypassed entirely.
	score, err := scorer.Calculate(context.Background(), "new-user")
	require.NoError(t, err)

	assert.Equal(t, 50, score.Overall)
	assert.Equal(t, "Getting Started", score.Grade)
	assert.Len(t, score.Breakdown, 5)
	assert.NotEmpty(t, score.TopPriority)
}

func TestCalculatePerfectSavingsRate(t *testing.T) {
	store := testutil.NewMockStorage()
	store.Stats["u1"] = &service.UserStats{MonthlyIncome: 5000, MonthlyExpenses: 0, TotalSavings: 40000}
	scorer := NewScorer(store)

	score, err := scorer.Calculate(context.Background(), "u1")
	require.NoError(t, err)

	savings := score.Breakdown[0]
	assert.Equal(t, "Savings Rate", savings.Name)
	assert.Equal(t, 100.0, savings.Value)
	assert.Equal(t, 100.0, savings.Score)
	assert.Equal(t, "Excellent", savings.Label)
}

func TestCalculateOverallIsWeightedSum(t *testing.T) {
	store := testutil.NewMockStorage()
	store.Stats["u1"] = &service.UserStats{
		MonthlyIncome:   6000,
		MonthlyExpenses: 4500,
		TotalSavings:    9000,
		MonthlyBudget:   4600,
	}
	scorer := NewScorer(store)

	score, err := scorer.Calculate(context.Background(), "u1")
	require.NoError(t, err)

	weights := []float64{0.30, 0.25, 0.20, 0.15, 0.10}
	expected := 0.0
	for i, factor := range score.Breakdown {
		expected += factor.Score * weights[i]
	}
	assert.Equal(t, int(expected+0.5), score.Overall)
	assert.GreaterOrEqual(t, score.Overall, 0)
	assert.LessOrEqual(t, score.Overall, 100)
}

func TestCalculateOverspendingUser(t *testing.T) {
	store := testutil.NewMockStorage()
	store.Stats["u1"] = &service.UserStats{MonthlyIncome: 5000, MonthlyExpenses: 6000}
	scorer := NewScorer(store)

	score, err := scorer.Calculate(context.Background(), "u1")
	require.NoError(t, err)

	savings := score.Breakdown[0]
	assert.Equal(t, 0.0, savings.Score)
	assert.Equal(t, "Critical", savings.Label)

	assert.Less(t, score.Overall, 40)
	assert.Equal(t, savings.Recommendation, score.TopPriority,
		"savings rate ties the zero emergency fund but wins on table order")
}

func TestTopPriorityIsLowestFactor(t *testing.T) {
	store := testutil.NewMockStorage()
	// Healthy except for an empty emergency fund.
	store.Stats["u1"] = &service.UserStats{MonthlyIncome: 8000, MonthlyExpenses: 5000, TotalSavings: 0}
	scorer := NewScorer(store)

	score, err := scorer.Calculate(context.Background(), "u1")
	require.NoError(t, err)

	lowest := score.Breakdown[0]
	for _, factor := range score.Breakdown[1:] {
		if factor.Score < lowest.Score {
			lowest = factor
		}
	}
	assert.Equal(t, "Emergency Fund", lowest.Name)
	assert.Equal(t, lowest.Recommendation, score.TopPriority)
}

func TestDebtRatioDetectsDebtCategories(t *testing.T) {
	store := testutil.NewMockStorage()
	store.Stats["u1"] = &service.UserStats{MonthlyIncome: 4000, MonthlyExpenses: 3000, TotalSavings: 5000}
	now := time.Now()
	store.Transactions["u1"] = []model.Transaction{
		{Date: now.AddDate(0, 0, -5), Amount: 900, Category: "Credit Card Payment", Type: model.TypeExpense},
		{Date: now.AddDate(0, 0, -10), Amount: 400, Category: "Loan Payment", Type: model.TypeExpense},
		{Date: now.AddDate(0, 0, -3), Amount: 200, Category: "Groceries", Type: model.TypeExpense},
	}
	scorer := NewScorer(store)

	score, err := scorer.Calculate(context.Background(), "u1")
	require.NoError(t, err)

	debt := score.Breakdown[2]
	assert.Equal(t, "Debt Ratio", debt.Name)
	// 1300 of 4000 income = 32.5%, the "Heavy" tier.
	assert.InDelta(t, 32.5, debt.Value, 0.01)
	assert.Equal(t, 30.0, debt.Score)
}

func TestGrowthComparesThirtyDayWindows(t *testing.T) {
	store := testutil.NewMockStorage()
	store.Stats["u1"] = &service.UserStats{MonthlyIncome: 4000, MonthlyExpenses: 3000, TotalSavings: 5000}
	now := time.Now()
	store.Transactions["u1"] = []model.Transaction{
		// Prior window: +4000 income, -3500 expenses = +500 net.
		{Date: now.AddDate(0, 0, -45), Amount: 4000, Category: "Salary", Type: model.TypeIncome},
		{Date: now.AddDate(0, 0, -40), Amount: 3500, Category: "Housing", Type: model.TypeExpense},
		// Current window: +4000 income, -3000 expenses = +1000 net.
		{Date: now.AddDate(0, 0, -15), Amount: 4000, Category: "Salary", Type: model.TypeIncome},
		{Date: now.AddDate(0, 0, -10), Amount: 3000, Category: "Housing", Type: model.TypeExpense},
	}
	scorer := NewScorer(store)

	score, err := scorer.Calculate(context.Background(), "u1")
	require.NoError(t, err)

	growth := score.Breakdown[3]
	// (1000 - 500) / 4000 = +12.5% of prior income.
	assert.InDelta(t, 12.5, growth.Value, 0.01)
	assert.Equal(t, 100.0, growth.Score)
}

func TestBudgetAdherence(t *testing.T) {
	tests := []struct {
		name          string
		budget        float64
		expenses      float64
		expectedScore float64
		expectedLabel string
	}{
		{name: "no budget is neutral", budget: 0, expenses: 3000, expectedScore: 70, expectedLabel: "No Budget"},
		{name: "on target", budget: 3000, expenses: 3100, expectedScore: 100, expectedLabel: "On Target"},
		{name: "drifting", budget: 3000, expenses: 4200, expectedScore: 50, expectedLabel: "Drifting"},
		{name: "far off plan", budget: 3000, expenses: 6000, expectedScore: 25, expectedLabel: "Off Plan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factor := scoreBudget(&service.UserStats{MonthlyBudget: tt.budget, MonthlyExpenses: tt.expenses})
			assert.Equal(t, tt.expectedScore, factor.Score)
			assert.Equal(t, tt.expectedLabel, factor.Label)
		})
	}
}
