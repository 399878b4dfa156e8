// Package health computes the composite financial health score.
package health

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Veraticus/pennywise/internal/model"
	"github.com/Veraticus/pennywise/internal/service"
)

// Factor weights. They sum to 1.0; savings behavior dominates.
const (
	weightSavingsRate   = 0.30
	weightEmergencyFund = 0.25
	weightDebtRatio     = 0.20
	weightGrowth        = 0.15
	weightBudget        = 0.10
)

// Scorer computes health scores from stored user data.
type Scorer struct {
	storage service.Storage
	now     func() time.Time
}

// NewScorer creates a health scorer backed by the given storage.
func NewScorer(storage service.Storage) *Scorer {
	return &Scorer{storage: storage, now: time.Now}
}

// Calculate computes the user's composite financial health score. It is a
// pure function of current data: nothing is persisted and missing numeric
// fields are treated as zero, never as errors.
func (s *Scorer) Calculate(ctx context.Context, userID string) (*model.HealthScore, error) {
	stats, err := s.storage.GetUserStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading user stats: %w", err)
	}
	if stats == nil {
		stats = &service.UserStats{}
	}

	txns, err := s.storage.ListTransactions(ctx, userID, 60)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}

	goals, err := s.storage.ListGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading goals: %w", err)
	}

	// A user with no transactions, no income signal, and no goals gets the
	// fixed onboarding result instead of nonsensical all-zero formula
	// output.
	if len(txns) == 0 && stats.MonthlyIncome == 0 && len(goals) == 0 {
		return gettingStarted(), nil
	}

	breakdown := []model.FactorScore{
		scoreSavingsRate(stats),
		scoreEmergencyFund(stats),
		scoreDebtRatio(stats, txns, s.now()),
		scoreGrowth(txns, s.now()),
		scoreBudget(stats),
	}

	overall := 0.0
	weights := []float64{weightSavingsRate, weightEmergencyFund, weightDebtRatio, weightGrowth, weightBudget}
	for i, factor := range breakdown {
		overall += factor.Score * weights[i]
	}
	rounded := int(math.Round(overall))
	if rounded < 0 {
		rounded = 0
	}
	if rounded > 100 {
		rounded = 100
	}

	// Lowest factor wins; table order breaks ties.
	top := breakdown[0]
	for _, factor := range breakdown[1:] {
		if factor.Score < top.Score {
			top = factor
		}
	}

	grade, summary := gradeAndSummary(rounded)

	return &model.HealthScore{
		Overall:     rounded,
		Breakdown:   breakdown,
		Grade:       grade,
		Summary:     summary,
		TopPriority: top.Recommendation,
	}, nil
}

// gettingStarted is the fixed result for brand-new users.
func gettingStarted() *model.HealthScore {
	breakdown := []model.FactorScore{
		{Name: "Savings Rate", Score: 50, Label: "Getting Started", Recommendation: "Link your income and expenses so we can track how much you keep each month."},
		{Name: "Emergency Fund", Score: 50, Label: "Getting Started", Recommendation: "Open a savings account and set aside your first $500 for emergencies."},
		{Name: "Debt Ratio", Score: 50, Label: "Getting Started", Recommendation: "Add any credit cards or loans so we can track what you owe."},
		{Name: "Net Worth Growth", Score: 50, Label: "Getting Started", Recommendation: "Record a few weeks of transactions to see which way your net worth is moving."},
		{Name: "Budget Adherence", Score: 50, Label: "Getting Started", Recommendation: "Set a monthly budget to measure your spending against."},
	}
	return &model.HealthScore{
		Overall:     50,
		Breakdown:   breakdown,
		Grade:       "Getting Started",
		Summary:     "Welcome! Add your income, expenses, and a goal or two and your score will start to reflect your real situation.",
		TopPriority: breakdown[0].Recommendation,
	}
}

// scoreSavingsRate bands (income - expenses) / income into six tiers.
func scoreSavingsRate(stats *service.UserStats) model.FactorScore {
	factor := model.FactorScore{Name: "Savings Rate"}

	rate := 0.0
	if stats.MonthlyIncome > 0 {
		rate = (stats.MonthlyIncome - stats.MonthlyExpenses) / stats.MonthlyIncome * 100
	}
	factor.Value = rate

	twentyPercent := stats.MonthlyIncome * 0.20
	gap := twentyPercent - (stats.MonthlyIncome - stats.MonthlyExpenses)

	switch {
	case rate >= 20:
		factor.Score = 100
		factor.Label = "Excellent"
		factor.Recommendation = fmt.Sprintf("You're saving %.0f%% of your income. Keep it up and consider investing the surplus.", rate)
	case rate >= 15:
		factor.Score = 85
		factor.Label = "Great"
		factor.Recommendation = fmt.Sprintf("You're close to the 20%% benchmark. Saving another $%.0f/month would get you there.", gap)
	case rate >= 10:
		factor.Score = 70
		factor.Label = "Good"
		factor.Recommendation = fmt.Sprintf("A solid start. Aim for $%.0f/month in savings to reach 20%% of income.", twentyPercent)
	case rate >= 5:
		factor.Score = 50
		factor.Label = "Fair"
		factor.Recommendation = fmt.Sprintf("Try trimming one recurring expense to push savings toward $%.0f/month.", twentyPercent)
	case rate >= 0:
		factor.Score = 25
		factor.Label = "Low"
		factor.Recommendation = fmt.Sprintf("You're breaking even. Start with a small automatic transfer, even $%.0f/month helps.", math.Max(stats.MonthlyIncome*0.05, 25))
	default:
		factor.Score = 0
		factor.Label = "Critical"
		factor.Recommendation = fmt.Sprintf("You're spending $%.0f more than you earn each month. Cut expenses or the gap will compound.", stats.MonthlyExpenses-stats.MonthlyIncome)
	}
	return factor
}

// scoreEmergencyFund bands savings in months of expenses into five tiers,
// stating the dollar gap to the next tier.
func scoreEmergencyFund(stats *service.UserStats) model.FactorScore {
	factor := model.FactorScore{Name: "Emergency Fund"}

	months := 0.0
	if stats.MonthlyExpenses > 0 {
		months = stats.TotalSavings / stats.MonthlyExpenses
	}
	factor.Value = months

	gapTo := func(target float64) float64 {
		return target*stats.MonthlyExpenses - stats.TotalSavings
	}

	switch {
	case months >= 6:
		factor.Score = 100
		factor.Label = "Fully Funded"
		factor.Recommendation = "You have six months of expenses saved. Extra cash beyond this can work harder invested."
	case months >= 3:
		factor.Score = 80
		factor.Label = "Solid"
		factor.Recommendation = fmt.Sprintf("You're covered for %.1f months. Another $%.0f reaches the six-month mark.", months, gapTo(6))
	case months >= 1:
		factor.Score = 60
		factor.Label = "Building"
		factor.Recommendation = fmt.Sprintf("You have %.1f months of cushion. $%.0f more gets you to three months.", months, gapTo(3))
	case months > 0:
		factor.Score = 30
		factor.Label = "Thin"
		factor.Recommendation = fmt.Sprintf("Your cushion covers less than a month. $%.0f more reaches one month of expenses.", gapTo(1))
	default:
		factor.Score = 0
		factor.Label = "None"
		factor.Recommendation = "You have no emergency cushion. Start with a $500 starter fund before anything else."
	}
	return factor
}

// scoreDebtRatio bands debt-service spending as a share of income into
// five tiers. Debt is detected by category-name substring over the last 30
// days of transactions.
func scoreDebtRatio(stats *service.UserStats, txns []model.Transaction, now time.Time) model.FactorScore {
	factor := model.FactorScore{Name: "Debt Ratio"}

	cutoff := now.AddDate(0, 0, -30)
	debtSpend := 0.0
	for _, t := range txns {
		if t.Type == model.TypeExpense && !t.Date.Before(cutoff) && t.IsDebtPayment() {
			debtSpend += t.Amount
		}
	}

	ratio := 0.0
	if stats.MonthlyIncome > 0 {
		ratio = debtSpend / stats.MonthlyIncome * 100
	}
	factor.Value = ratio

	switch {
	case ratio == 0:
		factor.Score = 100
		factor.Label = "Debt Free"
		factor.Recommendation = "No debt payments detected. Keep it that way."
	case ratio < 10:
		factor.Score = 80
		factor.Label = "Light"
		factor.Recommendation = fmt.Sprintf("Debt takes %.0f%% of your income, well within the safe range. Paying extra principal now is cheap.", ratio)
	case ratio < 20:
		factor.Score = 60
		factor.Label = "Moderate"
		factor.Recommendation = fmt.Sprintf("Debt service is %.0f%% of income. Target the highest-rate balance first.", ratio)
	case ratio < 36:
		factor.Score = 30
		factor.Label = "Heavy"
		factor.Recommendation = fmt.Sprintf("%.0f%% of your income goes to debt. Consider consolidating or an avalanche payoff plan.", ratio)
	default:
		factor.Score = 0
		factor.Label = "Critical"
		factor.Recommendation = fmt.Sprintf("Debt service consumes %.0f%% of income. Talk to your lenders about restructuring before it grows.", ratio)
	}
	return factor
}

// scoreGrowth bands the month-over-month change in net cash flow, as a
// percentage of prior-month income, into five tiers.
func scoreGrowth(txns []model.Transaction, now time.Time) model.FactorScore {
	factor := model.FactorScore{Name: "Net Worth Growth"}

	currentStart := now.AddDate(0, 0, -30)
	priorStart := now.AddDate(0, 0, -60)

	var currentNet, priorNet, priorIncome float64
	for _, t := range txns {
		switch {
		case !t.Date.Before(currentStart):
			if t.Type == model.TypeIncome {
				currentNet += t.Amount
			} else {
				currentNet -= t.Amount
			}
		case !t.Date.Before(priorStart):
			if t.Type == model.TypeIncome {
				priorNet += t.Amount
				priorIncome += t.Amount
			} else {
				priorNet -= t.Amount
			}
		}
	}

	growth := 0.0
	if priorIncome > 0 {
		growth = (currentNet - priorNet) / priorIncome * 100
	}
	factor.Value = growth

	switch {
	case growth >= 10:
		factor.Score = 100
		factor.Label = "Accelerating"
		factor.Recommendation = "Your net cash flow grew sharply over last month. Bank the difference before lifestyle catches up."
	case growth >= 3:
		factor.Score = 80
		factor.Label = "Growing"
		factor.Recommendation = "Net cash flow is trending up month over month. Keep the momentum."
	case growth >= 0:
		factor.Score = 60
		factor.Label = "Stable"
		factor.Recommendation = "Cash flow held steady versus last month. Look for one expense to trim to tip it upward."
	case growth >= -5:
		factor.Score = 35
		factor.Label = "Slipping"
		factor.Recommendation = "Cash flow dipped versus last month. Check whether a one-off expense or a new habit drove it."
	default:
		factor.Score = 10
		factor.Label = "Declining"
		factor.Recommendation = "Net cash flow dropped sharply month over month. Review your last 30 days of spending line by line."
	}
	return factor
}

// scoreBudget bands |actual - estimated| / estimated into four tiers when a
// budget estimate exists; otherwise a neutral default applies.
func scoreBudget(stats *service.UserStats) model.FactorScore {
	factor := model.FactorScore{Name: "Budget Adherence"}

	if stats.MonthlyBudget <= 0 {
		factor.Score = 70
		factor.Label = "No Budget"
		factor.Recommendation = "Set a monthly spending budget so adherence can be measured."
		return factor
	}

	adherence := 100 - math.Abs(stats.MonthlyExpenses-stats.MonthlyBudget)/stats.MonthlyBudget*100
	if adherence < 0 {
		adherence = 0
	}
	factor.Value = adherence

	overspend := stats.MonthlyExpenses - stats.MonthlyBudget

	switch {
	case adherence >= 90:
		factor.Score = 100
		factor.Label = "On Target"
		factor.Recommendation = "Spending tracks your budget within 10%. Well calibrated."
	case adherence >= 75:
		factor.Score = 75
		factor.Label = "Close"
		factor.Recommendation = fmt.Sprintf("You're within 25%% of budget. You missed by $%.0f this month.", math.Abs(overspend))
	case adherence >= 50:
		factor.Score = 50
		factor.Label = "Drifting"
		factor.Recommendation = fmt.Sprintf("Spending strayed $%.0f from plan. Revisit the budget or the habits, one of them is wrong.", math.Abs(overspend))
	default:
		factor.Score = 25
		factor.Label = "Off Plan"
		factor.Recommendation = fmt.Sprintf("Actual spending is far from your $%.0f budget. Rebuild the budget from your real numbers.", stats.MonthlyBudget)
	}
	return factor
}

// gradeAndSummary derives the letterless grade band and a summary sentence
// from the overall score.
func gradeAndSummary(overall int) (string, string) {
	switch {
	case overall >= 85:
		return "Excellent", "Your finances are in excellent shape. Focus on optimizing investments and long-term goals."
	case overall >= 70:
		return "Good", "You're on solid footing with a few areas worth tightening up."
	case overall >= 55:
		return "Fair", "Your foundation is forming, but a couple of weak spots need attention."
	case overall >= 40:
		return "Needs Attention", "Several factors are dragging your score down. Start with the top priority below."
	default:
		return "Critical", "Your finances need urgent attention. Tackle the top priority first and the score will follow."
	}
}
