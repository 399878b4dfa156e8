package model

import "time"

// InsightType classifies a proactively surfaced observation.
type InsightType string

const (
	// InsightSpendingAnomaly flags unusual transactions or category spikes.
	InsightSpendingAnomaly InsightType = "spending_anomaly"
	// InsightSavingsOpportunity points at money left on the table.
	InsightSavingsOpportunity InsightType = "savings_opportunity"
	// InsightGoalDeadline warns about goals running out of time.
	InsightGoalDeadline InsightType = "goal_deadline"
	// InsightBudgetWarning flags spending past the planned budget.
	InsightBudgetWarning InsightType = "budget_warning"
	// InsightAchievement celebrates sustained good behavior.
	InsightAchievement InsightType = "achievement"
)

// InsightPriority orders insights for display.
type InsightPriority string

const (
	// PriorityHigh insights should be shown first.
	PriorityHigh InsightPriority = "high"
	// PriorityMedium insights are informative but not urgent.
	PriorityMedium InsightPriority = "medium"
	// PriorityLow insights are nice to know.
	PriorityLow InsightPriority = "low"
)

// rank maps priorities to sort order, high first.
func (p InsightPriority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Before reports whether p sorts ahead of other.
func (p InsightPriority) Before(other InsightPriority) bool {
	return p.rank() < other.rank()
}

// ProactiveInsight is a single typed, prioritized observation about the
// user's finances. Insights are generated fresh per call and are not
// deduplicated against previously shown ones; suppressing dismissed
// insights is the caller's job.
type ProactiveInsight struct {
	CreatedAt  time.Time
	Data       map[string]any
	ID         string
	Title      string
	Message    string
	Actionable string
	Type       InsightType
	Priority   InsightPriority
}

// GoalDelta is a per-goal progress change over a summary window.
type GoalDelta struct {
	GoalID          string
	Title           string
	PercentComplete float64
	DeltaPercent    float64
}

// CategorySpend is a category total used in summary rankings.
type CategorySpend struct {
	Category string
	Amount   float64
}

// WeeklySummary aggregates the current seven-day window against the prior
// one.
type WeeklySummary struct {
	WeekStart     time.Time
	WeekEnd       time.Time
	Trend         string // "improving", "stable", or "declining"
	TopCategories []CategorySpend
	GoalDeltas    []GoalDelta
	Highlights    []string
	ActionItems   []string
	Income        float64
	Expenses      float64
	CashFlow      float64
	IncomeDelta   float64
	ExpensesDelta float64
	CashFlowDelta float64
}
