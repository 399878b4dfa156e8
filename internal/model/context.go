package model

import "time"

// PlannedEvent is an upcoming expense the user has told us about.
type PlannedEvent struct {
	Date           time.Time
	Title          string
	EstimatedValue float64
}

// UserFinancialContext is the read-only snapshot of a user's finances
// supplied by the caller on every request. The engine never owns or
// mutates it.
type UserFinancialContext struct {
	RecentTransactions []Transaction
	UpcomingEvents     []PlannedEvent
	Language           string
	TotalSavings       float64
	MonthlyIncome      float64
	MonthlyExpenses    float64
	MonthlyBudget      float64 // planned expense estimate; zero means no budget set
	ActiveGoals        int
}

// NetMonthly returns income minus expenses for the snapshot month.
func (c *UserFinancialContext) NetMonthly() float64 {
	return c.MonthlyIncome - c.MonthlyExpenses
}

// SavingsRate returns the savings rate as a percentage of income.
// A zero income yields a zero rate rather than a division error.
func (c *UserFinancialContext) SavingsRate() float64 {
	if c.MonthlyIncome <= 0 {
		return 0
	}
	return (c.MonthlyIncome - c.MonthlyExpenses) / c.MonthlyIncome * 100
}

// EmergencyFundTarget returns the savings level treated as a fully funded
// emergency fund: six months of expenses.
func (c *UserFinancialContext) EmergencyFundTarget() float64 {
	return c.MonthlyExpenses * 6
}
