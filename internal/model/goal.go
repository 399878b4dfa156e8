package model

import "time"

// GoalStatus is the lifecycle state of a savings goal.
type GoalStatus string

const (
	// GoalActive is a goal still being funded.
	GoalActive GoalStatus = "active"
	// GoalCompleted is a goal whose target has been reached.
	GoalCompleted GoalStatus = "completed"
	// GoalPaused is a goal the user has set aside.
	GoalPaused GoalStatus = "paused"
)

// MilestoneThresholds are the fixed percent-complete levels at which
// milestone events fire.
var MilestoneThresholds = []float64{25, 50, 75, 100}

// Goal is a savings goal owned by a user.
//
// LastCheckedPercent is the percent-complete observed on the previous
// progress check; milestone events fire only for thresholds crossed since
// that mark, which keeps event emission exact and idempotent.
//
// WeeklyMarkPercent and WeeklyMarkAt snapshot progress for weekly
// summaries: the delta a summary reports is measured from this mark, which
// advances at most once every seven days. It is independent of the
// milestone mark so running a progress check never erases a week's delta.
type Goal struct {
	CreatedAt          time.Time
	TargetDate         time.Time
	WeeklyMarkAt       time.Time
	ID                 string
	UserID             string
	Title              string
	Status             GoalStatus
	TargetAmount       float64
	CurrentAmount      float64
	LastCheckedPercent float64
	WeeklyMarkPercent  float64
}

// PercentComplete returns progress toward the target, capped at 100.
func (g *Goal) PercentComplete() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	pct := g.CurrentAmount / g.TargetAmount * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// ExpectedProgress returns the time-proportional progress percentage for
// the given moment, based on the creation-to-target window.
func (g *Goal) ExpectedProgress(now time.Time) float64 {
	total := g.TargetDate.Sub(g.CreatedAt)
	if total <= 0 {
		return 100
	}
	elapsed := now.Sub(g.CreatedAt)
	if elapsed <= 0 {
		return 0
	}
	pct := float64(elapsed) / float64(total) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// DaysRemaining returns whole days until the target date, never negative.
func (g *Goal) DaysRemaining(now time.Time) int {
	days := int(g.TargetDate.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// GoalProgress is the per-goal progress report produced on demand.
type GoalProgress struct {
	GoalID                 string
	Title                  string
	Milestone              string // "", "25%", "50%", "75%", or "complete"
	NextMilestone          string
	Motivation             string
	TargetAmount           float64
	CurrentAmount          float64
	PercentComplete        float64
	RequiredMonthlyContrib float64
	DaysRemaining          int
	IsOnTrack              bool
}

// MilestoneEventType classifies a goal event.
type MilestoneEventType string

const (
	// EventMilestoneReached fires when a 25/50/75 threshold is crossed.
	EventMilestoneReached MilestoneEventType = "milestone_reached"
	// EventGoalCompleted fires once when a goal reaches its target.
	EventGoalCompleted MilestoneEventType = "goal_completed"
	// EventGoalAtRisk fires for off-track goals near their deadline.
	EventGoalAtRisk MilestoneEventType = "goal_at_risk"
	// EventAheadOfSchedule fires when progress is well past expectations.
	EventAheadOfSchedule MilestoneEventType = "ahead_of_schedule"
)

// MilestoneEvent is emitted (not stored) by a progress check.
// EventGoalCompleted is the only event with a side effect: the goal's
// persisted status flips to completed.
type MilestoneEvent struct {
	Type           MilestoneEventType
	GoalID         string
	Title          string
	Message        string
	ActionRequired string
}

// Milestone is one fixed threshold with its reached flag, for a single
// goal's milestone listing.
type Milestone struct {
	Label   string
	Percent float64
	Reached bool
}
