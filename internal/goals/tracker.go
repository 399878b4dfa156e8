// Package goals tracks savings-goal progress and emits milestone events.
package goals

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/pennywise/internal/common"
	"github.com/Veraticus/pennywise/internal/model"
	"github.com/Veraticus/pennywise/internal/service"
)

// onTrackTolerance: progress at or above 90% of the time-proportional
// expectation still counts as on track.
const onTrackTolerance = 0.9

// aheadFactor: progress past 120% of expectation is ahead of schedule.
const aheadFactor = 1.2

// atRiskWindowDays: off-track goals with this little time left get an
// at-risk warning.
const atRiskWindowDays = 60

// Tracker computes goal progress and milestone events.
type Tracker struct {
	storage service.Storage
	logger  *slog.Logger
	now     func() time.Time
}

// NewTracker creates a goal tracker backed by the given storage.
func NewTracker(storage service.Storage, logger *slog.Logger) *Tracker {
	return &Tracker{storage: storage, logger: logger, now: time.Now}
}

// CheckProgress reports progress for every active goal and emits events
// for thresholds crossed since the last check. Each goal's
// LastCheckedPercent is persisted after the check, so re-invoking with
// unchanged amounts emits nothing: crossing detection is exact, not
// approximated. Completing a goal is the one side effect: its stored
// status flips to completed.
func (t *Tracker) CheckProgress(ctx context.Context, userID string) ([]model.GoalProgress, []model.MilestoneEvent, error) {
	goals, err := t.storage.ListGoals(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("listing goals: %w", err)
	}

	now := t.now()
	var progress []model.GoalProgress
	var events []model.MilestoneEvent

	for i := range goals {
		goal := &goals[i]
		if goal.Status != model.GoalActive {
			continue
		}

		p, evts := t.checkGoal(goal, now)
		progress = append(progress, p)
		events = append(events, evts...)

		if err := t.storage.UpdateGoal(ctx, goal); err != nil {
			return nil, nil, fmt.Errorf("updating goal %s: %w", goal.ID, err)
		}
	}

	return progress, events, nil
}

// checkGoal evaluates one goal, mutating its status and check mark.
func (t *Tracker) checkGoal(goal *model.Goal, now time.Time) (model.GoalProgress, []model.MilestoneEvent) {
	pct := goal.PercentComplete()
	expected := goal.ExpectedProgress(now)
	daysRemaining := goal.DaysRemaining(now)
	onTrack := pct >= expected*onTrackTolerance
	required := requiredMonthlyContribution(goal, daysRemaining)

	var events []model.MilestoneEvent

	// Fire one event per threshold crossed since the last check.
	for _, threshold := range model.MilestoneThresholds {
		if goal.LastCheckedPercent >= threshold || pct < threshold {
			continue
		}
		if threshold == 100 {
			goal.Status = model.GoalCompleted
			events = append(events, model.MilestoneEvent{
				Type:    model.EventGoalCompleted,
				GoalID:  goal.ID,
				Title:   goal.Title,
				Message: fmt.Sprintf("🎉 You did it! \"%s\" is fully funded at $%.0f.", goal.Title, goal.TargetAmount),
			})
			t.logger.Info("goal completed",
				"goal_id", goal.ID,
				"title", goal.Title)
			continue
		}
		events = append(events, model.MilestoneEvent{
			Type:    model.EventMilestoneReached,
			GoalID:  goal.ID,
			Title:   goal.Title,
			Message: fmt.Sprintf("You've passed %.0f%% of \"%s\". %s", threshold, goal.Title, milestoneCheer(threshold)),
		})
	}

	if goal.Status == model.GoalActive {
		switch {
		case !onTrack && daysRemaining > 0 && daysRemaining < atRiskWindowDays && pct < 90:
			events = append(events, model.MilestoneEvent{
				Type:           model.EventGoalAtRisk,
				GoalID:         goal.ID,
				Title:          goal.Title,
				Message:        fmt.Sprintf("\"%s\" is falling behind with %d days left.", goal.Title, daysRemaining),
				ActionRequired: fmt.Sprintf("Save $%.0f/month to finish on time.", required),
			})
		case pct > expected*aheadFactor && pct < 100:
			events = append(events, model.MilestoneEvent{
				Type:    model.EventAheadOfSchedule,
				GoalID:  goal.ID,
				Title:   goal.Title,
				Message: fmt.Sprintf("\"%s\" is ahead of schedule: %.0f%% done versus %.0f%% expected.", goal.Title, pct, expected),
			})
		}
	}

	goal.LastCheckedPercent = pct

	return model.GoalProgress{
		GoalID:                 goal.ID,
		Title:                  goal.Title,
		TargetAmount:           goal.TargetAmount,
		CurrentAmount:          goal.CurrentAmount,
		PercentComplete:        pct,
		Milestone:              milestoneLabel(pct),
		NextMilestone:          nextMilestoneLabel(pct),
		DaysRemaining:          daysRemaining,
		IsOnTrack:              onTrack,
		RequiredMonthlyContrib: required,
		Motivation:             motivation(pct, onTrack),
	}, events
}

// Milestones returns the four fixed thresholds with reached flags for a
// single goal, independent of event emission.
func (t *Tracker) Milestones(ctx context.Context, goalID string) ([]model.Milestone, error) {
	goal, err := t.storage.GetGoal(ctx, goalID)
	if err != nil {
		return nil, fmt.Errorf("loading goal: %w", err)
	}
	if goal == nil {
		return nil, fmt.Errorf("goal %s: %w", goalID, common.ErrNotFound)
	}

	pct := goal.PercentComplete()
	milestones := make([]model.Milestone, 0, len(model.MilestoneThresholds))
	for _, threshold := range model.MilestoneThresholds {
		milestones = append(milestones, model.Milestone{
			Label:   milestoneName(threshold),
			Percent: threshold,
			Reached: pct >= threshold,
		})
	}
	return milestones, nil
}

// requiredMonthlyContribution is the monthly saving needed to close the
// remaining gap in the remaining time.
func requiredMonthlyContribution(goal *model.Goal, daysRemaining int) float64 {
	gap := goal.TargetAmount - goal.CurrentAmount
	if gap <= 0 {
		return 0
	}
	months := float64(daysRemaining) / 30
	if months < 1 {
		months = 1
	}
	return gap / months
}

func milestoneName(threshold float64) string {
	if threshold >= 100 {
		return "complete"
	}
	return fmt.Sprintf("%.0f%%", threshold)
}

// milestoneLabel is the highest threshold crossed so far, empty below 25%.
func milestoneLabel(pct float64) string {
	label := ""
	for _, threshold := range model.MilestoneThresholds {
		if pct >= threshold {
			label = milestoneName(threshold)
		}
	}
	return label
}

// nextMilestoneLabel names the next threshold still ahead.
func nextMilestoneLabel(pct float64) string {
	for _, threshold := range model.MilestoneThresholds {
		if pct < threshold {
			return milestoneName(threshold)
		}
	}
	return ""
}

func milestoneCheer(threshold float64) string {
	switch threshold {
	case 25:
		return "A quarter of the way — the habit is forming."
	case 50:
		return "Halfway there. The second half goes faster."
	default:
		return "The home stretch is in sight."
	}
}

// motivation picks encouragement text for the progress report.
func motivation(pct float64, onTrack bool) string {
	switch {
	case pct >= 100:
		return "Done! Pick your next goal while the momentum is hot."
	case pct >= 75:
		return "So close. One more push."
	case pct >= 50 && onTrack:
		return "Past halfway and on pace. Keep the contributions steady."
	case pct >= 50:
		return "Past halfway, but the pace has slipped. A small bump now avoids a big one later."
	case onTrack:
		return "Off to a steady start. Consistency beats intensity."
	default:
		return "Progress is progress. Try automating a small weekly transfer."
	}
}
