package goals

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/Veraticus/pennywise/internal/model"
	"github.com/Veraticus/pennywise/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(store *testutil.MockStorage) *Tracker {
	return NewTracker(store, slog.Default())
}

func activeGoal(id string, current, target float64, createdDaysAgo, targetDaysAhead int) *model.Goal {
	now := time.Now()
	return &model.Goal{
		ID:            id,
		UserID:        "u1",
		Title:         "Test goal " + id,
		Status:        model.GoalActive,
		CurrentAmount: current,
		TargetAmount:  target,
		CreatedAt:     now.AddDate(0, 0, -createdDaysAgo),
		TargetDate:    now.AddDate(0, 0, targetDaysAhead),
	}
}

func eventTypes(events []model.MilestoneEvent) []model.MilestoneEventType {
	types := make([]model.MilestoneEventType, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type)
	}
	return types
}

func TestCheckProgressCompletion(t *testing.T) {
	store := testutil.NewMockStorage()
	goal := activeGoal("g1", 5200, 5000, 30, 60)
	goal.LastCheckedPercent = 80
	store.Goals["g1"] = goal
	tracker := newTestTracker(store)

	progress, events, err := tracker.CheckProgress(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, progress, 1)

	assert.Contains(t, eventTypes(events), model.EventGoalCompleted)
	assert.Equal(t, "complete", progress[0].Milestone)

	// The one side effect: the stored status flips to completed.
	assert.Equal(t, model.GoalCompleted, store.Goals["g1"].Status)
}

func TestCheckProgressExactCrossing(t *testing.T) {
	store := testutil.NewMockStorage()
	goal := activeGoal("g1", 2600, 5000, 104, 96)
	goal.LastCheckedPercent = 40
	store.Goals["g1"] = goal
	tracker := newTestTracker(store)

	_, events, err := tracker.CheckProgress(context.Background(), "u1")
	require.NoError(t, err)

	// Only the 50% threshold was crossed since the last check; 25% was
	// already behind the stored mark.
	types := eventTypes(events)
	assert.Contains(t, types, model.EventMilestoneReached)
	require.Len(t, events, 1)
	assert.Contains(t, events[0].Message, "50%")
}

func TestCheckProgressIdempotent(t *testing.T) {
	store := testutil.NewMockStorage()
	// On pace: 52% complete against 52% expected, so only threshold
	// crossings can fire.
	store.Goals["g1"] = activeGoal("g1", 2600, 5000, 104, 96)
	tracker := newTestTracker(store)
	ctx := context.Background()

	_, first, err := tracker.CheckProgress(ctx, "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, first, "first check crosses 25% and 50%")

	// Nothing changed, so a second check fires nothing.
	_, second, err := tracker.CheckProgress(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestCheckProgressAtRisk(t *testing.T) {
	store := testutil.NewMockStorage()
	// 26% complete, expected ~71% (100 of 140 days elapsed), 40 days left.
	goal := activeGoal("g1", 1300, 5000, 100, 40)
	goal.LastCheckedPercent = 26
	store.Goals["g1"] = goal
	tracker := newTestTracker(store)

	progress, events, err := tracker.CheckProgress(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, progress, 1)

	assert.False(t, progress[0].IsOnTrack)
	assert.Contains(t, eventTypes(events), model.EventGoalAtRisk)

	var atRisk model.MilestoneEvent
	for _, e := range events {
		if e.Type == model.EventGoalAtRisk {
			atRisk = e
		}
	}
	assert.NotEmpty(t, atRisk.ActionRequired)
	assert.Greater(t, progress[0].RequiredMonthlyContrib, 0.0)
}

func TestCheckProgressOffTrackButNotNearDeadline(t *testing.T) {
	store := testutil.NewMockStorage()
	// 26% complete with expected 50% (100 of 200 days), but 100 days left.
	goal := activeGoal("g1", 1300, 5000, 100, 100)
	goal.LastCheckedPercent = 26
	store.Goals["g1"] = goal
	tracker := newTestTracker(store)

	progress, events, err := tracker.CheckProgress(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, progress, 1)

	assert.False(t, progress[0].IsOnTrack)
	assert.NotContains(t, eventTypes(events), model.EventGoalAtRisk)
}

func TestCheckProgressAheadOfSchedule(t *testing.T) {
	store := testutil.NewMockStorage()
	// 80% complete against ~33% expected.
	goal := activeGoal("g1", 4000, 5000, 100, 200)
	goal.LastCheckedPercent = 80
	store.Goals["g1"] = goal
	tracker := newTestTracker(store)

	_, events, err := tracker.CheckProgress(context.Background(), "u1")
	require.NoError(t, err)

	assert.Contains(t, eventTypes(events), model.EventAheadOfSchedule)
}

func TestCheckProgressSkipsInactiveGoals(t *testing.T) {
	store := testutil.NewMockStorage()
	done := activeGoal("g1", 5000, 5000, 30, 30)
	done.Status = model.GoalCompleted
	store.Goals["g1"] = done
	tracker := newTestTracker(store)

	progress, events, err := tracker.CheckProgress(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, progress)
	assert.Empty(t, events)
}

func TestMilestones(t *testing.T) {
	store := testutil.NewMockStorage()
	store.Goals["g1"] = activeGoal("g1", 2600, 5000, 10, 200)
	tracker := newTestTracker(store)

	milestones, err := tracker.Milestones(context.Background(), "g1")
	require.NoError(t, err)
	require.Len(t, milestones, 4)

	assert.True(t, milestones[0].Reached)  // 25%
	assert.True(t, milestones[1].Reached)  // 50%
	assert.False(t, milestones[2].Reached) // 75%
	assert.False(t, milestones[3].Reached) // complete
	assert.Equal(t, "complete", milestones[3].Label)
}

func TestMilestonesUnknownGoal(t *testing.T) {
	store := testutil.NewMockStorage()
	tracker := newTestTracker(store)

	_, err := tracker.Milestones(context.Background(), "missing")
	assert.Error(t, err)
}
