package planner_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mtran/planhub/internal/client"
	"github.com/mtran/planhub/internal/model"
	"github.com/mtran/planhub/internal/planner"
)

// recordingUpdater captures the due-date writes the planner issues.
type recordingUpdater struct {
	patches map[string]client.TaskPatch
	err     error
}

func newRecordingUpdater() *recordingUpdater {
	return &recordingUpdater{patches: make(map[string]client.TaskPatch)}
}

func (u *recordingUpdater) UpdateTask(ctx context.Context, id string, patch client.TaskPatch) (*model.Task, error) {
	if u.err != nil {
		return nil, u.err
	}
	u.patches[id] = patch
	return &model.Task{ID: id}, nil
}

var testCfg = model.PlannerConfig{WeekdayHours: 8, SaturdayHours: 4, SundayHours: 2}

// monday is a fixed reference Monday used across these tests.
var monday = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

func hours(h float64) model.Task {
	return model.Task{EstimatedHours: h}
}

func TestWeekStartIsMonday(t *testing.T) {
	testCases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday maps to itself", monday, monday},
		{"midweek", monday.AddDate(0, 0, 2).Add(15 * time.Hour), monday},
		{"sunday belongs to the week before", monday.AddDate(0, 0, 6), monday},
		{"next monday opens a new week", monday.AddDate(0, 0, 7), monday.AddDate(0, 0, 7)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.True(t, planner.WeekStart(tc.in).Equal(tc.want))
		})
	}
}

func TestPlanTaskWritesDueDate(t *testing.T) {
	u := newRecordingUpdater()
	p := planner.New(u, monday, testCfg)
	ctx := context.Background()

	task := model.Task{ID: "t1", EstimatedHours: 3}
	wednesday := monday.AddDate(0, 0, 2)
	require.NoError(t, p.PlanTask(ctx, task, wednesday))

	patch, ok := u.patches["t1"]
	require.True(t, ok, "planning must assign the due date")
	require.NotNil(t, patch.DueDate)
	require.True(t, patch.DueDate.Equal(wednesday))

	require.InDelta(t, 3, p.Workload(wednesday), 1e-9)
}

func TestPlanTaskRejectsDatesOutsideWeek(t *testing.T) {
	p := planner.New(newRecordingUpdater(), monday, testCfg)

	err := p.PlanTask(context.Background(), model.Task{ID: "t1"}, monday.AddDate(0, 0, 7))
	require.Error(t, err)
	require.Empty(t, p.Entries())
}

func TestPlanTaskMovesExistingEntry(t *testing.T) {
	u := newRecordingUpdater()
	p := planner.New(u, monday, testCfg)
	ctx := context.Background()

	task := model.Task{ID: "t1", EstimatedHours: 4}
	require.NoError(t, p.PlanTask(ctx, task, monday))
	require.NoError(t, p.PlanTask(ctx, task, monday.AddDate(0, 0, 1)))

	require.Len(t, p.Entries(), 1, "re-planning moves, never duplicates")
	require.Zero(t, p.Workload(monday))
	require.InDelta(t, 4, p.Workload(monday.AddDate(0, 0, 1)), 1e-9)
}

func TestOverloadExcessHours(t *testing.T) {
	u := newRecordingUpdater()
	p := planner.New(u, monday, testCfg)
	ctx := context.Background()

	// Two 5h tasks against an 8h weekday: overloaded by exactly 2.
	require.NoError(t, p.PlanTask(ctx, model.Task{ID: "t1", EstimatedHours: 5}, monday))
	require.NoError(t, p.PlanTask(ctx, model.Task{ID: "t2", EstimatedHours: 5}, monday))

	require.True(t, p.IsOverloaded(monday))
	overloads := p.Overloads()
	require.Len(t, overloads, 1)
	require.True(t, overloads[0].Date.Equal(monday))
	require.InDelta(t, 10, overloads[0].PlannedHours, 1e-9)
	require.InDelta(t, 8, overloads[0].Capacity, 1e-9)
	require.InDelta(t, 2, overloads[0].ExcessHours, 1e-9)
}

func TestCanPlanAgainstRemainingCapacity(t *testing.T) {
	u := newRecordingUpdater()
	p := planner.New(u, monday, testCfg)
	ctx := context.Background()

	require.NoError(t, p.PlanTask(ctx, model.Task{ID: "t1", EstimatedHours: 6}, monday))

	require.True(t, p.CanPlan(hours(2), monday))
	require.False(t, p.CanPlan(hours(3), monday), "3h does not fit the remaining 2h")

	// Weekend capacities differ from weekdays.
	saturday := monday.AddDate(0, 0, 5)
	require.True(t, p.CanPlan(hours(4), saturday))
	require.False(t, p.CanPlan(hours(5), saturday))
}

func TestCanPlanSameDayMoveFreesOwnHours(t *testing.T) {
	u := newRecordingUpdater()
	p := planner.New(u, monday, testCfg)
	ctx := context.Background()

	task := model.Task{ID: "t1", EstimatedHours: 8}
	require.NoError(t, p.PlanTask(ctx, task, monday))

	require.True(t, p.CanPlan(task, monday), "a task always fits on its own day")

	// Another full-day task does not fit alongside it.
	require.False(t, p.CanPlan(model.Task{ID: "t2", EstimatedHours: 8}, monday))
}

func TestDefaultHoursWhenNoEstimate(t *testing.T) {
	u := newRecordingUpdater()
	p := planner.New(u, monday, testCfg)
	ctx := context.Background()

	require.NoError(t, p.PlanTask(ctx, model.Task{ID: "t1"}, monday))
	require.InDelta(t, 2, p.Workload(monday), 1e-9, "unestimated tasks count as 2h")
}

func TestRemoveTaskKeepsDueDate(t *testing.T) {
	u := newRecordingUpdater()
	p := planner.New(u, monday, testCfg)
	ctx := context.Background()

	require.NoError(t, p.PlanTask(ctx, model.Task{ID: "t1", EstimatedHours: 3}, monday))
	delete(u.patches, "t1")

	p.RemoveTask("t1")
	require.Empty(t, p.Entries())
	require.Empty(t, u.patches, "unplanning issues no task update")
}

func TestLoadWeekSeedsFromDueDates(t *testing.T) {
	p := planner.New(newRecordingUpdater(), monday, testCfg)

	tuesday := monday.AddDate(0, 0, 1)
	nextWeek := monday.AddDate(0, 0, 9)
	p.LoadWeek([]model.Task{
		{ID: "t1", DueDate: &tuesday, EstimatedHours: 3},
		{ID: "t2", DueDate: &nextWeek, EstimatedHours: 4},
		{ID: "t3"},
	})

	entries := p.Entries()
	require.Len(t, entries, 1, "only tasks due inside the week are seeded")
	require.Equal(t, "t1", entries[0].TaskID)
	require.Equal(t, time.Tuesday, entries[0].DayOfWeek)
}

func TestEntriesOrderedByDateThenID(t *testing.T) {
	u := newRecordingUpdater()
	p := planner.New(u, monday, testCfg)
	ctx := context.Background()

	require.NoError(t, p.PlanTask(ctx, model.Task{ID: "b", EstimatedHours: 1}, monday.AddDate(0, 0, 1)))
	require.NoError(t, p.PlanTask(ctx, model.Task{ID: "c", EstimatedHours: 1}, monday))
	require.NoError(t, p.PlanTask(ctx, model.Task{ID: "a", EstimatedHours: 1}, monday.AddDate(0, 0, 1)))

	entries := p.Entries()
	require.Len(t, entries, 3)
	require.Equal(t, "c", entries[0].TaskID)
	require.Equal(t, "a", entries[1].TaskID)
	require.Equal(t, "b", entries[2].TaskID)
}

func TestPlanTaskRollsBackOnUpdateFailure(t *testing.T) {
	u := newRecordingUpdater()
	u.err = context.DeadlineExceeded
	p := planner.New(u, monday, testCfg)

	err := p.PlanTask(context.Background(), model.Task{ID: "t1", EstimatedHours: 3}, monday)
	require.Error(t, err)
	require.Empty(t, p.Entries(), "a failed due-date write leaves no entry behind")
}

func TestSnapshotCarriesCapacityAndOverloads(t *testing.T) {
	u := newRecordingUpdater()
	p := planner.New(u, monday, testCfg)
	ctx := context.Background()

	p.SetCapacity(time.Monday, 1)
	require.NoError(t, p.PlanTask(ctx, model.Task{ID: "t1", EstimatedHours: 3}, monday))

	snap := p.Snapshot()
	require.True(t, snap.WeekStart.Equal(monday))
	require.InDelta(t, 1, snap.Capacity[time.Monday], 1e-9)
	require.Len(t, snap.Tasks, 1)
	require.Len(t, snap.Overloads, 1)
	require.InDelta(t, 2, snap.Overloads[0].ExcessHours, 1e-9)
	require.False(t, snap.SavedAt.IsZero())
}
