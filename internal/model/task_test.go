package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mtran/planhub/internal/model"
)

func TestNewDraftTaskDefaults(t *testing.T) {
	draft := model.NewDraftTask("user-1", 7)

	require.True(t, draft.IsDraft())
	require.Equal(t, model.TaskStatusPending, draft.Status)
	require.Equal(t, model.PriorityMedium, draft.Priority)
	require.Equal(t, model.DefaultEffort, draft.Effort)
	require.Equal(t, float64(model.DefaultEstimatedHours), draft.EstimatedHours)
	require.Equal(t, 8, draft.SortOrder, "draft sorts after all existing tasks")
	require.Equal(t, "user-1", draft.UserID)
	require.Nil(t, draft.DueDate)
	require.Nil(t, draft.ProjectID)
}

func TestIsDraftDetectsPersistedIDs(t *testing.T) {
	require.False(t, model.Task{ID: "6e7cbd27-9f5a-4b3e-8f3e-2a1d0c9b8a76"}.IsDraft())
	require.True(t, model.NewDraftTask("u", 0).IsDraft())
}

func TestIsOverdue(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	testCases := []struct {
		name string
		task model.Task
		want bool
	}{
		{"no due date", model.Task{Status: model.TaskStatusPending}, false},
		{"due in future", model.Task{Status: model.TaskStatusPending, DueDate: &future}, false},
		{"due in past", model.Task{Status: model.TaskStatusPending, DueDate: &past}, true},
		{"past but completed", model.Task{Status: model.TaskStatusCompleted, DueDate: &past}, false},
		{"past and cancelled", model.Task{Status: model.TaskStatusCancelled, DueDate: &past}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.task.IsOverdue())
		})
	}
}

func TestIsSnoozed(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	require.False(t, model.Task{}.IsSnoozed())
	require.False(t, model.Task{SnoozedUntil: &past}.IsSnoozed(), "an elapsed snooze no longer hides the task")
	require.True(t, model.Task{SnoozedUntil: &future}.IsSnoozed())
}

func TestValidStatusAndPriority(t *testing.T) {
	require.True(t, model.ValidStatus(model.TaskStatusInProgress))
	require.False(t, model.ValidStatus("done"))
	require.True(t, model.ValidPriority(model.PriorityUrgent))
	require.False(t, model.ValidPriority("critical"))
}

func TestProjectProgress(t *testing.T) {
	require.Zero(t, model.Project{}.Progress())

	p := model.Project{Tasks: []model.TaskSummary{
		{Status: model.TaskStatusCompleted},
		{Status: model.TaskStatusPending},
		{Status: model.TaskStatusCompleted},
		{Status: model.TaskStatusInProgress},
	}}
	require.InDelta(t, 0.5, p.Progress(), 1e-9)
}

func TestTaskSummaryProjection(t *testing.T) {
	due := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	task := model.Task{
		ID:             "t1",
		Title:          "summarize",
		Description:    "dropped in the summary",
		Status:         model.TaskStatusInProgress,
		Priority:       model.PriorityHigh,
		Effort:         4,
		EstimatedHours: 6,
		DueDate:        &due,
	}

	s := task.Summary()
	require.Equal(t, "t1", s.ID)
	require.Equal(t, "summarize", s.Title)
	require.Equal(t, model.TaskStatusInProgress, s.Status)
	require.Equal(t, 4, s.Effort)
	require.NotNil(t, s.DueDate)
}
