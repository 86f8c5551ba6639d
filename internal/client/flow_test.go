package client_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mtran/planhub/internal/client"
	"github.com/mtran/planhub/internal/model"
	"github.com/mtran/planhub/internal/planner"
	"github.com/mtran/planhub/internal/store"
)

// TestWeeklyPlanningFlow walks the path a user takes through a week:
// set up a project from a template, label and refine the tasks, plan
// them onto days, then complete one and watch it leave the open set.
func TestWeeklyPlanningFlow(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	tmpl, err := c.CreateTemplate(ctx, client.TemplateInput{
		Name: "sprint prep",
		Tasks: []model.TemplateTask{
			{Title: "groom backlog", Priority: model.PriorityHigh, EstimatedHours: 2},
			{Title: "write sprint goals", Priority: model.PriorityMedium, EstimatedHours: 3},
		},
	})
	require.NoError(t, err)

	project, err := c.CreateProjectFromTemplate(ctx, tmpl.ID, client.ProjectInput{Name: "sprint 12"})
	require.NoError(t, err)
	require.Len(t, project.Tasks, 2)

	// Label one of the expanded tasks.
	focus, err := c.CreateLabel(ctx, "focus", "#f90")
	require.NoError(t, err)
	labels := []string{focus.ID}
	first, err := c.UpdateTask(ctx, project.Tasks[0].ID, client.TaskPatch{LabelIDs: &labels})
	require.NoError(t, err)
	require.Len(t, first.Labels, 1)

	// Plan both tasks onto the current week; the due dates land in the store.
	weekStart := planner.WeekStart(time.Now())
	p := planner.New(c, weekStart, model.PlannerConfig{WeekdayHours: 8, SaturdayHours: 4, SundayHours: 2})

	open, err := c.ListTasks(ctx, store.TaskFilter{
		Statuses:   []string{model.TaskStatusPending, model.TaskStatusInProgress},
		ProjectIDs: []string{project.ID},
	})
	require.NoError(t, err)
	require.Len(t, open, 2)

	require.NoError(t, p.PlanTask(ctx, open[0], weekStart))
	require.NoError(t, p.PlanTask(ctx, open[1], weekStart.AddDate(0, 0, 1)))

	from, to := weekStart, weekStart.AddDate(0, 0, 7)
	scheduled, err := c.ListTasks(ctx, store.TaskFilter{DueFrom: &from, DueTo: &to})
	require.NoError(t, err)
	require.Len(t, scheduled, 2, "planning assigned due dates inside the week")

	// Completing a task removes it from the open set but not the plan file.
	done := model.TaskStatusCompleted
	_, err = c.UpdateTask(ctx, open[0].ID, client.TaskPatch{Status: &done})
	require.NoError(t, err)

	open, err = c.ListTasks(ctx, store.TaskFilter{
		Statuses:   []string{model.TaskStatusPending, model.TaskStatusInProgress},
		ProjectIDs: []string{project.ID},
	})
	require.NoError(t, err)
	require.Len(t, open, 1)

	// The project reflects the progress.
	fresh, err := c.GetProject(ctx, project.ID)
	require.NoError(t, err)
	require.InDelta(t, 0.5, fresh.Progress(), 1e-9)
}
