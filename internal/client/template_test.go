package client_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mtran/planhub/internal/client"
	"github.com/mtran/planhub/internal/model"
)

func TestCreateTemplateWithTasks(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	tmpl, err := c.CreateTemplate(ctx, client.TemplateInput{
		Name:     "release checklist",
		Category: "engineering",
		Tasks: []model.TemplateTask{
			{Title: "freeze scope"},
			{Title: "regression pass", Priority: model.PriorityUrgent},
			{Title: "ship it"},
		},
	})
	require.NoError(t, err)
	require.Len(t, tmpl.Tasks, 3)
	require.Equal(t, "freeze scope", tmpl.Tasks[0].Title)
	require.Equal(t, 2, tmpl.Tasks[2].Position)
}

func TestCreateProjectFromTemplate(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	tmpl, err := c.CreateTemplate(ctx, client.TemplateInput{
		Name: "onboarding",
		Tasks: []model.TemplateTask{
			{Title: "grant accounts", Priority: model.PriorityHigh, Effort: 1, EstimatedHours: 1},
			{Title: "pair on first ticket", Priority: model.PriorityMedium, Effort: 3, EstimatedHours: 6},
			{Title: "retro after two weeks", Priority: model.PriorityLow, Effort: 1, EstimatedHours: 1},
		},
	})
	require.NoError(t, err)

	project, err := c.CreateProjectFromTemplate(ctx, tmpl.ID, client.ProjectInput{Name: "new hire: sam"})
	require.NoError(t, err)
	require.Equal(t, model.ProjectStatusActive, project.Status)
	require.Len(t, project.Tasks, 3)

	// Template order is preserved through sort_order 0..n-1, and every
	// expanded task starts pending regardless of the blueprint.
	for i, ts := range project.Tasks {
		require.Equal(t, tmpl.Tasks[i].Title, ts.Title)
		require.Equal(t, model.TaskStatusPending, ts.Status)
	}
	require.Equal(t, model.PriorityHigh, project.Tasks[0].Priority)
}

func TestCreateProjectFromTemplateTwiceDuplicatesTasks(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	tmpl, err := c.CreateTemplate(ctx, client.TemplateInput{
		Name:  "weekly review",
		Tasks: []model.TemplateTask{{Title: "collect notes"}, {Title: "write summary"}},
	})
	require.NoError(t, err)

	first, err := c.CreateProjectFromTemplate(ctx, tmpl.ID, client.ProjectInput{Name: "week 36"})
	require.NoError(t, err)
	second, err := c.CreateProjectFromTemplate(ctx, tmpl.ID, client.ProjectInput{Name: "week 37"})
	require.NoError(t, err)

	require.NotEqual(t, first.ID, second.ID)
	require.Len(t, first.Tasks, 2)
	require.Len(t, second.Tasks, 2, "each apply expands a fresh copy")
}

func TestSaveProjectAsTemplateDropsStatusAndDates(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	project, err := c.CreateProject(ctx, client.ProjectInput{Name: "quarterly report"})
	require.NoError(t, err)

	due := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	_, err = c.CreateTask(ctx, client.TaskInput{
		Title:          "gather numbers",
		Status:         model.TaskStatusCompleted,
		Priority:       model.PriorityHigh,
		Effort:         2,
		EstimatedHours: 4,
		DueDate:        &due,
		ProjectID:      &project.ID,
	})
	require.NoError(t, err)
	_, err = c.CreateTask(ctx, client.TaskInput{
		Title:     "write narrative",
		ProjectID: &project.ID,
	})
	require.NoError(t, err)

	tmpl, err := c.SaveProjectAsTemplate(ctx, project.ID, "report template", "reusable")
	require.NoError(t, err)
	require.Len(t, tmpl.Tasks, 2)
	require.Equal(t, "gather numbers", tmpl.Tasks[0].Title)
	require.Equal(t, model.PriorityHigh, tmpl.Tasks[0].Priority, "priority and effort survive the snapshot")
	require.Equal(t, 2, tmpl.Tasks[0].Effort)
	require.Equal(t, 4.0, tmpl.Tasks[0].EstimatedHours)

	// The snapshot is one-way: later project edits leave it alone.
	_, err = c.CreateTask(ctx, client.TaskInput{Title: "late addition", ProjectID: &project.ID})
	require.NoError(t, err)
	fresh, err := c.GetTemplate(ctx, tmpl.ID)
	require.NoError(t, err)
	require.Len(t, fresh.Tasks, 2)
}

func TestUpdateTemplateReplacesTaskList(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	tmpl, err := c.CreateTemplate(ctx, client.TemplateInput{
		Name:  "before",
		Tasks: []model.TemplateTask{{Title: "one"}, {Title: "two"}},
	})
	require.NoError(t, err)

	updated, err := c.UpdateTemplate(ctx, tmpl.ID, client.TemplateInput{
		Name:  "after",
		Tasks: []model.TemplateTask{{Title: "three"}},
	})
	require.NoError(t, err)
	require.Equal(t, "after", updated.Name)
	require.Len(t, updated.Tasks, 1)
	require.Equal(t, "three", updated.Tasks[0].Title)
}
