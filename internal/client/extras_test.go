package client_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mtran/planhub/internal/client"
	"github.com/mtran/planhub/internal/model"
	"github.com/mtran/planhub/internal/store"
)

func TestSavedFilterRoundTrip(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	q := "billing"
	original := store.TaskFilter{
		Statuses:   []string{model.TaskStatusPending, model.TaskStatusInProgress},
		Priorities: []string{model.PriorityHigh},
		Query:      &q,
		Overdue:    true,
		SortBy:     "due_date",
	}

	saved, err := c.SaveFilter(ctx, "urgent billing", original)
	require.NoError(t, err)

	filters, err := c.ListSavedFilters(ctx)
	require.NoError(t, err)
	require.Len(t, filters, 1)

	decoded, err := client.DecodeSavedFilter(filters[0])
	require.NoError(t, err)
	require.Equal(t, original.Statuses, decoded.Statuses)
	require.Equal(t, original.Priorities, decoded.Priorities)
	require.NotNil(t, decoded.Query)
	require.Equal(t, q, *decoded.Query)
	require.True(t, decoded.Overdue)
	require.Equal(t, "due_date", decoded.SortBy)

	require.NoError(t, c.DeleteSavedFilter(ctx, saved.ID))
	filters, err = c.ListSavedFilters(ctx)
	require.NoError(t, err)
	require.Empty(t, filters)
}

func TestDecodeSavedFilterRejectsGarbage(t *testing.T) {
	_, err := client.DecodeSavedFilter(model.SavedFilter{Name: "bad", FilterJSON: "{not json"})
	require.Error(t, err)
}

func TestDigestSettingsDefaults(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	settings, err := c.DigestSettings(ctx)
	require.NoError(t, err)
	require.Equal(t, "user-1", settings.UserID)
	require.False(t, settings.Enabled, "digest starts disabled")
	require.Equal(t, 8, settings.SendHour)

	require.NoError(t, c.SetDigestSettings(ctx, model.DigestSettings{
		Enabled:   true,
		SendHour:  7,
		Recipient: "sam@example.com",
	}))

	settings, err = c.DigestSettings(ctx)
	require.NoError(t, err)
	require.True(t, settings.Enabled)
	require.Equal(t, 7, settings.SendHour)
	require.Equal(t, "sam@example.com", settings.Recipient)
}

func TestCommentsOnTask(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	task, err := c.CreateTask(ctx, client.TaskInput{Title: "discuss"})
	require.NoError(t, err)

	first, err := c.AddComment(ctx, task.ID, "first thoughts")
	require.NoError(t, err)
	require.Equal(t, "user-1", first.AuthorID)

	_, err = c.AddComment(ctx, task.ID, "second thoughts")
	require.NoError(t, err)

	comments, err := c.ListComments(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)

	require.NoError(t, c.DeleteComment(ctx, first.ID))
	comments, err = c.ListComments(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Equal(t, "second thoughts", comments[0].Body)
}

func TestLabelLifecycle(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	label, err := c.CreateLabel(ctx, "deep-work", "#336699")
	require.NoError(t, err)
	require.NotEmpty(t, label.ID)

	label.Name = "focus"
	require.NoError(t, c.UpdateLabel(ctx, *label))

	labels, err := c.ListLabels(ctx)
	require.NoError(t, err)
	require.Len(t, labels, 1)
	require.Equal(t, "focus", labels[0].Name)

	require.NoError(t, c.DeleteLabel(ctx, label.ID))
	labels, err = c.ListLabels(ctx)
	require.NoError(t, err)
	require.Empty(t, labels)
}

func TestArchiveHidesProjectFromList(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	project, err := c.CreateProject(ctx, client.ProjectInput{Name: "side quest"})
	require.NoError(t, err)

	require.NoError(t, c.ArchiveProject(ctx, project.ID))

	projects, err := c.ListProjects(ctx)
	require.NoError(t, err)
	require.Empty(t, projects)

	fetched, err := c.GetProject(ctx, project.ID)
	require.NoError(t, err)
	require.True(t, fetched.Archived)

	require.NoError(t, c.RestoreProject(ctx, project.ID))
	projects, err = c.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
}
