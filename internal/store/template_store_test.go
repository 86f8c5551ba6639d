package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mtran/planhub/internal/model"
	"github.com/mtran/planhub/tests/testutil"
)

func TestReplaceTemplateTasksAssignsPositions(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateTemplate(ctx, model.ProjectTemplate{
		ID: "tpl1", Name: "launch checklist", OwnerID: testUser,
	}))

	require.NoError(t, s.ReplaceTemplateTasks(ctx, "tpl1", []model.TemplateTask{
		{Title: "freeze scope"},
		{Title: "run regression", Priority: model.PriorityUrgent, Effort: 4},
		{Title: "deploy"},
	}))

	tmpl, err := s.GetTemplateByID(ctx, "tpl1")
	require.NoError(t, err)
	require.Len(t, tmpl.Tasks, 3)
	for i, tt := range tmpl.Tasks {
		require.Equal(t, i, tt.Position, "positions follow slice order")
	}
	require.Equal(t, "freeze scope", tmpl.Tasks[0].Title)
	require.Equal(t, model.PriorityMedium, tmpl.Tasks[0].Priority, "priority defaults when absent")
	require.Equal(t, model.DefaultEffort, tmpl.Tasks[0].Effort)
	require.Equal(t, model.PriorityUrgent, tmpl.Tasks[1].Priority)

	// Replacing again discards the old list entirely.
	require.NoError(t, s.ReplaceTemplateTasks(ctx, "tpl1", []model.TemplateTask{
		{Title: "only step"},
	}))
	tmpl, err = s.GetTemplateByID(ctx, "tpl1")
	require.NoError(t, err)
	require.Len(t, tmpl.Tasks, 1)
	require.Equal(t, 0, tmpl.Tasks[0].Position)
}

func TestReplaceTemplateTasksRejectsBlankTitle(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateTemplate(ctx, model.ProjectTemplate{
		ID: "tpl1", Name: "checklist", OwnerID: testUser,
	}))
	require.NoError(t, s.ReplaceTemplateTasks(ctx, "tpl1", []model.TemplateTask{
		{Title: "keep me"},
	}))

	err := s.ReplaceTemplateTasks(ctx, "tpl1", []model.TemplateTask{
		{Title: "fine"},
		{Title: "  "},
	})
	require.Error(t, err)

	// The failed replace rolled back; the earlier list survives.
	tmpl, err := s.GetTemplateByID(ctx, "tpl1")
	require.NoError(t, err)
	require.Len(t, tmpl.Tasks, 1)
	require.Equal(t, "keep me", tmpl.Tasks[0].Title)
}

func TestDeleteTemplateCascadesTasks(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateTemplate(ctx, model.ProjectTemplate{
		ID: "tpl1", Name: "checklist", OwnerID: testUser,
	}))
	require.NoError(t, s.ReplaceTemplateTasks(ctx, "tpl1", []model.TemplateTask{
		{Title: "step"},
	}))

	require.NoError(t, s.DeleteTemplate(ctx, "tpl1"))
	_, err := s.GetTemplateByID(ctx, "tpl1")
	require.Error(t, err)
}

func TestGetTemplatesScopedToOwner(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateTemplate(ctx, model.ProjectTemplate{ID: "tpl1", Name: "mine", OwnerID: testUser}))
	require.NoError(t, s.CreateTemplate(ctx, model.ProjectTemplate{ID: "tpl2", Name: "theirs", OwnerID: "user-2"}))

	templates, err := s.GetTemplates(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	require.Equal(t, "tpl1", templates[0].ID)
}
