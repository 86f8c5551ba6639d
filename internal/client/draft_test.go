package client_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mtran/planhub/internal/client"
	"github.com/mtran/planhub/internal/model"
	"github.com/mtran/planhub/internal/store"
)

// Drafts live only in UI state: abandoning one must leave the store
// untouched, and saving one must mint a real row under a fresh id.
func TestDraftDiscardPersistsNothing(t *testing.T) {
	_, s := newTestClient(t)
	ctx := context.Background()

	draft := model.NewDraftTask("user-1", 0)
	require.True(t, draft.IsDraft())

	// The draft goes out of scope without any client call; nothing to
	// clean up, nothing stored.
	n, err := s.GetTaskCount(ctx, store.TaskFilter{})
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestDraftSavePromotesToRealRow(t *testing.T) {
	c, s := newTestClient(t)
	ctx := context.Background()

	draft := model.NewDraftTask("user-1", 3)
	created, err := c.CreateTask(ctx, client.TaskInput{
		Title:          "promoted",
		Status:         draft.Status,
		Priority:       draft.Priority,
		Effort:         draft.Effort,
		EstimatedHours: draft.EstimatedHours,
		SortOrder:      &draft.SortOrder,
	})
	require.NoError(t, err)

	require.False(t, created.IsDraft(), "stored tasks never keep the placeholder id")
	require.NotEqual(t, draft.ID, created.ID)
	require.Equal(t, draft.SortOrder, created.SortOrder)
	require.Equal(t, model.TaskStatusPending, created.Status)

	n, err := s.GetTaskCount(ctx, store.TaskFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
