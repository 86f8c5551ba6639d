package client

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mtran/planhub/internal/model"
	"github.com/mtran/planhub/internal/store"
)

// TaskInput carries the fields accepted when creating a task.
type TaskInput struct {
	Title          string
	Description    string
	Status         string // defaults to pending
	Priority       string // defaults to medium
	Effort         int    // defaults to 3
	EstimatedHours float64
	DueDate        *time.Time
	SnoozedUntil   *time.Time
	SortOrder      *int // defaults to current task count + 1
	ProjectID      *string
	ParentTaskID   *string
	LabelIDs       []string
}

// TaskPatch carries a partial task update. Nil fields are left
// untouched. A non-nil LabelIDs (even empty) replaces the label set
// exactly. Clear flags null out the corresponding column.
type TaskPatch struct {
	Title          *string
	Description    *string
	Status         *string
	Priority       *string
	Effort         *int
	EstimatedHours *float64
	DueDate        *time.Time
	ClearDueDate   bool
	SnoozedUntil   *time.Time
	ClearSnooze    bool
	SortOrder      *int
	ProjectID      *string
	ClearProject   bool
	LabelIDs       *[]string
}

// ListTasks returns tasks matching the filter, default order
// sort_order ascending, labels included.
func (c *Client) ListTasks(ctx context.Context, filter store.TaskFilter) ([]model.Task, error) {
	tasks, err := c.store.GetTasks(ctx, filter)
	if err != nil {
		return nil, remoteErr("listing tasks", err)
	}
	return tasks, nil
}

// GetTask returns a single task with labels.
func (c *Client) GetTask(ctx context.Context, id string) (*model.Task, error) {
	task, err := c.store.GetTaskByID(ctx, id)
	if err != nil {
		return nil, remoteErr("getting task", err)
	}
	return task, nil
}

// CreateTask inserts a task and then its label joins. The two steps
// are not atomic: if the label step fails the client attempts a
// compensating delete of the task row, and reports
// PartialCompositeFailure only when that compensation also fails.
func (c *Client) CreateTask(ctx context.Context, input TaskInput) (*model.Task, error) {
	userID, err := c.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	// The ID is assigned here rather than by the store so the label
	// step and the read-back below can reference the new row.
	task := model.Task{
		ID:             uuid.New().String(),
		Title:          input.Title,
		Description:    input.Description,
		Status:         input.Status,
		Priority:       input.Priority,
		Effort:         input.Effort,
		EstimatedHours: input.EstimatedHours,
		DueDate:        input.DueDate,
		SnoozedUntil:   input.SnoozedUntil,
		ProjectID:      input.ProjectID,
		ParentTaskID:   input.ParentTaskID,
		UserID:         userID,
	}

	if input.SortOrder != nil {
		task.SortOrder = *input.SortOrder
	} else {
		count, err := c.store.GetTaskCount(ctx, store.TaskFilter{})
		if err != nil {
			return nil, remoteErr("counting tasks", err)
		}
		task.SortOrder = count + 1
	}

	if err := c.store.CreateTask(ctx, task); err != nil {
		return nil, remoteErr("creating task", err)
	}

	if len(input.LabelIDs) > 0 {
		if err := c.store.SetTaskLabels(ctx, task.ID, input.LabelIDs); err != nil {
			if compErr := c.store.DeleteTask(ctx, task.ID); compErr != nil {
				return nil, &PartialCompositeFailure{
					Op:        "creating task labels",
					EntityID:  task.ID,
					StepsDone: 1,
					Err:       err,
				}
			}
			return nil, remoteErr("creating task labels", err)
		}
	}

	created, err := c.store.GetTaskByID(ctx, task.ID)
	if err != nil {
		return nil, remoteErr("reading created task", err)
	}
	return created, nil
}

// UpdateTask applies a partial update. When the patch carries a label
// set the join rows are replaced wholesale: "set labels to exactly
// this", not "add".
func (c *Client) UpdateTask(ctx context.Context, id string, patch TaskPatch) (*model.Task, error) {
	if _, err := c.requireUser(ctx); err != nil {
		return nil, err
	}

	current, err := c.store.GetTaskByID(ctx, id)
	if err != nil {
		return nil, remoteErr("getting task", err)
	}

	if patch.Title != nil {
		current.Title = *patch.Title
	}
	if patch.Description != nil {
		current.Description = *patch.Description
	}
	if patch.Status != nil {
		current.Status = *patch.Status
	}
	if patch.Priority != nil {
		current.Priority = *patch.Priority
	}
	if patch.Effort != nil {
		current.Effort = *patch.Effort
	}
	if patch.EstimatedHours != nil {
		current.EstimatedHours = *patch.EstimatedHours
	}
	if patch.DueDate != nil {
		current.DueDate = patch.DueDate
	}
	if patch.ClearDueDate {
		current.DueDate = nil
	}
	if patch.SnoozedUntil != nil {
		current.SnoozedUntil = patch.SnoozedUntil
	}
	if patch.ClearSnooze {
		current.SnoozedUntil = nil
	}
	if patch.SortOrder != nil {
		current.SortOrder = *patch.SortOrder
	}
	if patch.ProjectID != nil {
		current.ProjectID = patch.ProjectID
	}
	if patch.ClearProject {
		current.ProjectID = nil
	}

	if err := c.store.UpdateTask(ctx, *current); err != nil {
		return nil, remoteErr("updating task", err)
	}

	if patch.LabelIDs != nil {
		if err := c.store.SetTaskLabels(ctx, id, *patch.LabelIDs); err != nil {
			return nil, remoteErr("replacing task labels", err)
		}
	}

	updated, err := c.store.GetTaskByID(ctx, id)
	if err != nil {
		return nil, remoteErr("reading updated task", err)
	}
	return updated, nil
}

// DeleteTask removes a task and its child rows.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if _, err := c.requireUser(ctx); err != nil {
		return err
	}
	if err := c.store.DeleteTask(ctx, id); err != nil {
		return remoteErr("deleting task", err)
	}
	return nil
}
