package model

import (
	"fmt"
	"strings"
	"time"
)

// Task status constants.
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"
)

// Task priority constants.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Draft defaults applied by NewDraftTask.
const (
	DefaultEffort         = 3
	DefaultEstimatedHours = 8
)

// draftIDPrefix marks a task that exists only in UI state. Draft tasks
// are never written to the store; saving promotes them to a real row
// under a fresh id, and discarding them is a no-op.
const draftIDPrefix = "temp-"

// Task is a unit of work, optionally attached to a project and
// optionally nested under a parent task.
type Task struct {
	ID             string     `json:"id" db:"id"`
	Title          string     `json:"title" db:"title"`
	Description    string     `json:"description" db:"description"`
	Status         string     `json:"status" db:"status"`
	Priority       string     `json:"priority" db:"priority"`
	Effort         int        `json:"effort" db:"effort"`
	EstimatedHours float64    `json:"estimated_hours" db:"estimated_hours"`
	DueDate        *time.Time `json:"due_date,omitempty" db:"due_date"`
	SnoozedUntil   *time.Time `json:"snoozed_until,omitempty" db:"snoozed_until"`
	SortOrder      int        `json:"sort_order" db:"sort_order"`
	ProjectID      *string    `json:"project_id,omitempty" db:"project_id"`
	UserID         string     `json:"user_id" db:"user_id"`
	ParentTaskID   *string    `json:"parent_task_id,omitempty" db:"parent_task_id"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`

	// Labels is populated by queries that join with task_labels.
	Labels []Label `json:"labels,omitempty" db:"-"`
}

// NewDraftTask returns an unpersisted placeholder task used by the
// new-task editor. taskCount is the current number of tasks, so the
// draft sorts after everything that already exists.
func NewDraftTask(userID string, taskCount int) Task {
	now := time.Now()
	return Task{
		ID:             fmt.Sprintf("%s%d", draftIDPrefix, now.UnixMilli()),
		Status:         TaskStatusPending,
		Priority:       PriorityMedium,
		Effort:         DefaultEffort,
		EstimatedHours: DefaultEstimatedHours,
		SortOrder:      taskCount + 1,
		UserID:         userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsDraft reports whether the task is a client-only placeholder.
func (t Task) IsDraft() bool {
	return strings.HasPrefix(t.ID, draftIDPrefix)
}

// IsOverdue reports whether the task's due date has passed and the task
// is not completed.
func (t Task) IsOverdue() bool {
	return t.DueDate != nil &&
		t.DueDate.Before(time.Now()) &&
		t.Status != TaskStatusCompleted
}

// IsSnoozed reports whether the task is currently snoozed.
func (t Task) IsSnoozed() bool {
	return t.SnoozedUntil != nil && t.SnoozedUntil.After(time.Now())
}

// ValidStatus reports whether s is a recognized task status.
func ValidStatus(s string) bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// ValidPriority reports whether p is a recognized priority.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Summary projects the task down to the shape embedded in project lists.
func (t Task) Summary() TaskSummary {
	return TaskSummary{
		ID:             t.ID,
		Title:          t.Title,
		Status:         t.Status,
		Priority:       t.Priority,
		DueDate:        t.DueDate,
		Effort:         t.Effort,
		EstimatedHours: t.EstimatedHours,
	}
}
