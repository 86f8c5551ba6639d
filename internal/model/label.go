package model

import "time"

// Label is a user-owned, cross-cutting tag attached to tasks through
// the task_labels join relation. A task may carry any number of labels.
type Label struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Color     string    `json:"color" db:"color"`
	OwnerID   string    `json:"owner_id" db:"owner_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
