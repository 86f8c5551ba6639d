package model

import "time"

// ProjectTemplate is a reusable project blueprint owning an ordered
// list of template tasks.
type ProjectTemplate struct {
	ID                string    `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	Description       string    `json:"description" db:"description"`
	Category          string    `json:"category" db:"category"`
	EstimatedDuration int       `json:"estimated_duration" db:"estimated_duration"` // days
	Complexity        string    `json:"complexity" db:"complexity"`
	OwnerID           string    `json:"owner_id" db:"owner_id"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`

	// Tasks is populated from template_tasks, ordered by position.
	Tasks []TemplateTask `json:"tasks,omitempty" db:"-"`
}

// TemplateTask is a task blueprint. It carries no dates and no status;
// applying a template produces pending tasks in template order.
type TemplateTask struct {
	ID             string  `json:"id" db:"id"`
	TemplateID     string  `json:"template_id" db:"template_id"`
	Title          string  `json:"title" db:"title"`
	Description    string  `json:"description" db:"description"`
	Priority       string  `json:"priority" db:"priority"`
	Effort         int     `json:"effort" db:"effort"`
	EstimatedHours float64 `json:"estimated_hours" db:"estimated_hours"`
	Position       int     `json:"position" db:"position"`
}
