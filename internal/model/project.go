package model

import "time"

// Project status constants. Transitions are free-form; any status may
// follow any other.
const (
	ProjectStatusActive    = "active"
	ProjectStatusOnHold    = "on_hold"
	ProjectStatusCompleted = "completed"
	ProjectStatusCancelled = "cancelled"
)

// Project is a grouping container for related tasks, owned by one user.
type Project struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Status      string    `json:"status" db:"status"`
	Color       string    `json:"color" db:"color"`
	Archived    bool      `json:"archived" db:"archived"`
	OwnerID     string    `json:"owner_id" db:"owner_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	// Tasks holds minimal task summaries, populated by list queries.
	Tasks []TaskSummary `json:"tasks,omitempty" db:"-"`
}

// TaskSummary is the minimal task shape embedded in project listings.
type TaskSummary struct {
	ID             string     `json:"id" db:"id"`
	Title          string     `json:"title" db:"title"`
	Status         string     `json:"status" db:"status"`
	Priority       string     `json:"priority" db:"priority"`
	DueDate        *time.Time `json:"due_date,omitempty" db:"due_date"`
	Effort         int        `json:"effort" db:"effort"`
	EstimatedHours float64    `json:"estimated_hours" db:"estimated_hours"`
}

// Progress returns the fraction of summarized tasks that are completed,
// in [0, 1]. A project with no tasks reports 0.
func (p Project) Progress() float64 {
	if len(p.Tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range p.Tasks {
		if t.Status == TaskStatusCompleted {
			done++
		}
	}
	return float64(done) / float64(len(p.Tasks))
}
