package model

import "time"

// PlannedTask is a single scheduling decision within a weekly plan.
type PlannedTask struct {
	TaskID         string       `json:"task_id"`
	PlannedDate    time.Time    `json:"planned_date"`
	DayOfWeek      time.Weekday `json:"day_of_week"`
	EstimatedHours float64      `json:"estimated_hours"`
}

// Overload describes a day whose planned hours exceed its capacity.
type Overload struct {
	Date         time.Time `json:"date"`
	PlannedHours float64   `json:"planned_hours"`
	Capacity     float64   `json:"capacity"`
	ExcessHours  float64   `json:"excess_hours"`
}

// WeeklyPlan is the derived snapshot emitted when a plan is saved. The
// core never persists it; persistence (if any) belongs to the sink that
// receives it.
type WeeklyPlan struct {
	WeekStart time.Time                `json:"week_start"` // Monday
	Capacity  map[time.Weekday]float64 `json:"capacity"`
	Tasks     []PlannedTask            `json:"tasks"`
	Overloads []Overload               `json:"overloads"`
	SavedAt   time.Time                `json:"saved_at"`
}
