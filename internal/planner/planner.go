// Package planner implements the weekly capacity planner: a per-day
// capacity map, tasks planned onto days of a Monday-start week, and
// overload detection. Planning a task and assigning its due date are
// the same operation.
package planner

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mtran/planhub/internal/client"
	"github.com/mtran/planhub/internal/model"
)

// defaultPlannedHours is assumed for tasks without an estimate.
const defaultPlannedHours = 2

// TaskUpdater is the slice of the data-access client the planner needs.
type TaskUpdater interface {
	UpdateTask(ctx context.Context, id string, patch client.TaskPatch) (*model.Task, error)
}

// Sink receives the weekly plan snapshot on save. The planner itself
// never persists plans.
type Sink interface {
	SavePlan(ctx context.Context, plan model.WeeklyPlan) error
}

// Planner is the single-week planning state machine.
type Planner struct {
	updater   TaskUpdater
	weekStart time.Time // Monday, midnight
	capacity  map[time.Weekday]float64
	entries   map[string]model.PlannedTask // task id -> entry
}

// New creates a planner for the week containing ref, with capacities
// from cfg (weekday/Saturday/Sunday hours).
func New(updater TaskUpdater, ref time.Time, cfg model.PlannerConfig) *Planner {
	capacity := make(map[time.Weekday]float64, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		switch d {
		case time.Saturday:
			capacity[d] = cfg.SaturdayHours
		case time.Sunday:
			capacity[d] = cfg.SundayHours
		default:
			capacity[d] = cfg.WeekdayHours
		}
	}
	return &Planner{
		updater:   updater,
		weekStart: WeekStart(ref),
		capacity:  capacity,
		entries:   make(map[string]model.PlannedTask),
	}
}

// WeekStart returns the Monday midnight opening the week containing t.
func WeekStart(t time.Time) time.Time {
	t = atMidnight(t)
	offset := int(t.Weekday()-time.Monday+7) % 7
	return t.AddDate(0, 0, -offset)
}

// WeekStartDate returns the planner's Monday.
func (p *Planner) WeekStartDate() time.Time {
	return p.weekStart
}

// InWeek reports whether date falls inside the planner's week.
func (p *Planner) InWeek(date time.Time) bool {
	d := atMidnight(date)
	return !d.Before(p.weekStart) && d.Before(p.weekStart.AddDate(0, 0, 7))
}

// SetCapacity overrides one day's capacity in hours.
func (p *Planner) SetCapacity(day time.Weekday, hours float64) {
	p.capacity[day] = hours
}

// Capacity returns the configured capacity for a date's weekday.
func (p *Planner) Capacity(date time.Time) float64 {
	return p.capacity[date.Weekday()]
}

// Workload returns the summed planned hours for a date.
func (p *Planner) Workload(date time.Time) float64 {
	d := atMidnight(date)
	var total float64
	for _, e := range p.entries {
		if e.PlannedDate.Equal(d) {
			total += e.EstimatedHours
		}
	}
	return total
}

// IsOverloaded reports whether a date's planned hours exceed capacity.
func (p *Planner) IsOverloaded(date time.Time) bool {
	return p.Workload(date) > p.Capacity(date)
}

// Overloads lists the days of the week whose planned hours exceed
// capacity, with the excess.
func (p *Planner) Overloads() []model.Overload {
	var overloads []model.Overload
	for i := 0; i < 7; i++ {
		date := p.weekStart.AddDate(0, 0, i)
		planned := p.Workload(date)
		capacity := p.Capacity(date)
		if planned > capacity {
			overloads = append(overloads, model.Overload{
				Date:         date,
				PlannedHours: planned,
				Capacity:     capacity,
				ExcessHours:  planned - capacity,
			})
		}
	}
	return overloads
}

// CanPlan reports whether the task's hours fit into the date's
// remaining capacity. Moving a task within the same day is always
// allowed since its own hours free up.
func (p *Planner) CanPlan(task model.Task, date time.Time) bool {
	hours := plannedHours(task)
	remaining := p.Capacity(date) - p.Workload(date)
	if existing, ok := p.entries[task.ID]; ok && existing.PlannedDate.Equal(atMidnight(date)) {
		remaining += existing.EstimatedHours
	}
	return hours <= remaining
}

// PlanTask plans the task onto date, moving its existing entry when it
// already has one, and writes date back as the task's due date. There
// is no "planned but not due" state.
func (p *Planner) PlanTask(ctx context.Context, task model.Task, date time.Time) error {
	if !p.InWeek(date) {
		return fmt.Errorf("date %s is outside the planned week", date.Format("2006-01-02"))
	}

	d := atMidnight(date)
	entry, ok := p.entries[task.ID]
	if ok {
		entry.PlannedDate = d
		entry.DayOfWeek = d.Weekday()
	} else {
		entry = model.PlannedTask{
			TaskID:         task.ID,
			PlannedDate:    d,
			DayOfWeek:      d.Weekday(),
			EstimatedHours: plannedHours(task),
		}
	}

	if _, err := p.updater.UpdateTask(ctx, task.ID, client.TaskPatch{DueDate: &d}); err != nil {
		return fmt.Errorf("assigning due date: %w", err)
	}

	p.entries[task.ID] = entry
	return nil
}

// RemoveTask drops the task's plan entry. The task's due date is left
// as-is.
func (p *Planner) RemoveTask(taskID string) {
	delete(p.entries, taskID)
}

// LoadWeek seeds plan entries from tasks whose due date falls inside
// the planner's week, replacing any current entries.
func (p *Planner) LoadWeek(tasks []model.Task) {
	p.entries = make(map[string]model.PlannedTask, len(tasks))
	for _, t := range tasks {
		if t.DueDate == nil || !p.InWeek(*t.DueDate) {
			continue
		}
		d := atMidnight(*t.DueDate)
		p.entries[t.ID] = model.PlannedTask{
			TaskID:         t.ID,
			PlannedDate:    d,
			DayOfWeek:      d.Weekday(),
			EstimatedHours: plannedHours(t),
		}
	}
}

// Entries returns the plan entries ordered by date, then task id.
func (p *Planner) Entries() []model.PlannedTask {
	entries := make([]model.PlannedTask, 0, len(p.entries))
	for _, e := range p.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].PlannedDate.Equal(entries[j].PlannedDate) {
			return entries[i].PlannedDate.Before(entries[j].PlannedDate)
		}
		return entries[i].TaskID < entries[j].TaskID
	})
	return entries
}

// Snapshot assembles the current WeeklyPlan.
func (p *Planner) Snapshot() model.WeeklyPlan {
	capacity := make(map[time.Weekday]float64, len(p.capacity))
	for d, h := range p.capacity {
		capacity[d] = h
	}
	return model.WeeklyPlan{
		WeekStart: p.weekStart,
		Capacity:  capacity,
		Tasks:     p.Entries(),
		Overloads: p.Overloads(),
		SavedAt:   time.Now(),
	}
}

// SavePlan emits the plan snapshot to the sink.
func (p *Planner) SavePlan(ctx context.Context, sink Sink) error {
	if err := sink.SavePlan(ctx, p.Snapshot()); err != nil {
		return fmt.Errorf("saving weekly plan: %w", err)
	}
	return nil
}

// plannedHours returns the task's estimate, defaulting when absent.
func plannedHours(task model.Task) float64 {
	if task.EstimatedHours > 0 {
		return task.EstimatedHours
	}
	return defaultPlannedHours
}

// atMidnight truncates t to local midnight.
func atMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
