package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mtran/planhub/internal/model"
)

// CreateTask inserts a new task. Generates a UUID if ID is empty.
// SortOrder is stored as given; callers decide ordering.
func (s *SQLiteStore) CreateTask(ctx context.Context, task model.Task) error {
	if strings.TrimSpace(task.Title) == "" {
		return fmt.Errorf("task title must not be empty")
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.Status == "" {
		task.Status = model.TaskStatusPending
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if task.Effort < 1 || task.Effort > 5 {
		task.Effort = model.DefaultEffort
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (
			id, title, description, status, priority,
			effort, estimated_hours, due_date, snoozed_until,
			sort_order, project_id, user_id, parent_task_id,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Title, task.Description, task.Status, task.Priority,
		task.Effort, task.EstimatedHours, task.DueDate, task.SnoozedUntil,
		task.SortOrder, task.ProjectID, task.UserID, task.ParentTaskID,
		task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}

	s.notify("tasks", OpInsert, task.ID)
	return nil
}

// UpdateTask updates an existing task's scalar fields by ID. Label
// associations are managed separately through SetTaskLabels.
func (s *SQLiteStore) UpdateTask(ctx context.Context, task model.Task) error {
	if strings.TrimSpace(task.Title) == "" {
		return fmt.Errorf("task title must not be empty")
	}
	task.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET
			title = ?, description = ?, status = ?, priority = ?,
			effort = ?, estimated_hours = ?, due_date = ?, snoozed_until = ?,
			sort_order = ?, project_id = ?, parent_task_id = ?, updated_at = ?
		WHERE id = ?`,
		task.Title, task.Description, task.Status, task.Priority,
		task.Effort, task.EstimatedHours, task.DueDate, task.SnoozedUntil,
		task.SortOrder, task.ProjectID, task.ParentTaskID, task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task %s: %w", task.ID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("task %s not found", task.ID)
	}

	s.notify("tasks", OpUpdate, task.ID)
	return nil
}

// DeleteTask removes a task by ID. Cascades to task_labels, comments,
// and attachments; subtasks keep their rows with parent cleared.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("task %s not found", id)
	}

	s.notify("tasks", OpDelete, id)
	return nil
}

// GetTaskByID retrieves a single task by ID, including its labels.
func (s *SQLiteStore) GetTaskByID(
	ctx context.Context,
	id string,
) (*model.Task, error) {
	row := s.db.QueryRowxContext(ctx, "SELECT * FROM tasks WHERE id = ?", id)

	task, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}

	labels, err := s.GetLabelsForTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading labels for task %s: %w", id, err)
	}
	task.Labels = labels

	return &task, nil
}

// GetTasks retrieves tasks matching the filter, including labels.
func (s *SQLiteStore) GetTasks(
	ctx context.Context,
	filter TaskFilter,
) ([]model.Task, error) {
	query, args := buildTaskQuery("SELECT tasks.*", filter)

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range tasks {
		labels, err := s.GetLabelsForTask(ctx, tasks[i].ID)
		if err != nil {
			return nil, fmt.Errorf("loading labels for task %s: %w", tasks[i].ID, err)
		}
		tasks[i].Labels = labels
	}

	return tasks, nil
}

// GetTaskCount returns the count of tasks matching the filter.
func (s *SQLiteStore) GetTaskCount(
	ctx context.Context,
	filter TaskFilter,
) (int, error) {
	query, args := buildTaskQuery("SELECT COUNT(DISTINCT tasks.id)", filter)

	var count int
	if err := s.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("counting tasks: %w", err)
	}
	return count, nil
}

// buildTaskQuery constructs the SQL query and args for a TaskFilter.
// Every populated filter field contributes one AND condition.
func buildTaskQuery(selectClause string, filter TaskFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	needsLabelJoin := len(filter.LabelIDs) > 0

	from := " FROM tasks"
	if needsLabelJoin {
		from += " INNER JOIN task_labels ON tasks.id = task_labels.task_id"
	}

	appendIn := func(column string, values []string) {
		placeholders := make([]string, len(values))
		for i, v := range values {
			placeholders[i] = "?"
			args = append(args, v)
		}
		conditions = append(conditions,
			column+" IN ("+strings.Join(placeholders, ", ")+")")
	}

	if len(filter.Statuses) > 0 {
		appendIn("tasks.status", filter.Statuses)
	}
	if len(filter.Priorities) > 0 {
		appendIn("tasks.priority", filter.Priorities)
	}
	if len(filter.ProjectIDs) > 0 {
		appendIn("tasks.project_id", filter.ProjectIDs)
	}
	if len(filter.LabelIDs) > 0 {
		appendIn("task_labels.label_id", filter.LabelIDs)
	}
	if filter.Query != nil && *filter.Query != "" {
		conditions = append(conditions,
			"(tasks.title LIKE ? OR tasks.description LIKE ?)")
		q := "%" + *filter.Query + "%"
		args = append(args, q, q)
	}
	if filter.DueFrom != nil {
		conditions = append(conditions, "tasks.due_date >= ?")
		args = append(args, filter.DueFrom.UTC())
	}
	if filter.DueTo != nil {
		conditions = append(conditions, "tasks.due_date < ?")
		args = append(args, filter.DueTo.UTC())
	}
	if filter.EffortMin > 0 {
		conditions = append(conditions, "tasks.effort >= ?")
		args = append(args, filter.EffortMin)
	}
	if filter.EffortMax > 0 {
		conditions = append(conditions, "tasks.effort <= ?")
		args = append(args, filter.EffortMax)
	}
	if filter.Overdue {
		conditions = append(conditions,
			"tasks.due_date < ? AND tasks.status != ?")
		args = append(args, time.Now().UTC(), model.TaskStatusCompleted)
	}
	if filter.Snoozed {
		conditions = append(conditions, "tasks.snoozed_until IS NOT NULL")
	}
	if filter.ParentID != nil {
		conditions = append(conditions, "tasks.parent_task_id = ?")
		args = append(args, *filter.ParentID)
	}

	query := selectClause + from
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	if needsLabelJoin && !strings.HasPrefix(selectClause, "SELECT COUNT") {
		query += " GROUP BY tasks.id"
	}

	// Sort.
	sortBy := "tasks.sort_order"
	if filter.SortBy != "" {
		allowed := map[string]string{
			"sort_order": "tasks.sort_order",
			"priority":   "tasks.priority",
			"due_date":   "tasks.due_date",
			"created_at": "tasks.created_at",
			"updated_at": "tasks.updated_at",
			"title":      "tasks.title",
		}
		if col, ok := allowed[filter.SortBy]; ok {
			sortBy = col
		}
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", sortBy, direction)

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	return query, args
}

// scanTask scans a task row from either a sqlx.Row or sqlx.Rows.
func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (model.Task, error) {
	var (
		task         model.Task
		dueDate      *time.Time
		snoozedUntil *time.Time
		projectID    *string
		parentTaskID *string
	)

	err := row.Scan(
		&task.ID, &task.Title, &task.Description, &task.Status, &task.Priority,
		&task.Effort, &task.EstimatedHours, &dueDate, &snoozedUntil,
		&task.SortOrder, &projectID, &task.UserID, &parentTaskID,
		&task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("scanning task row: %w", err)
	}

	task.DueDate = dueDate
	task.SnoozedUntil = snoozedUntil
	task.ProjectID = projectID
	task.ParentTaskID = parentTaskID

	return task, nil
}
