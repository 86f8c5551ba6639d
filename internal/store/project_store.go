package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mtran/planhub/internal/model"
)

// CreateProject inserts a new project. Generates a UUID if ID is empty.
func (s *SQLiteStore) CreateProject(ctx context.Context, project model.Project) error {
	if strings.TrimSpace(project.Name) == "" {
		return fmt.Errorf("project name must not be empty")
	}
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	if project.Status == "" {
		project.Status = model.ProjectStatusActive
	}
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, status, color, archived, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		project.ID, project.Name, project.Description, project.Status, project.Color,
		boolToInt(project.Archived), project.OwnerID, project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating project: %w", err)
	}

	s.notify("projects", OpInsert, project.ID)
	return nil
}

// UpdateProject updates an existing project.
func (s *SQLiteStore) UpdateProject(ctx context.Context, project model.Project) error {
	if strings.TrimSpace(project.Name) == "" {
		return fmt.Errorf("project name must not be empty")
	}
	project.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE projects SET
			name = ?, description = ?, status = ?, color = ?,
			archived = ?, updated_at = ?
		WHERE id = ?`,
		project.Name, project.Description, project.Status, project.Color,
		boolToInt(project.Archived), project.UpdatedAt,
		project.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project %s: %w", project.ID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("project %s not found", project.ID)
	}

	s.notify("projects", OpUpdate, project.ID)
	return nil
}

// DeleteProject removes a project. Associated tasks are removed with it.
func (s *SQLiteStore) DeleteProject(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting project %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("project %s not found", id)
	}

	s.notify("projects", OpDelete, id)
	return nil
}

// ArchiveProject sets the archived flag. The row stays retrievable by
// id but drops out of project listings.
func (s *SQLiteStore) ArchiveProject(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE projects SET archived = 1, updated_at = ? WHERE id = ?",
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("archiving project %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("project %s not found", id)
	}

	s.notify("projects", OpUpdate, id)
	return nil
}

// RestoreProject clears the archived flag.
func (s *SQLiteStore) RestoreProject(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE projects SET archived = 0, updated_at = ? WHERE id = ?",
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("restoring project %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("project %s not found", id)
	}

	s.notify("projects", OpUpdate, id)
	return nil
}

// GetProjectByID retrieves a single project by ID, including its task
// summaries. Archived projects are retrievable here.
func (s *SQLiteStore) GetProjectByID(
	ctx context.Context,
	id string,
) (*model.Project, error) {
	row := s.db.QueryRowxContext(ctx, "SELECT * FROM projects WHERE id = ?", id)

	project, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("getting project %s: %w", id, err)
	}

	summaries, err := s.getTaskSummaries(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	project.Tasks = summaries

	return &project, nil
}

// GetProjects retrieves the owner's projects, newest first, each with
// embedded task summaries. Archived projects are excluded unless
// includeArchived is set.
func (s *SQLiteStore) GetProjects(
	ctx context.Context,
	ownerID string,
	includeArchived bool,
) ([]model.Project, error) {
	query := "SELECT * FROM projects WHERE owner_id = ?"
	if !includeArchived {
		query += " AND archived = 0"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryxContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range projects {
		summaries, err := s.getTaskSummaries(ctx, projects[i].ID)
		if err != nil {
			return nil, err
		}
		projects[i].Tasks = summaries
	}

	return projects, nil
}

// getTaskSummaries loads the minimal task shape embedded in project reads.
func (s *SQLiteStore) getTaskSummaries(
	ctx context.Context,
	projectID string,
) ([]model.TaskSummary, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, title, status, priority, due_date, effort, estimated_hours
		FROM tasks WHERE project_id = ? ORDER BY sort_order`, projectID)
	if err != nil {
		return nil, fmt.Errorf("querying task summaries for project %s: %w", projectID, err)
	}
	defer rows.Close()

	var summaries []model.TaskSummary
	for rows.Next() {
		var ts model.TaskSummary
		var dueDate *time.Time
		err := rows.Scan(
			&ts.ID, &ts.Title, &ts.Status, &ts.Priority,
			&dueDate, &ts.Effort, &ts.EstimatedHours,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning task summary row: %w", err)
		}
		ts.DueDate = dueDate
		summaries = append(summaries, ts)
	}
	return summaries, rows.Err()
}

// scanProject scans a project row from either a sqlx.Row or sqlx.Rows.
func scanProject(row interface {
	Scan(dest ...interface{}) error
}) (model.Project, error) {
	var (
		p           model.Project
		archivedInt int
	)

	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Status, &p.Color,
		&archivedInt, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return model.Project{}, fmt.Errorf("scanning project row: %w", err)
	}

	p.Archived = archivedInt != 0
	return p, nil
}
