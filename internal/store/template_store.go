package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mtran/planhub/internal/model"
)

// CreateTemplate inserts a new project template row. Template tasks are
// written separately through ReplaceTemplateTasks.
func (s *SQLiteStore) CreateTemplate(ctx context.Context, tmpl model.ProjectTemplate) error {
	if strings.TrimSpace(tmpl.Name) == "" {
		return fmt.Errorf("template name must not be empty")
	}
	if tmpl.ID == "" {
		tmpl.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	tmpl.CreatedAt = now
	tmpl.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO project_templates (
			id, name, description, category, estimated_duration,
			complexity, owner_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tmpl.ID, tmpl.Name, tmpl.Description, tmpl.Category, tmpl.EstimatedDuration,
		tmpl.Complexity, tmpl.OwnerID, tmpl.CreatedAt, tmpl.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating template: %w", err)
	}

	s.notify("project_templates", OpInsert, tmpl.ID)
	return nil
}

// UpdateTemplate updates a template's scalar fields.
func (s *SQLiteStore) UpdateTemplate(ctx context.Context, tmpl model.ProjectTemplate) error {
	if strings.TrimSpace(tmpl.Name) == "" {
		return fmt.Errorf("template name must not be empty")
	}
	tmpl.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE project_templates SET
			name = ?, description = ?, category = ?,
			estimated_duration = ?, complexity = ?, updated_at = ?
		WHERE id = ?`,
		tmpl.Name, tmpl.Description, tmpl.Category,
		tmpl.EstimatedDuration, tmpl.Complexity, tmpl.UpdatedAt,
		tmpl.ID,
	)
	if err != nil {
		return fmt.Errorf("updating template %s: %w", tmpl.ID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("template %s not found", tmpl.ID)
	}

	s.notify("project_templates", OpUpdate, tmpl.ID)
	return nil
}

// DeleteTemplate removes a template. CASCADE removes its template tasks.
func (s *SQLiteStore) DeleteTemplate(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM project_templates WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting template %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("template %s not found", id)
	}

	s.notify("project_templates", OpDelete, id)
	return nil
}

// GetTemplateByID retrieves a template with its tasks in position order.
func (s *SQLiteStore) GetTemplateByID(
	ctx context.Context,
	id string,
) (*model.ProjectTemplate, error) {
	row := s.db.QueryRowxContext(ctx,
		"SELECT * FROM project_templates WHERE id = ?", id)

	tmpl, err := scanTemplate(row)
	if err != nil {
		return nil, fmt.Errorf("getting template %s: %w", id, err)
	}

	tasks, err := s.getTemplateTasks(ctx, id)
	if err != nil {
		return nil, err
	}
	tmpl.Tasks = tasks

	return &tmpl, nil
}

// GetTemplates retrieves the owner's templates ordered by name, each
// with its tasks loaded.
func (s *SQLiteStore) GetTemplates(
	ctx context.Context,
	ownerID string,
) ([]model.ProjectTemplate, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM project_templates WHERE owner_id = ? ORDER BY name", ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying templates: %w", err)
	}
	defer rows.Close()

	var templates []model.ProjectTemplate
	for rows.Next() {
		tmpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tmpl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range templates {
		tasks, err := s.getTemplateTasks(ctx, templates[i].ID)
		if err != nil {
			return nil, err
		}
		templates[i].Tasks = tasks
	}

	return templates, nil
}

// ReplaceTemplateTasks replaces a template's task list wholesale,
// assigning positions 0..n-1 in slice order. The delete and reinsert
// run in one transaction.
func (s *SQLiteStore) ReplaceTemplateTasks(
	ctx context.Context,
	templateID string,
	tasks []model.TemplateTask,
) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM template_tasks WHERE template_id = ?", templateID); err != nil {
		return fmt.Errorf("clearing template tasks: %w", err)
	}

	for i, tt := range tasks {
		if strings.TrimSpace(tt.Title) == "" {
			return fmt.Errorf("template task %d: title must not be empty", i)
		}
		id := tt.ID
		if id == "" {
			id = uuid.New().String()
		}
		priority := tt.Priority
		if priority == "" {
			priority = model.PriorityMedium
		}
		effort := tt.Effort
		if effort < 1 || effort > 5 {
			effort = model.DefaultEffort
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO template_tasks (
				id, template_id, title, description,
				priority, effort, estimated_hours, position
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, templateID, tt.Title, tt.Description,
			priority, effort, tt.EstimatedHours, i,
		); err != nil {
			return fmt.Errorf("inserting template task %q: %w", tt.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.notify("template_tasks", OpUpdate, templateID)
	return nil
}

// getTemplateTasks loads a template's tasks ordered by position.
func (s *SQLiteStore) getTemplateTasks(
	ctx context.Context,
	templateID string,
) ([]model.TemplateTask, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM template_tasks WHERE template_id = ? ORDER BY position",
		templateID)
	if err != nil {
		return nil, fmt.Errorf("querying template tasks for %s: %w", templateID, err)
	}
	defer rows.Close()

	var tasks []model.TemplateTask
	for rows.Next() {
		var tt model.TemplateTask
		err := rows.Scan(
			&tt.ID, &tt.TemplateID, &tt.Title, &tt.Description,
			&tt.Priority, &tt.Effort, &tt.EstimatedHours, &tt.Position,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning template task row: %w", err)
		}
		tasks = append(tasks, tt)
	}
	return tasks, rows.Err()
}

// scanTemplate scans a template row from either a sqlx.Row or sqlx.Rows.
func scanTemplate(row interface {
	Scan(dest ...interface{}) error
}) (model.ProjectTemplate, error) {
	var tmpl model.ProjectTemplate

	err := row.Scan(
		&tmpl.ID, &tmpl.Name, &tmpl.Description, &tmpl.Category,
		&tmpl.EstimatedDuration, &tmpl.Complexity, &tmpl.OwnerID,
		&tmpl.CreatedAt, &tmpl.UpdatedAt,
	)
	if err != nil {
		return model.ProjectTemplate{}, fmt.Errorf("scanning template row: %w", err)
	}
	return tmpl, nil
}
