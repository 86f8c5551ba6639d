package client

import (
	"context"

	"github.com/google/uuid"

	"github.com/mtran/planhub/internal/model"
	"github.com/mtran/planhub/internal/store"
)

// TemplateInput carries the fields accepted when creating or updating
// a project template. Tasks are stored in slice order.
type TemplateInput struct {
	Name              string
	Description       string
	Category          string
	EstimatedDuration int // days
	Complexity        string
	Tasks             []model.TemplateTask
}

// ListTemplates returns the current user's templates with their tasks.
func (c *Client) ListTemplates(ctx context.Context) ([]model.ProjectTemplate, error) {
	userID, err := c.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	templates, err := c.store.GetTemplates(ctx, userID)
	if err != nil {
		return nil, remoteErr("listing templates", err)
	}
	return templates, nil
}

// GetTemplate returns a single template with its tasks in order.
func (c *Client) GetTemplate(ctx context.Context, id string) (*model.ProjectTemplate, error) {
	tmpl, err := c.store.GetTemplateByID(ctx, id)
	if err != nil {
		return nil, remoteErr("getting template", err)
	}
	return tmpl, nil
}

// CreateTemplate inserts the template row and then its tasks, the same
// two-phase pattern as task creation, with a compensating delete when
// the child step fails.
func (c *Client) CreateTemplate(ctx context.Context, input TemplateInput) (*model.ProjectTemplate, error) {
	userID, err := c.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	tmpl := model.ProjectTemplate{
		ID:                uuid.New().String(),
		Name:              input.Name,
		Description:       input.Description,
		Category:          input.Category,
		EstimatedDuration: input.EstimatedDuration,
		Complexity:        input.Complexity,
		OwnerID:           userID,
	}
	if err := c.store.CreateTemplate(ctx, tmpl); err != nil {
		return nil, remoteErr("creating template", err)
	}

	if len(input.Tasks) > 0 {
		if err := c.store.ReplaceTemplateTasks(ctx, tmpl.ID, input.Tasks); err != nil {
			if compErr := c.store.DeleteTemplate(ctx, tmpl.ID); compErr != nil {
				return nil, &PartialCompositeFailure{
					Op:        "creating template tasks",
					EntityID:  tmpl.ID,
					StepsDone: 1,
					Err:       err,
				}
			}
			return nil, remoteErr("creating template tasks", err)
		}
	}

	created, err := c.store.GetTemplateByID(ctx, tmpl.ID)
	if err != nil {
		return nil, remoteErr("reading created template", err)
	}
	return created, nil
}

// UpdateTemplate rewrites the template's scalar fields and replaces
// its task list wholesale (delete all, then reinsert).
func (c *Client) UpdateTemplate(ctx context.Context, id string, input TemplateInput) (*model.ProjectTemplate, error) {
	if _, err := c.requireUser(ctx); err != nil {
		return nil, err
	}

	current, err := c.store.GetTemplateByID(ctx, id)
	if err != nil {
		return nil, remoteErr("getting template", err)
	}

	current.Name = input.Name
	current.Description = input.Description
	current.Category = input.Category
	current.EstimatedDuration = input.EstimatedDuration
	current.Complexity = input.Complexity

	if err := c.store.UpdateTemplate(ctx, *current); err != nil {
		return nil, remoteErr("updating template", err)
	}
	if err := c.store.ReplaceTemplateTasks(ctx, id, input.Tasks); err != nil {
		return nil, remoteErr("replacing template tasks", err)
	}

	updated, err := c.store.GetTemplateByID(ctx, id)
	if err != nil {
		return nil, remoteErr("reading updated template", err)
	}
	return updated, nil
}

// DeleteTemplate removes a template and its tasks.
func (c *Client) DeleteTemplate(ctx context.Context, id string) error {
	if _, err := c.requireUser(ctx); err != nil {
		return err
	}
	if err := c.store.DeleteTemplate(ctx, id); err != nil {
		return remoteErr("deleting template", err)
	}
	return nil
}

// CreateProjectFromTemplate creates a project, then expands each
// template task into a real task bound to it: status forced to
// pending, template order preserved via sort_order 0..n-1. Each task
// insert is independent; a failure partway leaves the project
// partially populated and is reported as PartialCompositeFailure.
// Re-applying the same template duplicates its tasks.
func (c *Client) CreateProjectFromTemplate(
	ctx context.Context,
	templateID string,
	input ProjectInput,
) (*model.Project, error) {
	userID, err := c.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	tmpl, err := c.store.GetTemplateByID(ctx, templateID)
	if err != nil {
		return nil, remoteErr("getting template", err)
	}

	project := model.Project{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Description: input.Description,
		Status:      input.Status,
		Color:       input.Color,
		OwnerID:     userID,
	}
	if project.Status == "" {
		project.Status = model.ProjectStatusActive
	}
	if err := c.store.CreateProject(ctx, project); err != nil {
		return nil, remoteErr("creating project", err)
	}

	for i, tt := range tmpl.Tasks {
		task := model.Task{
			Title:          tt.Title,
			Description:    tt.Description,
			Status:         model.TaskStatusPending,
			Priority:       tt.Priority,
			Effort:         tt.Effort,
			EstimatedHours: tt.EstimatedHours,
			SortOrder:      i,
			ProjectID:      &project.ID,
			UserID:         userID,
		}
		if err := c.store.CreateTask(ctx, task); err != nil {
			return nil, &PartialCompositeFailure{
				Op:        "expanding template into project",
				EntityID:  project.ID,
				StepsDone: 1 + i,
				Err:       err,
			}
		}
	}

	created, err := c.store.GetProjectByID(ctx, project.ID)
	if err != nil {
		return nil, remoteErr("reading created project", err)
	}
	return created, nil
}

// SaveProjectAsTemplate snapshots a project's current tasks into a new
// template, dropping status and dates. The snapshot is one-way; later
// project edits do not touch the template.
func (c *Client) SaveProjectAsTemplate(
	ctx context.Context,
	projectID string,
	name string,
	description string,
) (*model.ProjectTemplate, error) {
	if _, err := c.requireUser(ctx); err != nil {
		return nil, err
	}

	tasks, err := c.store.GetTasks(ctx, store.TaskFilter{
		ProjectIDs: []string{projectID},
	})
	if err != nil {
		return nil, remoteErr("listing project tasks", err)
	}

	templateTasks := make([]model.TemplateTask, 0, len(tasks))
	for _, t := range tasks {
		templateTasks = append(templateTasks, model.TemplateTask{
			Title:          t.Title,
			Description:    t.Description,
			Priority:       t.Priority,
			Effort:         t.Effort,
			EstimatedHours: t.EstimatedHours,
		})
	}

	return c.CreateTemplate(ctx, TemplateInput{
		Name:        name,
		Description: description,
		Tasks:       templateTasks,
	})
}
