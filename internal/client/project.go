package client

import (
	"context"

	"github.com/google/uuid"

	"github.com/mtran/planhub/internal/model"
)

// ProjectInput carries the fields accepted when creating a project.
type ProjectInput struct {
	Name        string
	Description string
	Status      string // defaults to active
	Color       string
}

// ProjectPatch carries a partial project update. Nil fields are left
// untouched.
type ProjectPatch struct {
	Name        *string
	Description *string
	Status      *string
	Color       *string
	Archived    *bool
}

// ListProjects returns the current user's non-archived projects,
// newest first, each with embedded task summaries.
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	userID, err := c.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	projects, err := c.store.GetProjects(ctx, userID, false)
	if err != nil {
		return nil, remoteErr("listing projects", err)
	}
	return projects, nil
}

// GetProject returns a single project by id, archived or not.
func (c *Client) GetProject(ctx context.Context, id string) (*model.Project, error) {
	project, err := c.store.GetProjectByID(ctx, id)
	if err != nil {
		return nil, remoteErr("getting project", err)
	}
	return project, nil
}

// CreateProject inserts a project owned by the current user and
// returns it with an empty task list.
func (c *Client) CreateProject(ctx context.Context, input ProjectInput) (*model.Project, error) {
	userID, err := c.requireUser(ctx)
	if err != nil {
		return nil, err
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

	created, err := c.store.GetProjectByID(ctx, project.ID)
	if err != nil {
		return nil, remoteErr("reading created project", err)
	}
	return created, nil
}

// UpdateProject applies a partial update and returns the fresh row.
func (c *Client) UpdateProject(ctx context.Context, id string, patch ProjectPatch) (*model.Project, error) {
	if _, err := c.requireUser(ctx); err != nil {
		return nil, err
	}

	current, err := c.store.GetProjectByID(ctx, id)
	if err != nil {
		return nil, remoteErr("getting project", err)
	}

	if patch.Name != nil {
		current.Name = *patch.Name
	}
	if patch.Description != nil {
		current.Description = *patch.Description
	}
	if patch.Status != nil {
		current.Status = *patch.Status
	}
	if patch.Color != nil {
		current.Color = *patch.Color
	}
	if patch.Archived != nil {
		current.Archived = *patch.Archived
	}

	if err := c.store.UpdateProject(ctx, *current); err != nil {
		return nil, remoteErr("updating project", err)
	}

	updated, err := c.store.GetProjectByID(ctx, id)
	if err != nil {
		return nil, remoteErr("reading updated project", err)
	}
	return updated, nil
}

// DeleteProject removes a project and its tasks.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	if _, err := c.requireUser(ctx); err != nil {
		return err
	}
	if err := c.store.DeleteProject(ctx, id); err != nil {
		return remoteErr("deleting project", err)
	}
	return nil
}

// ArchiveProject soft-deletes a project: the row stays retrievable by
// id but disappears from ListProjects.
func (c *Client) ArchiveProject(ctx context.Context, id string) error {
	if _, err := c.requireUser(ctx); err != nil {
		return err
	}
	if err := c.store.ArchiveProject(ctx, id); err != nil {
		return remoteErr("archiving project", err)
	}
	return nil
}

// RestoreProject clears a project's archived flag.
func (c *Client) RestoreProject(ctx context.Context, id string) error {
	if _, err := c.requireUser(ctx); err != nil {
		return err
	}
	if err := c.store.RestoreProject(ctx, id); err != nil {
		return remoteErr("restoring project", err)
	}
	return nil
}
