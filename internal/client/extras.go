package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/mtran/planhub/internal/model"
	"github.com/mtran/planhub/internal/store"
)

// === Labels ===

// ListLabels returns the current user's labels.
func (c *Client) ListLabels(ctx context.Context) ([]model.Label, error) {
	userID, err := c.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	labels, err := c.store.GetLabels(ctx, userID)
	if err != nil {
		return nil, remoteErr("listing labels", err)
	}
	return labels, nil
}

// CreateLabel inserts a label owned by the current user.
func (c *Client) CreateLabel(ctx context.Context, name, color string) (*model.Label, error) {
	userID, err := c.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	label := model.Label{ID: uuid.New().String(), Name: name, Color: color, OwnerID: userID}
	if err := c.store.CreateLabel(ctx, label); err != nil {
		return nil, remoteErr("creating label", err)
	}
	return &label, nil
}

// UpdateLabel renames or recolors a label.
func (c *Client) UpdateLabel(ctx context.Context, label model.Label) error {
	if _, err := c.requireUser(ctx); err != nil {
		return err
	}
	if err := c.store.UpdateLabel(ctx, label); err != nil {
		return remoteErr("updating label", err)
	}
	return nil
}

// DeleteLabel removes a label and its task associations.
func (c *Client) DeleteLabel(ctx context.Context, id string) error {
	if _, err := c.requireUser(ctx); err != nil {
		return err
	}
	if err := c.store.DeleteLabel(ctx, id); err != nil {
		return remoteErr("deleting label", err)
	}
	return nil
}

// === Comments and attachments ===

// AddComment attaches a comment to a task, authored by the current user.
func (c *Client) AddComment(ctx context.Context, taskID, body string) (*model.Comment, error) {
	userID, err := c.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	comment := model.Comment{ID: uuid.New().String(), TaskID: taskID, AuthorID: userID, Body: body}
	if err := c.store.AddComment(ctx, comment); err != nil {
		return nil, remoteErr("adding comment", err)
	}
	return &comment, nil
}

// DeleteComment removes a comment.
func (c *Client) DeleteComment(ctx context.Context, id string) error {
	if _, err := c.requireUser(ctx); err != nil {
		return err
	}
	if err := c.store.DeleteComment(ctx, id); err != nil {
		return remoteErr("deleting comment", err)
	}
	return nil
}

// ListComments returns a task's comments oldest first.
func (c *Client) ListComments(ctx context.Context, taskID string) ([]model.Comment, error) {
	comments, err := c.store.GetCommentsForTask(ctx, taskID)
	if err != nil {
		return nil, remoteErr("listing comments", err)
	}
	return comments, nil
}

// AddAttachment records a file reference on a task.
func (c *Client) AddAttachment(ctx context.Context, a model.Attachment) (*model.Attachment, error) {
	if _, err := c.requireUser(ctx); err != nil {
		return nil, err
	}
	if err := c.store.AddAttachment(ctx, a); err != nil {
		return nil, remoteErr("adding attachment", err)
	}
	return &a, nil
}

// DeleteAttachment removes a file reference.
func (c *Client) DeleteAttachment(ctx context.Context, id string) error {
	if _, err := c.requireUser(ctx); err != nil {
		return err
	}
	if err := c.store.DeleteAttachment(ctx, id); err != nil {
		return remoteErr("deleting attachment", err)
	}
	return nil
}

// ListAttachments returns a task's attachments oldest first.
func (c *Client) ListAttachments(ctx context.Context, taskID string) ([]model.Attachment, error) {
	attachments, err := c.store.GetAttachmentsForTask(ctx, taskID)
	if err != nil {
		return nil, remoteErr("listing attachments", err)
	}
	return attachments, nil
}

// === Saved filters ===

// SaveFilter persists a named task filter for the current user.
func (c *Client) SaveFilter(ctx context.Context, name string, filter store.TaskFilter) (*model.SavedFilter, error) {
	userID, err := c.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(filter)
	if err != nil {
		return nil, fmt.Errorf("encoding filter %q: %w", name, err)
	}

	saved := model.SavedFilter{ID: uuid.New().String(), Name: name, OwnerID: userID, FilterJSON: string(raw)}
	if err := c.store.SaveFilter(ctx, saved); err != nil {
		return nil, remoteErr("saving filter", err)
	}
	return &saved, nil
}

// ListSavedFilters returns the current user's saved filters.
func (c *Client) ListSavedFilters(ctx context.Context) ([]model.SavedFilter, error) {
	userID, err := c.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	filters, err := c.store.GetSavedFilters(ctx, userID)
	if err != nil {
		return nil, remoteErr("listing saved filters", err)
	}
	return filters, nil
}

// DeleteSavedFilter removes a saved filter.
func (c *Client) DeleteSavedFilter(ctx context.Context, id string) error {
	if _, err := c.requireUser(ctx); err != nil {
		return err
	}
	if err := c.store.DeleteSavedFilter(ctx, id); err != nil {
		return remoteErr("deleting saved filter", err)
	}
	return nil
}

// DecodeSavedFilter unpacks a saved filter back into a TaskFilter.
func DecodeSavedFilter(f model.SavedFilter) (store.TaskFilter, error) {
	var filter store.TaskFilter
	if err := json.Unmarshal([]byte(f.FilterJSON), &filter); err != nil {
		return store.TaskFilter{}, fmt.Errorf("decoding saved filter %q: %w", f.Name, err)
	}
	return filter, nil
}

// === Daily digest settings ===

// DigestSettings returns the current user's digest settings, falling
// back to disabled defaults when none are stored.
func (c *Client) DigestSettings(ctx context.Context) (*model.DigestSettings, error) {
	userID, err := c.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := c.store.GetDigestSettings(ctx, userID)
	if err != nil {
		return nil, remoteErr("getting digest settings", err)
	}
	if settings == nil {
		settings = &model.DigestSettings{UserID: userID, SendHour: 8}
	}
	return settings, nil
}

// SetDigestSettings stores the current user's digest settings.
func (c *Client) SetDigestSettings(ctx context.Context, s model.DigestSettings) error {
	userID, err := c.requireUser(ctx)
	if err != nil {
		return err
	}
	s.UserID = userID
	if err := c.store.PutDigestSettings(ctx, s); err != nil {
		return remoteErr("saving digest settings", err)
	}
	return nil
}
