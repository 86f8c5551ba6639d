package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mtran/planhub/internal/model"
)

// CreateLabel inserts a new label.
func (s *SQLiteStore) CreateLabel(ctx context.Context, label model.Label) error {
	if strings.TrimSpace(label.Name) == "" {
		return fmt.Errorf("label name must not be empty")
	}
	if label.ID == "" {
		label.ID = uuid.New().String()
	}
	label.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO labels (id, name, color, owner_id, created_at) VALUES (?, ?, ?, ?, ?)",
		label.ID, label.Name, label.Color, label.OwnerID, label.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating label: %w", err)
	}

	s.notify("labels", OpInsert, label.ID)
	return nil
}

// UpdateLabel updates a label's name and color.
func (s *SQLiteStore) UpdateLabel(ctx context.Context, label model.Label) error {
	if strings.TrimSpace(label.Name) == "" {
		return fmt.Errorf("label name must not be empty")
	}
	result, err := s.db.ExecContext(ctx,
		"UPDATE labels SET name = ?, color = ? WHERE id = ?",
		label.Name, label.Color, label.ID,
	)
	if err != nil {
		return fmt.Errorf("updating label %s: %w", label.ID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("label %s not found", label.ID)
	}

	s.notify("labels", OpUpdate, label.ID)
	return nil
}

// DeleteLabel removes a label. CASCADE on task_labels removes associations.
func (s *SQLiteStore) DeleteLabel(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM labels WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting label %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("label %s not found", id)
	}

	s.notify("labels", OpDelete, id)
	return nil
}

// GetLabels retrieves the owner's labels ordered by name.
func (s *SQLiteStore) GetLabels(
	ctx context.Context,
	ownerID string,
) ([]model.Label, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM labels WHERE owner_id = ? ORDER BY name", ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying labels: %w", err)
	}
	defer rows.Close()

	var labels []model.Label
	for rows.Next() {
		var l model.Label
		if err := rows.Scan(&l.ID, &l.Name, &l.Color, &l.OwnerID, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning label row: %w", err)
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

// GetLabelsForTask retrieves all labels attached to a task.
func (s *SQLiteStore) GetLabelsForTask(
	ctx context.Context,
	taskID string,
) ([]model.Label, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT l.* FROM labels l
		INNER JOIN task_labels tl ON l.id = tl.label_id
		WHERE tl.task_id = ?
		ORDER BY l.name`, taskID)
	if err != nil {
		return nil, fmt.Errorf("querying labels for task %s: %w", taskID, err)
	}
	defer rows.Close()

	var labels []model.Label
	for rows.Next() {
		var l model.Label
		if err := rows.Scan(&l.ID, &l.Name, &l.Color, &l.OwnerID, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning label row: %w", err)
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

// SetTaskLabels replaces all label associations for a task. Passing an
// empty slice clears the set. The delete and insert run in one
// transaction, so readers never observe a half-replaced set.
func (s *SQLiteStore) SetTaskLabels(
	ctx context.Context,
	taskID string,
	labelIDs []string,
) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Remove existing associations.
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM task_labels WHERE task_id = ?", taskID); err != nil {
		return fmt.Errorf("clearing task labels: %w", err)
	}

	// Insert new associations.
	for _, labelID := range labelIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO task_labels (task_id, label_id) VALUES (?, ?)",
			taskID, labelID); err != nil {
			return fmt.Errorf("setting label %s on task %s: %w", labelID, taskID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.notify("task_labels", OpUpdate, taskID)
	return nil
}
