package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mtran/planhub/internal/model"
)

// AddComment inserts a comment on a task.
func (s *SQLiteStore) AddComment(ctx context.Context, c model.Comment) error {
	if strings.TrimSpace(c.Body) == "" {
		return fmt.Errorf("comment body must not be empty")
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO comments (id, task_id, author_id, body, created_at) VALUES (?, ?, ?, ?, ?)",
		c.ID, c.TaskID, c.AuthorID, c.Body, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("adding comment: %w", err)
	}

	s.notify("comments", OpInsert, c.ID)
	return nil
}

// DeleteComment removes a comment by ID.
func (s *SQLiteStore) DeleteComment(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM comments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting comment %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("comment %s not found", id)
	}

	s.notify("comments", OpDelete, id)
	return nil
}

// GetCommentsForTask returns a task's comments oldest first.
func (s *SQLiteStore) GetCommentsForTask(
	ctx context.Context,
	taskID string,
) ([]model.Comment, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM comments WHERE task_id = ? ORDER BY created_at", taskID)
	if err != nil {
		return nil, fmt.Errorf("querying comments for task %s: %w", taskID, err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// AddAttachment inserts an attachment reference on a task.
func (s *SQLiteStore) AddAttachment(ctx context.Context, a model.Attachment) error {
	if strings.TrimSpace(a.FileName) == "" {
		return fmt.Errorf("attachment file name must not be empty")
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attachments (id, task_id, file_name, file_url, size_bytes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.TaskID, a.FileName, a.FileURL, a.SizeBytes, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("adding attachment: %w", err)
	}

	s.notify("attachments", OpInsert, a.ID)
	return nil
}

// DeleteAttachment removes an attachment reference by ID.
func (s *SQLiteStore) DeleteAttachment(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM attachments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting attachment %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("attachment %s not found", id)
	}

	s.notify("attachments", OpDelete, id)
	return nil
}

// GetAttachmentsForTask returns a task's attachments oldest first.
func (s *SQLiteStore) GetAttachmentsForTask(
	ctx context.Context,
	taskID string,
) ([]model.Attachment, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM attachments WHERE task_id = ? ORDER BY created_at", taskID)
	if err != nil {
		return nil, fmt.Errorf("querying attachments for task %s: %w", taskID, err)
	}
	defer rows.Close()

	var attachments []model.Attachment
	for rows.Next() {
		var a model.Attachment
		err := rows.Scan(&a.ID, &a.TaskID, &a.FileName, &a.FileURL, &a.SizeBytes, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning attachment row: %w", err)
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}
