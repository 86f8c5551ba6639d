package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mtran/planhub/internal/model"
)

// SaveFilter inserts or replaces a named saved filter.
func (s *SQLiteStore) SaveFilter(ctx context.Context, f model.SavedFilter) error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("saved filter name must not be empty")
	}
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	f.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO saved_filters (id, name, owner_id, filter_json, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		f.ID, f.Name, f.OwnerID, f.FilterJSON, f.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving filter %q: %w", f.Name, err)
	}

	s.notify("saved_filters", OpInsert, f.ID)
	return nil
}

// DeleteSavedFilter removes a saved filter by ID.
func (s *SQLiteStore) DeleteSavedFilter(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM saved_filters WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting saved filter %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("saved filter %s not found", id)
	}

	s.notify("saved_filters", OpDelete, id)
	return nil
}

// GetSavedFilters returns the owner's saved filters ordered by name.
func (s *SQLiteStore) GetSavedFilters(
	ctx context.Context,
	ownerID string,
) ([]model.SavedFilter, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM saved_filters WHERE owner_id = ? ORDER BY name", ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying saved filters: %w", err)
	}
	defer rows.Close()

	var filters []model.SavedFilter
	for rows.Next() {
		var f model.SavedFilter
		if err := rows.Scan(&f.ID, &f.Name, &f.OwnerID, &f.FilterJSON, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning saved filter row: %w", err)
		}
		filters = append(filters, f)
	}
	return filters, rows.Err()
}

// GetDigestSettings returns the user's digest settings, or nil when the
// user has never configured the digest.
func (s *SQLiteStore) GetDigestSettings(
	ctx context.Context,
	userID string,
) (*model.DigestSettings, error) {
	var (
		ds         model.DigestSettings
		enabledInt int
	)
	err := s.db.QueryRowxContext(ctx,
		"SELECT * FROM daily_digest_settings WHERE user_id = ?", userID).Scan(
		&ds.UserID, &enabledInt, &ds.SendHour, &ds.Recipient, &ds.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting digest settings for %s: %w", userID, err)
	}
	ds.Enabled = enabledInt != 0
	return &ds, nil
}

// PutDigestSettings inserts or replaces the user's digest settings.
func (s *SQLiteStore) PutDigestSettings(ctx context.Context, ds model.DigestSettings) error {
	if ds.UserID == "" {
		return fmt.Errorf("digest settings require a user id")
	}
	ds.UpdatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO daily_digest_settings (user_id, enabled, send_hour, recipient, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		ds.UserID, boolToInt(ds.Enabled), ds.SendHour, ds.Recipient, ds.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving digest settings for %s: %w", ds.UserID, err)
	}

	s.notify("daily_digest_settings", OpUpdate, ds.UserID)
	return nil
}
