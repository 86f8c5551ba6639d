package model

import "time"

// SavedFilter is a named, persisted task filter. The filter itself is
// stored as JSON so the store schema does not chase filter fields.
type SavedFilter struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	OwnerID    string    `json:"owner_id" db:"owner_id"`
	FilterJSON string    `json:"filter_json" db:"filter_json"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// DigestSettings controls the daily digest email for one user.
type DigestSettings struct {
	UserID    string    `json:"user_id" db:"user_id"`
	Enabled   bool      `json:"enabled" db:"enabled"`
	SendHour  int       `json:"send_hour" db:"send_hour"` // 0-23, local time
	Recipient string    `json:"recipient" db:"recipient"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
