package model

import "time"

// Comment is a note attached to a task. Its lifecycle is bound to the
// parent task (CASCADE delete).
type Comment struct {
	ID        string    `json:"id" db:"id"`
	TaskID    string    `json:"task_id" db:"task_id"`
	AuthorID  string    `json:"author_id" db:"author_id"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Attachment is a file reference attached to a task. The file contents
// live outside the store; only the pointer is tracked here.
type Attachment struct {
	ID        string    `json:"id" db:"id"`
	TaskID    string    `json:"task_id" db:"task_id"`
	FileName  string    `json:"file_name" db:"file_name"`
	FileURL   string    `json:"file_url" db:"file_url"`
	SizeBytes int64     `json:"size_bytes" db:"size_bytes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
