package store

import (
	"context"
	"time"

	"github.com/mtran/planhub/internal/model"
)

// TaskFilter controls filtering, sorting, and pagination for task
// queries. All populated fields compose with AND semantics; multiple
// values within one field compose with IN (OR) semantics.
type TaskFilter struct {
	Statuses   []string
	Priorities []string
	ProjectIDs []string
	LabelIDs   []string // tasks carrying any of these labels
	Query      *string  // substring match over title + description
	DueFrom    *time.Time
	DueTo      *time.Time
	EffortMin  int  // 0 = unset
	EffortMax  int  // 0 = unset
	Overdue    bool // due_date < now AND status != completed
	Snoozed    bool // snoozed_until is set
	ParentID   *string

	SortBy   string // "sort_order" (default), "priority", "due_date", "created_at", "updated_at", "title"
	SortDesc bool
	Limit    int
	Offset   int
}

// Store is the persistence interface over the planhub tables. It is
// the boundary the data-access client talks through; everything behind
// it is owned by the backing database.
type Store interface {
	// === Projects ===

	CreateProject(ctx context.Context, project model.Project) error
	UpdateProject(ctx context.Context, project model.Project) error
	DeleteProject(ctx context.Context, id string) error
	ArchiveProject(ctx context.Context, id string) error
	RestoreProject(ctx context.Context, id string) error
	GetProjectByID(ctx context.Context, id string) (*model.Project, error)
	GetProjects(ctx context.Context, ownerID string, includeArchived bool) ([]model.Project, error)

	// === Tasks ===

	CreateTask(ctx context.Context, task model.Task) error
	UpdateTask(ctx context.Context, task model.Task) error
	DeleteTask(ctx context.Context, id string) error
	GetTaskByID(ctx context.Context, id string) (*model.Task, error)
	GetTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error)
	GetTaskCount(ctx context.Context, filter TaskFilter) (int, error)

	// === Labels ===

	CreateLabel(ctx context.Context, label model.Label) error
	UpdateLabel(ctx context.Context, label model.Label) error
	DeleteLabel(ctx context.Context, id string) error
	GetLabels(ctx context.Context, ownerID string) ([]model.Label, error)
	GetLabelsForTask(ctx context.Context, taskID string) ([]model.Label, error)
	SetTaskLabels(ctx context.Context, taskID string, labelIDs []string) error

	// === Project templates ===

	CreateTemplate(ctx context.Context, tmpl model.ProjectTemplate) error
	UpdateTemplate(ctx context.Context, tmpl model.ProjectTemplate) error
	DeleteTemplate(ctx context.Context, id string) error
	GetTemplateByID(ctx context.Context, id string) (*model.ProjectTemplate, error)
	GetTemplates(ctx context.Context, ownerID string) ([]model.ProjectTemplate, error)
	ReplaceTemplateTasks(ctx context.Context, templateID string, tasks []model.TemplateTask) error

	// === Comments and attachments ===

	AddComment(ctx context.Context, c model.Comment) error
	DeleteComment(ctx context.Context, id string) error
	GetCommentsForTask(ctx context.Context, taskID string) ([]model.Comment, error)
	AddAttachment(ctx context.Context, a model.Attachment) error
	DeleteAttachment(ctx context.Context, id string) error
	GetAttachmentsForTask(ctx context.Context, taskID string) ([]model.Attachment, error)

	// === Saved filters ===

	SaveFilter(ctx context.Context, f model.SavedFilter) error
	DeleteSavedFilter(ctx context.Context, id string) error
	GetSavedFilters(ctx context.Context, ownerID string) ([]model.SavedFilter, error)

	// === Daily digest settings ===

	GetDigestSettings(ctx context.Context, userID string) (*model.DigestSettings, error)
	PutDigestSettings(ctx context.Context, s model.DigestSettings) error

	// Feed exposes the change feed publishing insert/update/delete
	// events for every table above.
	Feed() *Feed
}
