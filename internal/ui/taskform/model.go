package taskform

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mtran/planhub/internal/client"
	"github.com/mtran/planhub/internal/model"
	"github.com/mtran/planhub/internal/theme"
)

// TaskCreatedMsg is dispatched when a draft is submitted. The draft
// only becomes a real task once the parent persists this input.
type TaskCreatedMsg struct {
	Input client.TaskInput
}

// TaskUpdatedMsg is dispatched when an existing task is edited.
type TaskUpdatedMsg struct {
	ID    string
	Patch client.TaskPatch
}

// TaskFormCancelMsg is dispatched when the user cancels the form. Any
// draft backing the form is simply dropped.
type TaskFormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title          string
	description    string
	status         string
	priority       string
	effort         int
	estimatedHours string
	dueDate        string
	projectID      string
	labelIDs       []string
}

// Model is the Bubble Tea model for the task create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	draft    model.Task
	editMode bool
	editID   string
	projects []model.Project
	labels   []model.Label
	width    int
	height   int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// SetOptions sets the available projects and labels for the form selectors.
func (m *Model) SetOptions(projects []model.Project, labels []model.Label) {
	m.projects = projects
	m.labels = labels
}

// StartCreate seeds the form from a draft task. The draft carries the
// new-task defaults and a placeholder id; it is discarded on cancel and
// replaced by the stored task on save.
func (m *Model) StartCreate(draft model.Task) tea.Cmd {
	m.editMode = false
	m.editID = ""
	m.draft = draft
	m.fb.title = draft.Title
	m.fb.description = draft.Description
	m.fb.status = draft.Status
	m.fb.priority = draft.Priority
	m.fb.effort = draft.Effort
	m.fb.estimatedHours = formatHours(draft.EstimatedHours)
	m.fb.dueDate = ""
	m.fb.projectID = ""
	m.fb.labelIDs = nil
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing task.
func (m *Model) StartEdit(task model.Task) tea.Cmd {
	m.editMode = true
	m.editID = task.ID
	m.fb.title = task.Title
	m.fb.description = task.Description
	m.fb.status = task.Status
	m.fb.priority = task.Priority
	m.fb.effort = task.Effort
	m.fb.estimatedHours = formatHours(task.EstimatedHours)
	if task.DueDate != nil {
		m.fb.dueDate = task.DueDate.Format("2006-01-02")
	} else {
		m.fb.dueDate = ""
	}
	if task.ProjectID != nil {
		m.fb.projectID = *task.ProjectID
	} else {
		m.fb.projectID = ""
	}
	m.fb.labelIDs = nil
	for _, l := range task.Labels {
		m.fb.labelIDs = append(m.fb.labelIDs, l.ID)
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Draft returns the draft seeded by StartCreate.
func (m Model) Draft() model.Task {
	return m.draft
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return TaskFormCancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Task"
	if m.editMode {
		titleText = "Edit Task"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := m.coreFields()
	fields = append(fields, m.projectField())
	if labelField := m.labelField(); labelField != nil {
		fields = append(fields, labelField)
	}
	if m.editMode {
		fields = append(fields,
			huh.NewSelect[string]().
				Title("Status").
				Options(
					huh.NewOption("Pending", model.TaskStatusPending),
					huh.NewOption("In Progress", model.TaskStatusInProgress),
					huh.NewOption("Completed", model.TaskStatusCompleted),
					huh.NewOption("Cancelled", model.TaskStatusCancelled),
				).
				Value(&m.fb.status),
		)
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) coreFields() []huh.Field {
	return []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("What needs to be done?").
			Value(&m.fb.title).
			Validate(validateRequired("Title")),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			Value(&m.fb.description),
		huh.NewSelect[string]().
			Title("Priority").
			Options(
				huh.NewOption("Urgent", model.PriorityUrgent),
				huh.NewOption("High", model.PriorityHigh),
				huh.NewOption("Medium", model.PriorityMedium),
				huh.NewOption("Low", model.PriorityLow),
			).
			Value(&m.fb.priority),
		huh.NewSelect[int]().
			Title("Effort").
			Options(
				huh.NewOption("1 - Trivial", 1),
				huh.NewOption("2 - Small", 2),
				huh.NewOption("3 - Medium", 3),
				huh.NewOption("4 - Large", 4),
				huh.NewOption("5 - Huge", 5),
			).
			Value(&m.fb.effort),
		huh.NewInput().
			Title("Estimated Hours").
			Placeholder("8").
			Value(&m.fb.estimatedHours).
			Validate(validateOptionalHours),
		huh.NewInput().
			Title("Due Date").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&m.fb.dueDate).
			Validate(validateOptionalDate),
	}
}

func (m *Model) projectField() huh.Field {
	opts := []huh.Option[string]{
		huh.NewOption("None (Inbox)", ""),
	}
	for _, p := range m.projects {
		if !p.Archived {
			opts = append(opts, huh.NewOption(p.Name, p.ID))
		}
	}
	return huh.NewSelect[string]().
		Title("Project").
		Options(opts...).
		Value(&m.fb.projectID)
}

func (m *Model) labelField() huh.Field {
	if len(m.labels) == 0 {
		return nil
	}
	opts := make([]huh.Option[string], len(m.labels))
	for i, l := range m.labels {
		opts[i] = huh.NewOption(l.Name, l.ID)
	}
	return huh.NewMultiSelect[string]().
		Title("Labels").
		Options(opts...).
		Value(&m.fb.labelIDs)
}

func (m Model) handleSubmit() tea.Cmd {
	var dueDate *time.Time
	if m.fb.dueDate != "" {
		if t, err := time.Parse("2006-01-02", strings.TrimSpace(m.fb.dueDate)); err == nil {
			dueDate = &t
		}
	}

	hours := parseHours(m.fb.estimatedHours)

	if m.editMode {
		id := m.editID
		labelIDs := append([]string{}, m.fb.labelIDs...)
		patch := client.TaskPatch{
			Title:          &m.fb.title,
			Description:    &m.fb.description,
			Status:         &m.fb.status,
			Priority:       &m.fb.priority,
			Effort:         &m.fb.effort,
			EstimatedHours: &hours,
			LabelIDs:       &labelIDs,
		}
		if dueDate != nil {
			patch.DueDate = dueDate
		} else {
			patch.ClearDueDate = true
		}
		if m.fb.projectID != "" {
			patch.ProjectID = &m.fb.projectID
		} else {
			patch.ClearProject = true
		}
		return func() tea.Msg { return TaskUpdatedMsg{ID: id, Patch: patch} }
	}

	input := client.TaskInput{
		Title:          m.fb.title,
		Description:    m.fb.description,
		Priority:       m.fb.priority,
		Effort:         m.fb.effort,
		EstimatedHours: hours,
		DueDate:        dueDate,
		LabelIDs:       m.fb.labelIDs,
	}
	if m.fb.projectID != "" {
		projectID := m.fb.projectID
		input.ProjectID = &projectID
	}
	return func() tea.Msg { return TaskCreatedMsg{Input: input} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func formatHours(h float64) string {
	if h == 0 {
		return ""
	}
	return strconv.FormatFloat(h, 'f', -1, 64)
}

func parseHours(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	h, err := strconv.ParseFloat(s, 64)
	if err != nil || h < 0 {
		return 0
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	_, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}

func validateOptionalHours(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	h, err := strconv.ParseFloat(s, 64)
	if err != nil || h < 0 {
		return fmt.Errorf("hours must be a non-negative number")
	}
	return nil
}
