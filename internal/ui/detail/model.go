package detail

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mtran/planhub/internal/client"
	"github.com/mtran/planhub/internal/keys"
	"github.com/mtran/planhub/internal/model"
	"github.com/mtran/planhub/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// DetailLoadedMsg carries the loaded task and its comments.
type DetailLoadedMsg struct {
	Task     *model.Task
	Comments []model.Comment
	Err      error
}

// EditRequestMsg asks the parent to open the edit form for the task.
type EditRequestMsg struct {
	Task model.Task
}

// TaskMutatedMsg signals that the task changed (status, comments).
type TaskMutatedMsg struct{}

type commentPostedMsg struct{ err error }

// Model is the task detail view component.
type Model struct {
	task         *model.Task
	comments     []model.Comment
	viewport     viewport.Model
	client       *client.Client
	keys         *keys.KeyMap
	commentMode  bool
	commentInput textinput.Model
	width        int
	height       int
	loading      bool
	loadErr      error
}

// New creates a new detail view model.
func New(c *client.Client, k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	ci := textinput.New()
	ci.Placeholder = "write a comment..."
	ci.Prompt = "> "
	ci.Width = width - 6

	return Model{
		viewport:     vp,
		client:       c,
		keys:         k,
		commentInput: ci,
		width:        width,
		height:       height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Load returns a command that fetches the task and its comments.
func (m Model) Load(taskID string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx := context.Background()
		task, err := c.GetTask(ctx, taskID)
		if err != nil {
			return DetailLoadedMsg{Err: err}
		}
		comments, err := c.ListComments(ctx, taskID)
		if err != nil {
			return DetailLoadedMsg{Task: task, Err: err}
		}
		return DetailLoadedMsg{Task: task, Comments: comments}
	}
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DetailLoadedMsg:
		m.task = msg.Task
		m.comments = msg.Comments
		m.loadErr = msg.Err
		m.loading = false
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
		return m, nil

	case commentPostedMsg:
		m.commentMode = false
		m.commentInput.Reset()
		if msg.err != nil {
			m.loadErr = msg.err
			return m, nil
		}
		if m.task != nil {
			return m, tea.Batch(
				m.Load(m.task.ID),
				func() tea.Msg { return TaskMutatedMsg{} },
			)
		}
		return m, nil

	case tea.KeyMsg:
		if m.commentMode {
			return m.handleCommentKeys(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }

		case key.Matches(msg, m.keys.EditTask):
			if m.task != nil {
				task := *m.task
				return m, func() tea.Msg { return EditRequestMsg{Task: task} }
			}

		case key.Matches(msg, m.keys.Complete):
			if m.task != nil {
				return m, m.toggleComplete()
			}

		case msg.String() == "c":
			if m.task != nil {
				m.commentMode = true
				m.commentInput.Reset()
				return m, m.commentInput.Focus()
			}
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleCommentKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		body := strings.TrimSpace(m.commentInput.Value())
		if body == "" {
			m.commentMode = false
			return m, nil
		}
		c := m.client
		taskID := m.task.ID
		return m, func() tea.Msg {
			_, err := c.AddComment(context.Background(), taskID, body)
			return commentPostedMsg{err: err}
		}

	case "esc":
		m.commentMode = false
		m.commentInput.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.commentInput, cmd = m.commentInput.Update(msg)
	return m, cmd
}

// toggleComplete flips the task between completed and pending.
func (m Model) toggleComplete() tea.Cmd {
	c := m.client
	task := *m.task
	return func() tea.Msg {
		status := model.TaskStatusCompleted
		if task.Status == model.TaskStatusCompleted {
			status = model.TaskStatusPending
		}
		_, err := c.UpdateTask(context.Background(), task.ID, client.TaskPatch{Status: &status})
		if err != nil {
			return commentPostedMsg{err: err}
		}
		return commentPostedMsg{}
	}
}

// View renders the detail view.
func (m Model) View() string {
	if m.loading {
		loadingStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return loadingStyle.Render("Loading task...")
	}

	if m.task == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		if m.loadErr != nil {
			return emptyStyle.Render("Could not load task.\n" + m.loadErr.Error())
		}
		return emptyStyle.Render("No task selected")
	}

	if m.commentMode {
		bar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.commentInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), bar)
	}

	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.task == nil {
		return ""
	}

	task := m.task
	var sections []string

	// Title
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(task.Title))

	// Badges line: status + priority + effort
	statusBadge := theme.StatusStyle(task.Status).Render(task.Status)
	priBadge := theme.PriorityStyle(task.Priority).Render(task.Priority)
	effortBadge := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(fmt.Sprintf("effort %d · %.1fh", task.Effort, task.EstimatedHours))

	badgeLine := lipgloss.JoinHorizontal(
		lipgloss.Top, statusBadge, "  ", priBadge, "  ", effortBadge,
	)
	sections = append(sections, badgeLine)
	sections = append(sections, "")

	// Metadata table
	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	if task.DueDate != nil {
		due := task.DueDate.Format("2006-01-02")
		if task.IsOverdue() {
			due += theme.OverloadStyle.Render("  OVERDUE")
		}
		sections = append(sections, fmt.Sprintf(
			"%s       %s", metaStyle.Render("Due:"), valStyle.Render(due),
		))
	}
	if task.SnoozedUntil != nil {
		sections = append(sections, fmt.Sprintf(
			"%s   %s",
			metaStyle.Render("Snoozed:"),
			valStyle.Render(task.SnoozedUntil.Format("2006-01-02 15:04")),
		))
	}
	if len(task.Labels) > 0 {
		names := make([]string, len(task.Labels))
		for i, l := range task.Labels {
			names[i] = l.Name
		}
		sections = append(sections, fmt.Sprintf(
			"%s    %s",
			metaStyle.Render("Labels:"),
			valStyle.Render(strings.Join(names, ", ")),
		))
	}
	if !task.CreatedAt.IsZero() {
		sections = append(sections, fmt.Sprintf(
			"%s   %s",
			metaStyle.Render("Created:"),
			valStyle.Render(task.CreatedAt.Format("2006-01-02 15:04")),
		))
	}
	if !task.UpdatedAt.IsZero() {
		sections = append(sections, fmt.Sprintf(
			"%s   %s",
			metaStyle.Render("Updated:"),
			valStyle.Render(task.UpdatedAt.Format("2006-01-02 15:04")),
		))
	}

	// Separator
	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", minInt(m.width-4, 80)))
	sections = append(sections, "")
	sections = append(sections, separator)
	sections = append(sections, "")

	// Description
	descHeaderStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	sections = append(sections, descHeaderStyle.Render("Description"))

	body := task.Description
	if body == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No description")
	}
	sections = append(sections, body)

	// Comments section
	if len(m.comments) > 0 {
		sections = append(sections, "")
		sections = append(sections, separator)
		sections = append(sections, "")

		commentHeaderStyle := lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorWhite)

		sections = append(sections, commentHeaderStyle.Render(
			fmt.Sprintf("Comments (%d)", len(m.comments)),
		))
		sections = append(sections, "")

		authorStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBlue)
		timeStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)

		for _, c := range m.comments {
			header := fmt.Sprintf(
				"%s  %s",
				authorStyle.Render(c.AuthorID),
				timeStyle.Render(c.CreatedAt.Format("2006-01-02 15:04")),
			)
			sections = append(sections, header)
			sections = append(sections, c.Body)
			sections = append(sections, "")
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.commentInput.Width = width - 6
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
