package tasklist

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mtran/planhub/internal/cache"
	"github.com/mtran/planhub/internal/client"
	"github.com/mtran/planhub/internal/keys"
	"github.com/mtran/planhub/internal/model"
	"github.com/mtran/planhub/internal/store"
	"github.com/mtran/planhub/internal/theme"
)

// TasksLoadedMsg is sent when tasks have been loaded.
type TasksLoadedMsg struct {
	Tasks []model.Task
	Err   error
}

// SelectedTaskMsg is sent when a user selects a task to view details.
type SelectedTaskMsg struct {
	TaskID string
}

// sortModes defines the available sort modes cycled by Tab.
var sortModes = []string{
	"sort_order",
	"due_date",
	"priority",
	"title",
	"created_at",
}

// Model is the main task list view component.
type Model struct {
	list          list.Model
	client        *client.Client
	cache         *cache.Cache
	queries       map[string]*cache.Query[[]model.Task]
	keys          *keys.KeyMap
	filter        store.TaskFilter
	sortIndex     int
	showCompleted bool
	searchMode    bool
	searchInput   textinput.Model
	loadErr       error
	width         int
	height        int
}

// New creates a new task list model.
func New(c *client.Client, qc *cache.Cache, k *keys.KeyMap, width, height int) Model {
	delegate := ItemDelegate{}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.Title = "Tasks"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search tasks..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:    l,
		client:  c,
		cache:   qc,
		queries: make(map[string]*cache.Query[[]model.Task]),
		keys:    k,
		filter: store.TaskFilter{
			SortBy: "sort_order",
		},
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Init returns a command that loads the initial set of tasks.
func (m Model) Init() tea.Cmd {
	return m.LoadTasks()
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TasksLoadedMsg:
		m.loadErr = msg.Err
		items := make([]list.Item, len(msg.Tasks))
		for i, task := range msg.Tasks {
			items[i] = TaskItem{Task: task}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	// Delegate to list model for other messages
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		query := m.searchInput.Value()
		if query != "" {
			m.filter.Query = &query
		} else {
			m.filter.Query = nil
		}
		return m, m.LoadTasks()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.filter.Query = nil
		return m, m.LoadTasks()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(TaskItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedTaskMsg{TaskID: item.Task.ID}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.CycleSort):
		m.sortIndex = (m.sortIndex + 1) % len(sortModes)
		m.filter.SortBy = sortModes[m.sortIndex]
		return m, m.LoadTasks()
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// SelectedTask returns the task under the cursor.
func (m Model) SelectedTask() (model.Task, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.Task, true
}

// ToggleShowCompleted flips the completed-task filter and reloads.
func (m *Model) ToggleShowCompleted() tea.Cmd {
	m.showCompleted = !m.showCompleted
	if m.showCompleted {
		m.filter.Statuses = nil
	} else {
		m.filter.Statuses = []string{
			model.TaskStatusPending,
			model.TaskStatusInProgress,
		}
	}
	return m.LoadTasks()
}

// SetProjectFilter limits the list to one project, or clears the limit
// when projectID is empty.
func (m *Model) SetProjectFilter(projectID string) tea.Cmd {
	if projectID == "" {
		m.filter.ProjectIDs = nil
	} else {
		m.filter.ProjectIDs = []string{projectID}
	}
	return m.LoadTasks()
}

// SetOverdueFilter toggles the overdue-only filter and reloads.
func (m *Model) SetOverdueFilter(on bool) tea.Cmd {
	m.filter.Overdue = on
	return m.LoadTasks()
}

// ClearFilters resets all filters except the sort mode.
func (m *Model) ClearFilters() tea.Cmd {
	sortBy := m.filter.SortBy
	m.filter = store.TaskFilter{SortBy: sortBy}
	m.searchInput.Reset()
	return m.LoadTasks()
}

// FilterSummary describes the active filters for the status bar.
func (m Model) FilterSummary() string {
	var parts []string
	if m.filter.Query != nil {
		parts = append(parts, "search: "+*m.filter.Query)
	}
	if len(m.filter.ProjectIDs) > 0 {
		parts = append(parts, "project")
	}
	if m.filter.Overdue {
		parts = append(parts, "overdue")
	}
	if len(parts) == 0 {
		return ""
	}
	summary := parts[0]
	for _, p := range parts[1:] {
		summary += ", " + p
	}
	return "filters: " + summary
}

// View renders the task list view.
func (m Model) View() string {
	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	return m.list.View()
}

// renderEmptyState shows guidance text when no tasks are available.
func (m Model) renderEmptyState() string {
	hasFilters := m.filter.Query != nil ||
		len(m.filter.ProjectIDs) > 0 ||
		len(m.filter.Statuses) > 0 ||
		m.filter.Overdue

	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.loadErr != nil {
		return style.Render("Could not load tasks.\n" + m.loadErr.Error())
	}

	if hasFilters {
		return style.Render("No matching tasks.\nTry adjusting your filters.")
	}

	return style.Render("No tasks yet.\n\nPress 'n' to create one.")
}

// LoadTasks returns a tea.Cmd that reads the current filter's query.
// The cached list is served until the tasks entity is invalidated.
func (m Model) LoadTasks() tea.Cmd {
	q := m.tasksQuery()
	return func() tea.Msg {
		tasks, err := q.Get(context.Background())
		if err != nil {
			return TasksLoadedMsg{Err: err}
		}
		return TasksLoadedMsg{Tasks: tasks}
	}
}

// tasksQuery returns the query for the current filter, creating it on
// first use. The map is shared across model copies, so remounting the
// view reuses results fetched earlier under the same filter.
func (m Model) tasksQuery() *cache.Query[[]model.Task] {
	scope := filterScope(m.filter)
	if q, ok := m.queries[scope]; ok {
		return q
	}
	filter := m.filter
	c := m.client
	q := cache.NewQuery(m.cache, cache.EntityTasks, scope,
		func(ctx context.Context) ([]model.Task, error) {
			return c.ListTasks(ctx, filter)
		})
	m.queries[scope] = q
	return q
}

// filterScope builds a stable cache scope for a filter so each filter
// combination caches separately. Invalidation still covers them all
// through the tasks entity.
func filterScope(f store.TaskFilter) string {
	var parts []string
	if len(f.ProjectIDs) > 0 {
		parts = append(parts, "p="+strings.Join(f.ProjectIDs, ","))
	}
	if len(f.Statuses) > 0 {
		parts = append(parts, "s="+strings.Join(f.Statuses, ","))
	}
	if f.Query != nil {
		parts = append(parts, "q="+*f.Query)
	}
	if f.Overdue {
		parts = append(parts, "overdue")
	}
	parts = append(parts, "sort="+f.SortBy)
	return strings.Join(parts, "|")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
