package plannerview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mtran/planhub/internal/cache"
	"github.com/mtran/planhub/internal/client"
	"github.com/mtran/planhub/internal/keys"
	"github.com/mtran/planhub/internal/model"
	"github.com/mtran/planhub/internal/planner"
	"github.com/mtran/planhub/internal/store"
	"github.com/mtran/planhub/internal/theme"
)

// PlannerCloseMsg signals the parent to close the planner view.
type PlannerCloseMsg struct{}

// PlanChangedMsg signals that a task's due date changed via planning.
type PlanChangedMsg struct{}

// pane identifies which side of the planner has keyboard focus.
type pane int

const (
	paneBacklog pane = iota
	paneWeek
)

type weekLoadedMsg struct {
	weekStart time.Time
	backlog   []model.Task
	scheduled []model.Task
	err       error
}

// weekData is one week's cached load: the scheduled tasks inside the
// week window plus the open backlog outside it.
type weekData struct {
	weekStart time.Time
	backlog   []model.Task
	scheduled []model.Task
}

type planResultMsg struct{ err error }
type planSavedMsg struct{ err error }

// Model is the weekly planner view: a backlog of unscheduled tasks on
// the left and seven day columns on the right. Planning a backlog task
// onto a day writes its due date; unplanning only drops the local
// entry.
type Model struct {
	client     *client.Client
	cache      *cache.Cache
	queries    map[string]*cache.Query[weekData]
	keys       *keys.KeyMap
	cfg        model.PlannerConfig
	sink       *planner.FileSink
	planner    *planner.Planner
	weekRef    time.Time
	backlog    []model.Task
	byID       map[string]model.Task
	focus      pane
	backlogIdx int
	dayIdx     int
	entryIdx   int
	statusMsg  string
	width      int
	height     int
}

// New creates a planner view for the week containing time.Now.
func New(c *client.Client, qc *cache.Cache, k *keys.KeyMap, cfg model.PlannerConfig, sink *planner.FileSink, width, height int) Model {
	now := time.Now()
	return Model{
		client:  c,
		cache:   qc,
		queries: make(map[string]*cache.Query[weekData]),
		keys:    k,
		cfg:     cfg,
		sink:    sink,
		planner: planner.New(c, now, cfg),
		weekRef: now,
		byID:    make(map[string]model.Task),
		width:   width,
		height:  height,
	}
}

// Init loads the current week.
func (m Model) Init() tea.Cmd {
	return m.loadWeek()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case weekLoadedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.planner = planner.New(m.client, msg.weekStart, m.cfg)
		m.planner.LoadWeek(msg.scheduled)
		m.backlog = msg.backlog
		m.byID = make(map[string]model.Task, len(msg.backlog)+len(msg.scheduled))
		for _, t := range msg.backlog {
			m.byID[t.ID] = t
		}
		for _, t := range msg.scheduled {
			m.byID[t.ID] = t
		}
		m.clampCursors()
		return m, nil

	case planResultMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.statusMsg = ""
		return m, tea.Batch(m.loadWeek(), func() tea.Msg { return PlanChangedMsg{} })

	case planSavedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = "Plan saved"
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return PlannerCloseMsg{} }

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadWeek()

	case key.Matches(msg, m.keys.PrevWeek):
		m.weekRef = m.weekRef.AddDate(0, 0, -7)
		return m, m.loadWeek()

	case key.Matches(msg, m.keys.NextWeek):
		m.weekRef = m.weekRef.AddDate(0, 0, 7)
		return m, m.loadWeek()

	case key.Matches(msg, m.keys.Down):
		if m.focus == paneBacklog {
			if len(m.backlog) > 0 {
				m.backlogIdx = (m.backlogIdx + 1) % len(m.backlog)
			}
		} else {
			entries := m.dayEntries(m.dayIdx)
			if len(entries) > 0 {
				m.entryIdx = (m.entryIdx + 1) % len(entries)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.focus == paneBacklog {
			if len(m.backlog) > 0 {
				m.backlogIdx--
				if m.backlogIdx < 0 {
					m.backlogIdx = len(m.backlog) - 1
				}
			}
		} else {
			entries := m.dayEntries(m.dayIdx)
			if len(entries) > 0 {
				m.entryIdx--
				if m.entryIdx < 0 {
					m.entryIdx = len(entries) - 1
				}
			}
		}
		return m, nil

	case msg.String() == "tab":
		if m.focus == paneBacklog {
			m.focus = paneWeek
		} else {
			m.focus = paneBacklog
		}
		return m, nil

	case msg.String() == "h", msg.String() == "left":
		m.dayIdx--
		if m.dayIdx < 0 {
			m.dayIdx = 6
		}
		m.entryIdx = 0
		return m, nil

	case msg.String() == "l", msg.String() == "right":
		m.dayIdx = (m.dayIdx + 1) % 7
		m.entryIdx = 0
		return m, nil

	case key.Matches(msg, m.keys.Plan):
		return m.planSelected()

	case key.Matches(msg, m.keys.Unplan):
		return m.unplanSelected()

	case msg.String() == "w":
		return m, m.savePlan()
	}

	return m, nil
}

// planSelected plans the backlog task under the cursor onto the cursor
// day, warning first when it does not fit the remaining capacity.
func (m Model) planSelected() (Model, tea.Cmd) {
	if len(m.backlog) == 0 || m.backlogIdx >= len(m.backlog) {
		return m, nil
	}
	task := m.backlog[m.backlogIdx]
	date := m.dayDate(m.dayIdx)

	if !m.planner.CanPlan(task, date) {
		m.statusMsg = fmt.Sprintf(
			"%s does not fit %s (%.1fh/%.1fh used)",
			task.Title, date.Format("Mon"),
			m.planner.Workload(date), m.planner.Capacity(date),
		)
		return m, nil
	}

	p := m.planner
	c := context.Background()
	return m, func() tea.Msg {
		err := p.PlanTask(c, task, date)
		return planResultMsg{err: err}
	}
}

// unplanSelected drops the selected entry from the cursor day. The
// task keeps its due date.
func (m Model) unplanSelected() (Model, tea.Cmd) {
	entries := m.dayEntries(m.dayIdx)
	if len(entries) == 0 || m.entryIdx >= len(entries) {
		return m, nil
	}
	m.planner.RemoveTask(entries[m.entryIdx].TaskID)
	m.entryIdx = 0
	m.statusMsg = "Removed from plan (due date kept)"
	return m, nil
}

func (m Model) savePlan() tea.Cmd {
	p := m.planner
	sink := m.sink
	return func() tea.Msg {
		err := p.SavePlan(context.Background(), sink)
		return planSavedMsg{err: err}
	}
}

func (m *Model) clampCursors() {
	if m.backlogIdx >= len(m.backlog) {
		m.backlogIdx = 0
	}
	if m.entryIdx >= len(m.dayEntries(m.dayIdx)) {
		m.entryIdx = 0
	}
}

func (m Model) dayDate(idx int) time.Time {
	return m.planner.WeekStartDate().AddDate(0, 0, idx)
}

func (m Model) dayEntries(idx int) []model.PlannedTask {
	date := m.dayDate(idx)
	var entries []model.PlannedTask
	for _, e := range m.planner.Entries() {
		if e.PlannedDate.Equal(date) {
			entries = append(entries, e)
		}
	}
	return entries
}

// View renders the backlog pane beside the seven day columns.
func (m Model) View() string {
	backlog := m.viewBacklog()
	week := m.viewWeek()

	body := lipgloss.JoinHorizontal(lipgloss.Top, backlog, week)

	if m.statusMsg != "" {
		warn := lipgloss.NewStyle().
			Foreground(theme.ColorYellow).
			Italic(true).
			Padding(0, 2).
			Render(m.statusMsg)
		body = lipgloss.JoinVertical(lipgloss.Left, body, warn)
	}

	hints := lipgloss.NewStyle().Foreground(theme.ColorGray).Padding(0, 2).Render(
		"tab focus | h/l day | p plan | u unplan | [/] week | w save | esc back",
	)
	return lipgloss.JoinVertical(lipgloss.Left, body, hints)
}

func (m Model) viewBacklog() string {
	var b strings.Builder

	title := "Backlog"
	if m.focus == paneBacklog {
		title = "▸ Backlog"
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render(title))
	b.WriteString("\n\n")

	if len(m.backlog) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true).Render("Nothing to plan."))
	}

	for i, t := range m.backlog {
		line := fmt.Sprintf("%s (%.1fh)", t.Title, t.EstimatedHours)
		if i == m.backlogIdx && m.focus == paneBacklog {
			line = theme.SelectedItemStyle.Render(line)
		} else {
			line = theme.ListItemStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	width := m.width / 4
	if width < 24 {
		width = 24
	}
	return theme.PanelStyleFor(m.focus == paneBacklog).
		Width(width).
		Height(m.height - 4).
		Render(b.String())
}

func (m Model) viewWeek() string {
	columns := make([]string, 0, 7)
	colWidth := (m.width - m.width/4 - 16) / 7
	if colWidth < 12 {
		colWidth = 12
	}

	for i := 0; i < 7; i++ {
		date := m.dayDate(i)
		workload := m.planner.Workload(date)
		capacity := m.planner.Capacity(date)

		header := date.Format("Mon 02")
		if i == m.dayIdx {
			header = "▸ " + header
		}

		load := fmt.Sprintf("%.1f/%.1fh", workload, capacity)
		if m.planner.IsOverloaded(date) {
			load = theme.OverloadStyle.Render(load + " !")
		} else {
			load = lipgloss.NewStyle().Foreground(theme.ColorGray).Render(load)
		}

		var b strings.Builder
		b.WriteString(lipgloss.NewStyle().Bold(true).Render(header))
		b.WriteString("\n")
		b.WriteString(load)
		b.WriteString("\n\n")

		for j, e := range m.dayEntries(i) {
			title := e.TaskID
			if t, ok := m.byID[e.TaskID]; ok {
				title = t.Title
			}
			line := fmt.Sprintf("%s %.1fh", truncate(title, colWidth-6), e.EstimatedHours)
			if m.focus == paneWeek && i == m.dayIdx && j == m.entryIdx {
				line = theme.SelectedItemStyle.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}

		selected := i == m.dayIdx && m.focus == paneWeek
		columns = append(columns, theme.PanelStyleFor(selected).
			Width(colWidth).
			Height(m.height-4).
			Render(b.String()))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

// truncate shortens a title to max characters, counting runes so a
// multibyte character is never cut in half.
func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// loadWeek reads the current week's query. The cached load is served
// until a task change invalidates it.
func (m Model) loadWeek() tea.Cmd {
	q := m.weekQuery()
	return func() tea.Msg {
		data, err := q.Get(context.Background())
		if err != nil {
			return weekLoadedMsg{err: err}
		}
		return weekLoadedMsg{
			weekStart: data.weekStart,
			backlog:   data.backlog,
			scheduled: data.scheduled,
		}
	}
}

// weekQuery returns the tasks query scoped to the referenced week,
// creating it on first visit. Paging between weeks keeps each week's
// query so going back serves the cached load.
func (m Model) weekQuery() *cache.Query[weekData] {
	weekStart := planner.WeekStart(m.weekRef)
	scope := "week:" + weekStart.Format("2006-01-02")
	if q, ok := m.queries[scope]; ok {
		return q
	}
	c := m.client
	q := cache.NewQuery(m.cache, cache.EntityTasks, scope,
		func(ctx context.Context) (weekData, error) {
			return fetchWeek(ctx, c, weekStart)
		})
	m.queries[scope] = q
	return q
}

// fetchWeek loads the scheduled tasks inside the week window and the
// open backlog outside it.
func fetchWeek(ctx context.Context, c *client.Client, weekStart time.Time) (weekData, error) {
	weekEnd := weekStart.AddDate(0, 0, 7)
	open := []string{model.TaskStatusPending, model.TaskStatusInProgress}

	scheduled, err := c.ListTasks(ctx, store.TaskFilter{
		Statuses: open,
		DueFrom:  &weekStart,
		DueTo:    &weekEnd,
		SortBy:   "due_date",
	})
	if err != nil {
		return weekData{}, err
	}

	all, err := c.ListTasks(ctx, store.TaskFilter{Statuses: open})
	if err != nil {
		return weekData{}, err
	}

	inWeek := make(map[string]bool, len(scheduled))
	for _, t := range scheduled {
		inWeek[t.ID] = true
	}
	var backlog []model.Task
	for _, t := range all {
		if !inWeek[t.ID] {
			backlog = append(backlog, t)
		}
	}

	return weekData{weekStart: weekStart, backlog: backlog, scheduled: scheduled}, nil
}
