package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mtran/planhub/internal/cache"
	"github.com/mtran/planhub/internal/client"
	"github.com/mtran/planhub/internal/keys"
	"github.com/mtran/planhub/internal/model"
	"github.com/mtran/planhub/internal/planner"
	"github.com/mtran/planhub/internal/store"
	"github.com/mtran/planhub/internal/ui"
	"github.com/mtran/planhub/internal/ui/command"
	"github.com/mtran/planhub/internal/ui/detail"
	helpview "github.com/mtran/planhub/internal/ui/help"
	"github.com/mtran/planhub/internal/ui/labelmgr"
	"github.com/mtran/planhub/internal/ui/plannerview"
	"github.com/mtran/planhub/internal/ui/projectmgr"
	"github.com/mtran/planhub/internal/ui/taskform"
	"github.com/mtran/planhub/internal/ui/tasklist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewTasks ViewState = iota
	ViewDetail
	ViewProjects
	ViewLabels
	ViewPlanner
	ViewHelp
	ViewCommand
	ViewTaskCreate
	ViewTaskEdit
)

// changeEventMsg carries one store change notification into the UI loop.
type changeEventMsg struct {
	event store.ChangeEvent
}

// Model is the root Bubble Tea model that manages view routing, layout,
// and the shared data-access client.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	client       *client.Client
	cache        *cache.Cache
	taskMut      *cache.Mutation[string]
	cfg          *model.AppConfig
	keys         *keys.KeyMap

	taskList    tasklist.Model
	detailView  detail.Model
	taskForm    taskform.Model
	projectView projectmgr.Model
	labelView   labelmgr.Model
	plannerView plannerview.Model
	helpView    helpview.Model
	commandView command.Model

	feedCh      <-chan store.ChangeEvent
	feedCancel  func()
	cacheCancel func()
	ready       bool
	statusMsg   string
}

// New creates the root application model. The cache watches the
// store's change feed so every view-model query key invalidates when
// the underlying tables change, and the app holds its own subscription
// to reload the visible view.
func New(c *client.Client, cfg *model.AppConfig) Model {
	k := keys.DefaultKeyMap()

	qc := cache.New()
	cacheCancel := qc.WatchFeed(c.Store().Feed())
	feedCh, feedCancel := c.Store().Feed().Subscribe()

	sink := planner.NewFileSink(cfg.PlanDir())

	return Model{
		currentView: ViewTasks,
		client:      c,
		cache:       qc,
		cfg:         cfg,
		keys:        k,
		taskList:    tasklist.New(c, qc, k, 80, 24),
		detailView:  detail.New(c, k, 80, 24),
		taskForm:    taskform.New(80, 24),
		projectView: projectmgr.New(c, qc, k, 80, 24),
		labelView:   labelmgr.New(c, k, 80, 24),
		plannerView: plannerview.New(c, qc, k, cfg.Planner, sink, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
		feedCh:      feedCh,
		feedCancel:  feedCancel,
		cacheCancel: cacheCancel,
	}
}

// Init loads the initial task list and starts listening for changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.taskList.Init(),
		m.waitForChange(),
	)
}

// waitForChange blocks on the feed subscription and forwards the next
// change event into the update loop.
func (m Model) waitForChange() tea.Cmd {
	ch := m.feedCh
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return changeEventMsg{event: ev}
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.taskList.SetSize(contentWidth, contentHeight)
		m.detailView.SetSize(contentWidth, contentHeight)
		m.taskForm.SetSize(contentWidth, contentHeight)
		m.projectView.SetSize(contentWidth, contentHeight)
		m.labelView.SetSize(contentWidth, contentHeight)
		m.plannerView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case changeEventMsg:
		// Out-of-band write somewhere in the store; refresh whatever
		// list is visible and re-arm the subscription.
		var cmd tea.Cmd
		switch m.currentView {
		case ViewTasks:
			cmd = m.taskList.LoadTasks()
		case ViewProjects:
			cmd = m.projectView.Init()
		case ViewPlanner:
			cmd = m.plannerView.Init()
		}
		return m, tea.Batch(cmd, m.waitForChange())

	case tasklist.SelectedTaskMsg:
		m.previousView = m.currentView
		m.currentView = ViewDetail
		m.detailView.SetLoading(true)
		return m, m.detailView.Load(msg.TaskID)

	case detail.BackMsg:
		m.currentView = ViewTasks
		return m, m.taskList.LoadTasks()

	case detail.EditRequestMsg:
		m.previousView = m.currentView
		m.currentView = ViewTaskEdit
		return m, m.startEdit(msg.Task)

	case detail.TaskMutatedMsg:
		m.invalidate(cache.EntityTasks)
		return m, nil

	case draftReadyMsg:
		m.taskForm.SetOptions(msg.projects, msg.labels)
		m.currentView = ViewTaskCreate
		return m, m.taskForm.StartCreate(msg.draft)

	case editReadyMsg:
		m.taskForm.SetOptions(msg.projects, msg.labels)
		return m, m.taskForm.StartEdit(msg.task)

	case taskform.TaskCreatedMsg:
		m.currentView = ViewTasks
		cmd := m.createTask(msg.Input)
		return m, cmd

	case taskform.TaskUpdatedMsg:
		m.currentView = ViewTasks
		cmd := m.updateTask(msg.ID, msg.Patch)
		return m, cmd

	case taskform.TaskFormCancelMsg:
		// The draft never reached the store; dropping the form state
		// is the whole cleanup.
		m.currentView = m.previousView
		return m, nil

	case taskMutationDoneMsg:
		// A successful mutation already invalidated the tasks entity,
		// so the reload below refetches.
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = ""
		}
		return m, m.taskList.LoadTasks()

	case digestWrittenMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Digest error: %v", msg.err)
		} else {
			m.statusMsg = "Digest written to " + msg.path
		}
		return m, nil

	case projectmgr.ProjectListCloseMsg:
		m.currentView = ViewTasks
		return m, m.taskList.LoadTasks()

	case projectmgr.ProjectChangedMsg:
		m.invalidate(cache.EntityProjects, cache.EntityTasks, cache.EntityTemplates)
		return m, nil

	case projectmgr.OpenProjectMsg:
		m.currentView = ViewTasks
		return m, m.taskList.SetProjectFilter(msg.ProjectID)

	case labelmgr.LabelListCloseMsg:
		m.currentView = ViewTasks
		return m, m.taskList.LoadTasks()

	case labelmgr.LabelChangedMsg:
		m.invalidate(cache.EntityLabels, cache.EntityTasks)
		return m, nil

	case plannerview.PlannerCloseMsg:
		m.currentView = ViewTasks
		return m, m.taskList.LoadTasks()

	case plannerview.PlanChangedMsg:
		m.invalidate(cache.EntityTasks)
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		cmd := m.executeCommand(string(msg))
		return m, cmd

	case tea.KeyMsg:
		return m.handleGlobalKey(msg)
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that work regardless of current view,
// then falls through to the active view.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.shutdown()
		return m, tea.Quit

	case "q":
		if m.currentView == ViewTasks {
			m.shutdown()
			return m, tea.Quit
		}

	case "?":
		if m.inForm() {
			break
		}
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil

	case ":":
		if m.inForm() {
			break
		}
		if m.currentView == ViewCommand {
			m.currentView = m.previousView
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m, m.commandView.Focus()

	case "1":
		if m.switchableView() {
			m.currentView = ViewTasks
			return m, m.taskList.LoadTasks()
		}

	case "2":
		if m.switchableView() {
			m.previousView = m.currentView
			m.currentView = ViewProjects
			return m, m.projectView.Init()
		}

	case "3":
		if m.switchableView() {
			m.previousView = m.currentView
			m.currentView = ViewLabels
			return m, m.labelView.Init()
		}

	case "4":
		if m.switchableView() {
			m.previousView = m.currentView
			m.currentView = ViewPlanner
			return m, m.plannerView.Init()
		}

	case "n":
		if m.currentView == ViewTasks {
			m.previousView = m.currentView
			return m, m.startCreate()
		}

	case "e":
		if m.currentView == ViewTasks {
			if task, ok := m.taskList.SelectedTask(); ok {
				m.previousView = m.currentView
				m.currentView = ViewTaskEdit
				return m, m.startEdit(task)
			}
		}

	case "x":
		if m.currentView == ViewTasks {
			if task, ok := m.taskList.SelectedTask(); ok {
				cmd := m.toggleComplete(task)
				return m, cmd
			}
		}

	case "d":
		if m.currentView == ViewTasks {
			if task, ok := m.taskList.SelectedTask(); ok {
				cmd := m.deleteTask(task.ID)
				return m, cmd
			}
		}

	case "H":
		if m.currentView == ViewTasks {
			return m, m.taskList.ToggleShowCompleted()
		}

	case "r":
		if m.currentView == ViewTasks {
			return m, m.taskList.LoadTasks()
		}
	}

	return m.updateActiveView(msg)
}

// inForm reports whether the active view owns free text input, so
// global single-letter shortcuts must not intercept typing.
func (m Model) inForm() bool {
	switch m.currentView {
	case ViewTaskCreate, ViewTaskEdit, ViewCommand:
		return true
	}
	return false
}

// switchableView reports whether number-key view switching applies.
func (m Model) switchableView() bool {
	switch m.currentView {
	case ViewTasks, ViewProjects, ViewLabels, ViewPlanner, ViewDetail:
		return true
	}
	return false
}

// invalidate bumps cache generations for the given entities.
func (m Model) invalidate(entities ...string) {
	m.cache.Invalidate(entities...)
}

// shutdown releases the feed subscriptions.
func (m Model) shutdown() {
	if m.feedCancel != nil {
		m.feedCancel()
	}
	if m.cacheCancel != nil {
		m.cacheCancel()
	}
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewTasks:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewProjects:
		m.projectView, cmd = m.projectView.Update(msg)
	case ViewLabels:
		m.labelView, cmd = m.labelView.Update(msg)
	case ViewPlanner:
		m.plannerView, cmd = m.plannerView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewTaskCreate, ViewTaskEdit:
		m.taskForm, cmd = m.taskForm.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("PlanHub", m.headerStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewTasks:
		return m.taskList.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewProjects:
		return m.projectView.View()
	case ViewLabels:
		return m.labelView.View()
	case ViewPlanner:
		return m.plannerView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewTaskCreate, ViewTaskEdit:
		return m.taskForm.View()
	default:
		return ""
	}
}

// headerStatus names the active view for the header's right edge.
func (m Model) headerStatus() string {
	switch m.currentView {
	case ViewProjects:
		return "projects"
	case ViewLabels:
		return "labels"
	case ViewPlanner:
		return "planner"
	case ViewDetail:
		return "detail"
	case ViewTaskCreate:
		return "new task"
	case ViewTaskEdit:
		return "edit task"
	default:
		return "tasks"
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.statusMsg != "" && m.currentView == ViewTasks {
		return m.statusMsg
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return ": close command | enter execute | esc back"
	case ViewDetail:
		return "esc back | e edit | x complete | c comment | j/k scroll"
	case ViewProjects:
		return "n new | e edit | t from template | s save template | g generate | esc back"
	case ViewLabels:
		return "n new | e edit | d delete | esc back"
	case ViewPlanner:
		return "p plan | u unplan | [/] week | w save | esc back"
	case ViewTaskCreate, ViewTaskEdit:
		return "enter submit | esc cancel"
	default:
		filterSummary := m.taskList.FilterSummary()
		if filterSummary != "" {
			return filterSummary + " | : clear"
		}
		return "q quit | ? help | n new | / search | 1-4 views | tab sort"
	}
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	switch cmd {
	case "quit", "q":
		m.shutdown()
		return tea.Quit
	case "refresh":
		return m.taskList.LoadTasks()
	case "new task", "task":
		m.previousView = m.currentView
		return m.startCreate()
	case "projects":
		m.previousView = m.currentView
		m.currentView = ViewProjects
		return m.projectView.Init()
	case "labels":
		m.previousView = m.currentView
		m.currentView = ViewLabels
		return m.labelView.Init()
	case "planner":
		m.previousView = m.currentView
		m.currentView = ViewPlanner
		return m.plannerView.Init()
	case "overdue":
		m.currentView = ViewTasks
		return m.taskList.SetOverdueFilter(true)
	case "toggle completed", "hide completed":
		m.currentView = ViewTasks
		return m.taskList.ToggleShowCompleted()
	case "clear filters", "clear":
		m.currentView = ViewTasks
		return m.taskList.ClearFilters()
	case "digest":
		return m.writeDigest()
	default:
		return nil
	}
}
