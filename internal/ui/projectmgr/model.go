package projectmgr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mtran/planhub/internal/cache"
	"github.com/mtran/planhub/internal/client"
	"github.com/mtran/planhub/internal/keys"
	"github.com/mtran/planhub/internal/model"
	"github.com/mtran/planhub/internal/taskgen"
	"github.com/mtran/planhub/internal/theme"
)

// ProjectListCloseMsg signals the parent to close the project view.
type ProjectListCloseMsg struct{}

// ProjectChangedMsg signals that projects or their tasks were modified.
type ProjectChangedMsg struct{}

// OpenProjectMsg asks the parent to show the task list filtered to
// one project.
type OpenProjectMsg struct {
	ProjectID string
}

type projectMode int

const (
	modeList projectMode = iota
	modeForm
	modeConfirmDelete
	modeTemplatePick
	modeTemplateSave
	modeGenerate
)

type formBindings struct {
	name        string
	description string
	color       string
	templateID  string
	prompt      string
	confirm     bool
}

type projectsLoadedMsg struct {
	projects []model.Project
}

type templatesLoadedMsg struct {
	templates []model.ProjectTemplate
}

type projectSavedMsg struct{ err error }
type projectDeletedMsg struct{ err error }
type projectArchivedMsg struct{ err error }
type templateAppliedMsg struct{ err error }
type templateSavedMsg struct{ err error }
type tasksGeneratedMsg struct {
	count int
	err   error
}

// Model is the Bubble Tea model for project management. Besides plain
// CRUD it hosts the template actions: create a project from a
// template, snapshot a project into a new template, and seed a project
// with generated tasks.
type Model struct {
	mode        projectMode
	client      *client.Client
	cache       *cache.Cache
	projectsQ   *cache.Query[[]model.Project]
	templatesQ  *cache.Query[[]model.ProjectTemplate]
	pending     *cache.Mutation[string]
	gen         *taskgen.Generator
	keys        *keys.KeyMap
	projects    []model.Project
	templates   []model.ProjectTemplate
	selectedIdx int
	editingID   string
	isNew       bool
	form        *huh.Form
	confirmForm *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

// New creates a new project manager model.
func New(c *client.Client, qc *cache.Cache, k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:   modeList,
		client: c,
		cache:  qc,
		projectsQ: cache.NewQuery(qc, cache.EntityProjects, "",
			func(ctx context.Context) ([]model.Project, error) {
				return c.ListProjects(ctx)
			}),
		templatesQ: cache.NewQuery(qc, cache.EntityTemplates, "",
			func(ctx context.Context) ([]model.ProjectTemplate, error) {
				return c.ListTemplates(ctx)
			}),
		gen:   taskgen.New(),
		keys:  k,
		fb:    &formBindings{},
		width: width, height: height,
	}
}

// Init loads projects and templates.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadProjects(), m.loadTemplates())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case projectsLoadedMsg:
		m.projects = msg.projects
		if m.selectedIdx >= len(m.projects) && m.selectedIdx > 0 {
			m.selectedIdx = len(m.projects) - 1
		}
		return m, nil

	case templatesLoadedMsg:
		m.templates = msg.templates
		return m, nil

	case projectSavedMsg:
		m.statusMsg = resultStatus("Project saved", msg.err)
		m.mode = modeList
		return m, m.reload()

	case projectDeletedMsg:
		m.statusMsg = resultStatus("Project deleted", msg.err)
		m.mode = modeList
		return m, m.reload()

	case projectArchivedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		}
		m.mode = modeList
		return m, m.reload()

	case templateAppliedMsg:
		m.statusMsg = resultStatus("Project created from template", msg.err)
		var pcf *client.PartialCompositeFailure
		if errors.As(msg.err, &pcf) {
			m.statusMsg = fmt.Sprintf(
				"Partial: project created, %d step(s) done (%v)",
				pcf.StepsDone, pcf.Err,
			)
		}
		m.mode = modeList
		return m, m.reload()

	case templateSavedMsg:
		m.statusMsg = resultStatus("Template saved", msg.err)
		m.mode = modeList
		return m, tea.Batch(m.loadTemplates(), m.reload())

	case tasksGeneratedMsg:
		m.statusMsg = resultStatus(fmt.Sprintf("%d tasks generated", msg.count), msg.err)
		m.mode = modeList
		return m, m.reload()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveForm(msg)
}

func (m Model) reload() tea.Cmd {
	return tea.Batch(m.loadProjects(), func() tea.Msg { return ProjectChangedMsg{} })
}

func resultStatus(ok string, err error) string {
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return ok
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case modeList:
		return m.handleListKey(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	default:
		return m.updateForm(msg)
	}
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return ProjectListCloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.projects) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.projects)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.projects) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.projects) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if len(m.projects) == 0 {
			return m, nil
		}
		p := m.projects[m.selectedIdx]
		return m, func() tea.Msg { return OpenProjectMsg{ProjectID: p.ID} }

	case msg.String() == "n":
		m.isNew = true
		m.editingID = ""
		m.fb.name = ""
		m.fb.description = ""
		m.fb.color = "#5B9BD5"
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case msg.String() == "e":
		if len(m.projects) == 0 {
			return m, nil
		}
		p := m.projects[m.selectedIdx]
		m.isNew = false
		m.editingID = p.ID
		m.fb.name = p.Name
		m.fb.description = p.Description
		m.fb.color = p.Color
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case msg.String() == "a":
		if len(m.projects) == 0 {
			return m, nil
		}
		p := m.projects[m.selectedIdx]
		cmd := m.toggleArchive(p)
		return m, cmd

	case msg.String() == "d":
		if len(m.projects) == 0 {
			return m, nil
		}
		m.fb.confirm = false
		m.confirmForm = m.buildConfirmForm()
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()

	case msg.String() == "t":
		if len(m.templates) == 0 {
			m.statusMsg = "No templates yet. Press 's' on a project to save one."
			return m, nil
		}
		m.fb.name = ""
		m.fb.description = ""
		m.fb.templateID = m.templates[0].ID
		m.form = m.buildTemplatePickForm()
		m.mode = modeTemplatePick
		return m, m.form.Init()

	case msg.String() == "s":
		if len(m.projects) == 0 {
			return m, nil
		}
		p := m.projects[m.selectedIdx]
		m.editingID = p.ID
		m.fb.name = p.Name + " template"
		m.fb.description = p.Description
		m.form = m.buildTemplateSaveForm()
		m.mode = modeTemplateSave
		return m, m.form.Init()

	case msg.String() == "g":
		if len(m.projects) == 0 {
			return m, nil
		}
		p := m.projects[m.selectedIdx]
		m.editingID = p.ID
		m.fb.prompt = p.Name
		m.form = m.buildGenerateForm()
		m.mode = modeGenerate
		return m, m.form.Init()
	}
	return m, nil
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Project name").
				Value(&m.fb.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Description").
				Placeholder("Optional description").
				Value(&m.fb.description),
			huh.NewInput().
				Title("Color").
				Placeholder("#5B9BD5").
				Value(&m.fb.color),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) buildTemplatePickForm() *huh.Form {
	opts := make([]huh.Option[string], len(m.templates))
	for i, t := range m.templates {
		label := t.Name
		if t.Category != "" {
			label = fmt.Sprintf("%s (%s)", t.Name, t.Category)
		}
		opts[i] = huh.NewOption(label, t.ID)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Template").
				Options(opts...).
				Value(&m.fb.templateID),
			huh.NewInput().
				Title("Project Name").
				Placeholder("New project name").
				Value(&m.fb.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Description").
				Placeholder("Optional description").
				Value(&m.fb.description),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) buildTemplateSaveForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Template Name").
				Value(&m.fb.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Description").
				Value(&m.fb.description),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) buildGenerateForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Describe the work").
				Placeholder("e.g. launch the new marketing website").
				Value(&m.fb.prompt).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("a description is required")
					}
					return nil
				}),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) buildConfirmForm() *huh.Form {
	name := ""
	if m.selectedIdx < len(m.projects) {
		name = m.projects[m.selectedIdx].Name
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete project %q?", name)).
				Description("Tasks in this project will be deleted too.").
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		var cmd tea.Cmd
		switch m.mode {
		case modeTemplatePick:
			cmd = m.applyTemplate()
		case modeTemplateSave:
			cmd = m.saveAsTemplate()
		case modeGenerate:
			cmd = m.generateTasks()
		default:
			cmd = m.saveProject()
		}
		return m, cmd
	}
	if m.form.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	if m.confirmForm.State == huh.StateCompleted {
		if m.fb.confirm {
			p := m.projects[m.selectedIdx]
			cmd := m.deleteProject(p.ID)
			return m, cmd
		}
		m.mode = modeList
		return m, nil
	}
	if m.confirmForm.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateActiveForm(msg tea.Msg) (Model, tea.Cmd) {
	switch m.mode {
	case modeList:
		return m, nil
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	default:
		return m.updateForm(msg)
	}
}

// View renders the project manager.
func (m Model) View() string {
	switch m.mode {
	case modeList:
		return m.viewList()
	case modeConfirmDelete:
		return m.viewForm(m.confirmForm)
	default:
		return m.viewForm(m.form)
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render("Projects"))
	b.WriteString("\n\n")

	if len(m.projects) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
		b.WriteString(emptyStyle.Render("No projects yet. Press 'n' to create one."))
	} else {
		for i, p := range m.projects {
			statusBadge := theme.ProjectStatusStyle(p.Status).Render(p.Status)
			progress := fmt.Sprintf("%d%%", int(p.Progress()*100))

			label := fmt.Sprintf("📁 %s %s %s (%d tasks)",
				p.Name, statusBadge, progress, len(p.Tasks))
			if p.Archived {
				label += " (archived)"
			}

			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(label))
			} else {
				b.WriteString(theme.ListItemStyle.Render(label))
			}
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Render(
		"n new | e edit | a archive/restore | d delete | t from template | s save template | g generate | esc back",
	))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) viewForm(f *huh.Form) string {
	if f == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(f.View())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
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

func (m Model) loadProjects() tea.Cmd {
	q := m.projectsQ
	return func() tea.Msg {
		projects, err := q.Get(context.Background())
		if err != nil {
			return projectsLoadedMsg{projects: nil}
		}
		return projectsLoadedMsg{projects: projects}
	}
}

func (m Model) loadTemplates() tea.Cmd {
	q := m.templatesQ
	return func() tea.Msg {
		templates, err := q.Get(context.Background())
		if err != nil {
			return templatesLoadedMsg{templates: nil}
		}
		return templatesLoadedMsg{templates: templates}
	}
}

// beginWrite runs a store write through a mutation unless one is still
// in flight. Success invalidates the given entities before the done
// message arrives, so the reload that follows refetches.
func (m *Model) beginWrite(
	invalidates []string,
	run func(context.Context) (string, error),
	done func(error) tea.Msg,
) tea.Cmd {
	if m.pending != nil && m.pending.Pending() {
		m.statusMsg = "Still saving, hold on."
		return nil
	}
	mut := cache.NewMutation(m.cache, invalidates, run)
	m.pending = mut
	return func() tea.Msg {
		_, err := mut.Do(context.Background())
		return done(err)
	}
}

func (m *Model) saveProject() tea.Cmd {
	c := m.client
	fb := m.fb
	editID := m.editingID
	isNew := m.isNew
	return m.beginWrite(
		[]string{cache.EntityProjects},
		func(ctx context.Context) (string, error) {
			if isNew {
				p, err := c.CreateProject(ctx, client.ProjectInput{
					Name:        fb.name,
					Description: fb.description,
					Color:       fb.color,
				})
				if err != nil {
					return "", err
				}
				return p.ID, nil
			}
			p, err := c.UpdateProject(ctx, editID, client.ProjectPatch{
				Name:        &fb.name,
				Description: &fb.description,
				Color:       &fb.color,
			})
			if err != nil {
				return "", err
			}
			return p.ID, nil
		},
		func(err error) tea.Msg { return projectSavedMsg{err: err} },
	)
}

func (m *Model) deleteProject(id string) tea.Cmd {
	c := m.client
	return m.beginWrite(
		[]string{cache.EntityProjects, cache.EntityTasks},
		func(ctx context.Context) (string, error) {
			return id, c.DeleteProject(ctx, id)
		},
		func(err error) tea.Msg { return projectDeletedMsg{err: err} },
	)
}

func (m *Model) toggleArchive(p model.Project) tea.Cmd {
	c := m.client
	return m.beginWrite(
		[]string{cache.EntityProjects},
		func(ctx context.Context) (string, error) {
			if p.Archived {
				return p.ID, c.RestoreProject(ctx, p.ID)
			}
			return p.ID, c.ArchiveProject(ctx, p.ID)
		},
		func(err error) tea.Msg { return projectArchivedMsg{err: err} },
	)
}

func (m *Model) applyTemplate() tea.Cmd {
	c := m.client
	fb := m.fb
	return m.beginWrite(
		[]string{cache.EntityProjects, cache.EntityTasks},
		func(ctx context.Context) (string, error) {
			p, err := c.CreateProjectFromTemplate(ctx, fb.templateID, client.ProjectInput{
				Name:        fb.name,
				Description: fb.description,
			})
			if err != nil {
				return "", err
			}
			return p.ID, nil
		},
		func(err error) tea.Msg { return templateAppliedMsg{err: err} },
	)
}

func (m *Model) saveAsTemplate() tea.Cmd {
	c := m.client
	fb := m.fb
	projectID := m.editingID
	return m.beginWrite(
		[]string{cache.EntityTemplates},
		func(ctx context.Context) (string, error) {
			tmpl, err := c.SaveProjectAsTemplate(ctx, projectID, fb.name, fb.description)
			if err != nil {
				return "", err
			}
			return tmpl.ID, nil
		},
		func(err error) tea.Msg { return templateSavedMsg{err: err} },
	)
}

// generateTasks derives a task breakdown from the prompt and inserts
// each task into the selected project.
func (m *Model) generateTasks() tea.Cmd {
	c := m.client
	gen := m.gen
	fb := m.fb
	projectID := m.editingID
	created := 0
	return m.beginWrite(
		[]string{cache.EntityTasks, cache.EntityProjects},
		func(ctx context.Context) (string, error) {
			for _, s := range gen.Generate(fb.prompt) {
				_, err := c.CreateTask(ctx, client.TaskInput{
					Title:          s.Title,
					Description:    s.Description,
					Priority:       s.Priority,
					Effort:         s.Effort,
					EstimatedHours: s.EstimatedHours,
					ProjectID:      &projectID,
				})
				if err != nil {
					return "", err
				}
				created++
			}
			return projectID, nil
		},
		func(err error) tea.Msg { return tasksGeneratedMsg{count: created, err: err} },
	)
}
