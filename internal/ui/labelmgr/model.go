package labelmgr

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mtran/planhub/internal/client"
	"github.com/mtran/planhub/internal/keys"
	"github.com/mtran/planhub/internal/model"
	"github.com/mtran/planhub/internal/theme"
)

// LabelListCloseMsg signals the parent to close the label view.
type LabelListCloseMsg struct{}

// LabelChangedMsg signals that labels were modified.
type LabelChangedMsg struct{}

type labelMode int

const (
	modeList labelMode = iota
	modeForm
	modeConfirmDelete
)

type formBindings struct {
	name    string
	color   string
	confirm bool
}

type labelsLoadedMsg struct {
	labels []model.Label
}

type labelSavedMsg struct{ err error }
type labelDeletedMsg struct{ err error }

// Model is the Bubble Tea model for label management.
type Model struct {
	mode        labelMode
	client      *client.Client
	keys        *keys.KeyMap
	labels      []model.Label
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

// New creates a new label manager model.
func New(c *client.Client, k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:   modeList,
		client: c,
		keys:   k,
		fb:     &formBindings{},
		width:  width, height: height,
	}
}

// Init loads labels.
func (m Model) Init() tea.Cmd {
	return m.loadLabels()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case labelsLoadedMsg:
		m.labels = msg.labels
		if m.selectedIdx >= len(m.labels) && m.selectedIdx > 0 {
			m.selectedIdx = len(m.labels) - 1
		}
		return m, nil

	case labelSavedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = "Label saved"
		}
		m.mode = modeList
		return m, tea.Batch(m.loadLabels(), func() tea.Msg { return LabelChangedMsg{} })

	case labelDeletedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = "Label deleted"
		}
		m.mode = modeList
		return m, tea.Batch(m.loadLabels(), func() tea.Msg { return LabelChangedMsg{} })

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveForm(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case modeList:
		return m.handleListKey(msg)
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return LabelListCloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.labels) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.labels)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.labels) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.labels) - 1
			}
		}
		return m, nil

	case msg.String() == "n":
		m.isNew = true
		m.editingID = ""
		m.fb.name = ""
		m.fb.color = "#6BCB77"
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case msg.String() == "e":
		if len(m.labels) == 0 {
			return m, nil
		}
		l := m.labels[m.selectedIdx]
		m.isNew = false
		m.editingID = l.ID
		m.fb.name = l.Name
		m.fb.color = l.Color
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case msg.String() == "d":
		if len(m.labels) == 0 {
			return m, nil
		}
		m.fb.confirm = false
		m.confirmForm = m.buildConfirmForm()
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()
	}
	return m, nil
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Label name").
				Value(&m.fb.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Color").
				Placeholder("#6BCB77").
				Value(&m.fb.color),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) buildConfirmForm() *huh.Form {
	name := ""
	if m.selectedIdx < len(m.labels) {
		name = m.labels[m.selectedIdx].Name
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete label %q?", name)).
				Description("This label will be removed from all tasks.").
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
		return m, m.saveLabel()
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
			l := m.labels[m.selectedIdx]
			return m, m.deleteLabel(l.ID)
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
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

// View renders the label manager.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.viewForm(m.form)
	case modeConfirmDelete:
		return m.viewForm(m.confirmForm)
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render("Labels"))
	b.WriteString("\n\n")

	if len(m.labels) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
		b.WriteString(emptyStyle.Render("No labels yet. Press 'n' to create one."))
	} else {
		for i, l := range m.labels {
			label := fmt.Sprintf("🏷  %s", l.Name)

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
		"n new | e edit | d delete | esc back",
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

func (m Model) loadLabels() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		labels, err := c.ListLabels(context.Background())
		if err != nil {
			return labelsLoadedMsg{labels: nil}
		}
		return labelsLoadedMsg{labels: labels}
	}
}

func (m Model) saveLabel() tea.Cmd {
	c := m.client
	fb := m.fb
	editID := m.editingID
	isNew := m.isNew
	return func() tea.Msg {
		if isNew {
			_, err := c.CreateLabel(context.Background(), fb.name, fb.color)
			return labelSavedMsg{err: err}
		}
		err := c.UpdateLabel(context.Background(), model.Label{
			ID:    editID,
			Name:  fb.name,
			Color: fb.color,
		})
		return labelSavedMsg{err: err}
	}
}

func (m Model) deleteLabel(id string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		err := c.DeleteLabel(context.Background(), id)
		return labelDeletedMsg{err: err}
	}
}
