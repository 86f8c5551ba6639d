package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mtran/planhub/internal/keys"
	"github.com/mtran/planhub/internal/theme"
)

// row is one shortcut line: the key chord and what it does.
type row struct {
	chord string
	desc  string
}

// section groups the shortcuts the way the app's views use them.
type section struct {
	title string
	rows  []row
}

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	return Model{
		keys:   keys,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

func bindingRow(b key.Binding) row {
	h := b.Help()
	return row{chord: h.Key, desc: h.Desc}
}

// sections lays out the shortcut reference. Single-letter shortcuts the
// root model handles directly (H, w, a, t, s, g, :) are listed as
// literal rows next to the bound ones.
func (m Model) sections() []section {
	k := m.keys
	return []section{
		{
			title: "Global",
			rows: []row{
				bindingRow(k.Help),
				{":", "command palette"},
				{"1-4", "tasks / projects / labels / planner"},
				bindingRow(k.Back),
				bindingRow(k.Quit),
			},
		},
		{
			title: "Tasks",
			rows: []row{
				bindingRow(k.Select),
				bindingRow(k.NewTask),
				bindingRow(k.EditTask),
				bindingRow(k.Complete),
				bindingRow(k.DeleteTask),
				bindingRow(k.Search),
				bindingRow(k.CycleSort),
				{"H", "show or hide completed"},
				bindingRow(k.Refresh),
			},
		},
		{
			title: "Planner",
			rows: []row{
				bindingRow(k.Plan),
				bindingRow(k.Unplan),
				bindingRow(k.PrevWeek),
				bindingRow(k.NextWeek),
				{"tab", "switch pane"},
				{"h/l", "previous or next day"},
				{"w", "save the week's plan"},
			},
		},
		{
			title: "Projects",
			rows: []row{
				{"n", "new project"},
				{"e", "edit"},
				{"a", "archive or restore"},
				{"d", "delete"},
				{"t", "create from template"},
				{"s", "save as template"},
				{"g", "generate tasks"},
			},
		},
	}
}

// View renders the grouped shortcut reference.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorYellow)
	chordStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	descStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)

	columns := make([]string, 0, 4)
	for _, s := range m.sections() {
		var b strings.Builder
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, r := range s.rows {
			b.WriteString(chordStyle.Render(fmt.Sprintf("  %-7s", r.chord)))
			b.WriteString(descStyle.Render(r.desc))
			b.WriteString("\n")
		}
		columns = append(columns, lipgloss.NewStyle().MarginRight(3).Render(b.String()))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, columns...)
	if lipgloss.Width(body) > m.width-8 {
		body = lipgloss.JoinVertical(lipgloss.Left, columns...)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Keyboard Shortcuts"), body)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
