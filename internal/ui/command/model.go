package command

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mtran/planhub/internal/theme"
)

// CommandMsg is emitted when the user executes a command.
type CommandMsg string

// Entry is one palette command with its hint line.
type Entry struct {
	Name string
	Desc string
}

// catalog lists the commands the palette suggests, in display order.
// Short aliases the app also accepts (q, task, clear) are left out;
// typing them still works.
var catalog = []Entry{
	{"new task", "open the create form"},
	{"projects", "switch to the project manager"},
	{"labels", "switch to the label manager"},
	{"planner", "switch to the weekly planner"},
	{"overdue", "show only overdue tasks"},
	{"toggle completed", "show or hide completed tasks"},
	{"clear filters", "drop search and filters"},
	{"digest", "write today's digest email"},
	{"refresh", "reload the task list"},
	{"quit", "exit planhub"},
}

// Model is the command palette view: a text input over the command
// catalog, with prefix suggestions and tab completion.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command"
	ti.Prompt = ": "
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			cmd := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if cmd != "" {
				return m, func() tea.Msg {
					return CommandMsg(cmd)
				}
			}
			return m, nil

		case "tab":
			if c, ok := Complete(m.input.Value()); ok {
				m.input.SetValue(c)
				m.input.CursorEnd()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Complete returns the catalog command the typed prefix expands to.
// Completion needs a single match; an exact catalog name completes to
// itself even when it prefixes other commands.
func Complete(typed string) (string, bool) {
	typed = strings.ToLower(strings.TrimSpace(typed))
	if typed == "" {
		return "", false
	}
	matches := Suggest(typed)
	if len(matches) == 0 {
		return "", false
	}
	if matches[0].Name == typed {
		return typed, true
	}
	if len(matches) == 1 {
		return matches[0].Name, true
	}
	return "", false
}

// Suggest returns the catalog entries the typed prefix matches, in
// catalog order. An empty prefix matches everything.
func Suggest(typed string) []Entry {
	typed = strings.ToLower(strings.TrimSpace(typed))
	var out []Entry
	for _, e := range catalog {
		if strings.HasPrefix(e.Name, typed) {
			out = append(out, e)
		}
	}
	return out
}

// View renders the input with the matching commands beneath it.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	nameStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	descStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Command Palette"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	suggestions := Suggest(m.input.Value())
	if len(suggestions) == 0 {
		b.WriteString("\n")
		b.WriteString(descStyle.Render("no matching command"))
	}
	for _, e := range suggestions {
		b.WriteString("\n")
		b.WriteString(nameStyle.Render(fmt.Sprintf("  %-18s", e.Name)))
		b.WriteString(descStyle.Render(e.Desc))
	}

	hint := descStyle.Render("\n\ntab complete | enter run | esc close")
	b.WriteString(hint)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(b.String())
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
