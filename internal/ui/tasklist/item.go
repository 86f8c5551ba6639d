package tasklist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mtran/planhub/internal/model"
	"github.com/mtran/planhub/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Title }

// Title returns the task title for the list.
func (i TaskItem) Title() string { return i.Task.Title }

// Description returns a short summary line for the list.
func (i TaskItem) Description() string {
	parts := []string{
		i.Task.Status,
		i.Task.Priority,
		relativeTime(i.Task.UpdatedAt),
	}
	return strings.Join(parts, " | ")
}

// ItemDelegate implements list.ItemDelegate for rendering task rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused for now).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single task row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}

	task := ti.Task
	isSelected := index == m.Index()

	var prefix string
	switch {
	case task.Status == model.TaskStatusCompleted:
		prefix = "✓"
	case task.Status == model.TaskStatusCancelled:
		prefix = "✗"
	default:
		prefix = "○"
	}

	statusBadge := theme.StatusStyle(task.Status).Render(task.Status)
	priBadge := theme.PriorityStyle(task.Priority).Render(priorityLabel(task.Priority))

	labelBadge := ""
	if len(task.Labels) > 0 {
		names := make([]string, 0, len(task.Labels))
		for _, l := range task.Labels {
			names = append(names, l.Name)
		}
		// Show max 2 labels to avoid overflow
		if len(names) > 2 {
			names = append(names[:2], "…")
		}
		labelBadge = lipgloss.NewStyle().
			Foreground(theme.ColorMagenta).
			Render(" 🏷 " + strings.Join(names, ","))
	}

	dueStr := ""
	if task.DueDate != nil {
		dueStr = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(" " + task.DueDate.Format("Jan 02"))
	}

	overdueStr := ""
	if task.IsOverdue() {
		overdueStr = theme.OverloadStyle.Render(" OVERDUE")
	}

	snoozeStr := ""
	if task.IsSnoozed() {
		snoozeStr = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(" zZ")
	}

	line := fmt.Sprintf(
		"%s %s %s %s%s%s%s%s",
		prefix, statusBadge, priBadge, task.Title,
		labelBadge, dueStr, overdueStr, snoozeStr,
	)

	if task.Status == model.TaskStatusCompleted {
		line = lipgloss.NewStyle().Foreground(theme.ColorGray).Render(line)
	}

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case d < 24*time.Hour:
		hrs := int(d.Hours())
		if hrs == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hrs)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		weeks := int(d.Hours() / 24 / 7)
		if weeks == 1 {
			return "1w ago"
		}
		return fmt.Sprintf("%dw ago", weeks)
	}
}

// priorityLabel returns a short label for the given priority.
func priorityLabel(p string) string {
	switch p {
	case model.PriorityUrgent:
		return "P1"
	case model.PriorityHigh:
		return "P2"
	case model.PriorityMedium:
		return "P3"
	case model.PriorityLow:
		return "P4"
	default:
		return "P?"
	}
}
