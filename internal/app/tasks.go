package app

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mtran/planhub/internal/cache"
	"github.com/mtran/planhub/internal/client"
	"github.com/mtran/planhub/internal/digest"
	"github.com/mtran/planhub/internal/model"
	"github.com/mtran/planhub/internal/store"
)

// draftReadyMsg carries a fresh draft task plus the selector options
// for the create form.
type draftReadyMsg struct {
	draft    model.Task
	projects []model.Project
	labels   []model.Label
}

// editReadyMsg carries the task to edit plus the selector options.
type editReadyMsg struct {
	task     model.Task
	projects []model.Project
	labels   []model.Label
}

// taskMutationDoneMsg is sent after a create/update/delete completes.
type taskMutationDoneMsg struct{ err error }

// digestWrittenMsg reports where the digest preview was written.
type digestWrittenMsg struct {
	path string
	err  error
}

// startCreate builds a draft task and loads the form options. The
// draft lives only in form state until submitted.
func (m Model) startCreate() tea.Cmd {
	c := m.client
	userID := m.cfg.UserID
	return func() tea.Msg {
		ctx := context.Background()
		count, err := c.Store().GetTaskCount(ctx, store.TaskFilter{})
		if err != nil {
			return taskMutationDoneMsg{err: err}
		}
		projects, _ := c.ListProjects(ctx)
		labels, _ := c.ListLabels(ctx)
		return draftReadyMsg{
			draft:    model.NewDraftTask(userID, count),
			projects: projects,
			labels:   labels,
		}
	}
}

// startEdit loads the form options for editing an existing task.
func (m Model) startEdit(task model.Task) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx := context.Background()
		projects, _ := c.ListProjects(ctx)
		labels, _ := c.ListLabels(ctx)
		return editReadyMsg{task: task, projects: projects, labels: labels}
	}
}

// beginTaskWrite runs a task write through a mutation unless one is
// still in flight. Success invalidates the tasks entity before
// taskMutationDoneMsg arrives, so the reload that follows refetches.
func (m *Model) beginTaskWrite(run func(context.Context) (string, error)) tea.Cmd {
	if m.taskMut != nil && m.taskMut.Pending() {
		m.statusMsg = "Still saving, hold on."
		return nil
	}
	mut := cache.NewMutation(m.cache, []string{cache.EntityTasks}, run)
	m.taskMut = mut
	return func() tea.Msg {
		_, err := mut.Do(context.Background())
		return taskMutationDoneMsg{err: err}
	}
}

// createTask persists a submitted draft.
func (m *Model) createTask(input client.TaskInput) tea.Cmd {
	c := m.client
	return m.beginTaskWrite(func(ctx context.Context) (string, error) {
		task, err := c.CreateTask(ctx, input)
		if err != nil {
			return "", err
		}
		return task.ID, nil
	})
}

// updateTask applies an edit-form patch.
func (m *Model) updateTask(id string, patch client.TaskPatch) tea.Cmd {
	c := m.client
	return m.beginTaskWrite(func(ctx context.Context) (string, error) {
		_, err := c.UpdateTask(ctx, id, patch)
		return id, err
	})
}

// deleteTask removes a task and everything hanging off it.
func (m *Model) deleteTask(id string) tea.Cmd {
	c := m.client
	return m.beginTaskWrite(func(ctx context.Context) (string, error) {
		return id, c.DeleteTask(ctx, id)
	})
}

// toggleComplete flips a task between completed and pending.
func (m *Model) toggleComplete(task model.Task) tea.Cmd {
	c := m.client
	return m.beginTaskWrite(func(ctx context.Context) (string, error) {
		status := model.TaskStatusCompleted
		if task.Status == model.TaskStatusCompleted {
			status = model.TaskStatusPending
		}
		_, err := c.UpdateTask(ctx, task.ID, client.TaskPatch{Status: &status})
		return task.ID, err
	})
}

// writeDigest composes today's digest email and writes it next to the
// database for inspection or manual sending.
func (m Model) writeDigest() tea.Cmd {
	c := m.client
	cfg := m.cfg
	return func() tea.Msg {
		ctx := context.Background()
		now := time.Now()

		settings, err := c.DigestSettings(ctx)
		if err != nil {
			return digestWrittenMsg{err: err}
		}
		if settings.Recipient == "" {
			settings.Recipient = cfg.Digest.Recipient
		}

		summary, err := digest.Collect(ctx, c, now)
		if err != nil {
			return digestWrittenMsg{err: err}
		}

		path := filepath.Join(cfg.PlanDir(), "..", "digest-"+now.Format("2006-01-02")+".eml")
		f, err := os.Create(path)
		if err != nil {
			return digestWrittenMsg{err: err}
		}
		defer f.Close()

		if err := digest.Write(f, *settings, summary, now); err != nil {
			return digestWrittenMsg{err: err}
		}
		return digestWrittenMsg{path: path}
	}
}
