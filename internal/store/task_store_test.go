package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mtran/planhub/internal/model"
	"github.com/mtran/planhub/internal/store"
	"github.com/mtran/planhub/tests/testutil"
)

const testUser = "user-1"

func mustCreateTask(t *testing.T, s *store.SQLiteStore, task model.Task) model.Task {
	t.Helper()
	if task.UserID == "" {
		task.UserID = testUser
	}
	require.NoError(t, s.CreateTask(context.Background(), task))

	fetched, err := s.GetTaskByID(context.Background(), task.ID)
	require.NoError(t, err)
	return *fetched
}

func TestCreateTaskDefaults(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateTask(ctx, model.Task{
		ID:     "t1",
		Title:  "write schema",
		UserID: testUser,
	}))

	task, err := s.GetTaskByID(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, model.TaskStatusPending, task.Status)
	require.Equal(t, model.PriorityMedium, task.Priority)
	require.Equal(t, model.DefaultEffort, task.Effort)
	require.Nil(t, task.DueDate)
	require.Nil(t, task.ProjectID)
}

func TestCreateTaskRejectsEmptyTitle(t *testing.T) {
	s := testutil.NewTestStore(t)

	err := s.CreateTask(context.Background(), model.Task{Title: "   ", UserID: testUser})
	require.Error(t, err, "blank title should be rejected")
}

func TestTaskFilterConditionsAreANDed(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	mustCreateTask(t, s, model.Task{ID: "t1", Title: "a", Status: model.TaskStatusPending, Priority: model.PriorityHigh})
	mustCreateTask(t, s, model.Task{ID: "t2", Title: "b", Status: model.TaskStatusPending, Priority: model.PriorityLow})
	mustCreateTask(t, s, model.Task{ID: "t3", Title: "c", Status: model.TaskStatusCompleted, Priority: model.PriorityHigh})

	tasks, err := s.GetTasks(ctx, store.TaskFilter{
		Statuses:   []string{model.TaskStatusPending},
		Priorities: []string{model.PriorityHigh},
	})
	require.NoError(t, err)
	require.Len(t, tasks, 1, "both conditions must hold")
	require.Equal(t, "t1", tasks[0].ID)
}

func TestTaskFilterInSemantics(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	mustCreateTask(t, s, model.Task{ID: "t1", Title: "a", Status: model.TaskStatusPending})
	mustCreateTask(t, s, model.Task{ID: "t2", Title: "b", Status: model.TaskStatusInProgress})
	mustCreateTask(t, s, model.Task{ID: "t3", Title: "c", Status: model.TaskStatusCancelled})

	tasks, err := s.GetTasks(ctx, store.TaskFilter{
		Statuses: []string{model.TaskStatusPending, model.TaskStatusInProgress},
	})
	require.NoError(t, err)
	require.Len(t, tasks, 2, "multiple values within one field are ORed")
}

func TestTaskFilterQueryMatchesTitleAndDescription(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	mustCreateTask(t, s, model.Task{ID: "t1", Title: "fix billing report"})
	mustCreateTask(t, s, model.Task{ID: "t2", Title: "unrelated", Description: "mentions Billing in passing"})
	mustCreateTask(t, s, model.Task{ID: "t3", Title: "nothing here"})

	q := "billing"
	tasks, err := s.GetTasks(ctx, store.TaskFilter{Query: &q})
	require.NoError(t, err)
	require.Len(t, tasks, 2, "substring match over title and description, case-insensitive")
}

func TestTaskFilterOverdue(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	past := time.Now().Add(-48 * time.Hour)
	future := time.Now().Add(48 * time.Hour)

	mustCreateTask(t, s, model.Task{ID: "t1", Title: "late", DueDate: &past})
	mustCreateTask(t, s, model.Task{ID: "t2", Title: "late but done", DueDate: &past, Status: model.TaskStatusCompleted})
	mustCreateTask(t, s, model.Task{ID: "t3", Title: "upcoming", DueDate: &future})
	mustCreateTask(t, s, model.Task{ID: "t4", Title: "no due date"})

	tasks, err := s.GetTasks(ctx, store.TaskFilter{Overdue: true})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, "t1", tasks[0].ID, "completed tasks are never overdue")
}

func TestTaskFilterDueWindowIsHalfOpen(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	day := func(offset int) time.Time {
		return time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	}
	d0, d3, d7 := day(0), day(3), day(7)

	mustCreateTask(t, s, model.Task{ID: "t1", Title: "monday", DueDate: &d0})
	mustCreateTask(t, s, model.Task{ID: "t2", Title: "thursday", DueDate: &d3})
	mustCreateTask(t, s, model.Task{ID: "t3", Title: "next monday", DueDate: &d7})

	from, to := day(0), day(7)
	tasks, err := s.GetTasks(ctx, store.TaskFilter{DueFrom: &from, DueTo: &to})
	require.NoError(t, err)
	require.Len(t, tasks, 2, "DueTo is exclusive")
	for _, task := range tasks {
		require.NotEqual(t, "t3", task.ID)
	}
}

func TestTaskFilterByLabel(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateLabel(ctx, model.Label{ID: "l1", Name: "urgent-client", OwnerID: testUser}))
	require.NoError(t, s.CreateLabel(ctx, model.Label{ID: "l2", Name: "internal", OwnerID: testUser}))

	mustCreateTask(t, s, model.Task{ID: "t1", Title: "a"})
	mustCreateTask(t, s, model.Task{ID: "t2", Title: "b"})
	mustCreateTask(t, s, model.Task{ID: "t3", Title: "c"})

	require.NoError(t, s.SetTaskLabels(ctx, "t1", []string{"l1", "l2"}))
	require.NoError(t, s.SetTaskLabels(ctx, "t2", []string{"l2"}))

	tasks, err := s.GetTasks(ctx, store.TaskFilter{LabelIDs: []string{"l1"}})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, "t1", tasks[0].ID)

	// A task carrying both labels must not appear twice.
	tasks, err = s.GetTasks(ctx, store.TaskFilter{LabelIDs: []string{"l1", "l2"}})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
}

func TestTaskSortOrders(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	d1 := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

	mustCreateTask(t, s, model.Task{ID: "t1", Title: "zebra", SortOrder: 3, DueDate: &d2})
	mustCreateTask(t, s, model.Task{ID: "t2", Title: "apple", SortOrder: 1, DueDate: &d1})
	mustCreateTask(t, s, model.Task{ID: "t3", Title: "mango", SortOrder: 2})

	ids := func(tasks []model.Task) []string {
		out := make([]string, len(tasks))
		for i, task := range tasks {
			out[i] = task.ID
		}
		return out
	}

	tasks, err := s.GetTasks(ctx, store.TaskFilter{})
	require.NoError(t, err)
	require.Equal(t, []string{"t2", "t3", "t1"}, ids(tasks), "default order is sort_order ascending")

	tasks, err = s.GetTasks(ctx, store.TaskFilter{SortBy: "title"})
	require.NoError(t, err)
	require.Equal(t, []string{"t2", "t3", "t1"}, ids(tasks))

	tasks, err = s.GetTasks(ctx, store.TaskFilter{SortBy: "title", SortDesc: true})
	require.NoError(t, err)
	require.Equal(t, []string{"t1", "t3", "t2"}, ids(tasks))
}

func TestGetTaskCountHonorsFilter(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	mustCreateTask(t, s, model.Task{ID: "t1", Title: "a"})
	mustCreateTask(t, s, model.Task{ID: "t2", Title: "b"})
	mustCreateTask(t, s, model.Task{ID: "t3", Title: "c", Status: model.TaskStatusCompleted})

	count, err := s.GetTaskCount(ctx, store.TaskFilter{})
	require.NoError(t, err)
	require.Equal(t, 3, count)

	count, err = s.GetTaskCount(ctx, store.TaskFilter{Statuses: []string{model.TaskStatusCompleted}})
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestSetTaskLabelsReplacesWholesale(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateLabel(ctx, model.Label{ID: "l1", Name: "one", OwnerID: testUser}))
	require.NoError(t, s.CreateLabel(ctx, model.Label{ID: "l2", Name: "two", OwnerID: testUser}))
	require.NoError(t, s.CreateLabel(ctx, model.Label{ID: "l3", Name: "three", OwnerID: testUser}))
	mustCreateTask(t, s, model.Task{ID: "t1", Title: "a"})

	require.NoError(t, s.SetTaskLabels(ctx, "t1", []string{"l1", "l2"}))

	require.NoError(t, s.SetTaskLabels(ctx, "t1", []string{"l3"}))
	labels, err := s.GetLabelsForTask(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, labels, 1, "replace is set-to-exactly, not add")
	require.Equal(t, "l3", labels[0].ID)

	require.NoError(t, s.SetTaskLabels(ctx, "t1", nil))
	labels, err = s.GetLabelsForTask(ctx, "t1")
	require.NoError(t, err)
	require.Empty(t, labels, "empty set clears all associations")
}

func TestDeleteTaskCascadesChildRows(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateLabel(ctx, model.Label{ID: "l1", Name: "one", OwnerID: testUser}))
	mustCreateTask(t, s, model.Task{ID: "t1", Title: "a"})
	require.NoError(t, s.SetTaskLabels(ctx, "t1", []string{"l1"}))
	require.NoError(t, s.AddComment(ctx, model.Comment{ID: "c1", TaskID: "t1", AuthorID: testUser, Body: "note"}))

	require.NoError(t, s.DeleteTask(ctx, "t1"))

	_, err := s.GetTaskByID(ctx, "t1")
	require.Error(t, err)

	comments, err := s.GetCommentsForTask(ctx, "t1")
	require.NoError(t, err)
	require.Empty(t, comments)

	// The label itself survives; only the association goes.
	labels, err := s.GetLabels(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, labels, 1)
}

func TestUpdateTaskNotFound(t *testing.T) {
	s := testutil.NewTestStore(t)

	err := s.UpdateTask(context.Background(), model.Task{ID: "missing", Title: "x", UserID: testUser})
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")
}
