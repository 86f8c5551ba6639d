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

func recvEvent(t *testing.T, ch <-chan store.ChangeEvent) store.ChangeEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change event")
		return store.ChangeEvent{}
	}
}

func TestFeedPublishesStoreMutations(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	ch, cancel := s.Feed().Subscribe("tasks")
	defer cancel()

	mustCreateTask(t, s, model.Task{ID: "t1", Title: "a"})
	ev := recvEvent(t, ch)
	require.Equal(t, "tasks", ev.Table)
	require.Equal(t, store.OpInsert, ev.Op)
	require.Equal(t, "t1", ev.ID)

	require.NoError(t, s.DeleteTask(ctx, "t1"))
	ev = recvEvent(t, ch)
	require.Equal(t, store.OpDelete, ev.Op)
}

func TestFeedSubscriptionFiltersTables(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	ch, cancel := s.Feed().Subscribe("labels")
	defer cancel()

	mustCreateTask(t, s, model.Task{ID: "t1", Title: "a"})
	require.NoError(t, s.CreateLabel(ctx, model.Label{ID: "l1", Name: "one", OwnerID: testUser}))

	ev := recvEvent(t, ch)
	require.Equal(t, "labels", ev.Table, "task event must not reach a labels-only subscriber")
	require.Equal(t, "l1", ev.ID)
}

func TestFeedLabelAssignmentPublishesJoinTable(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	mustCreateTask(t, s, model.Task{ID: "t1", Title: "a"})
	require.NoError(t, s.CreateLabel(ctx, model.Label{ID: "l1", Name: "one", OwnerID: testUser}))

	ch, cancel := s.Feed().Subscribe("task_labels")
	defer cancel()

	require.NoError(t, s.SetTaskLabels(ctx, "t1", []string{"l1"}))
	ev := recvEvent(t, ch)
	require.Equal(t, "task_labels", ev.Table)
	require.Equal(t, "t1", ev.ID, "join-table events carry the task id")
}

func TestFeedCancelClosesChannel(t *testing.T) {
	feed := store.NewFeed()
	ch, cancel := feed.Subscribe()
	cancel()

	_, ok := <-ch
	require.False(t, ok)

	// Publishing after cancel must not panic or block.
	feed.Publish(store.ChangeEvent{Table: "tasks", Op: store.OpInsert, ID: "x"})
}

func TestFeedSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	feed := store.NewFeed()
	ch, cancel := feed.Subscribe("tasks")
	defer cancel()

	// Fill well past the channel buffer; Publish must never block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			feed.Publish(store.ChangeEvent{Table: "tasks", Op: store.OpUpdate, ID: "t"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	// Drain whatever was buffered; the rest were dropped.
	count := 0
	for {
		select {
		case <-ch:
			count++
		default:
			require.LessOrEqual(t, count, 64)
			return
		}
	}
}
