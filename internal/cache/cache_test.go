package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mtran/planhub/internal/cache"
	"github.com/mtran/planhub/internal/store"
)

func TestQueryCachesUntilInvalidated(t *testing.T) {
	c := cache.New()
	fetches := 0
	q := cache.NewQuery(c, cache.EntityTasks, "", func(ctx context.Context) (int, error) {
		fetches++
		return fetches, nil
	})
	ctx := context.Background()

	v, err := q.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, v)

	v, err = q.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, v, "second read is served from cache")
	require.Equal(t, 1, fetches)

	c.Invalidate(cache.EntityTasks)
	require.True(t, q.Stale())

	v, err = q.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, v, "invalidation forces a refetch")
}

func TestInvalidationIsEntityWide(t *testing.T) {
	c := cache.New()
	fetchA, fetchB := 0, 0
	all := cache.NewQuery(c, cache.EntityTasks, "", func(ctx context.Context) (int, error) {
		fetchA++
		return fetchA, nil
	})
	scoped := cache.NewQuery(c, cache.EntityTasks, "p1", func(ctx context.Context) (int, error) {
		fetchB++
		return fetchB, nil
	})
	other := cache.NewQuery(c, cache.EntityLabels, "", func(ctx context.Context) (int, error) {
		return 42, nil
	})
	ctx := context.Background()

	_, _ = all.Get(ctx)
	_, _ = scoped.Get(ctx)
	_, _ = other.Get(ctx)

	require.Equal(t, "tasks", all.Key())
	require.Equal(t, "tasks:p1", scoped.Key())

	c.Invalidate(cache.EntityTasks)
	require.True(t, all.Stale())
	require.True(t, scoped.Stale(), "every scope of the entity goes stale together")
	require.False(t, other.Stale(), "unrelated entities keep their cache")
}

func TestQueryFailedRefetchKeepsCachedValue(t *testing.T) {
	c := cache.New()
	fail := false
	q := cache.NewQuery(c, cache.EntityTasks, "", func(ctx context.Context) (string, error) {
		if fail {
			return "", errors.New("store offline")
		}
		return "good", nil
	})
	ctx := context.Background()

	v, err := q.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "good", v)

	c.Invalidate(cache.EntityTasks)
	fail = true

	_, err = q.Get(ctx)
	require.Error(t, err)

	cached, ok := q.Peek()
	require.True(t, ok)
	require.Equal(t, "good", cached, "the stale value stays available")
}

func TestMutationLifecycle(t *testing.T) {
	c := cache.New()
	q := cache.NewQuery(c, cache.EntityTasks, "", func(ctx context.Context) (int, error) {
		return 0, nil
	})
	ctx := context.Background()
	_, _ = q.Get(ctx)

	m := cache.NewMutation(c, []string{cache.EntityTasks, cache.EntityProjects},
		func(ctx context.Context) (string, error) {
			return "created", nil
		})
	require.Equal(t, cache.StateIdle, m.State())

	result, err := m.Do(ctx)
	require.NoError(t, err)
	require.Equal(t, "created", result)
	require.Equal(t, cache.StateSuccess, m.State())
	require.Equal(t, "created", m.Result())
	require.True(t, q.Stale(), "success invalidates the declared entities")
}

func TestMutationErrorState(t *testing.T) {
	c := cache.New()
	q := cache.NewQuery(c, cache.EntityTasks, "", func(ctx context.Context) (int, error) {
		return 0, nil
	})
	ctx := context.Background()
	_, _ = q.Get(ctx)

	boom := errors.New("rejected")
	m := cache.NewMutation(c, []string{cache.EntityTasks},
		func(ctx context.Context) (string, error) {
			return "", boom
		})

	_, err := m.Do(ctx)
	require.ErrorIs(t, err, boom)
	require.Equal(t, cache.StateError, m.State())
	require.ErrorIs(t, m.Err(), boom)
	require.False(t, q.Stale(), "failed mutations invalidate nothing")
}

func TestWatchFeedInvalidatesMappedEntities(t *testing.T) {
	c := cache.New()
	feed := store.NewFeed()
	stop := c.WatchFeed(feed)
	defer stop()

	q := cache.NewQuery(c, cache.EntityTasks, "", func(ctx context.Context) (int, error) {
		return 0, nil
	})
	_, _ = q.Get(context.Background())
	require.False(t, q.Stale())

	// A join-table change goes stale under the owning entity.
	feed.Publish(store.ChangeEvent{Table: "task_labels", Op: store.OpUpdate, ID: "t1"})
	require.Eventually(t, q.Stale, time.Second, 5*time.Millisecond)
}

func TestWatchFeedIgnoresUnknownTables(t *testing.T) {
	c := cache.New()
	feed := store.NewFeed()
	stop := c.WatchFeed(feed)
	defer stop()

	q := cache.NewQuery(c, cache.EntityTasks, "", func(ctx context.Context) (int, error) {
		return 0, nil
	})
	_, _ = q.Get(context.Background())

	feed.Publish(store.ChangeEvent{Table: "schema_version", Op: store.OpInsert, ID: "9"})
	feed.Publish(store.ChangeEvent{Table: "labels", Op: store.OpInsert, ID: "l1"})

	// Give the watcher a beat; the tasks query must stay fresh.
	time.Sleep(20 * time.Millisecond)
	require.False(t, q.Stale())
}
