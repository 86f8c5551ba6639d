package plannerview

import (
	"context"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/mtran/planhub/internal/cache"
	"github.com/mtran/planhub/internal/client"
	"github.com/mtran/planhub/internal/keys"
	"github.com/mtran/planhub/internal/model"
	"github.com/mtran/planhub/internal/planner"
	"github.com/mtran/planhub/internal/session"
	"github.com/mtran/planhub/tests/testutil"
)

func TestTruncateCountsRunesNotBytes(t *testing.T) {
	got := truncate("日本語のタイトルです", 6)
	require.Equal(t, "日本語のタ…", got)
	require.True(t, utf8.ValidString(got))
}

func TestTruncateKeepsShortStrings(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))
	require.Equal(t, "日本語のタイトルです", truncate("日本語のタイトルです", 10))
}

func TestTruncateEnforcesMinimumWidth(t *testing.T) {
	got := truncate("a long enough title", 1)
	require.Equal(t, "a l…", got)
}

func TestLoadWeekServesCachedWeekUntilInvalidated(t *testing.T) {
	s := testutil.NewTestStore(t)
	c := client.New(s, session.NewStatic("user-1"))
	qc := cache.New()
	cfg := model.PlannerConfig{WeekdayHours: 8, SaturdayHours: 4, SundayHours: 2}
	m := New(c, qc, keys.DefaultKeyMap(), cfg, planner.NewFileSink(t.TempDir()), 80, 24)

	ctx := context.Background()
	due := planner.WeekStart(time.Now()).AddDate(0, 0, 1)
	require.NoError(t, s.CreateTask(ctx, model.Task{
		ID: "t1", Title: "scheduled", UserID: "user-1", DueDate: &due,
	}))
	require.NoError(t, s.CreateTask(ctx, model.Task{
		ID: "t2", Title: "backlog", UserID: "user-1",
	}))

	msg := m.loadWeek()()
	loaded, ok := msg.(weekLoadedMsg)
	require.True(t, ok)
	require.NoError(t, loaded.err)
	require.Len(t, loaded.scheduled, 1)
	require.Len(t, loaded.backlog, 1)

	// A write the cache never hears about stays invisible until the
	// tasks entity is invalidated.
	require.NoError(t, s.CreateTask(ctx, model.Task{
		ID: "t3", Title: "late arrival", UserID: "user-1",
	}))
	loaded = m.loadWeek()().(weekLoadedMsg)
	require.NoError(t, loaded.err)
	require.Len(t, loaded.backlog, 1, "stale week should be served from cache")

	qc.Invalidate(cache.EntityTasks)
	loaded = m.loadWeek()().(weekLoadedMsg)
	require.NoError(t, loaded.err)
	require.Len(t, loaded.backlog, 2)
}
