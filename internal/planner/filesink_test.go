package planner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mtran/planhub/internal/model"
	"github.com/mtran/planhub/internal/planner"
)

func TestFileSinkRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plans")
	sink := planner.NewFileSink(dir)
	ctx := context.Background()

	u := newRecordingUpdater()
	p := planner.New(u, monday, testCfg)
	require.NoError(t, p.PlanTask(ctx, model.Task{ID: "t1", EstimatedHours: 5}, monday))
	require.NoError(t, p.PlanTask(ctx, model.Task{ID: "t2", EstimatedHours: 5}, monday))

	require.NoError(t, p.SavePlan(ctx, sink))

	path := filepath.Join(dir, "2026-08-31.json")
	_, err := os.Stat(path)
	require.NoError(t, err, "snapshot file named by the week's Monday")

	loaded, err := sink.LoadPlan("2026-08-31")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.True(t, loaded.WeekStart.Equal(monday))
	require.Len(t, loaded.Tasks, 2)
	require.Len(t, loaded.Overloads, 1)
	require.InDelta(t, 2, loaded.Overloads[0].ExcessHours, 1e-9)
	require.InDelta(t, 8, loaded.Capacity[time.Monday], 1e-9)
}

func TestFileSinkReplacesEarlierSnapshot(t *testing.T) {
	dir := t.TempDir()
	sink := planner.NewFileSink(dir)
	ctx := context.Background()

	u := newRecordingUpdater()
	p := planner.New(u, monday, testCfg)
	require.NoError(t, p.PlanTask(ctx, model.Task{ID: "t1", EstimatedHours: 1}, monday))
	require.NoError(t, p.SavePlan(ctx, sink))

	require.NoError(t, p.PlanTask(ctx, model.Task{ID: "t2", EstimatedHours: 1}, monday))
	require.NoError(t, p.SavePlan(ctx, sink))

	loaded, err := sink.LoadPlan("2026-08-31")
	require.NoError(t, err)
	require.Len(t, loaded.Tasks, 2, "the latest save wins")
}

func TestFileSinkMissingWeek(t *testing.T) {
	sink := planner.NewFileSink(t.TempDir())

	loaded, err := sink.LoadPlan("2026-01-05")
	require.NoError(t, err)
	require.Nil(t, loaded)
}
