package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paterkleomenis/archstore/internal/core/domain"
)

// ==================== SchedulerStore Tests ====================

func TestSchedulerStore_SaveAndGetTask(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	schedulerStore := store.SchedulerStore()

	now := time.Now().UTC().Truncate(time.Second)
	task := &domain.ScheduledTask{
		ID:          domain.TaskIDCachePrune,
		Name:        "Cache Prune",
		Interval:    30 * time.Minute,
		LastRun:     now.Add(-30 * time.Minute),
		NextRun:     now,
		LastError:   "database is locked",
		LastSuccess: now.Add(-time.Hour),
		Enabled:     true,
	}
	require.NoError(t, schedulerStore.SaveTask(ctx, task))

	got, err := schedulerStore.GetTask(ctx, domain.TaskIDCachePrune)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, task.Name, got.Name)
	assert.Equal(t, task.Interval, got.Interval)
	assert.Equal(t, task.LastError, got.LastError)
	assert.True(t, got.Enabled)
	assert.WithinDuration(t, task.LastRun, got.LastRun, time.Second)
	assert.WithinDuration(t, task.NextRun, got.NextRun, time.Second)
	assert.WithinDuration(t, task.LastSuccess, got.LastSuccess, time.Second)
}

func TestSchedulerStore_GetTask_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	task, err := store.SchedulerStore().GetTask(context.Background(), "non-existent")
	require.NoError(t, err)
	assert.Nil(t, task)
}

func TestSchedulerStore_SaveTask_Upserts(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	schedulerStore := store.SchedulerStore()

	task := &domain.ScheduledTask{ID: "t", Name: "T", Interval: time.Hour, Enabled: true}
	require.NoError(t, schedulerStore.SaveTask(ctx, task))

	task.Interval = 2 * time.Hour
	task.Enabled = false
	task.LastError = "failed"
	require.NoError(t, schedulerStore.SaveTask(ctx, task))

	tasks, err := schedulerStore.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, 2*time.Hour, tasks[0].Interval)
	assert.False(t, tasks[0].Enabled)
	assert.Equal(t, "failed", tasks[0].LastError)
}

func TestSchedulerStore_NilArguments(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	schedulerStore := store.SchedulerStore()

	assert.ErrorIs(t, schedulerStore.SaveTask(ctx, nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, schedulerStore.RecordResult(ctx, nil), domain.ErrInvalidInput)
}

func TestSchedulerStore_ListAndDelete(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	schedulerStore := store.SchedulerStore()

	empty, err := schedulerStore.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, id := range []string{"b", "a", "c"} {
		require.NoError(t, schedulerStore.SaveTask(ctx, &domain.ScheduledTask{ID: id, Name: id, Interval: time.Minute}))
	}

	tasks, err := schedulerStore.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "a", tasks[0].ID)
	assert.True(t, tasks[0].NextRun.IsZero())

	require.NoError(t, schedulerStore.DeleteTask(ctx, "b"))
	got, err := schedulerStore.GetTask(ctx, "b")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSchedulerStore_ResultsHistoryAndPrune(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	schedulerStore := store.SchedulerStore()

	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		result := &domain.TaskResult{
			TaskID:         domain.TaskIDCachePrune,
			StartedAt:      start.Add(time.Duration(i) * time.Minute),
			EndedAt:        start.Add(time.Duration(i)*time.Minute + time.Second),
			Success:        i != 5,
			ItemsProcessed: i,
		}
		if !result.Success {
			result.Error = "disk I/O error"
		}
		require.NoError(t, schedulerStore.RecordResult(ctx, result))
	}
	require.NoError(t, schedulerStore.RecordResult(ctx, &domain.TaskResult{
		TaskID: "other", StartedAt: start, EndedAt: start, Success: true,
	}))

	history, err := schedulerStore.GetTaskHistory(ctx, domain.TaskIDCachePrune, 3)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.False(t, history[0].Success)
	assert.Equal(t, "disk I/O error", history[0].Error)
	assert.Equal(t, 4, history[1].ItemsProcessed)
	assert.Equal(t, start.Add(5*time.Minute), history[0].StartedAt)

	require.NoError(t, schedulerStore.PruneHistory(ctx, 2))

	history, err = schedulerStore.GetTaskHistory(ctx, domain.TaskIDCachePrune, 10)
	require.NoError(t, err)
	assert.Len(t, history, 2)
	other, err := schedulerStore.GetTaskHistory(ctx, "other", 10)
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestColumnTypes(t *testing.T) {
	v, err := unixTime{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	ts := time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC)
	v, err = unixTime(ts).Value()
	require.NoError(t, err)
	assert.Equal(t, ts.UnixNano(), v)

	var got unixTime
	require.NoError(t, got.Scan(ts.UnixNano()))
	assert.Equal(t, ts, time.Time(got))
	require.NoError(t, got.Scan(nil))
	assert.True(t, time.Time(got).IsZero())
	assert.Error(t, got.Scan("2026-01-02"))

	v, err = optString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	var msg optString
	require.NoError(t, msg.Scan(nil))
	assert.Empty(t, msg)
	require.NoError(t, msg.Scan("locked"))
	assert.Equal(t, optString("locked"), msg)
}

func TestSchedulerStore_NullColumns(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.SchedulerStore().SaveTask(ctx, &domain.ScheduledTask{ID: "fresh", Name: "Fresh"}))

	var lastRun, lastError sql.NullString
	require.NoError(t, store.db.QueryRowContext(ctx,
		`SELECT last_run, last_error FROM scheduled_tasks WHERE id = 'fresh'`).Scan(&lastRun, &lastError))
	assert.False(t, lastRun.Valid)
	assert.False(t, lastError.Valid)
}
