package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/paterkleomenis/archstore/internal/core/domain"
	"github.com/paterkleomenis/archstore/internal/core/ports/driven"
)

type schedulerStore struct {
	store *Store
}

var _ driven.SchedulerStore = (*schedulerStore)(nil)

const selectTask = `SELECT id, name, interval_seconds, enabled,
	last_run, next_run, last_success, last_error FROM scheduled_tasks`

func scanTask(row rowScanner) (domain.ScheduledTask, error) {
	var (
		t                          domain.ScheduledTask
		seconds                    int64
		lastRun, nextRun, lastSucc unixTime
		lastErr                    optString
	)
	if err := row.Scan(&t.ID, &t.Name, &seconds, &t.Enabled, &lastRun, &nextRun, &lastSucc, &lastErr); err != nil {
		return t, err
	}
	t.Interval = time.Duration(seconds) * time.Second
	t.LastRun, t.NextRun, t.LastSuccess = time.Time(lastRun), time.Time(nextRun), time.Time(lastSucc)
	t.LastError = string(lastErr)
	return t, nil
}

// GetTask returns nil, nil for an unknown ID.
func (s *schedulerStore) GetTask(ctx context.Context, taskID string) (*domain.ScheduledTask, error) {
	t, err := scanTask(s.store.db.QueryRowContext(ctx, selectTask+` WHERE id = ?`, taskID))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("reading task %s: %w", taskID, err)
	}
	return &t, nil
}

func (s *schedulerStore) ListTasks(ctx context.Context) ([]domain.ScheduledTask, error) {
	tasks, err := queryAll(ctx, s.store.db, scanTask, selectTask+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

func (s *schedulerStore) SaveTask(ctx context.Context, task *domain.ScheduledTask) error {
	if task == nil {
		return domain.ErrInvalidInput
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO scheduled_tasks
			(id, name, interval_seconds, enabled, last_run, next_run, last_success, last_error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			interval_seconds = excluded.interval_seconds,
			enabled = excluded.enabled,
			last_run = excluded.last_run,
			next_run = excluded.next_run,
			last_success = excluded.last_success,
			last_error = excluded.last_error`,
		task.ID, task.Name, int64(task.Interval/time.Second), task.Enabled,
		unixTime(task.LastRun), unixTime(task.NextRun), unixTime(task.LastSuccess),
		optString(task.LastError))
	if err != nil {
		return fmt.Errorf("saving task %s: %w", task.ID, err)
	}
	return nil
}

func (s *schedulerStore) DeleteTask(ctx context.Context, taskID string) error {
	if _, err := s.store.db.ExecContext(ctx, `DELETE FROM scheduled_tasks WHERE id = ?`, taskID); err != nil {
		return fmt.Errorf("deleting task %s: %w", taskID, err)
	}
	return nil
}

func (s *schedulerStore) RecordResult(ctx context.Context, r *domain.TaskResult) error {
	if r == nil {
		return domain.ErrInvalidInput
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO task_results (task_id, started_at, ended_at, success, error, items_processed)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.TaskID, r.StartedAt.UnixNano(), r.EndedAt.UnixNano(), r.Success, optString(r.Error), r.ItemsProcessed)
	if err != nil {
		return fmt.Errorf("recording result for %s: %w", r.TaskID, err)
	}
	return nil
}

func scanResult(row rowScanner) (domain.TaskResult, error) {
	var (
		r          domain.TaskResult
		start, end unixTime
		msg        optString
	)
	err := row.Scan(&r.TaskID, &start, &end, &r.Success, &msg, &r.ItemsProcessed)
	r.StartedAt, r.EndedAt, r.Error = time.Time(start), time.Time(end), string(msg)
	return r, err
}

// GetTaskHistory returns up to limit results for taskID, newest first.
func (s *schedulerStore) GetTaskHistory(ctx context.Context, taskID string, limit int) ([]domain.TaskResult, error) {
	results, err := queryAll(ctx, s.store.db, scanResult, `
		SELECT task_id, started_at, ended_at, success, error, items_processed
		FROM task_results WHERE task_id = ?
		ORDER BY started_at DESC, id DESC LIMIT ?`, taskID, limit)
	if err != nil {
		return nil, fmt.Errorf("reading history for %s: %w", taskID, err)
	}
	return results, nil
}

// PruneHistory keeps the newest keep results of every task.
func (s *schedulerStore) PruneHistory(ctx context.Context, keep int) error {
	_, err := execCount(ctx, s.store.db, `
		DELETE FROM task_results WHERE id IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (
					PARTITION BY task_id ORDER BY started_at DESC, id DESC
				) AS pos FROM task_results
			) WHERE pos > ?
		)`, keep)
	if err != nil {
		return fmt.Errorf("pruning task results: %w", err)
	}
	return nil
}
