package domain

import (
	"fmt"
	"time"
)

// TaskIDCachePrune deletes expired cache rows and trims search history.
const TaskIDCachePrune = "cache-prune"

// ScheduledTask is a recurring maintenance job and its bookkeeping.
// A zero NextRun means the task has never been scheduled and is due now.
type ScheduledTask struct {
	ID       string
	Name     string
	Interval time.Duration
	Enabled  bool

	LastRun     time.Time
	NextRun     time.Time
	LastSuccess time.Time
	LastError   string
}

// IsDue reports whether an enabled task should run at now.
func (t ScheduledTask) IsDue(now time.Time) bool {
	if !t.Enabled {
		return false
	}
	return t.NextRun.IsZero() || !t.NextRun.After(now)
}

// TaskResult records one execution. ItemsProcessed is the number of rows
// the task removed.
type TaskResult struct {
	TaskID         string
	StartedAt      time.Time
	EndedAt        time.Time
	Success        bool
	Error          string
	ItemsProcessed int
}

// Duration is how long the run took.
func (r TaskResult) Duration() time.Duration {
	if r.EndedAt.Before(r.StartedAt) {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// Summary is a one-line description of the outcome.
func (r TaskResult) Summary() string {
	if !r.Success {
		return "failed: " + r.Error
	}
	return fmt.Sprintf("removed %d rows", r.ItemsProcessed)
}

// TaskStatus pairs a task with its latest results, newest first.
type TaskStatus struct {
	Task   ScheduledTask
	Recent []TaskResult
}

// TaskConfig is the per-task part of SchedulerConfig. A non-positive
// Interval retires the task.
type TaskConfig struct {
	Enabled  bool
	Interval time.Duration
}

// SchedulerConfig is read from the [scheduler] table of the settings file.
type SchedulerConfig struct {
	Enabled          bool
	TaskConfigs      map[string]TaskConfig
	HistoryRetention int // search history rows kept by cache-prune
}

// GetTaskConfig returns the config for taskID, or the zero value.
func (c *SchedulerConfig) GetTaskConfig(taskID string) TaskConfig {
	return c.TaskConfigs[taskID]
}

func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Enabled: true,
		TaskConfigs: map[string]TaskConfig{
			TaskIDCachePrune: {Enabled: true, Interval: 30 * time.Minute},
		},
		HistoryRetention: 500,
	}
}
