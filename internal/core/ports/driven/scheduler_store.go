package driven

import (
	"context"

	"github.com/paterkleomenis/archstore/internal/core/domain"
)

// SchedulerStore keeps maintenance task state and run results across
// restarts.
type SchedulerStore interface {
	// GetTask returns nil and no error when taskID is unknown.
	GetTask(ctx context.Context, taskID string) (*domain.ScheduledTask, error)

	// ListTasks returns every stored task.
	ListTasks(ctx context.Context) ([]domain.ScheduledTask, error)

	// SaveTask inserts or replaces the task with the same ID.
	SaveTask(ctx context.Context, task *domain.ScheduledTask) error

	// DeleteTask forgets a retired task. Unknown IDs are not an error.
	DeleteTask(ctx context.Context, taskID string) error

	// RecordResult appends one run outcome.
	RecordResult(ctx context.Context, result *domain.TaskResult) error

	// GetTaskHistory returns up to limit results for taskID, newest first.
	GetTaskHistory(ctx context.Context, taskID string, limit int) ([]domain.TaskResult, error)

	// PruneHistory keeps only the newest keep results of each task.
	PruneHistory(ctx context.Context, keep int) error
}
