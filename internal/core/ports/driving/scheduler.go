package driving

import (
	"context"

	"github.com/paterkleomenis/archstore/internal/core/domain"
)

// Scheduler runs maintenance tasks such as pruning the result cache.
type Scheduler interface {
	// Start runs due tasks until ctx ends or Stop is called.
	Start(ctx context.Context) error

	// Stop ends the loop and waits for tasks in flight.
	Stop() error

	// RunNow runs one task immediately and returns its result.
	RunNow(ctx context.Context, taskID string) (*domain.TaskResult, error)

	// Status lists stored tasks with up to recent results each.
	Status(ctx context.Context, recent int) ([]domain.TaskStatus, error)
}
