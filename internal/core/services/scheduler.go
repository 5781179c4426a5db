package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/paterkleomenis/archstore/internal/core/domain"
	"github.com/paterkleomenis/archstore/internal/core/ports/driven"
	"github.com/paterkleomenis/archstore/internal/core/ports/driving"
	"github.com/paterkleomenis/archstore/internal/logger"
)

var _ driving.Scheduler = (*Scheduler)(nil)

// Results kept per task in the scheduler store.
const taskResultRetention = 100

// job is a built-in maintenance task. run returns the rows it removed.
type job struct {
	name string
	run  func(ctx context.Context, now time.Time) (int, error)
}

// Scheduler runs maintenance jobs on their configured intervals while
// the TUI or HTTP server is up. The CLI runs them on demand via RunNow.
type Scheduler struct {
	config   domain.SchedulerConfig
	store    driven.SchedulerStore
	cache    driven.CacheStore
	history  driven.HistoryStore
	cacheTTL time.Duration
	tick     time.Duration
	jobs     map[string]job

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler wires the maintenance jobs. A nil cache or history store
// skips that half of cache-prune.
func NewScheduler(
	config domain.SchedulerConfig,
	store driven.SchedulerStore,
	cache driven.CacheStore,
	history driven.HistoryStore,
	cacheTTL time.Duration,
) *Scheduler {
	s := &Scheduler{
		config:   config,
		store:    store,
		cache:    cache,
		history:  history,
		cacheTTL: cacheTTL,
		tick:     time.Minute,
	}
	s.jobs = map[string]job{
		domain.TaskIDCachePrune: {name: "Cache Prune", run: s.runCachePrune},
	}
	return s
}

// Start syncs stored tasks with configuration and then checks for due
// tasks every tick until ctx ends or Stop is called. It returns nil at
// once when the scheduler is disabled or already running.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logger.Debug("scheduler disabled")
		return nil
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return nil
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	if err := s.initialiseTasks(ctx); err != nil {
		logger.Warn("scheduler: syncing tasks: %v", err)
	}

	// Tasks get ctx rather than loopCtx so that Stop lets them finish.
	if loopCtx.Err() == nil {
		s.checkAndRunDueTasks(ctx)
	}
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-loopCtx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.checkAndRunDueTasks(ctx)
		}
	}
}

// Stop ends the loop and waits for in-flight tasks.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		s.wg.Wait()
	}
	return nil
}

// initialiseTasks creates or updates a stored task per job. A job whose
// configured interval is not positive is removed instead.
func (s *Scheduler) initialiseTasks(ctx context.Context) error {
	ids := make([]string, 0, len(s.jobs))
	for id := range s.jobs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		cfg := s.config.GetTaskConfig(id)
		if cfg.Interval <= 0 {
			if err := s.store.DeleteTask(ctx, id); err != nil {
				return fmt.Errorf("remove task %s: %w", id, err)
			}
			continue
		}
		if _, err := s.ensureTask(ctx, id, s.jobs[id].name, cfg); err != nil {
			return err
		}
	}
	return nil
}

// ensureTask stores the task, adopting cfg's interval and enabled flag.
// A changed interval reschedules the next run from now.
func (s *Scheduler) ensureTask(ctx context.Context, id, name string, cfg domain.TaskConfig) (*domain.ScheduledTask, error) {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load task %s: %w", id, err)
	}

	switch {
	case task == nil:
		task = &domain.ScheduledTask{ID: id, Name: name, Interval: cfg.Interval}
	case task.Interval != cfg.Interval:
		task.Interval = cfg.Interval
		task.NextRun = time.Now().Add(cfg.Interval)
	}
	task.Enabled = cfg.Enabled

	if err := s.store.SaveTask(ctx, task); err != nil {
		return nil, fmt.Errorf("save task %s: %w", id, err)
	}
	return task, nil
}

func (s *Scheduler) checkAndRunDueTasks(ctx context.Context) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		logger.Warn("scheduler: listing tasks: %v", err)
		return
	}
	now := time.Now()
	for i := range tasks {
		if tasks[i].IsDue(now) {
			s.runTask(ctx, &tasks[i])
		}
	}
}

func (s *Scheduler) runTask(ctx context.Context, task *domain.ScheduledTask) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if _, err := s.execute(ctx, task); err != nil {
			logger.Warn("scheduler: task %s: %v", task.ID, err)
		}
	}()
}

// execute runs the job behind task and stores the outcome. Bookkeeping
// failures are logged; the returned error is the job's own.
func (s *Scheduler) execute(ctx context.Context, task *domain.ScheduledTask) (*domain.TaskResult, error) {
	j, ok := s.jobs[task.ID]
	if !ok {
		return nil, fmt.Errorf("%w: unknown task %q", domain.ErrNotFound, task.ID)
	}

	result := &domain.TaskResult{TaskID: task.ID, StartedAt: time.Now()}
	removed, err := j.run(ctx, result.StartedAt)
	result.EndedAt = time.Now()
	result.ItemsProcessed = removed
	result.Success = err == nil

	task.LastRun = result.StartedAt
	task.NextRun = result.EndedAt.Add(task.Interval)
	task.LastError = ""
	if err != nil {
		result.Error = err.Error()
		task.LastError = result.Error
	} else {
		task.LastSuccess = result.EndedAt
	}

	if e := s.store.SaveTask(ctx, task); e != nil {
		logger.Warn("scheduler: saving task %s: %v", task.ID, e)
	}
	if e := s.store.RecordResult(ctx, result); e != nil {
		logger.Warn("scheduler: recording result of %s: %v", task.ID, e)
	}
	if e := s.store.PruneHistory(ctx, taskResultRetention); e != nil {
		logger.Warn("scheduler: pruning task results: %v", e)
	}
	return result, err
}

// RunNow runs taskID immediately, due or not. A job with no stored task
// yet is stored from configuration first.
func (s *Scheduler) RunNow(ctx context.Context, taskID string) (*domain.TaskResult, error) {
	j, ok := s.jobs[taskID]
	if !ok {
		return nil, fmt.Errorf("%w: unknown task %q", domain.ErrNotFound, taskID)
	}
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("load task %s: %w", taskID, err)
	}
	if task == nil {
		if task, err = s.ensureTask(ctx, taskID, j.name, s.config.GetTaskConfig(taskID)); err != nil {
			return nil, err
		}
	}
	return s.execute(ctx, task)
}

// Status lists stored tasks, each with up to recent latest results.
func (s *Scheduler) Status(ctx context.Context, recent int) ([]domain.TaskStatus, error) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	out := make([]domain.TaskStatus, len(tasks))
	for i, task := range tasks {
		out[i].Task = task
		if recent <= 0 {
			continue
		}
		if out[i].Recent, err = s.store.GetTaskHistory(ctx, task.ID, recent); err != nil {
			return nil, fmt.Errorf("task history %s: %w", task.ID, err)
		}
	}
	return out, nil
}

// runCachePrune deletes cache rows older than the TTL and trims search
// history to the configured retention.
func (s *Scheduler) runCachePrune(ctx context.Context, now time.Time) (int, error) {
	removed := 0
	if s.cache != nil {
		n, err := s.cache.Prune(ctx, now.Add(-s.cacheTTL))
		if err != nil {
			return removed, fmt.Errorf("prune cache: %w", err)
		}
		removed += n
	}
	if s.history != nil && s.config.HistoryRetention > 0 {
		n, err := s.history.Trim(ctx, s.config.HistoryRetention)
		if err != nil {
			return removed, fmt.Errorf("trim history: %w", err)
		}
		removed += n
	}
	logger.Debug("scheduler: cache prune removed %d rows", removed)
	return removed, nil
}
