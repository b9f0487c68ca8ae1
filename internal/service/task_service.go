package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/cartpulse/cartpulse/internal/domain"
	"github.com/cartpulse/cartpulse/pkg/logger"
)

// taskRetryBackoff is the delay before a failed task runs again
const taskRetryBackoff = 2 * time.Minute

// TaskService owns the delayed task queue: enqueueing work and draining due
// tasks through their registered processors. Delivery is at-least-once;
// processors are expected to re-validate state and no-op on duplicates.
type TaskService struct {
	repo       domain.TaskRepository
	logger     logger.Logger
	processors map[domain.TaskKind]domain.TaskProcessor
	lock       sync.RWMutex
}

// NewTaskService creates a new task service instance
func NewTaskService(repo domain.TaskRepository, logger logger.Logger) (*TaskService, error) {
	if repo == nil {
		return nil, fmt.Errorf("task repository is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &TaskService{
		repo:       repo,
		logger:     logger,
		processors: make(map[domain.TaskKind]domain.TaskProcessor),
	}, nil
}

// taskKinds returns all supported task kinds
func taskKinds() []domain.TaskKind {
	return []domain.TaskKind{
		domain.TaskKindSequenceStart,
		domain.TaskKindSequenceStep,
	}
}

// RegisterProcessor registers a task processor for the kinds it handles
func (s *TaskService) RegisterProcessor(processor domain.TaskProcessor) {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, kind := range taskKinds() {
		if processor.CanProcess(kind) {
			s.processors[kind] = processor
			s.logger.WithField("task_kind", kind).Info("Registered task processor")
		}
	}
}

// GetProcessor returns the processor for a given task kind
func (s *TaskService) GetProcessor(kind domain.TaskKind) (domain.TaskProcessor, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	processor, ok := s.processors[kind]
	if !ok {
		return nil, fmt.Errorf("no processor registered for task kind: %s", kind)
	}

	return processor, nil
}

// Enqueue schedules a unit of work to run after its delay
func (s *TaskService) Enqueue(ctx context.Context, task *domain.Task) error {
	if err := s.repo.Create(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"task_id":        task.ID,
		"store_id":       task.StoreID,
		"task_kind":      task.Kind,
		"next_run_after": task.NextRunAfter,
	}).Debug("Enqueued task")

	return nil
}

// EnqueueTx schedules a unit of work within the caller's transaction so the
// task and the state change it follows from commit or roll back together
func (s *TaskService) EnqueueTx(ctx context.Context, tx *sql.Tx, task *domain.Task) error {
	if err := s.repo.CreateTx(ctx, tx, task); err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"task_id":        task.ID,
		"store_id":       task.StoreID,
		"task_kind":      task.Kind,
		"next_run_after": task.NextRunAfter,
	}).Debug("Enqueued task")

	return nil
}

// ExecutePendingTasks claims a batch of due tasks and runs them. Each task
// succeeds, reschedules within its retry budget, or fails permanently; one
// bad task never blocks the rest of the batch.
func (s *TaskService) ExecutePendingTasks(ctx context.Context, maxTasks int) (int, error) {
	if maxTasks <= 0 {
		maxTasks = 10
	}

	tasks, err := s.repo.ClaimNextBatch(ctx, time.Now().UTC(), maxTasks)
	if err != nil {
		return 0, fmt.Errorf("failed to claim task batch: %w", err)
	}

	executed := 0
	for _, task := range tasks {
		if err := s.executeTask(ctx, task); err != nil {
			s.logger.WithFields(map[string]interface{}{
				"task_id":   task.ID,
				"store_id":  task.StoreID,
				"task_kind": task.Kind,
				"error":     err.Error(),
			}).Error("Task execution failed")
			continue
		}
		executed++
	}

	return executed, nil
}

func (s *TaskService) executeTask(ctx context.Context, task *domain.Task) error {
	processor, err := s.GetProcessor(task.Kind)
	if err != nil {
		if markErr := s.repo.MarkAsFailed(ctx, task.ID, err.Error()); markErr != nil {
			s.logger.WithField("task_id", task.ID).
				WithField("error", markErr.Error()).
				Error("Failed to mark task as failed")
		}
		return err
	}

	if procErr := processor.Process(ctx, task); procErr != nil {
		if task.RetryCount < task.MaxRetries {
			nextRun := time.Now().UTC().Add(taskRetryBackoff)
			if err := s.repo.Reschedule(ctx, task.ID, nextRun, procErr.Error()); err != nil {
				return fmt.Errorf("failed to reschedule task: %w", err)
			}
			s.logger.WithFields(map[string]interface{}{
				"task_id":     task.ID,
				"task_kind":   task.Kind,
				"retry_count": task.RetryCount + 1,
				"max_retries": task.MaxRetries,
				"next_run":    nextRun,
			}).Warn("Task failed, scheduling retry")
			return nil
		}

		if err := s.repo.MarkAsFailed(ctx, task.ID, procErr.Error()); err != nil {
			return fmt.Errorf("failed to mark task as failed: %w", err)
		}
		return procErr
	}

	if err := s.repo.MarkAsCompleted(ctx, task.ID); err != nil {
		return fmt.Errorf("failed to mark task as completed: %w", err)
	}

	return nil
}
