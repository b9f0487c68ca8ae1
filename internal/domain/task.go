package domain

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

//go:generate mockgen -destination mocks/mock_task_repository.go -package mocks github.com/cartpulse/cartpulse/internal/domain TaskRepository
//go:generate mockgen -destination mocks/mock_task_processor.go -package mocks github.com/cartpulse/cartpulse/internal/domain TaskProcessor

// TaskStatus represents the current state of a queued task
type TaskStatus string

const (
	// TaskStatusPending is for tasks waiting for their next_run_after
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusRunning is for tasks claimed by a worker
	TaskStatusRunning TaskStatus = "running"
	// TaskStatusCompleted is for tasks that finished successfully
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusFailed is for tasks that exhausted their retries
	TaskStatusFailed TaskStatus = "failed"
)

// TaskKind identifies which processor handles a task
type TaskKind string

const (
	// TaskKindSequenceStart asks the orchestrator to open a campaign for a
	// freshly abandoned checkout
	TaskKindSequenceStart TaskKind = "sequence_start"
	// TaskKindSequenceStep asks the orchestrator to execute the next step
	// of a sequence
	TaskKindSequenceStep TaskKind = "sequence_step"
)

// The queue delivers at-least-once with a small bounded retry budget;
// every processor must tolerate duplicate execution.
const DefaultTaskMaxRetries = 2

// SequenceStartPayload is the payload of a sequence_start task
type SequenceStartPayload struct {
	CheckoutID string `json:"checkout_id"`
	Email      string `json:"email"`
}

// SequenceStepPayload is the payload of a sequence_step task. StepIndex
// pins the task to one step so a duplicate delivery never sends the
// following step early.
type SequenceStepPayload struct {
	SequenceID string `json:"sequence_id"`
	StepIndex  int    `json:"step_index"`
}

// TaskPayload is the raw JSONB payload column
type TaskPayload json.RawMessage

// Value implements the driver.Valuer interface for TaskPayload
func (p TaskPayload) Value() (driver.Value, error) {
	if len(p) == 0 {
		return []byte("{}"), nil
	}
	return []byte(p), nil
}

// Scan implements the sql.Scanner interface for TaskPayload
func (p *TaskPayload) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("expected []byte, got %T", value)
	}

	*p = TaskPayload(bytes.Clone(b))
	return nil
}

// Task is one unit of deferred work. Workers share no memory; everything a
// processor needs travels in the payload.
type Task struct {
	ID           string      `json:"id"`
	StoreID      string      `json:"store_id"`
	Kind         TaskKind    `json:"kind"`
	Payload      TaskPayload `json:"payload,omitempty"`
	Status       TaskStatus  `json:"status"`
	NextRunAfter *time.Time  `json:"next_run_after,omitempty"`
	MaxRetries   int         `json:"max_retries"`
	RetryCount   int         `json:"retry_count"`
	ErrorMessage string      `json:"error_message,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	CompletedAt  *time.Time  `json:"completed_at,omitempty"`
}

// NewTask builds a pending task running no earlier than delay from now
func NewTask(storeID string, kind TaskKind, payload interface{}, delay time.Duration) (*Task, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task payload: %w", err)
	}

	runAfter := time.Now().UTC().Add(delay)
	return &Task{
		StoreID:      storeID,
		Kind:         kind,
		Payload:      TaskPayload(raw),
		Status:       TaskStatusPending,
		NextRunAfter: &runAfter,
		MaxRetries:   DefaultTaskMaxRetries,
	}, nil
}

// TaskRepository defines methods for task persistence
type TaskRepository interface {
	// WithTransaction executes a function within a transaction
	WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error

	Create(ctx context.Context, task *Task) error
	// CreateTx adds a task within an existing transaction so it commits or
	// rolls back with the caller's own writes
	CreateTx(ctx context.Context, tx *sql.Tx, task *Task) error
	Get(ctx context.Context, id string) (*Task, error)

	// ClaimNextBatch marks up to limit due pending tasks as running and
	// returns them. Rows are locked with FOR UPDATE SKIP LOCKED so
	// concurrent workers never claim the same task.
	ClaimNextBatch(ctx context.Context, now time.Time, limit int) ([]*Task, error)

	MarkAsCompleted(ctx context.Context, id string) error
	MarkAsFailed(ctx context.Context, id string, errorMsg string) error
	// Reschedule returns a running task to pending for a later retry
	Reschedule(ctx context.Context, id string, nextRunAfter time.Time, errorMsg string) error
}

// TaskProcessor defines the interface for task execution
type TaskProcessor interface {
	// Process executes the task. Processors re-validate persistent state
	// before acting so a duplicate delivery is a harmless no-op.
	Process(ctx context.Context, task *Task) error

	// CanProcess returns whether this processor can handle the given kind
	CanProcess(kind TaskKind) bool
}
