package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cartpulse/cartpulse/internal/domain"
)

// TaskRepository implements domain.TaskRepository using PostgreSQL.
// Claiming goes through FOR UPDATE SKIP LOCKED so concurrently polling
// workers partition the due tasks between them instead of colliding.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new TaskRepository instance
func NewTaskRepository(db *sql.DB) domain.TaskRepository {
	return &TaskRepository{db: db}
}

// WithTransaction executes a function within a transaction
func (r *TaskRepository) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Create adds a new task
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	return r.insert(ctx, r.db, task)
}

// CreateTx adds a new task within an existing transaction
func (r *TaskRepository) CreateTx(ctx context.Context, tx *sql.Tx, task *domain.Task) error {
	return r.insert(ctx, tx, task)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (r *TaskRepository) insert(ctx context.Context, ex execer, task *domain.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.Status == "" {
		task.Status = domain.TaskStatusPending
	}
	if task.MaxRetries <= 0 {
		task.MaxRetries = domain.DefaultTaskMaxRetries
	}

	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	if task.NextRunAfter != nil {
		nextRunAfter := task.NextRunAfter.UTC()
		task.NextRunAfter = &nextRunAfter
	}

	query := `
		INSERT INTO tasks (
			id, store_id, kind, payload, status, next_run_after,
			max_retries, retry_count, error_message, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
	`

	_, err := ex.ExecContext(
		ctx,
		query,
		task.ID,
		task.StoreID,
		task.Kind,
		task.Payload,
		task.Status,
		task.NextRunAfter,
		task.MaxRetries,
		task.RetryCount,
		task.ErrorMessage,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}

	return nil
}

const taskColumns = `
	id, store_id, kind, payload, status, next_run_after,
	max_retries, retry_count, error_message, created_at, updated_at,
	completed_at
`

// Get retrieves a task by ID
func (r *TaskRepository) Get(ctx context.Context, id string) (*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE id = $1
	`

	task, err := r.scan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// ClaimNextBatch locks and marks due pending tasks as running, returning the
// claimed batch.
func (r *TaskRepository) ClaimNextBatch(ctx context.Context, now time.Time, limit int) ([]*domain.Task, error) {
	var tasks []*domain.Task

	err := r.WithTransaction(ctx, func(tx *sql.Tx) error {
		query := `
			SELECT ` + taskColumns + `
			FROM tasks
			WHERE status = $1 AND next_run_after <= $2
			ORDER BY next_run_after ASC
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		`

		rows, err := tx.QueryContext(ctx, query, domain.TaskStatusPending, now.UTC(), limit)
		if err != nil {
			return fmt.Errorf("failed to select due tasks: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			task, err := r.scan(rows)
			if err != nil {
				return fmt.Errorf("failed to scan task: %w", err)
			}
			tasks = append(tasks, task)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate tasks: %w", err)
		}

		for _, task := range tasks {
			_, err := tx.ExecContext(ctx,
				`UPDATE tasks SET status = $2, updated_at = $3 WHERE id = $1`,
				task.ID, domain.TaskStatusRunning, time.Now().UTC())
			if err != nil {
				return fmt.Errorf("failed to mark task running: %w", err)
			}
			task.Status = domain.TaskStatusRunning
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// MarkAsCompleted marks a task as completed
func (r *TaskRepository) MarkAsCompleted(ctx context.Context, id string) error {
	now := time.Now().UTC()
	query := `
		UPDATE tasks
		SET status = $2, completed_at = $3, updated_at = $3
		WHERE id = $1
	`

	return r.exec(ctx, query, id, domain.TaskStatusCompleted, now)
}

// MarkAsFailed marks a task as failed after its retries ran out
func (r *TaskRepository) MarkAsFailed(ctx context.Context, id string, errorMsg string) error {
	query := `
		UPDATE tasks
		SET status = $2, error_message = $3, updated_at = $4
		WHERE id = $1
	`

	return r.exec(ctx, query, id, domain.TaskStatusFailed, errorMsg, time.Now().UTC())
}

// Reschedule returns a running task to pending for a later retry
func (r *TaskRepository) Reschedule(ctx context.Context, id string, nextRunAfter time.Time, errorMsg string) error {
	query := `
		UPDATE tasks
		SET status = $2, next_run_after = $3, retry_count = retry_count + 1,
			error_message = $4, updated_at = $5
		WHERE id = $1
	`

	return r.exec(ctx, query, id, domain.TaskStatusPending, nextRunAfter.UTC(), errorMsg, time.Now().UTC())
}

func (r *TaskRepository) exec(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

func (r *TaskRepository) scan(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var nextRunAfter, completedAt sql.NullTime
	var errorMessage sql.NullString

	err := row.Scan(
		&task.ID,
		&task.StoreID,
		&task.Kind,
		&task.Payload,
		&task.Status,
		&nextRunAfter,
		&task.MaxRetries,
		&task.RetryCount,
		&errorMessage,
		&task.CreatedAt,
		&task.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	if nextRunAfter.Valid {
		task.NextRunAfter = &nextRunAfter.Time
	}
	if completedAt.Valid {
		task.CompletedAt = &completedAt.Time
	}
	task.ErrorMessage = errorMessage.String

	return &task, nil
}
