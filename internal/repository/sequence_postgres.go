package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/cartpulse/cartpulse/internal/domain"
)

// pqUniqueViolation is the postgres error code raised by the partial unique
// index when a second active sequence is inserted for the same checkout.
const pqUniqueViolation = "23505"

// SequenceRepository implements domain.SequenceRepository using PostgreSQL
type SequenceRepository struct {
	db *sql.DB
}

// NewSequenceRepository creates a new SequenceRepository instance
func NewSequenceRepository(db *sql.DB) domain.SequenceRepository {
	return &SequenceRepository{db: db}
}

// WithTransaction executes a function within a transaction
func (r *SequenceRepository) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Rollback is a no-op after a successful commit
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

const sequenceColumns = `
	id, store_id, checkout_id, email, sequence_type, status,
	current_step_index, steps_completed, next_step_at, stopped_reason,
	created_at, updated_at, completed_at
`

// Create inserts a new sequence. The partial unique index turns a lost race
// between two concurrent starts into ErrSequenceAlreadyActive.
func (r *SequenceRepository) Create(ctx context.Context, sequence *domain.Sequence) error {
	if sequence.ID == "" {
		sequence.ID = uuid.New().String()
	}
	if sequence.Status == "" {
		sequence.Status = domain.SequenceStatusActive
	}

	now := time.Now().UTC()
	sequence.CreatedAt = now
	sequence.UpdatedAt = now

	if sequence.NextStepAt != nil {
		nextStepAt := sequence.NextStepAt.UTC()
		sequence.NextStepAt = &nextStepAt
	}

	query := `
		INSERT INTO recovery_sequences (
			id, store_id, checkout_id, email, sequence_type, status,
			current_step_index, steps_completed, next_step_at,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		sequence.ID,
		sequence.StoreID,
		sequence.CheckoutID,
		sequence.Email,
		sequence.SequenceType,
		sequence.Status,
		sequence.CurrentStepIndex,
		sequence.StepsCompleted,
		sequence.NextStepAt,
		sequence.CreatedAt,
		sequence.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return domain.ErrSequenceAlreadyActive
		}
		return fmt.Errorf("failed to insert sequence: %w", err)
	}

	return nil
}

// Get retrieves a sequence by ID
func (r *SequenceRepository) Get(ctx context.Context, storeID, sequenceID string) (*domain.Sequence, error) {
	query := `
		SELECT ` + sequenceColumns + `
		FROM recovery_sequences
		WHERE store_id = $1 AND id = $2
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, storeID, sequenceID))
}

// GetTx retrieves a sequence with a row-level lock so only one worker
// executes a given step.
func (r *SequenceRepository) GetTx(ctx context.Context, tx *sql.Tx, storeID, sequenceID string) (*domain.Sequence, error) {
	query := `
		SELECT ` + sequenceColumns + `
		FROM recovery_sequences
		WHERE store_id = $1 AND id = $2
		FOR UPDATE
	`

	return r.scanOne(tx.QueryRowContext(ctx, query, storeID, sequenceID))
}

// GetActiveByCheckout returns the active sequence for a checkout, if any
func (r *SequenceRepository) GetActiveByCheckout(ctx context.Context, storeID, checkoutID string) (*domain.Sequence, error) {
	query := `
		SELECT ` + sequenceColumns + `
		FROM recovery_sequences
		WHERE store_id = $1 AND checkout_id = $2 AND status = $3
		LIMIT 1
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, storeID, checkoutID, domain.SequenceStatusActive))
}

// GetLatestByCheckout returns the newest sequence for a checkout regardless
// of status
func (r *SequenceRepository) GetLatestByCheckout(ctx context.Context, storeID, checkoutID string) (*domain.Sequence, error) {
	query := `
		SELECT ` + sequenceColumns + `
		FROM recovery_sequences
		WHERE store_id = $1 AND checkout_id = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, storeID, checkoutID))
}

// GetLatestActiveByEmail returns the most recent active sequence for an email
func (r *SequenceRepository) GetLatestActiveByEmail(ctx context.Context, storeID, email string) (*domain.Sequence, error) {
	query := `
		SELECT ` + sequenceColumns + `
		FROM recovery_sequences
		WHERE store_id = $1 AND email = $2 AND status = $3
		ORDER BY created_at DESC
		LIMIT 1
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, storeID, email, domain.SequenceStatusActive))
}

// ListActiveByEmail returns every active sequence for an email
func (r *SequenceRepository) ListActiveByEmail(ctx context.Context, storeID, email string) ([]*domain.Sequence, error) {
	query := `
		SELECT ` + sequenceColumns + `
		FROM recovery_sequences
		WHERE store_id = $1 AND email = $2 AND status = $3
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, storeID, email, domain.SequenceStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list active sequences: %w", err)
	}
	defer rows.Close()

	return r.scanMany(rows)
}

// RecordStepTx appends the step record and advances the sequence in one
// statement, committed with the caller's transaction.
func (r *SequenceRepository) RecordStepTx(ctx context.Context, tx *sql.Tx, storeID, sequenceID string, step domain.CompletedStep, nextStepAt *time.Time, completed bool) error {
	stepJSON, err := json.Marshal(step)
	if err != nil {
		return fmt.Errorf("failed to marshal step record: %w", err)
	}

	now := time.Now().UTC()
	status := domain.SequenceStatusActive
	var completedAt *time.Time
	if completed {
		status = domain.SequenceStatusCompleted
		completedAt = &now
		nextStepAt = nil
	} else if nextStepAt != nil {
		next := nextStepAt.UTC()
		nextStepAt = &next
	}

	query := `
		UPDATE recovery_sequences
		SET
			steps_completed = steps_completed || $3::jsonb,
			current_step_index = current_step_index + 1,
			status = $4,
			next_step_at = $5,
			completed_at = $6,
			updated_at = $7
		WHERE store_id = $1 AND id = $2 AND status = $8
	`

	result, err := tx.ExecContext(ctx, query, storeID, sequenceID,
		stepJSON, status, nextStepAt, completedAt, now, domain.SequenceStatusActive)
	if err != nil {
		return fmt.Errorf("failed to record sequence step: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrSequenceNotFound
	}

	return nil
}

// MarkStopped transitions an active sequence to stopped
func (r *SequenceRepository) MarkStopped(ctx context.Context, storeID, sequenceID, reason string) (bool, error) {
	query := `
		UPDATE recovery_sequences
		SET status = $3, stopped_reason = $4, next_step_at = NULL, updated_at = $5
		WHERE store_id = $1 AND id = $2 AND status = $6
	`

	result, err := r.db.ExecContext(ctx, query, storeID, sequenceID,
		domain.SequenceStatusStopped, reason, time.Now().UTC(), domain.SequenceStatusActive)
	if err != nil {
		return false, fmt.Errorf("failed to mark sequence stopped: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// List retrieves sequences with optional filtering
func (r *SequenceRepository) List(ctx context.Context, storeID string, filter domain.SequenceFilter) ([]*domain.Sequence, int, error) {
	base := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select().
		From("recovery_sequences").
		Where(sq.Eq{"store_id": storeID})

	if len(filter.Status) > 0 {
		base = base.Where(sq.Eq{"status": filter.Status})
	}
	if filter.Email != "" {
		base = base.Where(sq.Eq{"email": filter.Email})
	}
	if filter.CreatedAfter != nil {
		base = base.Where(sq.GtOrEq{"created_at": filter.CreatedAfter.UTC()})
	}
	if filter.CreatedBefore != nil {
		base = base.Where(sq.Lt{"created_at": filter.CreatedBefore.UTC()})
	}

	countQuery, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var totalCount int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count sequences: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	listQuery, listArgs, err := base.Columns(sequenceColumns).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(filter.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sequences: %w", err)
	}
	defer rows.Close()

	sequences, err := r.scanMany(rows)
	if err != nil {
		return nil, 0, err
	}

	return sequences, totalCount, nil
}

// CountActive returns the current number of active sequences for a store
func (r *SequenceRepository) CountActive(ctx context.Context, storeID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM recovery_sequences WHERE store_id = $1 AND status = $2`,
		storeID, domain.SequenceStatusActive).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active sequences: %w", err)
	}
	return count, nil
}

func (r *SequenceRepository) scan(row rowScanner) (*domain.Sequence, error) {
	var sequence domain.Sequence
	var nextStepAt, completedAt sql.NullTime
	var stoppedReason sql.NullString

	err := row.Scan(
		&sequence.ID,
		&sequence.StoreID,
		&sequence.CheckoutID,
		&sequence.Email,
		&sequence.SequenceType,
		&sequence.Status,
		&sequence.CurrentStepIndex,
		&sequence.StepsCompleted,
		&nextStepAt,
		&stoppedReason,
		&sequence.CreatedAt,
		&sequence.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	if nextStepAt.Valid {
		sequence.NextStepAt = &nextStepAt.Time
	}
	if stoppedReason.Valid {
		sequence.StoppedReason = &stoppedReason.String
	}
	if completedAt.Valid {
		sequence.CompletedAt = &completedAt.Time
	}

	return &sequence, nil
}

func (r *SequenceRepository) scanOne(row rowScanner) (*domain.Sequence, error) {
	sequence, err := r.scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSequenceNotFound
		}
		return nil, fmt.Errorf("failed to get sequence: %w", err)
	}
	return sequence, nil
}

func (r *SequenceRepository) scanMany(rows *sql.Rows) ([]*domain.Sequence, error) {
	var sequences []*domain.Sequence
	for rows.Next() {
		sequence, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sequence: %w", err)
		}
		sequences = append(sequences, sequence)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sequences: %w", err)
	}

	return sequences, nil
}
