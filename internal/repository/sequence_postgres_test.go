package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartpulse/cartpulse/internal/domain"
)

func sequenceRows(sequence *domain.Sequence) *sqlmock.Rows {
	steps, _ := sequence.StepsCompleted.Value()
	return sqlmock.NewRows([]string{
		"id", "store_id", "checkout_id", "email", "sequence_type", "status",
		"current_step_index", "steps_completed", "next_step_at", "stopped_reason",
		"created_at", "updated_at", "completed_at",
	}).AddRow(
		sequence.ID, sequence.StoreID, sequence.CheckoutID, sequence.Email,
		sequence.SequenceType, sequence.Status, sequence.CurrentStepIndex,
		steps, sequence.NextStepAt, sequence.StoppedReason,
		sequence.CreatedAt, sequence.UpdatedAt, sequence.CompletedAt,
	)
}

func testSequence() *domain.Sequence {
	now := time.Now().UTC().Truncate(time.Microsecond)
	nextStepAt := now.Add(time.Hour)
	return &domain.Sequence{
		ID:               "seq-1",
		StoreID:          "store-1",
		CheckoutID:       "chk-1",
		Email:            "dana@example.com",
		SequenceType:     domain.SequenceTypeFirstTime,
		Status:           domain.SequenceStatusActive,
		CurrentStepIndex: 0,
		NextStepAt:       &nextStepAt,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func TestSequenceRepository_Create(t *testing.T) {
	db, mock, cleanup := SetupMockDB(t)
	defer cleanup()

	repo := NewSequenceRepository(db)

	// Test case 1: Successful insert
	sequence := testSequence()
	mock.ExpectExec(`INSERT INTO recovery_sequences`).
		WithArgs(
			sequence.ID, sequence.StoreID, sequence.CheckoutID, sequence.Email,
			sequence.SequenceType, sequence.Status, sequence.CurrentStepIndex,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), sequence))

	// Test case 2: Unique violation from the partial index maps to the
	// domain error
	mock.ExpectExec(`INSERT INTO recovery_sequences`).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), testSequence())
	assert.ErrorIs(t, err, domain.ErrSequenceAlreadyActive)

	// Test case 3: Any other database error passes through wrapped
	mock.ExpectExec(`INSERT INTO recovery_sequences`).
		WillReturnError(errors.New("database error"))

	err = repo.Create(context.Background(), testSequence())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSequenceAlreadyActive)
	assert.Contains(t, err.Error(), "failed to insert sequence")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSequenceRepository_Get(t *testing.T) {
	db, mock, cleanup := SetupMockDB(t)
	defer cleanup()

	repo := NewSequenceRepository(db)
	sequence := testSequence()

	// Test case 1: Sequence found
	mock.ExpectQuery(`SELECT (.+) FROM recovery_sequences WHERE store_id = \$1 AND id = \$2`).
		WithArgs("store-1", "seq-1").
		WillReturnRows(sequenceRows(sequence))

	got, err := repo.Get(context.Background(), "store-1", "seq-1")
	require.NoError(t, err)
	assert.Equal(t, sequence.ID, got.ID)
	assert.Equal(t, domain.SequenceStatusActive, got.Status)
	require.NotNil(t, got.NextStepAt)

	// Test case 2: Sequence not found
	mock.ExpectQuery(`SELECT (.+) FROM recovery_sequences WHERE store_id = \$1 AND id = \$2`).
		WithArgs("store-1", "missing").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.Get(context.Background(), "store-1", "missing")
	assert.ErrorIs(t, err, domain.ErrSequenceNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSequenceRepository_RecordStepTx(t *testing.T) {
	db, mock, cleanup := SetupMockDB(t)
	defer cleanup()

	repo := NewSequenceRepository(db)
	step := domain.CompletedStep{StepIndex: 0, SentAt: time.Now().UTC(), Subject: "Still thinking it over?", MessageID: "msg-1"}

	// Test case 1: Intermediate step keeps the sequence active
	nextStepAt := time.Now().UTC().Add(23 * time.Hour)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE recovery_sequences SET steps_completed = steps_completed`).
		WithArgs("store-1", "seq-1", sqlmock.AnyArg(), domain.SequenceStatusActive,
			sqlmock.AnyArg(), nil, sqlmock.AnyArg(), domain.SequenceStatusActive).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.WithTransaction(context.Background(), func(tx *sql.Tx) error {
		return repo.RecordStepTx(context.Background(), tx, "store-1", "seq-1", step, &nextStepAt, false)
	})
	require.NoError(t, err)

	// Test case 2: Final step completes the sequence and clears next_step_at
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE recovery_sequences SET steps_completed = steps_completed`).
		WithArgs("store-1", "seq-1", sqlmock.AnyArg(), domain.SequenceStatusCompleted,
			nil, sqlmock.AnyArg(), sqlmock.AnyArg(), domain.SequenceStatusActive).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = repo.WithTransaction(context.Background(), func(tx *sql.Tx) error {
		return repo.RecordStepTx(context.Background(), tx, "store-1", "seq-1", step, nil, true)
	})
	require.NoError(t, err)

	// Test case 3: Sequence no longer active
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE recovery_sequences SET steps_completed = steps_completed`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = repo.WithTransaction(context.Background(), func(tx *sql.Tx) error {
		return repo.RecordStepTx(context.Background(), tx, "store-1", "seq-1", step, nil, true)
	})
	assert.ErrorIs(t, err, domain.ErrSequenceNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSequenceRepository_MarkStopped(t *testing.T) {
	db, mock, cleanup := SetupMockDB(t)
	defer cleanup()

	repo := NewSequenceRepository(db)

	// Test case 1: Active sequence stopped
	mock.ExpectExec(`UPDATE recovery_sequences SET status = \$3, stopped_reason = \$4`).
		WithArgs("store-1", "seq-1", domain.SequenceStatusStopped,
			domain.StopReasonUnsubscribed, sqlmock.AnyArg(), domain.SequenceStatusActive).
		WillReturnResult(sqlmock.NewResult(0, 1))

	stopped, err := repo.MarkStopped(context.Background(), "store-1", "seq-1", domain.StopReasonUnsubscribed)
	require.NoError(t, err)
	assert.True(t, stopped)

	// Test case 2: Already stopped
	mock.ExpectExec(`UPDATE recovery_sequences SET status = \$3, stopped_reason = \$4`).
		WithArgs("store-1", "seq-1", domain.SequenceStatusStopped,
			domain.StopReasonUnsubscribed, sqlmock.AnyArg(), domain.SequenceStatusActive).
		WillReturnResult(sqlmock.NewResult(0, 0))

	stopped, err = repo.MarkStopped(context.Background(), "store-1", "seq-1", domain.StopReasonUnsubscribed)
	require.NoError(t, err)
	assert.False(t, stopped)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSequenceRepository_GetTx_LocksRow(t *testing.T) {
	db, mock, cleanup := SetupMockDB(t)
	defer cleanup()

	repo := NewSequenceRepository(db)
	sequence := testSequence()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM recovery_sequences WHERE store_id = \$1 AND id = \$2 FOR UPDATE`).
		WithArgs("store-1", "seq-1").
		WillReturnRows(sequenceRows(sequence))
	mock.ExpectCommit()

	err := repo.WithTransaction(context.Background(), func(tx *sql.Tx) error {
		got, err := repo.GetTx(context.Background(), tx, "store-1", "seq-1")
		if err != nil {
			return err
		}
		assert.Equal(t, sequence.ID, got.ID)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}
