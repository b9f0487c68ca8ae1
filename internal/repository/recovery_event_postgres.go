package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cartpulse/cartpulse/internal/domain"
)

// RecoveryEventRepository implements domain.RecoveryEventRepository using
// PostgreSQL. The table is append-only: there is no update or delete path.
type RecoveryEventRepository struct {
	db *sql.DB
}

// NewRecoveryEventRepository creates a new RecoveryEventRepository instance
func NewRecoveryEventRepository(db *sql.DB) domain.RecoveryEventRepository {
	return &RecoveryEventRepository{db: db}
}

type execContext interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (r *RecoveryEventRepository) insert(ctx context.Context, ec execContext, event *domain.RecoveryEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Channel == "" {
		event.Channel = "email"
	}
	event.CreatedAt = time.Now().UTC()

	metadata := event.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal event metadata: %w", err)
	}

	query := `
		INSERT INTO recovery_events (
			id, store_id, sequence_id, event_type, step_index, channel,
			metadata, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = ec.ExecContext(
		ctx,
		query,
		event.ID,
		event.StoreID,
		event.SequenceID,
		event.EventType,
		event.StepIndex,
		event.Channel,
		metadataJSON,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert recovery event: %w", err)
	}

	return nil
}

// Insert appends one audit event
func (r *RecoveryEventRepository) Insert(ctx context.Context, event *domain.RecoveryEvent) error {
	return r.insert(ctx, r.db, event)
}

// InsertTx appends one audit event within the caller's transaction
func (r *RecoveryEventRepository) InsertTx(ctx context.Context, tx *sql.Tx, event *domain.RecoveryEvent) error {
	return r.insert(ctx, tx, event)
}

// ListBySequence returns the audit trail of one sequence, oldest first
func (r *RecoveryEventRepository) ListBySequence(ctx context.Context, storeID, sequenceID string) ([]*domain.RecoveryEvent, error) {
	query := `
		SELECT id, store_id, sequence_id, event_type, step_index, channel,
			metadata, created_at
		FROM recovery_events
		WHERE store_id = $1 AND sequence_id = $2
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, storeID, sequenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recovery events: %w", err)
	}
	defer rows.Close()

	var events []*domain.RecoveryEvent
	for rows.Next() {
		var event domain.RecoveryEvent
		var stepIndex sql.NullInt64
		var metadataJSON []byte

		err := rows.Scan(
			&event.ID,
			&event.StoreID,
			&event.SequenceID,
			&event.EventType,
			&stepIndex,
			&event.Channel,
			&metadataJSON,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recovery event: %w", err)
		}

		if stepIndex.Valid {
			idx := int(stepIndex.Int64)
			event.StepIndex = &idx
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &event.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal event metadata: %w", err)
			}
		}

		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recovery events: %w", err)
	}

	return events, nil
}

// CountByType counts events of one type for a store since a point in time
func (r *RecoveryEventRepository) CountByType(ctx context.Context, storeID, eventType string, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM recovery_events
		 WHERE store_id = $1 AND event_type = $2 AND created_at >= $3`,
		storeID, eventType, since.UTC()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recovery events: %w", err)
	}
	return count, nil
}
