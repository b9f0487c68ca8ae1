package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cartpulse/cartpulse/internal/domain"
)

// StoreRepository implements domain.StoreRepository using PostgreSQL
type StoreRepository struct {
	db *sql.DB
}

// NewStoreRepository creates a new StoreRepository instance
func NewStoreRepository(db *sql.DB) domain.StoreRepository {
	return &StoreRepository{db: db}
}

// GetByID retrieves a store with its recovery settings
func (r *StoreRepository) GetByID(ctx context.Context, storeID string) (*domain.Store, error) {
	query := `
		SELECT id, name, platform_domain, currency, recovery_settings,
			created_at, updated_at
		FROM stores
		WHERE id = $1
	`

	var store domain.Store
	err := r.db.QueryRowContext(ctx, query, storeID).Scan(
		&store.ID,
		&store.Name,
		&store.PlatformDomain,
		&store.Currency,
		&store.RecoverySettings,
		&store.CreatedAt,
		&store.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to get store: %w", err)
	}

	store.RecoverySettings = store.RecoverySettings.WithDefaults()
	return &store, nil
}

// ListRecoveryEnabled returns the stores with recovery switched on
func (r *StoreRepository) ListRecoveryEnabled(ctx context.Context) ([]*domain.Store, error) {
	query := `
		SELECT id, name, platform_domain, currency, recovery_settings,
			created_at, updated_at
		FROM stores
		WHERE (recovery_settings->>'enabled')::boolean = true
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list recovery-enabled stores: %w", err)
	}
	defer rows.Close()

	var stores []*domain.Store
	for rows.Next() {
		var store domain.Store
		err := rows.Scan(
			&store.ID,
			&store.Name,
			&store.PlatformDomain,
			&store.Currency,
			&store.RecoverySettings,
			&store.CreatedAt,
			&store.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}

		store.RecoverySettings = store.RecoverySettings.WithDefaults()
		stores = append(stores, &store)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stores: %w", err)
	}

	return stores, nil
}

// UpdateRecoverySettings replaces the store's recovery policy
func (r *StoreRepository) UpdateRecoverySettings(ctx context.Context, storeID string, settings domain.RecoverySettings) error {
	query := `
		UPDATE stores
		SET recovery_settings = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, storeID, settings, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update recovery settings: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrStoreNotFound
	}

	return nil
}
