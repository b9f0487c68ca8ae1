package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cartpulse/cartpulse/internal/domain"
)

// UnsubscribeRepository implements domain.UnsubscribeRepository using
// PostgreSQL. Suppression markers are permanent: insert-only, no delete.
type UnsubscribeRepository struct {
	db *sql.DB
}

// NewUnsubscribeRepository creates a new UnsubscribeRepository instance
func NewUnsubscribeRepository(db *sql.DB) domain.UnsubscribeRepository {
	return &UnsubscribeRepository{db: db}
}

// Create inserts a suppression marker; duplicates are silently ignored
func (r *UnsubscribeRepository) Create(ctx context.Context, storeID, email string) error {
	query := `
		INSERT INTO email_unsubscribes (store_id, email, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (store_id, email) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, storeID, normalizeEmail(email), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert unsubscribe: %w", err)
	}

	return nil
}

// Exists reports whether an email is suppressed for a store
func (r *UnsubscribeRepository) Exists(ctx context.Context, storeID, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM email_unsubscribes WHERE store_id = $1 AND email = $2)`,
		storeID, normalizeEmail(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check unsubscribe: %w", err)
	}

	return exists, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
