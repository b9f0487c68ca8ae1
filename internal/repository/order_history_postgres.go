package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cartpulse/cartpulse/internal/domain"
)

// OrderHistoryRepository derives a customer's purchase history from the
// checkouts this engine has already seen convert. It is a conservative
// lower bound on the platform's real order history, which is enough for
// campaign classification.
type OrderHistoryRepository struct {
	db *sql.DB
}

// NewOrderHistoryRepository creates a new OrderHistoryRepository
func NewOrderHistoryRepository(db *sql.DB) *OrderHistoryRepository {
	return &OrderHistoryRepository{db: db}
}

// LookupByEmail implements domain.OrderHistoryLookup
func (r *OrderHistoryRepository) LookupByEmail(ctx context.Context, storeID, email string) (*domain.OrderHistory, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(total_price), 0)
		FROM abandoned_checkouts
		WHERE store_id = $1
			AND email = $2
			AND status IN ($3, $4)
	`

	var history domain.OrderHistory
	err := r.db.QueryRowContext(
		ctx,
		query,
		storeID,
		email,
		domain.CheckoutStatusRecovered,
		domain.CheckoutStatusCompleted,
	).Scan(&history.OrderCount, &history.LifetimeValue)
	if err != nil {
		return nil, fmt.Errorf("failed to look up order history: %w", err)
	}

	return &history, nil
}
