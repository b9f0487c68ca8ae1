package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cartpulse/cartpulse/internal/domain"
)

// AnalyticsRepository implements domain.AnalyticsRepository using PostgreSQL
type AnalyticsRepository struct {
	db *sql.DB
}

// NewAnalyticsRepository creates a new AnalyticsRepository instance
func NewAnalyticsRepository(db *sql.DB) domain.AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// CountCheckoutsByOutcome aggregates abandoned attempts and conversions in
// the window. Abandoned attempts are checkouts that left the active state;
// recovered covers both terminal-complete outcomes.
func (r *AnalyticsRepository) CountCheckoutsByOutcome(ctx context.Context, storeID string, since time.Time) (int, int, float64, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status <> $3),
			COUNT(*) FILTER (WHERE status IN ($4, $5)),
			COALESCE(SUM(total_price) FILTER (WHERE status IN ($4, $5)), 0)
		FROM abandoned_checkouts
		WHERE store_id = $1 AND updated_at >= $2
	`

	var abandoned, recovered int
	var revenue float64
	err := r.db.QueryRowContext(ctx, query,
		storeID, since.UTC(),
		domain.CheckoutStatusActive,
		domain.CheckoutStatusRecovered,
		domain.CheckoutStatusCompleted,
	).Scan(&abandoned, &recovered, &revenue)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count checkout outcomes: %w", err)
	}

	return abandoned, recovered, revenue, nil
}

// DailyTrend returns per-calendar-day abandoned vs recovered counts,
// ascending by date.
func (r *AnalyticsRepository) DailyTrend(ctx context.Context, storeID string, since time.Time) ([]*domain.DailyTrendPoint, error) {
	query := `
		SELECT
			to_char(date_trunc('day', updated_at), 'YYYY-MM-DD') AS day,
			COUNT(*) FILTER (WHERE status <> $3),
			COUNT(*) FILTER (WHERE status IN ($4, $5))
		FROM abandoned_checkouts
		WHERE store_id = $1 AND updated_at >= $2
		GROUP BY day
		ORDER BY day ASC
	`

	rows, err := r.db.QueryContext(ctx, query,
		storeID, since.UTC(),
		domain.CheckoutStatusActive,
		domain.CheckoutStatusRecovered,
		domain.CheckoutStatusCompleted,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily trend: %w", err)
	}
	defer rows.Close()

	var points []*domain.DailyTrendPoint
	for rows.Next() {
		var point domain.DailyTrendPoint
		if err := rows.Scan(&point.Date, &point.Abandoned, &point.Recovered); err != nil {
			return nil, fmt.Errorf("failed to scan trend point: %w", err)
		}
		points = append(points, &point)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trend points: %w", err)
	}

	return points, nil
}
