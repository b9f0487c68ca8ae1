package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/cartpulse/cartpulse/internal/domain"
)

// CheckoutRepository implements domain.CheckoutRepository using PostgreSQL
type CheckoutRepository struct {
	db *sql.DB
}

// NewCheckoutRepository creates a new CheckoutRepository instance
func NewCheckoutRepository(db *sql.DB) domain.CheckoutRepository {
	return &CheckoutRepository{db: db}
}

const checkoutColumns = `
	id, store_id, platform_checkout_id, platform_token, email, customer_name,
	total_price, currency, line_items, checkout_url, status,
	abandonment_detected_at, recovered_at, completed_order_id,
	created_at, updated_at
`

// Upsert inserts or refreshes a checkout keyed on (store_id, platform_checkout_id).
// The conflict branch deliberately leaves the status column alone: a webhook
// refreshes cart content regardless of lifecycle state but never re-opens an
// abandoned or completed record.
func (r *CheckoutRepository) Upsert(ctx context.Context, checkout *domain.Checkout) error {
	if checkout.ID == "" {
		checkout.ID = uuid.New().String()
	}
	if checkout.Status == "" {
		checkout.Status = domain.CheckoutStatusActive
	}

	now := time.Now().UTC()
	checkout.CreatedAt = now
	checkout.UpdatedAt = now

	query := `
		INSERT INTO abandoned_checkouts (
			id, store_id, platform_checkout_id, platform_token, email,
			customer_name, total_price, currency, line_items, checkout_url,
			status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		ON CONFLICT (store_id, platform_checkout_id) DO UPDATE SET
			platform_token = EXCLUDED.platform_token,
			email = EXCLUDED.email,
			customer_name = EXCLUDED.customer_name,
			total_price = EXCLUDED.total_price,
			currency = EXCLUDED.currency,
			line_items = EXCLUDED.line_items,
			checkout_url = EXCLUDED.checkout_url,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		checkout.ID,
		checkout.StoreID,
		checkout.PlatformCheckoutID,
		checkout.PlatformToken,
		checkout.Email,
		checkout.CustomerName,
		checkout.TotalPrice,
		checkout.Currency,
		checkout.LineItems,
		checkout.CheckoutURL,
		checkout.Status,
		checkout.CreatedAt,
		checkout.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert checkout: %w", err)
	}

	return nil
}

// GetByID retrieves a checkout by ID
func (r *CheckoutRepository) GetByID(ctx context.Context, storeID, checkoutID string) (*domain.Checkout, error) {
	query := `
		SELECT ` + checkoutColumns + `
		FROM abandoned_checkouts
		WHERE store_id = $1 AND id = $2
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, storeID, checkoutID))
}

// GetByPlatformToken retrieves a checkout by its platform token
func (r *CheckoutRepository) GetByPlatformToken(ctx context.Context, storeID, token string) (*domain.Checkout, error) {
	query := `
		SELECT ` + checkoutColumns + `
		FROM abandoned_checkouts
		WHERE store_id = $1 AND platform_token = $2
		ORDER BY updated_at DESC
		LIMIT 1
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, storeID, token))
}

// GetLatestByEmail retrieves the most recently updated checkout for an email
func (r *CheckoutRepository) GetLatestByEmail(ctx context.Context, storeID, email string) (*domain.Checkout, error) {
	query := `
		SELECT ` + checkoutColumns + `
		FROM abandoned_checkouts
		WHERE store_id = $1 AND email = $2
		ORDER BY updated_at DESC
		LIMIT 1
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, storeID, email))
}

// ListAbandonmentCandidates returns active checkouts idle since before cutoff
// that satisfy the store's minimum cart value and carry an email.
func (r *CheckoutRepository) ListAbandonmentCandidates(ctx context.Context, storeID string, cutoff time.Time, minCartValue float64, limit int) ([]*domain.Checkout, error) {
	query := `
		SELECT ` + checkoutColumns + `
		FROM abandoned_checkouts
		WHERE store_id = $1
			AND status = $2
			AND updated_at < $3
			AND email IS NOT NULL AND email <> ''
			AND total_price >= $4
		ORDER BY updated_at ASC
		LIMIT $5
	`

	rows, err := r.db.QueryContext(ctx, query, storeID, domain.CheckoutStatusActive, cutoff.UTC(), minCartValue, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list abandonment candidates: %w", err)
	}
	defer rows.Close()

	return r.scanMany(rows)
}

// MarkAbandoned transitions an active checkout to abandoned
func (r *CheckoutRepository) MarkAbandoned(ctx context.Context, storeID, checkoutID string, detectedAt time.Time) (bool, error) {
	query := `
		UPDATE abandoned_checkouts
		SET status = $3, abandonment_detected_at = $4, updated_at = $4
		WHERE store_id = $1 AND id = $2 AND status = $5
	`

	result, err := r.db.ExecContext(ctx, query, storeID, checkoutID,
		domain.CheckoutStatusAbandoned, detectedAt.UTC(), domain.CheckoutStatusActive)
	if err != nil {
		return false, fmt.Errorf("failed to mark checkout abandoned: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// MarkCompleted links the completed order and closes the checkout lifecycle
func (r *CheckoutRepository) MarkCompleted(ctx context.Context, storeID, checkoutID, orderID string, recovered bool) error {
	status := domain.CheckoutStatusCompleted
	var recoveredAt *time.Time
	now := time.Now().UTC()
	if recovered {
		status = domain.CheckoutStatusRecovered
		recoveredAt = &now
	}

	query := `
		UPDATE abandoned_checkouts
		SET status = $3, completed_order_id = $4, recovered_at = $5, updated_at = $6
		WHERE store_id = $1 AND id = $2
	`

	result, err := r.db.ExecContext(ctx, query, storeID, checkoutID, status, orderID, recoveredAt, now)
	if err != nil {
		return fmt.Errorf("failed to mark checkout completed: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrCheckoutNotFound
	}

	return nil
}

// List retrieves checkouts with optional filtering
func (r *CheckoutRepository) List(ctx context.Context, storeID string, filter domain.CheckoutFilter) ([]*domain.Checkout, int, error) {
	base := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select().
		From("abandoned_checkouts").
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
		return nil, 0, fmt.Errorf("failed to count checkouts: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	listQuery, listArgs, err := base.Columns(checkoutColumns).
		OrderBy("updated_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(filter.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list checkouts: %w", err)
	}
	defer rows.Close()

	checkouts, err := r.scanMany(rows)
	if err != nil {
		return nil, 0, err
	}

	return checkouts, totalCount, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *CheckoutRepository) scan(row rowScanner) (*domain.Checkout, error) {
	var checkout domain.Checkout
	var platformToken, email, customerName, currency, checkoutURL sql.NullString
	var detectedAt, recoveredAt sql.NullTime
	var completedOrderID sql.NullString

	err := row.Scan(
		&checkout.ID,
		&checkout.StoreID,
		&checkout.PlatformCheckoutID,
		&platformToken,
		&email,
		&customerName,
		&checkout.TotalPrice,
		&currency,
		&checkout.LineItems,
		&checkoutURL,
		&checkout.Status,
		&detectedAt,
		&recoveredAt,
		&completedOrderID,
		&checkout.CreatedAt,
		&checkout.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	checkout.PlatformToken = platformToken.String
	checkout.Email = email.String
	checkout.CustomerName = customerName.String
	checkout.Currency = currency.String
	checkout.CheckoutURL = checkoutURL.String
	if detectedAt.Valid {
		checkout.AbandonmentDetectedAt = &detectedAt.Time
	}
	if recoveredAt.Valid {
		checkout.RecoveredAt = &recoveredAt.Time
	}
	if completedOrderID.Valid {
		checkout.CompletedOrderID = &completedOrderID.String
	}

	return &checkout, nil
}

func (r *CheckoutRepository) scanOne(row rowScanner) (*domain.Checkout, error) {
	checkout, err := r.scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCheckoutNotFound
		}
		return nil, fmt.Errorf("failed to get checkout: %w", err)
	}
	return checkout, nil
}

func (r *CheckoutRepository) scanMany(rows *sql.Rows) ([]*domain.Checkout, error) {
	var checkouts []*domain.Checkout
	for rows.Next() {
		checkout, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan checkout: %w", err)
		}
		checkouts = append(checkouts, checkout)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate checkouts: %w", err)
	}

	return checkouts, nil
}
