package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartpulse/cartpulse/internal/domain"
)

func checkoutRows(checkout *domain.Checkout) *sqlmock.Rows {
	lineItems, _ := checkout.LineItems.Value()
	return sqlmock.NewRows([]string{
		"id", "store_id", "platform_checkout_id", "platform_token", "email",
		"customer_name", "total_price", "currency", "line_items", "checkout_url",
		"status", "abandonment_detected_at", "recovered_at", "completed_order_id",
		"created_at", "updated_at",
	}).AddRow(
		checkout.ID, checkout.StoreID, checkout.PlatformCheckoutID,
		checkout.PlatformToken, checkout.Email, checkout.CustomerName,
		checkout.TotalPrice, checkout.Currency, lineItems, checkout.CheckoutURL,
		checkout.Status, checkout.AbandonmentDetectedAt, checkout.RecoveredAt,
		checkout.CompletedOrderID, checkout.CreatedAt, checkout.UpdatedAt,
	)
}

func testCheckout() *domain.Checkout {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Checkout{
		ID:                 "chk-1",
		StoreID:            "store-1",
		PlatformCheckoutID: "platform-123",
		PlatformToken:      "tok-abc",
		Email:              "dana@example.com",
		CustomerName:       "Dana Reyes",
		TotalPrice:         129.90,
		Currency:           "USD",
		LineItems:          domain.LineItems{{Title: "Canvas Tote", Quantity: 2, Price: 42}},
		CheckoutURL:        "https://shop.example/checkout/abc",
		Status:             domain.CheckoutStatusActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func TestCheckoutRepository_Upsert(t *testing.T) {
	db, mock, cleanup := SetupMockDB(t)
	defer cleanup()

	repo := NewCheckoutRepository(db)
	checkout := testCheckout()

	// Test case 1: Successful upsert
	mock.ExpectExec(`INSERT INTO abandoned_checkouts (.+) ON CONFLICT \(store_id, platform_checkout_id\) DO UPDATE SET`).
		WithArgs(
			checkout.ID, checkout.StoreID, checkout.PlatformCheckoutID,
			checkout.PlatformToken, checkout.Email, checkout.CustomerName,
			checkout.TotalPrice, checkout.Currency, sqlmock.AnyArg(), checkout.CheckoutURL,
			checkout.Status, sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), checkout))

	// Test case 2: A checkout without an id gets one assigned
	fresh := testCheckout()
	fresh.ID = ""

	mock.ExpectExec(`INSERT INTO abandoned_checkouts`).
		WithArgs(
			sqlmock.AnyArg(), fresh.StoreID, fresh.PlatformCheckoutID,
			fresh.PlatformToken, fresh.Email, fresh.CustomerName,
			fresh.TotalPrice, fresh.Currency, sqlmock.AnyArg(), fresh.CheckoutURL,
			fresh.Status, sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), fresh))
	assert.NotEmpty(t, fresh.ID)

	// Test case 3: Database error
	mock.ExpectExec(`INSERT INTO abandoned_checkouts`).
		WillReturnError(errors.New("database error"))

	err := repo.Upsert(context.Background(), checkout)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upsert checkout")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutRepository_GetByID(t *testing.T) {
	db, mock, cleanup := SetupMockDB(t)
	defer cleanup()

	repo := NewCheckoutRepository(db)
	checkout := testCheckout()

	// Test case 1: Checkout found
	mock.ExpectQuery(`SELECT (.+) FROM abandoned_checkouts WHERE store_id = \$1 AND id = \$2`).
		WithArgs("store-1", "chk-1").
		WillReturnRows(checkoutRows(checkout))

	got, err := repo.GetByID(context.Background(), "store-1", "chk-1")
	require.NoError(t, err)
	assert.Equal(t, checkout.ID, got.ID)
	assert.Equal(t, checkout.Email, got.Email)
	require.Len(t, got.LineItems, 1)
	assert.Equal(t, "Canvas Tote", got.LineItems[0].Title)

	// Test case 2: Checkout not found
	mock.ExpectQuery(`SELECT (.+) FROM abandoned_checkouts WHERE store_id = \$1 AND id = \$2`).
		WithArgs("store-1", "missing").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByID(context.Background(), "store-1", "missing")
	assert.ErrorIs(t, err, domain.ErrCheckoutNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutRepository_MarkAbandoned(t *testing.T) {
	db, mock, cleanup := SetupMockDB(t)
	defer cleanup()

	repo := NewCheckoutRepository(db)
	detectedAt := time.Now().UTC()

	// Test case 1: Active checkout is transitioned
	mock.ExpectExec(`UPDATE abandoned_checkouts SET status = \$3`).
		WithArgs("store-1", "chk-1", domain.CheckoutStatusAbandoned, detectedAt, domain.CheckoutStatusActive).
		WillReturnResult(sqlmock.NewResult(0, 1))

	marked, err := repo.MarkAbandoned(context.Background(), "store-1", "chk-1", detectedAt)
	require.NoError(t, err)
	assert.True(t, marked)

	// Test case 2: Checkout no longer active
	mock.ExpectExec(`UPDATE abandoned_checkouts SET status = \$3`).
		WithArgs("store-1", "chk-1", domain.CheckoutStatusAbandoned, detectedAt, domain.CheckoutStatusActive).
		WillReturnResult(sqlmock.NewResult(0, 0))

	marked, err = repo.MarkAbandoned(context.Background(), "store-1", "chk-1", detectedAt)
	require.NoError(t, err)
	assert.False(t, marked)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutRepository_MarkCompleted(t *testing.T) {
	db, mock, cleanup := SetupMockDB(t)
	defer cleanup()

	repo := NewCheckoutRepository(db)

	// Test case 1: Recovered completion stamps recovered_at
	mock.ExpectExec(`UPDATE abandoned_checkouts SET status = \$3, completed_order_id = \$4`).
		WithArgs("store-1", "chk-1", domain.CheckoutStatusRecovered, "ord-9", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkCompleted(context.Background(), "store-1", "chk-1", "ord-9", true))

	// Test case 2: Organic completion
	mock.ExpectExec(`UPDATE abandoned_checkouts SET status = \$3, completed_order_id = \$4`).
		WithArgs("store-1", "chk-1", domain.CheckoutStatusCompleted, "ord-9", nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkCompleted(context.Background(), "store-1", "chk-1", "ord-9", false))

	// Test case 3: Unknown checkout
	mock.ExpectExec(`UPDATE abandoned_checkouts SET status = \$3, completed_order_id = \$4`).
		WithArgs("store-1", "missing", domain.CheckoutStatusCompleted, "ord-9", nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkCompleted(context.Background(), "store-1", "missing", "ord-9", false)
	assert.ErrorIs(t, err, domain.ErrCheckoutNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutRepository_ListAbandonmentCandidates(t *testing.T) {
	db, mock, cleanup := SetupMockDB(t)
	defer cleanup()

	repo := NewCheckoutRepository(db)
	checkout := testCheckout()
	cutoff := time.Now().UTC().Add(-time.Hour)

	mock.ExpectQuery(`SELECT (.+) FROM abandoned_checkouts WHERE store_id = \$1 AND status = \$2 AND updated_at < \$3`).
		WithArgs("store-1", domain.CheckoutStatusActive, cutoff, 25.0, 100).
		WillReturnRows(checkoutRows(checkout))

	candidates, err := repo.ListAbandonmentCandidates(context.Background(), "store-1", cutoff, 25.0, 100)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, checkout.ID, candidates[0].ID)

	require.NoError(t, mock.ExpectationsWereMet())
}
