package service

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartpulse/cartpulse/internal/domain"
	"github.com/cartpulse/cartpulse/internal/domain/mocks"
	"github.com/cartpulse/cartpulse/pkg/logger"
)

const checkoutWebhookPayload = `{
	"id": "checkout-123",
	"token": "tok-abc",
	"email": " Dana@Example.com ",
	"total_price": 129.90,
	"currency": "USD",
	"abandoned_checkout_url": "https://shop.example/checkout/abc",
	"billing_address": {"first_name": "Dana", "last_name": "Reyes"},
	"line_items": [
		{"title": "Canvas Tote", "quantity": 2, "price": 42.00, "variant_title": "Navy"},
		{"title": "Enamel Mug", "quantity": 1, "price": 45.90}
	]
}`

func TestCheckoutIngestService_Ingest(t *testing.T) {
	ctx := context.Background()

	t.Run("upserts a canonical checkout from the payload", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := mocks.NewMockCheckoutRepository(ctrl)
		svc := NewCheckoutIngestService(repo, logger.NewMockLogger(t))

		var upserted *domain.Checkout
		repo.EXPECT().
			Upsert(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, checkout *domain.Checkout) error {
				upserted = checkout
				return nil
			})

		result, err := svc.Ingest(ctx, "store-1", "checkouts/update", []byte(checkoutWebhookPayload))

		require.NoError(t, err)
		assert.Equal(t, domain.IngestAccepted, result)
		require.NotNil(t, upserted)
		assert.Equal(t, "checkout-123", upserted.PlatformCheckoutID)
		assert.Equal(t, "tok-abc", upserted.PlatformToken)
		assert.Equal(t, "dana@example.com", upserted.Email)
		assert.Equal(t, "Dana Reyes", upserted.CustomerName)
		assert.Equal(t, 129.90, upserted.TotalPrice)
		assert.Equal(t, domain.CheckoutStatusActive, upserted.Status)
		require.Len(t, upserted.LineItems, 2)
		assert.Equal(t, "Canvas Tote", upserted.LineItems[0].Title)
		assert.Equal(t, 2, upserted.LineItems[0].Quantity)
		assert.Equal(t, "Navy", upserted.LineItems[0].Variant)
	})

	t.Run("ignores a payload without an external id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := mocks.NewMockCheckoutRepository(ctrl)
		svc := NewCheckoutIngestService(repo, logger.NewMockLogger(t))

		result, err := svc.Ingest(ctx, "store-1", "checkouts/update", []byte(`{"email":"dana@example.com"}`))

		require.NoError(t, err)
		assert.Equal(t, domain.IngestIgnored, result)
	})

	t.Run("discards an invalid email instead of the whole checkout", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := mocks.NewMockCheckoutRepository(ctrl)
		svc := NewCheckoutIngestService(repo, logger.NewMockLogger(t))

		var upserted *domain.Checkout
		repo.EXPECT().
			Upsert(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, checkout *domain.Checkout) error {
				upserted = checkout
				return nil
			})

		result, err := svc.Ingest(ctx, "store-1", "checkouts/create", []byte(`{"id":"c-1","email":"not an email"}`))

		require.NoError(t, err)
		assert.Equal(t, domain.IngestAccepted, result)
		assert.Empty(t, upserted.Email)
	})

	t.Run("falls back to the nested customer email", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := mocks.NewMockCheckoutRepository(ctrl)
		svc := NewCheckoutIngestService(repo, logger.NewMockLogger(t))

		var upserted *domain.Checkout
		repo.EXPECT().
			Upsert(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, checkout *domain.Checkout) error {
				upserted = checkout
				return nil
			})

		payload := `{"id":"c-2","customer":{"email":"dana@example.com","first_name":"Dana"}}`
		_, err := svc.Ingest(ctx, "store-1", "checkouts/update", []byte(payload))

		require.NoError(t, err)
		assert.Equal(t, "dana@example.com", upserted.Email)
		assert.Equal(t, "Dana", upserted.CustomerName)
	})
}

func TestCheckoutIngestService_ParseOrderCompleted(t *testing.T) {
	svc := NewCheckoutIngestService(nil, logger.NewMockLogger(t))

	t.Run("extracts order id, token and email", func(t *testing.T) {
		payload := `{"id":"ord-9","checkout_token":"tok-abc","email":"dana@example.com"}`
		event := svc.ParseOrderCompleted("store-1", []byte(payload))

		assert.Equal(t, "store-1", event.StoreID)
		assert.Equal(t, "ord-9", event.OrderID)
		assert.Equal(t, "tok-abc", event.CheckoutToken)
		assert.Equal(t, "dana@example.com", event.Email)
	})

	t.Run("accepts the alternate field names", func(t *testing.T) {
		payload := `{"order_id":"ord-10","token":"tok-def"}`
		event := svc.ParseOrderCompleted("store-1", []byte(payload))

		assert.Equal(t, "ord-10", event.OrderID)
		assert.Equal(t, "tok-def", event.CheckoutToken)
	})

	t.Run("empty payload yields an unmatchable event", func(t *testing.T) {
		event := svc.ParseOrderCompleted("store-1", []byte(`{}`))

		assert.Empty(t, event.OrderID)
		assert.Error(t, event.Validate())
	})
}
