package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/tidwall/gjson"

	"github.com/cartpulse/cartpulse/internal/domain"
	"github.com/cartpulse/cartpulse/pkg/logger"
)

// CheckoutIngestService turns raw platform checkout webhooks into canonical
// checkout records. Every webhook for the same checkout refreshes the row
// in place, so replays and out-of-order deliveries are harmless.
type CheckoutIngestService struct {
	checkoutRepo domain.CheckoutRepository
	logger       logger.Logger
}

// NewCheckoutIngestService creates a new CheckoutIngestService
func NewCheckoutIngestService(checkoutRepo domain.CheckoutRepository, logger logger.Logger) *CheckoutIngestService {
	return &CheckoutIngestService{
		checkoutRepo: checkoutRepo,
		logger:       logger,
	}
}

// Ingest processes one checkout webhook. A payload without a usable external
// checkout id is ignored, not an error: the platform sends partial events we
// have nothing to anchor on.
func (s *CheckoutIngestService) Ingest(ctx context.Context, storeID, eventKind string, rawPayload []byte) (domain.IngestResult, error) {
	payload := gjson.ParseBytes(rawPayload)

	externalID := firstString(payload, "id", "checkout_id")
	if externalID == "" {
		s.logger.WithFields(map[string]interface{}{
			"store_id":   storeID,
			"event_kind": eventKind,
		}).Debug("Ignoring checkout webhook without external id")
		return domain.IngestIgnored, nil
	}

	checkout := &domain.Checkout{
		StoreID:            storeID,
		PlatformCheckoutID: externalID,
		PlatformToken:      payload.Get("token").String(),
		Email:              extractEmail(payload),
		CustomerName:       extractCustomerName(payload),
		TotalPrice:         payload.Get("total_price").Float(),
		Currency:           payload.Get("currency").String(),
		LineItems:          extractLineItems(payload),
		CheckoutURL:        firstString(payload, "abandoned_checkout_url", "checkout_url"),
		Status:             domain.CheckoutStatusActive,
	}

	if err := s.checkoutRepo.Upsert(ctx, checkout); err != nil {
		return domain.IngestIgnored, fmt.Errorf("failed to upsert checkout: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"store_id":             storeID,
		"platform_checkout_id": externalID,
		"event_kind":           eventKind,
	}).Debug("Ingested checkout webhook")

	return domain.IngestAccepted, nil
}

// ParseOrderCompleted extracts the order-completion signal from a raw order
// webhook payload
func (s *CheckoutIngestService) ParseOrderCompleted(storeID string, rawPayload []byte) *domain.OrderCompletedEvent {
	payload := gjson.ParseBytes(rawPayload)

	return &domain.OrderCompletedEvent{
		StoreID:       storeID,
		OrderID:       firstString(payload, "id", "order_id"),
		CheckoutToken: firstString(payload, "checkout_token", "token"),
		Email:         extractEmail(payload),
	}
}

// firstString returns the first non-empty string among the given paths
func firstString(payload gjson.Result, paths ...string) string {
	for _, path := range paths {
		if v := payload.Get(path).String(); v != "" {
			return v
		}
	}
	return ""
}

// extractEmail resolves the customer email, preferring the top-level field
// over the nested customer object, and discards anything that isn't a valid
// address.
func extractEmail(payload gjson.Result) string {
	email := firstString(payload, "email", "customer.email")
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !govalidator.IsEmail(email) {
		return ""
	}
	return email
}

// extractCustomerName resolves a display name from the billing address
// first, then the customer object.
func extractCustomerName(payload gjson.Result) string {
	for _, prefix := range []string{"billing_address", "customer"} {
		first := payload.Get(prefix + ".first_name").String()
		last := payload.Get(prefix + ".last_name").String()
		name := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
		if name != "" {
			return name
		}
	}
	return ""
}

func extractLineItems(payload gjson.Result) domain.LineItems {
	var items domain.LineItems
	payload.Get("line_items").ForEach(func(_, item gjson.Result) bool {
		items = append(items, domain.LineItem{
			Title:    item.Get("title").String(),
			Quantity: int(item.Get("quantity").Int()),
			Price:    item.Get("price").Float(),
			Variant:  item.Get("variant_title").String(),
			ImageURL: item.Get("image_url").String(),
		})
		return true
	})
	return items
}
