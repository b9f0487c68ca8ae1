package domain

import (
	"context"
	"fmt"
)

//go:generate mockgen -destination mocks/mock_order_history_lookup.go -package mocks github.com/cartpulse/cartpulse/internal/domain OrderHistoryLookup

// HighValueLifetimeThreshold is the lifetime spend above which a customer
// gets the high_value sequence treatment.
const HighValueLifetimeThreshold = 500.0

// OrderHistory summarizes a customer's prior purchases with the store
type OrderHistory struct {
	OrderCount    int     `json:"order_count"`
	LifetimeValue float64 `json:"lifetime_value"`
}

// OrderHistoryLookup is the external collaborator that knows a customer's
// past orders on the platform. Failures here are non-fatal: callers fall
// back to the first_time classification.
type OrderHistoryLookup interface {
	LookupByEmail(ctx context.Context, storeID, email string) (*OrderHistory, error)
}

// ClassifySequenceType maps an order history to the campaign tone family
func ClassifySequenceType(history *OrderHistory) SequenceType {
	if history == nil || history.OrderCount == 0 {
		return SequenceTypeFirstTime
	}
	if history.LifetimeValue >= HighValueLifetimeThreshold {
		return SequenceTypeHighValue
	}
	return SequenceTypeReturning
}

// OrderCompletedResult is the outcome of processing an order webhook
type OrderCompletedResult string

const (
	// OrderCompletedMatched means a checkout was found and closed
	OrderCompletedMatched OrderCompletedResult = "matched"
	// OrderCompletedIgnored means the payload carried nothing to match on
	OrderCompletedIgnored OrderCompletedResult = "ignored"
)

// OrderCompletedEvent is the order-completion signal consumed from the
// platform webhook layer.
type OrderCompletedEvent struct {
	StoreID       string `json:"store_id"`
	OrderID       string `json:"order_id"`
	CheckoutToken string `json:"checkout_token,omitempty"`
	Email         string `json:"email,omitempty"`
}

// Validate validates the order completed event
func (e *OrderCompletedEvent) Validate() error {
	if e.StoreID == "" {
		return fmt.Errorf("store_id is required")
	}
	if e.OrderID == "" {
		return fmt.Errorf("order_id is required")
	}
	return nil
}
