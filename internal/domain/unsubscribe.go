package domain

import (
	"context"
	"fmt"
	"time"
)

//go:generate mockgen -destination mocks/mock_unsubscribe_repository.go -package mocks github.com/cartpulse/cartpulse/internal/domain UnsubscribeRepository

// EmailUnsubscribe is a permanent suppression marker for (store, email).
// There is no resubscribe path: rows are only ever inserted.
type EmailUnsubscribe struct {
	StoreID   string    `json:"store_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UnsubscribeRepository defines persistence for suppression markers
type UnsubscribeRepository interface {
	// Create inserts the marker; inserting an existing (store, email) pair
	// is a no-op, not an error.
	Create(ctx context.Context, storeID, email string) error
	Exists(ctx context.Context, storeID, email string) (bool, error)
}

// UnsubscribeRequest carries the signed token from a public unsubscribe link
type UnsubscribeRequest struct {
	Token string `json:"token"`
}

// Validate validates the unsubscribe request
func (r *UnsubscribeRequest) Validate() error {
	if r.Token == "" {
		return fmt.Errorf("token is required")
	}
	return nil
}
