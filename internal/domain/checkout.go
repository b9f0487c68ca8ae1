package domain

import (
	"bytes"
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

//go:generate mockgen -destination mocks/mock_checkout_repository.go -package mocks github.com/cartpulse/cartpulse/internal/domain CheckoutRepository

// CheckoutStatus represents the lifecycle of an abandoned checkout record
type CheckoutStatus string

const (
	// CheckoutStatusActive is a checkout the customer is still (presumed) working on
	CheckoutStatusActive CheckoutStatus = "active"
	// CheckoutStatusAbandoned is a checkout left idle past the store threshold
	CheckoutStatusAbandoned CheckoutStatus = "abandoned"
	// CheckoutStatusRecovered is an abandoned checkout converted after at least one recovery email
	CheckoutStatusRecovered CheckoutStatus = "recovered"
	// CheckoutStatusCompleted is a checkout converted without recovery involvement
	CheckoutStatusCompleted CheckoutStatus = "completed"
)

// IsTerminalComplete reports whether an order was placed for this checkout.
func (s CheckoutStatus) IsTerminalComplete() bool {
	return s == CheckoutStatusRecovered || s == CheckoutStatusCompleted
}

// LineItem is one product entry in a checkout snapshot
type LineItem struct {
	Title    string  `json:"title"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Variant  string  `json:"variant,omitempty"`
	ImageURL string  `json:"image_url,omitempty"`
}

// LineItems is stored as a JSONB column
type LineItems []LineItem

// Value implements the driver.Valuer interface for LineItems
func (l LineItems) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface for LineItems
func (l *LineItems) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("expected []byte, got %T", value)
	}

	cloned := bytes.Clone(b)
	return json.Unmarshal(cloned, l)
}

// Checkout is the canonical record built from platform checkout webhooks.
// Identity is (store_id, platform_checkout_id); every webhook for the same
// checkout refreshes the content fields in place.
type Checkout struct {
	ID                    string         `json:"id"`
	StoreID               string         `json:"store_id"`
	PlatformCheckoutID    string         `json:"platform_checkout_id"`
	PlatformToken         string         `json:"platform_token,omitempty"`
	Email                 string         `json:"email,omitempty"`
	CustomerName          string         `json:"customer_name,omitempty"`
	TotalPrice            float64        `json:"total_price"`
	Currency              string         `json:"currency,omitempty"`
	LineItems             LineItems      `json:"line_items,omitempty"`
	CheckoutURL           string         `json:"checkout_url,omitempty"`
	Status                CheckoutStatus `json:"status"`
	AbandonmentDetectedAt *time.Time     `json:"abandonment_detected_at,omitempty"`
	RecoveredAt           *time.Time     `json:"recovered_at,omitempty"`
	CompletedOrderID      *string        `json:"completed_order_id,omitempty"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
}

// IngestResult is the outcome of processing one checkout webhook
type IngestResult string

const (
	// IngestAccepted means the payload was upserted into a checkout record
	IngestAccepted IngestResult = "accepted"
	// IngestIgnored means the payload carried no usable checkout identity
	IngestIgnored IngestResult = "ignored"
)

// AbandonmentCandidate pairs a checkout with the store whose policy matched it
type AbandonmentCandidate struct {
	Checkout Checkout
	StoreID  string
}

// CheckoutRepository defines persistence for checkout records
type CheckoutRepository interface {
	// Upsert inserts the checkout or refreshes the content fields of the
	// existing row keyed on (store_id, platform_checkout_id). The status
	// column is never touched by an upsert.
	Upsert(ctx context.Context, checkout *Checkout) error

	GetByID(ctx context.Context, storeID, checkoutID string) (*Checkout, error)
	GetByPlatformToken(ctx context.Context, storeID, token string) (*Checkout, error)
	GetLatestByEmail(ctx context.Context, storeID, email string) (*Checkout, error)

	// ListAbandonmentCandidates returns active checkouts idle since before
	// the cutoff, with an email on file and a total at or above minCartValue.
	ListAbandonmentCandidates(ctx context.Context, storeID string, cutoff time.Time, minCartValue float64, limit int) ([]*Checkout, error)

	// MarkAbandoned transitions an active checkout to abandoned. Returns
	// false when the checkout was no longer active.
	MarkAbandoned(ctx context.Context, storeID, checkoutID string, detectedAt time.Time) (bool, error)

	// MarkCompleted links the order and finishes the lifecycle. recovered
	// selects between the recovered and completed terminal states.
	MarkCompleted(ctx context.Context, storeID, checkoutID, orderID string, recovered bool) error

	List(ctx context.Context, storeID string, filter CheckoutFilter) ([]*Checkout, int, error)
}

// CheckoutFilter defines the filtering criteria for checkout listing
type CheckoutFilter struct {
	Status        []CheckoutStatus
	Email         string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Limit         int
	Offset        int
}

// ListCheckoutsRequest is used to extract query parameters for listing checkouts
type ListCheckoutsRequest struct {
	StoreID string   `json:"store_id"`
	Status  []string `json:"status,omitempty"`
	Email   string   `json:"email,omitempty"`
	Limit   int      `json:"limit,omitempty"`
	Offset  int      `json:"offset,omitempty"`
}

// FromURLParams parses URL query parameters into the request
func (r *ListCheckoutsRequest) FromURLParams(values url.Values) error {
	r.StoreID = values.Get("store_id")
	if r.StoreID == "" {
		return fmt.Errorf("store_id is required")
	}

	if statusParam := values.Get("status"); statusParam != "" {
		r.Status = splitAndTrim(statusParam)
	}

	r.Email = values.Get("email")

	if limitStr := values.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return fmt.Errorf("invalid limit parameter: %w", err)
		}
		r.Limit = limit
	}

	if offsetStr := values.Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return fmt.Errorf("invalid offset parameter: %w", err)
		}
		r.Offset = offset
	}

	return nil
}

// ToFilter converts the request to a CheckoutFilter
func (r *ListCheckoutsRequest) ToFilter() CheckoutFilter {
	filter := CheckoutFilter{
		Email:  r.Email,
		Limit:  r.Limit,
		Offset: r.Offset,
	}

	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	if len(r.Status) > 0 {
		filter.Status = make([]CheckoutStatus, len(r.Status))
		for i, s := range r.Status {
			filter.Status[i] = CheckoutStatus(s)
		}
	}

	return filter
}

// CheckoutListResponse defines the response for listing checkouts
type CheckoutListResponse struct {
	Checkouts  []*Checkout `json:"checkouts"`
	TotalCount int         `json:"total_count"`
	Limit      int         `json:"limit"`
	Offset     int         `json:"offset"`
	HasMore    bool        `json:"has_more"`
}
