package domain

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

//go:generate mockgen -destination mocks/mock_sequence_repository.go -package mocks github.com/cartpulse/cartpulse/internal/domain SequenceRepository
//go:generate mockgen -destination mocks/mock_recovery_event_repository.go -package mocks github.com/cartpulse/cartpulse/internal/domain RecoveryEventRepository

// SequenceStatus represents the state of a recovery sequence
type SequenceStatus string

const (
	// SequenceStatusActive is a sequence with steps left to send
	SequenceStatusActive SequenceStatus = "active"
	// SequenceStatusCompleted is a sequence that sent every configured step
	SequenceStatusCompleted SequenceStatus = "completed"
	// SequenceStatusStopped is a sequence ended early by a guard or a manual action
	SequenceStatusStopped SequenceStatus = "stopped"
)

// SequenceType classifies the customer behind an abandoned checkout
type SequenceType string

const (
	SequenceTypeFirstTime SequenceType = "first_time"
	SequenceTypeReturning SequenceType = "returning"
	SequenceTypeHighValue SequenceType = "high_value"
)

// Reasons recorded when a sequence stops before completing.
const (
	StopReasonUnsubscribed    = "unsubscribed"
	StopReasonOrderCompleted  = "order_completed"
	StopReasonCheckoutDeleted = "checkout_deleted"
	StopReasonStoreDeleted    = "store_deleted"
	StopReasonManual          = "manual"
)

// CompletedStep records one email already sent by a sequence
type CompletedStep struct {
	StepIndex int       `json:"step_index"`
	SentAt    time.Time `json:"sent_at"`
	Subject   string    `json:"subject"`
	MessageID string    `json:"message_id"`
}

// CompletedSteps is the append-only steps_completed JSONB column
type CompletedSteps []CompletedStep

// Value implements the driver.Valuer interface for CompletedSteps
func (s CompletedSteps) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal([]CompletedStep{})
	}
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface for CompletedSteps
func (s *CompletedSteps) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("expected []byte, got %T", value)
	}

	cloned := bytes.Clone(b)
	return json.Unmarshal(cloned, s)
}

// Sequence is one recovery campaign attempt tied to one abandoned checkout.
// CurrentStepIndex only ever grows, and NextStepAt is cleared as soon as the
// sequence leaves the active state.
type Sequence struct {
	ID               string         `json:"id"`
	StoreID          string         `json:"store_id"`
	CheckoutID       string         `json:"checkout_id"`
	Email            string         `json:"email"`
	SequenceType     SequenceType   `json:"sequence_type"`
	Status           SequenceStatus `json:"status"`
	CurrentStepIndex int            `json:"current_step_index"`
	StepsCompleted   CompletedSteps `json:"steps_completed"`
	NextStepAt       *time.Time     `json:"next_step_at,omitempty"`
	StoppedReason    *string        `json:"stopped_reason,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	CompletedAt      *time.Time     `json:"completed_at,omitempty"`
}

// SequenceRepository defines persistence for recovery sequences
type SequenceRepository interface {
	// WithTransaction executes fn within a transaction
	WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error

	// Create inserts a new sequence. Returns ErrSequenceAlreadyActive when
	// the partial unique index rejects a second active sequence for the
	// same checkout.
	Create(ctx context.Context, sequence *Sequence) error

	Get(ctx context.Context, storeID, sequenceID string) (*Sequence, error)
	// GetTx retrieves the sequence with a row-level lock
	GetTx(ctx context.Context, tx *sql.Tx, storeID, sequenceID string) (*Sequence, error)

	GetActiveByCheckout(ctx context.Context, storeID, checkoutID string) (*Sequence, error)
	// GetLatestByCheckout returns the newest sequence for the checkout
	// regardless of status, for recovery attribution.
	GetLatestByCheckout(ctx context.Context, storeID, checkoutID string) (*Sequence, error)
	GetLatestActiveByEmail(ctx context.Context, storeID, email string) (*Sequence, error)
	ListActiveByEmail(ctx context.Context, storeID, email string) ([]*Sequence, error)

	// RecordStepTx appends the step record, advances current_step_index and
	// sets next_step_at (nil when the sequence just completed).
	RecordStepTx(ctx context.Context, tx *sql.Tx, storeID, sequenceID string, step CompletedStep, nextStepAt *time.Time, completed bool) error

	// MarkStopped transitions an active sequence to stopped. Returns false
	// when the sequence was not active.
	MarkStopped(ctx context.Context, storeID, sequenceID, reason string) (bool, error)

	List(ctx context.Context, storeID string, filter SequenceFilter) ([]*Sequence, int, error)
	CountActive(ctx context.Context, storeID string) (int, error)
}

// RecoveryEvent is one row of the append-only recovery audit log. Rows are
// only ever inserted; the orchestrator never reads them back to decide
// anything.
type RecoveryEvent struct {
	ID         string                 `json:"id"`
	StoreID    string                 `json:"store_id"`
	SequenceID string                 `json:"sequence_id"`
	EventType  string                 `json:"event_type"`
	StepIndex  *int                   `json:"step_index,omitempty"`
	Channel    string                 `json:"channel"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// Recovery event types emitted by the orchestrator.
const (
	EventSequenceStarted   = "sequence_started"
	EventEmailSent         = "email_sent"
	EventSequenceCompleted = "sequence_completed"
	EventSequenceStopped   = "sequence_stopped"
)

// RecoveryEventRepository defines persistence for the audit log
type RecoveryEventRepository interface {
	Insert(ctx context.Context, event *RecoveryEvent) error
	InsertTx(ctx context.Context, tx *sql.Tx, event *RecoveryEvent) error
	ListBySequence(ctx context.Context, storeID, sequenceID string) ([]*RecoveryEvent, error)
	CountByType(ctx context.Context, storeID, eventType string, since time.Time) (int, error)
}

// SequenceFilter defines the filtering criteria for sequence listing
type SequenceFilter struct {
	Status        []SequenceStatus
	Email         string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Limit         int
	Offset        int
}

// ListSequencesRequest is used to extract query parameters for listing sequences
type ListSequencesRequest struct {
	StoreID string   `json:"store_id"`
	Status  []string `json:"status,omitempty"`
	Email   string   `json:"email,omitempty"`
	Limit   int      `json:"limit,omitempty"`
	Offset  int      `json:"offset,omitempty"`
}

// FromURLParams parses URL query parameters into the request
func (r *ListSequencesRequest) FromURLParams(values url.Values) error {
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

// ToFilter converts the request to a SequenceFilter
func (r *ListSequencesRequest) ToFilter() SequenceFilter {
	filter := SequenceFilter{
		Email:  r.Email,
		Limit:  r.Limit,
		Offset: r.Offset,
	}

	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	if len(r.Status) > 0 {
		filter.Status = make([]SequenceStatus, len(r.Status))
		for i, s := range r.Status {
			filter.Status[i] = SequenceStatus(s)
		}
	}

	return filter
}

// SequenceListResponse defines the response for listing sequences
type SequenceListResponse struct {
	Sequences  []*Sequence `json:"sequences"`
	TotalCount int         `json:"total_count"`
	Limit      int         `json:"limit"`
	Offset     int         `json:"offset"`
	HasMore    bool        `json:"has_more"`
}

// StopSequenceRequest defines the manual stop action from the dashboard
type StopSequenceRequest struct {
	StoreID    string `json:"store_id"`
	SequenceID string `json:"sequence_id"`
}

// Validate validates the stop sequence request
func (r *StopSequenceRequest) Validate() error {
	if r.StoreID == "" {
		return fmt.Errorf("store_id is required")
	}
	if r.SequenceID == "" {
		return fmt.Errorf("sequence_id is required")
	}
	return nil
}
