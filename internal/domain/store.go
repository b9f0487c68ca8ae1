package domain

import (
	"bytes"
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

//go:generate mockgen -destination mocks/mock_store_repository.go -package mocks github.com/cartpulse/cartpulse/internal/domain StoreRepository

// Default recovery policy values applied when a store has not configured
// its own.
const (
	DefaultAbandonmentThresholdMinutes = 60
	MaxDiscountPercent                 = 90
)

// DefaultSequenceTimingMinutes is the default step schedule: 2h, 24h, 48h
// and 72h after abandonment.
var DefaultSequenceTimingMinutes = []int{120, 1440, 2880, 4320}

// RecoverySettings is the per-store recovery policy, stored as JSONB on the
// stores table. MaxEmailsPerDay is persisted and validated but enforcement
// belongs to the email sending collaborator, not this engine.
type RecoverySettings struct {
	Enabled                     bool     `json:"enabled"`
	AbandonmentThresholdMinutes int      `json:"abandonment_threshold_minutes"`
	MinCartValue                float64  `json:"min_cart_value"`
	SequenceTimingMinutes       []int    `json:"sequence_timing_minutes"`
	DiscountEnabled             bool     `json:"discount_enabled"`
	DiscountPercent             int      `json:"discount_percent"`
	ExcludeEmailPatterns        []string `json:"exclude_email_patterns,omitempty"`
	MaxEmailsPerDay             int      `json:"max_emails_per_day"`
}

// Value implements the driver.Valuer interface for RecoverySettings
func (s RecoverySettings) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface for RecoverySettings
func (s *RecoverySettings) Scan(value interface{}) error {
	if value == nil {
		*s = RecoverySettings{}
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("expected []byte, got %T", value)
	}

	cloned := bytes.Clone(b)
	return json.Unmarshal(cloned, s)
}

// WithDefaults fills unset fields with the default policy
func (s RecoverySettings) WithDefaults() RecoverySettings {
	if s.AbandonmentThresholdMinutes <= 0 {
		s.AbandonmentThresholdMinutes = DefaultAbandonmentThresholdMinutes
	}
	if len(s.SequenceTimingMinutes) == 0 {
		s.SequenceTimingMinutes = append([]int(nil), DefaultSequenceTimingMinutes...)
	}
	return s
}

// Validate validates a settings update before persisting it
func (s *RecoverySettings) Validate() error {
	if s.AbandonmentThresholdMinutes < 0 {
		return fmt.Errorf("abandonment_threshold_minutes must not be negative")
	}
	if s.MinCartValue < 0 {
		return fmt.Errorf("min_cart_value must not be negative")
	}
	for i, m := range s.SequenceTimingMinutes {
		if m <= 0 {
			return fmt.Errorf("sequence_timing_minutes[%d] must be positive", i)
		}
		if i > 0 && m <= s.SequenceTimingMinutes[i-1] {
			return fmt.Errorf("sequence_timing_minutes must be strictly increasing")
		}
	}
	if s.DiscountPercent < 0 || s.DiscountPercent > MaxDiscountPercent {
		return fmt.Errorf("discount_percent must be between 0 and %d", MaxDiscountPercent)
	}
	if s.MaxEmailsPerDay < 0 {
		return fmt.Errorf("max_emails_per_day must not be negative")
	}
	for _, pattern := range s.ExcludeEmailPatterns {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("invalid exclude_email_patterns entry %q: %w", pattern, err)
		}
	}
	return nil
}

// Store is a tenant on the commerce platform. Store CRUD itself lives in an
// external collaborator; this engine only reads stores and patches their
// recovery settings.
type Store struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	PlatformDomain   string           `json:"platform_domain"`
	Currency         string           `json:"currency"`
	RecoverySettings RecoverySettings `json:"recovery_settings"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// StoreRepository defines read and settings-patch access to stores
type StoreRepository interface {
	GetByID(ctx context.Context, storeID string) (*Store, error)
	// ListRecoveryEnabled returns the stores whose policy has enabled=true
	ListRecoveryEnabled(ctx context.Context) ([]*Store, error)
	UpdateRecoverySettings(ctx context.Context, storeID string, settings RecoverySettings) error
}

// UpdateRecoverySettingsRequest is the dashboard policy patch
type UpdateRecoverySettingsRequest struct {
	StoreID  string           `json:"store_id"`
	Settings RecoverySettings `json:"settings"`
}

// Validate validates the settings update request
func (r *UpdateRecoverySettingsRequest) Validate() error {
	if r.StoreID == "" {
		return fmt.Errorf("store_id is required")
	}
	return r.Settings.Validate()
}
