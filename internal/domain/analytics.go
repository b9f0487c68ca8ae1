package domain

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

//go:generate mockgen -destination mocks/mock_analytics_repository.go -package mocks github.com/cartpulse/cartpulse/internal/domain AnalyticsRepository

// RecoverySummary aggregates recovery outcomes for a store over a window.
// ActiveSequences is the current global count, not windowed.
type RecoverySummary struct {
	AbandonedCount   int     `json:"abandoned_count"`
	RecoveredCount   int     `json:"recovered_count"`
	RecoveryRate     float64 `json:"recovery_rate"`
	RecoveredRevenue float64 `json:"recovered_revenue"`
	EmailsSent       int     `json:"emails_sent"`
	ActiveSequences  int     `json:"active_sequences"`
	WindowDays       int     `json:"window_days"`
}

// DailyTrendPoint is one calendar day of abandoned vs recovered counts
type DailyTrendPoint struct {
	Date      string `json:"date"`
	Abandoned int    `json:"abandoned"`
	Recovered int    `json:"recovered"`
}

// AnalyticsRepository defines the aggregate queries behind the dashboard
type AnalyticsRepository interface {
	// CountCheckoutsByOutcome returns abandoned attempts (any non-active
	// checkout in the window) and how many of those converted, plus the
	// revenue of the converted ones.
	CountCheckoutsByOutcome(ctx context.Context, storeID string, since time.Time) (abandoned int, recovered int, revenue float64, err error)

	DailyTrend(ctx context.Context, storeID string, since time.Time) ([]*DailyTrendPoint, error)
}

// SummaryRequest is used to extract query parameters for the summary endpoint
type SummaryRequest struct {
	StoreID string `json:"store_id"`
	Days    int    `json:"days,omitempty"`
}

// FromURLParams parses URL query parameters into the request
func (r *SummaryRequest) FromURLParams(values url.Values) error {
	r.StoreID = values.Get("store_id")
	if r.StoreID == "" {
		return fmt.Errorf("store_id is required")
	}

	if daysStr := values.Get("days"); daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return fmt.Errorf("invalid days parameter: %w", err)
		}
		r.Days = days
	}

	if r.Days <= 0 {
		r.Days = 30
	}

	return nil
}
