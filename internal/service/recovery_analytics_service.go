package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cartpulse/cartpulse/internal/domain"
	"github.com/cartpulse/cartpulse/pkg/logger"
)

// RecoveryAnalyticsService serves the dashboard aggregates
type RecoveryAnalyticsService struct {
	analyticsRepo domain.AnalyticsRepository
	sequenceRepo  domain.SequenceRepository
	eventRepo     domain.RecoveryEventRepository
	logger        logger.Logger
}

// NewRecoveryAnalyticsService creates a new RecoveryAnalyticsService
func NewRecoveryAnalyticsService(
	analyticsRepo domain.AnalyticsRepository,
	sequenceRepo domain.SequenceRepository,
	eventRepo domain.RecoveryEventRepository,
	logger logger.Logger,
) *RecoveryAnalyticsService {
	return &RecoveryAnalyticsService{
		analyticsRepo: analyticsRepo,
		sequenceRepo:  sequenceRepo,
		eventRepo:     eventRepo,
		logger:        logger,
	}
}

// GetSummary returns the recovery funnel for the window
func (s *RecoveryAnalyticsService) GetSummary(ctx context.Context, req *domain.SummaryRequest) (*domain.RecoverySummary, error) {
	since := time.Now().UTC().AddDate(0, 0, -req.Days)

	abandoned, recovered, revenue, err := s.analyticsRepo.CountCheckoutsByOutcome(ctx, req.StoreID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count checkout outcomes: %w", err)
	}

	emailsSent, err := s.eventRepo.CountByType(ctx, req.StoreID, domain.EventEmailSent, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count sent emails: %w", err)
	}

	activeSequences, err := s.sequenceRepo.CountActive(ctx, req.StoreID)
	if err != nil {
		return nil, fmt.Errorf("failed to count active sequences: %w", err)
	}

	summary := &domain.RecoverySummary{
		AbandonedCount:   abandoned,
		RecoveredCount:   recovered,
		RecoveredRevenue: revenue,
		EmailsSent:       emailsSent,
		ActiveSequences:  activeSequences,
		WindowDays:       req.Days,
	}
	if abandoned > 0 {
		summary.RecoveryRate = float64(recovered) / float64(abandoned)
	}

	return summary, nil
}

// GetDailyTrend returns per-day abandoned vs recovered counts for the window
func (s *RecoveryAnalyticsService) GetDailyTrend(ctx context.Context, req *domain.SummaryRequest) ([]*domain.DailyTrendPoint, error) {
	since := time.Now().UTC().AddDate(0, 0, -req.Days)

	trend, err := s.analyticsRepo.DailyTrend(ctx, req.StoreID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily trend: %w", err)
	}
	return trend, nil
}
