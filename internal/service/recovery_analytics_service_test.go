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

func TestRecoveryAnalyticsService_GetSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("builds the funnel summary", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		analyticsRepo := mocks.NewMockAnalyticsRepository(ctrl)
		sequenceRepo := mocks.NewMockSequenceRepository(ctrl)
		eventRepo := mocks.NewMockRecoveryEventRepository(ctrl)
		svc := NewRecoveryAnalyticsService(analyticsRepo, sequenceRepo, eventRepo, logger.NewMockLogger(t))

		analyticsRepo.EXPECT().
			CountCheckoutsByOutcome(ctx, "store-1", gomock.Any()).
			Return(40, 10, 1250.50, nil)
		eventRepo.EXPECT().
			CountByType(ctx, "store-1", domain.EventEmailSent, gomock.Any()).
			Return(85, nil)
		sequenceRepo.EXPECT().CountActive(ctx, "store-1").Return(7, nil)

		summary, err := svc.GetSummary(ctx, &domain.SummaryRequest{StoreID: "store-1", Days: 30})

		require.NoError(t, err)
		assert.Equal(t, 40, summary.AbandonedCount)
		assert.Equal(t, 10, summary.RecoveredCount)
		assert.InDelta(t, 0.25, summary.RecoveryRate, 0.0001)
		assert.Equal(t, 1250.50, summary.RecoveredRevenue)
		assert.Equal(t, 85, summary.EmailsSent)
		assert.Equal(t, 7, summary.ActiveSequences)
		assert.Equal(t, 30, summary.WindowDays)
	})

	t.Run("zero abandoned carts means zero rate, not a division error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		analyticsRepo := mocks.NewMockAnalyticsRepository(ctrl)
		sequenceRepo := mocks.NewMockSequenceRepository(ctrl)
		eventRepo := mocks.NewMockRecoveryEventRepository(ctrl)
		svc := NewRecoveryAnalyticsService(analyticsRepo, sequenceRepo, eventRepo, logger.NewMockLogger(t))

		analyticsRepo.EXPECT().
			CountCheckoutsByOutcome(ctx, "store-1", gomock.Any()).
			Return(0, 0, 0.0, nil)
		eventRepo.EXPECT().
			CountByType(ctx, "store-1", domain.EventEmailSent, gomock.Any()).
			Return(0, nil)
		sequenceRepo.EXPECT().CountActive(ctx, "store-1").Return(0, nil)

		summary, err := svc.GetSummary(ctx, &domain.SummaryRequest{StoreID: "store-1", Days: 7})

		require.NoError(t, err)
		assert.Zero(t, summary.RecoveryRate)
	})
}

func TestRecoveryAnalyticsService_GetDailyTrend(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	analyticsRepo := mocks.NewMockAnalyticsRepository(ctrl)
	svc := NewRecoveryAnalyticsService(analyticsRepo, mocks.NewMockSequenceRepository(ctrl), mocks.NewMockRecoveryEventRepository(ctrl), logger.NewMockLogger(t))

	points := []*domain.DailyTrendPoint{
		{Date: "2026-08-27", Abandoned: 5, Recovered: 1},
		{Date: "2026-08-28", Abandoned: 3, Recovered: 2},
	}
	analyticsRepo.EXPECT().DailyTrend(ctx, "store-1", gomock.Any()).Return(points, nil)

	trend, err := svc.GetDailyTrend(ctx, &domain.SummaryRequest{StoreID: "store-1", Days: 7})

	require.NoError(t, err)
	assert.Equal(t, points, trend)
}
