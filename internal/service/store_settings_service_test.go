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

func TestStoreSettingsService_GetSettings(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	ctx := context.Background()

	repo := mocks.NewMockStoreRepository(ctrl)
	svc := NewStoreSettingsService(repo, logger.NewMockLogger(t))

	store := &domain.Store{ID: "store-1", RecoverySettings: domain.RecoverySettings{Enabled: true}}
	repo.EXPECT().GetByID(ctx, "store-1").Return(store, nil)

	settings, err := svc.GetSettings(ctx, "store-1")

	require.NoError(t, err)
	assert.True(t, settings.Enabled)
	// Unset fields come back with defaults applied
	assert.Equal(t, domain.DefaultAbandonmentThresholdMinutes, settings.AbandonmentThresholdMinutes)
	assert.Equal(t, domain.DefaultSequenceTimingMinutes, settings.SequenceTimingMinutes)
}

func TestStoreSettingsService_UpdateSettings(t *testing.T) {
	ctx := context.Background()

	t.Run("persists a valid patch with defaults applied", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := mocks.NewMockStoreRepository(ctrl)
		svc := NewStoreSettingsService(repo, logger.NewMockLogger(t))

		req := &domain.UpdateRecoverySettingsRequest{
			StoreID: "store-1",
			Settings: domain.RecoverySettings{
				Enabled:               true,
				SequenceTimingMinutes: []int{30, 240, 1440},
			},
		}

		repo.EXPECT().
			UpdateRecoverySettings(ctx, "store-1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, settings domain.RecoverySettings) error {
				assert.Equal(t, []int{30, 240, 1440}, settings.SequenceTimingMinutes)
				assert.Equal(t, domain.DefaultAbandonmentThresholdMinutes, settings.AbandonmentThresholdMinutes)
				return nil
			})

		settings, err := svc.UpdateSettings(ctx, req)

		require.NoError(t, err)
		assert.True(t, settings.Enabled)
	})

	t.Run("rejects an invalid patch before touching the store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := mocks.NewMockStoreRepository(ctrl)
		svc := NewStoreSettingsService(repo, logger.NewMockLogger(t))

		req := &domain.UpdateRecoverySettingsRequest{
			StoreID: "store-1",
			Settings: domain.RecoverySettings{
				SequenceTimingMinutes: []int{240, 30},
			},
		}

		_, err := svc.UpdateSettings(ctx, req)
		assert.Error(t, err)
	})
}
