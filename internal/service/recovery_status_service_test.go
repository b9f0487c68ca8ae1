package service

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartpulse/cartpulse/internal/domain"
	"github.com/cartpulse/cartpulse/internal/domain/mocks"
	"github.com/cartpulse/cartpulse/pkg/crypto"
	"github.com/cartpulse/cartpulse/pkg/logger"
)

func TestRecoveryStatusService_GetStatus(t *testing.T) {
	ctx := context.Background()
	secretKey := "status-secret"

	statusRequest := func() *domain.RecoveryStatusRequest {
		return &domain.RecoveryStatusRequest{
			StoreID:   "store-1",
			Email:     "dana@example.com",
			EmailHMAC: crypto.ComputeEmailHMAC("dana@example.com", secretKey),
		}
	}

	t.Run("returns the active sequence with its cart", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		sequenceRepo := mocks.NewMockSequenceRepository(ctrl)
		checkoutRepo := mocks.NewMockCheckoutRepository(ctrl)
		svc := NewRecoveryStatusService(sequenceRepo, checkoutRepo, secretKey, logger.NewMockLogger(t))

		sequence := activeSequence(1)
		checkout := abandonedCheckout()

		sequenceRepo.EXPECT().GetLatestActiveByEmail(ctx, "store-1", "dana@example.com").Return(sequence, nil)
		checkoutRepo.EXPECT().GetByID(ctx, "store-1", sequence.CheckoutID).Return(checkout, nil)

		resp, err := svc.GetStatus(ctx, statusRequest())

		require.NoError(t, err)
		assert.True(t, resp.HasActiveRecovery)
		assert.Equal(t, sequence, resp.Sequence)
		assert.Equal(t, checkout, resp.Checkout)
	})

	t.Run("no active sequence means no recovery", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		sequenceRepo := mocks.NewMockSequenceRepository(ctrl)
		checkoutRepo := mocks.NewMockCheckoutRepository(ctrl)
		svc := NewRecoveryStatusService(sequenceRepo, checkoutRepo, secretKey, logger.NewMockLogger(t))

		sequenceRepo.EXPECT().
			GetLatestActiveByEmail(ctx, "store-1", "dana@example.com").
			Return(nil, domain.ErrSequenceNotFound)

		resp, err := svc.GetStatus(ctx, statusRequest())

		require.NoError(t, err)
		assert.False(t, resp.HasActiveRecovery)
		assert.Nil(t, resp.Sequence)
	})

	t.Run("rejects a bad email proof", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		sequenceRepo := mocks.NewMockSequenceRepository(ctrl)
		checkoutRepo := mocks.NewMockCheckoutRepository(ctrl)
		svc := NewRecoveryStatusService(sequenceRepo, checkoutRepo, secretKey, logger.NewMockLogger(t))

		req := statusRequest()
		req.EmailHMAC = crypto.ComputeEmailHMAC("dana@example.com", "other-secret")

		_, err := svc.GetStatus(ctx, req)
		assert.Error(t, err)
	})

	t.Run("tolerates a deleted checkout", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		sequenceRepo := mocks.NewMockSequenceRepository(ctrl)
		checkoutRepo := mocks.NewMockCheckoutRepository(ctrl)
		svc := NewRecoveryStatusService(sequenceRepo, checkoutRepo, secretKey, logger.NewMockLogger(t))

		sequence := activeSequence(0)
		sequenceRepo.EXPECT().GetLatestActiveByEmail(ctx, "store-1", "dana@example.com").Return(sequence, nil)
		checkoutRepo.EXPECT().GetByID(ctx, "store-1", sequence.CheckoutID).Return(nil, domain.ErrCheckoutNotFound)

		resp, err := svc.GetStatus(ctx, statusRequest())

		require.NoError(t, err)
		assert.True(t, resp.HasActiveRecovery)
		assert.Nil(t, resp.Checkout)
	})
}
