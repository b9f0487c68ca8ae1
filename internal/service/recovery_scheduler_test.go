package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartpulse/cartpulse/internal/domain/mocks"
	"github.com/cartpulse/cartpulse/pkg/logger"
)

func newTestScheduler(t *testing.T, ctrl *gomock.Controller) *RecoveryScheduler {
	storeRepo := mocks.NewMockStoreRepository(ctrl)
	checkoutRepo := mocks.NewMockCheckoutRepository(ctrl)
	unsubscribeRepo := mocks.NewMockUnsubscribeRepository(ctrl)
	taskRepo := mocks.NewMockTaskRepository(ctrl)

	// The loop sweeps on start; an empty store list ends each sweep at once
	storeRepo.EXPECT().ListRecoveryEnabled(gomock.Any()).Return(nil, nil).AnyTimes()
	taskRepo.EXPECT().ClaimNextBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	taskService, err := NewTaskService(taskRepo, logger.NewMockLogger(t))
	require.NoError(t, err)
	detector := NewAbandonmentDetector(storeRepo, checkoutRepo, unsubscribeRepo, taskService, 50, logger.NewMockLogger(t))

	return NewRecoveryScheduler(detector, taskService, logger.NewMockLogger(t), time.Hour, time.Hour, 10)
}

func TestRecoveryScheduler_StopWithoutStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	scheduler := newTestScheduler(t, ctrl)

	scheduler.Stop()
	assert.False(t, scheduler.IsRunning())
}

func TestRecoveryScheduler_Restart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	scheduler := newTestScheduler(t, ctrl)
	ctx := context.Background()

	// Two full start/stop cycles must not panic or leave the loop running
	scheduler.Start(ctx)
	assert.True(t, scheduler.IsRunning())
	scheduler.Stop()
	assert.False(t, scheduler.IsRunning())

	scheduler.Start(ctx)
	assert.True(t, scheduler.IsRunning())
	scheduler.Stop()
	assert.False(t, scheduler.IsRunning())
}
