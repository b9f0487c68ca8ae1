package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartpulse/cartpulse/internal/domain"
	"github.com/cartpulse/cartpulse/internal/domain/mocks"
	"github.com/cartpulse/cartpulse/pkg/logger"
)

type detectorFixture struct {
	storeRepo       *mocks.MockStoreRepository
	checkoutRepo    *mocks.MockCheckoutRepository
	unsubscribeRepo *mocks.MockUnsubscribeRepository
	taskRepo        *mocks.MockTaskRepository
	detector        *AbandonmentDetector
}

func newDetectorFixture(t *testing.T, ctrl *gomock.Controller, pageSize int) *detectorFixture {
	f := &detectorFixture{
		storeRepo:       mocks.NewMockStoreRepository(ctrl),
		checkoutRepo:    mocks.NewMockCheckoutRepository(ctrl),
		unsubscribeRepo: mocks.NewMockUnsubscribeRepository(ctrl),
		taskRepo:        mocks.NewMockTaskRepository(ctrl),
	}
	taskService, err := NewTaskService(f.taskRepo, logger.NewMockLogger(t))
	require.NoError(t, err)
	f.detector = NewAbandonmentDetector(f.storeRepo, f.checkoutRepo, f.unsubscribeRepo, taskService, pageSize, logger.NewMockLogger(t))
	return f
}

func detectorStore() *domain.Store {
	return &domain.Store{
		ID:   "store-1",
		Name: "Aurora Supply",
		RecoverySettings: domain.RecoverySettings{
			Enabled:                     true,
			AbandonmentThresholdMinutes: 60,
			SequenceTimingMinutes:       []int{60, 1440},
			ExcludeEmailPatterns:        []string{`@internal\.example$`},
		},
	}
}

func TestAbandonmentDetector_Scan_MarksAndEnqueues(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newDetectorFixture(t, ctrl, 50)
	ctx := context.Background()
	store := detectorStore()

	checkout := &domain.Checkout{ID: "chk-1", StoreID: store.ID, Email: "dana@example.com"}

	f.storeRepo.EXPECT().ListRecoveryEnabled(ctx).Return([]*domain.Store{store}, nil)
	f.checkoutRepo.EXPECT().
		ListAbandonmentCandidates(gomock.Any(), store.ID, gomock.Any(), float64(0), 50).
		Return([]*domain.Checkout{checkout}, nil)
	f.checkoutRepo.EXPECT().
		MarkAbandoned(gomock.Any(), store.ID, checkout.ID, gomock.Any()).
		Return(true, nil)
	f.unsubscribeRepo.EXPECT().Exists(gomock.Any(), store.ID, checkout.Email).Return(false, nil)
	f.taskRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, task *domain.Task) error {
			assert.Equal(t, store.ID, task.StoreID)
			assert.Equal(t, domain.TaskKindSequenceStart, task.Kind)
			var payload domain.SequenceStartPayload
			require.NoError(t, json.Unmarshal(task.Payload, &payload))
			assert.Equal(t, checkout.ID, payload.CheckoutID)
			assert.Equal(t, checkout.Email, payload.Email)
			return nil
		})

	detected, err := f.detector.Scan(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, detected)
}

func TestAbandonmentDetector_ScanStore_ExcludedEmailLeftActive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newDetectorFixture(t, ctrl, 50)
	ctx := context.Background()
	store := detectorStore()

	checkout := &domain.Checkout{ID: "chk-2", StoreID: store.ID, Email: "qa@internal.example"}

	f.checkoutRepo.EXPECT().
		ListAbandonmentCandidates(gomock.Any(), store.ID, gomock.Any(), float64(0), 50).
		Return([]*domain.Checkout{checkout}, nil)
	// No MarkAbandoned, no unsubscribe lookup, no task: the exclusion gates
	// the transition itself and the checkout stays active

	detected, err := f.detector.ScanStore(ctx, store)

	require.NoError(t, err)
	assert.Equal(t, 0, detected)
}

func TestAbandonmentDetector_ScanStore_UnsubscribedEmailSkipsCampaign(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newDetectorFixture(t, ctrl, 50)
	ctx := context.Background()
	store := detectorStore()

	checkout := &domain.Checkout{ID: "chk-3", StoreID: store.ID, Email: "dana@example.com"}

	f.checkoutRepo.EXPECT().
		ListAbandonmentCandidates(gomock.Any(), store.ID, gomock.Any(), float64(0), 50).
		Return([]*domain.Checkout{checkout}, nil)
	f.checkoutRepo.EXPECT().
		MarkAbandoned(gomock.Any(), store.ID, checkout.ID, gomock.Any()).
		Return(true, nil)
	f.unsubscribeRepo.EXPECT().Exists(gomock.Any(), store.ID, checkout.Email).Return(true, nil)

	detected, err := f.detector.ScanStore(ctx, store)

	require.NoError(t, err)
	assert.Equal(t, 1, detected)
}

func TestAbandonmentDetector_ScanStore_LostMarkRaceNotCounted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newDetectorFixture(t, ctrl, 50)
	ctx := context.Background()
	store := detectorStore()

	checkout := &domain.Checkout{ID: "chk-4", StoreID: store.ID, Email: "dana@example.com"}

	f.checkoutRepo.EXPECT().
		ListAbandonmentCandidates(gomock.Any(), store.ID, gomock.Any(), float64(0), 50).
		Return([]*domain.Checkout{checkout}, nil)
	f.checkoutRepo.EXPECT().
		MarkAbandoned(gomock.Any(), store.ID, checkout.ID, gomock.Any()).
		Return(false, nil)

	detected, err := f.detector.ScanStore(ctx, store)

	require.NoError(t, err)
	assert.Equal(t, 0, detected)
}

func TestAbandonmentDetector_ScanStore_InvalidEmailSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newDetectorFixture(t, ctrl, 50)
	ctx := context.Background()
	store := detectorStore()

	checkout := &domain.Checkout{ID: "chk-5", StoreID: store.ID, Email: "not-an-email"}

	f.checkoutRepo.EXPECT().
		ListAbandonmentCandidates(gomock.Any(), store.ID, gomock.Any(), float64(0), 50).
		Return([]*domain.Checkout{checkout}, nil)

	detected, err := f.detector.ScanStore(ctx, store)

	require.NoError(t, err)
	assert.Equal(t, 0, detected)
}

func TestAbandonmentDetector_ScanStore_PaginatesUntilShortPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newDetectorFixture(t, ctrl, 2)
	ctx := context.Background()
	store := detectorStore()

	page1 := []*domain.Checkout{
		{ID: "chk-a", StoreID: store.ID, Email: "a@example.com"},
		{ID: "chk-b", StoreID: store.ID, Email: "b@example.com"},
	}
	page2 := []*domain.Checkout{
		{ID: "chk-c", StoreID: store.ID, Email: "c@example.com"},
	}

	gomock.InOrder(
		f.checkoutRepo.EXPECT().
			ListAbandonmentCandidates(gomock.Any(), store.ID, gomock.Any(), float64(0), 2).
			Return(page1, nil),
		f.checkoutRepo.EXPECT().
			ListAbandonmentCandidates(gomock.Any(), store.ID, gomock.Any(), float64(0), 2).
			Return(page2, nil),
	)
	f.checkoutRepo.EXPECT().
		MarkAbandoned(gomock.Any(), store.ID, gomock.Any(), gomock.Any()).
		Return(true, nil).
		Times(3)
	f.unsubscribeRepo.EXPECT().Exists(gomock.Any(), store.ID, gomock.Any()).Return(false, nil).Times(3)
	f.taskRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).Times(3)

	detected, err := f.detector.ScanStore(ctx, store)

	require.NoError(t, err)
	assert.Equal(t, 3, detected)
}

func TestAbandonmentDetector_Scan_StoreFailureIsolated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newDetectorFixture(t, ctrl, 50)
	ctx := context.Background()

	broken := detectorStore()
	healthy := detectorStore()
	healthy.ID = "store-2"

	checkout := &domain.Checkout{ID: "chk-6", StoreID: healthy.ID, Email: "dana@example.com"}

	f.storeRepo.EXPECT().ListRecoveryEnabled(ctx).Return([]*domain.Store{broken, healthy}, nil)
	f.checkoutRepo.EXPECT().
		ListAbandonmentCandidates(gomock.Any(), broken.ID, gomock.Any(), float64(0), 50).
		Return(nil, errors.New("connection reset"))
	f.checkoutRepo.EXPECT().
		ListAbandonmentCandidates(gomock.Any(), healthy.ID, gomock.Any(), float64(0), 50).
		Return([]*domain.Checkout{checkout}, nil)
	f.checkoutRepo.EXPECT().
		MarkAbandoned(gomock.Any(), healthy.ID, checkout.ID, gomock.Any()).
		Return(true, nil)
	f.unsubscribeRepo.EXPECT().Exists(gomock.Any(), healthy.ID, checkout.Email).Return(false, nil)
	f.taskRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	detected, err := f.detector.Scan(ctx)

	require.Error(t, err)
	assert.Contains(t, err.Error(), broken.ID)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, 1, detected)
}
