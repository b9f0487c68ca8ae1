package service

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartpulse/cartpulse/internal/domain"
	"github.com/cartpulse/cartpulse/pkg/logger"
)

func TestSequenceStartProcessor(t *testing.T) {
	ctx := context.Background()

	t.Run("routes only sequence_start tasks", func(t *testing.T) {
		processor := NewSequenceStartProcessor(nil, logger.NewMockLogger(t))

		assert.True(t, processor.CanProcess(domain.TaskKindSequenceStart))
		assert.False(t, processor.CanProcess(domain.TaskKindSequenceStep))
	})

	t.Run("delegates to the orchestrator", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := newOrchestratorFixture(t, ctrl)
		processor := NewSequenceStartProcessor(f.orchestrator, logger.NewMockLogger(t))

		// A disabled store makes the start a guard no-op, which is enough
		// to prove the payload reached the orchestrator.
		f.storeRepo.EXPECT().GetByID(ctx, "store-1").Return(orchestratorStore(false), nil)

		task, err := domain.NewTask("store-1", domain.TaskKindSequenceStart,
			domain.SequenceStartPayload{CheckoutID: "chk-1", Email: "dana@example.com"}, 0)
		require.NoError(t, err)

		require.NoError(t, processor.Process(ctx, task))
	})

	t.Run("rejects a malformed payload", func(t *testing.T) {
		processor := NewSequenceStartProcessor(nil, logger.NewMockLogger(t))

		task := &domain.Task{StoreID: "store-1", Kind: domain.TaskKindSequenceStart, Payload: domain.TaskPayload(`not json`)}
		assert.Error(t, processor.Process(ctx, task))

		task.Payload = domain.TaskPayload(`{}`)
		assert.Error(t, processor.Process(ctx, task))
	})
}

func TestSequenceStepProcessor(t *testing.T) {
	ctx := context.Background()

	t.Run("routes only sequence_step tasks", func(t *testing.T) {
		processor := NewSequenceStepProcessor(nil, logger.NewMockLogger(t))

		assert.True(t, processor.CanProcess(domain.TaskKindSequenceStep))
		assert.False(t, processor.CanProcess(domain.TaskKindSequenceStart))
	})

	t.Run("delegates the pinned step index", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := newOrchestratorFixture(t, ctrl)
		processor := NewSequenceStepProcessor(f.orchestrator, logger.NewMockLogger(t))

		// The sequence already moved past the pinned index, so the
		// redelivered task no-ops.
		f.sequenceRepo.EXPECT().Get(ctx, "store-1", "seq-1").Return(activeSequence(1), nil)

		task, err := domain.NewTask("store-1", domain.TaskKindSequenceStep,
			domain.SequenceStepPayload{SequenceID: "seq-1", StepIndex: 0}, 0)
		require.NoError(t, err)

		require.NoError(t, processor.Process(ctx, task))
	})

	t.Run("rejects a payload without a sequence id", func(t *testing.T) {
		processor := NewSequenceStepProcessor(nil, logger.NewMockLogger(t))

		task := &domain.Task{StoreID: "store-1", Kind: domain.TaskKindSequenceStep, Payload: domain.TaskPayload(`{"step_index":1}`)}
		assert.Error(t, processor.Process(ctx, task))
	})
}
