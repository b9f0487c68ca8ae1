package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartpulse/cartpulse/internal/domain"
	"github.com/cartpulse/cartpulse/internal/domain/mocks"
	"github.com/cartpulse/cartpulse/pkg/logger"
)

type stubStopper struct {
	stopped int
	err     error
	calls   []string
}

func (s *stubStopper) StopForEmail(_ context.Context, storeID, email, reason string) (int, error) {
	s.calls = append(s.calls, storeID+"/"+email+"/"+reason)
	return s.stopped, s.err
}

func TestUnsubscribeTokens_RoundTrip(t *testing.T) {
	tokens := NewUnsubscribeTokens("test-secret-key")

	signed, err := tokens.Build("store-1", "dana@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	storeID, email, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "store-1", storeID)
	assert.Equal(t, "dana@example.com", email)
}

func TestUnsubscribeTokens_Verify_RejectsWrongKey(t *testing.T) {
	signed, err := NewUnsubscribeTokens("key-one").Build("store-1", "dana@example.com")
	require.NoError(t, err)

	_, _, err = NewUnsubscribeTokens("key-two").Verify(signed)
	assert.Error(t, err)
}

func TestUnsubscribeTokens_Verify_RejectsGarbage(t *testing.T) {
	_, _, err := NewUnsubscribeTokens("test-secret-key").Verify("not-a-token")
	assert.Error(t, err)
}

func TestUnsubscribeService_Unsubscribe(t *testing.T) {
	ctx := context.Background()
	tokens := NewUnsubscribeTokens("test-secret-key")

	t.Run("records suppression and stops active sequences", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := mocks.NewMockUnsubscribeRepository(ctrl)
		stopper := &stubStopper{stopped: 1}
		svc := NewUnsubscribeService(repo, tokens, stopper, logger.NewMockLogger(t))

		signed, err := tokens.Build("store-1", "dana@example.com")
		require.NoError(t, err)

		repo.EXPECT().Create(ctx, "store-1", "dana@example.com").Return(nil)

		require.NoError(t, svc.Unsubscribe(ctx, signed))
		require.Len(t, stopper.calls, 1)
		assert.Equal(t, "store-1/dana@example.com/"+domain.StopReasonUnsubscribed, stopper.calls[0])
	})

	t.Run("invalid token never touches the repository", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := mocks.NewMockUnsubscribeRepository(ctrl)
		svc := NewUnsubscribeService(repo, tokens, &stubStopper{}, logger.NewMockLogger(t))

		assert.Error(t, svc.Unsubscribe(ctx, "garbage"))
	})

	t.Run("stop failure is tolerated once the suppression is durable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := mocks.NewMockUnsubscribeRepository(ctrl)
		stopper := &stubStopper{err: errors.New("db down")}
		svc := NewUnsubscribeService(repo, tokens, stopper, logger.NewMockLogger(t))

		signed, err := tokens.Build("store-1", "dana@example.com")
		require.NoError(t, err)

		repo.EXPECT().Create(ctx, "store-1", "dana@example.com").Return(nil)

		require.NoError(t, svc.Unsubscribe(ctx, signed))
	})
}
