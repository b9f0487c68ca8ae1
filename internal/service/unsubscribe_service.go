package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cartpulse/cartpulse/internal/domain"
	"github.com/cartpulse/cartpulse/pkg/logger"
)

// UnsubscribeTokens signs and verifies the tokens embedded in unsubscribe
// links. Tokens never expire: a recovery email may sit in an inbox for
// weeks and its unsubscribe link must keep working.
type UnsubscribeTokens struct {
	secretKey string
}

// NewUnsubscribeTokens creates a new UnsubscribeTokens
func NewUnsubscribeTokens(secretKey string) *UnsubscribeTokens {
	return &UnsubscribeTokens{secretKey: secretKey}
}

// Build signs an unsubscribe token for the (store, email) pair
func (t *UnsubscribeTokens) Build(storeID, email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"store_id": storeID,
		"email":    email,
		"iat":      time.Now().UTC().Unix(),
	})

	signed, err := token.SignedString([]byte(t.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign unsubscribe token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and returns the embedded pair
func (t *UnsubscribeTokens) Verify(tokenString string) (storeID, email string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(t.secretKey), nil
	})
	if err != nil {
		return "", "", fmt.Errorf("invalid unsubscribe token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("invalid unsubscribe token claims")
	}

	storeID, _ = claims["store_id"].(string)
	email, _ = claims["email"].(string)
	if storeID == "" || email == "" {
		return "", "", fmt.Errorf("unsubscribe token is missing store or email")
	}

	return storeID, email, nil
}

// sequenceStopper is the slice of the orchestrator the unsubscribe flow
// needs.
type sequenceStopper interface {
	StopForEmail(ctx context.Context, storeID, email, reason string) (int, error)
}

// UnsubscribeService handles the public one-click unsubscribe endpoint
type UnsubscribeService struct {
	repo    domain.UnsubscribeRepository
	tokens  *UnsubscribeTokens
	stopper sequenceStopper
	logger  logger.Logger
}

// NewUnsubscribeService creates a new UnsubscribeService
func NewUnsubscribeService(
	repo domain.UnsubscribeRepository,
	tokens *UnsubscribeTokens,
	stopper sequenceStopper,
	logger logger.Logger,
) *UnsubscribeService {
	return &UnsubscribeService{
		repo:    repo,
		tokens:  tokens,
		stopper: stopper,
		logger:  logger,
	}
}

// Token signs an unsubscribe token for the (store, email) pair
func (s *UnsubscribeService) Token(storeID, email string) (string, error) {
	return s.tokens.Build(storeID, email)
}

// Unsubscribe suppresses the email for the store and stops any active
// sequences addressed to it. Repeated clicks on the same link are no-ops.
func (s *UnsubscribeService) Unsubscribe(ctx context.Context, tokenString string) error {
	storeID, email, err := s.tokens.Verify(tokenString)
	if err != nil {
		return err
	}

	if err := s.repo.Create(ctx, storeID, email); err != nil {
		return fmt.Errorf("failed to record unsubscribe: %w", err)
	}

	stopped, err := s.stopper.StopForEmail(ctx, storeID, email, domain.StopReasonUnsubscribed)
	if err != nil {
		// The suppression is already durable; the detector and executor
		// both re-check it, so a failed stop only delays the effect.
		s.logger.WithFields(map[string]interface{}{
			"store_id": storeID,
			"error":    err.Error(),
		}).Error("Failed to stop sequences after unsubscribe")
		return nil
	}

	s.logger.WithFields(map[string]interface{}{
		"store_id":          storeID,
		"stopped_sequences": stopped,
	}).Info("Email unsubscribed from recovery campaigns")

	return nil
}
