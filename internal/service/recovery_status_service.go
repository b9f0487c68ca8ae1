package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cartpulse/cartpulse/internal/domain"
	"github.com/cartpulse/cartpulse/pkg/crypto"
	"github.com/cartpulse/cartpulse/pkg/logger"
)

// RecoveryStatusService answers the public "is a recovery underway for this
// customer" lookup used by the storefront chat layer.
type RecoveryStatusService struct {
	sequenceRepo domain.SequenceRepository
	checkoutRepo domain.CheckoutRepository
	secretKey    string
	logger       logger.Logger
}

// NewRecoveryStatusService creates a new RecoveryStatusService
func NewRecoveryStatusService(
	sequenceRepo domain.SequenceRepository,
	checkoutRepo domain.CheckoutRepository,
	secretKey string,
	logger logger.Logger,
) *RecoveryStatusService {
	return &RecoveryStatusService{
		sequenceRepo: sequenceRepo,
		checkoutRepo: checkoutRepo,
		secretKey:    secretKey,
		logger:       logger,
	}
}

// GetStatus verifies the email proof and returns the latest active
// sequence with its cart snapshot
func (s *RecoveryStatusService) GetStatus(ctx context.Context, req *domain.RecoveryStatusRequest) (*domain.RecoveryStatusResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !crypto.VerifyEmailHMAC(req.Email, req.EmailHMAC, s.secretKey) {
		return nil, fmt.Errorf("invalid email verification")
	}

	sequence, err := s.sequenceRepo.GetLatestActiveByEmail(ctx, req.StoreID, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrSequenceNotFound) {
			return &domain.RecoveryStatusResponse{HasActiveRecovery: false}, nil
		}
		return nil, fmt.Errorf("failed to load sequence: %w", err)
	}

	checkout, err := s.checkoutRepo.GetByID(ctx, req.StoreID, sequence.CheckoutID)
	if err != nil && !errors.Is(err, domain.ErrCheckoutNotFound) {
		return nil, fmt.Errorf("failed to load checkout: %w", err)
	}

	return &domain.RecoveryStatusResponse{
		HasActiveRecovery: true,
		Sequence:          sequence,
		Checkout:          checkout,
	}, nil
}
