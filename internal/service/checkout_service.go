package service

import (
	"context"
	"fmt"

	"github.com/cartpulse/cartpulse/internal/domain"
	"github.com/cartpulse/cartpulse/pkg/logger"
)

// CheckoutService serves the dashboard checkout views
type CheckoutService struct {
	repo   domain.CheckoutRepository
	logger logger.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(repo domain.CheckoutRepository, logger logger.Logger) *CheckoutService {
	return &CheckoutService{repo: repo, logger: logger}
}

// GetCheckout retrieves a single checkout
func (s *CheckoutService) GetCheckout(ctx context.Context, storeID, checkoutID string) (*domain.Checkout, error) {
	return s.repo.GetByID(ctx, storeID, checkoutID)
}

// ListCheckouts returns a filtered page of checkouts
func (s *CheckoutService) ListCheckouts(ctx context.Context, req *domain.ListCheckoutsRequest) (*domain.CheckoutListResponse, error) {
	filter := req.ToFilter()

	checkouts, total, err := s.repo.List(ctx, req.StoreID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkouts: %w", err)
	}

	return &domain.CheckoutListResponse{
		Checkouts:  checkouts,
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
		HasMore:    filter.Offset+len(checkouts) < total,
	}, nil
}
