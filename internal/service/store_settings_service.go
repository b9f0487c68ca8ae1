package service

import (
	"context"
	"fmt"

	"github.com/cartpulse/cartpulse/internal/domain"
	"github.com/cartpulse/cartpulse/pkg/logger"
)

// StoreSettingsService reads and patches the per-store recovery policy
type StoreSettingsService struct {
	repo   domain.StoreRepository
	logger logger.Logger
}

// NewStoreSettingsService creates a new StoreSettingsService
func NewStoreSettingsService(repo domain.StoreRepository, logger logger.Logger) *StoreSettingsService {
	return &StoreSettingsService{repo: repo, logger: logger}
}

// GetSettings returns the store's policy with defaults applied
func (s *StoreSettingsService) GetSettings(ctx context.Context, storeID string) (*domain.RecoverySettings, error) {
	store, err := s.repo.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	settings := store.RecoverySettings.WithDefaults()
	return &settings, nil
}

// UpdateSettings validates and persists a policy patch
func (s *StoreSettingsService) UpdateSettings(ctx context.Context, req *domain.UpdateRecoverySettingsRequest) (*domain.RecoverySettings, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recovery settings: %w", err)
	}

	settings := req.Settings.WithDefaults()
	if err := s.repo.UpdateRecoverySettings(ctx, req.StoreID, settings); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"store_id": req.StoreID,
		"enabled":  settings.Enabled,
	}).Info("Recovery settings updated")

	return &settings, nil
}
