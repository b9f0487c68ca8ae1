package service

import (
	"context"
	"fmt"

	"github.com/cartpulse/cartpulse/internal/domain"
	"github.com/cartpulse/cartpulse/pkg/logger"
)

// SequenceService serves the dashboard sequence views and the manual stop
// action
type SequenceService struct {
	repo         domain.SequenceRepository
	eventRepo    domain.RecoveryEventRepository
	orchestrator *RecoveryOrchestrator
	logger       logger.Logger
}

// NewSequenceService creates a new SequenceService
func NewSequenceService(
	repo domain.SequenceRepository,
	eventRepo domain.RecoveryEventRepository,
	orchestrator *RecoveryOrchestrator,
	logger logger.Logger,
) *SequenceService {
	return &SequenceService{
		repo:         repo,
		eventRepo:    eventRepo,
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// GetSequence retrieves a single sequence
func (s *SequenceService) GetSequence(ctx context.Context, storeID, sequenceID string) (*domain.Sequence, error) {
	return s.repo.Get(ctx, storeID, sequenceID)
}

// GetSequenceEvents returns the audit log of a sequence, oldest first
func (s *SequenceService) GetSequenceEvents(ctx context.Context, storeID, sequenceID string) ([]*domain.RecoveryEvent, error) {
	if _, err := s.repo.Get(ctx, storeID, sequenceID); err != nil {
		return nil, err
	}
	return s.eventRepo.ListBySequence(ctx, storeID, sequenceID)
}

// ListSequences returns a filtered page of sequences
func (s *SequenceService) ListSequences(ctx context.Context, req *domain.ListSequencesRequest) (*domain.SequenceListResponse, error) {
	filter := req.ToFilter()

	sequences, total, err := s.repo.List(ctx, req.StoreID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list sequences: %w", err)
	}

	return &domain.SequenceListResponse{
		Sequences:  sequences,
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
		HasMore:    filter.Offset+len(sequences) < total,
	}, nil
}

// StopSequence stops a sequence from the dashboard. Stopping a sequence
// that already ended is a no-op.
func (s *SequenceService) StopSequence(ctx context.Context, req *domain.StopSequenceRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.orchestrator.Stop(ctx, req.StoreID, req.SequenceID, domain.StopReasonManual)
}
