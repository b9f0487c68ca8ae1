package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cartpulse/cartpulse/internal/domain"
	"github.com/cartpulse/cartpulse/pkg/logger"
)

// SequenceStartProcessor executes sequence_start tasks enqueued by the
// abandonment detector
type SequenceStartProcessor struct {
	orchestrator *RecoveryOrchestrator
	logger       logger.Logger
}

// NewSequenceStartProcessor creates a new SequenceStartProcessor
func NewSequenceStartProcessor(orchestrator *RecoveryOrchestrator, logger logger.Logger) *SequenceStartProcessor {
	return &SequenceStartProcessor{orchestrator: orchestrator, logger: logger}
}

// CanProcess implements domain.TaskProcessor
func (p *SequenceStartProcessor) CanProcess(kind domain.TaskKind) bool {
	return kind == domain.TaskKindSequenceStart
}

// Process implements domain.TaskProcessor
func (p *SequenceStartProcessor) Process(ctx context.Context, task *domain.Task) error {
	var payload domain.SequenceStartPayload
	if err := json.Unmarshal(task.Payload, &payload); err != nil {
		return fmt.Errorf("invalid sequence start payload: %w", err)
	}
	if payload.CheckoutID == "" {
		return fmt.Errorf("sequence start payload is missing checkout_id")
	}

	return p.orchestrator.StartSequence(ctx, task.StoreID, payload.CheckoutID, payload.Email)
}

// SequenceStepProcessor executes sequence_step tasks scheduled by the
// orchestrator
type SequenceStepProcessor struct {
	orchestrator *RecoveryOrchestrator
	logger       logger.Logger
}

// NewSequenceStepProcessor creates a new SequenceStepProcessor
func NewSequenceStepProcessor(orchestrator *RecoveryOrchestrator, logger logger.Logger) *SequenceStepProcessor {
	return &SequenceStepProcessor{orchestrator: orchestrator, logger: logger}
}

// CanProcess implements domain.TaskProcessor
func (p *SequenceStepProcessor) CanProcess(kind domain.TaskKind) bool {
	return kind == domain.TaskKindSequenceStep
}

// Process implements domain.TaskProcessor
func (p *SequenceStepProcessor) Process(ctx context.Context, task *domain.Task) error {
	var payload domain.SequenceStepPayload
	if err := json.Unmarshal(task.Payload, &payload); err != nil {
		return fmt.Errorf("invalid sequence step payload: %w", err)
	}
	if payload.SequenceID == "" {
		return fmt.Errorf("sequence step payload is missing sequence_id")
	}

	return p.orchestrator.ExecuteStep(ctx, task.StoreID, payload.SequenceID, payload.StepIndex)
}
