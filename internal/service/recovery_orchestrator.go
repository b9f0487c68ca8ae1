package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cartpulse/cartpulse/internal/domain"
	"github.com/cartpulse/cartpulse/pkg/logger"
	"github.com/cartpulse/cartpulse/pkg/mailer"
)

// minStepDelay is the floor applied to every scheduled step so a sequence
// created against an old abandonment timestamp never fires a burst of
// overdue emails at once.
const minStepDelay = time.Minute

// RecoveryOrchestrator owns the recovery sequence state machine: it opens
// campaigns for abandoned checkouts, executes each step when its task comes
// due and stops sequences the moment a guard fires.
type RecoveryOrchestrator struct {
	storeRepo       domain.StoreRepository
	checkoutRepo    domain.CheckoutRepository
	sequenceRepo    domain.SequenceRepository
	eventRepo       domain.RecoveryEventRepository
	unsubscribeRepo domain.UnsubscribeRepository
	orderHistory    domain.OrderHistoryLookup
	taskService     *TaskService
	composer        *MessageComposer
	mailer          mailer.Mailer
	links           *RecoveryLinkBuilder
	tokens          *UnsubscribeTokens
	logger          logger.Logger
}

// NewRecoveryOrchestrator creates a new RecoveryOrchestrator
func NewRecoveryOrchestrator(
	storeRepo domain.StoreRepository,
	checkoutRepo domain.CheckoutRepository,
	sequenceRepo domain.SequenceRepository,
	eventRepo domain.RecoveryEventRepository,
	unsubscribeRepo domain.UnsubscribeRepository,
	orderHistory domain.OrderHistoryLookup,
	taskService *TaskService,
	composer *MessageComposer,
	mailer mailer.Mailer,
	links *RecoveryLinkBuilder,
	tokens *UnsubscribeTokens,
	logger logger.Logger,
) *RecoveryOrchestrator {
	return &RecoveryOrchestrator{
		storeRepo:       storeRepo,
		checkoutRepo:    checkoutRepo,
		sequenceRepo:    sequenceRepo,
		eventRepo:       eventRepo,
		unsubscribeRepo: unsubscribeRepo,
		orderHistory:    orderHistory,
		taskService:     taskService,
		composer:        composer,
		mailer:          mailer,
		links:           links,
		tokens:          tokens,
		logger:          logger,
	}
}

// StartSequence opens a recovery campaign for an abandoned checkout. Every
// guard failure is a silent no-op so a stale or duplicate start task never
// errors the queue.
func (o *RecoveryOrchestrator) StartSequence(ctx context.Context, storeID, checkoutID, email string) error {
	store, err := o.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, domain.ErrStoreNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load store: %w", err)
	}
	settings := store.RecoverySettings.WithDefaults()
	if !settings.Enabled {
		return nil
	}

	checkout, err := o.checkoutRepo.GetByID(ctx, storeID, checkoutID)
	if err != nil {
		if errors.Is(err, domain.ErrCheckoutNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load checkout: %w", err)
	}
	// The customer may have come back or bought between detection and now
	if checkout.Status != domain.CheckoutStatusAbandoned {
		return nil
	}
	if email == "" {
		email = checkout.Email
	}
	if email == "" {
		return nil
	}

	unsubscribed, err := o.unsubscribeRepo.Exists(ctx, storeID, email)
	if err != nil {
		return fmt.Errorf("failed to check unsubscribe list: %w", err)
	}
	if unsubscribed {
		return nil
	}

	sequenceType := o.classify(ctx, storeID, email)

	now := time.Now().UTC()
	firstDelay := o.firstStepDelay(settings, checkout, now)
	nextStepAt := now.Add(firstDelay)

	sequence := &domain.Sequence{
		ID:               uuid.New().String(),
		StoreID:          storeID,
		CheckoutID:       checkoutID,
		Email:            email,
		SequenceType:     sequenceType,
		Status:           domain.SequenceStatusActive,
		CurrentStepIndex: 0,
		NextStepAt:       &nextStepAt,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := o.sequenceRepo.Create(ctx, sequence); err != nil {
		if errors.Is(err, domain.ErrSequenceAlreadyActive) {
			// Another worker won the race; their sequence owns the checkout
			return nil
		}
		return fmt.Errorf("failed to create sequence: %w", err)
	}

	o.recordEvent(ctx, &domain.RecoveryEvent{
		StoreID:    storeID,
		SequenceID: sequence.ID,
		EventType:  domain.EventSequenceStarted,
		Metadata: map[string]interface{}{
			"checkout_id":   checkoutID,
			"sequence_type": string(sequenceType),
		},
	})

	if err := o.enqueueStep(ctx, storeID, sequence.ID, 0, firstDelay); err != nil {
		return fmt.Errorf("failed to enqueue first step: %w", err)
	}

	o.logger.WithFields(map[string]interface{}{
		"store_id":      storeID,
		"sequence_id":   sequence.ID,
		"checkout_id":   checkoutID,
		"sequence_type": string(sequenceType),
	}).Info("Recovery sequence started")

	return nil
}

// ExecuteStep runs one due step of a sequence: re-check every guard, send
// the email, record the step and schedule the successor. Returning an error
// hands the step back to the queue for a retry.
func (o *RecoveryOrchestrator) ExecuteStep(ctx context.Context, storeID, sequenceID string, stepIndex int) error {
	sequence, err := o.sequenceRepo.Get(ctx, storeID, sequenceID)
	if err != nil {
		if errors.Is(err, domain.ErrSequenceNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load sequence: %w", err)
	}
	if sequence.Status != domain.SequenceStatusActive {
		return nil
	}
	// A redelivered task for an already-sent step must not fire the next
	// step early
	if sequence.CurrentStepIndex != stepIndex {
		return nil
	}

	store, err := o.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, domain.ErrStoreNotFound) {
			return o.stopSequence(ctx, storeID, sequenceID, domain.StopReasonStoreDeleted)
		}
		return fmt.Errorf("failed to load store: %w", err)
	}
	settings := store.RecoverySettings.WithDefaults()
	if !settings.Enabled {
		return o.stopSequence(ctx, storeID, sequenceID, domain.StopReasonManual)
	}

	checkout, err := o.checkoutRepo.GetByID(ctx, storeID, sequence.CheckoutID)
	if err != nil {
		if errors.Is(err, domain.ErrCheckoutNotFound) {
			return o.stopSequence(ctx, storeID, sequenceID, domain.StopReasonCheckoutDeleted)
		}
		return fmt.Errorf("failed to load checkout: %w", err)
	}
	if checkout.Status.IsTerminalComplete() {
		return o.stopSequence(ctx, storeID, sequenceID, domain.StopReasonOrderCompleted)
	}

	unsubscribed, err := o.unsubscribeRepo.Exists(ctx, storeID, sequence.Email)
	if err != nil {
		return fmt.Errorf("failed to check unsubscribe list: %w", err)
	}
	if unsubscribed {
		return o.stopSequence(ctx, storeID, sequenceID, domain.StopReasonUnsubscribed)
	}

	timings := settings.SequenceTimingMinutes
	isLastStep := stepIndex >= len(timings)-1

	discount := 0
	if settings.DiscountEnabled && isLastStep {
		discount = settings.DiscountPercent
	}

	msg := o.composer.Compose(ctx, domain.ComposeInput{
		StoreName:       store.Name,
		CustomerName:    checkout.CustomerName,
		CartItems:       checkout.LineItems,
		TotalPrice:      checkout.TotalPrice,
		Currency:        checkout.Currency,
		StepIndex:       stepIndex,
		SequenceType:    sequence.SequenceType,
		DiscountPercent: discount,
	})

	unsubToken, err := o.tokens.Build(storeID, sequence.Email)
	if err != nil {
		return fmt.Errorf("failed to build unsubscribe token: %w", err)
	}
	recoveryURL := o.links.RecoveryURL(checkout.CheckoutURL, sequenceID, stepIndex)
	unsubscribeURL := o.links.UnsubscribeURL(unsubToken)

	// The row lock makes the send-then-record pair exclusive per sequence,
	// so a concurrent duplicate cannot slip a second email between the
	// status check and the step record.
	sent := false
	err = o.sequenceRepo.WithTransaction(ctx, func(tx *sql.Tx) error {
		locked, err := o.sequenceRepo.GetTx(ctx, tx, storeID, sequenceID)
		if err != nil {
			return err
		}
		if locked.Status != domain.SequenceStatusActive || locked.CurrentStepIndex != stepIndex {
			return nil
		}

		messageID, err := o.mailer.SendRecoveryEmail(mailer.RecoveryEmail{
			To:       sequence.Email,
			ToName:   checkout.CustomerName,
			Subject:  msg.Subject,
			HTMLBody: renderRecoveryEmailHTML(msg, checkout, recoveryURL, unsubscribeURL),
			TextBody: renderRecoveryEmailText(msg, recoveryURL, unsubscribeURL),
		})
		if err != nil {
			return fmt.Errorf("failed to send recovery email: %w", err)
		}

		now := time.Now().UTC()
		step := domain.CompletedStep{
			StepIndex: stepIndex,
			SentAt:    now,
			Subject:   msg.Subject,
			MessageID: messageID,
		}

		var nextStepAt *time.Time
		if !isLastStep {
			at := now.Add(o.nextStepDelay(timings, stepIndex))
			nextStepAt = &at
		}

		if err := o.sequenceRepo.RecordStepTx(ctx, tx, storeID, sequenceID, step, nextStepAt, isLastStep); err != nil {
			return fmt.Errorf("failed to record step: %w", err)
		}
		sent = true

		if err := o.eventRepo.InsertTx(ctx, tx, &domain.RecoveryEvent{
			ID:         uuid.New().String(),
			StoreID:    storeID,
			SequenceID: sequenceID,
			EventType:  domain.EventEmailSent,
			StepIndex:  &step.StepIndex,
			Channel:    "email",
			Metadata: map[string]interface{}{
				"subject":    msg.Subject,
				"message_id": messageID,
				"fallback":   msg.Fallback,
			},
		}); err != nil {
			return fmt.Errorf("failed to record email event: %w", err)
		}

		if isLastStep {
			return o.eventRepo.InsertTx(ctx, tx, &domain.RecoveryEvent{
				ID:         uuid.New().String(),
				StoreID:    storeID,
				SequenceID: sequenceID,
				EventType:  domain.EventSequenceCompleted,
			})
		}

		// The successor rides the same commit as the step record: either the
		// step is recorded and the next one scheduled, or neither happened
		// and the queue retries this one.
		successor, err := o.stepTask(storeID, sequenceID, stepIndex+1, o.nextStepDelay(timings, stepIndex))
		if err != nil {
			return err
		}
		if err := o.taskService.EnqueueTx(ctx, tx, successor); err != nil {
			return fmt.Errorf("failed to schedule next step: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !sent {
		// Lost the race inside the lock; the winner schedules the successor
		return nil
	}

	o.logger.WithFields(map[string]interface{}{
		"store_id":    storeID,
		"sequence_id": sequenceID,
		"step_index":  stepIndex,
		"fallback":    msg.Fallback,
		"completed":   isLastStep,
	}).Info("Recovery step executed")

	return nil
}

// Stop ends an active sequence. Stopping a sequence that is not active is
// a no-op.
func (o *RecoveryOrchestrator) Stop(ctx context.Context, storeID, sequenceID, reason string) error {
	return o.stopSequence(ctx, storeID, sequenceID, reason)
}

// StopForEmail stops every active sequence addressed to the email within
// the store and returns how many were stopped.
func (o *RecoveryOrchestrator) StopForEmail(ctx context.Context, storeID, email, reason string) (int, error) {
	sequences, err := o.sequenceRepo.ListActiveByEmail(ctx, storeID, email)
	if err != nil {
		return 0, fmt.Errorf("failed to list active sequences: %w", err)
	}

	stopped := 0
	for _, sequence := range sequences {
		if err := o.stopSequence(ctx, storeID, sequence.ID, reason); err != nil {
			return stopped, err
		}
		stopped++
	}
	return stopped, nil
}

// HandleOrderCompleted closes the checkout behind a completed order and
// stops its sequence. A checkout that received at least one recovery email
// counts as recovered; any other completion is organic.
func (o *RecoveryOrchestrator) HandleOrderCompleted(ctx context.Context, event *domain.OrderCompletedEvent) (domain.OrderCompletedResult, error) {
	if err := event.Validate(); err != nil {
		return domain.OrderCompletedIgnored, err
	}

	checkout, err := o.matchCheckout(ctx, event)
	if err != nil {
		return domain.OrderCompletedIgnored, err
	}
	if checkout == nil {
		return domain.OrderCompletedIgnored, nil
	}
	if checkout.Status.IsTerminalComplete() {
		// Duplicate order webhook
		return domain.OrderCompletedMatched, nil
	}

	recovered := false
	if checkout.Status == domain.CheckoutStatusAbandoned {
		sequence, err := o.sequenceRepo.GetLatestByCheckout(ctx, event.StoreID, checkout.ID)
		if err != nil && !errors.Is(err, domain.ErrSequenceNotFound) {
			return domain.OrderCompletedIgnored, fmt.Errorf("failed to load sequence: %w", err)
		}
		recovered = sequence != nil && len(sequence.StepsCompleted) > 0
	}

	if err := o.checkoutRepo.MarkCompleted(ctx, event.StoreID, checkout.ID, event.OrderID, recovered); err != nil {
		return domain.OrderCompletedIgnored, fmt.Errorf("failed to complete checkout: %w", err)
	}

	active, err := o.sequenceRepo.GetActiveByCheckout(ctx, event.StoreID, checkout.ID)
	if err != nil && !errors.Is(err, domain.ErrSequenceNotFound) {
		return domain.OrderCompletedMatched, fmt.Errorf("failed to load active sequence: %w", err)
	}
	if active != nil {
		if err := o.stopSequence(ctx, event.StoreID, active.ID, domain.StopReasonOrderCompleted); err != nil {
			return domain.OrderCompletedMatched, err
		}
	}

	o.logger.WithFields(map[string]interface{}{
		"store_id":    event.StoreID,
		"checkout_id": checkout.ID,
		"order_id":    event.OrderID,
		"recovered":   recovered,
	}).Info("Checkout closed by completed order")

	return domain.OrderCompletedMatched, nil
}

// matchCheckout finds the checkout behind an order, by checkout token first
// and by the customer's most recent open checkout as a fallback.
func (o *RecoveryOrchestrator) matchCheckout(ctx context.Context, event *domain.OrderCompletedEvent) (*domain.Checkout, error) {
	if event.CheckoutToken != "" {
		checkout, err := o.checkoutRepo.GetByPlatformToken(ctx, event.StoreID, event.CheckoutToken)
		if err == nil {
			return checkout, nil
		}
		if !errors.Is(err, domain.ErrCheckoutNotFound) {
			return nil, fmt.Errorf("failed to match checkout by token: %w", err)
		}
	}

	if event.Email != "" {
		checkout, err := o.checkoutRepo.GetLatestByEmail(ctx, event.StoreID, event.Email)
		if err == nil {
			return checkout, nil
		}
		if !errors.Is(err, domain.ErrCheckoutNotFound) {
			return nil, fmt.Errorf("failed to match checkout by email: %w", err)
		}
	}

	return nil, nil
}

func (o *RecoveryOrchestrator) stopSequence(ctx context.Context, storeID, sequenceID, reason string) error {
	stopped, err := o.sequenceRepo.MarkStopped(ctx, storeID, sequenceID, reason)
	if err != nil {
		return fmt.Errorf("failed to stop sequence: %w", err)
	}
	if !stopped {
		return nil
	}

	o.recordEvent(ctx, &domain.RecoveryEvent{
		StoreID:    storeID,
		SequenceID: sequenceID,
		EventType:  domain.EventSequenceStopped,
		Metadata:   map[string]interface{}{"reason": reason},
	})

	o.logger.WithFields(map[string]interface{}{
		"store_id":    storeID,
		"sequence_id": sequenceID,
		"reason":      reason,
	}).Info("Recovery sequence stopped")

	return nil
}

// classify looks up the customer's order history; lookup failures degrade
// to the first_time treatment rather than blocking the campaign.
func (o *RecoveryOrchestrator) classify(ctx context.Context, storeID, email string) domain.SequenceType {
	if o.orderHistory == nil {
		return domain.SequenceTypeFirstTime
	}

	history, err := o.orderHistory.LookupByEmail(ctx, storeID, email)
	if err != nil {
		o.logger.WithFields(map[string]interface{}{
			"store_id": storeID,
			"error":    err.Error(),
		}).Warn("Order history lookup failed, defaulting to first_time")
		return domain.SequenceTypeFirstTime
	}

	return domain.ClassifySequenceType(history)
}

// firstStepDelay anchors step zero on the abandonment timestamp so queue
// backlog does not shift the whole campaign later.
func (o *RecoveryOrchestrator) firstStepDelay(settings domain.RecoverySettings, checkout *domain.Checkout, now time.Time) time.Duration {
	anchor := now
	if checkout.AbandonmentDetectedAt != nil {
		anchor = *checkout.AbandonmentDetectedAt
	}

	due := anchor.Add(time.Duration(settings.SequenceTimingMinutes[0]) * time.Minute)
	delay := due.Sub(now)
	if delay < minStepDelay {
		delay = minStepDelay
	}
	return delay
}

// nextStepDelay is the gap between a step and its successor, measured from
// the moment the step actually sent. A delayed step shifts the rest of the
// campaign instead of compressing the gaps.
func (o *RecoveryOrchestrator) nextStepDelay(timings []int, stepIndex int) time.Duration {
	gap := time.Duration(timings[stepIndex+1]-timings[stepIndex]) * time.Minute
	if gap < minStepDelay {
		gap = minStepDelay
	}
	return gap
}

func (o *RecoveryOrchestrator) stepTask(storeID, sequenceID string, stepIndex int, delay time.Duration) (*domain.Task, error) {
	return domain.NewTask(storeID, domain.TaskKindSequenceStep, domain.SequenceStepPayload{
		SequenceID: sequenceID,
		StepIndex:  stepIndex,
	}, delay)
}

func (o *RecoveryOrchestrator) enqueueStep(ctx context.Context, storeID, sequenceID string, stepIndex int, delay time.Duration) error {
	task, err := o.stepTask(storeID, sequenceID, stepIndex, delay)
	if err != nil {
		return err
	}
	return o.taskService.Enqueue(ctx, task)
}

// recordEvent appends to the audit log; the log is advisory and never
// blocks the state machine.
func (o *RecoveryOrchestrator) recordEvent(ctx context.Context, event *domain.RecoveryEvent) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if err := o.eventRepo.Insert(ctx, event); err != nil {
		o.logger.WithFields(map[string]interface{}{
			"store_id":    event.StoreID,
			"sequence_id": event.SequenceID,
			"event_type":  event.EventType,
			"error":       err.Error(),
		}).Error("Failed to record recovery event")
	}
}
