package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/asaskevich/govalidator"
	"golang.org/x/sync/errgroup"

	"github.com/cartpulse/cartpulse/internal/domain"
	"github.com/cartpulse/cartpulse/pkg/logger"
)

// detectorStoreConcurrency bounds how many stores are scanned in parallel
// in one sweep.
const detectorStoreConcurrency = 4

// AbandonmentDetector periodically sweeps active checkouts past their
// store's idle threshold, flips them to abandoned and hands eligible ones
// to the orchestrator through the task queue.
type AbandonmentDetector struct {
	storeRepo       domain.StoreRepository
	checkoutRepo    domain.CheckoutRepository
	unsubscribeRepo domain.UnsubscribeRepository
	taskService     *TaskService
	pageSize        int
	logger          logger.Logger
}

// NewAbandonmentDetector creates a new AbandonmentDetector
func NewAbandonmentDetector(
	storeRepo domain.StoreRepository,
	checkoutRepo domain.CheckoutRepository,
	unsubscribeRepo domain.UnsubscribeRepository,
	taskService *TaskService,
	pageSize int,
	logger logger.Logger,
) *AbandonmentDetector {
	if pageSize <= 0 {
		pageSize = 200
	}
	return &AbandonmentDetector{
		storeRepo:       storeRepo,
		checkoutRepo:    checkoutRepo,
		unsubscribeRepo: unsubscribeRepo,
		taskService:     taskService,
		pageSize:        pageSize,
		logger:          logger,
	}
}

// Scan runs one detection sweep across every recovery-enabled store and
// returns how many checkouts were newly marked abandoned. Store failures
// are isolated, never cancelling the other stores, and come back joined
// alongside the count so a partial sweep still reports its progress.
func (d *AbandonmentDetector) Scan(ctx context.Context) (int, error) {
	stores, err := d.storeRepo.ListRecoveryEnabled(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list recovery-enabled stores: %w", err)
	}

	var detected int64
	var mu sync.Mutex
	var storeErrs []error
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(detectorStoreConcurrency)

	for _, store := range stores {
		store := store
		g.Go(func() error {
			n, err := d.ScanStore(ctx, store)
			atomic.AddInt64(&detected, int64(n))
			if err != nil {
				mu.Lock()
				storeErrs = append(storeErrs, fmt.Errorf("store %s: %w", store.ID, err))
				mu.Unlock()
			}
			return nil
		})
	}

	// Goroutines collect their own errors so one broken store never cancels
	// the group
	_ = g.Wait()
	return int(atomic.LoadInt64(&detected)), errors.Join(storeErrs...)
}

// ScanStore sweeps one store's active checkouts and returns how many were
// marked abandoned
func (d *AbandonmentDetector) ScanStore(ctx context.Context, store *domain.Store) (int, error) {
	settings := store.RecoverySettings.WithDefaults()
	cutoff := time.Now().UTC().Add(-time.Duration(settings.AbandonmentThresholdMinutes) * time.Minute)
	exclusions := d.compileExclusions(store.ID, settings.ExcludeEmailPatterns)

	detected := 0
	for {
		candidates, err := d.checkoutRepo.ListAbandonmentCandidates(ctx, store.ID, cutoff, settings.MinCartValue, d.pageSize)
		if err != nil {
			return detected, fmt.Errorf("failed to list abandonment candidates: %w", err)
		}
		if len(candidates) == 0 {
			return detected, nil
		}

		marked := 0
		for _, checkout := range candidates {
			if err := ctx.Err(); err != nil {
				return detected, err
			}
			if d.processCandidate(ctx, store.ID, checkout, exclusions) {
				marked++
			}
		}
		detected += marked

		// A short page means the backlog is drained; a page with no
		// progress means every row errored and retrying now would spin.
		if len(candidates) < d.pageSize || marked == 0 {
			return detected, nil
		}
	}
}

// processCandidate marks one checkout abandoned and enqueues the campaign
// start when the customer is reachable. The exclusion patterns gate the
// transition itself: an excluded checkout stays active and is never counted.
// Enqueue failures are logged, not propagated: the detector is lossy for a
// single checkout but must keep the sweep moving. Returns whether the
// checkout was newly marked.
func (d *AbandonmentDetector) processCandidate(ctx context.Context, storeID string, checkout *domain.Checkout, exclusions []*regexp.Regexp) bool {
	if !govalidator.IsEmail(checkout.Email) {
		return false
	}
	if matchesAny(exclusions, checkout.Email) {
		d.logger.WithFields(map[string]interface{}{
			"store_id":    storeID,
			"checkout_id": checkout.ID,
		}).Debug("Skipping excluded email")
		return false
	}

	marked, err := d.checkoutRepo.MarkAbandoned(ctx, storeID, checkout.ID, time.Now().UTC())
	if err != nil {
		d.logger.WithFields(map[string]interface{}{
			"store_id":    storeID,
			"checkout_id": checkout.ID,
			"error":       err.Error(),
		}).Error("Failed to mark checkout abandoned")
		return false
	}
	if !marked {
		// Lost the race against a concurrent completion or another sweep
		return false
	}

	unsubscribed, err := d.unsubscribeRepo.Exists(ctx, storeID, checkout.Email)
	if err != nil {
		d.logger.WithFields(map[string]interface{}{
			"store_id":    storeID,
			"checkout_id": checkout.ID,
			"error":       err.Error(),
		}).Error("Failed to check unsubscribe list")
		return true
	}
	if unsubscribed {
		return true
	}

	task, err := domain.NewTask(storeID, domain.TaskKindSequenceStart, domain.SequenceStartPayload{
		CheckoutID: checkout.ID,
		Email:      checkout.Email,
	}, 0)
	if err != nil {
		d.logger.WithField("error", err.Error()).Error("Failed to build sequence start task")
		return true
	}

	if err := d.taskService.Enqueue(ctx, task); err != nil {
		d.logger.WithFields(map[string]interface{}{
			"store_id":    storeID,
			"checkout_id": checkout.ID,
			"error":       err.Error(),
		}).Error("Failed to enqueue sequence start")
	}
	return true
}

// compileExclusions compiles the store's exclusion patterns, skipping any
// that fail to compile so one bad pattern never disables the rest.
func (d *AbandonmentDetector) compileExclusions(storeID string, patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			d.logger.WithFields(map[string]interface{}{
				"store_id": storeID,
				"pattern":  pattern,
			}).Warn("Skipping malformed email exclusion pattern")
			continue
		}
		compiled = append(compiled, re)
	}
	return compiled
}

func matchesAny(patterns []*regexp.Regexp, email string) bool {
	for _, re := range patterns {
		if re.MatchString(email) {
			return true
		}
	}
	return false
}
