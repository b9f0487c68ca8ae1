package service

import (
	"context"
	"sync"
	"time"

	"github.com/cartpulse/cartpulse/pkg/logger"
)

// RecoveryScheduler drives the two periodic loops of the engine: the
// abandonment detector sweep and the due-task executor.
type RecoveryScheduler struct {
	detector         *AbandonmentDetector
	taskService      *TaskService
	logger           logger.Logger
	detectorInterval time.Duration
	taskPollInterval time.Duration
	taskBatchSize    int
	stopChan         chan struct{}
	stoppedChan      chan struct{}
	mu               sync.Mutex
	running          bool
}

// NewRecoveryScheduler creates a new recovery scheduler
func NewRecoveryScheduler(
	detector *AbandonmentDetector,
	taskService *TaskService,
	log logger.Logger,
	detectorInterval time.Duration,
	taskPollInterval time.Duration,
	taskBatchSize int,
) *RecoveryScheduler {
	return &RecoveryScheduler{
		detector:         detector,
		taskService:      taskService,
		logger:           log,
		detectorInterval: detectorInterval,
		taskPollInterval: taskPollInterval,
		taskBatchSize:    taskBatchSize,
	}
}

// Start begins both loops. A stopped scheduler can be started again.
func (s *RecoveryScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("Recovery scheduler already running")
		return
	}
	s.running = true
	// Fresh channels per run so a restart never touches a closed channel
	s.stopChan = make(chan struct{})
	s.stoppedChan = make(chan struct{})
	stopChan, stoppedChan := s.stopChan, s.stoppedChan
	s.mu.Unlock()

	s.logger.WithFields(map[string]interface{}{
		"detector_interval":  s.detectorInterval.String(),
		"task_poll_interval": s.taskPollInterval.String(),
		"task_batch_size":    s.taskBatchSize,
	}).Info("Starting recovery scheduler")

	go s.run(ctx, stopChan, stoppedChan)
}

// Stop gracefully stops the scheduler
func (s *RecoveryScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stopChan, stoppedChan := s.stopChan, s.stoppedChan
	s.mu.Unlock()

	s.logger.Info("Stopping recovery scheduler...")
	close(stopChan)

	select {
	case <-stoppedChan:
		s.logger.Info("Recovery scheduler stopped")
	case <-time.After(5 * time.Second):
		s.logger.Warn("Recovery scheduler stop timeout exceeded")
	}
}

func (s *RecoveryScheduler) run(ctx context.Context, stopChan, stoppedChan chan struct{}) {
	defer func() {
		close(stoppedChan)
		s.mu.Lock()
		// A newer Start may already own fresh channels; only this run's
		// state is ours to clear
		if s.stoppedChan == stoppedChan {
			s.running = false
		}
		s.mu.Unlock()
	}()

	detectorTicker := time.NewTicker(s.detectorInterval)
	defer detectorTicker.Stop()
	taskTicker := time.NewTicker(s.taskPollInterval)
	defer taskTicker.Stop()

	// Run a sweep immediately on start so a restart does not wait a full
	// interval to resume detection
	s.runDetector(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Recovery scheduler context cancelled")
			return
		case <-stopChan:
			s.logger.Info("Recovery scheduler received stop signal")
			return
		case <-detectorTicker.C:
			s.runDetector(ctx)
		case <-taskTicker.C:
			s.runTasks(ctx)
		}
	}
}

func (s *RecoveryScheduler) runDetector(ctx context.Context) {
	startTime := time.Now()

	detected, err := s.detector.Scan(ctx)
	if err != nil {
		// A partial sweep still reports what it detected
		s.logger.WithFields(map[string]interface{}{
			"error":   err.Error(),
			"elapsed": time.Since(startTime).String(),
		}).Error("Abandonment sweep reported failures")
	}

	if detected > 0 {
		s.logger.WithFields(map[string]interface{}{
			"detected": detected,
			"elapsed":  time.Since(startTime).String(),
		}).Info("Abandonment sweep finished")
	}
}

func (s *RecoveryScheduler) runTasks(ctx context.Context) {
	startTime := time.Now()

	processed, err := s.taskService.ExecutePendingTasks(ctx, s.taskBatchSize)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"error":   err.Error(),
			"elapsed": time.Since(startTime).String(),
		}).Error("Failed to execute pending tasks")
		return
	}

	if processed > 0 {
		s.logger.WithFields(map[string]interface{}{
			"processed": processed,
			"elapsed":   time.Since(startTime).String(),
		}).Info("Executed pending tasks")
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *RecoveryScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
