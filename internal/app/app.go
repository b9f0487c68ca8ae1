package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/cartpulse/cartpulse/config"
	"github.com/cartpulse/cartpulse/internal/database"
	"github.com/cartpulse/cartpulse/internal/domain"
	httpHandler "github.com/cartpulse/cartpulse/internal/http"
	"github.com/cartpulse/cartpulse/internal/repository"
	"github.com/cartpulse/cartpulse/internal/service"
	"github.com/cartpulse/cartpulse/pkg/logger"
	"github.com/cartpulse/cartpulse/pkg/mailer"
)

// App owns the wiring and lifecycle of the recovery engine
type App struct {
	config *config.Config
	logger logger.Logger
	db     *sql.DB
	mailer mailer.Mailer
	mux    *http.ServeMux
	server *http.Server

	// Repositories
	storeRepo        domain.StoreRepository
	checkoutRepo     domain.CheckoutRepository
	sequenceRepo     domain.SequenceRepository
	eventRepo        domain.RecoveryEventRepository
	unsubscribeRepo  domain.UnsubscribeRepository
	taskRepo         domain.TaskRepository
	analyticsRepo    domain.AnalyticsRepository
	orderHistoryRepo domain.OrderHistoryLookup

	// Services
	ingestService    *service.CheckoutIngestService
	taskService      *service.TaskService
	detector         *service.AbandonmentDetector
	orchestrator     *service.RecoveryOrchestrator
	analyticsService *service.RecoveryAnalyticsService
	checkoutService  *service.CheckoutService
	sequenceService  *service.SequenceService
	settingsService  *service.StoreSettingsService
	unsubService     *service.UnsubscribeService
	statusService    *service.RecoveryStatusService
	scheduler        *service.RecoveryScheduler
}

// NewApp creates a new application instance
func NewApp(cfg *config.Config) *App {
	return &App{
		config: cfg,
		logger: logger.NewLogger(cfg.LogLevel),
		mux:    http.NewServeMux(),
	}
}

// Initialize sets up the database, repositories, services and routes
func (a *App) Initialize() error {
	a.logger.WithField("version", a.config.Version).Info("Initializing cartpulse")

	if err := a.initDB(); err != nil {
		return err
	}
	a.initMailer()
	a.initRepositories()
	if err := a.initServices(); err != nil {
		return err
	}
	a.initRoutes()

	return nil
}

func (a *App) initDB() error {
	db, err := database.Connect(a.config.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.InitializeDatabase(db); err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	a.db = db
	return nil
}

func (a *App) initMailer() {
	cfg := &mailer.Config{
		SMTPHost:     a.config.SMTP.Host,
		SMTPPort:     a.config.SMTP.Port,
		SMTPUsername: a.config.SMTP.Username,
		SMTPPassword: a.config.SMTP.Password,
		FromEmail:    a.config.SMTP.FromEmail,
		FromName:     a.config.SMTP.FromName,
	}

	if a.config.IsDevelopment() {
		a.mailer = mailer.NewTestSMTPMailer(cfg)
	} else {
		a.mailer = mailer.NewSMTPMailer(cfg)
	}
}

func (a *App) initRepositories() {
	a.storeRepo = repository.NewStoreRepository(a.db)
	a.checkoutRepo = repository.NewCheckoutRepository(a.db)
	a.sequenceRepo = repository.NewSequenceRepository(a.db)
	a.eventRepo = repository.NewRecoveryEventRepository(a.db)
	a.unsubscribeRepo = repository.NewUnsubscribeRepository(a.db)
	a.taskRepo = repository.NewTaskRepository(a.db)
	a.analyticsRepo = repository.NewAnalyticsRepository(a.db)
	a.orderHistoryRepo = repository.NewOrderHistoryRepository(a.db)
}

func (a *App) initServices() error {
	a.ingestService = service.NewCheckoutIngestService(a.checkoutRepo, a.logger)

	taskService, err := service.NewTaskService(a.taskRepo, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create task service: %w", err)
	}
	a.taskService = taskService

	var generator domain.TextGenerator
	if g := service.NewAnthropicGenerator(a.config.Anthropic.APIKey, a.config.Anthropic.Model); g != nil {
		generator = g
	}
	composer := service.NewMessageComposer(generator, a.config.Anthropic.ComposeTimeout, a.logger)

	links := service.NewRecoveryLinkBuilder(a.config.APIEndpoint)
	tokens := service.NewUnsubscribeTokens(a.config.SecretKey)

	a.orchestrator = service.NewRecoveryOrchestrator(
		a.storeRepo,
		a.checkoutRepo,
		a.sequenceRepo,
		a.eventRepo,
		a.unsubscribeRepo,
		a.orderHistoryRepo,
		a.taskService,
		composer,
		a.mailer,
		links,
		tokens,
		a.logger,
	)

	a.taskService.RegisterProcessor(service.NewSequenceStartProcessor(a.orchestrator, a.logger))
	a.taskService.RegisterProcessor(service.NewSequenceStepProcessor(a.orchestrator, a.logger))

	a.detector = service.NewAbandonmentDetector(
		a.storeRepo,
		a.checkoutRepo,
		a.unsubscribeRepo,
		a.taskService,
		a.config.Scheduler.DetectorPageSize,
		a.logger,
	)

	a.analyticsService = service.NewRecoveryAnalyticsService(a.analyticsRepo, a.sequenceRepo, a.eventRepo, a.logger)
	a.checkoutService = service.NewCheckoutService(a.checkoutRepo, a.logger)
	a.sequenceService = service.NewSequenceService(a.sequenceRepo, a.eventRepo, a.orchestrator, a.logger)
	a.settingsService = service.NewStoreSettingsService(a.storeRepo, a.logger)
	a.unsubService = service.NewUnsubscribeService(a.unsubscribeRepo, tokens, a.orchestrator, a.logger)
	a.statusService = service.NewRecoveryStatusService(a.sequenceRepo, a.checkoutRepo, a.config.SecretKey, a.logger)

	a.scheduler = service.NewRecoveryScheduler(
		a.detector,
		a.taskService,
		a.logger,
		a.config.Scheduler.DetectorInterval,
		a.config.Scheduler.TaskPollInterval,
		a.config.Scheduler.TaskBatchSize,
	)

	return nil
}

func (a *App) initRoutes() {
	webhookHandler := httpHandler.NewWebhookHandler(a.ingestService, a.orchestrator, a.logger)
	recoveryHandler := httpHandler.NewRecoveryHandler(
		a.checkoutService,
		a.sequenceService,
		a.analyticsService,
		a.settingsService,
		a.logger,
	)
	publicHandler := httpHandler.NewPublicHandler(a.unsubService, a.statusService, a.logger)

	webhookHandler.RegisterRoutes(a.mux)
	recoveryHandler.RegisterRoutes(a.mux)
	publicHandler.RegisterRoutes(a.mux)

	a.mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","version":%q}`, a.config.Version)
	})
}

// Start runs the scheduler and the HTTP server. It blocks until the server
// exits.
func (a *App) Start(ctx context.Context) error {
	a.scheduler.Start(ctx)

	addr := fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port)
	a.server = &http.Server{
		Addr:         addr,
		Handler:      a.mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	a.logger.WithField("addr", addr).Info("HTTP server listening")
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown stops the scheduler, drains the HTTP server and closes the pool
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down")

	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			a.logger.WithField("error", err.Error()).Error("HTTP server shutdown failed")
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}

// Logger exposes the app logger
func (a *App) Logger() logger.Logger {
	return a.logger
}
