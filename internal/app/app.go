package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/signalkit/signalkit/config"
	"github.com/signalkit/signalkit/internal/database"
	"github.com/signalkit/signalkit/internal/domain"
	httpHandler "github.com/signalkit/signalkit/internal/http"
	"github.com/signalkit/signalkit/internal/repository"
	"github.com/signalkit/signalkit/internal/service"
	"github.com/signalkit/signalkit/pkg/logger"
	"github.com/signalkit/signalkit/pkg/ratelimiter"
	"github.com/signalkit/signalkit/pkg/tracing"
)

// App encapsulates the application dependencies and configuration
type App struct {
	config *config.Config
	logger logger.Logger
	db     *sql.DB

	// Repositories
	workspaceRepo domain.WorkspaceRepository
	accountRepo   domain.AccountRepository
	signalRepo    domain.SignalRepository
	syncRepo      domain.SignalSyncRepository

	// Services
	credentialService *service.CredentialService
	posthogService    *service.PostHogService
	hubspotService    *service.HubSpotService
	queryGenerator    *service.QueryGenerator
	detectionRunner   *service.DetectionRunner
	metricsCalculator *service.MetricsCalculator
	syncOrchestrator  *service.SyncOrchestrator

	rateLimiter *ratelimiter.RateLimiter

	// HTTP
	mux    *http.ServeMux
	server *http.Server

	serverMu sync.RWMutex
}

// AppOption defines a functional option for configuring the App
type AppOption func(*App)

// WithMockDB configures the app to use a pre-built database handle
func WithMockDB(db *sql.DB) AppOption {
	return func(a *App) {
		a.db = db
	}
}

// WithLogger sets a custom logger
func WithLogger(logger logger.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// NewApp creates a new application instance
func NewApp(cfg *config.Config, opts ...AppOption) *App {
	app := &App{
		config: cfg,
		logger: logger.NewLoggerWithLevel(cfg.LogLevel),
		mux:    http.NewServeMux(),
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// Initialize runs all initialization steps in order
func (a *App) Initialize() error {
	if err := a.InitTracing(); err != nil {
		return err
	}
	if err := a.InitDB(); err != nil {
		return err
	}
	if err := a.InitRepositories(); err != nil {
		return err
	}
	if err := a.InitServices(); err != nil {
		return err
	}
	return a.InitHandlers()
}

// InitTracing initializes OpenCensus tracing
func (a *App) InitTracing() error {
	if err := tracing.InitTracing(&a.config.Tracing); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if a.config.Tracing.Enabled {
		a.logger.WithFields(map[string]interface{}{
			"service_name":  a.config.Tracing.ServiceName,
			"sampling_rate": a.config.Tracing.SamplingProbability,
		}).Info("Tracing initialized")
	}

	return nil
}

// InitDB ensures the database exists, connects and applies the schema
func (a *App) InitDB() error {
	// Skip if a handle was injected (tests)
	if a.db != nil {
		return nil
	}

	dbCfg := &a.config.Database
	a.logger.WithFields(map[string]interface{}{
		"host":    dbCfg.Host,
		"port":    dbCfg.Port,
		"user":    dbCfg.User,
		"dbname":  dbCfg.DBName,
		"sslmode": dbCfg.SSLMode,
	}).Info("Connecting to database")

	if err := database.EnsureDatabaseExists(dbCfg); err != nil {
		return fmt.Errorf("failed to ensure database exists: %w", err)
	}

	db, err := database.Connect(dbCfg, a.config.Tracing.Enabled)
	if err != nil {
		return err
	}

	if err := database.InitializeDatabase(db); err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	a.db = db
	return nil
}

// InitRepositories initializes all repositories
func (a *App) InitRepositories() error {
	if a.db == nil {
		return fmt.Errorf("database must be initialized before repositories")
	}

	a.workspaceRepo = repository.NewWorkspaceRepository(a.db)
	a.accountRepo = repository.NewAccountRepository(a.db)
	a.signalRepo = repository.NewSignalRepository(a.db)
	a.syncRepo = repository.NewSignalSyncRepository(a.db)

	return nil
}

// InitServices initializes all application services
func (a *App) InitServices() error {
	a.credentialService = service.NewCredentialService(a.workspaceRepo, a.config.Security.SecretKey, a.logger)
	a.queryGenerator = service.NewQueryGenerator()

	httpClient := &http.Client{
		Timeout: 90 * time.Second,
	}
	if a.config.Tracing.Enabled {
		httpClient = tracing.WrapHTTPClient(httpClient)
	}

	a.posthogService = service.NewPostHogService(httpClient, a.logger)
	a.hubspotService = service.NewHubSpotService(httpClient, a.logger)

	registry := service.DefaultRegistry(a.config.Jobs.DetectorLookbackDays)
	a.detectionRunner = service.NewDetectionRunner(
		a.workspaceRepo,
		a.accountRepo,
		a.signalRepo,
		registry,
		a.logger,
	)

	a.metricsCalculator = service.NewMetricsCalculator(
		a.queryGenerator,
		a.posthogService,
		a.credentialService,
		a.signalRepo,
		a.syncRepo,
		a.logger,
	)

	a.syncOrchestrator = service.NewSyncOrchestrator(
		a.workspaceRepo,
		a.syncRepo,
		a.credentialService,
		a.queryGenerator,
		a.posthogService,
		a.posthogService,
		a.hubspotService,
		a.logger,
		a.config.Jobs.RunTimeout,
		a.config.Jobs.WorkspaceConcurrency,
	)

	a.rateLimiter = ratelimiter.NewRateLimiter(a.config.RateLimit.MaxRequests, a.config.RateLimit.Window)
	a.rateLimiter.SetPolicy("query.execute", a.config.RateLimit.QueryMaxRequests, a.config.RateLimit.Window)

	return nil
}

// InitHandlers initializes all HTTP handlers and routes
func (a *App) InitHandlers() error {
	// Fresh ServeMux avoids route conflicts on restart
	a.mux = http.NewServeMux()

	jobHandler := httpHandler.NewJobHandler(
		a.detectionRunner,
		a.syncOrchestrator,
		a.config.Security.CronSecret,
		a.logger,
	)
	queryHandler := httpHandler.NewQueryHandler(
		a.credentialService,
		a.posthogService,
		a.rateLimiter,
		a.config.Security.CronSecret,
		a.logger,
	)

	jobHandler.RegisterRoutes(a.mux)
	queryHandler.RegisterRoutes(a.mux)

	return nil
}

// GetConfig returns the application configuration
func (a *App) GetConfig() *config.Config {
	return a.config
}

// GetLogger returns the application logger
func (a *App) GetLogger() logger.Logger {
	return a.logger
}

// GetMux returns the HTTP request multiplexer
func (a *App) GetMux() *http.ServeMux {
	return a.mux
}

// GetDB returns the database handle
func (a *App) GetDB() *sql.DB {
	return a.db
}

// Start starts the HTTP server
func (a *App) Start() error {
	addr := fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port)
	a.logger.WithField("address", addr).Info("Server starting")

	a.serverMu.Lock()
	a.server = &http.Server{
		Addr:    addr,
		Handler: a.mux,
	}
	server := a.server
	a.serverMu.Unlock()

	return server.ListenAndServe()
}

// Shutdown gracefully shuts down the server and releases resources
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Starting graceful shutdown")

	a.serverMu.RLock()
	server := a.server
	a.serverMu.RUnlock()

	if server != nil {
		if err := server.Shutdown(ctx); err != nil {
			a.logger.WithField("error", err.Error()).Error("Server shutdown error")
			return err
		}
	}

	if a.rateLimiter != nil {
		a.rateLimiter.Stop()
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.WithField("error", err.Error()).Error("Database close error")
			return err
		}
		a.db = nil
	}

	a.logger.Info("Graceful shutdown completed")
	return nil
}
