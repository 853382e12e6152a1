package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"health-concierge/config"
	"health-concierge/internal/converter"
	deliveryHttp "health-concierge/internal/delivery/http"
	"health-concierge/internal/delivery/http/handler"
	"health-concierge/internal/delivery/http/middleware"
	"health-concierge/internal/infrastructure/cache"
	"health-concierge/internal/infrastructure/database"
	"health-concierge/internal/infrastructure/messaging"
	"health-concierge/internal/repository"
	"health-concierge/internal/service"
	"health-concierge/internal/session"
	"health-concierge/internal/usecase"
	"health-concierge/pkg/jwt"
	"health-concierge/pkg/metrics"
	"health-concierge/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Publisher   messaging.PublisherInterface
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	log := setupLogger(cfg.App.LogLevel)
	app.Log = log
	log.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connected successfully")

	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(db); err != nil {
			app.Close()
			return nil, err
		}
	}

	// Initialize Redis
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	log.Info("Redis connected successfully")

	// Initialize event publisher
	publisher, err := messaging.NewPublisher(cfg.RabbitMQ, log)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Publisher = publisher

	// Initialize all layers
	server, err := initializeServer(ctx, cfg, log, db, redisClient, publisher)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Server = server

	return app, nil
}

// setupLogger configures a JSON logrus logger at the configured level
func setupLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// initializeServer creates and configures the HTTP server
func initializeServer(
	ctx context.Context,
	cfg *config.Config,
	log *logrus.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
	publisher messaging.PublisherInterface,
) (*http.Server, error) {
	// Initialize shared services
	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()
	mapper := converter.NewMapper(cfg.App.MapperStrict)
	appMetrics := metrics.New("health_concierge")
	events := service.NewEventService(log, publisher)

	// Initialize repositories
	assistantRepo := repository.NewAssistantRepository(mapper)
	hospitalRepo := repository.NewHospitalRepository(mapper)
	liveSessionRepo := repository.NewLiveSessionRepository(mapper)
	patientRepo := repository.NewPatientRepository(mapper)
	requestRepo := repository.NewRequestRepository(mapper)
	deviceStore := repository.NewDeviceStore(redisClient)
	draftStore := repository.NewDraftStore(redisClient)
	tokenStore := repository.NewTokenStore(redisClient)
	openRequestCache := repository.NewOpenRequestCache(redisClient, mapper)

	openRequests := service.NewOpenRequestsSync(openRequestCache, cfg.Cache.OpenRequestsTTL, log)
	strict := cfg.Lifecycle.Policy == config.LifecyclePolicyStrict
	singleActive := cfg.LiveSession.Policy == config.LivePolicySingleActive
	log.Infof("Lifecycle policy %s, live session policy %s", cfg.Lifecycle.Policy, cfg.LiveSession.Policy)

	// Initialize usecases
	hospitalUsecase := usecase.NewHospitalUsecase(db, log, hospitalRepo, assistantRepo, liveSessionRepo)
	assistantUsecase := usecase.NewAssistantUsecase(db, log, customValidator, assistantRepo, requestRepo, liveSessionRepo, events)
	patientUsecase := usecase.NewPatientUsecase(db, log, customValidator, patientRepo)
	requestUsecase := usecase.NewRequestUsecase(db, log, customValidator, requestRepo, hospitalRepo, assistantRepo, events, openRequests, appMetrics)
	lifecycleUsecase := usecase.NewRequestLifecycleUsecase(db, log, requestRepo, assistantRepo, events, openRequests, appMetrics, strict)
	liveSessionUsecase := usecase.NewLiveSessionUsecase(db, log, customValidator, liveSessionRepo, assistantRepo, hospitalRepo, events, singleActive)
	authUsecase := usecase.NewAuthUsecase(log, jwtService, tokenStore)
	onboardingUsecase := usecase.NewOnboardingUsecase(log, draftStore, deviceStore, assistantUsecase)

	if cfg.DB.SeedData {
		if _, err := hospitalUsecase.SeedHospitals(ctx); err != nil {
			return nil, fmt.Errorf("failed to seed hospitals: %w", err)
		}
	}

	if openRequests.Enabled() {
		if err := requestUsecase.WarmOpenRequests(ctx); err != nil {
			// The cache fills on first read instead.
			log.Warnf("Failed to warm open requests cache: %+v", err)
		}
	}

	sessions := session.NewManager(&session.Services{
		Log:          log,
		Devices:      deviceStore,
		Assistants:   assistantUsecase,
		Patients:     patientUsecase,
		Requests:     requestUsecase,
		Lifecycle:    lifecycleUsecase,
		LiveSessions: liveSessionUsecase,
		Auth:         authUsecase,
	}, cfg.Cache.SessionTTL)

	// Initialize handlers
	hospitalHandler := handler.NewHospitalHandler(log, hospitalUsecase)
	assistantHandler := handler.NewAssistantHandler(log, assistantUsecase, liveSessionUsecase)
	patientHandler := handler.NewPatientHandler(log, patientUsecase)
	requestHandler := handler.NewRequestHandler(log, customValidator, requestUsecase, lifecycleUsecase)
	sessionHandler := handler.NewSessionHandler(log, customValidator, sessions)
	onboardingHandler := handler.NewOnboardingHandler(log, onboardingUsecase, sessions)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authUsecase)
	corsMiddleware := middleware.NewCORSMiddleware()
	deviceMiddleware := middleware.NewDeviceMiddleware(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	// Initialize router
	router := deliveryHttp.NewRouter(
		hospitalHandler,
		assistantHandler,
		patientHandler,
		requestHandler,
		sessionHandler,
		onboardingHandler,
		authMiddleware,
		corsMiddleware,
		deviceMiddleware,
		appMetrics,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (publisher, database, redis)
func (app *App) Close() {
	if app.Publisher != nil {
		if err := app.Publisher.Close(); err != nil {
			app.Log.Warnf("Failed to close publisher: %v", err)
		}
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
