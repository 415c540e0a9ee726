package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"psico-portal/config"
	deliveryHttp "psico-portal/internal/delivery/http"
	"psico-portal/internal/delivery/http/handler"
	"psico-portal/internal/delivery/http/middleware"
	"psico-portal/internal/infrastructure/cache"
	"psico-portal/internal/repository"
	"psico-portal/internal/service"
	"psico-portal/internal/usecase"
	"psico-portal/pkg/jwt"
	"psico-portal/pkg/metrics"
	"psico-portal/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	metricsNamespace = "psico_portal"
	tokenLeeway      = 30 * time.Second
	shutdownTimeout  = 10 * time.Second
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	RedisClient *redis.Client
	Registry    *usecase.SessionRegistry
	Guard       service.BookingGuard
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
	app.Log = setupLogger(cfg.App.LogLevel)
	app.Log.Info("Configuration loaded successfully")

	// Initialize Redis only when the booking guard needs it
	if cfg.Booking.Guard == config.GuardRedis {
		redisClient, err := cache.NewRedisClient(cfg.Redis, app.Log)
		if err != nil {
			return nil, err
		}
		app.RedisClient = redisClient
	}

	app.initializeServer()

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}

func (app *App) bookingGuard() service.BookingGuard {
	ttls := service.GuardTTLs{Key: app.Config.Booking.KeyTTL, Lock: app.Config.Booking.LockTTL}
	if app.RedisClient != nil {
		app.Log.Info("Booking guard backed by Redis")
		return service.NewRedisBookingGuard(app.RedisClient, app.Log, ttls)
	}
	app.Log.Info("Booking guard kept in memory")
	return service.NewMemoryBookingGuard(app.Log, ttls)
}

// initializeServer wires every layer and creates the HTTP server
func (app *App) initializeServer() {
	cfg := app.Config
	log := app.Log
	loc := cfg.App.Location()

	// Metrics
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(promRegistry, metricsNamespace)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	apiClient := repository.NewAPIClient(cfg.API.BaseURL, cfg.API.Timeout, log, m)
	sessionRepo := repository.NewSessionRepository(apiClient)
	appointmentRepo := repository.NewAppointmentRepository(apiClient)
	paymentRepo := repository.NewPaymentRepository(apiClient)
	moodRepo := repository.NewMoodRepository(apiClient)
	activityRepo := repository.NewActivityRepository(apiClient)
	dashboardRepo := repository.NewDashboardRepository(apiClient)
	monitorRepo := repository.NewPatientMonitorRepository(apiClient)

	// Session workspaces
	app.Guard = app.bookingGuard()
	app.Registry = usecase.NewSessionRegistry(log, sessionRepo, appointmentRepo, paymentRepo, app.Guard, time.Now, m, cfg.Session.TTL)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(log, sessionRepo)
	appointmentUsecase := usecase.NewPatientAppointmentUsecase(log, appointmentRepo, time.Now)
	moodUsecase := usecase.NewMoodUsecase(log, moodRepo, time.Now)
	activityUsecase := usecase.NewActivityUsecase(log, activityRepo, time.Now, loc)
	dashboardUsecase := usecase.NewDashboardUsecase(log, dashboardRepo)
	monitorUsecase := usecase.NewPatientMonitorUsecase(log, monitorRepo, time.Now)

	// Initialize handlers
	handlers := deliveryHttp.Handlers{
		Auth:         handler.NewAuthHandler(authUsecase, app.Registry, customValidator),
		Availability: handler.NewAvailabilityHandler(app.Registry, customValidator, loc),
		Scheduling:   handler.NewSchedulingHandler(app.Registry, customValidator),
		Payment:      handler.NewPaymentHandler(app.Registry),
		Appointment:  handler.NewAppointmentHandler(appointmentUsecase),
		Wellbeing:    handler.NewWellbeingHandler(moodUsecase, activityUsecase, customValidator),
		Dashboard:    handler.NewDashboardHandler(dashboardUsecase, monitorUsecase),
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwt.NewInspector(tokenLeeway))
	roleMiddleware := middleware.NewRoleMiddleware(app.Registry)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(handlers, authMiddleware, roleMiddleware, corsMiddleware, promRegistry)

	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s, practice API: %s", app.Config.App.Env, app.Config.API.BaseURL)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close drops every session workspace and releases the booking guard
func (app *App) Close() {
	if app.Registry != nil {
		app.Registry.Stop()
	}

	if stopper, ok := app.Guard.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
