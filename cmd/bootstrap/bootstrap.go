package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"askadoc-server/config"
	deliveryHttp "askadoc-server/internal/delivery/http"
	"askadoc-server/internal/delivery/http/handler"
	"askadoc-server/internal/delivery/http/middleware"
	"askadoc-server/internal/delivery/ws"
	"askadoc-server/internal/infrastructure/cache"
	"askadoc-server/internal/infrastructure/database"
	"askadoc-server/internal/observability/metrics"
	"askadoc-server/internal/repository"
	"askadoc-server/internal/service"
	"askadoc-server/internal/triage"
	"askadoc-server/internal/usecase"
	"askadoc-server/pkg/jwt"
	"askadoc-server/pkg/response"
	"askadoc-server/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// NewLogger builds the JSON logger used by every component
func NewLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, using info", level)
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}

// New creates a new App instance with all dependencies initialized
func New(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	app := &App{Config: cfg, Log: log}

	response.ExposeInternalErrors(cfg.IsDevelopment())

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	app.Server = initializeServer(cfg, log, db, redisClient)

	return app, nil
}

// initializeServer wires repositories, usecases and handlers into the HTTP server
func initializeServer(cfg *config.Config, log *logrus.Logger, db *gorm.DB, redisClient *redis.Client) *http.Server {
	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	triageMetrics := metrics.NewTriageMetrics(registry)
	bookingMetrics := metrics.NewBookingMetrics(registry)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	patientProfileRepo := repository.NewPatientProfileRepository()
	doctorReviewRepo := repository.NewDoctorReviewRepository()
	slotRepo := repository.NewAvailabilitySlotRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	chatRepo := repository.NewChatRepository()
	chatbotSessionRepo := repository.NewChatbotSessionRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Services
	auditService := service.NewAuditService(log, auditLogRepo)
	referralService := service.NewReferralService(db, log, doctorProfileRepo, redisClient, cfg.Triage.ReferralCacheTTL)
	triageEngine := triage.NewEngine(referralService, log, cfg.Triage.FeverThreshold)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, doctorProfileRepo, patientProfileRepo, auditService, jwtService, redisClient)
	availabilityUsecase := usecase.NewAvailabilityUsecase(db, log, slotRepo, doctorProfileRepo, auditService)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, appointmentRepo, slotRepo, doctorProfileRepo, auditService, bookingMetrics)
	chatbotUsecase := usecase.NewChatbotUsecase(db, log, chatbotSessionRepo, triageEngine, triageMetrics)
	chatUsecase := usecase.NewChatUsecase(db, log, chatRepo, doctorProfileRepo, auditService)
	doctorUsecase := usecase.NewDoctorUsecase(db, log, doctorProfileRepo, doctorReviewRepo, auditService)
	medicalHistoryUsecase := usecase.NewMedicalHistoryUsecase(db, log, patientProfileRepo, appointmentRepo, chatRepo, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigin)

	// Push channel
	hub := ws.NewHub(log)
	wsHandler := ws.NewHandler(hub, authMiddleware, chatUsecase, log, cfg.App.CORSOrigin)

	router := deliveryHttp.NewRouter(deliveryHttp.RouterConfig{
		AuthHandler:           handler.NewAuthHandler(authUsecase, customValidator, jwtService),
		AvailabilityHandler:   handler.NewAvailabilityHandler(availabilityUsecase, customValidator),
		AppointmentHandler:    handler.NewAppointmentHandler(appointmentUsecase, customValidator),
		ChatbotHandler:        handler.NewChatbotHandler(chatbotUsecase, customValidator),
		ChatHandler:           handler.NewChatHandler(chatUsecase, customValidator),
		DoctorHandler:         handler.NewDoctorHandler(doctorUsecase, customValidator),
		MedicalHistoryHandler: handler.NewMedicalHistoryHandler(medicalHistoryUsecase, customValidator),
		AuditLogHandler:       handler.NewAuditLogHandler(auditLogUsecase),
		WSHandler:             wsHandler,
		MetricsHandler:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		AuthMiddleware:        authMiddleware,
		CORSMiddleware:        corsMiddleware,
		RequestLogger:         middleware.RequestLogger(log, httpMetrics),
	})

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts down gracefully
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			app.Close()
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}

	app.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
	return nil
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
