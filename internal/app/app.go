package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"creditdensity/internal/config"
	apierrors "creditdensity/internal/errors"
	"creditdensity/internal/infrastructure"
	customMiddleware "creditdensity/internal/middleware"
	"creditdensity/internal/services"
	handlers "creditdensity/internal/transport/http"
	"creditdensity/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config         *config.Config
	Router         *chi.Mux
	Server         *http.Server
	Logger         *slog.Logger
	OTelProviders  *infrastructure.OTelProviders
	Metrics        *infrastructure.BusinessMetrics
	Services       *ServiceContainer
	errorHandler   *apierrors.ErrorHandler
	ownsGlobalLogs bool
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Density *services.DensityService
	Health  *services.HealthService
}

// NewApplication wires logging, telemetry, services and the router from cfg.
// A nil cfg loads the configuration from file and environment.
func NewApplication(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return newApplication(cfg, logger)
}

// NewApplicationWithLogger is NewApplication with an injected logger; the
// global logger is left untouched.
func NewApplicationWithLogger(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	app, err := newApplication(cfg, logger)
	if err != nil {
		return nil, err
	}
	app.ownsGlobalLogs = false
	return app, nil
}

func newApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.GetVersionString()),
		slog.Int("port", cfg.Server.Port))

	otelProviders, err := infrastructure.InitializeOTel(cfg.Telemetry, contracts.Version, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	app := &Application{
		Config:         cfg,
		Logger:         logger,
		OTelProviders:  otelProviders,
		Metrics:        metrics,
		errorHandler:   apierrors.NewErrorHandler(logger, false),
		ownsGlobalLogs: true,
	}

	app.initializeServices()

	if err := app.setupRouter(); err != nil {
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}

	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() {
	density := services.NewDensityService(a.Logger, a.Metrics, a.Config.Density.Workers,
		services.WithMaxNumU(a.Config.Density.MaxNumU))
	health := services.NewHealthService(contracts.Version, density, a.Logger)

	a.Services = &ServiceContainer{
		Density: density,
		Health:  health,
	}
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() error {
	r := chi.NewRouter()

	// RequestID → RealIP → OTel → Logger → Recoverer → SecurityHeaders → CORS → RateLimit → Timeout
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics)
	if err != nil {
		return err
	}
	r.Use(otelMiddleware.Handler)

	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.errorHandler))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(a.getCORSConfig()))
	}

	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	r.NotFound(a.errorHandler.NotFound)
	r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

	r.Handle("/metrics", handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP))

	a.setupAPIRoutes(r)

	a.Router = r
	return nil
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		handlers.NewHealthHandler(a.Services.Health).RegisterRoutes(r)

		r.Route("/v1", func(r chi.Router) {
			r.Use(customMiddleware.ContentTypeValidator("application/json"))
			handlers.NewDensityHandler(a.Services.Density, a.Logger, a.Config.Density.MaxBodyBytes).RegisterRoutes(r)
		})
	})
}

// getCORSConfig returns CORS configuration
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins:   a.Config.Security.AllowedOrigins,
		AllowCredentials: a.Config.Security.AllowCredentials,
		Logger:           a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(a.Logger.Handler(), slog.LevelError),
	}
}

// Start starts the HTTP server in the background. A listen failure cancels
// the application context.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	if status := a.Services.Health.ReadinessCheck(ctx); status.Status != "ready" {
		return fmt.Errorf("startup readiness check failed: %v", status.Services)
	}

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", a.Server.Addr))

	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")

	if a.ownsGlobalLogs {
		if err := infrastructure.CloseLogFile(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Run runs the application until interrupted or the server fails
func (a *Application) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx = infrastructure.EnsureTraceID(ctx)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.InfoContext(ctx, "Received shutdown signal")

	return a.Stop(ctx)
}
