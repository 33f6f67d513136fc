package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"wellstats/internal/config"
	"wellstats/internal/depthstats"
	apierrors "wellstats/internal/errors"
	"wellstats/internal/infrastructure"
	"wellstats/internal/loader"
	customMiddleware "wellstats/internal/middleware"
	"wellstats/internal/services"
	handlers "wellstats/internal/transport/http"
	"wellstats/internal/wells"
)

const (
	VERSION = "1.0.0"
	AppName = "wellstats"
)

// BuildTime is set at compile time.
var BuildTime = time.Now().Format(time.RFC3339)

// Application is the main application container.
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Registry      *wells.Registry
	Engine        *depthstats.Engine
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Services      *ServiceContainer

	errorHandler *apierrors.ErrorHandler
	validation   *customMiddleware.ValidationMiddleware
	otel         *customMiddleware.OTelMiddleware
}

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Statistics *services.StatisticsService
	Wells      *services.WellService
	Health     *services.HealthService
}

// NewApplication wires the application: configuration, logging,
// telemetry, well registry and HTTP stack. Well data is loaded from
// the configured data directory before the server starts.
func NewApplication(configFile string) (*Application, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", VERSION))

	providers, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("initialize telemetry: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Registry:      wells.NewRegistry(),
		Engine:        depthstats.NewEngine(logger),
		Logger:        logger,
		OTelProviders: providers,
	}

	if err := a.loadWells(context.Background()); err != nil {
		return nil, err
	}

	if err := a.initializeServices(); err != nil {
		return nil, err
	}

	a.setupRouter()
	a.createServer()

	return a, nil
}

// loadWells populates the registry from the data directory. A missing
// directory is not fatal: the service starts empty and reports
// not_ready until data appears.
func (a *Application) loadWells(ctx context.Context) error {
	dataDir := a.Config.Paths.DataDir
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		a.Logger.Warn("data directory does not exist, starting with empty registry",
			slog.String("dir", dataDir))
		return nil
	}

	l := loader.NewLoader(a.Logger)
	if err := l.LoadDirectory(ctx, dataDir, a.Registry); err != nil {
		return fmt.Errorf("load wells from %s: %w", dataDir, err)
	}

	a.Logger.Info("wells loaded",
		slog.String("dir", dataDir),
		slog.Int("count", len(a.Registry.List())))
	return nil
}

func (a *Application) initializeServices() error {
	stats, err := services.NewStatisticsService(
		a.Registry, a.Engine, a.Config, a.OTelProviders.Meter, a.Logger)
	if err != nil {
		return fmt.Errorf("initialize statistics service: %w", err)
	}

	a.Services = &ServiceContainer{
		Statistics: stats,
		Wells:      services.NewWellService(a.Registry, a.Logger),
		Health:     services.NewHealthService(VERSION, BuildTime, a.Config.Paths, a.Registry, a.Logger),
	}

	a.errorHandler = apierrors.NewErrorHandler(a.Logger, false)
	a.validation = customMiddleware.NewValidationMiddleware(a.Logger, a.errorHandler)

	a.otel, err = customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Logger)
	if err != nil {
		return fmt.Errorf("initialize instrumentation middleware: %w", err)
	}

	return nil
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(a.otel.Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.Compress(5))
	r.Use(customMiddleware.StripSlashes)
	r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
		AllowedOrigins: []string{"*"},
		Logger:         a.Logger,
	}))

	if a.Config.Security.RateLimit.Enabled {
		limiter := customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		)
		r.Use(limiter.Handler)
	}

	r.NotFound(a.errorHandler.NotFound)
	r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

	a.setupAPIRoutes(r)

	r.Method(http.MethodGet, "/metrics",
		handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP))

	a.Router = r
}

func (a *Application) setupAPIRoutes(r chi.Router) {
	healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)
	wellsHandler := handlers.NewWellsHandler(a.Services.Wells, a.Logger, a.errorHandler)
	statsHandler := handlers.NewStatisticsHandler(a.Services.Statistics, a.validation, a.Logger, a.errorHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.ReadTimeout, a.Logger))

		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)
		r.Mount("/wells", wellsHandler.Routes())

		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.ContentTypeValidator("application/json"))
			r.Use(a.validation.ValidateRequest)
			r.Mount("/statistics", statsHandler.Routes())
		})
	})
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start launches the HTTP server. A server error cancels the supplied
// context so the caller can unwind.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting server",
		slog.String("name", AppName),
		slog.String("version", VERSION),
		slog.Int("port", a.Config.Server.Port),
		slog.String("data_dir", a.Config.Paths.DataDir))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	return nil
}

// Stop gracefully shuts the application down.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "telemetry shutdown error", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return nil
}

// Run runs the application until interrupted.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
