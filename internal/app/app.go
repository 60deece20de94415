// Package app wires configuration, logging, telemetry, services and
// the HTTP router into a runnable application.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"datalens/internal/config"
	apierrors "datalens/internal/errors"
	"datalens/internal/infrastructure"
	"datalens/internal/middleware"
	"datalens/internal/ml"
	"datalens/internal/services"
	"datalens/internal/store"
	transporthttp "datalens/internal/transport/http"
)

// Version is the build version, overridable at link time
var Version = "1.0.0"

// Application owns every long-lived component of the service
type Application struct {
	cfg       *config.Config
	logger    *slog.Logger
	logCloser io.Closer
	otel      *infrastructure.OTelProviders
	metrics   *infrastructure.BusinessMetrics

	dataService      *services.DataService
	analyticsService *services.AnalyticsService
	mlService        *services.MLService
	reportService    *services.ReportService
	healthService    *services.HealthService

	router chi.Router
	server *http.Server
}

// New builds the application from configuration
func New(cfg *config.Config) (*Application, error) {
	logger, logCloser, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	app := &Application{
		cfg:       cfg,
		logger:    logger,
		logCloser: logCloser,
	}

	if err := app.initTelemetry(); err != nil {
		return nil, err
	}
	if err := app.initServices(); err != nil {
		return nil, err
	}
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initTelemetry sets up OpenTelemetry tracing and metrics with the
// exporters the configuration selects
func (a *Application) initTelemetry() error {
	otelCfg := infrastructure.DefaultOTelConfig()
	otelCfg.TraceExporter = a.cfg.Telemetry.TraceExporter
	otelCfg.MetricExporter = a.cfg.Telemetry.MetricExporter
	otelCfg.SampleRatio = a.cfg.Telemetry.SampleRatio

	providers, err := infrastructure.InitializeOTel(otelCfg, a.logger)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	a.otel = providers

	metrics, err := infrastructure.CreateBusinessMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("creating metrics: %w", err)
	}
	a.metrics = metrics
	return nil
}

// initServices constructs the service layer
func (a *Application) initServices() error {
	st, err := store.New(a.cfg.Storage.DataDir, a.logger)
	if err != nil {
		return fmt.Errorf("initializing store: %w", err)
	}

	predictor := ml.NewPredictor(a.cfg.ML.ModelPath, a.logger)

	a.dataService = services.NewDataService(st, a.metrics, a.logger)
	a.analyticsService = services.NewAnalyticsService(a.dataService, a.logger)
	a.mlService = services.NewMLService(predictor, st, a.metrics, a.logger)
	a.reportService = services.NewReportService(
		a.dataService,
		a.cfg.Storage.ReportsDir,
		a.metrics,
		a.logger,
	)
	a.healthService = services.NewHealthService(Version, a.dataService, a.mlService, a.logger)
	return nil
}

// setupRouter builds the middleware chain and mounts all routes
func (a *Application) setupRouter() {
	errorHandler := apierrors.NewErrorHandler(a.logger, false)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.BusinessMetricsMiddleware(a.metrics))
	r.Use(middleware.StructuredLogger(a.logger))
	r.Use(middleware.Recoverer(a.logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
		Logger:         a.logger,
	}))

	if a.cfg.Server.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			a.cfg.Server.RateLimit.RPS,
			a.cfg.Server.RateLimit.Burst,
			a.logger,
		)
		r.Use(limiter.Handler)
	}

	r.Use(middleware.Timeout(a.cfg.Server.RequestTimeout, a.logger))
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	maxUpload := a.cfg.Limits.MaxUploadBytes

	dataHandler := transporthttp.NewDataHandler(a.dataService, maxUpload, a.logger, errorHandler)
	analyticsHandler := transporthttp.NewAnalyticsHandler(a.analyticsService, maxUpload, a.logger, errorHandler)
	mlHandler := transporthttp.NewMLHandler(a.mlService, a.logger, errorHandler)
	exportHandler := transporthttp.NewExportHandler(a.reportService, a.logger, errorHandler)
	healthHandler := transporthttp.NewHealthHandler(a.healthService, a.logger, errorHandler)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/data", dataHandler.Routes())
		r.Mount("/analytics", analyticsHandler.Routes())
		r.Mount("/ml", mlHandler.Routes())
		r.Mount("/export", exportHandler.Routes())
		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)
	})

	if a.otel.PrometheusHTTP != nil {
		r.Handle("/metrics", a.otel.PrometheusHTTP)
	}

	a.router = r
}

// Router exposes the HTTP router, mainly for tests
func (a *Application) Router() chi.Router {
	return a.router
}

// createServer builds the HTTP server around the router
func (a *Application) createServer() {
	a.server = &http.Server{
		Addr:         a.cfg.ListenAddr(),
		Handler:      a.router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}
}

// Run starts the server and blocks until shutdown completes
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting",
			"addr", a.server.Addr,
			"version", Version,
			"data_dir", a.cfg.Storage.DataDir,
			"model_path", filepath.Clean(a.cfg.ML.ModelPath),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutdown signal received")
	return a.Shutdown()
}

// Shutdown stops the server and flushes telemetry
func (a *Application) Shutdown() error {
	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}
	if a.otel != nil {
		if err := a.otel.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if a.logCloser != nil {
		if err := a.logCloser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing log output: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	a.logger.Info("shutdown complete")
	return nil
}
