package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/okian/energy-analytics/internal/adapters/http/api"
	"github.com/okian/energy-analytics/internal/adapters/http/swagger"
	"github.com/okian/energy-analytics/internal/adapters/modelstore"
	"github.com/okian/energy-analytics/internal/adapters/repository"
	app "github.com/okian/energy-analytics/internal/app"
	"github.com/okian/energy-analytics/internal/config"
	"github.com/okian/energy-analytics/internal/domain/advice"
	"github.com/okian/energy-analytics/internal/scheduler"
	"github.com/okian/energy-analytics/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 30 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		os.Stderr.WriteString("failed to read .env: " + err.Error() + "\n")
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, store, err := buildService(ctx, cfg, loggerInstance)
	if err != nil {
		loggerInstance.Error(ctx, "failed to build service", logger.Error(err))
		return
	}
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	// Session sweep and system metrics jobs
	jobs := scheduler.New(store,
		scheduler.WithSweepInterval(cfg.SessionSweepInterval),
		scheduler.WithMetricsInterval(cfg.MetricsInterval),
		scheduler.WithLogger(loggerInstance.Named("scheduler")),
	)
	if err := jobs.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start scheduler", logger.Error(err))
		return
	}
	defer jobs.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc, loggerInstance),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// buildService resolves paths, loads the model and rules once, and wires the
// dashboard service. A missing model or broken rules file does not fail
// startup: the service serves a halted dashboard explaining the problem.
func buildService(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Service, repository.SessionStore, error) {
	paths, err := cfg.Paths()
	if err != nil {
		return nil, nil, err
	}
	log.Info(ctx, "resolved paths",
		logger.String("data", paths.DataPath),
		logger.String("model", paths.ModelPath),
		logger.String("rules", paths.RulesPath),
	)

	store := repository.NewMemoryStore(
		repository.WithTTL(cfg.SessionTTL),
		repository.WithMaxSessions(cfg.MaxSessions),
		repository.WithLogger(log.Named("sessions")),
	)

	opts := []app.Option{
		app.WithLogger(log.Named("dashboard")),
		app.WithDataPath(paths.DataPath),
		app.WithSessionStore(store),
		app.WithMaxUploadBytes(cfg.MaxUploadBytes),
	}

	if rules, err := advice.LoadRules(paths.RulesPath, paths.RulesRequired); err != nil {
		opts = append(opts, app.WithRulesError(err))
	} else {
		opts = append(opts, app.WithRecommender(rules))
	}

	if predictor, err := modelstore.Load(ctx, paths.ModelPath); err != nil {
		opts = append(opts, app.WithModelError(err))
	} else {
		opts = append(opts, app.WithPredictor(predictor))
	}

	return app.New(opts...), store, nil
}

// newHandler registers every route and applies the outer middleware.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Register ReDoc and the OpenAPI document
	swagger.Register(ctx, mux)

	// Register dashboard and API routes with the service dependency.
	apiServer := api.NewServer(svc, svc,
		api.WithMaxUploadBytes(cfg.MaxUploadBytes),
		api.WithLogger(log.Named("http")),
	)
	apiServer.Register(ctx, mux)

	return api.Wrap(mux, log.Named("http"))
}
