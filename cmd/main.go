package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/assay/internal/adapters/http/api"
	"github.com/okian/assay/internal/adapters/http/swagger"
	"github.com/okian/assay/internal/adapters/llm"
	"github.com/okian/assay/internal/adapters/storage"
	app "github.com/okian/assay/internal/app"
	"github.com/okian/assay/internal/config"
	"github.com/okian/assay/internal/domain/report"
	"github.com/okian/assay/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 30 * time.Second
	writeTimeout      = 5 * time.Minute // summary requests wait on the generation collaborator
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, err := storage.NewFileStore(cfg.StorageDir)
	if err != nil {
		os.Stderr.WriteString("failed to open dataset store: " + err.Error() + "\n")
		return
	}

	opts := []app.Option{
		app.WithLogger(loggerInstance),
		app.WithStore(store),
	}
	if cfg.SortByAssessmentNumber {
		opts = append(opts, app.WithReportOptions(report.WithSortedByAssessmentNumber(true)))
	}
	if cfg.GenerationEndpoint != "" {
		gen, err := llm.NewClient(cfg.GenerationEndpoint, cfg.GenerationAPIKey,
			llm.WithModel(cfg.GenerationModel),
			llm.WithTimeout(time.Duration(cfg.GenerationTimeoutMS)*time.Millisecond),
		)
		if err != nil {
			os.Stderr.WriteString("failed to build generation client: " + err.Error() + "\n")
			return
		}
		opts = append(opts, app.WithGenerator(gen))
	} else {
		loggerInstance.Warn(ctx, "no generation endpoint configured; summaries and sentiment analysis disabled")
	}

	svc := app.New(opts...)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register API documentation under /api-docs
	swagger.Register(ctx, mux)

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc, cfg.MaxUploadBytes)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
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
