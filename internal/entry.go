// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/zettel/internal/api"
	"github.com/starford/zettel/internal/extract"
	"github.com/starford/zettel/internal/mcpserver"
	"github.com/starford/zettel/internal/noteservice"
	"github.com/starford/zettel/internal/storage"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{command: CommandIndex}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config
	if err := cfg.ValidateFor(app.command); err != nil {
		return err
	}

	// MCP speaks its protocol on stdout, so it logs to stderr.
	logOutput := app.logOutput
	if logOutput == nil {
		logOutput = os.Stdout
		if app.command == CommandMCP {
			logOutput = os.Stderr
		}
	}
	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("command", app.command),
		slog.String("notes_path", cfg.Notes.Path),
		slog.String("template", cfg.Report.Template),
		slog.String("tasks", cfg.Extract.Tasks),
		slog.Bool("wiki", cfg.Extract.Wiki),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, err := storage.NewFS(cfg.Notes.Path,
		storage.WithIgnore(cfg.Notes.Ignore...),
		storage.WithExtensions(cfg.Notes.Extensions...),
	)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	reg, err := extract.NewRegistry(cfg.Extract.Options())
	if err != nil {
		return fmt.Errorf("init extractors: %w", err)
	}

	svcOpts := []noteservice.Option{
		noteservice.WithWorkers(cfg.Notes.Workers),
		noteservice.WithLogger(logger),
	}
	if app.command == CommandServe || app.command == CommandMCP {
		svcOpts = append(svcOpts, noteservice.WithCacheTTL(cfg.Serve.CacheTTL))
	}
	svc := noteservice.NewService(store, reg, svcOpts...)

	switch app.command {
	case CommandIndex:
		_, err := svc.WriteReport(ctx, cfg.Report.Template, cfg.Report.Output)
		if err != nil {
			logger.Error("index failed", slog.String("template", cfg.Report.Template), slog.String("error", err.Error()))
		}
		return err
	case CommandNormalize:
		_, err := svc.Normalize(ctx, cfg.Normalize.Mode == NormalizeMove)
		return err
	case CommandMCP:
		logger.Info("MCP server starting on stdio")
		return mcpserver.New(svc, cfg.Report.Template).ServeStdio()
	default:
		return serve(ctx, cfg, svc, logger)
	}
}

func serve(ctx context.Context, cfg *Config, svc *noteservice.Service, logger *slog.Logger) error {
	apiRouter := api.NewRouter(svc, cfg.Report.Template, cfg.Auth.AuthEnabled(), cfg.Auth.Token)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := svc.Index(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
