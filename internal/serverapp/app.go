// Package serverapp wires configuration, database, observability, and the
// HTTP API into one managed lifecycle.
package serverapp

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/vkmindia80/nexbii/internal/config"
	"github.com/vkmindia80/nexbii/internal/dashboard"
	"github.com/vkmindia80/nexbii/internal/dbexec"
	"github.com/vkmindia80/nexbii/internal/logging"
	"github.com/vkmindia80/nexbii/internal/observability"
	"github.com/vkmindia80/nexbii/internal/schema"
)

// App owns runtime resources for the nexbii server lifecycle.
type App struct {
	cfg    *config.Config
	logger *logging.Logger

	loggerProvider *observability.LoggerProvider
	meterProvider  *observability.MeterProvider
	tracerProvider *observability.TracerProvider
	metrics        *observability.DashboardMetrics

	db             *sql.DB
	schemaProvider schema.Provider
	executor       dbexec.Executor
	queryStore     *dbexec.MemoryQueryStore
	loader         *dashboard.Loader

	handler    http.Handler
	serverAddr string
	srv        *http.Server

	cleanup cleanupStack

	stateMu      sync.Mutex
	initialized  bool
	started      bool
	serverErrors chan error

	shutdownOnce sync.Once
}

// New creates an App lifecycle wrapper.
func New(cfg *config.Config, logger *logging.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &App{cfg: cfg, logger: logger}, nil
}

// AttachLoggerProvider registers an optional logger provider for shutdown
// cleanup.
func (a *App) AttachLoggerProvider(provider *observability.LoggerProvider) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	a.loggerProvider = provider
}

// Start launches the HTTP server goroutine. It requires Init to have
// completed.
func (a *App) Start() (<-chan error, error) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()

	if !a.initialized {
		return nil, fmt.Errorf("app is not initialized")
	}
	if a.started {
		return a.serverErrors, nil
	}

	serverErrors := make(chan error, 1)
	a.logger.Info("starting server",
		slog.String("address", a.serverAddr),
		slog.String("log_level", a.cfg.Logging.Level),
		slog.Bool("metrics_enabled", a.cfg.Observability.MetricsEnabled),
	)
	srv := a.srv
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	a.serverErrors = serverErrors
	a.started = true
	return serverErrors, nil
}

// WaitForStop blocks until an OS signal arrives or the server fails.
func (a *App) WaitForStop(stop <-chan os.Signal, serverErrors <-chan error) error {
	if serverErrors == nil {
		a.stateMu.Lock()
		serverErrors = a.serverErrors
		a.stateMu.Unlock()
	}

	select {
	case err, ok := <-serverErrors:
		if !ok || err == nil {
			return fmt.Errorf("server stopped unexpectedly")
		}
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		a.logger.Info("received shutdown signal", slog.String("signal", sig.String()))
		return nil
	}
}

// Shutdown gracefully releases all acquired resources. Safe to call more
// than once.
func (a *App) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a.shutdownOnce.Do(func() {
		a.stateMu.Lock()
		cleanup := a.cleanup
		a.started = false
		a.stateMu.Unlock()

		cleanup.run(ctx, a.logger)
	})
	return nil
}

// cleanupStack manages shutdown functions in LIFO order, releasing
// resources in reverse order of acquisition.
type cleanupStack struct {
	items []cleanupItem
}

type cleanupItem struct {
	name string
	fn   func(context.Context) error
}

func (s *cleanupStack) push(name string, fn func(context.Context) error) {
	s.items = append(s.items, cleanupItem{name: name, fn: fn})
}

func (s *cleanupStack) run(ctx context.Context, logger *logging.Logger) {
	for i := len(s.items) - 1; i >= 0; i-- {
		item := s.items[i]
		if logger != nil {
			logger.Info("shutting down " + item.name)
		}
		if err := item.fn(ctx); err != nil && logger != nil {
			logger.Warn("cleanup error",
				slog.String("component", item.name),
				slog.String("error", err.Error()),
			)
		}
	}
}
