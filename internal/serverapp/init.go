package serverapp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vkmindia80/nexbii/internal/dashboard"
	"github.com/vkmindia80/nexbii/internal/dbexec"
	"github.com/vkmindia80/nexbii/internal/schema"
)

// Init initializes all runtime resources. It is idempotent.
func (a *App) Init(ctx context.Context) error {
	a.stateMu.Lock()
	if a.initialized {
		a.stateMu.Unlock()
		return nil
	}
	a.stateMu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}

	cleanup := cleanupStack{}
	success := false
	defer func() {
		if !success {
			cleanup.run(context.Background(), a.logger)
		}
	}()

	if a.loggerProvider != nil {
		cleanup.push("logger provider", func(shutdownCtx context.Context) error {
			return a.loggerProvider.Shutdown(shutdownCtx, a.logger.Logger)
		})
	}

	meterProvider, metrics, err := a.initMetrics()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	if meterProvider != nil {
		cleanup.push("meter provider", func(shutdownCtx context.Context) error {
			return meterProvider.Shutdown(shutdownCtx, a.logger.Logger)
		})
	}

	tracerProvider, err := a.initTracing()
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if tracerProvider != nil {
		cleanup.push("tracer provider", func(shutdownCtx context.Context) error {
			return tracerProvider.Shutdown(shutdownCtx, a.logger.Logger)
		})
	}

	a.logger.Info("connecting to data source",
		slog.String("driver", a.cfg.Database.Driver),
		slog.String("host", a.cfg.Database.Host),
		slog.Int("port", a.cfg.Database.Port),
		slog.String("database", a.cfg.Database.Database),
	)

	instrument := a.cfg.Observability.MetricsEnabled || a.cfg.Observability.TracingEnabled
	db, err := dbexec.Open(a.cfg.Database.Driver, a.cfg.Database.DSN(), dbexec.PoolOptions{
		MaxOpen:     a.cfg.Database.Pool.MaxOpen,
		MaxIdle:     a.cfg.Database.Pool.MaxIdle,
		MaxLifetime: a.cfg.Database.Pool.MaxLifetime,
	}, instrument)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	cleanup.push("database", func(context.Context) error {
		return db.Close()
	})

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err = db.PingContext(pingCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to verify database connection: %w", err)
	}

	dialect := schema.DialectMySQL
	if a.cfg.Database.Driver == "postgres" || a.cfg.Database.Driver == "pgx" {
		dialect = schema.DialectPostgres
	}
	introspector := schema.NewSQLProvider(db, dialect, a.cfg.Database.SchemaName())
	schemaProvider := schema.NewCachingProvider(introspector)

	if a.cfg.SchemaRefresh.Enabled {
		refresher := schema.NewRefresher(schema.RefreshConfig{
			DatasourceID: a.cfg.Database.Database,
			Source:       introspector,
			Cache:        schemaProvider,
			MinInterval:  a.cfg.SchemaRefresh.MinInterval,
			MaxInterval:  a.cfg.SchemaRefresh.MaxInterval,
			Logger:       a.logger,
		})
		refresher.Start(context.Background())
		cleanup.push("schema refresher", func(context.Context) error {
			refresher.Stop()
			return nil
		})
	}

	queryStore := dbexec.NewMemoryQueryStore()
	executor := dbexec.NewSQLExecutor(db,
		dbexec.WithQueryStore(queryStore),
		dbexec.WithTimeout(a.cfg.Query.ExecTimeout),
	)
	loader := dashboard.NewLoader(executor,
		dashboard.WithLogger(a.logger),
		dashboard.WithMetrics(metrics),
	)

	handler := a.buildHandler(schemaProvider, executor, loader, metrics, meterProvider)
	serverAddr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := a.buildServer(handler, serverAddr)
	cleanup.push("HTTP server", func(shutdownCtx context.Context) error {
		return srv.Shutdown(shutdownCtx)
	})

	a.stateMu.Lock()
	a.meterProvider = meterProvider
	a.tracerProvider = tracerProvider
	a.metrics = metrics
	a.db = db
	a.schemaProvider = schemaProvider
	a.executor = executor
	a.queryStore = queryStore
	a.loader = loader
	a.handler = handler
	a.serverAddr = serverAddr
	a.srv = srv
	a.cleanup = cleanup
	a.initialized = true
	a.stateMu.Unlock()

	success = true
	return nil
}
