package dbexec

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/XSAM/otelsql"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	// Database drivers registered for sql.Open.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PoolOptions tunes the connection pool of an opened handle.
type PoolOptions struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
}

// Open opens an instrumented database handle for the given driver
// ("mysql" or "postgres") and applies the pool options. Tracing spans are
// emitted per query when instrument is true.
func Open(driver, dsn string, pool PoolOptions, instrument bool) (*sql.DB, error) {
	driverName, system, err := resolveDriver(driver)
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	if instrument {
		db, err = otelsql.Open(driverName, dsn,
			otelsql.WithAttributes(system),
			otelsql.WithSpanOptions(otelsql.SpanOptions{DisableErrSkip: true}),
		)
	} else {
		db, err = sql.Open(driverName, dsn)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	if pool.MaxOpen > 0 {
		db.SetMaxOpenConns(pool.MaxOpen)
	}
	if pool.MaxIdle > 0 {
		db.SetMaxIdleConns(pool.MaxIdle)
	}
	if pool.MaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.MaxLifetime)
	}
	return db, nil
}

// resolveDriver maps the configured database kind to the registered
// database/sql driver name and its telemetry attribute.
func resolveDriver(driver string) (string, attribute.KeyValue, error) {
	switch driver {
	case "mysql":
		return "mysql", semconv.DBSystemMySQL, nil
	case "pgx", "postgres":
		return "pgx", semconv.DBSystemPostgreSQL, nil
	default:
		return "", attribute.KeyValue{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}
