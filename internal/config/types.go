// Package config loads and validates the application configuration from
// flags, environment variables, and an optional YAML file.
package config

import "time"

// Config holds the application configuration.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Query         QueryConfig         `mapstructure:"query"`
	SchemaRefresh SchemaRefreshConfig `mapstructure:"schema_refresh"`
}

// SchemaRefreshConfig controls background re-introspection of the data
// source schema.
type SchemaRefreshConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// MinInterval is the polling interval after a detected change; while
	// the schema is stable the interval backs off up to MaxInterval.
	MinInterval time.Duration `mapstructure:"min_interval"`
	MaxInterval time.Duration `mapstructure:"max_interval"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSEnabled     bool          `mapstructure:"cors_enabled"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// PoolConfig holds connection pool parameters.
type PoolConfig struct {
	MaxOpen     int           `mapstructure:"max_open"`
	MaxIdle     int           `mapstructure:"max_idle"`
	MaxLifetime time.Duration `mapstructure:"max_lifetime"`
}

// DatabaseConfig holds data-source connection parameters.
type DatabaseConfig struct {
	// Driver selects the SQL dialect: "mysql" or "postgres".
	Driver string `mapstructure:"driver"`

	// ConnectionString is a complete driver DSN. When set, it overrides the
	// discrete fields below.
	ConnectionString string `mapstructure:"dsn"`
	// ConnectionStringFile is a path to a file containing the DSN.
	ConnectionStringFile string `mapstructure:"dsn_file"`

	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	PasswordFile   string `mapstructure:"password_file"`
	PasswordPrompt bool   `mapstructure:"password_prompt"`
	Database       string `mapstructure:"database"`

	Pool PoolConfig `mapstructure:"pool"`
}

// LoggingConfig holds log output parameters.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ObservabilityConfig holds metrics/tracing/log-export parameters.
type ObservabilityConfig struct {
	ServiceName      string        `mapstructure:"service_name"`
	ServiceVersion   string        `mapstructure:"service_version"`
	Environment      string        `mapstructure:"environment"`
	MetricsEnabled   bool          `mapstructure:"metrics_enabled"`
	TracingEnabled   bool          `mapstructure:"tracing_enabled"`
	LogExportEnabled bool          `mapstructure:"log_export_enabled"`
	TraceSampleRatio float64       `mapstructure:"trace_sample_ratio"`
	OTLPEndpoint     string        `mapstructure:"otlp_endpoint"`
	OTLPProtocol     string        `mapstructure:"otlp_protocol"`
	OTLPInsecure     bool          `mapstructure:"otlp_insecure"`
	OTLPTimeout      time.Duration `mapstructure:"otlp_timeout"`
	// Optional TLS material for the collector connection.
	OTLPCAFile         string `mapstructure:"otlp_ca_file"`
	OTLPClientCertFile string `mapstructure:"otlp_client_cert_file"`
	OTLPClientKeyFile  string `mapstructure:"otlp_client_key_file"`
}

// QueryConfig holds query execution parameters.
type QueryConfig struct {
	// DefaultLimit is the row limit applied when a request does not set one.
	DefaultLimit int `mapstructure:"default_limit"`
	// MaxLimit caps the per-request row limit.
	MaxLimit int `mapstructure:"max_limit"`
	// ExecTimeout bounds a single executor call.
	ExecTimeout time.Duration `mapstructure:"exec_timeout"`
}
