package config

import "fmt"

// ValidationIssue describes one configuration problem with a hint for
// fixing it.
type ValidationIssue struct {
	Field   string
	Message string
	Hint    string
}

// ValidationResult collects configuration errors and warnings. Warnings are
// logged and ignored; errors abort startup.
type ValidationResult struct {
	Errors   []ValidationIssue
	Warnings []ValidationIssue
}

// HasErrors reports whether the configuration is unusable.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

func (r *ValidationResult) addError(field, message, hint string) {
	r.Errors = append(r.Errors, ValidationIssue{Field: field, Message: message, Hint: hint})
}

func (r *ValidationResult) addWarning(field, message, hint string) {
	r.Warnings = append(r.Warnings, ValidationIssue{Field: field, Message: message, Hint: hint})
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() *ValidationResult {
	result := &ValidationResult{}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		result.addError("server.port",
			fmt.Sprintf("port %d is out of range", c.Server.Port),
			"use a port between 1 and 65535")
	}

	switch c.Database.Driver {
	case "mysql", "postgres", "pgx":
	case "":
		result.addError("database.driver", "no database driver configured",
			"set database.driver to mysql or postgres")
	default:
		result.addError("database.driver",
			fmt.Sprintf("unsupported driver %q", c.Database.Driver),
			"set database.driver to mysql or postgres")
	}

	if c.Database.ConnectionString == "" && c.Database.Database == "" {
		result.addWarning("database.database", "no database name configured",
			"set database.database or provide a full DSN")
	}

	if c.Query.DefaultLimit < 1 {
		result.addError("query.default_limit",
			fmt.Sprintf("default limit %d must be positive", c.Query.DefaultLimit),
			"set query.default_limit to at least 1")
	}
	if c.Query.MaxLimit > 0 && c.Query.DefaultLimit > c.Query.MaxLimit {
		result.addError("query.default_limit",
			fmt.Sprintf("default limit %d exceeds max limit %d", c.Query.DefaultLimit, c.Query.MaxLimit),
			"lower query.default_limit or raise query.max_limit")
	}

	if c.SchemaRefresh.Enabled && c.SchemaRefresh.MaxInterval < c.SchemaRefresh.MinInterval {
		result.addWarning("schema_refresh.max_interval",
			"max interval is below min interval",
			"raise schema_refresh.max_interval or lower schema_refresh.min_interval")
	}

	if c.Observability.TracingEnabled && c.Observability.OTLPEndpoint == "" {
		result.addError("observability.otlp_endpoint",
			"tracing enabled without an OTLP endpoint",
			"set observability.otlp_endpoint or disable tracing")
	}
	if c.Observability.TraceSampleRatio < 0 || c.Observability.TraceSampleRatio > 1 {
		result.addError("observability.trace_sample_ratio",
			fmt.Sprintf("sample ratio %v is out of range", c.Observability.TraceSampleRatio),
			"use a ratio between 0.0 and 1.0")
	}
	if c.Observability.OTLPInsecure && c.Observability.Environment == "production" {
		result.addWarning("observability.otlp_insecure",
			"insecure OTLP export in production",
			"enable TLS on the collector connection")
	}

	return result
}
