package config

import (
	"fmt"
	"net/url"
	"strings"
)

// DSN returns the driver-specific data source name. When ConnectionString
// is set it is used directly; otherwise the DSN is assembled from the
// discrete fields.
func (d *DatabaseConfig) DSN() string {
	if d.ConnectionString != "" {
		return d.decorate(d.ConnectionString)
	}

	switch d.Driver {
	case "postgres", "pgx":
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(d.User, d.Password),
			Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
			Path:   "/" + d.Database,
		}
		return u.String()
	default:
		return d.decorate(fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s",
			d.User, d.Password, d.Host, d.Port, d.Database,
		))
	}
}

// decorate guarantees the MySQL options chart rendering depends on:
// parseTime so temporal columns scan as time.Time, and a fixed UTC location.
func (d *DatabaseConfig) decorate(dsn string) string {
	if d.Driver == "postgres" || d.Driver == "pgx" {
		return dsn
	}
	if !strings.Contains(dsn, "parseTime") {
		if strings.Contains(dsn, "?") {
			dsn += "&parseTime=true"
		} else {
			dsn += "?parseTime=true"
		}
	}
	if !strings.Contains(dsn, "loc=") {
		dsn += "&loc=UTC"
	}
	return dsn
}

// SchemaName returns the namespace introspection should scan: the database
// name for MySQL, the public schema for Postgres.
func (d *DatabaseConfig) SchemaName() string {
	if d.Driver == "postgres" || d.Driver == "pgx" {
		return "public"
	}
	return d.Database
}
