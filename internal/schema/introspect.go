package schema

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Dialect selects the SQL flavor used for introspection queries.
type Dialect string

const (
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
)

// Queryer provides query access for schema introspection.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// SQLProvider introspects a live database through information_schema.
// The same queries work for MySQL and Postgres; only the placeholder
// format and the schema namespace differ between dialects.
type SQLProvider struct {
	db           Queryer
	dialect      Dialect
	schemaName   string
	includeViews bool
}

// NewSQLProvider creates a provider that introspects the given database.
// schemaName is the database name for MySQL or the namespace (usually
// "public") for Postgres.
func NewSQLProvider(db Queryer, dialect Dialect, schemaName string) *SQLProvider {
	return &SQLProvider{
		db:           db,
		dialect:      dialect,
		schemaName:   schemaName,
		includeViews: true,
	}
}

func (p *SQLProvider) placeholder() sq.PlaceholderFormat {
	if p.dialect == DialectPostgres {
		return sq.Dollar
	}
	return sq.Question
}

// GetSchema introspects the configured database. The datasource ID only
// identifies the source to callers; the provider is bound to one database
// at construction time.
func (p *SQLProvider) GetSchema(ctx context.Context, datasourceID string) (*Schema, error) {
	ctx, span := startSpan(ctx, "schema.introspect",
		attribute.String("datasource.id", datasourceID),
		attribute.String("db.namespace", p.schemaName),
	)
	defer span.End()

	tables, err := p.getTables(ctx)
	if err != nil {
		recordSpanError(span, err)
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	columnsByTable, err := p.getColumns(ctx)
	if err != nil {
		recordSpanError(span, err)
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}

	result := &Schema{Tables: make([]Table, 0, len(tables))}
	for _, name := range tables {
		result.Tables = append(result.Tables, Table{
			Name:         name,
			DisplayName:  PluralDisplayName(name),
			SingularName: SingularDisplayName(name),
			Columns:      columnsByTable[name],
		})
	}
	return result, nil
}

func (p *SQLProvider) getTables(ctx context.Context) ([]string, error) {
	tableTypes := []string{"BASE TABLE"}
	if p.includeViews {
		tableTypes = append(tableTypes, "VIEW")
	}

	query, args, err := sq.Select("table_name").
		From("information_schema.tables").
		Where(sq.Eq{"table_schema": p.schemaName}).
		Where(sq.Eq{"table_type": tableTypes}).
		OrderBy("table_name").
		PlaceholderFormat(p.placeholder()).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func (p *SQLProvider) getColumns(ctx context.Context) (map[string][]Column, error) {
	query, args, err := sq.Select("table_name", "column_name", "data_type").
		From("information_schema.columns").
		Where(sq.Eq{"table_schema": p.schemaName}).
		OrderBy("table_name", "ordinal_position").
		PlaceholderFormat(p.placeholder()).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	columns := make(map[string][]Column)
	for rows.Next() {
		var tableName string
		var col Column
		if err := rows.Scan(&tableName, &col.Name, &col.DataType); err != nil {
			return nil, err
		}
		col.DisplayName = DisplayName(col.Name)
		columns[tableName] = append(columns[tableName], col)
	}
	return columns, rows.Err()
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer("nexbii/schema")
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
