// Package dbexec runs compiled SQL against a data source and returns flat
// tabular results. It is the only layer that touches database/sql; everything
// above consumes the column-ordered, row-major Result contract.
package dbexec

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Result is the executor's output contract: column names plus row-major,
// positionally addressed cell values.
type Result struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// ExecRequest identifies what to run: either inline SQL or a stored query
// reference. Limit caps the number of rows returned to the caller.
type ExecRequest struct {
	QueryID string `json:"query_id,omitempty"`
	SQL     string `json:"sql,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

// Executor runs a query and returns its tabular result.
type Executor interface {
	Execute(ctx context.Context, req ExecRequest) (Result, error)
}

// QueryStore resolves stored query references to SQL text.
type QueryStore interface {
	QuerySQL(ctx context.Context, queryID string) (string, error)
}

// Executor sentinel errors.
var (
	ErrEmptyRequest = errors.New("request has neither sql nor query_id")
	ErrNoQueryStore = errors.New("query_id given but no query store configured")
)

// SQLExecutor executes requests against a database handle.
type SQLExecutor struct {
	db      *sql.DB
	store   QueryStore
	timeout time.Duration
}

// SQLExecutorOption configures a SQLExecutor.
type SQLExecutorOption func(*SQLExecutor)

// WithQueryStore enables stored-query resolution.
func WithQueryStore(store QueryStore) SQLExecutorOption {
	return func(e *SQLExecutor) { e.store = store }
}

// WithTimeout bounds each execution with a per-query deadline.
func WithTimeout(d time.Duration) SQLExecutorOption {
	return func(e *SQLExecutor) { e.timeout = d }
}

// NewSQLExecutor creates an executor over an open database handle.
func NewSQLExecutor(db *sql.DB, opts ...SQLExecutorOption) *SQLExecutor {
	e := &SQLExecutor{db: db}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute resolves the request to SQL text, runs it, and scans every row
// into untyped cells. Byte slices are converted to strings so results
// serialize cleanly and compare predictably downstream.
func (e *SQLExecutor) Execute(ctx context.Context, req ExecRequest) (Result, error) {
	if e.db == nil {
		return Result{}, sql.ErrConnDone
	}

	sqlText := req.SQL
	if sqlText == "" {
		if req.QueryID == "" {
			return Result{}, ErrEmptyRequest
		}
		if e.store == nil {
			return Result{}, ErrNoQueryStore
		}
		stored, err := e.store.QuerySQL(ctx, req.QueryID)
		if err != nil {
			return Result{}, fmt.Errorf("failed to resolve query %q: %w", req.QueryID, err)
		}
		sqlText = stored
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	rows, err := e.db.QueryContext(ctx, sqlText)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		_ = rows.Close()
	}()

	columns, err := rows.Columns()
	if err != nil {
		return Result{}, err
	}

	result := Result{Columns: columns, Rows: [][]any{}}
	for rows.Next() {
		if req.Limit > 0 && len(result.Rows) >= req.Limit {
			break
		}
		cells := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return Result{}, err
		}
		for i, cell := range cells {
			if b, ok := cell.([]byte); ok {
				cells[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, cells)
	}
	if err := rows.Err(); err != nil {
		return Result{}, err
	}

	return result, nil
}
