package dbexec

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestExecuteInlineSQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT \\*").WillReturnRows(
		sqlmock.NewRows([]string{"id", "status"}).
			AddRow(1, "paid").
			AddRow(2, "open"),
	)

	exec := NewSQLExecutor(db)
	result, err := exec.Execute(context.Background(), ExecRequest{SQL: "SELECT *\nFROM orders\nLIMIT 100;"})
	require.NoError(t, err)

	require.Equal(t, []string{"id", "status"}, result.Columns)
	require.Len(t, result.Rows, 2)
	require.Equal(t, "paid", result.Rows[0][1])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteConvertsBytesToStrings(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnRows(
		sqlmock.NewRows([]string{"name"}).AddRow([]byte("east")),
	)

	exec := NewSQLExecutor(db)
	result, err := exec.Execute(context.Background(), ExecRequest{SQL: "SELECT name FROM regions;"})
	require.NoError(t, err)
	require.Equal(t, "east", result.Rows[0][0])
}

func TestExecuteAppliesRequestLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"n"})
	for i := 0; i < 5; i++ {
		rows.AddRow(i)
	}
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	exec := NewSQLExecutor(db)
	result, err := exec.Execute(context.Background(), ExecRequest{SQL: "SELECT n FROM t;", Limit: 2})
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
}

func TestExecuteStoredQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT region").WillReturnRows(
		sqlmock.NewRows([]string{"region"}).AddRow("west"),
	)

	store := NewMemoryQueryStore()
	store.Put("q-42", "SELECT region FROM orders;")

	exec := NewSQLExecutor(db, WithQueryStore(store))
	result, err := exec.Execute(context.Background(), ExecRequest{QueryID: "q-42"})
	require.NoError(t, err)
	require.Equal(t, [][]any{{"west"}}, result.Rows)
}

func TestExecuteStoredQueryNotFound(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	exec := NewSQLExecutor(db, WithQueryStore(NewMemoryQueryStore()))
	_, err = exec.Execute(context.Background(), ExecRequest{QueryID: "missing"})
	require.ErrorIs(t, err, ErrQueryNotFound)
}

func TestExecuteRequestValidation(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	exec := NewSQLExecutor(db)

	_, err = exec.Execute(context.Background(), ExecRequest{})
	require.ErrorIs(t, err, ErrEmptyRequest)

	_, err = exec.Execute(context.Background(), ExecRequest{QueryID: "q1"})
	require.ErrorIs(t, err, ErrNoQueryStore)
}

func TestExecutePropagatesQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	queryErr := errors.New("table does not exist")
	mock.ExpectQuery("SELECT").WillReturnError(queryErr)

	exec := NewSQLExecutor(db)
	_, err = exec.Execute(context.Background(), ExecRequest{SQL: "SELECT * FROM missing;"})
	require.ErrorIs(t, err, queryErr)
}

func TestExecuteTimeoutOptionSetsDeadline(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

	exec := NewSQLExecutor(db, WithTimeout(time.Minute))
	_, err = exec.Execute(context.Background(), ExecRequest{SQL: "SELECT 1;"})
	require.NoError(t, err)
}

func TestMemoryQueryStore(t *testing.T) {
	store := NewMemoryQueryStore()
	store.Put("q1", "SELECT 1;")
	store.Put("q1", "SELECT 2;")

	sqlText, err := store.QuerySQL(context.Background(), "q1")
	require.NoError(t, err)
	require.Equal(t, "SELECT 2;", sqlText)

	_, err = store.QuerySQL(context.Background(), "q2")
	require.ErrorIs(t, err, ErrQueryNotFound)
}
