package serverapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vkmindia80/nexbii/internal/config"
	"github.com/vkmindia80/nexbii/internal/dashboard"
	"github.com/vkmindia80/nexbii/internal/dbexec"
	"github.com/vkmindia80/nexbii/internal/logging"
	"github.com/vkmindia80/nexbii/internal/schema"
)

type stubExecutor struct {
	result dbexec.Result
	err    error
}

func (s stubExecutor) Execute(ctx context.Context, req dbexec.ExecRequest) (dbexec.Result, error) {
	if s.err != nil {
		return dbexec.Result{}, s.err
	}
	return s.result, nil
}

func testHandler(t *testing.T, executor dbexec.Executor) http.Handler {
	t.Helper()

	provider := &schema.StaticProvider{Schema: &schema.Schema{Tables: []schema.Table{
		{Name: "orders", Columns: []schema.Column{{Name: "id", DataType: "int"}}},
	}}}

	app := &App{
		cfg: &config.Config{
			Server: config.ServerConfig{CORSEnabled: false},
			Query:  config.QueryConfig{MaxLimit: 10000},
		},
		logger: logging.Nop(),
	}
	return app.buildHandler(provider, executor, dashboard.NewLoader(executor), nil, nil)
}

func TestGetSchemaEndpoint(t *testing.T) {
	handler := testHandler(t, stubExecutor{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/datasources/ds-1/schema", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var s schema.Schema
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	require.Len(t, s.Tables, 1)
	require.Equal(t, "orders", s.Tables[0].Name)
}

func TestCompileEndpoint(t *testing.T) {
	handler := testHandler(t, stubExecutor{})

	body := `{"primaryTable":"orders","limit":100}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/queries/compile", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		SQL string `json:"sql"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "SELECT *\nFROM orders\nLIMIT 100;", resp.SQL)
}

func TestCompileEndpointEmptyState(t *testing.T) {
	handler := testHandler(t, stubExecutor{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/queries/compile", strings.NewReader(`{}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"sql":""`)
}

func TestCompileEndpointBadJSON(t *testing.T) {
	handler := testHandler(t, stubExecutor{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/queries/compile", strings.NewReader(`{`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidateEndpoint(t *testing.T) {
	handler := testHandler(t, stubExecutor{})

	body := `{"datasource_id":"ds-1","state":{"primaryTable":"orders","columns":[{"table":"orders","column":"id"}]}}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/queries/validate", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Valid  bool     `json:"valid"`
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Valid)
	require.Empty(t, resp.Errors)
}

func TestValidateEndpointReportsErrors(t *testing.T) {
	handler := testHandler(t, stubExecutor{})

	body := `{"datasource_id":"ds-1","state":{"primaryTable":"orders","columns":[{"table":"orders","column":"nope"}]}}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/queries/validate", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Valid  bool     `json:"valid"`
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Valid)
	require.Len(t, resp.Errors, 1)
	require.Contains(t, resp.Errors[0], "column not found")
}

func TestValidateEndpointBadJSON(t *testing.T) {
	handler := testHandler(t, stubExecutor{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/queries/validate", strings.NewReader(`{`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunEndpoint(t *testing.T) {
	handler := testHandler(t, stubExecutor{
		result: dbexec.Result{Columns: []string{"id"}, Rows: [][]any{{float64(1)}}},
	})

	body := `{"sql":"SELECT id FROM orders LIMIT 1;"}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/queries/run", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var result dbexec.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Equal(t, []string{"id"}, result.Columns)
	require.Len(t, result.Rows, 1)
}

func TestRunEndpointExecutorFailure(t *testing.T) {
	handler := testHandler(t, stubExecutor{err: errors.New("connection refused")})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/queries/run", strings.NewReader(`{"sql":"SELECT 1;"}`)))

	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, rec.Body.String(), "connection refused")
}

func TestRunEndpointEmptyRequest(t *testing.T) {
	handler := testHandler(t, stubExecutor{err: dbexec.ErrEmptyRequest})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/queries/run", strings.NewReader(`{}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunEndpointLimitTooLarge(t *testing.T) {
	handler := testHandler(t, stubExecutor{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/queries/run", strings.NewReader(`{"sql":"SELECT 1;","limit":99999}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardDataEndpoint(t *testing.T) {
	handler := testHandler(t, stubExecutor{
		result: dbexec.Result{Columns: []string{"amount"}, Rows: [][]any{{1}, {2}, {3}}},
	})

	body := `{"widgets":[{"id":"w1","chart_type":"metric","query_id":"q1","config":{"aggregation":"sum"}}]}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/dashboards/data", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]struct {
		Value float64 `json:"value"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, float64(6), resp["w1"].Value)
}

func TestDashboardDataPartialFailure(t *testing.T) {
	handler := testHandler(t, stubExecutor{err: errors.New("query timeout")})

	body := `{"widgets":[{"id":"w1","chart_type":"metric","query_id":"q1"}]}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/dashboards/data", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "query timeout")
}

func TestHealthzEndpoint(t *testing.T) {
	handler := testHandler(t, stubExecutor{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ok")
}
