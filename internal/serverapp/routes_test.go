package serverapp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/vkmindia80/nexbii/internal/config"
	"github.com/vkmindia80/nexbii/internal/dashboard"
	"github.com/vkmindia80/nexbii/internal/logging"
	"github.com/vkmindia80/nexbii/internal/schema"
)

func TestHandlerInstrumentedWhenTracingEnabled(t *testing.T) {
	provider := &schema.StaticProvider{Schema: &schema.Schema{}}
	executor := stubExecutor{}

	app := &App{
		cfg: &config.Config{
			Query:         config.QueryConfig{MaxLimit: 10000},
			Observability: config.ObservabilityConfig{TracingEnabled: true},
		},
		logger: logging.Nop(),
	}
	handler := app.buildHandler(provider, executor, dashboard.NewLoader(executor), nil, nil)

	// Instrumented handlers are wrapped; the router is no longer the
	// outermost handler.
	_, isMux := handler.(*chi.Mux)
	require.False(t, isMux)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlerBareWhenObservabilityDisabled(t *testing.T) {
	provider := &schema.StaticProvider{Schema: &schema.Schema{}}
	executor := stubExecutor{}

	app := &App{
		cfg:    &config.Config{Query: config.QueryConfig{MaxLimit: 10000}},
		logger: logging.Nop(),
	}
	handler := app.buildHandler(provider, executor, dashboard.NewLoader(executor), nil, nil)

	_, isMux := handler.(*chi.Mux)
	require.True(t, isMux)
}

func TestRootSpanName(t *testing.T) {
	cases := []struct {
		method, path, want string
	}{
		{http.MethodPost, "/api/queries/compile", "POST /api/queries/compile"},
		{http.MethodPost, "/api/queries/validate", "POST /api/queries/validate"},
		{http.MethodPost, "/api/queries/run", "POST /api/queries/run"},
		{http.MethodPost, "/api/dashboards/data", "POST /api/dashboards/data"},
		{http.MethodGet, "/api/datasources/ds-42/schema", "GET /api/datasources/{id}/schema"},
		{http.MethodGet, "/healthz", "GET /healthz"},
		{http.MethodGet, "/metrics", "GET /metrics"},
		{http.MethodGet, "/unknown/route", "GET /*"},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(tc.method, tc.path, nil)
		if got := rootSpanName(r); got != tc.want {
			t.Errorf("rootSpanName(%s %s) = %q, want %q", tc.method, tc.path, got, tc.want)
		}
	}

	require.Equal(t, "HTTP /*", rootSpanName(nil))
}
