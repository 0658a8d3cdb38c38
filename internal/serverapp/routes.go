package serverapp

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/vkmindia80/nexbii/internal/dashboard"
	"github.com/vkmindia80/nexbii/internal/dbexec"
	"github.com/vkmindia80/nexbii/internal/middleware"
	"github.com/vkmindia80/nexbii/internal/observability"
	"github.com/vkmindia80/nexbii/internal/schema"
)

func (a *App) buildHandler(
	schemaProvider schema.Provider,
	executor dbexec.Executor,
	loader *dashboard.Loader,
	metrics *observability.DashboardMetrics,
	meterProvider *observability.MeterProvider,
) http.Handler {
	h := &apiHandler{
		logger:         a.logger,
		schemaProvider: schemaProvider,
		executor:       executor,
		loader:         loader,
		metrics:        metrics,
		maxLimit:       a.cfg.Query.MaxLimit,
	}

	r := chi.NewRouter()
	r.Use(middleware.Logging(a.logger))
	if a.cfg.Server.CORSEnabled {
		r.Use(middleware.CORS(middleware.CORSConfig{
			Enabled:        true,
			AllowedOrigins: a.cfg.Server.CORSOrigins,
		}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/datasources/{id}/schema", h.getSchema)
		r.Post("/queries/compile", h.compileQuery)
		r.Post("/queries/validate", h.validateQuery)
		r.Post("/queries/run", h.runQuery)
		r.Post("/dashboards/data", h.dashboardData)
	})

	r.Get("/healthz", h.healthz)
	if meterProvider != nil {
		r.Get("/metrics", promhttp.Handler().ServeHTTP)
	}

	return a.wrapHandler(r)
}

// wrapHandler adds OpenTelemetry HTTP instrumentation when metrics or
// tracing are enabled, so executor and introspection spans have a server
// span to parent onto.
func (a *App) wrapHandler(handler http.Handler) http.Handler {
	if !a.cfg.Observability.MetricsEnabled && !a.cfg.Observability.TracingEnabled {
		return handler
	}
	return otelhttp.NewHandler(handler, "http.server",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return rootSpanName(r)
		}),
		otelhttp.WithMessageEvents(otelhttp.ReadEvents, otelhttp.WriteEvents),
	)
}

func rootSpanName(r *http.Request) string {
	if r == nil {
		return "HTTP /*"
	}

	method := strings.TrimSpace(r.Method)
	if method == "" {
		method = "HTTP"
	}

	return method + " " + spanRoute(r.URL.Path)
}

// spanRoute collapses paths onto the routing table so span names stay
// low-cardinality. The datasource ID is the only path parameter.
func spanRoute(rawPath string) string {
	switch rawPath {
	case "/api/queries/compile", "/api/queries/validate", "/api/queries/run", "/api/dashboards/data", "/healthz", "/metrics":
		return rawPath
	}
	if strings.HasPrefix(rawPath, "/api/datasources/") && strings.HasSuffix(rawPath, "/schema") {
		return "/api/datasources/{id}/schema"
	}
	return "/*"
}
