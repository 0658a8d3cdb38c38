package serverapp

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vkmindia80/nexbii/internal/chartdata"
	"github.com/vkmindia80/nexbii/internal/dashboard"
	"github.com/vkmindia80/nexbii/internal/dbexec"
	"github.com/vkmindia80/nexbii/internal/logging"
	"github.com/vkmindia80/nexbii/internal/observability"
	"github.com/vkmindia80/nexbii/internal/query"
	"github.com/vkmindia80/nexbii/internal/schema"
	"github.com/vkmindia80/nexbii/internal/sqlgen"
)

// apiHandler is contract glue over the internal packages. All query and
// transform logic lives below it.
type apiHandler struct {
	logger         *logging.Logger
	schemaProvider schema.Provider
	executor       dbexec.Executor
	loader         *dashboard.Loader
	metrics        *observability.DashboardMetrics
	maxLimit       int
}

type compileResponse struct {
	SQL string `json:"sql"`
}

type dashboardRequest struct {
	Widgets []chartdata.WidgetSpec `json:"widgets"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type validateRequest struct {
	DatasourceID string      `json:"datasource_id"`
	State        query.State `json:"state"`
}

type validateResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

func (h *apiHandler) getSchema(w http.ResponseWriter, r *http.Request) {
	datasourceID := chi.URLParam(r, "id")

	s, err := h.schemaProvider.GetSchema(r.Context(), datasourceID)
	if err != nil {
		h.logger.Error("schema introspection failed",
			slog.String("datasource_id", datasourceID),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to read data source schema"})
		return
	}

	writeJSON(w, http.StatusOK, s)
}

// compileQuery previews the SQL for a builder state. Compilation is total,
// so a syntactically valid body always yields 200, possibly with empty sql.
func (h *apiHandler) compileQuery(w http.ResponseWriter, r *http.Request) {
	var state query.State
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid query state: " + err.Error()})
		return
	}

	sql := sqlgen.Compile(state)
	h.metrics.RecordCompile(r.Context())

	writeJSON(w, http.StatusOK, compileResponse{SQL: sql})
}

// validateQuery checks a builder state against the datasource schema.
// Invalid references come back as messages rather than an error status:
// an invalid state is a well-formed request with a negative answer.
func (h *apiHandler) validateQuery(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	s, err := h.schemaProvider.GetSchema(r.Context(), req.DatasourceID)
	if err != nil {
		h.logger.Error("schema introspection failed",
			slog.String("datasource_id", req.DatasourceID),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to read data source schema"})
		return
	}

	resp := validateResponse{Valid: true}
	for _, verr := range query.NewValidator(s).ValidateState(req.State) {
		resp.Valid = false
		resp.Errors = append(resp.Errors, verr.Error())
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *apiHandler) runQuery(w http.ResponseWriter, r *http.Request) {
	var req dbexec.ExecRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request: " + err.Error()})
		return
	}
	if req.Limit < 0 || (h.maxLimit > 0 && req.Limit > h.maxLimit) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit out of range"})
		return
	}

	result, err := h.executor.Execute(r.Context(), req)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, dbexec.ErrEmptyRequest) || errors.Is(err, dbexec.ErrQueryNotFound) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	h.metrics.RecordResultRows(r.Context(), len(result.Rows))
	writeJSON(w, http.StatusOK, result)
}

// dashboardData loads every widget concurrently. The response always has
// one entry per widget; failures settle as {"error": ...} values.
func (h *apiHandler) dashboardData(w http.ResponseWriter, r *http.Request) {
	var req dashboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	results := h.loader.Load(r.Context(), req.Widgets)
	writeJSON(w, http.StatusOK, results)
}

func (h *apiHandler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
