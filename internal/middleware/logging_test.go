package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vkmindia80/nexbii/internal/logging"
)

func TestLoggingGeneratesRequestID(t *testing.T) {
	var seen string
	handler := Logging(logging.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if seen == "" {
		t.Fatal("expected a generated request ID in the context")
	}
	if got := rec.Header().Get(RequestIDHeader); got != seen {
		t.Fatalf("response header %q, want the same ID the handler saw (%q)", got, seen)
	}
}

func TestLoggingKeepsCallerRequestID(t *testing.T) {
	handler := Logging(logging.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "req-123" {
		t.Fatalf("got %q, want caller-supplied ID echoed back", got)
	}
}

func TestStatusWriterCapturesFirstStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	sw.WriteHeader(http.StatusTeapot)
	sw.WriteHeader(http.StatusInternalServerError)

	if sw.statusCode != http.StatusTeapot {
		t.Fatalf("statusCode = %d, want first WriteHeader to win", sw.statusCode)
	}
	if rec.Code != http.StatusTeapot {
		t.Fatalf("recorded code = %d", rec.Code)
	}
}

func TestStatusWriterImplicitOK(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	if _, err := sw.Write([]byte("body")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sw.statusCode != http.StatusOK {
		t.Fatalf("statusCode = %d", sw.statusCode)
	}
}
