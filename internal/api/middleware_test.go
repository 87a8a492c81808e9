package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glaubern8n01/rotaspeed-unificado/internal/platform/obs"
)

func TestLoggingMiddlewareAssignsRequestID(t *testing.T) {
	var first, second string
	h := loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if first == "" {
			first = obs.RequestID(r.Context())
		} else {
			second = obs.RequestID(r.Context())
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	if first == "" || second == "" {
		t.Fatal("handler saw no request id in its context")
	}
	if first == second {
		t.Fatalf("request id %q reused across requests", first)
	}
}

func TestStatusWriterRecordsImplicitOK(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rec}

	if _, err := sw.Write([]byte("ok")); err != nil {
		t.Fatalf("write: %v", err)
	}

	if sw.status != http.StatusOK {
		t.Fatalf("status = %d, want implicit 200", sw.status)
	}
	if sw.bytes != 2 {
		t.Fatalf("bytes = %d, want 2", sw.bytes)
	}
}
