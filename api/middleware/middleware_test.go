package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"

	"videoDubber/api/dto"
)

func TestTraceID_ReusesValidHeader(t *testing.T) {
	traceID := uuid.New().String()
	var seen string
	h := TraceID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetTraceID(r.Context())
	}))

	req := httptest.NewRequest("GET", "/status/abc", nil)
	req.Header.Set(TraceIDHeader, traceID)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if seen != traceID {
		t.Errorf("Expected trace id %s in context, got %s", traceID, seen)
	}
	if rec.Header().Get(TraceIDHeader) != traceID {
		t.Errorf("Expected trace id echoed in response header")
	}
}

func TestTraceID_ReplacesGarbage(t *testing.T) {
	var seen string
	h := TraceID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetTraceID(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(TraceIDHeader, "<script>")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if _, err := uuid.Parse(seen); err != nil {
		t.Errorf("Expected generated uuid, got %q", seen)
	}
}

func TestRecovery(t *testing.T) {
	logger := zaptest.NewLogger(t)
	h := TraceID(Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/upload", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", rec.Code)
	}

	var body dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body.Error != "Internal server error" || body.TraceID == "" {
		t.Errorf("Unexpected body %+v", body)
	}
}

func TestLogging_PassesThroughStatus(t *testing.T) {
	logger := zaptest.NewLogger(t)
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/status/abc", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("Expected status 418, got %d", rec.Code)
	}
}
