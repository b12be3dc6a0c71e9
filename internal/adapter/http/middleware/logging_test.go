package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggingMiddlewareEmitsRequestFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte("insufficient stock"))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", nil)
	req.RemoteAddr = "10.0.0.1:4567"
	rec := httptest.NewRecorder()

	NewLoggingMiddleware(logger).Wrap(next).ServeHTTP(rec, req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode log line: %v", err)
	}

	if entry["method"] != http.MethodPost || entry["path"] != "/api/v1/transactions" {
		t.Errorf("expected method/path fields, got %v", entry)
	}

	if entry["status"] != float64(http.StatusUnprocessableEntity) {
		t.Errorf("expected status 422, got %v", entry["status"])
	}

	if entry["bytes"] != float64(len("insufficient stock")) {
		t.Errorf("expected bytes written to be logged, got %v", entry["bytes"])
	}

	if entry["remote_addr"] != "10.0.0.1:4567" {
		t.Errorf("expected remote_addr field, got %v", entry["remote_addr"])
	}
}

func TestLoggingMiddlewareDefaultsToOK(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	NewLoggingMiddleware(logger).Wrap(next).ServeHTTP(rec, req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode log line: %v", err)
	}

	if entry["status"] != float64(http.StatusOK) {
		t.Errorf("expected implicit 200, got %v", entry["status"])
	}
}
