package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestResponseWriter_WriteHeader(t *testing.T) {
	rr := httptest.NewRecorder()
	wrapped := wrapResponseWriter(rr)

	wrapped.WriteHeader(http.StatusNotFound)

	if wrapped.Status() != http.StatusNotFound {
		t.Errorf("Status() = %d, want %d", wrapped.Status(), http.StatusNotFound)
	}
}

func TestResponseWriter_WriteHeaderIdempotent(t *testing.T) {
	rr := httptest.NewRecorder()
	wrapped := wrapResponseWriter(rr)

	wrapped.WriteHeader(http.StatusNotFound)
	wrapped.WriteHeader(http.StatusOK) // should be ignored

	if wrapped.Status() != http.StatusNotFound {
		t.Errorf("Status() = %d, want %d (second WriteHeader should be ignored)", wrapped.Status(), http.StatusNotFound)
	}
}

func TestResponseWriter_DefaultStatus(t *testing.T) {
	wrapped := wrapResponseWriter(httptest.NewRecorder())

	if wrapped.Status() != 0 {
		t.Errorf("Status() = %d before any write, want 0", wrapped.Status())
	}
	if wrapped.statusOrOK() != http.StatusOK {
		t.Errorf("statusOrOK() = %d before any write, want 200", wrapped.statusOrOK())
	}
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel zapcore.Level
	}{
		{"created", http.StatusCreated, zapcore.InfoLevel},
		{"not found", http.StatusNotFound, zapcore.WarnLevel},
		{"bad gateway", http.StatusBadGateway, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			handler := chimw.RequestID(Logger(zap.New(core))(next))

			req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.status {
				t.Errorf("handler returned wrong status code: got %d want %d", rr.Code, tt.status)
			}

			entries := logs.All()
			if len(entries) != 1 {
				t.Fatalf("expected 1 log entry, got %d", len(entries))
			}
			entry := entries[0]
			if entry.Level != tt.wantLevel {
				t.Errorf("level = %v, want %v", entry.Level, tt.wantLevel)
			}
			fields := entry.ContextMap()
			if fields["path"] != "/api/accounts" {
				t.Errorf("path field = %v", fields["path"])
			}
			if fields["status"] != int64(tt.status) {
				t.Errorf("status field = %v, want %d", fields["status"], tt.status)
			}
			if fields["request_id"] == nil || fields["request_id"] == "" {
				t.Error("expected request_id field")
			}
		})
	}
}

func TestLogger_DefaultStatus(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	handler := Logger(zap.New(core))(next)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %d want %d", rr.Code, http.StatusOK)
	}
	if got := logs.All()[0].ContextMap()["status"]; got != int64(http.StatusOK) {
		t.Errorf("status field = %v, want 200", got)
	}
}
