package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{name: "ok", status: http.StatusOK, wantLevel: "level=INFO"},
		{name: "client error", status: http.StatusNotFound, wantLevel: "level=WARN"},
		{name: "server error", status: http.StatusServiceUnavailable, wantLevel: "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.NotEmpty(t, RequestIDFromContext(r.Context()))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("hello"))
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/access-tokens?searchVal=secret", nil)
			w := httptest.NewRecorder()
			LoggingMiddleware(logger)(next).ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

			out := buf.String()
			assert.Contains(t, out, tt.wantLevel)
			assert.Contains(t, out, "path=/api/v1/access-tokens")
			assert.Contains(t, out, "bytes_written=5")
			assert.Contains(t, out, "request_id="+w.Header().Get(RequestIDHeader))
			assert.NotContains(t, out, "secret")
		})
	}
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	logger := setupTestLogger()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	t.Run("client id is kept", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		LoggingMiddleware(logger)(next).ServeHTTP(w, req)
		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	})

	t.Run("unsafe id is replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "bad id\nwith newline")
		w := httptest.NewRecorder()
		LoggingMiddleware(logger)(next).ServeHTTP(w, req)
		got := w.Header().Get(RequestIDHeader)
		assert.NotEqual(t, "bad id\nwith newline", got)
		assert.Len(t, got, 36)
	})

	t.Run("too long id is replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("a", 100))
		w := httptest.NewRecorder()
		LoggingMiddleware(logger)(next).ServeHTTP(w, req)
		assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	})
}

func TestLoggingWithSkip_RequestIDInContext(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	})
	handler := LoggingWithSkip(logger, []string{"/metrics"})(next)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set(RequestIDHeader, "scrape-42")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "scrape-42", seen)
	assert.Equal(t, "scrape-42", w.Header().Get(RequestIDHeader))
}

func TestLoggingWithSkip(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	handler := LoggingWithSkip(logger, []string{"/api/v1/health"})(next)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Empty(t, buf.String())
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/access-tokens", nil))
	assert.Contains(t, buf.String(), "HTTP request")
}
