// internal/infrastructure/middleware/middleware_test.go
package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/damon-houk/currency-converter/internal/infrastructure/i18n"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestIDMiddleware(t *testing.T) {
	// Setup
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Get request ID from context
		requestID := r.Context().Value(requestIDKey)
		assert.NotNil(t, requestID)

		// Write it to the response for testing
		w.Write([]byte(requestID.(string)))
	})

	middleware := RequestIDMiddleware(nextHandler)

	// Create test request
	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	// Test with no existing request ID
	middleware.ServeHTTP(w, req)

	// Verify response
	assert.Equal(t, http.StatusOK, w.Code)
	requestID := w.Header().Get("X-Request-ID")
	assert.NotEmpty(t, requestID)
	assert.Equal(t, requestID, w.Body.String())

	// Test with existing request ID
	req = httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Request-ID", "test-id-123")
	w = httptest.NewRecorder()

	middleware.ServeHTTP(w, req)

	// Verify existing ID was preserved
	assert.Equal(t, "test-id-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "test-id-123", w.Body.String())
}

func TestGetRequestID(t *testing.T) {
	// Test with valid request ID
	ctx := context.WithValue(context.Background(), requestIDKey, "test-id-123")
	assert.Equal(t, "test-id-123", GetRequestID(ctx))

	// Test with no request ID
	assert.Equal(t, "unknown", GetRequestID(context.Background()))
}

func TestRequestIDMiddlewareRejectsMalformedIDs(t *testing.T) {
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(GetRequestID(r.Context())))
	}))

	for _, bad := range []string{"has spaces", "line\nbreak", strings.Repeat("a", 129)} {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, bad)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.NotEqual(t, bad, w.Body.String())
		_, err := uuid.Parse(w.Body.String())
		assert.NoError(t, err, "malformed ID %q should be replaced by a UUID", bad)
	}
}

func TestMiddlewareChain(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := logger.NewZapLogger(zap.New(core))

	router := mux.NewRouter()
	router.Use(RequestIDMiddleware)
	router.Use(LanguageMiddleware(i18n.English))
	router.Use(LoggingMiddleware(log))
	router.HandleFunc("/api/v1/sessions/{id}/view", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(GetRequestID(r.Context())))
	})
	router.HandleFunc("/api/v1/convert", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})
	router.HandleFunc("/api/v1/rates/{base}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	req := httptest.NewRequest("GET", "/api/v1/sessions/abc-123/view?lang=pt-PT", nil)
	req.Header.Set(RequestIDHeader, "test-id-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// The handler saw the caller's request ID
	assert.Equal(t, "test-id-123", w.Body.String())

	require.Equal(t, 1, logs.Len(), "request received is logged at debug only")
	entry := logs.All()[0]
	assert.Equal(t, "Request completed", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "test-id-123", fields["request_id"])
	assert.Equal(t, "/api/v1/sessions/{id}/view", fields["route"])
	assert.Equal(t, "pt-PT", fields["language"])
	assert.Equal(t, "abc-123", fields["session_id"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
	assert.EqualValues(t, len("test-id-123"), fields["content_length"])

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/v1/convert", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/v1/rates/usd", nil))

	rejected := logs.FilterMessage("Request rejected").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, zapcore.WarnLevel, rejected[0].Level)
	assert.Equal(t, "en", rejected[0].ContextMap()["language"])
	assert.NotContains(t, rejected[0].ContextMap(), "session_id")

	failed := logs.FilterMessage("Request failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.ErrorLevel, failed[0].Level)
	assert.Equal(t, "/api/v1/rates/{base}", failed[0].ContextMap()["route"])
}

func TestLanguageMiddleware(t *testing.T) {
	var got i18n.Language
	handler := LanguageMiddleware(i18n.English)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetLanguage(r.Context())
	}))

	tests := []struct {
		name     string
		url      string
		header   string
		expected i18n.Language
	}{
		{"default", "/test", "", i18n.English},
		{"query wins", "/test?lang=pt-PT", "en-US", i18n.Portuguese},
		{"header", "/test", "pt-PT,pt;q=0.9", i18n.Portuguese},
		{"unsupported query falls through to header", "/test?lang=de", "pt-PT", i18n.Portuguese},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.url, nil)
			if tt.header != "" {
				req.Header.Set("Accept-Language", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expected, got)
			assert.Equal(t, string(tt.expected), w.Header().Get("Content-Language"))
		})
	}

	assert.Equal(t, i18n.English, GetLanguage(context.Background()))
}

func TestMetricsMiddleware(t *testing.T) {
	router := mux.NewRouter()
	router.Use(MetricsMiddleware)
	router.HandleFunc("/api/v1/rates/{base}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest("GET", "/api/v1/rates/usd", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(histogramRequestTime), 1)
	assert.Equal(t, "unmatched", routeTemplate(httptest.NewRequest("GET", "/x", nil)))
}

func TestCORS(t *testing.T) {
	handler := NewCORS([]string{"http://localhost:3000"}).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("OPTIONS", "/api/v1/sessions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("GET", "/api/v1/sessions", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
