// Package middleware holds the HTTP wrappers shared by every API route: request IDs,
// response language, request logging, latency metrics and CORS.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestIDHeader carries the request ID in both directions
const RequestIDHeader = "X-Request-ID"

// Client supplied IDs are echoed into logs and headers, so only short opaque tokens are accepted
var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// RequestIDMiddleware tags each request with an ID, reusing a well-formed X-Request-ID
// from the caller and minting a UUID otherwise
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if !requestIDPattern.MatchString(requestID) {
			requestID = uuid.New().String()
		}

		w.Header().Set(RequestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoggingMiddleware writes one line per request with the matched route, the negotiated
// language and, for session routes, the session ID. 5xx responses log at error level,
// 4xx at warn. LanguageMiddleware must run first for the language field to be set.
func LoggingMiddleware(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			recorder := newResponseRecorder(w)

			log.Debug("Request received", map[string]interface{}{
				"request_id":  GetRequestID(ctx),
				"method":      r.Method,
				"path":        r.URL.Path,
				"query":       r.URL.RawQuery,
				"remote_addr": r.RemoteAddr,
				"user_agent":  r.UserAgent(),
			})

			next.ServeHTTP(recorder, r)

			fields := map[string]interface{}{
				"request_id":     GetRequestID(ctx),
				"method":         r.Method,
				"route":          routeTemplate(r),
				"path":           r.URL.Path,
				"language":       string(GetLanguage(ctx)),
				"status":         recorder.statusCode,
				"duration_ms":    recorder.elapsed().Milliseconds(),
				"content_length": recorder.contentLength,
			}
			if id, ok := mux.Vars(r)["id"]; ok {
				fields["session_id"] = id
			}

			switch {
			case recorder.statusCode >= http.StatusInternalServerError:
				log.Error("Request failed", fields)
			case recorder.statusCode >= http.StatusBadRequest:
				log.Warn("Request rejected", fields)
			default:
				log.Info("Request completed", fields)
			}
		})
	}
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	requestID, ok := ctx.Value(requestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

// responseRecorder captures the status and body size written by a handler
type responseRecorder struct {
	http.ResponseWriter
	start         time.Time
	statusCode    int
	contentLength int64
	wroteHeader   bool
}

func newResponseRecorder(w http.ResponseWriter) *responseRecorder {
	return &responseRecorder{
		ResponseWriter: w,
		start:          time.Now(),
		statusCode:     http.StatusOK,
	}
}

func (rr *responseRecorder) WriteHeader(statusCode int) {
	if !rr.wroteHeader {
		rr.statusCode = statusCode
		rr.wroteHeader = true
	}
	rr.ResponseWriter.WriteHeader(statusCode)
}

func (rr *responseRecorder) Write(b []byte) (int, error) {
	rr.wroteHeader = true
	n, err := rr.ResponseWriter.Write(b)
	rr.contentLength += int64(n)
	return n, err
}

func (rr *responseRecorder) elapsed() time.Duration {
	return time.Since(rr.start)
}
