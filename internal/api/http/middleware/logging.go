package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/dtroode/catalog-server/internal/logger"
)

// RequestIDGetter reads the request id stored by RequestID.
type RequestIDGetter interface {
	GetRequestIDFromContext(ctx context.Context) string
}

// Logging logs HTTP requests and their results.
type Logging struct {
	requestIDs RequestIDGetter
	logger     *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(requestIDs RequestIDGetter, logger *logger.Logger) *Logging {
	return &Logging{requestIDs: requestIDs, logger: logger}
}

// Handle logs method, path, duration and status for each request.
func (l *Logging) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", l.requestIDs.GetRequestIDFromContext(r.Context()),
		}
		if rec.status >= http.StatusInternalServerError {
			l.logger.Error("HTTP request failed", args...)
			return
		}
		l.logger.Info("HTTP request completed", args...)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
