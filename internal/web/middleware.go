package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
)

// RequestIDHeader carries the id assigned to each request.
const RequestIDHeader = "X-Request-ID"

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLogger assigns a request id and logs each completed request.
func requestLogger(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqID := r.Header.Get(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, reqID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log.InfoContext(r.Context(), "Handled request",
			"request_id", reqID, "method", r.Method,
			"path", r.URL.Path, "status", rec.status,
			"duration", time.Since(start))
	})
}

// recoveryLogger adapts slog to the logger gorilla's recovery handler
// expects.
type recoveryLogger struct {
	log *slog.Logger
}

// Println logs a recovered panic.
func (l *recoveryLogger) Println(v ...interface{}) {
	l.log.Error("Recovered from handler panic", "panic", fmt.Sprint(v...))
}

// A compile time check to ensure recoveryLogger satisfies gorilla's
// recovery logger interface.
var _ handlers.RecoveryHandlerLogger = (*recoveryLogger)(nil)

// withMiddleware wraps the router with panic recovery, compression and
// request logging. Recovery sits inside compression so a recovered panic sets
// the status before the gzip writer flushes.
func withMiddleware(log *slog.Logger, next http.Handler) http.Handler {
	h := handlers.RecoveryHandler(
		handlers.RecoveryLogger(&recoveryLogger{log: log}),
	)(next)
	h = handlers.CompressHandler(h)

	return requestLogger(log, h)
}
