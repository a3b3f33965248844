package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/handlers"

	"github.com/okian/energy-analytics/pkg/logger"
	"github.com/okian/energy-analytics/pkg/metrics"
)

// MetricsMiddleware records request count, latency and error class per endpoint.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		elapsed := float64(time.Since(start).Microseconds()) / 1000
		code := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, code)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, code, elapsed)

		if rec.status >= http.StatusBadRequest {
			kind := errorKind(rec.status)
			metrics.RecordErrorByEndpoint(endpoint, r.Method, kind)
			metrics.RecordErrorByType(kind, errorSeverity(rec.status))
		}
	}
}

// errorKind buckets a failing status into the labels used on error metrics.
func errorKind(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "server_error"
	case status == http.StatusRequestEntityTooLarge:
		return codeTooLarge
	case status == http.StatusNotFound:
		return "not_found"
	case status == http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case status == http.StatusTooManyRequests:
		return "rate_limit"
	default:
		return "client_error"
	}
}

func errorSeverity(status int) string {
	if status >= http.StatusInternalServerError {
		return "high"
	}
	return "medium"
}

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

func (rw *statusRecorder) Unwrap() http.ResponseWriter { return rw.ResponseWriter }

// Wrap applies the outer middleware stack: access logging, panic recovery
// and response compression. A panicking handler answers 500 and the server
// keeps serving.
func Wrap(h http.Handler, log logger.Logger) http.Handler {
	h = handlers.CompressHandler(h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{log: log}),
		handlers.PrintRecoveryStack(true),
	)(h)
	return handlers.CustomLoggingHandler(io.Discard, h, accessLog(log))
}

// recoveryLogger adapts logger.Logger to the gorilla recovery logger.
type recoveryLogger struct {
	log logger.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	metrics.RecordErrorByType("panic", "high")
	l.log.Error(context.Background(), "handler panic recovered", logger.String("panic", fmt.Sprint(v...)))
}

func accessLog(log logger.Logger) handlers.LogFormatter {
	return func(_ io.Writer, p handlers.LogFormatterParams) {
		log.Debug(p.Request.Context(), "http request",
			logger.String("method", p.Request.Method),
			logger.String("path", p.URL.Path),
			logger.Int("status", p.StatusCode),
			logger.Int("size", p.Size),
			logger.Duration("elapsed", time.Since(p.TimeStamp)),
		)
	}
}
