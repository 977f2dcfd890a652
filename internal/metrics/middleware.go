package metrics

import (
	"net/http"
	"strconv"
	"time"
)

// Middleware wraps an HTTP handler with request count and latency metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rww := &responseWriterWrapper{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		startTime := time.Now()
		next.ServeHTTP(rww, r)
		duration := time.Since(startTime).Seconds()

		endpoint := r.URL.Path
		HTTPRequestsTotal.WithLabelValues(endpoint, r.Method, strconv.Itoa(rww.statusCode)).Inc()
		HTTPRequestDuration.WithLabelValues(endpoint, r.Method).Observe(duration)
	})
}

// responseWriterWrapper captures the status code written by the handler.
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rww *responseWriterWrapper) WriteHeader(statusCode int) {
	rww.statusCode = statusCode
	rww.ResponseWriter.WriteHeader(statusCode)
}
