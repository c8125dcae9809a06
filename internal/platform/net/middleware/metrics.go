package middleware

import (
	"net/http"

	"spillway/internal/platform/metrics"
)

// Metrics counts finished requests by method and status class
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cw := &captureWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(cw, r)
			metrics.ObserveRequest(r.Method, cw.status)
		})
	}
}
