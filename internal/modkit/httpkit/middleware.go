package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	phttp "spillway/internal/platform/net/http"
	"spillway/internal/platform/net/middleware"
)

// CommonStack returns a baseline per module middleware slice
// compose with your auth or limiting middleware as needed in main
func CommonStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		// tracing / correlation
		middleware.RequestID(),
		middleware.RealIP(),

		// safety
		middleware.RecoverJSON,

		// cache / freshness
		middleware.NoCache(),

		// observability
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: 500 * time.Millisecond}),
		middleware.Metrics(),

		// cross-origin (tweak config in main if needed)
		middleware.CORS(middleware.CORSOptions{}),
		middleware.Compress(flate.BestSpeed),
		middleware.RedirectSlashes(),
		middleware.StripSlashes(),
		middleware.Timeout(30 * 1e9), // 30s
	}
}

// Signed wires the signed request middleware to the platform JSON writer
func Signed(p middleware.AuthPort) func(http.Handler) http.Handler {
	// middleware expects write func(w http.ResponseWriter, status int, body any)
	// use phttp.JSON which matches that signature
	return middleware.Signed(p, phttp.JSON)
}

// Admin wires the admin token middleware to the platform JSON writer
func Admin(p middleware.AdminPort) func(http.Handler) http.Handler {
	return middleware.Admin(p, phttp.JSON)
}

// RateLimit wires the rate limit middleware to the platform JSON writer
func RateLimit(p middleware.RatePort) func(http.Handler) http.Handler {
	return middleware.RateLimit(p, phttp.JSON)
}

// RawBody wires the raw body capture middleware to the platform JSON writer
// mount it before Signed so the verifier sees the exact bytes on the wire
func RawBody(maxBytes int64) func(http.Handler) http.Handler {
	return middleware.RawBody(maxBytes, phttp.JSON)
}
