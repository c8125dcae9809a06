package middleware

import (
	"net/http"
	"strconv"

	"spillway/internal/platform/logger"
	pnet "spillway/internal/platform/net"
	"spillway/internal/platform/store"
)

// AuthPort is the seam the auth service implements for signed ingest routes
type AuthPort interface {
	// Authenticate resolves the calling project from the request headers and
	// the captured body signature, or fails with a wire-coded error
	Authenticate(r *http.Request) (projectID int64, slug string, err error)
}

// AdminPort guards operator endpoints
type AdminPort interface {
	// Authorize verifies the admin token on the request
	Authorize(r *http.Request) error
}

// Signed guards a route group with project key and signature auth.
// Identity lands on the request context for handlers, log lines, and
// query traces. A nil port is a no-op until wired
func Signed(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			id, slug, err := p.Authenticate(r)
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			ctx := pnet.WithProject(r.Context(), id, slug)
			ctx = store.WithProject(ctx, id)
			ctx = store.WithRequestID(ctx, pnet.RequestID(ctx))
			ctx = logger.WithRequest(ctx, pnet.RequestID(ctx), strconv.FormatInt(id, 10))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin rejects requests that do not carry a valid operator token
func Admin(p AdminPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			if err := p.Authorize(r); err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
