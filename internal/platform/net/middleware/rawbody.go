package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	perr "spillway/internal/platform/errors"
	pnet "spillway/internal/platform/net"
)

type rawBodyKey struct{}

// RawBody reads and retains the request body so later stages (signature
// verification, ingest parsing) see the exact bytes that crossed the wire.
// The body is replaced with a replayable reader. Bodies over maxBytes are
// rejected before auth ever runs
func RawBody(maxBytes int64, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}
			limited := http.MaxBytesReader(w, r.Body, maxBytes)
			b, err := io.ReadAll(limited)
			if err != nil {
				// a truncated upload is the caller's problem too, but it is
				// not an oversize problem: keep the messages apart
				cause := perr.Wiref(perr.ErrorCodeValidation, perr.WireInvalidEventData,
					"request body could not be read")
				var over *http.MaxBytesError
				if errors.As(err, &over) {
					cause = perr.Wiref(perr.ErrorCodeValidation, perr.WireInvalidEventData,
						"request body exceeds %d bytes", maxBytes)
				}
				status, body := pnet.Error(cause, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(b))
			next.ServeHTTP(w, r.WithContext(WithRawBody(r.Context(), b)))
		})
	}
}

// WithRawBody stores already-read body bytes on the context, in the same
// slot RawBody fills
func WithRawBody(ctx context.Context, b []byte) context.Context {
	return context.WithValue(ctx, rawBodyKey{}, b)
}

// RawBodyFrom returns the captured body bytes when RawBody ran upstream
func RawBodyFrom(ctx context.Context) ([]byte, bool) {
	b, ok := ctx.Value(rawBodyKey{}).([]byte)
	return b, ok
}
