package middleware

import (
	"net/http"
	"strconv"

	pnet "spillway/internal/platform/net"
)

// RateDecision is one tier's verdict plus the numbers for header stamping
type RateDecision struct {
	Tier      string // header suffix, "address" or "tenant"
	Limit     int
	Remaining int
	Reset     int64 // unix seconds when the window rolls
	Err       error // wire-coded error when the tier denied
}

// RatePort evaluates the applicable tiers for a request in order.
// A denied tier short-circuits: later tiers must not be counted
type RatePort interface {
	Check(r *http.Request) []RateDecision
}

// RateLimit stamps the X-RateLimit-* headers for every evaluated tier and
// rejects with Retry-After once a tier denied. Counter write failures never
// surface here: the port fails open and reports the tier as allowed
func RateLimit(p RatePort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			var denied *RateDecision
			for _, d := range p.Check(r) {
				if d.Limit > 0 {
					h := w.Header()
					h.Set("X-RateLimit-Limit-"+d.Tier, strconv.Itoa(d.Limit))
					h.Set("X-RateLimit-Remaining-"+d.Tier, strconv.Itoa(d.Remaining))
					h.Set("X-RateLimit-Reset-"+d.Tier, strconv.FormatInt(d.Reset, 10))
				}
				if d.Err != nil && denied == nil {
					dd := d
					denied = &dd
				}
			}
			if denied != nil {
				w.Header().Set("Retry-After", "60")
				status, body := pnet.Error(denied.Err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
