// Package service implements the two tier fixed-window rate limiter.
//
// Counters live in Postgres so every replica shares the same window. Each
// check is a single atomic upsert: the request is counted first and judged
// after, which keeps concurrent racers from slipping under the cap
package service

import (
	"net"
	"net/http"
	"time"

	"spillway/internal/core/bucket"
	"spillway/internal/modkit/repokit"
	perr "spillway/internal/platform/errors"
	"spillway/internal/platform/logger"
	"spillway/internal/platform/metrics"
	pnet "spillway/internal/platform/net"
	"spillway/internal/platform/net/middleware"
	"spillway/internal/services/ratelimit/domain"
	"spillway/internal/services/ratelimit/repo"
)

// Config for the rate limit service
type Config struct {
	PerAddress int // requests per client address per minute
	PerProject int // default per project cap, rows may override it
}

// Service evaluates the address and tenant tiers for a request
type Service struct {
	Repo   repo.Storage
	binder repokit.Binder[repo.Storage]
	db     repokit.TxRunner
	cfg    Config
}

// New creates a new rate limit service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage], cfg Config) *Service {
	if db == nil {
		panic("ratelimit.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("ratelimit.Service requires a non nil Storage binder")
	}
	if cfg.PerAddress <= 0 {
		cfg.PerAddress = 100
	}
	if cfg.PerProject <= 0 {
		cfg.PerProject = 5000
	}
	return &Service{Repo: binder.Bind(db), binder: binder, db: db, cfg: cfg}
}

// CheckAddress evaluates only the address tier, for routes that carry no
// project identity
func (s *Service) CheckAddress(r *http.Request) []middleware.RateDecision {
	return []middleware.RateDecision{s.addressTier(r, time.Now())}
}

// CheckSigned evaluates the address tier first and the tenant tier second.
// An address denial short-circuits: the project counter must not charge for
// a request the outer tier already refused
func (s *Service) CheckSigned(r *http.Request) []middleware.RateDecision {
	now := time.Now()
	addr := s.addressTier(r, now)
	if addr.Err != nil {
		return []middleware.RateDecision{addr}
	}
	return []middleware.RateDecision{addr, s.tenantTier(r, now)}
}

func (s *Service) addressTier(r *http.Request, now time.Time) middleware.RateDecision {
	count, err := s.Repo.BumpAddress(r.Context(), ClientAddr(r), bucket.Minute(now))
	if err != nil {
		return s.failOpen(r, domain.TierAddress, err)
	}
	return verdict(domain.TierAddress, s.cfg.PerAddress, count, now,
		perr.WireIPRateLimited, "address rate limit exceeded")
}

func (s *Service) tenantTier(r *http.Request, now time.Time) middleware.RateDecision {
	id := pnet.ProjectID(r.Context())
	if id == 0 {
		// signed routes authenticate before limiting, so this only happens
		// on a miswired router. Skip the tier rather than charge a shared key
		return middleware.RateDecision{Tier: domain.TierTenant}
	}
	count, limit, err := s.Repo.BumpTenant(r.Context(), id, bucket.Minute(now), s.cfg.PerProject)
	if err != nil {
		return s.failOpen(r, domain.TierTenant, err)
	}
	return verdict(domain.TierTenant, limit, count, now,
		perr.WireProjectRateLimited, "project rate limit exceeded")
}

// verdict turns a post-increment count into a decision. Remaining never goes
// negative even when the count overshoots the cap
func verdict(tier string, limit, count int, now time.Time, wire, msg string) middleware.RateDecision {
	d := middleware.RateDecision{
		Tier:      tier,
		Limit:     limit,
		Remaining: limit - count,
		Reset:     bucket.NextMinuteStart(now),
	}
	if d.Remaining < 0 {
		d.Remaining = 0
	}
	if count > limit {
		metrics.RateLimited.WithLabelValues(tier).Inc()
		d.Err = perr.Wiref(perr.ErrorCodeTooManyRequests, wire, "%s", msg)
	}
	return d
}

// failOpen admits the request when the counter store is unreachable.
// Limit 0 keeps the X-RateLimit headers off the response so clients cannot
// mistake the outage for a fresh window
func (s *Service) failOpen(r *http.Request, tier string, err error) middleware.RateDecision {
	metrics.LimiterFailOpen.Inc()
	logger.C(r.Context()).Warn().Err(err).Str("tier", tier).Msg("rate limiter unavailable, allowing request")
	return middleware.RateDecision{Tier: tier}
}

// ClientAddr extracts the client IP for the address tier. RealIP middleware
// has already folded X-Forwarded-For into RemoteAddr; a bare host without a
// port passes through unchanged
func ClientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
