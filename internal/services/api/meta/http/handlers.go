// Package http provides the service probes and build info endpoints
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"spillway/internal/core/version"
	"spillway/internal/modkit/httpkit"
	perr "spillway/internal/platform/errors"
)

// Pinger is satisfied by store adapters that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// Readiness gives the store this long to answer before the probe fails
const readyTimeout = 2 * time.Second

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          any
}

type handlers struct {
	deps Deps
}

// Register mounts the probe routes at the router root, outside any API
// prefix, so orchestrators reach them without keys or signatures
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	httpkit.Get(r, "/healthz", h.health)
	httpkit.Get(r, "/readyz", h.ready)
}

// RegisterVersion mounts build info; the caller picks the guarded group
func RegisterVersion(r httpkit.Router) {
	h := &handlers{}
	httpkit.Get(r, "/version", h.version)
}

//
// Swagger DTOs and route docs
//

// HealthResponse is the liveness payload
// swagger:model
type HealthResponse struct {
	Status  string `json:"status"  example:"ok"`
	Service string `json:"service" example:"spillway-api"`
	Started string `json:"started" example:"2026-08-25T13:00:00Z"`
	Now     string `json:"now"     example:"2026-08-25T13:05:00Z"`
}

// ReadyResponse reports store readiness
type ReadyResponse struct {
	Status string `json:"status" example:"ok"`
	Now    string `json:"now"    example:"2026-08-25T13:05:00Z"`
}

// swagger:route GET /healthz Meta metaHealth
// @Summary Liveness probe
// @Tags Meta
// @Produce json
// @Success 200 type HealthResponse ok
// @Router /healthz [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		Status:  "ok",
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// swagger:route GET /readyz Meta metaReady
// @Summary Readiness probe, pings the store
// @Tags Meta
// @Produce json
// @Success 200 type ReadyResponse ok
// @Failure 503 {object} any "store unreachable"
// @Router /readyz [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	p, ok := h.deps.PG.(Pinger)
	if !ok || p == nil {
		return nil, perr.Unavailablef("store not wired")
	}

	ctx, cancel := stdctx.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	// wrap rather than interpolate: the driver text stays on the chain for
	// the access log and out of the client envelope
	if err := p.Ping(ctx); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "store unreachable")
	}
	return ReadyResponse{
		Status: "ok",
		Now:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// swagger:route GET /version Meta metaVersion
// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 type version.BuildInfo ok
// @Router /version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}
