// Package module implements the rate limit service module
package module

import (
	"spillway/internal/modkit"
	"spillway/internal/modkit/httpkit"
	"spillway/internal/modkit/repokit"
	"spillway/internal/platform/net/middleware"
	"spillway/internal/services/ratelimit/repo"
	"spillway/internal/services/ratelimit/service"
)

// Ports exposed by the rate limit module. Signed runs both tiers and belongs
// after authentication; Address runs the outer tier alone for public routes
type Ports struct {
	Signed  middleware.RatePort
	Address middleware.RatePort
}

// Module implements the rate limit service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new rate limit module
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	binder := repo.NewPG()
	svc := service.New(repokit.TxRunner(deps.PG), binder, service.Config{
		PerAddress: opts.PerAddress,
		PerProject: opts.PerProject,
	})

	m := &Module{deps: deps}
	m.ports = Ports{
		Signed:  httpkit.RateFunc(svc.CheckSigned),
		Address: httpkit.RateFunc(svc.CheckAddress),
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "ratelimit" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
