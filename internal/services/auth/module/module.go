// Package module implements the auth service module
package module

import (
	"spillway/internal/modkit"
	"spillway/internal/modkit/httpkit"
	"spillway/internal/platform/net/middleware"
	"spillway/internal/services/auth/domain"
	"spillway/internal/services/auth/service"
)

// Ports exposed by the auth module
type Ports struct {
	Signer middleware.AuthPort
	Admin  middleware.AdminPort
}

// Module implements the auth service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new auth module. The registry comes from the projects
// module so auth stays free of storage concerns
func New(deps modkit.Deps, registry domain.RegistryPort) *Module {
	opts := FromConfig(deps.Cfg)

	svc := service.New(registry, service.Config{
		Secret:     opts.Secret,
		AdminToken: opts.AdminToken,
		Timeout:    opts.Timeout,
	})

	m := &Module{deps: deps}
	m.ports = Ports{
		Signer: httpkit.AuthFunc(svc.Authenticate),
		Admin:  httpkit.AdminFunc(svc.Authorize),
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "auth" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
