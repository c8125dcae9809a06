// Package module implements the maintenance service module
package module

import (
	"spillway/internal/modkit"
	"spillway/internal/modkit/httpkit"
	"spillway/internal/modkit/repokit"
	"spillway/internal/services/maintenance/domain"
	"spillway/internal/services/maintenance/repo"
	"spillway/internal/services/maintenance/service"
)

// Ports exposed by the maintenance module. Trigger goes to the ingest
// pipeline; Runner backs the forced sweep command
type Ports struct {
	Trigger domain.TriggerPort
	Runner  domain.RunnerPort
}

// Module implements the maintenance service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new maintenance module
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	binder := repo.NewPG()
	svc := service.New(repokit.TxRunner(deps.PG), binder, service.Config{
		StepTimeout: opts.StepTimeout,
	})

	m := &Module{deps: deps}
	m.ports = Ports{
		Trigger: svc,
		Runner:  svc,
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "maintenance" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
