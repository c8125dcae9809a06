// Package module wires log ingestion and retrieval into the API using modkit
package module

import (
	"net/http"

	modkit "spillway/internal/modkit"
	"spillway/internal/modkit/httpkit"
	str "spillway/internal/platform/strings"
	logshttp "spillway/internal/services/api/logs/http"
	logsrepo "spillway/internal/services/api/logs/repo"
	logssvc "spillway/internal/services/api/logs/service"
)

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws   []func(http.Handler) http.Handler
	ports any

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc logssvc.Service
}

// New constructs a logs module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("logs"),
		modkit.WithPrefix("/log"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Sweeper == nil {
		panic("logs module requires Sweeper port (from services/maintenance)")
	}

	cfg := FromConfig(deps.Cfg)
	svc := logssvc.New(deps.PG, logsrepo.NewPG(), injected.Sweeper, logssvc.Config{
		MaxEvents: cfg.MaxEvents,
		Threshold: cfg.Threshold,
	})

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = injected

	external := b.Register
	m.register = func(r httpkit.Router) {
		logshttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(str.MustPrefix(m.prefix), func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }
