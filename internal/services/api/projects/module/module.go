// Package module wires the project registry into the API using modkit
package module

import (
	"net/http"

	modkit "spillway/internal/modkit"
	"spillway/internal/modkit/httpkit"
	str "spillway/internal/platform/strings"
	projectshttp "spillway/internal/services/api/projects/http"
	projectsrepo "spillway/internal/services/api/projects/repo"
	projectssvc "spillway/internal/services/api/projects/service"
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

	svc projectssvc.Service
}

// New constructs a projects module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("projects"),
		modkit.WithPrefix("/admin/projects"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)
	svc := projectssvc.New(deps.PG, projectsrepo.NewPG(), projectssvc.Config{
		DefaultRetentionDays: cfg.DefaultRetentionDays,
	})

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Resolver: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		projectshttp.Register(r, m.svc)
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
