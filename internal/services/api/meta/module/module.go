// Package module wires the probe endpoints into the API using a tiny module
package module

import (
	"net/http"
	"time"

	modkit "spillway/internal/modkit"
	"spillway/internal/modkit/httpkit"
	str "spillway/internal/platform/strings"

	metahttp "spillway/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	deps modkit.Deps
	name string
	mws  []func(http.Handler) http.Handler

	register func(httpkit.Router)

	startedAt time.Time
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
	}, opts...)...)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		mws:       b.Mw,
		startedAt: time.Now(),
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		metahttp.Register(r, metahttp.Deps{
			ServiceName: "spillway-api",
			StartedAt:   m.startedAt,
			PG:          deps.PG,
		})
		if external != nil {
			external(r)
		}
	}

	return m
}

// MountRoutes implements the modkit.Module interface. Probes register at
// the router root: no prefix, orchestrators hit them directly
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Group(func(gr httpkit.Router) {
		for _, mw := range m.mws {
			gr.Use(mw)
		}
		if m.register != nil {
			m.register(gr)
		}
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.name, "meta") }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }

// RegisterVersion mounts the build info route on the given router. It lives
// apart from the probes so callers can place it under the API prefix
func RegisterVersion(r httpkit.Router) { metahttp.RegisterVersion(r) }
