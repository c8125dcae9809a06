// Package api provides the HTTP API for the application
package api

import (
	"spillway/internal/platform/config"
	"spillway/internal/platform/logger"
	"spillway/internal/platform/metrics"
	phttp "spillway/internal/platform/net/http"
	"spillway/internal/platform/store"

	"spillway/internal/modkit"
	"spillway/internal/modkit/httpkit"
	"spillway/internal/modkit/module"
	"spillway/internal/modkit/swaggerkit"

	logsmod "spillway/internal/services/api/logs/module"
	metamod "spillway/internal/services/api/meta/module"
	projectsmod "spillway/internal/services/api/projects/module"
	authmod "spillway/internal/services/auth/module"
	maintmod "spillway/internal/services/maintenance/module"
	ratelimitmod "spillway/internal/services/ratelimit/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router.
//
// Modules mount under the guard tier their routes demand rather than one
// uniform loop: ingestion and query sit behind the signed scheme with both
// limiter tiers, the registry sits behind the admin token with the address
// tier alone, and probes stay open at the root
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
	}

	// Port-only guard modules come up first so the HTTP modules can consume
	// their ports. Auth resolves keys through the projects module, keeping
	// the registry table behind exactly one owner
	limits := ratelimitmod.New(deps)
	ratePorts := module.MustPortsOf[ratelimitmod.Ports](limits)

	projects := projectsmod.New(deps)
	registry := module.MustPortsOf[projectsmod.Ports](projects).Resolver

	auth := authmod.New(deps, registry)
	authPorts := module.MustPortsOf[authmod.Ports](auth)

	maint := maintmod.New(deps)
	maintPorts := module.MustPortsOf[maintmod.Ports](maint)

	// Ingest pokes the maintenance trigger after every accepted batch
	logs := logsmod.New(deps, modkit.WithPorts(logsmod.Ports{
		Sweeper: maintPorts.Trigger,
	}))

	meta := metamod.New(deps)

	// register each module's ports under its own name (for cross-module lookups)
	mods := []module.Module{limits, projects, auth, maint, logs, meta}
	for _, m := range mods {
		module.Register(m.Name(), m.Ports())
	}

	// Root middleware runs for probes and the scrape endpoint too, so every
	// response carries a request id and panics map to the JSON envelope
	r.Use(httpkit.CommonStack()...)

	// probes and metrics stay outside the API prefix
	meta.MountRoutes(r)
	r.Handle("/metrics", metrics.Handler())

	maxBody := int64(opt.Config.MayInt("MAX_PAYLOAD_BYTES", 524288))

	httpkit.MountAPI(r, nil, func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		// signed surface: raw body capture, signature check, then both tiers
		httpkit.Protected(api, maxBody, authPorts.Signer, ratePorts.Signed, func(gr httpkit.Router) {
			logs.MountRoutes(gr)
		})

		// admin surface: shared token, address tier only (no tenant resolves)
		httpkit.AdminOnly(api, authPorts.Admin, ratePorts.Address, func(gr httpkit.Router) {
			projects.MountRoutes(gr)
		})

		// open surface: build info, address tier only
		api.Group(func(gr httpkit.Router) {
			gr.Use(httpkit.RateLimit(ratePorts.Address))
			metamod.RegisterVersion(gr)
		})
	})
}
