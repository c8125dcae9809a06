package httpkit

import "net/http"

// MountAPI mounts a subrouter under /api, applies any per-scope middleware,
// then invokes mount to register routes on that scoped router
//
// example:
//
//	httpkit.MountAPI(r, nil, func(api httpkit.Router) {
//	  logs.MountRoutes(api)
//	})
func MountAPI(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route("/api", func(api Router) {
		if len(mw) > 0 {
			api.Use(mw...)
		}
		mount(api)
	})
}
