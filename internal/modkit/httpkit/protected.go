package httpkit

import (
	"net/http"
	"strings"

	"spillway/internal/modkit/swaggerkit"
	"spillway/internal/platform/net/middleware"

	phttp "spillway/internal/platform/net/http"
)

// Protected groups routes under the signed request scheme and records secured
// endpoints for swagger. Order on the path is fixed: raw body capture, then
// signature verification, then per tier rate limiting
func Protected(r Router, maxBody int64, auth middleware.AuthPort, limits middleware.RatePort, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(RawBody(maxBody))
		gr.Use(Signed(auth))
		gr.Use(RateLimit(limits))
		fn(&securedRouter{Router: gr, scheme: swaggerkit.SchemeSigned})
	})
}

// AdminOnly groups routes under the shared admin token with address tier limiting
func AdminOnly(r Router, auth middleware.AdminPort, limits middleware.RatePort, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(Admin(auth))
		gr.Use(RateLimit(limits))
		fn(&securedRouter{Router: gr, scheme: swaggerkit.SchemeAdmin})
	})
}

type securedRouter struct {
	Router
	base   string
	scheme string
}

func joinPath(a, b string) string {
	if a == "" {
		if strings.HasPrefix(b, "/") {
			return b
		}
		return "/" + b
	}
	if strings.HasSuffix(a, "/") {
		if strings.HasPrefix(b, "/") {
			return a + b[1:]
		}
		return a + b
	}
	if strings.HasPrefix(b, "/") {
		return a + b
	}
	return a + "/" + b
}

func (s *securedRouter) Route(prefix string, fn func(Router)) {
	s.Router.Route(prefix, func(sub Router) {
		fn(&securedRouter{Router: sub, base: joinPath(s.base, prefix), scheme: s.scheme})
	})
}

// Handle mounts a raw std handler; those carry no doc operation to mark
func (s *securedRouter) Handle(path string, h http.Handler) { s.Router.Handle(path, h) }

func (s *securedRouter) Options(path string, h phttp.Handler) {
	swaggerkit.MarkSecurePath(joinPath(s.base, path), "options", s.scheme)
	s.Router.Options(path, h)
}

func (s *securedRouter) Head(path string, h phttp.Handler) {
	swaggerkit.MarkSecurePath(joinPath(s.base, path), "head", s.scheme)
	s.Router.Head(path, h)
}

func (s *securedRouter) Delete(path string, h phttp.Handler) {
	swaggerkit.MarkSecurePath(joinPath(s.base, path), "delete", s.scheme)
	s.Router.Delete(path, h)
}

func (s *securedRouter) Get(path string, h phttp.Handler) {
	swaggerkit.MarkSecurePath(joinPath(s.base, path), "get", s.scheme)
	s.Router.Get(path, h)
}

func (s *securedRouter) Post(path string, h phttp.Handler) {
	swaggerkit.MarkSecurePath(joinPath(s.base, path), "post", s.scheme)
	s.Router.Post(path, h)
}

func (s *securedRouter) Put(path string, h phttp.Handler) {
	swaggerkit.MarkSecurePath(joinPath(s.base, path), "put", s.scheme)
	s.Router.Put(path, h)
}

func (s *securedRouter) Patch(path string, h phttp.Handler) {
	swaggerkit.MarkSecurePath(joinPath(s.base, path), "patch", s.scheme)
	s.Router.Patch(path, h)
}
