package modkit

import (
	"net/http"
	"testing"

	phttp "spillway/internal/platform/net/http"
)

func TestWithName(t *testing.T) {
	t.Parallel()
	var c buildCfg
	WithName("logs")(&c)
	if c.name != "logs" {
		t.Fatalf("expected name=logs got=%q", c.name)
	}
}

func TestWithPrefix(t *testing.T) {
	t.Parallel()
	var c buildCfg
	WithPrefix("/admin/projects")(&c)
	if c.prefix != "/admin/projects" {
		t.Fatalf("expected prefix=/admin/projects got=%q", c.prefix)
	}
}

func TestWithMiddlewares_AccumulatesAndOrder(t *testing.T) {
	t.Parallel()

	ran := []string{}
	mw := func(tag string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ran = append(ran, tag)
				if next != nil {
					next.ServeHTTP(w, r)
				}
			})
		}
	}

	// two calls accumulate, first call's middlewares stay first
	var c buildCfg
	WithMiddlewares(mw("rawbody"), mw("signed"))(&c)
	WithMiddlewares(mw("ratelimit"))(&c)

	if len(c.mw) != 3 {
		t.Fatalf("expected 3 middlewares got=%d", len(c.mw))
	}

	var h http.Handler = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	for i := len(c.mw) - 1; i >= 0; i-- {
		h = c.mw[i](h)
	}
	h.ServeHTTP(nil, nil)

	want := []string{"rawbody", "signed", "ratelimit"}
	if len(ran) != len(want) {
		t.Fatalf("unexpected call count got=%d want=%d", len(ran), len(want))
	}
	for i := range want {
		if ran[i] != want[i] {
			t.Fatalf("middleware order mismatch at %d: got=%q want=%q", i, ran[i], want[i])
		}
	}
}

func TestWithPorts_GenericStoresConcreteType(t *testing.T) {
	t.Parallel()

	// shaped like the sweeper port the logs module receives
	type Ports struct {
		Trigger func()
		Label   string
	}

	pinged := 0
	var c buildCfg
	WithPorts(Ports{Trigger: func() { pinged++ }, Label: "sweeper"})(&c)

	ps, ok := c.ports.(Ports)
	if !ok {
		t.Fatalf("expected ports of type Ports got %T", c.ports)
	}
	if ps.Label != "sweeper" {
		t.Fatalf("unexpected ports value: %+v", ps)
	}
	ps.Trigger()
	if pinged != 1 {
		t.Fatalf("port func lost on the way through: pinged=%d", pinged)
	}
}

func TestWithSubrouter_SetsFactory(t *testing.T) {
	t.Parallel()

	called := false
	var got phttp.Router

	// records invocation and returns the input unchanged
	factory := func(r phttp.Router) phttp.Router {
		called = true
		got = r
		return r
	}

	var c buildCfg
	WithSubrouter(factory)(&c)

	if c.subrouter == nil {
		t.Fatal("expected subrouter to be set")
	}

	var r phttp.Router = nil
	out := c.subrouter(r)

	if !called {
		t.Fatal("expected subrouter factory to be called")
	}
	if got != r || out != r {
		t.Fatalf("subrouter factory should be identity: got=%v out=%v want=%v", got, out, r)
	}
}

func TestWithRegister_SetsAndCalls(t *testing.T) {
	t.Parallel()

	var c buildCfg
	called := false
	var got phttp.Router

	WithRegister(func(r phttp.Router) {
		called = true
		got = r
	})(&c)

	if c.register == nil {
		t.Fatal("expected register to be set")
	}

	var r phttp.Router
	c.register(r)

	if !called {
		t.Fatal("expected register function to be called")
	}
	if got != r {
		t.Fatalf("expected register to receive the same router value")
	}
}

func TestOptions_Compose(t *testing.T) {
	t.Parallel()

	type ports struct{ MaxEvents int }

	opts := []Option{
		WithName("logs"),
		WithPrefix("/log"),
		WithMiddlewares(func(next http.Handler) http.Handler { return next }),
		WithPorts(ports{MaxEvents: 250}),
	}

	var c buildCfg
	for _, opt := range opts {
		opt(&c)
	}

	if c.name != "logs" || c.prefix != "/log" {
		t.Fatalf("unexpected cfg: name=%q prefix=%q", c.name, c.prefix)
	}
	if len(c.mw) != 1 {
		t.Fatalf("expected 1 middleware got=%d", len(c.mw))
	}
	p, ok := c.ports.(ports)
	if !ok || p.MaxEvents != 250 {
		t.Fatalf("expected ports{MaxEvents:250} got %T %+v", c.ports, c.ports)
	}
}
