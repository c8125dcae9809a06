package swaggerkit

import (
	"strings"
	"sync"
)

// Scheme tags routers pass to MarkSecurePath. The doc handler expands them
// into the OAS security schemes declared in applySecurity
const (
	SchemeSigned = "signed"
	SchemeAdmin  = "admin"
)

// securedPaths maps doc path -> lowercased verb -> scheme tag.
// Guarded: tests mount routers in parallel
var (
	securedMu    sync.Mutex
	securedPaths = map[string]map[string]string{}
)

// MarkSecurePath records that verb on path sits behind the named scheme.
// Paths are normalized to the form swag emits, so "/log/" matches "/log"
func MarkSecurePath(path, verb, scheme string) {
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	verb = strings.ToLower(verb)

	securedMu.Lock()
	defer securedMu.Unlock()
	if securedPaths[path] == nil {
		securedPaths[path] = map[string]string{}
	}
	securedPaths[path][verb] = scheme
}

// securedSnapshot copies the registry for the doc handler
func securedSnapshot() map[string]map[string]string {
	securedMu.Lock()
	defer securedMu.Unlock()
	out := make(map[string]map[string]string, len(securedPaths))
	for p, verbs := range securedPaths {
		vm := make(map[string]string, len(verbs))
		for v, s := range verbs {
			vm[v] = s
		}
		out[p] = vm
	}
	return out
}
