package module

import (
	"spillway/internal/services/api/projects/domain"
)

// Ports exposed by the projects module
type Ports struct {
	// Resolver serves the auth service's key-hash lookups
	Resolver domain.ResolverPort
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
