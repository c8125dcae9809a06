package module

import (
	"spillway/internal/services/api/logs/domain"
)

// Ports declares the required injected port(s) for this module
type Ports struct {
	// Sweeper schedules a maintenance pass after each accepted batch
	Sweeper domain.SweepTrigger
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
