package module

import (
	"time"

	"spillway/internal/platform/config"
)

// Options holds configuration settings for the maintenance module
type Options struct {
	StepTimeout time.Duration
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	return Options{
		StepTimeout: cfg.MayDuration("MAINT_OP_TIMEOUT", 10*time.Second),
	}
}
