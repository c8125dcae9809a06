package module

import (
	"time"

	"spillway/internal/platform/config"
)

// Options holds configuration settings for the auth module
type Options struct {
	Secret     string
	AdminToken string
	Timeout    time.Duration
}

// FromConfig reads configuration settings from the config.Conf.
// Both secrets are boot requirements with a minimum length
func FromConfig(cfg config.Conf) Options {
	return Options{
		Secret:     cfg.MustSecret("HMAC_SECRET", 32),
		AdminToken: cfg.MustSecret("ADMIN_TOKEN", 32),
		Timeout:    cfg.MayDuration("AUTH_TIMEOUT", 10*time.Second),
	}
}
