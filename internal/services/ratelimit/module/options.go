package module

import "spillway/internal/platform/config"

// Options holds configuration settings for the rate limit module
type Options struct {
	PerAddress int
	PerProject int
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	return Options{
		PerAddress: cfg.MayInt("RATE_LIMIT_PER_IP", 100),
		PerProject: cfg.MayInt("RATE_LIMIT_PER_MINUTE", 5000),
	}
}
