package module

import "spillway/internal/platform/config"

// Options holds configuration settings for the projects module
type Options struct {
	DefaultRetentionDays int
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	return Options{
		DefaultRetentionDays: cfg.MayInt("DEFAULT_RETENTION_DAYS", 3),
	}
}
