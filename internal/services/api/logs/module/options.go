package module

import "spillway/internal/platform/config"

// Options holds configuration settings for the logs module
type Options struct {
	MaxEvents int
	Threshold int
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	return Options{
		MaxEvents: cfg.MayInt("MAX_EVENTS_PER_POST", 250),
		Threshold: cfg.MayInt("TRACKER_ALERT_THRESHOLD", 50),
	}
}
