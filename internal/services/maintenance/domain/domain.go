// Package domain defines the types and ports for the maintenance service
package domain

import (
	"context"
	"errors"
	"time"
)

// ErrLeaseBusy reports that another process holds the store lease, so the
// pass was skipped rather than run twice
var ErrLeaseBusy = errors.New("maintenance lease held elsewhere")

// Step names used for logs and metric labels
const (
	StepCounters  = "counters"
	StepActivity  = "activity"
	StepRetention = "retention"
	StepTrackers  = "trackers"
)

// TriggerPort is the opportunistic hook handed to the ingest pipeline.
// Calls return immediately; at most one pass runs per interval
type TriggerPort interface {
	MaybeSweep()
}

// RunnerPort runs one pass on demand, bypassing the interval gate.
// The store lease still applies: Sweep returns ErrLeaseBusy when another
// process is mid-pass
type RunnerPort interface {
	Sweep(ctx context.Context) error
}

// StatePort is the storage surface a pass works against. Purge cutoffs are
// computed by the service so every step shares one wall-clock instant
type StatePort interface {
	// AcquireLease claims the single maintenance slot. False means another
	// holder is live; a holder stale past the force-clear window is evicted
	AcquireLease(ctx context.Context) (bool, error)

	// ReleaseLease frees the slot and stamps last_run
	ReleaseLease(ctx context.Context) error

	// PurgeCounters removes rate limit counters below the minute cutoff
	PurgeCounters(ctx context.Context, beforeMinute int64) (int64, error)

	// PurgeActivity removes activity rows below the minute cutoff
	PurgeActivity(ctx context.Context, beforeMinute int64) (int64, error)

	// RetentionDays lists the distinct retention windows projects carry
	RetentionDays(ctx context.Context) ([]int, error)

	// PurgeLogs removes log rows older than beforeDay for projects whose
	// retention is exactly days
	PurgeLogs(ctx context.Context, days, beforeDay int) (int64, error)

	// PurgeTrackers removes fingerprint trackers idle since before
	PurgeTrackers(ctx context.Context, before time.Time) (int64, error)
}
