// Package domain defines the types and ports for the rate limit service
package domain

import "context"

// Counter tiers. The tier string doubles as the kind column in
// project_minute_counters and as the X-RateLimit header suffix
const (
	TierAddress = "address"
	TierTenant  = "tenant"
)

// CounterPort bumps fixed-window counters. Every call counts the request
// first and judges after: the returned count includes the current request
type CounterPort interface {
	// BumpAddress increments the counter for a client address in the given
	// minute bucket and returns the post-increment count
	BumpAddress(ctx context.Context, addr string, minute int64) (int, error)

	// BumpTenant increments the counter for a project in the given minute
	// bucket. The effective cap resolves in the same statement: the project's
	// minute_cap override when set, defCap otherwise
	BumpTenant(ctx context.Context, projectID int64, minute int64, defCap int) (count, cap int, err error)
}
