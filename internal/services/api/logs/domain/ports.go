package domain

import "context"

// ServicePort is the ingest and retrieval surface exposed to transports
type ServicePort interface {
	// Ingest validates and persists one batch from raw body bytes
	Ingest(ctx context.Context, raw []byte) (IngestResult, error)

	// Query returns the project's rows matching in, newest first
	Query(ctx context.Context, in QueryInput) (QueryResult, error)
}

// SweepTrigger schedules a maintenance pass after a successful ingest.
// Implementations must return immediately; the pass runs detached
type SweepTrigger interface {
	MaybeSweep()
}
