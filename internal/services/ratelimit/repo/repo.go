// Package repo provides the rate limit repository implementation.
package repo

import (
	"context"
	"strconv"

	"spillway/internal/modkit/repokit"
	"spillway/internal/platform/store"
	"spillway/internal/services/ratelimit/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the rate limit repository
type Storage interface{ domain.CounterPort }

// One upsert per check keeps increment and read atomic under concurrency
const bumpSQL = `
	INSERT INTO project_minute_counters (kind, key, minute_utc, count)
	VALUES ($1, $2, $3, 1)
	ON CONFLICT (kind, key, minute_utc)
	DO UPDATE SET count = project_minute_counters.count + 1
	RETURNING count`

// BumpAddress implements domain.CounterPort
func (s *pg) BumpAddress(ctx context.Context, addr string, minute int64) (int, error) {
	return store.Scalar[int](ctx, s.q, bumpSQL, domain.TierAddress, addr, minute)
}

// BumpTenant implements domain.CounterPort. The project's cap override rides
// along in the same round trip; a zero minute_cap means "use the default"
func (s *pg) BumpTenant(ctx context.Context, projectID int64, minute int64, defCap int) (int, int, error) {
	const q = `
		WITH bumped AS (
			INSERT INTO project_minute_counters (kind, key, minute_utc, count)
			VALUES ($1, $2, $3, 1)
			ON CONFLICT (kind, key, minute_utc)
			DO UPDATE SET count = project_minute_counters.count + 1
			RETURNING count
		)
		SELECT b.count,
		       COALESCE((SELECT NULLIF(p.minute_cap, 0) FROM projects p WHERE p.id = $4), $5)
		FROM bumped b`

	var count, limit int
	err := s.q.QueryRow(ctx, q,
		domain.TierTenant, strconv.FormatInt(projectID, 10), minute,
		projectID, defCap,
	).Scan(&count, &limit)
	if err != nil {
		return 0, 0, err
	}
	return count, limit, nil
}
