// Package repo provides the maintenance repository implementation.
package repo

import (
	"context"
	"time"

	"spillway/internal/modkit/repokit"
	"spillway/internal/platform/store"
	"spillway/internal/services/maintenance/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the maintenance repository
type Storage interface{ domain.StatePort }

// A holder that crashed mid-pass keeps in_progress stuck true, so a lock
// older than ten minutes is treated as abandoned and evicted
const acquireSQL = `
	UPDATE maintenance_state
	   SET in_progress = TRUE, locked_at = now()
	 WHERE id = 1
	   AND (in_progress = FALSE OR locked_at < now() - interval '10 minutes')`

// AcquireLease implements domain.StatePort
func (s *pg) AcquireLease(ctx context.Context) (bool, error) {
	tag, err := s.q.Exec(ctx, acquireSQL)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ReleaseLease implements domain.StatePort. last_run is stamped on release,
// not acquire, so a crashed pass does not count as having run
func (s *pg) ReleaseLease(ctx context.Context) error {
	_, err := s.q.Exec(ctx, `
		UPDATE maintenance_state
		   SET in_progress = FALSE, last_run = now()
		 WHERE id = 1`)
	return err
}

// PurgeCounters implements domain.StatePort
func (s *pg) PurgeCounters(ctx context.Context, beforeMinute int64) (int64, error) {
	tag, err := s.q.Exec(ctx,
		`DELETE FROM project_minute_counters WHERE minute_utc < $1`, beforeMinute)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// PurgeActivity implements domain.StatePort
func (s *pg) PurgeActivity(ctx context.Context, beforeMinute int64) (int64, error) {
	tag, err := s.q.Exec(ctx,
		`DELETE FROM project_activity_minutes WHERE minute_utc < $1`, beforeMinute)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// RetentionDays implements domain.StatePort
func (s *pg) RetentionDays(ctx context.Context) ([]int, error) {
	return store.Many(ctx, s.q, func(r store.Row) (int, error) {
		var d int
		err := r.Scan(&d)
		return d, err
	}, `SELECT DISTINCT retention_days FROM projects ORDER BY retention_days`)
}

// PurgeLogs implements domain.StatePort
func (s *pg) PurgeLogs(ctx context.Context, days, beforeDay int) (int64, error) {
	tag, err := s.q.Exec(ctx, `
		DELETE FROM logs
		 WHERE day_id < $1
		   AND project_id IN (SELECT id FROM projects WHERE retention_days = $2)`,
		beforeDay, days)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// PurgeTrackers implements domain.StatePort
func (s *pg) PurgeTrackers(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.q.Exec(ctx,
		`DELETE FROM fingerprint_trackers WHERE last_seen < $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
