// Package repo provides the projects repository implementation.
package repo

import (
	"context"

	"spillway/internal/modkit/repokit"
	perr "spillway/internal/platform/errors"
	"spillway/internal/platform/store"
	"spillway/internal/services/api/projects/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the projects repository
type Storage interface {
	Insert(ctx context.Context, slug, name, keyHash string, retentionDays, minuteCap int) (domain.Project, error)
	List(ctx context.Context, sinceMinute int64) ([]domain.ListItem, error)
	Get(ctx context.Context, id int64) (domain.Project, error)
	Update(ctx context.Context, id int64, name *string, retentionDays, minuteCap *int) (domain.Project, error)
	Delete(ctx context.Context, id int64) error
	SwapKeyHash(ctx context.Context, id int64, keyHash string) error
	ResolveByKeyHash(ctx context.Context, keyHash string) (id int64, slug string, err error)
	Activity(ctx context.Context, id int64, sinceMinute int64) ([]domain.ActivityPoint, error)
}

const projectCols = `id, slug, name, retention_days, minute_cap, created_at, updated_at`

func scanProject(r store.Row) (domain.Project, error) {
	var p domain.Project
	err := r.Scan(&p.ID, &p.Slug, &p.Name, &p.RetentionDays, &p.MinuteCap, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Insert implements Storage
func (s *pg) Insert(
	ctx context.Context,
	slug, name, keyHash string,
	retentionDays, minuteCap int,
) (domain.Project, error) {
	return store.One(ctx, s.q, scanProject, `
		INSERT INTO projects (slug, name, api_key_hash, retention_days, minute_cap)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+projectCols,
		slug, name, keyHash, retentionDays, minuteCap)
}

// List implements Storage. Each row carries the summed ingest volume since
// sinceMinute; grouping by the primary key keeps the project columns legal
func (s *pg) List(ctx context.Context, sinceMinute int64) ([]domain.ListItem, error) {
	return store.Many(ctx, s.q, func(r store.Row) (domain.ListItem, error) {
		var it domain.ListItem
		err := r.Scan(&it.ID, &it.Slug, &it.Name, &it.RetentionDays, &it.MinuteCap,
			&it.CreatedAt, &it.UpdatedAt, &it.EventsLastHour)
		return it, err
	}, `
		SELECT p.id, p.slug, p.name, p.retention_days, p.minute_cap, p.created_at, p.updated_at,
		       COALESCE(SUM(a.events), 0) AS events_last_hour
		FROM projects p
		LEFT JOIN project_activity_minutes a
		  ON a.project_id = p.id AND a.minute_utc >= $1
		GROUP BY p.id
		ORDER BY p.id`,
		sinceMinute)
}

// Get implements Storage
func (s *pg) Get(ctx context.Context, id int64) (domain.Project, error) {
	return store.One(ctx, s.q, scanProject,
		`SELECT `+projectCols+` FROM projects WHERE id = $1`, id)
}

// Update implements Storage. Nil fields keep their stored value
func (s *pg) Update(
	ctx context.Context,
	id int64,
	name *string,
	retentionDays, minuteCap *int,
) (domain.Project, error) {
	return store.One(ctx, s.q, scanProject, `
		UPDATE projects
		SET name           = COALESCE($2, name),
		    retention_days = COALESCE($3, retention_days),
		    minute_cap     = COALESCE($4, minute_cap),
		    updated_at     = now()
		WHERE id = $1
		RETURNING `+projectCols,
		id, name, retentionDays, minuteCap)
}

// Delete implements Storage. Log rows, counters, and trackers cascade
func (s *pg) Delete(ctx context.Context, id int64) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return perr.ErrNotFound
	}
	return nil
}

// SwapKeyHash implements Storage
func (s *pg) SwapKeyHash(ctx context.Context, id int64, keyHash string) error {
	tag, err := s.q.Exec(ctx,
		`UPDATE projects SET api_key_hash = $2, updated_at = now() WHERE id = $1`,
		id, keyHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return perr.ErrNotFound
	}
	return nil
}

// ResolveByKeyHash implements Storage. Hot path: runs on every signed request
func (s *pg) ResolveByKeyHash(ctx context.Context, keyHash string) (int64, string, error) {
	type identity struct {
		id   int64
		slug string
	}
	got, err := store.One(ctx, s.q, func(r store.Row) (identity, error) {
		var v identity
		err := r.Scan(&v.id, &v.slug)
		return v, err
	}, `SELECT id, slug FROM projects WHERE api_key_hash = $1`, keyHash)
	if err != nil {
		return 0, "", err
	}
	return got.id, got.slug, nil
}

// Activity implements Storage
func (s *pg) Activity(ctx context.Context, id int64, sinceMinute int64) ([]domain.ActivityPoint, error) {
	return store.Many(ctx, s.q, func(r store.Row) (domain.ActivityPoint, error) {
		var p domain.ActivityPoint
		err := r.Scan(&p.MinuteUTC, &p.Events)
		return p, err
	}, `
		SELECT minute_utc, events
		FROM project_activity_minutes
		WHERE project_id = $1 AND minute_utc >= $2
		ORDER BY minute_utc`,
		id, sinceMinute)
}
