// Package repo provides the log event repository implementation.
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"spillway/internal/modkit/repokit"
	"spillway/internal/platform/store"
	"spillway/internal/services/api/logs/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the log event repository
type Storage interface {
	// InsertEvents writes the batch in one statement and returns the row count
	InsertEvents(ctx context.Context, rows []domain.Stored) (int64, error)

	// BumpActivity adds n events to the project's minute bucket
	BumpActivity(ctx context.Context, projectID, minute int64, n int) error

	// TrackFingerprints upserts per-fingerprint minute counts and returns the
	// running totals after the write
	TrackFingerprints(ctx context.Context, projectID, minute int64, fps []string, counts []int32) ([]domain.TrackerCount, error)

	// Query returns rows matching f, newest first
	Query(ctx context.Context, f domain.QueryFilter) ([]domain.Stored, error)
}

var logCols = []string{
	"project_id", "ts", "level", "message", "source", "env",
	"ctx", "user_id", "request_id", "tags", "fingerprint", "day_id", "created_at",
}

const selectCols = `id, project_id, ts, level, message, source, env,
	ctx, user_id, request_id, tags, fingerprint, day_id, created_at`

func scanStored(r store.Row) (domain.Stored, error) {
	var (
		st                      domain.Stored
		ctxRaw                  []byte
		userID, requestID, tags *string
	)
	err := r.Scan(&st.ID, &st.ProjectID, &st.TS, &st.Level, &st.Message, &st.Source, &st.Env,
		&ctxRaw, &userID, &requestID, &tags, &st.Fingerprint, &st.DayID, &st.CreatedAt)
	if err != nil {
		return st, err
	}
	if len(ctxRaw) > 0 {
		st.Ctx = json.RawMessage(ctxRaw)
	}
	if userID != nil {
		st.UserID = *userID
	}
	if requestID != nil {
		st.RequestID = *requestID
	}
	if tags != nil {
		st.Tags = *tags
	}
	return st, nil
}

// nullable maps the zero string to SQL NULL so absent optionals stay absent
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// InsertEvents implements Storage
func (s *pg) InsertEvents(ctx context.Context, rows []domain.Stored) (int64, error) {
	set := make([][]any, len(rows))
	for i, r := range rows {
		var ctxArg any
		if len(r.Ctx) > 0 {
			ctxArg = r.Ctx
		}
		set[i] = []any{
			r.ProjectID, r.TS, r.Level, r.Message, r.Source, r.Env,
			ctxArg, nullable(r.UserID), nullable(r.RequestID), nullable(r.Tags),
			r.Fingerprint, r.DayID, r.CreatedAt,
		}
	}
	n, _, err := store.BulkInsert(ctx, s.q, "logs", logCols, set)
	return n, err
}

// BumpActivity implements Storage
func (s *pg) BumpActivity(ctx context.Context, projectID, minute int64, n int) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO project_activity_minutes (project_id, minute_utc, events)
		VALUES ($1, $2, $3)
		ON CONFLICT (project_id, minute_utc)
		DO UPDATE SET events = project_activity_minutes.events + EXCLUDED.events`,
		projectID, minute, n)
	return err
}

// TrackFingerprints implements Storage. A tracker parked on an older minute
// restarts its count instead of accumulating across windows
func (s *pg) TrackFingerprints(
	ctx context.Context,
	projectID, minute int64,
	fps []string,
	counts []int32,
) ([]domain.TrackerCount, error) {
	return store.Many(ctx, s.q, func(r store.Row) (domain.TrackerCount, error) {
		var tc domain.TrackerCount
		err := r.Scan(&tc.Fingerprint, &tc.MinuteCount)
		return tc, err
	}, `
		INSERT INTO fingerprint_trackers (project_id, fingerprint, first_seen, last_seen, minute_utc, minute_count)
		SELECT $1, f.fp, now(), now(), $2, f.n
		FROM UNNEST($3::text[], $4::int[]) AS f(fp, n)
		ON CONFLICT (project_id, fingerprint) DO UPDATE SET
			last_seen    = now(),
			minute_count = CASE WHEN fingerprint_trackers.minute_utc = EXCLUDED.minute_utc
			                    THEN fingerprint_trackers.minute_count + EXCLUDED.minute_count
			                    ELSE EXCLUDED.minute_count END,
			minute_utc   = EXCLUDED.minute_utc
		RETURNING fingerprint, minute_count`,
		projectID, minute, fps, counts)
}

// Query implements Storage. Filters are appended only when set so the common
// unfiltered page stays a single index scan
func (s *pg) Query(ctx context.Context, f domain.QueryFilter) ([]domain.Stored, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + selectCols + ` FROM logs WHERE project_id = $1`)
	args := []any{f.ProjectID}

	if f.Level != "" {
		args = append(args, f.Level)
		fmt.Fprintf(&sb, " AND level = $%d", len(args))
	}
	if !f.Since.IsZero() {
		args = append(args, f.Since)
		fmt.Fprintf(&sb, " AND created_at >= $%d", len(args))
	}
	if f.Fingerprint != "" {
		args = append(args, f.Fingerprint)
		fmt.Fprintf(&sb, " AND fingerprint = $%d", len(args))
	}

	args = append(args, f.Limit, f.Offset)
	fmt.Fprintf(&sb, " ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return store.Many(ctx, s.q, scanStored, sb.String(), args...)
}
