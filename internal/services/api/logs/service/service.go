// Package service implements the log ingestion pipeline and retrieval.
//
// Ingest runs the full pipeline on the captured body bytes: decode, bound,
// validate, derive, persist in one statement, then best-effort bookkeeping
// (activity minutes, fingerprint trackers) that never fails the request.
// A successful batch finishes by poking the maintenance trigger.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"spillway/internal/core/bucket"
	"spillway/internal/core/fingerprint"
	"spillway/internal/modkit/repokit"
	perr "spillway/internal/platform/errors"
	"spillway/internal/platform/logger"
	"spillway/internal/platform/metrics"
	pnet "spillway/internal/platform/net"
	"spillway/internal/platform/net/http/bind"
	"spillway/internal/services/api/logs/domain"
	"spillway/internal/services/api/logs/repo"
)

// Service is the logs service contract
type Service interface {
	domain.ServicePort
}

// Config carries the ingest bounds
type Config struct {
	// MaxEvents caps the batch length; 0 means the default of 250
	MaxEvents int

	// Threshold is the per-minute fingerprint count that trips the alert
	// hook; 0 means the default of 50, negative disables the hook
	Threshold int
}

const (
	defaultMaxEvents = 250
	defaultThreshold = 50

	defaultLimit = 100
	maxLimit     = 1000
)

// Svc implements Service over Postgres
type Svc struct {
	Repo repo.Storage

	binder repokit.Binder[repo.Storage]
	db     repokit.TxRunner
	sweep  domain.SweepTrigger
	cfg    Config
}

// New constructs the logs service. A nil sweep disables the maintenance
// trigger
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage], sweep domain.SweepTrigger, cfg Config) *Svc {
	if db == nil {
		panic("logs service requires a db")
	}
	if binder == nil {
		panic("logs service requires a repo binder")
	}
	if cfg.MaxEvents == 0 {
		cfg.MaxEvents = defaultMaxEvents
	}
	if cfg.Threshold == 0 {
		cfg.Threshold = defaultThreshold
	}
	return &Svc{
		Repo:   binder.Bind(db),
		binder: binder,
		db:     db,
		sweep:  sweep,
		cfg:    cfg,
	}
}

// Ingest implements domain.ServicePort
func (s *Svc) Ingest(ctx context.Context, raw []byte) (domain.IngestResult, error) {
	projectID := pnet.ProjectID(ctx)
	if projectID == 0 {
		return domain.IngestResult{}, perr.Newf(perr.ErrorCodeUnauthorized, "no project on request")
	}

	events, err := decodeBatch(raw)
	if err != nil {
		metrics.EventsRejected.WithLabelValues("malformed").Inc()
		return domain.IngestResult{}, err
	}
	if len(events) == 0 {
		metrics.EventsRejected.WithLabelValues("empty").Inc()
		return domain.IngestResult{}, perr.Wiref(perr.ErrorCodeValidation, perr.WireInvalidEventData,
			"batch carries no events")
	}
	if len(events) > s.cfg.MaxEvents {
		metrics.EventsRejected.WithLabelValues("too_many").Inc()
		return domain.IngestResult{}, perr.Wiref(perr.ErrorCodeValidation, perr.WireTooManyEvents,
			"batch of %d exceeds the %d event limit", len(events), s.cfg.MaxEvents)
	}

	// one instant for the whole batch: created_at and day_id stay consistent
	now := time.Now()
	slug := pnet.ProjectSlug(ctx)
	rows := make([]domain.Stored, len(events))
	for i := range events {
		row, err := normalize(events[i], i, projectID, slug, now)
		if err != nil {
			metrics.EventsRejected.WithLabelValues("validation").Inc()
			return domain.IngestResult{}, err
		}
		rows[i] = row
	}
	metrics.EventsReceived.Add(float64(len(rows)))

	inserted, err := s.Repo.InsertEvents(ctx, rows)
	if err != nil {
		metrics.EventsRejected.WithLabelValues("insert").Inc()
		logger.C(ctx).Error().Err(err).Int("events", len(rows)).Msg("bulk insert failed")
		return domain.IngestResult{}, perr.Wiref(perr.ErrorCodeDB, perr.WireDBBulkFailed,
			"bulk insert failed")
	}
	metrics.EventsPersisted.Add(float64(inserted))

	s.bookkeep(ctx, projectID, rows, now)
	if s.sweep != nil {
		s.sweep.MaybeSweep()
	}

	return domain.IngestResult{
		Received:  len(events),
		Processed: inserted,
		RequestID: pnet.RequestID(ctx),
	}, nil
}

// Query implements domain.ServicePort
func (s *Svc) Query(ctx context.Context, in domain.QueryInput) (domain.QueryResult, error) {
	projectID := pnet.ProjectID(ctx)
	if projectID == 0 {
		return domain.QueryResult{}, perr.Newf(perr.ErrorCodeUnauthorized, "no project on request")
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}

	f := domain.QueryFilter{
		ProjectID:   projectID,
		Fingerprint: in.Fingerprint,
		Limit:       limit,
		Offset:      offset,
	}
	if in.Level != "" {
		if !domain.ValidLevel(in.Level) {
			return domain.QueryResult{}, perr.Wiref(perr.ErrorCodeValidation, perr.WireInvalidEventData,
				"level %q is not a known level", in.Level)
		}
		f.Level = in.Level
	}
	if in.Since != "" {
		at, err := time.Parse(time.RFC3339, in.Since)
		if err != nil {
			return domain.QueryResult{}, perr.Wiref(perr.ErrorCodeValidation, perr.WireInvalidEventData,
				"since must be an RFC-3339 instant")
		}
		f.Since = at
	}

	items, err := s.Repo.Query(ctx, f)
	if err != nil {
		logger.C(ctx).Error().Err(err).Msg("log query failed")
		return domain.QueryResult{}, perr.DBf("log query failed")
	}
	if items == nil {
		items = []domain.Stored{}
	}
	return domain.QueryResult{Items: items, Count: len(items), Limit: limit, Offset: offset}, nil
}

// decodeBatch accepts a bare array, {"events":[...]}, or the {"logs":[...]}
// alias some shippers send
func decodeBatch(raw []byte) ([]domain.Event, error) {
	body := bytes.TrimSpace(raw)
	if len(body) == 0 {
		return nil, perr.Wiref(perr.ErrorCodeValidation, perr.WireInvalidEventData, "request body is empty")
	}
	if body[0] == '[' {
		var events []domain.Event
		if err := json.Unmarshal(body, &events); err != nil {
			return nil, perr.Wiref(perr.ErrorCodeValidation, perr.WireInvalidEventData, "malformed JSON: %v", err)
		}
		return events, nil
	}
	var w struct {
		Events []domain.Event `json:"events"`
		Logs   []domain.Event `json:"logs"`
	}
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, perr.Wiref(perr.ErrorCodeValidation, perr.WireInvalidEventData, "malformed JSON: %v", err)
	}
	if w.Events != nil {
		return w.Events, nil
	}
	return w.Logs, nil
}

// normalize validates one event and resolves defaults into a store-ready row.
// The fingerprint hashes the submitted fields, not the resolved ones, so an
// event keeps its identity whether or not the caller spelled out the source
func normalize(e domain.Event, i int, projectID int64, slug string, now time.Time) (domain.Stored, error) {
	if err := bind.Get().Validator.Struct(e); err != nil {
		_, msg := bind.ValidationFieldAndMessage(err)
		return domain.Stored{}, perr.Wiref(perr.ErrorCodeValidation, perr.WireInvalidEventData,
			"events[%d]: %s", i, msg)
	}

	ts := now
	if e.TS != "" {
		if at, err := time.Parse(time.RFC3339, e.TS); err == nil {
			ts = at
		}
	}
	source := e.Source
	if source == "" {
		source = slug
	}
	if source == "" {
		source = "app"
	}
	env := e.Env
	if env == "" {
		env = "production"
	}

	var ctxRaw json.RawMessage
	if len(e.Ctx) > 0 {
		raw, err := json.Marshal(e.Ctx)
		if err != nil {
			return domain.Stored{}, perr.Wiref(perr.ErrorCodeValidation, perr.WireInvalidEventData,
				"events[%d]: ctx does not serialize", i)
		}
		ctxRaw = raw
	}

	return domain.Stored{
		ProjectID:   projectID,
		TS:          ts,
		Level:       e.Level,
		Message:     e.Message,
		Source:      source,
		Env:         env,
		Ctx:         ctxRaw,
		UserID:      e.UserID,
		RequestID:   e.RequestID,
		Tags:        e.Tags,
		Fingerprint: fingerprint.Derive(e.Message, e.Source, fingerprint.StackOf(e.Ctx)),
		DayID:       bucket.DayID(now),
		CreatedAt:   now,
	}, nil
}

// bookkeep updates the activity series and fingerprint trackers after a
// persisted batch. Failures are logged and swallowed: the rows are already
// durable and the caller's response must not depend on side tables
func (s *Svc) bookkeep(ctx context.Context, projectID int64, rows []domain.Stored, now time.Time) {
	minute := bucket.Minute(now)

	if err := s.Repo.BumpActivity(ctx, projectID, minute, len(rows)); err != nil {
		logger.C(ctx).Warn().Err(err).Msg("activity bump failed")
	}

	fps := make([]string, 0, len(rows))
	delta := make(map[string]int32, len(rows))
	for _, r := range rows {
		if _, seen := delta[r.Fingerprint]; !seen {
			fps = append(fps, r.Fingerprint)
		}
		delta[r.Fingerprint]++
	}
	counts := make([]int32, len(fps))
	for i, fp := range fps {
		counts[i] = delta[fp]
	}

	totals, err := s.Repo.TrackFingerprints(ctx, projectID, minute, fps, counts)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Msg("fingerprint tracking failed")
		return
	}
	if s.cfg.Threshold <= 0 {
		return
	}
	for _, tc := range totals {
		before := tc.MinuteCount - int(delta[tc.Fingerprint])
		if tc.MinuteCount >= s.cfg.Threshold && before < s.cfg.Threshold {
			metrics.TrackerAlerts.Inc()
			logger.C(ctx).Warn().
				Int64("project_id", projectID).
				Str("fingerprint", tc.Fingerprint).
				Int("minute_count", tc.MinuteCount).
				Msg("fingerprint crossed alert threshold")
		}
	}
}
