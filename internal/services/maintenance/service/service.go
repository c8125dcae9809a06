// Package service runs the on-path maintenance pass.
//
// There is no scheduler process. Ingest pokes MaybeSweep after every
// accepted batch; a process-local gate admits one pass per interval and a
// row lease in maintenance_state keeps replicas from sweeping concurrently.
// The pass itself runs on a background context, detached from the request
// that tripped it
package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"spillway/internal/core/bucket"
	"spillway/internal/modkit/repokit"
	perr "spillway/internal/platform/errors"
	"spillway/internal/platform/logger"
	"spillway/internal/platform/metrics"
	"spillway/internal/services/maintenance/domain"
	"spillway/internal/services/maintenance/repo"
)

// Purge cutoffs, relative to the instant the pass starts
const (
	counterKeepMinutes  = 2   // the limiter only ever reads the current window
	activityKeepMinutes = 120 // two hours of per-minute activity
	trackerKeepHours    = 24
)

// Config for the maintenance service
type Config struct {
	Interval    time.Duration // minimum gap between opportunistic passes
	StepTimeout time.Duration // budget for each purge statement
}

// Service owns the pass gate and runs sweeps against the store
type Service struct {
	Repo   repo.Storage
	binder repokit.Binder[repo.Storage]
	db     repokit.TxRunner
	cfg    Config

	lastSweepUnix atomic.Int64
}

// New creates a new maintenance service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage], cfg Config) *Service {
	if db == nil {
		panic("maintenance.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("maintenance.Service requires a non nil Storage binder")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.StepTimeout <= 0 {
		cfg.StepTimeout = 10 * time.Second
	}
	return &Service{Repo: binder.Bind(db), binder: binder, db: db, cfg: cfg}
}

// MaybeSweep implements domain.TriggerPort. The gate arms before the spawn,
// so racing requests start at most one pass and a failed pass waits out the
// interval instead of retrying on the very next request
func (s *Service) MaybeSweep() {
	now := time.Now().Unix()
	last := s.lastSweepUnix.Load()
	if now-last < int64(s.cfg.Interval.Seconds()) {
		return
	}
	if !s.lastSweepUnix.CompareAndSwap(last, now) {
		return
	}
	go func() {
		// the triggering request must not wait on, or cancel, the pass
		_ = s.run(context.Background())
	}()
}

// Sweep implements domain.RunnerPort. It bypasses the interval gate but
// still takes the store lease. The gate arms afterwards so the forced pass
// counts as the interval's run
func (s *Service) Sweep(ctx context.Context) error {
	s.lastSweepUnix.Store(time.Now().Unix())
	return s.run(ctx)
}

func (s *Service) run(ctx context.Context) error {
	log := logger.Named("maintenance")
	now := time.Now()

	acquired, err := s.acquire(ctx)
	if err != nil {
		metrics.MaintenanceRuns.WithLabelValues("failed").Inc()
		log.Error().Err(err).Msg("lease acquire failed")
		return err
	}
	if !acquired {
		metrics.MaintenanceRuns.WithLabelValues("skipped").Inc()
		log.Debug().Msg("lease held elsewhere, skipping pass")
		return domain.ErrLeaseBusy
	}

	failed := 0
	failed += s.step(ctx, log, domain.StepCounters, func(ctx context.Context) (int64, error) {
		return s.Repo.PurgeCounters(ctx, bucket.Minute(now)-counterKeepMinutes)
	})
	failed += s.step(ctx, log, domain.StepActivity, func(ctx context.Context) (int64, error) {
		return s.Repo.PurgeActivity(ctx, bucket.Minute(now)-activityKeepMinutes)
	})
	failed += s.step(ctx, log, domain.StepRetention, func(ctx context.Context) (int64, error) {
		return s.purgeExpiredLogs(ctx, now)
	})
	failed += s.step(ctx, log, domain.StepTrackers, func(ctx context.Context) (int64, error) {
		return s.Repo.PurgeTrackers(ctx, now.Add(-trackerKeepHours*time.Hour))
	})

	s.release(ctx, log)

	outcome := "completed"
	if failed > 0 {
		outcome = "partial"
	}
	metrics.MaintenanceRuns.WithLabelValues(outcome).Inc()
	log.Info().Str("outcome", outcome).Dur("took", time.Since(now)).Msg("pass finished")
	if failed > 0 {
		return fmt.Errorf("maintenance: %d step(s) failed", failed)
	}
	return nil
}

// step runs one purge under its own deadline. Purges contend with live
// ingest, so a deadlock or serialization failure gets a single retry on a
// fresh deadline. Any other failure is logged and charged to the outcome,
// never propagated: later steps still run
func (s *Service) step(ctx context.Context, log *logger.Logger, name string, fn func(context.Context) (int64, error)) int {
	rows, took, err := s.attempt(ctx, fn)
	if err != nil && perr.IsRetryable(err) {
		log.Warn().Err(err).Str("step", name).Msg("transient step failure, retrying once")
		rows, took, err = s.attempt(ctx, fn)
	}
	metrics.MaintenanceStepSeconds.WithLabelValues(name).Observe(took.Seconds())
	if err != nil {
		log.Warn().Err(err).Str("step", name).Dur("took", took).Msg("step failed")
		return 1
	}
	metrics.MaintenanceRowsPurged.WithLabelValues(name).Add(float64(rows))
	log.Info().Str("step", name).Int64("rows", rows).Dur("took", took).Msg("step done")
	return 0
}

func (s *Service) attempt(ctx context.Context, fn func(context.Context) (int64, error)) (int64, time.Duration, error) {
	stepCtx, cancel := context.WithTimeout(ctx, s.cfg.StepTimeout)
	defer cancel()

	start := time.Now()
	rows, err := fn(stepCtx)
	return rows, time.Since(start), err
}

// purgeExpiredLogs walks the distinct retention windows projects carry and
// deletes each window's rows below its day cutoff. Day arithmetic matches
// ingestion's day_id stamp, so a row expires exactly retention_days after
// the day it arrived
func (s *Service) purgeExpiredLogs(ctx context.Context, now time.Time) (int64, error) {
	windows, err := s.Repo.RetentionDays(ctx)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, days := range windows {
		n, err := s.Repo.PurgeLogs(ctx, days, bucket.DayIDAgo(now, days))
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (s *Service) acquire(ctx context.Context) (bool, error) {
	leaseCtx, cancel := context.WithTimeout(ctx, s.cfg.StepTimeout)
	defer cancel()
	return s.Repo.AcquireLease(leaseCtx)
}

// release is best effort: a failure leaves in_progress stuck true and the
// ten minute force-clear window recovers the slot
func (s *Service) release(ctx context.Context, log *logger.Logger) {
	leaseCtx, cancel := context.WithTimeout(ctx, s.cfg.StepTimeout)
	defer cancel()
	if err := s.Repo.ReleaseLease(leaseCtx); err != nil {
		log.Error().Err(err).Msg("lease release failed")
	}
}
