// Package scheduler runs the recurring alert check: every tick it takes one
// snapshot of alerts and jobs, evaluates each alert against the corpus, and
// hands non-empty match sets to the dispatcher.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/jobwatchhq/jobwatch/internal/alert"
	"github.com/jobwatchhq/jobwatch/internal/notify"
	"github.com/jobwatchhq/jobwatch/pkg/models"
)

// Store is the slice of the data layer the tick needs.
type Store interface {
	ListAlerts(ctx context.Context) ([]models.Alert, error)
	ListJobs(ctx context.Context) ([]models.Job, error)
	UpdateAlertLastNotified(ctx context.Context, alertID uuid.UUID, notifiedAt time.Time) error
}

// Dispatcher delivers one alert's match set.
type Dispatcher interface {
	Dispatch(ctx context.Context, a models.Alert, matches []models.Job) notify.DeliveryResult
}

// Scheduler owns the cron timer. Ticks never overlap: if a check is still
// running when the next fire comes due, that fire is skipped.
type Scheduler struct {
	cron       *cron.Cron
	store      Store
	dispatcher Dispatcher
	interval   time.Duration
	logger     *slog.Logger
}

func New(store Store, dispatcher Dispatcher, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.DiscardLogger),
		)),
		store:      store,
		dispatcher: dispatcher,
		interval:   interval,
		logger:     logger,
	}
}

// Start registers the tick and starts the timer. The first check fires one
// interval after startup.
//
// Ticks run on a context detached from the caller's cancellation: a shutdown
// signal stops the timer, but an in-flight check keeps its store reads and
// its dispatch and is drained via Stop rather than cut off mid-send.
func (s *Scheduler) Start(ctx context.Context) error {
	tickCtx := context.WithoutCancel(ctx)
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, func() {
		s.RunTick(tickCtx)
	}); err != nil {
		return fmt.Errorf("register alert check: %w", err)
	}

	s.cron.Start()
	s.logger.Info("alert scheduler started", "interval", s.interval.String())
	return nil
}

// Stop halts the timer and returns a context that is done once any in-flight
// tick has finished. Callers should wait on it before exiting.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("alert scheduler stopping")
	return s.cron.Stop()
}

// RunTick performs one full alert check. Failures are logged and contained:
// a snapshot read error aborts the whole tick with zero dispatches, while a
// failure on one alert never prevents the remaining alerts from being
// checked.
func (s *Scheduler) RunTick(ctx context.Context) {
	started := time.Now()

	alerts, err := s.store.ListAlerts(ctx)
	if err != nil {
		s.logger.Error("alert check aborted: failed to load alerts", "error", err)
		return
	}
	if len(alerts) == 0 {
		s.logger.Debug("alert check: no alerts configured")
		return
	}

	jobs, err := s.store.ListJobs(ctx)
	if err != nil {
		s.logger.Error("alert check aborted: failed to load jobs", "error", err)
		return
	}
	if len(jobs) == 0 {
		s.logger.Debug("alert check: job corpus is empty")
		return
	}

	var sent, skipped, failed int
	for _, a := range alerts {
		switch s.checkAlert(ctx, a, jobs) {
		case notify.OutcomeSent:
			sent++
		case notify.OutcomeFailed:
			failed++
		default:
			skipped++
		}
	}

	s.logger.Info("alert check complete",
		"alerts", len(alerts),
		"jobs", len(jobs),
		"sent", sent,
		"skipped", skipped,
		"failed", failed,
		"duration", time.Since(started).String(),
	)
}

// checkAlert evaluates one alert against the snapshot. A panic anywhere in
// the alert's path is confined to that alert.
func (s *Scheduler) checkAlert(ctx context.Context, a models.Alert, jobs []models.Job) (outcome notify.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("alert check panicked",
				"alert_id", a.ID,
				"alert_name", a.Name,
				"panic", r,
			)
			outcome = notify.OutcomeFailed
		}
	}()

	matches := alert.BuildMatches(a, jobs)
	if len(matches) == 0 {
		return notify.OutcomeSkipped
	}

	res := s.dispatcher.Dispatch(ctx, a, matches)
	if res.Outcome == notify.OutcomeSent {
		s.advanceWatermark(ctx, a, res.Jobs)
	}
	return res.Outcome
}

// advanceWatermark moves the alert's last_notified boundary up to the newest
// posting that was actually delivered. A write failure only costs a possible
// duplicate email next tick; the notified-set in Redis still suppresses it.
func (s *Scheduler) advanceWatermark(ctx context.Context, a models.Alert, delivered []models.Job) {
	var latest time.Time
	for _, j := range delivered {
		if j.DatePosted.After(latest) {
			latest = j.DatePosted
		}
	}
	if latest.IsZero() {
		return
	}
	if err := s.store.UpdateAlertLastNotified(ctx, a.ID, latest); err != nil {
		s.logger.Error("failed to advance alert watermark", "alert_id", a.ID, "error", err)
	}
}
