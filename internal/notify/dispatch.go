package notify

import (
	"context"
	"log/slog"
	"net/mail"
	"time"

	"github.com/jobwatchhq/jobwatch/internal/cache"
	"github.com/jobwatchhq/jobwatch/pkg/models"
)

// Outcome classifies one delivery attempt.
type Outcome string

const (
	OutcomeSent    Outcome = "sent"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// DeliveryResult reports what happened to one alert's match set. Jobs holds
// the postings that were actually included in a sent message, so the caller
// can advance the alert's notification watermark.
type DeliveryResult struct {
	Outcome Outcome
	Jobs    []models.Job
	Err     error
}

// How long an alert remembers which URLs it already reported. Long enough to
// outlive any realistic posting lifetime.
const notifiedTTL = 30 * 24 * time.Hour

// Dispatcher turns a non-empty match set into at most one email, suppressing
// postings the alert already reported.
type Dispatcher struct {
	mailer Mailer
	cache  cache.Cache
	logger *slog.Logger
}

func NewDispatcher(mailer Mailer, c cache.Cache, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{mailer: mailer, cache: c, logger: logger}
}

// Dispatch sends one notification for the alert's match set.
//
// Skipped: empty match set, missing/invalid recipient address, or every match
// was already reported for this alert. Failed: the transport rejected the
// message; the error is recorded in the result and logged, never propagated.
func (d *Dispatcher) Dispatch(ctx context.Context, alert models.Alert, matches []models.Job) DeliveryResult {
	log := d.logger.With("alert_id", alert.ID, "alert_name", alert.Name)

	if len(matches) == 0 {
		return DeliveryResult{Outcome: OutcomeSkipped}
	}
	if _, err := mail.ParseAddress(alert.Email); err != nil {
		log.Warn("skipping notification: alert has no usable email address")
		return DeliveryResult{Outcome: OutcomeSkipped}
	}

	fresh := d.filterNotified(ctx, alert, matches, log)
	if len(fresh) == 0 {
		log.Debug("skipping notification: all matches previously reported")
		return DeliveryResult{Outcome: OutcomeSkipped}
	}

	subject, body, err := Compose(alert, fresh)
	if err != nil {
		log.Error("failed to compose notification", "error", err)
		return DeliveryResult{Outcome: OutcomeFailed, Err: err}
	}

	if err := d.mailer.Send(ctx, alert.Email, subject, body); err != nil {
		log.Error("failed to send notification", "error", err, "matches", len(fresh))
		return DeliveryResult{Outcome: OutcomeFailed, Err: err}
	}

	d.markNotified(ctx, alert, fresh, log)
	log.Info("notification sent", "recipient", alert.Email, "matches", len(fresh))
	return DeliveryResult{Outcome: OutcomeSent, Jobs: fresh}
}

// filterNotified drops matches this alert already reported. Cache errors fail
// open: better a duplicate email than a silent miss.
func (d *Dispatcher) filterNotified(ctx context.Context, alert models.Alert, matches []models.Job, log *slog.Logger) []models.Job {
	if d.cache == nil {
		return matches
	}
	urls := make([]string, len(matches))
	for i, j := range matches {
		urls[i] = j.URL
	}
	freshURLs, err := d.cache.FilterNotified(ctx, alert.ID, urls)
	if err != nil {
		log.Warn("notified-set lookup failed, sending unfiltered", "error", err)
		return matches
	}
	keep := make(map[string]bool, len(freshURLs))
	for _, u := range freshURLs {
		keep[u] = true
	}
	fresh := matches[:0:0]
	for _, j := range matches {
		if keep[j.URL] {
			fresh = append(fresh, j)
		}
	}
	return fresh
}

func (d *Dispatcher) markNotified(ctx context.Context, alert models.Alert, sent []models.Job, log *slog.Logger) {
	if d.cache == nil {
		return
	}
	urls := make([]string, len(sent))
	for i, j := range sent {
		urls[i] = j.URL
	}
	if err := d.cache.MarkNotified(ctx, alert.ID, urls, notifiedTTL); err != nil {
		log.Warn("failed to record notified jobs", "error", err)
	}
}
