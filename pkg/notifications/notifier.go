package notifications

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Notifier delivers one invocation's notifications on every enabled channel.
type Notifier struct {
	cfg     Config
	log     logrus.FieldLogger
	client  *Client
	retrier *Retrier
}

type Option func(*Notifier)

// WithLogger sets the logger used for delivery diagnostics.
func WithLogger(log logrus.FieldLogger) Option {
	return func(n *Notifier) { n.log = log }
}

// WithClock replaces the clock the retry deadline is measured with.
func WithClock(clock backoff.Clock) Option {
	return func(n *Notifier) { n.retrier.clock = clock }
}

// WithTimer replaces the timer used to wait between attempts.
func WithTimer(timer backoff.Timer) Option {
	return func(n *Notifier) { n.retrier.timer = timer }
}

// WithRand sets the jitter source.
func WithRand(r *rand.Rand) Option {
	return func(n *Notifier) { n.retrier.rand = r }
}

// New returns a Notifier for cfg. cfg is expected to be validated already.
func New(cfg Config, opts ...Option) *Notifier {
	n := &Notifier{
		cfg:     cfg,
		log:     logrus.StandardLogger(),
		retrier: NewRetrier(cfg),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.client = NewClient(n.log, cfg.Verbose)
	return n
}

// Notify sends email, then Slack. The two outcomes are independent.
func (n *Notifier) Notify(ctx context.Context, src PayloadSource) Report {
	report := Report{ID: uuid.New().String()}
	log := n.log.WithField("notification", report.ID)

	report.Email = n.sendEmail(ctx, log, src)
	report.Slack = n.sendSlack(ctx, log, src)
	return report
}

// SendEmail delivers on the email channel only.
func (n *Notifier) SendEmail(ctx context.Context, src PayloadSource) Outcome {
	return n.sendEmail(ctx, n.log, src)
}

// SendSlack delivers on the Slack channel only.
func (n *Notifier) SendSlack(ctx context.Context, src PayloadSource) Outcome {
	return n.sendSlack(ctx, n.log, src)
}

func (n *Notifier) sendEmail(ctx context.Context, log logrus.FieldLogger, src PayloadSource) Outcome {
	log = log.WithField("channel", Email)

	payload, err := src.Email(n.cfg)
	if err != nil {
		log.Errorf("cannot build email: %s", err)
		return n.finish(Outcome{Channel: Email, LastError: err, Reason: ReasonRender}, time.Now())
	}

	started := time.Now()
	client := emailHTTPClient(ctx, n.cfg.APIKey, n.cfg.requestTimeout())
	url := n.cfg.sendGridURL()

	r := *n.retrier
	r.notify = func(a Attempt, next time.Duration) {
		log.Warnf("email not delivered (%s), retrying in %s", describe(a), next)
	}
	outcome := r.Deliver(ctx, Email, func(ctx context.Context) Attempt {
		a := n.client.SendOnce(ctx, Email, client, url, payload)
		deliveryAttempts.WithLabelValues(string(Email), attemptResult(a)).Inc()
		log.Debugf("email attempt: %s", describe(a))
		return a
	})
	n.logOutcome(log, outcome)
	return n.finish(outcome, started)
}

func (n *Notifier) sendSlack(ctx context.Context, log logrus.FieldLogger, src PayloadSource) Outcome {
	log = log.WithField("channel", Slack)

	payload, enabled, err := src.Slack(n.cfg)
	if err != nil {
		log.Errorf("cannot build Slack message: %s", err)
		return n.finish(Outcome{Channel: Slack, LastError: err, Reason: ReasonRender}, time.Now())
	}
	if !enabled {
		log.Debug("Slack webhook not configured, skipping")
		return n.finish(Outcome{Channel: Slack, Success: true, Skipped: true, Reason: ReasonSkipped}, time.Now())
	}

	started := time.Now()
	a := n.client.SendOnce(ctx, Slack, baseHTTPClient(n.cfg.requestTimeout()), n.cfg.SlackWebhookURL, payload)
	deliveryAttempts.WithLabelValues(string(Slack), attemptResult(a)).Inc()

	outcome := Outcome{
		Channel:        Slack,
		Attempts:       1,
		ElapsedSeconds: int(time.Since(started) / time.Second),
		Success:        a.Success(),
		LastError:      a.Err,
	}
	if a.HTTPStatus != 0 {
		status := a.HTTPStatus
		outcome.HTTPStatus = &status
	}
	switch {
	case outcome.Success:
		outcome.Reason = ReasonSuccess
	case ctx.Err() != nil:
		outcome.Reason = ReasonCancelled
	default:
		outcome.Reason = attemptReason(a)
	}
	n.logOutcome(log, outcome)
	return n.finish(outcome, started)
}

func (n *Notifier) finish(o Outcome, started time.Time) Outcome {
	notificationsSent.WithLabelValues(string(o.Channel), string(o.Reason)).Inc()
	deliveryDuration.WithLabelValues(string(o.Channel)).Observe(time.Since(started).Seconds())
	return o
}

func (n *Notifier) logOutcome(log logrus.FieldLogger, o Outcome) {
	log = log.WithFields(logrus.Fields{
		"attempts": o.Attempts,
		"elapsed":  o.ElapsedSeconds,
		"reason":   o.Reason,
	})
	if o.Success {
		log.Info("notification delivered")
		return
	}
	log.Errorf("notification failed: %s", o.LastError)
}

func describe(a Attempt) string {
	if a.HTTPStatus != 0 {
		return fmt.Sprintf("status %d %s", a.HTTPStatus, http.StatusText(a.HTTPStatus))
	}
	if a.Err != nil {
		return a.Err.Error()
	}
	return "no response"
}
