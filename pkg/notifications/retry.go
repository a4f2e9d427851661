package notifications

import (
	"context"
	"math/rand"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const maxRetryInterval = 60 * time.Second

// retryBackOff doubles the interval up to a minute, adds up to a quarter of
// jitter, and stops before an attempt would land past the deadline.
type retryBackOff struct {
	initial  time.Duration
	maxTotal time.Duration
	clock    backoff.Clock
	rand     *rand.Rand

	start    time.Time
	interval time.Duration
	reason   TerminationReason
}

func (b *retryBackOff) Reset() {
	b.start = b.clock.Now()
	b.interval = b.initial
	b.reason = ""
}

func (b *retryBackOff) NextBackOff() time.Duration {
	now := b.clock.Now()
	if now.Sub(b.start) >= b.maxTotal {
		b.reason = ReasonTimeout
		return backoff.Stop
	}
	if now.Add(b.interval).After(b.start.Add(b.maxTotal)) {
		b.reason = ReasonWouldExceed
		return backoff.Stop
	}

	next := b.interval

	b.interval *= 2
	if b.interval > maxRetryInterval {
		b.interval = maxRetryInterval
	}
	quarter := float64(b.interval/time.Second) / 4
	b.interval += time.Duration(b.rand.Float64()*quarter) * time.Second

	return next
}

func (b *retryBackOff) elapsedSeconds() int {
	return int(b.clock.Now().Sub(b.start) / time.Second)
}

// Retrier supervises repeated delivery attempts on the email channel.
type Retrier struct {
	enabled  bool
	initial  time.Duration
	maxTotal time.Duration
	clock    backoff.Clock
	timer    backoff.Timer
	rand     *rand.Rand
	notify   func(Attempt, time.Duration)
}

// NewRetrier builds a retrier from the retry settings in cfg.
func NewRetrier(cfg Config) *Retrier {
	return &Retrier{
		enabled:  cfg.RetryEnabled,
		initial:  time.Duration(cfg.InitialRetryInterval) * time.Second,
		maxTotal: time.Duration(cfg.MaxRetryTime) * time.Second,
		clock:    backoff.SystemClock,
		rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Deliver calls send until it succeeds or the retry budget is spent.
func (r *Retrier) Deliver(ctx context.Context, channel Channel, send func(context.Context) Attempt) Outcome {
	b := &retryBackOff{
		initial:  r.initial,
		maxTotal: r.maxTotal,
		clock:    r.clock,
		rand:     r.rand,
	}
	b.Reset()

	outcome := Outcome{Channel: channel}
	var last Attempt
	operation := func() error {
		last = send(ctx)
		outcome.Attempts++
		if last.Success() {
			return nil
		}
		if !r.enabled {
			return backoff.Permanent(last.Err)
		}
		return last.Err
	}

	var notify backoff.Notify
	if r.notify != nil {
		notify = func(_ error, next time.Duration) { r.notify(last, next) }
	}

	err := backoff.RetryNotifyWithTimer(operation, backoff.WithContext(b, ctx), notify, r.timer)

	outcome.ElapsedSeconds = b.elapsedSeconds()
	if last.HTTPStatus != 0 {
		status := last.HTTPStatus
		outcome.HTTPStatus = &status
	}
	if err == nil {
		outcome.Success = true
		outcome.Reason = ReasonSuccess
		return outcome
	}

	outcome.LastError = last.Err
	switch {
	case ctx.Err() != nil:
		outcome.Reason = ReasonCancelled
		outcome.LastError = &TimeoutExceeded{Channel: channel, Attempts: outcome.Attempts, Elapsed: outcome.ElapsedSeconds, Reason: ReasonCancelled, Last: ctx.Err()}
	case b.reason != "":
		outcome.Reason = b.reason
		outcome.LastError = &TimeoutExceeded{Channel: channel, Attempts: outcome.Attempts, Elapsed: outcome.ElapsedSeconds, Reason: b.reason, Last: last.Err}
	default:
		outcome.Reason = attemptReason(last)
	}
	return outcome
}

func attemptReason(a Attempt) TerminationReason {
	if _, ok := a.Err.(*TransportError); ok {
		return ReasonTransport
	}
	return ReasonRejected
}
