package email

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// RetrySender wraps another Sender with a bounded retry policy: maxAttempts
// total attempts with a linear backoff of attempt x baseDelay between them.
// Each attempt is a full atomic send; there are no partial deliveries to
// reconcile.
type RetrySender struct {
	next        Sender
	maxAttempts int
	baseDelay   time.Duration
	log         *slog.Logger
	sleep       func(context.Context, time.Duration) error
}

// RetryOption overrides RetrySender defaults.
type RetryOption func(*RetrySender)

// WithMaxAttempts sets the total attempt count, including the first send.
// Values below 1 are ignored.
func WithMaxAttempts(n int) RetryOption {
	return func(r *RetrySender) {
		if n >= 1 {
			r.maxAttempts = n
		}
	}
}

// WithBaseDelay sets the backoff unit. The wait before attempt n+1 is
// n x baseDelay.
func WithBaseDelay(d time.Duration) RetryOption {
	return func(r *RetrySender) {
		if d > 0 {
			r.baseDelay = d
		}
	}
}

// WithRetryLogger sets the logger for per-attempt failure records.
func WithRetryLogger(log *slog.Logger) RetryOption {
	return func(r *RetrySender) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRetrySender wraps next with the default policy of 2 attempts and a
// 1-second backoff unit.
func NewRetrySender(next Sender, opts ...RetryOption) *RetrySender {
	r := &RetrySender{
		next:        next,
		maxAttempts: 2,
		baseDelay:   time.Second,
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SendEmail attempts delivery until one attempt succeeds or the budget is
// exhausted, returning the last attempt's error. Attempts are strictly
// sequential; the next one never starts before the previous failure and its
// backoff delay.
func (r *RetrySender) SendEmail(ctx context.Context, params SendEmailParams) error {
	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		lastErr = r.next.SendEmail(ctx, params)
		if lastErr == nil {
			return nil
		}

		r.log.WarnContext(ctx, "email send attempt failed",
			slog.Int("attempt", attempt),
			slog.String("send_to", params.SendTo),
			slog.String("subject", params.Subject),
			slog.Any("error", lastErr),
		)

		if attempt < r.maxAttempts {
			if err := r.sleep(ctx, time.Duration(attempt)*r.baseDelay); err != nil {
				return lastErr
			}
		}
	}
	return lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
