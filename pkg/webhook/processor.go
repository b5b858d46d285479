package webhook

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/inboxlab/mailroom/pkg/metrics"
	"github.com/inboxlab/mailroom/pkg/monitoring"
	"github.com/inboxlab/mailroom/pkg/suppression"
)

// Complaint-rate alerting thresholds: the check only arms after enough
// sends to be statistically meaningful, then fires whenever the lifetime
// complaint rate exceeds the percentage threshold.
const (
	alertMinSends             = 100
	alertComplaintRatePercent = 0.1
)

// Processor applies one verified, parsed provider event: metrics first,
// then bounce/complaint bookkeeping and auto-suppression.
type Processor struct {
	store    suppression.Store
	sink     metrics.Sink
	observer monitoring.Observer
	log      *slog.Logger

	// Lifetime counters backing the complaint-rate alert. Separate from
	// the sink so alerting does not depend on which sink implementation
	// is plugged in.
	mu         sync.Mutex
	sent       uint64
	complained uint64
}

// ProcessorOption overrides Processor defaults.
type ProcessorOption func(*Processor)

// WithObserver attaches a monitoring backend.
func WithObserver(o monitoring.Observer) ProcessorOption {
	return func(p *Processor) {
		if o != nil {
			p.observer = o
		}
	}
}

// WithLogger sets the processor logger.
func WithLogger(log *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		if log != nil {
			p.log = log
		}
	}
}

// NewProcessor creates a Processor writing to the given store and metrics
// sink.
func NewProcessor(store suppression.Store, sink metrics.Sink, opts ...ProcessorOption) *Processor {
	p := &Processor{
		store:    store,
		sink:     sink,
		observer: monitoring.Nop{},
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process classifies the event and applies its side effects. Storage
// failures are logged and swallowed: the provider already delivered the
// event, and retrying it would redo the metrics without fixing the store.
func (p *Processor) Process(ctx context.Context, ev Event) {
	switch ev.Type {
	case EventSent:
		p.sink.Inc(metrics.CounterSent)
		p.bump(&p.sent)
	case EventDelivered:
		p.sink.Inc(metrics.CounterDelivered)
	case EventBounced:
		p.sink.Inc(metrics.CounterBounced)
		p.handleBounce(ctx, ev.Data)
	case EventComplained:
		p.sink.Inc(metrics.CounterComplained)
		p.bump(&p.complained)
		p.handleComplaint(ctx, ev.Data)
		p.checkComplaintRate(ctx)
	case EventOpened:
		p.sink.Inc(metrics.CounterOpened)
	case EventClicked:
		p.sink.Inc(metrics.CounterClicked)
	default:
		p.log.DebugContext(ctx, "ignoring unrecognized webhook event",
			slog.String("type", ev.Type),
		)
	}
}

func (p *Processor) handleBounce(ctx context.Context, data EventData) {
	email := data.Recipient()
	if email == "" {
		p.log.WarnContext(ctx, "bounce event without recipient",
			slog.String("message_id", data.EmailID),
		)
		return
	}

	if err := p.store.RecordBounce(ctx, email, data.Reason, data.Type, data.EmailID); err != nil {
		p.log.ErrorContext(ctx, "failed to record bounce",
			slog.String("email", email),
			slog.Any("error", err),
		)
		p.observer.CaptureError(ctx, err, map[string]any{"email": email, "event": EventBounced})
	}

	// Soft bounces are transient (full mailbox, greylisting) and must not
	// poison the address permanently.
	if data.Type != BounceHard {
		p.log.InfoContext(ctx, "soft bounce recorded",
			slog.String("email", email),
			slog.String("reason", data.Reason),
		)
		return
	}

	if err := p.store.UpsertSuppression(ctx, email, "", suppression.ReasonHardBounce); err != nil {
		p.log.ErrorContext(ctx, "failed to suppress hard-bounced address",
			slog.String("email", email),
			slog.Any("error", err),
		)
		p.observer.CaptureError(ctx, err, map[string]any{"email": email, "event": EventBounced})
		return
	}

	p.log.InfoContext(ctx, "address auto-suppressed after hard bounce",
		slog.String("email", email),
		slog.String("reason", data.Reason),
	)
}

func (p *Processor) handleComplaint(ctx context.Context, data EventData) {
	email := data.Recipient()
	if email == "" {
		p.log.WarnContext(ctx, "complaint event without recipient",
			slog.String("message_id", data.EmailID),
		)
		return
	}

	if err := p.store.RecordComplaint(ctx, email, data.Reason, data.EmailID); err != nil {
		p.log.ErrorContext(ctx, "failed to record complaint",
			slog.String("email", email),
			slog.Any("error", err),
		)
		p.observer.CaptureError(ctx, err, map[string]any{"email": email, "event": EventComplained})
	}

	// Complaints suppress unconditionally: the recipient told their
	// provider our mail is spam.
	if err := p.store.UpsertSuppression(ctx, email, "", suppression.ReasonSpamComplaint); err != nil {
		p.log.ErrorContext(ctx, "failed to suppress complained address",
			slog.String("email", email),
			slog.Any("error", err),
		)
		p.observer.CaptureError(ctx, err, map[string]any{"email": email, "event": EventComplained})
		return
	}

	p.log.InfoContext(ctx, "address auto-suppressed after complaint",
		slog.String("email", email),
	)
}

func (p *Processor) bump(counter *uint64) {
	p.mu.Lock()
	*counter++
	p.mu.Unlock()
}

func (p *Processor) checkComplaintRate(ctx context.Context) {
	p.mu.Lock()
	sent, complained := p.sent, p.complained
	p.mu.Unlock()

	if sent <= alertMinSends {
		return
	}
	rate := float64(complained) / float64(sent) * 100
	if rate <= alertComplaintRatePercent {
		return
	}

	p.log.ErrorContext(ctx, "complaint rate above threshold",
		slog.Float64("rate_percent", rate),
		slog.Uint64("sent", sent),
		slog.Uint64("complained", complained),
	)
	p.observer.CaptureMessage(ctx, monitoring.SeverityError, "complaint rate above threshold", map[string]any{
		"rate_percent": rate,
		"sent":         sent,
		"complained":   complained,
	})
}
