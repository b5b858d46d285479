// Package mailer is the outbound entry point of the email pipeline. It
// attaches unsubscribe headers where required, delegates delivery to the
// transport, and reports telemetry. It performs no retries of its own; the
// transport decorator owns that policy.
package mailer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"

	"github.com/inboxlab/mailroom/pkg/email"
	"github.com/inboxlab/mailroom/pkg/metrics"
	"github.com/inboxlab/mailroom/pkg/monitoring"
	"github.com/inboxlab/mailroom/pkg/unsubscribe"
)

// Standard unsubscribe headers attached to bulk mail (RFC 2369, RFC 8058).
const (
	headerListUnsubscribe     = "List-Unsubscribe"
	headerListUnsubscribePost = "List-Unsubscribe-Post"

	oneClickValue = "List-Unsubscribe=One-Click"
)

// Config holds orchestrator configuration.
type Config struct {
	// SiteBaseURL is the public origin serving the unsubscribe endpoint,
	// e.g. "https://example.com".
	SiteBaseURL string `env:"SITE_BASE_URL,required"`
	// MailDomain hosts the mailto unsubscribe fallback address.
	MailDomain string `env:"MAIL_DOMAIN,required"`
	// FromEmail is the default sender identity.
	FromEmail string `env:"SENDER_EMAIL,required"`
}

// SendOptions describes one outbound email request.
type SendOptions struct {
	To      string
	Subject string
	HTML    string
	Headers map[string]string
	// From overrides the configured default sender.
	From string
	// Bulk marks marketing/broadcast mail, which always carries
	// unsubscribe headers.
	Bulk bool
	// Unsubscribe forces unsubscribe headers on mail that is not Bulk.
	Unsubscribe bool
	// UserID scopes the unsubscribe token to an account when known.
	UserID string
	// Tag is an optional provider-side classification label.
	Tag string
}

// Result is the outcome of a send, mirroring the transport's final verdict
// after its retry budget.
type Result struct {
	Success bool
	Err     error
}

// Mailer orchestrates outbound sends.
type Mailer struct {
	sender   email.Sender
	codec    *unsubscribe.Codec
	cfg      Config
	sink     metrics.Sink
	observer monitoring.Observer
	log      *slog.Logger
}

// Option overrides Mailer defaults.
type Option func(*Mailer)

// WithMetrics attaches a metrics sink.
func WithMetrics(s metrics.Sink) Option {
	return func(m *Mailer) {
		if s != nil {
			m.sink = s
		}
	}
}

// WithObserver attaches a monitoring backend.
func WithObserver(o monitoring.Observer) Option {
	return func(m *Mailer) {
		if o != nil {
			m.observer = o
		}
	}
}

// WithLogger sets the mailer logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Mailer) {
		if log != nil {
			m.log = log
		}
	}
}

// New creates a Mailer on top of a transport and an unsubscribe codec.
func New(sender email.Sender, codec *unsubscribe.Codec, cfg Config, opts ...Option) *Mailer {
	m := &Mailer{
		sender:   sender,
		codec:    codec,
		cfg:      cfg,
		sink:     metrics.Nop{},
		observer: monitoring.Nop{},
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Send delivers one email. Bulk mail (or mail explicitly flagged for
// unsubscribe) gets a signed one-click unsubscribe link; caller-supplied
// headers always win over generated ones.
func (m *Mailer) Send(ctx context.Context, opts SendOptions) Result {
	headers := make(map[string]string, len(opts.Headers)+2)

	if opts.Bulk || opts.Unsubscribe {
		if err := m.attachUnsubscribeHeaders(headers, opts.To, opts.UserID); err != nil {
			// A send that cannot carry its legally required unsubscribe
			// link must not go out.
			m.log.ErrorContext(ctx, "failed to build unsubscribe headers",
				slog.String("send_to", opts.To),
				slog.Any("error", err),
			)
			m.observer.CaptureError(ctx, err, map[string]any{"send_to": opts.To})
			return Result{Success: false, Err: err}
		}
	}
	maps.Copy(headers, opts.Headers)

	m.observer.Breadcrumb(ctx, "mailer", "sending email", map[string]any{
		"send_to": opts.To,
		"subject": opts.Subject,
		"bulk":    opts.Bulk,
	})

	err := m.sender.SendEmail(ctx, email.SendEmailParams{
		From:     opts.From,
		SendTo:   opts.To,
		Subject:  opts.Subject,
		BodyHTML: opts.HTML,
		Headers:  headers,
		Tag:      opts.Tag,
	})
	if err != nil {
		m.log.ErrorContext(ctx, "email send failed",
			slog.String("send_to", opts.To),
			slog.String("subject", opts.Subject),
			slog.Any("error", err),
		)
		m.observer.CaptureError(ctx, err, map[string]any{"send_to": opts.To, "subject": opts.Subject})
		return Result{Success: false, Err: err}
	}

	m.sink.Inc(metrics.CounterSent)
	m.log.InfoContext(ctx, "email sent",
		slog.String("send_to", opts.To),
		slog.String("subject", opts.Subject),
		slog.Bool("bulk", opts.Bulk),
	)
	return Result{Success: true}
}

func (m *Mailer) attachUnsubscribeHeaders(headers map[string]string, to, userID string) error {
	tok, err := m.codec.Issue(to, userID)
	if err != nil {
		return fmt.Errorf("issue unsubscribe token: %w", err)
	}

	headers[headerListUnsubscribe] = fmt.Sprintf("<%s/api/email/unsubscribe/%s>, <mailto:unsubscribe@%s>",
		m.cfg.SiteBaseURL, tok, m.cfg.MailDomain)
	headers[headerListUnsubscribePost] = oneClickValue
	return nil
}
