package webhook

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
)

// Handler is the HTTP face of the webhook pipeline:
// read body -> verify signature -> dedup -> parse -> process -> 200.
//
// Status mapping is deliberate: 401 only for signature failures, 400 for
// unparseable bodies, 500 when the verifier itself is absent. Everything
// past verification acknowledges with 200 even if storage misbehaved,
// because a non-2xx would only make the provider redeliver an event we
// already consumed.
type Handler struct {
	verifier  *Verifier
	processor *Processor
	deduper   Deduper
	log       *slog.Logger
}

// HandlerOption overrides Handler defaults.
type HandlerOption func(*Handler)

// WithDeduper installs delivery-id deduplication.
func WithDeduper(d Deduper) HandlerOption {
	return func(h *Handler) {
		if d != nil {
			h.deduper = d
		}
	}
}

// WithHandlerLogger sets the handler logger.
func WithHandlerLogger(log *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if log != nil {
			h.log = log
		}
	}
}

// NewHandler builds the webhook endpoint. A nil verifier is tolerated at
// construction (the deployment may intentionally run without the webhook)
// but every request then fails with 500.
func NewHandler(verifier *Verifier, processor *Processor, opts ...HandlerOption) *Handler {
	h := &Handler{
		verifier:  verifier,
		processor: processor,
		deduper:   NopDeduper{},
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.verifier == nil {
		h.log.ErrorContext(ctx, "webhook received but signing secret is not configured")
		http.Error(w, "Webhook not configured", http.StatusInternalServerError)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	headers := FromHTTP(r.Header.Get)
	if err := h.verifier.Verify(headers, body); err != nil {
		h.log.WarnContext(ctx, "webhook signature rejected",
			slog.String("svix_id", headers.ID),
			slog.Any("error", err),
		)
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	seen, err := h.deduper.Seen(ctx, headers.ID)
	if err != nil {
		// Dedup is an optimization; a broken deduper degrades to
		// at-least-once processing.
		h.log.WarnContext(ctx, "webhook dedup check failed, processing anyway",
			slog.String("svix_id", headers.ID),
			slog.Any("error", err),
		)
	} else if seen {
		h.log.InfoContext(ctx, "duplicate webhook delivery skipped",
			slog.String("svix_id", headers.ID),
		)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
		return
	}

	ev, err := ParseEvent(body)
	if err != nil {
		if errors.Is(err, ErrMalformedEvent) {
			http.Error(w, "Malformed event payload", http.StatusBadRequest)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.log.InfoContext(ctx, "webhook event received",
		slog.String("type", ev.Type),
		slog.String("svix_id", headers.ID),
		slog.String("email", ev.Data.Recipient()),
	)

	h.processor.Process(ctx, ev)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
