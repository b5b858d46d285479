// Package metrics defines the counter sink used by the delivery pipeline.
//
// Counters are advisory telemetry: they live in process memory (or a
// Prometheus registry) and reset on restart. Suppression decisions never read
// them; the suppression store is the only source of truth for who may be
// mailed.
package metrics

// Counter names incremented by the pipeline. One webhook event maps to at
// most one counter.
const (
	CounterSent       = "email_sent"
	CounterDelivered  = "email_delivered"
	CounterBounced    = "email_bounced"
	CounterComplained = "email_complained"
	CounterOpened     = "email_opened"
	CounterClicked    = "email_clicked"
)

// Sink receives counter increments. Implementations must be safe for
// concurrent use.
type Sink interface {
	Inc(counter string)
}

// Nop discards all increments.
type Nop struct{}

func (Nop) Inc(string) {}
