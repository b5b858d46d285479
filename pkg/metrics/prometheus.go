package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus is a Sink that exposes pipeline counters through a Prometheus
// registry, keyed by an "event" label so a single counter family covers the
// whole delivery lifecycle.
type Prometheus struct {
	events *prometheus.CounterVec
}

// NewPrometheus registers the counter family on the given registerer.
// Pass prometheus.DefaultRegisterer to publish on the default /metrics
// handler.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	return &Prometheus{
		events: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "mailroom",
			Name:      "email_events_total",
			Help:      "Email delivery lifecycle events observed via provider webhooks and outbound sends.",
		}, []string{"event"}),
	}
}

func (p *Prometheus) Inc(counter string) {
	p.events.WithLabelValues(counter).Inc()
}
