package event

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts publisher outcomes.
type Metrics struct {
	Published prometheus.Counter
	Dropped   prometheus.Counter
	Failed    prometheus.Counter
}

// NewMetrics registers publisher metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Published: factory.NewCounter(prometheus.CounterOpts{
			Name: "cloudcart_events_published_total",
			Help: "Events successfully handed to the broker.",
		}),
		Dropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "cloudcart_events_dropped_total",
			Help: "Events dropped because the outbound buffer was full.",
		}),
		Failed: factory.NewCounter(prometheus.CounterOpts{
			Name: "cloudcart_events_failed_total",
			Help: "Events that exhausted publish retries.",
		}),
	}
}
