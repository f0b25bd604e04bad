// Package metrics exposes notification-service counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts consumed events and mail outcomes.
type Metrics struct {
	EventsConsumed *prometheus.CounterVec
	EventsSkipped  prometheus.Counter
	MailSent       prometheus.Counter
	MailFailed     prometheus.Counter
}

// New registers the notification metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EventsConsumed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "notification_events_consumed_total",
			Help: "Events consumed from the broker, by event type.",
		}, []string{"event_type"}),
		EventsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "notification_events_skipped_total",
			Help: "Events acknowledged without action (undecodable or unknown type).",
		}),
		MailSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "notification_mail_sent_total",
			Help: "Emails delivered to the SMTP relay.",
		}),
		MailFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "notification_mail_failed_total",
			Help: "Email deliveries that errored.",
		}),
	}
}
