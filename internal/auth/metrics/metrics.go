// Package metrics holds Prometheus metrics for the auth service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all auth service metrics.
type Metrics struct {
	UsersCreated  prometheus.Counter
	TokensIssued  prometheus.Counter
	VerifyResults *prometheus.CounterVec
}

// New registers auth metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UsersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "cloudcart_users_created_total",
			Help: "Total number of users created.",
		}),
		TokensIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "cloudcart_tokens_issued_total",
			Help: "Total number of session tokens issued.",
		}),
		VerifyResults: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cloudcart_token_verifications_total",
			Help: "Token verification requests by result.",
		}, []string{"result"}),
	}
}

// ObserveVerify records one verification outcome.
func (m *Metrics) ObserveVerify(ok bool) {
	result := "fail"
	if ok {
		result = "success"
	}
	m.VerifyResults.WithLabelValues(result).Inc()
}
