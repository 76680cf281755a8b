package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics of the notification dispatcher.
type Metrics struct {
	EmailsSent   prometheus.Counter
	EmailsFailed prometheus.Counter
}

// NewMetrics creates and registers all notification metrics on the default
// registry.
func NewMetrics() *Metrics {
	return &Metrics{
		EmailsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "formdesk_emails_sent_total",
			Help: "Total number of notification emails sent (dry-run included)",
		}),
		EmailsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "formdesk_emails_failed_total",
			Help: "Total number of notification emails that failed to send",
		}),
	}
}
