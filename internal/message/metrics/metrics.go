package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics of the message core.
type Metrics struct {
	MessagesIngested    prometheus.Counter
	MessagesUpdated     prometheus.Counter
	HistoryItemsWritten prometheus.Counter
	AuditWriteFailures  prometheus.Counter
}

// New creates and registers all message metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		MessagesIngested: promauto.NewCounter(prometheus.CounterOpts{
			Name: "formdesk_messages_ingested_total",
			Help: "Total number of submissions classified and stored",
		}),
		MessagesUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "formdesk_messages_updated_total",
			Help: "Total number of successful message updates",
		}),
		HistoryItemsWritten: promauto.NewCounter(prometheus.CounterOpts{
			Name: "formdesk_history_items_written_total",
			Help: "Total number of audit history items persisted",
		}),
		AuditWriteFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "formdesk_audit_write_failures_total",
			Help: "History item inserts that failed after a successful primary write",
		}),
	}
}
